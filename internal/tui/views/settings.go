package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yuhnmomo/magictrain/internal/session"
)

var (
	settingsTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B9D")).
				MarginBottom(1)

	settingsLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8dadc")).
				Bold(true).
				Width(10)

	settingsValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee"))

	settingsWarnStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B")).
				Bold(true)

	settingsHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				MarginTop(1)

	settingsToastStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8e6cf")).
				Bold(true).
				MarginTop(1)
)

// EditPersonaMsg asks the app to reopen the persona wizard with the
// current player loaded.
type EditPersonaMsg struct{}

// SettingsModel shows the player profile and the save-file actions.
type SettingsModel struct {
	orch *session.Orchestrator

	confirmReset bool
	toast        string
	width        int
	height       int
}

// NewSettingsModel creates the settings view.
func NewSettingsModel(orch *session.Orchestrator) SettingsModel {
	return SettingsModel{orch: orch}
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetToast shows the outcome of an app-level action.
func (m *SettingsModel) SetToast(text string) {
	m.toast = text
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.confirmReset {
		m.confirmReset = false
		if key.String() == "y" {
			return m, func() tea.Msg { return ResetRequestMsg{} }
		}
		m.toast = "已取消重置。"
		return m, nil
	}

	switch key.String() {
	case "p":
		return m, func() tea.Msg { return EditPersonaMsg{} }
	case "e":
		m.toast = ""
		return m, func() tea.Msg { return ExportRequestMsg{} }
	case "r":
		m.confirmReset = true
		return m, nil
	}
	return m, nil
}

// View renders the settings.
func (m SettingsModel) View() string {
	var b strings.Builder
	b.WriteString(settingsTitleStyle.Render("⚙ 設定") + "\n")

	p := m.orch.Player()
	if p != nil {
		row := func(label, value string) {
			b.WriteString(settingsLabelStyle.Render(label) + settingsValueStyle.Render(value) + "\n")
		}
		row("姓名", p.Name)
		row("暱稱", p.Nickname)
		row("稱呼", p.Salutation)
		row("性別", p.Gender)
		row("星座", p.Zodiac)
		row("外觀", fmt.Sprintf("%s (%s)", p.Appearance.Name, p.Appearance.Description))
		row("天賦", fmt.Sprintf("觀察%d 洞察%d 體魄%d 社交%d",
			p.Attributes.Observation, p.Attributes.Insight, p.Attributes.Body, p.Attributes.Social))
	}

	if m.confirmReset {
		b.WriteString("\n" + settingsWarnStyle.Render("確定要刪除所有進度並重新開始嗎？ y 確認 / 其他鍵取消"))
		return b.String()
	}

	if m.toast != "" {
		b.WriteString(settingsToastStyle.Render(m.toast))
	}
	b.WriteString("\n" + settingsHelpStyle.Render("p 編輯角色  e 匯出存檔  r 全部重置"))
	return b.String()
}
