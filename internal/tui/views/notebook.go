package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yuhnmomo/magictrain/internal/clipboard"
	"github.com/yuhnmomo/magictrain/internal/session"
)

var (
	notebookTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#4ecdc4")).
				MarginBottom(1)

	notebookHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				MarginTop(1)

	notebookToastStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8e6cf")).
				Bold(true).
				MarginTop(1)
)

// NotebookModel edits the per-character notes that summaries accumulate
// into.
type NotebookModel struct {
	orch *session.Orchestrator

	area        textarea.Model
	characterID string
	toast       string
	width       int
	height      int
}

// NewNotebookModel creates the notebook view.
func NewNotebookModel(orch *session.Orchestrator) NotebookModel {
	ta := textarea.New()
	ta.Placeholder = "這裡還沒有任何筆記。"
	ta.CharLimit = 0
	return NotebookModel{orch: orch, area: ta}
}

// SetSize updates the view dimensions.
func (m *NotebookModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.area.SetWidth(width - 4)
	m.area.SetHeight(height - 6)
}

// SetCharacter loads another character's notes.
func (m *NotebookModel) SetCharacter(id string) {
	m.characterID = id
	m.toast = ""
	m.area.SetValue(m.orch.Notebook(id))
	m.area.Focus()
}

// Update handles messages.
func (m NotebookModel) Update(msg tea.Msg) (NotebookModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			if err := m.orch.SaveNotebook(m.characterID, m.area.Value()); err != nil {
				m.toast = "儲存筆記時發生錯誤。"
			} else {
				m.toast = "筆記已儲存。"
			}
			return m, nil
		case "ctrl+y":
			if !clipboard.Available() {
				m.toast = "找不到剪貼簿工具。"
				return m, nil
			}
			if err := clipboard.Write(m.area.Value()); err != nil {
				m.toast = "無法複製到剪貼簿。"
			} else {
				m.toast = "筆記已複製到剪貼簿。"
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

// View renders the notebook.
func (m NotebookModel) View() string {
	if m.characterID == "" {
		return notebookHelpStyle.Render("尚未選擇角色。按 2 前往乘客名冊。")
	}
	ch := m.orch.Character(m.characterID)
	title := "📖 筆記本"
	if ch != nil {
		title = fmt.Sprintf("📖 筆記本：%s", ch.ShortName())
	}

	out := notebookTitleStyle.Render(title) + "\n" + m.area.View()
	if m.toast != "" {
		out += "\n" + notebookToastStyle.Render(m.toast)
	} else {
		out += "\n" + notebookHelpStyle.Render("ctrl+s 儲存  ctrl+y 複製全部")
	}
	return out
}
