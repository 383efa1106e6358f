package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yuhnmomo/magictrain/internal/game"
	"github.com/yuhnmomo/magictrain/internal/session"
)

var (
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B9D")).
				Background(lipgloss.Color("#1a1a2e")).
				Padding(0, 1)

	statusPlayerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8dadc")).
				MarginBottom(1)

	rosterItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee")).
			Padding(0, 1)

	rosterSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 1)

	rosterDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true).
			Padding(0, 1)

	rosterLevelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8e6cf"))

	statusHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

// StatusModel lists the roster with relationship standings and selects
// the active conversation partner.
type StatusModel struct {
	orch     *session.Orchestrator
	selected int
	offset   int
	width    int
	height   int
}

// NewStatusModel creates the roster view.
func NewStatusModel(orch *session.Orchestrator) StatusModel {
	return StatusModel{orch: orch}
}

// SetSize updates the view dimensions.
func (m *StatusModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	roster := m.orch.Roster()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selected < len(roster)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "g", "home":
			m.selected = 0
		case "G", "end":
			m.selected = len(roster) - 1
		case "enter":
			if m.selected < len(roster) {
				id := roster[m.selected].ID
				return m, func() tea.Msg { return CharacterSelectedMsg{ID: id} }
			}
		}
	}
	return m, nil
}

// View renders the roster.
func (m StatusModel) View() string {
	roster := m.orch.Roster()
	player := m.orch.Player()

	var b strings.Builder
	b.WriteString(statusTitleStyle.Render("🚂 乘客名冊與關係狀態") + "\n\n")
	if player != nil {
		b.WriteString(statusPlayerStyle.Render(fmt.Sprintf(
			"玩家：%s (%s / %s)  ⭐ %s  🔥 情慾 %d/100",
			player.Name, player.Nickname, player.Salutation, player.Zodiac, player.Lust)) + "\n")
	}

	// Two lines per entry plus header; keep the cursor visible.
	visible := (m.height - 6) / 2
	if visible < 3 {
		visible = 3
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+visible {
		m.offset = m.selected - visible + 1
	}

	end := m.offset + visible
	if end > len(roster) {
		end = len(roster)
	}
	for i := m.offset; i < end; i++ {
		ch := roster[i]
		score, level := m.orch.Favorability(ch.ID)
		line := fmt.Sprintf("%s %s  ❤ %.1f %s",
			ch.Avatar, ch.Name, score, rosterLevelStyle.Render("【"+level.Label()+"】"))
		if i == m.selected {
			b.WriteString(rosterSelectedStyle.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(rosterItemStyle.Render("  "+line) + "\n")
		}
		desc := ch.Description
		if ch.Attributes != (game.Attributes{}) {
			desc += fmt.Sprintf("〔觀察%d 洞察%d 體魄%d 社交%d〕",
				ch.Attributes.Observation, ch.Attributes.Insight,
				ch.Attributes.Body, ch.Attributes.Social)
		}
		if desc == "" {
			desc = " "
		}
		b.WriteString(rosterDescStyle.Render("    "+wrapFirstLine(desc, m.width-6)) + "\n")
	}

	b.WriteString(statusHelpStyle.Render(fmt.Sprintf("%d/%d  j/k 移動  enter 開始對話", m.selected+1, len(roster))))
	return b.String()
}

// wrapFirstLine truncates to a single display line.
func wrapFirstLine(s string, width int) string {
	wrapped := wrapText(s, width)
	if i := strings.IndexByte(wrapped, '\n'); i >= 0 {
		return wrapped[:i] + "…"
	}
	return wrapped
}
