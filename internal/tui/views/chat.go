package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yuhnmomo/magictrain/internal/clipboard"
	"github.com/yuhnmomo/magictrain/internal/game"
	"github.com/yuhnmomo/magictrain/internal/session"
)

var (
	chatUserStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B9D"))

	chatCharacterStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#4ecdc4"))

	chatThoughtStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Italic(true)

	chatHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Italic(true)

	chatSummaryStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#3d5a80")).
				Foreground(lipgloss.Color("#a8dadc")).
				Padding(0, 1)

	chatMilestoneStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8e6cf")).
				Bold(true)

	chatStatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc"))

	chatInputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ffe66d")).
			Padding(0, 1)

	chatHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	chatToastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)
)

// ChatModel is the conversation view.
type ChatModel struct {
	orch *session.Orchestrator

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	characterID string
	waiting     bool
	toast       string
	width       int
	height      int
	ready       bool
}

// NewChatModel creates the chat view.
func NewChatModel(orch *session.Orchestrator) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "輸入訊息..."
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ChatModel{
		orch:  orch,
		input: ti,
		spin:  sp,
	}
}

// SetSize updates the view dimensions.
func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	vpHeight := height - 7
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.input.Width = width - 6
	m.refresh()
}

// SetCharacter switches the view to another conversation.
func (m *ChatModel) SetCharacter(id string) {
	m.characterID = id
	m.toast = ""
	m.refresh()
	m.viewport.GotoBottom()
}

// Update handles messages.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting || m.characterID == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.toast = ""
			cmds = append(cmds, m.sendTurn(text), m.spin.Tick)
			m.refresh()
			m.viewport.GotoBottom()
			return m, tea.Batch(cmds...)
		case "ctrl+r":
			if m.waiting || m.characterID == "" {
				return m, nil
			}
			m.waiting = true
			return m, tea.Batch(m.restart(), m.spin.Tick)
		case "ctrl+s":
			if m.waiting || m.characterID == "" {
				return m, nil
			}
			m.waiting = true
			return m, tea.Batch(m.manualSummary(), m.spin.Tick)
		case "ctrl+y":
			m.toast = m.copyLastReply()
			return m, nil
		}

	case TurnDoneMsg:
		m.waiting = false
		if msg.Err != nil {
			m.toast = "錯誤：" + msg.Err.Error()
		}
		if msg.CharacterID == m.characterID {
			m.refresh()
			m.viewport.GotoBottom()
		}
		return m, nil

	case ToastMsg:
		m.waiting = false
		m.toast = msg.Text
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m ChatModel) sendTurn(text string) tea.Cmd {
	orch, id := m.orch, m.characterID
	return func() tea.Msg {
		res, err := orch.SendMessage(context.Background(), id, text)
		return TurnDoneMsg{CharacterID: id, Result: res, Err: err}
	}
}

func (m ChatModel) restart() tea.Cmd {
	orch, id := m.orch, m.characterID
	return func() tea.Msg {
		if err := orch.RestartConversation(context.Background(), id); err != nil {
			return ToastMsg{Text: "重置對話時發生錯誤。"}
		}
		return ToastMsg{Text: "對話已重置，摘要已存入筆記本。"}
	}
}

func (m ChatModel) manualSummary() tea.Cmd {
	orch, id := m.orch, m.characterID
	return func() tea.Msg {
		switch err := orch.ManualSummary(context.Background(), id); {
		case err == session.ErrTooShort:
			return ToastMsg{Text: "對話內容太少，無法生成摘要。"}
		case err != nil:
			return ToastMsg{Text: "生成摘要時發生錯誤。"}
		}
		return ToastMsg{Text: "摘要已成功存入筆記本！"}
	}
}

func (m ChatModel) copyLastReply() string {
	if !clipboard.Available() {
		return "找不到剪貼簿工具。"
	}
	msgs := m.orch.History(m.characterID)
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == game.SenderModel && msgs[i].Kind == game.KindChat {
			if err := clipboard.Write(msgs[i].Text); err != nil {
				return "無法複製到剪貼簿。"
			}
			return "已複製最後一則回應。"
		}
	}
	return ""
}

// refresh rebuilds the viewport content from the conversation log.
func (m *ChatModel) refresh() {
	if !m.ready || m.characterID == "" {
		return
	}
	ch := m.orch.Character(m.characterID)
	player := m.orch.Player()
	if ch == nil || player == nil {
		return
	}

	textWidth := m.viewport.Width - 2
	var b strings.Builder
	for _, msg := range m.orch.History(m.characterID) {
		switch msg.Kind {
		case game.KindSummary:
			b.WriteString(chatSummaryStyle.Render(wrapText("📋 對話摘要\n"+msg.Text, textWidth-4)))
		case game.KindMilestone:
			b.WriteString(chatMilestoneStyle.Render(wrapText(msg.Text, textWidth)))
		default:
			name := chatCharacterStyle.Render(ch.ShortName())
			if msg.Sender == game.SenderUser {
				name = chatUserStyle.Render(player.Nickname)
			}
			b.WriteString(name + "\n")
			if msg.PlayerThought != "" {
				b.WriteString(chatThoughtStyle.Render(wrapText("💭 "+msg.PlayerThought, textWidth)) + "\n")
			}
			if msg.CharacterThought != "" {
				b.WriteString(chatThoughtStyle.Render(wrapText("💭 "+msg.CharacterThought, textWidth)) + "\n")
			}
			b.WriteString(wrapText(msg.Text, textWidth))
			if msg.StoryHint != "" {
				b.WriteString("\n" + chatHintStyle.Render(wrapText("✨ "+msg.StoryHint, textWidth)))
			}
		}
		b.WriteString("\n\n")
	}
	m.viewport.SetContent(b.String())
}

// View renders the chat.
func (m ChatModel) View() string {
	if m.characterID == "" {
		return chatHelpStyle.Render("尚未選擇角色。按 2 前往乘客名冊。")
	}
	ch := m.orch.Character(m.characterID)
	player := m.orch.Player()
	if ch == nil || player == nil {
		return chatHelpStyle.Render("尚未選擇角色。按 2 前往乘客名冊。")
	}

	score, level := m.orch.Favorability(m.characterID)
	status := chatStatusStyle.Render(fmt.Sprintf("%s %s  ❤ %.1f (%s)  🔥 %d/100",
		ch.Avatar, ch.ShortName(), score, level.Label(), player.Lust))

	var footer string
	switch {
	case m.waiting:
		footer = m.spin.View() + " 對方正在輸入..."
	case m.toast != "":
		footer = chatToastStyle.Render(m.toast)
	default:
		footer = chatHelpStyle.Render("enter 送出  ctrl+s 摘要  ctrl+r 重置對話  ctrl+y 複製回應")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		m.viewport.View(),
		chatInputStyle.Width(m.width-2).Render(m.input.View()),
		footer,
	)
}
