package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yuhnmomo/magictrain/internal/save"
	"github.com/yuhnmomo/magictrain/internal/session"
	"github.com/yuhnmomo/magictrain/internal/tui/views"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewLoad ViewType = iota
	ViewCreation
	ViewChat
	ViewRoster
	ViewNotebook
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// AppModel is the main unified TUI model
type AppModel struct {
	orch    *session.Orchestrator
	gateway *save.Gateway

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool
	hasSave       bool
	editingPlayer bool

	// Sub-models (views)
	creationView views.CreationModel
	chatView     views.ChatModel
	rosterView   views.StatusModel
	notebookView views.NotebookModel
	settingsView views.SettingsModel
}

// NewApp creates the TUI application. hasSave controls whether the
// load screen offers to continue.
func NewApp(orch *session.Orchestrator, gateway *save.Gateway, hasSave bool) AppModel {
	menuItems := []MenuItem{
		{Label: "聊天", View: ViewChat, Shortcut: "1"},
		{Label: "名冊", View: ViewRoster, Shortcut: "2"},
		{Label: "筆記", View: ViewNotebook, Shortcut: "3"},
		{Label: "設定", View: ViewSettings, Shortcut: "4"},
	}

	app := AppModel{
		orch:         orch,
		gateway:      gateway,
		sidebarWidth: 14,
		currentView:  ViewLoad,
		menuItems:    menuItems,
		hasSave:      hasSave,

		creationView: views.NewCreationModel(orch.Catalog()),
		chatView:     views.NewChatModel(orch),
		rosterView:   views.NewStatusModel(orch),
		notebookView: views.NewNotebookModel(orch),
		settingsView: views.NewSettingsModel(orch),
	}
	if !hasSave {
		app.currentView = ViewCreation
	}
	return app
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// inGame reports whether the sidebar views are reachable yet.
func (m AppModel) inGame() bool {
	return m.currentView != ViewLoad && m.currentView != ViewCreation
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewLoad {
			switch msg.String() {
			case "enter", "c":
				m.switchTo(ViewChat)
				m.syncActive()
				return m, nil
			case "n":
				m.orch.ResetAll()
				if m.gateway != nil {
					m.gateway.Delete()
				}
				m.currentView = ViewCreation
				return m, nil
			case "q":
				return m, tea.Quit
			}
			return m, nil
		}

		if m.inGame() {
			switch msg.String() {
			case "esc":
				if m.sidebarActive {
					return m, tea.Quit
				}
				m.sidebarActive = true
				return m, nil
			case "tab":
				m.sidebarActive = !m.sidebarActive
				return m, nil
			case "1", "2", "3", "4":
				for i, item := range m.menuItems {
					if item.Shortcut == msg.String() {
						m.selectedMenu = i
						m.switchTo(item.View)
						m.sidebarActive = false
						break
					}
				}
				return m, nil
			}

			if m.sidebarActive {
				switch msg.String() {
				case "j", "down":
					if m.selectedMenu < len(m.menuItems)-1 {
						m.selectedMenu++
					}
					return m, nil
				case "k", "up":
					if m.selectedMenu > 0 {
						m.selectedMenu--
					}
					return m, nil
				case "q":
					return m, tea.Quit
				case "enter", "l", "right":
					m.switchTo(m.menuItems[m.selectedMenu].View)
					m.sidebarActive = false
					return m, nil
				}
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2

		m.creationView.SetSize(contentWidth, contentHeight)
		m.chatView.SetSize(contentWidth, contentHeight)
		m.rosterView.SetSize(contentWidth, contentHeight)
		m.notebookView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		return m, nil

	case views.CreationDoneMsg:
		var err error
		if m.editingPlayer {
			err = m.orch.UpdatePlayer(msg.Player)
		} else {
			err = m.orch.StartNewGame(&msg.Player)
		}
		m.editingPlayer = false
		if err != nil {
			m.settingsView.SetToast("儲存角色時發生錯誤。")
		}
		m.selectedMenu = 1
		m.switchTo(ViewRoster)
		return m, nil

	case views.CharacterSelectedMsg:
		if err := m.orch.SelectCharacter(msg.ID); err != nil {
			return m, nil
		}
		m.selectedMenu = 0
		m.switchTo(ViewChat)
		return m, nil

	case views.EditPersonaMsg:
		if p := m.orch.Player(); p != nil {
			m.editingPlayer = true
			m.creationView = views.NewCreationModel(m.orch.Catalog())
			m.creationView.SetSize(m.width-m.sidebarWidth-4, m.height-2)
			m.creationView.Prefill(*p)
			m.currentView = ViewCreation
		}
		return m, nil

	case views.ExportRequestMsg:
		if path, err := m.gateway.Export("."); err != nil {
			m.settingsView.SetToast("匯出存檔失敗。")
		} else {
			m.settingsView.SetToast("存檔已匯出：" + path)
		}
		return m, nil

	case views.ResetRequestMsg:
		m.orch.ResetAll()
		if m.gateway != nil {
			m.gateway.Delete()
		}
		m.editingPlayer = false
		m.currentView = ViewCreation
		m.creationView = views.NewCreationModel(m.orch.Catalog())
		m.creationView.SetSize(m.width-m.sidebarWidth-4, m.height-2)
		return m, nil
	}

	// Delegate to active view if not in sidebar mode
	if !m.sidebarActive {
		var cmd tea.Cmd
		switch m.currentView {
		case ViewCreation:
			m.creationView, cmd = m.creationView.Update(msg)
		case ViewChat:
			m.chatView, cmd = m.chatView.Update(msg)
		case ViewRoster:
			m.rosterView, cmd = m.rosterView.Update(msg)
		case ViewNotebook:
			m.notebookView, cmd = m.notebookView.Update(msg)
		case ViewSettings:
			m.settingsView, cmd = m.settingsView.Update(msg)
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// switchTo changes the active view and refreshes its data.
func (m *AppModel) switchTo(v ViewType) {
	m.currentView = v
	m.syncActive()
}

// syncActive pushes the active character into the views that track one.
func (m *AppModel) syncActive() {
	if ch := m.orch.ActiveCharacter(); ch != nil {
		m.chatView.SetCharacter(ch.ID)
		m.notebookView.SetCharacter(ch.ID)
	}
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLoad {
		return m.renderLoadScreen()
	}

	content := ""
	switch m.currentView {
	case ViewCreation:
		content = m.creationView.View()
	case ViewChat:
		content = m.chatView.View()
	case ViewRoster:
		content = m.rosterView.View()
	case ViewNotebook:
		content = m.notebookView.View()
	case ViewSettings:
		content = m.settingsView.View()
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	if m.currentView == ViewCreation {
		// The wizard fills the window; no sidebar until the game starts.
		return mainContent
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), mainContent)
}

// renderSidebar renders the sidebar navigation
func (m AppModel) renderSidebar() string {
	var items []string

	items = append(items, SidebarTitleStyle.Render(" 魔法列車 "))
	items = append(items, "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		var style lipgloss.Style
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		} else {
			style = SidebarItemStyle
		}
		items = append(items, style.Render(label))
	}

	usedHeight := len(items) + 4
	if m.height > usedHeight {
		for i := 0; i < m.height-usedHeight-2; i++ {
			items = append(items, "")
		}
	}
	items = append(items, SidebarHelpStyle.Render("esc 離開"))

	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(content)
}

// renderLoadScreen offers to continue the stored game or start over.
func (m AppModel) renderLoadScreen() string {
	box := BoxStyle.Render(
		TitleStyle.Render("🚂 魔法列車") + "\n\n" +
			SubtitleStyle.Render("偵測到既有的旅程存檔。") + "\n\n" +
			ValueStyle.Render("enter 繼續旅程") + "\n" +
			ValueStyle.Render("n     開始新遊戲") + "\n" +
			HelpStyle.Render("q     離開"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
