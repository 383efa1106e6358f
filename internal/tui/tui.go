package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yuhnmomo/magictrain/internal/save"
	"github.com/yuhnmomo/magictrain/internal/session"
)

// Run starts the full-screen UI and blocks until the player quits.
func Run(orch *session.Orchestrator, gateway *save.Gateway, hasSave bool) error {
	app := NewApp(orch, gateway, hasSave)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
