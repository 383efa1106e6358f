package views

import (
	"github.com/yuhnmomo/magictrain/internal/game"
	"github.com/yuhnmomo/magictrain/internal/session"
)

// CharacterSelectedMsg asks the app to open a chat with a character.
type CharacterSelectedMsg struct {
	ID string
}

// CreationDoneMsg carries the finished player persona out of the
// creation wizard.
type CreationDoneMsg struct {
	Player game.Player
}

// TurnDoneMsg reports a completed chat turn. CharacterID identifies the
// conversation the result belongs to, which may no longer be the one on
// screen.
type TurnDoneMsg struct {
	CharacterID string
	Result      *session.TurnResult
	Err         error
}

// ToastMsg shows a transient status line.
type ToastMsg struct {
	Text string
}

// ExportRequestMsg asks the app to export the save file.
type ExportRequestMsg struct{}

// ResetRequestMsg asks the app to wipe all game state.
type ResetRequestMsg struct{}
