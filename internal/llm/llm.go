// Package llm talks to the language model behind the characters. The
// rest of the app depends only on the Client interface; the Gemini
// implementation lives alongside it.
package llm

import (
	"context"

	"github.com/yuhnmomo/magictrain/internal/game"
)

// TurnInput is everything a single chat turn needs: who is speaking,
// to whom, the conversation so far, and the relationship numbers that
// shape the character's tone.
type TurnInput struct {
	Character    *game.Character
	Player       *game.Player
	Favorability float64
	History      []game.ChatMessage
	// Notebook holds the player's saved notes about this character and
	// rides along as extra context for the reply.
	Notebook string
	Message  string
}

// SummaryInput carries a conversation stretch to be condensed.
type SummaryInput struct {
	Character *game.Character
	Player    *game.Player
	Messages  []game.ChatMessage
}

// Client produces in-character replies and conversation summaries.
type Client interface {
	Chat(ctx context.Context, in TurnInput) (string, error)
	Summarize(ctx context.Context, in SummaryInput) (string, error)
}
