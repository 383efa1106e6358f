// Package history keeps the per-character ordered chat logs.
package history

import (
	"time"

	"github.com/yuhnmomo/magictrain/internal/game"
)

// Store holds one append-only message sequence per character. It never
// reorders or deduplicates; Reset is the only destructive operation and the
// caller is responsible for extracting any summary beforehand.
type Store struct {
	logs map[string][]game.ChatMessage
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{logs: make(map[string][]game.ChatMessage)}
}

// NewStoreFrom seeds a store with existing logs, e.g. from a loaded save.
func NewStoreFrom(logs map[string][]game.ChatMessage) *Store {
	s := NewStore()
	for id, msgs := range logs {
		s.logs[id] = append([]game.ChatMessage(nil), msgs...)
	}
	return s
}

// Append adds an entry to the end of a character's log.
func (s *Store) Append(characterID string, msg game.ChatMessage) {
	s.logs[characterID] = append(s.logs[characterID], msg)
}

// Get returns the ordered log for a character, nil if never initialized.
func (s *Store) Get(characterID string) []game.ChatMessage {
	return s.logs[characterID]
}

// Len returns the number of entries in a character's log.
func (s *Store) Len(characterID string) int {
	return len(s.logs[characterID])
}

// Reset clears a character's log entirely.
func (s *Store) Reset(characterID string) {
	delete(s.logs, characterID)
}

// EnsureGreeting seeds an empty log with the character's greeting as the
// sole entry, sender model. Non-empty logs are left untouched.
func (s *Store) EnsureGreeting(characterID string, ch *game.Character, newID func() string, now func() time.Time) {
	if len(s.logs[characterID]) > 0 {
		return
	}
	s.Append(characterID, game.ChatMessage{
		ID:        newID(),
		Kind:      game.KindChat,
		Text:      ch.Greeting,
		Sender:    game.SenderModel,
		Timestamp: now(),
	})
}

// Snapshot copies all logs for persistence.
func (s *Store) Snapshot() map[string][]game.ChatMessage {
	out := make(map[string][]game.ChatMessage, len(s.logs))
	for id, msgs := range s.logs {
		out[id] = append([]game.ChatMessage(nil), msgs...)
	}
	return out
}
