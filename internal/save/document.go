// Package save persists the full game state as a single JSON document
// in a local SQLite database, and moves the same document in and out of
// plain files for backup.
package save

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yuhnmomo/magictrain/internal/game"
)

// Document is the persisted game state. Field names match the on-disk
// JSON so exported files stay interchangeable across versions.
type Document struct {
	Player          *game.Player                  `json:"player"`
	ChatHistories   map[string][]game.ChatMessage `json:"chatHistories"`
	ActiveCharacter string                        `json:"activeCharacterId,omitempty"`
	Favorability    map[string]float64            `json:"favorabilityData"`
	MessageCounters map[string]int                `json:"messageCounters"`
	Notebooks       map[string]string             `json:"notebooks"`
	LastPlayed      time.Time                     `json:"lastPlayed"`
}

// decode parses and migrates a raw document. A document without a
// player or chat histories is not a save at all and is rejected.
func decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing save data: %w", err)
	}
	if doc.Player == nil || doc.ChatHistories == nil {
		return nil, fmt.Errorf("save data is missing player or chat histories")
	}
	migrate(&doc)
	return &doc, nil
}

// migrate upgrades older documents in place. Entries written before
// the kind field existed default to plain chat; absent maps become
// empty ones so callers never see nil.
func migrate(doc *Document) {
	for id, msgs := range doc.ChatHistories {
		for i := range msgs {
			if msgs[i].Kind == "" {
				msgs[i].Kind = game.KindChat
			}
		}
		doc.ChatHistories[id] = msgs
	}
	if doc.Favorability == nil {
		doc.Favorability = make(map[string]float64)
	}
	if doc.MessageCounters == nil {
		doc.MessageCounters = make(map[string]int)
	}
	if doc.Notebooks == nil {
		doc.Notebooks = make(map[string]string)
	}
}
