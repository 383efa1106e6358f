// Package game provides the core types shared across the Magic Train game.
package game

import "time"

// MessageSender identifies who produced a chat message.
type MessageSender string

const (
	SenderUser   MessageSender = "user"
	SenderModel  MessageSender = "model"
	SenderSystem MessageSender = "system"
)

// MessageKind distinguishes ordinary chat entries from synthetic ones.
type MessageKind string

const (
	KindChat      MessageKind = "chat"      // regular conversation turn
	KindSummary   MessageKind = "summary"   // AI-generated conversation digest
	KindMilestone MessageKind = "milestone" // favorability level transition marker
)

// Lust bounds. Lust belongs to the player and moves only through parsed
// AI deltas, clamped to this range.
const (
	LustMin = 0
	LustMax = 100
)

// ChatMessage is one entry in a character's conversation log. Entries are
// immutable once appended; IsLoading is the only transient marker and is
// never persisted as true.
type ChatMessage struct {
	ID               string        `json:"id"`
	Kind             MessageKind   `json:"type"`
	Text             string        `json:"text"`
	Sender           MessageSender `json:"sender"`
	Timestamp        time.Time     `json:"timestamp"`
	IsLoading        bool          `json:"isLoading,omitempty"`
	PlayerThought    string        `json:"playerThought,omitempty"`
	CharacterThought string        `json:"characterThought,omitempty"`
	StoryHint        string        `json:"storyHint,omitempty"`
}

// Character is one roster member. Loaded from the catalog at startup and
// never mutated at runtime.
type Character struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`                               // display name, e.g. "亞瑟‧格雷 (Arthur Gray)"
	Avatar      string `yaml:"avatar,omitempty" json:"avatar,omitempty"`       // emoji or URL
	Persona     string `yaml:"persona" json:"persona"`                         // system-instruction fragment defining the character
	Greeting    string `yaml:"greeting" json:"greeting"`                       // first message, chosen at catalog build time
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Attributes are the talent scores shown in the roster. Only the
	// passenger roster carries them; core characters stay zero.
	Attributes Attributes `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// ShortName returns the name without the romanized suffix, the form used
// inside prompts and summaries.
func (c *Character) ShortName() string {
	for i, r := range c.Name {
		if r == '(' {
			for i > 0 && c.Name[i-1] == ' ' {
				i--
			}
			return c.Name[:i]
		}
	}
	return c.Name
}

// Attributes are the four charm scores derived from an appearance:
// observation, insight, body and social, each in 1..4. They are read-only
// once the appearance is chosen.
type Attributes struct {
	Observation int `yaml:"o" json:"O"`
	Insight     int `yaml:"i" json:"I"`
	Body        int `yaml:"b" json:"B"`
	Social      int `yaml:"s" json:"S"`
}

// Appearance is one option from the fixed appearance catalog.
type Appearance struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Attributes  Attributes `yaml:"attributes" json:"attributes"`
}

// Player is the persona created by the player at game start. Identity
// fields change only through the settings screen; Lust changes only through
// parsed AI deltas.
type Player struct {
	Gender     string     `json:"gender"` // 男 or 女
	Name       string     `json:"name"`
	Nickname   string     `json:"nickname"`
	Salutation string     `json:"salutation"`
	Zodiac     string     `json:"zodiac"`
	Appearance Appearance `json:"appearance"`
	Attributes Attributes `json:"attributes"`
	Lust       int        `json:"lust"`
	Avatar     string     `json:"avatar,omitempty"`
}

// ClampLust keeps v inside the legal lust range.
func ClampLust(v int) int {
	if v < LustMin {
		return LustMin
	}
	if v > LustMax {
		return LustMax
	}
	return v
}
