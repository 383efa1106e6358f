// Package session drives the game: it owns the mutable state, runs chat
// turns against the language model, applies the parsed relationship
// deltas and persists after every mutation.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/yuhnmomo/magictrain/internal/catalog"
	"github.com/yuhnmomo/magictrain/internal/game"
	"github.com/yuhnmomo/magictrain/internal/history"
	"github.com/yuhnmomo/magictrain/internal/llm"
	"github.com/yuhnmomo/magictrain/internal/parser"
	"github.com/yuhnmomo/magictrain/internal/relationship"
	"github.com/yuhnmomo/magictrain/internal/save"
)

// Config tunes the conversation mechanics.
type Config struct {
	// SummaryThreshold is the message-counter value at which an
	// automatic summary replaces further counting.
	SummaryThreshold int
	// LustResetOnSwitch zeroes the player's lust when the active
	// character changes.
	LustResetOnSwitch bool
}

// DefaultConfig matches the original game's behavior.
func DefaultConfig() Config {
	return Config{SummaryThreshold: 8, LustResetOnSwitch: true}
}

// Persister stores the serialized game document. *save.Gateway is the
// production implementation.
type Persister interface {
	Save(doc *save.Document) error
}

// ErrBusy reports that a turn is already running for the character.
var ErrBusy = errors.New("a reply is already pending for this character")

// ErrNoPlayer reports that no player persona exists yet.
var ErrNoPlayer = errors.New("no player has been created")

// aiUnavailableText is shown in place of a reply when the model call
// fails. The turn still lands in the log so the player sees what
// happened.
const aiUnavailableText = "抱歉，我現在無法回應。請稍後再試。"

// Orchestrator is the single authority over game state. All exported
// methods are safe for concurrent use.
type Orchestrator struct {
	mu  sync.Mutex
	cfg Config
	log *slog.Logger

	catalog *catalog.Catalog
	client  llm.Client
	store   Persister

	now   func() time.Time
	newID func() string

	player    *game.Player
	history   *history.Store
	ledger    *relationship.Ledger
	counters  map[string]int
	notebooks map[string]string
	activeID  string
	inflight  map[string]bool
}

// Option adjusts an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithClock substitutes the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDSource substitutes the message id generator.
func WithIDSource(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

// New builds an orchestrator with empty state.
func New(cfg Config, cat *catalog.Catalog, client llm.Client, store Persister, log *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:       cfg,
		log:       log,
		catalog:   cat,
		client:    client,
		store:     store,
		now:       time.Now,
		history:   history.NewStore(),
		ledger:    relationship.NewLedger(),
		counters:  make(map[string]int),
		notebooks: make(map[string]string),
		inflight:  make(map[string]bool),
	}
	var seq int64
	o.newID = func() string {
		seq++
		return strconv.FormatInt(o.now().UnixNano()+seq, 10)
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Hydrate replaces all state with a loaded document.
func (o *Orchestrator) Hydrate(doc *save.Document) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.player = doc.Player
	o.history = history.NewStoreFrom(doc.ChatHistories)
	o.ledger = relationship.NewLedgerFrom(doc.Favorability)
	o.counters = make(map[string]int, len(doc.MessageCounters))
	for id, c := range doc.MessageCounters {
		o.counters[id] = c
	}
	o.notebooks = make(map[string]string, len(doc.Notebooks))
	for id, n := range doc.Notebooks {
		o.notebooks[id] = n
	}
	o.activeID = doc.ActiveCharacter
}

// StartNewGame installs a freshly created player persona.
func (o *Orchestrator) StartNewGame(p *game.Player) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.player = p
	o.history = history.NewStore()
	o.ledger = relationship.NewLedger()
	o.counters = make(map[string]int)
	o.notebooks = make(map[string]string)
	o.activeID = ""
	return o.persistLocked()
}

// UpdatePlayer applies edited identity fields. Lust is state, not
// identity, so the current value survives the edit.
func (o *Orchestrator) UpdatePlayer(p game.Player) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return ErrNoPlayer
	}
	p.Lust = o.player.Lust
	o.player = &p
	return o.persistLocked()
}

// Player returns a copy of the current player, nil when absent.
func (o *Orchestrator) Player() *game.Player {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return nil
	}
	p := *o.player
	return &p
}

// ActiveCharacter returns the selected roster member, nil when none.
func (o *Orchestrator) ActiveCharacter() *game.Character {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.catalog.ByID(o.activeID)
}

// Character resolves a roster member by id, nil when unknown.
func (o *Orchestrator) Character(id string) *game.Character {
	return o.catalog.ByID(id)
}

// Roster returns the full character roster in catalog order.
func (o *Orchestrator) Roster() []game.Character {
	return o.catalog.All()
}

// Catalog exposes the fixed roster catalog.
func (o *Orchestrator) Catalog() *catalog.Catalog {
	return o.catalog
}

// History returns the log for a character.
func (o *Orchestrator) History(characterID string) []game.ChatMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.history.Get(characterID)
}

// Favorability returns the score and level for a character.
func (o *Orchestrator) Favorability(characterID string) (float64, relationship.Level) {
	o.mu.Lock()
	defer o.mu.Unlock()
	score := o.ledger.Get(characterID)
	return score, relationship.LevelOf(score)
}

// FavorabilitySnapshot returns every tracked score.
func (o *Orchestrator) FavorabilitySnapshot() map[string]float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ledger.Snapshot()
}

// Notebook returns the saved notes for a character.
func (o *Orchestrator) Notebook(characterID string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.notebooks[characterID]
}

// SaveNotebook overwrites a character's notes.
func (o *Orchestrator) SaveNotebook(characterID, note string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notebooks[characterID] = note
	return o.persistLocked()
}

// SelectCharacter makes a roster member the active conversation
// partner, seeding the greeting on first contact.
func (o *Orchestrator) SelectCharacter(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	ch := o.catalog.ByID(id)
	if ch == nil {
		return fmt.Errorf("unknown character %q", id)
	}
	if o.activeID != id {
		if o.cfg.LustResetOnSwitch && o.player != nil {
			o.player.Lust = 0
		}
		o.activeID = id
	}
	o.history.EnsureGreeting(id, ch, o.newID, o.now)
	return o.persistLocked()
}

// TurnResult reports what one chat turn appended and changed.
type TurnResult struct {
	Reply        game.ChatMessage
	Milestone    *game.ChatMessage
	Summary      *game.ChatMessage
	Favorability float64
	Level        relationship.Level
	Lust         int
}

// SendMessage runs a full turn with the named character: append the
// player's message, obtain the model's reply, parse it, apply deltas
// and run the automatic summary when due. The model calls happen
// outside the state lock; results are keyed to characterID so a slow
// reply lands on the right log even after a switch.
func (o *Orchestrator) SendMessage(ctx context.Context, characterID, text string) (*TurnResult, error) {
	o.mu.Lock()
	if o.player == nil {
		o.mu.Unlock()
		return nil, ErrNoPlayer
	}
	ch := o.catalog.ByID(characterID)
	if ch == nil {
		o.mu.Unlock()
		return nil, fmt.Errorf("unknown character %q", characterID)
	}
	if o.inflight[characterID] {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	o.inflight[characterID] = true

	priorHistory := o.history.Get(characterID)
	o.history.Append(characterID, game.ChatMessage{
		ID:        o.newID(),
		Kind:      game.KindChat,
		Text:      text,
		Sender:    game.SenderUser,
		Timestamp: o.now(),
	})
	input := llm.TurnInput{
		Character:    ch,
		Player:       o.player,
		Favorability: o.ledger.Get(characterID),
		History:      priorHistory,
		Notebook:     o.notebooks[characterID],
		Message:      text,
	}
	if err := o.persistLocked(); err != nil {
		o.log.Warn("persisting user message", "error", err)
	}
	o.mu.Unlock()

	raw, err := o.client.Chat(ctx, input)

	o.mu.Lock()
	defer func() {
		delete(o.inflight, characterID)
		o.mu.Unlock()
	}()

	if err != nil {
		o.log.Error("model call failed", "character", characterID, "error", err)
		reply := game.ChatMessage{
			ID:        o.newID(),
			Kind:      game.KindChat,
			Text:      aiUnavailableText,
			Sender:    game.SenderModel,
			Timestamp: o.now(),
		}
		o.history.Append(characterID, reply)
		if perr := o.persistLocked(); perr != nil {
			o.log.Warn("persisting error reply", "error", perr)
		}
		return &TurnResult{
			Reply:        reply,
			Favorability: o.ledger.Get(characterID),
			Level:        relationship.LevelOf(o.ledger.Get(characterID)),
			Lust:         o.player.Lust,
		}, nil
	}

	parsed := parser.Parse(raw)
	reply := game.ChatMessage{
		ID:               o.newID(),
		Kind:             game.KindChat,
		Text:             parsed.DisplayText,
		Sender:           game.SenderModel,
		Timestamp:        o.now(),
		PlayerThought:    parsed.PlayerThought,
		CharacterThought: parsed.CharacterThought,
		StoryHint:        parsed.StoryHint,
	}
	o.history.Append(characterID, reply)

	result := &TurnResult{Reply: reply}

	if parsed.FavorabilityDelta != nil {
		old, updated := o.ledger.Apply(characterID, *parsed.FavorabilityDelta)
		if lvl := relationship.LevelOf(updated); lvl != relationship.LevelOf(old) {
			m := game.ChatMessage{
				ID:        o.newID(),
				Kind:      game.KindMilestone,
				Text:      fmt.Sprintf("好感度等級變化：%s → %s", relationship.LevelOf(old).Label(), lvl.Label()),
				Sender:    game.SenderSystem,
				Timestamp: o.now(),
			}
			o.history.Append(characterID, m)
			result.Milestone = &m
		}
	}
	if parsed.LustDelta != nil {
		o.player.Lust = game.ClampLust(o.player.Lust + *parsed.LustDelta)
	}

	counter := o.counters[characterID] + 2
	lustRose := parsed.LustDelta != nil && *parsed.LustDelta > 0

	switch {
	case counter >= o.cfg.SummaryThreshold && !lustRose:
		result.Summary = o.summarizeLocked(ctx, ch, characterID, counter)
	case lustRose:
		o.counters[characterID] = 0
	default:
		o.counters[characterID] = counter
	}

	result.Favorability = o.ledger.Get(characterID)
	result.Level = relationship.LevelOf(result.Favorability)
	result.Lust = o.player.Lust

	if err := o.persistLocked(); err != nil {
		o.log.Warn("persisting turn", "error", err)
	}
	return result, nil
}

// summarizeLocked runs the automatic summary for a due counter. The
// summary lands both in the chat log and, timestamped, at the top of
// the notebook. The model call drops the lock. On failure the counter
// keeps its value so the next turn retries; the chat itself is already
// safe in the log.
func (o *Orchestrator) summarizeLocked(ctx context.Context, ch *game.Character, characterID string, counter int) *game.ChatMessage {
	in := llm.SummaryInput{
		Character: ch,
		Player:    o.player,
		Messages:  o.history.Get(characterID),
	}
	o.mu.Unlock()
	text, err := o.client.Summarize(ctx, in)
	o.mu.Lock()

	if err != nil {
		o.log.Warn("summary skipped", "character", characterID, "error", err)
		o.counters[characterID] = counter
		return nil
	}
	msg := game.ChatMessage{
		ID:        o.newID(),
		Kind:      game.KindSummary,
		Text:      text,
		Sender:    game.SenderSystem,
		Timestamp: o.now(),
	}
	o.history.Append(characterID, msg)
	entry := fmt.Sprintf("--- 自動摘要 (%s) ---\n%s\n\n", o.now().Format("2006/1/2 15:04:05"), text)
	o.notebooks[characterID] = entry + o.notebooks[characterID]
	o.counters[characterID] = 0
	return &msg
}

// RestartConversation summarizes the conversation into the notebook,
// clears the log and counter, zeroes lust and reseeds the greeting.
// Favorability survives the restart.
func (o *Orchestrator) RestartConversation(ctx context.Context, characterID string) error {
	o.mu.Lock()
	if o.player == nil {
		o.mu.Unlock()
		return ErrNoPlayer
	}
	ch := o.catalog.ByID(characterID)
	if ch == nil {
		o.mu.Unlock()
		return fmt.Errorf("unknown character %q", characterID)
	}

	var finalSummary string
	if o.history.Len(characterID) > 1 {
		in := llm.SummaryInput{
			Character: ch,
			Player:    o.player,
			Messages:  o.history.Get(characterID),
		}
		o.mu.Unlock()
		text, err := o.client.Summarize(ctx, in)
		o.mu.Lock()
		if err != nil {
			o.mu.Unlock()
			return fmt.Errorf("summarizing before restart: %w", err)
		}
		finalSummary = text
	}
	defer o.mu.Unlock()

	if finalSummary != "" {
		entry := fmt.Sprintf("--- 對話重置前的最終摘要 (%s) ---\n%s\n\n", o.now().Format("2006/1/2 15:04:05"), finalSummary)
		o.notebooks[characterID] = entry + o.notebooks[characterID]
	}
	o.history.Reset(characterID)
	delete(o.counters, characterID)
	o.player.Lust = 0
	o.history.EnsureGreeting(characterID, ch, o.newID, o.now)
	return o.persistLocked()
}

// ErrTooShort reports a conversation with nothing worth summarizing.
var ErrTooShort = errors.New("the conversation is too short to summarize")

// ManualSummary summarizes the current conversation into the notebook
// without touching the log or the counter.
func (o *Orchestrator) ManualSummary(ctx context.Context, characterID string) error {
	o.mu.Lock()
	if o.player == nil {
		o.mu.Unlock()
		return ErrNoPlayer
	}
	ch := o.catalog.ByID(characterID)
	if ch == nil {
		o.mu.Unlock()
		return fmt.Errorf("unknown character %q", characterID)
	}
	if o.history.Len(characterID) <= 1 {
		o.mu.Unlock()
		return ErrTooShort
	}
	in := llm.SummaryInput{
		Character: ch,
		Player:    o.player,
		Messages:  o.history.Get(characterID),
	}
	o.mu.Unlock()

	text, err := o.client.Summarize(ctx, in)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		return fmt.Errorf("generating manual summary: %w", err)
	}
	entry := fmt.Sprintf("--- 手動摘要 (%s) ---\n%s\n\n", o.now().Format("2006/1/2 15:04:05"), text)
	o.notebooks[characterID] = entry + o.notebooks[characterID]
	return o.persistLocked()
}

// ResetAll wipes every piece of game state. The caller is expected to
// delete the stored save as well.
func (o *Orchestrator) ResetAll() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.player = nil
	o.history = history.NewStore()
	o.ledger = relationship.NewLedger()
	o.counters = make(map[string]int)
	o.notebooks = make(map[string]string)
	o.activeID = ""
}

// Document snapshots the full state for persistence.
func (o *Orchestrator) Document() *save.Document {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.documentLocked()
}

func (o *Orchestrator) documentLocked() *save.Document {
	return &save.Document{
		Player:          o.player,
		ChatHistories:   o.history.Snapshot(),
		ActiveCharacter: o.activeID,
		Favorability:    o.ledger.Snapshot(),
		MessageCounters: copyMap(o.counters),
		Notebooks:       copyMap(o.notebooks),
		LastPlayed:      o.now(),
	}
}

func (o *Orchestrator) persistLocked() error {
	if o.player == nil {
		return nil
	}
	return o.store.Save(o.documentLocked())
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
