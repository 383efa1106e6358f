package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yuhnmomo/magictrain/internal/game"
)

var testCharacter = &game.Character{
	ID:       "npc01",
	Name:     "亞瑟‧格雷 (Arthur Gray)",
	Greeting: "晚安，旅客。",
}

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
}

func counterID() func() string {
	n := 0
	return func() string {
		n++
		return string(rune('a' + n - 1))
	}
}

func TestEnsureGreetingSeedsEmptyLog(t *testing.T) {
	s := NewStore()
	s.EnsureGreeting("npc01", testCharacter, counterID(), fixedClock)

	log := s.Get("npc01")
	require.Len(t, log, 1)
	require.Equal(t, "晚安，旅客。", log[0].Text)
	require.Equal(t, game.SenderModel, log[0].Sender)
	require.Equal(t, game.KindChat, log[0].Kind)
	require.Equal(t, fixedClock(), log[0].Timestamp)
}

func TestEnsureGreetingLeavesExistingLog(t *testing.T) {
	s := NewStore()
	s.Append("npc01", game.ChatMessage{ID: "1", Kind: game.KindChat, Text: "你好", Sender: game.SenderUser})

	s.EnsureGreeting("npc01", testCharacter, counterID(), fixedClock)
	require.Equal(t, 1, s.Len("npc01"))
	require.Equal(t, "你好", s.Get("npc01")[0].Text)
}

func TestAppendKeepsOrder(t *testing.T) {
	s := NewStore()
	for _, text := range []string{"一", "二", "三"} {
		s.Append("npc01", game.ChatMessage{Text: text})
	}

	log := s.Get("npc01")
	require.Equal(t, []string{"一", "二", "三"}, []string{log[0].Text, log[1].Text, log[2].Text})
}

func TestResetClearsOnlyOneCharacter(t *testing.T) {
	s := NewStore()
	s.Append("npc01", game.ChatMessage{Text: "a"})
	s.Append("npc02", game.ChatMessage{Text: "b"})

	s.Reset("npc01")
	require.Zero(t, s.Len("npc01"))
	require.Equal(t, 1, s.Len("npc02"))
}

func TestResetThenGreetingReseeds(t *testing.T) {
	s := NewStore()
	s.Append("npc01", game.ChatMessage{Text: "舊訊息"})
	s.Reset("npc01")
	s.EnsureGreeting("npc01", testCharacter, counterID(), fixedClock)

	log := s.Get("npc01")
	require.Len(t, log, 1)
	require.Equal(t, testCharacter.Greeting, log[0].Text)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Append("npc01", game.ChatMessage{Text: "原始"})

	snap := s.Snapshot()
	snap["npc01"][0].Text = "篡改"
	require.Equal(t, "原始", s.Get("npc01")[0].Text)
}

func TestNewStoreFromCopiesInput(t *testing.T) {
	seed := map[string][]game.ChatMessage{
		"npc01": {{Text: "種子"}},
	}
	s := NewStoreFrom(seed)
	seed["npc01"][0].Text = "改動"
	require.Equal(t, "種子", s.Get("npc01")[0].Text)
}
