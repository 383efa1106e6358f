package relationship

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelOfBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Level
	}{
		{-1.0, Hostile},
		{-0.1, Hostile},
		{0, Stranger},
		{0.9, Stranger},
		{1.0, Acquaintance},
		{1.9, Acquaintance},
		{2.0, Friendly},
		{3.0, Trusted},
		{4.0, Intimate},
		{4.9, Intimate},
		{5.0, Destined},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, LevelOf(tc.score), "score %v", tc.score)
	}
}

func TestLevelLabels(t *testing.T) {
	require.Equal(t, "陌生", Stranger.Label())
	require.Equal(t, "命定", Destined.Label())
	require.Equal(t, "Hostile", Hostile.String())
}

func TestApplyClampsBothEnds(t *testing.T) {
	l := NewLedger()

	_, updated := l.Apply("npc01", -3)
	require.Equal(t, Min, updated)

	for i := 0; i < 10; i++ {
		_, updated = l.Apply("npc01", 1)
	}
	require.Equal(t, Max, updated)
}

func TestApplyReportsOldAndNew(t *testing.T) {
	l := NewLedger()
	l.Apply("npc01", 1.9)

	old, updated := l.Apply("npc01", 0.2)
	require.InDelta(t, 1.9, old, 1e-9)
	require.InDelta(t, 2.1, updated, 1e-9)
	require.NotEqual(t, LevelOf(old), LevelOf(updated))
}

func TestZeroDeltaKeepsScore(t *testing.T) {
	l := NewLedger()
	l.Apply("npc01", 2.5)

	old, updated := l.Apply("npc01", 0)
	require.Equal(t, old, updated)
}

func TestUnknownCharacterReadsZero(t *testing.T) {
	l := NewLedger()
	require.Zero(t, l.Get("nobody"))
	require.Equal(t, Stranger, LevelOf(l.Get("nobody")))
}

func TestNewLedgerFromClamps(t *testing.T) {
	l := NewLedgerFrom(map[string]float64{
		"a": 7,
		"b": -4,
		"c": 2.2,
	})
	require.Equal(t, Max, l.Get("a"))
	require.Equal(t, Min, l.Get("b"))
	require.InDelta(t, 2.2, l.Get("c"), 1e-9)
}

func TestSnapshotIsACopy(t *testing.T) {
	l := NewLedger()
	l.Apply("a", 1)

	snap := l.Snapshot()
	snap["a"] = 99
	require.InDelta(t, 1.0, l.Get("a"), 1e-9)
}
