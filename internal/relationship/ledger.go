// Package relationship tracks per-character favorability and maps scores to
// named relationship levels.
package relationship

// Favorability bounds. Scores are clamped, never rejected.
const (
	Min = -1.0
	Max = 5.0
)

// Level is a named favorability bucket.
type Level int

const (
	Hostile Level = iota
	Stranger
	Acquaintance
	Friendly
	Trusted
	Intimate
	Destined
)

var levelNames = [...]string{
	Hostile:      "Hostile",
	Stranger:     "Stranger",
	Acquaintance: "Acquaintance",
	Friendly:     "Friendly",
	Trusted:      "Trusted",
	Intimate:     "Intimate",
	Destined:     "Destined",
}

var levelLabels = [...]string{
	Hostile:      "敵對",
	Stranger:     "陌生",
	Acquaintance: "認識",
	Friendly:     "友好",
	Trusted:      "信賴",
	Intimate:     "親密",
	Destined:     "命定",
}

func (l Level) String() string { return levelNames[l] }

// Label returns the Traditional Chinese display name shown in the UI.
func (l Level) Label() string { return levelLabels[l] }

// LevelOf buckets a score into a level. Buckets are half-open: a score of
// exactly 1.0 is already Acquaintance, and only 5.0 itself is Destined.
func LevelOf(score float64) Level {
	switch {
	case score < 0:
		return Hostile
	case score < 1:
		return Stranger
	case score < 2:
		return Acquaintance
	case score < 3:
		return Friendly
	case score < 4:
		return Trusted
	case score < 5:
		return Intimate
	default:
		return Destined
	}
}

// Ledger maps character ids to favorability scores. The zero score means
// Stranger; absent characters read as zero. The ledger emits no events of
// its own: callers compare LevelOf before and after Apply to detect level
// transitions.
type Ledger struct {
	scores map[string]float64
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{scores: make(map[string]float64)}
}

// NewLedgerFrom creates a ledger seeded with existing scores, clamping each
// into the legal range.
func NewLedgerFrom(scores map[string]float64) *Ledger {
	l := NewLedger()
	for id, s := range scores {
		l.scores[id] = clamp(s)
	}
	return l
}

// Get returns the favorability for a character, 0 if never touched.
func (l *Ledger) Get(characterID string) float64 {
	return l.scores[characterID]
}

// Apply adds delta to a character's favorability and clamps the result.
// A zero delta is legal and rewrites the same value. Both the previous and
// the new score are returned so the caller can detect level changes.
func (l *Ledger) Apply(characterID string, delta float64) (old, updated float64) {
	old = l.scores[characterID]
	updated = clamp(old + delta)
	l.scores[characterID] = updated
	return old, updated
}

// Snapshot copies the ledger's scores for persistence.
func (l *Ledger) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(l.scores))
	for id, s := range l.scores {
		out[id] = s
	}
	return out
}

func clamp(v float64) float64 {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}
