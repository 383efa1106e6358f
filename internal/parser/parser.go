// Package parser extracts the structured side-channel signals a character
// response may carry (favorability and lust deltas, inner thoughts, story
// hints) and strips them so raw control syntax never reaches the player.
//
// Three response encodings appeared across generations of the persona
// prompts, and the model cannot be trusted to stick to one of them, so all
// three are normalized into a single Result:
//
//   - inline bracket tags:   哈囉 [FAVORABILITY: +0.1] [LUST: -5]
//   - line-prefixed fields:  PLAYER_THOUGHT: ... / STORY_HINT: ...
//   - a leading 💭 thought-bubble block followed by the narrative body
package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Result is the merged outcome of parsing one raw response. Delta fields
// are nil when the response signaled nothing, which is different from
// signaling a zero change.
type Result struct {
	DisplayText       string
	FavorabilityDelta *float64
	LustDelta         *int
	PlayerThought     string
	CharacterThought  string
	StoryHint         string
}

var inlineTagRe = regexp.MustCompile(`(?i)\[\s*(FAVORABILITY|LUST)\s*:\s*([^\]]*)\]`)

// linePrefixes in match order. THOUGHT is a legacy alias for
// CHARACTER_THOUGHT and must be checked after the longer prefixes.
var linePrefixes = []string{
	"PLAYER_THOUGHT:",
	"CHARACTER_THOUGHT:",
	"STORY_HINT:",
	"FAVORABILITY:",
	"LUST:",
	"THOUGHT:",
}

// Parse normalizes a raw model response. Malformed numeric payloads are
// stripped from the display text but treated as absent, never as errors.
func Parse(raw string) Result {
	var res Result

	rest := extractThoughtBlock(raw, &res)
	rest = extractPrefixedLines(rest, &res)
	rest = extractInlineTags(rest, &res)

	res.DisplayText = strings.TrimSpace(rest)
	return res
}

// extractThoughtBlock handles the leading 💭 block encoding: exactly two
// thought lines at the very start (player first, then character), a blank
// line, then the narrative body. Anything else is plain narrative.
func extractThoughtBlock(raw string, res *Result) string {
	lines := strings.Split(raw, "\n")
	if len(lines) < 3 {
		return raw
	}

	player, ok1 := thoughtLine(lines[0])
	character, ok2 := thoughtLine(lines[1])
	if !ok1 || !ok2 || strings.TrimSpace(lines[2]) != "" {
		return raw
	}

	res.PlayerThought = player
	res.CharacterThought = character
	return strings.Join(lines[3:], "\n")
}

// thoughtLine parses a `💭 <name>：<text>` line, tolerating an ASCII colon.
func thoughtLine(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "💭") {
		return "", false
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "💭"))

	idx := strings.IndexAny(s, "：:")
	if idx < 0 {
		return "", false
	}
	_, size := utf8.DecodeRuneInString(s[idx:])
	return strings.TrimSpace(s[idx+size:]), true
}

func extractPrefixedLines(text string, res *Result) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		prefix, payload, ok := matchPrefix(trimmed)
		if !ok {
			kept = append(kept, line)
			continue
		}
		switch prefix {
		case "PLAYER_THOUGHT:":
			res.PlayerThought = payload
		case "CHARACTER_THOUGHT:", "THOUGHT:":
			res.CharacterThought = payload
		case "STORY_HINT:":
			res.StoryHint = payload
		case "FAVORABILITY:":
			addFavorability(payload, res)
		case "LUST:":
			addLust(payload, res)
		}
	}
	return strings.Join(kept, "\n")
}

func matchPrefix(line string) (prefix, payload string, ok bool) {
	for _, p := range linePrefixes {
		if len(line) >= len(p) && strings.EqualFold(line[:len(p)], p) {
			return p, strings.TrimSpace(line[len(p):]), true
		}
	}
	return "", "", false
}

func extractInlineTags(text string, res *Result) string {
	return inlineTagRe.ReplaceAllStringFunc(text, func(tag string) string {
		m := inlineTagRe.FindStringSubmatch(tag)
		payload := strings.TrimSpace(m[2])
		switch strings.ToUpper(m[1]) {
		case "FAVORABILITY":
			addFavorability(payload, res)
		case "LUST":
			addLust(payload, res)
		}
		return ""
	})
}

// addFavorability accumulates a favorability payload; repeated signals sum.
func addFavorability(payload string, res *Result) {
	v, err := strconv.ParseFloat(strings.TrimPrefix(payload, "+"), 64)
	if err != nil {
		return
	}
	if res.FavorabilityDelta == nil {
		res.FavorabilityDelta = new(float64)
	}
	*res.FavorabilityDelta += v
}

// addLust accumulates a lust payload. Lust is an integer scale but decimal
// payloads occasionally appear; they round to the nearest step.
func addLust(payload string, res *Result) {
	v, err := strconv.ParseFloat(strings.TrimPrefix(payload, "+"), 64)
	if err != nil {
		return
	}
	if res.LustDelta == nil {
		res.LustDelta = new(int)
	}
	*res.LustDelta += int(math.Round(v))
}
