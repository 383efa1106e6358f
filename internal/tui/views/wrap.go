// Package views provides the individual views for the unified TUI.
package views

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText wraps s to the given display width. Chinese text carries no
// spaces, so wrapping works rune by rune with display widths; existing
// newlines are kept.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		var current strings.Builder
		currentWidth := 0
		for _, r := range line {
			rw := runewidth.RuneWidth(r)
			if currentWidth+rw > width && currentWidth > 0 {
				lines = append(lines, current.String())
				current.Reset()
				currentWidth = 0
			}
			current.WriteRune(r)
			currentWidth += rw
		}
		lines = append(lines, current.String())
	}
	return strings.Join(lines, "\n")
}
