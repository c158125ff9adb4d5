// Package format provides shared text formatting utilities for terminal output.
package format

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes ANSI escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// Width returns the visible width of s in terminal columns, ignoring ANSI
// escape sequences.
func Width(s string) int {
	return runewidth.StringWidth(StripAnsi(s))
}

// Truncate shortens plain text to at most width columns, ending in "..."
// when cut. Newlines are folded into spaces.
func Truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "...")
}

// PadRight pads s with spaces to width visible columns.
func PadRight(s string, width int) string {
	w := Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Wrap breaks plain text into lines of at most width columns on word
// boundaries. Words longer than width are kept whole.
func Wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if runewidth.StringWidth(line)+1+runewidth.StringWidth(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
