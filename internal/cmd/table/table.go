// Package table converts command results to rows for the table formatter.
package table

import (
	"strings"
	"unicode/utf8"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// Truncate shortens s to max runes, ending with "...".
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max || max < 4 {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}

// OrDash returns "-" for empty strings.
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
