// Package differ compares rendered record details line by line.
// Output follows the familiar "  ", "- ", "+ " line prefixes so diffs can be
// logged and printed as they are.
package differ

import (
	"encoding/json"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ChangeType represents the type of change of a line.
type ChangeType string

const (
	// ChangeTypeEqual marks a line present in both versions.
	ChangeTypeEqual ChangeType = "equal"
	// ChangeTypeAdd marks a line only present in the new version.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeRemove marks a line only present in the old version.
	ChangeTypeRemove ChangeType = "remove"
)

// Prefix returns the two character marker of the change type.
func (c ChangeType) Prefix() string {
	switch c {
	case ChangeTypeAdd:
		return "+ "
	case ChangeTypeRemove:
		return "- "
	default:
		return "  "
	}
}

// Line is a single line of a diff.
type Line struct {
	Type ChangeType `json:"type"`
	Text string     `json:"text"`
}

// String renders the line with its prefix.
func (l Line) String() string {
	return l.Type.Prefix() + l.Text
}

// Diff is the line diff between two texts.
type Diff struct {
	Lines []Line

	old string
	new string
}

// HasChanges reports whether any line was added or removed.
func (d Diff) HasChanges() bool {
	for _, l := range d.Lines {
		if l.Type != ChangeTypeEqual {
			return true
		}
	}
	return false
}

// Counts returns the number of added and removed lines.
func (d Diff) Counts() (added, removed int) {
	for _, l := range d.Lines {
		switch l.Type {
		case ChangeTypeAdd:
			added++
		case ChangeTypeRemove:
			removed++
		}
	}
	return added, removed
}

// Strings returns the prefixed lines.
func (d Diff) Strings() []string {
	out := make([]string, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = l.String()
	}
	return out
}

// String joins the prefixed lines with newlines.
func (d Diff) String() string {
	return strings.Join(d.Strings(), "\n")
}

// MarshalJSON encodes the diff as its prefixed lines.
func (d Diff) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Strings())
}

// MarshalYAML encodes the diff as its prefixed lines.
func (d Diff) MarshalYAML() (any, error) {
	return d.Strings(), nil
}

// Unified renders the diff in unified format with the given file labels.
func (d Diff) Unified(from, to string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(d.old),
		B:        difflib.SplitLines(d.new),
		FromFile: from,
		ToFile:   to,
		Context:  3,
	})
}

// Differ computes line diffs.
type Differ interface {
	// Lines compares old and new split at newlines.
	Lines(old, new string) Diff
}

// differ is the default implementation of Differ.
type differ struct {
	// context is the number of unchanged lines kept around changes; negative keeps all.
	context int
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{context: -1}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Option is a functional option for configuring a Differ.
type Option func(*differ)

// WithContext keeps only n unchanged lines around each change.
func WithContext(n int) Option {
	return func(d *differ) {
		d.context = n
	}
}

// Lines compares old and new line by line.
func (d *differ) Lines(old, new string) Diff {
	a := strings.Split(old, "\n")
	b := strings.Split(new, "\n")
	diff := Diff{old: old, new: new}

	matcher := difflib.NewMatcher(a, b)

	var groups [][]difflib.OpCode
	if d.context < 0 {
		groups = [][]difflib.OpCode{matcher.GetOpCodes()}
	} else {
		groups = matcher.GetGroupedOpCodes(d.context)
	}

	for _, group := range groups {
		for _, op := range group {
			diff.Lines = append(diff.Lines, lines(op, a, b)...)
		}
	}
	return diff
}

// lines expands one opcode. Replacements list removed lines before added ones.
func lines(op difflib.OpCode, a, b []string) []Line {
	var out []Line
	switch op.Tag {
	case 'e':
		for _, s := range a[op.I1:op.I2] {
			out = append(out, Line{Type: ChangeTypeEqual, Text: s})
		}
	case 'd':
		for _, s := range a[op.I1:op.I2] {
			out = append(out, Line{Type: ChangeTypeRemove, Text: s})
		}
	case 'i':
		for _, s := range b[op.J1:op.J2] {
			out = append(out, Line{Type: ChangeTypeAdd, Text: s})
		}
	case 'r':
		for _, s := range a[op.I1:op.I2] {
			out = append(out, Line{Type: ChangeTypeRemove, Text: s})
		}
		for _, s := range b[op.J1:op.J2] {
			out = append(out, Line{Type: ChangeTypeAdd, Text: s})
		}
	}
	return out
}
