// Package matcher selects motion ids by glob or regular expression patterns.
// Globs use shell syntax (WP*, PA00?, [GW]P0*); a pattern containing regex
// metacharacters such as ^, $, \d or | is compiled as a regular expression.
package matcher

import (
	"path"
	"regexp"
	"strings"

	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses shell-style glob patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto detects the pattern type.
	Auto
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Matcher matches motion ids against one pattern.
type Matcher interface {
	Match(id string) bool
	Pattern() string
	Type() PatternType
}

type matcher struct {
	pattern     string
	patternType PatternType
	compiled    *regexp.Regexp
}

// New compiles pattern. Regex patterns are not anchored implicitly.
func New(patternType PatternType, pattern string) (Matcher, error) {
	m := &matcher{pattern: pattern, patternType: patternType}
	if patternType == Auto {
		m.patternType = detectPatternType(pattern)
	}

	switch m.patternType {
	case Glob:
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, errors.NewValidationError("pattern", pattern, "invalid glob pattern: "+err.Error())
		}
	case Regex:
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.NewValidationError("pattern", pattern, "invalid regex pattern: "+err.Error())
		}
		m.compiled = compiled
	default:
		return nil, errors.NewValidationError("pattern", pattern, "unsupported pattern type "+m.patternType.String())
	}
	return m, nil
}

// Match reports whether id matches the pattern.
func (m *matcher) Match(id string) bool {
	if m.patternType == Regex {
		return m.compiled.MatchString(id)
	}
	matched, _ := path.Match(m.pattern, id)
	return matched
}

// Pattern returns the original pattern string.
func (m *matcher) Pattern() string {
	return m.pattern
}

// Type returns the pattern type being used.
func (m *matcher) Type() PatternType {
	return m.patternType
}

// detectPatternType treats patterns with regex-only syntax as Regex.
func detectPatternType(pattern string) PatternType {
	regexIndicators := []string{
		"^", "$", "\\d", "\\w", "\\s", "\\D", "\\W", "\\S",
		"(?:", "(?i)", "{", "}", "+", "|", "(", ")", ".*",
	}
	for _, indicator := range regexIndicators {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	return Glob
}

// Any matches if at least one of its patterns matches. An empty Any
// matches everything.
type Any []Matcher

// NewAny compiles every pattern with auto detection.
func NewAny(patterns ...string) (Any, error) {
	set := make(Any, 0, len(patterns))
	for _, p := range patterns {
		m, err := New(Auto, p)
		if err != nil {
			return nil, err
		}
		set = append(set, m)
	}
	return set, nil
}

// Match reports whether id matches one of the patterns.
func (a Any) Match(id string) bool {
	if len(a) == 0 {
		return true
	}
	for _, m := range a {
		if m.Match(id) {
			return true
		}
	}
	return false
}
