package models

import (
	"regexp"
	"strings"

	"fjacquet/txcat/internal/apperrors"
)

// Pattern is a case-insensitive disjunction of keyword alternatives. A description
// matches when any alternative occurs in it as a regular-expression search.
// The zero Pattern has no alternatives and matches nothing.
type Pattern struct {
	alternatives []string
	re           *regexp.Regexp
}

// NewPattern compiles source, a "|"-separated list of alternatives.
func NewPattern(source string) (*Pattern, error) {
	p := &Pattern{}
	if err := p.Extend(source); err != nil {
		return nil, err
	}
	return p, nil
}

// Extend unions the alternatives of fragment into the pattern and recompiles it.
// Existing alternatives are never removed; on error the pattern is unchanged.
func (p *Pattern) Extend(fragment string) error {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return &apperrors.ValidationError{Entity: "pattern", Reason: "pattern is required"}
	}

	added := SplitAlternatives(fragment)
	for _, alt := range added {
		if alt == "" {
			return &apperrors.ValidationError{
				Entity: "pattern",
				Field:  "alternative",
				Value:  fragment,
				Reason: "empty alternative would match every description",
			}
		}
	}

	alternatives := make([]string, 0, len(p.alternatives)+len(added))
	alternatives = append(alternatives, p.alternatives...)
	alternatives = append(alternatives, added...)

	re, err := compileAlternatives(alternatives)
	if err != nil {
		return &apperrors.ValidationError{
			Entity: "pattern",
			Field:  "source",
			Value:  fragment,
			Reason: "not a valid regular expression",
			Err:    err,
		}
	}

	p.alternatives = alternatives
	p.re = re
	return nil
}

// MatchString reports whether s contains a match of any alternative, ignoring case.
func (p *Pattern) MatchString(s string) bool {
	if p == nil || p.re == nil {
		return false
	}
	return p.re.MatchString(s)
}

// Source returns the alternatives joined with "|".
func (p *Pattern) Source() string {
	if p == nil {
		return ""
	}
	return strings.Join(p.alternatives, "|")
}

// Display returns the alternatives joined for human-readable output.
func (p *Pattern) Display() string {
	if p == nil {
		return ""
	}
	return strings.Join(p.alternatives, PatternDisplaySeparator)
}

// Alternatives returns a copy of the alternatives in insertion order.
func (p *Pattern) Alternatives() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.alternatives))
	copy(out, p.alternatives)
	return out
}

// IsEmpty reports whether the pattern has no alternatives.
func (p *Pattern) IsEmpty() bool {
	return p == nil || len(p.alternatives) == 0
}

// compileAlternatives groups each alternative so inline flags stay local to it.
func compileAlternatives(alternatives []string) (*regexp.Regexp, error) {
	groups := make([]string, len(alternatives))
	for i, alt := range alternatives {
		if _, err := regexp.Compile(alt); err != nil {
			return nil, err
		}
		groups[i] = "(?:" + alt + ")"
	}
	return regexp.Compile("(?i)" + strings.Join(groups, "|"))
}

// SplitAlternatives splits source on top-level "|" separators. Separators that are
// escaped, inside a group or inside a character class are kept.
func SplitAlternatives(source string) []string {
	var parts []string
	depth := 0
	inClass := false
	start := 0

	for i := 0; i < len(source); i++ {
		c := source[i]
		switch {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == '|' && depth == 0:
			parts = append(parts, source[start:i])
			start = i + 1
		}
	}

	return append(parts, source[start:])
}
