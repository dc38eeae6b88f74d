// Package keywords turns free-text input into the 2–5 distinct keywords that seed a story.
package keywords

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	MinKeywords = 2
	MaxKeywords = 5
)

// ErrInvalidKeywords is wrapped by every ValidationError.
var ErrInvalidKeywords = errors.New("invalid keywords")

// GuidanceMessage is shown to the user whenever the keyword count is out of range.
const GuidanceMessage = `Please provide 2–5 distinct keywords. Example: "dragon, moon" or "compass river lantern star"`

// ValidationError reports how many distinct keywords were found.
type ValidationError struct {
	Count int
}

func (e *ValidationError) Error() string {
	return GuidanceMessage
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidKeywords
}

// List is an ordered set of keywords, distinct under case-insensitive comparison.
type List []string

// String renders the list in the comma-separated form the backend expects.
func (l List) String() string {
	return strings.Join(l, ", ")
}

// Normalize splits raw on runs of whitespace and commas, drops empty tokens and removes
// case-insensitive duplicates, keeping the first spelling and order.
func Normalize(raw string) (List, error) {
	tokens := strings.FieldsFunc(raw, isSeparator)

	seen := make(map[string]struct{}, len(tokens))
	out := make(List, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}

	if len(out) < MinKeywords || len(out) > MaxKeywords {
		return nil, &ValidationError{Count: len(out)}
	}
	return out, nil
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// Describe is a short human summary used in log lines.
func (l List) Describe() string {
	return fmt.Sprintf("%d keywords [%s]", len(l), l.String())
}
