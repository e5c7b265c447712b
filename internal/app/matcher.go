package app

import (
	"strings"

	"concierge/internal/domain"
)

// Matcher decides whether a guest message asks for one of the structured
// fields of a property.
type Matcher interface {
	Match(query string, p domain.Property) (domain.FieldKey, string, bool)
}

// KeywordMatcher does a case-insensitive substring scan of the field labels in
// domain.Fields order; the first label found wins.
type KeywordMatcher struct{}

func (KeywordMatcher) Match(query string, p domain.Property) (domain.FieldKey, string, bool) {
	q := strings.ToLower(query)
	for _, f := range domain.Fields {
		if strings.Contains(q, f.Key.Label()) {
			return f.Key, p.Value(f.Key), true
		}
	}
	return "", "", false
}
