package security

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxSearchQueryLength defines the maximum allowed length for search queries, in runes
	MaxSearchQueryLength = 100
)

// ValidateSearchQuery trims a free-text directory search and rejects anything
// that is not a plain term. Filter metacharacters never reach this point in
// a valid query, and the result is still filter-escaped by the caller.
func ValidateSearchQuery(query string) (string, error) {
	if query == "" {
		return "", nil
	}

	query = strings.TrimSpace(query)

	if utf8.RuneCountInString(query) > MaxSearchQueryLength {
		return "", errors.New("search query too long")
	}

	for _, char := range query {
		if !isValidSearchChar(char) {
			return "", errors.New("search query contains invalid characters")
		}
	}

	return query, nil
}

func isValidSearchChar(char rune) bool {
	return unicode.IsLetter(char) || unicode.IsNumber(char) ||
		char == ' ' || char == '-' || char == '_' || char == '.' ||
		char == '@' || char == '+'
}
