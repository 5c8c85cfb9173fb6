package recommend

import (
	"regexp"
	"strings"
)

var separator = regexp.MustCompile(`[^a-z0-9+]+`)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "the": {}, "for": {}, "to": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "with": {}, "hey": {}, "hi": {}, "hello": {}, "please": {},
	"show": {}, "me": {},
}

// Tokenize lowercases the query, splits it on anything that is not a letter, digit
// or '+', and drops stop-words. The result may be empty.
func Tokenize(query string) []string {
	parts := separator.Split(strings.ToLower(query), -1)

	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, stop := stopwords[part]; stop {
			continue
		}
		tokens = append(tokens, part)
	}
	return tokens
}
