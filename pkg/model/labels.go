package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler derives a sentence-case label from a property name:
// "firstName" and "first_name" both become "First name".
func DefaultLabeler(name string) string {
	words := labelWords(name)
	if len(words) == 0 {
		return ""
	}
	runes := []rune(words[0])
	runes[0] = unicode.ToUpper(runes[0])
	words[0] = string(runes)
	return strings.Join(words, " ")
}

// labelWords lowercases name and cuts it at separators, lower-to-upper
// transitions and letter/digit transitions.
func labelWords(name string) []string {
	var (
		words   []string
		current []rune
		prev    rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			prev = 0
			continue
		case len(current) > 0 && wordBreak(prev, r):
			flush()
		}
		current = append(current, unicode.ToLower(r))
		prev = r
	}
	flush()
	return words
}

func wordBreak(prev, next rune) bool {
	if unicode.IsLower(prev) && unicode.IsUpper(next) {
		return true
	}
	return unicode.IsDigit(prev) != unicode.IsDigit(next)
}
