package game

import (
	"fmt"
	"strings"
	"unicode"
)

// Canonical normalizes a word for comparison: surrounding whitespace is
// trimmed, letters are lowercased and internal whitespace runs collapse to
// a single space. Every word comparison in the engine (hint legality, guess
// lookup, board uniqueness) goes through this so casing and spacing never
// cause a false mismatch.
func Canonical(word string) string {
	return strings.Join(strings.Fields(strings.ToLower(word)), " ")
}

// Sanitize canonicalizes a word after checking that it contains only
// letters and spaces.
func Sanitize(word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", fmt.Errorf("word is empty")
	}
	for _, r := range word {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return "", fmt.Errorf("word must only contain letters and spaces: %q", word)
		}
	}
	return Canonical(word), nil
}
