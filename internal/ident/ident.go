// Package ident generates the short, URL-safe identifiers that links
// resolve through. Identifiers carry no ordering: the store's uniqueness
// constraint, not the generator, guarantees global uniqueness.
package ident

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphabet   = "abcdefghijklmnopqrstuvwxyz"
	wordLength = 3

	// DefaultWords is the default number of words per identifier.
	DefaultWords = 7

	// Separator joins the words of an identifier.
	Separator = "-"
)

// New returns a random identifier of the given number of words, each word
// being three lowercase letters, e.g. "abc-def-ghi" for three words.
func New(words int) (string, error) {
	const op = "ident.New"

	if words < 1 {
		return "", fmt.Errorf("%s: word count must be positive, got %d", op, words)
	}

	parts := make([]string, words)
	for i := range parts {
		word, err := gonanoid.Generate(alphabet, wordLength)
		if err != nil {
			return "", fmt.Errorf("%s: failed to generate word: %w", op, err)
		}
		parts[i] = word
	}

	return strings.Join(parts, Separator), nil
}
