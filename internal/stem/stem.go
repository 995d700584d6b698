package stem

import (
	"strings"

	"github.com/reiver/go-porterstemmer"
)

// StemLine normalizes a line of text for matching: words are stemmed and
// lowercased, surrounding punctuation is dropped and single spaces separate
// the result. Different "styles" of the same word end up identical, so
// "Cooking!" matches "cooked".
func StemLine(value string) string {
	return strings.Join(StemLineWords(value), " ")
}

// StemLineWords is StemLine keeping the words separate.
func StemLineWords(value string) []string {
	fields := strings.Fields(value)
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		word := strings.TrimFunc(field, isPunctuation)
		if word == "" {
			continue
		}

		words = append(words, porterstemmer.StemString(word))
	}

	return words
}

func isPunctuation(r rune) bool {
	switch r {
	case ',', '.', '!', '?', '"', '\'', ':', ';', '(', ')', '[', ']':
		return true
	default:
		return false
	}
}
