package utils

import (
	"strings"
	"unicode"
)

// TextNormalizer derives the lexical search representation of a record's
// text: lowercased, tokenized, stop words removed, light suffix stemming.
// The raw text is kept separately for trigram fuzzy matching, so both
// strategies derive from the same stored record without another trip to
// the source entity.
type TextNormalizer struct {
	stopWords map[string]struct{}
}

// NewTextNormalizer creates a normalizer with the default English stop list
func NewTextNormalizer() *TextNormalizer {
	stopWords := make(map[string]struct{}, len(defaultStopWords))
	for _, w := range defaultStopWords {
		stopWords[w] = struct{}{}
	}
	return &TextNormalizer{stopWords: stopWords}
}

// Normalize produces the space-joined normalized token stream for text.
// The same function runs on indexed text and on query text, so stemmed
// forms line up at match time.
func (n *TextNormalizer) Normalize(text string) string {
	tokens := n.Tokens(text)
	return strings.Join(tokens, " ")
}

// Tokens returns the normalized tokens of text in order, duplicates kept.
func (n *TextNormalizer) Tokens(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := n.stopWords[f]; stop {
			continue
		}
		stemmed := stem(f)
		if stemmed == "" {
			continue
		}
		tokens = append(tokens, stemmed)
	}
	return tokens
}

// stem applies a small suffix-stripping stemmer. It intentionally stays
// conservative: a missed stem only weakens recall slightly, a wrong stem
// corrupts the index.
func stem(word string) string {
	if len(word) <= 3 {
		return word
	}

	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "sses"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ing") && len(word) > 5:
		return word[:len(word)-3]
	case strings.HasSuffix(word, "ed") && len(word) > 4:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1]
	}
	return word
}

var defaultStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "from",
	"had", "has", "have", "he", "her", "his", "i", "if", "in", "into", "is",
	"it", "its", "no", "not", "of", "on", "or", "our", "she", "so", "such",
	"that", "the", "their", "then", "there", "these", "they", "this", "to",
	"was", "we", "were", "will", "with", "you", "your",
}
