// Package textproc holds the text normalization pipeline shared by entity
// extraction and similarity scoring: whitespace/URL cleanup, tokenization and
// bilingual (English/Indonesian) stop-word removal.
package textproc

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	urlRe        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	// Keeps alphanumerics, whitespace and the punctuation that carries
	// meaning in CVs (emails, phone numbers, date ranges).
	charsetRe = regexp.MustCompile(`[^\w\s\-.,;:@+/()]`)
	wordRe    = regexp.MustCompile(`\b\w+\b`)
)

// Preprocess cleans raw text for downstream processing: collapses whitespace,
// strips URLs and drops characters outside the allowed set. Empty input stays
// empty.
func Preprocess(text string) string {
	if text == "" {
		return ""
	}
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = urlRe.ReplaceAllString(text, "")
	text = charsetRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Tokenize splits preprocessed text into lowercase word tokens.
func Tokenize(text string) []string {
	return wordRe.FindAllString(strings.ToLower(Preprocess(text)), -1)
}

// RemoveStopwords filters tokens through the given stop-word set and drops
// single-character tokens.
func RemoveStopwords(tokens []string, stopwords map[string]struct{}) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) <= 1 {
			continue
		}
		if _, ok := stopwords[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CleanTokens is the full pipeline: tokenize then remove stop-words.
func CleanTokens(text string, stopwords map[string]struct{}) []string {
	return RemoveStopwords(Tokenize(text), stopwords)
}

// NewStopwordSet builds a lookup set from a stop-word list.
func NewStopwordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
