// Package similarity scores the semantic closeness of two free-text
// documents with a bag-of-ngrams TF-IDF representation and cosine
// similarity. Each comparison builds a fresh two-document corpus; no fitted
// state survives a call, so an Engine is safe to share across goroutines.
package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// defaultMaxFeatures caps the vocabulary at the most frequent terms across
// the document pair.
const defaultMaxFeatures = 5000

// Tokens of at least two word characters, same shape as the vectorizer the
// scoring weights were tuned against.
var tokenRe = regexp.MustCompile(`\b\w\w+\b`)

// Engine computes pairwise text similarity. The zero value is not usable;
// construct with NewEngine.
type Engine struct {
	maxFeatures int
}

// NewEngine returns an Engine with the default vocabulary cap.
func NewEngine() *Engine {
	return &Engine{maxFeatures: defaultMaxFeatures}
}

// NewEngineWithMaxFeatures returns an Engine keeping at most maxFeatures
// terms per comparison; non-positive values fall back to the default.
func NewEngineWithMaxFeatures(maxFeatures int) *Engine {
	if maxFeatures <= 0 {
		maxFeatures = defaultMaxFeatures
	}
	return &Engine{maxFeatures: maxFeatures}
}

// Similarity returns the cosine closeness of the two texts in [0,1]. It
// returns 0.0 when either input is empty or when both documents reduce to
// zero usable terms after stop-word removal; it never fails.
func (e *Engine) Similarity(textA, textB string) float64 {
	if textA == "" || textB == "" {
		return 0.0
	}

	termsA := ngrams(tokenize(textA))
	termsB := ngrams(tokenize(textB))
	if len(termsA) == 0 || len(termsB) == 0 {
		return 0.0
	}

	countsA := termCounts(termsA)
	countsB := termCounts(termsB)
	vocab := e.buildVocabulary(countsA, countsB)
	if len(vocab) == 0 {
		return 0.0
	}

	// Smoothed IDF over the two-document corpus: ln((1+n)/(1+df)) + 1.
	const nDocs = 2.0
	var dot, normA, normB float64
	for _, term := range vocab {
		df := 0.0
		if countsA[term] > 0 {
			df++
		}
		if countsB[term] > 0 {
			df++
		}
		idf := math.Log((1+nDocs)/(1+df)) + 1
		wa := float64(countsA[term]) * idf
		wb := float64(countsB[term]) * idf
		dot += wa * wb
		normA += wa * wa
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Guard against float drift at the boundaries.
	if cos < 0 {
		return 0.0
	}
	if cos > 1 {
		return 1.0
	}
	return cos
}

// buildVocabulary merges both documents' terms, keeping at most maxFeatures
// of the most frequent ones. Ties break lexicographically so the result is
// deterministic.
func (e *Engine) buildVocabulary(countsA, countsB map[string]int) []string {
	total := make(map[string]int, len(countsA)+len(countsB))
	for t, c := range countsA {
		total[t] += c
	}
	for t, c := range countsB {
		total[t] += c
	}

	vocab := make([]string, 0, len(total))
	for t := range total {
		vocab = append(vocab, t)
	}
	if len(vocab) <= e.maxFeatures {
		sort.Strings(vocab)
		return vocab
	}

	sort.Slice(vocab, func(i, j int) bool {
		if total[vocab[i]] != total[vocab[j]] {
			return total[vocab[i]] > total[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	return vocab[:e.maxFeatures]
}

// tokenize lowercases, splits into word tokens and drops English stop words.
func tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if _, stop := englishStopwords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// ngrams expands a token stream into its unigrams and bigrams.
func ngrams(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func termCounts(terms []string) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts
}
