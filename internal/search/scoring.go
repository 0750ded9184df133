package search

import (
	"strings"
	"unicode"
)

// Document is the weighted text a full-text ranker scores: title carries weight A,
// company weight B and location weight C.
type Document struct {
	Title    string
	Company  string
	Location string
}

// TextRanker scores how well a document matches a free-text query.
type TextRanker interface {
	Rank(query string, doc Document) float64
}

// TextRankerFunc adapts a function to TextRanker.
type TextRankerFunc func(query string, doc Document) float64

// Rank calls f(query, doc).
func (f TextRankerFunc) Rank(query string, doc Document) float64 {
	return f(query, doc)
}

// Similarity scores fuzzy similarity between two strings in [0, 1].
type Similarity interface {
	Similarity(a, b string) float64
}

// SimilarityFunc adapts a function to Similarity.
type SimilarityFunc func(a, b string) float64

// Similarity calls f(a, b).
func (f SimilarityFunc) Similarity(a, b string) float64 {
	return f(a, b)
}

// Field weights, matching the PostgreSQL ts_rank defaults for A, B and C.
const (
	WeightA = 1.0
	WeightB = 0.4
	WeightC = 0.2
)

// rankScale keeps WeightedTextRanker scores in the range ts_rank produces.
const rankScale = 0.1

// WeightedTextRanker approximates ts_rank over a weighted vector with plainto_tsquery semantics:
// every query term must occur somewhere in the document, and each term contributes the weight
// of the best field it occurs in.
type WeightedTextRanker struct{}

// Rank implements TextRanker.
func (WeightedTextRanker) Rank(query string, doc Document) float64 {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return 0
	}

	fields := []struct {
		tokens map[string]struct{}
		weight float64
	}{
		{tokenSet(doc.Title), WeightA},
		{tokenSet(doc.Company), WeightB},
		{tokenSet(doc.Location), WeightC},
	}

	var total float64
	for _, term := range terms {
		best := 0.0
		for _, f := range fields {
			if _, ok := f.tokens[term]; ok && f.weight > best {
				best = f.weight
			}
		}
		if best == 0 {
			return 0
		}
		total += best
	}

	return total / float64(len(terms)) * rankScale
}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "in": {}, "into": {}, "is": {}, "it": {}, "of": {}, "on": {},
	"or": {}, "the": {}, "to": {}, "with": {},
}

// Tokenize splits text into lowercase, stemmed terms with stop words removed.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		terms = append(terms, stem(w))
	}
	return terms
}

func tokenSet(text string) map[string]struct{} {
	terms := Tokenize(text)
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

// stem folds simple English plurals.
func stem(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	default:
		return w
	}
}

// TrigramSimilarity computes pg_trgm style similarity: each lowercase word is padded with two
// leading spaces and one trailing space, split into three-character grams, and the score is the
// size of the intersection over the size of the union of the two gram sets.
type TrigramSimilarity struct{}

// Similarity implements Similarity.
func (TrigramSimilarity) Similarity(a, b string) float64 {
	ta, tb := Trigrams(a), Trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	common := 0
	for g := range ta {
		if _, ok := tb[g]; ok {
			common++
		}
	}
	return float64(common) / float64(len(ta)+len(tb)-common)
}

// Trigrams returns the set of padded trigrams of s.
func Trigrams(s string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	grams := make(map[string]struct{})
	for _, w := range words {
		padded := []rune("  " + w + " ")
		for i := 0; i+3 <= len(padded); i++ {
			grams[string(padded[i:i+3])] = struct{}{}
		}
	}
	return grams
}
