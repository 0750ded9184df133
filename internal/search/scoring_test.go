package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigrams(t *testing.T) {
	grams := Trigrams("Cat")

	assert.Len(t, grams, 4)
	for _, g := range []string{"  c", " ca", "cat", "at "} {
		assert.Contains(t, grams, g)
	}
}

func TestTrigrams_SplitsWords(t *testing.T) {
	assert.Equal(t, Trigrams("go dev"), Trigrams("GO, dev!"))
	assert.Empty(t, Trigrams("  --  "))
}

func TestTrigramSimilarity(t *testing.T) {
	sim := TrigramSimilarity{}

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Backend", "backend", 1.0},
		{"one letter off", "hello", "hallo", 1.0 / 3.0},
		{"disjoint", "abc", "xyz", 0},
		{"empty side", "", "abc", 0},
		{"word subset", "backend lead", "backend engineer", 7.0 / 21.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, sim.Similarity(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, sim.Similarity(tt.b, tt.a), 1e-9)
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"senior", "engineer", "company"}, Tokenize("Senior Engineers at the Companies"))
	assert.Equal(t, []string{"class", "go"}, Tokenize("class - go"))
	assert.Empty(t, Tokenize("the and of"))
}

func TestWeightedTextRanker(t *testing.T) {
	r := WeightedTextRanker{}
	doc := Document{Title: "Backend Engineer", Company: "Acme", Location: "Lahore"}

	tests := []struct {
		name  string
		query string
		want  float64
	}{
		{"all in title", "backend engineer", WeightA * rankScale},
		{"title and company", "backend acme", (WeightA + WeightB) / 2 * rankScale},
		{"location only", "lahore", WeightC * rankScale},
		{"missing term", "backend pilot", 0},
		{"only stop words", "the", 0},
		{"plural folds", "engineers", WeightA * rankScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, r.Rank(tt.query, doc), 1e-9)
		})
	}
}

func TestWeightedTextRanker_TitleOutranksLocation(t *testing.T) {
	r := WeightedTextRanker{}

	inTitle := r.Rank("karachi", Document{Title: "Karachi Office Manager", Location: "Remote"})
	inLocation := r.Rank("karachi", Document{Title: "Office Manager", Location: "Karachi"})

	assert.Greater(t, inTitle, inLocation)
}

func TestEngineScore_CombinesRankAndSimilarity(t *testing.T) {
	e := NewEngine(nil,
		WithRanker(TextRankerFunc(func(string, Document) float64 { return 0.05 })),
		WithSimilarity(SimilarityFunc(func(a, _ string) float64 {
			if a == "Acme" {
				return 0.5
			}
			return 0.25
		})),
	)
	l := listing("Designer", "Acme", nil)

	assert.InDelta(t, 0.05+0.25*TitleSimilarityWeight+0.5*CompanySimilarityWeight, e.Score("design", &l), 1e-9)
}
