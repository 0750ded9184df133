package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
)

// Relevance weights for long free-text searches.
const (
	TitleSimilarityWeight   = 2.0
	CompanySimilarityWeight = 1.0
	// MinRelevance is the exclusive lower bound on the combined score.
	MinRelevance = 0.1
)

// Annotator answers, in bulk, which listings an acting user has applied to or saved.
// Implementations must answer for all jobIDs in one round trip.
type Annotator interface {
	AppliedJobIDs(ctx context.Context, userID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	SavedJobIDs(ctx context.Context, userID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// Result is a listing as it appears in a search result set.
type Result struct {
	Listing    *types.JobListing
	HasApplied bool
	IsSaved    bool
	// Score is the combined relevance; zero unless a long search ranked the set.
	Score float64
}

// Engine runs the search pipeline over in-memory listings.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	ranker     TextRanker
	similarity Similarity
	annotator  Annotator
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRanker replaces the full-text ranker.
func WithRanker(r TextRanker) Option {
	return func(e *Engine) { e.ranker = r }
}

// WithSimilarity replaces the fuzzy similarity scorer.
func WithSimilarity(s Similarity) Option {
	return func(e *Engine) { e.similarity = s }
}

// NewEngine creates an Engine. annotator may be nil, in which case every result is
// reported as not applied and not saved.
func NewEngine(annotator Annotator, opts ...Option) *Engine {
	e := &Engine{
		ranker:     WeightedTextRanker{},
		similarity: TrigramSimilarity{},
		annotator:  annotator,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// annotations is the side table of per-listing user state, keyed by listing ID.
type annotations struct {
	applied map[uuid.UUID]bool
	saved   map[uuid.UUID]bool
}

func (a annotations) result(l *types.JobListing) Result {
	return Result{
		Listing:    l,
		HasApplied: a.applied[l.ID],
		IsSaved:    a.saved[l.ID],
	}
}

// Apply filters, ranks and orders base according to params. base is the set the caller is
// allowed to see; it is never modified. actor is the authenticated user, or nil.
// now anchors the time_published window.
//
// A long search (more than ShortQueryMaxLen characters) replaces the field filters, the time
// window and sort_by with relevance ranking. A short search is ANDed with the other filters.
func (e *Engine) Apply(ctx context.Context, base []types.JobListing, params Params, actor *uuid.UUID, now time.Time) ([]Result, error) {
	ann, err := e.annotate(ctx, base, actor)
	if err != nil {
		return nil, err
	}

	if params.LongSearch() {
		return e.rank(base, params.Search, ann), nil
	}

	results := make([]Result, 0, len(base))
	cutoff, windowed := params.Window.Cutoff(now)
	words := params.SearchWords()

	for i := range base {
		l := &base[i]
		if !matchesFilters(l, params.Filters) {
			continue
		}
		if windowed && l.CreatedAt.Before(cutoff) {
			continue
		}
		if len(words) > 0 && !matchesAnyWord(l, words) {
			continue
		}
		results = append(results, ann.result(l))
	}

	sortResults(results, params.Sort)
	return results, nil
}

// annotate computes applied/saved state for every listing in base with one batched
// lookup per kind, before any filtering.
func (e *Engine) annotate(ctx context.Context, base []types.JobListing, actor *uuid.UUID) (annotations, error) {
	var ann annotations
	if actor == nil || *actor == uuid.Nil || e.annotator == nil || len(base) == 0 {
		return ann, nil
	}

	ids := make([]uuid.UUID, len(base))
	for i := range base {
		ids[i] = base[i].ID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		applied, err := e.annotator.AppliedJobIDs(gctx, *actor, ids)
		if err != nil {
			return fmt.Errorf("failed to load applied jobs: %w", err)
		}
		ann.applied = applied
		return nil
	})
	g.Go(func() error {
		saved, err := e.annotator.SavedJobIDs(gctx, *actor, ids)
		if err != nil {
			return fmt.Errorf("failed to load saved jobs: %w", err)
		}
		ann.saved = saved
		return nil
	})
	if err := g.Wait(); err != nil {
		return annotations{}, err
	}
	return ann, nil
}

// rank scores every listing against query, keeps those above MinRelevance and orders them
// by descending score. Ties keep base order.
func (e *Engine) rank(base []types.JobListing, query string, ann annotations) []Result {
	results := make([]Result, 0)
	for i := range base {
		l := &base[i]
		score := e.Score(query, l)
		if score <= MinRelevance {
			continue
		}
		r := ann.result(l)
		r.Score = score
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Score returns the combined relevance of a listing for a free-text query.
func (e *Engine) Score(query string, l *types.JobListing) float64 {
	doc := Document{Title: l.Title, Company: l.Company, Location: l.Location}
	return e.ranker.Rank(query, doc) +
		TitleSimilarityWeight*e.similarity.Similarity(l.Title, query) +
		CompanySimilarityWeight*e.similarity.Similarity(l.Company, query)
}

// fieldValue returns the listing attribute a filter applies to.
func fieldValue(l *types.JobListing, field string) string {
	switch field {
	case ParamTitle:
		return l.Title
	case ParamCompany:
		return l.Company
	case ParamLocation:
		return l.Location
	case ParamJobLocationType:
		return l.JobLocationType
	case ParamJobType:
		return l.JobType
	case ParamExperienceLevel:
		return l.ExperienceLevel
	default:
		return ""
	}
}

func matchesFilters(l *types.JobListing, filters []FieldFilter) bool {
	for _, f := range filters {
		v := fieldValue(l, f.Field)
		if f.Exact() {
			if v != f.Value {
				return false
			}
			continue
		}
		if !containsFold(v, f.Value) {
			return false
		}
	}
	return true
}

// shortSearchFields are the attributes scanned by a short search.
var shortSearchFields = []string{
	ParamTitle,
	ParamCompany,
	ParamLocation,
	ParamJobLocationType,
	ParamJobType,
}

func matchesAnyWord(l *types.JobListing, words []string) bool {
	for _, w := range words {
		for _, field := range shortSearchFields {
			if containsFold(fieldValue(l, field), w) {
				return true
			}
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortResults(results []Result, order SortOrder) {
	var less func(a, b *types.JobListing) bool

	switch order {
	case SortSalaryLowToHigh:
		less = func(a, b *types.JobListing) bool { return salaryLess(a, b, false) }
	case SortSalaryHighToLow:
		less = func(a, b *types.JobListing) bool { return salaryLess(a, b, true) }
	case SortLatest:
		less = func(a, b *types.JobListing) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortOldest:
		less = func(a, b *types.JobListing) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return
	}

	sort.SliceStable(results, func(i, j int) bool {
		return less(results[i].Listing, results[j].Listing)
	})
}

// salaryLess orders by numeric salary with missing or unparseable salaries last
// in both directions.
func salaryLess(a, b *types.JobListing, desc bool) bool {
	va, oka := a.SalaryValue()
	vb, okb := b.SalaryValue()
	if oka != okb {
		return oka
	}
	if !oka {
		return false
	}
	if desc {
		return va > vb
	}
	return va < vb
}
