// Package search builds ranked, filtered views of job listings from request query parameters.
//
// The same pipeline is available in two forms: Engine.Apply runs it over an in-memory slice of
// listings, and BuildPlan compiles it into a PostgreSQL query for the storage layer.
package search

import (
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Query parameter keys recognized by the pipeline
const (
	ParamTitle           = "title"
	ParamCompany         = "company"
	ParamLocation        = "location"
	ParamJobLocationType = "job_location_type"
	ParamJobType         = "job_type"
	ParamExperienceLevel = "experience_level"
	ParamTimePublished   = "time_published"
	ParamSearch          = "search"
	ParamSortBy          = "sort_by"
)

// fieldParams lists the field filters in the order they are applied.
var fieldParams = []string{
	ParamTitle,
	ParamCompany,
	ParamLocation,
	ParamJobLocationType,
	ParamJobType,
	ParamExperienceLevel,
}

// ShortQueryMaxLen is the longest search (in characters) handled by substring matching.
// Anything longer is ranked by full-text and trigram relevance.
const ShortQueryMaxLen = 2

// TimeWindow restricts results to recently published listings.
type TimeWindow string

// TimeWindow values
const (
	WindowNone TimeWindow = ""
	Window24h  TimeWindow = "24h"
	Window7d   TimeWindow = "7d"
	Window30d  TimeWindow = "30d"
)

// Duration returns the length of the window, or zero for WindowNone.
func (w TimeWindow) Duration() time.Duration {
	switch w {
	case Window24h:
		return 24 * time.Hour
	case Window7d:
		return 7 * 24 * time.Hour
	case Window30d:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Cutoff returns the earliest created_at admitted by the window relative to now.
func (w TimeWindow) Cutoff(now time.Time) (time.Time, bool) {
	d := w.Duration()
	if d == 0 {
		return time.Time{}, false
	}
	return now.Add(-d), true
}

// SortOrder selects the ordering applied when no free-text search is present.
type SortOrder string

// SortOrder values
const (
	SortNone            SortOrder = ""
	SortSalaryLowToHigh SortOrder = "salary_low_to_high"
	SortSalaryHighToLow SortOrder = "salary_high_to_low"
	SortLatest          SortOrder = "latest"
	SortOldest          SortOrder = "oldest"
)

// FieldFilter is a single-attribute constraint.
type FieldFilter struct {
	Field string
	Value string
}

// Exact reports whether the filter is an exact match rather than a substring match.
func (f FieldFilter) Exact() bool {
	return f.Field == ParamExperienceLevel
}

// Params is the parsed, normalized form of a listing query.
type Params struct {
	Filters []FieldFilter
	Window  TimeWindow
	Search  string
	Sort    SortOrder
}

// ParseParams normalizes raw query parameters. Unknown keys and unrecognized
// time_published/sort_by values are dropped, never reported.
func ParseParams(raw map[string]string) Params {
	var p Params

	for _, key := range fieldParams {
		value := strings.TrimSpace(raw[key])
		if value == "" {
			continue
		}
		if key == ParamExperienceLevel {
			value = strings.ToLower(value)
		}
		p.Filters = append(p.Filters, FieldFilter{Field: key, Value: value})
	}

	switch w := TimeWindow(strings.ToLower(strings.TrimSpace(raw[ParamTimePublished]))); w {
	case Window24h, Window7d, Window30d:
		p.Window = w
	}

	p.Search = strings.TrimSpace(raw[ParamSearch])

	switch s := SortOrder(strings.ToLower(strings.TrimSpace(raw[ParamSortBy]))); s {
	case SortSalaryLowToHigh, SortSalaryHighToLow, SortLatest, SortOldest:
		p.Sort = s
	}

	return p
}

// ParamsFromValues parses a URL query string. Only the first value of each key is used.
func ParamsFromValues(values url.Values) Params {
	raw := make(map[string]string, len(values))
	for key := range values {
		raw[key] = values.Get(key)
	}
	return ParseParams(raw)
}

// IsEmpty reports whether the params impose no filtering or ordering.
func (p Params) IsEmpty() bool {
	return len(p.Filters) == 0 && p.Window == WindowNone && p.Search == "" && p.Sort == SortNone
}

// LongSearch reports whether the search goes through relevance ranking.
func (p Params) LongSearch() bool {
	return utf8.RuneCountInString(p.Search) > ShortQueryMaxLen
}

// SearchWords returns the lowercase words of a short search.
func (p Params) SearchWords() []string {
	if p.Search == "" || p.LongSearch() {
		return nil
	}
	return strings.Fields(strings.ToLower(p.Search))
}

// Canonical returns a stable encoding of the params, suitable as a cache key component.
func (p Params) Canonical() string {
	values := url.Values{}
	for _, f := range p.Filters {
		values.Set(f.Field, strings.ToLower(f.Value))
	}
	if p.Window != WindowNone {
		values.Set(ParamTimePublished, string(p.Window))
	}
	if p.Search != "" {
		values.Set(ParamSearch, strings.ToLower(p.Search))
	}
	if p.Sort != SortNone {
		values.Set(ParamSortBy, string(p.Sort))
	}
	// url.Values.Encode sorts by key
	return values.Encode()
}

// FilterFields returns the names of the active field filters, sorted.
func (p Params) FilterFields() []string {
	names := make([]string, 0, len(p.Filters))
	for _, f := range p.Filters {
		names = append(names, f.Field)
	}
	sort.Strings(names)
	return names
}
