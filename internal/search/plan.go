package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scope is the set of listings a caller may search before any filtering.
type Scope struct {
	// EmployerID restricts the search to one employer's listings, drafts included.
	// When nil the public set is searched and drafts are excluded.
	EmployerID *uuid.UUID
}

// Plan is the pipeline compiled to PostgreSQL fragments over job_listings aliased as j.
// Arguments bound while building WHERE come first so the count query can reuse them.
type Plan struct {
	Where      string
	Score      string
	HasApplied string
	IsSaved    string
	OrderBy    string

	args      []any
	whereArgs int
}

// Bind appends an argument and returns its placeholder.
func (p *Plan) Bind(v any) string {
	p.args = append(p.args, v)
	return fmt.Sprintf("$%d", len(p.args))
}

// Args returns all bound arguments in placeholder order.
func (p *Plan) Args() []any {
	return p.args
}

// WhereArgs returns the arguments referenced by Where.
func (p *Plan) WhereArgs() []any {
	return p.args[:p.whereArgs]
}

// searchVector mirrors the weighted vector: title A, company B, location C.
const searchVector = `setweight(to_tsvector('english', coalesce(j.title, '')), 'A') || ` +
	`setweight(to_tsvector('english', coalesce(j.company, '')), 'B') || ` +
	`setweight(to_tsvector('english', coalesce(j.location, '')), 'C')`

// salaryValue extracts the leading number of the free-text salary column, honouring a "k" suffix.
const salaryValue = `(NULLIF(replace(substring(j.salary from '[0-9][0-9,]*(?:\.[0-9]+)?'), ',', ''), '')::numeric * ` +
	`CASE WHEN j.salary ~* '^[^0-9]*[0-9][0-9,]*(\.[0-9]+)?k' THEN 1000 ELSE 1 END)`

// columnFor maps a filter field to its column.
var columnFor = map[string]string{
	ParamTitle:           "j.title",
	ParamCompany:         "j.company",
	ParamLocation:        "j.location",
	ParamJobLocationType: "j.job_location_type",
	ParamJobType:         "j.job_type",
	ParamExperienceLevel: "j.experience_level",
}

// BuildPlan compiles params into SQL with the same semantics as Engine.Apply.
func BuildPlan(scope Scope, params Params, actor *uuid.UUID, now time.Time) *Plan {
	p := &Plan{Score: "0"}
	var conds []string

	if scope.EmployerID != nil {
		conds = append(conds, "j.employer_id = "+p.Bind(*scope.EmployerID))
	} else {
		conds = append(conds, "j.job_status <> 'draft'")
	}

	if params.LongSearch() {
		q := p.Bind(params.Search)
		p.Score = fmt.Sprintf("(ts_rank(%s, plainto_tsquery('english', %s)) + similarity(j.title, %s) * %.1f + similarity(j.company, %s) * %.1f)",
			searchVector, q, q, TitleSimilarityWeight, q, CompanySimilarityWeight)
		conds = append(conds, fmt.Sprintf("%s > %g", p.Score, MinRelevance))
		p.OrderBy = "score DESC, j.created_at DESC, j.id"
	} else {
		for _, f := range params.Filters {
			col := columnFor[f.Field]
			if f.Exact() {
				conds = append(conds, col+" = "+p.Bind(f.Value))
			} else {
				conds = append(conds, col+" ILIKE "+p.Bind(likePattern(f.Value)))
			}
		}

		if cutoff, ok := params.Window.Cutoff(now); ok {
			conds = append(conds, "j.created_at >= "+p.Bind(cutoff))
		}

		if words := params.SearchWords(); len(words) > 0 {
			var ors []string
			for _, w := range words {
				ph := p.Bind(likePattern(w))
				for _, field := range shortSearchFields {
					ors = append(ors, columnFor[field]+" ILIKE "+ph)
				}
			}
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}

		p.OrderBy = orderBy(params.Sort)
	}

	p.Where = strings.Join(conds, " AND ")
	p.whereArgs = len(p.args)

	if actor != nil && *actor != uuid.Nil {
		u := p.Bind(*actor)
		p.HasApplied = "EXISTS (SELECT 1 FROM applications a WHERE a.job_id = j.id AND a.candidate_id = " + u + ")"
		p.IsSaved = "EXISTS (SELECT 1 FROM saved_jobs s WHERE s.job_id = j.id AND s.user_id = " + u + ")"
	} else {
		p.HasApplied = "FALSE"
		p.IsSaved = "FALSE"
	}

	return p
}

func orderBy(order SortOrder) string {
	switch order {
	case SortSalaryLowToHigh:
		return salaryValue + " ASC NULLS LAST, j.created_at DESC, j.id"
	case SortSalaryHighToLow:
		return salaryValue + " DESC NULLS LAST, j.created_at DESC, j.id"
	case SortOldest:
		return "j.created_at ASC, j.id"
	default:
		return "j.created_at DESC, j.id"
	}
}

// likePattern wraps v for a case-insensitive substring match, escaping LIKE wildcards.
func likePattern(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(v) + "%"
}
