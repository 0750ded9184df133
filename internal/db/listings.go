package db

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/search"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
)

// -----------------------------------------------------------------------------
// Job Listing Methods
// -----------------------------------------------------------------------------

// listingColumns selects a listing with its employer summary; pair with listingFrom.
const listingColumns = `j.id, j.employer_id, j.title, j.location, j.company, j.description,
	j.responsibilities, j.required_qualifications, j.preferred_qualifications, j.benefits,
	j.experience_required, j.experience_level, j.salary, j.job_type, j.job_location_type,
	j.job_status, j.applicants, j.created_at,
	u.name, u.username, u.photo, u.company_name`

const listingFrom = `job_listings j JOIN users u ON u.id = j.employer_id`

var _ search.Annotator = (*DB)(nil)

// scanListing reads listingColumns followed by any extra destinations.
func scanListing(row pgx.Row, extra ...any) (*types.JobListing, error) {
	var l types.JobListing
	emp := &types.EmployerSummary{}

	dest := []any{
		&l.ID, &l.EmployerID, &l.Title, &l.Location, &l.Company, &l.Description,
		&l.Responsibilities, &l.RequiredQualifications, &l.PreferredQualifications, &l.Benefits,
		&l.ExperienceRequired, &l.ExperienceLevel, &l.Salary, &l.JobType, &l.JobLocationType,
		&l.JobStatus, &l.Applicants, &l.CreatedAt,
		&emp.Name, &emp.Username, &emp.Photo, &emp.CompanyName,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	emp.ID = l.EmployerID
	l.Employer = emp
	return &l, nil
}

// Page selects a window of a result set. Page numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows skipped before this page. It saturates at math.MaxInt
// instead of overflowing.
func (p Page) Offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}

// Window returns the [start, end) bounds of this page within n rows.
func (p Page) Window(n int) (start, end int) {
	start = min(p.Offset(), n)
	end = start + min(max(p.Size, 0), n-start)
	return start, end
}

// SearchPage is one page of a listing search.
type SearchPage struct {
	Count   int
	Results []search.Result
}

// searchQueries renders the page and count statements for a plan.
// The page statement appends LIMIT and OFFSET placeholders after the plan's own arguments.
func searchQueries(plan *search.Plan) (pageSQL, countSQL string) {
	n := len(plan.Args())
	pageSQL = fmt.Sprintf(`SELECT %s, (%s)::float8 AS score, %s AS has_applied, %s AS is_saved
		 FROM %s
		 WHERE %s
		 ORDER BY %s
		 LIMIT $%d OFFSET $%d`,
		listingColumns, plan.Score, plan.HasApplied, plan.IsSaved,
		listingFrom, plan.Where, plan.OrderBy, n+1, n+2)
	countSQL = "SELECT COUNT(*) FROM job_listings j WHERE " + plan.Where
	return pageSQL, countSQL
}

// SearchJobListings executes a search plan and returns one page of results with the
// total number of matches.
func (db *DB) SearchJobListings(ctx context.Context, plan *search.Plan, page Page) (*SearchPage, error) {
	pageSQL, countSQL := searchQueries(plan)

	var out SearchPage
	if err := db.pool.QueryRow(ctx, countSQL, plan.WhereArgs()...).Scan(&out.Count); err != nil {
		return nil, fmt.Errorf("failed to count job listings: %w", err)
	}

	args := make([]any, 0, len(plan.Args())+2)
	args = append(args, plan.Args()...)
	args = append(args, page.Size, page.Offset())

	rows, err := db.pool.Query(ctx, pageSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search job listings: %w", err)
	}
	defer rows.Close()

	out.Results = []search.Result{}
	for rows.Next() {
		var r search.Result
		l, err := scanListing(rows, &r.Score, &r.HasApplied, &r.IsSaved)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job listing: %w", err)
		}
		r.Listing = l
		out.Results = append(out.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job listings: %w", err)
	}
	return &out, nil
}

// GetJobListing retrieves a listing by ID, drafts included. Returns nil when it does not exist.
func (db *DB) GetJobListing(ctx context.Context, id uuid.UUID) (*types.JobListing, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM `+listingFrom+` WHERE j.id = $1`, id)
	l, err := scanListing(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job listing: %w", err)
	}
	return l, nil
}

// ListEmployerJobListings returns every listing an employer owns, drafts included, newest first.
func (db *DB) ListEmployerJobListings(ctx context.Context, employerID uuid.UUID) ([]types.JobListing, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+listingColumns+` FROM `+listingFrom+`
		 WHERE j.employer_id = $1
		 ORDER BY j.created_at DESC, j.id`,
		employerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list employer job listings: %w", err)
	}
	defer rows.Close()

	listings := []types.JobListing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job listing: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job listings: %w", err)
	}
	return listings, nil
}

// CreateJobListing publishes a listing for an employer. Defaults are applied to in.
func (db *DB) CreateJobListing(ctx context.Context, employerID uuid.UUID, in *types.JobListingInput) (*types.JobListing, error) {
	id, err := insertJobListing(ctx, db.pool, employerID, in)
	if err != nil {
		return nil, err
	}
	return db.GetJobListing(ctx, id)
}

// rowQuerier is satisfied by both the pool and a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertJobListing(ctx context.Context, q rowQuerier, employerID uuid.UUID, in *types.JobListingInput) (uuid.UUID, error) {
	in.ApplyDefaults()

	var id uuid.UUID
	err := q.QueryRow(ctx,
		`INSERT INTO job_listings (employer_id, title, location, company, description,
		                           responsibilities, required_qualifications, preferred_qualifications, benefits,
		                           experience_required, experience_level, salary, job_type, job_location_type, job_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		employerID, in.Title, in.Location, in.Company, in.Description,
		textArray(in.Responsibilities), textArray(in.RequiredQualifications),
		textArray(in.PreferredQualifications), textArray(in.Benefits),
		in.ExperienceRequired, in.ExperienceLevel, nullIfEmpty(in.Salary),
		in.JobType, in.JobLocationType, in.JobStatus,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job listing: %w", err)
	}
	return id, nil
}

// UpdateJobListing replaces a listing's editable fields. Returns nil when it does not exist.
func (db *DB) UpdateJobListing(ctx context.Context, id uuid.UUID, in *types.JobListingInput) (*types.JobListing, error) {
	in.ApplyDefaults()

	result, err := db.pool.Exec(ctx,
		`UPDATE job_listings SET
		     title = $2, location = $3, company = $4, description = $5,
		     responsibilities = $6, required_qualifications = $7,
		     preferred_qualifications = $8, benefits = $9,
		     experience_required = $10, experience_level = $11, salary = $12,
		     job_type = $13, job_location_type = $14, job_status = $15
		 WHERE id = $1`,
		id, in.Title, in.Location, in.Company, in.Description,
		textArray(in.Responsibilities), textArray(in.RequiredQualifications),
		textArray(in.PreferredQualifications), textArray(in.Benefits),
		in.ExperienceRequired, in.ExperienceLevel, nullIfEmpty(in.Salary),
		in.JobType, in.JobLocationType, in.JobStatus,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update job listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, nil
	}

	return db.GetJobListing(ctx, id)
}

// DeleteJobListing deletes a listing together with its applications and bookmarks (via cascade)
func (db *DB) DeleteJobListing(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM job_listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job listing %s: %w", id, ErrNotFound)
	}
	return nil
}
