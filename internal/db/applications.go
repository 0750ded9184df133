package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
)

// -----------------------------------------------------------------------------
// Application Methods
// -----------------------------------------------------------------------------

const applicationColumns = `a.id, a.job_id, j.title, a.candidate_id, u.name, u.username, u.email,
	a.application_status, a.resume, a.extracted_resume, a.contract, a.created_at`

const applicationFrom = `applications a
	JOIN job_listings j ON j.id = a.job_id
	JOIN users u ON u.id = a.candidate_id`

func scanApplication(row pgx.Row) (*types.Application, error) {
	var a types.Application
	err := row.Scan(&a.ID, &a.JobID, &a.JobTitle, &a.CandidateID, &a.CandidateName,
		&a.CandidateUsername, &a.CandidateEmail, &a.Status, &a.Resume, &a.ExtractedResume,
		&a.Contract, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplication records a candidate's application and increments the listing's
// applicant count. Returns ErrDuplicate if the candidate already applied.
func (db *DB) CreateApplication(ctx context.Context, jobID, candidateID uuid.UUID, req *types.ApplyRequest) (*types.Application, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO applications (job_id, candidate_id, resume, extracted_resume)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		jobID, candidateID, req.Resume, req.ExtractedResume,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("application for job %s: %w", jobID, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE job_listings SET applicants = applicants + 1 WHERE id = $1`, jobID); err != nil {
		return nil, fmt.Errorf("failed to increment applicants: %w", err)
	}

	a, err := scanApplication(tx.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM `+applicationFrom+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit application: %w", err)
	}
	return a, nil
}

// GetApplication retrieves an application by ID. Returns nil when it does not exist.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM `+applicationFrom+` WHERE a.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// ListApplicationsForJob returns a listing's applications, oldest first.
func (db *DB) ListApplicationsForJob(ctx context.Context, jobID uuid.UUID) ([]types.Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM `+applicationFrom+`
		 WHERE a.job_id = $1
		 ORDER BY a.created_at ASC, a.id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []types.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// UpdateApplicationStatus sets an application's status.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET application_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetApplicationContract records where an application's contract document is stored.
func (db *DB) SetApplicationContract(ctx context.Context, id uuid.UUID, location string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET contract = $1 WHERE id = $2`, location, id)
	if err != nil {
		return fmt.Errorf("failed to set application contract: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	return nil
}

// AppliedJobIDs reports which of jobIDs the candidate has applied to, in one query.
func (db *DB) AppliedJobIDs(ctx context.Context, candidateID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return db.jobIDSet(ctx,
		`SELECT job_id FROM applications WHERE candidate_id = $1 AND job_id = ANY($2::uuid[])`,
		candidateID, jobIDs, "applied")
}

// jobIDSet runs a query returning job_id rows for a user and a batch of listings.
func (db *DB) jobIDSet(ctx context.Context, query string, userID uuid.UUID, jobIDs []uuid.UUID, what string) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool)
	if len(jobIDs) == 0 {
		return set, nil
	}

	rows, err := db.pool.Query(ctx, query, userID, uuidStrings(jobIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s jobs: %w", what, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s job: %w", what, err)
		}
		set[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s jobs: %w", what, err)
	}
	return set, nil
}
