package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SaveJob bookmarks a listing for a user. Saving twice is a no-op.
func (db *DB) SaveJob(ctx context.Context, userID, jobID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO saved_jobs (user_id, job_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, job_id) DO NOTHING`,
		userID, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// UnsaveJob removes a bookmark. Returns ErrNotFound if the listing was not saved.
func (db *DB) UnsaveJob(ctx context.Context, userID, jobID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`, userID, jobID)
	if err != nil {
		return fmt.Errorf("failed to unsave job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("saved job %s: %w", jobID, ErrNotFound)
	}
	return nil
}

// SavedJobIDs reports which of jobIDs the user has bookmarked, in one query.
func (db *DB) SavedJobIDs(ctx context.Context, userID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return db.jobIDSet(ctx,
		`SELECT job_id FROM saved_jobs WHERE user_id = $1 AND job_id = ANY($2::uuid[])`,
		userID, jobIDs, "saved")
}
