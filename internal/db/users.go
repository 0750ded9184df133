package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
)

// GetUser retrieves a user by ID. Returns nil when the user does not exist.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	var u types.User
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, username, email, role, photo, company_name, address, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Role, &u.Photo, &u.CompanyName, &u.Address, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a user and fills in its generated ID and timestamp.
// Returns ErrDuplicate when the username or email is taken.
func (db *DB) CreateUser(ctx context.Context, u *types.User) error {
	return insertUser(ctx, db.pool, u)
}

func insertUser(ctx context.Context, q rowQuerier, u *types.User) error {
	err := q.QueryRow(ctx,
		`INSERT INTO users (name, username, email, role, photo, company_name, address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		u.Name, u.Username, u.Email, u.Role, nullIfEmpty(u.Photo), nullIfEmpty(u.CompanyName), nullIfEmpty(u.Address),
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", u.Username, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// SeedListing is a listing to insert for the seeded employer with the given username.
type SeedListing struct {
	Employer string
	Input    *types.JobListingInput
}

// Seed inserts users and then their listings in one transaction; nothing is written unless
// every insert succeeds.
func (db *DB) Seed(ctx context.Context, users []types.User, listings []SeedListing) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	byUsername := make(map[string]uuid.UUID, len(users))
	for i := range users {
		if err := insertUser(ctx, tx, &users[i]); err != nil {
			return err
		}
		byUsername[users[i].Username] = users[i].ID
	}

	for _, l := range listings {
		employerID, ok := byUsername[l.Employer]
		if !ok {
			return fmt.Errorf("listing %s: employer %q is not part of the seed", l.Input.Title, l.Employer)
		}
		if _, err := insertJobListing(ctx, tx, employerID, l.Input); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}
