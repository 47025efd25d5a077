package repository

import (
	"context"
	"database/sql"

	"github.com/slunch-api/internal/database"
	"github.com/slunch-api/internal/models"
)

// banRepo is the concrete implementation of BanRepository
type banRepo struct {
	db *database.DB
}

// NewBanRepo creates a new ban repository
func NewBanRepo(db *database.DB) BanRepository {
	return &banRepo{db: db}
}

// IsBanned checks whether a ban record exists for clientID
func (r *banRepo) IsBanned(ctx context.Context, clientID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM bans WHERE client_id = $1)", clientID).Scan(&exists)
	return exists, err
}

// RecordViolation increments the violation counter and returns the new value.
// The increment is a single statement, so concurrent attempts are all counted.
func (r *banRepo) RecordViolation(ctx context.Context, clientID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		UPDATE bans SET violation_count = violation_count + 1, updated_at = NOW()
		WHERE client_id = $1
		RETURNING violation_count
	`, clientID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return count, err
}

// Get retrieves a ban record, or nil when the client is not banned
func (r *banRepo) Get(ctx context.Context, clientID string) (*models.Ban, error) {
	var ban models.Ban
	err := r.db.QueryRowContext(ctx,
		`SELECT client_id, violation_count, created_at, updated_at FROM bans WHERE client_id = $1`,
		clientID,
	).Scan(&ban.ClientID, &ban.ViolationCount, &ban.CreatedAt, &ban.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ban, nil
}

// Upsert creates a ban for clientID, keeping the counter of an existing one
func (r *banRepo) Upsert(ctx context.Context, clientID string) (*models.Ban, error) {
	var ban models.Ban
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bans (client_id, violation_count, created_at, updated_at)
		VALUES ($1, 0, NOW(), NOW())
		ON CONFLICT (client_id) DO UPDATE SET updated_at = NOW()
		RETURNING client_id, violation_count, created_at, updated_at
	`, clientID).Scan(&ban.ClientID, &ban.ViolationCount, &ban.CreatedAt, &ban.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ban, nil
}

// Delete lifts a ban. It reports whether a record was removed.
func (r *banRepo) Delete(ctx context.Context, clientID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bans WHERE client_id = $1", clientID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// Count returns the number of banned clients
func (r *banRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bans").Scan(&count)
	return count, err
}
