package repository

import (
	"context"

	"github.com/slunch-api/internal/database"
)

// subscriberRepo is the concrete implementation of SubscriberRepository
type subscriberRepo struct {
	db *database.DB
}

// NewSubscriberRepo creates a new subscriber repository
func NewSubscriberRepo(db *database.DB) SubscriberRepository {
	return &subscriberRepo{db: db}
}

// Add registers a token. Re-adding an existing token is not an error;
// the returned bool reports whether a new row was written.
func (r *subscriberRepo) Add(ctx context.Context, token string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO subscribers (token, created_at) VALUES ($1, NOW()) ON CONFLICT (token) DO NOTHING`,
		token,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// Remove deletes a token if present
func (r *subscriberRepo) Remove(ctx context.Context, token string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM subscribers WHERE token = $1", token)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// ListTokens returns every registered token
func (r *subscriberRepo) ListTokens(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT token FROM subscribers ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// Count returns the number of registered tokens
func (r *subscriberRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM subscribers").Scan(&count)
	return count, err
}
