package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/slunch-api/internal/repository"
)

// DefaultRateLimitWindow is the trailing interval in which a client may
// have at most one accepted write.
const DefaultRateLimitWindow = 30 * time.Second

// AbuseGuard admits or rejects write attempts by client id.
//
// The rate limit is derived from comment timestamps rather than a counter,
// and check-then-insert is not transactional: two requests from the same
// client arriving together may both be admitted. That is acceptable for
// spam control.
type AbuseGuard struct {
	bans     repository.BanRepository
	comments repository.CommentRepository
	window   time.Duration
	log      zerolog.Logger
}

// NewAbuseGuard creates an AbuseGuard with the given rate-limit window
func NewAbuseGuard(bans repository.BanRepository, comments repository.CommentRepository, window time.Duration, log zerolog.Logger) *AbuseGuard {
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	return &AbuseGuard{
		bans:     bans,
		comments: comments,
		window:   window,
		log:      log.With().Str("component", "abuse_guard").Logger(),
	}
}

// CheckBanned reports whether clientID is banned
func (g *AbuseGuard) CheckBanned(ctx context.Context, clientID string) (bool, error) {
	return g.bans.IsBanned(ctx, clientID)
}

// RecordViolation bumps the violation counter of a banned client
func (g *AbuseGuard) RecordViolation(ctx context.Context, clientID string) (int, error) {
	return g.bans.RecordViolation(ctx, clientID)
}

// CheckRateLimited reports whether clientID wrote within the window ending at now
func (g *AbuseGuard) CheckRateLimited(ctx context.Context, clientID string, now time.Time) (bool, error) {
	return g.comments.ExistsByClientSince(ctx, clientID, now.Add(-g.window))
}

// Admit evaluates the ban first and the rate limit second. A banned
// client is always reported as banned, and every banned attempt is
// counted, whatever its rate-limit state.
func (g *AbuseGuard) Admit(ctx context.Context, clientID string, now time.Time) error {
	banned, err := g.CheckBanned(ctx, clientID)
	if err != nil {
		return storageError("ban lookup", err)
	}
	if banned {
		count, err := g.RecordViolation(ctx, clientID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// Ban lifted between the two statements; treat as not banned.
		case err != nil:
			return storageError("record violation", err)
		default:
			g.log.Warn().
				Str("client_id", clientID).
				Int("violation_count", count).
				Msg("Write rejected: client banned")
			return newError(KindBanned, "You are banned")
		}
	}

	limited, err := g.CheckRateLimited(ctx, clientID, now)
	if err != nil {
		return storageError("rate limit lookup", err)
	}
	if limited {
		g.log.Warn().Str("client_id", clientID).Msg("Write rejected: rate limited")
		return newError(KindRateLimited, "Too many requests")
	}

	return nil
}
