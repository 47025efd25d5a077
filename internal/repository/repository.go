package repository

import (
	"context"
	"errors"
	"time"

	"github.com/slunch-api/internal/database"
	"github.com/slunch-api/internal/models"
)

// ErrNotFound is returned by mutating operations whose target row is absent
var ErrNotFound = errors.New("record not found")

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByDay(ctx context.Context, start, end time.Time, limit, offset int) ([]*models.Comment, error)
	UpdateText(ctx context.Context, id, text string, updatedAt time.Time) error
	ExistsByClientSince(ctx context.Context, clientID string, since time.Time) (bool, error)
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Comment) error) error
}

// BanRepository defines the interface for ban record operations
type BanRepository interface {
	IsBanned(ctx context.Context, clientID string) (bool, error)
	RecordViolation(ctx context.Context, clientID string) (int, error)
	Get(ctx context.Context, clientID string) (*models.Ban, error)
	Upsert(ctx context.Context, clientID string) (*models.Ban, error)
	Delete(ctx context.Context, clientID string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// SubscriberRepository defines the interface for push subscription tokens
type SubscriberRepository interface {
	Add(ctx context.Context, token string) (bool, error)
	Remove(ctx context.Context, token string) (bool, error)
	ListTokens(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment    CommentRepository
	Ban        BanRepository
	Subscriber SubscriberRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Comment:    NewCommentRepo(db),
		Ban:        NewBanRepo(db),
		Subscriber: NewSubscriberRepo(db),
	}
}
