package service

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/slunch-api/internal/config"
	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/push"
	"github.com/slunch-api/internal/repository"
	"github.com/slunch-api/internal/signature"
	"github.com/slunch-api/internal/validation"
)

// CommentService defines the comment board use cases
type CommentService interface {
	ListToday(ctx context.Context, page, pageSize int) ([]*models.Comment, error)
	Submit(ctx context.Context, req models.SubmitCommentRequest) (*models.Comment, error)
	Edit(ctx context.Context, req models.EditCommentRequest) (*models.Comment, error)
	Get(ctx context.Context, id string) (*models.Comment, error)
}

// NotificationService defines the subscriber registry and broadcast operations
type NotificationService interface {
	Subscribe(ctx context.Context, token string) error
	Unsubscribe(ctx context.Context, token string) error
	Broadcast(ctx context.Context, secretKey string, n models.Notification) (*models.BroadcastSummary, error)
}

// AdminService defines shared-secret guarded administration
type AdminService interface {
	Authorize(secretKey string) error
	Ban(ctx context.Context, clientID string) (*models.Ban, error)
	Unban(ctx context.Context, clientID string) error
	GetBan(ctx context.Context, clientID string) (*models.Ban, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamComments(ctx context.Context, w http.ResponseWriter, format string) error
	GetCount(ctx context.Context, resource string) (int, error)
}

// ReplayGuard remembers used signatures. Claim returns false on reuse.
type ReplayGuard interface {
	Claim(ctx context.Context, clientID string, timestampMillis int64, signature string) (bool, error)
}

// Deps carries the external collaborators of the services
type Deps struct {
	Sender push.Sender
	Replay ReplayGuard // nil disables replay protection
	Now    func() time.Time
}

// Services holds all service interfaces
type Services struct {
	Comment      CommentService
	Notification NotificationService
	Admin        AdminService
	Export       ExportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, deps Deps, log zerolog.Logger) *Services {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	admin := newAdminService(repos.Ban, cfg.Security.AdminSecretKey, log)
	verifier := signature.NewVerifier(cfg.Security.CommentSecret, cfg.Security.SignatureWindow, signature.WithClock(now))
	guard := NewAbuseGuard(repos.Ban, repos.Comment, cfg.Security.RateLimitWindow, log)

	commentSvc := newCommentService(commentServiceParams{
		comments:         repos.Comment,
		verifier:         verifier,
		replay:           deps.Replay,
		guard:            guard,
		validator:        validation.NewValidator(),
		location:         cfg.Security.Location(),
		enforceOwnership: cfg.Security.EnforceCommentOwnership,
		now:              now,
	}, log)

	notificationSvc := newNotificationService(repos.Subscriber, deps.Sender, admin, cfg.Push.Concurrency, log)

	return &Services{
		Comment:      commentSvc,
		Notification: notificationSvc,
		Admin:        admin,
		Export:       newExportService(repos, log),
	}
}
