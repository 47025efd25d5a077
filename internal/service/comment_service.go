package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/repository"
	"github.com/slunch-api/internal/signature"
	"github.com/slunch-api/internal/validation"
)

// maxListOffset bounds the row offset handed to the store
const maxListOffset = math.MaxInt32

type commentServiceParams struct {
	comments         repository.CommentRepository
	verifier         *signature.Verifier
	replay           ReplayGuard
	guard            *AbuseGuard
	validator        *validation.Validator
	location         *time.Location
	enforceOwnership bool
	now              func() time.Time
}

// commentService is the concrete implementation of CommentService
type commentService struct {
	commentServiceParams
	log zerolog.Logger
}

// newCommentService creates a new CommentService
func newCommentService(p commentServiceParams, log zerolog.Logger) *commentService {
	if p.location == nil {
		p.location = time.Local
	}
	if p.now == nil {
		p.now = time.Now
	}
	return &commentService{
		commentServiceParams: p,
		log:                  log.With().Str("service", "comment").Logger(),
	}
}

// ListToday returns one page of today's comments, newest first
func (s *commentService) ListToday(ctx context.Context, page, pageSize int) ([]*models.Comment, error) {
	if page < 1 {
		return nil, newError(KindInvalidArgument, "page must be >= 1")
	}
	if pageSize < 1 || pageSize > models.MaxPageSize {
		return nil, newError(KindInvalidArgument, "page_size must be between 1 and 100")
	}

	// An offset past any realistic day is an empty page, and must not overflow.
	if page-1 > maxListOffset/pageSize {
		return []*models.Comment{}, nil
	}

	start, end := dayBounds(s.now(), s.location)
	comments, err := s.comments.ListByDay(ctx, start, end, pageSize, (page-1)*pageSize)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list comments")
		return nil, storageError("list comments", err)
	}
	return comments, nil
}

// Submit verifies, admits, validates and persists a new comment
func (s *commentService) Submit(ctx context.Context, req models.SubmitCommentRequest) (*models.Comment, error) {
	if err := s.authenticate(ctx, req.Auth); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.guard.Admit(ctx, req.Auth.ClientID, now); err != nil {
		return nil, err
	}

	if errs := s.validator.ValidateComment(req.Username, req.Text); len(errs) > 0 {
		return nil, &Error{Kind: KindInvalidContent, Message: errs[0].Error(), Details: errs}
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		Username:  req.Username,
		Text:      req.Text,
		ClientID:  req.Auth.ClientID,
		SourceIP:  req.SourceIP,
		CreatedAt: now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.log.Error().Err(err).Str("client_id", comment.ClientID).Msg("Failed to insert comment")
		return nil, storageError("insert comment", err)
	}

	s.log.Info().
		Str("comment_id", comment.ID).
		Str("client_id", comment.ClientID).
		Msg("Comment created")
	return comment, nil
}

// Edit replaces the text of an existing comment.
//
// Unless ownership enforcement is enabled, any client holding a valid
// signature may edit any comment.
func (s *commentService) Edit(ctx context.Context, req models.EditCommentRequest) (*models.Comment, error) {
	if err := s.authenticate(ctx, req.Auth); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.guard.Admit(ctx, req.Auth.ClientID, now); err != nil {
		return nil, err
	}

	if errs := s.validator.ValidateText(req.Text); len(errs) > 0 {
		return nil, &Error{Kind: KindInvalidContent, Message: errs[0].Error(), Details: errs}
	}

	comment, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if s.enforceOwnership && comment.ClientID != req.Auth.ClientID {
		s.log.Warn().
			Str("comment_id", comment.ID).
			Str("client_id", req.Auth.ClientID).
			Msg("Edit rejected: not the author")
		return nil, newError(KindAuth, "Not the author of this comment")
	}

	if err := s.comments.UpdateText(ctx, comment.ID, req.Text, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "Comment not found")
		}
		s.log.Error().Err(err).Str("comment_id", comment.ID).Msg("Failed to update comment")
		return nil, storageError("update comment", err)
	}

	comment.Text = req.Text
	comment.UpdatedAt = &now
	s.log.Info().Str("comment_id", comment.ID).Str("client_id", req.Auth.ClientID).Msg("Comment edited")
	return comment, nil
}

// Get looks up one comment by id
func (s *commentService) Get(ctx context.Context, id string) (*models.Comment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, newError(KindNotFound, "Comment not found")
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("find comment", err)
	}
	if comment == nil {
		return nil, newError(KindNotFound, "Comment not found")
	}
	return comment, nil
}

// authenticate runs the signature check and, when configured, the replay check
func (s *commentService) authenticate(ctx context.Context, auth models.SignedRequest) error {
	millis, err := s.verifier.Verify(auth.ClientID, auth.Timestamp, auth.Signature)
	if err != nil {
		s.log.Warn().Err(err).Str("client_id", auth.ClientID).Msg("Signature rejected")
		return verifierError(err)
	}

	if s.replay == nil {
		return nil
	}
	fresh, err := s.replay.Claim(ctx, auth.ClientID, millis, auth.Signature)
	if err != nil {
		// Replay protection is best effort; an unavailable cache must not
		// take the board down.
		s.log.Warn().Err(err).Msg("Replay guard unavailable")
		return nil
	}
	if !fresh {
		s.log.Warn().Str("client_id", auth.ClientID).Msg("Signature replay rejected")
		return newError(KindAuth, "Signature already used")
	}
	return nil
}

func verifierError(err error) *Error {
	switch {
	case errors.Is(err, signature.ErrMissingFields):
		return &Error{Kind: KindAuth, Message: "Missing headers", Err: err}
	case errors.Is(err, signature.ErrStaleTimestamp):
		return &Error{Kind: KindStaleTimestamp, Message: "Request expired", Err: err}
	case errors.Is(err, signature.ErrSignatureMismatch):
		return &Error{Kind: KindSignatureMismatch, Message: "Invalid signature", Err: err}
	default:
		return &Error{Kind: KindAuth, Message: "Invalid timestamp", Err: err}
	}
}

// dayBounds returns [midnight, next midnight) of the calendar day containing t in loc
func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
