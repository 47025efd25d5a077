package service

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/push"
	"github.com/slunch-api/internal/repository"
)

// notificationService is the concrete implementation of NotificationService
type notificationService struct {
	subscribers repository.SubscriberRepository
	sender      push.Sender
	admin       AdminService
	concurrency int
	log         zerolog.Logger
}

// newNotificationService creates a new NotificationService.
// concurrency bounds the number of in-flight push sends.
func newNotificationService(subscribers repository.SubscriberRepository, sender push.Sender, admin AdminService, concurrency int, log zerolog.Logger) *notificationService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &notificationService{
		subscribers: subscribers,
		sender:      sender,
		admin:       admin,
		concurrency: concurrency,
		log:         log.With().Str("service", "notification").Logger(),
	}
}

// Subscribe registers a device token; registering twice is harmless
func (s *notificationService) Subscribe(ctx context.Context, token string) error {
	if err := validateToken(token); err != nil {
		return err
	}
	created, err := s.subscribers.Add(ctx, token)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to add subscriber")
		return storageError("subscribe", err)
	}
	s.log.Info().Bool("new", created).Msg("Subscriber registered")
	return nil
}

// Unsubscribe removes a device token; an unknown token is not an error
func (s *notificationService) Unsubscribe(ctx context.Context, token string) error {
	if err := validateToken(token); err != nil {
		return err
	}
	removed, err := s.subscribers.Remove(ctx, token)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to remove subscriber")
		return storageError("unsubscribe", err)
	}
	s.log.Info().Bool("removed", removed).Msg("Subscriber unregistered")
	return nil
}

// Broadcast pushes n to every registered token.
// Each token gets exactly one attempt; failures are counted, never
// retried, and do not stop the remaining sends.
func (s *notificationService) Broadcast(ctx context.Context, secretKey string, n models.Notification) (*models.BroadcastSummary, error) {
	if err := s.admin.Authorize(secretKey); err != nil {
		return nil, err
	}
	if n.Title == "" || n.Body == "" {
		return nil, newError(KindInvalidArgument, "title and body are required")
	}

	tokens, err := s.subscribers.ListTokens(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load subscribers")
		return nil, storageError("list subscribers", err)
	}
	tokens = dedupe(tokens)

	var succeeded, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, token := range tokens {
		g.Go(func() error {
			if err := s.sender.Send(ctx, token, n); err != nil {
				failed.Add(1)
				s.log.Warn().Err(err).Msg("Push send failed")
				return nil
			}
			succeeded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	summary := &models.BroadcastSummary{
		SuccessCount: int(succeeded.Load()),
		FailureCount: int(failed.Load()),
		Total:        len(tokens),
	}
	s.log.Info().
		Int("success", summary.SuccessCount).
		Int("failure", summary.FailureCount).
		Int("total", summary.Total).
		Msg("Broadcast completed")
	return summary, nil
}

func validateToken(token string) error {
	if token == "" {
		return newError(KindInvalidArgument, "token is required")
	}
	if len(token) > models.MaxTokenLength {
		return newError(KindInvalidArgument, "token is too long")
	}
	return nil
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
