// Package push delivers notifications to individual device tokens.
package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/slunch-api/internal/models"
)

// Sender pushes one notification to one device token
type Sender interface {
	Send(ctx context.Context, token string, n models.Notification) error
}

// FCMSender delivers through Firebase Cloud Messaging
type FCMSender struct {
	client *messaging.Client
	log    zerolog.Logger
}

// NewFCMSender initialises a Firebase app from a service-account file
func NewFCMSender(ctx context.Context, credentialsFile string, log zerolog.Logger) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return &FCMSender{
		client: client,
		log:    log.With().Str("component", "fcm").Logger(),
	}, nil
}

// Send delivers n to a single token
func (s *FCMSender) Send(ctx context.Context, token string, n models.Notification) error {
	id, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
	})
	if err != nil {
		if messaging.IsUnregistered(err) {
			return fmt.Errorf("token unregistered: %w", err)
		}
		return fmt.Errorf("fcm send: %w", err)
	}
	s.log.Debug().Str("message_id", id).Msg("Push delivered")
	return nil
}

// LogSender only logs notifications. It is used when no push
// credentials are configured.
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender creates a log-only sender
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log.With().Str("component", "push-log").Logger()}
}

// Send logs the notification and always succeeds
func (s *LogSender) Send(ctx context.Context, token string, n models.Notification) error {
	s.log.Info().
		Str("token_suffix", tokenSuffix(token)).
		Str("title", n.Title).
		Msg("Push skipped (no credentials configured)")
	return nil
}

func tokenSuffix(token string) string {
	if len(token) <= 6 {
		return token
	}
	return token[len(token)-6:]
}
