package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/slunch-api/internal/mocks"
	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/service"
)

// liftedBanRepository reports a ban that is gone by the time the violation is recorded
type liftedBanRepository struct {
	*mocks.MockBanRepository
}

func (r liftedBanRepository) IsBanned(ctx context.Context, clientID string) (bool, error) {
	return true, nil
}

func TestAbuseGuard_Admit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		setup    func(*mocks.MockBanRepository, *mocks.MockCommentRepository)
		wantKind service.Kind
	}{
		{
			name:  "clean client",
			setup: func(*mocks.MockBanRepository, *mocks.MockCommentRepository) {},
		},
		{
			name: "recent comment",
			setup: func(_ *mocks.MockBanRepository, c *mocks.MockCommentRepository) {
				c.Create(ctx, &models.Comment{ID: "1", ClientID: "device-1", CreatedAt: now.Add(-10 * time.Second)})
			},
			wantKind: service.KindRateLimited,
		},
		{
			name: "comment exactly at window edge",
			setup: func(_ *mocks.MockBanRepository, c *mocks.MockCommentRepository) {
				c.Create(ctx, &models.Comment{ID: "1", ClientID: "device-1", CreatedAt: now.Add(-30 * time.Second)})
			},
			wantKind: service.KindRateLimited,
		},
		{
			name: "old comment",
			setup: func(_ *mocks.MockBanRepository, c *mocks.MockCommentRepository) {
				c.Create(ctx, &models.Comment{ID: "1", ClientID: "device-1", CreatedAt: now.Add(-31 * time.Second)})
			},
		},
		{
			name: "banned",
			setup: func(b *mocks.MockBanRepository, _ *mocks.MockCommentRepository) {
				b.Upsert(ctx, "device-1")
			},
			wantKind: service.KindBanned,
		},
		{
			name: "ban lookup fails",
			setup: func(b *mocks.MockBanRepository, _ *mocks.MockCommentRepository) {
				b.QueryError = errors.New("connection reset")
			},
			wantKind: service.KindStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bans := mocks.NewMockBanRepository()
			comments := mocks.NewMockCommentRepository()
			tt.setup(bans, comments)

			guard := service.NewAbuseGuard(bans, comments, 30*time.Second, zerolog.Nop())
			err := guard.Admit(ctx, "device-1", now)

			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("Expected admission, got %v", err)
				}
				return
			}
			assertKind(t, err, tt.wantKind)
		})
	}
}

func TestAbuseGuard_BanLiftedDuringCheck(t *testing.T) {
	bans := liftedBanRepository{mocks.NewMockBanRepository()}
	comments := mocks.NewMockCommentRepository()
	guard := service.NewAbuseGuard(bans, comments, 30*time.Second, zerolog.Nop())

	if err := guard.Admit(context.Background(), "device-1", time.Now()); err != nil {
		t.Fatalf("Expected admission once the ban is gone, got %v", err)
	}
}

func TestAbuseGuard_DefaultWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	comments := mocks.NewMockCommentRepository()
	comments.Create(ctx, &models.Comment{ID: "1", ClientID: "device-1", CreatedAt: now.Add(-20 * time.Second)})

	guard := service.NewAbuseGuard(mocks.NewMockBanRepository(), comments, 0, zerolog.Nop())
	limited, err := guard.CheckRateLimited(ctx, "device-1", now)
	if err != nil {
		t.Fatal(err)
	}
	if !limited {
		t.Errorf("Expected default %v window to apply", service.DefaultRateLimitWindow)
	}
}
