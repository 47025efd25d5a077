package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/repository"
	"github.com/slunch-api/internal/signature"
)

// adminService is the concrete implementation of AdminService
type adminService struct {
	bans      repository.BanRepository
	secretKey string
	log       zerolog.Logger
}

// newAdminService creates a new AdminService guarded by secretKey
func newAdminService(bans repository.BanRepository, secretKey string, log zerolog.Logger) *adminService {
	return &adminService{
		bans:      bans,
		secretKey: secretKey,
		log:       log.With().Str("service", "admin").Logger(),
	}
}

// Authorize checks a presented admin secret in constant time
func (s *adminService) Authorize(secretKey string) error {
	if !signature.SecretsEqual(secretKey, s.secretKey) {
		s.log.Warn().Msg("Admin request with invalid secret key")
		return newError(KindAuth, "Not authorized")
	}
	return nil
}

// Ban creates (or keeps) a ban for clientID
func (s *adminService) Ban(ctx context.Context, clientID string) (*models.Ban, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, newError(KindInvalidArgument, "client_id is required")
	}
	ban, err := s.bans.Upsert(ctx, clientID)
	if err != nil {
		return nil, storageError("ban client", err)
	}
	s.log.Info().Str("client_id", clientID).Msg("Client banned")
	return ban, nil
}

// Unban lifts the ban of clientID
func (s *adminService) Unban(ctx context.Context, clientID string) error {
	removed, err := s.bans.Delete(ctx, clientID)
	if err != nil {
		return storageError("unban client", err)
	}
	if !removed {
		return newError(KindNotFound, "Ban not found")
	}
	s.log.Info().Str("client_id", clientID).Msg("Client unbanned")
	return nil
}

// GetBan returns the ban record of clientID
func (s *adminService) GetBan(ctx context.Context, clientID string) (*models.Ban, error) {
	ban, err := s.bans.Get(ctx, clientID)
	if err != nil {
		return nil, storageError("get ban", err)
	}
	if ban == nil {
		return nil, newError(KindNotFound, "Ban not found")
	}
	return ban, nil
}
