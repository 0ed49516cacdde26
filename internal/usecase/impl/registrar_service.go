package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pairpost/internal/domain/entity"
	domainerrors "pairpost/internal/domain/errors"
	"pairpost/internal/domain/repository"
	"pairpost/internal/usecase"

	"github.com/google/uuid"
)

type registrarService struct {
	tokenRepo repository.DeviceTokenRepository
	logger    *slog.Logger
}

// NewRegistrarService creates a new registrar service instance
func NewRegistrarService(tokenRepo repository.DeviceTokenRepository, logger *slog.Logger) usecase.RegistrarUsecase {
	return &registrarService{
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// RegisterToken stores or refreshes a device token binding for a user.
func (s *registrarService) RegisterToken(ctx context.Context, input *usecase.RegisterTokenInput) (*entity.DeviceToken, error) {
	if input == nil || strings.TrimSpace(input.UserID) == "" || strings.TrimSpace(input.Token) == "" {
		return nil, domainerrors.ErrValidation.WithMessage("userId and token required")
	}

	deviceInfo := input.DeviceInfo
	if deviceInfo == nil {
		deviceInfo = map[string]any{}
	}

	token := &entity.DeviceToken{
		ID:         uuid.New(),
		UserID:     input.UserID,
		Token:      input.Token,
		DeviceInfo: deviceInfo,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.tokenRepo.UpsertToken(ctx, token); err != nil {
		return nil, err
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "Device token registered",
		slog.String("user_id", token.UserID),
	)

	return token, nil
}
