package usecase

import (
	"context"

	"pairpost/internal/domain/entity"
)

// RegisterTokenInput carries one token registration from a device.
type RegisterTokenInput struct {
	UserID     string         `json:"userId"`
	Token      string         `json:"token"`
	DeviceInfo map[string]any `json:"deviceInfo"`
}

// RegistrarUsecase defines the interface for device-token registration use cases
type RegistrarUsecase interface {
	// RegisterToken stores or refreshes a device token binding for a user.
	// Registering the same (user, token) pair again updates device info in
	// place; it is never an error.
	RegisterToken(ctx context.Context, input *RegisterTokenInput) (*entity.DeviceToken, error)
}
