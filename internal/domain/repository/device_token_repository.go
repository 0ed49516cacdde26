// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"pairpost/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrTokenStore is returned when the token store rejects a read or write.
var ErrTokenStore = errors.New("device token store failure")

// DeviceTokenRepository defines the interface for device-token database operations.
//
// The dispatcher only reads from this store; the registrar is its sole writer.
type DeviceTokenRepository interface {
	// UpsertToken creates the (user, token) row or, when it already exists,
	// overwrites device info and refreshes the updated timestamp.
	UpsertToken(ctx context.Context, token *entity.DeviceToken) error

	// FindTokensByUser retrieves every device token registered to a user.
	FindTokensByUser(ctx context.Context, userID string) ([]*entity.DeviceToken, error)
}
