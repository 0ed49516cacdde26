// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DeviceToken represents one push-capable app installation owned by a user.
// A user may hold several rows (one per device); the pair (UserID, Token) is
// unique and re-registration overwrites DeviceInfo and UpdatedAt in place.
type DeviceToken struct {
	ID         uuid.UUID      `json:"id"`          // Row identifier.
	UserID     string         `json:"user_id"`     // Opaque owner identifier issued by the auth provider.
	Token      string         `json:"token"`       // Opaque FCM registration token, the delivery address.
	DeviceInfo map[string]any `json:"device_info"` // Free-form device metadata (OS, app version, ...).
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"` // Refreshed on every re-registration.
}
