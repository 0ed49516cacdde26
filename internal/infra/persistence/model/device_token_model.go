package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DeviceTokenModel is the GORM-specific struct for the 'device_tokens' table.
// Each row binds one FCM registration token to a user; the (user_id, token)
// pair is unique so re-registering the same token refreshes the row in place.
type DeviceTokenModel struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID     string            `gorm:"type:varchar(255);not null;index;uniqueIndex:idx_device_tokens_user_token"`
	Token      string            `gorm:"type:text;not null;uniqueIndex:idx_device_tokens_user_token"`
	DeviceInfo datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (DeviceTokenModel) TableName() string {
	return "device_tokens"
}
