// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"pairpost/internal/domain/entity"
	domainerrors "pairpost/internal/domain/errors"
	"pairpost/internal/domain/repository"
	"pairpost/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// deviceTokenRepository implements the repository.DeviceTokenRepository interface.
type deviceTokenRepository struct {
	db *gorm.DB
}

// NewDeviceTokenRepository is the constructor for deviceTokenRepository.
func NewDeviceTokenRepository(db *gorm.DB) repository.DeviceTokenRepository {
	return &deviceTokenRepository{
		db: db,
	}
}

// UpsertToken inserts the (user, token) row or refreshes device_info and
// updated_at when the pair already exists. Re-registering a token is routine
// on every app launch, so the conflict path is the common case, not an error.
func (repo *deviceTokenRepository) UpsertToken(ctx context.Context, token *entity.DeviceToken) error {
	tokenM := fromDeviceTokenDomain(token)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"device_info", "updated_at"}),
		}).
		Create(tokenM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidation.WithMessage("missing required token fields")
		}

		return domainerrors.NewStoreError(err, "failed to save device token")
	}

	// Update the entity with generated values
	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt
	token.UpdatedAt = tokenM.UpdatedAt

	return nil
}

// FindTokensByUser retrieves every device token registered to a user, newest first.
func (repo *deviceTokenRepository) FindTokensByUser(ctx context.Context, userID string) ([]*entity.DeviceToken, error) {
	var tokenModels []*model.DeviceTokenModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tokenModels).Error; err != nil {
		return nil, errors.Wrap(repository.ErrTokenStore, err.Error())
	}

	tokens := make([]*entity.DeviceToken, 0, len(tokenModels))
	for _, tokenM := range tokenModels {
		tokens = append(tokens, toDeviceTokenDomain(tokenM))
	}

	return tokens, nil
}

// --- Mapper Functions ---

// toDeviceTokenDomain converts a GORM DeviceTokenModel to a domain DeviceToken entity.
func toDeviceTokenDomain(data *model.DeviceTokenModel) *entity.DeviceToken {
	if data == nil {
		return nil
	}

	return &entity.DeviceToken{
		ID:         data.ID,
		UserID:     data.UserID,
		Token:      data.Token,
		DeviceInfo: map[string]any(data.DeviceInfo),
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

// fromDeviceTokenDomain converts a domain DeviceToken entity to a GORM DeviceTokenModel.
func fromDeviceTokenDomain(data *entity.DeviceToken) *model.DeviceTokenModel {
	if data == nil {
		return nil
	}

	return &model.DeviceTokenModel{
		ID:         data.ID,
		UserID:     data.UserID,
		Token:      data.Token,
		DeviceInfo: datatypes.JSONMap(data.DeviceInfo),
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
