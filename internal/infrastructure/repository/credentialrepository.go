package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flowdesk-inc/flowdesk/internal/domain/integration"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/persistence/mappers"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/persistence/models"
	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
)

// CredentialRepository implements integration.Repository using GORM with
// Model/Mapper separation.
type CredentialRepository struct {
	db     *gorm.DB
	mapper mappers.CredentialMapper
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(db *gorm.DB) integration.Repository {
	return &CredentialRepository{
		db:     db,
		mapper: mappers.NewCredentialMapper(),
	}
}

func (r *CredentialRepository) GetByUserID(ctx context.Context, userID uint) (*integration.Credential, error) {
	var model models.CredentialModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *CredentialRepository) Upsert(ctx context.Context, credential *integration.Credential) error {
	model := r.mapper.ToModel(credential)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token_ciphertext",
			"refresh_token_ciphertext",
			"key_version",
			"access_token_expires_at",
			"enabled",
			"granted_scopes",
			"updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	credential.ID = model.ID
	return nil
}

func (r *CredentialRepository) UpdateAccessToken(ctx context.Context, userID uint, ciphertext []byte, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.CredentialModel{}).
		Where("user_id = ? AND enabled = ?", userID, true).
		Updates(map[string]interface{}{
			"access_token_ciphertext": ciphertext,
			"access_token_expires_at": expiresAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update access token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("credential not found")
	}
	return nil
}

func (r *CredentialRepository) Clear(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.CredentialModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"access_token_ciphertext":  nil,
			"refresh_token_ciphertext": nil,
			"key_version":              "",
			"access_token_expires_at":  nil,
			"granted_scopes":           nil,
			"enabled":                  false,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to clear credential: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("credential not found")
	}
	return nil
}

func (r *CredentialRepository) ListEnabledUserIDs(ctx context.Context) ([]uint, error) {
	var userIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.CredentialModel{}).
		Where("enabled = ?", true).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled credentials: %w", err)
	}
	return userIDs, nil
}
