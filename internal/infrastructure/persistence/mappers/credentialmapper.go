package mappers

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/flowdesk-inc/flowdesk/internal/domain/integration"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/persistence/models"
)

// CredentialMapper handles the conversion between the credential domain
// entity and its persistence model.
type CredentialMapper interface {
	ToModel(entity *integration.Credential) *models.CredentialModel
	ToDomain(model *models.CredentialModel) *integration.Credential
}

type credentialMapper struct{}

// NewCredentialMapper creates a new CredentialMapper.
func NewCredentialMapper() CredentialMapper {
	return &credentialMapper{}
}

func (m *credentialMapper) ToModel(entity *integration.Credential) *models.CredentialModel {
	if entity == nil {
		return nil
	}

	var expiresAt *time.Time
	if !entity.AccessTokenExpiresAt.IsZero() {
		t := entity.AccessTokenExpiresAt
		expiresAt = &t
	}

	var scopes datatypes.JSON
	if len(entity.GrantedScopes) > 0 {
		data, err := json.Marshal(entity.GrantedScopes)
		if err == nil {
			scopes = data
		}
	}

	return &models.CredentialModel{
		ID:                     entity.ID,
		UserID:                 entity.UserID,
		AccessTokenCiphertext:  entity.AccessTokenCiphertext,
		RefreshTokenCiphertext: entity.RefreshTokenCiphertext,
		KeyVersion:             entity.KeyVersion,
		AccessTokenExpiresAt:   expiresAt,
		Enabled:                entity.Enabled,
		GrantedScopes:          scopes,
		CreatedAt:              entity.CreatedAt,
		UpdatedAt:              entity.UpdatedAt,
	}
}

func (m *credentialMapper) ToDomain(model *models.CredentialModel) *integration.Credential {
	if model == nil {
		return nil
	}

	var expiresAt time.Time
	if model.AccessTokenExpiresAt != nil {
		expiresAt = *model.AccessTokenExpiresAt
	}

	var scopes []string
	if len(model.GrantedScopes) > 0 {
		// A corrupt scopes column degrades to no scopes rather than failing
		// the read.
		_ = json.Unmarshal(model.GrantedScopes, &scopes)
	}

	return &integration.Credential{
		ID:                     model.ID,
		UserID:                 model.UserID,
		AccessTokenCiphertext:  model.AccessTokenCiphertext,
		RefreshTokenCiphertext: model.RefreshTokenCiphertext,
		KeyVersion:             model.KeyVersion,
		AccessTokenExpiresAt:   expiresAt,
		Enabled:                model.Enabled,
		GrantedScopes:          scopes,
		CreatedAt:              model.CreatedAt,
		UpdatedAt:              model.UpdatedAt,
	}
}
