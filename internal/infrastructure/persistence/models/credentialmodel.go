package models

import (
	"time"

	"gorm.io/datatypes"
)

// CredentialModel is the persistence model for integration credentials.
// Token columns hold ciphertext only. Rows are never hard-deleted; disconnect
// nulls the token columns and flips enabled off.
type CredentialModel struct {
	ID                     uint           `gorm:"primaryKey;autoIncrement"`
	UserID                 uint           `gorm:"not null;uniqueIndex:idx_credentials_user"`
	AccessTokenCiphertext  []byte         `gorm:"type:varbinary(2048)"`
	RefreshTokenCiphertext []byte         `gorm:"type:varbinary(2048)"`
	KeyVersion             string         `gorm:"size:8"`
	AccessTokenExpiresAt   *time.Time     `gorm:""`
	Enabled                bool           `gorm:"not null;default:false"`
	GrantedScopes          datatypes.JSON `gorm:"type:json"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName specifies the table name
func (CredentialModel) TableName() string {
	return "integration_credentials"
}
