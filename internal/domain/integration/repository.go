package integration

import (
	"context"
	"time"
)

// Repository defines data access for integration credentials.
type Repository interface {
	// GetByUserID retrieves the credential for a user. Returns (nil, nil)
	// when no row exists.
	GetByUserID(ctx context.Context, userID uint) (*Credential, error)

	// Upsert creates or replaces the credential for its user.
	Upsert(ctx context.Context, credential *Credential) error

	// UpdateAccessToken mutates only the access token ciphertext and expiry.
	// Used by the refresh path so it never races with scope updates.
	UpdateAccessToken(ctx context.Context, userID uint, ciphertext []byte, expiresAt time.Time) error

	// Clear nulls all token fields and disables the credential, keeping the
	// row for audit.
	Clear(ctx context.Context, userID uint) error

	// ListEnabledUserIDs returns the users with an enabled credential, for
	// the scheduled sync worker.
	ListEnabledUserIDs(ctx context.Context) ([]uint, error)
}
