// Package services holds application services shared by the sync use cases.
package services

import (
	"context"
	"time"

	"github.com/flowdesk-inc/flowdesk/internal/domain/integration"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/google"
	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

// RefreshLock serializes refresh attempts per user. Backed by redis in
// production so the single-flight guarantee holds across processes.
type RefreshLock interface {
	Acquire(ctx context.Context, userID uint) (bool, error)
	Release(ctx context.Context, userID uint) error
}

// TokenRefresher performs the refresh-grant exchange with the provider.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*google.Token, error)
}

// CredentialCipher encrypts and decrypts stored token material.
type CredentialCipher interface {
	Encrypt(plaintext string) (ciphertext []byte, keyVersion string, err error)
	Decrypt(ciphertext []byte, keyVersion string) (string, error)
}

// TokenManagerConfig tunes the expiry margin and the wait applied when
// another caller holds the refresh lock.
type TokenManagerConfig struct {
	ExpirySkew  time.Duration
	RefreshWait time.Duration
}

// TokenManager is the token lifecycle manager. Its single correctness
// property: no two refresh exchanges for the same user are ever in flight
// concurrently. Most providers invalidate the prior refresh token on each
// use, so a duplicate concurrent refresh would strand one caller with a
// dead token.
type TokenManager struct {
	credentials integration.Repository
	cipher      CredentialCipher
	lock        RefreshLock
	oauth       TokenRefresher
	cfg         TokenManagerConfig
	logger      logger.Interface

	// now is injectable for tests.
	now func() time.Time
}

// NewTokenManager creates a token lifecycle manager.
func NewTokenManager(
	credentials integration.Repository,
	cipher CredentialCipher,
	lock RefreshLock,
	oauth TokenRefresher,
	cfg TokenManagerConfig,
	log logger.Interface,
) *TokenManager {
	if cfg.ExpirySkew <= 0 {
		cfg.ExpirySkew = time.Minute
	}
	if cfg.RefreshWait <= 0 {
		cfg.RefreshWait = 1500 * time.Millisecond
	}
	return &TokenManager{
		credentials: credentials,
		cipher:      cipher,
		lock:        lock,
		oauth:       oauth,
		cfg:         cfg,
		logger:      log,
		now:         time.Now,
	}
}

// GetValidAccessToken returns a decrypted access token for the user,
// refreshing it first when the stored expiry is past or within the safety
// margin. The second return value reports whether a refresh was performed
// by this call.
func (m *TokenManager) GetValidAccessToken(ctx context.Context, userID uint) (string, bool, error) {
	cred, err := m.credentials.GetByUserID(ctx, userID)
	if err != nil {
		return "", false, err
	}
	if !cred.Usable() {
		return "", false, apperrors.NewCredentialMissingError()
	}

	if !cred.AccessExpired(m.now(), m.cfg.ExpirySkew) {
		token, err := m.cipher.Decrypt(cred.AccessTokenCiphertext, integration.KeyVersionCurrent)
		if err == nil {
			return token, false, nil
		}
		// Undecryptable access ciphertext (legacy-era credential): fall
		// through to the refresh path, which rewrites it under the current
		// scheme.
		m.logger.Warnw("stored access token not decryptable, forcing refresh",
			"user_id", userID, "error", err)
	}

	acquired, err := m.lock.Acquire(ctx, userID)
	if err != nil {
		return "", false, err
	}
	if !acquired {
		return m.awaitConcurrentRefresh(ctx, userID)
	}

	defer func() {
		if err := m.lock.Release(ctx, userID); err != nil {
			m.logger.Errorw("failed to release refresh lock", "user_id", userID, "error", err)
		}
	}()

	// Re-read under the lock: a concurrent caller may have refreshed between
	// our expiry check and lock acquisition.
	cred, err = m.credentials.GetByUserID(ctx, userID)
	if err != nil {
		return "", false, err
	}
	if !cred.Usable() {
		return "", false, apperrors.NewCredentialMissingError()
	}
	if !cred.AccessExpired(m.now(), m.cfg.ExpirySkew) {
		token, err := m.cipher.Decrypt(cred.AccessTokenCiphertext, integration.KeyVersionCurrent)
		if err == nil {
			return token, false, nil
		}
	}

	return m.refresh(ctx, cred)
}

// refresh performs the refresh-grant exchange. Callers must hold the
// per-user lock.
func (m *TokenManager) refresh(ctx context.Context, cred *integration.Credential) (string, bool, error) {
	if len(cred.RefreshTokenCiphertext) == 0 {
		return "", false, apperrors.NewCredentialMissingError()
	}

	// The stored key version tags the scheme that sealed the refresh token.
	refreshToken, err := m.cipher.Decrypt(cred.RefreshTokenCiphertext, cred.KeyVersion)
	if err != nil {
		return "", false, apperrors.NewRefreshFailedError(err.Error())
	}

	tok, err := m.oauth.Refresh(ctx, refreshToken)
	if err != nil {
		return "", false, err
	}

	accessCT, _, err := m.cipher.Encrypt(tok.AccessToken)
	if err != nil {
		return "", false, apperrors.NewRefreshFailedError(err.Error())
	}

	if tok.RefreshToken != refreshToken || cred.KeyVersion != integration.KeyVersionCurrent {
		// Provider rotated the refresh token, or the stored one predates the
		// current scheme: rewrite the whole credential under the current key.
		refreshCT, keyVersion, err := m.cipher.Encrypt(tok.RefreshToken)
		if err != nil {
			return "", false, apperrors.NewRefreshFailedError(err.Error())
		}
		cred.AccessTokenCiphertext = accessCT
		cred.RefreshTokenCiphertext = refreshCT
		cred.KeyVersion = keyVersion
		cred.AccessTokenExpiresAt = tok.ExpiresAt
		if err := m.credentials.Upsert(ctx, cred); err != nil {
			return "", false, err
		}
	} else {
		if err := m.credentials.UpdateAccessToken(ctx, cred.UserID, accessCT, tok.ExpiresAt); err != nil {
			return "", false, err
		}
	}

	m.logger.Infow("access token refreshed", "user_id", cred.UserID)
	return tok.AccessToken, true, nil
}

// awaitConcurrentRefresh handles the lock-busy path: wait once, re-read, and
// either ride the other caller's refresh or fail fast. Retrying the refresh
// here would risk a duplicate exchange against the provider.
func (m *TokenManager) awaitConcurrentRefresh(ctx context.Context, userID uint) (string, bool, error) {
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case <-time.After(m.cfg.RefreshWait):
	}

	cred, err := m.credentials.GetByUserID(ctx, userID)
	if err != nil {
		return "", false, err
	}
	if !cred.Usable() {
		return "", false, apperrors.NewCredentialMissingError()
	}
	if !cred.AccessExpired(m.now(), m.cfg.ExpirySkew) {
		token, err := m.cipher.Decrypt(cred.AccessTokenCiphertext, integration.KeyVersionCurrent)
		if err == nil {
			return token, false, nil
		}
	}

	return "", false, apperrors.NewRefreshInProgressError()
}
