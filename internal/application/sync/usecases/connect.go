package usecases

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/flowdesk-inc/flowdesk/internal/application/sync/dto"
	"github.com/flowdesk-inc/flowdesk/internal/domain/integration"
	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

// ConnectUseCase drives the OAuth connect flow: Initiate hands out the
// consent URL, Callback exchanges the returned code and stores the encrypted
// credential.
type ConnectUseCase struct {
	credentials integration.Repository
	cipher      CredentialCipher
	oauth       OAuthAPI
	states      StateStore
	logger      logger.Interface
}

// NewConnectUseCase creates a new connect use case.
func NewConnectUseCase(
	credentials integration.Repository,
	cipher CredentialCipher,
	oauth OAuthAPI,
	states StateStore,
	log logger.Interface,
) *ConnectUseCase {
	return &ConnectUseCase{
		credentials: credentials,
		cipher:      cipher,
		oauth:       oauth,
		states:      states,
		logger:      log,
	}
}

// Initiate generates a one-time state, stores it with the PKCE verifier, and
// returns the consent URL the client should redirect to.
func (uc *ConnectUseCase) Initiate(ctx context.Context, userID uint) (*dto.ConnectResponse, error) {
	state, err := randomState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate oauth state: %w", err)
	}

	authURL, codeVerifier, err := uc.oauth.AuthURL(state)
	if err != nil {
		return nil, err
	}

	if err := uc.states.Set(ctx, state, userID, codeVerifier); err != nil {
		return nil, err
	}

	return &dto.ConnectResponse{AuthURL: authURL}, nil
}

// Callback validates the returned state, exchanges the code for tokens, and
// stores them encrypted under the current key. Returns the owning user id.
func (uc *ConnectUseCase) Callback(ctx context.Context, state, code string) (uint, error) {
	if state == "" || code == "" {
		return 0, apperrors.NewValidationError("state and code are required")
	}

	info, err := uc.states.VerifyAndGet(ctx, state)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid or expired oauth state")
	}

	tok, err := uc.oauth.Exchange(ctx, code, info.CodeVerifier)
	if err != nil {
		return 0, err
	}
	if tok.RefreshToken == "" {
		// Without a refresh token the credential dies with the first access
		// token; reject so the client retries with a fresh consent prompt.
		return 0, apperrors.NewValidationError("authorization did not grant offline access")
	}

	accessCT, _, err := uc.cipher.Encrypt(tok.AccessToken)
	if err != nil {
		return 0, err
	}
	refreshCT, keyVersion, err := uc.cipher.Encrypt(tok.RefreshToken)
	if err != nil {
		return 0, err
	}

	cred := &integration.Credential{
		UserID:                 info.UserID,
		AccessTokenCiphertext:  accessCT,
		RefreshTokenCiphertext: refreshCT,
		KeyVersion:             keyVersion,
		AccessTokenExpiresAt:   tok.ExpiresAt,
		Enabled:                true,
		GrantedScopes:          tok.Scopes,
	}
	if err := uc.credentials.Upsert(ctx, cred); err != nil {
		return 0, err
	}

	uc.logger.Infow("integration connected", "user_id", info.UserID)
	return info.UserID, nil
}

func randomState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
