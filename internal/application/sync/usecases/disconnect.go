package usecases

import (
	"context"

	"github.com/flowdesk-inc/flowdesk/internal/domain/integration"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

// DisconnectUseCase revokes the remote grant and clears the stored
// credential. The credential row is kept for audit; only its fields are
// nulled.
type DisconnectUseCase struct {
	credentials integration.Repository
	cipher      CredentialCipher
	oauth       OAuthAPI
	logger      logger.Interface
}

// NewDisconnectUseCase creates a new disconnect use case.
func NewDisconnectUseCase(
	credentials integration.Repository,
	cipher CredentialCipher,
	oauth OAuthAPI,
	log logger.Interface,
) *DisconnectUseCase {
	return &DisconnectUseCase{
		credentials: credentials,
		cipher:      cipher,
		oauth:       oauth,
		logger:      log,
	}
}

// Execute disconnects the integration for a user. Disconnecting an already
// disconnected (or never connected) user is a no-op, not an error. Remote
// revocation is best-effort: a failure is logged and the local credential is
// cleared regardless, so the user can always reconnect cleanly.
func (uc *DisconnectUseCase) Execute(ctx context.Context, userID uint) error {
	cred, err := uc.credentials.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if cred == nil || !cred.Enabled {
		return nil
	}

	if len(cred.AccessTokenCiphertext) > 0 {
		token, err := uc.cipher.Decrypt(cred.AccessTokenCiphertext, integration.KeyVersionCurrent)
		if err != nil {
			uc.logger.Warnw("cannot decrypt access token for revocation",
				"user_id", userID, "error", err)
		} else if err := uc.oauth.Revoke(ctx, token); err != nil {
			uc.logger.Warnw("remote token revocation failed",
				"user_id", userID, "error", err)
		}
	}

	if err := uc.credentials.Clear(ctx, userID); err != nil {
		return err
	}

	uc.logger.Infow("integration disconnected", "user_id", userID)
	return nil
}
