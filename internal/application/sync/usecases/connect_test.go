package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdesk-inc/flowdesk/internal/domain/integration"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/google"
	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

func newConnectUC(creds *fakeCredentialStore, oauth *fakeOAuthAPI, states *fakeStateStore) *ConnectUseCase {
	return NewConnectUseCase(creds, passthroughCipher{}, oauth, states, logger.NewLogger())
}

func TestConnect_InitiateStoresStateAndReturnsURL(t *testing.T) {
	oauth := &fakeOAuthAPI{authURL: "https://accounts.example.com/auth"}
	states := &fakeStateStore{}
	uc := newConnectUC(&fakeCredentialStore{}, oauth, states)

	resp, err := uc.Initiate(context.Background(), 42)
	require.NoError(t, err)
	assert.Contains(t, resp.AuthURL, "https://accounts.example.com/auth")
	require.Len(t, states.states, 1)
	for _, info := range states.states {
		assert.Equal(t, uint(42), info.UserID)
		assert.NotEmpty(t, info.CodeVerifier)
	}
}

func TestConnect_CallbackStoresEncryptedCredential(t *testing.T) {
	expiresAt := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	oauth := &fakeOAuthAPI{exchanged: &google.Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    expiresAt,
		Scopes:       []string{"calendar", "tasks"},
	}}
	states := &fakeStateStore{}
	require.NoError(t, states.Set(context.Background(), "state-1", 42, "verifier"))

	creds := &fakeCredentialStore{}
	uc := newConnectUC(creds, oauth, states)

	userID, err := uc.Callback(context.Background(), "state-1", "auth-code")
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	require.NotNil(t, creds.cred)
	assert.True(t, creds.cred.Enabled)
	assert.Equal(t, integration.KeyVersionCurrent, creds.cred.KeyVersion)
	assert.Equal(t, []byte("v2:access-1"), creds.cred.AccessTokenCiphertext)
	assert.Equal(t, []byte("v2:refresh-1"), creds.cred.RefreshTokenCiphertext)
	assert.True(t, creds.cred.AccessTokenExpiresAt.Equal(expiresAt))
	assert.Equal(t, []string{"calendar", "tasks"}, creds.cred.GrantedScopes)
}

func TestConnect_CallbackStateIsOneTimeUse(t *testing.T) {
	oauth := &fakeOAuthAPI{exchanged: &google.Token{AccessToken: "a", RefreshToken: "r"}}
	states := &fakeStateStore{}
	require.NoError(t, states.Set(context.Background(), "state-1", 42, "verifier"))
	uc := newConnectUC(&fakeCredentialStore{}, oauth, states)

	_, err := uc.Callback(context.Background(), "state-1", "code")
	require.NoError(t, err)

	_, err = uc.Callback(context.Background(), "state-1", "code")
	require.Error(t, err, "a replayed state must be rejected")
	assert.True(t, apperrors.IsValidationError(err))
}

func TestConnect_CallbackRejectsMissingOfflineGrant(t *testing.T) {
	oauth := &fakeOAuthAPI{exchanged: &google.Token{AccessToken: "a", RefreshToken: ""}}
	states := &fakeStateStore{}
	require.NoError(t, states.Set(context.Background(), "state-1", 42, "verifier"))

	creds := &fakeCredentialStore{}
	uc := newConnectUC(creds, oauth, states)

	_, err := uc.Callback(context.Background(), "state-1", "code")
	require.Error(t, err)
	assert.Nil(t, creds.cred, "no credential is stored without a refresh token")
}

func TestConnect_CallbackRejectsEmptyParams(t *testing.T) {
	uc := newConnectUC(&fakeCredentialStore{}, &fakeOAuthAPI{}, &fakeStateStore{})

	_, err := uc.Callback(context.Background(), "", "code")
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Callback(context.Background(), "state", "")
	assert.True(t, apperrors.IsValidationError(err))
}

func TestDisconnect_RevokesAndClears(t *testing.T) {
	creds := &fakeCredentialStore{cred: &integration.Credential{
		UserID:                1,
		Enabled:               true,
		AccessTokenCiphertext: []byte("v2:access-1"),
	}}
	oauth := &fakeOAuthAPI{}
	uc := NewDisconnectUseCase(creds, passthroughCipher{}, oauth, logger.NewLogger())

	require.NoError(t, uc.Execute(context.Background(), 1))
	assert.Equal(t, []string{"access-1"}, oauth.revoked)
	assert.True(t, creds.cleared)
	assert.False(t, creds.cred.Enabled)
}

func TestDisconnect_RevocationFailureStillClears(t *testing.T) {
	creds := &fakeCredentialStore{cred: &integration.Credential{
		UserID:                1,
		Enabled:               true,
		AccessTokenCiphertext: []byte("v2:access-1"),
	}}
	oauth := &fakeOAuthAPI{revokeErr: apperrors.NewRemoteTransientError("revocation endpoint down")}
	uc := NewDisconnectUseCase(creds, passthroughCipher{}, oauth, logger.NewLogger())

	require.NoError(t, uc.Execute(context.Background(), 1), "revocation is best-effort")
	assert.True(t, creds.cleared)
}

func TestDisconnect_Idempotent(t *testing.T) {
	creds := &fakeCredentialStore{}
	oauth := &fakeOAuthAPI{}
	uc := NewDisconnectUseCase(creds, passthroughCipher{}, oauth, logger.NewLogger())

	require.NoError(t, uc.Execute(context.Background(), 1), "disconnecting a never-connected user is a no-op")
	assert.False(t, creds.cleared)
	assert.Empty(t, oauth.revoked)
}
