package google

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedConfig "github.com/flowdesk-inc/flowdesk/internal/shared/config"
	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
)

const revokeURL = "https://oauth2.googleapis.com/revoke"

// Scopes requested for the calendar/task integration.
var syncScopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/tasks",
}

// Token is the provider token material handed back to the credential layer.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Scopes       []string
}

// OAuthClient drives the auth-code grant, refresh grant, and revocation.
type OAuthClient struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewOAuthClient creates an OAuth client for the sync scopes.
func NewOAuthClient(cfg sharedConfig.GoogleOAuthConfig) *OAuthClient {
	return &OAuthClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       syncScopes,
			Endpoint:     google.Endpoint,
		},
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// AuthURL builds the consent URL for a state, returning the PKCE verifier the
// callback must present. AccessTypeOffline makes the provider issue a refresh
// token.
func (c *OAuthClient) AuthURL(state string) (authURL, codeVerifier string, err error) {
	codeVerifier, codeChallenge, err := generatePKCEParams()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate PKCE parameters: %w", err)
	}

	authURL = c.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	return authURL, codeVerifier, nil
}

// Exchange swaps the auth code for tokens.
func (c *OAuthClient) Exchange(ctx context.Context, code, codeVerifier string) (*Token, error) {
	tok, err := c.config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	scopes := syncScopes
	if granted, ok := tok.Extra("scope").(string); ok && granted != "" {
		scopes = strings.Fields(granted)
	}

	return &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry.UTC(),
		Scopes:       scopes,
	}, nil
}

// Refresh performs the refresh-grant exchange. The provider may invalidate
// the presented refresh token on use, which is why callers must hold the
// per-user refresh lock.
func (c *OAuthClient) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	src := c.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, apperrors.NewRefreshFailedError(err.Error())
	}

	newRefresh := tok.RefreshToken
	if newRefresh == "" {
		newRefresh = refreshToken
	}

	return &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: newRefresh,
		ExpiresAt:    tok.Expiry.UTC(),
	}, nil
}

// Revoke invalidates the grant at the provider. Revoking an already-invalid
// token returns 400, which is treated as success.
func (c *OAuthClient) Revoke(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewRemoteTransientError(fmt.Sprintf("revoke request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return apperrors.NewRemoteTransientError(fmt.Sprintf("revoke returned status %d", resp.StatusCode))
	}
	return nil
}

// generatePKCEParams generates code_verifier and code_challenge for the PKCE
// flow.
func generatePKCEParams() (codeVerifier, codeChallenge string, err error) {
	verifierBytes := make([]byte, 32)
	if _, err := rand.Read(verifierBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	codeVerifier = base64.RawURLEncoding.EncodeToString(verifierBytes)
	hash := sha256.Sum256([]byte(codeVerifier))
	codeChallenge = base64.RawURLEncoding.EncodeToString(hash[:])

	return codeVerifier, codeChallenge, nil
}
