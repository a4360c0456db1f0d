// Package integration holds the credential domain model for the external
// calendar/task integration.
package integration

import "time"

// Key versions tag which encryption scheme produced a stored ciphertext.
// KeyVersionLegacy credentials remain decryptable until every user has
// reconnected or refreshed under the current scheme.
const (
	KeyVersionLegacy  = "v1"
	KeyVersionCurrent = "v2"
)

// Credential is the one-per-user encrypted OAuth credential. Token fields are
// opaque ciphertext; plaintext tokens never touch the database.
type Credential struct {
	ID                     uint
	UserID                 uint
	AccessTokenCiphertext  []byte
	RefreshTokenCiphertext []byte
	// KeyVersion tags the scheme that encrypted the refresh token.
	KeyVersion           string
	AccessTokenExpiresAt time.Time
	Enabled              bool
	GrantedScopes        []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Usable reports whether the credential can drive a sync: enabled with a
// stored access token.
func (c *Credential) Usable() bool {
	return c != nil && c.Enabled && len(c.AccessTokenCiphertext) > 0
}

// AccessExpired reports whether the stored access token must be refreshed.
// The skew keeps a token from expiring mid-request.
func (c *Credential) AccessExpired(now time.Time, skew time.Duration) bool {
	return !c.AccessTokenExpiresAt.After(now.Add(skew))
}

// Disconnect clears all token material and disables the credential. The row
// itself is kept for audit.
func (c *Credential) Disconnect() {
	c.AccessTokenCiphertext = nil
	c.RefreshTokenCiphertext = nil
	c.KeyVersion = ""
	c.AccessTokenExpiresAt = time.Time{}
	c.GrantedScopes = nil
	c.Enabled = false
}

// HasScope reports whether the grant covers the given capability.
func (c *Credential) HasScope(scope string) bool {
	for _, s := range c.GrantedScopes {
		if s == scope {
			return true
		}
	}
	return false
}
