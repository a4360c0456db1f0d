// Package crypto implements the versioned token encryption used for stored
// OAuth credentials.
//
// Two schemes exist: the legacy AES-256-GCM scheme ("v1") and the current
// XChaCha20-Poly1305 scheme ("v2"). New ciphertext is always written under
// the current scheme; decryption selects the scheme by the stored key
// version tag, never by format sniffing, so the migration state stays
// explicit and testable.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/flowdesk-inc/flowdesk/internal/domain/integration"
)

// ErrLegacyKeyUnavailable is returned when a v1 ciphertext is encountered
// but no legacy key was configured.
var ErrLegacyKeyUnavailable = errors.New("legacy token key not configured")

// TokenCipher encrypts and decrypts stored OAuth tokens.
type TokenCipher struct {
	current cipher.AEAD
	legacy  cipher.AEAD
}

// NewTokenCipher builds a cipher from hex-encoded 32-byte keys. legacyKeyHex
// may be empty once no v1 credentials remain.
func NewTokenCipher(currentKeyHex, legacyKeyHex string) (*TokenCipher, error) {
	currentKey, err := decodeKey(currentKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid current token key: %w", err)
	}

	current, err := chacha20poly1305.NewX(currentKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build current cipher: %w", err)
	}

	tc := &TokenCipher{current: current}

	if legacyKeyHex != "" {
		legacyKey, err := decodeKey(legacyKeyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid legacy token key: %w", err)
		}
		block, err := aes.NewCipher(legacyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to build legacy cipher: %w", err)
		}
		tc.legacy, err = cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("failed to build legacy GCM: %w", err)
		}
	}

	return tc, nil
}

func decodeKey(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("key must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

// Encrypt seals plaintext under the current scheme. It returns the
// ciphertext (nonce prepended) and the key version tag to store with it.
func (c *TokenCipher) Encrypt(plaintext string) ([]byte, string, error) {
	nonce := make([]byte, c.current.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.current.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealed, integration.KeyVersionCurrent, nil
}

// Decrypt opens ciphertext produced under the scheme named by keyVersion.
func (c *TokenCipher) Decrypt(ciphertext []byte, keyVersion string) (string, error) {
	switch keyVersion {
	case integration.KeyVersionCurrent:
		return c.open(c.current, ciphertext)
	case integration.KeyVersionLegacy:
		if c.legacy == nil {
			return "", ErrLegacyKeyUnavailable
		}
		return c.open(c.legacy, ciphertext)
	default:
		return "", fmt.Errorf("unknown token key version %q", keyVersion)
	}
}

func (c *TokenCipher) open(aead cipher.AEAD, ciphertext []byte) (string, error) {
	if len(ciphertext) < aead.NonceSize() {
		return "", errors.New("ciphertext shorter than nonce")
	}
	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt token: %w", err)
	}
	return string(plain), nil
}

// EncryptLegacyForTest seals plaintext under the legacy scheme. Only tests
// use this; production writes are always current-scheme.
func (c *TokenCipher) EncryptLegacyForTest(plaintext string) ([]byte, error) {
	if c.legacy == nil {
		return nil, ErrLegacyKeyUnavailable
	}
	nonce := make([]byte, c.legacy.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return c.legacy.Seal(nonce, nonce, []byte(plaintext), nil), nil
}
