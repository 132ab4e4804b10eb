package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// signingKeyInfo binds derived keys to their purpose.
const signingKeyInfo = "oremus session jwt v1"

// ErrWeakSecret is returned for secrets too short to derive a key from.
var ErrWeakSecret = errors.New("secret must be at least 16 bytes")

// DeriveSigningKey turns a configured secret into a 32-byte HMAC key.
func DeriveSigningKey(secret string) ([]byte, error) {
	if len(secret) < 16 {
		return nil, ErrWeakSecret
	}

	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(signingKeyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	return key, nil
}
