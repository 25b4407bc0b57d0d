package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// SessionTokenBytes is the entropy of a session token before encoding.
const SessionTokenBytes = 32

// ErrInvalidToken indicates a session token with the wrong shape.
var ErrInvalidToken = errors.New("invalid session token")

// GenerateSessionToken returns a new opaque, URL-safe session token.
// The plaintext goes to the browser cookie only; the server keeps TokenDigest.
func GenerateSessionToken() (string, error) {
	b := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidateSessionToken checks that token could have come from GenerateSessionToken.
func ValidateSessionToken(token string) error {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(b) != SessionTokenBytes {
		return ErrInvalidToken
	}
	return nil
}

// TokenDigest returns the SHA-256 hex digest used as the server-side lookup key.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
