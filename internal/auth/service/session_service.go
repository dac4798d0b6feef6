// Package service provides technical services for session authentication.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/skillboard/skillboard/internal/errors"
)

// SessionTokenService defines operations for session token generation and hashing.
// Implementations must use cryptographically secure random generation and a
// fast hashing algorithm suitable for short-lived tokens (e.g., SHA-256).
type SessionTokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain text token (to be handed to the client once)
	// and the hashed version (to be stored in the database).
	GenerateToken() (plainToken string, tokenHash string, error error)

	// HashToken hashes a plain text token using SHA-256.
	// Used for session lookup by comparing hashes.
	HashToken(plainToken string) string
}

// sessionTokenService implements SessionTokenService using SHA-256 for token hashing.
type sessionTokenService struct{}

// NewSessionTokenService creates a new SessionTokenService instance.
func NewSessionTokenService() SessionTokenService {
	return &sessionTokenService{}
}

// GenerateToken creates a new cryptographically secure 32-byte random token.
// The token is base64 URL-encoded for easy transmission and storage.
// Returns the plain token and its SHA-256 hash.
func (s *sessionTokenService) GenerateToken() (plainToken string, tokenHash string, error error) {
	// Generate 32 random bytes (256 bits)
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	// Encode to base64 URL-safe string for text representation
	plainToken = base64.URLEncoding.EncodeToString(randomBytes)

	// Hash the token using SHA-256
	tokenHash = s.HashToken(plainToken)

	return plainToken, tokenHash, nil
}

// HashToken hashes a plain text token using SHA-256.
// Returns the hash as a hexadecimal string.
func (s *sessionTokenService) HashToken(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}
