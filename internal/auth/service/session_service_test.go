package service

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionTokenService(t *testing.T) {
	service := NewSessionTokenService()
	assert.NotNil(t, service)
	assert.IsType(t, &sessionTokenService{}, service)
}

func TestSessionTokenService_GenerateToken(t *testing.T) {
	service := NewSessionTokenService()

	t.Run("Success_GenerateToken", func(t *testing.T) {
		plainToken, tokenHash, err := service.GenerateToken()

		require.NoError(t, err)
		assert.NotEmpty(t, plainToken)
		assert.NotEmpty(t, tokenHash)

		// Assert plain token is base64 URL-encoded
		decodedBytes, err := base64.URLEncoding.DecodeString(plainToken)
		require.NoError(t, err)
		assert.Len(t, decodedBytes, 32, "decoded token should be 32 bytes")

		// Assert token hash is valid SHA-256 hex string (64 characters)
		assert.Len(t, tokenHash, 64, "SHA-256 hash should be 64 hex characters")

		// Assert hash matches manually hashed plain token
		expectedHash := sha256.Sum256([]byte(plainToken))
		expectedHashHex := hex.EncodeToString(expectedHash[:])
		assert.Equal(t, expectedHashHex, tokenHash)
	})

	t.Run("Success_GenerateUniqueTokens", func(t *testing.T) {
		plainToken1, tokenHash1, err1 := service.GenerateToken()
		require.NoError(t, err1)

		plainToken2, tokenHash2, err2 := service.GenerateToken()
		require.NoError(t, err2)

		assert.NotEqual(t, plainToken1, plainToken2, "generated tokens should be unique")
		assert.NotEqual(t, tokenHash1, tokenHash2, "generated hashes should be unique")
	})
}

func TestSessionTokenService_HashToken(t *testing.T) {
	service := NewSessionTokenService()

	t.Run("Success_HashToken", func(t *testing.T) {
		plainToken := "test-token-abc123"

		tokenHash := service.HashToken(plainToken)

		expectedHash := sha256.Sum256([]byte(plainToken))
		assert.Equal(t, hex.EncodeToString(expectedHash[:]), tokenHash)
	})

	t.Run("Success_Deterministic", func(t *testing.T) {
		plainToken := "same-token"
		assert.Equal(t, service.HashToken(plainToken), service.HashToken(plainToken))
	})

	t.Run("Success_DifferentTokensProduceDifferentHashes", func(t *testing.T) {
		assert.NotEqual(t, service.HashToken("token-a"), service.HashToken("token-b"))
	})
}
