package service

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillboard/skillboard/internal/config"
	apperrors "github.com/skillboard/skillboard/internal/errors"
	"github.com/skillboard/skillboard/internal/notifications/domain"
)

// staticSecretSource returns a fixed secret, or a configuration error when
// the secret is empty.
type staticSecretSource struct {
	secret string
}

func (s staticSecretSource) SigningSecret() (string, error) {
	if s.secret == "" {
		return "", apperrors.Wrap(apperrors.ErrConfiguration, "no secret configured")
	}
	return s.secret, nil
}

// fixedClock returns a clock function pinned to the given instant.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newTestService(secret string, at time.Time) UnsubscribeTokenService {
	return NewUnsubscribeTokenService(staticSecretSource{secret: secret}, fixedClock(at))
}

func TestUnsubscribeTokenService_GenerateToken(t *testing.T) {
	issuedAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		service := newTestService("test-secret", issuedAt)

		token, err := service.GenerateToken("user_123")
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 2)

		payload, err := base64.RawURLEncoding.DecodeString(parts[0])
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("user_123:%d", issuedAt.UnixMilli()), string(payload))

		signature, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)
		assert.Len(t, signature, 32)
	})

	t.Run("Success_Deterministic", func(t *testing.T) {
		service := newTestService("test-secret", issuedAt)

		token1, err := service.GenerateToken("user_123")
		require.NoError(t, err)
		token2, err := service.GenerateToken("user_123")
		require.NoError(t, err)

		assert.Equal(t, token1, token2)
	})

	t.Run("Error_NoSecretConfigured", func(t *testing.T) {
		service := newTestService("", issuedAt)

		token, err := service.GenerateToken("user_123")
		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfiguration))
		assert.Empty(t, token)
	})
}

func TestUnsubscribeTokenService_VerifyToken_RoundTrip(t *testing.T) {
	issuedAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		service := newTestService("test-secret", issuedAt)

		token, err := service.GenerateToken("user_123")
		require.NoError(t, err)

		claims, err := service.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user_123", claims.UserID)
		assert.Equal(t, issuedAt.UnixMilli(), claims.IssuedAt.UnixMilli())
	})

	t.Run("Success_OneSecondLater", func(t *testing.T) {
		issuer := newTestService("test-secret", issuedAt)
		verifier := newTestService("test-secret", issuedAt.Add(time.Second))

		token, err := issuer.GenerateToken("user_123")
		require.NoError(t, err)

		claims, err := verifier.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user_123", claims.UserID)
		assert.Equal(t, issuedAt.UnixMilli(), claims.IssuedAt.UnixMilli())
	})

	t.Run("Success_UserIDContainingColons", func(t *testing.T) {
		service := newTestService("test-secret", issuedAt)

		token, err := service.GenerateToken("org:team:user_9")
		require.NoError(t, err)

		claims, err := service.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "org:team:user_9", claims.UserID)
	})

	t.Run("Success_EmptyUserID", func(t *testing.T) {
		service := newTestService("test-secret", issuedAt)

		token, err := service.GenerateToken("")
		require.NoError(t, err)

		claims, err := service.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "", claims.UserID)
	})

	t.Run("Success_FutureTimestampAccepted", func(t *testing.T) {
		issuer := newTestService("test-secret", issuedAt.Add(48*time.Hour))
		verifier := newTestService("test-secret", issuedAt)

		token, err := issuer.GenerateToken("user_123")
		require.NoError(t, err)

		claims, err := verifier.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user_123", claims.UserID)
	})
}

func TestUnsubscribeTokenService_VerifyToken_Expiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	window := 30 * 24 * time.Hour

	issueToken := func(t *testing.T) string {
		t.Helper()
		token, err := newTestService("test-secret", issuedAt).GenerateToken("user_123")
		require.NoError(t, err)
		return token
	}

	t.Run("Success_OneMillisecondBeforeWindow", func(t *testing.T) {
		verifier := newTestService("test-secret", issuedAt.Add(window-time.Millisecond))

		claims, err := verifier.VerifyToken(issueToken(t))
		require.NoError(t, err)
		assert.Equal(t, "user_123", claims.UserID)
	})

	t.Run("Success_ExactlyAtWindow", func(t *testing.T) {
		verifier := newTestService("test-secret", issuedAt.Add(window))

		claims, err := verifier.VerifyToken(issueToken(t))
		require.NoError(t, err)
		assert.Equal(t, "user_123", claims.UserID)
	})

	t.Run("Error_OneMillisecondPastWindow", func(t *testing.T) {
		verifier := newTestService("test-secret", issuedAt.Add(window+time.Millisecond))

		claims, err := verifier.VerifyToken(issueToken(t))
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("Error_ThirtyOneDaysLater", func(t *testing.T) {
		verifier := newTestService("test-secret", issuedAt.Add(31*24*time.Hour))

		claims, err := verifier.VerifyToken(issueToken(t))
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Nil(t, claims)
	})
}

func TestUnsubscribeTokenService_VerifyToken_Tampering(t *testing.T) {
	issuedAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	service := newTestService("test-secret", issuedAt)

	validToken := func(t *testing.T) string {
		t.Helper()
		token, err := service.GenerateToken("user_123")
		require.NoError(t, err)
		return token
	}

	t.Run("Error_SignatureCharacterFlipped", func(t *testing.T) {
		token := validToken(t)
		parts := strings.Split(token, ".")
		require.Len(t, parts, 2)

		flipped := []byte(parts[1])
		if flipped[0] == 'A' {
			flipped[0] = 'Q'
		} else {
			flipped[0] = 'A'
		}

		claims, err := service.VerifyToken(parts[0] + "." + string(flipped))
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("Error_SignatureTruncated", func(t *testing.T) {
		token := validToken(t)

		claims, err := service.VerifyToken(token[:len(token)-4])
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("Error_PayloadReplaced", func(t *testing.T) {
		token := validToken(t)
		parts := strings.Split(token, ".")
		require.Len(t, parts, 2)

		forgedPayload := base64.RawURLEncoding.EncodeToString(
			[]byte(fmt.Sprintf("user_456:%d", issuedAt.UnixMilli())))

		claims, err := service.VerifyToken(forgedPayload + "." + parts[1])
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("Error_SignatureSwappedBetweenTokens", func(t *testing.T) {
		tokenA, err := service.GenerateToken("user_a")
		require.NoError(t, err)
		tokenB, err := service.GenerateToken("user_b")
		require.NoError(t, err)

		forged := strings.Split(tokenA, ".")[0] + "." + strings.Split(tokenB, ".")[1]

		claims, err := service.VerifyToken(forged)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Nil(t, claims)
	})
}

func TestUnsubscribeTokenService_VerifyToken_Malformed(t *testing.T) {
	issuedAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	service := newTestService("test-secret", issuedAt)

	payloadNoColon := base64.RawURLEncoding.EncodeToString([]byte("user_123"))
	payloadBadTimestamp := base64.RawURLEncoding.EncodeToString([]byte("user_123:notanumber"))

	tests := []struct {
		name  string
		token string
	}{
		{name: "Error_EmptyString", token: ""},
		{name: "Error_NoDot", token: "justonechunk"},
		{name: "Error_TwoDots", token: "a.b.c"},
		{name: "Error_EmptyPayloadSegment", token: ".signature"},
		{name: "Error_EmptySignatureSegment", token: "payload."},
		{name: "Error_OnlyDot", token: "."},
		{name: "Error_PayloadNotBase64", token: "not base64!.c2ln"},
		{name: "Error_SignatureNotBase64", token: payloadNoColon + ".not base64!"},
		{name: "Error_PayloadWithoutColon", token: payloadNoColon + ".c2ln"},
		{name: "Error_NonNumericTimestamp", token: payloadBadTimestamp + ".c2ln"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.VerifyToken(tt.token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestUnsubscribeTokenService_VerifyToken_SecretRotation(t *testing.T) {
	issuedAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Error_RotatedSecret", func(t *testing.T) {
		issuer := newTestService("secret-a", issuedAt)
		verifier := newTestService("secret-b", issuedAt)

		token, err := issuer.GenerateToken("user_123")
		require.NoError(t, err)

		claims, err := verifier.VerifyToken(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("Error_NoSecretConfigured", func(t *testing.T) {
		issuer := newTestService("secret-a", issuedAt)
		verifier := newTestService("", issuedAt)

		token, err := issuer.GenerateToken("user_123")
		require.NoError(t, err)

		claims, err := verifier.VerifyToken(token)
		assert.True(t, apperrors.Is(err, apperrors.ErrConfiguration))
		assert.Nil(t, claims)
	})
}

func TestEnvSecretSource(t *testing.T) {
	t.Run("Success_PrimarySecret", func(t *testing.T) {
		t.Setenv(config.UnsubscribeSecretEnv, "primary")
		t.Setenv(config.AppSecretEnv, "fallback")

		secret, err := NewEnvSecretSource().SigningSecret()
		require.NoError(t, err)
		assert.Equal(t, "primary", secret)
	})

	t.Run("Success_FallbackSecret", func(t *testing.T) {
		t.Setenv(config.UnsubscribeSecretEnv, "")
		t.Setenv(config.AppSecretEnv, "fallback")

		secret, err := NewEnvSecretSource().SigningSecret()
		require.NoError(t, err)
		assert.Equal(t, "fallback", secret)
	})

	t.Run("Success_RotationTakesEffectWithoutRestart", func(t *testing.T) {
		t.Setenv(config.UnsubscribeSecretEnv, "before")
		t.Setenv(config.AppSecretEnv, "")

		service := NewUnsubscribeTokenService(NewEnvSecretSource(), nil)
		token, err := service.GenerateToken("user_123")
		require.NoError(t, err)

		claims, err := service.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user_123", claims.UserID)

		t.Setenv(config.UnsubscribeSecretEnv, "after")

		claims, err = service.VerifyToken(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("Error_NeitherSecretSet", func(t *testing.T) {
		t.Setenv(config.UnsubscribeSecretEnv, "")
		t.Setenv(config.AppSecretEnv, "")

		secret, err := NewEnvSecretSource().SigningSecret()
		assert.True(t, apperrors.Is(err, apperrors.ErrConfiguration))
		assert.Empty(t, secret)
	})
}
