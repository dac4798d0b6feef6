// Package service provides the signed unsubscribe token mechanism.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/skillboard/skillboard/internal/config"
	apperrors "github.com/skillboard/skillboard/internal/errors"
	"github.com/skillboard/skillboard/internal/notifications/domain"
)

// tokenTTL is the maximum accepted token age. The bound is inclusive: a
// token aged exactly tokenTTL still verifies.
const tokenTTL = 30 * 24 * time.Hour

// SecretSource resolves the signing secret. It is consulted on every
// Generate and Verify call so a rotated secret takes effect immediately,
// without a process restart.
type SecretSource interface {
	SigningSecret() (string, error)
}

// envSecretSource reads the secret from the process environment, trying
// the dedicated unsubscribe secret first and falling back to the shared
// application secret.
type envSecretSource struct{}

// NewEnvSecretSource returns the environment-backed secret source used in
// production.
func NewEnvSecretSource() SecretSource {
	return envSecretSource{}
}

func (envSecretSource) SigningSecret() (string, error) {
	if secret := os.Getenv(config.UnsubscribeSecretEnv); secret != "" {
		return secret, nil
	}
	if secret := os.Getenv(config.AppSecretEnv); secret != "" {
		return secret, nil
	}
	return "", apperrors.Wrap(apperrors.ErrConfiguration,
		fmt.Sprintf("neither %s nor %s is set", config.UnsubscribeSecretEnv, config.AppSecretEnv))
}

// UnsubscribeTokenService issues and verifies self-contained unsubscribe
// tokens. Tokens are not persisted; rotating the secret invalidates every
// outstanding token at once.
type UnsubscribeTokenService interface {
	// GenerateToken builds a signed token identifying the given user.
	GenerateToken(userID string) (string, error)

	// VerifyToken checks an untrusted token string and returns the claims
	// it carries. Every verification failure is reported as
	// domain.ErrInvalidToken; a missing secret is a configuration error.
	VerifyToken(token string) (*domain.TokenClaims, error)
}

// unsubscribeTokenService implements UnsubscribeTokenService with
// HMAC-SHA256 over a "userID:timestampMillis" payload. Both segments of
// the token are base64url without padding.
type unsubscribeTokenService struct {
	secrets SecretSource
	now     func() time.Time
}

// NewUnsubscribeTokenService creates a token service. The clock defaults
// to time.Now when nil.
func NewUnsubscribeTokenService(secrets SecretSource, now func() time.Time) UnsubscribeTokenService {
	if now == nil {
		now = time.Now
	}
	return &unsubscribeTokenService{
		secrets: secrets,
		now:     now,
	}
}

// GenerateToken builds "base64url(payload).base64url(signature)" where
// payload is "userID:timestampMillis" and the signature is HMAC-SHA256 of
// the raw payload string.
func (s *unsubscribeTokenService) GenerateToken(userID string) (string, error) {
	secret, err := s.secrets.SigningSecret()
	if err != nil {
		return "", err
	}

	payload := fmt.Sprintf("%s:%d", userID, s.now().UnixMilli())
	signature := sign(secret, payload)

	return base64.RawURLEncoding.EncodeToString([]byte(payload)) +
		"." +
		base64.RawURLEncoding.EncodeToString(signature), nil
}

// VerifyToken validates an untrusted token. The payload splits on the
// LAST colon, so a userID may itself contain colons; the timestamp is
// always the substring after the final one.
func (s *unsubscribeTokenService) VerifyToken(token string) (*domain.TokenClaims, error) {
	secret, err := s.secrets.SigningSecret()
	if err != nil {
		return nil, err
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, domain.ErrInvalidToken
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	payload := string(payloadBytes)

	sep := strings.LastIndex(payload, ":")
	if sep < 0 {
		return nil, domain.ErrInvalidToken
	}
	userID := payload[:sep]

	timestampMillis, err := strconv.ParseInt(payload[sep+1:], 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	providedSignature, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	expectedSignature := sign(secret, payload)

	// Length is checked before the constant-time comparison; a mismatched
	// length never reaches hmac.Equal.
	if len(providedSignature) != len(expectedSignature) ||
		!hmac.Equal(providedSignature, expectedSignature) {
		return nil, domain.ErrInvalidToken
	}

	// Only the upper age bound is enforced; a future timestamp passes.
	age := s.now().UnixMilli() - timestampMillis
	if age > tokenTTL.Milliseconds() {
		return nil, domain.ErrInvalidToken
	}

	return &domain.TokenClaims{
		UserID:   userID,
		IssuedAt: time.UnixMilli(timestampMillis).UTC(),
	}, nil
}

func sign(secret, payload string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
