// Package oidc wraps the OpenID Connect authorization code flow used for login.
package oidc

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	apperrors "github.com/skillboard/skillboard/internal/errors"
)

// Claims holds the identity claims extracted from a verified ID token.
type Claims struct {
	Subject string
	Email   string
	Name    string
	Picture string
	Nonce   string
}

// Provider defines the identity provider operations used by the login flow.
type Provider interface {
	// AuthCodeURL builds the authorization URL for the given state, nonce and
	// PKCE code challenge.
	AuthCodeURL(state, nonce, codeChallenge string) string

	// Exchange trades the authorization code for tokens and returns the raw
	// ID token from the response.
	Exchange(ctx context.Context, code, codeVerifier string) (string, error)

	// VerifyIDToken verifies the ID token signature and claims and extracts
	// the identity claims.
	VerifyIDToken(ctx context.Context, rawIDToken string) (*Claims, error)
}

// Config holds the OIDC client settings.
type Config struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// provider implements Provider on top of coreos/go-oidc and golang.org/x/oauth2.
type provider struct {
	oauth2Config *oauth2.Config
	verifier     *gooidc.IDTokenVerifier
}

// NewProvider performs OIDC discovery against the issuer and returns a Provider.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	p, err := gooidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create OIDC provider")
	}

	return &provider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     p.Endpoint(),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{gooidc.ScopeOpenID, "profile", "email"},
		},
		verifier: p.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// AuthCodeURL builds the authorization URL with nonce and PKCE parameters.
func (p *provider) AuthCodeURL(state, nonce, codeChallenge string) string {
	return p.oauth2Config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange trades the authorization code for tokens and returns the raw ID token.
func (p *provider) Exchange(ctx context.Context, code, codeVerifier string) (string, error) {
	token, err := p.oauth2Config.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return "", apperrors.Wrap(err, "token exchange failed")
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return "", apperrors.New("no id_token in token response")
	}
	return rawIDToken, nil
}

// VerifyIDToken verifies the ID token and extracts identity claims.
func (p *provider) VerifyIDToken(ctx context.Context, rawIDToken string) (*Claims, error) {
	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, apperrors.Wrap(err, "id token verification failed")
	}

	var claims struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
		Nonce   string `json:"nonce"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, apperrors.Wrap(err, "failed to extract claims")
	}

	return &Claims{
		Subject: claims.Sub,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
		Nonce:   claims.Nonce,
	}, nil
}

// GenerateRandomString creates a random base64url string of the given byte length.
func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random string")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CodeChallenge creates a PKCE S256 code challenge from a verifier.
func CodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
