// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskNest Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// TokenType discriminates access tokens from refresh tokens. The type is
// embedded in the signed payload so one can never be substituted for the
// other.
type TokenType string

// Token types.
const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Default token lifetimes.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenConfig holds the signing secret and lifetimes for a TokenCodec.
// It is an explicit value injected at construction so tests can run with
// isolated secrets and short lifetimes.
type TokenConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims is the signed claim set carried by every token.
type Claims struct {
	jwt.RegisteredClaims
	Type TokenType `json:"type"`
}

// TokenPair is an access/refresh token pair minted together.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenCodec mints and verifies signed, expiring tokens. Tokens are
// self-contained (HS256 JWTs): no server-side record exists and none is
// consulted during verification, which keeps the request guard stateless.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenCodec creates a TokenCodec from config. Zero lifetimes fall back
// to the defaults; an empty secret is rejected.
func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	if len(cfg.Secret) == 0 {
		return nil, oops.Code("TOKEN_SECRET_REQUIRED").Errorf("signing secret cannot be empty")
	}
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenCodec{
		secret:     cfg.Secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// IssueAccess mints a short-lived access token for the subject.
func (c *TokenCodec) IssueAccess(subject string) (string, error) {
	return c.issue(subject, TokenTypeAccess, c.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for the subject.
func (c *TokenCodec) IssueRefresh(subject string) (string, error) {
	return c.issue(subject, TokenTypeRefresh, c.refreshTTL)
}

// IssuePair mints an access and refresh token for the subject.
func (c *TokenCodec) IssuePair(subject string) (TokenPair, error) {
	access, err := c.IssueAccess(subject)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := c.IssueRefresh(subject)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (c *TokenCodec) issue(subject string, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type: typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").
			With("token_type", string(typ)).
			Wrap(err)
	}
	return signed, nil
}

// Verify checks signature, expiry, and well-formedness and returns the
// decoded claims. All failure causes collapse to ErrInvalidToken; the
// underlying cause is preserved in the wrapped error for logging only.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_TOKEN").
			With("cause", err.Error()).
			Wrap(ErrInvalidToken)
	}
	if !token.Valid {
		return nil, oops.Code("AUTH_INVALID_TOKEN").Wrap(ErrInvalidToken)
	}
	return claims, nil
}

// VerifyType verifies the token and additionally requires its embedded type
// to match. An access token presented where a refresh token is required (or
// vice versa) is rejected as invalid.
func (c *TokenCodec) VerifyType(tokenString string, want TokenType) (*Claims, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, oops.Code("AUTH_INVALID_TOKEN").
			With("want_type", string(want)).
			With("got_type", string(claims.Type)).
			Wrap(ErrInvalidToken)
	}
	return claims, nil
}
