package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoToken = errors.New("no token stored")

// TokenInfo describes the stored bearer token as far as the client can tell without the signing key.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that lies before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// InspectToken decodes the claims of the stored token. The signature is not verified:
// only the API can do that, the result is informational.
func (s *Service) InspectToken(ctx context.Context) (TokenInfo, error) {
	token, ok, err := s.storage.GetItem(ctx, s.tokenKey)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("failed to read token: %w", err)
	}
	if !ok || token == "" {
		return TokenInfo{}, ErrNoToken
	}

	return ParseTokenInfo(token)
}

// ParseTokenInfo extracts subject and expiry from a JWT without verifying it.
func ParseTokenInfo(token string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("failed to parse token: %w", err)
	}

	var info TokenInfo
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}

	return info, nil
}
