// Package token issues and verifies the bearer tokens returned by every
// authentication flow.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/simp-lee/jwt"

	"github.com/simp-lee/soundmint/internal/domain"
)

const issuerName = "soundmint"

// Claims is the verified token payload.
type Claims struct {
	Subject   string
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// UserID returns the numeric subject.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid subject %q", c.Subject)
	}
	return uint(id), nil
}

// Issuer signs, verifies and revokes HS256 tokens.
type Issuer struct {
	svc    jwt.Service
	expiry time.Duration
}

// clockFunc adapts a func to jwt.Clock.
type clockFunc func() time.Time

func (f clockFunc) Now() time.Time { return f() }

// NewIssuer creates an Issuer. secret must be at least 32 characters and
// expiry positive. Close releases the revocation list.
func NewIssuer(secret string, expiry time.Duration) (*Issuer, error) {
	return newIssuer(secret, expiry, time.Now)
}

func newIssuer(secret string, expiry time.Duration, now func() time.Time) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	if expiry <= 0 {
		return nil, errors.New("token expiry must be positive")
	}
	svc, err := jwt.New(secret,
		jwt.WithIssuer(issuerName),
		jwt.WithMaxTokenLifetime(expiry),
		jwt.WithUserRevocationTTL(max(expiry, jwt.DefaultUserRevocationTTL)),
		jwt.WithClock(clockFunc(now)),
	)
	if err != nil {
		return nil, fmt.Errorf("create token service: %w", err)
	}
	return &Issuer{svc: svc, expiry: expiry}, nil
}

// Issue returns a signed token for user and its expiry.
func (i *Issuer) Issue(user *domain.User) (string, time.Time, error) {
	raw, err := i.svc.GenerateToken(
		strconv.FormatUint(uint64(user.ID), 10),
		[]string{string(user.Role)},
		i.expiry,
	)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	parsed, err := i.svc.ParseToken(raw)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("parse issued token: %w", err)
	}
	return raw, parsed.ExpiresAt, nil
}

// Parse verifies signature, issuer, expiry and revocation and returns the
// claims.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	tok, err := i.svc.ValidateToken(raw)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "invalid token", err)
	}
	if len(tok.Roles) != 1 {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "invalid token",
			fmt.Errorf("want one role, got %d", len(tok.Roles)))
	}
	claims := &Claims{
		Subject:   tok.UserID,
		Role:      domain.Role(tok.Roles[0]),
		TokenID:   tok.TokenID,
		ExpiresAt: tok.ExpiresAt,
	}
	if _, err := claims.UserID(); err != nil {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "invalid token", err)
	}
	return claims, nil
}

// Revoke invalidates raw until it would have expired anyway.
func (i *Issuer) Revoke(raw string) error {
	if err := i.svc.RevokeToken(raw); err != nil {
		return domain.NewAppError(domain.CodeUnauthorized, "invalid token", err)
	}
	return nil
}

// Close stops the revocation cleanup goroutine.
func (i *Issuer) Close() {
	i.svc.Close()
}
