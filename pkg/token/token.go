// Package token issues and verifies the signed bearer tokens that carry a
// user's identity between the identity service, the gateway, and the
// downstream travel services. Verification and claim extraction are a
// single step: there is no way to read claims out of a token this package
// has not verified.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. Exactly one of these is returned (wrapped) by
// Verify; anything ambiguous maps to ErrMalformed so the caller always
// fails closed.
var (
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature invalid")
	ErrExpired      = errors.New("token expired")
)

// minKeyBytes is the HS256 floor: an HMAC key shorter than the hash output
// weakens the signature.
const minKeyBytes = 32

// Claims is the full claim set embedded at login. Subject is the user's
// email; Roles is the comma-joined role list (the system currently issues
// exactly one role per user, but the claim format allows more).
type Claims struct {
	Roles         string `json:"roles"`
	UserID        int64  `json:"userId"`
	Username      string `json:"username"`
	ContactNumber string `json:"contactNumber"`
	jwt.RegisteredClaims
}

// RoleList splits the roles claim into the closed Role type. Verify has
// already validated every entry, so this cannot fail on a verified token.
func (c *Claims) RoleList() []Role {
	roles, _ := ParseRoleList(c.Roles)
	return roles
}

// Codec signs and verifies tokens with a process-wide secret loaded once
// at startup and shared read-only across all verifications.
type Codec struct {
	key []byte
	ttl time.Duration
}

// NewCodec decodes the base64-encoded signing secret and fixes the token
// time-to-live. A secret that does not decode, or decodes to fewer than 32
// bytes, is a startup error: better to refuse to boot than to sign with a
// weak key.
func NewCodec(encodedSecret string, ttl time.Duration) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(encodedSecret)
	if err != nil {
		return nil, fmt.Errorf("signing secret is not valid base64: %w", err)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("signing secret too short: %d bytes, need at least %d", len(key), minKeyBytes)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &Codec{key: key, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue serializes the claim set, stamps the validity window, and signs it.
func (c *Codec) Issue(email string, roles []Role, userID int64, username, contactNumber string) (string, error) {
	now := time.Now()
	claims := Claims{
		Roles:         JoinRoles(roles),
		UserID:        userID,
		Username:      username,
		ContactNumber: contactNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// Verify parses tokenString, checks the signature and expiration, and
// validates the role claim against the closed set. On success the returned
// claims are trusted; on failure the error matches exactly one of
// ErrBadSignature, ErrExpired, or ErrMalformed under errors.Is.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformed)
	}
	// A role outside the closed set must not propagate past verification.
	if _, err := ParseRoleList(claims.Roles); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return claims, nil
}
