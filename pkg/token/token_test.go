package token_test

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/voyago/travelbook/pkg/token"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func testSecret() string {
	return base64.StdEncoding.EncodeToString(testKey)
}

func newTestCodec(t *testing.T, ttl time.Duration) *token.Codec {
	t.Helper()
	c, err := token.NewCodec(testSecret(), ttl)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	c := newTestCodec(t, time.Hour)

	signed, err := c.Issue("a@x.com", []token.Role{token.RoleTraveler}, 42, "Alice", "5551234567")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if parts := strings.Split(signed, "."); len(parts) != 3 {
		t.Fatalf("expected compact three-segment token, got %d segments", len(parts))
	}

	claims, err := c.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "a@x.com" {
		t.Errorf("subject = %q, want a@x.com", claims.Subject)
	}
	if claims.Roles != "TRAVELER" {
		t.Errorf("roles = %q, want TRAVELER", claims.Roles)
	}
	if claims.UserID != 42 {
		t.Errorf("userId = %d, want 42", claims.UserID)
	}
	if claims.Username != "Alice" {
		t.Errorf("username = %q, want Alice", claims.Username)
	}
	if claims.ContactNumber != "5551234567" {
		t.Errorf("contactNumber = %q, want 5551234567", claims.ContactNumber)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Errorf("expiration not in the future: %v", claims.ExpiresAt)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	c := newTestCodec(t, time.Hour)

	signed, err := c.Issue("a@x.com", []token.Role{token.RoleAdmin}, 1, "A", "5551234567")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(signed, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = c.Verify(tampered)
	if !errors.Is(err, token.ErrBadSignature) {
		t.Fatalf("Verify(tampered) = %v, want ErrBadSignature", err)
	}
}

func TestVerifyWrongKey(t *testing.T) {
	c := newTestCodec(t, time.Hour)
	otherSecret := base64.StdEncoding.EncodeToString([]byte("ffffffffffffffffffffffffffffffff"))
	other, err := token.NewCodec(otherSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	signed, err := other.Issue("a@x.com", []token.Role{token.RoleAdmin}, 1, "A", "5551234567")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := c.Verify(signed); !errors.Is(err, token.ErrBadSignature) {
		t.Fatalf("Verify(foreign token) = %v, want ErrBadSignature", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	c := newTestCodec(t, 10*time.Millisecond)

	signed, err := c.Issue("a@x.com", []token.Role{token.RoleTraveler}, 1, "A", "5551234567")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, err := c.Verify(signed); !errors.Is(err, token.ErrExpired) {
		t.Fatalf("Verify(expired) = %v, want ErrExpired", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	c := newTestCodec(t, time.Hour)

	for _, bad := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := c.Verify(bad); !errors.Is(err, token.ErrMalformed) {
			t.Errorf("Verify(%q) = %v, want ErrMalformed", bad, err)
		}
	}
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	c := newTestCodec(t, time.Hour)

	// Sign a claim set with a role outside the closed set using the same
	// key; a cryptographically valid token must still fail.
	now := time.Now()
	claims := token.Claims{
		Roles:  "SUPERUSER",
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@x.com",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.Verify(signed); !errors.Is(err, token.ErrMalformed) {
		t.Fatalf("Verify(unknown role) = %v, want ErrMalformed", err)
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	c := newTestCodec(t, time.Hour)

	now := time.Now()
	claims := token.Claims{
		Roles: "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@x.com",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.Verify(unsigned); err == nil {
		t.Fatal("Verify accepted an alg=none token")
	}
}

func TestNewCodecRejectsBadConfig(t *testing.T) {
	if _, err := token.NewCodec("not-base64!!!", time.Hour); err == nil {
		t.Error("accepted non-base64 secret")
	}

	short := base64.StdEncoding.EncodeToString([]byte("tooshort"))
	if _, err := token.NewCodec(short, time.Hour); err == nil {
		t.Error("accepted short secret")
	}

	if _, err := token.NewCodec(testSecret(), 0); err == nil {
		t.Error("accepted zero ttl")
	}
}
