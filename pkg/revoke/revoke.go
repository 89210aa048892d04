// Package revoke tracks tokens that must be rejected before their natural
// expiration. A token can be cryptographically valid and unexpired yet
// still dead here; the codec and this store are deliberately decoupled.
package revoke

import (
	"context"
	"time"
)

// Store is consulted on every token verification. Implementations must be
// safe for concurrent use without external locking. Construct one at
// startup and share it by reference; there is no package-level instance.
type Store interface {
	// Invalidate records token as revoked. Idempotent. expiresAt is the
	// token's natural expiry so the entry can be dropped once it no longer
	// matters; a zero expiresAt means the expiry could not be determined
	// and the entry is kept conservatively.
	Invalidate(ctx context.Context, token string, expiresAt time.Time) error

	// IsRevoked reports whether token has been invalidated. Callers must
	// treat an error as "revoked" (fail closed).
	IsRevoked(ctx context.Context, token string) (bool, error)
}
