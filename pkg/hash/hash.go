// Package hash wraps password hashing so callers never touch digest
// internals. Digests are argon2id with a per-call random salt, so hashing
// the same password twice yields different digests.
package hash

import "github.com/alexedwards/argon2id"

func Hash(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams)
}

// Verify reports whether password produced digest. A malformed digest is
// treated as a mismatch, never an error: the caller's only decision is
// accept or reject.
func Verify(password, digest string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, digest)
	if err != nil {
		return false
	}
	return match
}
