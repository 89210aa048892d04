package revoke

import (
	"context"
	"sync"
	"time"
)

// Memory is the single-process Store: a mutex-guarded set keyed by token
// string. Correct only when one gateway/identity instance runs and
// revocations need not survive a restart; multi-instance deployments use
// the Redis store instead.
type Memory struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // token -> natural expiry (zero = unknown)
}

func NewMemory() *Memory {
	return &Memory{revoked: make(map[string]time.Time)}
}

func (m *Memory) Invalidate(_ context.Context, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Pruning is a memory bound, not a correctness requirement: an expired
	// entry matches only a token the codec already rejects.
	now := time.Now()
	for t, exp := range m.revoked {
		if !exp.IsZero() && now.After(exp) {
			delete(m.revoked, t)
		}
	}

	m.revoked[token] = expiresAt
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.revoked[token]
	return ok, nil
}

// Len reports the current entry count, for tests and diagnostics.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.revoked)
}
