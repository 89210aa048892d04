package revoke

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared Store for multi-instance deployments: entries are
// keyed by token digest with TTL equal to the remaining token lifetime, so
// they self-expire with the tokens they shadow.
type Redis struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisClient connects and pings so a dead Redis fails at startup, not
// on the first logout.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedis wraps client. defaultTTL bounds entries whose natural expiry is
// unknown (a malformed token revoked on logout); the configured token TTL
// is the natural choice.
func NewRedis(client *redis.Client, defaultTTL time.Duration) *Redis {
	return &Redis{client: client, defaultTTL: defaultTTL}
}

func (r *Redis) Invalidate(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := r.defaultTTL
	if !expiresAt.IsZero() {
		if remaining := time.Until(expiresAt); remaining > 0 {
			ttl = remaining
		} else {
			// Already past its natural expiry; keep a short entry anyway in
			// case of clock skew between instances.
			ttl = time.Minute
		}
	}
	return r.client.Set(ctx, key(token), "1", ttl).Err()
}

func (r *Redis) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// key hashes the token so raw credentials never appear in Redis.
func key(token string) string {
	return fmt.Sprintf("revoked:%x", sha256.Sum256([]byte(token)))
}
