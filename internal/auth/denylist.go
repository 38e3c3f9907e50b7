package auth

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/catalog-manager/internal/redissvc"
)

// Denylist records revoked token ids until the token would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "auth:revoked:"

type RedisDenylist struct {
	redis *redissvc.RedisService
}

func NewRedisDenylist(rs *redissvc.RedisService) *RedisDenylist {
	return &RedisDenylist{redis: rs}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.redis.SetWithTTL(ctx, revokedKeyPrefix+jti, "1", ttl)
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return d.redis.Exists(ctx, revokedKeyPrefix+jti)
}

// MemoryDenylist keeps revocations in process. Used in tests and when redis is not configured.
type MemoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: map[string]time.Time{}}
}

func (d *MemoryDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for id, exp := range d.revoked {
		if now.After(exp) {
			delete(d.revoked, id)
		}
	}
	if until.After(now) {
		d.revoked[jti] = until
	}
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.revoked[jti]
	return ok && time.Now().Before(exp), nil
}
