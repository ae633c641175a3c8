// internal/app/system/auth/denylist.go
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist tracks revoked token ids until they would have expired anyway.
type Denylist interface {
	Revoke(jti string, ttl time.Duration) error
	IsRevoked(jti string) (bool, error)
}

// RedisDenylist is the shared denylist used when a Redis address is
// configured, so logout takes effect across every server instance.
type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) key(jti string) string { return "dintask:revoked:" + jti }

func (d *RedisDenylist) Revoke(jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.client.Set(ctx, d.key(jti), "1", ttl).Err()
}

func (d *RedisDenylist) IsRevoked(jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := d.client.Exists(ctx, d.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryDenylist is the process-local fallback used when no Redis address
// is configured (single-instance deployments, tests).
type MemoryDenylist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: make(map[string]time.Time)}
}

func (d *MemoryDenylist) Revoke(jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(jti string) (bool, error) {
	d.mu.RLock()
	exp, ok := d.revoked[jti]
	d.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		d.mu.Lock()
		delete(d.revoked, jti)
		d.mu.Unlock()
		return false, nil
	}
	return true, nil
}
