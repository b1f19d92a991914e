package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Loan view cache keys
const (
	LoanViewKeyFmt = "loan:view:%d"
	LoanViewTTL    = 5 * time.Minute
)

// LoanViewKey returns the cache key for a rendered view-loan response
func LoanViewKey(loanID int) string {
	return fmt.Sprintf(LoanViewKeyFmt, loanID)
}

// Cache wraps an optional redis client. Every method is safe on a Cache
// without a client and degrades to a miss / no-op.
type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Connect dials redis and pings it. On failure it returns a disabled Cache
// together with the error so callers can log and continue.
func Connect(addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client for graceful degradation
		client.Close()
		return &Cache{}, err
	}
	return &Cache{client: client}, nil
}

// Enabled reports whether a redis client is attached
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get returns cached data for a key
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data with a TTL
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	c.client.Set(ctx, key, data, ttl)
}

// Invalidate removes specific cache keys
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

// IsHealthy returns true if Redis connection is working
func (c *Cache) IsHealthy(ctx context.Context) bool {
	if !c.Enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err() == nil
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
