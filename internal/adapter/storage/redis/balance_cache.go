package redis

import (
	"context"
	"fmt"
	"time"

	"spend-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// BalanceCache implements ports.QueryCache using Redis. Balances are cached
// as decimal strings; authorization state is never cached so revocations are
// visible immediately.
type BalanceCache struct {
	client *goredis.Client
	prefix string
}

// NewBalanceCache creates a new Redis-backed balance cache.
func NewBalanceCache(client *goredis.Client) *BalanceCache {
	return &BalanceCache{
		client: client,
		prefix: "balance:",
	}
}

// GetBalance retrieves a cached balance. The second return value reports
// whether the key was present.
func (c *BalanceCache) GetBalance(ctx context.Context, account domain.AccountID) (domain.Amount, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+string(account)).Result()
	if err != nil {
		if err == goredis.Nil {
			return domain.Amount{}, false, nil
		}
		return domain.Amount{}, false, fmt.Errorf("redis balance get: %w", err)
	}

	amount, err := domain.ParseAmount(val)
	if err != nil {
		// Treat an unparsable entry as a miss; it will be overwritten
		// on the next fill.
		return domain.Amount{}, false, nil
	}
	return amount, true, nil
}

// SetBalance stores a balance with TTL.
func (c *BalanceCache) SetBalance(ctx context.Context, account domain.AccountID, amount domain.Amount, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+string(account), amount.String(), ttl).Err()
	if err != nil {
		return fmt.Errorf("redis balance set: %w", err)
	}
	return nil
}

// Invalidate drops cached balances for the given accounts.
func (c *BalanceCache) Invalidate(ctx context.Context, accounts ...domain.AccountID) error {
	if len(accounts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(accounts))
	for _, account := range accounts {
		keys = append(keys, c.prefix+string(account))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis balance invalidate: %w", err)
	}
	return nil
}
