package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const currencyKeyPrefix = "settings:currency:"

// CurrencyCache caches the per-landlord display currency in Redis. The
// database value on the lease is always authoritative; the cache only
// saves a lookup for read-heavy ledger endpoints and repairs itself
// whenever it disagrees with the authoritative value.
type CurrencyCache struct {
	client  *redis.Client
	ttl     time.Duration
	defCurr valueobject.Currency
}

// NewCurrencyCache creates a new CurrencyCache
func NewCurrencyCache(client *redis.Client, ttl time.Duration, defaultCurrency valueobject.Currency) *CurrencyCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if defaultCurrency == "" {
		defaultCurrency = valueobject.DefaultCurrency
	}
	return &CurrencyCache{
		client:  client,
		ttl:     ttl,
		defCurr: defaultCurrency,
	}
}

// NewRedisClient builds a Redis client and verifies the connection
func NewRedisClient(host string, port int, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// Resolve returns the currency to use for a landlord. When the caller
// already holds the authoritative value it wins unconditionally; a stale
// cached value is repaired in the background rather than served.
func (c *CurrencyCache) Resolve(ctx context.Context, landlordID uuid.UUID, authoritative valueobject.Currency) valueobject.Currency {
	if authoritative == "" {
		authoritative = c.defCurr
	}

	cached, err := c.client.Get(ctx, currencyKeyPrefix+landlordID.String()).Result()
	if err != nil {
		if err != redis.Nil {
			logger.L(ctx).Warn("currency cache read failed", zap.Error(err))
		}
		c.repair(landlordID, authoritative)
		return authoritative
	}

	if cached != string(authoritative) {
		c.repair(landlordID, authoritative)
	}
	return authoritative
}

// Lookup returns the cached currency without an authoritative value,
// falling back to the default when the cache has nothing.
func (c *CurrencyCache) Lookup(ctx context.Context, landlordID uuid.UUID) valueobject.Currency {
	cached, err := c.client.Get(ctx, currencyKeyPrefix+landlordID.String()).Result()
	if err != nil {
		return c.defCurr
	}
	currency := valueobject.Currency(cached)
	if !currency.IsValid() {
		return c.defCurr
	}
	return currency
}

// Invalidate drops the cached currency for a landlord
func (c *CurrencyCache) Invalidate(ctx context.Context, landlordID uuid.UUID) error {
	return c.client.Del(ctx, currencyKeyPrefix+landlordID.String()).Err()
}

// repair refreshes the cache off the request path. Cache writes are
// best effort; a failed write only costs the next reader a lookup.
func (c *CurrencyCache) repair(landlordID uuid.UUID, authoritative valueobject.Currency) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.client.Set(ctx, currencyKeyPrefix+landlordID.String(), string(authoritative), c.ttl).Err(); err != nil {
			logger.L(ctx).Warn("currency cache repair failed", zap.Error(err))
		}
	}()
}
