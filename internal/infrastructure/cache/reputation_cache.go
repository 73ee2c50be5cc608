package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/port"
)

// Compile-time interface checks.
var (
	_ port.URLReputationProvider   = (*URLReputationCache)(nil)
	_ port.PhoneReputationProvider = (*PhoneReputationCache)(nil)
)

const (
	urlKeyPrefix   = "scam:rep:url:"
	phoneKeyPrefix = "scam:rep:phone:"
)

// Store is the subset of the redis client the caches use.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var (
	_ Store                        = (*redis.Client)(nil)
	_ port.URLReputationProvider   = (*URLReputationCache)(nil)
	_ port.PhoneReputationProvider = (*PhoneReputationCache)(nil)
)

// URLReputationCache is a read-through cache in front of a URL reputation provider.
type URLReputationCache struct {
	next   port.URLReputationProvider
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewURLReputationCache wraps next with a redis-backed cache.
func NewURLReputationCache(next port.URLReputationProvider, store Store, ttl time.Duration, logger *slog.Logger) *URLReputationCache {
	return &URLReputationCache{next: next, store: store, ttl: ttl, logger: logger}
}

// CheckURL returns a cached verdict when present, otherwise asks the provider
// and caches a successful answer.
func (c *URLReputationCache) CheckURL(ctx context.Context, url string) (*model.URLSignal, error) {
	key := cacheKey(urlKeyPrefix, url)

	var cached model.URLSignal
	if lookup(ctx, c.store, key, &cached, c.logger) {
		return &cached, nil
	}

	sig, err := c.next.CheckURL(ctx, url)
	if err != nil || !sig.Usable() {
		return sig, err
	}
	store(ctx, c.store, key, sig, c.ttl, c.logger)
	return sig, nil
}

// PhoneReputationCache is a read-through cache in front of a phone reputation provider.
type PhoneReputationCache struct {
	next   port.PhoneReputationProvider
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewPhoneReputationCache wraps next with a redis-backed cache.
func NewPhoneReputationCache(next port.PhoneReputationProvider, store Store, ttl time.Duration, logger *slog.Logger) *PhoneReputationCache {
	return &PhoneReputationCache{next: next, store: store, ttl: ttl, logger: logger}
}

// LookupPhone returns a cached verdict when present, otherwise asks the
// provider and caches a successful answer.
func (c *PhoneReputationCache) LookupPhone(ctx context.Context, phone string) (*model.PhoneSignal, error) {
	key := cacheKey(phoneKeyPrefix, phone)

	var cached model.PhoneSignal
	if lookup(ctx, c.store, key, &cached, c.logger) {
		return &cached, nil
	}

	sig, err := c.next.LookupPhone(ctx, phone)
	if err != nil || !sig.Usable() {
		return sig, err
	}
	store(ctx, c.store, key, sig, c.ttl, c.logger)
	return sig, nil
}

func cacheKey(prefix, value string) string {
	sum := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(sum[:])
}

// lookup reports whether key held a decodable value. Cache faults are logged
// and treated as a miss.
func lookup(ctx context.Context, s Store, key string, dst interface{}, logger *slog.Logger) bool {
	data, err := s.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		logger.Warn("reputation cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn("reputation cache entry undecodable", "key", key, "error", err)
		return false
	}
	return true
}

func store(ctx context.Context, s Store, key string, value interface{}, ttl time.Duration, logger *slog.Logger) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("reputation cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Warn("reputation cache write failed", "key", key, "error", err)
	}
}
