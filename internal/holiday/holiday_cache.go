package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "holidays:"

func cacheKey(year int, region string) string {
	return fmt.Sprintf("%s%d:%s", cacheKeyPrefix, year, region)
}

// CachedProvider decorates a Provider with a redis cache-aside layer.
// Holiday sets change at most once a year, so a long TTL is safe; a cache
// miss or redis outage falls through to the upstream provider.
type CachedProvider struct {
	upstream Provider
	rdb      *redis.Client
	ttl      time.Duration
	logger   *zap.Logger
}

func NewCachedProvider(upstream Provider, rdb *redis.Client, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &CachedProvider{
		upstream: upstream,
		rdb:      rdb,
		ttl:      ttl,
		logger:   zap.L().Named("holiday.cache"),
	}
}

func (p *CachedProvider) Holidays(ctx context.Context, year int, region string) ([]Holiday, error) {
	key := cacheKey(year, region)

	val, err := p.rdb.Get(ctx, key).Result()
	if err == nil {
		var cached []Holiday
		if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
			return cached, nil
		}
		// Corrupt cache entry; fall through and overwrite it.
		p.logger.Warn("discarding unreadable holiday cache entry", zap.String("key", key))
	} else if err != redis.Nil {
		p.logger.Warn("holiday cache read failed", zap.String("key", key), zap.Error(err))
	}

	holidays, err := p.upstream.Holidays(ctx, year, region)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(holidays)
	if err == nil {
		if setErr := p.rdb.Set(ctx, key, payload, p.ttl).Err(); setErr != nil {
			p.logger.Warn("holiday cache write failed", zap.String("key", key), zap.Error(setErr))
		}
	}

	return holidays, nil
}
