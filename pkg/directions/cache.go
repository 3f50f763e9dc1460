package directions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cacheKeyPrefix = "tripplanner:directions:"

// CachedProvider keeps computed routes in a shared cache so identical
// requests from different views only hit the provider once
type CachedProvider struct {
	Provider Provider
	Cache    *cache.Cache[string]
}

func NewRedisCache(client *redis.Client) *cache.Cache[string] {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(90*time.Minute))

	return cache.New[string](redisStore)
}

func NewCachedProvider(provider Provider, routeCache *cache.Cache[string]) *CachedProvider {
	return &CachedProvider{
		Provider: provider,
		Cache:    routeCache,
	}
}

func (c *CachedProvider) Route(ctx context.Context, request *Request) (*Result, error) {
	key := cacheKeyPrefix + request.Fingerprint()

	if cached, err := c.Cache.Get(ctx, key); err == nil {
		var result Result
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			log.Debug().Str("key", key).Msg("Directions cache hit")
			return &result, nil
		}
	}

	result, err := c.Provider.Route(ctx, request)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(result); err == nil {
		if err := c.Cache.Set(ctx, key, string(encoded)); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to cache directions result")
		}
	}

	return result, nil
}
