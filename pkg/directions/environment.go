package directions

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/travigo/tripplanner/pkg/redis_client"
	"github.com/travigo/tripplanner/pkg/util"
)

// NewProviderFromEnvironment uses the Google Directions API when a key is
// configured and straight lines otherwise, cached in redis when
// TRIPPLANNER_ROUTE_CACHE is YES
func NewProviderFromEnvironment() (Provider, error) {
	env := util.GetEnvironmentVariables()

	var provider Provider
	if key := env["TRIPPLANNER_GOOGLE_MAPS_KEY"]; key != "" {
		provider = NewGoogleProvider(key)
	} else {
		log.Warn().Msg("TRIPPLANNER_GOOGLE_MAPS_KEY not set, routes are drawn as straight lines")
		provider = StraightLineProvider{}
	}

	if !util.EnvironmentFlag(env, "TRIPPLANNER_ROUTE_CACHE") {
		return provider, nil
	}

	if redis_client.Client == nil {
		if err := redis_client.Connect(); err != nil {
			return nil, fmt.Errorf("connecting to redis for the route cache: %w", err)
		}
	}

	log.Info().Msg("Caching directions results in redis")

	return NewCachedProvider(provider, NewRedisCache(redis_client.Client)), nil
}
