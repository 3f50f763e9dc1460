package directions

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/tripplanner/pkg/itinerary"
)

func TestCachedProvider(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	calls := 0
	provider := ProviderFunc(func(ctx context.Context, request *Request) (*Result, error) {
		calls++
		return &Result{Legs: []Leg{{
			StartLocation:  request.Origin,
			EndLocation:    request.Destination,
			DistanceMeters: 500,
		}}}, nil
	})

	cached := NewCachedProvider(provider, NewRedisCache(client))

	request := &Request{
		Origin:      itinerary.LatLng{Lat: 51.5, Lng: -0.1},
		Destination: itinerary.LatLng{Lat: 51.6, Lng: -0.2},
		TravelMode:  TravelModeDriving,
	}

	first, err := cached.Route(context.Background(), request)
	require.NoError(t, err)
	second, err := cached.Route(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	other := *request
	other.Destination = itinerary.LatLng{Lat: 52, Lng: 0}
	_, err = cached.Route(context.Background(), &other)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	calls := 0
	provider := ProviderFunc(func(ctx context.Context, request *Request) (*Result, error) {
		calls++
		return nil, errors.New("boom")
	})

	cached := NewCachedProvider(provider, NewRedisCache(client))

	_, err := cached.Route(context.Background(), &Request{})
	assert.Error(t, err)
	_, err = cached.Route(context.Background(), &Request{})
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}
