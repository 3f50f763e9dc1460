package routesync

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/travigo/tripplanner/pkg/itinerary"
)

// RouteUpserter persists the full waypoint list of a segment
type RouteUpserter interface {
	UpsertRoute(ctx context.Context, update itinerary.RouteUpsert) (*itinerary.Route, error)
}

// Gateway saves segment waypoints, allowing only one save per segment at a time
type Gateway struct {
	store    RouteUpserter
	notifier Notifier

	mutex    sync.Mutex
	inFlight map[string]struct{}
}

func NewGateway(store RouteUpserter, notifier Notifier) *Gateway {
	return &Gateway{
		store:    store,
		notifier: notifier,
		inFlight: map[string]struct{}{},
	}
}

// Save upserts the waypoints of the segment. A save for a segment that is
// already being saved is dropped and false is returned.
// Failures are reported through the notifier, success only when confirm is set.
func (g *Gateway) Save(ctx context.Context, update itinerary.RouteUpsert, confirm bool) bool {
	key := update.Key()

	if g.store == nil {
		log.Debug().Str("segment", key).Msg("No route store configured, not saving waypoints")
		return false
	}

	g.mutex.Lock()
	if _, busy := g.inFlight[key]; busy {
		g.mutex.Unlock()
		log.Debug().Str("segment", key).Msg("Save already in flight, dropping")
		return false
	}
	g.inFlight[key] = struct{}{}
	g.mutex.Unlock()

	defer func() {
		g.mutex.Lock()
		delete(g.inFlight, key)
		g.mutex.Unlock()
	}()

	if update.Waypoints == nil {
		update.Waypoints = []itinerary.WaypointInput{}
	}

	if _, err := g.store.UpsertRoute(ctx, update); err != nil {
		g.notifier.Failure("Failed to save waypoints", err)
		return false
	}

	log.Debug().Str("segment", key).Int("waypoints", len(update.Waypoints)).Msg("Saved waypoints")

	if confirm {
		g.notifier.Success("Waypoints Saved")
	}

	return true
}

func (g *Gateway) InFlight(key string) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	_, busy := g.inFlight[key]
	return busy
}
