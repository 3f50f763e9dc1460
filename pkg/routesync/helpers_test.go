package routesync_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
)

func newItem(id string, lat float64, lng float64, start string) *itinerary.Item {
	return &itinerary.Item{
		ID:        id,
		StartTime: start,
		Place: &itinerary.Place{
			PlaceID:  "place-" + id,
			Title:    id,
			Location: itinerary.NewLocation(itinerary.LatLng{Lat: lat, Lng: lng}),
		},
	}
}

// fakeProvider draws straight lines and records every request. holdNext
// blocks the next request until released.
type fakeProvider struct {
	mutex    sync.Mutex
	requests []*directions.Request
	err      error
	shift    float64

	gate    chan struct{}
	entered chan struct{}
}

func (p *fakeProvider) Route(ctx context.Context, request *directions.Request) (*directions.Result, error) {
	p.mutex.Lock()
	p.requests = append(p.requests, request)
	gate, entered := p.gate, p.entered
	p.gate, p.entered = nil, nil
	err := p.err
	shift := p.shift
	p.mutex.Unlock()

	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}

	result, err := directions.StraightLineProvider{}.Route(ctx, request)
	if err != nil {
		return nil, err
	}

	for i := range result.Legs {
		result.Legs[i].StartLocation.Lat += shift
		result.Legs[i].EndLocation.Lat += shift
	}

	return result, nil
}

func (p *fakeProvider) holdNext() (<-chan struct{}, func()) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	gate := make(chan struct{})
	entered := make(chan struct{})
	p.gate = gate
	p.entered = entered

	return entered, func() { close(gate) }
}

func (p *fakeProvider) setError(err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.err = err
}

func (p *fakeProvider) calls() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return len(p.requests)
}

func (p *fakeProvider) lastRequest() *directions.Request {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.requests) == 0 {
		return nil
	}
	return p.requests[len(p.requests)-1]
}

// fakeStore keeps routes in memory the way the backend does, replacing every
// waypoint on upsert
type fakeStore struct {
	mutex   sync.Mutex
	routes  map[string]*itinerary.Route
	upserts []itinerary.RouteUpsert
	saved   int
}

func newFakeStore(routes ...*itinerary.Route) *fakeStore {
	store := &fakeStore{routes: map[string]*itinerary.Route{}}
	for _, route := range routes {
		store.routes[route.Key()] = route
	}

	return store
}

func (s *fakeStore) UpsertRoute(_ context.Context, update itinerary.RouteUpsert) (*itinerary.Route, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.upserts = append(s.upserts, update)
	s.saved++

	route := &itinerary.Route{
		ID:                   fmt.Sprintf("route-%s", update.Key()),
		StartItineraryItemID: update.StartItineraryItemID,
		EndItineraryItemID:   update.EndItineraryItemID,
	}
	for _, input := range update.Waypoints {
		route.Waypoints = append(route.Waypoints, itinerary.Waypoint{
			ID:    fmt.Sprintf("saved-%d-%d", s.saved, input.Order),
			Lat:   input.Lat,
			Lng:   input.Lng,
			Order: input.Order,
		})
	}
	s.routes[route.Key()] = route

	return route, nil
}

func (s *fakeStore) Routes() []*itinerary.Route {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	routes := make([]*itinerary.Route, 0, len(s.routes))
	for _, route := range s.routes {
		copied := *route
		copied.Waypoints = append([]itinerary.Waypoint{}, route.Waypoints...)
		routes = append(routes, &copied)
	}

	return routes
}

func (s *fakeStore) Upserts() []itinerary.RouteUpsert {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]itinerary.RouteUpsert{}, s.upserts...)
}
