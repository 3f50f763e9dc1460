package routesync

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
	"golang.org/x/exp/slices"
)

type Options struct {
	Name string

	Provider directions.Provider
	Surface  Surface
	Store    RouteUpserter
	Notifier Notifier

	TravelMode    directions.TravelMode
	RouteColor    string
	PreserveOrder bool

	// OnRoutesChanged is called after a waypoint change has been saved so the
	// owner can reload the routes and pass them back through Update
	OnRoutesChanged func()
}

// Synchronizer keeps one rendered multi stop path, its waypoint markers and
// the persisted routes of a list of items in step with each other
type Synchronizer struct {
	logger zerolog.Logger

	provider        directions.Provider
	surface         Surface
	notifier        Notifier
	gateway         *Gateway
	travelMode      directions.TravelMode
	color           string
	preserveOrder   bool
	onRoutesChanged func()

	ctx    context.Context
	cancel context.CancelFunc

	waitGroup conc.WaitGroup

	mutex sync.Mutex

	closed bool
	guard  changeGuard

	generation     uint64
	pathGeneration uint64
	lastKey        string
	renderedKey    string

	routedItems []*itinerary.Item
	segments    []SegmentMapping
	result      *directions.Result
	store       *WaypointStore

	path       Handle
	connectors []Handle
}

func New(options Options) (*Synchronizer, error) {
	if options.Provider == nil {
		return nil, errors.New("routesync: a directions provider is required")
	}
	if options.Surface == nil {
		return nil, errors.New("routesync: a surface is required")
	}

	if options.Notifier == nil {
		options.Notifier = LogNotifier{View: options.Name}
	}
	if options.TravelMode == "" {
		options.TravelMode = directions.TravelModeDriving
	}
	if options.RouteColor == "" {
		options.RouteColor = itinerary.DefaultRouteColour
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Synchronizer{
		logger: log.With().Str("view", options.Name).Logger(),

		provider:        options.Provider,
		surface:         options.Surface,
		notifier:        options.Notifier,
		gateway:         NewGateway(options.Store, options.Notifier),
		travelMode:      options.TravelMode,
		color:           options.RouteColor,
		preserveOrder:   options.PreserveOrder,
		onRoutesChanged: options.OnRoutesChanged,

		ctx:    ctx,
		cancel: cancel,

		store: NewWaypointStore(),
	}, nil
}

// Update recomputes the path for the items using the waypoints of the server
// routes. Nothing happens when the items and waypoints are the ones already
// rendered.
func (s *Synchronizer) Update(ctx context.Context, items []*itinerary.Item, routes []*itinerary.Route) {
	s.mutex.Lock()

	if s.closed {
		s.mutex.Unlock()
		return
	}

	displayed := itinerary.SortItems(items, s.preserveOrder)
	if len(displayed) < 2 {
		s.clear()
		s.mutex.Unlock()
		return
	}

	if !s.surface.Ready() {
		s.mutex.Unlock()
		s.logger.Debug().Msg("Surface not ready, skipping route computation")
		return
	}

	serverRoutes := NewRouteSet(routes)
	plan, ok := BuildRoutePlan(displayed, serverRoutes, s.travelMode)
	if !ok {
		s.clear()
		s.mutex.Unlock()
		return
	}

	key := plan.CacheKey()
	if key == s.lastKey && s.path != nil {
		s.mutex.Unlock()
		s.logger.Debug().Str("key", key).Msg("Route unchanged, skipping computation")
		return
	}

	s.lastKey = key
	s.generation++
	generation := s.generation
	token := s.guard.begin()
	s.mutex.Unlock()

	s.compute(ctx, plan, generation, token, serverRoutes)
}

// recomputeLocal redraws the path from the local waypoint store after a
// marker gesture, the markers themselves are left alone
func (s *Synchronizer) recomputeLocal(token uint64) {
	s.mutex.Lock()

	if s.closed {
		s.guard.settle(token)
		s.mutex.Unlock()
		return
	}

	plan, ok := BuildRoutePlan(s.routedItems, s.store, s.travelMode)
	if !ok {
		s.guard.settle(token)
		s.mutex.Unlock()
		return
	}

	s.lastKey = plan.CacheKey()
	s.generation++
	generation := s.generation
	s.mutex.Unlock()

	s.compute(s.ctx, plan, generation, token, nil)
}

// compute runs one provider request and applies the result if it is still the
// newest one asked for. Server routes, when given, replace the local
// waypoint state and markers and a success toast is raised. Local recomputes
// after marker gestures stay quiet.
func (s *Synchronizer) compute(ctx context.Context, plan *RoutePlan, generation uint64, token uint64, routes RouteSet) {
	s.logger.Debug().
		Uint64("generation", generation).
		Int("items", len(plan.Items)).
		Int("waypoints", len(plan.Request.Waypoints)).
		Msg("Requesting directions")

	result, err := s.provider.Route(ctx, plan.Request)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	defer s.guard.settle(token)

	if s.closed {
		return
	}

	if generation != s.generation {
		s.logger.Debug().
			Uint64("generation", generation).
			Uint64("latest", s.generation).
			Msg("Discarding stale directions result")
		return
	}

	if err != nil {
		s.lastKey = s.renderedKey
		s.notifier.Failure("Failed to calculate route", err)
		return
	}

	if !s.applyResult(plan, generation, result) {
		s.lastKey = s.renderedKey
		return
	}

	if routes != nil {
		s.resetMarkers(plan.Segments, routes)
		s.notifier.Success("Routes Calculated")
	}

	s.logger.Info().
		Int("legs", len(result.Legs)).
		Int("distance", result.DistanceMeters()).
		Int("duration", result.DurationSeconds()).
		Msg("Route rendered")
}

func (s *Synchronizer) applyResult(plan *RoutePlan, generation uint64, result *directions.Result) bool {
	path, err := s.surface.RenderPath(result, defaultPathStyle(s.color), func(edited *directions.Result) {
		s.handlePathEdited(generation, edited)
	})
	if err != nil {
		s.logger.Debug().Err(err).Msg("Could not render path")
		return false
	}

	if s.path != nil {
		s.path.Remove()
	}
	s.path = path
	s.pathGeneration = generation

	s.routedItems = plan.Items
	s.segments = plan.Segments
	s.result = result
	s.renderedKey = plan.CacheKey()
	s.guard.echo = viaFingerprint(result)

	s.drawConnectors(plan.Items, result)

	return true
}

func (s *Synchronizer) clear() {
	s.generation++

	if s.path != nil {
		s.path.Remove()
		s.path = nil
	}
	s.pathGeneration = 0

	s.store.Reset()
	s.clearConnectors()

	s.routedItems = nil
	s.segments = nil
	s.result = nil
	s.lastKey = ""
	s.renderedKey = ""
}

func (s *Synchronizer) isClosed() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.closed
}

// Wait blocks until every background save and recompute has finished
func (s *Synchronizer) Wait() {
	s.waitGroup.Wait()
}

// Close removes everything drawn on the surface. Results arriving later are
// discarded. Close must not be called from OnRoutesChanged.
func (s *Synchronizer) Close() {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return
	}

	s.closed = true
	s.cancel()
	s.clear()
	s.mutex.Unlock()

	s.waitGroup.Wait()
}

func (s *Synchronizer) Result() *directions.Result {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.result
}

func (s *Synchronizer) Segments() []SegmentMapping {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return slices.Clone(s.segments)
}

// Waypoints returns the local waypoints of the segment in order
func (s *Synchronizer) Waypoints(startItemID string, endItemID string) []itinerary.Waypoint {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return itinerary.SortWaypoints(s.store.SegmentWaypoints(startItemID, endItemID))
}

func (s *Synchronizer) CacheKey() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.renderedKey
}
