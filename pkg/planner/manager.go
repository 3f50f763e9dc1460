package planner

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
	"github.com/travigo/tripplanner/pkg/mapview"
	"github.com/travigo/tripplanner/pkg/routesync"
)

// Backend is the itinerary service the views read plans and routes from
type Backend interface {
	routesync.RouteUpserter

	GetPlan(ctx context.Context, planID string) (*itinerary.Plan, error)
	GetRoutesByDayID(ctx context.Context, dayID string) ([]*itinerary.Route, error)
	GetRouteBetweenItems(ctx context.Context, startItemID string, endItemID string) (*itinerary.Route, error)
}

// Manager owns the open views
type Manager struct {
	backend  Backend
	provider directions.Provider
	config   Config

	ctx    context.Context
	cancel context.CancelFunc

	mutex sync.Mutex
	views map[string]*View
}

func NewManager(backend Backend, provider directions.Provider, config Config) *Manager {
	if config.MaxConcurrentLoads <= 0 {
		config.MaxConcurrentLoads = DefaultConfig().MaxConcurrentLoads
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		backend:  backend,
		provider: provider,
		config:   config,
		ctx:      ctx,
		cancel:   cancel,
		views:    map[string]*View{},
	}
}

// OpenDay shows a single day of the plan, replacing the view of that day if
// one was already open with different options
func (m *Manager) OpenDay(ctx context.Context, planID string, dayID string, options ViewOptions) (*View, error) {
	plan, err := m.backend.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	day := plan.FindDay(dayID)
	if day == nil {
		return nil, fmt.Errorf("%w: day %s in plan %s", ErrNotFound, dayID, planID)
	}

	dayIndex := 0
	for i, sorted := range itinerary.SortDays(plan.ItineraryDays) {
		if sorted.ID == dayID {
			dayIndex = i
		}
	}
	if options.RouteColor == "" {
		options.RouteColor = m.config.DayColour(dayIndex)
	}

	view, err := m.view(DayViewID(dayID), ViewKindDay, planID, dayID, options)
	if err != nil {
		return nil, err
	}
	view.setItems(day.Items)

	if err := view.Refresh(ctx); err != nil {
		return nil, err
	}

	return view, nil
}

// OpenPlan shows every day of the plan with a view per day and one per day
// connector, loading them concurrently
func (m *Manager) OpenPlan(ctx context.Context, planID string, options ViewOptions) ([]*View, error) {
	plan, err := m.backend.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	var views []*View

	for i, day := range itinerary.SortDays(plan.ItineraryDays) {
		dayOptions := options
		if dayOptions.RouteColor == "" {
			dayOptions.RouteColor = m.config.DayColour(i)
		}

		view, err := m.view(DayViewID(day.ID), ViewKindDay, planID, day.ID, dayOptions)
		if err != nil {
			return nil, err
		}
		view.setItems(day.Items)
		views = append(views, view)
	}

	dayIndexes := map[string]int{}
	for i, day := range itinerary.SortDays(plan.ItineraryDays) {
		dayIndexes[day.ID] = i
	}

	for _, connector := range itinerary.DayConnectors(plan.ItineraryDays) {
		connectorOptions := options
		connectorOptions.PreserveOrder = true
		if connectorOptions.RouteColor == "" {
			connectorOptions.RouteColor = m.config.DayColour(dayIndexes[connector.FromDay.ID])
		}

		view, err := m.view(ConnectorViewID(connector), ViewKindConnector, planID, connector.FromDay.ID, connectorOptions)
		if err != nil {
			return nil, err
		}
		view.setItems(connector.Items())
		views = append(views, view)
	}

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(m.config.MaxConcurrentLoads)
	for _, view := range views {
		view := view
		p.Go(func(ctx context.Context) error {
			if err := view.Refresh(ctx); err != nil {
				return fmt.Errorf("loading %s: %w", view.ID, err)
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return views, err
	}

	log.Info().Str("plan", planID).Int("views", len(views)).Msg("Opened plan")

	return views, nil
}

func (m *Manager) view(id string, kind ViewKind, planID string, dayID string, options ViewOptions) (*View, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if existing, ok := m.views[id]; ok {
		existing.Close()
		delete(m.views, id)
	}

	if options.TravelMode == "" {
		mode, err := directions.ParseTravelMode(m.config.TravelMode)
		if err != nil {
			return nil, err
		}
		options.TravelMode = mode
	}
	if options.RouteColor == "" {
		options.RouteColor = m.config.RouteColor
	}

	view := &View{
		ID:      id,
		Kind:    kind,
		PlanID:  planID,
		DayID:   dayID,
		Options: options,
		Map:     mapview.New(),
		backend: m.backend,
		ctx:     m.ctx,
	}

	synchronizer, err := routesync.New(routesync.Options{
		Name:            id,
		Provider:        m.provider,
		Surface:         view.Map,
		Store:           m.backend,
		Notifier:        view.Map,
		TravelMode:      options.TravelMode,
		RouteColor:      options.RouteColor,
		PreserveOrder:   options.PreserveOrder,
		OnRoutesChanged: view.routesChanged,
	})
	if err != nil {
		return nil, err
	}
	view.sync = synchronizer

	m.views[id] = view

	return view, nil
}

func (m *Manager) Get(viewID string) (*View, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	view, ok := m.views[viewID]
	return view, ok
}

func (m *Manager) Views() []*View {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	views := make([]*View, 0, len(m.views))
	for _, view := range m.views {
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].ID < views[j].ID
	})

	return views
}

func (m *Manager) Close(viewID string) bool {
	m.mutex.Lock()
	view, ok := m.views[viewID]
	delete(m.views, viewID)
	m.mutex.Unlock()

	if ok {
		view.Close()
	}

	return ok
}

func (m *Manager) CloseAll() {
	m.cancel()

	for _, view := range m.Views() {
		m.Close(view.ID)
	}
}
