package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
	"github.com/travigo/tripplanner/pkg/mapview"
	"github.com/travigo/tripplanner/pkg/routeapi"
	"github.com/travigo/tripplanner/pkg/routesync"
)

type ViewKind string

const (
	ViewKindDay       ViewKind = "day"
	ViewKindConnector ViewKind = "connector"
)

type ViewOptions struct {
	PreserveOrder bool                  `json:"preserveOrder"`
	RouteColor    string                `json:"routeColor"`
	TravelMode    directions.TravelMode `json:"travelMode"`
}

func DayViewID(dayID string) string {
	return fmt.Sprintf("day:%s", dayID)
}

func ConnectorViewID(connector itinerary.Connector) string {
	return fmt.Sprintf("connector:%s", connector.Key())
}

// View is one map session: a synchroniser drawing a day, or a day connector,
// onto its own headless map
type View struct {
	ID     string
	Kind   ViewKind
	PlanID string
	DayID  string

	Options ViewOptions

	Map *mapview.View

	backend Backend
	sync    *routesync.Synchronizer
	ctx     context.Context

	mutex sync.Mutex
	items []*itinerary.Item
}

func (v *View) Items() []*itinerary.Item {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	return v.items
}

func (v *View) Synchronizer() *routesync.Synchronizer {
	return v.sync
}

func (v *View) setItems(items []*itinerary.Item) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.items = items
}

// Reload fetches the day from the plan again before refreshing its routes
func (v *View) Reload(ctx context.Context) error {
	if v.Kind != ViewKindDay {
		return v.Refresh(ctx)
	}

	plan, err := v.backend.GetPlan(ctx, v.PlanID)
	if err != nil {
		return err
	}

	day := plan.FindDay(v.DayID)
	if day == nil {
		return fmt.Errorf("day %s is not part of plan %s", v.DayID, v.PlanID)
	}
	v.setItems(day.Items)

	return v.Refresh(ctx)
}

// Refresh loads the current routes and passes them to the synchroniser
func (v *View) Refresh(ctx context.Context) error {
	routes, err := v.loadRoutes(ctx)
	if err != nil {
		return err
	}

	v.sync.Update(ctx, v.Items(), routes)
	return nil
}

func (v *View) loadRoutes(ctx context.Context) ([]*itinerary.Route, error) {
	switch v.Kind {
	case ViewKindDay:
		return v.backend.GetRoutesByDayID(ctx, v.DayID)
	case ViewKindConnector:
		items := v.Items()
		if len(items) != 2 {
			return nil, nil
		}

		route, err := v.backend.GetRouteBetweenItems(ctx, items[0].ID, items[1].ID)
		if errors.Is(err, routeapi.ErrRouteNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		return []*itinerary.Route{route}, nil
	default:
		return nil, fmt.Errorf("unknown view kind %s", v.Kind)
	}
}

func (v *View) routesChanged() {
	if err := v.Refresh(v.ctx); err != nil {
		log.Error().Err(err).Str("view", v.ID).Msg("Failed to refresh routes")
	}
}

// Wait blocks until the saves and recomputes started by gestures are done
func (v *View) Wait() {
	v.sync.Wait()
}

func (v *View) Close() {
	v.sync.Close()
}
