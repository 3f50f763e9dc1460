package routesync

import (
	"fmt"
	"strings"

	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
)

// SegmentMapping ties leg Index of the computed route back to the two items
// it joins and to the custom waypoints it was requested with
type SegmentMapping struct {
	Index       int    `json:"index"`
	StartItemID string `json:"startItemId"`
	EndItemID   string `json:"endItemId"`

	WaypointStart int `json:"waypointStart"`
	WaypointCount int `json:"waypointCount"`
}

func (m SegmentMapping) Key() string {
	return itinerary.SegmentKey(m.StartItemID, m.EndItemID)
}

type RoutePlan struct {
	Items    []*itinerary.Item
	Request  *directions.Request
	Segments []SegmentMapping
}

// BuildRoutePlan turns the displayed items and the custom waypoints of each
// segment into one provider request.
// Interior items without coordinates are left out, if the first or last item
// has none there is nothing to route.
func BuildRoutePlan(items []*itinerary.Item, source WaypointSource, travelMode directions.TravelMode) (*RoutePlan, bool) {
	if len(items) < 2 {
		return nil, false
	}
	if _, ok := items[0].Coordinates(); !ok {
		return nil, false
	}
	if _, ok := items[len(items)-1].Coordinates(); !ok {
		return nil, false
	}

	routable := itinerary.RoutableItems(items)
	if len(routable) < 2 {
		return nil, false
	}

	if travelMode == "" {
		travelMode = directions.TravelModeDriving
	}

	origin, _ := routable[0].Coordinates()
	destination, _ := routable[len(routable)-1].Coordinates()

	plan := &RoutePlan{
		Items: routable,
		Request: &directions.Request{
			Origin:            origin,
			Destination:       destination,
			Waypoints:         []directions.Waypoint{},
			TravelMode:        travelMode,
			OptimizeWaypoints: false,
		},
		Segments: make([]SegmentMapping, 0, len(routable)-1),
	}

	for i := 0; i < len(routable)-1; i++ {
		start := routable[i]
		end := routable[i+1]

		var custom []itinerary.Waypoint
		if source != nil {
			custom = itinerary.SortWaypoints(source.SegmentWaypoints(start.ID, end.ID))
		}

		plan.Segments = append(plan.Segments, SegmentMapping{
			Index:         i,
			StartItemID:   start.ID,
			EndItemID:     end.ID,
			WaypointStart: len(plan.Request.Waypoints),
			WaypointCount: len(custom),
		})

		for _, waypoint := range custom {
			plan.Request.Waypoints = append(plan.Request.Waypoints, directions.Waypoint{
				Location: waypoint.LatLng(),
				Stopover: false,
			})
		}

		// the end of every segment but the last is a stop in its own right
		if i < len(routable)-2 {
			location, _ := end.Coordinates()
			plan.Request.Waypoints = append(plan.Request.Waypoints, directions.Waypoint{
				Location: location,
				Stopover: true,
			})
		}
	}

	return plan, true
}

// CacheKey identifies a computation by the routed items and every waypoint
// of the request
func CacheKey(items []*itinerary.Item, request *directions.Request) string {
	waypoints := make([]string, 0, len(request.Waypoints))
	for _, waypoint := range request.Waypoints {
		waypoints = append(waypoints, fmt.Sprintf("%s,%t", waypoint.Location, waypoint.Stopover))
	}

	return fmt.Sprintf("%s:%s", strings.Join(itinerary.ItemIDs(items), ","), strings.Join(waypoints, "|"))
}

func (p *RoutePlan) CacheKey() string {
	return CacheKey(p.Items, p.Request)
}
