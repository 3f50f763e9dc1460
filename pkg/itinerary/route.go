package itinerary

import (
	"cmp"
	"fmt"

	"golang.org/x/exp/slices"
)

func SegmentKey(startItemID string, endItemID string) string {
	return fmt.Sprintf("%s->%s", startItemID, endItemID)
}

// Route holds the custom waypoints of the path between two consecutive items
type Route struct {
	ID                   string `json:"id"`
	StartItineraryItemID string `json:"startItineraryItemId"`
	EndItineraryItemID   string `json:"endItineraryItemId"`

	Waypoints []Waypoint `json:"waypoints"`
}

func (r *Route) Key() string {
	return SegmentKey(r.StartItineraryItemID, r.EndItineraryItemID)
}

// Waypoint is a user placed via point along a route
type Waypoint struct {
	ID    string  `json:"id"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Order int     `json:"order"`
}

func (w Waypoint) LatLng() LatLng {
	return LatLng{Lat: w.Lat, Lng: w.Lng}
}

func (w Waypoint) Input() WaypointInput {
	return WaypointInput{Lat: w.Lat, Lng: w.Lng, Order: w.Order}
}

func SortWaypoints(waypoints []Waypoint) []Waypoint {
	sorted := slices.Clone(waypoints)
	slices.SortStableFunc(sorted, func(a, b Waypoint) int {
		return cmp.Compare(a.Order, b.Order)
	})

	return sorted
}

type WaypointInput struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Order int     `json:"order"`
}

// RouteUpsert replaces every waypoint of the route between two items
type RouteUpsert struct {
	StartItineraryItemID string          `json:"startItineraryItemId"`
	EndItineraryItemID   string          `json:"endItineraryItemId"`
	Waypoints            []WaypointInput `json:"waypoints"`
}

func (r RouteUpsert) Key() string {
	return SegmentKey(r.StartItineraryItemID, r.EndItineraryItemID)
}
