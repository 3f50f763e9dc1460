package routesync

import (
	"sort"

	"github.com/travigo/tripplanner/pkg/itinerary"
	"github.com/travigo/tripplanner/pkg/util"
	"golang.org/x/exp/slices"
)

// WaypointSource supplies the custom waypoints of a segment
type WaypointSource interface {
	SegmentWaypoints(startItemID string, endItemID string) []itinerary.Waypoint
}

// RouteSet indexes server delivered routes by segment key
type RouteSet map[string]*itinerary.Route

func NewRouteSet(routes []*itinerary.Route) RouteSet {
	set := RouteSet{}
	for _, route := range routes {
		if route == nil {
			continue
		}
		set[route.Key()] = route
	}

	return set
}

func (r RouteSet) SegmentWaypoints(startItemID string, endItemID string) []itinerary.Waypoint {
	route := r[itinerary.SegmentKey(startItemID, endItemID)]
	if route == nil {
		return nil
	}

	return route.Waypoints
}

// SegmentState is the local copy of one segment's waypoints and the markers
// drawn for them
type SegmentState struct {
	StartItemID string
	EndItemID   string
	Waypoints   []itinerary.Waypoint

	markers map[string]Handle
}

func newSegmentState(startItemID string, endItemID string, waypoints []itinerary.Waypoint) *SegmentState {
	return &SegmentState{
		StartItemID: startItemID,
		EndItemID:   endItemID,
		Waypoints:   itinerary.SortWaypoints(waypoints),
		markers:     map[string]Handle{},
	}
}

func (s *SegmentState) Key() string {
	return itinerary.SegmentKey(s.StartItemID, s.EndItemID)
}

// MoveWaypoint changes the position of the waypoint with the given id
func (s *SegmentState) MoveWaypoint(waypointID string, position itinerary.LatLng) bool {
	for i := range s.Waypoints {
		if s.Waypoints[i].ID == waypointID {
			s.Waypoints[i].Lat = position.Lat
			s.Waypoints[i].Lng = position.Lng
			return true
		}
	}

	return false
}

// RemoveWaypoint drops the waypoint and renumbers the rest from 0 keeping
// their relative order
func (s *SegmentState) RemoveWaypoint(waypointID string) bool {
	if !slices.ContainsFunc(s.Waypoints, func(w itinerary.Waypoint) bool { return w.ID == waypointID }) {
		return false
	}

	remaining := itinerary.SortWaypoints(s.Waypoints)
	util.InPlaceFilter(&remaining, func(w itinerary.Waypoint) bool {
		return w.ID != waypointID
	})

	for i := range remaining {
		remaining[i].Order = i
	}
	s.Waypoints = remaining

	if marker, ok := s.markers[waypointID]; ok {
		marker.Remove()
		delete(s.markers, waypointID)
	}

	return true
}

func (s *SegmentState) Upsert() itinerary.RouteUpsert {
	inputs := make([]itinerary.WaypointInput, 0, len(s.Waypoints))
	for _, waypoint := range itinerary.SortWaypoints(s.Waypoints) {
		inputs = append(inputs, waypoint.Input())
	}

	return itinerary.RouteUpsert{
		StartItineraryItemID: s.StartItemID,
		EndItineraryItemID:   s.EndItemID,
		Waypoints:            inputs,
	}
}

func (s *SegmentState) MarkerCount() int {
	return len(s.markers)
}

func (s *SegmentState) clearMarkers() {
	for id, marker := range s.markers {
		marker.Remove()
		delete(s.markers, id)
	}
}

// WaypointStore holds the per segment state between a local edit and the
// next refresh from the server. It is not safe for concurrent use, the
// synchroniser guards it.
type WaypointStore struct {
	segments map[string]*SegmentState
}

func NewWaypointStore() *WaypointStore {
	return &WaypointStore{
		segments: map[string]*SegmentState{},
	}
}

func (w *WaypointStore) Get(startItemID string, endItemID string) *SegmentState {
	return w.segments[itinerary.SegmentKey(startItemID, endItemID)]
}

func (w *WaypointStore) GetByKey(key string) *SegmentState {
	return w.segments[key]
}

// Put replaces the state of the segment, releasing the markers of the old one
func (w *WaypointStore) Put(state *SegmentState) {
	if existing, ok := w.segments[state.Key()]; ok && existing != state {
		existing.clearMarkers()
	}

	w.segments[state.Key()] = state
}

func (w *WaypointStore) SegmentWaypoints(startItemID string, endItemID string) []itinerary.Waypoint {
	state := w.Get(startItemID, endItemID)
	if state == nil {
		return nil
	}

	return state.Waypoints
}

func (w *WaypointStore) Len() int {
	return len(w.segments)
}

func (w *WaypointStore) Segments() []*SegmentState {
	states := make([]*SegmentState, 0, len(w.segments))
	for _, state := range w.segments {
		states = append(states, state)
	}

	sort.Slice(states, func(i, j int) bool {
		return states[i].Key() < states[j].Key()
	})

	return states
}

// Reset releases every marker and forgets all segments
func (w *WaypointStore) Reset() {
	for key, state := range w.segments {
		state.clearMarkers()
		delete(w.segments, key)
	}
}
