package routesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/tripplanner/pkg/itinerary"
)

type removable struct {
	removed int
}

func (r *removable) Remove() {
	r.removed++
}

func TestSegmentStateRemoveWaypoint(t *testing.T) {
	marker := &removable{}
	state := newSegmentState("A", "B", []itinerary.Waypoint{
		{ID: "w3", Lat: 3, Lng: 3, Order: 3},
		{ID: "w0", Lat: 0, Lng: 0, Order: 0},
		{ID: "w1", Lat: 1, Lng: 1, Order: 1},
		{ID: "w2", Lat: 2, Lng: 2, Order: 2},
	})
	state.markers["w1"] = marker

	require.True(t, state.RemoveWaypoint("w1"))

	assert.Equal(t, []itinerary.Waypoint{
		{ID: "w0", Lat: 0, Lng: 0, Order: 0},
		{ID: "w2", Lat: 2, Lng: 2, Order: 1},
		{ID: "w3", Lat: 3, Lng: 3, Order: 2},
	}, state.Waypoints)
	assert.Equal(t, 1, marker.removed)
	assert.Equal(t, 0, state.MarkerCount())

	assert.False(t, state.RemoveWaypoint("w1"))
	assert.Len(t, state.Waypoints, 3)
}

func TestSegmentStateMoveWaypoint(t *testing.T) {
	state := newSegmentState("A", "B", []itinerary.Waypoint{
		{ID: "w0", Lat: 0, Lng: 0, Order: 0},
		{ID: "w1", Lat: 1, Lng: 1, Order: 1},
	})

	require.True(t, state.MoveWaypoint("w1", itinerary.LatLng{Lat: 5, Lng: 6}))
	assert.Equal(t, itinerary.Waypoint{ID: "w1", Lat: 5, Lng: 6, Order: 1}, state.Waypoints[1])

	assert.False(t, state.MoveWaypoint("missing", itinerary.LatLng{}))

	assert.Equal(t, itinerary.RouteUpsert{
		StartItineraryItemID: "A",
		EndItineraryItemID:   "B",
		Waypoints: []itinerary.WaypointInput{
			{Lat: 0, Lng: 0, Order: 0},
			{Lat: 5, Lng: 6, Order: 1},
		},
	}, state.Upsert())
}

func TestSegmentStateDoesNotShareServerWaypoints(t *testing.T) {
	route := &itinerary.Route{
		StartItineraryItemID: "A",
		EndItineraryItemID:   "B",
		Waypoints:            []itinerary.Waypoint{{ID: "w0", Lat: 1, Lng: 1}},
	}

	state := newSegmentState("A", "B", route.Waypoints)
	state.MoveWaypoint("w0", itinerary.LatLng{Lat: 9, Lng: 9})

	assert.Equal(t, 1.0, route.Waypoints[0].Lat)
}

func TestWaypointStore(t *testing.T) {
	store := NewWaypointStore()

	first := newSegmentState("A", "B", []itinerary.Waypoint{{ID: "w0"}})
	marker := &removable{}
	first.markers["w0"] = marker
	store.Put(first)
	store.Put(newSegmentState("B", "C", nil))

	assert.Equal(t, 2, store.Len())
	assert.Same(t, first, store.Get("A", "B"))
	assert.Same(t, first, store.GetByKey("A->B"))
	assert.Len(t, store.SegmentWaypoints("A", "B"), 1)
	assert.Nil(t, store.SegmentWaypoints("C", "D"))

	segments := store.Segments()
	require.Len(t, segments, 2)
	assert.Equal(t, "A->B", segments[0].Key())
	assert.Equal(t, "B->C", segments[1].Key())

	store.Put(newSegmentState("A", "B", nil))
	assert.Equal(t, 1, marker.removed)
	assert.Empty(t, store.SegmentWaypoints("A", "B"))

	store.Reset()
	assert.Equal(t, 0, store.Len())
}
