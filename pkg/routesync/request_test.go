package routesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
)

func testItem(id string, lat float64, lng float64) *itinerary.Item {
	return &itinerary.Item{
		ID: id,
		Place: &itinerary.Place{
			PlaceID:  "place-" + id,
			Title:    id,
			Location: itinerary.NewLocation(itinerary.LatLng{Lat: lat, Lng: lng}),
		},
	}
}

func TestBuildRoutePlan(t *testing.T) {
	a := testItem("A", 51.50, -0.10)
	b := testItem("B", 51.60, -0.10)
	c := testItem("C", 51.70, -0.10)

	t.Run("intermediate items are stopovers", func(t *testing.T) {
		plan, ok := BuildRoutePlan([]*itinerary.Item{a, b, c}, nil, "")
		require.True(t, ok)

		assert.Equal(t, itinerary.LatLng{Lat: 51.50, Lng: -0.10}, plan.Request.Origin)
		assert.Equal(t, itinerary.LatLng{Lat: 51.70, Lng: -0.10}, plan.Request.Destination)
		assert.Equal(t, []directions.Waypoint{
			{Location: itinerary.LatLng{Lat: 51.60, Lng: -0.10}, Stopover: true},
		}, plan.Request.Waypoints)
		assert.Equal(t, directions.TravelModeDriving, plan.Request.TravelMode)
		assert.False(t, plan.Request.OptimizeWaypoints)

		assert.Equal(t, []SegmentMapping{
			{Index: 0, StartItemID: "A", EndItemID: "B", WaypointStart: 0, WaypointCount: 0},
			{Index: 1, StartItemID: "B", EndItemID: "C", WaypointStart: 1, WaypointCount: 0},
		}, plan.Segments)
	})

	t.Run("custom waypoints are sorted via points", func(t *testing.T) {
		routes := NewRouteSet([]*itinerary.Route{
			{
				ID:                   "route-1",
				StartItineraryItemID: "A",
				EndItineraryItemID:   "B",
				Waypoints: []itinerary.Waypoint{
					{ID: "w2", Lat: 51.56, Lng: -0.2, Order: 1},
					{ID: "w1", Lat: 51.53, Lng: -0.2, Order: 0},
				},
			},
			{
				ID:                   "route-2",
				StartItineraryItemID: "B",
				EndItineraryItemID:   "C",
				Waypoints: []itinerary.Waypoint{
					{ID: "w3", Lat: 51.65, Lng: 0.0, Order: 0},
				},
			},
		})

		plan, ok := BuildRoutePlan([]*itinerary.Item{a, b, c}, routes, directions.TravelModeWalking)
		require.True(t, ok)

		assert.Equal(t, []directions.Waypoint{
			{Location: itinerary.LatLng{Lat: 51.53, Lng: -0.2}, Stopover: false},
			{Location: itinerary.LatLng{Lat: 51.56, Lng: -0.2}, Stopover: false},
			{Location: itinerary.LatLng{Lat: 51.60, Lng: -0.10}, Stopover: true},
			{Location: itinerary.LatLng{Lat: 51.65, Lng: 0.0}, Stopover: false},
		}, plan.Request.Waypoints)
		assert.Equal(t, directions.TravelModeWalking, plan.Request.TravelMode)

		assert.Equal(t, 0, plan.Segments[0].WaypointStart)
		assert.Equal(t, 2, plan.Segments[0].WaypointCount)
		assert.Equal(t, 3, plan.Segments[1].WaypointStart)
		assert.Equal(t, 1, plan.Segments[1].WaypointCount)
	})

	t.Run("routes of other segments are ignored", func(t *testing.T) {
		routes := NewRouteSet([]*itinerary.Route{
			{StartItineraryItemID: "A", EndItineraryItemID: "C", Waypoints: []itinerary.Waypoint{{ID: "w", Lat: 1, Lng: 1}}},
		})

		plan, ok := BuildRoutePlan([]*itinerary.Item{a, b, c}, routes, "")
		require.True(t, ok)
		assert.Len(t, plan.Request.Waypoints, 1)
	})

	t.Run("fewer than two items", func(t *testing.T) {
		_, ok := BuildRoutePlan([]*itinerary.Item{a}, nil, "")
		assert.False(t, ok)

		_, ok = BuildRoutePlan(nil, nil, "")
		assert.False(t, ok)
	})

	t.Run("interior items without coordinates are skipped", func(t *testing.T) {
		unplaced := &itinerary.Item{ID: "X"}

		plan, ok := BuildRoutePlan([]*itinerary.Item{a, unplaced, c}, nil, "")
		require.True(t, ok)
		assert.Empty(t, plan.Request.Waypoints)
		assert.Equal(t, []*itinerary.Item{a, c}, plan.Items)
		require.Len(t, plan.Segments, 1)
		assert.Equal(t, "A->C", plan.Segments[0].Key())
	})

	t.Run("no route when an end item has no coordinates", func(t *testing.T) {
		unplaced := &itinerary.Item{ID: "X", Place: &itinerary.Place{Title: "Somewhere"}}

		_, ok := BuildRoutePlan([]*itinerary.Item{unplaced, b, c}, nil, "")
		assert.False(t, ok)

		_, ok = BuildRoutePlan([]*itinerary.Item{a, b, unplaced}, nil, "")
		assert.False(t, ok)
	})
}

func TestCacheKey(t *testing.T) {
	a := testItem("A", 51.50, -0.10)
	b := testItem("B", 51.60, -0.10)
	c := testItem("C", 51.70, -0.10)

	routes := NewRouteSet([]*itinerary.Route{
		{StartItineraryItemID: "A", EndItineraryItemID: "B", Waypoints: []itinerary.Waypoint{{ID: "w1", Lat: 51.55, Lng: -0.2}}},
	})

	plan, ok := BuildRoutePlan([]*itinerary.Item{a, b, c}, routes, "")
	require.True(t, ok)

	assert.Equal(t, "A,B,C:(51.55, -0.2),false|(51.6, -0.1),true", plan.CacheKey())

	again, ok := BuildRoutePlan([]*itinerary.Item{a, b, c}, routes, "")
	require.True(t, ok)
	assert.Equal(t, plan.CacheKey(), again.CacheKey())

	reordered, ok := BuildRoutePlan([]*itinerary.Item{b, a, c}, routes, "")
	require.True(t, ok)
	assert.NotEqual(t, plan.CacheKey(), reordered.CacheKey())

	moved := NewRouteSet([]*itinerary.Route{
		{StartItineraryItemID: "A", EndItineraryItemID: "B", Waypoints: []itinerary.Waypoint{{ID: "w1", Lat: 51.56, Lng: -0.2}}},
	})
	changed, ok := BuildRoutePlan([]*itinerary.Item{a, b, c}, moved, "")
	require.True(t, ok)
	assert.NotEqual(t, plan.CacheKey(), changed.CacheKey())
}
