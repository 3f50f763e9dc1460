package mapview

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
	"github.com/travigo/tripplanner/pkg/routesync"
)

func testResult() *directions.Result {
	a := itinerary.LatLng{Lat: 51.5, Lng: -0.1}
	b := itinerary.LatLng{Lat: 51.6, Lng: -0.1}
	c := itinerary.LatLng{Lat: 51.7, Lng: -0.1}

	return &directions.Result{
		Legs: []directions.Leg{
			{StartLocation: a, EndLocation: b, Path: []itinerary.LatLng{a, b}, DistanceMeters: 100, DurationSeconds: 10},
			{StartLocation: b, EndLocation: c, Path: []itinerary.LatLng{b, c}, DistanceMeters: 200, DurationSeconds: 20},
		},
	}
}

func TestViewRenderPath(t *testing.T) {
	view := New()

	handle, err := view.RenderPath(testResult(), routesync.PathStyle{Color: "#FF0000"}, nil)
	require.NoError(t, err)

	snapshot := view.Snapshot()
	require.NotNil(t, snapshot.Path)
	assert.Equal(t, "#FF0000", snapshot.Path.Style.Color)
	assert.Len(t, snapshot.Path.Legs, 2)
	assert.Equal(t, 300, snapshot.Path.DistanceMeters)
	assert.Equal(t, 30, snapshot.Path.DurationSeconds)
	assert.Equal(t, directions.EncodePolyline([]itinerary.LatLng{
		{Lat: 51.5, Lng: -0.1}, {Lat: 51.6, Lng: -0.1}, {Lat: 51.7, Lng: -0.1},
	}), snapshot.Path.Polyline)

	handle.Remove()
	assert.Nil(t, view.Snapshot().Path)
}

func TestViewRemovingReplacedPathKeepsCurrent(t *testing.T) {
	view := New()

	first, err := view.RenderPath(testResult(), routesync.PathStyle{Color: "#111111"}, nil)
	require.NoError(t, err)
	_, err = view.RenderPath(testResult(), routesync.PathStyle{Color: "#222222"}, nil)
	require.NoError(t, err)

	first.Remove()

	snapshot := view.Snapshot()
	require.NotNil(t, snapshot.Path)
	assert.Equal(t, "#222222", snapshot.Path.Style.Color)
}

func TestViewNotReady(t *testing.T) {
	view := New()
	view.SetReady(false)

	_, err := view.RenderPath(testResult(), routesync.PathStyle{}, nil)
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = view.PlaceMarker(itinerary.LatLng{}, routesync.MarkerOptions{}, routesync.MarkerEvents{})
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = view.DrawConnector(itinerary.LatLng{}, itinerary.LatLng{}, routesync.ConnectorStyle{})
	assert.ErrorIs(t, err, ErrNotReady)

	assert.False(t, view.Snapshot().Ready)
}

func TestViewMarkerGestures(t *testing.T) {
	view := New()

	var calls []string
	var dropped itinerary.LatLng

	_, err := view.PlaceMarker(itinerary.LatLng{Lat: 1, Lng: 1}, routesync.MarkerOptions{Draggable: true}, routesync.MarkerEvents{
		OnDragStart: func() { calls = append(calls, "start") },
		OnDragEnd: func(position itinerary.LatLng) {
			calls = append(calls, "end")
			dropped = position
		},
		OnDoubleClick: func() { calls = append(calls, "dblclick") },
	})
	require.NoError(t, err)

	ids := view.MarkerIDs()
	require.Len(t, ids, 1)

	require.NoError(t, view.DragMarker(ids[0], itinerary.LatLng{Lat: 2, Lng: 3}))
	require.NoError(t, view.DoubleClickMarker(ids[0]))

	assert.Equal(t, []string{"start", "end", "dblclick"}, calls)
	assert.Equal(t, itinerary.LatLng{Lat: 2, Lng: 3}, dropped)
	assert.Equal(t, itinerary.LatLng{Lat: 2, Lng: 3}, view.Snapshot().Markers[0].Position)

	assert.ErrorIs(t, view.DragMarker("marker-missing", itinerary.LatLng{}), ErrMarkerNotFound)
	assert.ErrorIs(t, view.DoubleClickMarker("marker-missing"), ErrMarkerNotFound)
}

func TestViewMarkerNotDraggable(t *testing.T) {
	view := New()

	handle, err := view.PlaceMarker(itinerary.LatLng{}, routesync.MarkerOptions{}, routesync.MarkerEvents{})
	require.NoError(t, err)

	ids := view.MarkerIDs()
	require.Len(t, ids, 1)
	assert.Error(t, view.DragMarker(ids[0], itinerary.LatLng{Lat: 1}))

	handle.Remove()
	assert.Empty(t, view.MarkerIDs())
}

func TestViewEditPath(t *testing.T) {
	view := New()

	var edited *directions.Result
	_, err := view.RenderPath(testResult(), routesync.PathStyle{}, func(result *directions.Result) {
		edited = result
	})
	require.NoError(t, err)

	via := itinerary.LatLng{Lat: 51.55, Lng: -0.2}
	require.NoError(t, view.EditPath([][]itinerary.LatLng{{via}}))

	require.NotNil(t, edited)
	assert.Equal(t, []itinerary.LatLng{via}, edited.Legs[0].ViaWaypoints)
	assert.Empty(t, edited.Legs[1].ViaWaypoints)

	snapshot := view.Snapshot()
	assert.Equal(t, []itinerary.LatLng{via}, snapshot.Path.Legs[0].ViaWaypoints)

	assert.Error(t, view.EditPath(make([][]itinerary.LatLng, 3)))
}

func TestViewEditPathWithoutPath(t *testing.T) {
	view := New()

	assert.ErrorIs(t, view.EditPath(nil), ErrNoPath)
}

func TestViewToasts(t *testing.T) {
	view := New()

	view.Success("Waypoints Saved")
	view.Failure("Failed to save waypoints", errors.New("boom"))

	toasts := view.Snapshot().Toasts
	require.Len(t, toasts, 2)
	assert.Equal(t, "success", toasts[0].Level)
	assert.Equal(t, "error", toasts[1].Level)
	assert.Equal(t, "boom", toasts[1].Error)

	for i := 0; i < maxToasts+5; i++ {
		view.Success("again")
	}
	assert.Len(t, view.Snapshot().Toasts, maxToasts)
}

func TestSnapshotJSON(t *testing.T) {
	view := New()

	_, err := view.DrawConnector(itinerary.LatLng{Lat: 1}, itinerary.LatLng{Lat: 2}, routesync.ConnectorStyle{Color: "#00FF00"})
	require.NoError(t, err)

	encoded, err := json.Marshal(view.Snapshot())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	assert.Nil(t, decoded["path"])
	assert.Len(t, decoded["connectors"], 1)
	assert.Len(t, decoded["markers"], 0)
}
