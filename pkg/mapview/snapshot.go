package mapview

import (
	"sort"
	"time"

	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
	"github.com/travigo/tripplanner/pkg/routesync"
)

type Toast struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Error   string    `json:"error,omitempty"`
	Time    time.Time `json:"time"`
}

type LegSnapshot struct {
	StartLocation   itinerary.LatLng   `json:"startLocation"`
	EndLocation     itinerary.LatLng   `json:"endLocation"`
	ViaWaypoints    []itinerary.LatLng `json:"viaWaypoints"`
	DistanceMeters  int                `json:"distanceMeters"`
	DurationSeconds int                `json:"durationSeconds"`
}

type PathSnapshot struct {
	Style           routesync.PathStyle `json:"style"`
	Polyline        string              `json:"polyline"`
	Legs            []LegSnapshot       `json:"legs"`
	DistanceMeters  int                 `json:"distanceMeters"`
	DurationSeconds int                 `json:"durationSeconds"`
}

type MarkerSnapshot struct {
	ID       string                  `json:"id"`
	Position itinerary.LatLng        `json:"position"`
	Options  routesync.MarkerOptions `json:"options"`
}

type ConnectorSnapshot struct {
	ID    string                   `json:"id"`
	From  itinerary.LatLng         `json:"from"`
	To    itinerary.LatLng         `json:"to"`
	Style routesync.ConnectorStyle `json:"style"`
}

// Snapshot is everything currently drawn on the view
type Snapshot struct {
	Ready      bool                `json:"ready"`
	Path       *PathSnapshot       `json:"path"`
	Markers    []MarkerSnapshot    `json:"markers"`
	Connectors []ConnectorSnapshot `json:"connectors"`
	Toasts     []Toast             `json:"toasts"`
}

func (v *View) Snapshot() *Snapshot {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	snapshot := &Snapshot{
		Ready:      v.ready,
		Markers:    []MarkerSnapshot{},
		Connectors: []ConnectorSnapshot{},
		Toasts:     append([]Toast{}, v.toasts...),
	}

	if v.path != nil {
		snapshot.Path = pathSnapshot(v.path)
	}

	markers := make([]*marker, 0, len(v.markers))
	for _, m := range v.markers {
		markers = append(markers, m)
	}
	sort.Slice(markers, func(i, j int) bool { return markers[i].seq < markers[j].seq })
	for _, m := range markers {
		snapshot.Markers = append(snapshot.Markers, MarkerSnapshot{
			ID:       m.id,
			Position: m.position,
			Options:  m.options,
		})
	}

	connectors := make([]*connector, 0, len(v.connectors))
	for _, c := range v.connectors {
		connectors = append(connectors, c)
	}
	sort.Slice(connectors, func(i, j int) bool { return connectors[i].seq < connectors[j].seq })
	for _, c := range connectors {
		snapshot.Connectors = append(snapshot.Connectors, ConnectorSnapshot{
			ID:    c.id,
			From:  c.from,
			To:    c.to,
			Style: c.style,
		})
	}

	return snapshot
}

func pathSnapshot(path *renderedPath) *PathSnapshot {
	result := path.result

	points := result.Polyline
	if len(points) == 0 {
		for i, leg := range result.Legs {
			if i > 0 && len(leg.Path) > 0 {
				points = append(points, leg.Path[1:]...)
				continue
			}
			points = append(points, leg.Path...)
		}
	}

	snapshot := &PathSnapshot{
		Style:           path.style,
		Polyline:        directions.EncodePolyline(points),
		Legs:            make([]LegSnapshot, 0, len(result.Legs)),
		DistanceMeters:  result.DistanceMeters(),
		DurationSeconds: result.DurationSeconds(),
	}

	for _, leg := range result.Legs {
		via := leg.ViaWaypoints
		if via == nil {
			via = []itinerary.LatLng{}
		}

		snapshot.Legs = append(snapshot.Legs, LegSnapshot{
			StartLocation:   leg.StartLocation,
			EndLocation:     leg.EndLocation,
			ViaWaypoints:    via,
			DistanceMeters:  leg.DistanceMeters,
			DurationSeconds: leg.DurationSeconds,
		})
	}

	return snapshot
}
