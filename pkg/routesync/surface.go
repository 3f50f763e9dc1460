package routesync

import (
	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
)

// Handle is anything drawn on the surface that has to be released again
type Handle interface {
	Remove()
}

type PathStyle struct {
	Color     string  `json:"color"`
	Opacity   float64 `json:"opacity"`
	Weight    int     `json:"weight"`
	Draggable bool    `json:"draggable"`
}

type MarkerOptions struct {
	Draggable   bool   `json:"draggable"`
	Title       string `json:"title"`
	FillColor   string `json:"fillColor"`
	StrokeColor string `json:"strokeColor"`
}

type MarkerEvents struct {
	OnDragStart   func()
	OnDragEnd     func(position itinerary.LatLng)
	OnDoubleClick func()
}

type ConnectorStyle struct {
	Color    string  `json:"color"`
	Opacity  float64 `json:"opacity"`
	Weight   int     `json:"weight"`
	Geodesic bool    `json:"geodesic"`
}

// Surface is the map the synchroniser renders onto.
//
// Implementations must deliver onEdited and marker events asynchronously,
// never from inside one of the Surface methods themselves.
type Surface interface {
	Ready() bool

	RenderPath(result *directions.Result, style PathStyle, onEdited func(*directions.Result)) (Handle, error)
	PlaceMarker(position itinerary.LatLng, options MarkerOptions, events MarkerEvents) (Handle, error)
	DrawConnector(from itinerary.LatLng, to itinerary.LatLng, style ConnectorStyle) (Handle, error)
}

func defaultPathStyle(color string) PathStyle {
	return PathStyle{
		Color:     color,
		Opacity:   0.8,
		Weight:    5,
		Draggable: true,
	}
}

func waypointMarkerOptions() MarkerOptions {
	return MarkerOptions{
		Draggable:   true,
		Title:       "Drag to move, double-click to delete",
		FillColor:   "#ffffff",
		StrokeColor: "#000000",
	}
}

func connectorStyle(color string) ConnectorStyle {
	return ConnectorStyle{
		Color:    color,
		Opacity:  0.5,
		Weight:   2,
		Geodesic: true,
	}
}
