package itinerary

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters matches the sphere used by the maps SDK for spherical distances
const EarthRadiusMeters = 6378137.0

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l LatLng) String() string {
	return fmt.Sprintf("(%g, %g)", l.Lat, l.Lng)
}

func (l LatLng) S2() s2.LatLng {
	return s2.LatLngFromDegrees(l.Lat, l.Lng)
}

// DistanceMeters returns the great-circle distance between two points
func (l LatLng) DistanceMeters(other LatLng) float64 {
	return l.S2().Distance(other.S2()).Radians() * EarthRadiusMeters
}

// Location is a GeoJSON point, coordinates are stored as [lng, lat]
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func NewLocation(point LatLng) *Location {
	return &Location{
		Type:        "Point",
		Coordinates: []float64{point.Lng, point.Lat},
	}
}

func (l *Location) LatLng() (LatLng, bool) {
	if l == nil || len(l.Coordinates) < 2 {
		return LatLng{}, false
	}

	return LatLng{Lat: l.Coordinates[1], Lng: l.Coordinates[0]}, true
}

func (l *Location) DistanceMeters(other *Location) (float64, bool) {
	a, ok := l.LatLng()
	if !ok {
		return 0, false
	}
	b, ok := other.LatLng()
	if !ok {
		return 0, false
	}

	return a.DistanceMeters(b), true
}
