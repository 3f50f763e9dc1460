package directions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/travigo/tripplanner/pkg/itinerary"
)

type TravelMode string

//goland:noinspection GoUnusedConst
const (
	TravelModeDriving   TravelMode = "DRIVING"
	TravelModeWalking   TravelMode = "WALKING"
	TravelModeBicycling TravelMode = "BICYCLING"
	TravelModeTransit   TravelMode = "TRANSIT"
)

func ParseTravelMode(value string) (TravelMode, error) {
	switch mode := TravelMode(strings.ToUpper(value)); mode {
	case "":
		return TravelModeDriving, nil
	case TravelModeDriving, TravelModeWalking, TravelModeBicycling, TravelModeTransit:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown travel mode %q", value)
	}
}

// Waypoint is a point the path has to pass through. Stopovers split the
// route into legs, the others only shape the path.
type Waypoint struct {
	Location itinerary.LatLng `json:"location"`
	Stopover bool             `json:"stopover"`
}

type Request struct {
	Origin      itinerary.LatLng `json:"origin"`
	Destination itinerary.LatLng `json:"destination"`
	Waypoints   []Waypoint       `json:"waypoints"`

	TravelMode        TravelMode `json:"travelMode"`
	OptimizeWaypoints bool       `json:"optimizeWaypoints"`
}

// Fingerprint identifies the request for caching
func (r *Request) Fingerprint() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s:%.6f,%.6f:%.6f,%.6f", r.TravelMode,
		r.Origin.Lat, r.Origin.Lng, r.Destination.Lat, r.Destination.Lng)

	for _, waypoint := range r.Waypoints {
		fmt.Fprintf(&sb, "|%.6f,%.6f,%t", waypoint.Location.Lat, waypoint.Location.Lng, waypoint.Stopover)
	}

	if r.OptimizeWaypoints {
		sb.WriteString("|optimize")
	}

	return sb.String()
}

type Leg struct {
	StartLocation itinerary.LatLng   `json:"startLocation"`
	EndLocation   itinerary.LatLng   `json:"endLocation"`
	ViaWaypoints  []itinerary.LatLng `json:"viaWaypoints"`

	DistanceMeters  int `json:"distanceMeters"`
	DurationSeconds int `json:"durationSeconds"`

	Path []itinerary.LatLng `json:"path"`
}

type Result struct {
	Legs     []Leg              `json:"legs"`
	Polyline []itinerary.LatLng `json:"polyline"`
}

func (r *Result) DistanceMeters() int {
	total := 0
	for _, leg := range r.Legs {
		total += leg.DistanceMeters
	}

	return total
}

func (r *Result) DurationSeconds() int {
	total := 0
	for _, leg := range r.Legs {
		total += leg.DurationSeconds
	}

	return total
}

// Provider computes a single multi leg route for the whole request
type Provider interface {
	Route(ctx context.Context, request *Request) (*Result, error)
}

// ProviderFunc lets a plain function act as a Provider
type ProviderFunc func(ctx context.Context, request *Request) (*Result, error)

func (f ProviderFunc) Route(ctx context.Context, request *Request) (*Result, error) {
	return f(ctx, request)
}

var ErrNoRoute = errors.New("directions: no route returned")

// StatusError is returned when the provider answers with a non OK status
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("directions request failed: %s", e.Status)
	}

	return fmt.Sprintf("directions request failed: %s (%s)", e.Status, e.Message)
}
