package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/tripplanner/pkg/itinerary"
	"github.com/twpayne/go-polyline"
)

const DefaultGoogleEndpoint = "https://maps.googleapis.com/maps/api/directions/json"

// GoogleProvider calls the Google Directions web service
type GoogleProvider struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

func NewGoogleProvider(apiKey string) *GoogleProvider {
	return &GoogleProvider{
		APIKey:   apiKey,
		Endpoint: DefaultGoogleEndpoint,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (g *GoogleProvider) Route(ctx context.Context, request *Request) (*Result, error) {
	requestURL := g.Endpoint + "?" + g.query(request).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := g.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read directions response: %w", err)
	}

	var response googleResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	if response.Status != "OK" {
		return nil, &StatusError{Status: response.Status, Message: response.ErrorMessage}
	}
	if len(response.Routes) == 0 {
		return nil, ErrNoRoute
	}

	result, err := response.Routes[0].toResult()
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("legs", len(result.Legs)).
		Int("waypoints", len(request.Waypoints)).
		Msg("Google directions computed")

	return result, nil
}

func (g *GoogleProvider) query(request *Request) url.Values {
	query := url.Values{}
	query.Set("origin", formatLatLng(request.Origin))
	query.Set("destination", formatLatLng(request.Destination))
	query.Set("mode", strings.ToLower(string(request.TravelMode)))
	if request.TravelMode == "" {
		query.Set("mode", "driving")
	}

	if len(request.Waypoints) > 0 {
		parts := []string{fmt.Sprintf("optimize:%t", request.OptimizeWaypoints)}
		for _, waypoint := range request.Waypoints {
			if waypoint.Stopover {
				parts = append(parts, formatLatLng(waypoint.Location))
			} else {
				parts = append(parts, "via:"+formatLatLng(waypoint.Location))
			}
		}
		query.Set("waypoints", strings.Join(parts, "|"))
	}

	if g.APIKey != "" {
		query.Set("key", g.APIKey)
	}

	return query
}

func formatLatLng(point itinerary.LatLng) string {
	return fmt.Sprintf("%.6f,%.6f", point.Lat, point.Lng)
}

type googleResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Routes       []googleRoute `json:"routes"`
}

type googleRoute struct {
	OverviewPolyline googlePolyline `json:"overview_polyline"`
	Legs             []googleLeg    `json:"legs"`
}

type googleLeg struct {
	StartLocation itinerary.LatLng  `json:"start_location"`
	EndLocation   itinerary.LatLng  `json:"end_location"`
	Distance      googleValue       `json:"distance"`
	Duration      googleValue       `json:"duration"`
	ViaWaypoint   []googleViaPoint  `json:"via_waypoint"`
	Steps         []googleRouteStep `json:"steps"`
}

type googleValue struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

type googleViaPoint struct {
	Location          itinerary.LatLng `json:"location"`
	StepIndex         int              `json:"step_index"`
	StepInterpolation float64          `json:"step_interpolation"`
}

type googleRouteStep struct {
	Polyline googlePolyline `json:"polyline"`
}

type googlePolyline struct {
	Points string `json:"points"`
}

func (r googleRoute) toResult() (*Result, error) {
	result := &Result{}

	overview, err := decodePolyline(r.OverviewPolyline.Points)
	if err != nil {
		return nil, fmt.Errorf("decode overview polyline: %w", err)
	}
	result.Polyline = overview

	for _, googleLeg := range r.Legs {
		leg := Leg{
			StartLocation:   googleLeg.StartLocation,
			EndLocation:     googleLeg.EndLocation,
			DistanceMeters:  googleLeg.Distance.Value,
			DurationSeconds: googleLeg.Duration.Value,
		}

		for _, via := range googleLeg.ViaWaypoint {
			leg.ViaWaypoints = append(leg.ViaWaypoints, via.Location)
		}

		for _, step := range googleLeg.Steps {
			points, err := decodePolyline(step.Polyline.Points)
			if err != nil {
				return nil, fmt.Errorf("decode step polyline: %w", err)
			}
			leg.Path = append(leg.Path, points...)
		}

		result.Legs = append(result.Legs, leg)
	}

	return result, nil
}

func decodePolyline(encoded string) ([]itinerary.LatLng, error) {
	if encoded == "" {
		return nil, nil
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}

	points := make([]itinerary.LatLng, 0, len(coords))
	for _, coord := range coords {
		points = append(points, itinerary.LatLng{Lat: coord[0], Lng: coord[1]})
	}

	return points, nil
}

// EncodePolyline is the inverse of the provider's polyline decoding
func EncodePolyline(points []itinerary.LatLng) string {
	coords := make([][]float64, 0, len(points))
	for _, point := range points {
		coords = append(coords, []float64{point.Lat, point.Lng})
	}

	return string(polyline.EncodeCoords(coords))
}
