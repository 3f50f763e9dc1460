package directions

import (
	"context"
	"math"

	"github.com/travigo/tripplanner/pkg/itinerary"
)

var straightLineSpeeds = map[TravelMode]float64{
	TravelModeDriving:   13.9,
	TravelModeWalking:   1.4,
	TravelModeBicycling: 4.2,
	TravelModeTransit:   8.3,
}

// StraightLineProvider joins the points of a request with great-circle
// lines. It is used when no maps API key is configured.
type StraightLineProvider struct{}

func (StraightLineProvider) Route(ctx context.Context, request *Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	speed, ok := straightLineSpeeds[request.TravelMode]
	if !ok {
		speed = straightLineSpeeds[TravelModeDriving]
	}

	result := &Result{}
	leg := Leg{
		StartLocation: request.Origin,
		Path:          []itinerary.LatLng{request.Origin},
	}

	finish := func(end itinerary.LatLng) {
		leg.EndLocation = end
		leg.Path = append(leg.Path, end)

		distance := 0.0
		for i := 1; i < len(leg.Path); i++ {
			distance += leg.Path[i-1].DistanceMeters(leg.Path[i])
		}
		leg.DistanceMeters = int(math.Round(distance))
		leg.DurationSeconds = int(math.Round(distance / speed))

		if len(result.Polyline) == 0 {
			result.Polyline = append(result.Polyline, leg.Path...)
		} else {
			result.Polyline = append(result.Polyline, leg.Path[1:]...)
		}
		result.Legs = append(result.Legs, leg)

		leg = Leg{
			StartLocation: end,
			Path:          []itinerary.LatLng{end},
		}
	}

	for _, waypoint := range request.Waypoints {
		if waypoint.Stopover {
			finish(waypoint.Location)
			continue
		}

		leg.ViaWaypoints = append(leg.ViaWaypoints, waypoint.Location)
		leg.Path = append(leg.Path, waypoint.Location)
	}
	finish(request.Destination)

	return result, nil
}
