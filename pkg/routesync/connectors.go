package routesync

import (
	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
)

// DeviationThresholdMeters is how far an item may be from the path before it
// gets a connector
const DeviationThresholdMeters = 10.0

type Deviation struct {
	Item           *itinerary.Item
	Stop           itinerary.LatLng
	PathPoint      itinerary.LatLng
	DistanceMeters float64
}

// Deviations lists the items whose coordinates are more than threshold meters
// away from where the path starts, stops or ends for them
func Deviations(items []*itinerary.Item, result *directions.Result, threshold float64) []Deviation {
	if result == nil || len(result.Legs) == 0 {
		return nil
	}

	legs := result.Legs
	var deviations []Deviation

	for i, item := range items {
		stop, ok := item.Coordinates()
		if !ok {
			continue
		}

		var point itinerary.LatLng
		switch {
		case i == 0:
			point = legs[0].StartLocation
		case i == len(items)-1:
			point = legs[len(legs)-1].EndLocation
		case i-1 < len(legs):
			point = legs[i-1].EndLocation
		default:
			continue
		}

		distance := stop.DistanceMeters(point)
		if distance > threshold {
			deviations = append(deviations, Deviation{
				Item:           item,
				Stop:           stop,
				PathPoint:      point,
				DistanceMeters: distance,
			})
		}
	}

	return deviations
}

func (s *Synchronizer) clearConnectors() {
	for _, connector := range s.connectors {
		connector.Remove()
	}
	s.connectors = nil
}

func (s *Synchronizer) drawConnectors(items []*itinerary.Item, result *directions.Result) {
	s.clearConnectors()

	for _, deviation := range Deviations(items, result, DeviationThresholdMeters) {
		connector, err := s.surface.DrawConnector(deviation.Stop, deviation.PathPoint, connectorStyle(s.color))
		if err != nil {
			s.logger.Debug().Err(err).Str("item", deviation.Item.ID).Msg("Could not draw connector")
			continue
		}

		s.connectors = append(s.connectors, connector)
	}
}
