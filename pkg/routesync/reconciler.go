package routesync

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/travigo/tripplanner/pkg/directions"
	"github.com/travigo/tripplanner/pkg/itinerary"
)

// changeGuard decides whether a path edited notification came from the user.
// Every change the synchroniser makes itself is issued a token and the guard
// stays up while any token is still outstanding. Notifications that only echo
// the last applied result are recognised by their via point fingerprint.
type changeGuard struct {
	dragging bool

	issued  uint64
	pending map[uint64]struct{}

	echo string
}

func (g *changeGuard) begin() uint64 {
	if g.pending == nil {
		g.pending = map[uint64]struct{}{}
	}

	g.issued++
	g.pending[g.issued] = struct{}{}
	return g.issued
}

func (g *changeGuard) settle(token uint64) {
	delete(g.pending, token)
}

func (g *changeGuard) suppressed() bool {
	return g.dragging || len(g.pending) > 0
}

func viaFingerprint(result *directions.Result) string {
	if result == nil {
		return ""
	}

	var sb strings.Builder
	for i, leg := range result.Legs {
		if i > 0 {
			sb.WriteString("/")
		}
		for j, via := range leg.ViaWaypoints {
			if j > 0 {
				sb.WriteString("|")
			}
			fmt.Fprintf(&sb, "%.6f,%.6f", via.Lat, via.Lng)
		}
	}

	return sb.String()
}

// handlePathEdited reconciles the waypoints of every segment whose leg gained
// or lost via points when the user reshaped the rendered path
func (s *Synchronizer) handlePathEdited(generation uint64, result *directions.Result) {
	if result == nil {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed || generation != s.pathGeneration {
		return
	}

	if s.guard.suppressed() {
		s.logger.Debug().
			Bool("dragging", s.guard.dragging).
			Uint64("issued", s.guard.issued).
			Int("pending", len(s.guard.pending)).
			Msg("Ignoring path change while a programmatic change is in flight")
		return
	}

	fingerprint := viaFingerprint(result)
	if fingerprint == s.guard.echo {
		return
	}
	s.guard.echo = fingerprint

	changed := false

	for legIndex, leg := range result.Legs {
		if legIndex >= len(s.segments) {
			break
		}
		segment := s.segments[legIndex]

		state := s.store.Get(segment.StartItemID, segment.EndItemID)
		current := 0
		if state != nil {
			current = len(state.Waypoints)
		}

		if len(leg.ViaWaypoints) == current {
			continue
		}

		waypoints := make([]itinerary.Waypoint, 0, len(leg.ViaWaypoints))
		for idx, via := range leg.ViaWaypoints {
			waypoints = append(waypoints, itinerary.Waypoint{
				ID:    fmt.Sprintf("temp-%s", uuid.NewString()),
				Lat:   via.Lat,
				Lng:   via.Lng,
				Order: idx,
			})
		}

		replacement := newSegmentState(segment.StartItemID, segment.EndItemID, waypoints)
		s.store.Put(replacement)
		s.placeSegmentMarkers(replacement)

		s.logger.Info().
			Str("segment", segment.Key()).
			Int("previous", current).
			Int("waypoints", len(waypoints)).
			Msg("Waypoints changed on the map")

		update := replacement.Upsert()
		s.waitGroup.Go(func() {
			s.persist(update, true)
		})

		changed = true
	}

	if changed {
		// the rendered path already reflects the new waypoints
		if plan, ok := BuildRoutePlan(s.routedItems, s.store, s.travelMode); ok {
			s.lastKey = plan.CacheKey()
			s.renderedKey = s.lastKey
		}
	}
}
