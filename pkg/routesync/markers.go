package routesync

import (
	"github.com/travigo/tripplanner/pkg/itinerary"
)

// resetMarkers throws away the local waypoint state and rebuilds it, with
// markers, from the server routes of the routed segments
func (s *Synchronizer) resetMarkers(segments []SegmentMapping, routes RouteSet) {
	s.store.Reset()

	for _, segment := range segments {
		state := newSegmentState(segment.StartItemID, segment.EndItemID, routes.SegmentWaypoints(segment.StartItemID, segment.EndItemID))
		s.store.Put(state)
		s.placeSegmentMarkers(state)
	}
}

func (s *Synchronizer) placeSegmentMarkers(state *SegmentState) {
	state.clearMarkers()

	if !s.surface.Ready() {
		return
	}

	for _, waypoint := range state.Waypoints {
		segmentKey := state.Key()
		waypointID := waypoint.ID

		marker, err := s.surface.PlaceMarker(waypoint.LatLng(), waypointMarkerOptions(), MarkerEvents{
			OnDragStart: s.handleDragStart,
			OnDragEnd: func(position itinerary.LatLng) {
				s.handleDragEnd(segmentKey, waypointID, position)
			},
			OnDoubleClick: func() {
				s.handleDelete(segmentKey, waypointID)
			},
		})
		if err != nil {
			s.logger.Debug().Err(err).Str("segment", segmentKey).Msg("Could not place waypoint marker")
			continue
		}

		state.markers[waypointID] = marker
	}
}

func (s *Synchronizer) handleDragStart() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.guard.dragging = true
}

func (s *Synchronizer) handleDragEnd(segmentKey string, waypointID string, position itinerary.LatLng) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.guard.dragging = false
	if s.closed {
		return
	}

	state := s.store.GetByKey(segmentKey)
	if state == nil || !state.MoveWaypoint(waypointID, position) {
		return
	}

	s.logger.Debug().Str("segment", segmentKey).Str("waypoint", waypointID).Stringer("position", position).Msg("Waypoint moved")

	token := s.guard.begin()
	update := state.Upsert()
	s.waitGroup.Go(func() {
		s.afterLocalEdit(token, update)
	})
}

func (s *Synchronizer) handleDelete(segmentKey string, waypointID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return
	}

	state := s.store.GetByKey(segmentKey)
	if state == nil || !state.RemoveWaypoint(waypointID) {
		return
	}

	s.logger.Debug().Str("segment", segmentKey).Str("waypoint", waypointID).Msg("Waypoint deleted")

	token := s.guard.begin()
	update := state.Upsert()
	s.waitGroup.Go(func() {
		s.afterLocalEdit(token, update)
	})
}

// afterLocalEdit redraws the path from the local waypoints, saves the segment
// and asks the owner to refresh once the save landed
func (s *Synchronizer) afterLocalEdit(token uint64, update itinerary.RouteUpsert) {
	s.recomputeLocal(token)
	s.persist(update, false)
}

func (s *Synchronizer) persist(update itinerary.RouteUpsert, confirm bool) {
	if !s.gateway.Save(s.ctx, update, confirm) {
		return
	}

	if s.onRoutesChanged == nil || s.isClosed() {
		return
	}
	s.onRoutesChanged()
}
