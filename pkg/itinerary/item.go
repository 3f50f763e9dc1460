package itinerary

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Item is a single stop within an itinerary day
type Item struct {
	ID             string `json:"id"`
	ItineraryDayID string `json:"itineraryDayId"`

	Place *Place `json:"place"`

	// Time of day, HH:mm or HH:mm:ss
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (i *Item) Coordinates() (LatLng, bool) {
	if i == nil || i.Place == nil {
		return LatLng{}, false
	}

	return i.Place.Location.LatLng()
}

func (i *Item) SamePlace(other *Item) bool {
	if i == nil || other == nil || i.Place == nil || other.Place == nil {
		return false
	}
	if i.Place.PlaceID == "" || other.Place.PlaceID == "" {
		return false
	}

	return i.Place.PlaceID == other.Place.PlaceID
}

// SortItems returns a copy of the items in display order.
// Unless preserveOrder is set the items are ordered by start time, items with
// the same (or no) start time keep their insertion order.
func SortItems(items []*Item, preserveOrder bool) []*Item {
	sorted := slices.Clone(items)
	if preserveOrder {
		return sorted
	}

	slices.SortStableFunc(sorted, func(a, b *Item) int {
		return strings.Compare(a.StartTime, b.StartTime)
	})

	return sorted
}

// RoutableItems drops the items that have no coordinates
func RoutableItems(items []*Item) []*Item {
	routable := make([]*Item, 0, len(items))
	for _, item := range items {
		if _, ok := item.Coordinates(); ok {
			routable = append(routable, item)
		}
	}

	return routable
}

func ItemIDs(items []*Item) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	return ids
}
