package itinerary

import (
	"cmp"

	"golang.org/x/exp/slices"
)

type Day struct {
	ID     string `json:"id"`
	PlanID string `json:"planId"`
	Order  int    `json:"order"`
	Title  string `json:"title"`

	Items []*Item `json:"itineraryItems"`
}

func (d *Day) SortedItems() []*Item {
	return SortItems(d.Items, false)
}

type Plan struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`

	ItineraryDays []*Day `json:"itineraryDays"`
}

func (p *Plan) FindDay(dayID string) *Day {
	for _, day := range p.ItineraryDays {
		if day.ID == dayID {
			return day
		}
	}

	return nil
}

func SortDays(days []*Day) []*Day {
	sorted := slices.Clone(days)
	slices.SortStableFunc(sorted, func(a, b *Day) int {
		return cmp.Compare(a.Order, b.Order)
	})

	return sorted
}

// Connector is the day boundary segment between the last stop of one day and
// the first stop of the next
type Connector struct {
	FromDay *Day
	ToDay   *Day

	Start *Item
	End   *Item
}

func (c Connector) Key() string {
	return SegmentKey(c.Start.ID, c.End.ID)
}

func (c Connector) Items() []*Item {
	return []*Item{c.Start, c.End}
}

// DayConnectors pairs the last item of each day with the first item of the
// following non-empty day. Pairs that stay at the same place (eg. the same
// hotel overnight) have nothing to route and are left out.
func DayConnectors(days []*Day) []Connector {
	var connectors []Connector
	var previous *Day
	var previousItems []*Item

	for _, day := range SortDays(days) {
		items := day.SortedItems()
		if len(items) == 0 {
			continue
		}

		if previous != nil {
			start := previousItems[len(previousItems)-1]
			end := items[0]

			if !start.SamePlace(end) {
				connectors = append(connectors, Connector{
					FromDay: previous,
					ToDay:   day,
					Start:   start,
					End:     end,
				})
			}
		}

		previous = day
		previousItems = items
	}

	return connectors
}
