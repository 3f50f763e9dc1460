package itinerary

type Place struct {
	ID       string `json:"id"`
	PlaceID  string `json:"placeId"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Address  string `json:"address"`

	Location *Location `json:"location"`
}
