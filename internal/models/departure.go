package models

// DepartureFeed mirrors the departure_info.json fixture produced from the
// upstream board API.
type DepartureFeed struct {
	Departures []Departure `json:"departures"`
}

// Departure is a single entry of the departure feed. Only the fields the
// reconciler and the seeder touch are mapped.
type Departure struct {
	Station      StationInfo `json:"station"`
	TimeSchedule string      `json:"timeSchedule"`
	Transport    Transport   `json:"transport"`
}

// Transport carries the via stops of a departure's route in order.
type Transport struct {
	Via []StationInfo `json:"via"`
}
