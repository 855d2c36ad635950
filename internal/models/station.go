package models

// StationInfo represents a stop place from the static registry.
// The EVA number is the stable upstream identifier for a physical stop.
type StationInfo struct {
	EvaNumber string `json:"evaNumber"`
	Name      string `json:"name"`
}
