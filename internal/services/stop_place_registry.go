package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/hahehackathon/transit-backend/internal/models"
)

// ErrDataUnavailable is returned when the stop-place fixture is missing or
// malformed.
var ErrDataUnavailable = errors.New("stop place data unavailable")

// StopPlaceRegistry serves the static list of stop places. The backing file
// is read once on first use and cached; records are never mutated afterwards,
// so concurrent readers need no coordination beyond the load itself.
type StopPlaceRegistry struct {
	path string

	mu       sync.RWMutex
	stations []models.StationInfo
}

// NewStopPlaceRegistry creates a registry backed by the given JSON file
func NewStopPlaceRegistry(path string) *StopPlaceRegistry {
	return &StopPlaceRegistry{path: path}
}

// ListStations returns every stop place. Either the whole list loads or the
// call fails; there are no partial results.
func (r *StopPlaceRegistry) ListStations() ([]models.StationInfo, error) {
	r.mu.RLock()
	if r.stations != nil {
		defer r.mu.RUnlock()
		return r.stations, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stations != nil {
		return r.stations, nil
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	var stations []models.StationInfo
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	r.stations = stations
	return stations, nil
}
