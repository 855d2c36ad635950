package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PassengerCount holds checked-in passengers per category at one station.
type PassengerCount struct {
	Normal     int `json:"normal"`
	Wheelchair int `json:"wheelchair"`
	Elderly    int `json:"elderly"`
}

// StationUsage is one entry of the bus_info stations blob. The join key to
// the stop-place registry is the display name, not the EVA number.
type StationUsage struct {
	StationName       string         `json:"stationName"`
	EstimatedArrival  string         `json:"estimatedArrival"`
	CheckedPassengers PassengerCount `json:"checkedPassengers"`
}

// StationUsageList is a custom type for handling the stations JSONB column
type StationUsageList []StationUsage

// Value implements the driver.Valuer interface
func (l StationUsageList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StationUsageList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, l)
	case string:
		return json.Unmarshal([]byte(data), l)
	default:
		return fmt.Errorf("unsupported type %T for StationUsageList", src)
	}
}

// BusInfo mirrors the bus_info table. At most one row exists; the store
// enforces first-or-create seeding.
type BusInfo struct {
	ID            int              `json:"-" db:"id"`
	BusLine       string           `json:"busLine" db:"bus_line"`
	Route         string           `json:"route" db:"route"`
	TotalStations int              `json:"totalStations" db:"total_stations"`
	Stations      StationUsageList `json:"stations" db:"stations"`
}
