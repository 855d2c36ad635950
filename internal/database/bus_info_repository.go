package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/hahehackathon/transit-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrBusInfoNotFound is returned when no bus info row exists yet.
	ErrBusInfoNotFound = errors.New("bus info not found")

	// ErrStationNotFound is returned when no station usage matches the
	// requested station name.
	ErrStationNotFound = errors.New("no matching station in bus info")
)

const busInfoColumns = `id, bus_line, route, total_stations, stations`

const busInfoSchema = `
	CREATE TABLE IF NOT EXISTS bus_info (
		id SERIAL PRIMARY KEY,
		bus_line TEXT NOT NULL,
		route TEXT NOT NULL,
		total_stations INTEGER NOT NULL,
		stations JSONB NOT NULL
	)`

// BusInfoRepository handles database operations for the bus info row
type BusInfoRepository struct {
	db *sqlx.DB
}

// NewBusInfoRepository creates a new bus info repository
func NewBusInfoRepository(db *sqlx.DB) *BusInfoRepository {
	return &BusInfoRepository{db: db}
}

// EnsureSchema creates the bus_info table if it does not exist
func (r *BusInfoRepository) EnsureSchema() error {
	if _, err := r.db.Exec(busInfoSchema); err != nil {
		return fmt.Errorf("failed to ensure bus_info schema: %w", err)
	}
	return nil
}

// Get retrieves the single bus info row
func (r *BusInfoRepository) Get() (*models.BusInfo, error) {
	var info models.BusInfo
	query := `SELECT ` + busInfoColumns + ` FROM bus_info ORDER BY id LIMIT 1`

	if err := r.db.Get(&info, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBusInfoNotFound
		}
		return nil, fmt.Errorf("failed to get bus info: %w", err)
	}

	return &info, nil
}

// FirstOrCreate persists info unless a row already exists, in which case the
// existing row is returned and nothing is written. Seeding twice is a no-op.
func (r *BusInfoRepository) FirstOrCreate(info *models.BusInfo) (*models.BusInfo, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing models.BusInfo
	err = tx.Get(&existing, `SELECT `+busInfoColumns+` FROM bus_info ORDER BY id LIMIT 1`)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing bus info: %w", err)
	}

	query := `
		INSERT INTO bus_info (bus_line, route, total_stations, stations)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int
	err = tx.QueryRowx(query, info.BusLine, info.Route, info.TotalStations, info.Stations).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create bus info: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bus info: %w", err)
	}

	info.ID = id
	return info, nil
}

// UpdatePassengerCount replaces checkedPassengers of the first station usage
// matching stationName (exact, case-sensitive) and writes the whole stations
// blob back. The row is locked for the duration of the read-modify-write so
// concurrent updates for different stations cannot overwrite each other.
func (r *BusInfoRepository) UpdatePassengerCount(stationName string, counts models.PassengerCount) (*models.BusInfo, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var info models.BusInfo
	err = tx.Get(&info, `SELECT `+busInfoColumns+` FROM bus_info ORDER BY id LIMIT 1 FOR UPDATE`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBusInfoNotFound
		}
		return nil, fmt.Errorf("failed to get bus info: %w", err)
	}

	matched := false
	for i := range info.Stations {
		if info.Stations[i].StationName == stationName {
			info.Stations[i].CheckedPassengers = counts
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrStationNotFound
	}

	if _, err := tx.Exec(`UPDATE bus_info SET stations = $1 WHERE id = $2`, info.Stations, info.ID); err != nil {
		return nil, fmt.Errorf("failed to update passenger counts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit passenger counts: %w", err)
	}

	return &info, nil
}
