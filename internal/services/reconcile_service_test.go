package services

import (
	"testing"

	"github.com/hahehackathon/transit-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileStationNames(t *testing.T) {
	registry := []models.StationInfo{
		{EvaNumber: "8002549", Name: "Hamburg Hbf"},
		{EvaNumber: "8002553", Name: "Hamburg-Altona"},
	}

	t.Run("Backfills Name From Registry", func(t *testing.T) {
		feed := []models.Departure{
			{Station: models.StationInfo{EvaNumber: "8002549", Name: "UNKNOWN"}},
		}

		reconciled := ReconcileStationNames(feed, registry)
		require.Len(t, reconciled, 1)
		assert.Equal(t, "Hamburg Hbf", reconciled[0].Station.Name)
		assert.Equal(t, "8002549", reconciled[0].Station.EvaNumber)
	})

	t.Run("Unmatched Record Passes Through", func(t *testing.T) {
		feed := []models.Departure{
			{Station: models.StationInfo{EvaNumber: "9999999", Name: "Somewhere"}},
		}

		reconciled := ReconcileStationNames(feed, registry)
		require.Len(t, reconciled, 1)
		assert.Equal(t, "Somewhere", reconciled[0].Station.Name)
		assert.Equal(t, "9999999", reconciled[0].Station.EvaNumber)
	})

	t.Run("Idempotent", func(t *testing.T) {
		feed := []models.Departure{
			{Station: models.StationInfo{EvaNumber: "8002549", Name: "UNKNOWN"}},
			{Station: models.StationInfo{EvaNumber: "8002553", Name: "Hamburg-Altona"}},
			{Station: models.StationInfo{EvaNumber: "0000001", Name: "Keep Me"}},
		}

		once := ReconcileStationNames(feed, registry)
		twice := ReconcileStationNames(once, registry)
		assert.Equal(t, once, twice)
	})

	t.Run("Input Not Mutated", func(t *testing.T) {
		feed := []models.Departure{
			{Station: models.StationInfo{EvaNumber: "8002549", Name: "UNKNOWN"}},
		}

		_ = ReconcileStationNames(feed, registry)
		assert.Equal(t, "UNKNOWN", feed[0].Station.Name)
	})

	t.Run("Duplicate Registry Entry Last Write Wins", func(t *testing.T) {
		dupRegistry := []models.StationInfo{
			{EvaNumber: "8002549", Name: "Old Name"},
			{EvaNumber: "8002549", Name: "New Name"},
		}
		feed := []models.Departure{
			{Station: models.StationInfo{EvaNumber: "8002549", Name: "UNKNOWN"}},
		}

		reconciled := ReconcileStationNames(feed, dupRegistry)
		assert.Equal(t, "New Name", reconciled[0].Station.Name)
	})

	t.Run("Empty Feed", func(t *testing.T) {
		reconciled := ReconcileStationNames(nil, registry)
		assert.Empty(t, reconciled)
	})
}
