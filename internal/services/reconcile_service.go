package services

import "github.com/hahehackathon/transit-backend/internal/models"

// ReconcileStationNames returns a new feed slice where each departure's
// station name is replaced by the registry name for its EVA number. Records
// whose EVA number is not in the registry pass through unchanged; a missing
// mapping is not an error. The EVA number itself is never touched, so
// applying the function twice yields the same result as applying it once.
//
// Writing the result back to the feed's backing store is the caller's job.
func ReconcileStationNames(feed []models.Departure, registry []models.StationInfo) []models.Departure {
	evaToName := make(map[string]string, len(registry))
	for _, place := range registry {
		evaToName[place.EvaNumber] = place.Name
	}

	reconciled := make([]models.Departure, len(feed))
	copy(reconciled, feed)
	for i := range reconciled {
		if name, ok := evaToName[reconciled[i].Station.EvaNumber]; ok {
			reconciled[i].Station.Name = name
		}
	}
	return reconciled
}
