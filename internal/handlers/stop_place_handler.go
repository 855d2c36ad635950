package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hahehackathon/transit-backend/internal/services"
)

// StopPlaceHandler serves the static stop-place registry
type StopPlaceHandler struct {
	registry *services.StopPlaceRegistry
}

// NewStopPlaceHandler creates a new stop place handler
func NewStopPlaceHandler(registry *services.StopPlaceRegistry) *StopPlaceHandler {
	return &StopPlaceHandler{registry: registry}
}

// GetStopPlaces returns all stop places with their names and EVA numbers
// GET /stop_places/
func (h *StopPlaceHandler) GetStopPlaces(c *gin.Context) {
	stations, err := h.registry.ListStations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Error loading stop places: %s", err)})
		return
	}

	c.JSON(http.StatusOK, stations)
}
