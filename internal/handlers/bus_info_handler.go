package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hahehackathon/transit-backend/internal/database"
	"github.com/hahehackathon/transit-backend/internal/models"
)

// BusInfoHandler handles bus info read and passenger count updates
type BusInfoHandler struct {
	busInfoRepo *database.BusInfoRepository
}

// NewBusInfoHandler creates a new bus info handler
func NewBusInfoHandler(busInfoRepo *database.BusInfoRepository) *BusInfoHandler {
	return &BusInfoHandler{busInfoRepo: busInfoRepo}
}

// GetBusInfo returns the current bus info row
// GET /bus_info/
func (h *BusInfoHandler) GetBusInfo(c *gin.Context) {
	info, err := h.busInfoRepo.Get()
	if err != nil {
		if errors.Is(err, database.ErrBusInfoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "No bus info found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load bus info"})
		return
	}

	c.JSON(http.StatusOK, info)
}

// UpdatePassengers rewrites the checked passenger counts of one station,
// matched by display name
// PUT /update_passengers/?station_name=<s>&normal=<n>&wheelchair=<n>&elderly=<n>
func (h *BusInfoHandler) UpdatePassengers(c *gin.Context) {
	stationName := c.Query("station_name")
	if stationName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "station_name is required"})
		return
	}

	counts := models.PassengerCount{}
	for param, dest := range map[string]*int{
		"normal":     &counts.Normal,
		"wheelchair": &counts.Wheelchair,
		"elderly":    &counts.Elderly,
	} {
		value, err := strconv.Atoi(c.Query(param))
		if err != nil || value < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": param + " must be a non-negative integer"})
			return
		}
		*dest = value
	}

	if _, err := h.busInfoRepo.UpdatePassengerCount(stationName, counts); err != nil {
		if errors.Is(err, database.ErrBusInfoNotFound) || errors.Is(err, database.ErrStationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Bus info not found for the given station name."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update passenger counts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Passenger counts updated successfully.",
		"stationName": stationName,
	})
}
