package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hahehackathon/transit-backend/pkg/dbapi"
)

// BoardHandler proxies departure/arrival board requests to the upstream API
type BoardHandler struct {
	boardClient *dbapi.Client
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardClient *dbapi.Client) *BoardHandler {
	return &BoardHandler{boardClient: boardClient}
}

// GetDepartures proxies the departure board for a station
// GET /departures/?station_code=<eva>
func (h *BoardHandler) GetDepartures(c *gin.Context) {
	stationCode := c.Query("station_code")
	if stationCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "station_code is required"})
		return
	}

	body, err := h.boardClient.FetchDepartures(c.Request.Context(), stationCode)
	if err != nil {
		respondBoardError(c, err, "departure")
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// GetArrivals proxies the arrival board for a station, optionally filtered
// by a point in time
// GET /arrivals/?station_code=<eva>&arrival_time=<YYYY-MM-DDTHH:MM:SS>
func (h *BoardHandler) GetArrivals(c *gin.Context) {
	stationCode := c.Query("station_code")
	if stationCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "station_code is required"})
		return
	}

	body, err := h.boardClient.FetchArrivals(c.Request.Context(), stationCode, c.Query("arrival_time"))
	if err != nil {
		if errors.Is(err, dbapi.ErrInvalidTime) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid time format. Use 'YYYY-MM-DDTHH:MM:SS'."})
			return
		}
		respondBoardError(c, err, "arrival")
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// respondBoardError maps an upstream failure onto the response: upstream
// status codes are propagated with a generic message, transport failures
// become a 500 carrying the transport error text.
func respondBoardError(c *gin.Context, err error, board string) {
	var upstreamErr *dbapi.UpstreamError
	if errors.As(err, &upstreamErr) && !upstreamErr.Transport {
		c.JSON(upstreamErr.StatusCode, gin.H{"detail": fmt.Sprintf("Failed to fetch %s data", board)})
		return
	}

	message := err.Error()
	if upstreamErr != nil {
		message = upstreamErr.Message
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Error fetching %s data: %s", board, message)})
}
