// Package dbapi is a thin client for the Deutsche Bahn RIS::Boards public
// API. Board responses are passed through verbatim; this client only handles
// URL construction, authentication headers, parameter translation and error
// mapping.
package dbapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrInvalidTime is returned when a point-in-time filter does not match the
// exact YYYY-MM-DDTHH:MM:SS layout. No upstream request is issued in that
// case.
var ErrInvalidTime = errors.New("invalid time format")

const timeLayout = "2006-01-02T15:04:05"

// Config holds the upstream connection settings for the board client
type Config struct {
	DeparturesURL string
	ArrivalsURL   string
	Headers       map[string]string
	DefaultParams map[string]string
	Timeout       time.Duration
}

// UpstreamError reports a failed board call. For a non-2xx upstream response
// StatusCode carries the upstream status and the body is discarded; for a
// transport failure StatusCode is 500 and Message carries the transport
// error text.
type UpstreamError struct {
	StatusCode int
	Message    string
	Transport  bool
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream board API error (%d): %s", e.StatusCode, e.Message)
}

// Client issues departure and arrival board requests
type Client struct {
	departuresURL string
	arrivalsURL   string
	headers       map[string]string
	defaultParams map[string]string
	client        *http.Client
}

// NewClient creates a new board API client
func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		departuresURL: strings.TrimRight(config.DeparturesURL, "/"),
		arrivalsURL:   strings.TrimRight(config.ArrivalsURL, "/"),
		headers:       config.Headers,
		defaultParams: config.DefaultParams,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// ValidateArrivalTime checks a point-in-time filter against the exact
// YYYY-MM-DDTHH:MM:SS layout.
func ValidateArrivalTime(value string) error {
	if _, err := time.Parse(timeLayout, value); err != nil {
		return ErrInvalidTime
	}
	return nil
}

// FetchDepartures returns the upstream departure board body verbatim
func (c *Client) FetchDepartures(ctx context.Context, stationCode string) ([]byte, error) {
	return c.fetchBoard(ctx, c.departuresURL, stationCode, nil)
}

// FetchArrivals returns the upstream arrival board body verbatim. A non-empty
// arrivalTime is validated and forwarded as the upstream "time" parameter.
func (c *Client) FetchArrivals(ctx context.Context, stationCode, arrivalTime string) ([]byte, error) {
	var extra map[string]string
	if arrivalTime != "" {
		if err := ValidateArrivalTime(arrivalTime); err != nil {
			return nil, err
		}
		extra = map[string]string{"time": arrivalTime}
	}
	return c.fetchBoard(ctx, c.arrivalsURL, stationCode, extra)
}

func (c *Client) fetchBoard(ctx context.Context, baseURL, stationCode string, extraParams map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", baseURL, stationCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusInternalServerError, Message: err.Error(), Transport: true}
	}

	query := req.URL.Query()
	for key, value := range c.defaultParams {
		query.Set(key, value)
	}
	for key, value := range extraParams {
		query.Set(key, value)
	}
	req.URL.RawQuery = query.Encode()

	req.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusInternalServerError, Message: err.Error(), Transport: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusInternalServerError, Message: err.Error(), Transport: true}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// the upstream body is deliberately not echoed back to callers
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: "failed to fetch board data"}
	}

	return body, nil
}
