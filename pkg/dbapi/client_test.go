package dbapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		DeparturesURL: baseURL + "/departures",
		ArrivalsURL:   baseURL + "/arrivals",
		Headers: map[string]string{
			"DB-Client-Id": "test-client",
			"DB-Api-Key":   "test-key",
		},
		DefaultParams: map[string]string{"modeOfTransport": "BUS"},
		Timeout:       2 * time.Second,
	})
}

func TestNewClient(t *testing.T) {
	client := NewClient(Config{
		DeparturesURL: "https://example.com/departures/",
		ArrivalsURL:   "https://example.com/arrivals",
	})

	assert.NotNil(t, client)
	assert.Equal(t, "https://example.com/departures", client.departuresURL)
	assert.Equal(t, "https://example.com/arrivals", client.arrivalsURL)
	assert.NotNil(t, client.client)
	assert.Equal(t, 15*time.Second, client.client.Timeout)
}

func TestFetchDepartures(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		body := `{"departures":[{"station":{"evaNumber":"8002549"}}]}`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/departures/8002549", r.URL.Path)
			assert.Equal(t, "test-client", r.Header.Get("DB-Client-Id"))
			assert.Equal(t, "test-key", r.Header.Get("DB-Api-Key"))
			assert.Equal(t, "BUS", r.URL.Query().Get("modeOfTransport"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		got, err := client.FetchDepartures(context.Background(), "8002549")
		require.NoError(t, err)
		assert.Equal(t, body, string(got), "upstream body must pass through verbatim")
	})

	t.Run("Upstream Error Status Propagated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"upstream":"secret detail"}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		got, err := client.FetchDepartures(context.Background(), "8002549")
		require.Error(t, err)
		assert.Nil(t, got)

		var upstreamErr *UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
		assert.False(t, upstreamErr.Transport)
		assert.NotContains(t, upstreamErr.Message, "secret detail", "upstream body must not leak")
	})

	t.Run("Transport Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused

		client := newTestClient(server.URL)
		_, err := client.FetchDepartures(context.Background(), "8002549")
		require.Error(t, err)

		var upstreamErr *UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, http.StatusInternalServerError, upstreamErr.StatusCode)
		assert.True(t, upstreamErr.Transport)
		assert.NotEmpty(t, upstreamErr.Message)
	})
}

func TestFetchArrivals(t *testing.T) {
	t.Run("Valid Time Forwarded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/arrivals/8002553", r.URL.Path)
			assert.Equal(t, "2024-11-16T14:32:00", r.URL.Query().Get("time"))
			assert.Equal(t, "BUS", r.URL.Query().Get("modeOfTransport"))
			w.Write([]byte(`{"arrivals":[]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		got, err := client.FetchArrivals(context.Background(), "8002553", "2024-11-16T14:32:00")
		require.NoError(t, err)
		assert.JSONEq(t, `{"arrivals":[]}`, string(got))
	})

	t.Run("No Time Parameter When Absent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, present := r.URL.Query()["time"]
			assert.False(t, present)
			w.Write([]byte(`{"arrivals":[]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.FetchArrivals(context.Background(), "8002553", "")
		require.NoError(t, err)
	})

	t.Run("Invalid Time Fails Fast", func(t *testing.T) {
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.FetchArrivals(context.Background(), "8002553", "2024-13-40T99:99:99")
		require.ErrorIs(t, err, ErrInvalidTime)
		assert.Equal(t, int32(0), requests.Load(), "no upstream request may be issued for a malformed time")
	})
}

func TestValidateArrivalTime(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "Exact layout", input: "2024-11-16T14:32:00", expectError: false},
		{name: "Midnight", input: "2025-01-01T00:00:00", expectError: false},
		{name: "Space separator", input: "2024-11-16 14:32:00", expectError: true},
		{name: "Missing seconds", input: "2024-11-16T14:32", expectError: true},
		{name: "Trailing zone designator", input: "2024-11-16T14:32:00Z", expectError: true},
		{name: "Out-of-range fields", input: "2024-13-40T99:99:99", expectError: true},
		{name: "German date order", input: "16.11.2024T14:32:00", expectError: true},
		{name: "Empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArrivalTime(tt.input)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidTime)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
