// Command reconcile backfills human-readable station names into the
// departure feed fixture using the stop-place registry, then rewrites the
// fixture in place. Run it offline whenever either file changes.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"

	"github.com/hahehackathon/transit-backend/internal/services"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	feedPath := flag.String("feed", "departure_info.json", "path to the departure feed fixture")
	stopsPath := flag.String("stop-places", "filtered_stop_places.json", "path to the stop places fixture")
	flag.Parse()

	feed, err := services.LoadDepartureFeed(*feedPath)
	if err != nil {
		logger.Fatalf("Failed to load departure feed: %v", err)
	}

	registry := services.NewStopPlaceRegistry(*stopsPath)
	stations, err := registry.ListStations()
	if err != nil {
		logger.Fatalf("Failed to load stop places: %v", err)
	}

	feed.Departures = services.ReconcileStationNames(feed.Departures, stations)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(feed); err != nil {
		logger.Fatalf("Failed to encode departure feed: %v", err)
	}

	if err := os.WriteFile(*feedPath, buf.Bytes(), 0o644); err != nil {
		logger.Fatalf("Failed to write departure feed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"departures":  len(feed.Departures),
		"stop_places": len(stations),
	}).Info("Departure feed reconciled")
}
