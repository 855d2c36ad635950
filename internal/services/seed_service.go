package services

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/hahehackathon/transit-backend/internal/database"
	"github.com/hahehackathon/transit-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// Bus line served by this deployment. The blob is seeded once from the
// departure feed and updated in place afterwards.
const (
	seedBusLine = "Bus 5"
	seedRoute   = "Luisenweg - Mühlenberg, Hamburg"
)

// SeedService builds and persists the singleton bus info row from the
// reconciled departure feed.
type SeedService struct {
	repo         *database.BusInfoRepository
	randomCounts bool
	logger       *logrus.Logger
}

// NewSeedService creates a new seed service. With randomCounts set, checked
// passenger counts are seeded with demo values instead of zero.
func NewSeedService(repo *database.BusInfoRepository, randomCounts bool, logger *logrus.Logger) *SeedService {
	return &SeedService{
		repo:         repo,
		randomCounts: randomCounts,
		logger:       logger,
	}
}

// LoadDepartureFeed reads the departure feed fixture
func LoadDepartureFeed(path string) (*models.DepartureFeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read departure feed: %w", err)
	}

	var feed models.DepartureFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse departure feed: %w", err)
	}

	return &feed, nil
}

// BuildBusInfo constructs the bus info row from the feed: one station usage
// per via stop of the first departure, with that departure's scheduled time
// as the estimated arrival.
func (s *SeedService) BuildBusInfo(feed *models.DepartureFeed) (*models.BusInfo, error) {
	if feed == nil || len(feed.Departures) == 0 {
		return nil, fmt.Errorf("departure feed is empty")
	}

	first := feed.Departures[0]
	stations := make(models.StationUsageList, 0, len(first.Transport.Via))
	for _, via := range first.Transport.Via {
		stations = append(stations, models.StationUsage{
			StationName:       via.Name,
			EstimatedArrival:  first.TimeSchedule,
			CheckedPassengers: s.seedCounts(),
		})
	}

	return &models.BusInfo{
		BusLine:       seedBusLine,
		Route:         seedRoute,
		TotalStations: len(stations),
		Stations:      stations,
	}, nil
}

// SeedFromDepartureFeed is idempotent: if a bus info row already exists it is
// returned unchanged and nothing is written.
func (s *SeedService) SeedFromDepartureFeed(feed *models.DepartureFeed) (*models.BusInfo, error) {
	info, err := s.BuildBusInfo(feed)
	if err != nil {
		return nil, err
	}

	seeded, err := s.repo.FirstOrCreate(info)
	if err != nil {
		return nil, err
	}

	if seeded.ID != info.ID {
		s.logger.Info("Bus info already exists, seed skipped")
	} else {
		s.logger.WithField("stations", seeded.TotalStations).Info("Bus info seeded from departure feed")
	}
	return seeded, nil
}

func (s *SeedService) seedCounts() models.PassengerCount {
	if !s.randomCounts {
		return models.PassengerCount{}
	}
	// demo ranges: 10-30 normal, 1-5 wheelchair, 1-5 elderly
	return models.PassengerCount{
		Normal:     rand.Intn(21) + 10,
		Wheelchair: rand.Intn(5) + 1,
		Elderly:    rand.Intn(5) + 1,
	}
}
