package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Upstream board API configuration
	Board BoardConfig

	// CORS configuration
	CORS CORSConfig

	// Seed configuration
	Seed SeedConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// BoardConfig holds Deutsche Bahn RIS::Boards API configuration.
// ClientID and APIKey are sent as the DB-Client-Id / DB-Api-Key headers
// on every upstream request.
type BoardConfig struct {
	DeparturesURL string
	ArrivalsURL   string
	ClientID      string
	APIKey        string
	DefaultParams map[string]string
	Timeout       time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SeedConfig holds bus-info seeding configuration
type SeedConfig struct {
	OnStart           bool
	RandomCounts      bool // demo affordance: random passenger counts instead of zero
	DepartureFeedPath string
	StopPlacesPath    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Board: BoardConfig{
			DeparturesURL: getEnv("BOARD_DEPARTURES_URL", "https://apis.deutschebahn.com/db/apis/ris-boards/v1/public/departures"),
			ArrivalsURL:   getEnv("BOARD_ARRIVALS_URL", "https://apis.deutschebahn.com/db/apis/ris-boards/v1/public/arrivals"),
			ClientID:      getEnv("DB_CLIENT_ID", ""),
			APIKey:        getEnv("DB_API_KEY", ""),
			DefaultParams: getEnvAsMap("BOARD_DEFAULT_PARAMS", map[string]string{}),
			Timeout:       time.Duration(getEnvAsInt("BOARD_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:8080", "https://hahehackathon.github.io"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Seed: SeedConfig{
			OnStart:           getEnvAsBool("SEED_ON_START", true),
			RandomCounts:      getEnvAsBool("SEED_RANDOM_COUNTS", false),
			DepartureFeedPath: getEnv("DEPARTURE_FEED_PATH", "departure_info.json"),
			StopPlacesPath:    getEnv("STOP_PLACES_PATH", "filtered_stop_places.json"),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Board.DeparturesURL == "" {
		return fmt.Errorf("BOARD_DEPARTURES_URL is required")
	}

	if c.Board.ArrivalsURL == "" {
		return fmt.Errorf("BOARD_ARRIVALS_URL is required")
	}

	if c.Board.Timeout <= 0 {
		return fmt.Errorf("BOARD_TIMEOUT_SECONDS must be positive")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

// getEnvAsMap parses "key1=val1,key2=val2" pairs. Malformed pairs are skipped.
func getEnvAsMap(key string, defaultValue map[string]string) map[string]string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	result := make(map[string]string)
	for _, pair := range strings.Split(valueStr, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		result[parts[0]] = parts[1]
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
