package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hahehackathon/transit-backend/internal/config"
	"github.com/hahehackathon/transit-backend/internal/database"
	"github.com/hahehackathon/transit-backend/internal/handlers"
	"github.com/hahehackathon/transit-backend/internal/services"
	"github.com/hahehackathon/transit-backend/pkg/dbapi"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Public Transport Board Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories and services
	busInfoRepo := database.NewBusInfoRepository(db.DB)
	if err := busInfoRepo.EnsureSchema(); err != nil {
		logger.Fatalf("Failed to prepare bus_info table: %v", err)
	}

	registry := services.NewStopPlaceRegistry(cfg.Seed.StopPlacesPath)

	boardClient := dbapi.NewClient(dbapi.Config{
		DeparturesURL: cfg.Board.DeparturesURL,
		ArrivalsURL:   cfg.Board.ArrivalsURL,
		Headers: map[string]string{
			"DB-Client-Id": cfg.Board.ClientID,
			"DB-Api-Key":   cfg.Board.APIKey,
		},
		DefaultParams: cfg.Board.DefaultParams,
		Timeout:       cfg.Board.Timeout,
	})

	// Seed the bus info row from the departure feed. Seeding is idempotent;
	// an existing row always wins.
	if cfg.Seed.OnStart {
		seedService := services.NewSeedService(busInfoRepo, cfg.Seed.RandomCounts, logger)
		feed, err := services.LoadDepartureFeed(cfg.Seed.DepartureFeedPath)
		if err != nil {
			logger.Warnf("Skipping bus info seed: %v", err)
		} else if _, err := seedService.SeedFromDepartureFeed(feed); err != nil {
			logger.Warnf("Failed to seed bus info: %v", err)
		}
	}

	logger.Info("Services initialized")

	// Initialize handlers
	boardHandler := handlers.NewBoardHandler(boardClient)
	stopPlaceHandler := handlers.NewStopPlaceHandler(registry)
	busInfoHandler := handlers.NewBusInfoHandler(busInfoRepo)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Routes
	router.GET("/", indexHandler())
	router.GET("/health", healthCheckHandler(db))
	router.GET("/stop_places/", stopPlaceHandler.GetStopPlaces)
	router.GET("/departures/", boardHandler.GetDepartures)
	router.GET("/arrivals/", boardHandler.GetArrivals)
	router.PUT("/update_passengers/", busInfoHandler.UpdatePassengers)
	router.GET("/bus_info/", busInfoHandler.GetBusInfo)
	router.GET("/404", missingHandler())

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// indexHandler describes the available endpoints
func indexHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Public Transport API!",
			"endpoints": gin.H{
				"/stop_places/": "Get list of stop places with their names and EVA numbers",
				"/departures/":  "Get departure info for a station (query parameter: station_code)",
				"/arrivals/":    "Get arrival info for a station with optional arrival_time (query parameter: station_code, arrival_time)",
			},
		})
	}
}

// missingHandler is a fixed diagnostic 404 endpoint
func missingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "That's gonna be a 'no' from me."})
	}
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		if status >= 500 {
			entry.Error("Request completed with server error")
		} else if status >= 400 {
			entry.Warn("Request completed with client error")
		} else {
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "healthy"
		if err := db.Ping(); err != nil {
			dbStatus = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": dbStatus,
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  dbStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
