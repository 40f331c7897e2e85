package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"darksky-forecast/api"
	"darksky-forecast/collector"
	"darksky-forecast/darksky"
	"darksky-forecast/datasource"
	"darksky-forecast/storage"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	logger := baseLogger.Sugar()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Infof("No .env file loaded: %v", err)
	}

	// Parse command line arguments
	port := flag.Int("port", 8080, "Port to run the server on")
	updateInterval := flag.Duration("update", 15*time.Minute, "Forecast update interval")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	enableRateLimiting := flag.Bool("rate-limit", true, "Enable API rate limiting")
	pruneAge := flag.Duration("prune-age", 48*time.Hour, "Remove forecasts older than this")
	flag.Parse()

	if *updateInterval <= 0 {
		logger.Fatalf("Invalid -update %v: the interval must be positive", *updateInterval)
	}
	if *pruneAge <= 0 {
		logger.Fatalf("Invalid -prune-age %v: the age must be positive", *pruneAge)
	}

	// Load configuration
	config, err := loadConfig(*configFile, logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	options, err := config.Options()
	if err != nil {
		logger.Fatalf("Invalid request options: %v", err)
	}

	// Create the Dark Sky client and source
	client, err := darksky.NewClient(config.Token, darksky.WithLogger(baseLogger.Named("darksky")))
	if err != nil {
		logger.Fatalf("Failed to create client: %v", err)
	}
	var fetcher darksky.ForecastFetcher = client
	if *enableRateLimiting && config.RateLimit.Enabled {
		fetcher = darksky.NewRateLimitedFetcher(client, config.RateLimit.RPS, config.RateLimit.Burst)
		logger.Infow("Applied rate limiting", "rps", config.RateLimit.RPS, "burst", config.RateLimit.Burst)
	}
	sources := []datasource.ForecastSource{datasource.NewDarkSkySource(fetcher, options)}
	logger.Infow("Fetching forecasts", "locations", len(config.Locations), "options", options.String())

	// Create in-memory store and optional history
	forecastStore := api.NewForecastStore()
	var history storage.Store
	if config.Database != "" {
		sqlite, err := storage.NewSQLite(config.Database, nil, baseLogger.Named("storage"))
		if err != nil {
			logger.Fatalf("Failed to open forecast history: %v", err)
		}
		defer sqlite.Close()
		history = sqlite
	}

	// Create API server
	server := api.NewServer(forecastStore, *port, logger.Named("api"))
	server.RegisterForecastSources(sources, config.Locations)
	if history != nil {
		server.SetHistory(history, *updateInterval)
	}
	if key := os.Getenv("APPLICATIONINSIGHTS_INSTRUMENTATION_KEY"); key != "" {
		telemetry := api.NewTelemetryClient(key, "darksky-forecast")
		defer func() { <-telemetry.Channel().Close(10 * time.Second) }()
		server.EnableTelemetry(telemetry)
		logger.Info("Application Insights telemetry enabled")
	}

	// Set up context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start collecting forecasts
	dc := collector.NewDataCollector(sources, config.Locations, logger.Named("collector"))
	dc.SetInterval(*updateInterval)
	stopCollection := dc.Start(ctx)

	go func() {
		for data := range dc.OutputChannel() {
			forecastStore.UpdateForecast(data)
			if history != nil {
				if _, err := history.SaveForecast(data); err != nil {
					logger.Warnw("Failed to save forecast history", "location", data.Location, "error", err)
				}
			}
			logger.Infow("Updated forecast", "location", data.Location, "provider", data.Provider, "apiCalls", data.APICalls)
		}
	}()
	go func() {
		for err := range dc.ErrorChannel() {
			logger.Errorw("Collection error", "error", err)
		}
	}()

	// Periodically clean up old forecasts
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				pruned := forecastStore.PruneOldForecasts(now, *pruneAge)
				if history != nil {
					if _, err := history.Prune(*pruneAge); err != nil {
						logger.Warnw("Failed to prune forecast history", "error", err)
					}
				}
				logger.Debugw("Pruned forecasts", "count", pruned)
			case <-ctx.Done():
				return
			}
		}
	}()

	// Start the API server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server stopped: %v", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("Shutting down")

	stopCollection()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}

	logger.Info("Shutdown complete")
}

// loadConfig reads the configuration file, falling back to the defaults
// when it does not exist
func loadConfig(filename string, logger *zap.SugaredLogger) (*datasource.Config, error) {
	config, err := datasource.LoadConfig(filename)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warnf("Config file %s not found, using defaults", filename)
		config = datasource.DefaultConfig()
		config.Token = os.Getenv(datasource.TokenEnv)
		return config, nil
	}
	return config, err
}
