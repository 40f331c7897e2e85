package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"darksky-forecast/datasource"
	"darksky-forecast/models"

	"code.cloudfoundry.org/clock"
	"go.uber.org/zap"
)

// DataCollector manages the collection of forecasts from multiple sources
type DataCollector struct {
	sources      []datasource.ForecastSource
	outputChan   chan models.ForecastData
	errorChan    chan error
	locations    []datasource.Location
	fetchTimeout time.Duration
	interval     time.Duration
	clock        clock.Clock
	logger       *zap.SugaredLogger
}

// NewDataCollector creates a new data collector with the provided sources
func NewDataCollector(sources []datasource.ForecastSource, locations []datasource.Location, logger *zap.SugaredLogger) *DataCollector {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DataCollector{
		sources:      sources,
		outputChan:   make(chan models.ForecastData, 100),
		errorChan:    make(chan error, 100),
		locations:    locations,
		fetchTimeout: 10 * time.Second,
		interval:     15 * time.Minute,
		clock:        clock.NewClock(),
		logger:       logger,
	}
}

// SetFetchTimeout changes the timeout for API requests
func (dc *DataCollector) SetFetchTimeout(timeout time.Duration) {
	dc.fetchTimeout = timeout
}

// SetInterval changes how often each location is refreshed. Non-positive
// intervals are ignored.
func (dc *DataCollector) SetInterval(interval time.Duration) {
	if interval <= 0 {
		dc.logger.Warnw("ignoring non-positive interval", "interval", interval)
		return
	}
	dc.interval = interval
}

// SetClock replaces the clock driving the refresh ticker
func (dc *DataCollector) SetClock(clk clock.Clock) {
	dc.clock = clk
}

// OutputChannel returns the channel that emits collected forecasts
func (dc *DataCollector) OutputChannel() <-chan models.ForecastData {
	return dc.outputChan
}

// ErrorChannel returns the channel that emits errors
func (dc *DataCollector) ErrorChannel() <-chan error {
	return dc.errorChan
}

// Start begins collecting forecasts from all sources for all locations.
// The returned function can be called to stop collection; both channels are
// closed once every collector has exited.
func (dc *DataCollector) Start(ctx context.Context) func() {
	// Create a new context that we can cancel
	collectionCtx, cancelCollection := context.WithCancel(ctx)

	var wg sync.WaitGroup

	// Start collection for each source and location combination
	for _, source := range dc.sources {
		for _, location := range dc.locations {
			wg.Add(1)
			go dc.collectFromSource(collectionCtx, &wg, source, location)
		}
	}

	// Close channels when all collectors are done
	go func() {
		wg.Wait()
		close(dc.outputChan)
		close(dc.errorChan)
	}()

	return func() {
		cancelCollection()
		wg.Wait()
	}
}

// collectFromSource continuously collects forecasts from a single source for a location
func (dc *DataCollector) collectFromSource(ctx context.Context, wg *sync.WaitGroup, source datasource.ForecastSource, location datasource.Location) {
	defer wg.Done()

	ticker := dc.clock.NewTicker(dc.interval)
	defer ticker.Stop()

	// Do an initial fetch immediately
	dc.fetchOnce(ctx, source, location)

	// Then fetch on the ticker schedule
	for {
		select {
		case <-ticker.C():
			dc.fetchOnce(ctx, source, location)
		case <-ctx.Done():
			return
		}
	}
}

// fetchOnce performs a single fetch from a forecast source
func (dc *DataCollector) fetchOnce(ctx context.Context, source datasource.ForecastSource, location datasource.Location) {
	// Create a context with timeout for this specific request
	fetchCtx, cancel := context.WithTimeout(ctx, dc.fetchTimeout)
	defer cancel()

	data, err := source.FetchForecast(fetchCtx, location)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		select {
		case dc.errorChan <- fmt.Errorf("error fetching from %s for %s: %w", source.Name(), location, err):
		default:
			dc.logger.Warnw("error channel full, dropping error", "source", source.Name(), "location", location.String(), "error", err)
		}
		return
	}

	dc.logger.Debugw("collected forecast", "source", source.Name(), "location", location.String())

	// Send the data to the output channel
	select {
	case dc.outputChan <- data:
	case <-ctx.Done():
	}
}
