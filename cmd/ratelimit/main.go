package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"darksky-forecast/darksky"

	"go.uber.org/zap"
)

// mockBackend simulates API latency and counts calls without touching the network
type mockBackend struct {
	callCount int
	mutex     sync.Mutex
	latency   time.Duration
	logger    *zap.SugaredLogger
}

func (m *mockBackend) Do(req *http.Request) (*http.Response, error) {
	m.mutex.Lock()
	m.callCount++
	currentCount := m.callCount
	m.mutex.Unlock()

	m.logger.Infof("Processing request #%d for %s", currentCount, req.URL.Path)

	// Simulate work/latency
	select {
	case <-time.After(m.latency):
	case <-req.Context().Done():
		return nil, req.Context().Err()
	}

	rec := httptest.NewRecorder()
	rec.Header().Set("X-Forecast-API-Calls", fmt.Sprintf("%d", currentCount))
	rec.WriteString(`{"latitude": 0, "longitude": 0, "timezone": "UTC", "currently": {"time": 0}}`)
	return rec.Result(), nil
}

func (m *mockBackend) GetCallCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.callCount
}

func main() {
	// Parse command-line flags
	requestsPerSecond := flag.Float64("rps", 1.0, "Rate limit in requests per second")
	burstSize := flag.Int("burst", 3, "Maximum burst size")
	totalRequests := flag.Int("requests", 10, "Total number of requests to make")
	concurrentRequests := flag.Int("concurrent", 5, "Number of concurrent requests")
	flag.Parse()

	baseLogger, _ := zap.NewDevelopment()
	defer baseLogger.Sync()
	logger := baseLogger.Sugar()

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Create a client backed by a mock with 200ms response time
	backend := &mockBackend{latency: 200 * time.Millisecond, logger: logger}
	client, err := darksky.NewClient("demo", darksky.WithHTTPClient(backend))
	if err != nil {
		logger.Fatalf("Failed to create client: %v", err)
	}

	// Wrap with rate limiter
	fetcher := darksky.NewRateLimitedFetcher(client, *requestsPerSecond, *burstSize)

	fmt.Printf("Testing rate limiter with:\n")
	fmt.Printf("- Rate limit: %.2f requests/second\n", fetcher.Limit())
	fmt.Printf("- Burst size: %d\n", *burstSize)
	fmt.Printf("- Total requests: %d\n", *totalRequests)
	fmt.Printf("- Concurrent workers: %d\n", *concurrentRequests)
	fmt.Println("Starting test...")

	startTime := time.Now()
	var wg sync.WaitGroup

	// Launch concurrent goroutines
	for i := 0; i < *concurrentRequests; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			// Calculate how many requests this worker should make
			requestsPerWorker := *totalRequests / *concurrentRequests
			if workerID < *totalRequests%*concurrentRequests {
				requestsPerWorker++
			}

			for j := 0; j < requestsPerWorker; j++ {
				req := darksky.Request{
					Latitude:  float64(workerID),
					Longitude: float64(j),
					Options:   darksky.Options{}.Exclude(darksky.BlockMinutely),
				}
				before := time.Now()
				resp, err := fetcher.Fetch(ctx, req)
				elapsed := time.Since(before)

				if err != nil {
					logger.Warnw("request failed", "worker", workerID, "request", j, "error", err)
				} else {
					logger.Infow("request completed", "worker", workerID, "request", j, "elapsed", elapsed, "apiCalls", resp.APICalls)
				}
			}
		}(i)
	}

	wg.Wait()

	// Calculate total time
	totalTime := time.Since(startTime)
	actualRPS := float64(*totalRequests) / totalTime.Seconds()

	fmt.Println("\nTest completed!")
	fmt.Printf("Total time: %.2f seconds\n", totalTime.Seconds())
	fmt.Printf("Actual requests per second: %.2f\n", actualRPS)
	fmt.Printf("Total requests processed: %d\n", backend.GetCallCount())

	expectedMinTime := max(float64(*totalRequests-*burstSize) / *requestsPerSecond, 0)
	fmt.Printf("Expected minimum time (theoretical): %.2f seconds\n", expectedMinTime)

	if actualRPS > *requestsPerSecond*1.5 && *totalRequests > *burstSize {
		fmt.Println("\nWARNING: Actual RPS significantly higher than configured rate limit!")
	} else {
		fmt.Println("\nRate limiting appears to be working correctly.")
	}
}
