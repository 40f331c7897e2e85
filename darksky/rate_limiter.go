package darksky

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedFetcher wraps a ForecastFetcher with a token bucket so a shared
// API token never exceeds its allowance.
type RateLimitedFetcher struct {
	fetcher ForecastFetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher limits fetcher to rps requests per second on
// average with bursts of up to burst requests. Fractional rates allow
// fewer than one call a second; burst is raised to 1 when smaller.
func NewRateLimitedFetcher(fetcher ForecastFetcher, rps float64, burst int) *RateLimitedFetcher {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedFetcher{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Fetch waits for the limiter and forwards to the wrapped fetcher
func (r *RateLimitedFetcher) Fetch(ctx context.Context, req Request) (*Response, error) {
	// Wait for rate limiter permission or context cancellation
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	// Forward to the underlying fetcher
	return r.fetcher.Fetch(ctx, req)
}

// Limit returns the configured requests per second.
func (r *RateLimitedFetcher) Limit() float64 {
	return float64(r.limiter.Limit())
}

// Verify that the rate limited fetcher is itself a fetcher
var _ ForecastFetcher = (*RateLimitedFetcher)(nil)
