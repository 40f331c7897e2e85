package darksky

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingFetcher struct {
	calls int32
}

func (f *countingFetcher) Fetch(ctx context.Context, req Request) (*Response, error) {
	atomic.AddInt32(&f.calls, 1)
	return &Response{}, nil
}

func TestRateLimitedFetcherBurst(t *testing.T) {
	inner := &countingFetcher{}
	limited := NewRateLimitedFetcher(inner, 1000, 3)

	for i := 0; i < 3; i++ {
		if _, err := limited.Fetch(context.Background(), Request{}); err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&inner.calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
	if limited.Limit() != 1000 {
		t.Errorf("Limit = %v", limited.Limit())
	}
}

func TestRateLimitedFetcherHonoursDeadline(t *testing.T) {
	inner := &countingFetcher{}
	limited := NewRateLimitedFetcher(inner, 0.01, 1)

	if _, err := limited.Fetch(context.Background(), Request{}); err != nil {
		t.Fatalf("first Fetch failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := limited.Fetch(ctx, Request{})
	if err == nil {
		t.Fatal("expected rate limit error")
	}
	if got := atomic.LoadInt32(&inner.calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}
