package collector

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"darksky-forecast/datasource"
	"darksky-forecast/models"

	"code.cloudfoundry.org/clock/fakeclock"
	"go.uber.org/zap/zaptest"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *fakeSource) Name() string { return "Fake" }

func (s *fakeSource) FetchForecast(ctx context.Context, location datasource.Location) (models.ForecastData, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()

	if s.err != nil {
		return models.ForecastData{}, s.err
	}
	return models.ForecastData{
		Provider: s.Name(),
		Location: location.String(),
		Forecast: models.Forecast{Currently: &models.Datapoint{Time: int64(n)}},
	}, nil
}

func receive(t *testing.T, ch <-chan models.ForecastData) models.ForecastData {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for forecast")
	}
	return models.ForecastData{}
}

func TestCollectorFetchesOnStartAndTick(t *testing.T) {
	clk := fakeclock.NewFakeClock(time.Now())
	source := &fakeSource{}
	dc := NewDataCollector([]datasource.ForecastSource{source},
		[]datasource.Location{{Name: "Oslo", Latitude: 59.9, Longitude: 10.7}},
		zaptest.NewLogger(t).Sugar())
	dc.SetClock(clk)
	dc.SetInterval(time.Minute)

	stop := dc.Start(context.Background())

	first := receive(t, dc.OutputChannel())
	if first.Location != "Oslo" || first.Forecast.Currently.Time != 1 {
		t.Errorf("first = %+v", first)
	}

	clk.WaitForWatcherAndIncrement(time.Minute)
	second := receive(t, dc.OutputChannel())
	if second.Forecast.Currently.Time != 2 {
		t.Errorf("second = %+v", second)
	}

	stop()

	if _, ok := <-dc.OutputChannel(); ok {
		// A buffered value may remain; the channel must close after it.
		if _, ok := <-dc.OutputChannel(); ok {
			t.Error("output channel not closed after stop")
		}
	}
}

func TestCollectorReportsErrors(t *testing.T) {
	source := &fakeSource{err: errors.New("boom")}
	dc := NewDataCollector([]datasource.ForecastSource{source},
		[]datasource.Location{{Name: "Oslo"}}, nil)
	dc.SetClock(fakeclock.NewFakeClock(time.Now()))

	stop := dc.Start(context.Background())
	defer stop()

	select {
	case err := <-dc.ErrorChannel():
		if !strings.Contains(err.Error(), "Fake") || !strings.Contains(err.Error(), "Oslo") || !strings.Contains(err.Error(), "boom") {
			t.Errorf("err = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestSetIntervalIgnoresNonPositive(t *testing.T) {
	dc := NewDataCollector(nil, nil, nil)
	dc.SetInterval(time.Minute)
	dc.SetInterval(0)
	dc.SetInterval(-time.Second)
	if dc.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", dc.interval)
	}
}
