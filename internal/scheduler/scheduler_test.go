package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-monitor/internal/weather"
)

type fakeRefresher struct {
	weather   chan struct{}
	forecasts chan struct{}
	err       error
}

func newFakeRefresher(err error) *fakeRefresher {
	return &fakeRefresher{
		weather:   make(chan struct{}, 16),
		forecasts: make(chan struct{}, 16),
		err:       err,
	}
}

func (f *fakeRefresher) Refresh(ctx context.Context) (weather.IngestResult, error) {
	f.weather <- struct{}{}
	return weather.IngestResult{Accepted: 1}, f.err
}

func (f *fakeRefresher) RefreshForecasts(ctx context.Context) error {
	f.forecasts <- struct{}{}
	return f.err
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestScheduler_RunsBothJobsOnStart(t *testing.T) {
	r := newFakeRefresher(nil)
	s := New(r, time.Hour, 0)

	require.NoError(t, s.Start())
	defer s.Stop()

	waitFor(t, r.weather, "weather refresh")
	waitFor(t, r.forecasts, "forecast refresh")
}

func TestScheduler_RepeatsWeatherJob(t *testing.T) {
	r := newFakeRefresher(weather.ErrRefreshInProgress)
	s := New(r, time.Second, 0)

	require.NoError(t, s.Start())
	defer s.Stop()

	waitFor(t, r.weather, "first weather refresh")
	waitFor(t, r.weather, "second weather refresh")

	// With no forecast interval the forecast job runs exactly once.
	waitFor(t, r.forecasts, "forecast refresh")
	assert.Len(t, r.forecasts, 0)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := New(newFakeRefresher(nil), time.Minute, time.Minute)
	assert.NotPanics(t, s.Stop)
}
