package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-monitor/internal/weather"
)

func noRetry() BackoffConfig {
	return BackoffConfig{MaxRetries: 0, InitialInterval: time.Millisecond}
}

func TestBackendSource_FetchCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/weather", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"city":"Bengaluru","temp":40,"humidity":50,"wind_speed":"5.0","main":"Clear","dt":1000},
			42
		]`))
	}))
	defer srv.Close()

	src := NewBackendSource(srv.Client(), srv.URL+"/api/", noRetry())
	samples, err := src.FetchCurrent(context.Background())

	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "Bengaluru", samples[0].City)
	assert.Equal(t, "backend", src.Name())
}

func TestBackendSource_FetchForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/forecast", r.URL.Path)
		w.Write([]byte(`[{"city":"Delhi","temp":"31.5","condition":"Clear"}]`))
	}))
	defer srv.Close()

	forecasts, err := NewBackendSource(srv.Client(), srv.URL, noRetry()).FetchForecast(context.Background())

	require.NoError(t, err)
	require.Len(t, forecasts, 1)
	assert.Equal(t, "31.5", string(forecasts[0].Temp))
}

func TestBackendSource_ServerErrorIsSourceUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	backoff := BackoffConfig{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
	_, err := NewBackendSource(srv.Client(), srv.URL, backoff).FetchCurrent(context.Background())

	assert.ErrorIs(t, err, weather.ErrSourceUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestBackendSource_NonArrayPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"maintenance"}`))
	}))
	defer srv.Close()

	_, err := NewBackendSource(srv.Client(), srv.URL, noRetry()).FetchCurrent(context.Background())
	assert.ErrorIs(t, err, weather.ErrSourceUnavailable)
}

func TestBackendSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewBackendSource(http.DefaultClient, url, noRetry()).FetchCurrent(context.Background())
	assert.ErrorIs(t, err, weather.ErrSourceUnavailable)
}

func TestDoRequestWithResilience_InvalidConfig(t *testing.T) {
	cfg := HTTPClientConfig{Client: http.DefaultClient, Backoff: BackoffConfig{MaxRetries: -1}}
	_, err := doRequestWithResilience(context.Background(), cfg, newCircuitBreaker("test"), func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, "http://localhost", nil)
	})
	assert.ErrorIs(t, err, errInvalidConfig)

	_, err = doRequestWithResilience(context.Background(), HTTPClientConfig{}, newCircuitBreaker("test"), nil)
	assert.ErrorIs(t, err, errNoHTTPClient)
}

func TestBackoffConfig_Delay(t *testing.T) {
	b := BackoffConfig{InitialInterval: 500 * time.Millisecond, MaxInterval: 3 * time.Second}

	assert.Equal(t, 500*time.Millisecond, b.delay(0))
	assert.Equal(t, time.Second, b.delay(1))
	assert.Equal(t, 2*time.Second, b.delay(2))
	assert.Equal(t, 3*time.Second, b.delay(3))

	b.MaxInterval = 0
	assert.Equal(t, 8*time.Second, b.delay(4))
}
