package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-monitor/internal/weather"
)

func TestHTTPSink_PostsBatch(t *testing.T) {
	var got []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := NewHTTPSink(srv.Client(), srv.URL).Send(context.Background(), []weather.WeatherSample{
		{City: weather.Delhi, Temp: 30, Condition: weather.ConditionClear, ObservedAt: 1000},
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Delhi", got[0]["city"])
	assert.Equal(t, 30.0, got[0]["temp"])
}

func TestHTTPSink_FailureIsSinkFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPSink(srv.Client(), srv.URL).Send(context.Background(), []weather.WeatherSample{{City: weather.Delhi}})

	assert.ErrorIs(t, err, weather.ErrSinkFailure)
	assert.Equal(t, 1, calls)
}
