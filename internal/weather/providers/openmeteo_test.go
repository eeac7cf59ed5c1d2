package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-monitor/internal/weather"
)

func TestOpenMeteoSource_FetchCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "unixtime", q.Get("timeformat"))
		assert.NotEmpty(t, q.Get("latitude"))
		w.Write([]byte(`{"current":{"time":1700000000,"temperature_2m":36.4,"relative_humidity_2m":40,"apparent_temperature":39,"wind_speed_10m":12.5,"weather_code":45}}`))
	}))
	defer srv.Close()

	src := NewOpenMeteoSource(srv.Client(), noRetry())
	src.baseURL = srv.URL

	samples, err := src.FetchCurrent(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, len(weather.Cities))
	for i, s := range samples {
		assert.Equal(t, string(weather.Cities[i]), s.City)
	}
	assert.Equal(t, "36.4", string(samples[0].Temp))
	assert.Equal(t, "39", string(samples[0].FeelsLike))
	assert.Equal(t, string(weather.ConditionFog), samples[0].Condition)
}

func TestOpenMeteoSource_FetchForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("forecast_days"))
		w.Write([]byte(`{"daily":{"temperature_2m_max":[38.1],"weather_code":[61]}}`))
	}))
	defer srv.Close()

	src := NewOpenMeteoSource(srv.Client(), noRetry())
	src.baseURL = srv.URL

	forecasts, err := src.FetchForecast(context.Background())
	require.NoError(t, err)
	require.Len(t, forecasts, len(weather.Cities))
	assert.Equal(t, "38.1", string(forecasts[0].Temp))
	assert.Equal(t, string(weather.ConditionRain), forecasts[0].Condition)
}

func TestOpenMeteoSource_EmptyDailyFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily":{}}`))
	}))
	defer srv.Close()

	src := NewOpenMeteoSource(srv.Client(), noRetry())
	src.baseURL = srv.URL

	_, err := src.FetchForecast(context.Background())
	assert.ErrorIs(t, err, weather.ErrSourceUnavailable)
}

func TestMapOpenMeteoCondition(t *testing.T) {
	tests := map[int]weather.Condition{
		0:  weather.ConditionClear,
		2:  weather.ConditionCloudy,
		48: weather.ConditionFog,
		63: weather.ConditionRain,
		81: weather.ConditionRain,
		75: weather.ConditionSnow,
		96: weather.ConditionStorm,
		10: weather.ConditionUnknown,
	}
	for code, want := range tests {
		assert.Equal(t, want, mapOpenMeteoCondition(code), "code %d", code)
	}
}
