package providers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// BackendSource reads from a weather service exposing GET {base}/weather and
// GET {base}/forecast, each returning a JSON array covering all cities.
type BackendSource struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewBackendSource(client *http.Client, baseURL string, backoff BackoffConfig) *BackendSource {
	return &BackendSource{
		name:    "backend",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: newCircuitBreaker("backend"),
	}
}

func (s *BackendSource) Name() string {
	return s.name
}

func (s *BackendSource) FetchCurrent(ctx context.Context) ([]weather.RawSample, error) {
	body, err := getBody(ctx, s.httpCfg, s.circuit, s.baseURL+"/weather")
	if err != nil {
		return nil, err
	}

	samples, skipped, err := weather.DecodeRawSamples(body)
	if err != nil {
		return nil, sourceDecodeError(err)
	}
	if skipped > 0 {
		log.Printf("provider %s: skipped %d undecodable observations", s.name, skipped)
	}
	return samples, nil
}

func (s *BackendSource) FetchForecast(ctx context.Context) ([]weather.RawForecast, error) {
	body, err := getBody(ctx, s.httpCfg, s.circuit, s.baseURL+"/forecast")
	if err != nil {
		return nil, err
	}

	forecasts, skipped, err := weather.DecodeRawForecasts(body)
	if err != nil {
		return nil, sourceDecodeError(err)
	}
	if skipped > 0 {
		log.Printf("provider %s: skipped %d undecodable forecasts", s.name, skipped)
	}
	return forecasts, nil
}
