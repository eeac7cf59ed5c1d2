package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// HTTPSink posts ingestion batches as a JSON array to a fixed URL. Posts are
// attempted once; a failure surfaces as weather.ErrSinkFailure.
type HTTPSink struct {
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewHTTPSink(client *http.Client, url string) *HTTPSink {
	return &HTTPSink{
		url: url,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      0,
				InitialInterval: 500 * time.Millisecond,
			},
		},
		circuit: newCircuitBreaker("sink"),
	}
}

func (s *HTTPSink) Send(ctx context.Context, samples []weather.WeatherSample) error {
	payload, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", weather.ErrSinkFailure, err)
	}

	resp, err := doRequestWithResilience(ctx, s.httpCfg, s.circuit, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", weather.ErrSinkFailure, err)
	}
	resp.Body.Close()
	return nil
}
