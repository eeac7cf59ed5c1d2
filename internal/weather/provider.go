package weather

import (
	"context"
)

// Source abstracts a weather data source exposing current observations and
// forecasts for all known cities as two independent reads.
// Implementations wrap transport and decode failures in ErrSourceUnavailable.
type Source interface {
	Name() string
	FetchCurrent(ctx context.Context) ([]RawSample, error)
	FetchForecast(ctx context.Context) ([]RawForecast, error)
}

// Sink accepts ingested samples on a best-effort basis.
type Sink interface {
	Send(ctx context.Context, samples []WeatherSample) error
}

// Store holds the retained sample collection.
type Store interface {
	Samples() []WeatherSample
	Replace(samples []WeatherSample)
}

// PreferenceStore is a small persistent key/value store for user
// preferences.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
