package weather

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"
)

// IngestOutcome is the result of merging one raw batch into the retained
// collection.
type IngestOutcome struct {
	// NewData holds the normalized, non-duplicate samples of the batch in
	// batch order. Alerts and the latest-per-city view are computed from it.
	NewData []WeatherSample
	// Retained is NewData ++ previous retained, stable-sorted by city.
	Retained []WeatherSample

	Skipped    int // records with missing, unparseable or out-of-range fields
	Duplicates int
}

// Ingest normalizes raw, drops records that fail to parse and records whose
// key is already retained (or repeated within the batch), and merges the
// remainder in front of retained. retained is not modified.
func Ingest(retained []WeatherSample, raw []RawSample, now time.Time) IngestOutcome {
	var out IngestOutcome
	parsed := make([]WeatherSample, 0, len(raw))
	for _, r := range raw {
		sample, err := parseSample(r, now)
		if err != nil {
			out.Skipped++
			continue
		}
		parsed = append(parsed, sample)
	}

	out.NewData, out.Duplicates = Dedup(retained, parsed)
	out.Retained = Merge(retained, out.NewData)
	return out
}

// Dedup returns the samples whose key is neither retained nor repeated
// earlier in samples, in their original order, and the number dropped.
func Dedup(retained, samples []WeatherSample) ([]WeatherSample, int) {
	seen := make(map[SampleKey]struct{}, len(retained)+len(samples))
	for _, s := range retained {
		seen[s.Key()] = struct{}{}
	}

	var fresh []WeatherSample
	dups := 0
	for _, s := range samples {
		if _, dup := seen[s.Key()]; dup {
			dups++
			continue
		}
		seen[s.Key()] = struct{}{}
		fresh = append(fresh, s)
	}
	return fresh, dups
}

// Merge returns newData ++ retained, stable-sorted into canonical city order.
// Within a city the relative order of samples is preserved.
func Merge(retained, newData []WeatherSample) []WeatherSample {
	merged := make([]WeatherSample, 0, len(newData)+len(retained))
	merged = append(merged, newData...)
	merged = append(merged, retained...)
	slices.SortStableFunc(merged, func(a, b WeatherSample) int {
		return a.City.Index() - b.City.Index()
	})
	return merged
}

// Plausible bounds for an observation. Records outside them are treated as
// malformed.
const (
	minTempC     = -100.0
	maxTempC     = 100.0
	maxHumidity  = 100.0
	maxWindSpeed = 500.0
)

var errMissingObservedAt = errors.New("observedAt: missing")

func parseSample(r RawSample, now time.Time) (WeatherSample, error) {
	if r.ObservedAt == 0 {
		return WeatherSample{}, errMissingObservedAt
	}
	temp, err := parseBounded("temp", string(r.Temp), minTempC, maxTempC)
	if err != nil {
		return WeatherSample{}, err
	}
	humidity, err := parseBounded("humidity", string(r.Humidity), 0, maxHumidity)
	if err != nil {
		return WeatherSample{}, err
	}
	wind, err := parseBounded("wind_speed", string(r.WindSpeed), 0, maxWindSpeed)
	if err != nil {
		return WeatherSample{}, err
	}

	s := WeatherSample{
		City:       NormalizeCity(r.City),
		Temp:       temp,
		Humidity:   humidity,
		WindSpeed:  wind,
		Condition:  Condition(r.Condition),
		ObservedAt: r.ObservedAt,
		CapturedAt: now,
	}
	if r.FeelsLike != "" {
		if fl, err := parseBounded("feels_like", string(r.FeelsLike), minTempC, maxTempC); err == nil {
			s.FeelsLike = &fl
		}
	}
	return s, nil
}

func parseNumber(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: not a finite number", field)
	}
	return v, nil
}

func parseBounded(field, s string, lo, hi float64) (float64, error) {
	v, err := parseNumber(field, s)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s: %v outside [%v, %v]", field, v, lo, hi)
	}
	return v, nil
}

// LatestPerCity returns, for each known city in canonical order, the first
// sample of that city in newData. Cities absent from the batch are omitted.
func LatestPerCity(newData []WeatherSample) []WeatherSample {
	latest := make([]WeatherSample, 0, len(Cities))
	for _, city := range Cities {
		i := slices.IndexFunc(newData, func(s WeatherSample) bool { return s.City == city })
		if i >= 0 {
			latest = append(latest, newData[i])
		}
	}
	return latest
}
