package weather

import (
	"encoding/json"
	"fmt"
	"log"
)

// RawSample is an observation as delivered by a source, before
// normalization. Numeric fields accept JSON numbers or numeric strings.
type RawSample struct {
	City       string      `json:"city"`
	Temp       json.Number `json:"temp"`
	FeelsLike  json.Number `json:"feels_like,omitempty"`
	Humidity   json.Number `json:"humidity"`
	WindSpeed  json.Number `json:"wind_speed"`
	Condition  string      `json:"main"`
	ObservedAt int64       `json:"dt"`
}

// UnmarshalJSON accepts both the short wire names (main, dt, wind_speed,
// feels_like) and their long forms (condition, observedAt, windSpeed,
// feelsLike).
func (r *RawSample) UnmarshalJSON(data []byte) error {
	var aux struct {
		City         string      `json:"city"`
		Temp         json.Number `json:"temp"`
		FeelsLike    json.Number `json:"feels_like"`
		FeelsLikeAlt json.Number `json:"feelsLike"`
		Humidity     json.Number `json:"humidity"`
		WindSpeed    json.Number `json:"wind_speed"`
		WindSpeedAlt json.Number `json:"windSpeed"`
		Main         string      `json:"main"`
		Condition    string      `json:"condition"`
		Dt           int64       `json:"dt"`
		ObservedAt   int64       `json:"observedAt"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = RawSample{
		City:       aux.City,
		Temp:       aux.Temp,
		FeelsLike:  firstNumber(aux.FeelsLike, aux.FeelsLikeAlt),
		Humidity:   aux.Humidity,
		WindSpeed:  firstNumber(aux.WindSpeed, aux.WindSpeedAlt),
		Condition:  firstString(aux.Main, aux.Condition),
		ObservedAt: aux.Dt,
	}
	if r.ObservedAt == 0 {
		r.ObservedAt = aux.ObservedAt
	}
	return nil
}

// RawForecast is a forecast entry as delivered by a source.
type RawForecast struct {
	City      string      `json:"city"`
	Temp      json.Number `json:"temp"`
	Condition string      `json:"condition"`
}

// UnmarshalJSON accepts "condition" or "main" for the condition label.
func (r *RawForecast) UnmarshalJSON(data []byte) error {
	var aux struct {
		City      string      `json:"city"`
		Temp      json.Number `json:"temp"`
		Condition string      `json:"condition"`
		Main      string      `json:"main"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = RawForecast{
		City:      aux.City,
		Temp:      aux.Temp,
		Condition: firstString(aux.Condition, aux.Main),
	}
	return nil
}

// DecodeRawSamples decodes a JSON array of observations. Elements that fail
// to decode are skipped and counted; only a payload that is not an array
// is an error.
func DecodeRawSamples(data []byte) ([]RawSample, int, error) {
	return decodeEach[RawSample](data)
}

// DecodeRawForecasts is DecodeRawSamples for forecast entries.
func DecodeRawForecasts(data []byte) ([]RawForecast, int, error) {
	return decodeEach[RawForecast](data)
}

func decodeEach[T any](data []byte) ([]T, int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, 0, fmt.Errorf("decode payload: %w", err)
	}

	out := make([]T, 0, len(items))
	skipped := 0
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			log.Printf("DEBUG: skipping malformed record %d: %v", i, err)
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped, nil
}

func firstNumber(vals ...json.Number) json.Number {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
