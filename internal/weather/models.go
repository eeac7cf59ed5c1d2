package weather

import (
	"time"
)

// NoData is the placeholder used wherever a city has nothing to aggregate.
const NoData = "No data available"

// City is a canonical city identifier.
type City string

const (
	Delhi     City = "Delhi"
	Mumbai    City = "Mumbai"
	Chennai   City = "Chennai"
	Bangalore City = "Bangalore"
	Kolkata   City = "Kolkata"
	Hyderabad City = "Hyderabad"
)

// Cities is the closed, ordered set of tracked cities. Every derived view
// is indexed by it and listed in this order.
var Cities = []City{Delhi, Mumbai, Chennai, Bangalore, Kolkata, Hyderabad}

// cityAliases maps alternate spellings that sources use to canonical names.
var cityAliases = map[string]City{
	"Bengaluru": Bangalore,
}

// NormalizeCity maps a known alias to its canonical city. Unknown names
// pass through unchanged.
func NormalizeCity(name string) City {
	if c, ok := cityAliases[name]; ok {
		return c
	}
	return City(name)
}

// Index returns the position of c in Cities, or len(Cities) for a city
// outside the enumeration so that unknown cities sort last.
func (c City) Index() int {
	for i, known := range Cities {
		if known == c {
			return i
		}
	}
	return len(Cities)
}

// Known reports whether c belongs to the canonical enumeration.
func (c City) Known() bool {
	return c.Index() < len(Cities)
}

// Condition is a short weather condition label such as "Clear" or "Rain".
type Condition string

const (
	ConditionUnknown Condition = "Unknown"
	ConditionClear   Condition = "Clear"
	ConditionCloudy  Condition = "Cloudy"
	ConditionRain    Condition = "Rain"
	ConditionSnow    Condition = "Snow"
	ConditionStorm   Condition = "Storm"
	ConditionFog     Condition = "Fog"
)

// SampleKey identifies a WeatherSample. Two samples with the same key are
// duplicates.
type SampleKey struct {
	City       City
	ObservedAt int64
}

// WeatherSample is one normalized observation for one city.
type WeatherSample struct {
	City       City      `json:"city"`
	Temp       float64   `json:"temp"` // Celsius
	FeelsLike  *float64  `json:"feelsLike,omitempty"`
	Humidity   float64   `json:"humidity"`
	WindSpeed  float64   `json:"windSpeed"`
	Condition  Condition `json:"condition"`
	ObservedAt int64     `json:"observedAt"` // unix seconds
	CapturedAt time.Time `json:"capturedAt"` // display only, not part of the key
}

// Key returns the identity key of the sample.
func (s WeatherSample) Key() SampleKey {
	return SampleKey{City: s.City, ObservedAt: s.ObservedAt}
}

// ForecastSample is one forecast entry for a city.
type ForecastSample struct {
	City        City      `json:"city"`
	Temp        float64   `json:"temp"`
	Condition   Condition `json:"condition"`
	RetrievedAt time.Time `json:"retrievedAt"`
}

// DailySummary holds the aggregate statistics for one city over all of its
// retained samples.
type DailySummary struct {
	City              City   `json:"city"`
	AvgTemp           Stat   `json:"avgTemp"`
	MaxTemp           Stat   `json:"maxTemp"`
	MinTemp           Stat   `json:"minTemp"`
	AvgHumidity       Stat   `json:"avgHumidity"`
	AvgWindSpeed      Stat   `json:"avgWindSpeed"`
	DominantCondition string `json:"dominantCondition"`
}

// HasData reports whether the summary was computed from at least one sample.
func (d DailySummary) HasData() bool {
	return d.AvgTemp.Valid()
}

// TrendPoint is a single (date, temperature) entry of a trend.
type TrendPoint struct {
	Date string  `json:"date"`
	Temp float64 `json:"temp"`
}

// HistoricalTrend is the recent temperature series for one city.
type HistoricalTrend struct {
	City   City
	Points []TrendPoint
}

// HasData reports whether the trend holds any points.
func (t HistoricalTrend) HasData() bool {
	return len(t.Points) > 0
}

// Alert summarizes threshold breaches in one ingestion batch. The zero value
// means no breach.
type Alert struct {
	Count     int     `json:"count"`
	Threshold float64 `json:"threshold"`
	Message   string  `json:"message"`
}

// Active reports whether the alert carries a breach.
func (a Alert) Active() bool {
	return a.Count > 0
}
