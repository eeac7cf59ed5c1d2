package weather

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// statPlaces is the number of decimal places summary statistics keep.
const statPlaces = 2

// Stat is an aggregate value rounded to two decimal places, or the NoData
// sentinel when there was nothing to aggregate. The zero value is NoData.
type Stat struct {
	value decimal.Decimal
	valid bool
}

// NewStat rounds v to two decimal places. A non-finite v yields the
// sentinel.
func NewStat(v float64) Stat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Stat{}
	}
	return Stat{value: decimal.NewFromFloat(v).Round(statPlaces), valid: true}
}

// NoDataStat returns the sentinel Stat.
func NoDataStat() Stat {
	return Stat{}
}

// Valid reports whether s holds a number.
func (s Stat) Valid() bool {
	return s.valid
}

// Float64 returns the rounded value, or 0 for the sentinel.
func (s Stat) Float64() float64 {
	if !s.valid {
		return 0
	}
	return s.value.InexactFloat64()
}

// Cmp compares two valid stats the way decimal.Cmp does.
func (s Stat) Cmp(o Stat) int {
	return s.value.Cmp(o.value)
}

// String formats the value with exactly two decimals, e.g. "35.00".
func (s Stat) String() string {
	if !s.valid {
		return NoData
	}
	return s.value.StringFixed(statPlaces)
}

// In converts a Celsius stat into the given display unit.
func (s Stat) In(u Unit) Stat {
	if !s.valid || u != Kelvin {
		return s
	}
	return Stat{value: s.value.Add(kelvinOffset), valid: true}
}

// MarshalJSON renders the stat as its formatted string.
func (s Stat) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Unit is a temperature display unit. Stored values are always Celsius.
type Unit string

const (
	Celsius Unit = "C"
	Kelvin  Unit = "K"
)

var kelvinOffset = decimal.RequireFromString("273.15")

// ParseUnit accepts "C" or "K" in any case.
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToUpper(strings.TrimSpace(s))) {
	case Celsius:
		return Celsius, nil
	case Kelvin:
		return Kelvin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
}

// Convert converts a Celsius value into u, rounded to two decimals.
func (u Unit) Convert(celsius float64) Stat {
	return NewStat(celsius).In(u)
}

type trendJSON struct {
	City   City `json:"city"`
	Trends any  `json:"trends"`
}

// MarshalJSON renders the trend points, or the NoData sentinel in place of
// the list when the city has no samples.
func (t HistoricalTrend) MarshalJSON() ([]byte, error) {
	out := trendJSON{City: t.City, Trends: NoData}
	if t.HasData() {
		out.Trends = t.Points
	}
	return json.Marshal(out)
}
