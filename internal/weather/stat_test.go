package weather

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat_Format(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{35, "35.00"},
		{3.333333, "3.33"},
		{2.675, "2.68"},
		{-4.5, "-4.50"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewStat(tt.in).String())
	}
	assert.Equal(t, NoData, NoDataStat().String())
	assert.Equal(t, NoData, Stat{}.String())
}

func TestStat_KelvinConversion(t *testing.T) {
	assert.Equal(t, "308.15", NewStat(35).In(Kelvin).String())
	assert.Equal(t, "35.00", NewStat(35).In(Celsius).String())
	assert.Equal(t, "273.15", Kelvin.Convert(0).String())
	assert.Equal(t, NoData, NoDataStat().In(Kelvin).String())
}

func TestStat_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(DailySummary{City: Delhi, AvgTemp: NewStat(12.5), DominantCondition: NoData})
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "12.50", got["avgTemp"])
	assert.Equal(t, NoData, got["maxTemp"])
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("k")
	require.NoError(t, err)
	assert.Equal(t, Kelvin, u)

	u, err = ParseUnit(" C ")
	require.NoError(t, err)
	assert.Equal(t, Celsius, u)

	_, err = ParseUnit("F")
	assert.True(t, errors.Is(err, ErrInvalidUnit))
}

func TestNewStat_NonFiniteIsNoData(t *testing.T) {
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		assert.False(t, NewStat(v).Valid())
		assert.Equal(t, NoData, NewStat(v).String())
	}
}
