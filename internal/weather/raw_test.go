package weather

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRawSamples_WireVariants(t *testing.T) {
	payload := `[
		{"city":"Bengaluru","temp":40,"feels_like":42,"humidity":50,"wind_speed":"5.0","main":"Clear","dt":1000},
		{"city":"Delhi","temp":"31.5","humidity":"40","windSpeed":3,"condition":"Haze","observedAt":2000},
		{"city":"Mumbai","temp":"hot","humidity":50,"wind_speed":1,"main":"Rain","dt":3000},
		"not an object"
	]`

	samples, skipped, err := DecodeRawSamples([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, samples, 2)

	assert.Equal(t, "Bengaluru", samples[0].City)
	assert.Equal(t, json.Number("5.0"), samples[0].WindSpeed)
	assert.Equal(t, json.Number("42"), samples[0].FeelsLike)
	assert.Equal(t, "Clear", samples[0].Condition)
	assert.Equal(t, int64(1000), samples[0].ObservedAt)

	assert.Equal(t, json.Number("31.5"), samples[1].Temp)
	assert.Equal(t, json.Number("3"), samples[1].WindSpeed)
	assert.Equal(t, "Haze", samples[1].Condition)
	assert.Equal(t, int64(2000), samples[1].ObservedAt)
}

func TestDecodeRawSamples_NotAnArray(t *testing.T) {
	_, _, err := DecodeRawSamples([]byte(`{"city":"Delhi"}`))
	assert.Error(t, err)
}

func TestDecodeRawForecasts(t *testing.T) {
	payload := `[
		{"city":"Bengaluru","temp":27.4,"condition":"Clouds"},
		{"city":"Delhi","temp":30,"main":"Clear"},
		{"city":"Chennai","temp":29}
	]`

	forecasts, skipped, err := DecodeRawForecasts([]byte(payload))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, forecasts, 3)

	normalized := NormalizeForecasts(forecasts, testNow)
	require.Len(t, normalized, 3)
	assert.Equal(t, Bangalore, normalized[0].City)
	assert.Equal(t, Condition("Clouds"), normalized[0].Condition)
	assert.Equal(t, ConditionClear, normalized[1].Condition)
	assert.Equal(t, Condition(NoData), normalized[2].Condition)
	assert.Equal(t, testNow, normalized[2].RetrievedAt)
}
