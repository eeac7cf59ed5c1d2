package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i474232898/weather-monitor/internal/weather"
)

func TestMemoryStore_ReplaceCopies(t *testing.T) {
	s := NewMemoryStore()
	assert.Empty(t, s.Samples())

	in := []weather.WeatherSample{
		{City: weather.Delhi, Temp: 30, ObservedAt: 1},
		{City: weather.Mumbai, Temp: 31, ObservedAt: 1},
	}
	s.Replace(in)
	in[0].Temp = 99

	got := s.Samples()
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 30.0, got[0].Temp)

	got[1].Temp = 99
	assert.Equal(t, 31.0, s.Samples()[1].Temp)
}
