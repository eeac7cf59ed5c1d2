package weather

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_TwoDays(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewPCG(1, 2)), func() time.Time { return testNow })

	samples := g.Generate(2)

	require.Len(t, samples, 2*len(Cities))

	byCity := make(map[City][]WeatherSample)
	for _, s := range samples {
		byCity[s.City] = append(byCity[s.City], s)
	}
	require.Len(t, byCity, len(Cities))
	for city, ss := range byCity {
		require.Len(t, ss, 2, city)
		assert.Equal(t, testNow.Unix(), ss[0].ObservedAt)
		assert.Equal(t, ss[0].ObservedAt-secondsPerDay, ss[1].ObservedAt)
	}
}

func TestGenerate_Ranges(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewPCG(7, 7)), nil)

	for _, s := range g.Generate(30) {
		assert.GreaterOrEqual(t, s.Temp, 0.0)
		assert.Less(t, s.Temp, 50.0)
		require.NotNil(t, s.FeelsLike)
		assert.GreaterOrEqual(t, *s.FeelsLike, s.Temp)
		assert.Less(t, *s.FeelsLike, s.Temp+5)
		assert.GreaterOrEqual(t, s.Humidity, 0.0)
		assert.Less(t, s.Humidity, 100.0)
		assert.GreaterOrEqual(t, s.WindSpeed, 0.0)
		assert.Less(t, s.WindSpeed, 20.0)
		assert.Contains(t, simulatedConditions, s.Condition)
	}
}

func TestGenerate_ZeroDays(t *testing.T) {
	assert.Empty(t, NewGenerator(nil, nil).Generate(0))
}
