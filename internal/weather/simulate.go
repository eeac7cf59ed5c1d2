package weather

import (
	"math"
	"math/rand/v2"
	"time"
)

const secondsPerDay = 86400

// simulatedConditions is the set the generator draws conditions from.
var simulatedConditions = []Condition{
	ConditionClear,
	ConditionCloudy,
	ConditionRain,
	ConditionStorm,
	ConditionFog,
}

// Generator produces random demo samples for every known city.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator. A nil rng uses a randomly seeded source
// and a nil now uses time.Now.
func NewGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// Generate returns days × len(Cities) samples. Day offset 0 is now and each
// further offset steps one day back.
func (g *Generator) Generate(days int) []WeatherSample {
	if days <= 0 {
		return nil
	}

	now := g.now()
	base := now.Unix()
	samples := make([]WeatherSample, 0, days*len(Cities))

	for day := 0; day < days; day++ {
		for _, city := range Cities {
			temp := float64(g.rng.IntN(50))
			feelsLike := temp + float64(g.rng.IntN(5))

			samples = append(samples, WeatherSample{
				City:       city,
				Temp:       temp,
				FeelsLike:  &feelsLike,
				Humidity:   float64(g.rng.IntN(100)),
				WindSpeed:  math.Floor(g.rng.Float64()*200) / 10,
				Condition:  simulatedConditions[g.rng.IntN(len(simulatedConditions))],
				ObservedAt: base - int64(day)*secondsPerDay,
				CapturedAt: now,
			})
		}
	}
	return samples
}
