package httpapi

import (
	"time"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// The view types below carry temperatures converted to the display unit.
// Stored values and statistics stay in Celsius.

type sampleView struct {
	City       weather.City      `json:"city"`
	Temp       weather.Stat      `json:"temp"`
	FeelsLike  *weather.Stat     `json:"feelsLike,omitempty"`
	Humidity   float64           `json:"humidity"`
	WindSpeed  float64           `json:"windSpeed"`
	Condition  weather.Condition `json:"condition"`
	ObservedAt int64             `json:"observedAt"`
	CapturedAt time.Time         `json:"capturedAt"`
}

type summaryView struct {
	City              weather.City `json:"city"`
	AvgTemp           weather.Stat `json:"avgTemp"`
	MaxTemp           weather.Stat `json:"maxTemp"`
	MinTemp           weather.Stat `json:"minTemp"`
	AvgHumidity       weather.Stat `json:"avgHumidity"`
	AvgWindSpeed      weather.Stat `json:"avgWindSpeed"`
	DominantCondition string       `json:"dominantCondition"`
}

type trendPointView struct {
	Date string       `json:"date"`
	Temp weather.Stat `json:"temp"`
}

type trendView struct {
	City   weather.City `json:"city"`
	Trends any          `json:"trends"` // []trendPointView or weather.NoData
}

type forecastView struct {
	City        weather.City      `json:"city"`
	Temp        weather.Stat      `json:"temp"`
	Condition   weather.Condition `json:"condition"`
	RetrievedAt time.Time         `json:"retrievedAt"`
}

type dashboardView struct {
	Unit      weather.Unit   `json:"unit"`
	Threshold float64        `json:"threshold"`
	Alert     weather.Alert  `json:"alert"`
	Latest    []sampleView   `json:"latest"`
	Summaries []summaryView  `json:"summaries"`
	Trends    []trendView    `json:"trends"`
	Forecasts []forecastView `json:"forecasts"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func displaySamples(samples []weather.WeatherSample, u weather.Unit) []sampleView {
	out := make([]sampleView, 0, len(samples))
	for _, s := range samples {
		v := sampleView{
			City:       s.City,
			Temp:       u.Convert(s.Temp),
			Humidity:   s.Humidity,
			WindSpeed:  s.WindSpeed,
			Condition:  s.Condition,
			ObservedAt: s.ObservedAt,
			CapturedAt: s.CapturedAt,
		}
		if s.FeelsLike != nil {
			fl := u.Convert(*s.FeelsLike)
			v.FeelsLike = &fl
		}
		out = append(out, v)
	}
	return out
}

func displaySummaries(summaries []weather.DailySummary, u weather.Unit) []summaryView {
	out := make([]summaryView, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, summaryView{
			City:              s.City,
			AvgTemp:           s.AvgTemp.In(u),
			MaxTemp:           s.MaxTemp.In(u),
			MinTemp:           s.MinTemp.In(u),
			AvgHumidity:       s.AvgHumidity,
			AvgWindSpeed:      s.AvgWindSpeed,
			DominantCondition: s.DominantCondition,
		})
	}
	return out
}

func displayTrends(trends []weather.HistoricalTrend, u weather.Unit) []trendView {
	out := make([]trendView, 0, len(trends))
	for _, t := range trends {
		if !t.HasData() {
			out = append(out, trendView{City: t.City, Trends: weather.NoData})
			continue
		}
		points := make([]trendPointView, 0, len(t.Points))
		for _, p := range t.Points {
			points = append(points, trendPointView{Date: p.Date, Temp: u.Convert(p.Temp)})
		}
		out = append(out, trendView{City: t.City, Trends: points})
	}
	return out
}

func displayForecasts(forecasts []weather.ForecastSample, u weather.Unit) []forecastView {
	out := make([]forecastView, 0, len(forecasts))
	for _, f := range forecasts {
		out = append(out, forecastView{
			City:        f.City,
			Temp:        u.Convert(f.Temp),
			Condition:   f.Condition,
			RetrievedAt: f.RetrievedAt,
		})
	}
	return out
}

func displayDashboard(v weather.Views, s weather.Settings) dashboardView {
	return dashboardView{
		Unit:      s.Unit,
		Threshold: s.Threshold,
		Alert:     v.Alert,
		Latest:    displaySamples(v.Latest, s.Unit),
		Summaries: displaySummaries(v.Summaries, s.Unit),
		Trends:    displayTrends(v.Trends, s.Unit),
		Forecasts: displayForecasts(v.Forecasts, s.Unit),
		UpdatedAt: v.UpdatedAt,
	}
}
