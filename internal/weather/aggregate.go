package weather

import (
	"fmt"
	"strconv"
	"time"
)

// TrendLength is the number of samples kept in a city's trend.
const TrendLength = 7

// TrendDateLayout is the layout of TrendPoint.Date.
const TrendDateLayout = "2006-01-02"

// Summarize computes one DailySummary per known city, in canonical order.
// Numeric fields are averaged over every retained sample of the city; the
// condition is selected by majority, ties going to the first encountered.
func Summarize(retained []WeatherSample) []DailySummary {
	summaries := make([]DailySummary, 0, len(Cities))
	for _, city := range Cities {
		summaries = append(summaries, summarizeCity(city, filterCity(retained, city)))
	}
	return summaries
}

func summarizeCity(city City, samples []WeatherSample) DailySummary {
	if len(samples) == 0 {
		return DailySummary{
			City:              city,
			DominantCondition: NoData,
		}
	}

	var (
		sumTemp     float64
		sumHumidity float64
		sumWind     float64
	)
	maxTemp := samples[0].Temp
	minTemp := samples[0].Temp

	conditionCounts := make(map[Condition]int)
	var order []Condition

	for _, s := range samples {
		sumTemp += s.Temp
		sumHumidity += s.Humidity
		sumWind += s.WindSpeed

		maxTemp = max(maxTemp, s.Temp)
		minTemp = min(minTemp, s.Temp)

		if _, ok := conditionCounts[s.Condition]; !ok {
			order = append(order, s.Condition)
		}
		conditionCounts[s.Condition]++
	}

	n := float64(len(samples))

	// Pick majority condition; iterating in first-seen order keeps ties stable.
	var bestCond Condition
	bestCount := 0
	for _, cond := range order {
		if count := conditionCounts[cond]; count > bestCount {
			bestCount = count
			bestCond = cond
		}
	}

	return DailySummary{
		City:              city,
		AvgTemp:           NewStat(sumTemp / n),
		MaxTemp:           NewStat(maxTemp),
		MinTemp:           NewStat(minTemp),
		AvgHumidity:       NewStat(sumHumidity / n),
		AvgWindSpeed:      NewStat(sumWind / n),
		DominantCondition: string(bestCond),
	}
}

// Trends computes one HistoricalTrend per known city, in canonical order.
// A trend holds the last TrendLength samples of the city in retained order,
// which is merge order and not necessarily chronological.
func Trends(retained []WeatherSample) []HistoricalTrend {
	trends := make([]HistoricalTrend, 0, len(Cities))
	for _, city := range Cities {
		samples := filterCity(retained, city)
		if len(samples) > TrendLength {
			samples = samples[len(samples)-TrendLength:]
		}

		points := make([]TrendPoint, 0, len(samples))
		for _, s := range samples {
			points = append(points, TrendPoint{
				Date: time.Unix(s.ObservedAt, 0).UTC().Format(TrendDateLayout),
				Temp: s.Temp,
			})
		}
		trends = append(trends, HistoricalTrend{City: city, Points: points})
	}
	return trends
}

// CheckAlerts counts the samples of newData whose temperature strictly
// exceeds threshold. Only the given batch is considered.
func CheckAlerts(newData []WeatherSample, threshold float64) Alert {
	count := 0
	for _, s := range newData {
		if s.Temp > threshold {
			count++
		}
	}
	if count == 0 {
		return Alert{}
	}
	return Alert{
		Count:     count,
		Threshold: threshold,
		Message: fmt.Sprintf("Alert: %d cities have exceeded the threshold of %s°C!",
			count, strconv.FormatFloat(threshold, 'f', -1, 64)),
	}
}

func filterCity(samples []WeatherSample, city City) []WeatherSample {
	var out []WeatherSample
	for _, s := range samples {
		if s.City == city {
			out = append(out, s)
		}
	}
	return out
}
