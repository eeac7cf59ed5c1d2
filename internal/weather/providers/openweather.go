package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-monitor/internal/common"
	"github.com/i474232898/weather-monitor/internal/weather"
)

// countryCode is appended to city queries; all tracked cities are in India.
const countryCode = "IN"

// OpenWeatherSource implements weather.Source against OpenWeatherMap,
// issuing one request per tracked city.
type OpenWeatherSource struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherSource(client *http.Client, apiKey string, backoff BackoffConfig) *OpenWeatherSource {
	return &OpenWeatherSource{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherSource) Name() string {
	return p.name
}

// owmCurrent is the subset of the /weather payload we read.
type owmCurrent struct {
	Dt   int64  `json:"dt"`
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []owmCondition `json:"weather"`
}

type owmCondition struct {
	Main string `json:"main"`
}

func (p *OpenWeatherSource) FetchCurrent(ctx context.Context) ([]weather.RawSample, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: openweather api key is not configured", weather.ErrSourceUnavailable)
	}

	return fetchPerCity(ctx, p.name, func(ctx context.Context, city weather.City) (weather.RawSample, error) {
		var payload owmCurrent
		if err := p.getJSON(ctx, "/weather", city, nil, &payload); err != nil {
			return weather.RawSample{}, err
		}

		// The API may answer with an alias ("Bengaluru"); ingestion normalizes it.
		name := payload.Name
		if name == "" {
			name = string(city)
		}

		return weather.RawSample{
			City:       name,
			Temp:       formatNumber(payload.Main.Temp),
			FeelsLike:  formatNumber(payload.Main.FeelsLike),
			Humidity:   formatNumber(payload.Main.Humidity),
			WindSpeed:  formatNumber(payload.Wind.Speed),
			Condition:  string(mapOpenWeatherCondition(payload.Weather)),
			ObservedAt: payload.Dt,
		}, nil
	})
}

func (p *OpenWeatherSource) FetchForecast(ctx context.Context) ([]weather.RawForecast, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: openweather api key is not configured", weather.ErrSourceUnavailable)
	}

	return fetchPerCity(ctx, p.name, func(ctx context.Context, city weather.City) (weather.RawForecast, error) {
		var payload struct {
			List []struct {
				Main struct {
					Temp float64 `json:"temp"`
				} `json:"main"`
				Weather []owmCondition `json:"weather"`
			} `json:"list"`
		}
		extra := url.Values{}
		extra.Set("cnt", "1")
		if err := p.getJSON(ctx, "/forecast", city, extra, &payload); err != nil {
			return weather.RawForecast{}, err
		}
		if len(payload.List) == 0 {
			return weather.RawForecast{}, errors.New("empty forecast list")
		}

		entry := payload.List[0]
		f := weather.RawForecast{
			City: string(city),
			Temp: formatNumber(entry.Main.Temp),
		}
		if len(entry.Weather) > 0 {
			f.Condition = string(mapOpenWeatherCondition(entry.Weather))
		}
		return f, nil
	})
}

func (p *OpenWeatherSource) getJSON(ctx context.Context, path string, city weather.City, extra url.Values, out any) error {
	values := url.Values{}
	for k, v := range extra {
		values[k] = v
	}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("q", fmt.Sprintf("%s,%s", city, countryCode))

	body, err := getBody(ctx, p.httpCfg, p.circuit, fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode()))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return sourceDecodeError(err)
	}
	return nil
}

func mapOpenWeatherCondition(items []owmCondition) weather.Condition {
	if len(items) == 0 {
		return weather.ConditionUnknown
	}
	main := items[0].Main
	switch main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm", "Squall", "Tornado":
		return weather.ConditionStorm
	}
	if common.HasAny(main, "Mist", "Fog", "Haze", "Smoke", "Dust", "Sand") {
		return weather.ConditionFog
	}
	return weather.ConditionUnknown
}

func formatNumber(v float64) json.Number {
	return json.Number(strconv.FormatFloat(v, 'f', -1, 64))
}
