package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-monitor/internal/weather"
)

type coordinates struct {
	Lat, Lon float64
}

// cityCoordinates locates the tracked cities for coordinate-only APIs.
var cityCoordinates = map[weather.City]coordinates{
	weather.Delhi:     {28.6139, 77.2090},
	weather.Mumbai:    {19.0760, 72.8777},
	weather.Chennai:   {13.0827, 80.2707},
	weather.Bangalore: {12.9716, 77.5946},
	weather.Kolkata:   {22.5726, 88.3639},
	weather.Hyderabad: {17.3850, 78.4867},
}

// OpenMeteoSource implements weather.Source for Open-Meteo. It needs no API
// key.
type OpenMeteoSource struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoSource(client *http.Client, backoff BackoffConfig) *OpenMeteoSource {
	return &OpenMeteoSource{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoSource) Name() string {
	return p.name
}

func (p *OpenMeteoSource) FetchCurrent(ctx context.Context) ([]weather.RawSample, error) {
	return fetchPerCity(ctx, p.name, func(ctx context.Context, city weather.City) (weather.RawSample, error) {
		values := url.Values{}
		values.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,wind_speed_10m,weather_code")

		var payload struct {
			Current struct {
				Time        int64   `json:"time"`
				Temperature float64 `json:"temperature_2m"`
				Humidity    float64 `json:"relative_humidity_2m"`
				FeelsLike   float64 `json:"apparent_temperature"`
				WindSpeed   float64 `json:"wind_speed_10m"`
				WeatherCode int     `json:"weather_code"`
			} `json:"current"`
		}
		if err := p.getJSON(ctx, city, values, &payload); err != nil {
			return weather.RawSample{}, err
		}

		cur := payload.Current
		return weather.RawSample{
			City:       string(city),
			Temp:       formatNumber(cur.Temperature),
			FeelsLike:  formatNumber(cur.FeelsLike),
			Humidity:   formatNumber(cur.Humidity),
			WindSpeed:  formatNumber(cur.WindSpeed),
			Condition:  string(mapOpenMeteoCondition(cur.WeatherCode)),
			ObservedAt: cur.Time,
		}, nil
	})
}

func (p *OpenMeteoSource) FetchForecast(ctx context.Context) ([]weather.RawForecast, error) {
	return fetchPerCity(ctx, p.name, func(ctx context.Context, city weather.City) (weather.RawForecast, error) {
		values := url.Values{}
		values.Set("daily", "temperature_2m_max,weather_code")
		values.Set("forecast_days", "1")

		var payload struct {
			Daily struct {
				TempMax     []float64 `json:"temperature_2m_max"`
				WeatherCode []int     `json:"weather_code"`
			} `json:"daily"`
		}
		if err := p.getJSON(ctx, city, values, &payload); err != nil {
			return weather.RawForecast{}, err
		}
		if len(payload.Daily.TempMax) == 0 {
			return weather.RawForecast{}, errors.New("empty daily forecast")
		}

		f := weather.RawForecast{
			City: string(city),
			Temp: formatNumber(payload.Daily.TempMax[0]),
		}
		if len(payload.Daily.WeatherCode) > 0 {
			f.Condition = string(mapOpenMeteoCondition(payload.Daily.WeatherCode[0]))
		}
		return f, nil
	})
}

func (p *OpenMeteoSource) getJSON(ctx context.Context, city weather.City, values url.Values, out any) error {
	loc, ok := cityCoordinates[city]
	if !ok {
		return fmt.Errorf("openmeteo: no coordinates for %s", city)
	}
	values.Set("latitude", fmt.Sprintf("%f", loc.Lat))
	values.Set("longitude", fmt.Sprintf("%f", loc.Lon))
	values.Set("timeformat", "unixtime")

	body, err := getBody(ctx, p.httpCfg, p.circuit, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return sourceDecodeError(err)
	}
	return nil
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// Mapping based on Open-Meteo weather codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionFog
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}
