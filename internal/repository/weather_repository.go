package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fakhrymubarak/parade-weather/internal/config"
	"github.com/fakhrymubarak/parade-weather/internal/model"
)

// WeatherRepository defines the interface for weather data access
type WeatherRepository interface {
	GetCurrent(ctx context.Context, city string, coords model.Coordinates) (model.WeatherSnapshot, error)
	GetForecast(ctx context.Context, coords model.Coordinates) ([]model.ForecastDay, error)
}

// weatherRepository implements WeatherRepository against OpenWeatherMap.
type weatherRepository struct {
	current  *providerClient
	forecast *providerClient
}

// NewWeatherRepository creates a new weather repository instance
func NewWeatherRepository(httpClient ...*http.Client) WeatherRepository {
	var client *http.Client
	if len(httpClient) > 0 {
		client = httpClient[0]
	}
	return &weatherRepository{
		current:  newProviderClient("openweathermap-current", "", client),
		forecast: newProviderClient("openweathermap-forecast", "", client),
	}
}

func coordinateQuery(coords model.Coordinates, apiKey string) string {
	params := url.Values{
		"lat":   {strconv.FormatFloat(coords.Latitude, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(coords.Longitude, 'f', -1, 64)},
		"units": {"metric"},
		"appid": {apiKey},
	}
	return params.Encode()
}

// GetCurrent fetches current conditions for coords. The snapshot carries the requested city name.
func (r *weatherRepository) GetCurrent(ctx context.Context, city string, coords model.Coordinates) (model.WeatherSnapshot, error) {
	apiKey := config.GetOpenWeatherMapAPIKey()
	if apiKey == "" {
		return model.WeatherSnapshot{}, ErrAPIKeyMissing
	}

	resp, err := r.current.get(ctx, config.GetOpenWeatherApiUrl()+"?"+coordinateQuery(coords, apiKey))
	if err != nil {
		return model.WeatherSnapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return model.WeatherSnapshot{}, ErrLocationNotFound
		}
		return model.WeatherSnapshot{}, fmt.Errorf("%w: weather status %d", ErrExternalAPI, resp.StatusCode)
	}

	var data model.OpenWeatherMapResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("%w: decode weather: %v", ErrMalformedPayload, err)
	}
	if data.Main == nil || data.Wind == nil || len(data.Weather) == 0 {
		return model.WeatherSnapshot{}, fmt.Errorf("%w: missing main, wind or weather", ErrMalformedPayload)
	}

	snapshot := model.WeatherSnapshot{
		City:            city,
		TemperatureC:    data.Main.Temp,
		WindSpeedMS:     data.Wind.Speed,
		HumidityPercent: data.Main.Humidity,
		Description:     data.Weather[0].Description,
		IsSynthetic:     false,
	}
	if data.Rain != nil && data.Rain.OneHour != nil {
		snapshot.PrecipitationMM = *data.Rain.OneHour
	}
	return snapshot, nil
}

// GetForecast fetches the 5 day / 3 hour forecast for coords and aggregates it per local day.
func (r *weatherRepository) GetForecast(ctx context.Context, coords model.Coordinates) ([]model.ForecastDay, error) {
	apiKey := config.GetOpenWeatherMapAPIKey()
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	resp, err := r.forecast.get(ctx, config.GetOpenWeatherForecastUrl()+"?"+coordinateQuery(coords, apiKey))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: forecast status %d", ErrExternalAPI, resp.StatusCode)
	}

	var data model.OpenWeatherMapForecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode forecast: %v", ErrMalformedPayload, err)
	}
	return AggregateForecast(data), nil
}
