package model

import "time"

// WeatherSnapshot is a single point-in-time reading, either observed or synthetic.
// IsSynthetic is true only when live acquisition failed and placeholder data was substituted.
type WeatherSnapshot struct {
	City            string  `json:"city"`
	TemperatureC    float64 `json:"temperatureC"`
	WindSpeedMS     float64 `json:"windSpeedMS"`
	PrecipitationMM float64 `json:"precipitationMM"`
	HumidityPercent int     `json:"humidityPercent"`
	Description     string  `json:"description"`
	IsSynthetic     bool    `json:"isSynthetic"`
}

// ForecastDay aggregates one local calendar day of forecast entries.
type ForecastDay struct {
	Date            time.Time `json:"date"`
	TemperatureC    float64   `json:"temperatureC"`
	WindSpeedMS     float64   `json:"windSpeedMS"`
	PrecipitationMM float64   `json:"precipitationMM"`
	HumidityPercent int       `json:"humidityPercent"`
	Description     string    `json:"description"`
}

// Snapshot views a forecast day as a snapshot for the given city so it can be evaluated.
func (d ForecastDay) Snapshot(city string) WeatherSnapshot {
	return WeatherSnapshot{
		City:            city,
		TemperatureC:    d.TemperatureC,
		WindSpeedMS:     d.WindSpeedMS,
		PrecipitationMM: d.PrecipitationMM,
		HumidityPercent: d.HumidityPercent,
		Description:     d.Description,
	}
}
