package model

import "time"

type DataSource struct {
	Live   bool   `json:"live"`
	Notice string `json:"notice"`
}

// EventDayForecast is the forecast for the event date when it falls inside the forecast window.
type EventDayForecast struct {
	Day        ForecastDay    `json:"day"`
	Assessment RiskAssessment `json:"assessment"`
}

// Dashboard is everything the presentation layer needs to render one submission.
type Dashboard struct {
	Event            EventRequest      `json:"event"`
	Weather          WeatherSnapshot   `json:"weather"`
	Assessment       RiskAssessment    `json:"assessment"`
	Bands            MetricBands       `json:"bands"`
	Icon             string            `json:"icon"`
	Forecast         []ForecastDay     `json:"forecast"`
	EventDayForecast *EventDayForecast `json:"eventDayForecast,omitempty"`
	DataSource       DataSource        `json:"dataSource"`
	GeneratedAt      time.Time         `json:"generatedAt"`
}
