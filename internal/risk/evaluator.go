// Package risk classifies weather snapshots for event planning. It holds two
// independent threshold tables: one drives the aggregate status message, the
// other drives per-metric display bands. They overlap on some values and must
// be kept separate.
package risk

import (
	"strings"

	"github.com/fakhrymubarak/parade-weather/internal/model"
)

const (
	PerfectMessage = "Perfect conditions for your parade!"

	LabelHighWind           = "high wind"
	LabelRain               = "rain"
	LabelExtremeTemperature = "extreme temperature"
	LabelHighHumidity       = "high humidity"
)

// AggregateLimits are the thresholds for the aggregate status message.
// A metric is flagged when it is strictly beyond its limit.
type AggregateLimits struct {
	MaxWindMS          float64
	MaxPrecipitationMM float64
	MinTemperatureC    float64
	MaxTemperatureC    float64
	MaxHumidityPercent int
}

var AggregateThresholds = AggregateLimits{
	MaxWindMS:          30,
	MaxPrecipitationMM: 10,
	MinTemperatureC:    5,
	MaxTemperatureC:    35,
	MaxHumidityPercent: 80,
}

type check struct {
	label     string
	triggered func(model.WeatherSnapshot, AggregateLimits) bool
}

// checks run in this order and the message lists labels in the same order.
var checks = []check{
	{LabelHighWind, func(s model.WeatherSnapshot, l AggregateLimits) bool { return s.WindSpeedMS > l.MaxWindMS }},
	{LabelRain, func(s model.WeatherSnapshot, l AggregateLimits) bool { return s.PrecipitationMM > l.MaxPrecipitationMM }},
	{LabelExtremeTemperature, func(s model.WeatherSnapshot, l AggregateLimits) bool {
		return s.TemperatureC < l.MinTemperatureC || s.TemperatureC > l.MaxTemperatureC
	}},
	{LabelHighHumidity, func(s model.WeatherSnapshot, l AggregateLimits) bool { return s.HumidityPercent > l.MaxHumidityPercent }},
}

// Issues returns the triggered condition labels in fixed check order.
func Issues(s model.WeatherSnapshot) []string {
	var issues []string
	for _, c := range checks {
		if c.triggered(s, AggregateThresholds) {
			issues = append(issues, c.label)
		}
	}
	return issues
}

// Evaluate derives the aggregate status from the snapshot alone.
func Evaluate(s model.WeatherSnapshot) model.RiskAssessment {
	issues := Issues(s)
	if len(issues) == 0 {
		return model.RiskAssessment{Message: PerfectMessage, Severity: model.SeverityOK}
	}
	return model.RiskAssessment{
		Message:  "Be aware of " + strings.Join(issues, ", ") + " conditions",
		Severity: model.SeverityWarning,
	}
}
