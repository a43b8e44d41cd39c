package risk

import "github.com/fakhrymubarak/parade-weather/internal/model"

// BandLimits are the display band thresholds. Wind and precipitation have a
// second, severe tier that the aggregate table does not.
type BandLimits struct {
	ColdBelowC          float64
	HotAboveC           float64
	WindElevatedAboveMS float64
	WindSevereAboveMS   float64
	RainElevatedAboveMM float64
	RainSevereAboveMM   float64
	DryBelowPercent     int
	HumidAbovePercent   int
}

var DisplayBandThresholds = BandLimits{
	ColdBelowC:          5,
	HotAboveC:           35,
	WindElevatedAboveMS: 30,
	WindSevereAboveMS:   50,
	RainElevatedAboveMM: 10,
	RainSevereAboveMM:   50,
	DryBelowPercent:     30,
	HumidAbovePercent:   80,
}

func TemperatureBand(c float64) model.Band {
	switch {
	case c < DisplayBandThresholds.ColdBelowC:
		return model.BandCold
	case c > DisplayBandThresholds.HotAboveC:
		return model.BandHot
	}
	return model.BandNormal
}

func WindBand(ms float64) model.Band {
	switch {
	case ms > DisplayBandThresholds.WindSevereAboveMS:
		return model.BandSevere
	case ms > DisplayBandThresholds.WindElevatedAboveMS:
		return model.BandElevated
	}
	return model.BandNormal
}

func PrecipitationBand(mm float64) model.Band {
	switch {
	case mm > DisplayBandThresholds.RainSevereAboveMM:
		return model.BandSevere
	case mm > DisplayBandThresholds.RainElevatedAboveMM:
		return model.BandElevated
	}
	return model.BandNormal
}

func HumidityBand(pct int) model.Band {
	switch {
	case pct > DisplayBandThresholds.HumidAbovePercent:
		return model.BandElevated
	case pct < DisplayBandThresholds.DryBelowPercent:
		return model.BandDry
	}
	return model.BandNormal
}

// ClassifyBands returns the display band of every metric in the snapshot.
func ClassifyBands(s model.WeatherSnapshot) model.MetricBands {
	return model.MetricBands{
		Temperature:   TemperatureBand(s.TemperatureC),
		Wind:          WindBand(s.WindSpeedMS),
		Precipitation: PrecipitationBand(s.PrecipitationMM),
		Humidity:      HumidityBand(s.HumidityPercent),
	}
}
