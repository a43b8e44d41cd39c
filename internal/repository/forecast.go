package repository

import (
	"math"
	"slices"
	"time"

	"github.com/fakhrymubarak/parade-weather/internal/model"
)

// MaxForecastDays caps the number of days returned from a forecast.
const MaxForecastDays = 5

type dayAccumulator struct {
	date        time.Time
	tempSum     float64
	humSum      int
	count       int
	windMax     float64
	rainSum     float64
	description string
	noonGap     int // hours between the chosen description's entry and 12:00
}

// AggregateForecast groups 3-hour entries by local calendar date, using the
// city's UTC offset. Per day: mean temperature, max wind, summed rain, mean
// humidity, and the description nearest local noon. Days are chronological.
func AggregateForecast(resp model.OpenWeatherMapForecastResponse) []model.ForecastDay {
	loc := time.FixedZone("", resp.City.Timezone)

	var order []string
	days := make(map[string]*dayAccumulator)
	for _, e := range resp.List {
		local := time.Unix(e.Dt, 0).In(loc)
		key := local.Format(model.DateLayout)
		acc, ok := days[key]
		if !ok {
			acc = &dayAccumulator{
				date:    time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
				noonGap: math.MaxInt,
			}
			days[key] = acc
			order = append(order, key)
		}
		acc.tempSum += e.Main.Temp
		acc.humSum += e.Main.Humidity
		acc.count++
		acc.windMax = math.Max(acc.windMax, e.Wind.Speed)
		if e.Rain != nil && e.Rain.ThreeHours != nil {
			acc.rainSum += *e.Rain.ThreeHours
		}
		if len(e.Weather) > 0 {
			gap := local.Hour() - 12
			if gap < 0 {
				gap = -gap
			}
			if gap < acc.noonGap {
				acc.noonGap = gap
				acc.description = e.Weather[0].Description
			}
		}
	}

	result := make([]model.ForecastDay, 0, len(order))
	for _, key := range order {
		acc := days[key]
		result = append(result, model.ForecastDay{
			Date:            acc.date,
			TemperatureC:    roundTenth(acc.tempSum / float64(acc.count)),
			WindSpeedMS:     acc.windMax,
			PrecipitationMM: roundTenth(acc.rainSum),
			HumidityPercent: int(math.Round(float64(acc.humSum) / float64(acc.count))),
			Description:     acc.description,
		})
	}
	slices.SortStableFunc(result, func(a, b model.ForecastDay) int { return a.Date.Compare(b.Date) })
	if len(result) > MaxForecastDays {
		result = result[:MaxForecastDays]
	}
	return result
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
