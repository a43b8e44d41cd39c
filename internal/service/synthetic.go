package service

import (
	"math"
	"math/rand/v2"

	"github.com/fakhrymubarak/parade-weather/internal/model"
)

// SyntheticDescriptions are the descriptions a placeholder snapshot can carry.
var SyntheticDescriptions = []string{"clear sky", "partly cloudy", "light rain", "sunny"}

// RandomSource is the randomness the fallback generator draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// globalSource uses the math/rand/v2 top-level functions, which are safe for concurrent use.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) IntN(n int) int   { return rand.IntN(n) }

// SyntheticGenerator builds placeholder snapshots when live acquisition fails.
type SyntheticGenerator struct {
	src RandomSource
}

// NewSyntheticGenerator creates a generator over src. A nil src uses the global source.
// A non-global src must not be shared across goroutines unless it is safe to do so.
func NewSyntheticGenerator(src RandomSource) *SyntheticGenerator {
	if src == nil {
		src = globalSource{}
	}
	return &SyntheticGenerator{src: src}
}

// Snapshot returns a synthetic snapshot for city:
// temperature round(15+u*20) in [15,35], wind in [0,15) and precipitation in
// [0,20) truncated to one decimal, humidity an integer in [40,80].
func (g *SyntheticGenerator) Snapshot(city string) model.WeatherSnapshot {
	precipitation := math.Floor(g.src.Float64()*200) / 10
	wind := math.Floor(g.src.Float64()*150) / 10
	humidity := 40 + g.src.IntN(41)
	temperature := math.Round(15 + g.src.Float64()*20)
	description := SyntheticDescriptions[g.src.IntN(len(SyntheticDescriptions))]

	return model.WeatherSnapshot{
		City:            city,
		TemperatureC:    temperature,
		WindSpeedMS:     wind,
		PrecipitationMM: precipitation,
		HumidityPercent: humidity,
		Description:     description,
		IsSynthetic:     true,
	}
}
