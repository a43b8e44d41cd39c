package service

import (
	"context"
	"errors"
	"time"

	"github.com/fakhrymubarak/parade-weather/internal/config"
	"github.com/fakhrymubarak/parade-weather/internal/metrics"
	"github.com/fakhrymubarak/parade-weather/internal/model"
	"github.com/fakhrymubarak/parade-weather/internal/repository"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"
)

// WeatherServiceInterface acquires weather for a city. Implementations never
// fail: any acquisition error yields a synthetic snapshot.
type WeatherServiceInterface interface {
	Acquire(ctx context.Context, city string) model.WeatherSnapshot
	AcquireWithForecast(ctx context.Context, city string) (model.WeatherSnapshot, []model.ForecastDay)
}

type WeatherService struct {
	Geocoder    repository.GeocodeRepository
	WeatherRepo repository.WeatherRepository
	Synthetic   *SyntheticGenerator
	Metrics     *metrics.Metrics
}

// NewWeatherService wires the acquisition service. Nil dependencies get production defaults,
// except m, which stays nil and disables metrics.
func NewWeatherService(geo repository.GeocodeRepository, weather repository.WeatherRepository, synth *SyntheticGenerator, m *metrics.Metrics) *WeatherService {
	if geo == nil {
		geo = repository.NewGeocodeRepository()
	}
	if weather == nil {
		weather = repository.NewWeatherRepository()
	}
	if synth == nil {
		synth = NewSyntheticGenerator(nil)
	}
	return &WeatherService{
		Geocoder:    geo,
		WeatherRepo: weather,
		Synthetic:   synth,
		Metrics:     m,
	}
}

// Acquire returns current conditions for city, or a synthetic snapshot if any step fails.
func (s *WeatherService) Acquire(ctx context.Context, city string) model.WeatherSnapshot {
	snapshot, _ := s.acquire(ctx, city, false)
	return snapshot
}

// AcquireWithForecast also returns the daily forecast. A forecast failure leaves the
// forecast empty without making the current snapshot synthetic; synthetic snapshots
// never carry a forecast.
func (s *WeatherService) AcquireWithForecast(ctx context.Context, city string) (model.WeatherSnapshot, []model.ForecastDay) {
	return s.acquire(ctx, city, true)
}

func (s *WeatherService) acquire(ctx context.Context, city string, withForecast bool) (model.WeatherSnapshot, []model.ForecastDay) {
	logger := config.GetLogger()
	start := time.Now()
	defer func() {
		if s.Metrics != nil {
			s.Metrics.AcquisitionDuration.Observe(time.Since(start).Seconds())
		}
	}()

	snapshot, forecast, err := s.fetchLive(ctx, city, withForecast)
	if err != nil {
		reason := failureReason(err)
		logger.Warnw("Falling back to synthetic weather", "city", city, "reason", reason, "error", err)
		if s.Metrics != nil {
			s.Metrics.AcquisitionFailures.WithLabelValues(reason).Inc()
			s.Metrics.Acquisitions.WithLabelValues("synthetic").Inc()
		}
		return s.Synthetic.Snapshot(city), nil
	}

	if s.Metrics != nil {
		s.Metrics.Acquisitions.WithLabelValues("live").Inc()
	}
	return snapshot, forecast
}

// fetchLive geocodes first, then requests current conditions and the forecast concurrently.
func (s *WeatherService) fetchLive(ctx context.Context, city string, withForecast bool) (model.WeatherSnapshot, []model.ForecastDay, error) {
	coords, err := s.Geocoder.Geocode(ctx, city)
	if err != nil {
		return model.WeatherSnapshot{}, nil, err
	}

	var (
		snapshot model.WeatherSnapshot
		forecast []model.ForecastDay
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = s.WeatherRepo.GetCurrent(gctx, city, coords)
		return err
	})
	if withForecast {
		g.Go(func() error {
			days, err := s.WeatherRepo.GetForecast(gctx, coords)
			if err != nil {
				if gctx.Err() == nil {
					config.GetLogger().Warnw("Forecast unavailable", "city", city, "error", err)
					if s.Metrics != nil {
						s.Metrics.ForecastFailures.Inc()
					}
				}
				return nil
			}
			forecast = days
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.WeatherSnapshot{}, nil, err
	}
	return snapshot, forecast, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, repository.ErrLocationNotFound):
		return "location_not_found"
	case errors.Is(err, repository.ErrAPIKeyMissing):
		return "api_key_missing"
	case errors.Is(err, repository.ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, repository.ErrExternalAPI):
		return "external_api"
	}
	return "other"
}
