package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fakhrymubarak/parade-weather/internal/metrics"
	"github.com/fakhrymubarak/parade-weather/internal/model"
	"github.com/fakhrymubarak/parade-weather/internal/repository"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock geocoder for testing
type mockGeocoder struct {
	err    error
	coords model.Coordinates
	calls  int32
}

func (m *mockGeocoder) Geocode(ctx context.Context, city string) (model.Coordinates, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.err != nil {
		return model.Coordinates{}, m.err
	}
	return m.coords, nil
}

// Mock weather repository for testing
type mockWeatherRepository struct {
	currentErr   error
	forecastErr  error
	current      model.WeatherSnapshot
	forecast     []model.ForecastDay
	currentCalls int32
	gotCoords    model.Coordinates
}

func (m *mockWeatherRepository) GetCurrent(ctx context.Context, city string, coords model.Coordinates) (model.WeatherSnapshot, error) {
	atomic.AddInt32(&m.currentCalls, 1)
	m.gotCoords = coords
	if m.currentErr != nil {
		return model.WeatherSnapshot{}, m.currentErr
	}
	s := m.current
	s.City = city
	return s, nil
}

func (m *mockWeatherRepository) GetForecast(ctx context.Context, coords model.Coordinates) ([]model.ForecastDay, error) {
	if m.forecastErr != nil {
		return nil, m.forecastErr
	}
	return m.forecast, nil
}

var (
	_ repository.GeocodeRepository = (*mockGeocoder)(nil)
	_ repository.WeatherRepository = (*mockWeatherRepository)(nil)
	_ WeatherServiceInterface      = (*WeatherService)(nil)
)

var liveSnapshot = model.WeatherSnapshot{
	TemperatureC:    18,
	WindSpeedMS:     3.2,
	PrecipitationMM: 0,
	HumidityPercent: 55,
	Description:     "clear sky",
}

func newTestService(geo *mockGeocoder, repo *mockWeatherRepository) (*WeatherService, *metrics.Metrics) {
	m := metrics.NewMetricsForTesting()
	return NewWeatherService(geo, repo, NewSyntheticGenerator(nil), m), m
}

func TestWeatherService_Acquire(t *testing.T) {
	tests := []struct {
		name          string
		geocoder      *mockGeocoder
		repo          *mockWeatherRepository
		wantSynthetic bool
		wantReason    string
		wantRepoCalls int32
	}{
		{
			name:          "Live data",
			geocoder:      &mockGeocoder{coords: model.Coordinates{Latitude: 40.4, Longitude: -3.7}},
			repo:          &mockWeatherRepository{current: liveSnapshot},
			wantRepoCalls: 1,
		},
		{
			name:          "Geocode finds nothing",
			geocoder:      &mockGeocoder{err: fmt.Errorf("%w: %q", repository.ErrLocationNotFound, "Zzzznotreal")},
			repo:          &mockWeatherRepository{current: liveSnapshot},
			wantSynthetic: true,
			wantReason:    "location_not_found",
			wantRepoCalls: 0,
		},
		{
			name:          "Weather provider rejects the key",
			geocoder:      &mockGeocoder{},
			repo:          &mockWeatherRepository{currentErr: fmt.Errorf("%w: weather status 401", repository.ErrExternalAPI)},
			wantSynthetic: true,
			wantReason:    "external_api",
			wantRepoCalls: 1,
		},
		{
			name:          "Both calls fail",
			geocoder:      &mockGeocoder{err: repository.ErrExternalAPI},
			repo:          &mockWeatherRepository{currentErr: repository.ErrExternalAPI},
			wantSynthetic: true,
			wantReason:    "external_api",
		},
		{
			name:          "Malformed payload",
			geocoder:      &mockGeocoder{},
			repo:          &mockWeatherRepository{currentErr: repository.ErrMalformedPayload},
			wantSynthetic: true,
			wantReason:    "malformed_payload",
			wantRepoCalls: 1,
		},
		{
			name:          "Open circuit",
			geocoder:      &mockGeocoder{err: fmt.Errorf("%w: %w", repository.ErrExternalAPI, gobreaker.ErrOpenState)},
			repo:          &mockWeatherRepository{},
			wantSynthetic: true,
			wantReason:    "circuit_open",
		},
		{
			name:          "Missing API key",
			geocoder:      &mockGeocoder{},
			repo:          &mockWeatherRepository{currentErr: repository.ErrAPIKeyMissing},
			wantSynthetic: true,
			wantReason:    "api_key_missing",
			wantRepoCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(tt.geocoder, tt.repo)

			got := svc.Acquire(context.Background(), "Zzzznotreal")

			assert.Equal(t, "Zzzznotreal", got.City)
			assert.Equal(t, tt.wantSynthetic, got.IsSynthetic)
			assert.Equal(t, tt.wantRepoCalls, atomic.LoadInt32(&tt.repo.currentCalls))
			if tt.wantSynthetic {
				assert.Contains(t, SyntheticDescriptions, got.Description)
				assert.Equal(t, 1.0, testutil.ToFloat64(m.AcquisitionFailures.WithLabelValues(tt.wantReason)))
				assert.Equal(t, 1.0, testutil.ToFloat64(m.Acquisitions.WithLabelValues("synthetic")))
			} else {
				assert.Equal(t, liveSnapshot.TemperatureC, got.TemperatureC)
				assert.Equal(t, liveSnapshot.Description, got.Description)
				assert.Equal(t, 1.0, testutil.ToFloat64(m.Acquisitions.WithLabelValues("live")))
			}
		})
	}
}

func TestWeatherService_UsesGeocodedCoordinates(t *testing.T) {
	coords := model.Coordinates{Latitude: -33.87, Longitude: 151.21}
	repo := &mockWeatherRepository{current: liveSnapshot}
	svc, _ := newTestService(&mockGeocoder{coords: coords}, repo)

	svc.Acquire(context.Background(), "Sydney")
	assert.Equal(t, coords, repo.gotCoords)
}

func TestWeatherService_AcquireWithForecast(t *testing.T) {
	days := []model.ForecastDay{
		{Date: time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), TemperatureC: 20},
		{Date: time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC), TemperatureC: 22},
	}
	svc, _ := newTestService(&mockGeocoder{}, &mockWeatherRepository{current: liveSnapshot, forecast: days})

	snap, forecast := svc.AcquireWithForecast(context.Background(), "Madrid")
	assert.False(t, snap.IsSynthetic)
	assert.Equal(t, days, forecast)
}

func TestWeatherService_ForecastFailureKeepsLiveSnapshot(t *testing.T) {
	repo := &mockWeatherRepository{current: liveSnapshot, forecastErr: repository.ErrExternalAPI}
	svc, m := newTestService(&mockGeocoder{}, repo)

	snap, forecast := svc.AcquireWithForecast(context.Background(), "Madrid")
	assert.False(t, snap.IsSynthetic)
	assert.Empty(t, forecast)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ForecastFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Acquisitions.WithLabelValues("live")))
}

func TestWeatherService_SyntheticHasNoForecast(t *testing.T) {
	repo := &mockWeatherRepository{currentErr: repository.ErrExternalAPI, forecast: []model.ForecastDay{{TemperatureC: 1}}}
	svc, _ := newTestService(&mockGeocoder{}, repo)

	snap, forecast := svc.AcquireWithForecast(context.Background(), "Madrid")
	assert.True(t, snap.IsSynthetic)
	assert.Nil(t, forecast)
}

func TestNewWeatherService_Defaults(t *testing.T) {
	svc := NewWeatherService(nil, nil, nil, nil)
	require.NotNil(t, svc)
	assert.NotNil(t, svc.Geocoder)
	assert.NotNil(t, svc.WeatherRepo)
	assert.NotNil(t, svc.Synthetic)
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "timeout", failureReason(fmt.Errorf("%w: %w", repository.ErrExternalAPI, context.DeadlineExceeded)))
	assert.Equal(t, "other", failureReason(fmt.Errorf("boom")))
}

// countingTransport fails every request and counts how many reach it.
type countingTransport struct {
	calls int32
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	atomic.AddInt32(&c.calls, 1)
	return nil, errors.New("connection refused")
}

func TestWeatherService_OpenBreakerFallsBackWithoutNetwork(t *testing.T) {
	transport := &countingTransport{}
	client := &http.Client{Transport: transport}
	m := metrics.NewMetricsForTesting()
	svc := NewWeatherService(
		repository.NewGeocodeRepository(client),
		repository.NewWeatherRepository(client),
		NewSyntheticGenerator(nil),
		m,
	)

	// Five consecutive geocode failures open the breaker
	for i := 0; i < 5; i++ {
		got := svc.Acquire(context.Background(), "Oslo")
		require.True(t, got.IsSynthetic)
	}
	require.Equal(t, int32(5), atomic.LoadInt32(&transport.calls))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.AcquisitionFailures.WithLabelValues("external_api")))

	got := svc.Acquire(context.Background(), "Oslo")
	assert.True(t, got.IsSynthetic)
	assert.Equal(t, "Oslo", got.City)
	assert.Equal(t, int32(5), atomic.LoadInt32(&transport.calls), "an open breaker makes no request")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AcquisitionFailures.WithLabelValues("circuit_open")))
}
