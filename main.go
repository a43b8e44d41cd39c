package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakhrymubarak/parade-weather/internal/config"
	"github.com/fakhrymubarak/parade-weather/internal/handler"
	"github.com/fakhrymubarak/parade-weather/internal/metrics"
	"github.com/fakhrymubarak/parade-weather/internal/middleware"
	"github.com/fakhrymubarak/parade-weather/internal/redis"
	"github.com/fakhrymubarak/parade-weather/internal/repository"
	"github.com/fakhrymubarak/parade-weather/internal/service"
	"github.com/jonboulle/clockwork"
)

func newServer(m *metrics.Metrics) *http.Server {
	weatherService := service.NewWeatherService(
		repository.NewGeocodeRepository(),
		repository.NewWeatherRepository(),
		service.NewSyntheticGenerator(nil),
		m,
	)
	eventService := service.NewEventService(weatherService, clockwork.NewRealClock(), m)
	guard := redis.NewSubmissionGuard(redis.GetClient(), config.GetSubmissionLockTTL())

	router := handler.NewRouter(handler.Routes{
		Weather: handler.NewWeatherHandler(weatherService),
		Events:  handler.NewEventHandler(eventService, guard, m),
		Metrics: handler.DefaultMetricsHandler(),
	})

	return &http.Server{
		Addr:              ":" + config.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: config.GetServerTimeoutDuration("read_header_timeout", 15*time.Second),
		ReadTimeout:       config.GetServerTimeoutDuration("read_timeout", 15*time.Second),
		WriteTimeout:      config.GetServerTimeoutDuration("write_timeout", 20*time.Second),
		IdleTimeout:       config.GetServerTimeoutDuration("idle_timeout", 30*time.Second),
	}
}

func main() {
	logger := config.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	middleware.StartRateLimiterCleanup(ctx.Done())
	srv := newServer(metrics.NewMetrics())

	go func() {
		logger.Infow("Parade weather server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("Graceful shutdown failed", "error", err)
	}
	if err := redis.GetClient().Close(); err != nil {
		logger.Warnw("Closing redis client", "error", err)
	}
}
