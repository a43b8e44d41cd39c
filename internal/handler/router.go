package handler

import (
	"net/http"

	"github.com/fakhrymubarak/parade-weather/internal/config"
	"github.com/fakhrymubarak/parade-weather/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes holds the handlers mounted by NewRouter. A nil Metrics handler leaves /metrics unmounted.
type Routes struct {
	Weather *WeatherHandler
	Events  *EventHandler
	Metrics http.Handler
}

func NewRouter(routes Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	if config.GetTrustProxy() {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID)

	r.Get("/healthz", HandleHealth)
	if routes.Metrics != nil {
		r.Handle("/metrics", routes.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware)
		r.Get("/weather", routes.Weather.HandleWeather)
		r.Post("/events/assess", routes.Events.HandleAssess)
	})
	return r
}

// DefaultMetricsHandler exposes the default Prometheus registry.
func DefaultMetricsHandler() http.Handler {
	return promhttp.Handler()
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
