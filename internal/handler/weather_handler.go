package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fakhrymubarak/parade-weather/internal/config"
	"github.com/fakhrymubarak/parade-weather/internal/model"
	"github.com/fakhrymubarak/parade-weather/internal/service"
)

type WeatherHandler struct {
	WeatherService service.WeatherServiceInterface
}

func NewWeatherHandler(svc service.WeatherServiceInterface) *WeatherHandler {
	if svc == nil {
		svc = service.NewWeatherService(nil, nil, nil, nil)
	}
	return &WeatherHandler{
		WeatherService: svc,
	}
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
	}
}

// HandleWeather returns the current snapshot for ?city=. Acquisition failures
// still answer 200 with a snapshot flagged isSynthetic.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeJSONResponse(w, http.StatusBadRequest, model.ErrorResponse("Missing 'city' query parameter", "Error"))
		return
	}

	snapshot := h.WeatherService.Acquire(r.Context(), city)
	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    snapshot,
		Message: "Success",
	})
}
