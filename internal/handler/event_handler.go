package handler

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/fakhrymubarak/parade-weather/internal/metrics"
	"github.com/fakhrymubarak/parade-weather/internal/middleware"
	"github.com/fakhrymubarak/parade-weather/internal/model"
	"github.com/fakhrymubarak/parade-weather/internal/redis"
	"github.com/fakhrymubarak/parade-weather/internal/service"
)

// SubmissionLocker marks a client busy for the duration of one submission.
type SubmissionLocker interface {
	Acquire(ctx context.Context, clientKey string) (release func(), err error)
}

type EventHandler struct {
	EventService service.EventServiceInterface
	Guard        SubmissionLocker
	Metrics      *metrics.Metrics
}

func NewEventHandler(svc service.EventServiceInterface, guard SubmissionLocker, m *metrics.Metrics) *EventHandler {
	return &EventHandler{EventService: svc, Guard: guard, Metrics: m}
}

const maxFormBytes = 1 << 16

// decodeEventRequest accepts a JSON body or an HTML form post.
func decodeEventRequest(r *http.Request) (model.EventRequest, error) {
	var req model.EventRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxFormBytes)).Decode(&req)
		return req, err
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.City = r.PostForm.Get("city")
	req.EventName = r.PostForm.Get("eventName")
	req.Date = r.PostForm.Get("date")
	return req, nil
}

// HandleAssess runs one form submission. Only an unreadable body, validation
// failures, the per-city rate limit, or a submission already in flight produce
// an error status.
func (h *EventHandler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFromContext(r.Context())

	req, err := decodeEventRequest(r)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, model.ErrorResponse("Could not read submission", "Error"))
		return
	}

	req, err = h.EventService.Validate(req)
	if err != nil {
		h.reject("validation")
		writeJSONResponse(w, http.StatusBadRequest, model.ErrorResponse(err.Error(), "Error"))
		return
	}

	clientIP := middleware.ClientIP(r)
	if !middleware.AllowParam(clientIP, req.City) {
		h.reject("rate_limited")
		middleware.WriteParamLimitExceeded(w)
		return
	}

	if h.Guard != nil {
		release, err := h.Guard.Acquire(r.Context(), clientIP)
		switch {
		case errors.Is(err, redis.ErrBusy):
			h.reject("busy")
			writeJSONResponse(w, http.StatusConflict, model.ErrorResponse(redis.ErrBusy.Error(), "Error"))
			return
		case err != nil:
			// The busy flag is best effort; a Redis outage must not block submissions.
			logger.Warnw("Submission guard unavailable", "error", err)
		default:
			defer release()
		}
	}

	dashboard, err := h.EventService.Assess(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeJSONResponse(w, http.StatusBadRequest, model.ErrorResponse(err.Error(), "Error"))
			return
		}
		logger.Errorw("Assessment failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, model.ErrorResponse("Failed to assess event", "Error"))
		return
	}

	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    dashboard,
		Message: "Success",
	})
}

func (h *EventHandler) reject(reason string) {
	if h.Metrics != nil {
		h.Metrics.RejectedSubmissions.WithLabelValues(reason).Inc()
	}
}
