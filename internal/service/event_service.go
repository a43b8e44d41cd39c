package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fakhrymubarak/parade-weather/internal/config"
	"github.com/fakhrymubarak/parade-weather/internal/metrics"
	"github.com/fakhrymubarak/parade-weather/internal/model"
	"github.com/fakhrymubarak/parade-weather/internal/risk"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
)

// ErrValidation is returned when a submitted form is incomplete or malformed.
// It is the only error Assess returns.
var ErrValidation = errors.New("please fill in all fields")

const (
	NoticeLive      = "Real weather data retrieved successfully"
	NoticeSynthetic = "Using sample data; live weather is unavailable"
)

type EventServiceInterface interface {
	Validate(req model.EventRequest) (model.EventRequest, error)
	Assess(ctx context.Context, req model.EventRequest) (*model.Dashboard, error)
}

type EventService struct {
	Weather  WeatherServiceInterface
	Clock    clockwork.Clock
	Metrics  *metrics.Metrics
	validate *validator.Validate
}

func NewEventService(weather WeatherServiceInterface, clock clockwork.Clock, m *metrics.Metrics) *EventService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &EventService{Weather: weather, Clock: clock, Metrics: m, validate: v}
}

// Validate normalizes req and checks the required fields. Acquisition is never
// attempted for a request that fails here.
func (s *EventService) Validate(req model.EventRequest) (model.EventRequest, error) {
	req = req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			problems := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				problems = append(problems, describeFieldError(fe))
			}
			return req, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
		}
		return req, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return req, nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "datetime":
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	}
	return fe.Field() + " is invalid"
}

// Assess validates the form, acquires weather, and builds the dashboard.
func (s *EventService) Assess(ctx context.Context, req model.EventRequest) (*model.Dashboard, error) {
	req, err := s.Validate(req)
	if err != nil {
		if s.Metrics != nil {
			s.Metrics.RejectedSubmissions.WithLabelValues("validation").Inc()
		}
		return nil, err
	}

	state := model.SubmissionState{}.Begin(req)
	snapshot, forecast := s.Weather.AcquireWithForecast(ctx, state.Form.City)
	state = state.Resolve(snapshot)

	dashboard := BuildDashboard(state, forecast)
	dashboard.GeneratedAt = s.Clock.Now().UTC()

	if s.Metrics != nil {
		s.Metrics.Assessments.WithLabelValues(string(dashboard.Assessment.Severity)).Inc()
	}
	config.GetLogger().Infow("Event assessed",
		"event", req.EventName,
		"city", req.City,
		"date", req.Date,
		"severity", dashboard.Assessment.Severity,
		"synthetic", snapshot.IsSynthetic,
	)
	return dashboard, nil
}

// BuildDashboard derives the dashboard from a resolved submission state.
func BuildDashboard(state model.SubmissionState, forecast []model.ForecastDay) *model.Dashboard {
	snapshot := *state.Snapshot
	d := &model.Dashboard{
		Event:      state.Form,
		Weather:    snapshot,
		Assessment: risk.Evaluate(snapshot),
		Bands:      risk.ClassifyBands(snapshot),
		Icon:       risk.IconFor(snapshot.Description),
		Forecast:   forecast,
		DataSource: model.DataSource{Live: !snapshot.IsSynthetic, Notice: NoticeLive},
	}
	if d.Forecast == nil {
		d.Forecast = []model.ForecastDay{}
	}
	if snapshot.IsSynthetic {
		d.DataSource.Notice = NoticeSynthetic
	}

	if date, err := state.Form.ParsedDate(); err == nil {
		for _, day := range forecast {
			if day.Date.Equal(date) {
				d.EventDayForecast = &model.EventDayForecast{
					Day:        day,
					Assessment: risk.Evaluate(day.Snapshot(snapshot.City)),
				}
				break
			}
		}
	}
	return d
}
