package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted from the form.
const DateLayout = "2006-01-02"

// EventRequest is the submitted form. Past dates are accepted.
type EventRequest struct {
	City      string `json:"city" validate:"required"`
	EventName string `json:"eventName" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Normalize trims surrounding whitespace so blank fields fail the required check.
func (e EventRequest) Normalize() EventRequest {
	return EventRequest{
		City:      strings.TrimSpace(e.City),
		EventName: strings.TrimSpace(e.EventName),
		Date:      strings.TrimSpace(e.Date),
	}
}

// ParsedDate returns the event date. Call only on a validated request.
func (e EventRequest) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}
