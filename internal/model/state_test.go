package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionState_Transitions(t *testing.T) {
	first := EventRequest{City: "Oslo", EventName: "May Parade", Date: "2026-05-17"}
	s := SubmissionState{}.Begin(first)
	assert.True(t, s.Loading)
	assert.Nil(t, s.Snapshot)

	s = s.Resolve(WeatherSnapshot{City: "Oslo", TemperatureC: 12})
	assert.False(t, s.Loading)
	require.NotNil(t, s.Snapshot)
	assert.Equal(t, "Oslo", s.Snapshot.City)
	assert.Equal(t, first, s.Form)

	// A new submission replaces the form and drops the old snapshot.
	second := EventRequest{City: "Bergen", EventName: "Harbour Walk", Date: "2026-06-01"}
	next := s.Begin(second)
	assert.Equal(t, second, next.Form)
	assert.Nil(t, next.Snapshot)
	assert.NotNil(t, s.Snapshot, "previous state value is not mutated")
}

func TestEventRequest_Normalize(t *testing.T) {
	req := EventRequest{City: "  Lisbon ", EventName: "\tFado Night", Date: " 2026-07-01 "}.Normalize()
	assert.Equal(t, "Lisbon", req.City)
	assert.Equal(t, "Fado Night", req.EventName)
	d, err := req.ParsedDate()
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
}

func TestForecastDay_Snapshot(t *testing.T) {
	d := ForecastDay{TemperatureC: 21, WindSpeedMS: 3.5, PrecipitationMM: 1.2, HumidityPercent: 60, Description: "sunny"}
	s := d.Snapshot("Rome")
	assert.Equal(t, "Rome", s.City)
	assert.Equal(t, 21.0, s.TemperatureC)
	assert.False(t, s.IsSynthetic)
}
