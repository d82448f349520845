package scheduleapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetSchedule(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employees/42/schedule", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"days":[1,2,3,4,5],"shiftStart":"08:00","shiftEnd":"17:00"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	schedule, err := client.GetSchedule(context.Background(), 42)
	require.NoError(t, err)

	assert.True(t, schedule.IsWorkingDay(time.Monday))
	assert.False(t, schedule.IsWorkingDay(time.Sunday))
	assert.Equal(t, "08:00", schedule.ShiftStart)
	assert.Equal(t, "17:00", schedule.ShiftEnd)
}

func TestClientGetScheduleNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetSchedule(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientGetScheduleEmptyEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetSchedule(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientGetScheduleServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetSchedule(context.Background(), 42)
	assert.True(t, IsUnavailable(err))
}

func TestClientGetScheduleTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	client.HTTPClient.Timeout = 50 * time.Millisecond

	_, err := client.GetSchedule(context.Background(), 42)
	assert.True(t, IsUnavailable(err))
}

func TestShiftWindowCrossesMidnight(t *testing.T) {
	schedule := &Schedule{
		WorkingDays: map[time.Weekday]bool{time.Monday: true},
		ShiftStart:  "22:00",
		ShiftEnd:    "06:00",
	}

	ref := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	start, end, err := schedule.ShiftWindow(ref)
	require.NoError(t, err)

	assert.Equal(t, 22, start.Hour())
	assert.True(t, end.After(start))
	assert.Equal(t, 3, end.Day())
}

func TestShiftWindowBadClock(t *testing.T) {
	schedule := &Schedule{ShiftStart: "late", ShiftEnd: "17:00"}
	_, _, err := schedule.ShiftWindow(time.Now())
	assert.Error(t, err)
}
