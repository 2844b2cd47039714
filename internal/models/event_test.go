package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeResponseStatus(t *testing.T) {
	assert.Equal(t, StatusAccepted, NormalizeResponseStatus("accepted"))
	assert.Equal(t, StatusDeclined, NormalizeResponseStatus("declined"))
	assert.Equal(t, ResponseStatus(""), NormalizeResponseStatus("needsAction"))
	assert.Equal(t, ResponseStatus(""), NormalizeResponseStatus(""))
}

func TestCalendarEventDurationAndAccepted(t *testing.T) {
	start := time.Date(2021, 4, 16, 9, 0, 0, 0, time.UTC)
	ev := CalendarEvent{StartTime: start, EndTime: start.Add(90 * time.Minute), ResponseStatus: StatusTentative}

	assert.Equal(t, 90*time.Minute, ev.Duration())
	assert.False(t, ev.Accepted())

	ev.ResponseStatus = StatusAccepted
	assert.True(t, ev.Accepted())
}

func TestAllDayEndAcrossDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	start := time.Date(2021, 3, 14, 0, 0, 0, 0, ny)
	end := time.Date(2021, 3, 15, 0, 0, 0, 0, ny)
	assert.Equal(t, 23*time.Hour, end.Sub(start))

	got := AllDayEnd(start, end)
	assert.Equal(t, 24*time.Hour, got.Sub(start))

	got = AllDayEnd(start, time.Date(2021, 3, 17, 0, 0, 0, 0, ny))
	assert.Equal(t, 72*time.Hour, got.Sub(start))
}
