package analysis

import (
	"time"

	"arwa/internal/models"
)

// day returns 2021-04-16 at the given clock time in UTC.
func day(hour, minute int) time.Time {
	return time.Date(2021, 4, 16, hour, minute, 0, 0, time.UTC)
}

func event(name string, start, end time.Time, status models.ResponseStatus, attendees ...string) models.CalendarEvent {
	return models.CalendarEvent{
		Name:           name,
		StartTime:      start,
		EndTime:        end,
		Attendees:      attendees,
		ResponseStatus: status,
	}
}
