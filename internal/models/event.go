package models

import "time"

// ResponseStatus is the identity's answer to an event invitation.
// The zero value means the status is unknown or not applicable.
type ResponseStatus string

const (
	StatusAccepted    ResponseStatus = "accepted"
	StatusDeclined    ResponseStatus = "declined"
	StatusTentative   ResponseStatus = "tentative"
	StatusNeedsAction ResponseStatus = "needsAction"
)

// NormalizeResponseStatus maps a provider response status onto the internal one.
// A pending invitation carries no information about attendance, so it becomes absent.
func NormalizeResponseStatus(status string) ResponseStatus {
	if ResponseStatus(status) == StatusNeedsAction {
		return ""
	}
	return ResponseStatus(status)
}

// ExtraEventType is the Extra key holding the provider's event type (e.g. "focusTime").
const ExtraEventType = "eventType"

// CalendarEvent represents a single scheduled block of time.
// This is an internal representation, independent of any specific calendar provider.
type CalendarEvent struct {
	Name           string            // Display label, may be empty or synthetic
	StartTime      time.Time         // Start time of the event
	EndTime        time.Time         // End time of the event, strictly after StartTime
	Attendees      []string          // Attendee identifiers (emails), logically a set
	ResponseStatus ResponseStatus    // Identity's response, empty if absent
	Extra          map[string]string // Opaque provider metadata
	Source         string            // The source of the event (e.g., "google-primary")
}

// Duration returns the length of the event.
func (e CalendarEvent) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// Accepted reports whether the identity confirmed attendance.
func (e CalendarEvent) Accepted() bool {
	return e.ResponseStatus == StatusAccepted
}

// AllDayEnd returns the end of an all-day event that starts at the local
// midnight start and runs up to the date of end. The result is a whole number
// of 24h days after start, also across a daylight saving change.
func AllDayEnd(start, end time.Time) time.Time {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return start.Add(to.Sub(from))
}
