package ics

import (
	"fmt"
	"io"
	"time"

	"arwa/internal/models"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

// Encode writes events as a standalone iCalendar document. Every event gets a
// fresh UID, so importing the same document twice creates duplicates.
func Encode(w io.Writer, events []models.CalendarEvent) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//arwa//EN")
	for _, ev := range events {
		cal.Children = append(cal.Children, toICal(ev))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode events to iCal format: %w", err)
	}
	return nil
}

// toICal converts an internal event to an ical.Component (VEvent).
func toICal(ev models.CalendarEvent) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, GenerateUID())
	ve.Props.SetText(ical.PropSummary, ev.Name)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, ev.StartTime)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, ev.EndTime)

	for _, attendee := range ev.Attendees {
		p := ical.NewProp(ical.PropAttendee)
		p.SetText(fmt.Sprintf("mailto:%s", attendee))
		ve.Props.Add(p)
	}
	return ve
}

// GenerateUID creates a new unique identifier for an event.
func GenerateUID() string {
	return uuid.New().String()
}
