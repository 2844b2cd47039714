// Package ics converts iCalendar data to and from the internal event model.
package ics

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"arwa/internal/interval"
	"arwa/internal/models"

	"github.com/emersion/go-ical"
)

// Converter turns VEVENTs into CalendarEvents as seen by one identity.
type Converter struct {
	logger   *slog.Logger
	identity string
	loc      *time.Location
}

// NewConverter creates a Converter. The identity is the email address whose
// participation status is reported; loc is used for floating and all-day times.
func NewConverter(logger *slog.Logger, identity string, loc *time.Location) *Converter {
	if loc == nil {
		loc = time.UTC
	}
	return &Converter{logger: logger, identity: identity, loc: loc}
}

// Events converts every VEVENT of cal. Malformed or cancelled events are logged and skipped.
func (c *Converter) Events(cal *ical.Calendar, source string) []models.CalendarEvent {
	var events []models.CalendarEvent
	for _, ve := range cal.Events() {
		ev, ok, err := c.toInternal(ve, source)
		if err != nil {
			uid, _ := ve.Props.Text(ical.PropUID)
			c.logger.Warn("Skipping malformed event", "uid", uid, "source", source, "error", err)
			continue
		}
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events
}

func (c *Converter) toInternal(ve ical.Event, source string) (models.CalendarEvent, bool, error) {
	if status, _ := ve.Props.Text(ical.PropStatus); strings.EqualFold(status, "CANCELLED") {
		return models.CalendarEvent{}, false, nil
	}

	start, err := ve.DateTimeStart(c.loc)
	if err != nil {
		return models.CalendarEvent{}, false, fmt.Errorf("invalid DTSTART: %w", err)
	}
	end, err := ve.DateTimeEnd(c.loc)
	if err != nil {
		return models.CalendarEvent{}, false, fmt.Errorf("invalid DTEND: %w", err)
	}
	if prop := ve.Props.Get(ical.PropDateTimeStart); prop != nil && prop.ValueType() == ical.ValueDate {
		end = models.AllDayEnd(start, end)
	}
	if !start.Before(end) {
		return models.CalendarEvent{}, false, fmt.Errorf("event ends before it starts: %s - %s", start, end)
	}

	summary, _ := ve.Props.Text(ical.PropSummary)
	ev := models.CalendarEvent{
		Name:      summary,
		StartTime: start,
		EndTime:   end,
		Source:    source,
	}

	attendees := ve.Props.Values(ical.PropAttendee)
	if len(attendees) == 0 {
		// Nobody invited, this is the identity's own event.
		if c.identity != "" {
			ev.Attendees = []string{c.identity}
		}
		ev.ResponseStatus = models.StatusAccepted
		return ev, true, nil
	}

	for _, prop := range attendees {
		email := attendeeEmail(prop.Value)
		ev.Attendees = append(ev.Attendees, email)
		if strings.EqualFold(email, c.identity) {
			ev.ResponseStatus = partStat(prop.Params.Get(ical.ParamParticipationStatus))
		}
	}
	return ev, true, nil
}

func attendeeEmail(value string) string {
	if len(value) >= len("mailto:") && strings.EqualFold(value[:len("mailto:")], "mailto:") {
		return value[len("mailto:"):]
	}
	return value
}

// partStat maps an iCalendar PARTSTAT onto the provider-neutral response status.
func partStat(value string) models.ResponseStatus {
	switch strings.ToUpper(value) {
	case "ACCEPTED":
		return models.StatusAccepted
	case "DECLINED":
		return models.StatusDeclined
	case "TENTATIVE":
		return models.StatusTentative
	case "", "NEEDS-ACTION":
		return ""
	default:
		return models.ResponseStatus(strings.ToLower(value))
	}
}

// Within keeps the events that overlap the half-open window.
func Within(events []models.CalendarEvent, window interval.Span) []models.CalendarEvent {
	var kept []models.CalendarEvent
	for _, ev := range events {
		if window.Overlaps(interval.Span{Start: ev.StartTime, End: ev.EndTime}) {
			kept = append(kept, ev)
		}
	}
	return kept
}
