package analysis

import (
	"arwa/internal/interval"
	"arwa/internal/models"
)

// Conflict is a pair of events that overlap in time.
type Conflict struct {
	First  models.CalendarEvent
	Second models.CalendarEvent
}

// Overlaps reports whether two events share any instant. Events are treated as
// half-open intervals, so one ending exactly when the other starts does not count.
func Overlaps(a, b models.CalendarEvent) bool {
	return span(a).Overlaps(span(b))
}

// Conflicts returns every pair of overlapping events, in input order.
func Conflicts(events []models.CalendarEvent) []Conflict {
	var conflicts []Conflict
	for i := range events {
		for j := i + 1; j < len(events); j++ {
			if Overlaps(events[i], events[j]) {
				conflicts = append(conflicts, Conflict{First: events[i], Second: events[j]})
			}
		}
	}
	return conflicts
}

func span(ev models.CalendarEvent) interval.Span {
	return interval.Span{Start: ev.StartTime, End: ev.EndTime}
}
