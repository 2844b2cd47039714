package analysis

import (
	"fmt"
	"strconv"
	"time"

	"arwa/internal/interval"
	"arwa/internal/models"
)

// FindGaps returns the free time between the given events as synthetic events.
//
// All events must start and end on the date of the first event. Clock times are
// truncated to the minute and every event is treated as the closed interval
// [start, end], so back-to-back events leave no gap. Only gaps bounded by
// events on both sides are returned; time before the first and after the last
// event is not free time here. Gaps are named "0", "1", ... in ascending order.
func FindGaps(events []models.CalendarEvent) ([]models.CalendarEvent, error) {
	if len(events) == 0 {
		return nil, ErrEmptyInput
	}

	anchor := events[0].StartTime
	loc := anchor.Location()
	year, month, day := anchor.Date()

	busy := make([]interval.Closed[int], 0, len(events))
	for _, ev := range events {
		start, end := ev.StartTime.In(loc), ev.EndTime.In(loc)
		if !sameDate(start, year, month, day) || !sameDate(end, year, month, day) {
			return nil, fmt.Errorf("%w: event %q (%s - %s) is not on %s", ErrCrossDateInput,
				ev.Name, start.Format(time.DateTime), end.Format(time.DateTime), anchor.Format(time.DateOnly))
		}
		busy = append(busy, interval.Closed[int]{Lo: minuteOfDay(start), Hi: minuteOfDay(end)})
	}

	free := interval.Gaps(interval.Union(busy))
	gaps := make([]models.CalendarEvent, 0, len(free))
	for i, g := range free {
		gaps = append(gaps, models.CalendarEvent{
			Name:      strconv.Itoa(i),
			StartTime: atMinute(year, month, day, g.Lo, loc),
			EndTime:   atMinute(year, month, day, g.Hi, loc),
			Attendees: []string{},
		})
	}
	return gaps, nil
}

func sameDate(t time.Time, year int, month time.Month, day int) bool {
	y, m, d := t.Date()
	return y == year && m == month && d == day
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func atMinute(year int, month time.Month, day, minute int, loc *time.Location) time.Time {
	return time.Date(year, month, day, minute/60, minute%60, 0, 0, loc)
}
