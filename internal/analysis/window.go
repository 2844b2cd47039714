package analysis

import (
	"time"

	"arwa/internal/interval"
)

// LastSunday returns midnight of the most recent Sunday, t's own day if t is a Sunday.
func LastSunday(t time.Time) time.Time {
	back := int(t.Weekday()) // Sunday is 0
	y, m, d := t.AddDate(0, 0, -back).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// LastDayOfMonth returns t moved to the last day of its month, keeping the clock time.
func LastDayOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	return firstOfNext.AddDate(0, 0, -1)
}

// DayWindow returns the half-open window covering t's calendar day.
func DayWindow(t time.Time) interval.Span {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return interval.Span{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekWindow returns the Sunday-to-Sunday window containing t.
func WeekWindow(t time.Time) interval.Span {
	start := LastSunday(t)
	return interval.Span{Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthWindow returns the window covering t's calendar month.
func MonthWindow(t time.Time) interval.Span {
	last := LastDayOfMonth(t)
	return interval.Span{
		Start: time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()),
		End:   time.Date(last.Year(), last.Month(), last.Day()+1, 0, 0, 0, 0, t.Location()),
	}
}
