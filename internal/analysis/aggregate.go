package analysis

import (
	"fmt"
	"math"

	"arwa/internal/models"
)

// Summary keys, in report order.
const (
	KeyTotal    = "total"
	KeyExternal = "external"
	KeyPersonal = "personal"
	KeyOneOnOne = "1:1"
	KeyRest     = "rest"
)

// Keys lists the summary buckets in the order they are reported.
var Keys = []string{KeyTotal, KeyExternal, KeyPersonal, KeyOneOnOne, KeyRest}

// Summary is the categorized breakdown of accepted time, in hours.
// External, Personal, OneOnOne and Rest partition Total.
type Summary struct {
	Total    float64
	External float64
	Personal float64
	OneOnOne float64
	Rest     float64
}

// Map returns the summary keyed by bucket name.
func (s Summary) Map() map[string]float64 {
	return map[string]float64{
		KeyTotal:    s.Total,
		KeyExternal: s.External,
		KeyPersonal: s.Personal,
		KeyOneOnOne: s.OneOnOne,
		KeyRest:     s.Rest,
	}
}

// Check verifies that the four category buckets add up to Total.
func (s Summary) Check() error {
	sum := s.External + s.Personal + s.OneOnOne + s.Rest
	if math.Abs(sum-s.Total) > 1e-9*math.Max(1, math.Abs(s.Total)) {
		return fmt.Errorf("%w: %f != %f", ErrPartitionMismatch, sum, s.Total)
	}
	return nil
}

// TotalAcceptedMinutes returns the time spent in the accepted events, in minutes.
// Events with any other status, or none, contribute nothing.
func TotalAcceptedMinutes(events []models.CalendarEvent) float64 {
	var total float64
	for _, ev := range events {
		if ev.Accepted() {
			total += ev.Duration().Seconds() / 60
		}
	}
	return total
}

// Summarize splits the accepted time in events into categories.
//
// Day-long events are ignored entirely. Every other event lands in exactly one
// bucket, checked in order: external, personal, one-on-one, rest.
func Summarize(events []models.CalendarEvent) (Summary, error) {
	var counted, external, personal, oneOnOne, rest []models.CalendarEvent
	for _, ev := range events {
		if IsDayLong(ev) {
			continue
		}
		counted = append(counted, ev)

		ext, err := IsExternal(ev)
		if err != nil {
			return Summary{}, fmt.Errorf("event %q: %w", ev.Name, err)
		}
		switch {
		case ext:
			external = append(external, ev)
		case IsPersonal(ev):
			personal = append(personal, ev)
		case IsOneOnOne(ev):
			oneOnOne = append(oneOnOne, ev)
		default:
			rest = append(rest, ev)
		}
	}

	s := Summary{
		Total:    TotalAcceptedMinutes(counted) / 60,
		External: TotalAcceptedMinutes(external) / 60,
		Personal: TotalAcceptedMinutes(personal) / 60,
		OneOnOne: TotalAcceptedMinutes(oneOnOne) / 60,
		Rest:     TotalAcceptedMinutes(rest) / 60,
	}
	if err := s.Check(); err != nil {
		return Summary{}, err
	}
	return s, nil
}
