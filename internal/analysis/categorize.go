package analysis

import (
	"fmt"
	"strings"
	"time"

	"arwa/internal/models"
)

// IsPersonal reports whether the event has a single attendee, the identity itself.
func IsPersonal(ev models.CalendarEvent) bool {
	return len(ev.Attendees) == 1
}

// IsOneOnOne reports whether the event has exactly two attendees.
func IsOneOnOne(ev models.CalendarEvent) bool {
	return len(ev.Attendees) == 2
}

// IsExternal reports whether the attendees belong to more than one domain.
func IsExternal(ev models.CalendarEvent) (bool, error) {
	domains := make(map[string]struct{}, len(ev.Attendees))
	for _, attendee := range ev.Attendees {
		if strings.Count(attendee, "@") != 1 {
			return false, fmt.Errorf("%w: %q", ErrInvalidAttendeeFormat, attendee)
		}
		_, domain, _ := strings.Cut(attendee, "@")
		domains[domain] = struct{}{}
	}
	return len(domains) > 1, nil
}

// IsDayLong reports whether the event lasts at least 24 hours.
// This is an approximation: midnight alignment is not checked.
func IsDayLong(ev models.CalendarEvent) bool {
	return ev.Duration().Seconds() >= (24 * time.Hour).Seconds()
}

// IsFocusTime reports whether the provider marked the event as focus time.
func IsFocusTime(ev models.CalendarEvent) bool {
	return ev.Extra[models.ExtraEventType] == "focusTime"
}
