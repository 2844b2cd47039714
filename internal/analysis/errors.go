package analysis

import "errors"

var (
	// ErrInvalidAttendeeFormat is returned when an attendee identifier does not have exactly one '@'.
	ErrInvalidAttendeeFormat = errors.New("invalid attendee format")
	// ErrEmptyInput is returned by FindGaps when there are no events to anchor the day on.
	ErrEmptyInput = errors.New("empty event set")
	// ErrCrossDateInput is returned by FindGaps when the events do not all fall on one date.
	ErrCrossDateInput = errors.New("events span more than one date")
	// ErrPartitionMismatch means the category buckets of a Summary do not add up to its total.
	ErrPartitionMismatch = errors.New("summary buckets do not add up to total")
)
