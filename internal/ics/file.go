package ics

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"arwa/internal/interval"
	"arwa/internal/models"

	"github.com/emersion/go-ical"
)

// File is an event source backed by a local .ics file.
// Recurrence rules are not expanded; only the first occurrence is seen.
type File struct {
	logger    *slog.Logger
	path      string
	converter *Converter
}

// NewFile creates a source reading the calendar at path.
func NewFile(logger *slog.Logger, path string, converter *Converter) *File {
	return &File{logger: logger, path: path, converter: converter}
}

// Name identifies the source in logs.
func (f *File) Name() string {
	return "ics-" + filepath.Base(f.path)
}

// Events returns the events of the file that overlap [from, to).
func (f *File) Events(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer r.Close()

	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar file %s: %w", f.path, err)
	}

	events := Within(f.converter.Events(cal, f.Name()), interval.Span{Start: from, End: to})
	f.logger.Info("Read events from calendar file", "path", f.path, "count", len(events))
	return events, nil
}
