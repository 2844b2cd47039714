package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"arwa/internal/analysis"
	"arwa/internal/interval"
	"arwa/internal/models"

	"golang.org/x/sync/errgroup"
)

// Source is anything that can list calendar events in a time window.
type Source interface {
	Name() string
	Events(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error)
}

// Reporter collects events from all sources and runs the time-accounting analysis on them.
type Reporter struct {
	logger          *slog.Logger
	sources         []Source
	primaryTimeZone *time.Location
}

// NewReporter creates a new Reporter. Event times are converted to tz.
func NewReporter(logger *slog.Logger, sources []Source, tz *time.Location) (*Reporter, error) {
	if len(sources) == 0 {
		return nil, errors.New("no calendar sources configured")
	}
	if tz == nil {
		tz = time.UTC
	}
	return &Reporter{
		logger:          logger,
		sources:         sources,
		primaryTimeZone: tz,
	}, nil
}

// Collect fetches the events overlapping window from every source concurrently.
// The result is sorted by start time. Any failing source fails the collection.
func (r *Reporter) Collect(ctx context.Context, window interval.Span) ([]models.CalendarEvent, error) {
	results := make([][]models.CalendarEvent, len(r.sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range r.sources {
		g.Go(func() error {
			events, err := src.Events(ctx, window.Start, window.End)
			if err != nil {
				return fmt.Errorf("failed to fetch events from %s: %w", src.Name(), err)
			}
			r.logger.Debug("Fetched events", "source", src.Name(), "count", len(events))
			results[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.CalendarEvent
	for _, events := range results {
		for _, ev := range events {
			// Adjust times to the primary timezone
			ev.StartTime = ev.StartTime.In(r.primaryTimeZone)
			ev.EndTime = ev.EndTime.In(r.primaryTimeZone)
			all = append(all, ev)
		}
	}
	slices.SortStableFunc(all, func(a, b models.CalendarEvent) int {
		return a.StartTime.Compare(b.StartTime)
	})

	r.logger.Info("Collected events", "count", len(all), "from", window.Start, "to", window.End)
	return all, nil
}

// Summary returns the categorized time spent in window.
func (r *Reporter) Summary(ctx context.Context, window interval.Span) (analysis.Summary, error) {
	events, err := r.Collect(ctx, window)
	if err != nil {
		return analysis.Summary{}, err
	}
	summary, err := analysis.Summarize(events)
	if err != nil {
		return analysis.Summary{}, fmt.Errorf("failed to summarize events: %w", err)
	}
	return summary, nil
}

// Gaps returns the free time between the events of the given day.
// Day-long, declined and cross-midnight events are not considered busy time.
// An event ending exactly at the next midnight, such as 23:00-00:00, counts as
// crossing midnight and is dropped too.
func (r *Reporter) Gaps(ctx context.Context, day time.Time) ([]models.CalendarEvent, error) {
	window := analysis.DayWindow(day.In(r.primaryTimeZone))
	events, err := r.Collect(ctx, window)
	if err != nil {
		return nil, err
	}

	var busy []models.CalendarEvent
	for _, ev := range events {
		switch {
		case analysis.IsDayLong(ev), ev.ResponseStatus == models.StatusDeclined:
			continue
		case ev.StartTime.Before(window.Start), !ev.EndTime.Before(window.End):
			r.logger.Debug("Ignoring event that crosses midnight", "name", ev.Name, "start", ev.StartTime, "end", ev.EndTime)
			continue
		}
		busy = append(busy, ev)
	}

	gaps, err := analysis.FindGaps(busy)
	if errors.Is(err, analysis.ErrEmptyInput) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find gaps: %w", err)
	}
	return gaps, nil
}

// Conflicts returns the pairs of accepted events in window that overlap.
func (r *Reporter) Conflicts(ctx context.Context, window interval.Span) ([]analysis.Conflict, error) {
	events, err := r.Collect(ctx, window)
	if err != nil {
		return nil, err
	}

	var accepted []models.CalendarEvent
	for _, ev := range events {
		if ev.Accepted() && !analysis.IsDayLong(ev) {
			accepted = append(accepted, ev)
		}
	}
	return analysis.Conflicts(accepted), nil
}
