package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"arwa/internal/analysis"
	"arwa/internal/interval"
	"arwa/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const me = "me@acme.com"

type fakeSource struct {
	name   string
	events []models.CalendarEvent
	err    error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Events(_ context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.CalendarEvent
	for _, ev := range f.events {
		if ev.StartTime.Before(to) && from.Before(ev.EndTime) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func at(hour, minute int) time.Time {
	return time.Date(2021, 4, 16, hour, minute, 0, 0, time.UTC)
}

func ev(name string, start, end time.Time, status models.ResponseStatus, attendees ...string) models.CalendarEvent {
	return models.CalendarEvent{Name: name, StartTime: start, EndTime: end, ResponseStatus: status, Attendees: attendees}
}

func newTestReporter(t *testing.T, tz *time.Location, sources ...Source) *Reporter {
	t.Helper()
	r, err := NewReporter(testLogger(), sources, tz)
	require.NoError(t, err)
	return r
}

func TestNewReporterRequiresSource(t *testing.T) {
	_, err := NewReporter(testLogger(), nil, time.UTC)
	assert.Error(t, err)
}

func TestCollectMergesAndSorts(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	work := &fakeSource{name: "work", events: []models.CalendarEvent{
		ev("b", at(11, 0), at(12, 0), models.StatusAccepted),
		ev("d", at(15, 0), at(16, 0), models.StatusAccepted),
	}}
	home := &fakeSource{name: "home", events: []models.CalendarEvent{
		ev("a", at(9, 0), at(10, 0), models.StatusAccepted),
		ev("c", at(13, 0), at(14, 0), models.StatusAccepted),
		ev("tomorrow", at(9, 0).AddDate(0, 0, 1), at(10, 0).AddDate(0, 0, 1), models.StatusAccepted),
	}}

	r := newTestReporter(t, loc, work, home)
	events, err := r.Collect(context.Background(), analysis.DayWindow(at(0, 0)))
	require.NoError(t, err)

	var names []string
	for _, e := range events {
		names = append(names, e.Name)
		assert.Equal(t, loc, e.StartTime.Location())
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
}

func TestCollectFailsOnSourceError(t *testing.T) {
	boom := errors.New("boom")
	r := newTestReporter(t, time.UTC,
		&fakeSource{name: "ok"},
		&fakeSource{name: "broken", err: boom},
	)

	_, err := r.Collect(context.Background(), analysis.DayWindow(at(0, 0)))
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "broken")
}

func TestSummary(t *testing.T) {
	src := &fakeSource{name: "cal", events: []models.CalendarEvent{
		ev("customer", at(9, 0), at(10, 0), models.StatusAccepted, me, "jane@partner.io"),
		ev("focus", at(10, 0), at(12, 0), models.StatusAccepted, me),
		ev("1:1", at(13, 0), at(13, 30), models.StatusAccepted, me, "bob@acme.com"),
		ev("all hands", at(16, 0), at(17, 0), models.StatusDeclined, me, "bob@acme.com", "eve@acme.com"),
	}}

	s, err := newTestReporter(t, time.UTC, src).Summary(context.Background(), analysis.DayWindow(at(0, 0)))
	require.NoError(t, err)
	assert.InDelta(t, 3.5, s.Total, 1e-9)
	assert.InDelta(t, 1.0, s.External, 1e-9)
	assert.InDelta(t, 2.0, s.Personal, 1e-9)
	assert.InDelta(t, 0.5, s.OneOnOne, 1e-9)
	assert.Zero(t, s.Rest)
}

func TestSummaryInvalidAttendee(t *testing.T) {
	src := &fakeSource{name: "cal", events: []models.CalendarEvent{
		ev("room", at(9, 0), at(10, 0), models.StatusAccepted, me, "Room 4"),
	}}

	_, err := newTestReporter(t, time.UTC, src).Summary(context.Background(), analysis.DayWindow(at(0, 0)))
	assert.ErrorIs(t, err, analysis.ErrInvalidAttendeeFormat)
}

func TestGaps(t *testing.T) {
	src := &fakeSource{name: "cal", events: []models.CalendarEvent{
		ev("standup", at(9, 0), at(9, 30), models.StatusAccepted),
		ev("skipped", at(10, 0), at(11, 0), models.StatusDeclined),
		ev("review", at(14, 0), at(15, 0), ""),
		ev("conference", at(0, 0), at(0, 0).AddDate(0, 0, 1), models.StatusAccepted),
		ev("late", at(23, 0), at(23, 0).Add(2*time.Hour), models.StatusAccepted),
		ev("early", at(0, 0).Add(-time.Hour), at(1, 0), models.StatusAccepted),
	}}

	gaps, err := newTestReporter(t, time.UTC, src).Gaps(context.Background(), at(12, 0))
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, "0", gaps[0].Name)
	assert.Equal(t, at(9, 30), gaps[0].StartTime)
	assert.Equal(t, at(14, 0), gaps[0].EndTime)
}

func TestGapsDropsEventEndingAtMidnight(t *testing.T) {
	src := &fakeSource{name: "cal", events: []models.CalendarEvent{
		ev("morning", at(8, 0), at(9, 0), models.StatusAccepted),
		ev("evening", at(20, 0), at(21, 0), models.StatusAccepted),
		ev("night", at(23, 0), at(0, 0).AddDate(0, 0, 1), models.StatusAccepted),
	}}

	gaps, err := newTestReporter(t, time.UTC, src).Gaps(context.Background(), at(12, 0))
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, at(9, 0), gaps[0].StartTime)
	assert.Equal(t, at(20, 0), gaps[0].EndTime)
}

func TestGapsNoEvents(t *testing.T) {
	gaps, err := newTestReporter(t, time.UTC, &fakeSource{name: "empty"}).Gaps(context.Background(), at(12, 0))
	require.NoError(t, err)
	assert.Empty(t, gaps)
}

func TestConflicts(t *testing.T) {
	src := &fakeSource{name: "cal", events: []models.CalendarEvent{
		ev("standup", at(9, 0), at(9, 30), models.StatusAccepted),
		ev("review", at(9, 15), at(10, 0), models.StatusAccepted),
		ev("declined", at(9, 0), at(10, 0), models.StatusDeclined),
		ev("holiday", at(0, 0), at(0, 0).AddDate(0, 0, 1), models.StatusAccepted),
	}}

	conflicts, err := newTestReporter(t, time.UTC, src).Conflicts(context.Background(), analysis.DayWindow(at(0, 0)))
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "standup", conflicts[0].First.Name)
	assert.Equal(t, "review", conflicts[0].Second.Name)
}

func TestWriteSummary(t *testing.T) {
	window := interval.Span{Start: at(0, 0), End: at(0, 0).AddDate(0, 0, 7)}
	s := analysis.Summary{Total: 3.5, External: 1, Personal: 2, OneOnOne: 0.5}

	var text bytes.Buffer
	require.NoError(t, WriteSummary(&text, window, s, false))
	assert.Contains(t, text.String(), "2021-04-16 - 2021-04-23")
	assert.Contains(t, text.String(), "3.50 h")
	assert.Contains(t, text.String(), "1:1")

	var out bytes.Buffer
	require.NoError(t, WriteSummary(&out, window, s, true))
	var decoded struct {
		Summary map[string]float64 `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, s.Map(), decoded.Summary)
}

func TestWriteGaps(t *testing.T) {
	var empty bytes.Buffer
	require.NoError(t, WriteGaps(&empty, nil, false))
	assert.Contains(t, empty.String(), "No free time")

	var text bytes.Buffer
	gaps := []models.CalendarEvent{ev("0", at(10, 0), at(14, 0), "")}
	require.NoError(t, WriteGaps(&text, gaps, false))
	assert.Contains(t, text.String(), "10:00 - 14:00")
	assert.Contains(t, text.String(), "4h0m0s")

	var out bytes.Buffer
	require.NoError(t, WriteGaps(&out, gaps, true))
	var decoded []struct {
		Name    string  `json:"name"`
		Minutes float64 `json:"minutes"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "0", decoded[0].Name)
	assert.Equal(t, 240.0, decoded[0].Minutes)
}

func TestWriteConflicts(t *testing.T) {
	var empty bytes.Buffer
	require.NoError(t, WriteConflicts(&empty, nil, false))
	assert.Contains(t, empty.String(), "No overlapping events")

	var text bytes.Buffer
	conflicts := []analysis.Conflict{{
		First:  ev("standup", at(9, 0), at(9, 30), models.StatusAccepted),
		Second: ev("review", at(9, 15), at(10, 0), models.StatusAccepted),
	}}
	require.NoError(t, WriteConflicts(&text, conflicts, false))
	assert.Contains(t, text.String(), "standup")
	assert.Contains(t, text.String(), "09:15 - 10:00")
}
