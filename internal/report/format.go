package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"arwa/internal/analysis"
	"arwa/internal/interval"
	"arwa/internal/models"
)

const clock = "15:04"

// WriteSummary prints the summary buckets in hours.
func WriteSummary(w io.Writer, window interval.Span, s analysis.Summary, asJSON bool) error {
	if asJSON {
		return writeJSON(w, struct {
			From    time.Time          `json:"from"`
			To      time.Time          `json:"to"`
			Summary map[string]float64 `json:"summary"`
		}{window.Start, window.End, s.Map()})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s - %s\t\t\n", window.Start.Format(time.DateOnly), window.End.Format(time.DateOnly))
	m := s.Map()
	for _, key := range analysis.Keys {
		fmt.Fprintf(tw, "%s\t%.2f h\t\n", key, m[key])
	}
	return tw.Flush()
}

type jsonEvent struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Minutes   float64   `json:"minutes"`
}

func toJSONEvent(ev models.CalendarEvent) jsonEvent {
	return jsonEvent{Name: ev.Name, StartTime: ev.StartTime, EndTime: ev.EndTime, Minutes: ev.Duration().Minutes()}
}

// WriteGaps prints free-time gaps, one per line.
func WriteGaps(w io.Writer, gaps []models.CalendarEvent, asJSON bool) error {
	if asJSON {
		out := make([]jsonEvent, 0, len(gaps))
		for _, g := range gaps {
			out = append(out, toJSONEvent(g))
		}
		return writeJSON(w, out)
	}

	if len(gaps) == 0 {
		_, err := fmt.Fprintln(w, "No free time between events.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, g := range gaps {
		fmt.Fprintf(tw, "%s\t%s - %s\t%s\n", g.Name, g.StartTime.Format(clock), g.EndTime.Format(clock), g.Duration())
	}
	return tw.Flush()
}

// WriteConflicts prints overlapping event pairs.
func WriteConflicts(w io.Writer, conflicts []analysis.Conflict, asJSON bool) error {
	if asJSON {
		out := make([][2]jsonEvent, 0, len(conflicts))
		for _, c := range conflicts {
			out = append(out, [2]jsonEvent{toJSONEvent(c.First), toJSONEvent(c.Second)})
		}
		return writeJSON(w, out)
	}

	if len(conflicts) == 0 {
		_, err := fmt.Fprintln(w, "No overlapping events.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range conflicts {
		fmt.Fprintf(tw, "%s\t%s\t%s - %s\t<->\t%s\t%s - %s\n",
			c.First.StartTime.Format(time.DateOnly),
			c.First.Name, c.First.StartTime.Format(clock), c.First.EndTime.Format(clock),
			c.Second.Name, c.Second.StartTime.Format(clock), c.Second.EndTime.Format(clock))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
