package icloud

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"arwa/internal/ics"
	"arwa/internal/interval"
	"arwa/internal/models"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
)

const (
	iCloudCalDAVEndpoint = "https://caldav.icloud.com/"
)

// customTransport handles adding Basic Auth and custom headers to requests.
type customTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "arwa/1.0")
	return t.Transport.RoundTrip(req)
}

// CalDAVClient reads events from one calendar on a CalDAV server (iCloud).
type CalDAVClient struct {
	caldavClient *caldav.Client
	logger       *slog.Logger
	converter    *ics.Converter
	calendarName string
	calendarPath string
}

// NewClient creates and initializes a new CalDAVClient for iCloud.
func NewClient(ctx context.Context, logger *slog.Logger, username, password, calendarName string, converter *ics.Converter) (*CalDAVClient, error) {
	transport := &customTransport{
		Username:  username,
		Password:  password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport}

	caldavClient, err := caldav.NewClient(httpClient, iCloudCalDAVEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	c := &CalDAVClient{
		caldavClient: caldavClient,
		logger:       logger,
		converter:    converter,
		calendarName: calendarName,
	}

	logger.Info("Finding iCloud calendar", "calendarName", calendarName)
	calendarPath, err := c.findCalendar(ctx, calendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", calendarName, err)
	}
	c.calendarPath = calendarPath
	logger.Info("Successfully found iCloud calendar", "path", calendarPath)

	return c, nil
}

// Name identifies the source in logs.
func (c *CalDAVClient) Name() string {
	return "icloud-" + c.calendarName
}

// Events fetches the events overlapping [from, to) with a calendar-query REPORT.
func (c *CalDAVClient) Events(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	c.logger.Debug("Querying iCloud calendar", "path", c.calendarPath, "from", from, "to", to)

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  ical.CompCalendar,
			Props: []string{ical.PropVersion},
			Comps: []caldav.CalendarCompRequest{{
				Name: ical.CompEvent,
				Props: []string{
					ical.PropUID,
					ical.PropSummary,
					ical.PropStatus,
					ical.PropDateTimeStart,
					ical.PropDateTimeEnd,
					ical.PropDuration,
					ical.PropAttendee,
				},
			}},
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{{
				Name:  ical.CompEvent,
				Start: from.UTC(),
				End:   to.UTC(),
			}},
		},
	}

	objects, err := c.caldavClient.QueryCalendar(ctx, c.calendarPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	var events []models.CalendarEvent
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		events = append(events, c.converter.Events(obj.Data, c.Name())...)
	}
	events = ics.Within(events, interval.Span{Start: from, End: to})

	c.logger.Info("Successfully fetched events from iCloud", "count", len(events), "calendar", c.calendarName)
	return events, nil
}

// findCalendar discovers the user's calendars and returns the path of the one with the matching name.
func (c *CalDAVClient) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return cal.Path, nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
