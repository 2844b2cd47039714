package google

import (
	"arwa/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	credentialsFile = "credentials.json"
	tokenPrefix     = "token-"
	tokenSuffix     = ".json"
)

// CalendarClient provides a client for interacting with the Google Calendar API.
type CalendarClient struct {
	service     *calendar.Service
	logger      *slog.Logger
	account     string
	identity    string
	calendarIDs []string
	loc         *time.Location
}

// Config holds everything needed to open the calendars of one Google account.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenDir     string         // Directory holding token-<account>.json files
	Identity     string         // Email address whose responses are reported
	CalendarIDs  []string       // Calendars to read, "primary" if empty
	Location     *time.Location // Anchor for all-day events, UTC if nil
}

// NewClient creates a new Google Calendar client.
// It handles loading credentials and setting up an authenticated HTTP client.
// It supports multiple accounts by looking for token files like token-user1.json, token-user2.json, etc.
// The accountName is used to find the correct token file.
func NewClient(ctx context.Context, logger *slog.Logger, cfg Config, accountName string) (*CalendarClient, error) {
	config, err := getOAuthConfig(cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth config: %w", err)
	}

	token, err := tokenFromFile(TokenPath(cfg.TokenDir, accountName))
	if err != nil {
		return nil, fmt.Errorf("could not load token for account %s: %w. Please run the 'auth' command first", accountName, err)
	}

	client := config.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	calendarIDs := cfg.CalendarIDs
	if len(calendarIDs) == 0 {
		calendarIDs = []string{"primary"}
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return &CalendarClient{
		service:     service,
		logger:      logger,
		account:     accountName,
		identity:    cfg.Identity,
		calendarIDs: calendarIDs,
		loc:         loc,
	}, nil
}

// Name identifies the source in logs.
func (c *CalendarClient) Name() string {
	return "google-" + c.account
}

// Events fetches the events overlapping [from, to) from every configured calendar.
// Recurring events are expanded by the API into single instances.
func (c *CalendarClient) Events(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	var all []models.CalendarEvent
	for _, calendarID := range c.calendarIDs {
		events, err := c.listEvents(ctx, calendarID, from, to)
		if err != nil {
			return nil, fmt.Errorf("calendar %s: %w", calendarID, err)
		}
		all = append(all, events...)
	}
	return all, nil
}

func (c *CalendarClient) listEvents(ctx context.Context, calendarID string, from, to time.Time) ([]models.CalendarEvent, error) {
	c.logger.Debug("Fetching events", "calendarID", calendarID, "from", from, "to", to)

	var items []*calendar.Event
	err := c.service.Events.List(calendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		OrderBy("startTime").
		Pages(ctx, func(page *calendar.Events) error {
			items = append(items, page.Items...)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	c.logger.Info("Successfully fetched events from Google Calendar", "count", len(items), "calendarID", calendarID)
	return c.toInternalEvents(items, calendarID), nil
}

// toInternalEvents converts Google Calendar events to the internal CalendarEvent model.
func (c *CalendarClient) toInternalEvents(googleEvents []*calendar.Event, source string) []models.CalendarEvent {
	var internalEvents []models.CalendarEvent
	for _, item := range googleEvents {
		if item.Status == "cancelled" {
			continue
		}
		event, err := toInternalEvent(item, c.identity, c.loc)
		if err != nil {
			c.logger.Warn("Skipping event with unreadable times", "id", item.Id, "error", err)
			continue
		}
		event.Source = fmt.Sprintf("google-%s", source)
		internalEvents = append(internalEvents, event)
	}
	return internalEvents
}

// toInternalEvent converts a single Google event as seen by identity.
// An event without attendees is the identity's own and counts as accepted.
// All-day events span whole 24h days in loc.
func toInternalEvent(item *calendar.Event, identity string, loc *time.Location) (models.CalendarEvent, error) {
	startTime, err := eventTime(item.Start, loc)
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("start: %w", err)
	}
	endTime, err := eventTime(item.End, loc)
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("end: %w", err)
	}
	if item.Start.Date != "" && item.End.Date != "" {
		endTime = models.AllDayEnd(startTime, endTime)
	}

	event := models.CalendarEvent{
		Name:      item.Summary,
		StartTime: startTime,
		EndTime:   endTime,
	}
	if item.EventType != "" {
		event.Extra = map[string]string{models.ExtraEventType: item.EventType}
	}

	if len(item.Attendees) == 0 {
		if identity != "" {
			event.Attendees = []string{identity}
		}
		event.ResponseStatus = models.StatusAccepted
		return event, nil
	}

	for _, a := range item.Attendees {
		event.Attendees = append(event.Attendees, a.Email)
		if a.Self || strings.EqualFold(a.Email, identity) {
			event.ResponseStatus = models.NormalizeResponseStatus(a.ResponseStatus)
		}
	}
	return event, nil
}

// eventTime reads a timed (DateTime) or all-day (Date) event boundary.
func eventTime(t *calendar.EventDateTime, loc *time.Location) (time.Time, error) {
	switch {
	case t == nil:
		return time.Time{}, errors.New("missing time")
	case t.DateTime != "":
		return time.Parse(time.RFC3339, t.DateTime)
	case t.Date != "":
		return time.ParseInLocation(time.DateOnly, t.Date, loc)
	default:
		return time.Time{}, errors.New("neither date nor dateTime set")
	}
}

// GetOAuthConfigForAuthFlow is used by the auth command to get the config for the web flow.
func GetOAuthConfigForAuthFlow(clientID, clientSecret string) (*oauth2.Config, error) {
	return getOAuthConfig(clientID, clientSecret)
}

// getOAuthConfig reads credentials and returns an OAuth2 config.
// It prioritizes environment variables over a local credentials.json file.
func getOAuthConfig(clientID, clientSecret string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       []string{calendar.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		if _, ok := err.(*fs.PathError); ok {
			return nil, fmt.Errorf("credentials.json not found. Please provide GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars or place credentials.json in the root directory")
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = "urn:ietf:wg:oauth:2.0:oob" // For desktop app flow
	return config, nil
}

// TokenFromWeb is called by the auth flow to retrieve a token.
func TokenFromWeb(ctx context.Context, config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(ctx, authCode)
}

// TokenPath returns the token file of an account inside dir.
func TokenPath(dir, accountName string) string {
	return filepath.Join(dir, tokenPrefix+accountName+tokenSuffix)
}

// SaveToken saves a token to a file path, readable by the owner only.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// DiscoverGoogleCalendars finds all calendars associated with the authenticated account.
func (c *CalendarClient) DiscoverGoogleCalendars(ctx context.Context) ([]string, error) {
	list, err := c.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	var calendarIDs []string
	for _, item := range list.Items {
		calendarIDs = append(calendarIDs, item.Id)
	}
	return calendarIDs, nil
}

// GetTokenAccounts lists the accounts that have a token file in dir.
func GetTokenAccounts(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var accounts []string
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || !strings.HasPrefix(name, tokenPrefix) || !strings.HasSuffix(name, tokenSuffix) {
			continue
		}
		if account := strings.TrimSuffix(strings.TrimPrefix(name, tokenPrefix), tokenSuffix); account != "" {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}
