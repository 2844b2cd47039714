package main

import (
	"arwa/internal/analysis"
	"arwa/internal/google"
	"arwa/internal/icloud"
	"arwa/internal/ics"
	"arwa/internal/interval"
	"arwa/internal/models"
	"arwa/internal/report"
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "arwa",
		Usage: "Time accounting reports from your calendars.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}, Usage: "debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			authCommand(),
			calendarsCommand(),
			reportCommand(),
			gapsCommand(),
			conflictsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with a Google account to get an API token.",
		Flags: googleFlags(),
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			logger.Info("Starting Google authentication flow.")

			config, err := google.GetOAuthConfigForAuthFlow(c.String("google-client-id"), c.String("google-client-secret"))
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(c.Context, config, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			fmt.Print("Enter a name for this account (e.g., 'personal', 'work'): ")
			accountName, _ := reader.ReadString('\n')
			accountName = strings.TrimSpace(accountName)
			if accountName == "" {
				return fmt.Errorf("account name must not be empty")
			}
			tokenFile := google.TokenPath(c.String("token-dir"), accountName)

			if err := google.SaveToken(tokenFile, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authenticated and saved token.", "file", tokenFile)
			return nil
		},
	}
}

func calendarsCommand() *cli.Command {
	return &cli.Command{
		Name:  "calendars",
		Usage: "List the calendars of every authenticated Google account.",
		Flags: append(googleFlags(), timezoneFlag()),
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			loc, err := loadLocation(c.String("timezone"))
			if err != nil {
				return err
			}
			clients, err := googleClients(c, logger, loc)
			if err != nil {
				return err
			}
			if len(clients) == 0 {
				return fmt.Errorf("no google accounts found. Run the 'auth' command first")
			}
			for _, client := range clients {
				ids, err := client.DiscoverGoogleCalendars(c.Context)
				if err != nil {
					return fmt.Errorf("%s: %w", client.Name(), err)
				}
				for _, id := range ids {
					fmt.Printf("%s\t%s\n", client.Name(), id)
				}
			}
			return nil
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Summarize accepted time spent by category.",
		Flags: append(sourceFlags(), windowFlags()...),
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			r, loc, err := newReporter(c, logger)
			if err != nil {
				return err
			}
			window, err := parseWindow(c, loc)
			if err != nil {
				return err
			}

			summary, err := r.Summary(c.Context, window)
			if err != nil {
				return fmt.Errorf("report failed: %w", err)
			}
			return report.WriteSummary(c.App.Writer, window, summary, c.Bool("json"))
		},
	}
}

func gapsCommand() *cli.Command {
	return &cli.Command{
		Name:  "gaps",
		Usage: "Find the free time between the events of a day.",
		Flags: append(sourceFlags(),
			&cli.StringFlag{Name: "date", Usage: "Day to inspect (YYYY-MM-DD), defaults to today."},
			&cli.PathFlag{Name: "export", Usage: "Also write the gaps to this .ics file."},
		),
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			r, loc, err := newReporter(c, logger)
			if err != nil {
				return err
			}

			day := time.Now().In(loc)
			if c.IsSet("date") {
				if day, err = time.ParseInLocation(time.DateOnly, c.String("date"), loc); err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
			}

			gaps, err := r.Gaps(c.Context, day)
			if err != nil {
				return fmt.Errorf("gap search failed: %w", err)
			}

			if path := c.Path("export"); path != "" {
				if err := exportICS(path, gaps); err != nil {
					return err
				}
				logger.Info("Exported gaps.", "file", path, "count", len(gaps))
			}
			return report.WriteGaps(c.App.Writer, gaps, c.Bool("json"))
		},
	}
}

func conflictsCommand() *cli.Command {
	return &cli.Command{
		Name:  "conflicts",
		Usage: "List accepted events that overlap each other.",
		Flags: append(sourceFlags(), windowFlags()...),
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			r, loc, err := newReporter(c, logger)
			if err != nil {
				return err
			}
			window, err := parseWindow(c, loc)
			if err != nil {
				return err
			}

			conflicts, err := r.Conflicts(c.Context, window)
			if err != nil {
				return fmt.Errorf("conflict search failed: %w", err)
			}
			return report.WriteConflicts(c.App.Writer, conflicts, c.Bool("json"))
		},
	}
}

func googleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "google-client-id", EnvVars: []string{"GOOGLE_CLIENT_ID"}},
		&cli.StringFlag{Name: "google-client-secret", EnvVars: []string{"GOOGLE_CLIENT_SECRET"}},
		&cli.StringFlag{Name: "token-dir", Value: ".", EnvVars: []string{"ARWA_TOKEN_DIR"}, Usage: "Directory of token-<account>.json files."},
	}
}

func timezoneFlag() cli.Flag {
	return &cli.StringFlag{Name: "timezone", Value: "UTC", EnvVars: []string{"PRIMARY_TIMEZONE"}}
}

func sourceFlags() []cli.Flag {
	return append(googleFlags(),
		timezoneFlag(),
		&cli.StringFlag{Name: "identity", EnvVars: []string{"ARWA_IDENTITY"}, Usage: "Email address the report is about."},
		&cli.BoolFlag{Name: "google", EnvVars: []string{"ARWA_GOOGLE"}, Usage: "Read every authenticated Google account."},
		&cli.StringFlag{Name: "google-calendars", EnvVars: []string{"GOOGLE_CALENDAR_IDS"}, Usage: "Comma separated calendar IDs, 'primary' if empty."},
		&cli.StringFlag{Name: "icloud-calendar", EnvVars: []string{"ICLOUD_CALENDAR_NAME"}, Usage: "Read this iCloud calendar."},
		&cli.StringFlag{Name: "icloud-username", EnvVars: []string{"ICLOUD_USERNAME"}},
		&cli.StringFlag{Name: "icloud-password", EnvVars: []string{"ICLOUD_APP_SPECIFIC_PASSWORD"}},
		&cli.StringSliceFlag{Name: "ics", Usage: "Read events from a local .ics file (repeatable)."},
		&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of a table."},
	)
}

func windowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "month", Usage: "Report on the current month instead of the current week."},
		&cli.StringFlag{Name: "from", Usage: "Start date (YYYY-MM-DD), inclusive."},
		&cli.StringFlag{Name: "to", Usage: "End date (YYYY-MM-DD), exclusive."},
	}
}

// newReporter builds a reporter over every configured source.
func newReporter(c *cli.Context, logger *slog.Logger) (*report.Reporter, *time.Location, error) {
	loc, err := loadLocation(c.String("timezone"))
	if err != nil {
		return nil, nil, err
	}
	identity := c.String("identity")
	converter := ics.NewConverter(logger, identity, loc)

	var sources []report.Source
	for _, path := range c.StringSlice("ics") {
		sources = append(sources, ics.NewFile(logger, path, converter))
	}

	if c.Bool("google") {
		clients, err := googleClients(c, logger, loc)
		if err != nil {
			return nil, nil, err
		}
		if len(clients) == 0 {
			return nil, nil, fmt.Errorf("no google accounts found. Run the 'auth' command first")
		}
		for _, client := range clients {
			sources = append(sources, client)
		}
		logger.Info("Initialized Google clients for all accounts.", "count", len(clients))
	}

	if name := c.String("icloud-calendar"); name != "" {
		iClient, err := icloud.NewClient(c.Context, logger, c.String("icloud-username"), c.String("icloud-password"), name, converter)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create icloud client: %w", err)
		}
		sources = append(sources, iClient)
	}

	if identity == "" {
		logger.Warn("No identity set, response statuses of invited events will be unknown.")
	}

	r, err := report.NewReporter(logger, sources, loc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create reporter: %w (use --ics, --google or --icloud-calendar)", err)
	}
	return r, loc, nil
}

// googleClients loads a client for every account with a saved token.
func googleClients(c *cli.Context, logger *slog.Logger, loc *time.Location) ([]*google.CalendarClient, error) {
	accounts, err := google.GetTokenAccounts(c.String("token-dir"))
	if err != nil {
		return nil, fmt.Errorf("could not find any google accounts, did you run auth command? %w", err)
	}

	cfg := google.Config{
		ClientID:     c.String("google-client-id"),
		ClientSecret: c.String("google-client-secret"),
		TokenDir:     c.String("token-dir"),
		Identity:     c.String("identity"),
		CalendarIDs:  splitList(c.String("google-calendars")),
		Location:     loc,
	}

	var clients []*google.CalendarClient
	for _, acc := range accounts {
		client, err := google.NewClient(c.Context, logger, cfg, acc)
		if err != nil {
			return nil, fmt.Errorf("failed to create google client for account %s: %w", acc, err)
		}
		clients = append(clients, client)
	}
	return clients, nil
}

// parseWindow picks the reporting window: --from/--to, --month, or the current week.
func parseWindow(c *cli.Context, loc *time.Location) (interval.Span, error) {
	now := time.Now().In(loc)

	if !c.IsSet("from") && !c.IsSet("to") {
		if c.Bool("month") {
			return analysis.MonthWindow(now), nil
		}
		return analysis.WeekWindow(now), nil
	}

	window := analysis.WeekWindow(now)
	if c.IsSet("from") {
		from, err := time.ParseInLocation(time.DateOnly, c.String("from"), loc)
		if err != nil {
			return interval.Span{}, fmt.Errorf("invalid --from: %w", err)
		}
		window = interval.Span{Start: from, End: from.AddDate(0, 0, 7)}
	}
	if c.IsSet("to") {
		to, err := time.ParseInLocation(time.DateOnly, c.String("to"), loc)
		if err != nil {
			return interval.Span{}, fmt.Errorf("invalid --to: %w", err)
		}
		window.End = to
	}
	if window.Empty() {
		return interval.Span{}, fmt.Errorf("empty window: %s - %s", window.Start.Format(time.DateOnly), window.End.Format(time.DateOnly))
	}
	return window, nil
}

func exportICS(path string, gaps []models.CalendarEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := ics.Encode(f, gaps); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = "UTC"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", name, err)
	}
	return loc, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
