package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/scrapedash/internal/capture"
	"github.com/hpungsan/scrapedash/internal/config"
	"github.com/hpungsan/scrapedash/internal/db"
	"github.com/hpungsan/scrapedash/internal/errors"
	"github.com/hpungsan/scrapedash/internal/filter"
	"github.com/hpungsan/scrapedash/internal/locale"
	"github.com/hpungsan/scrapedash/internal/logging"
	"github.com/hpungsan/scrapedash/internal/mcp"
	"github.com/hpungsan/scrapedash/internal/ops"
	"github.com/hpungsan/scrapedash/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config, logger *log.Logger) *cli.App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger = logging.OrDiscard(logger)

	app := &cli.App{
		Name:    "scrapedash",
		Usage:   "Dashboard for scraped content",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(cfg, logger),
			mcpCmd(cfg, logger),
			contentCmd(cfg, logger),
			getCmd(cfg, logger),
			tagsCmd(cfg, logger),
			urlsCmd(cfg, logger),
			healthCmd(cfg, logger),
			seedCmd(cfg, logger),
			migrateCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			if bind := c.String("bind"); bind != "" {
				cfg.Bind = bind
			}
			if port := c.Int("port"); port > 0 {
				cfg.Port = port
			}

			loc, err := resolveLocale(cfg, "")
			if err != nil {
				return outputError(err)
			}

			src, err := openSource(cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer src.Close()

			srv := web.NewServer(src, cfg, loc, logger, Version)
			return web.Run(srv, logger)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve read tools over MCP (stdio)",
		Action: func(c *cli.Context) error {
			if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
				logger.Warn("ignoring unknown disabled tools", "tools", strings.Join(unknown, ","))
			}

			loc, err := resolveLocale(cfg, "")
			if err != nil {
				return outputError(err)
			}

			src, err := openSource(cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer src.Close()

			return mcp.Run(src, cfg, loc, logger, Version)
		},
	}
}

// contentCmd creates the content command.
func contentCmd(cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "content",
		Usage: "List captures with optional filters",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Case-insensitive text search"},
			&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Required tag (repeatable)"},
			&cli.StringFlag{Name: "start", Usage: "Captured on or after YYYY-MM-DD"},
			&cli.StringFlag{Name: "end", Usage: "Captured on or before YYYY-MM-DD"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum captures read (default from config)"},
			&cli.StringFlag{Name: "locale", Usage: "BCP 47 display locale (default from config)"},
		},
		Action: func(c *cli.Context) error {
			loc, err := resolveLocale(cfg, c.String("locale"))
			if err != nil {
				return outputError(err)
			}

			state := filter.State{
				Search:    c.String("search"),
				Tags:      parseTags(c.StringSlice("tag")),
				StartDate: c.String("start"),
				EndDate:   c.String("end"),
			}
			for _, d := range []string{state.StartDate, state.EndDate} {
				if _, ok := filter.ParseDate(d, loc.Zone()); d != "" && !ok {
					return outputError(errors.NewInvalidRequest("dates must be YYYY-MM-DD: " + d))
				}
			}

			src, err := openSource(cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer src.Close()

			output := ops.ContentView(c.Context, src, ops.ContentInput{
				State:  state,
				Locale: loc,
				Limit:  limitOr(c.Int("limit"), cfg.ContentLimit),
			}, logger)
			return outputJSON(c.App.Writer, output)
		},
	}
}

// getCmd creates the get command.
func getCmd(cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show one capture by id",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "locale", Usage: "BCP 47 display locale (default from config)"},
		},
		Action: func(c *cli.Context) error {
			loc, err := resolveLocale(cfg, c.String("locale"))
			if err != nil {
				return outputError(err)
			}

			src, err := openSource(cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer src.Close()

			output, err := ops.GetCapture(c.Context, src, ops.GetInput{
				ID:     c.Args().First(),
				Locale: loc,
				Limit:  cfg.ContentLimit,
			}, logger)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// tagsCmd creates the tags command.
func tagsCmd(cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "List every distinct tag across the latest captures",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum captures read (default from config)"},
			&cli.StringFlag{Name: "locale", Usage: "BCP 47 locale for ordering (default from config)"},
		},
		Action: func(c *cli.Context) error {
			loc, err := resolveLocale(cfg, c.String("locale"))
			if err != nil {
				return outputError(err)
			}

			src, err := openSource(cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer src.Close()

			tags := ops.ListTags(c.Context, src, ops.LoadInput{
				Limit:  limitOr(c.Int("limit"), cfg.ContentLimit),
				Locale: loc,
			}, logger)
			return outputJSON(c.App.Writer, map[string]any{"tags": tags, "count": len(tags)})
		},
	}
}

// urlsCmd creates the urls command.
func urlsCmd(cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "urls",
		Usage: "List monitored URLs",
		Action: func(c *cli.Context) error {
			src, err := openSource(cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer src.Close()

			return outputJSON(c.App.Writer, ops.URLsView(c.Context, src, logger))
		},
	}
}

// healthCmd creates the health command.
func healthCmd(cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check the data source",
		Action: func(c *cli.Context) error {
			src, err := openSource(cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer src.Close()

			output := ops.Health(c.Context, src)
			if err := outputJSON(c.App.Writer, output); err != nil {
				return err
			}
			if output.Source == ops.SourceUnavailable {
				return cli.Exit("data source unavailable", 1)
			}
			return nil
		},
	}
}

// seedCmd creates the seed command.
func seedCmd(cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Write demo captures and URLs into the local SQLite store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Usage: "SQLite file (default from config)"},
		},
		Action: func(c *cli.Context) error {
			path, err := sqlitePath(cfg, c.String("path"))
			if err != nil {
				return outputError(err)
			}

			src, err := db.InitSQLite(path)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			defer src.Close()

			captures, urls := demoRows(time.Now())
			for _, row := range captures {
				if err := src.InsertCapture(c.Context, row); err != nil {
					return outputError(err)
				}
			}
			for _, row := range urls {
				if err := src.InsertURL(c.Context, row); err != nil {
					return outputError(err)
				}
			}

			logger.Info("seeded demo data", "path", path, "rows", len(captures)+len(urls))
			return outputJSON(c.App.Writer, map[string]any{
				"path":     path,
				"captures": len(captures),
				"urls":     len(urls),
			})
		},
	}
}

// migrateCmd creates the migrate command.
func migrateCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or upgrade the local SQLite schema",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Usage: "SQLite file (default from config)"},
		},
		Action: func(c *cli.Context) error {
			path, err := sqlitePath(cfg, c.String("path"))
			if err != nil {
				return outputError(err)
			}

			src, err := db.InitSQLite(path)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			defer src.Close()

			version, err := db.GetUserVersion(src.DB())
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return outputJSON(c.App.Writer, map[string]any{
				"path":           path,
				"schema_version": version,
			})
		},
	}
}

// Helper functions

// openSource opens the configured data source. An unconfigured source is
// not an error: it yields a nil Source and every view renders empty.
func openSource(cfg *config.Config, logger *log.Logger) (*db.Source, error) {
	src, err := db.Open(cfg)
	if err != nil {
		if errors.Is(err, errors.ErrSourceUnavailable) {
			logger.Warn("no data source configured; set DATABASE_URL or SCRAPEDASH_SQLITE_PATH")
			return nil, nil
		}
		return nil, errors.NewInternal(err)
	}
	logger.Debug("data source opened", "driver", src.Driver())
	return src, nil
}

// resolveLocale builds the display locale from an optional override tag
// and the configured locale and time zone.
func resolveLocale(cfg *config.Config, override string) (locale.Locale, error) {
	tag := cfg.Locale
	if strings.TrimSpace(override) != "" {
		tag = override
	}
	loc, err := locale.New(tag, cfg.TimeZone)
	if err != nil {
		return loc, errors.NewInvalidRequest(err.Error())
	}
	return loc, nil
}

// sqlitePath picks the SQLite file for maintenance commands.
func sqlitePath(cfg *config.Config, override string) (string, error) {
	if p := strings.TrimSpace(override); p != "" {
		return p, nil
	}
	if p := strings.TrimSpace(cfg.SQLitePath); p != "" {
		return p, nil
	}
	return "", errors.NewInvalidRequest("no SQLite path: pass --path or set SCRAPEDASH_SQLITE_PATH")
}

// limitOr returns flag when set, else fallback.
func limitOr(flag, fallback int) int {
	if flag > 0 {
		return flag
	}
	return fallback
}

// outputJSON marshals result to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var dErr *errors.DashError
	if stderrors.As(err, &dErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", dErr.Code, dErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseTags trims repeated or comma-separated tag flags into one list.
func parseTags(values []string) []string {
	var tags []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if t := strings.TrimSpace(p); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// demoRows returns sample captures and URLs dated relative to now.
func demoRows(now time.Time) ([]db.SeedCapture, []db.SeedURL) {
	ptr := func(s string) *string { return &s }
	ago := func(d time.Duration) *time.Time {
		t := now.Add(-d).Truncate(time.Second)
		return &t
	}
	day := 24 * time.Hour

	captures := []db.SeedCapture{
		{
			ID:         ptr(capture.RandomID()),
			Title:      ptr("Pricing page update"),
			Summary:    ptr("The **Pro** plan moved from $29 to $35 per seat."),
			SourceURL:  ptr("https://example.com/pricing"),
			CapturedAt: ago(2 * time.Hour),
			Tags:       []string{"pricing", "competitor"},
			RawText:    ptr("Starter $9 / Pro $35 / Enterprise: contact sales"),
		},
		{
			ID:         ptr(capture.RandomID()),
			Title:      ptr("Changelog: March release"),
			Summary:    ptr("Adds SSO, audit log export and a new API rate limit."),
			SourceURL:  ptr("https://example.com/changelog"),
			CapturedAt: ago(1 * day),
			Tags:       []string{"product", "release"},
			RawText:    ptr("SSO via SAML. Audit log export to CSV. API limit raised to 600 rpm."),
		},
		{
			ID:         ptr(capture.RandomID()),
			Title:      ptr("Careers"),
			SourceURL:  ptr("https://example.com/careers"),
			CapturedAt: ago(3 * day),
			Tags:       []string{"jobs"},
			RawText:    ptr("Senior Go engineer (remote). Data engineer (Berlin)."),
		},
		{
			ID:         ptr(capture.RandomID()),
			Title:      ptr("Status page incident"),
			Summary:    ptr("Elevated error rates on the EU region for 40 minutes."),
			SourceURL:  ptr("https://status.example.com"),
			CapturedAt: ago(8 * day),
			Tags:       []string{"incident", "Reliability"},
		},
		{
			// Rows written by older scrapers may lack a title and timestamp
			SourceURL: ptr("https://example.com/blog/launch"),
			Summary:   ptr("Launch announcement draft."),
			Tags:      []string{"product"},
		},
	}

	paused := false
	urls := []db.SeedURL{
		{ID: ptr(capture.RandomID()), URL: "https://example.com/pricing"},
		{ID: ptr(capture.RandomID()), URL: "https://example.com/changelog"},
		{ID: ptr(capture.RandomID()), URL: "https://example.com/careers", Active: &paused},
		{ID: ptr(capture.RandomID()), URL: "https://status.example.com"},
	}
	return captures, urls
}
