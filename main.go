package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/promptshelf/internal/commands"
	"github.com/colonyops/promptshelf/internal/core/config"
	"github.com/colonyops/promptshelf/internal/core/i18n"
	"github.com/colonyops/promptshelf/internal/core/idgen"
	"github.com/colonyops/promptshelf/internal/core/logging"
	"github.com/colonyops/promptshelf/internal/core/messaging"
	"github.com/colonyops/promptshelf/internal/core/prompt"
	"github.com/colonyops/promptshelf/internal/core/tagcolor"
	"github.com/colonyops/promptshelf/internal/data/db"
	"github.com/colonyops/promptshelf/internal/data/remote"
	"github.com/colonyops/promptshelf/internal/data/stores"
	"github.com/colonyops/promptshelf/internal/shelf"
	"github.com/colonyops/promptshelf/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls back
	// to runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		shelfApp  = &shelf.App{}
		database  *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "promptshelf",
		Usage:     "Keep a tagged library of reusable prompts",
		UsageText: "promptshelf [global options] command [command options]",
		Description: `Promptshelf stores prompts with free-form tags and draws each tag in a
stable, evenly spread palette color.

Run 'promptshelf prompt add' to save a prompt and 'promptshelf prompt ls' to
browse them. Selections piped to 'promptshelf capture' become prompts too.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("PROMPTSHELF_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/promptshelf.log)",
				Sources:     cli.EnvVars("PROMPTSHELF_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("PROMPTSHELF_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("PROMPTSHELF_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.BoolFlag{
				Name:        "no-color",
				Usage:       "draw tags as plain text",
				Sources:     cli.EnvVars("PROMPTSHELF_NO_COLOR"),
				Destination: &flags.NoColor,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/promptshelf.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "promptshelf.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			scheme, err := cfg.Scheme()
			if err != nil {
				return ctx, fmt.Errorf("tag palette: %w", err)
			}

			catalog, err := i18n.LoadCatalog(cfg.LocaleFile(flags.ConfigPath))
			if err != nil {
				return ctx, fmt.Errorf("load locale: %w", err)
			}

			var store prompt.Store
			store, database, err = openStore(cfg, logging.Component("store"))
			if err != nil {
				return ctx, err
			}

			colors := tagcolor.New(scheme.Colors)
			prompts := prompt.NewService(store, idgen.UUIDv4{}, colors, logging.Component("prompts"))

			// Colors follow stored tag order, oldest prompt first.
			if err := prompts.WarmColors(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to warm tag colors")
			}

			relay := messaging.NewRelay(messaging.RelayOptions{
				Attempts:   cfg.Relay.Attempts,
				Delay:      cfg.Relay.Delay,
				MaxPending: cfg.Relay.MaxPending,
			}, logging.Component("relay"))

			capture := shelf.NewCaptureService(relay, prompts, logging.Component("capture"))
			if err := capture.Attach(ctx); err != nil {
				return ctx, fmt.Errorf("attach capture relay: %w", err)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*shelfApp = shelf.App{
				Prompts: prompts,
				Capture: capture,
				Colors:  colors,
				Scheme:  scheme,
				Text:    catalog.Localizer(cfg.LocalePreferences()...),
				IDs:     idgen.UUIDv4{},
				Config:  cfg,
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewPromptCmd(flags, shelfApp).Register(app)
	app = commands.NewTagsCmd(flags, shelfApp).Register(app)
	app = commands.NewCaptureCmd(flags, shelfApp).Register(app)
	app = commands.NewIDCmd(shelfApp).Register(app)
	app = commands.NewConfigValidateCmd(flags, shelfApp).Register(app)

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}

// openStore returns the configured prompt store. The database is non-nil
// only for the local backend and must be closed by the caller.
func openStore(cfg *config.Config, logger zerolog.Logger) (prompt.Store, *db.DB, error) {
	if cfg.Store.Backend == config.BackendRemote {
		client, err := remote.New(remote.Options{
			BaseURL: cfg.Store.RemoteURL,
			APIKey:  cfg.APIKey(),
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("remote store: %w", err)
		}
		return client, nil, nil
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	database, err := db.Open(cfg.DataDir, db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
		Logger:       logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return stores.NewPromptStore(database), database, nil
}
