package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/config"
	"github.com/kottz/ekman/internal/format"
	"github.com/kottz/ekman/internal/logging"
	"github.com/kottz/ekman/internal/store"
	"github.com/kottz/ekman/internal/tui"
)

type App struct {
	ConfigPath string
	Backend    string
	Server     string
	DB         string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg       *config.Config
	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}
	var startDay string

	cmd := &cobra.Command{
		Use:          "ekman",
		Short:        "Workout log: interactive grid + scriptable commands",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive grid for today's plan
  ekman

  # Open the grid on another day (shortcut for: ekman --day 2024-06-03)
  ekman 2024-06-03

  # Sign in to a server (remote backend)
  ekman --backend remote --server https://ekman.example.com login --username me

  # Log a set from a script
  ekman sets log --exercise "Bench press" --set 1 --weight 80 --reps 5

  # Estimated one-rep max over time
  ekman graph --exercise "Bench press" --metric est_1rm --format text
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app, startDay)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal, so it logs to file only.
		interactive := cmd == cmd.Root() && len(args) == 0
		return app.setup(interactive)
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logCloser == nil {
			return nil
		}
		err := app.logCloser.Close()
		app.logCloser = nil
		return err
	}

	cmd.Flags().StringVar(&startDay, "day", "", "Day to open the grid on (YYYY-MM-DD; default today)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("EKMAN_CONFIG", ""), "Path to config.toml (default: <config dir>/config.toml)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Backend (local|remote); overrides config and EKMAN_BACKEND")
	cmd.PersistentFlags().StringVar(&app.Server, "server", "", "Server URL for the remote backend")
	cmd.PersistentFlags().StringVar(&app.DB, "db", "", "SQLite database for the local backend")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("EKMAN_LOG_LEVEL", ""), "Log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("EKMAN_FORMAT", "json"), "Output format (json|text)")

	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newPlanCmd(app))
	cmd.AddCommand(newExercisesCmd(app))
	cmd.AddCommand(newSetsCmd(app))
	cmd.AddCommand(newGraphCmd(app))
	cmd.AddCommand(newActivityCmd(app))

	return cmd
}

// setup layers flags over the loaded config and configures logging.
func (app *App) setup(interactive bool) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return err
	}
	if app.Backend != "" {
		cfg.Backend = app.Backend
	}
	if app.Server != "" {
		cfg.ServerURL = app.Server
	}
	if app.DB != "" {
		cfg.Database = app.DB
	}
	if app.LogLevel != "" {
		cfg.Log.Level = app.LogLevel
	}
	app.cfg = cfg

	app.logCloser = logging.Setup(logging.Params{
		FileName: cfg.Log.File,
		ToStderr: cfg.Log.ToStderr && !interactive,
		Level:    cfg.Log.Level,
		JSON:     cfg.Log.JSON,
	})
	return nil
}

func runTUI(cmd *cobra.Command, app *App, startDay string) error {
	opts := tui.OptionsFromConfig(app.cfg)
	if startDay != "" {
		d, err := parseDay(startDay)
		if err != nil {
			return writeErr(cmd, err)
		}
		opts.Day = d
	}
	client, err := app.openClient(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeClient(client)
	log.Infof("tui: starting (backend=%s)", app.cfg.Backend)
	return tui.Run(client, opts)
}

func (app *App) openClient(ctx context.Context) (api.Client, error) {
	if err := app.cfg.Validate(); err != nil {
		return nil, err
	}
	switch app.cfg.Backend {
	case config.BackendRemote:
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		c, err := api.NewHTTPClient(api.HTTPClientOptions{
			BaseURL:    app.cfg.ServerURL,
			CookiePath: filepath.Join(dir, "session.cookie"),
			Timeout:    app.cfg.RequestTimeout.Duration,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		s, err := store.Open(ctx, app.cfg.Database)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func closeClient(c api.Client) {
	if err := c.Close(); err != nil {
		log.Warnf("cli: close backend: %s", err)
	}
}

// withClient opens the configured backend for one command. Errors from fn
// are reported on stderr.
func withClient(cmd *cobra.Command, app *App, fn func(ctx context.Context, c api.Client) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), app.cfg.RequestTimeout.Duration)
	defer cancel()

	c, err := app.openClient(ctx)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeClient(c)

	if err := fn(ctx, c); err != nil {
		log.Debugf("cli: %s failed: %s", cmd.CommandPath(), err)
		return writeErr(cmd, describe(err))
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
