package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mooncookies-cli/internal/api"
	"mooncookies-cli/internal/config"
	"mooncookies-cli/internal/eventlog"
	"mooncookies-cli/internal/format"
	"mooncookies-cli/internal/session"
	"mooncookies-cli/internal/tui"
)

type App struct {
	Backend string
	Pretty  bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "mooncookies",
		Short:        "Moon Cookies mission control (CLI + TUI)",
		SilenceUsage: true,
		Example: `
  # Start the interactive dashboard
  mooncookies

  # Scriptable commands
  mooncookies login --email neil@moonbase.io
  mooncookies cookies list
  mooncookies cookies create --name "Lunar Crunch" --price 3.00 --inventory 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Backend URL (overrides MOONCOOKIES_BACKEND_URL)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newSignupCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newCookiesCmd(app))
	cmd.AddCommand(newEventsCmd(app))

	return cmd
}

// wiring holds the explicitly constructed collaborators for one command
// invocation. Nothing here is a package-level singleton, so tests can
// substitute fakes at every seam.
type wiring struct {
	cfg      config.Config
	client   *api.Client
	sessions *session.Controller
	events   *eventlog.Log
	log      *slog.Logger
}

func (a *App) wire(forTUI bool) (*wiring, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if a.Backend != "" {
		cfg.BackendURL = a.Backend
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg, dir, forTUI)
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.BackendURL, time.Duration(cfg.RequestTimeoutSec)*time.Second)
	creds := &session.CredentialsStore{Dir: dir}
	ctrl := session.New(client, creds, log)

	events, err := openEventLog(dir, log)
	if err != nil {
		// The audit log is auxiliary; a broken local db must not make the
		// client unusable.
		log.Warn("event log unavailable", "err", err)
		events = nil
	}

	return &wiring{cfg: cfg, client: client, sessions: ctrl, events: events, log: log}, nil
}

func (w *wiring) close() {
	if w.events != nil {
		_ = w.events.Close()
	}
}

// newLogger routes slog output. While the TUI owns the alternate screen,
// stderr writes would shred the display, so logs go to a file instead.
func newLogger(cfg config.Config, dir string, forTUI bool) (*slog.Logger, error) {
	if !forTUI && cfg.LogPath == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, nil)), nil
	}
	path := cfg.LogPath
	if path == "" {
		path = filepath.Join(dir, "mooncookies.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(f, nil)), nil
}

func openEventLog(dir string, log *slog.Logger) (*eventlog.Log, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return eventlog.Open(filepath.Join(dir, "events.db"), log)
}

func runTUI(app *App) error {
	w, err := app.wire(true)
	if err != nil {
		return err
	}
	defer w.close()
	return tui.Run(tui.Deps{
		Client:   w.client,
		Sessions: w.sessions,
		Events:   w.events,
		Log:      w.log,
	})
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.Pretty)
}
