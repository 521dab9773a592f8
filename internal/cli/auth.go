package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"golang.org/x/term"

	"mooncookies-cli/internal/session"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe backend reachability and session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.wire(false)
			if err != nil {
				return err
			}
			defer w.close()

			connected, user := w.sessions.Bootstrap(cmd.Context())
			out := map[string]any{
				"backend":   w.cfg.BackendURL,
				"connected": connected,
			}
			if user != nil {
				out["user"] = user
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newLoginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.wire(false)
			if err != nil {
				return err
			}
			defer w.close()

			if strings.TrimSpace(email) == "" {
				return errors.New("--email is required")
			}
			pw, err := resolvePassword(cmd, password)
			if err != nil {
				return err
			}
			user, err := w.sessions.Login(cmd.Context(), email, pw)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if w.events != nil {
				w.events.Append(user.ID, "session.login", user.ID, map[string]string{"email": user.Email})
			}
			return writeOut(cmd, app, user)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newSignupCmd(app *App) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a customer account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.wire(false)
			if err != nil {
				return err
			}
			defer w.close()

			if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
				return errors.New("--name and --email are required")
			}
			pw, err := resolvePassword(cmd, password)
			if err != nil {
				return err
			}
			user, err := w.sessions.Signup(cmd.Context(), name, email, pw)
			if err != nil {
				return fmt.Errorf("signup failed (the email might already be in use): %w", err)
			}
			if w.events != nil {
				w.events.Append(user.ID, "session.signup", user.ID, map[string]string{"email": user.Email})
			}
			return writeOut(cmd, app, user)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.wire(false)
			if err != nil {
				return err
			}
			defer w.close()

			_, user := w.sessions.Bootstrap(cmd.Context())
			w.sessions.Logout(cmd.Context())
			if w.events != nil && user != nil {
				w.events.Append(user.ID, "session.logout", user.ID, nil)
			}
			return writeOut(cmd, app, map[string]string{"status": "logged out"})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.wire(false)
			if err != nil {
				return err
			}
			defer w.close()

			connected, user := w.sessions.Bootstrap(cmd.Context())
			if !connected {
				return errors.New("backend unreachable")
			}
			if user == nil {
				return session.ErrNotLoggedIn
			}
			return writeOut(cmd, app, user)
		},
	}
}

// resolvePassword prompts on a terminal when the flag was omitted; piped
// stdin falls back to a plain line read.
func resolvePassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	if f, ok := cmd.InOrStdin().(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("no password provided")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
