package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"mooncookies-cli/internal/api"
	"mooncookies-cli/internal/eventlog"
	"mooncookies-cli/internal/model"
	"mooncookies-cli/internal/session"
)

// ResourceAPI is the slice of the API client the dashboard drives.
type ResourceAPI interface {
	ListCookies(ctx context.Context, q api.ListQuery) ([]model.Cookie, error)
	CreateCookie(ctx context.Context, p api.Payload) (model.Cookie, error)
	UpdateCookie(ctx context.Context, id string, p api.Payload) (model.Cookie, error)
	DeleteCookie(ctx context.Context, id string) error
}

// Deps are the explicitly constructed collaborators; tests substitute
// fakes here.
type Deps struct {
	Client   ResourceAPI
	Sessions *session.Controller
	Events   *eventlog.Log
	Log      *slog.Logger
}

func Run(deps Deps) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(deps)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
