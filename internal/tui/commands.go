package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"mooncookies-cli/internal/api"
	"mooncookies-cli/internal/cache"
	"mooncookies-cli/internal/draft"
	"mooncookies-cli/internal/model"
	"mooncookies-cli/internal/reconcile"
	"mooncookies-cli/internal/session"
)

// Network work runs inside tea.Cmd closures so the update loop never blocks;
// each command reports back with a done message.

func bootstrapCmd(s *session.Controller) tea.Cmd {
	return func() tea.Msg {
		connected, user := s.Bootstrap(context.Background())
		return bootstrapDoneMsg{connected: connected, user: user}
	}
}

func loadCookiesCmd(c *cache.Cache, lister cache.Lister) tea.Cmd {
	return func() tea.Msg {
		c.Load(context.Background(), lister)
		return cookiesLoadedMsg{}
	}
}

func loginCmd(s *session.Controller, email, password string) tea.Cmd {
	return func() tea.Msg {
		u, err := s.Login(context.Background(), email, password)
		return authDoneMsg{user: u, err: err}
	}
}

func signupCmd(s *session.Controller, name, email, password string) tea.Cmd {
	return func() tea.Msg {
		u, err := s.Signup(context.Background(), name, email, password)
		return authDoneMsg{user: u, err: err}
	}
}

func logoutCmd(s *session.Controller) tea.Cmd {
	return func() tea.Msg {
		s.Logout(context.Background())
		return logoutDoneMsg{}
	}
}

func submitCreateCmd(r *reconcile.Reconciler, u *model.User, p api.Payload) tea.Cmd {
	return func() tea.Msg {
		created, err := r.SubmitCreate(context.Background(), u, p)
		return submitDoneMsg{cookie: created, editing: false, err: err}
	}
}

func submitUpdateCmd(r *reconcile.Reconciler, u *model.User, id string, p api.Payload) tea.Cmd {
	return func() tea.Msg {
		updated, err := r.SubmitUpdate(context.Background(), u, id, p)
		return submitDoneMsg{cookie: updated, editing: true, err: err}
	}
}

// deleteCmd runs a delete that was already confirmed in the modal, so the
// confirmation hook always approves.
func deleteCmd(r *reconcile.Reconciler, u *model.User, id string) tea.Cmd {
	return func() tea.Msg {
		_, err := r.SubmitDelete(context.Background(), u, id, func(model.Cookie) bool { return true })
		return deleteDoneMsg{id: id, err: err}
	}
}

// renderPreviewCmd reads and encodes the pending attachment off the
// interaction path. It captures the path by value so later edits to the
// draft can't race the read.
func renderPreviewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		d := draft.Draft{}
		d.SetAttachment(path)
		dataURL, err := d.RenderPreview()
		return previewReadyMsg{forPath: path, dataURL: dataURL, err: err}
	}
}
