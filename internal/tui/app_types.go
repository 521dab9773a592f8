package tui

import "mooncookies-cli/internal/model"

type view int

const (
	viewLanding view = iota
	viewDashboard
)

type modalKind int

const (
	modalNone modalKind = iota
	modalForm
	modalConfirmDelete
)

type landingMode int

const (
	landingLogin landingMode = iota
	landingSignup
)

type landingFocus int

const (
	landingFocusName landingFocus = iota
	landingFocusEmail
	landingFocusPassword
)

type confirmModalFocus int

const (
	confirmFocusCancel confirmModalFocus = iota
	confirmFocusConfirm
)

// bootstrapDoneMsg reports the startup connectivity probe and any restored
// identity.
type bootstrapDoneMsg struct {
	connected bool
	user      *model.User
}

// authDoneMsg completes a login or signup attempt.
type authDoneMsg struct {
	user model.User
	err  error
}

type logoutDoneMsg struct{}

// cookiesLoadedMsg signals that the cache finished a bulk load (success or
// logged failure; either way the list can re-render).
type cookiesLoadedMsg struct{}

// submitDoneMsg completes a create or update submission.
type submitDoneMsg struct {
	cookie  model.Cookie
	editing bool
	err     error
}

// deleteDoneMsg completes a confirmed delete.
type deleteDoneMsg struct {
	id  string
	err error
}

// previewReadyMsg carries the rendered attachment preview (a data URL).
type previewReadyMsg struct {
	forPath string
	dataURL string
	err     error
}
