package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mooncookies-cli/internal/cache"
	"mooncookies-cli/internal/eventlog"
	"mooncookies-cli/internal/model"
	"mooncookies-cli/internal/reconcile"
)

type appModel struct {
	deps  Deps
	cache *cache.Cache

	width  int
	height int
	// We treat the very first WindowSizeMsg as "initial sizing" rather than
	// a user-driven resize.
	seenWindowSize bool

	view  view
	modal modalKind

	// Startup probe results; the landing view renders an offline banner
	// until the backend answers the health check.
	bootstrapped bool
	connected    bool
	user         *model.User

	// Landing (login/signup) state.
	landingMode   landingMode
	landingFocus  landingFocus
	nameInput     textinput.Model
	emailInput    textinput.Model
	passwordInput textinput.Model
	authBusy      bool

	// Dashboard state.
	cookieList list.Model
	loading    bool

	// spin animates while any network call is in flight.
	spin spinner.Model

	form *formState

	confirmID    string
	confirmName  string
	confirmFocus confirmModalFocus
	deleteBusy   bool

	minibufferText string
}

const (
	maxContentW      = 96
	minSplitDetailW  = 80
	splitGapW        = 2
	splitOuterMargin = 2
)

func newAppModel(deps Deps) appModel {
	m := appModel{
		deps:  deps,
		cache: cache.New(deps.Log),
		view:  viewLanding,
	}

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "Name"
	m.nameInput.CharLimit = 120
	m.nameInput.Width = 36

	m.emailInput = textinput.New()
	m.emailInput.Placeholder = "Email"
	m.emailInput.CharLimit = 200
	m.emailInput.Width = 36

	m.passwordInput = textinput.New()
	m.passwordInput.Placeholder = "Password"
	m.passwordInput.CharLimit = 200
	m.passwordInput.Width = 36
	m.passwordInput.EchoMode = textinput.EchoPassword

	m.landingFocus = landingFocusEmail
	m.emailInput.Focus()

	m.cookieList = newCookieList()

	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.spin.Style = lipgloss.NewStyle().Foreground(colorAccent)
	return m
}

func newCookieList() list.Model {
	l := list.New([]list.Item{}, newCookieRowDelegate(), 0, 0)
	l.Title = "Cookies"
	// We render our own header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetStatusBarItemName("cookie", "cookies")
	// Bubble list defaults to quitting on ESC; here ESC is "cancel/back".
	l.KeyMap.Quit.SetKeys("q")
	return l
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(bootstrapCmd(m.deps.Sessions), m.spin.Tick, textinput.Blink)
}

// busy reports whether any network call is in flight.
func (m appModel) busy() bool {
	submitting := m.form != nil && m.form.submitting
	return m.loading || m.authBusy || m.deleteBusy || submitting || !m.bootstrapped
}

// reconciler wires the mutation path for the current identity. Built per
// submission so the audit actor always matches the logged-in user.
func (m appModel) reconciler() *reconcile.Reconciler {
	var rec reconcile.Recorder
	if m.deps.Events != nil && m.user != nil {
		rec = eventlog.Recorder{Log: m.deps.Events, Actor: m.user.ID}
	}
	return reconcile.New(m.deps.Client, m.cache, rec, m.deps.Log)
}

// refreshCookieList snapshots the cache into the list model, preserving the
// selection where possible.
func (m *appModel) refreshCookieList() {
	selectedID := ""
	if it, ok := m.cookieList.SelectedItem().(cookieRowItem); ok {
		selectedID = it.cookie.ID
	}

	entries := m.cache.Entries()
	items := make([]list.Item, 0, len(entries))
	idx := -1
	for i, c := range entries {
		if c.ID == selectedID {
			idx = i
		}
		items = append(items, cookieRowItem{cookie: c})
	}
	m.cookieList.SetItems(items)
	if idx >= 0 {
		m.cookieList.Select(idx)
	}
}

func (m *appModel) selectedCookie() (model.Cookie, bool) {
	it, ok := m.cookieList.SelectedItem().(cookieRowItem)
	if !ok {
		return model.Cookie{}, false
	}
	return it.cookie, true
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
}

func (m *appModel) resizeLists() {
	listW, _ := m.splitWidths()
	h := m.height - headerLines - footerLines
	if h < 1 {
		h = 1
	}
	m.cookieList.SetSize(listW, h)
}

// splitWidths returns the list and detail pane widths. Detail is zero when
// the terminal is too narrow for a split.
func (m appModel) splitWidths() (listW, detailW int) {
	w := m.width - splitOuterMargin
	if w > maxContentW {
		w = maxContentW
	}
	if w < 10 {
		w = 10
	}
	if m.width < minSplitDetailW {
		return w, 0
	}
	listW = w * 2 / 5
	detailW = w - listW - splitGapW
	return listW, detailW
}
