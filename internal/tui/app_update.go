package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mooncookies-cli/internal/cache"
	"mooncookies-cli/internal/draft"
	"mooncookies-cli/internal/policy"
	"mooncookies-cli/internal/reconcile"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		m.resizeLists()
		return m, nil

	case bootstrapDoneMsg:
		m.bootstrapped = true
		m.connected = msg.connected
		m.user = msg.user
		if msg.user != nil {
			m.view = viewDashboard
			m.loading = true
			return m, loadCookiesCmd(m.cache, m.deps.Client)
		}
		return m, nil

	case cookiesLoadedMsg:
		m.loading = false
		m.refreshCookieList()
		return m, nil

	case authDoneMsg:
		m.authBusy = false
		if msg.err != nil {
			m.showMinibuffer(authFailureText(m.landingMode, msg.err))
			return m, nil
		}
		u := msg.user
		m.user = &u
		m.passwordInput.SetValue("")
		m.view = viewDashboard
		m.loading = true
		return m, loadCookiesCmd(m.cache, m.deps.Client)

	case logoutDoneMsg:
		m.user = nil
		m.view = viewLanding
		m.modal = modalNone
		m.form = nil
		// The cache belongs to the session; drop it with the identity.
		m.cache = cache.New(m.deps.Log)
		m.refreshCookieList()
		m.landingMode = landingLogin
		m.setLandingFocus(landingFocusEmail)
		return m, nil

	case submitDoneMsg:
		if m.form != nil {
			m.form.submitting = false
		}
		if msg.err != nil {
			// The draft stays open so nothing typed is lost.
			m.showMinibuffer(saveFailureText(msg.err))
			return m, nil
		}
		m.modal = modalNone
		m.form = nil
		m.refreshCookieList()
		if !msg.editing {
			// New entries land at the front.
			m.cookieList.Select(0)
		}
		m.showMinibuffer("Saved " + msg.cookie.Name)
		return m, nil

	case deleteDoneMsg:
		m.deleteBusy = false
		m.modal = modalNone
		if msg.err != nil {
			m.showMinibuffer(deleteFailureText(msg.err))
			return m, nil
		}
		m.refreshCookieList()
		m.showMinibuffer("Jettisoned " + m.confirmName + " into space")
		return m, nil

	case previewReadyMsg:
		if m.form == nil || msg.forPath != m.form.draft.AttachmentPath {
			// Stale result; the path changed while rendering.
			return m, nil
		}
		if msg.err != nil {
			m.form.preview = ""
			m.form.previewErr = msg.err.Error()
		} else {
			m.form.preview = msg.dataURL
			m.form.previewErr = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Any keypress clears a lingering notice.
		m.minibufferText = ""
		return m.handleKey(msg)
	}

	// Non-key messages (cursor blink and friends) still need to reach the
	// active widget.
	return m.routeToFocused(msg)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal == modalForm {
		return m.updateFormModal(msg)
	}
	if m.modal == modalConfirmDelete {
		return m.updateConfirmModal(msg)
	}

	switch m.view {
	case viewLanding:
		return m.updateLanding(msg)
	case viewDashboard:
		return m.updateDashboard(msg)
	}
	return m, nil
}

func (m appModel) routeToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.modal == modalForm && m.form != nil {
		cmd := m.form.updateFocused(msg)
		return m, cmd
	}
	switch m.view {
	case viewLanding:
		var cmd tea.Cmd
		switch m.landingFocus {
		case landingFocusName:
			m.nameInput, cmd = m.nameInput.Update(msg)
		case landingFocusEmail:
			m.emailInput, cmd = m.emailInput.Update(msg)
		case landingFocusPassword:
			m.passwordInput, cmd = m.passwordInput.Update(msg)
		}
		return m, cmd
	case viewDashboard:
		var cmd tea.Cmd
		m.cookieList, cmd = m.cookieList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// --- landing ---

func (m *appModel) setLandingFocus(focus landingFocus) {
	m.landingFocus = focus
	m.nameInput.Blur()
	m.emailInput.Blur()
	m.passwordInput.Blur()
	switch focus {
	case landingFocusName:
		m.nameInput.Focus()
	case landingFocusEmail:
		m.emailInput.Focus()
	case landingFocusPassword:
		m.passwordInput.Focus()
	}
}

func (m *appModel) cycleLandingFocus(delta int) {
	fields := []landingFocus{landingFocusEmail, landingFocusPassword}
	if m.landingMode == landingSignup {
		fields = []landingFocus{landingFocusName, landingFocusEmail, landingFocusPassword}
	}
	idx := 0
	for i, f := range fields {
		if f == m.landingFocus {
			idx = i
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	m.setLandingFocus(fields[idx])
}

func (m appModel) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+t":
		if m.landingMode == landingLogin {
			m.landingMode = landingSignup
			m.setLandingFocus(landingFocusName)
		} else {
			m.landingMode = landingLogin
			m.setLandingFocus(landingFocusEmail)
		}
		return m, nil

	case "ctrl+r":
		// Retry the reachability probe without restarting.
		m.bootstrapped = false
		return m, bootstrapCmd(m.deps.Sessions)

	case "tab", "down":
		m.cycleLandingFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.cycleLandingFocus(-1)
		return m, nil

	case "enter":
		return m.submitLanding()
	}

	var cmd tea.Cmd
	switch m.landingFocus {
	case landingFocusName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case landingFocusEmail:
		m.emailInput, cmd = m.emailInput.Update(msg)
	case landingFocusPassword:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) submitLanding() (tea.Model, tea.Cmd) {
	if m.authBusy {
		return m, nil
	}
	if !m.connected {
		m.showMinibuffer("Backend unreachable. Press ctrl+r to retry.")
		return m, nil
	}

	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()
	if email == "" || password == "" {
		m.showMinibuffer("Email and password are required")
		return m, nil
	}

	if m.landingMode == landingSignup {
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.showMinibuffer("Name is required")
			return m, nil
		}
		m.authBusy = true
		return m, signupCmd(m.deps.Sessions, name, email, password)
	}
	m.authBusy = true
	return m, loginCmd(m.deps.Sessions, email, password)
}

// --- dashboard ---

func (m appModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is being typed, all keys belong to the list.
	if m.cookieList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.cookieList, cmd = m.cookieList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, loadCookiesCmd(m.cache, m.deps.Client)

	case "ctrl+l":
		return m, logoutCmd(m.deps.Sessions)

	case "n":
		if !policy.CanCreate(m.user) {
			m.showMinibuffer("Only astronauts can bake new cookies")
			return m, nil
		}
		m.form = newFormState(draft.New())
		m.modal = modalForm
		return m, nil

	case "e":
		c, ok := m.selectedCookie()
		if !ok {
			return m, nil
		}
		if !policy.CanMutate(m.user, c) {
			m.showMinibuffer("You can only edit cookies you own")
			return m, nil
		}
		m.form = newFormState(draft.FromCookie(c))
		m.modal = modalForm
		return m, nil

	case "d":
		c, ok := m.selectedCookie()
		if !ok {
			return m, nil
		}
		if !policy.CanMutate(m.user, c) {
			m.showMinibuffer("You can only delete cookies you own")
			return m, nil
		}
		m.confirmID = c.ID
		m.confirmName = c.Name
		m.confirmFocus = confirmFocusCancel
		m.modal = modalConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	m.cookieList, cmd = m.cookieList.Update(msg)
	return m, cmd
}

// --- form modal ---

func (m appModel) updateFormModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil {
		m.modal = modalNone
		return m, nil
	}
	if f.submitting {
		// A save is in flight; ignore input until it reports back.
		return m, nil
	}

	switch msg.String() {
	case "esc", "ctrl+g":
		m.modal = modalNone
		m.form = nil
		return m, nil

	case "ctrl+s":
		return m.submitForm()

	case "tab":
		cmd := m.leavePhotoField()
		f.focusNext()
		return m, cmd
	case "shift+tab":
		cmd := m.leavePhotoField()
		f.focusPrev()
		return m, cmd
	}

	if f.focus == formFocusStatus {
		switch msg.String() {
		case "left", "h":
			f.cycleStatus(-1)
			return m, nil
		case "right", "l", " ":
			f.cycleStatus(1)
			return m, nil
		}
		return m, nil
	}

	cmd := f.updateFocused(msg)
	return m, cmd
}

// leavePhotoField re-renders the attachment preview when focus moves off a
// changed photo path.
func (m *appModel) leavePhotoField() tea.Cmd {
	f := m.form
	if f.focus != formFocusPhoto {
		return nil
	}
	path := strings.TrimSpace(f.photo.Value())
	if path == f.draft.AttachmentPath {
		return nil
	}
	f.draft.SetAttachment(path)
	f.preview = ""
	f.previewErr = ""
	if path == "" {
		return nil
	}
	return renderPreviewCmd(path)
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	f.syncDraft()

	owner := ""
	if m.user != nil {
		owner = m.user.ID
	}
	if f.draft.Editing() {
		if existing, ok := m.cache.Find(f.draft.ID); ok {
			owner = existing.OwnerRef()
		}
	}

	payload, err := f.draft.Payload(owner)
	if err != nil {
		// Rejected before any network call; the draft stays as typed.
		m.showMinibuffer(validationText(err))
		return m, nil
	}

	f.submitting = true
	r := m.reconciler()
	if f.draft.Editing() {
		return m, submitUpdateCmd(r, m.user, f.draft.ID, payload)
	}
	return m, submitCreateCmd(r, m.user, payload)
}

// --- confirm modal ---

func (m appModel) updateConfirmModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.deleteBusy {
		return m, nil
	}

	switch msg.String() {
	case "esc", "ctrl+g", "n":
		m.modal = modalNone
		return m, nil

	case "tab", "left", "right":
		if m.confirmFocus == confirmFocusCancel {
			m.confirmFocus = confirmFocusConfirm
		} else {
			m.confirmFocus = confirmFocusCancel
		}
		return m, nil

	case "y":
		return m.confirmDelete()

	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirmDelete()
		}
		m.modal = modalNone
		return m, nil
	}
	return m, nil
}

func (m appModel) confirmDelete() (tea.Model, tea.Cmd) {
	m.deleteBusy = true
	return m, deleteCmd(m.reconciler(), m.user, m.confirmID)
}

// --- failure texts ---

func authFailureText(mode landingMode, err error) string {
	if mode == landingSignup {
		return "Signup failed: " + err.Error()
	}
	return "Login failed: " + err.Error()
}

func saveFailureText(err error) string {
	if errors.Is(err, reconcile.ErrNotAllowed) {
		return "You are not allowed to change this cookie"
	}
	if errors.Is(err, reconcile.ErrNotFound) {
		return "That cookie is gone; reload with r"
	}
	return "Failed to save cookie: " + err.Error()
}

func deleteFailureText(err error) string {
	if errors.Is(err, reconcile.ErrNotAllowed) {
		return "You can only delete cookies you own"
	}
	if errors.Is(err, reconcile.ErrNotFound) {
		return "That cookie is gone; reload with r"
	}
	return "Failed to delete cookie: " + err.Error()
}

func validationText(err error) string {
	if errors.Is(err, draft.ErrNameRequired) {
		return "A cookie needs a name"
	}
	return "Check the form: " + err.Error()
}
