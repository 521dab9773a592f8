package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"mooncookies-cli/internal/model"
	"mooncookies-cli/internal/policy"
)

const (
	headerLines = 2
	footerLines = 2
)

func (m appModel) View() string {
	if !m.seenWindowSize {
		return "Loading…"
	}

	if m.modal == modalForm {
		return m.placeCentered(m.renderFormModal())
	}
	if m.modal == modalConfirmDelete {
		return m.placeCentered(renderConfirmModal(
			m.width,
			"Jettison cookie",
			"Jettison "+strconv.Quote(m.confirmName)+" into space? This cannot be undone.",
			"Jettison",
			"Cancel",
			m.confirmFocus,
		))
	}

	var body string
	switch m.view {
	case viewLanding:
		body = m.viewLanding()
	case viewDashboard:
		body = m.viewDashboard()
	}

	bodyH := m.height - headerLines - footerLines
	if bodyH < 1 {
		bodyH = 1
	}
	body = normalizePane(body, m.width, bodyH)

	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

func (m appModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("Moon Cookies")

	dot := lipgloss.NewStyle().Foreground(colorError).Render("●")
	state := styleMuted().Render(" offline")
	if !m.bootstrapped {
		dot = lipgloss.NewStyle().Foreground(colorWarn).Render("●")
		state = styleMuted().Render(" connecting…")
	} else if m.connected {
		dot = lipgloss.NewStyle().Foreground(colorOK).Render("●")
		state = styleMuted().Render(" online")
	}

	left := title + "  " + dot + state
	if m.busy() {
		left += "  " + m.spin.View()
	}

	right := ""
	if m.user != nil {
		right = styleMuted().Render(m.user.Name + " (" + string(m.user.Role) + ")")
	}

	leftW := xansi.StringWidth(left)
	rightW := xansi.StringWidth(right)
	pad := m.width - leftW - rightW - 1
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right + "\n"
}

func (m appModel) renderFooter() string {
	mini := ""
	if m.minibufferText != "" {
		mini = lipgloss.NewStyle().Foreground(colorWarn).Render(m.minibufferText)
	}

	help := ""
	switch m.view {
	case viewLanding:
		mode := "signup"
		if m.landingMode == landingSignup {
			mode = "login"
		}
		help = "enter: submit   tab: next field   ctrl+t: switch to " + mode + "   ctrl+c: quit"
	case viewDashboard:
		// Only offer the controls the policy would allow; the gates in the
		// key handlers still back this up.
		parts := []string{}
		if policy.CanCreate(m.user) {
			parts = append(parts, "n: bake")
		}
		if c, ok := m.selectedCookie(); ok && policy.CanMutate(m.user, c) {
			parts = append(parts, "e: edit", "d: jettison")
		}
		parts = append(parts, "r: reload", "/: filter", "ctrl+l: log out", "q: quit")
		help = strings.Join(parts, "   ")
	}
	return mini + "\n" + styleMuted().Render(help)
}

func (m appModel) viewLanding() string {
	mode := "Log in"
	if m.landingMode == landingSignup {
		mode = "Sign up"
	}

	rows := []string{
		lipgloss.NewStyle().Bold(true).Render(mode),
		"",
	}
	if m.landingMode == landingSignup {
		rows = append(rows, m.nameInput.View())
	}
	rows = append(rows, m.emailInput.View(), m.passwordInput.View())

	if m.authBusy {
		rows = append(rows, "", styleMuted().Render("contacting the moon base…"))
	} else if m.bootstrapped && !m.connected {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(colorError).
			Render("Backend unreachable. Press ctrl+r to retry."))
	}

	box := lipgloss.NewStyle().Padding(1, 3).Render(strings.Join(rows, "\n"))

	w := m.width
	h := m.height - headerLines - footerLines
	if w <= 0 || h <= 0 {
		return box
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}

func (m appModel) viewDashboard() string {
	listW, detailW := m.splitWidths()
	h := m.height - headerLines - footerLines
	if h < 1 {
		h = 1
	}

	if m.cache.Len() == 0 && !m.loading {
		empty := styleMuted().Render("The ovens are cold. No cookies yet.")
		if m.user != nil && m.user.Role == model.RoleAstronaut {
			empty += "\n" + styleMuted().Render("Press n to bake the first one.")
		}
		return empty
	}

	left := normalizePane(m.cookieList.View(), listW, h)
	if detailW <= 0 {
		return left
	}

	detail := ""
	if c, ok := m.selectedCookie(); ok {
		detail = renderCookieDetail(c, detailW)
	}
	right := normalizePane(detail, detailW, h)

	gap := strings.Repeat(" ", splitGapW)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, gap, right)
}
