package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func modalBodyWidth(width int) int {
	w := width - 12
	if w > maxContentW-8 {
		w = maxContentW - 8
	}
	if w < 24 {
		w = 24
	}
	return w
}

// renderModalBox draws a titled surface-colored box sized to the terminal.
// Borders are avoided on purpose: some terminals show background artifacts
// when nesting bordered components inside a modal with a background color.
func renderModalBox(width int, title string, content string) string {
	bodyW := modalBodyWidth(width)

	titleLine := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSurfaceFg).
		Width(bodyW).
		Render(title)

	body := lipgloss.NewStyle().
		Foreground(colorSurfaceFg).
		Width(bodyW).
		Render(content)

	return lipgloss.NewStyle().
		Background(colorSurfaceBg).
		Padding(1, 3).
		Render(titleLine + "\n\n" + body)
}

// renderConfirmModal lays out a yes/no decision: the question, a button
// pair, and the key help. The caller starts focus on the cancel side so a
// stray enter never destroys anything.
func renderConfirmModal(width int, title string, question string, confirmLabel string, cancelLabel string, focus confirmModalFocus) string {
	gap := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		confirmButton(confirmLabel, focus == confirmFocusConfirm),
		gap,
		confirmButton(cancelLabel, focus == confirmFocusCancel),
	)

	var b strings.Builder
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(buttons)
	b.WriteString("\n\n")
	b.WriteString(styleMuted().Width(modalBodyWidth(width)).Render("tab: focus   enter: select   esc/ctrl+g: cancel"))
	return renderModalBox(width, title, b.String())
}

func confirmButton(label string, active bool) string {
	s := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	if active {
		s = s.
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true)
	}
	return s.Render(label)
}

// placeCentered positions a modal in the middle of the screen.
func (m appModel) placeCentered(s string) string {
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		return s
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, s)
}
