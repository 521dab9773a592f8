package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"mooncookies-cli/internal/draft"
	"mooncookies-cli/internal/model"
)

type formFocus int

const (
	formFocusName formFocus = iota
	formFocusDescription
	formFocusPrice
	formFocusInventory
	formFocusPhoto
	formFocusStatus
)

// formState backs the create/edit modal. Numeric fields stay as raw text
// until submit; the draft does the coercion and validation.
type formState struct {
	draft *draft.Draft

	focus       formFocus
	name        textinput.Model
	description textarea.Model
	price       textinput.Model
	inventory   textinput.Model
	photo       textinput.Model
	statusIdx   int

	// preview is the rendered data URL for the pending attachment, filled
	// asynchronously by renderPreviewCmd.
	preview    string
	previewErr string

	// submitting blocks re-entry while a save is in flight.
	submitting bool
}

func newFormState(d *draft.Draft) *formState {
	f := &formState{draft: d}

	f.name = textinput.New()
	f.name.Placeholder = "Cookie name"
	f.name.CharLimit = 200
	f.name.Width = 40
	f.name.SetValue(d.Name)

	f.description = textarea.New()
	f.description.Placeholder = "Description (markdown)"
	f.description.CharLimit = 0
	f.description.SetWidth(56)
	f.description.SetHeight(5)
	f.description.ShowLineNumbers = false
	f.description.SetValue(d.Description)

	f.price = textinput.New()
	f.price.Placeholder = "0.00"
	f.price.CharLimit = 16
	f.price.Width = 10
	f.price.SetValue(d.PriceInput)

	f.inventory = textinput.New()
	f.inventory.Placeholder = "0"
	f.inventory.CharLimit = 10
	f.inventory.Width = 10
	f.inventory.SetValue(d.InventoryInput)

	f.photo = textinput.New()
	f.photo.Placeholder = "Path to a photo (optional)"
	f.photo.CharLimit = 500
	f.photo.Width = 40
	f.photo.SetValue(d.AttachmentPath)

	for i, s := range model.BakingStatuses {
		if s == d.BakingStatus {
			f.statusIdx = i
		}
	}

	f.name.Focus()
	return f
}

// syncDraft copies the widget values back onto the draft. Called before
// validation/submission and before rendering the attachment preview.
func (f *formState) syncDraft() {
	f.draft.Name = f.name.Value()
	f.draft.Description = f.description.Value()
	f.draft.PriceInput = f.price.Value()
	f.draft.InventoryInput = f.inventory.Value()
	f.draft.SetAttachment(f.photo.Value())
	f.draft.SetBakingStatus(model.BakingStatuses[f.statusIdx])
}

func (f *formState) setFocus(focus formFocus) {
	f.focus = focus
	f.name.Blur()
	f.description.Blur()
	f.price.Blur()
	f.inventory.Blur()
	f.photo.Blur()
	switch focus {
	case formFocusName:
		f.name.Focus()
	case formFocusDescription:
		f.description.Focus()
	case formFocusPrice:
		f.price.Focus()
	case formFocusInventory:
		f.inventory.Focus()
	case formFocusPhoto:
		f.photo.Focus()
	}
}

func (f *formState) focusNext() {
	f.setFocus((f.focus + 1) % (formFocusStatus + 1))
}

func (f *formState) focusPrev() {
	f.setFocus((f.focus + formFocusStatus) % (formFocusStatus + 1))
}

// cycleStatus moves the single-select baking status. Selecting one always
// deselects the previous choice.
func (f *formState) cycleStatus(delta int) {
	n := len(model.BakingStatuses)
	f.statusIdx = (f.statusIdx + delta + n) % n
}

// updateFocused routes a message to the focused widget.
func (f *formState) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case formFocusName:
		f.name, cmd = f.name.Update(msg)
	case formFocusDescription:
		f.description, cmd = f.description.Update(msg)
	case formFocusPrice:
		f.price, cmd = f.price.Update(msg)
	case formFocusInventory:
		f.inventory, cmd = f.inventory.Update(msg)
	case formFocusPhoto:
		f.photo, cmd = f.photo.Update(msg)
	}
	return cmd
}

func (m appModel) renderFormModal() string {
	f := m.form
	if f == nil {
		return ""
	}

	title := "Bake a cookie"
	if f.draft.Editing() {
		title = "Edit cookie"
	}

	bodyW := modalBodyWidth(m.width)
	label := styleMuted()
	focused := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	fieldLabel := func(text string, focus formFocus) string {
		if f.focus == focus {
			return focused.Render(text)
		}
		return label.Render(text)
	}

	statusRow := renderStatusPicker(f.statusIdx, f.focus == formFocusStatus)

	previewLine := renderAttachmentPreview(f, bodyW)

	rows := []string{
		fieldLabel("Name", formFocusName),
		f.name.View(),
		"",
		fieldLabel("Description", formFocusDescription),
		f.description.View(),
		"",
		fieldLabel("Price (USD)", formFocusPrice) + "   " + fieldLabel("Inventory", formFocusInventory),
		lipgloss.JoinHorizontal(lipgloss.Top, f.price.View(), "   ", f.inventory.View()),
		"",
		fieldLabel("Photo", formFocusPhoto),
		f.photo.View(),
	}
	if previewLine != "" {
		rows = append(rows, previewLine)
	}
	rows = append(rows,
		"",
		fieldLabel("Baking status", formFocusStatus),
		statusRow,
		"",
	)

	help := "tab: next field   ctrl+s: save   esc/ctrl+g: cancel"
	if f.focus == formFocusStatus {
		help = "left/right: choose status   " + help
	}
	if f.submitting {
		help = "saving…"
	}
	rows = append(rows, styleMuted().Width(bodyW).Render(help))

	return renderModalBox(m.width, title, strings.Join(rows, "\n"))
}

// renderStatusPicker shows the three baking stages as a one-of-three choice.
func renderStatusPicker(selected int, active bool) string {
	base := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	sel := base.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	parts := make([]string, 0, len(model.BakingStatuses))
	for i, s := range model.BakingStatuses {
		st := base
		if i == selected {
			st = sel
			if active {
				st = st.Foreground(lipgloss.Color("255")).Background(colorAccent)
			}
		}
		parts = append(parts, st.Render(s.Label()))
	}
	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	return strings.Join(parts, sep)
}

// renderAttachmentPreview shows what the photo slot would display: the
// pending attachment as a data URL (truncated), the current thumbnail in
// edit mode, or nothing.
func renderAttachmentPreview(f *formState, width int) string {
	if f.previewErr != "" {
		return lipgloss.NewStyle().Foreground(colorError).Render("photo: " + f.previewErr)
	}
	shown := f.draft.Preview(f.preview)
	if shown == "" {
		return ""
	}
	line := "preview: " + shown
	if xansi.StringWidth(line) > width && width > 1 {
		line = xansi.Cut(line, 0, width-1) + "…"
	}
	return styleMuted().Render(line)
}
