package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"mooncookies-cli/internal/model"
)

type cookieRowItem struct {
	cookie model.Cookie
}

func (i cookieRowItem) Title() string       { return i.cookie.Name }
func (i cookieRowItem) FilterValue() string { return i.cookie.Name }

type cookieRowDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCookieRowDelegate() cookieRowDelegate {
	return cookieRowDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d cookieRowDelegate) Height() int  { return 1 }
func (d cookieRowDelegate) Spacing() int { return 0 }
func (d cookieRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d cookieRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	row, ok := item.(cookieRowItem)
	if !ok {
		fmt.Fprint(w, "")
		return
	}
	c := row.cookie

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	dot := lipgloss.NewStyle().
		Foreground(statusColor(string(c.BakingStatus))).
		Render("●")

	price := fmt.Sprintf("$%.2f", c.Price)
	stock := fmt.Sprintf("×%d", c.Inventory)
	metaText := price + "  " + stock
	if c.Owner != nil && strings.TrimSpace(c.Owner.Name) != "" {
		metaText += "  · " + c.Owner.Name
	}
	meta := styleMuted().Render(metaText)

	line := dot + " " + c.Name + "  " + meta
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	fmt.Fprint(w, style.Render(line))
}
