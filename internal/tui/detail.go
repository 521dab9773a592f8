package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"mooncookies-cli/internal/model"
)

// renderCookieDetail draws the right-hand pane for the selected cookie.
func renderCookieDetail(c model.Cookie, width int) string {
	if width < 10 {
		width = 10
	}

	name := lipgloss.NewStyle().Bold(true).Render(c.Name)

	badge := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(lipgloss.Color("255")).
		Background(statusColor(string(c.BakingStatus))).
		Render(c.BakingStatus.Label())

	meta := []string{
		fmt.Sprintf("Price      $%.2f", c.Price),
		fmt.Sprintf("Inventory  %d", c.Inventory),
	}
	if c.Owner != nil && strings.TrimSpace(c.Owner.Name) != "" {
		meta = append(meta, "Baked by   "+c.Owner.Name)
	}
	if !c.CreatedAt.IsZero() {
		meta = append(meta, "Added      "+c.CreatedAt.Format("2006-01-02 15:04"))
	}
	if c.Photo != nil && strings.TrimSpace(c.Photo.Thumbnail.URL) != "" {
		photoLine := "Photo      " + c.Photo.Thumbnail.URL
		if xansi.StringWidth(photoLine) > width && width > 1 {
			photoLine = xansi.Cut(photoLine, 0, width-1) + "…"
		}
		meta = append(meta, photoLine)
	} else {
		// Placeholder when nothing was uploaded yet.
		meta = append(meta, "Photo      🍪 (none yet)")
	}

	sections := []string{
		name,
		badge,
		"",
		styleMuted().Render(strings.Join(meta, "\n")),
	}

	if strings.TrimSpace(c.Description) != "" {
		sections = append(sections, "", renderMarkdown(c.Description, width))
	}

	return strings.Join(sections, "\n")
}
