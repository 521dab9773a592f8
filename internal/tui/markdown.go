package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width + style. Creating a renderer with
	// WithAutoStyle can trigger terminal capability/background queries that
	// may block on some terminals; a fixed style plus caching keeps the
	// detail pane fast and predictable.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		// Re-check in case a concurrent goroutine filled it.
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// markdownStyle keeps description rendering aligned with the TUI theme so
// markdown doesn't come out in a dark palette on light terminals.
func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("MOONCOOKIES_TUI_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// COLORFGBG heuristic ("fg;bg"): common xterm palette puts dark colors
	// at 0-6, light at 7-15. Prefer this over term queries to avoid
	// blocking.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		bgS := strings.TrimSpace(parts[len(parts)-1])
		if bg, err := strconv.Atoi(bgS); err == nil {
			if bg >= 7 {
				return "light"
			}
			if bg >= 0 {
				return "dark"
			}
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
