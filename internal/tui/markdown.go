package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// helpPage holds the rendered help overlay. Its source only changes when key
// bindings are reloaded, so the output is reused until the source, the width
// or the background changes.
type helpPage struct {
	src   string
	width int
	dark  bool
	out   string
}

func (p *helpPage) render(src string, width int) string {
	width = max(width, 20)
	dark := lipgloss.HasDarkBackground()
	if p == nil {
		return renderHelpMarkdown(src, width, dark)
	}
	if p.out != "" && p.src == src && p.width == width && p.dark == dark {
		return p.out
	}
	p.src, p.width, p.dark = src, width, dark
	p.out = renderHelpMarkdown(src, width, dark)
	return p.out
}

// renderHelpMarkdown falls back to the raw markdown when glamour fails. The
// style is fixed; glamour's auto style queries the terminal and can block.
func renderHelpMarkdown(src string, width int, dark bool) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(helpStyle(dark)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}

func helpStyle(dark bool) ansi.StyleConfig {
	cfg, accent := styles.LightStyleConfig, "27"
	if dark {
		cfg, accent = styles.DarkStyleConfig, "62"
	}
	margin := uint(0)
	cfg.Document.Margin = &margin
	cfg.H1.Color = &accent
	cfg.H2.Color = &accent
	cfg.Code.Color = &accent
	return cfg
}
