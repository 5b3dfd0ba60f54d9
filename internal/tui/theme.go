package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colors are {light, dark} pairs so the grid reads on either background.
var (
	colorMuted      = lipgloss.AdaptiveColor{Light: "240", Dark: "243"}
	colorChromeFg   = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
	colorAccent     = lipgloss.AdaptiveColor{Light: "27", Dark: "62"}
	colorAccentFg   = lipgloss.AdaptiveColor{Light: "255", Dark: "235"}
	colorSelectedBg = lipgloss.AdaptiveColor{Light: "#e9e9e9", Dark: "#262626"}
	colorSelectedFg = lipgloss.AdaptiveColor{Light: "235", Dark: "255"}
	colorPending    = lipgloss.AdaptiveColor{Light: "130", Dark: "214"}
	colorError      = lipgloss.AdaptiveColor{Light: "160", Dark: "203"}
	colorGraph      = lipgloss.AdaptiveColor{Light: "28", Dark: "114"}

	// Activity strip, from "a few sets" to "a long session".
	colorActivity = []lipgloss.TerminalColor{
		lipgloss.AdaptiveColor{Light: "151", Dark: "22"},
		lipgloss.AdaptiveColor{Light: "114", Dark: "28"},
		lipgloss.AdaptiveColor{Light: "71", Dark: "34"},
		lipgloss.AdaptiveColor{Light: "28", Dark: "40"},
	}
)

// styleMuted is faint on dark backgrounds only; faint grey on white is
// unreadable.
func styleMuted() lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(colorMuted)
	if lipgloss.HasDarkBackground() {
		st = st.Faint(true)
	}
	return st
}

func styleHeader() lipgloss.Style { return lipgloss.NewStyle().Bold(true) }

func styleChrome() lipgloss.Style { return lipgloss.NewStyle().Foreground(colorChromeFg) }

func styleExerciseName(selected bool) lipgloss.Style {
	if !selected {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

// styleField highlights the focused weight or reps cell.
func styleField(focused bool) lipgloss.Style {
	if !focused {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Background(colorAccent).Foreground(colorAccentFg)
}

func styleCursorRow() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg)
}

func stylePending() lipgloss.Style { return lipgloss.NewStyle().Foreground(colorPending) }

func styleError() lipgloss.Style { return lipgloss.NewStyle().Foreground(colorError) }

func styleGraph() lipgloss.Style { return lipgloss.NewStyle().Foreground(colorGraph) }

// setupTerminalColors picks the color profile and background before the
// program starts. NO_COLOR disables color; EKMAN_TUI_THEME=light|dark pins
// the background, else COLORFGBG ("fg;bg") is used when the terminal sets it.
func setupTerminalColors() {
	lipgloss.SetColorProfile(colorProfile(os.Getenv("NO_COLOR"), os.Getenv("TERM"), os.Getenv("COLORTERM"), termenv.ColorProfile()))
	if dark, ok := darkBackground(os.Getenv("EKMAN_TUI_THEME"), os.Getenv("COLORFGBG")); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}

// colorProfile upgrades what termenv detected when TERM or COLORTERM promise
// more. termenv's env profile also honors CLICOLOR, which is meant for piped
// output, so it is not used here.
func colorProfile(noColor, term, colorterm string, detected termenv.Profile) termenv.Profile {
	if strings.TrimSpace(noColor) != "" || detected == termenv.Ascii {
		return termenv.Ascii
	}
	colorterm = strings.ToLower(colorterm)
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		return termenv.TrueColor
	}
	if strings.Contains(strings.ToLower(term), "256color") && detected == termenv.ANSI {
		return termenv.ANSI256
	}
	return detected
}

func darkBackground(theme, colorfgbg string) (dark, ok bool) {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "light":
		return false, true
	case "dark":
		return true, true
	}
	parts := strings.Split(strings.TrimSpace(colorfgbg), ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return false, false
	}
	return bg < 7, true
}
