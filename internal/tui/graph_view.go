package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kottz/ekman/internal/model"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline draws the most recent points that fit in width cells, scaled
// between the series min and max.
func sparkline(points []model.GraphPoint, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}
	if len(points) > width {
		points = points[len(points)-width:]
	}
	lo, hi := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}
	var sb strings.Builder
	for _, p := range points {
		idx := len(sparkBlocks) / 2
		if hi > lo {
			idx = int((p.Value - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		sb.WriteRune(sparkBlocks[idx])
	}
	return sb.String()
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// graphLine is the one-line chart under the selected exercise.
func graphLine(m model.Metric, points []model.GraphPoint, width int) string {
	label := styleMuted().Render(m.Label())
	if len(points) == 0 {
		return label + " " + styleMuted().Render("no history")
	}
	last := points[len(points)-1]
	best := last.Value
	for _, p := range points {
		best = max(best, p.Value)
	}
	tail := fmt.Sprintf(" %s (best %s, %s)", formatValue(last.Value), formatValue(best), last.Date)
	room := width - lipgloss.Width(label) - lipgloss.Width(tail) - 2
	return label + " " + styleGraph().Render(sparkline(points, room)) + styleMuted().Render(tail)
}

// activityStrip renders one cell per day, oldest first.
func activityStrip(days []model.ActivityDay) string {
	if len(days) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range days {
		sb.WriteString(activityCell(d.CompletedSets))
	}
	return sb.String()
}

func activityCell(sets int) string {
	if sets <= 0 {
		return styleMuted().Render("·")
	}
	level := 0
	switch {
	case sets > 20:
		level = 3
	case sets > 12:
		level = 2
	case sets > 5:
		level = 1
	}
	return lipgloss.NewStyle().Foreground(colorActivity[level]).Render("■")
}
