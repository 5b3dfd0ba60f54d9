package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kottz/ekman/internal/docs"
	"github.com/kottz/ekman/internal/entry"
	"github.com/kottz/ekman/internal/model"
)

func (m appModel) View() string {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	if m.showHelp {
		return m.viewHelp(w, h)
	}

	top := []string{m.viewHeader(w)}
	if strip := activityStrip(m.activity); strip != "" {
		top = append(top, strip)
	}
	top = append(top, "")
	bottom := []string{"", m.viewStatus(w), m.help.View(m.keys)}

	body := m.viewGrid(w, h-len(top)-len(bottom))
	lines := append(append(top, body...), bottom...)
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, w, "…")
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewHeader(w int) string {
	left := styleHeader().Render("ekman") + "  " + model.WeekdayName(m.day.Weekday()) + " " + m.day.String()
	if m.day == model.DayOf(m.now()) {
		left += styleMuted().Render(" (today)")
	}
	if m.planName != "" {
		left += styleChrome().Render("  · " + m.planName)
	}

	var right []string
	if m.busy() > 0 {
		right = append(right, m.spin.View())
	}
	if m.user != "" {
		right = append(right, styleChrome().Render(m.user))
	}
	r := strings.Join(right, " ")
	gap := w - lipgloss.Width(left) - lipgloss.Width(r)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + r
}

// viewGrid renders every exercise and scrolls so the selected one stays on
// screen.
func (m appModel) viewGrid(w, height int) []string {
	if len(m.exercises) == 0 {
		if !m.plansLoaded {
			return nil
		}
		return []string{styleMuted().Render("  Nothing planned for this day.")}
	}

	var lines []string
	selStart, selEnd := 0, 0
	for i := range m.exercises {
		selected := i == m.selected
		if selected {
			selStart = len(lines)
		}
		lines = append(lines, m.viewExercise(&m.exercises[i], selected, w)...)
		if selected {
			selEnd = len(lines)
		}
		if i < len(m.exercises)-1 {
			lines = append(lines, "")
		}
	}

	if height <= 0 || len(lines) <= height {
		return lines
	}
	offset := 0
	if selEnd > height {
		offset = selEnd - height
	}
	offset = min(offset, selStart)
	end := min(offset+height, len(lines))
	return lines[offset:end]
}

func (m appModel) viewExercise(ex *entry.ExerciseState, selected bool, w int) []string {
	marker := "  "
	if selected {
		marker = "▸ "
	}
	done := 0
	for _, s := range ex.Sets {
		if s.HasReps() {
			done++
		}
	}
	head := marker + styleExerciseName(selected).Render(ex.Name)
	if ex.TargetSets > 0 {
		head += styleMuted().Render(fmt.Sprintf("  %d/%d", done, ex.TargetSets))
	}
	lines := []string{head}

	for j := 0; j < ex.VisibleLen(selected) && j < len(ex.Sets); j++ {
		lines = append(lines, m.viewSet(ex, j, selected))
	}
	if !selected {
		return lines
	}
	if id, ok := ex.ID(); ok {
		lines = append(lines, "    "+graphLine(m.metric, m.graphs[id], w-4))
	}
	return lines
}

func (m appModel) viewSet(ex *entry.ExerciseState, j int, selected bool) string {
	s := ex.Sets[j]
	onRow := selected && j == ex.Cursor
	weight := styleField(onRow && ex.Focus == entry.FocusWeight).Render(fmt.Sprintf("%6s", s.WeightDisplay()))
	reps := styleField(onRow && ex.Focus == entry.FocusReps).Render(fmt.Sprintf("%3s", s.RepsDisplay()))

	num := fmt.Sprintf("%2d", s.Number)
	if onRow {
		num = styleCursorRow().Render(num)
	} else {
		num = styleMuted().Render(num)
	}
	line := "    " + num + "  " + weight + " kg × " + reps
	switch {
	case s.Pending:
		line += " " + stylePending().Render("*")
	case s.Unsynced:
		line += " " + styleError().Render("!")
	}
	return line
}

func isErrorStatus(s string) bool {
	l := strings.ToLower(s)
	return strings.Contains(l, "error") || strings.Contains(l, "not signed in") || strings.Contains(l, "failed")
}

func (m appModel) viewStatus(w int) string {
	if m.dayInput.Focused() {
		return m.dayInput.View()
	}
	if m.status == "" {
		return ""
	}
	s := ansi.Truncate(m.status, w, "…")
	if isErrorStatus(m.status) {
		return styleError().Render(s)
	}
	return styleChrome().Render(s)
}

func (m appModel) viewHelp(w, h int) string {
	md := docs.All()
	if m.keys.custom > 0 {
		md += "\n\n" + m.keys.markdown()
	}
	lines := strings.Split(m.helpPage.render(md, w-2), "\n")
	if len(lines) > h-1 {
		lines = lines[:max(h-1, 0)]
	}
	lines = append(lines, styleMuted().Render("any key to close"))
	return strings.Join(lines, "\n")
}
