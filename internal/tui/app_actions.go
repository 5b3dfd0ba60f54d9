package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kottz/ekman/internal/entry"
	"github.com/kottz/ekman/internal/metric"
	"github.com/kottz/ekman/internal/model"
	"github.com/kottz/ekman/internal/setsync"
)

// choosePlan picks the plan for a weekday (Monday = 0), falling back to the
// first plan.
func choosePlan(plans []model.Plan, weekday int) (model.Plan, bool) {
	for _, p := range plans {
		if p.Weekday != nil && *p.Weekday == weekday {
			return p, true
		}
	}
	if len(plans) > 0 {
		return plans[0], true
	}
	return model.Plan{}, false
}

// applyDay rebuilds the grid for d from its plan and asks for that day's sets
// and any missing graphs.
func (m *appModel) applyDay(d model.Day) tea.Cmd {
	m.day = d
	m.sync.Reset()
	m.exercises = nil
	m.planName = ""

	plan, found := choosePlan(m.plans, d.Weekday())
	if found {
		m.planName = plan.Name
		today := model.DayOf(m.now())
		for _, pe := range plan.Exercises {
			m.exercises = append(m.exercises, entry.FromPlan(pe, today))
		}
	}
	m.selected = min(m.selected, max(len(m.exercises)-1, 0))

	for id := range m.graphs {
		if !m.showsExercise(id) {
			delete(m.history, id)
			delete(m.graphs, id)
			delete(m.serverGraphs, id)
		}
	}

	var cmds []tea.Cmd
	for i := range m.exercises {
		id, ok := m.exercises[i].ID()
		if !ok {
			continue
		}
		cmds = append(cmds, m.loadSets(id))
		if !m.charted(id) {
			cmds = append(cmds, m.loadGraph(id))
		}
	}

	switch {
	case !found && m.plansLoaded:
		m.status = "No plan yet (run: ekman plan create)"
	case len(m.exercises) == 0 && m.plansLoaded:
		m.status = fmt.Sprintf("%s has no exercises", plan.Name)
	default:
		m.status = ""
	}
	return tea.Batch(cmds...)
}

func (m *appModel) shiftDay(delta int) tea.Cmd {
	if c := m.current(); c != nil {
		c.TrimEmptyTrailing()
	}
	return m.applyDay(m.day.AddDays(delta))
}

func (m *appModel) jumpToday() tea.Cmd {
	today := model.DayOf(m.now())
	if today == m.day {
		return nil
	}
	return m.applyDay(today)
}

func (m *appModel) openDayInput() tea.Cmd {
	m.dayInput.SetValue(m.day.String())
	m.dayInput.CursorEnd()
	return m.dayInput.Focus()
}

func (m *appModel) submitDay() tea.Cmd {
	val := m.dayInput.Value()
	m.dayInput.Blur()
	m.dayInput.SetValue("")
	d, err := model.ParseDay(val)
	if err != nil {
		m.status = "Date error: want YYYY-MM-DD"
		return nil
	}
	if d == m.day {
		return nil
	}
	if c := m.current(); c != nil {
		c.TrimEmptyTrailing()
	}
	return m.applyDay(d)
}

func (m *appModel) selectExercise(delta int) tea.Cmd {
	if len(m.exercises) == 0 {
		return nil
	}
	m.exercises[m.selected].TrimEmptyTrailing()
	m.selected = min(max(m.selected+delta, 0), len(m.exercises)-1)
	m.exercises[m.selected].ResetTimer()
	return m.loadCurrentSets()
}

// tabNext walks weight -> reps -> next set, then on into the next exercise.
// On the last field of the last exercise it stays put.
func (m *appModel) tabNext() tea.Cmd {
	ex := m.current()
	if ex == nil || ex.NextField() {
		return nil
	}
	if m.selected+1 >= len(m.exercises) {
		return nil
	}
	ex.TrimEmptyTrailing()
	m.selected++
	m.exercises[m.selected].EnterFromStart()
	return m.loadCurrentSets()
}

func (m *appModel) tabPrev() tea.Cmd {
	ex := m.current()
	if ex == nil || ex.PrevField() {
		return nil
	}
	if m.selected == 0 {
		return nil
	}
	ex.TrimEmptyTrailing()
	m.selected--
	m.exercises[m.selected].EnterFromEnd()
	return m.loadCurrentSets()
}

func (m *appModel) toggleFocus() {
	if ex := m.current(); ex != nil {
		ex.ToggleFocus()
	}
}

func (m *appModel) moveSetCursor(delta int) {
	if ex := m.current(); ex != nil {
		ex.MoveSetCursor(delta)
	}
}

// inputChar routes a digit or '.' to the focused field and saves the result.
func (m *appModel) inputChar(ch rune) tea.Cmd {
	ex := m.current()
	if ex == nil {
		return nil
	}
	now := m.now()
	if ex.Focus == entry.FocusWeight {
		if !ex.PushWeightChar(ch, now) {
			return nil
		}
		return m.saveCurrent()
	}

	if ex.ShouldAutoAdvance(now) {
		ex.Advance()
	}
	changed, advance := ex.PushRepsChar(ch, now)
	if !changed {
		return nil
	}
	cmd := m.saveCurrent()
	if advance {
		ex.Advance()
	}
	return cmd
}

func (m *appModel) backspace() tea.Cmd {
	ex := m.current()
	if ex == nil {
		return nil
	}
	now := m.now()
	var changed bool
	if ex.Focus == entry.FocusWeight {
		changed = ex.BackspaceWeight(now)
	} else {
		changed = ex.BackspaceReps(now)
	}
	if !changed {
		return nil
	}
	return m.saveCurrent()
}

func (m *appModel) bumpWeight(delta float64) tea.Cmd {
	ex := m.current()
	if ex == nil {
		return nil
	}
	ex.BumpWeight(delta, m.now())
	return m.saveCurrent()
}

func (m *appModel) deleteSet() tea.Cmd {
	ex := m.current()
	if ex == nil {
		return nil
	}
	number := ex.Current().Number
	req, ok := m.sync.PrepareDelete(m.day, ex)
	if !ok {
		m.status = fmt.Sprintf("Removed set %d", number)
		return nil
	}
	return m.sendDelete(req)
}

func (m *appModel) cycleMetric() tea.Cmd {
	m.metric = m.metric.Next()
	m.status = "Graph: " + m.metric.Label()
	return m.recomputeGraphs()
}

func (m *appModel) charted(id int64) bool {
	_, have := m.history[id]
	return have || m.serverGraphs[id]
}

// recomputeGraphs redraws from cached history and refetches server series.
func (m *appModel) recomputeGraphs() tea.Cmd {
	for id, h := range m.history {
		m.graphs[id] = metric.Build(metric.FromSets(h, time.Local), m.metric, m.opts.GraphPoints)
	}
	var cmds []tea.Cmd
	for id := range m.serverGraphs {
		m.graphs[id] = nil
		cmds = append(cmds, m.loadGraph(id))
	}
	return tea.Batch(cmds...)
}

// onTick moves past reps that have sat idle long enough.
func (m *appModel) onTick(now time.Time) {
	if ex := m.current(); ex != nil && ex.ShouldAutoAdvance(now) {
		ex.Advance()
	}
}

// applyOutcome turns a reconciliation outcome into follow-up requests.
func (m *appModel) applyOutcome(out setsync.Outcome, exerciseID int64) tea.Cmd {
	if out.Stale {
		return nil
	}
	if out.Status != "" {
		m.status = out.Status
	}
	var cmds []tea.Cmd
	if out.Resync != nil && out.Resync.Day == m.day {
		cmds = append(cmds, m.loadSets(out.Resync.ExerciseID))
	}
	if out.HistoryChanged {
		cmds = append(cmds, m.loadGraph(exerciseID), m.loadActivity())
	}
	return tea.Batch(cmds...)
}

func (m *appModel) execute(c command) tea.Cmd {
	switch c {
	case cmdQuit:
		return tea.Quit
	case cmdNextExercise:
		return m.selectExercise(1)
	case cmdPrevExercise:
		return m.selectExercise(-1)
	case cmdNextDay:
		return m.shiftDay(1)
	case cmdPrevDay:
		return m.shiftDay(-1)
	case cmdToday:
		return m.jumpToday()
	case cmdGotoDay:
		return m.openDayInput()
	case cmdNextField, cmdPrevField:
		m.toggleFocus()
	case cmdMoveLeft:
		m.moveSetCursor(-1)
	case cmdMoveRight:
		m.moveSetCursor(1)
	case cmdNextSet:
		return m.tabNext()
	case cmdPrevSet:
		return m.tabPrev()
	case cmdBumpWeightUp:
		return m.bumpWeight(m.opts.WeightStep)
	case cmdBumpWeightDown:
		return m.bumpWeight(-m.opts.WeightStep)
	case cmdDeleteSet:
		return m.deleteSet()
	case cmdBackspace:
		return m.backspace()
	case cmdCycleMetric:
		return m.cycleMetric()
	case cmdHelp:
		m.showHelp = !m.showHelp
	}
	return nil
}
