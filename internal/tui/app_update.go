package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		(&m).onTick(time.Time(msg))
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case sessionMsg:
		if msg.err != nil {
			log.Warnf("tui: session check: %s", msg.err)
			m.status = sessionStatus(msg.err)
			return m, nil
		}
		m.user = msg.user.Username
		return m, nil

	case plansMsg:
		if msg.err != nil {
			log.Warnf("tui: load plans: %s", msg.err)
			m.status = "Load error: " + msg.err.Error()
			return m, nil
		}
		m.plans = msg.plans
		m.plansLoaded = true
		cmd := (&m).applyDay(m.day)
		return m, cmd

	case setsLoadedMsg:
		out := m.sync.ApplyLoaded(m.day, m.exercises, msg.res)
		cmd := (&m).applyOutcome(out, msg.res.Request.Key.ExerciseID)
		return m, cmd

	case setSavedMsg:
		out := m.sync.ApplySaved(m.day, m.exercises, msg.res, m.now())
		cmd := (&m).applyOutcome(out, msg.res.Request.Key.ExerciseID)
		return m, cmd

	case setDeletedMsg:
		out := m.sync.ApplyDeleted(m.day, m.exercises, msg.res)
		cmd := (&m).applyOutcome(out, msg.res.Request.Key.ExerciseID)
		return m, cmd

	case graphLoadedMsg:
		res := msg.res
		out := m.sync.ApplyGraph(res)
		if out.Status != "" {
			m.status = out.Status
		}
		id := res.Request.ExerciseID
		if res.Err != nil || !m.showsExercise(id) {
			return m, nil
		}
		if res.ServerOnly() {
			m.serverGraphs[id] = true
			delete(m.history, id)
			if res.Server.Metric != m.metric {
				// The metric changed while this was in flight.
				m.graphs[id] = nil
				cmd := (&m).loadGraph(id)
				return m, cmd
			}
		} else {
			m.history[id] = res.History
			delete(m.serverGraphs, id)
		}
		m.graphs[id] = res.Points(m.metric, m.opts.GraphPoints)
		return m, nil

	case activityMsg:
		if msg.seq < m.activitySeq {
			return m, nil
		}
		m.activitySeq = msg.seq
		if msg.err != nil {
			log.Warnf("tui: activity: %s", msg.err)
			return m, nil
		}
		m.activity = msg.days
		return m, nil

	case keysChangedMsg:
		cmd := (&m).reloadKeys()
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	if m.dayInput.Focused() {
		// Cursor blink.
		var cmd tea.Cmd
		m.dayInput, cmd = m.dayInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.dayInput.Focused() {
		return m.updateDayInput(msg)
	}
	c, bound := m.keys.lookup(msg)
	if m.showHelp {
		// Any key closes the overlay; quit still quits.
		m.showHelp = false
		if bound && c == cmdQuit && msg.String() != "esc" {
			return m, tea.Quit
		}
		return m, nil
	}
	if r, ok := inputRune(msg); ok {
		cmd := (&m).inputChar(r)
		return m, cmd
	}
	if !bound {
		return m, nil
	}
	cmd := (&m).execute(c)
	return m, cmd
}

// updateDayInput feeds keys to the go-to-day prompt. Enter jumps, esc
// closes it.
func (m appModel) updateDayInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.dayInput.Blur()
		m.dayInput.SetValue("")
		return m, nil
	case tea.KeyEnter:
		cmd := (&m).submitDay()
		return m, cmd
	}
	var cmd tea.Cmd
	m.dayInput, cmd = m.dayInput.Update(msg)
	return m, cmd
}
