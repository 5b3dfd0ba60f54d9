package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/model"
	"github.com/kottz/ekman/internal/setsync"
)

// Every request runs inside a tea.Cmd so the update loop never waits on the
// backend. Results come back as messages and are reconciled in Update.

func withTimeout(d time.Duration, fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d)
		defer cancel()
		return fn(ctx)
	}
}

func (m *appModel) checkSession() tea.Cmd {
	if m.client == nil {
		return nil
	}
	c := m.client
	return withTimeout(m.opts.Timeout, func(ctx context.Context) tea.Msg {
		u, err := c.CheckSession(ctx)
		return sessionMsg{user: u, err: err}
	})
}

func (m *appModel) loadPlans() tea.Cmd {
	if m.client == nil {
		return nil
	}
	c := m.client
	return withTimeout(m.opts.Timeout, func(ctx context.Context) tea.Msg {
		plans, err := c.DailyPlans(ctx)
		return plansMsg{plans: plans, err: err}
	})
}

// loadSets fetches the authoritative sets of one exercise for the displayed
// day unless that fetch is already outstanding.
func (m *appModel) loadSets(exerciseID int64) tea.Cmd {
	if m.client == nil {
		return nil
	}
	req, ok := m.sync.BeginLoad(setsync.Key{Day: m.day, ExerciseID: exerciseID})
	if !ok {
		return nil
	}
	c := m.client
	return withTimeout(m.opts.Timeout, func(ctx context.Context) tea.Msg {
		return setsLoadedMsg{res: req.Do(ctx, c)}
	})
}

func (m *appModel) loadCurrentSets() tea.Cmd {
	ex := m.current()
	if ex == nil {
		return nil
	}
	id, ok := ex.ID()
	if !ok {
		return nil
	}
	return m.loadSets(id)
}

// saveCurrent sends the focused set if it has something worth saving.
func (m *appModel) saveCurrent() tea.Cmd {
	ex := m.current()
	if ex == nil || m.client == nil {
		return nil
	}
	req, ok := m.sync.PrepareSave(m.day, ex)
	if !ok {
		return nil
	}
	c := m.client
	return withTimeout(m.opts.Timeout, func(ctx context.Context) tea.Msg {
		return setSavedMsg{res: req.Do(ctx, c)}
	})
}

func (m *appModel) sendDelete(req setsync.DeleteRequest) tea.Cmd {
	if m.client == nil {
		return nil
	}
	c := m.client
	return withTimeout(m.opts.Timeout, func(ctx context.Context) tea.Msg {
		return setDeletedMsg{res: req.Do(ctx, c)}
	})
}

func (m *appModel) loadGraph(exerciseID int64) tea.Cmd {
	if m.client == nil {
		return nil
	}
	req, ok := m.sync.BeginGraph(exerciseID)
	if !ok {
		return nil
	}
	req.Metric = m.metric
	c := m.client
	return withTimeout(m.opts.Timeout, func(ctx context.Context) tea.Msg {
		return graphLoadedMsg{res: req.Do(ctx, c)}
	})
}

// loadActivity fetches completed set counts for the days ending today.
func (m *appModel) loadActivity() tea.Cmd {
	if m.client == nil {
		return nil
	}
	m.activitySeq++
	seq := m.activitySeq
	end := model.DayOf(m.now())
	q := model.ActivityQuery{Start: end.AddDays(-(m.opts.ActivityDays - 1)), End: end}
	c := m.client
	return withTimeout(m.opts.Timeout, func(ctx context.Context) tea.Msg {
		days, err := c.Activity(ctx, q)
		return activityMsg{seq: seq, days: days, err: err}
	})
}

func sessionStatus(err error) string {
	if api.Classify(err) == api.KindUnauthorized {
		return "Not signed in (run: ekman login)"
	}
	return "Session check failed: " + err.Error()
}
