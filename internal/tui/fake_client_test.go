package tui

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/model"
	"github.com/kottz/ekman/internal/setsync"
)

// fakeClient is an in-memory backend with the same numbering rules as the
// local store.
type fakeClient struct {
	plans      []model.Plan
	sets       map[setsync.Key][]model.WorkoutSet
	activity   []model.ActivityDay
	sessionErr error
	upsertErr  error
	historyErr error

	upserts []model.SetInput
	deletes []int
	graphs  []model.Metric
	nextID  int64
}

func newFakeClient(plans ...model.Plan) *fakeClient {
	return &fakeClient{plans: plans, sets: map[setsync.Key][]model.WorkoutSet{}, nextID: 100}
}

func (f *fakeClient) CheckSession(context.Context) (model.User, error) {
	if f.sessionErr != nil {
		return model.User{}, f.sessionErr
	}
	return model.User{ID: 1, Username: "lifter"}, nil
}

func (f *fakeClient) Login(context.Context, model.LoginInput) (model.Session, error) {
	return model.Session{User: model.User{ID: 1, Username: "lifter"}}, nil
}

func (f *fakeClient) Logout(context.Context) error { return nil }

func (f *fakeClient) Register(_ context.Context, in model.RegisterInput) (model.Session, error) {
	return model.Session{User: model.User{ID: 1, Username: in.Username}}, nil
}

func (f *fakeClient) DailyPlans(context.Context) ([]model.Plan, error) { return f.plans, nil }

func (f *fakeClient) CreatePlan(_ context.Context, name string, weekday *int) (model.Plan, error) {
	p := model.Plan{ID: int64(len(f.plans) + 1), Name: name, Weekday: weekday}
	f.plans = append(f.plans, p)
	return p, nil
}

func (f *fakeClient) AddPlanExercise(context.Context, int64, int64, *int) error { return nil }

func (f *fakeClient) RemovePlanExercise(context.Context, int64, int64) error { return nil }

func (f *fakeClient) Exercises(context.Context) ([]model.Exercise, error) { return nil, nil }

func (f *fakeClient) CreateExercise(_ context.Context, name string) (model.Exercise, error) {
	f.nextID++
	return model.Exercise{ID: f.nextID, Name: name}, nil
}

func (f *fakeClient) UpdateExercise(_ context.Context, id int64, in model.ExerciseUpdate) (model.Exercise, error) {
	ex := model.Exercise{ID: id}
	if in.Name != nil {
		ex.Name = *in.Name
	}
	return ex, nil
}

func (f *fakeClient) ArchiveExercise(_ context.Context, id int64) (model.Exercise, error) {
	return model.Exercise{ID: id, Archived: true}, nil
}

func (f *fakeClient) DaySets(_ context.Context, exerciseID int64, day model.Day) ([]model.WorkoutSet, error) {
	return slices.Clone(f.sets[setsync.Key{Day: day, ExerciseID: exerciseID}]), nil
}

func (f *fakeClient) UpsertSet(_ context.Context, exerciseID int64, day model.Day, setNumber int, in model.SetInput) (model.WorkoutSet, error) {
	f.upserts = append(f.upserts, in)
	if f.upsertErr != nil {
		return model.WorkoutSet{}, f.upsertErr
	}
	k := setsync.Key{Day: day, ExerciseID: exerciseID}
	ws := model.WorkoutSet{ExerciseID: exerciseID, Day: day, SetNumber: setNumber, Weight: in.Weight, Reps: in.Reps}
	if in.CompletedAt != nil {
		ws.CompletedAt = *in.CompletedAt
	}
	for i, s := range f.sets[k] {
		if s.SetNumber == setNumber {
			ws.ID = s.ID
			f.sets[k][i] = ws
			return ws, nil
		}
	}
	f.nextID++
	ws.ID = f.nextID
	f.sets[k] = append(f.sets[k], ws)
	slices.SortFunc(f.sets[k], func(a, b model.WorkoutSet) int { return a.SetNumber - b.SetNumber })
	return ws, nil
}

func (f *fakeClient) DeleteSet(_ context.Context, exerciseID int64, day model.Day, setNumber int) error {
	k := setsync.Key{Day: day, ExerciseID: exerciseID}
	idx := slices.IndexFunc(f.sets[k], func(s model.WorkoutSet) bool { return s.SetNumber == setNumber })
	if idx < 0 {
		return api.ErrNotFound
	}
	f.deletes = append(f.deletes, setNumber)
	f.sets[k] = slices.Delete(f.sets[k], idx, idx+1)
	for i := range f.sets[k] {
		f.sets[k][i].SetNumber = i + 1
	}
	return nil
}

func (f *fakeClient) ExerciseHistory(_ context.Context, exerciseID int64, _ model.HistoryQuery) ([]model.WorkoutSet, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	var out []model.WorkoutSet
	for k, sets := range f.sets {
		if k.ExerciseID == exerciseID {
			out = append(out, sets...)
		}
	}
	return out, nil
}

// Graph reports the metric back as the single point's value so tests can tell
// which metric was asked for.
func (f *fakeClient) Graph(_ context.Context, exerciseID int64, m model.Metric) (model.Graph, error) {
	f.graphs = append(f.graphs, m)
	return model.Graph{ExerciseID: exerciseID, Metric: m, Points: []model.GraphPoint{{Date: "2024-05-27", Value: float64(m) + 1}}}, nil
}

func (f *fakeClient) Activity(context.Context, model.ActivityQuery) ([]model.ActivityDay, error) {
	return f.activity, nil
}

func (f *fakeClient) Close() error { return nil }

var _ api.Client = (*fakeClient)(nil)

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle feeds every message produced by cmd back into the model until no
// more requests are issued. Ticks are dropped.
func settle(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	pending := []tea.Cmd{cmd}
	for round := 0; len(pending) > 0; round++ {
		if round > 20 {
			t.Fatalf("model did not settle")
		}
		var next []tea.Cmd
		for _, c := range pending {
			for _, msg := range collect(c) {
				switch msg.(type) {
				case tickMsg, spinner.TickMsg, nil:
					continue
				}
				mm, nc := m.Update(msg)
				m = mm.(appModel)
				if nc != nil {
					next = append(next, nc)
				}
			}
		}
		pending = next
	}
	return m
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
