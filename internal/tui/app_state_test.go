package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/entry"
	"github.com/kottz/ekman/internal/model"
	"github.com/kottz/ekman/internal/setsync"
)

var monday = model.Day{Year: 2024, Month: time.June, Day: 3}

func pushPlan() model.Plan {
	mon, three := 0, 3
	return model.Plan{ID: 1, Name: "Push", Weekday: &mon, Exercises: []model.PlanExercise{
		{
			ExerciseID: 1, Name: "Bench press", TargetSets: &three,
			LastSession: &model.LastSession{Day: monday.AddDays(-7), Sets: []model.CompactSet{{Weight: 80, Reps: 5}, {Weight: 85, Reps: 3}}},
		},
		{ExerciseID: 2, Name: "Overhead press"},
	}}
}

func legPlan() model.Plan {
	tue := 1
	return model.Plan{ID: 2, Name: "Legs", Weekday: &tue, Exercises: []model.PlanExercise{{ExerciseID: 3, Name: "Squat"}}}
}

func newTestModel(t *testing.T, c *fakeClient) (appModel, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: monday.Noon(time.Local).Add(6 * time.Hour)}
	m := newAppModel(c, Options{})
	m.now = clk.Now
	m.day = monday
	m = settle(t, m, func() tea.Msg { return plansMsg{plans: c.plans} })
	return m, clk
}

func press(t *testing.T, m appModel, keys ...string) (appModel, tea.Cmd) {
	t.Helper()
	var cmds []tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		mm, cmd := m.Update(msg)
		m = mm.(appModel)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func TestPlansMsg_SeedsGridFromWeekdayPlan(t *testing.T) {
	m, _ := newTestModel(t, newFakeClient(legPlan(), pushPlan()))

	if m.planName != "Push" {
		t.Fatalf("expected the Monday plan, got %q", m.planName)
	}
	if len(m.exercises) != 2 {
		t.Fatalf("expected 2 exercises, got %d", len(m.exercises))
	}
	bench := m.exercises[0]
	if bench.TargetSets != 3 {
		t.Fatalf("expected target sets 3, got %d", bench.TargetSets)
	}
	if got := bench.Sets[0].Weight.Value(); got != 85 {
		t.Fatalf("expected weight seeded from last session max 85, got %v", got)
	}
	if m.sync.InFlight() != 0 {
		t.Fatalf("expected all loads to finish, %d in flight", m.sync.InFlight())
	}
}

func TestPlansMsg_FallsBackToFirstPlan(t *testing.T) {
	c := newFakeClient(legPlan())
	m, _ := newTestModel(t, c)
	if m.planName != "Legs" {
		t.Fatalf("expected fallback to the first plan, got %q", m.planName)
	}
}

func TestTypingReps_FastPathSavesAndAdvances(t *testing.T) {
	c := newFakeClient(pushPlan())
	m, _ := newTestModel(t, c)

	m, _ = press(t, m, "down")
	if m.exercises[0].Focus != entry.FocusReps {
		t.Fatalf("expected reps focus after down")
	}
	m, cmd := press(t, m, "5")
	bench := m.exercises[0]
	if !bench.Sets[0].Pending {
		t.Fatalf("expected set 1 to be pending")
	}
	if bench.Cursor != 1 || len(bench.Sets) != 2 {
		t.Fatalf("expected auto-advance onto a new set, cursor=%d sets=%d", bench.Cursor, len(bench.Sets))
	}

	m = settle(t, m, cmd)
	bench = m.exercises[0]
	if bench.Sets[0].Pending || bench.Sets[0].ServerID == nil {
		t.Fatalf("expected set 1 acknowledged, got %+v", bench.Sets[0])
	}
	if m.status != "Saved set 1" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if len(c.upserts) != 1 || c.upserts[0].Reps != 5 || c.upserts[0].Weight != 85 {
		t.Fatalf("unexpected upserts %+v", c.upserts)
	}
	if pts := m.graphs[1]; len(pts) != 1 || pts[0].Value != 85 {
		t.Fatalf("expected graph refreshed after save, got %+v", pts)
	}
}

func TestTypingTwoDigitReps_WaitsThenAdvancesOnTick(t *testing.T) {
	m, clk := newTestModel(t, newFakeClient(pushPlan()))

	m, _ = press(t, m, "down", "1", "2")
	bench := m.exercises[0]
	if bench.Cursor != 0 {
		t.Fatalf("expected no advance yet, cursor=%d", bench.Cursor)
	}
	if bench.Sets[0].Reps == nil || *bench.Sets[0].Reps != 12 {
		t.Fatalf("expected reps 12, got %v", bench.Sets[0].RepsDisplay())
	}

	clk.Advance(500 * time.Millisecond)
	mm, _ := m.Update(tickMsg(clk.Now()))
	m = mm.(appModel)
	if m.exercises[0].Cursor != 0 {
		t.Fatalf("advanced before the debounce window passed")
	}

	clk.Advance(time.Second)
	mm, _ = m.Update(tickMsg(clk.Now()))
	m = mm.(appModel)
	if m.exercises[0].Cursor != 1 {
		t.Fatalf("expected idle auto-advance, cursor=%d", m.exercises[0].Cursor)
	}
}

func TestTabNext_CrossesIntoNextExercise(t *testing.T) {
	m, _ := newTestModel(t, newFakeClient(pushPlan()))

	m, _ = press(t, m, "tab", "tab")
	if m.selected != 1 {
		t.Fatalf("expected second exercise, got %d", m.selected)
	}
	if m.exercises[1].Focus != entry.FocusWeight || m.exercises[1].Cursor != 0 {
		t.Fatalf("expected to enter at the first weight field")
	}

	m, _ = press(t, m, "shift+tab")
	if m.selected != 0 || m.exercises[0].Focus != entry.FocusReps {
		t.Fatalf("expected back on the last reps field of the first exercise")
	}
}

func TestTabNext_StopsAtLastFieldOfLastExercise(t *testing.T) {
	m, _ := newTestModel(t, newFakeClient(pushPlan()))

	m, _ = press(t, m, "n", "tab", "tab", "tab")
	if m.selected != 1 {
		t.Fatalf("expected to stay on the last exercise, got %d", m.selected)
	}
	ex := m.exercises[1]
	if ex.Focus != entry.FocusReps || ex.Cursor != 0 || len(ex.Sets) != 1 {
		t.Fatalf("expected cursor to stay put, focus=%s cursor=%d sets=%d", ex.Focus, ex.Cursor, len(ex.Sets))
	}
}

func TestSaveAfterDayChange_IsDiscarded(t *testing.T) {
	c := newFakeClient(pushPlan(), legPlan())
	m, _ := newTestModel(t, c)

	m, saveCmd := press(t, m, "down", "5")
	m, dayCmd := press(t, m, "]")
	m = settle(t, m, dayCmd)
	if m.planName != "Legs" || len(m.exercises) != 1 {
		t.Fatalf("expected Tuesday's plan, got %q", m.planName)
	}

	m = settle(t, m, saveCmd)
	if m.status == "Saved set 1" {
		t.Fatalf("stale save result was applied")
	}
	if m.exercises[0].Sets[0].HasReps() {
		t.Fatalf("stale save leaked into the new day's grid")
	}
	if len(c.upserts) != 1 {
		t.Fatalf("expected the request itself to still have run")
	}
}

func TestShiftDay_DropsGraphsOfExercisesNotShown(t *testing.T) {
	m, _ := newTestModel(t, newFakeClient(pushPlan(), legPlan()))
	if _, ok := m.history[1]; !ok {
		t.Fatalf("expected bench history loaded")
	}

	m, cmd := press(t, m, "]")
	m = settle(t, m, cmd)
	if _, ok := m.history[1]; ok {
		t.Fatalf("expected bench history dropped on Tuesday")
	}
	if _, ok := m.history[3]; !ok {
		t.Fatalf("expected squat history requested")
	}

	m, cmd = press(t, m, "t")
	m = settle(t, m, cmd)
	if m.day != monday || m.planName != "Push" {
		t.Fatalf("expected today to return to Monday, got %s %q", m.day, m.planName)
	}
}

func TestTransientSaveFailure_KeepsTypedValue(t *testing.T) {
	c := newFakeClient(pushPlan())
	c.upsertErr = errors.New("connection refused")
	m, _ := newTestModel(t, c)

	m, cmd := press(t, m, "down", "5")
	m = settle(t, m, cmd)
	set := m.exercises[0].Sets[0]
	if !strings.HasPrefix(m.status, "Save error") {
		t.Fatalf("unexpected status %q", m.status)
	}
	if set.Pending || !set.Unsynced || set.Reps == nil || *set.Reps != 5 {
		t.Fatalf("expected unsynced row with reps 5, got %+v", set)
	}

	// Switching away and back reloads the sets; the typed value survives.
	m, cmd = press(t, m, "n", "e")
	m = settle(t, m, cmd)
	if got := m.exercises[0].Sets[0]; got.Reps == nil || *got.Reps != 5 {
		t.Fatalf("reload dropped the unsynced value")
	}
	if !strings.Contains(m.View(), "!") {
		t.Fatalf("expected the unsynced marker in the view")
	}
}

func TestDeleteSet(t *testing.T) {
	c := newFakeClient(pushPlan())
	m, _ := newTestModel(t, c)

	// A set the server never saw is removed locally only.
	m, cmd := press(t, m, "x")
	if cmd != nil && len(collect(cmd)) != 0 {
		t.Fatalf("expected no request for an unsaved set")
	}
	if len(m.exercises[0].Sets) != 1 {
		t.Fatalf("expected one blank set to remain")
	}

	m, cmd = press(t, m, "down", "5", "6")
	m = settle(t, m, cmd)
	m, _ = press(t, m, "left", "left")
	if m.exercises[0].Cursor != 0 {
		t.Fatalf("expected cursor on set 1")
	}

	m, cmd = press(t, m, "x")
	m = settle(t, m, cmd)
	if len(c.deletes) != 1 || c.deletes[0] != 1 {
		t.Fatalf("expected delete of set 1, got %v", c.deletes)
	}
	sets := m.exercises[0].Sets
	if sets[0].Number != 1 || sets[0].Reps == nil || *sets[0].Reps != 6 {
		t.Fatalf("expected former set 2 renumbered to 1, got %+v", sets[0])
	}
	if m.status != "Deleted set 1" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestBumpWeight_PropagatesAndSaves(t *testing.T) {
	c := newFakeClient(pushPlan())
	m, _ := newTestModel(t, c)

	m, cmd := press(t, m, "down", "5", "w")
	m = settle(t, m, cmd)
	bench := m.exercises[0]
	if got := bench.Sets[1].Weight.Value(); got != 87.5 {
		t.Fatalf("expected bumped weight 87.5, got %v", got)
	}
	if bench.DefaultWeight != 87.5 {
		t.Fatalf("expected default weight to follow, got %v", bench.DefaultWeight)
	}
	// Set 2 has no reps yet so nothing beyond set 1 is sent.
	if len(c.upserts) != 1 {
		t.Fatalf("expected one upsert, got %d", len(c.upserts))
	}
}

func TestCycleMetric_RecomputesFromCachedHistory(t *testing.T) {
	c := newFakeClient(pushPlan())
	k := setsync.Key{Day: monday.AddDays(-2), ExerciseID: 1}
	done := monday.AddDays(-2).Noon(time.Local)
	c.sets[k] = []model.WorkoutSet{
		{ID: 1, ExerciseID: 1, Day: k.Day, SetNumber: 1, Weight: 100, Reps: 5, CompletedAt: done},
		{ID: 2, ExerciseID: 1, Day: k.Day, SetNumber: 2, Weight: 100, Reps: 5, CompletedAt: done},
	}
	m, _ := newTestModel(t, c)
	if pts := m.graphs[1]; len(pts) != 1 || pts[0].Value != 100 {
		t.Fatalf("expected max weight 100, got %+v", pts)
	}

	m, cmd := press(t, m, "m")
	if cmd != nil {
		t.Fatalf("metric switch must not issue requests")
	}
	if m.metric != model.MetricSessionTotalVolume || m.graphs[1][0].Value != 1000 {
		t.Fatalf("expected session volume 1000, got %s %+v", m.metric, m.graphs[1])
	}
}

func TestSessionUnauthorized_ShowsLoginHint(t *testing.T) {
	m, _ := newTestModel(t, newFakeClient(pushPlan()))
	mm, _ := m.Update(sessionMsg{err: api.ErrUnauthorized})
	m = mm.(appModel)
	if !strings.Contains(m.status, "ekman login") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestHelpOverlay_AnyKeyCloses(t *testing.T) {
	m, _ := newTestModel(t, newFakeClient(pushPlan()))
	before := m.exercises[0].Sets[0].Weight.Buffer()
	m, _ = press(t, m, "?")
	if !m.showHelp {
		t.Fatalf("expected help to open")
	}
	m, cmd := press(t, m, "5")
	if m.showHelp || cmd != nil {
		t.Fatalf("expected help to close without typing")
	}
	if got := m.exercises[0].Sets[0].Weight.Buffer(); got != before {
		t.Fatalf("keystroke leaked into the grid: %q -> %q", before, got)
	}
}

func TestActivityMsg_IgnoresOlderResponses(t *testing.T) {
	m, _ := newTestModel(t, newFakeClient(pushPlan()))
	m.activitySeq = 3
	mm, _ := m.Update(activityMsg{seq: 2, days: []model.ActivityDay{{Day: monday, CompletedSets: 9}}})
	m = mm.(appModel)
	if len(m.activity) != 0 {
		t.Fatalf("older activity response was applied")
	}
	mm, _ = m.Update(activityMsg{seq: 3, days: []model.ActivityDay{{Day: monday, CompletedSets: 9}}})
	m = mm.(appModel)
	if len(m.activity) != 1 {
		t.Fatalf("expected activity applied")
	}
}

func TestView_ShowsGridAndPendingMarker(t *testing.T) {
	m, _ := newTestModel(t, newFakeClient(pushPlan()))
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = mm.(appModel)
	m, _ = press(t, m, "down", "5")

	out := m.View()
	for _, want := range []string{"Bench press", "Overhead press", "Push", "*"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestGotoDay_PromptJumpsToTypedDay(t *testing.T) {
	m, _ := newTestModel(t, newFakeClient(pushPlan(), legPlan()))

	m, _ = press(t, m, "g")
	if !m.dayInput.Focused() || m.dayInput.Value() != "2024-06-03" {
		t.Fatalf("expected prompt seeded with the current day, got %q", m.dayInput.Value())
	}

	var keys []string
	for i := 0; i < 10; i++ {
		keys = append(keys, "backspace")
	}
	for _, r := range "2024-06-04" {
		keys = append(keys, string(r))
	}
	m, _ = press(t, m, keys...)
	if m.day != monday || m.dayInput.Value() != "2024-06-04" {
		t.Fatalf("typing must go to the prompt only, day=%s value=%q", m.day, m.dayInput.Value())
	}

	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)
	if m.dayInput.Focused() {
		t.Fatalf("expected prompt closed")
	}
	if m.day != monday.AddDays(1) || m.planName != "Legs" {
		t.Fatalf("expected Tuesday's plan, got %s %q", m.day, m.planName)
	}
}

func TestGotoDay_RejectsBadDateAndEscCancels(t *testing.T) {
	m, _ := newTestModel(t, newFakeClient(pushPlan()))

	m, _ = press(t, m, "g", "backspace", "backspace", "backspace")
	m, cmd := press(t, m, "enter")
	if cmd != nil {
		t.Fatalf("expected no requests for an invalid date")
	}
	if m.day != monday || !strings.Contains(m.status, "Date error") {
		t.Fatalf("expected date error, day=%s status=%q", m.day, m.status)
	}

	m, _ = press(t, m, "g", "esc")
	if m.dayInput.Focused() || m.day != monday {
		t.Fatalf("expected esc to close the prompt without moving")
	}
	if m.showHelp {
		t.Fatalf("esc in the prompt must not reach the grid")
	}
}

func TestSeedWeight_MeasuredFromTodayNotTheShownDay(t *testing.T) {
	m, _ := newTestModel(t, newFakeClient(pushPlan()))

	keys := []string{"g"}
	for i := 0; i < 10; i++ {
		keys = append(keys, "backspace")
	}
	for _, r := range "2024-12-02" {
		keys = append(keys, string(r))
	}
	m, _ = press(t, m, keys...)
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)

	if m.day.String() != "2024-12-02" || len(m.exercises) == 0 {
		t.Fatalf("expected the Monday plan on 2024-12-02, got %s with %d exercises", m.day, len(m.exercises))
	}
	if got := m.exercises[0].Sets[0].Weight.Value(); got != 85 {
		t.Fatalf("last session is a week before today, expected weight 85, got %v", got)
	}
}

func TestCycleMetric_RefetchesServerSeries(t *testing.T) {
	c := newFakeClient(pushPlan())
	c.historyErr = &api.StatusError{Code: 404, Message: "Not Found"}
	m, _ := newTestModel(t, c)
	if !m.serverGraphs[1] {
		t.Fatalf("expected bench charted from the server series")
	}
	if pts := m.graphs[1]; len(pts) != 1 || pts[0].Value != float64(model.MetricMaxWeight)+1 {
		t.Fatalf("expected the max weight series, got %+v", pts)
	}

	m, cmd := press(t, m, "m")
	if cmd == nil {
		t.Fatalf("expected the new metric to be requested")
	}
	if m.graphs[1] != nil {
		t.Fatalf("expected the old series cleared, got %+v", m.graphs[1])
	}
	m = settle(t, m, cmd)
	if pts := m.graphs[1]; len(pts) != 1 || pts[0].Value != float64(model.MetricSessionTotalVolume)+1 {
		t.Fatalf("expected the session volume series, got %+v", pts)
	}
	if got := c.graphs[len(c.graphs)-1]; got != model.MetricSessionTotalVolume {
		t.Fatalf("expected last request for session volume, got %s", got)
	}
}
