package entry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kottz/ekman/internal/model"
)

func newTestExercise(weight float64) ExerciseState {
	id := int64(7)
	return NewExercise(&id, "Squat", weight)
}

func saved(number int, weight float64, reps int) model.WorkoutSet {
	return model.WorkoutSet{
		ID:          int64(100 + number),
		ExerciseID:  7,
		SetNumber:   number,
		Weight:      weight,
		Reps:        reps,
		CompletedAt: t0,
	}
}

func TestFromPlan_SeedsRecentLastSession(t *testing.T) {
	day, _ := model.ParseDay("2024-06-03")
	target := 3
	pe := model.PlanExercise{
		ExerciseID: 1,
		Name:       "Bench",
		TargetSets: &target,
		LastSession: &model.LastSession{
			Day:  day.AddDays(-7),
			Sets: []model.CompactSet{{Weight: 80, Reps: 5}, {Weight: 85, Reps: 3}},
		},
	}

	e := FromPlan(pe, day)
	assert.Equal(t, 85.0, e.DefaultWeight)
	assert.Equal(t, "85.0", e.Sets[0].WeightDisplay())
	assert.Equal(t, 3, e.TargetSets)
	require.Len(t, e.Sets, 1)

	pe.LastSession.Day = day.AddDays(-(SeedWindowDays + 1))
	e = FromPlan(pe, day)
	assert.Equal(t, 0.0, e.DefaultWeight)
	assert.Equal(t, "__", e.Sets[0].WeightDisplay())
}

func TestFromPlan_IgnoresSessionsAfterToday(t *testing.T) {
	today, _ := model.ParseDay("2024-06-03")
	pe := model.PlanExercise{
		ExerciseID:  1,
		Name:        "Bench",
		LastSession: &model.LastSession{Day: today.AddDays(2), Sets: []model.CompactSet{{Weight: 80, Reps: 5}}},
	}
	assert.Equal(t, 0.0, FromPlan(pe, today).DefaultWeight)

	pe.LastSession.Day = today.AddDays(-SeedWindowDays)
	assert.Equal(t, 80.0, FromPlan(pe, today).DefaultWeight)
	pe.LastSession.Day = today
	assert.Equal(t, 80.0, FromPlan(pe, today).DefaultWeight)
}

func TestPushRepsChar_FastPathAdvances(t *testing.T) {
	e := newTestExercise(60)
	e.Focus = FocusReps

	changed, advance := e.PushRepsChar('5', t0)
	assert.True(t, changed)
	assert.True(t, advance)
	require.NotNil(t, e.Sets[0].Reps)
	assert.Equal(t, 5, *e.Sets[0].Reps)
	assert.NotNil(t, e.Sets[0].CompletedAt)
}

func TestPushRepsChar_TwoDigitsWithinWindow(t *testing.T) {
	e := newTestExercise(60)
	e.Focus = FocusReps

	_, advance := e.PushRepsChar('1', t0)
	assert.False(t, advance)
	_, advance = e.PushRepsChar('0', t0.Add(300*time.Millisecond))
	assert.False(t, advance)

	assert.Equal(t, 10, *e.Sets[0].Reps)
	assert.Len(t, e.Sets, 1)
}

func TestPushRepsChar_PauseRestartsBuffer(t *testing.T) {
	e := newTestExercise(60)
	e.Focus = FocusReps

	e.PushRepsChar('1', t0)
	_, advance := e.PushRepsChar('2', t0.Add(DebounceWindow+time.Millisecond))
	assert.False(t, advance)
	assert.Equal(t, 2, *e.Sets[0].Reps)
}

func TestRepsAndCompletedAtMoveTogether(t *testing.T) {
	e := newTestExercise(60)
	e.Focus = FocusReps

	e.PushRepsChar('1', t0)
	assert.NotNil(t, e.Sets[0].CompletedAt)

	e.BackspaceReps(t0)
	assert.Nil(t, e.Sets[0].Reps)
	assert.Nil(t, e.Sets[0].CompletedAt)

	assert.False(t, e.BackspaceReps(t0))
}

func TestShouldAutoAdvance(t *testing.T) {
	e := newTestExercise(60)
	e.Focus = FocusReps
	assert.False(t, e.ShouldAutoAdvance(t0))

	e.PushRepsChar('1', t0)
	assert.False(t, e.ShouldAutoAdvance(t0.Add(500*time.Millisecond)))
	assert.True(t, e.ShouldAutoAdvance(t0.Add(DebounceWindow+time.Millisecond)))

	e.Focus = FocusWeight
	assert.False(t, e.ShouldAutoAdvance(t0.Add(2*DebounceWindow)))
}

func TestAdvance_AppendsSeededSet(t *testing.T) {
	e := newTestExercise(0)
	e.PushWeightChar('8', t0)
	e.PushWeightChar('0', t0)
	e.Focus = FocusReps
	e.PushRepsChar('5', t0)

	e.Advance()
	require.Len(t, e.Sets, 2)
	assert.Equal(t, 1, e.Cursor)
	assert.Equal(t, 2, e.Sets[1].Number)
	assert.Equal(t, 80.0, e.Sets[1].Weight.Value())
	assert.Equal(t, FocusReps, e.Focus)
	assert.True(t, e.Sets[1].IsBlank())

	e.MoveSetCursor(-1)
	e.Advance()
	assert.Len(t, e.Sets, 2, "advance moves onto an existing next set")
	assert.Equal(t, 1, e.Cursor)
}

func TestPushWeightChar_PropagatesToSetsWithoutReps(t *testing.T) {
	e := newTestExercise(50)
	e.Focus = FocusReps
	e.PushRepsChar('5', t0)
	e.Advance()
	e.Advance()
	e.MoveSetCursor(-1)
	e.Focus = FocusWeight

	e.PushWeightChar('6', t0.Add(3*time.Second))
	e.PushWeightChar('0', t0.Add(3*time.Second))

	assert.Equal(t, 50.0, e.Sets[0].Weight.Value(), "set with reps keeps its weight")
	assert.Equal(t, 60.0, e.Sets[1].Weight.Value())
	assert.Equal(t, 60.0, e.Sets[2].Weight.Value())
	assert.Equal(t, 60.0, e.DefaultWeight)
}

func TestNavigation_ClampsAndResetsTimer(t *testing.T) {
	e := newTestExercise(50)
	e.MoveSetCursor(5)
	assert.Equal(t, 0, e.Cursor)
	e.MoveSetCursor(-5)
	assert.Equal(t, 0, e.Cursor)

	e.Focus = FocusReps
	e.PushRepsChar('1', t0)
	e.ToggleFocus()
	e.ToggleFocus()
	// Timer was reset, so a stale reps value does not auto-advance.
	assert.False(t, e.ShouldAutoAdvance(t0.Add(5*time.Second)))
}

func TestNextPrevField(t *testing.T) {
	e := newTestExercise(50)
	e.Sets = append(e.Sets, BlankSet(2, 50))

	assert.True(t, e.NextField())
	assert.Equal(t, FocusReps, e.Focus)
	assert.True(t, e.NextField())
	assert.Equal(t, 1, e.Cursor)
	assert.Equal(t, FocusWeight, e.Focus)
	assert.True(t, e.NextField())
	assert.False(t, e.NextField())

	e.EnterFromStart()
	assert.False(t, e.PrevField())
	e.EnterFromEnd()
	assert.Equal(t, 1, e.Cursor)
	assert.Equal(t, FocusReps, e.Focus)
	assert.True(t, e.PrevField())
	assert.True(t, e.PrevField())
	assert.Equal(t, 0, e.Cursor)
	assert.Equal(t, FocusReps, e.Focus)
}

func TestTrimEmptyTrailingAndVisibleLen(t *testing.T) {
	e := newTestExercise(50)
	e.Focus = FocusReps
	e.PushRepsChar('5', t0)
	e.Advance()
	e.Advance()
	require.Len(t, e.Sets, 3)
	assert.Equal(t, 1, e.VisibleLen(false))
	assert.Equal(t, 3, e.VisibleLen(true))

	e.TrimEmptyTrailing()
	assert.Len(t, e.Sets, 1)
	assert.Equal(t, 0, e.Cursor)

	blank := newTestExercise(0)
	blank.TrimEmptyTrailing()
	assert.Len(t, blank.Sets, 1)
	assert.Equal(t, 1, blank.VisibleLen(false))
}

func TestDeleteCurrent_OnlySetLeavesBlank(t *testing.T) {
	e := newTestExercise(40)
	e.ApplyServerSets([]model.WorkoutSet{saved(1, 40, 8)})

	removed, ok := e.DeleteCurrent()
	require.True(t, ok)
	assert.NotNil(t, removed.ServerID)
	require.Len(t, e.Sets, 1)
	assert.True(t, e.Sets[0].IsBlank())
	assert.Equal(t, 1, e.Sets[0].Number)
}

func TestDeleteCurrent_RenumbersDensely(t *testing.T) {
	e := newTestExercise(40)
	e.ApplyServerSets([]model.WorkoutSet{saved(1, 40, 8), saved(2, 40, 7), saved(3, 40, 6)})
	e.Cursor = 1

	removed, _ := e.DeleteCurrent()
	assert.Equal(t, 2, removed.Number)
	require.Len(t, e.Sets, 2)
	assert.Equal(t, 1, e.Sets[0].Number)
	assert.Equal(t, 2, e.Sets[1].Number)
	assert.Equal(t, 6, *e.Sets[1].Reps)
	assert.Equal(t, 1, e.Cursor)
}

func TestApplyServerSets(t *testing.T) {
	e := newTestExercise(40)
	e.Cursor = 0
	e.ApplyServerSets([]model.WorkoutSet{saved(2, 45, 5), saved(1, 42.5, 6)})

	require.Len(t, e.Sets, 2)
	assert.Equal(t, 1, e.Sets[0].Number)
	assert.Equal(t, 45.0, e.DefaultWeight)

	e.ApplyServerSets(nil)
	require.Len(t, e.Sets, 1)
	assert.True(t, e.Sets[0].IsBlank())
	assert.Equal(t, 45.0, e.Sets[0].Weight.Value())
}

func TestApplyServerSets_KeepsUnacknowledgedRows(t *testing.T) {
	e := newTestExercise(40)
	e.ApplyServerSets([]model.WorkoutSet{saved(1, 40, 8)})
	e.Focus = FocusReps
	e.Advance()
	e.PushRepsChar('6', t0)
	in, ok := e.Sets[1].Input()
	require.True(t, ok)
	e.Sets[1].MarkSent(in)

	e.ApplyServerSets([]model.WorkoutSet{saved(1, 40, 8)})
	require.Len(t, e.Sets, 2)
	assert.True(t, e.Sets[1].Pending)
}

func TestApplySavedSet_Idempotent(t *testing.T) {
	e := newTestExercise(60)
	e.Focus = FocusReps
	e.PushRepsChar('5', t0)
	in, _ := e.Sets[0].Input()
	e.Sets[0].MarkSent(in)

	later := t0.Add(5 * time.Second)
	e.ApplySavedSet(saved(1, 60, 5), later)
	once := e.Sets[0]
	e.ApplySavedSet(saved(1, 60, 5), later)

	assert.Equal(t, once, e.Sets[0])
	assert.False(t, e.Sets[0].Pending)
	assert.Equal(t, int64(101), *e.Sets[0].ServerID)
}

func TestApplySavedSet_KeepsWeightEditedAfterRequest(t *testing.T) {
	e := newTestExercise(60)
	e.Focus = FocusReps
	e.PushRepsChar('5', t0)
	in, _ := e.Sets[0].Input()
	e.Sets[0].MarkSent(in)

	// User bumps the weight while the save is in flight.
	e.Focus = FocusWeight
	e.BumpWeight(2.5, t0.Add(200*time.Millisecond))

	e.ApplySavedSet(saved(1, 60, 5), t0.Add(400*time.Millisecond))
	assert.Equal(t, 62.5, e.Sets[0].Weight.Value())
	assert.NotNil(t, e.Sets[0].ServerID)
}

func TestApplySavedSet_OlderWriteOnlyRecordsID(t *testing.T) {
	e := newTestExercise(60)
	e.Focus = FocusReps
	e.PushRepsChar('1', t0)
	first, _ := e.Sets[0].Input()
	e.Sets[0].MarkSent(first)
	e.PushRepsChar('2', t0.Add(100*time.Millisecond))
	second, _ := e.Sets[0].Input()
	e.Sets[0].MarkSent(second)

	e.ApplySavedSet(saved(1, 60, 1), t0.Add(5*time.Second))
	assert.Equal(t, 12, *e.Sets[0].Reps)
	assert.True(t, e.Sets[0].Pending)

	e.ApplySavedSet(saved(1, 60, 12), t0.Add(5*time.Second))
	assert.Equal(t, 12, *e.Sets[0].Reps)
	assert.False(t, e.Sets[0].Pending)
}

func TestApplySavedSet_LateReplyToOlderWeightAfterNewerAck(t *testing.T) {
	e := newTestExercise(60)
	e.Focus = FocusReps
	e.PushRepsChar('5', t0)
	first, _ := e.Sets[0].Input()
	e.Sets[0].MarkSent(first)

	e.Focus = FocusWeight
	e.BumpWeight(2.5, t0.Add(100*time.Millisecond))
	second, _ := e.Sets[0].Input()
	e.Sets[0].MarkSent(second)

	e.ApplySavedSet(saved(1, 62.5, 5), t0.Add(300*time.Millisecond))
	e.ApplySavedSet(saved(1, 60, 5), t0.Add(3*time.Second))
	assert.Equal(t, 62.5, e.Sets[0].Weight.Value())
	assert.Equal(t, 5, *e.Sets[0].Reps)
	assert.False(t, e.Sets[0].Pending)
	assert.False(t, e.Sets[0].Unsynced)
}

func TestApplySavedSet_LateReplyToOlderRepsAfterNewerAck(t *testing.T) {
	e := newTestExercise(60)
	e.Focus = FocusReps
	e.PushRepsChar('1', t0)
	first, _ := e.Sets[0].Input()
	e.Sets[0].MarkSent(first)
	e.PushRepsChar('2', t0.Add(100*time.Millisecond))
	second, _ := e.Sets[0].Input()
	e.Sets[0].MarkSent(second)

	e.ApplySavedSet(saved(1, 60, 12), t0.Add(300*time.Millisecond))
	e.ApplySavedSet(saved(1, 60, 1), t0.Add(3*time.Second))
	require.NotNil(t, e.Sets[0].Reps)
	assert.Equal(t, 12, *e.Sets[0].Reps)
	assert.Equal(t, "12", e.Sets[0].RepsBuffer)
	assert.False(t, e.Sets[0].Pending)
}

func TestApplySavedSet_KeepsRepsClearedWhileInFlight(t *testing.T) {
	e := newTestExercise(60)
	e.Focus = FocusReps
	e.PushRepsChar('5', t0)
	in, _ := e.Sets[0].Input()
	e.Sets[0].MarkSent(in)
	e.BackspaceReps(t0.Add(100 * time.Millisecond))

	e.ApplySavedSet(saved(1, 60, 5), t0.Add(3*time.Second))
	assert.Nil(t, e.Sets[0].Reps)
	assert.True(t, e.Sets[0].Unsynced)
	assert.NotNil(t, e.Sets[0].ServerID)
}

func TestApplySavedSet_MissingRowIsInsertedInOrder(t *testing.T) {
	e := newTestExercise(60)
	e.ApplyServerSets([]model.WorkoutSet{saved(1, 60, 5), saved(3, 60, 5)})

	e.ApplySavedSet(saved(2, 60, 4), t0)
	require.Len(t, e.Sets, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{e.Sets[0].Number, e.Sets[1].Number, e.Sets[2].Number})
}
