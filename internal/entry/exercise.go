package entry

import (
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/kottz/ekman/internal/model"
)

type Focus int

const (
	FocusWeight Focus = iota
	FocusReps
)

func (f Focus) String() string {
	if f == FocusReps {
		return "reps"
	}
	return "weight"
}

// SeedWindowDays bounds how old a last session may be to seed the default weight.
const SeedWindowDays = 90

func seedable(age int) bool { return age >= 0 && age <= SeedWindowDays }

// ExerciseState is the editable grid for one exercise on one day. Sets is
// never empty and Cursor always indexes into it.
type ExerciseState struct {
	ExerciseID    *int64
	Name          string
	Focus         Focus
	Sets          []SetEntry
	Cursor        int
	DefaultWeight float64
	TargetSets    int

	// lastInput is the debounce timer of the focused field.
	lastInput time.Time
}

func NewExercise(id *int64, name string, defaultWeight float64) ExerciseState {
	return ExerciseState{
		ExerciseID:    id,
		Name:          name,
		Focus:         FocusWeight,
		Sets:          []SetEntry{BlankSet(1, defaultWeight)},
		DefaultWeight: defaultWeight,
	}
}

// FromPlan seeds an exercise from its plan entry. The default weight is the
// heaviest set of the last session when that session lies within
// SeedWindowDays before today, whichever day is displayed.
func FromPlan(pe model.PlanExercise, today model.Day) ExerciseState {
	var weight float64
	if ls := pe.LastSession; ls != nil && seedable(today.Sub(ls.Day)) {
		weight = ls.MaxWeight()
	}
	id := pe.ExerciseID
	e := NewExercise(&id, pe.Name, weight)
	if pe.TargetSets != nil {
		e.TargetSets = *pe.TargetSets
	}
	return e
}

func (e *ExerciseState) ID() (int64, bool) {
	if e.ExerciseID == nil {
		return 0, false
	}
	return *e.ExerciseID, true
}

func (e *ExerciseState) ensureSets() {
	if len(e.Sets) == 0 {
		e.Sets = []SetEntry{BlankSet(1, e.DefaultWeight)}
	}
	e.Cursor = min(max(e.Cursor, 0), len(e.Sets)-1)
}

func (e *ExerciseState) Current() *SetEntry {
	e.ensureSets()
	return &e.Sets[e.Cursor]
}

func (e *ExerciseState) ResetTimer() {
	e.lastInput = time.Time{}
	for i := range e.Sets {
		e.Sets[i].Weight.Restart()
	}
}

func (e *ExerciseState) ToggleFocus() {
	if e.Focus == FocusWeight {
		e.Focus = FocusReps
	} else {
		e.Focus = FocusWeight
	}
	e.ResetTimer()
}

func (e *ExerciseState) MoveSetCursor(delta int) {
	e.ensureSets()
	e.Cursor = min(max(e.Cursor+delta, 0), len(e.Sets)-1)
	e.ResetTimer()
}

// NextField moves Weight -> Reps -> next set's Weight. It returns false when
// there is nowhere left to go inside this exercise.
func (e *ExerciseState) NextField() bool {
	e.ensureSets()
	switch {
	case e.Focus == FocusWeight:
		e.Focus = FocusReps
	case e.Cursor+1 < len(e.Sets):
		e.Cursor++
		e.Focus = FocusWeight
	default:
		return false
	}
	e.ResetTimer()
	return true
}

// PrevField is the reverse of NextField.
func (e *ExerciseState) PrevField() bool {
	e.ensureSets()
	switch {
	case e.Focus == FocusReps:
		e.Focus = FocusWeight
	case e.Cursor > 0:
		e.Cursor--
		e.Focus = FocusReps
	default:
		return false
	}
	e.ResetTimer()
	return true
}

func (e *ExerciseState) EnterFromStart() {
	e.ensureSets()
	e.Cursor = 0
	e.Focus = FocusWeight
	e.ResetTimer()
}

func (e *ExerciseState) EnterFromEnd() {
	e.ensureSets()
	e.Cursor = len(e.Sets) - 1
	e.Focus = FocusReps
	e.ResetTimer()
}

func (e *ExerciseState) propagateWeight(w float64) {
	for i := range e.Sets {
		if i != e.Cursor && e.Sets[i].Reps == nil {
			e.Sets[i].Weight.SetValue(w)
		}
	}
}

// PushWeightChar types into the focused weight. Sets without reps follow
// the new weight.
func (e *ExerciseState) PushWeightChar(ch rune, now time.Time) bool {
	cur := e.Current()
	if !cur.Weight.PushChar(ch, now) {
		return false
	}
	w := cur.Weight.Value()
	e.propagateWeight(w)
	e.DefaultWeight = w
	e.lastInput = now
	return true
}

func (e *ExerciseState) BackspaceWeight(now time.Time) bool {
	cur := e.Current()
	if !cur.Weight.Backspace(now) {
		return false
	}
	e.DefaultWeight = cur.Weight.Value()
	e.lastInput = now
	return true
}

func (e *ExerciseState) BumpWeight(delta float64, now time.Time) float64 {
	w := e.Current().Weight.Bump(delta, now)
	e.propagateWeight(w)
	e.DefaultWeight = w
	return w
}

// PushRepsChar types a digit into the focused reps. advance is true when the
// digit completed the value on its own.
func (e *ExerciseState) PushRepsChar(ch rune, now time.Time) (changed, advance bool) {
	if ch < '0' || ch > '9' {
		return false, false
	}
	cur := e.Current()
	if expired(e.lastInput, now) {
		cur.RepsBuffer = ""
	}
	advance = RepsCommitsImmediately(cur.RepsBuffer, ch)
	cur.RepsBuffer += string(ch)
	cur.applyRepsBuffer(now)
	e.lastInput = now
	return true, advance
}

func (e *ExerciseState) BackspaceReps(now time.Time) bool {
	cur := e.Current()
	if cur.RepsBuffer != "" {
		cur.RepsBuffer = cur.RepsBuffer[:len(cur.RepsBuffer)-1]
		cur.applyRepsBuffer(now)
	} else if cur.Reps != nil {
		cur.clearReps()
	} else {
		return false
	}
	e.lastInput = now
	return true
}

// ShouldAutoAdvance reports whether entered reps have sat idle past the
// debounce window.
func (e *ExerciseState) ShouldAutoAdvance(now time.Time) bool {
	if e.Focus != FocusReps || e.lastInput.IsZero() {
		return false
	}
	return now.Sub(e.lastInput) > DebounceWindow && e.Current().HasReps()
}

// Advance moves to the next set's reps, appending a set seeded with the
// previous weight when already on the last one.
func (e *ExerciseState) Advance() {
	e.ensureSets()
	e.ResetTimer()
	e.Focus = FocusReps
	if e.Cursor+1 < len(e.Sets) {
		e.Cursor++
		return
	}
	weight := e.DefaultWeight
	if last := e.Sets[len(e.Sets)-1]; last.Weight.IsSet() {
		weight = last.Weight.Value()
	}
	e.DefaultWeight = weight
	e.Sets = append(e.Sets, BlankSet(len(e.Sets)+1, weight))
	e.Cursor = len(e.Sets) - 1
}

// TrimEmptyTrailing drops blank placeholder sets from the end, keeping one.
func (e *ExerciseState) TrimEmptyTrailing() {
	for len(e.Sets) > 1 && e.Sets[len(e.Sets)-1].IsBlank() {
		e.Sets = e.Sets[:len(e.Sets)-1]
	}
	e.ensureSets()
}

// VisibleLen is the number of rows to draw. Unselected exercises hide their
// trailing blank sets.
func (e *ExerciseState) VisibleLen(selected bool) int {
	if selected {
		return max(len(e.Sets), 1)
	}
	n := len(e.Sets)
	for n > 0 && e.Sets[n-1].IsBlank() {
		n--
	}
	return max(n, 1)
}

// DeleteCurrent removes the set under the cursor and renumbers the rest.
func (e *ExerciseState) DeleteCurrent() (SetEntry, bool) {
	if len(e.Sets) == 0 {
		e.ensureSets()
		return SetEntry{}, false
	}
	e.Cursor = min(max(e.Cursor, 0), len(e.Sets)-1)
	removed := e.Sets[e.Cursor]
	e.Sets = slices.Delete(e.Sets, e.Cursor, e.Cursor+1)
	if len(e.Sets) == 0 {
		e.Sets = append(e.Sets, BlankSet(1, e.DefaultWeight))
	}
	for i := range e.Sets {
		e.Sets[i].Number = i + 1
	}
	e.ensureSets()
	e.ResetTimer()
	return removed, true
}

// ApplyServerSets replaces the rows with the authoritative list. Rows still
// waiting on a save the server does not know about yet are kept, and rows
// whose save failed keep their local values.
func (e *ExerciseState) ApplyServerSets(sets []model.WorkoutSet) {
	local := map[int]SetEntry{}
	for _, s := range e.Sets {
		if s.Pending || s.Unsynced {
			local[s.Number] = s
		}
	}
	next := make([]SetEntry, 0, len(sets)+1)
	for _, s := range sets {
		if l, ok := local[s.SetNumber]; ok && l.Unsynced {
			id := s.ID
			l.ServerID = &id
			next = append(next, l)
		} else {
			next = append(next, SetFromServer(s))
		}
		delete(local, s.SetNumber)
	}
	for _, s := range local {
		next = append(next, s)
	}
	sort.SliceStable(next, func(i, j int) bool { return next[i].Number < next[j].Number })
	if len(next) == 0 {
		next = append(next, BlankSet(1, e.DefaultWeight))
	}
	e.Sets = next
	e.ensureSets()
	if last := e.Sets[len(e.Sets)-1]; last.Weight.IsSet() {
		e.DefaultWeight = last.Weight.Value()
	}
}

// ApplySavedSet folds a save acknowledgement into the row with the same set
// number. An acknowledgement for an older write than the newest one sent only
// records the server id, whatever order the replies arrive in. Values the
// user changed after the newest send are kept, as is a weight touched within
// the debounce window. Applying the same acknowledgement twice is a no-op.
func (e *ExerciseState) ApplySavedSet(saved model.WorkoutSet, now time.Time) {
	idx := slices.IndexFunc(e.Sets, func(s SetEntry) bool { return s.Number == saved.SetNumber })
	if idx < 0 {
		e.Sets = append(e.Sets, SetFromServer(saved))
		sort.SliceStable(e.Sets, func(i, j int) bool { return e.Sets[i].Number < e.Sets[j].Number })
		e.ensureSets()
		return
	}

	set := &e.Sets[idx]
	id := saved.ID
	set.ServerID = &id
	if !set.acknowledges(saved) {
		return
	}
	set.Pending = false
	// Local edits that were never sent stay on screen and survive reloads.
	set.Unsynced = set.editedSinceSent()
	if set.Unsynced {
		return
	}

	reps := saved.Reps
	completed := saved.CompletedAt
	set.Reps = &reps
	set.RepsBuffer = strconv.Itoa(reps)
	set.CompletedAt = &completed
	if !set.Weight.TouchedWithin(now, DebounceWindow) {
		set.Weight.SetValue(saved.Weight)
	}
}

// SetByNumber finds the row with the given set number.
func (e *ExerciseState) SetByNumber(n int) *SetEntry {
	for i := range e.Sets {
		if e.Sets[i].Number == n {
			return &e.Sets[i]
		}
	}
	return nil
}
