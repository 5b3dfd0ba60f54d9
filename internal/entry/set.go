package entry

import (
	"strconv"
	"time"

	"github.com/kottz/ekman/internal/model"
)

// RepsCommitsImmediately is the single-keystroke rule for reps: a first
// digit above '2' cannot start a practical two-digit count, so it is final.
// '0'..'2' wait for a possible second digit.
func RepsCommitsImmediately(buffer string, ch rune) bool {
	return buffer == "" && ch > '2' && ch <= '9'
}

// SetEntry is one row of the grid.
type SetEntry struct {
	ServerID    *int64
	Number      int
	Reps        *int
	RepsBuffer  string
	Weight      WeightField
	CompletedAt *time.Time
	Pending     bool
	// Unsynced rows failed to save and keep their local values until the
	// next successful save.
	Unsynced bool

	// lastSent is the newest input handed to the server for this row. It
	// outlives the acknowledgement so a late reply to an older write can be
	// recognised.
	lastSent *model.SetInput
}

func BlankSet(number int, weight float64) SetEntry {
	return SetEntry{Number: number, Weight: NewWeightField(weight)}
}

func SetFromServer(s model.WorkoutSet) SetEntry {
	id := s.ID
	reps := s.Reps
	completed := s.CompletedAt
	e := SetEntry{
		ServerID:    &id,
		Number:      s.SetNumber,
		Reps:        &reps,
		RepsBuffer:  strconv.Itoa(reps),
		CompletedAt: &completed,
	}
	e.Weight.SetValue(s.Weight)
	return e
}

// IsBlank reports whether the row carries nothing worth keeping.
func (s SetEntry) IsBlank() bool {
	return s.ServerID == nil && s.Reps == nil && s.CompletedAt == nil && !s.Pending
}

func (s SetEntry) HasReps() bool { return s.Reps != nil }

func (s SetEntry) RepsDisplay() string {
	if s.Reps == nil {
		return placeholder
	}
	return strconv.Itoa(*s.Reps)
}

func (s SetEntry) WeightDisplay() string { return s.Weight.Display() }

// Input is what a save of this row would send.
func (s SetEntry) Input() (model.SetInput, bool) {
	if s.Reps == nil {
		return model.SetInput{}, false
	}
	in := model.SetInput{Weight: s.Weight.Value(), Reps: *s.Reps}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		in.CompletedAt = &t
	}
	return in, true
}

// MarkSent flags the row as waiting for the server to acknowledge in.
func (s *SetEntry) MarkSent(in model.SetInput) {
	s.Pending = true
	s.lastSent = &in
}

func (s *SetEntry) applyRepsBuffer(now time.Time) {
	r, err := strconv.Atoi(s.RepsBuffer)
	if err != nil {
		s.Reps = nil
		s.CompletedAt = nil
		return
	}
	s.Reps = &r
	if s.CompletedAt == nil {
		t := now
		s.CompletedAt = &t
	}
}

func (s *SetEntry) clearReps() {
	s.Reps = nil
	s.RepsBuffer = ""
	s.CompletedAt = nil
}

// ClearPending forgets an unacknowledged write, after which the next
// authoritative list may replace the row.
func (s *SetEntry) ClearPending() {
	s.Pending = false
	s.Unsynced = false
}

// MarkFailed keeps the row's local values after a save that did not reach
// the server.
func (s *SetEntry) MarkFailed() {
	s.Pending = false
	s.Unsynced = true
}

// acknowledges reports whether saved answers the newest write of the row.
// Rows never sent from here accept any acknowledgement.
func (s SetEntry) acknowledges(saved model.WorkoutSet) bool {
	return s.lastSent == nil || (s.lastSent.Reps == saved.Reps && s.lastSent.Weight == saved.Weight)
}

// editedSinceSent reports whether the row no longer shows what was last sent.
func (s SetEntry) editedSinceSent() bool {
	if s.lastSent == nil {
		return false
	}
	return s.Reps == nil || *s.Reps != s.lastSent.Reps || s.Weight.Value() != s.lastSent.Weight
}
