package entry

import (
	"strconv"
	"time"
)

// DebounceWindow is how long a numeric entry stays open for more keystrokes.
// A keystroke after a longer pause starts a new number.
const DebounceWindow = time.Second

const placeholder = "__"

func expired(last, now time.Time) bool {
	return last.IsZero() || now.Sub(last) > DebounceWindow
}

// WeightField is a buffered numeric entry. The buffer holds what the user
// typed; value is the last successful parse of it.
type WeightField struct {
	value  float64
	set    bool
	buffer string

	// lastInput drives continuation of typing; lastEdit records any user
	// change (typing, backspace, bump) for reconciliation.
	lastInput time.Time
	lastEdit  time.Time
}

func NewWeightField(seed float64) WeightField {
	var w WeightField
	if seed > 0 {
		w.SetValue(seed)
	}
	return w
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func isWeightRune(ch rune) bool {
	return (ch >= '0' && ch <= '9') || ch == '.'
}

// PushChar appends a digit or decimal point. After a pause longer than
// DebounceWindow the buffer is cleared first.
func (w *WeightField) PushChar(ch rune, now time.Time) bool {
	if !isWeightRune(ch) {
		return false
	}
	if expired(w.lastInput, now) {
		w.buffer = ""
	}
	w.buffer += string(ch)
	w.reparse()
	w.lastInput = now
	w.lastEdit = now
	return true
}

// Backspace drops the last typed character. An emptied buffer unsets the value.
func (w *WeightField) Backspace(now time.Time) bool {
	if w.buffer == "" {
		return false
	}
	w.buffer = w.buffer[:len(w.buffer)-1]
	w.reparse()
	w.lastInput = now
	w.lastEdit = now
	return true
}

// Bump moves the value by delta, floored at zero, and re-renders the buffer.
// The next keystroke starts a fresh number.
func (w *WeightField) Bump(delta float64, now time.Time) float64 {
	v := max(0, w.value+delta)
	w.SetValue(v)
	w.lastEdit = now
	return v
}

// SetValue replaces the value without counting as a user edit.
func (w *WeightField) SetValue(v float64) {
	w.value = v
	w.set = true
	w.buffer = formatWeight(v)
	w.lastInput = time.Time{}
}

// Restart makes the next keystroke start a new number.
func (w *WeightField) Restart() {
	w.lastInput = time.Time{}
}

// TouchedWithin reports whether the user changed the field less than d ago.
func (w WeightField) TouchedWithin(now time.Time, d time.Duration) bool {
	return !w.lastEdit.IsZero() && now.Sub(w.lastEdit) <= d
}

func (w WeightField) Value() float64 { return w.value }
func (w WeightField) IsSet() bool    { return w.set }
func (w WeightField) Buffer() string { return w.buffer }

func (w WeightField) Display() string {
	if !w.set || w.buffer == "" {
		return placeholder
	}
	return w.buffer
}

func (w *WeightField) clear() {
	w.value = 0
	w.set = false
	w.buffer = ""
}

func (w *WeightField) reparse() {
	if w.buffer == "" {
		w.clear()
		return
	}
	w.set = true
	if v, err := strconv.ParseFloat(w.buffer, 64); err == nil {
		w.value = v
	}
}
