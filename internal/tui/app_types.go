package tui

import (
	"time"

	"github.com/kottz/ekman/internal/model"
	"github.com/kottz/ekman/internal/setsync"
)

// tickMsg drives the idle auto-advance check.
type tickMsg time.Time

type sessionMsg struct {
	user model.User
	err  error
}

type plansMsg struct {
	plans []model.Plan
	err   error
}

type setsLoadedMsg struct{ res setsync.LoadResult }

type setSavedMsg struct{ res setsync.SaveResult }

type setDeletedMsg struct{ res setsync.DeleteResult }

type graphLoadedMsg struct{ res setsync.GraphResult }

type activityMsg struct {
	seq  int
	days []model.ActivityDay
	err  error
}
