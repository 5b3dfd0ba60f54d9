package setsync

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/entry"
	"github.com/kottz/ekman/internal/model"
)

type SaveResult struct {
	Request SaveRequest
	Set     model.WorkoutSet
	Err     error
}

type DeleteResult struct {
	Request DeleteRequest
	Err     error
}

type LoadResult struct {
	Request LoadRequest
	Sets    []model.WorkoutSet
	Err     error
}

// Outcome tells the caller what to do after a result was folded in.
type Outcome struct {
	// Status replaces the status line when non-empty.
	Status string
	// Resync asks for the authoritative set list of this key.
	Resync *Key
	// HistoryChanged means charts and activity for the exercise are out of date.
	HistoryChanged bool
	// Stale results were dropped without touching state.
	Stale bool
}

func find(exercises []entry.ExerciseState, id int64) *entry.ExerciseState {
	for i := range exercises {
		if eid, ok := exercises[i].ID(); ok && eid == id {
			return &exercises[i]
		}
	}
	return nil
}

func stale(reqID string, k Key, why string) Outcome {
	log.WithFields(log.Fields{"request_id": reqID, "key": k.String()}).Debugf("sync: discard stale result (%s)", why)
	return Outcome{Stale: true}
}

func resync(k Key) *Key { return &k }

// ApplySaved folds an upsert result into the current grid for day.
func (e *Engine) ApplySaved(day model.Day, exercises []entry.ExerciseState, res SaveResult, now time.Time) Outcome {
	req := res.Request
	if req.Key.Day != day {
		return stale(req.ID, req.Key, "day changed")
	}
	ex := find(exercises, req.Key.ExerciseID)
	if ex == nil {
		return stale(req.ID, req.Key, "exercise not shown")
	}
	logger := log.WithFields(log.Fields{"request_id": req.ID, "key": req.Key.String(), "set": req.SetNumber})

	if res.Err != nil {
		kind := api.Classify(res.Err)
		logger.Warnf("sync: save failed (%s): %s", kind, res.Err)
		set := ex.SetByNumber(req.SetNumber)
		if kind == api.KindConflict {
			// The server's rows win; drop ours and reload them.
			if set != nil {
				set.ClearPending()
			}
			return Outcome{Status: fmt.Sprintf("Set %d changed on the server, reloading", req.SetNumber), Resync: resync(req.Key)}
		}
		if set != nil && set.Pending {
			set.MarkFailed()
		}
		if kind == api.KindUnauthorized {
			return Outcome{Status: "Save error: not signed in (run: ekman login)"}
		}
		// Unsynced rows survive the reload with what was typed.
		return Outcome{Status: fmt.Sprintf("Save error: %s", res.Err), Resync: resync(req.Key)}
	}

	ex.ApplySavedSet(res.Set, now)
	logger.Debug("sync: save applied")
	return Outcome{Status: fmt.Sprintf("Saved set %d", res.Set.SetNumber), HistoryChanged: true}
}

// ApplyDeleted handles a delete result. The local row is already gone; on
// success and on failure alike the authoritative list is fetched again.
func (e *Engine) ApplyDeleted(day model.Day, exercises []entry.ExerciseState, res DeleteResult) Outcome {
	req := res.Request
	if req.Key.Day != day {
		return stale(req.ID, req.Key, "day changed")
	}
	if find(exercises, req.Key.ExerciseID) == nil {
		return stale(req.ID, req.Key, "exercise not shown")
	}
	logger := log.WithFields(log.Fields{"request_id": req.ID, "key": req.Key.String(), "set": req.SetNumber})

	switch {
	case res.Err == nil:
		logger.Debug("sync: delete applied")
		return Outcome{Status: fmt.Sprintf("Deleted set %d", req.SetNumber), Resync: resync(req.Key), HistoryChanged: true}
	case errors.Is(res.Err, api.ErrNotFound):
		logger.Info("sync: set was already gone on the server")
		return Outcome{Status: fmt.Sprintf("Set %d was already deleted", req.SetNumber), Resync: resync(req.Key), HistoryChanged: true}
	default:
		logger.Warnf("sync: delete failed (%s): %s", api.Classify(res.Err), res.Err)
		return Outcome{Status: fmt.Sprintf("Delete error: %s", res.Err), Resync: resync(req.Key)}
	}
}

// ApplyLoaded replaces the exercise's rows with the server's list.
func (e *Engine) ApplyLoaded(day model.Day, exercises []entry.ExerciseState, res LoadResult) Outcome {
	req := res.Request
	e.FinishLoad(req.Key)
	if req.Key.Day != day {
		return stale(req.ID, req.Key, "day changed")
	}
	ex := find(exercises, req.Key.ExerciseID)
	if ex == nil {
		return stale(req.ID, req.Key, "exercise not shown")
	}
	if res.Err != nil {
		log.WithFields(log.Fields{"request_id": req.ID, "key": req.Key.String()}).Warnf("sync: load failed: %s", res.Err)
		return Outcome{Status: fmt.Sprintf("Load error: %s", res.Err)}
	}
	ex.ApplyServerSets(res.Sets)
	return Outcome{}
}

// ApplyGraph releases the graph slot. History is kept by the caller.
func (e *Engine) ApplyGraph(res GraphResult) Outcome {
	e.FinishGraph(res.Request.ExerciseID)
	if res.Err != nil {
		log.WithField("request_id", res.Request.ID).Warnf("sync: history for exercise %d failed: %s", res.Request.ExerciseID, res.Err)
		return Outcome{Status: fmt.Sprintf("Graph error: %s", res.Err)}
	}
	return Outcome{}
}
