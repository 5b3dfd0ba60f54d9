// Package setsync issues optimistic set writes and folds their results back
// into whatever grid state is current when they arrive.
//
// Results are matched by (day, exercise id, set number), never by request
// order, so they may be applied in any order and more than once.
package setsync

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/kottz/ekman/internal/entry"
	"github.com/kottz/ekman/internal/model"
)

// Key identifies the sets of one exercise on one day.
type Key struct {
	Day        model.Day
	ExerciseID int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Day, k.ExerciseID)
}

type SaveRequest struct {
	ID        string
	Key       Key
	SetNumber int
	Input     model.SetInput
}

type DeleteRequest struct {
	ID        string
	Key       Key
	SetNumber int
}

type LoadRequest struct {
	ID  string
	Key Key
}

type GraphRequest struct {
	ID         string
	ExerciseID int64
	// Metric is only sent when the backend has no raw history and computes
	// the series itself.
	Metric model.Metric
}

// Engine only remembers which loads and graph fetches are outstanding so
// they are not issued twice. The grid itself belongs to the caller.
type Engine struct {
	loading map[Key]struct{}
	graphs  map[int64]struct{}
	loc     *time.Location
}

func New(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		loading: map[Key]struct{}{},
		graphs:  map[int64]struct{}{},
		loc:     loc,
	}
}

func newRequestID() string { return uuid.NewString() }

// PrepareSave marks the focused set pending and returns the upsert for it.
// Sets without committed reps (or with zero reps) are not sent.
func (e *Engine) PrepareSave(day model.Day, ex *entry.ExerciseState) (SaveRequest, bool) {
	id, ok := ex.ID()
	if !ok {
		return SaveRequest{}, false
	}
	set := ex.Current()
	in, ok := set.Input()
	if !ok || in.Reps < 1 {
		return SaveRequest{}, false
	}
	if in.CompletedAt == nil {
		noon := day.Noon(e.loc)
		in.CompletedAt = &noon
	}
	set.MarkSent(in)

	req := SaveRequest{ID: newRequestID(), Key: Key{Day: day, ExerciseID: id}, SetNumber: set.Number, Input: in}
	log.WithFields(log.Fields{"request_id": req.ID, "key": req.Key.String(), "set": req.SetNumber}).
		Debugf("sync: save weight=%.1f reps=%d", in.Weight, in.Reps)
	return req, true
}

// PrepareDelete removes the focused set locally. A request is returned only
// when the server knew about the set.
func (e *Engine) PrepareDelete(day model.Day, ex *entry.ExerciseState) (DeleteRequest, bool) {
	id, ok := ex.ID()
	if !ok {
		return DeleteRequest{}, false
	}
	removed, ok := ex.DeleteCurrent()
	if !ok || removed.ServerID == nil {
		return DeleteRequest{}, false
	}
	req := DeleteRequest{ID: newRequestID(), Key: Key{Day: day, ExerciseID: id}, SetNumber: removed.Number}
	log.WithFields(log.Fields{"request_id": req.ID, "key": req.Key.String(), "set": req.SetNumber}).Debug("sync: delete")
	return req, true
}

// BeginLoad returns a load for k unless one is already outstanding.
func (e *Engine) BeginLoad(k Key) (LoadRequest, bool) {
	if _, busy := e.loading[k]; busy {
		return LoadRequest{}, false
	}
	e.loading[k] = struct{}{}
	req := LoadRequest{ID: newRequestID(), Key: k}
	log.WithFields(log.Fields{"request_id": req.ID, "key": k.String()}).Debug("sync: load sets")
	return req, true
}

func (e *Engine) FinishLoad(k Key) {
	delete(e.loading, k)
}

func (e *Engine) Loading(k Key) bool {
	_, ok := e.loading[k]
	return ok
}

func (e *Engine) BeginGraph(exerciseID int64) (GraphRequest, bool) {
	if _, busy := e.graphs[exerciseID]; busy {
		return GraphRequest{}, false
	}
	e.graphs[exerciseID] = struct{}{}
	return GraphRequest{ID: newRequestID(), ExerciseID: exerciseID}, true
}

func (e *Engine) FinishGraph(exerciseID int64) {
	delete(e.graphs, exerciseID)
}

// Reset forgets outstanding loads after the displayed day changed. Their
// responses still arrive and are discarded as stale.
func (e *Engine) Reset() {
	clear(e.loading)
}

func (e *Engine) InFlight() int {
	return len(e.loading) + len(e.graphs)
}
