package setsync

import (
	"context"
	"errors"
	"time"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/metric"
	"github.com/kottz/ekman/internal/model"
)

// The Do methods run off the input loop. They only talk to the client and
// never touch grid state.

func (r SaveRequest) Do(ctx context.Context, c api.Client) SaveResult {
	set, err := c.UpsertSet(ctx, r.Key.ExerciseID, r.Key.Day, r.SetNumber, r.Input)
	return SaveResult{Request: r, Set: set, Err: err}
}

func (r DeleteRequest) Do(ctx context.Context, c api.Client) DeleteResult {
	err := c.DeleteSet(ctx, r.Key.ExerciseID, r.Key.Day, r.SetNumber)
	return DeleteResult{Request: r, Err: err}
}

func (r LoadRequest) Do(ctx context.Context, c api.Client) LoadResult {
	sets, err := c.DaySets(ctx, r.Key.ExerciseID, r.Key.Day)
	return LoadResult{Request: r, Sets: sets, Err: err}
}

// GraphResult carries raw history, or Server when the backend only offers
// its computed series for Request.Metric.
type GraphResult struct {
	Request GraphRequest
	History []model.WorkoutSet
	Server  *model.Graph
	Err     error
}

// Do prefers raw history. A backend without the history route answers 404,
// so the computed graph is asked for instead; an unknown exercise fails both.
func (r GraphRequest) Do(ctx context.Context, c api.Client) GraphResult {
	history, err := c.ExerciseHistory(ctx, r.ExerciseID, model.HistoryQuery{})
	if !errors.Is(err, api.ErrNotFound) {
		return GraphResult{Request: r, History: history, Err: err}
	}
	g, gerr := c.Graph(ctx, r.ExerciseID, r.Metric)
	if gerr != nil {
		return GraphResult{Request: r, Err: gerr}
	}
	return GraphResult{Request: r, Server: &g}
}

// ServerOnly reports whether switching metric needs another request.
func (g GraphResult) ServerOnly() bool { return g.Server != nil }

// Points computes the chart for a graph result. The raw history is kept by
// callers so switching metric does not need another request. A server
// series only answers for the metric it was computed for.
func (g GraphResult) Points(m model.Metric, maxPoints int) []model.GraphPoint {
	if g.Server != nil {
		if g.Server.Metric != m {
			return nil
		}
		return metric.Downsample(g.Server.Points, m, maxPoints)
	}
	return metric.Build(metric.FromSets(g.History, time.Local), m, maxPoints)
}
