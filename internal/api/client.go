// Package api defines the persistence collaborator the TUI and CLI talk to
// and an HTTP implementation of it.
package api

import (
	"context"

	"github.com/kottz/ekman/internal/model"
)

//go:generate mockgen -source=client.go -destination=mock_client.go -package=api

// Client is implemented by the HTTP client and by the local SQLite store.
type Client interface {
	CheckSession(ctx context.Context) (model.User, error)
	Login(ctx context.Context, in model.LoginInput) (model.Session, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, in model.RegisterInput) (model.Session, error)

	DailyPlans(ctx context.Context) ([]model.Plan, error)
	CreatePlan(ctx context.Context, name string, weekday *int) (model.Plan, error)
	AddPlanExercise(ctx context.Context, planID, exerciseID int64, targetSets *int) error
	// RemovePlanExercise returns ErrNotFound when the exercise is not in the plan.
	RemovePlanExercise(ctx context.Context, planID, exerciseID int64) error

	Exercises(ctx context.Context) ([]model.Exercise, error)
	CreateExercise(ctx context.Context, name string) (model.Exercise, error)
	UpdateExercise(ctx context.Context, id int64, in model.ExerciseUpdate) (model.Exercise, error)
	ArchiveExercise(ctx context.Context, id int64) (model.Exercise, error)

	// DaySets lists the sets of one exercise on one day ordered by set number.
	DaySets(ctx context.Context, exerciseID int64, day model.Day) ([]model.WorkoutSet, error)
	// UpsertSet is idempotent by (exerciseID, day, setNumber).
	UpsertSet(ctx context.Context, exerciseID int64, day model.Day, setNumber int, in model.SetInput) (model.WorkoutSet, error)
	// DeleteSet returns ErrNotFound when there was nothing to delete.
	DeleteSet(ctx context.Context, exerciseID int64, day model.Day, setNumber int) error

	ExerciseHistory(ctx context.Context, exerciseID int64, q model.HistoryQuery) ([]model.WorkoutSet, error)
	// Graph is the chart as the backend computes it, for servers that do not
	// expose raw history.
	Graph(ctx context.Context, exerciseID int64, m model.Metric) (model.Graph, error)
	Activity(ctx context.Context, q model.ActivityQuery) ([]model.ActivityDay, error)

	Close() error
}
