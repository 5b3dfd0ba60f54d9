// Package store is the local backend: the same operations the server
// offers, kept in a SQLite file next to the config.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os/user"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/metric"
	"github.com/kottz/ekman/internal/model"
)

type Local struct {
	db  *sql.DB
	loc *time.Location
}

var _ api.Client = (*Local)(nil)

func Open(ctx context.Context, path string) (*Local, error) {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	log.Debugf("store: opened %s", path)
	return &Local{db: db, loc: time.Local}, nil
}

func (s *Local) Close() error {
	return closeDB(s.db)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", api.ErrInvalid, fmt.Sprintf(format, args...))
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", api.ErrNotFound, fmt.Sprintf(format, args...))
}

func localUser() model.User {
	name := "local"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	return model.User{ID: 1, Username: name}
}

func (s *Local) CheckSession(ctx context.Context) (model.User, error) {
	return localUser(), nil
}

func (s *Local) Login(ctx context.Context, in model.LoginInput) (model.Session, error) {
	return model.Session{User: localUser()}, nil
}

func (s *Local) Logout(ctx context.Context) error { return nil }

// Register only checks the input. The local file has a single user.
func (s *Local) Register(ctx context.Context, in model.RegisterInput) (model.Session, error) {
	if strings.TrimSpace(in.Username) == "" {
		return model.Session{}, invalid("username required")
	}
	if in.Password == "" {
		return model.Session{}, invalid("password required")
	}
	return model.Session{User: localUser()}, nil
}

func (s *Local) exerciseExists(ctx context.Context, id int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM exercises WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("exercise %d", id)
	}
	return err
}

func (s *Local) Exercises(ctx context.Context) ([]model.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, archived FROM exercises WHERE archived = 0 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Exercise
	for rows.Next() {
		var ex model.Exercise
		var desc sql.NullString
		var archived int
		if err := rows.Scan(&ex.ID, &ex.Name, &desc, &archived); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			ex.Description = &d
		}
		ex.Archived = archived != 0
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (s *Local) CreateExercise(ctx context.Context, name string) (model.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Exercise{}, invalid("exercise name is empty")
	}
	var existing int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM exercises WHERE name = ?`, name).Scan(&existing)
	if err == nil {
		return model.Exercise{}, fmt.Errorf("%w: exercise %q already exists", api.ErrConflict, name)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Exercise{}, err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO exercises (name) VALUES (?)`, name)
	if err != nil {
		return model.Exercise{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Exercise{}, err
	}
	return model.Exercise{ID: id, Name: name}, nil
}

func (s *Local) exercise(ctx context.Context, id int64) (model.Exercise, error) {
	var ex model.Exercise
	var desc sql.NullString
	var archived int
	err := s.db.QueryRowContext(ctx, `SELECT id, name, description, archived FROM exercises WHERE id = ?`, id).
		Scan(&ex.ID, &ex.Name, &desc, &archived)
	if errors.Is(err, sql.ErrNoRows) {
		return ex, notFound("exercise %d", id)
	}
	if err != nil {
		return ex, err
	}
	if desc.Valid {
		d := desc.String
		ex.Description = &d
	}
	ex.Archived = archived != 0
	return ex, nil
}

func (s *Local) UpdateExercise(ctx context.Context, id int64, in model.ExerciseUpdate) (model.Exercise, error) {
	if in.Empty() {
		return model.Exercise{}, invalid("no fields to update")
	}
	if _, err := s.exercise(ctx, id); err != nil {
		return model.Exercise{}, err
	}

	var sets []string
	var args []any
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.Exercise{}, invalid("exercise name is empty")
		}
		var other int64
		err := s.db.QueryRowContext(ctx, `SELECT id FROM exercises WHERE name = ? AND id != ?`, name, id).Scan(&other)
		if err == nil {
			return model.Exercise{}, fmt.Errorf("%w: exercise %q already exists", api.ErrConflict, name)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return model.Exercise{}, err
		}
		sets, args = append(sets, "name = ?"), append(args, name)
	}
	if in.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *in.Description)
	}
	if in.Archived != nil {
		archived := 0
		if *in.Archived {
			archived = 1
		}
		sets, args = append(sets, "archived = ?"), append(args, archived)
	}
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx, `UPDATE exercises SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return model.Exercise{}, err
	}
	return s.exercise(ctx, id)
}

// ArchiveExercise hides the exercise from the catalog and from plans. Its
// sets are kept.
func (s *Local) ArchiveExercise(ctx context.Context, id int64) (model.Exercise, error) {
	archived := true
	return s.UpdateExercise(ctx, id, model.ExerciseUpdate{Archived: &archived})
}

func (s *Local) CreatePlan(ctx context.Context, name string, weekday *int) (model.Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Plan{}, invalid("plan name is empty")
	}
	if weekday != nil && (*weekday < 0 || *weekday > 6) {
		return model.Plan{}, invalid("day_of_week must be 0 (Monday) to 6 (Sunday), got %d", *weekday)
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO plans (name, day_of_week) VALUES (?, ?)`, name, weekday)
	if err != nil {
		return model.Plan{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Plan{}, err
	}
	return model.Plan{ID: id, Name: name, Weekday: weekday, Exercises: []model.PlanExercise{}}, nil
}

func (s *Local) AddPlanExercise(ctx context.Context, planID, exerciseID int64, targetSets *int) error {
	if targetSets != nil && *targetSets < 1 {
		return invalid("target_sets must be at least 1")
	}
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM plans WHERE id = ?`, planID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("plan %d", planID)
		}
		return err
	}
	if err := s.exerciseExists(ctx, exerciseID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plan_exercises (plan_id, exercise_id, position, target_sets)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM plan_exercises WHERE plan_id = ?), ?)
		ON CONFLICT (plan_id, exercise_id) DO UPDATE SET target_sets = excluded.target_sets`,
		planID, exerciseID, planID, targetSets)
	return err
}

func (s *Local) RemovePlanExercise(ctx context.Context, planID, exerciseID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plan_exercises WHERE plan_id = ? AND exercise_id = ?`, planID, exerciseID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("exercise %d is not in plan %d", exerciseID, planID)
	}
	return nil
}

// DailyPlans lists every plan with its exercises and, per exercise, the
// sets of the most recent day it was trained.
func (s *Local) DailyPlans(ctx context.Context) ([]model.Plan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, day_of_week FROM plans ORDER BY id`)
	if err != nil {
		return nil, err
	}
	var plans []model.Plan
	for rows.Next() {
		var p model.Plan
		var wd sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &wd); err != nil {
			rows.Close()
			return nil, err
		}
		if wd.Valid {
			v := int(wd.Int64)
			p.Weekday = &v
		}
		plans = append(plans, p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range plans {
		exs, err := s.planExercises(ctx, plans[i].ID)
		if err != nil {
			return nil, err
		}
		plans[i].Exercises = exs
	}
	return plans, nil
}

func (s *Local) planExercises(ctx context.Context, planID int64) ([]model.PlanExercise, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pe.exercise_id, e.name, pe.target_sets
		FROM plan_exercises pe JOIN exercises e ON e.id = pe.exercise_id
		WHERE pe.plan_id = ? AND e.archived = 0
		ORDER BY pe.position`, planID)
	if err != nil {
		return nil, err
	}
	var out []model.PlanExercise
	for rows.Next() {
		var pe model.PlanExercise
		var target sql.NullInt64
		if err := rows.Scan(&pe.ExerciseID, &pe.Name, &target); err != nil {
			rows.Close()
			return nil, err
		}
		if target.Valid {
			v := int(target.Int64)
			pe.TargetSets = &v
		}
		out = append(out, pe)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	for i := range out {
		last, err := s.lastSession(ctx, out[i].ExerciseID)
		if err != nil {
			return nil, err
		}
		out[i].LastSession = last
	}
	return out, nil
}

func (s *Local) lastSession(ctx context.Context, exerciseID int64) (*model.LastSession, error) {
	var dayStr sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT MAX(day) FROM workout_sets WHERE exercise_id = ?`, exerciseID).Scan(&dayStr)
	if err != nil {
		return nil, err
	}
	if !dayStr.Valid {
		return nil, nil
	}
	day, err := model.ParseDay(dayStr.String)
	if err != nil {
		return nil, err
	}
	sets, err := s.DaySets(ctx, exerciseID, day)
	if err != nil {
		return nil, err
	}
	ls := &model.LastSession{Day: day}
	for _, set := range sets {
		ls.Sets = append(ls.Sets, model.CompactSet{Weight: set.Weight, Reps: set.Reps})
	}
	return ls, nil
}

func (s *Local) scanSets(rows *sql.Rows) ([]model.WorkoutSet, error) {
	defer rows.Close()
	var out []model.WorkoutSet
	for rows.Next() {
		var ws model.WorkoutSet
		var dayStr string
		var ms int64
		if err := rows.Scan(&ws.ID, &ws.ExerciseID, &dayStr, &ws.SetNumber, &ws.Weight, &ws.Reps, &ms); err != nil {
			return nil, err
		}
		day, err := model.ParseDay(dayStr)
		if err != nil {
			return nil, err
		}
		ws.Day = day
		ws.CompletedAt = fromUnixMS(ms, s.loc)
		out = append(out, ws)
	}
	return out, rows.Err()
}

const setColumns = `id, exercise_id, day, set_number, weight, reps, completed_at_unixms`

func (s *Local) DaySets(ctx context.Context, exerciseID int64, day model.Day) ([]model.WorkoutSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+setColumns+` FROM workout_sets WHERE exercise_id = ? AND day = ? ORDER BY set_number`,
		exerciseID, day.String())
	if err != nil {
		return nil, err
	}
	return s.scanSets(rows)
}

// clampToDay keeps the clock time of t but moves it onto day.
func clampToDay(t time.Time, day model.Day, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(day.Year, day.Month, day.Day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

func (s *Local) UpsertSet(ctx context.Context, exerciseID int64, day model.Day, setNumber int, in model.SetInput) (model.WorkoutSet, error) {
	switch {
	case setNumber < 1:
		return model.WorkoutSet{}, invalid("set_number must be at least 1")
	case in.Reps < 1:
		return model.WorkoutSet{}, invalid("reps must be at least 1")
	case in.Weight < 0:
		return model.WorkoutSet{}, invalid("weight must not be negative")
	}
	if err := s.exerciseExists(ctx, exerciseID); err != nil {
		return model.WorkoutSet{}, err
	}

	completed := day.Noon(s.loc)
	if in.CompletedAt != nil {
		completed = clampToDay(*in.CompletedAt, day, s.loc)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workout_sets (exercise_id, day, set_number, weight, reps, completed_at_unixms)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (exercise_id, day, set_number) DO UPDATE SET
			weight = excluded.weight,
			reps = excluded.reps,
			completed_at_unixms = excluded.completed_at_unixms`,
		exerciseID, day.String(), setNumber, in.Weight, in.Reps, toUnixMS(completed))
	if err != nil {
		return model.WorkoutSet{}, fmt.Errorf("upsert set: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+setColumns+` FROM workout_sets WHERE exercise_id = ? AND day = ? AND set_number = ?`,
		exerciseID, day.String(), setNumber)
	if err != nil {
		return model.WorkoutSet{}, err
	}
	sets, err := s.scanSets(rows)
	if err != nil {
		return model.WorkoutSet{}, err
	}
	if len(sets) != 1 {
		return model.WorkoutSet{}, fmt.Errorf("upsert set: read back %d rows", len(sets))
	}
	return sets[0], nil
}

// DeleteSet removes one set and shifts later sets of the same day down so
// numbering stays dense.
func (s *Local) DeleteSet(ctx context.Context, exerciseID int64, day model.Day, setNumber int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM workout_sets WHERE exercise_id = ? AND day = ? AND set_number = ?`,
		exerciseID, day.String(), setNumber)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("set %d of exercise %d on %s", setNumber, exerciseID, day)
	}

	// Two passes through negative numbers so the unique key never collides
	// mid-update.
	if _, err := tx.ExecContext(ctx,
		`UPDATE workout_sets SET set_number = -(set_number - 1) WHERE exercise_id = ? AND day = ? AND set_number > ?`,
		exerciseID, day.String(), setNumber); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE workout_sets SET set_number = -set_number WHERE exercise_id = ? AND day = ? AND set_number < 0`,
		exerciseID, day.String()); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Local) ExerciseHistory(ctx context.Context, exerciseID int64, q model.HistoryQuery) ([]model.WorkoutSet, error) {
	query := `SELECT ` + setColumns + ` FROM workout_sets WHERE exercise_id = ?`
	args := []any{exerciseID}
	if q.Start != nil {
		query += ` AND day >= ?`
		args = append(args, q.Start.String())
	}
	if q.End != nil {
		query += ` AND day <= ?`
		args = append(args, q.End.String())
	}
	query += ` ORDER BY completed_at_unixms, set_number`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return s.scanSets(rows)
}

func (s *Local) Graph(ctx context.Context, exerciseID int64, m model.Metric) (model.Graph, error) {
	if err := s.exerciseExists(ctx, exerciseID); err != nil {
		return model.Graph{}, err
	}
	history, err := s.ExerciseHistory(ctx, exerciseID, model.HistoryQuery{})
	if err != nil {
		return model.Graph{}, err
	}
	g := model.Graph{
		ExerciseID: exerciseID,
		Metric:     m,
		Points:     metric.Build(metric.FromSets(history, s.loc), m, metric.MaxPoints),
	}
	if g.Points == nil {
		g.Points = []model.GraphPoint{}
	}
	return g, nil
}

// Activity returns one entry per day in [Start, End], zero days included.
func (s *Local) Activity(ctx context.Context, q model.ActivityQuery) ([]model.ActivityDay, error) {
	if q.End.Before(q.Start) {
		return nil, invalid("activity range ends before it starts")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, COUNT(*) FROM workout_sets WHERE day >= ? AND day <= ? GROUP BY day`,
		q.Start.String(), q.End.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[model.Day]int{}
	for rows.Next() {
		var dayStr string
		var n int
		if err := rows.Scan(&dayStr, &n); err != nil {
			return nil, err
		}
		d, err := model.ParseDay(dayStr)
		if err != nil {
			return nil, err
		}
		counts[d] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []model.ActivityDay
	for d := q.Start; !q.End.Before(d); d = d.AddDays(1) {
		out = append(out, model.ActivityDay{Day: d, CompletedSets: counts[d]})
	}
	return out, nil
}
