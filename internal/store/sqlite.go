package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"
)

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas are per connection; a single connection keeps them in force.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return nil, multierr.Append(fmt.Errorf("%s: %w", p, err), db.Close())
		}
	}
	if err := migrate(ctx, db); err != nil {
		return nil, multierr.Append(fmt.Errorf("migrate %s: %w", path, err), db.Close())
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS exercises (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE,
			description TEXT,
			archived INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS plans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			day_of_week INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS plan_exercises (
			plan_id INTEGER NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
			exercise_id INTEGER NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			target_sets INTEGER,
			PRIMARY KEY (plan_id, exercise_id)
		);`,
		`CREATE TABLE IF NOT EXISTS workout_sets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			exercise_id INTEGER NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
			day TEXT NOT NULL,
			set_number INTEGER NOT NULL,
			weight REAL NOT NULL,
			reps INTEGER NOT NULL,
			completed_at_unixms INTEGER NOT NULL,
			UNIQUE (exercise_id, day, set_number)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sets_exercise_day ON workout_sets(exercise_id, day);`,
		`CREATE INDEX IF NOT EXISTS idx_sets_day ON workout_sets(day);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func toUnixMS(t time.Time) int64 { return t.UnixMilli() }

func fromUnixMS(ms int64, loc *time.Location) time.Time {
	return time.UnixMilli(ms).In(loc)
}

func closeDB(db *sql.DB) error {
	var err error
	if _, perr := db.Exec("PRAGMA optimize;"); perr != nil {
		log.Debugf("store: optimize before close: %s", perr)
		err = multierr.Append(err, perr)
	}
	return multierr.Append(err, db.Close())
}
