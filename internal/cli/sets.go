package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/model"
)

// parseDay accepts YYYY-MM-DD, "today" and "yesterday". Empty means today.
func parseDay(s string) (model.Day, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return model.Today(), nil
	case "yesterday":
		return model.Today().AddDays(-1), nil
	}
	d, err := model.ParseDay(s)
	if err != nil {
		return model.Day{}, errUsage("invalid day %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

func newSetsCmd(app *App) *cobra.Command {
	var exercise string
	var day string

	cmd := &cobra.Command{
		Use:   "sets",
		Short: "Sets of one exercise on one day (list with no subcommand)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDay(day)
			if err != nil {
				return writeErr(cmd, err)
			}
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				ex, err := resolveExercise(ctx, c, exercise)
				if err != nil {
					return err
				}
				sets, err := c.DaySets(ctx, ex.ID, d)
				if err != nil {
					return err
				}
				if sets == nil {
					sets = []model.WorkoutSet{}
				}
				return writeOut(cmd, app, wrap(daySetsView{model.DaySets{Day: d, ExerciseID: ex.ID, Sets: sets}}))
			})
		},
	}

	cmd.Flags().StringVar(&exercise, "exercise", "", "Exercise id or name")
	cmd.Flags().StringVar(&day, "day", "", "Day (YYYY-MM-DD, today, yesterday; default today)")
	_ = cmd.MarkFlagRequired("exercise")

	cmd.AddCommand(newSetsLogCmd(app))
	cmd.AddCommand(newSetsDeleteCmd(app))

	return cmd
}

func newSetsLogCmd(app *App) *cobra.Command {
	var exercise string
	var day string
	var number int
	var weight float64
	var reps int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record one set (replaces the set with the same number)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDay(day)
			if err != nil {
				return writeErr(cmd, err)
			}
			if reps < 1 {
				return writeErr(cmd, errUsage("--reps must be at least 1"))
			}
			if weight < 0 {
				return writeErr(cmd, errUsage("--weight must not be negative"))
			}
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				ex, err := resolveExercise(ctx, c, exercise)
				if err != nil {
					return err
				}
				n := number
				if n <= 0 {
					existing, err := c.DaySets(ctx, ex.ID, d)
					if err != nil {
						return err
					}
					n = len(existing) + 1
				}
				now := time.Now()
				saved, err := c.UpsertSet(ctx, ex.ID, d, n, model.SetInput{Weight: weight, Reps: reps, CompletedAt: &now})
				if err != nil {
					return err
				}
				return writeOut(cmd, app, wrap(setView{saved}))
			})
		},
	}

	cmd.Flags().StringVar(&exercise, "exercise", "", "Exercise id or name")
	cmd.Flags().StringVar(&day, "day", "", "Day (YYYY-MM-DD, today, yesterday; default today)")
	cmd.Flags().IntVar(&number, "set", 0, "Set number (default: append after the last set)")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight in kg")
	cmd.Flags().IntVar(&reps, "reps", 0, "Repetitions")
	_ = cmd.MarkFlagRequired("exercise")
	_ = cmd.MarkFlagRequired("reps")

	return cmd
}

func newSetsDeleteCmd(app *App) *cobra.Command {
	var exercise string
	var day string
	var number int

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one set; later sets of the day are renumbered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDay(day)
			if err != nil {
				return writeErr(cmd, err)
			}
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				ex, err := resolveExercise(ctx, c, exercise)
				if err != nil {
					return err
				}
				if err := c.DeleteSet(ctx, ex.ID, d, number); err != nil {
					return err
				}
				sets, err := c.DaySets(ctx, ex.ID, d)
				if err != nil {
					return err
				}
				if sets == nil {
					sets = []model.WorkoutSet{}
				}
				return writeOut(cmd, app, wrap(daySetsView{model.DaySets{Day: d, ExerciseID: ex.ID, Sets: sets}}))
			})
		},
	}

	cmd.Flags().StringVar(&exercise, "exercise", "", "Exercise id or name")
	cmd.Flags().StringVar(&day, "day", "", "Day (YYYY-MM-DD, today, yesterday; default today)")
	cmd.Flags().IntVar(&number, "set", 0, "Set number")
	_ = cmd.MarkFlagRequired("exercise")
	_ = cmd.MarkFlagRequired("set")

	return cmd
}
