package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/model"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plan",
		Aliases: []string{"plans"},
		Short:   "Daily plans (list with no subcommand)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				plans, err := c.DailyPlans(ctx)
				if err != nil {
					return err
				}
				if plans == nil {
					plans = []model.Plan{}
				}
				return writeOut(cmd, app, wrap(planList(plans)))
			})
		},
	}

	cmd.AddCommand(newPlanCreateCmd(app))
	cmd.AddCommand(newPlanAddCmd(app))
	cmd.AddCommand(newPlanRemoveCmd(app))

	return cmd
}

func newPlanCreateCmd(app *App) *cobra.Command {
	var name string
	var weekday string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a plan, optionally tied to a weekday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := parseWeekday(weekday)
			if err != nil {
				return writeErr(cmd, err)
			}
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				p, err := c.CreatePlan(ctx, name, wd)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, wrap(planView{p}))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Plan name")
	cmd.Flags().StringVar(&weekday, "weekday", "", "Weekday (mon..sun or 0=Monday..6=Sunday); empty for no fixed day")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlanAddCmd(app *App) *cobra.Command {
	var planID int64
	var exercise string
	var targetSets int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an exercise to a plan (or change its target sets)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var target *int
			if cmd.Flags().Changed("target-sets") {
				target = &targetSets
			}
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				ex, err := resolveExercise(ctx, c, exercise)
				if err != nil {
					return err
				}
				if err := c.AddPlanExercise(ctx, planID, ex.ID, target); err != nil {
					return err
				}
				return writePlan(ctx, cmd, app, c, planID)
			})
		},
	}

	cmd.Flags().Int64Var(&planID, "plan", 0, "Plan id")
	cmd.Flags().StringVar(&exercise, "exercise", "", "Exercise id or name")
	cmd.Flags().IntVar(&targetSets, "target-sets", 0, "Number of sets to aim for")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("exercise")

	return cmd
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	var planID int64
	var exercise string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Take an exercise out of a plan (logged sets are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				ex, err := resolveExercise(ctx, c, exercise)
				if err != nil {
					return err
				}
				if err := c.RemovePlanExercise(ctx, planID, ex.ID); err != nil {
					return err
				}
				return writePlan(ctx, cmd, app, c, planID)
			})
		},
	}

	cmd.Flags().Int64Var(&planID, "plan", 0, "Plan id")
	cmd.Flags().StringVar(&exercise, "exercise", "", "Exercise id or name")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("exercise")

	return cmd
}

// writePlan prints the plan as it is after a change.
func writePlan(ctx context.Context, cmd *cobra.Command, app *App, c api.Client, planID int64) error {
	plans, err := c.DailyPlans(ctx)
	if err != nil {
		return err
	}
	for _, p := range plans {
		if p.ID == planID {
			return writeOut(cmd, app, wrap(planView{p}))
		}
	}
	return errNotFound("plan", strconv.FormatInt(planID, 10))
}

// parseWeekday accepts 0 (Monday) to 6 (Sunday) or a day name.
func parseWeekday(s string) (*int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return nil, errUsage("weekday must be 0 (Monday) to 6 (Sunday), got %d", n)
		}
		return &n, nil
	}
	for i := 0; i < 7; i++ {
		if strings.HasPrefix(s, strings.ToLower(model.WeekdayName(i))) {
			return &i, nil
		}
	}
	return nil, errUsage("unknown weekday %q", s)
}
