package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/model"
)

func newExercisesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exercises",
		Aliases: []string{"exercise"},
		Short:   "Exercise catalog (list with no subcommand)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				list, err := c.Exercises(ctx)
				if err != nil {
					return err
				}
				if list == nil {
					list = []model.Exercise{}
				}
				return writeOut(cmd, app, wrap(exerciseList(list)))
			})
		},
	}

	cmd.AddCommand(newExercisesAddCmd(app))
	cmd.AddCommand(newExercisesRenameCmd(app))
	cmd.AddCommand(newExercisesArchiveCmd(app))

	return cmd
}

func newExercisesAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an exercise to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				ex, err := c.CreateExercise(ctx, name)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, wrap(exerciseView{ex}))
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Exercise name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newExercisesRenameCmd(app *App) *cobra.Command {
	var exercise, name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename an exercise; its sets and plan entries follow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return writeErr(cmd, errUsage("--name must not be empty"))
			}
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				ex, err := resolveExercise(ctx, c, exercise)
				if err != nil {
					return err
				}
				ex, err = c.UpdateExercise(ctx, ex.ID, model.ExerciseUpdate{Name: &name})
				if err != nil {
					return err
				}
				return writeOut(cmd, app, wrap(exerciseView{ex}))
			})
		},
	}

	cmd.Flags().StringVar(&exercise, "exercise", "", "Exercise id or name")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("exercise")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newExercisesArchiveCmd(app *App) *cobra.Command {
	var exercise string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Hide an exercise from the catalog and plans (logged sets are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				ex, err := resolveExercise(ctx, c, exercise)
				if err != nil {
					return err
				}
				ex, err = c.ArchiveExercise(ctx, ex.ID)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, wrap(exerciseView{ex}))
			})
		},
	}

	cmd.Flags().StringVar(&exercise, "exercise", "", "Exercise id or name")
	_ = cmd.MarkFlagRequired("exercise")

	return cmd
}

// resolveExercise finds an exercise by id or, failing that, by
// case-insensitive name.
func resolveExercise(ctx context.Context, c api.Client, ref string) (model.Exercise, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Exercise{}, errUsage("--exercise is required")
	}
	list, err := c.Exercises(ctx)
	if err != nil {
		return model.Exercise{}, err
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, e := range list {
			if e.ID == id {
				return e, nil
			}
		}
	}
	for _, e := range list {
		if strings.EqualFold(e.Name, ref) {
			return e, nil
		}
	}
	return model.Exercise{}, errNotFound("exercise", ref)
}
