package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/model"
)

func newActivityCmd(app *App) *cobra.Command {
	var days int
	var end string

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Completed sets per day, zero days included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			last, err := parseDay(end)
			if err != nil {
				return writeErr(cmd, err)
			}
			if days <= 0 {
				days = app.cfg.ActivityDays
			}
			q := model.ActivityQuery{Start: last.AddDays(-(days - 1)), End: last}
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				out, err := c.Activity(ctx, q)
				if err != nil {
					return err
				}
				if out == nil {
					out = []model.ActivityDay{}
				}
				return writeOut(cmd, app, wrap(activityView(out)))
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Number of days ending at --end (default: activity_days from config)")
	cmd.Flags().StringVar(&end, "end", "", "Last day (default today)")

	return cmd
}
