package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/metric"
	"github.com/kottz/ekman/internal/model"
)

func newGraphCmd(app *App) *cobra.Command {
	var exercise string
	var metricName string
	var points int
	var start, end string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Progress of one exercise as a per-day series",
		Long: `Reduces the exercise history to one value per training day and thins the
series to at most --points points. Metrics: max_weight, session_total_volume,
best_set_volume, est_1rm (Epley).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := app.cfg.Metric()
			if metricName != "" {
				parsed, err := model.ParseMetric(metricName)
				if err != nil {
					return writeErr(cmd, errUsage("%s", err))
				}
				m = parsed
			}
			if points <= 0 {
				points = app.cfg.GraphPoints
			}
			var q model.HistoryQuery
			if start != "" {
				d, err := parseDay(start)
				if err != nil {
					return writeErr(cmd, err)
				}
				q.Start = &d
			}
			if end != "" {
				d, err := parseDay(end)
				if err != nil {
					return writeErr(cmd, err)
				}
				q.End = &d
			}
			return withClient(cmd, app, func(ctx context.Context, c api.Client) error {
				ex, err := resolveExercise(ctx, c, exercise)
				if err != nil {
					return err
				}
				var g model.Graph
				history, err := c.ExerciseHistory(ctx, ex.ID, q)
				switch {
				case errors.Is(err, api.ErrNotFound):
					// Servers without the history route only serve computed series.
					if g, err = c.Graph(ctx, ex.ID, m); err != nil {
						return err
					}
					g.Points = metric.Downsample(pointsWithin(g.Points, q), m, points)
				case err != nil:
					return err
				default:
					g = metric.Graph(ex.ID, history, m, points)
				}
				if g.Points == nil {
					g.Points = []model.GraphPoint{}
				}
				return writeOut(cmd, app, wrap(graphView{Graph: g, Exercise: ex.Name}))
			})
		},
	}

	cmd.Flags().StringVar(&exercise, "exercise", "", "Exercise id or name")
	cmd.Flags().StringVar(&metricName, "metric", "", "Metric (default: graph_metric from config)")
	cmd.Flags().IntVar(&points, "points", 0, "Maximum number of points (default: graph_points from config)")
	cmd.Flags().StringVar(&start, "start", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day to include (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("exercise")

	return cmd
}

func pointsWithin(points []model.GraphPoint, q model.HistoryQuery) []model.GraphPoint {
	out := make([]model.GraphPoint, 0, len(points))
	for _, p := range points {
		if q.Start != nil && p.Date < q.Start.String() {
			continue
		}
		if q.End != nil && p.Date > q.End.String() {
			continue
		}
		out = append(out, p)
	}
	return out
}
