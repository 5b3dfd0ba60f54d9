// Package metric reduces raw set history to a bounded chart series.
//
// Everything here is a pure function of its input. Observations are grouped
// by the calendar day of their completion time, one value per day.
package metric

import (
	"sort"
	"time"

	"github.com/kottz/ekman/internal/model"
)

// MaxPoints is the chart budget used by the TUI and CLI.
const MaxPoints = 50

type Observation struct {
	Day    model.Day
	Weight float64
	Reps   int
}

// FromSets groups persisted sets by the day of their completion time in loc.
func FromSets(sets []model.WorkoutSet, loc *time.Location) []Observation {
	if loc == nil {
		loc = time.Local
	}
	out := make([]Observation, 0, len(sets))
	for _, s := range sets {
		day := s.Day
		if !s.CompletedAt.IsZero() {
			day = model.DayOf(s.CompletedAt.In(loc))
		}
		out = append(out, Observation{Day: day, Weight: s.Weight, Reps: s.Reps})
	}
	return out
}

// EstimateOneRM is the Epley estimate. Singles (and zero-rep entries) are
// their own max.
func EstimateOneRM(weight float64, reps int) float64 {
	if reps <= 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}

// DayValue reduces one day's observations to a single value.
func DayValue(m model.Metric, obs []Observation) float64 {
	var v float64
	for _, o := range obs {
		switch m {
		case model.MetricMaxWeight:
			v = max(v, o.Weight)
		case model.MetricSessionTotalVolume:
			v += o.Weight * float64(o.Reps)
		case model.MetricBestSetVolume:
			v = max(v, o.Weight*float64(o.Reps))
		case model.MetricEstimated1RM:
			v = max(v, EstimateOneRM(o.Weight, o.Reps))
		}
	}
	return v
}

// Series groups observations per day and returns one point per day in
// ascending date order.
func Series(obs []Observation, m model.Metric) []model.GraphPoint {
	if len(obs) == 0 {
		return nil
	}
	byDay := map[model.Day][]Observation{}
	for _, o := range obs {
		byDay[o.Day] = append(byDay[o.Day], o)
	}
	days := make([]model.Day, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	points := make([]model.GraphPoint, 0, len(days))
	for _, d := range days {
		points = append(points, model.GraphPoint{Date: d.String(), Value: DayValue(m, byDay[d])})
	}
	return points
}

// Downsample collapses a sorted series into at most maxPoints buckets of
// ceil(len/maxPoints) consecutive points. A bucket is dated by its first
// point. Peak metrics keep the bucket max; volume metrics keep the sum.
// A series that already fits is returned unchanged.
func Downsample(points []model.GraphPoint, m model.Metric, maxPoints int) []model.GraphPoint {
	if maxPoints <= 0 || len(points) == 0 {
		return nil
	}
	if len(points) <= maxPoints {
		return points
	}

	size := (len(points) + maxPoints - 1) / maxPoints
	out := make([]model.GraphPoint, 0, maxPoints)
	for start := 0; start < len(points); start += size {
		end := min(start+size, len(points))
		bucket := points[start:end]

		var v float64
		for _, p := range bucket {
			if m.PeakStyle() {
				v = max(v, p.Value)
			} else {
				v += p.Value
			}
		}
		out = append(out, model.GraphPoint{Date: bucket[0].Date, Value: v})
	}
	return out
}

// Build runs the whole pipeline: group, reduce, sort, downsample.
func Build(obs []Observation, m model.Metric, maxPoints int) []model.GraphPoint {
	if maxPoints <= 0 {
		return nil
	}
	return Downsample(Series(obs, m), m, maxPoints)
}

// Graph builds the chart for an exercise from its history.
func Graph(exerciseID int64, history []model.WorkoutSet, m model.Metric, maxPoints int) model.Graph {
	return model.Graph{
		ExerciseID: exerciseID,
		Metric:     m,
		Points:     Build(FromSets(history, time.Local), m, maxPoints),
	}
}
