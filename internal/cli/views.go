package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kottz/ekman/internal/config"
	"github.com/kottz/ekman/internal/format"
	"github.com/kottz/ekman/internal/model"
)

// envelope is the {"data": ...} wrapper every command prints. Text output
// uses the payload's own form.
type envelope struct {
	Data any `json:"data"`
}

func wrap(v any) envelope { return envelope{Data: v} }

func (e envelope) Text() string {
	if t, ok := e.Data.(format.Texter); ok {
		return t.Text()
	}
	b, err := json.MarshalIndent(e.Data, "", "  ")
	if err != nil {
		return fmt.Sprint(e.Data)
	}
	return string(b)
}

func kg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type message struct {
	Message string `json:"message"`
}

func (m message) Text() string { return m.Message }

type sessionView struct {
	model.Session
}

func (s sessionView) Text() string {
	return "Signed in as " + s.User.Username
}

type userView struct {
	model.User
}

func (u userView) Text() string { return u.Username }

type planList []model.Plan

func (l planList) Text() string {
	if len(l) == 0 {
		return "No plans (run: ekman plan create --name ...)"
	}
	var sb strings.Builder
	for i, p := range l {
		if i > 0 {
			sb.WriteString("\n")
		}
		day := "any"
		if p.Weekday != nil {
			day = model.WeekdayName(*p.Weekday)
		}
		fmt.Fprintf(&sb, "#%d %s (%s)\n", p.ID, p.Name, day)
		for j, pe := range p.Exercises {
			fmt.Fprintf(&sb, "  %d. %s [#%d]", j+1, pe.Name, pe.ExerciseID)
			if pe.TargetSets != nil {
				fmt.Fprintf(&sb, "  %d sets", *pe.TargetSets)
			}
			if last := pe.LastSession; last != nil && len(last.Sets) > 0 {
				parts := make([]string, len(last.Sets))
				for k, s := range last.Sets {
					parts[k] = kg(s.Weight) + "×" + strconv.Itoa(s.Reps)
				}
				fmt.Fprintf(&sb, "  last %s: %s", last.Day, strings.Join(parts, " "))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

type planView struct {
	model.Plan
}

func (p planView) Text() string {
	return planList{p.Plan}.Text()
}

type exerciseList []model.Exercise

func (l exerciseList) Text() string {
	if len(l) == 0 {
		return "No exercises (run: ekman exercises add --name ...)"
	}
	var sb strings.Builder
	for _, e := range l {
		fmt.Fprintf(&sb, "#%d %s", e.ID, e.Name)
		if e.Archived {
			sb.WriteString(" (archived)")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

type exerciseView struct {
	model.Exercise
}

func (e exerciseView) Text() string {
	return exerciseList{e.Exercise}.Text()
}

type daySetsView struct {
	model.DaySets
}

func (d daySetsView) Text() string {
	if len(d.Sets) == 0 {
		return fmt.Sprintf("%s: no sets", d.Day)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", d.Day, model.WeekdayName(d.Day.Weekday()))
	for _, s := range d.Sets {
		sb.WriteString(setLine(s))
		sb.WriteString("\n")
	}
	return sb.String()
}

func setLine(s model.WorkoutSet) string {
	line := fmt.Sprintf("%3d  %6s kg × %d", s.SetNumber, kg(s.Weight), s.Reps)
	if !s.CompletedAt.IsZero() {
		line += "  " + s.CompletedAt.Local().Format("15:04")
	}
	return line
}

type setView struct {
	model.WorkoutSet
}

func (s setView) Text() string {
	return fmt.Sprintf("Logged set %d on %s: %s kg × %d", s.SetNumber, s.Day, kg(s.Weight), s.Reps)
}

type graphView struct {
	model.Graph
	Exercise string `json:"exercise"`
}

func (g graphView) Text() string {
	if len(g.Points) == 0 {
		return fmt.Sprintf("%s, %s: no history", g.Exercise, g.Metric.Label())
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s, %s\n", g.Exercise, g.Metric.Label())
	for _, p := range g.Points {
		fmt.Fprintf(&sb, "%s  %s\n", p.Date, strconv.FormatFloat(p.Value, 'f', 1, 64))
	}
	return sb.String()
}

type activityView []model.ActivityDay

func (a activityView) Text() string {
	var sb strings.Builder
	for _, d := range a {
		fmt.Fprintf(&sb, "%s %s  %s %d\n", d.Day, model.WeekdayName(d.Day.Weekday()), strings.Repeat("■", min(d.CompletedSets, 30)), d.CompletedSets)
	}
	return sb.String()
}

type configView struct {
	Path   string         `json:"path"`
	Config *config.Config `json:"config"`
}

// Text prints the effective config in the same TOML form the file uses.
func (c configView) Text() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", c.Path)
	if err := toml.NewEncoder(&buf).Encode(c.Config); err != nil {
		return err.Error()
	}
	return buf.String()
}
