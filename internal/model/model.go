package model

import "time"

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Session struct {
	User      User       `json:"user"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTP     string `json:"totp"`
}

// RegisterInput creates an account. The server checks the TOTP code against
// the secret before storing it.
type RegisterInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	TOTPSecret string `json:"totp_secret"`
	TOTPCode   string `json:"totp_code"`
}

type Exercise struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Archived    bool    `json:"archived"`
}

// ExerciseUpdate changes the fields that are set and leaves the rest alone.
type ExerciseUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Archived    *bool   `json:"archived,omitempty"`
}

func (u ExerciseUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Archived == nil
}

// WorkoutSet is one persisted set, identified by (ExerciseID, Day, SetNumber).
type WorkoutSet struct {
	ID          int64     `json:"id"`
	ExerciseID  int64     `json:"exercise_id"`
	Day         Day       `json:"day"`
	SetNumber   int       `json:"set_number"`
	Weight      float64   `json:"weight"`
	Reps        int       `json:"reps"`
	CompletedAt time.Time `json:"completed_at"`
}

type SetInput struct {
	Weight      float64    `json:"weight"`
	Reps        int        `json:"reps"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type DaySets struct {
	Day        Day          `json:"day"`
	ExerciseID int64        `json:"exercise_id"`
	Sets       []WorkoutSet `json:"sets"`
}

type CompactSet struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

type LastSession struct {
	Day  Day          `json:"day"`
	Sets []CompactSet `json:"sets"`
}

// MaxWeight is the heaviest set of the session, 0 when it has none.
func (s LastSession) MaxWeight() float64 {
	var w float64
	for _, set := range s.Sets {
		if set.Weight > w {
			w = set.Weight
		}
	}
	return w
}

type PlanExercise struct {
	ExerciseID  int64        `json:"exercise_id"`
	Name        string       `json:"name"`
	TargetSets  *int         `json:"target_sets,omitempty"`
	LastSession *LastSession `json:"last_session,omitempty"`
}

type Plan struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Weekday   *int           `json:"day_of_week,omitempty"`
	Exercises []PlanExercise `json:"exercises"`
}

type HistoryQuery struct {
	Start *Day
	End   *Day
}

type ActivityQuery struct {
	Start Day
	End   Day
}

type ActivityDay struct {
	Day           Day `json:"day"`
	CompletedSets int `json:"completed_sets"`
}

type GraphPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type Graph struct {
	ExerciseID int64        `json:"exercise_id"`
	Metric     Metric       `json:"metric"`
	Points     []GraphPoint `json:"points"`
}
