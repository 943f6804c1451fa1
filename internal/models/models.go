package models

import (
	"strings"
	"time"
)

// SessionKind classifies how a workout session was started.
type SessionKind string

const (
	SessionKindFree     SessionKind = "free"
	SessionKindTemplate SessionKind = "template"
	SessionKindProgram  SessionKind = "program"
)

// WorkoutSession is one workout, live or finished. A session with a nil
// EndTime is the active session; at most one may exist at a time.
type WorkoutSession struct {
	ID             string     `json:"id"`
	TemplateID     *string    `json:"template_id,omitempty"`
	TemplateName   *string    `json:"template_name,omitempty"`
	ProgramID      *string    `json:"program_id,omitempty"`
	ProgramDayID   *string    `json:"program_day_id,omitempty"`
	ProgramDayName *string    `json:"program_day_name,omitempty"`
	Name           string     `json:"name"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	DurationSec    *int64     `json:"duration_sec,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Exercises []Exercise `json:"exercises,omitempty"`
}

// Kind derives the session classification from its provenance fields.
// It is never stored; program wins over template when both are present.
func (s *WorkoutSession) Kind() SessionKind {
	if s.ProgramID != nil && s.ProgramDayID != nil {
		return SessionKindProgram
	}
	if s.TemplateID != nil {
		return SessionKindTemplate
	}
	return SessionKindFree
}

// Active reports whether the session is still in progress.
func (s *WorkoutSession) Active() bool {
	return s.EndTime == nil
}

// Exercise is one exercise instance within a session. Position is the
// zero-based display order, unique within the session.
type Exercise struct {
	ID               string    `json:"id"`
	WorkoutSessionID string    `json:"workout_session_id"`
	Name             string    `json:"name"`
	Position         int       `json:"position"`
	Notes            *string   `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Sets []WorkoutSet `json:"sets,omitempty"`
}

// WorkoutSet is one performed (or planned) set. SetNumber is 1-based and
// unique within its exercise. CompletedAt is present iff Completed.
type WorkoutSet struct {
	ID               string     `json:"id"`
	ExerciseID       string     `json:"exercise_id"`
	WorkoutSessionID string     `json:"workout_session_id"`
	SetNumber        int        `json:"set_number"`
	Reps             int        `json:"reps"`
	Weight           float64    `json:"weight"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Volume returns Σ(reps × weight) over completed sets. Uncompleted sets
// contribute nothing regardless of their reps and weight.
func Volume(sets []WorkoutSet) float64 {
	var total float64
	for _, s := range sets {
		if s.Completed {
			total += float64(s.Reps) * s.Weight
		}
	}
	return total
}

// PRRecord is the best known performance for one exercise at one rep count.
// At most one record exists per (exercise name, reps) pair.
type PRRecord struct {
	ID               string    `json:"id"`
	ExerciseName     string    `json:"exercise_name"`
	Reps             int       `json:"reps"`
	Weight           float64   `json:"weight"`
	WorkoutSessionID string    `json:"workout_session_id"`
	AchievedAt       time.Time `json:"achieved_at"`
	CreatedAt        time.Time `json:"created_at"`
}

// NormalizeExerciseName produces the case-insensitive key used for PR
// lookups and exercise history.
func NormalizeExerciseName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Program is a reusable multi-day training plan. CurrentDayIndex is only
// meaningful while the program has days.
type Program struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Description            *string   `json:"description,omitempty"`
	IsActive               bool      `json:"is_active"`
	CurrentDayIndex        int       `json:"current_day_index"`
	TotalWorkoutsCompleted int       `json:"total_workouts_completed"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	Days []ProgramDay `json:"days,omitempty"`
}

// ProgramDay is one slot in a program's rotation. DayIndex defines the
// rotation order and is unique within the program.
type ProgramDay struct {
	ID        string    `json:"id"`
	ProgramID string    `json:"program_id"`
	DayIndex  int       `json:"day_index"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Exercises []ProgramDayExercise `json:"exercises,omitempty"`
}

// ProgramDayExercise is one target exercise within a program day. It
// carries either legacy uniform targets (TargetSets/TargetReps/TargetWeight)
// or an explicit per-set list; see Targets.
type ProgramDayExercise struct {
	ID           string    `json:"id"`
	ProgramDayID string    `json:"program_day_id"`
	ExerciseName string    `json:"exercise_name"`
	Position     int       `json:"position"`
	TargetSets   *int      `json:"target_sets,omitempty"`
	TargetReps   *int      `json:"target_reps,omitempty"`
	TargetWeight *float64  `json:"target_weight,omitempty"`
	RestSeconds  *int      `json:"rest_seconds,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	ExplicitSets []SetTarget `json:"explicit_sets,omitempty"`
}

// SetTarget is one explicit per-set target row for a program day exercise.
type SetTarget struct {
	ID                   string  `json:"id"`
	ProgramDayExerciseID string  `json:"program_day_exercise_id"`
	SetNumber            int     `json:"set_number"`
	TargetReps           int     `json:"target_reps"`
	TargetWeight         float64 `json:"target_weight"`
}

// ProgramHistoryEntry is one append-only log row, written once per
// completed program-driven session. Never updated, and retained after its
// program is deleted.
type ProgramHistoryEntry struct {
	ID               string    `json:"id"`
	ProgramID        string    `json:"program_id"`
	ProgramDayID     string    `json:"program_day_id"`
	WorkoutSessionID string    `json:"workout_session_id"`
	PerformedAt      time.Time `json:"performed_at"`
	DurationSec      *int64    `json:"duration_sec,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// WorkoutTemplate is a reusable, non-dated exercise list used to start a
// free-form session.
type WorkoutTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Exercises []TemplateExercise `json:"exercises,omitempty"`
}

// TemplateExercise is one exercise slot within a template.
type TemplateExercise struct {
	ID           string    `json:"id"`
	TemplateID   string    `json:"template_id"`
	Name         string    `json:"name"`
	Position     int       `json:"position"`
	TargetSets   *int      `json:"target_sets,omitempty"`
	TargetReps   *int      `json:"target_reps,omitempty"`
	TargetWeight *float64  `json:"target_weight,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
