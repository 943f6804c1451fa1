// Package tracker owns the workout lifecycle: starting sessions from a
// template, a program day, or nothing, and the completion workflow that
// fans out into PR detection and program day rotation.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
)

// ErrActiveSessionExists is returned when starting a session while another
// one is still in progress. The stale session must be completed or
// discarded first.
var ErrActiveSessionExists = errors.New("an active session already exists")

// Tracker orchestrates session flows over the storage layer. ID and clock
// sources are injectable for tests.
type Tracker struct {
	db    *storage.DB
	log   *slog.Logger
	newID func() string
	now   func() time.Time
}

// New creates a Tracker backed by UUID ids and the wall clock.
func New(db *storage.DB, log *slog.Logger) *Tracker {
	return &Tracker{
		db:    db,
		log:   log,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// CompletionResult reports what happened when a session was completed.
type CompletionResult struct {
	Session *models.WorkoutSession `json:"session"`
	NewPRs  []models.PRRecord      `json:"new_prs,omitempty"`

	// HistoryRecorded and ProgramAdvanced are false for non-program
	// sessions, and may be false for program sessions whose side effects
	// were skipped or failed after the completion write committed.
	HistoryRecorded bool `json:"history_recorded"`
	ProgramAdvanced bool `json:"program_advanced"`
}

// StartEmptySession begins an ad-hoc session with no exercises.
func (t *Tracker) StartEmptySession(ctx context.Context, name string) (*models.WorkoutSession, error) {
	if err := t.ensureNoActive(ctx); err != nil {
		return nil, err
	}
	if name == "" {
		name = "Workout"
	}
	s := &models.WorkoutSession{
		ID:        t.newID(),
		Name:      name,
		StartTime: t.now(),
	}
	if err := t.db.CreateSessionWithExercises(ctx, s, nil); err != nil {
		return nil, err
	}
	t.log.Info("session started", "session_id", s.ID, "kind", s.Kind())
	return s, nil
}

// StartFromTemplate begins a session pre-populated with a template's
// exercises. Uniform targets expand into planned, uncompleted sets.
func (t *Tracker) StartFromTemplate(ctx context.Context, templateID string) (*models.WorkoutSession, error) {
	if err := t.ensureNoActive(ctx); err != nil {
		return nil, err
	}
	tpl, err := t.db.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	s := &models.WorkoutSession{
		ID:           t.newID(),
		TemplateID:   &tpl.ID,
		TemplateName: &tpl.Name,
		Name:         tpl.Name,
		StartTime:    t.now(),
	}
	exercises := make([]models.Exercise, 0, len(tpl.Exercises))
	for i, te := range tpl.Exercises {
		scheme := models.UniformTargets{}
		if te.TargetSets != nil {
			scheme.Sets = *te.TargetSets
		}
		if te.TargetReps != nil {
			scheme.Reps = *te.TargetReps
		}
		if te.TargetWeight != nil {
			scheme.Weight = *te.TargetWeight
		}
		exercises = append(exercises, t.buildExercise(te.Name, i, models.ExpandTargets(scheme)))
	}
	if err := t.db.CreateSessionWithExercises(ctx, s, exercises); err != nil {
		return nil, err
	}
	t.log.Info("session started", "session_id", s.ID, "kind", s.Kind(), "template_id", tpl.ID)
	return s, nil
}

// StartFromProgramDay begins a session for one program day, expanding each
// target exercise's scheme (uniform or explicit) into planned sets.
func (t *Tracker) StartFromProgramDay(ctx context.Context, programID, programDayID string) (*models.WorkoutSession, error) {
	if err := t.ensureNoActive(ctx); err != nil {
		return nil, err
	}
	program, err := t.db.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	day, err := t.db.GetProgramDay(ctx, programDayID)
	if err != nil {
		return nil, err
	}
	if day.ProgramID != programID {
		return nil, fmt.Errorf("program day %s: %w", programDayID, storage.ErrNotFound)
	}

	s := &models.WorkoutSession{
		ID:             t.newID(),
		ProgramID:      &program.ID,
		ProgramDayID:   &day.ID,
		ProgramDayName: &day.Name,
		Name:           fmt.Sprintf("%s: %s", program.Name, day.Name),
		StartTime:      t.now(),
	}
	exercises := make([]models.Exercise, 0, len(day.Exercises))
	for i, de := range day.Exercises {
		exercises = append(exercises, t.buildExercise(de.ExerciseName, i, models.ExpandTargets(de.Targets())))
	}
	if err := t.db.CreateSessionWithExercises(ctx, s, exercises); err != nil {
		return nil, err
	}
	t.log.Info("session started", "session_id", s.ID, "kind", s.Kind(),
		"program_id", program.ID, "program_day_id", day.ID)
	return s, nil
}

// CompleteSession finishes a session and runs its post-processing.
//
// The completion write (end time, duration) is atomic and commits first.
// PR detection then runs eagerly over this session's completed sets: per
// exercise and rep count, the heaviest completed set is offered to the PR
// store. For program-linked sessions a history row is appended and the
// program's day rotation advances. Those side effects are best-effort:
// a failure past the completion write never unwinds it, and is surfaced
// on the result and in the log rather than as a hard error.
func (t *Tracker) CompleteSession(ctx context.Context, id string) (*CompletionResult, error) {
	session, err := t.db.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	endTime := t.now()
	completed, err := t.db.CompleteSession(ctx, id, endTime)
	if err != nil {
		return nil, err
	}
	completed.Exercises = session.Exercises
	result := &CompletionResult{Session: completed}

	result.NewPRs = t.sweepPRs(ctx, session.Exercises, id, endTime)

	if session.ProgramID != nil && session.ProgramDayID != nil {
		t.recordProgramCompletion(ctx, completed, *session.ProgramID, *session.ProgramDayID, result)
	}

	t.log.Info("session completed", "session_id", id,
		"duration_sec", *completed.DurationSec, "new_prs", len(result.NewPRs))
	return result, nil
}

// DiscardSession deletes a session without any completion side effects.
func (t *Tracker) DiscardSession(ctx context.Context, id string) error {
	if err := t.db.DeleteSession(ctx, id); err != nil {
		return err
	}
	t.log.Info("session discarded", "session_id", id)
	return nil
}

func (t *Tracker) ensureNoActive(ctx context.Context) error {
	active, err := t.db.GetActiveSession(ctx)
	if err != nil {
		return err
	}
	if active != nil {
		return fmt.Errorf("session %s is in progress: %w", active.ID, ErrActiveSessionExists)
	}
	return nil
}

func (t *Tracker) buildExercise(name string, position int, planned []models.PlannedSet) models.Exercise {
	e := models.Exercise{
		ID:       t.newID(),
		Name:     name,
		Position: position,
	}
	for j, ps := range planned {
		e.Sets = append(e.Sets, models.WorkoutSet{
			ID:        t.newID(),
			SetNumber: j + 1,
			Reps:      ps.Reps,
			Weight:    ps.Weight,
		})
	}
	return e
}

// sweepPRs offers each exercise's best completed set per rep count to the
// PR store, once per (exercise, reps) pair rather than once per set.
func (t *Tracker) sweepPRs(ctx context.Context, exercises []models.Exercise, sessionID string, achievedAt time.Time) []models.PRRecord {
	var newPRs []models.PRRecord
	for _, e := range exercises {
		best := map[int]float64{}
		var repOrder []int
		for _, s := range e.Sets {
			if !s.Completed || s.Reps <= 0 {
				continue
			}
			if w, ok := best[s.Reps]; !ok {
				best[s.Reps] = s.Weight
				repOrder = append(repOrder, s.Reps)
			} else if s.Weight > w {
				best[s.Reps] = s.Weight
			}
		}
		for _, reps := range repOrder {
			candidate := models.PRRecord{
				ID:               t.newID(),
				ExerciseName:     models.NormalizeExerciseName(e.Name),
				Reps:             reps,
				Weight:           best[reps],
				WorkoutSessionID: sessionID,
				AchievedAt:       achievedAt,
			}
			changed, err := t.db.RecordPR(ctx, candidate)
			if err != nil {
				t.log.Warn("pr detection failed", "session_id", sessionID,
					"exercise", e.Name, "reps", reps, "error", err)
				continue
			}
			if !changed {
				continue
			}
			// On the replace path the stored row keeps its original id,
			// so report the persisted row rather than the candidate.
			stored, err := t.db.GetPR(ctx, e.Name, reps)
			if err != nil || stored == nil {
				t.log.Warn("pr recorded but readback failed", "session_id", sessionID,
					"exercise", e.Name, "reps", reps, "error", err)
				newPRs = append(newPRs, candidate)
				continue
			}
			newPRs = append(newPRs, *stored)
		}
	}
	return newPRs
}

// recordProgramCompletion appends the history row and advances the day
// rotation. Each step is individually atomic; a failure here leaves the
// already-committed completion in place and is reported as a data-quality
// warning, distinct from a NotFound.
func (t *Tracker) recordProgramCompletion(ctx context.Context, s *models.WorkoutSession, programID, programDayID string, result *CompletionResult) {
	entry := &models.ProgramHistoryEntry{
		ID:               t.newID(),
		ProgramID:        programID,
		ProgramDayID:     programDayID,
		WorkoutSessionID: s.ID,
		PerformedAt:      *s.EndTime,
		DurationSec:      s.DurationSec,
	}
	if err := t.db.AppendProgramHistory(ctx, entry); err != nil {
		t.log.Warn("session completed but program history not recorded",
			"session_id", s.ID, "program_id", programID, "error", err)
	} else {
		result.HistoryRecorded = true
	}

	advanced, err := t.db.AdvanceProgramDay(ctx, programID, programDayID)
	if err != nil {
		t.log.Warn("session completed but program not advanced",
			"session_id", s.ID, "program_id", programID, "error", err)
		return
	}
	result.ProgramAdvanced = advanced
}
