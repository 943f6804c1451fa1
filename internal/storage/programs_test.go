package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

func TestCreateAndGetProgram(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p, days := seedProgram(t, db, "PPL", "Push", "Pull", "Legs")

	got, err := db.GetProgram(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProgram: %v", err)
	}
	if got.Name != "PPL" || got.IsActive || got.CurrentDayIndex != 0 || got.TotalWorkoutsCompleted != 0 {
		t.Errorf("program = %+v", got)
	}

	full, err := db.GetProgramWithDaysAndExercises(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProgramWithDaysAndExercises: %v", err)
	}
	if len(full.Days) != 3 {
		t.Fatalf("got %d days, want 3", len(full.Days))
	}
	if full.Days[0].Name != "Push" || full.Days[2].Name != "Legs" {
		t.Errorf("day order: %q .. %q", full.Days[0].Name, full.Days[2].Name)
	}
	_ = days

	unknown, err := db.GetProgramWithDaysAndExercises(ctx, "missing")
	if err != nil {
		t.Fatalf("unknown program should not error, got %v", err)
	}
	if unknown != nil {
		t.Error("unknown program should return nil")
	}
}

func TestSetActiveProgramInvariant(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a, _ := seedProgram(t, db, "A")
	b, _ := seedProgram(t, db, "B")

	if err := db.SetActiveProgram(ctx, a.ID); err != nil {
		t.Fatalf("SetActiveProgram: %v", err)
	}
	if err := db.SetActiveProgram(ctx, b.ID); err != nil {
		t.Fatalf("SetActiveProgram: %v", err)
	}

	active, err := db.GetActiveProgram(ctx)
	if err != nil {
		t.Fatalf("GetActiveProgram: %v", err)
	}
	if active == nil || active.ID != b.ID {
		t.Fatalf("active = %v, want %s", active, b.ID)
	}

	var count int
	if err := db.SQL.QueryRow(`SELECT COUNT(*) FROM programs WHERE is_active = 1`).Scan(&count); err != nil {
		t.Fatalf("counting active programs: %v", err)
	}
	if count != 1 {
		t.Errorf("active programs = %d, want exactly 1", count)
	}

	if err := db.SetActiveProgram(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	// The failed activation must not have cleared the current one.
	active, _ = db.GetActiveProgram(ctx)
	if active == nil || active.ID != b.ID {
		t.Error("failed activation disturbed the active program")
	}
}

func TestGetActiveProgramNone(t *testing.T) {
	db := newTestDB(t)
	active, err := db.GetActiveProgram(context.Background())
	if err != nil {
		t.Fatalf("GetActiveProgram: %v", err)
	}
	if active != nil {
		t.Error("expected nil with no active program")
	}
}

func TestAdvanceProgramDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p, days := seedProgram(t, db, "Upper/Lower", "Upper", "Lower")

	advanced, err := db.AdvanceProgramDay(ctx, p.ID, days[0].ID)
	if err != nil {
		t.Fatalf("AdvanceProgramDay: %v", err)
	}
	if !advanced {
		t.Fatal("expected rotation to advance")
	}
	got, _ := db.GetProgram(ctx, p.ID)
	if got.CurrentDayIndex != 1 {
		t.Errorf("index = %d, want 1", got.CurrentDayIndex)
	}
	if got.TotalWorkoutsCompleted != 1 {
		t.Errorf("counter = %d, want 1", got.TotalWorkoutsCompleted)
	}

	// Completing the last day wraps to the first.
	if _, err := db.AdvanceProgramDay(ctx, p.ID, days[1].ID); err != nil {
		t.Fatalf("AdvanceProgramDay: %v", err)
	}
	got, _ = db.GetProgram(ctx, p.ID)
	if got.CurrentDayIndex != 0 {
		t.Errorf("index after wrap = %d, want 0", got.CurrentDayIndex)
	}
	if got.TotalWorkoutsCompleted != 2 {
		t.Errorf("counter = %d, want 2", got.TotalWorkoutsCompleted)
	}
}

func TestAdvanceProgramDayOutOfOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p, days := seedProgram(t, db, "PPL", "Push", "Pull", "Legs")

	// Completing Legs (index 2) out of order advances relative to it, not
	// the stored pointer.
	if _, err := db.AdvanceProgramDay(ctx, p.ID, days[2].ID); err != nil {
		t.Fatalf("AdvanceProgramDay: %v", err)
	}
	got, _ := db.GetProgram(ctx, p.ID)
	if got.CurrentDayIndex != 0 {
		t.Errorf("index = %d, want 0", got.CurrentDayIndex)
	}
}

func TestAdvanceProgramDayZeroDays(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p, _ := seedProgram(t, db, "Empty")
	advanced, err := db.AdvanceProgramDay(ctx, p.ID, "whatever")
	if err != nil {
		t.Fatalf("zero-day program should be a no-op, got %v", err)
	}
	if advanced {
		t.Error("zero-day program should not advance")
	}
	got, _ := db.GetProgram(ctx, p.ID)
	if got.TotalWorkoutsCompleted != 0 {
		t.Error("counter incremented on skipped rotation")
	}
}

func TestAdvanceProgramDayDeletedDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p, days := seedProgram(t, db, "PPL", "Push", "Pull", "Legs")
	if err := db.DeleteProgramDay(ctx, days[1].ID); err != nil {
		t.Fatalf("DeleteProgramDay: %v", err)
	}

	advanced, err := db.AdvanceProgramDay(ctx, p.ID, days[1].ID)
	if err != nil {
		t.Fatalf("deleted day should be a no-op, got %v", err)
	}
	if advanced {
		t.Error("deleted day should not advance the rotation")
	}
}

func TestAdvanceProgramDayUnknownProgram(t *testing.T) {
	db := newTestDB(t)
	_, err := db.AdvanceProgramDay(context.Background(), "missing", "day")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetNextProgramDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p, days := seedProgram(t, db, "PPL", "Push", "Pull", "Legs")

	next, err := db.GetNextProgramDay(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetNextProgramDay: %v", err)
	}
	if next == nil || next.ID != days[0].ID {
		t.Fatalf("next = %v, want %s", next, days[0].ID)
	}

	if _, err := db.AdvanceProgramDay(ctx, p.ID, days[0].ID); err != nil {
		t.Fatalf("AdvanceProgramDay: %v", err)
	}
	next, err = db.GetNextProgramDay(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetNextProgramDay: %v", err)
	}
	if next == nil || next.ID != days[1].ID {
		t.Fatalf("next = %v, want %s", next, days[1].ID)
	}

	// A stale pointer (day deleted after rotation) yields nil, not an error.
	if err := db.DeleteProgramDay(ctx, days[1].ID); err != nil {
		t.Fatalf("DeleteProgramDay: %v", err)
	}
	next, err = db.GetNextProgramDay(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetNextProgramDay: %v", err)
	}
	if next != nil {
		t.Errorf("stale pointer should yield nil, got %v", next.ID)
	}
}

func TestProgramDayExercisesAndTargets(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, days := seedProgram(t, db, "PPL", "Push")
	day := days[0]

	uniform := &models.ProgramDayExercise{
		ID: uuid.NewString(), ProgramDayID: day.ID, ExerciseName: "Bench Press",
		Position: 0, TargetSets: ptr(3), TargetReps: ptr(5), TargetWeight: ptr(100.0),
	}
	if err := db.CreateProgramDayExercise(ctx, uniform); err != nil {
		t.Fatalf("CreateProgramDayExercise: %v", err)
	}
	explicit := &models.ProgramDayExercise{
		ID: uuid.NewString(), ProgramDayID: day.ID, ExerciseName: "Squat", Position: 1,
		ExplicitSets: []models.SetTarget{
			{ID: uuid.NewString(), SetNumber: 1, TargetReps: 5, TargetWeight: 140},
			{ID: uuid.NewString(), SetNumber: 2, TargetReps: 3, TargetWeight: 150},
		},
	}
	if err := db.CreateProgramDayExercise(ctx, explicit); err != nil {
		t.Fatalf("CreateProgramDayExercise: %v", err)
	}

	got, err := db.GetProgramDay(ctx, day.ID)
	if err != nil {
		t.Fatalf("GetProgramDay: %v", err)
	}
	if len(got.Exercises) != 2 {
		t.Fatalf("got %d exercises, want 2", len(got.Exercises))
	}
	if got.Exercises[0].ExerciseName != "Bench Press" {
		t.Errorf("position order wrong: %q first", got.Exercises[0].ExerciseName)
	}
	if len(got.Exercises[1].ExplicitSets) != 2 {
		t.Fatalf("got %d explicit targets, want 2", len(got.Exercises[1].ExplicitSets))
	}
	if got.Exercises[1].ExplicitSets[1].TargetWeight != 150 {
		t.Errorf("explicit target weight = %v, want 150", got.Exercises[1].ExplicitSets[1].TargetWeight)
	}

	// Replacing targets swaps the whole list.
	newTargets := []models.SetTarget{
		{ID: uuid.NewString(), SetNumber: 1, TargetReps: 8, TargetWeight: 120},
	}
	if err := db.ReplaceExplicitTargets(ctx, explicit.ID, newTargets); err != nil {
		t.Fatalf("ReplaceExplicitTargets: %v", err)
	}
	got, _ = db.GetProgramDay(ctx, day.ID)
	if len(got.Exercises[1].ExplicitSets) != 1 || got.Exercises[1].ExplicitSets[0].TargetReps != 8 {
		t.Errorf("targets after replace = %+v", got.Exercises[1].ExplicitSets)
	}
}

func TestDeleteProgramKeepsHistory(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p, days := seedProgram(t, db, "PPL", "Push")
	entry := &models.ProgramHistoryEntry{
		ID:               uuid.NewString(),
		ProgramID:        p.ID,
		ProgramDayID:     days[0].ID,
		WorkoutSessionID: uuid.NewString(),
		PerformedAt:      time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC),
		DurationSec:      ptr(int64(3600)),
	}
	if err := db.AppendProgramHistory(ctx, entry); err != nil {
		t.Fatalf("AppendProgramHistory: %v", err)
	}

	if err := db.DeleteProgram(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProgram: %v", err)
	}

	// Days cascade away, the audit trail does not.
	var dayCount int
	if err := db.SQL.QueryRow(`SELECT COUNT(*) FROM program_days`).Scan(&dayCount); err != nil {
		t.Fatalf("counting days: %v", err)
	}
	if dayCount != 0 {
		t.Errorf("days left behind: %d", dayCount)
	}
	entries, err := db.ListProgramHistory(ctx, p.ID, 0)
	if err != nil {
		t.Fatalf("ListProgramHistory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history rows = %d, want 1 after program delete", len(entries))
	}
	if entries[0].DurationSec == nil || *entries[0].DurationSec != 3600 {
		t.Errorf("duration = %v, want 3600", entries[0].DurationSec)
	}
}

func TestListProgramHistoryOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p, days := seedProgram(t, db, "PPL", "Push")
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := &models.ProgramHistoryEntry{
			ID:               uuid.NewString(),
			ProgramID:        p.ID,
			ProgramDayID:     days[0].ID,
			WorkoutSessionID: uuid.NewString(),
			PerformedAt:      base.AddDate(0, 0, i),
		}
		if err := db.AppendProgramHistory(ctx, entry); err != nil {
			t.Fatalf("AppendProgramHistory: %v", err)
		}
	}

	entries, err := db.ListProgramHistory(ctx, p.ID, 2)
	if err != nil {
		t.Fatalf("ListProgramHistory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if !entries[0].PerformedAt.After(entries[1].PerformedAt) {
		t.Error("history not ordered most-recent-first")
	}
}

func TestUpdateProgram(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p, _ := seedProgram(t, db, "Old Name")
	if err := db.UpdateProgram(ctx, p.ID, ProgramUpdate{Name: ptr("New Name")}); err != nil {
		t.Fatalf("UpdateProgram: %v", err)
	}
	got, _ := db.GetProgram(ctx, p.ID)
	if got.Name != "New Name" {
		t.Errorf("name = %q", got.Name)
	}

	if err := db.UpdateProgram(ctx, "missing", ProgramUpdate{}); err != nil {
		t.Errorf("empty update should be a no-op, got %v", err)
	}
	if err := db.UpdateProgram(ctx, "missing", ProgramUpdate{Name: ptr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
