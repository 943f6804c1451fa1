package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

func prCandidate(exercise string, reps int, weight float64) models.PRRecord {
	return models.PRRecord{
		ID:               uuid.NewString(),
		ExerciseName:     exercise,
		Reps:             reps,
		Weight:           weight,
		WorkoutSessionID: uuid.NewString(),
		AchievedAt:       time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC),
	}
}

func TestRecordPRChain(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// 200 establishes the record, 195 is rejected, 205 replaces it.
	changed, err := db.RecordPR(ctx, prCandidate("Squat", 5, 200))
	if err != nil {
		t.Fatalf("RecordPR: %v", err)
	}
	if !changed {
		t.Error("first record should report changed")
	}

	changed, err = db.RecordPR(ctx, prCandidate("Squat", 5, 195))
	if err != nil {
		t.Fatalf("RecordPR: %v", err)
	}
	if changed {
		t.Error("lighter candidate should not change the record")
	}
	rec, err := db.GetPR(ctx, "Squat", 5)
	if err != nil {
		t.Fatalf("GetPR: %v", err)
	}
	if rec == nil || rec.Weight != 200 {
		t.Fatalf("record = %+v, want weight 200", rec)
	}

	changed, err = db.RecordPR(ctx, prCandidate("Squat", 5, 205))
	if err != nil {
		t.Fatalf("RecordPR: %v", err)
	}
	if !changed {
		t.Error("heavier candidate should replace the record")
	}
	rec, err = db.GetPR(ctx, "Squat", 5)
	if err != nil {
		t.Fatalf("GetPR: %v", err)
	}
	if rec.Weight != 205 {
		t.Errorf("weight = %v, want 205", rec.Weight)
	}

	// Replacement never grows the table: still one row per pair.
	var count int
	if err := db.SQL.QueryRow(`SELECT COUNT(*) FROM pr_records`).Scan(&count); err != nil {
		t.Fatalf("counting records: %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}
}

func TestRecordPREqualWeightDiscarded(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := prCandidate("Bench Press", 3, 120)
	if _, err := db.RecordPR(ctx, first); err != nil {
		t.Fatalf("RecordPR: %v", err)
	}
	changed, err := db.RecordPR(ctx, prCandidate("Bench Press", 3, 120))
	if err != nil {
		t.Fatalf("RecordPR: %v", err)
	}
	if changed {
		t.Error("matching the record is not a new PR")
	}
	rec, _ := db.GetPR(ctx, "Bench Press", 3)
	if rec.WorkoutSessionID != first.WorkoutSessionID {
		t.Error("equal candidate overwrote the original record's provenance")
	}
}

func TestPRRepCountsIndependent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.RecordPR(ctx, prCandidate("Deadlift", 5, 220)); err != nil {
		t.Fatalf("RecordPR: %v", err)
	}
	if _, err := db.RecordPR(ctx, prCandidate("Deadlift", 1, 260)); err != nil {
		t.Fatalf("RecordPR: %v", err)
	}

	five, _ := db.GetPR(ctx, "Deadlift", 5)
	single, _ := db.GetPR(ctx, "Deadlift", 1)
	if five == nil || five.Weight != 220 {
		t.Errorf("5RM = %+v, want 220", five)
	}
	if single == nil || single.Weight != 260 {
		t.Errorf("1RM = %+v, want 260", single)
	}
}

func TestPRNameNormalization(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.RecordPR(ctx, prCandidate("  Bench Press ", 5, 100)); err != nil {
		t.Fatalf("RecordPR: %v", err)
	}
	rec, err := db.GetPR(ctx, "bench press", 5)
	if err != nil {
		t.Fatalf("GetPR: %v", err)
	}
	if rec == nil {
		t.Fatal("case-variant lookup missed the record")
	}
	if rec.ExerciseName != "bench press" {
		t.Errorf("stored name = %q, want normalized", rec.ExerciseName)
	}
}

func TestIsNewPR(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	isNew, err := db.IsNewPR(ctx, "Press", 5, 60)
	if err != nil {
		t.Fatalf("IsNewPR: %v", err)
	}
	if !isNew {
		t.Error("any weight is a PR for an unseen pair")
	}

	if _, err := db.RecordPR(ctx, prCandidate("Press", 5, 60)); err != nil {
		t.Fatalf("RecordPR: %v", err)
	}
	tests := []struct {
		weight float64
		want   bool
	}{
		{59, false},
		{60, false},
		{60.5, true},
	}
	for _, tt := range tests {
		got, err := db.IsNewPR(ctx, "Press", 5, tt.weight)
		if err != nil {
			t.Fatalf("IsNewPR(%v): %v", tt.weight, err)
		}
		if got != tt.want {
			t.Errorf("IsNewPR(%v) = %v, want %v", tt.weight, got, tt.want)
		}
	}
}

func TestListPRsOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, c := range []models.PRRecord{
		prCandidate("Squat", 5, 200),
		prCandidate("Bench Press", 5, 120),
		prCandidate("Bench Press", 1, 140),
	} {
		if _, err := db.RecordPR(ctx, c); err != nil {
			t.Fatalf("RecordPR: %v", err)
		}
	}

	prs, err := db.ListPRs(ctx)
	if err != nil {
		t.Fatalf("ListPRs: %v", err)
	}
	if len(prs) != 3 {
		t.Fatalf("got %d records, want 3", len(prs))
	}
	if prs[0].ExerciseName != "bench press" || prs[0].Reps != 1 {
		t.Errorf("first record = %q x%d, want bench press x1", prs[0].ExerciseName, prs[0].Reps)
	}
	if prs[2].ExerciseName != "squat" {
		t.Errorf("last record = %q, want squat", prs[2].ExerciseName)
	}
}

func TestDeletePR(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	c := prCandidate("Squat", 5, 200)
	if _, err := db.RecordPR(ctx, c); err != nil {
		t.Fatalf("RecordPR: %v", err)
	}
	if err := db.DeletePR(ctx, c.ID); err != nil {
		t.Fatalf("DeletePR: %v", err)
	}
	rec, err := db.GetPR(ctx, "Squat", 5)
	if err != nil {
		t.Fatalf("GetPR: %v", err)
	}
	if rec != nil {
		t.Error("record still present after delete")
	}
	if err := db.DeletePR(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
