package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

func TestCreateAndGetTemplate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tpl := &models.WorkoutTemplate{
		ID:   uuid.NewString(),
		Name: "Push Day",
		Exercises: []models.TemplateExercise{
			{ID: uuid.NewString(), Name: "Bench Press", Position: 0,
				TargetSets: ptr(3), TargetReps: ptr(5), TargetWeight: ptr(100.0)},
			{ID: uuid.NewString(), Name: "Dips", Position: 1},
		},
	}
	if err := db.CreateTemplate(ctx, tpl); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	got, err := db.GetTemplate(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if got.Name != "Push Day" {
		t.Errorf("name = %q", got.Name)
	}
	if len(got.Exercises) != 2 {
		t.Fatalf("got %d exercises, want 2", len(got.Exercises))
	}
	if got.Exercises[0].Name != "Bench Press" || got.Exercises[1].Name != "Dips" {
		t.Errorf("order: %q, %q", got.Exercises[0].Name, got.Exercises[1].Name)
	}
	first := got.Exercises[0]
	if first.TargetSets == nil || *first.TargetSets != 3 || first.TargetWeight == nil || *first.TargetWeight != 100 {
		t.Errorf("targets = %+v", first)
	}
	// Dips carries no targets at all.
	if got.Exercises[1].TargetSets != nil {
		t.Error("untargeted exercise gained targets")
	}

	if _, err := db.GetTemplate(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReplaceTemplateExercises(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tpl := &models.WorkoutTemplate{
		ID:   uuid.NewString(),
		Name: "Legs",
		Exercises: []models.TemplateExercise{
			{ID: uuid.NewString(), Name: "Squat", Position: 0},
		},
	}
	if err := db.CreateTemplate(ctx, tpl); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	replacement := []models.TemplateExercise{
		{ID: uuid.NewString(), Name: "Front Squat", Position: 0},
		{ID: uuid.NewString(), Name: "Leg Press", Position: 1},
	}
	if err := db.ReplaceTemplateExercises(ctx, tpl.ID, replacement); err != nil {
		t.Fatalf("ReplaceTemplateExercises: %v", err)
	}
	got, _ := db.GetTemplate(ctx, tpl.ID)
	if len(got.Exercises) != 2 {
		t.Fatalf("got %d exercises, want 2", len(got.Exercises))
	}
	if got.Exercises[0].Name != "Front Squat" {
		t.Errorf("first = %q", got.Exercises[0].Name)
	}

	err := db.ReplaceTemplateExercises(ctx, "missing", replacement)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTemplateCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tpl := &models.WorkoutTemplate{
		ID:   uuid.NewString(),
		Name: "Doomed",
		Exercises: []models.TemplateExercise{
			{ID: uuid.NewString(), Name: "Curl", Position: 0},
		},
	}
	if err := db.CreateTemplate(ctx, tpl); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if err := db.DeleteTemplate(ctx, tpl.ID); err != nil {
		t.Fatalf("DeleteTemplate: %v", err)
	}

	var count int
	if err := db.SQL.QueryRow(`SELECT COUNT(*) FROM template_exercises`).Scan(&count); err != nil {
		t.Fatalf("counting template exercises: %v", err)
	}
	if count != 0 {
		t.Errorf("template exercises left behind: %d", count)
	}
	if err := db.DeleteTemplate(ctx, tpl.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListTemplates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Zebra", "Alpha"} {
		tpl := &models.WorkoutTemplate{ID: uuid.NewString(), Name: name}
		if err := db.CreateTemplate(ctx, tpl); err != nil {
			t.Fatalf("CreateTemplate: %v", err)
		}
	}

	templates, err := db.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("got %d templates, want 2", len(templates))
	}
	if templates[0].Name != "Alpha" {
		t.Errorf("first = %q, want Alpha", templates[0].Name)
	}
}
