package mcp

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

func newTestHandlers(t *testing.T) (*handlers, *storage.DB) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"), log)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return &handlers{db: db, log: log}, db
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestResolveProgramID(t *testing.T) {
	h, db := newTestHandlers(t)
	ctx := context.Background()

	// Explicit id wins without touching the database.
	id, ok, err := h.resolveProgramID(ctx, toolRequest(map[string]any{"program_id": "explicit"}))
	if err != nil || !ok || id != "explicit" {
		t.Fatalf("explicit id: got (%q, %v, %v)", id, ok, err)
	}

	// No id and no active program resolves nothing.
	_, ok, err = h.resolveProgramID(ctx, toolRequest(nil))
	if err != nil {
		t.Fatalf("resolveProgramID: %v", err)
	}
	if ok {
		t.Fatal("resolved a program with none active")
	}

	p := &models.Program{ID: uuid.NewString(), Name: "PPL"}
	if err := db.CreateProgram(ctx, p); err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if err := db.SetActiveProgram(ctx, p.ID); err != nil {
		t.Fatalf("SetActiveProgram: %v", err)
	}

	id, ok, err = h.resolveProgramID(ctx, toolRequest(nil))
	if err != nil || !ok || id != p.ID {
		t.Fatalf("active fallback: got (%q, %v, %v), want %s", id, ok, err, p.ID)
	}
}

func TestGetSessionDetailTool(t *testing.T) {
	h, db := newTestHandlers(t)
	ctx := context.Background()

	s := &models.WorkoutSession{ID: uuid.NewString(), Name: "Push Day"}
	if err := db.CreateSessionWithExercises(ctx, s, nil); err != nil {
		t.Fatalf("CreateSessionWithExercises: %v", err)
	}

	result, err := h.getSessionDetail(ctx, toolRequest(map[string]any{"session_id": s.ID}))
	if err != nil {
		t.Fatalf("getSessionDetail: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error: %v", result.Content)
	}

	// Missing required parameter is a tool error, not a Go error.
	result, err = h.getSessionDetail(ctx, toolRequest(nil))
	if err != nil {
		t.Fatalf("getSessionDetail: %v", err)
	}
	if !result.IsError {
		t.Error("expected a tool error for missing session_id")
	}
}

func TestGetPersonalRecordsTool(t *testing.T) {
	h, db := newTestHandlers(t)
	ctx := context.Background()

	if _, err := db.RecordPR(ctx, models.PRRecord{
		ID: uuid.NewString(), ExerciseName: "Squat", Reps: 5, Weight: 200,
		WorkoutSessionID: uuid.NewString(),
	}); err != nil {
		t.Fatalf("RecordPR: %v", err)
	}

	result, err := h.getPersonalRecords(ctx, toolRequest(nil))
	if err != nil {
		t.Fatalf("getPersonalRecords: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error: %v", result.Content)
	}
}
