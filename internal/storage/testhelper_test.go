package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := New(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

// seedSession creates a bare session with no exercises.
func seedSession(t *testing.T, db *DB, name string, start time.Time) *models.WorkoutSession {
	t.Helper()
	s := &models.WorkoutSession{ID: uuid.NewString(), Name: name, StartTime: start}
	if err := db.CreateSessionWithExercises(context.Background(), s, nil); err != nil {
		t.Fatalf("creating session: %v", err)
	}
	return s
}

// seedProgram creates a program with the named days at indices 0..n-1.
func seedProgram(t *testing.T, db *DB, name string, dayNames ...string) (*models.Program, []models.ProgramDay) {
	t.Helper()
	ctx := context.Background()
	p := &models.Program{ID: uuid.NewString(), Name: name}
	if err := db.CreateProgram(ctx, p); err != nil {
		t.Fatalf("creating program: %v", err)
	}
	days := make([]models.ProgramDay, 0, len(dayNames))
	for i, dn := range dayNames {
		d := &models.ProgramDay{ID: uuid.NewString(), ProgramID: p.ID, DayIndex: i, Name: dn}
		if err := db.CreateProgramDay(ctx, d); err != nil {
			t.Fatalf("creating program day: %v", err)
		}
		days = append(days, *d)
	}
	return p, days
}

func ptr[T any](v T) *T { return &v }
