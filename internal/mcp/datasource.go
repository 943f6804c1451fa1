package mcp

import (
	"context"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// DataSource is the read surface the MCP tools and resources need. It is
// satisfied by *storage.DB; tests may substitute a smaller implementation.
type DataSource interface {
	ListSessions(ctx context.Context, limit int) ([]models.WorkoutSession, error)
	GetSession(ctx context.Context, id string) (*models.WorkoutSession, error)
	ExerciseHistory(ctx context.Context, exerciseName string, limit int) ([]storage.ExerciseHistoryEntry, error)
	ListPRs(ctx context.Context) ([]models.PRRecord, error)
	GetActiveProgram(ctx context.Context) (*models.Program, error)
	GetProgramWithDaysAndExercises(ctx context.Context, id string) (*models.Program, error)
	GetNextProgramDay(ctx context.Context, programID string) (*models.ProgramDay, error)
	ListProgramHistory(ctx context.Context, programID string, limit int) ([]models.ProgramHistoryEntry, error)
	SessionVolume(ctx context.Context, sessionID string) (float64, error)
	CompletedSetCount(ctx context.Context, sessionID string) (int, error)
	TotalSetCount(ctx context.Context, sessionID string) (int, error)
}

var _ DataSource = (*storage.DB)(nil)
