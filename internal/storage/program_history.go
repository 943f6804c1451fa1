package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// AppendProgramHistory writes one append-only log row for a completed
// program-driven session. Rows are never updated or deleted by normal
// operation, and deliberately survive deletion of their program.
func (db *DB) AppendProgramHistory(ctx context.Context, e *models.ProgramHistoryEntry) error {
	now := db.now()
	e.CreatedAt = now
	_, err := db.SQL.ExecContext(ctx,
		`INSERT INTO program_history (id, program_id, program_day_id, workout_session_id, performed_at, duration_sec, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		e.ID, e.ProgramID, e.ProgramDayID, e.WorkoutSessionID,
		millis(e.PerformedAt), argOrNil(e.DurationSec), millis(now))
	if err != nil {
		return fmt.Errorf("appending program history: %w", err)
	}
	return nil
}

// ListProgramHistory returns a program's history rows, most-recent-first.
func (db *DB) ListProgramHistory(ctx context.Context, programID string, limit int) ([]models.ProgramHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, program_id, program_day_id, workout_session_id, performed_at, duration_sec, created_at
		 FROM program_history
		 WHERE program_id = ?
		 ORDER BY performed_at DESC
		 LIMIT ?`, programID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying program history: %w", err)
	}
	defer rows.Close()

	var result []models.ProgramHistoryEntry
	for rows.Next() {
		var (
			e                      models.ProgramHistoryEntry
			performedAt, createdAt int64
			durationSec            sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.ProgramID, &e.ProgramDayID, &e.WorkoutSessionID,
			&performedAt, &durationSec, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning program history: %w", err)
		}
		e.PerformedAt = fromMillis(performedAt)
		e.DurationSec = int64OrNil(durationSec)
		e.CreatedAt = fromMillis(createdAt)
		result = append(result, e)
	}
	return result, rows.Err()
}
