package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// GetPR returns the record for an (exercise, reps) pair, or nil when none
// exists. The exercise name is case-normalized before lookup.
func (db *DB) GetPR(ctx context.Context, exerciseName string, reps int) (*models.PRRecord, error) {
	row := db.SQL.QueryRowContext(ctx,
		`SELECT id, exercise_name, reps, weight, workout_session_id, achieved_at, created_at
		 FROM pr_records
		 WHERE exercise_name = ? AND reps = ?`,
		models.NormalizeExerciseName(exerciseName), reps)
	rec, err := scanPR(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying pr record: %w", err)
	}
	return rec, nil
}

// IsNewPR reports whether the weight would set a new record for the pair.
// Matching the existing record's weight is not a new PR.
func (db *DB) IsNewPR(ctx context.Context, exerciseName string, reps int, weight float64) (bool, error) {
	existing, err := db.GetPR(ctx, exerciseName, reps)
	if err != nil {
		return false, err
	}
	return existing == nil || weight > existing.Weight, nil
}

// RecordPR inserts the candidate, or atomically replaces the existing
// record when the candidate's weight is strictly greater. The
// UNIQUE(exercise_name, reps) constraint plus the conditional upsert keeps
// exactly one row per pair with the maximum weight ever submitted; equal
// or lesser candidates are discarded. Returns whether the record changed.
func (db *DB) RecordPR(ctx context.Context, rec models.PRRecord) (bool, error) {
	now := db.now()
	tag, err := db.SQL.ExecContext(ctx,
		`INSERT INTO pr_records (id, exercise_name, reps, weight, workout_session_id, achieved_at, created_at)
		 VALUES (?,?,?,?,?,?,?)
		 ON CONFLICT (exercise_name, reps) DO UPDATE SET
		     weight = excluded.weight,
		     workout_session_id = excluded.workout_session_id,
		     achieved_at = excluded.achieved_at
		 WHERE excluded.weight > pr_records.weight`,
		rec.ID, models.NormalizeExerciseName(rec.ExerciseName), rec.Reps, rec.Weight,
		rec.WorkoutSessionID, millis(rec.AchievedAt), millis(now))
	if err != nil {
		return false, fmt.Errorf("recording pr: %w", err)
	}
	n, _ := tag.RowsAffected()
	return n > 0, nil
}

// ListPRs returns all records ordered by exercise name, then rep count.
func (db *DB) ListPRs(ctx context.Context) ([]models.PRRecord, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, exercise_name, reps, weight, workout_session_id, achieved_at, created_at
		 FROM pr_records
		 ORDER BY exercise_name ASC, reps ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying pr records: %w", err)
	}
	defer rows.Close()

	var result []models.PRRecord
	for rows.Next() {
		rec, err := scanPR(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pr record: %w", err)
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

// DeletePR removes a record directly. Corrective maintenance only; normal
// operation never deletes records.
func (db *DB) DeletePR(ctx context.Context, id string) error {
	tag, err := db.SQL.ExecContext(ctx, `DELETE FROM pr_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting pr record: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("pr record %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanPR(row interface{ Scan(dest ...any) error }) (*models.PRRecord, error) {
	var (
		rec                   models.PRRecord
		achievedAt, createdAt int64
	)
	err := row.Scan(&rec.ID, &rec.ExerciseName, &rec.Reps, &rec.Weight,
		&rec.WorkoutSessionID, &achievedAt, &createdAt)
	if err != nil {
		return nil, err
	}
	rec.AchievedAt = fromMillis(achievedAt)
	rec.CreatedAt = fromMillis(createdAt)
	return &rec, nil
}
