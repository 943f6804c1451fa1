package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
)

func insertSetTx(ctx context.Context, tx queryer, s *models.WorkoutSet, now time.Time) error {
	s.CreatedAt = now
	_, err := tx.ExecContext(ctx,
		`INSERT INTO workout_sets (id, exercise_id, workout_session_id, set_number, reps, weight, completed, completed_at, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		s.ID, s.ExerciseID, s.WorkoutSessionID, s.SetNumber, s.Reps, s.Weight,
		s.Completed, millisOrNil(s.CompletedAt), millis(now))
	if err != nil {
		return fmt.Errorf("inserting set: %w", err)
	}
	return nil
}

// CreateSet persists a single set.
func (db *DB) CreateSet(ctx context.Context, s *models.WorkoutSet) error {
	return insertSetTx(ctx, db.SQL, s, db.now())
}

// CreateMultipleSets batch-inserts sets as one atomic statement; used when
// expanding program-day targets into live sets.
func (db *DB) CreateMultipleSets(ctx context.Context, sets []models.WorkoutSet) error {
	if len(sets) == 0 {
		return nil
	}
	now := millis(db.now())

	query := `INSERT INTO workout_sets (id, exercise_id, workout_session_id, set_number, reps, weight, completed, completed_at, created_at) VALUES `
	args := make([]any, 0, len(sets)*9)
	valueStrings := make([]string, 0, len(sets))

	for i := range sets {
		s := &sets[i]
		valueStrings = append(valueStrings, "(?,?,?,?,?,?,?,?,?)")
		args = append(args, s.ID, s.ExerciseID, s.WorkoutSessionID, s.SetNumber,
			s.Reps, s.Weight, s.Completed, millisOrNil(s.CompletedAt), now)
	}

	query += strings.Join(valueStrings, ",")
	if _, err := db.SQL.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting sets: %w", err)
	}
	return nil
}

// SetUpdate names the set fields a partial update may change.
type SetUpdate struct {
	Reps      *int
	Weight    *float64
	SetNumber *int
}

// UpdateSet applies only the supplied fields.
func (db *DB) UpdateSet(ctx context.Context, id string, upd SetUpdate) error {
	set, args := "", []any{}
	if upd.Reps != nil {
		set += "reps = ?, "
		args = append(args, *upd.Reps)
	}
	if upd.Weight != nil {
		set += "weight = ?, "
		args = append(args, *upd.Weight)
	}
	if upd.SetNumber != nil {
		set += "set_number = ?, "
		args = append(args, *upd.SetNumber)
	}
	if set == "" {
		return nil
	}
	args = append(args, id)

	tag, err := db.SQL.ExecContext(ctx,
		`UPDATE workout_sets SET `+strings.TrimSuffix(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating set: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("set %s: %w", id, ErrNotFound)
	}
	return nil
}

// CompleteSet marks a set done at the given time.
func (db *DB) CompleteSet(ctx context.Context, id string, completedAt time.Time) error {
	tag, err := db.SQL.ExecContext(ctx,
		`UPDATE workout_sets SET completed = 1, completed_at = ? WHERE id = ?`,
		millis(completedAt), id)
	if err != nil {
		return fmt.Errorf("completing set: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("set %s: %w", id, ErrNotFound)
	}
	return nil
}

// UncompleteSet clears a set's completion flag and timestamp.
func (db *DB) UncompleteSet(ctx context.Context, id string) error {
	tag, err := db.SQL.ExecContext(ctx,
		`UPDATE workout_sets SET completed = 0, completed_at = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("uncompleting set: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("set %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteSet removes a single set.
func (db *DB) DeleteSet(ctx context.Context, id string) error {
	tag, err := db.SQL.ExecContext(ctx, `DELETE FROM workout_sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("set %s: %w", id, ErrNotFound)
	}
	return nil
}

// SessionVolume returns Σ(reps × weight) over a session's completed sets.
func (db *DB) SessionVolume(ctx context.Context, sessionID string) (float64, error) {
	var volume float64
	err := db.SQL.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(reps * weight), 0) FROM workout_sets
		 WHERE workout_session_id = ? AND completed = 1`, sessionID).Scan(&volume)
	if err != nil {
		return 0, fmt.Errorf("querying session volume: %w", err)
	}
	return volume, nil
}

// ExerciseVolume returns Σ(reps × weight) over one exercise's completed sets.
func (db *DB) ExerciseVolume(ctx context.Context, exerciseID string) (float64, error) {
	var volume float64
	err := db.SQL.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(reps * weight), 0) FROM workout_sets
		 WHERE exercise_id = ? AND completed = 1`, exerciseID).Scan(&volume)
	if err != nil {
		return 0, fmt.Errorf("querying exercise volume: %w", err)
	}
	return volume, nil
}

// CompletedSetCount returns the number of completed sets in a session.
func (db *DB) CompletedSetCount(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := db.SQL.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workout_sets
		 WHERE workout_session_id = ? AND completed = 1`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting completed sets: %w", err)
	}
	return count, nil
}

// TotalSetCount returns the number of sets in a session, completed or not.
func (db *DB) TotalSetCount(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := db.SQL.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workout_sets WHERE workout_session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting sets: %w", err)
	}
	return count, nil
}

// ExerciseHistoryEntry is one past completed session's aggregate numbers
// for a named exercise.
type ExerciseHistoryEntry struct {
	SessionID      string    `json:"session_id"`
	SessionName    string    `json:"session_name"`
	PerformedAt    time.Time `json:"performed_at"`
	ProgramDayName *string   `json:"program_day_name,omitempty"`
	TotalSets      int       `json:"total_sets"`
	CompletedSets  int       `json:"completed_sets"`
	TotalVolume    float64   `json:"total_volume"`
	MaxWeight      float64   `json:"max_weight"`
	TotalReps      int       `json:"total_reps"`
}

// ExerciseHistory returns one row per past completed session containing
// the named exercise, most-recent-first. Volume, max weight, and rep
// totals count completed sets only; total_sets counts all of them.
func (db *DB) ExerciseHistory(ctx context.Context, exerciseName string, limit int) ([]ExerciseHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT s.id, s.name, s.start_time, s.program_day_name,
		        COUNT(st.id),
		        COALESCE(SUM(CASE WHEN st.completed = 1 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN st.completed = 1 THEN st.reps * st.weight ELSE 0 END), 0),
		        COALESCE(MAX(CASE WHEN st.completed = 1 THEN st.weight END), 0),
		        COALESCE(SUM(CASE WHEN st.completed = 1 THEN st.reps ELSE 0 END), 0)
		 FROM workout_sessions s
		 JOIN exercises e ON e.workout_session_id = s.id
		 LEFT JOIN workout_sets st ON st.exercise_id = e.id
		 WHERE LOWER(TRIM(e.name)) = ? AND s.end_time IS NOT NULL
		 GROUP BY s.id, s.name, s.start_time, s.program_day_name
		 ORDER BY s.start_time DESC
		 LIMIT ?`,
		models.NormalizeExerciseName(exerciseName), limit)
	if err != nil {
		return nil, fmt.Errorf("querying exercise history: %w", err)
	}
	defer rows.Close()

	var result []ExerciseHistoryEntry
	for rows.Next() {
		var (
			entry       ExerciseHistoryEntry
			performedAt int64
			dayName     sql.NullString
		)
		if err := rows.Scan(&entry.SessionID, &entry.SessionName, &performedAt, &dayName,
			&entry.TotalSets, &entry.CompletedSets, &entry.TotalVolume,
			&entry.MaxWeight, &entry.TotalReps); err != nil {
			return nil, fmt.Errorf("scanning exercise history: %w", err)
		}
		entry.PerformedAt = fromMillis(performedAt)
		entry.ProgramDayName = strOrNil(dayName)
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (db *DB) setsForSession(ctx context.Context, sessionID string) ([]models.WorkoutSet, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, exercise_id, workout_session_id, set_number, reps, weight, completed, completed_at, created_at
		 FROM workout_sets
		 WHERE workout_session_id = ?
		 ORDER BY set_number ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSet
	for rows.Next() {
		var (
			s           models.WorkoutSet
			completedAt sql.NullInt64
			createdAt   int64
		)
		if err := rows.Scan(&s.ID, &s.ExerciseID, &s.WorkoutSessionID, &s.SetNumber,
			&s.Reps, &s.Weight, &s.Completed, &completedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		s.CompletedAt = timeOrNil(completedAt)
		s.CreatedAt = fromMillis(createdAt)
		result = append(result, s)
	}
	return result, rows.Err()
}
