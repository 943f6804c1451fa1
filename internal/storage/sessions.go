package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
)

const sessionCols = `id, template_id, template_name, program_id, program_day_id, program_day_name,
	 name, start_time, end_time, duration_sec, notes, created_at, updated_at`

// CreateSessionWithExercises persists a session, its exercises, and any
// pre-populated sets as one atomic batch. The caller supplies contiguous
// exercise positions (0-based) and set numbers (1-based within each
// exercise); the store does not renumber.
func (db *DB) CreateSessionWithExercises(ctx context.Context, s *models.WorkoutSession, exercises []models.Exercise) error {
	now := db.now()
	s.CreatedAt = now
	s.UpdatedAt = now

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO workout_sessions (`+sessionCols+`)
			 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			s.ID, argOrNil(s.TemplateID), argOrNil(s.TemplateName),
			argOrNil(s.ProgramID), argOrNil(s.ProgramDayID), argOrNil(s.ProgramDayName),
			s.Name, millis(s.StartTime), millisOrNil(s.EndTime), argOrNil(s.DurationSec),
			argOrNil(s.Notes), millis(now), millis(now))
		if err != nil {
			return fmt.Errorf("inserting session: %w", err)
		}

		for i := range exercises {
			e := &exercises[i]
			e.WorkoutSessionID = s.ID
			if err := insertExerciseTx(ctx, tx, e, now); err != nil {
				return err
			}
			for j := range e.Sets {
				set := &e.Sets[j]
				set.ExerciseID = e.ID
				set.WorkoutSessionID = s.ID
				if err := insertSetTx(ctx, tx, set, now); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Exercises = exercises
	return nil
}

// GetSession retrieves a session with its exercises and sets, exercises
// ordered by position and sets by set number.
func (db *DB) GetSession(ctx context.Context, id string) (*models.WorkoutSession, error) {
	row := db.SQL.QueryRowContext(ctx,
		`SELECT `+sessionCols+` FROM workout_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}

	exercises, err := db.exercisesForSession(ctx, id)
	if err != nil {
		return nil, err
	}
	sets, err := db.setsForSession(ctx, id)
	if err != nil {
		return nil, err
	}
	byExercise := make(map[string][]models.WorkoutSet, len(exercises))
	for _, set := range sets {
		byExercise[set.ExerciseID] = append(byExercise[set.ExerciseID], set)
	}
	for i := range exercises {
		exercises[i].Sets = byExercise[exercises[i].ID]
	}
	s.Exercises = exercises
	return s, nil
}

// GetActiveSession returns the session with no end time, or nil when
// every session is finished.
func (db *DB) GetActiveSession(ctx context.Context) (*models.WorkoutSession, error) {
	row := db.SQL.QueryRowContext(ctx,
		`SELECT `+sessionCols+` FROM workout_sessions
		 WHERE end_time IS NULL
		 ORDER BY start_time DESC LIMIT 1`)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying active session: %w", err)
	}
	return s, nil
}

// ListSessions retrieves sessions most-recent-first, without nested
// exercises. A non-positive limit defaults to 50.
func (db *DB) ListSessions(ctx context.Context, limit int) ([]models.WorkoutSession, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT `+sessionCols+` FROM workout_sessions
		 ORDER BY start_time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// SessionUpdate names the session fields a partial update may change.
type SessionUpdate struct {
	Name      *string
	Notes     *string
	StartTime *time.Time
}

// UpdateSession applies only the supplied fields and stamps updated_at.
// An update with no fields is accepted and performs no write.
func (db *DB) UpdateSession(ctx context.Context, id string, upd SessionUpdate) error {
	set, args := "", []any{}
	if upd.Name != nil {
		set += "name = ?, "
		args = append(args, *upd.Name)
	}
	if upd.Notes != nil {
		set += "notes = ?, "
		args = append(args, *upd.Notes)
	}
	if upd.StartTime != nil {
		set += "start_time = ?, "
		args = append(args, millis(*upd.StartTime))
	}
	if set == "" {
		return nil
	}
	args = append(args, millis(db.now()), id)

	tag, err := db.SQL.ExecContext(ctx,
		`UPDATE workout_sessions SET `+set+`updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

// CompleteSession stamps the end time and computed duration on a session.
// Duration is whole seconds, floored, never negative. The write is atomic
// and happens once: a session that already has an end time is rejected with
// ErrAlreadyCompleted so the completion side effects cannot re-run. Program
// side effects are sequenced by the tracker, not here.
func (db *DB) CompleteSession(ctx context.Context, id string, endTime time.Time) (*models.WorkoutSession, error) {
	row := db.SQL.QueryRowContext(ctx,
		`SELECT `+sessionCols+` FROM workout_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}
	if s.EndTime != nil {
		return nil, fmt.Errorf("session %s: %w", id, ErrAlreadyCompleted)
	}

	duration := int64(endTime.Sub(s.StartTime) / time.Second)
	if duration < 0 {
		duration = 0
	}
	now := db.now()
	tag, err := db.SQL.ExecContext(ctx,
		`UPDATE workout_sessions SET end_time = ?, duration_sec = ?, updated_at = ? WHERE id = ? AND end_time IS NULL`,
		millis(endTime), duration, millis(now), id)
	if err != nil {
		return nil, fmt.Errorf("completing session: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("session %s: %w", id, ErrAlreadyCompleted)
	}

	end := endTime
	s.EndTime = &end
	s.DurationSec = &duration
	s.UpdatedAt = now
	return s, nil
}

// DeleteSession removes a session; owned exercises and sets cascade.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	tag, err := db.SQL.ExecContext(ctx, `DELETE FROM workout_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanSession(row interface{ Scan(dest ...any) error }) (*models.WorkoutSession, error) {
	var (
		s                             models.WorkoutSession
		templateID, templateName      sql.NullString
		programID, dayID, dayName     sql.NullString
		startTime, createdAt, updated int64
		endTime, durationSec          sql.NullInt64
		notes                         sql.NullString
	)
	err := row.Scan(&s.ID, &templateID, &templateName, &programID, &dayID, &dayName,
		&s.Name, &startTime, &endTime, &durationSec, &notes, &createdAt, &updated)
	if err != nil {
		return nil, err
	}
	s.TemplateID = strOrNil(templateID)
	s.TemplateName = strOrNil(templateName)
	s.ProgramID = strOrNil(programID)
	s.ProgramDayID = strOrNil(dayID)
	s.ProgramDayName = strOrNil(dayName)
	s.StartTime = fromMillis(startTime)
	s.EndTime = timeOrNil(endTime)
	s.DurationSec = int64OrNil(durationSec)
	s.Notes = strOrNil(notes)
	s.CreatedAt = fromMillis(createdAt)
	s.UpdatedAt = fromMillis(updated)
	return &s, nil
}
