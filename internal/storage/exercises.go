package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
)

func insertExerciseTx(ctx context.Context, tx queryer, e *models.Exercise, now time.Time) error {
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := tx.ExecContext(ctx,
		`INSERT INTO exercises (id, workout_session_id, name, position, notes, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?)`,
		e.ID, e.WorkoutSessionID, e.Name, e.Position, argOrNil(e.Notes), millis(now), millis(now))
	if err != nil {
		return fmt.Errorf("inserting exercise: %w", err)
	}
	return nil
}

// CreateExercise adds an exercise (and any pre-populated sets) to a
// session in one atomic batch.
func (db *DB) CreateExercise(ctx context.Context, e *models.Exercise) error {
	now := db.now()
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := insertExerciseTx(ctx, tx, e, now); err != nil {
			return err
		}
		for i := range e.Sets {
			set := &e.Sets[i]
			set.ExerciseID = e.ID
			set.WorkoutSessionID = e.WorkoutSessionID
			if err := insertSetTx(ctx, tx, set, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// ExerciseUpdate names the exercise fields a partial update may change.
type ExerciseUpdate struct {
	Name     *string
	Notes    *string
	Position *int
}

// UpdateExercise applies only the supplied fields and stamps updated_at.
func (db *DB) UpdateExercise(ctx context.Context, id string, upd ExerciseUpdate) error {
	set, args := "", []any{}
	if upd.Name != nil {
		set += "name = ?, "
		args = append(args, *upd.Name)
	}
	if upd.Notes != nil {
		set += "notes = ?, "
		args = append(args, *upd.Notes)
	}
	if upd.Position != nil {
		set += "position = ?, "
		args = append(args, *upd.Position)
	}
	if set == "" {
		return nil
	}
	args = append(args, millis(db.now()), id)

	tag, err := db.SQL.ExecContext(ctx,
		`UPDATE exercises SET `+set+`updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating exercise: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteExercise removes an exercise; its sets cascade.
func (db *DB) DeleteExercise(ctx context.Context, id string) error {
	tag, err := db.SQL.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	return nil
}

// ExerciseOrder names one exercise's new position after a drag-reorder.
type ExerciseOrder struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// ReorderExercises updates every named exercise's position in one
// transaction; an unknown id rolls back the whole batch.
func (db *DB) ReorderExercises(ctx context.Context, orders []ExerciseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	now := millis(db.now())
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, o := range orders {
			tag, err := tx.ExecContext(ctx,
				`UPDATE exercises SET position = ?, updated_at = ? WHERE id = ?`,
				o.Position, now, o.ID)
			if err != nil {
				return fmt.Errorf("reordering exercise: %w", err)
			}
			if n, _ := tag.RowsAffected(); n == 0 {
				return fmt.Errorf("exercise %s: %w", o.ID, ErrNotFound)
			}
		}
		return nil
	})
}

func (db *DB) exercisesForSession(ctx context.Context, sessionID string) ([]models.Exercise, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, workout_session_id, name, position, notes, created_at, updated_at
		 FROM exercises
		 WHERE workout_session_id = ?
		 ORDER BY position ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var (
			e                  models.Exercise
			notes              sql.NullString
			createdAt, updated int64
		)
		if err := rows.Scan(&e.ID, &e.WorkoutSessionID, &e.Name, &e.Position,
			&notes, &createdAt, &updated); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		e.Notes = strOrNil(notes)
		e.CreatedAt = fromMillis(createdAt)
		e.UpdatedAt = fromMillis(updated)
		result = append(result, e)
	}
	return result, rows.Err()
}
