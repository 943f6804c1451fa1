package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// CreateProgramDay adds a day slot to a program. DayIndex must be unique
// within the program; the caller assigns it.
func (db *DB) CreateProgramDay(ctx context.Context, d *models.ProgramDay) error {
	now := db.now()
	d.CreatedAt = now
	d.UpdatedAt = now
	_, err := db.SQL.ExecContext(ctx,
		`INSERT INTO program_days (id, program_id, day_index, name, created_at, updated_at)
		 VALUES (?,?,?,?,?,?)`,
		d.ID, d.ProgramID, d.DayIndex, d.Name, millis(now), millis(now))
	if err != nil {
		return fmt.Errorf("inserting program day: %w", err)
	}
	return nil
}

// ProgramDayUpdate names the day fields a partial update may change.
type ProgramDayUpdate struct {
	Name     *string
	DayIndex *int
}

// UpdateProgramDay applies only the supplied fields and stamps updated_at.
func (db *DB) UpdateProgramDay(ctx context.Context, id string, upd ProgramDayUpdate) error {
	set, args := "", []any{}
	if upd.Name != nil {
		set += "name = ?, "
		args = append(args, *upd.Name)
	}
	if upd.DayIndex != nil {
		set += "day_index = ?, "
		args = append(args, *upd.DayIndex)
	}
	if set == "" {
		return nil
	}
	args = append(args, millis(db.now()), id)

	tag, err := db.SQL.ExecContext(ctx,
		`UPDATE program_days SET `+set+`updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating program day: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("program day %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteProgramDay removes a day; its exercises and targets cascade.
func (db *DB) DeleteProgramDay(ctx context.Context, id string) error {
	tag, err := db.SQL.ExecContext(ctx, `DELETE FROM program_days WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting program day: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("program day %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetProgramDay retrieves one day with its exercises and explicit targets.
func (db *DB) GetProgramDay(ctx context.Context, id string) (*models.ProgramDay, error) {
	row := db.SQL.QueryRowContext(ctx,
		`SELECT id, program_id, day_index, name, created_at, updated_at
		 FROM program_days WHERE id = ?`, id)
	day, err := scanProgramDay(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("program day %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("querying program day: %w", err)
	}
	exercises, err := db.exercisesForDay(ctx, id)
	if err != nil {
		return nil, err
	}
	day.Exercises = exercises
	return day, nil
}

// CreateProgramDayExercise adds a target exercise to a day, with any
// explicit per-set targets, as one atomic batch.
func (db *DB) CreateProgramDayExercise(ctx context.Context, e *models.ProgramDayExercise) error {
	now := db.now()
	e.CreatedAt = now
	e.UpdatedAt = now
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO program_day_exercises
			 (id, program_day_id, exercise_name, position, target_sets, target_reps, target_weight, rest_seconds, notes, created_at, updated_at)
			 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			e.ID, e.ProgramDayID, e.ExerciseName, e.Position,
			argOrNil(e.TargetSets), argOrNil(e.TargetReps), argOrNil(e.TargetWeight),
			argOrNil(e.RestSeconds), argOrNil(e.Notes), millis(now), millis(now))
		if err != nil {
			return fmt.Errorf("inserting program day exercise: %w", err)
		}
		for i := range e.ExplicitSets {
			t := &e.ExplicitSets[i]
			t.ProgramDayExerciseID = e.ID
			if err := insertSetTargetTx(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

// ProgramDayExerciseUpdate names the fields a partial update may change.
type ProgramDayExerciseUpdate struct {
	ExerciseName *string
	Position     *int
	TargetSets   *int
	TargetReps   *int
	TargetWeight *float64
	RestSeconds  *int
	Notes        *string
}

// UpdateProgramDayExercise applies only the supplied fields.
func (db *DB) UpdateProgramDayExercise(ctx context.Context, id string, upd ProgramDayExerciseUpdate) error {
	set, args := "", []any{}
	if upd.ExerciseName != nil {
		set += "exercise_name = ?, "
		args = append(args, *upd.ExerciseName)
	}
	if upd.Position != nil {
		set += "position = ?, "
		args = append(args, *upd.Position)
	}
	if upd.TargetSets != nil {
		set += "target_sets = ?, "
		args = append(args, *upd.TargetSets)
	}
	if upd.TargetReps != nil {
		set += "target_reps = ?, "
		args = append(args, *upd.TargetReps)
	}
	if upd.TargetWeight != nil {
		set += "target_weight = ?, "
		args = append(args, *upd.TargetWeight)
	}
	if upd.RestSeconds != nil {
		set += "rest_seconds = ?, "
		args = append(args, *upd.RestSeconds)
	}
	if upd.Notes != nil {
		set += "notes = ?, "
		args = append(args, *upd.Notes)
	}
	if set == "" {
		return nil
	}
	args = append(args, millis(db.now()), id)

	tag, err := db.SQL.ExecContext(ctx,
		`UPDATE program_day_exercises SET `+set+`updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating program day exercise: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("program day exercise %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteProgramDayExercise removes a target exercise; explicit targets
// cascade.
func (db *DB) DeleteProgramDayExercise(ctx context.Context, id string) error {
	tag, err := db.SQL.ExecContext(ctx, `DELETE FROM program_day_exercises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting program day exercise: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("program day exercise %s: %w", id, ErrNotFound)
	}
	return nil
}

// ReplaceExplicitTargets swaps a day exercise's explicit per-set targets
// for a new list in one transaction.
func (db *DB) ReplaceExplicitTargets(ctx context.Context, dayExerciseID string, targets []models.SetTarget) error {
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM program_day_exercise_sets WHERE program_day_exercise_id = ?`, dayExerciseID); err != nil {
			return fmt.Errorf("clearing explicit targets: %w", err)
		}
		for i := range targets {
			t := &targets[i]
			t.ProgramDayExerciseID = dayExerciseID
			if err := insertSetTargetTx(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertSetTargetTx(ctx context.Context, tx queryer, t *models.SetTarget) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO program_day_exercise_sets (id, program_day_exercise_id, set_number, target_reps, target_weight)
		 VALUES (?,?,?,?,?)`,
		t.ID, t.ProgramDayExerciseID, t.SetNumber, t.TargetReps, t.TargetWeight)
	if err != nil {
		return fmt.Errorf("inserting explicit target: %w", err)
	}
	return nil
}

func (db *DB) exercisesForDay(ctx context.Context, dayID string) ([]models.ProgramDayExercise, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, program_day_id, exercise_name, position, target_sets, target_reps, target_weight, rest_seconds, notes, created_at, updated_at
		 FROM program_day_exercises
		 WHERE program_day_id = ?
		 ORDER BY position ASC`, dayID)
	if err != nil {
		return nil, fmt.Errorf("querying program day exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ProgramDayExercise
	for rows.Next() {
		var (
			e                      models.ProgramDayExercise
			targetSets, targetReps sql.NullInt64
			targetWeight           sql.NullFloat64
			restSeconds            sql.NullInt64
			notes                  sql.NullString
			createdAt, updated     int64
		)
		if err := rows.Scan(&e.ID, &e.ProgramDayID, &e.ExerciseName, &e.Position,
			&targetSets, &targetReps, &targetWeight, &restSeconds, &notes,
			&createdAt, &updated); err != nil {
			return nil, fmt.Errorf("scanning program day exercise: %w", err)
		}
		e.TargetSets = intOrNil(targetSets)
		e.TargetReps = intOrNil(targetReps)
		e.TargetWeight = f64OrNil(targetWeight)
		e.RestSeconds = intOrNil(restSeconds)
		e.Notes = strOrNil(notes)
		e.CreatedAt = fromMillis(createdAt)
		e.UpdatedAt = fromMillis(updated)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		targets, err := db.explicitTargetsFor(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].ExplicitSets = targets
	}
	return result, nil
}

func (db *DB) explicitTargetsFor(ctx context.Context, dayExerciseID string) ([]models.SetTarget, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, program_day_exercise_id, set_number, target_reps, target_weight
		 FROM program_day_exercise_sets
		 WHERE program_day_exercise_id = ?
		 ORDER BY set_number ASC`, dayExerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying explicit targets: %w", err)
	}
	defer rows.Close()

	var result []models.SetTarget
	for rows.Next() {
		var t models.SetTarget
		if err := rows.Scan(&t.ID, &t.ProgramDayExerciseID, &t.SetNumber,
			&t.TargetReps, &t.TargetWeight); err != nil {
			return nil, fmt.Errorf("scanning explicit target: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
