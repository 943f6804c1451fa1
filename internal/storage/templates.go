package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// CreateTemplate persists a template and its exercise list as one atomic
// batch.
func (db *DB) CreateTemplate(ctx context.Context, t *models.WorkoutTemplate) error {
	now := db.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO workout_templates (id, name, notes, created_at, updated_at)
			 VALUES (?,?,?,?,?)`,
			t.ID, t.Name, argOrNil(t.Notes), millis(now), millis(now))
		if err != nil {
			return fmt.Errorf("inserting template: %w", err)
		}
		for i := range t.Exercises {
			e := &t.Exercises[i]
			e.TemplateID = t.ID
			if err := insertTemplateExerciseTx(ctx, tx, e, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTemplate retrieves a template with its ordered exercise list.
func (db *DB) GetTemplate(ctx context.Context, id string) (*models.WorkoutTemplate, error) {
	row := db.SQL.QueryRowContext(ctx,
		`SELECT id, name, notes, created_at, updated_at FROM workout_templates WHERE id = ?`, id)

	var (
		t                  models.WorkoutTemplate
		notes              sql.NullString
		createdAt, updated int64
	)
	err := row.Scan(&t.ID, &t.Name, &notes, &createdAt, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("querying template: %w", err)
	}
	t.Notes = strOrNil(notes)
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updated)

	exercises, err := db.exercisesForTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Exercises = exercises
	return &t, nil
}

// ListTemplates retrieves all templates, by name, without exercises.
func (db *DB) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, name, notes, created_at, updated_at FROM workout_templates ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutTemplate
	for rows.Next() {
		var (
			t                  models.WorkoutTemplate
			notes              sql.NullString
			createdAt, updated int64
		)
		if err := rows.Scan(&t.ID, &t.Name, &notes, &createdAt, &updated); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		t.Notes = strOrNil(notes)
		t.CreatedAt = fromMillis(createdAt)
		t.UpdatedAt = fromMillis(updated)
		result = append(result, t)
	}
	return result, rows.Err()
}

// TemplateUpdate names the template fields a partial update may change.
type TemplateUpdate struct {
	Name  *string
	Notes *string
}

// UpdateTemplate applies only the supplied fields and stamps updated_at.
func (db *DB) UpdateTemplate(ctx context.Context, id string, upd TemplateUpdate) error {
	set, args := "", []any{}
	if upd.Name != nil {
		set += "name = ?, "
		args = append(args, *upd.Name)
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
		`UPDATE workout_templates SET `+set+`updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating template: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return nil
}

// ReplaceTemplateExercises swaps a template's exercise list for a new one
// in a single transaction, bumping the template's updated_at.
func (db *DB) ReplaceTemplateExercises(ctx context.Context, templateID string, exercises []models.TemplateExercise) error {
	now := db.now()
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		tag, err := tx.ExecContext(ctx,
			`UPDATE workout_templates SET updated_at = ? WHERE id = ?`, millis(now), templateID)
		if err != nil {
			return fmt.Errorf("updating template: %w", err)
		}
		if n, _ := tag.RowsAffected(); n == 0 {
			return fmt.Errorf("template %s: %w", templateID, ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM template_exercises WHERE template_id = ?`, templateID); err != nil {
			return fmt.Errorf("clearing template exercises: %w", err)
		}
		for i := range exercises {
			e := &exercises[i]
			e.TemplateID = templateID
			if err := insertTemplateExerciseTx(ctx, tx, e, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteTemplate removes a template; its exercises cascade. Sessions
// started from it keep their provenance fields.
func (db *DB) DeleteTemplate(ctx context.Context, id string) error {
	tag, err := db.SQL.ExecContext(ctx, `DELETE FROM workout_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return nil
}

func insertTemplateExerciseTx(ctx context.Context, tx queryer, e *models.TemplateExercise, now time.Time) error {
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := tx.ExecContext(ctx,
		`INSERT INTO template_exercises (id, template_id, name, position, target_sets, target_reps, target_weight, notes, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.TemplateID, e.Name, e.Position,
		argOrNil(e.TargetSets), argOrNil(e.TargetReps), argOrNil(e.TargetWeight),
		argOrNil(e.Notes), millis(now), millis(now))
	if err != nil {
		return fmt.Errorf("inserting template exercise: %w", err)
	}
	return nil
}

func (db *DB) exercisesForTemplate(ctx context.Context, templateID string) ([]models.TemplateExercise, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, template_id, name, position, target_sets, target_reps, target_weight, notes, created_at, updated_at
		 FROM template_exercises
		 WHERE template_id = ?
		 ORDER BY position ASC`, templateID)
	if err != nil {
		return nil, fmt.Errorf("querying template exercises: %w", err)
	}
	defer rows.Close()

	var result []models.TemplateExercise
	for rows.Next() {
		var (
			e                      models.TemplateExercise
			targetSets, targetReps sql.NullInt64
			targetWeight           sql.NullFloat64
			notes                  sql.NullString
			createdAt, updated     int64
		)
		if err := rows.Scan(&e.ID, &e.TemplateID, &e.Name, &e.Position,
			&targetSets, &targetReps, &targetWeight, &notes, &createdAt, &updated); err != nil {
			return nil, fmt.Errorf("scanning template exercise: %w", err)
		}
		e.TargetSets = intOrNil(targetSets)
		e.TargetReps = intOrNil(targetReps)
		e.TargetWeight = f64OrNil(targetWeight)
		e.Notes = strOrNil(notes)
		e.CreatedAt = fromMillis(createdAt)
		e.UpdatedAt = fromMillis(updated)
		result = append(result, e)
	}
	return result, rows.Err()
}
