package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

const programCols = `id, name, description, is_active, current_day_index, total_workouts_completed, created_at, updated_at`

// CreateProgram persists a program row. Days are added separately.
func (db *DB) CreateProgram(ctx context.Context, p *models.Program) error {
	now := db.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := db.SQL.ExecContext(ctx,
		`INSERT INTO programs (`+programCols+`) VALUES (?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, argOrNil(p.Description), p.IsActive,
		p.CurrentDayIndex, p.TotalWorkoutsCompleted, millis(now), millis(now))
	if err != nil {
		return fmt.Errorf("inserting program: %w", err)
	}
	return nil
}

// GetProgram retrieves a flat program row without days.
func (db *DB) GetProgram(ctx context.Context, id string) (*models.Program, error) {
	row := db.SQL.QueryRowContext(ctx,
		`SELECT `+programCols+` FROM programs WHERE id = ?`, id)
	p, err := scanProgram(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("program %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("querying program: %w", err)
	}
	return p, nil
}

// ListPrograms retrieves all programs, active first, then by name.
func (db *DB) ListPrograms(ctx context.Context) ([]models.Program, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT `+programCols+` FROM programs ORDER BY is_active DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	var result []models.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

// GetActiveProgram returns the single active program, or nil when none is
// active.
func (db *DB) GetActiveProgram(ctx context.Context) (*models.Program, error) {
	row := db.SQL.QueryRowContext(ctx,
		`SELECT `+programCols+` FROM programs WHERE is_active = 1 LIMIT 1`)
	p, err := scanProgram(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying active program: %w", err)
	}
	return p, nil
}

// ProgramUpdate names the program fields a partial update may change.
// Rotation state is owned by AdvanceProgramDay and is not updatable here.
type ProgramUpdate struct {
	Name        *string
	Description *string
}

// UpdateProgram applies only the supplied fields and stamps updated_at.
func (db *DB) UpdateProgram(ctx context.Context, id string, upd ProgramUpdate) error {
	set, args := "", []any{}
	if upd.Name != nil {
		set += "name = ?, "
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		set += "description = ?, "
		args = append(args, *upd.Description)
	}
	if set == "" {
		return nil
	}
	args = append(args, millis(db.now()), id)

	tag, err := db.SQL.ExecContext(ctx,
		`UPDATE programs SET `+set+`updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating program: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("program %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteProgram removes a program; days, their exercises, and explicit
// targets cascade. History rows are retained as a permanent audit trail.
func (db *DB) DeleteProgram(ctx context.Context, id string) error {
	tag, err := db.SQL.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting program: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return fmt.Errorf("program %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetActiveProgram clears the active flag on every program and sets it on
// the target, as one transaction, so the single-active-program invariant
// holds even if a step fails.
func (db *DB) SetActiveProgram(ctx context.Context, id string) error {
	now := millis(db.now())
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE programs SET is_active = 0 WHERE is_active = 1`); err != nil {
			return fmt.Errorf("clearing active programs: %w", err)
		}
		tag, err := tx.ExecContext(ctx,
			`UPDATE programs SET is_active = 1, updated_at = ? WHERE id = ?`, now, id)
		if err != nil {
			return fmt.Errorf("activating program: %w", err)
		}
		if n, _ := tag.RowsAffected(); n == 0 {
			return fmt.Errorf("program %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// GetProgramWithDaysAndExercises assembles the full nested structure:
// days ordered by day index, exercises by position, explicit targets by
// set number. Returns nil (no error) for an unknown program id.
func (db *DB) GetProgramWithDaysAndExercises(ctx context.Context, id string) (*models.Program, error) {
	p, err := db.GetProgram(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	days, err := db.daysForProgram(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range days {
		exercises, err := db.exercisesForDay(ctx, days[i].ID)
		if err != nil {
			return nil, err
		}
		days[i].Exercises = exercises
	}
	p.Days = days
	return p, nil
}

// GetNextProgramDay returns the day whose index matches the program's
// rotation pointer. Returns nil when the program has no days or the
// stored index is stale; callers must handle nil.
func (db *DB) GetNextProgramDay(ctx context.Context, programID string) (*models.ProgramDay, error) {
	p, err := db.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	row := db.SQL.QueryRowContext(ctx,
		`SELECT id, program_id, day_index, name, created_at, updated_at
		 FROM program_days
		 WHERE program_id = ? AND day_index = ?`,
		programID, p.CurrentDayIndex)
	day, err := scanProgramDay(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying next program day: %w", err)
	}
	return day, nil
}

// AdvanceProgramDay rotates the program's day pointer after a completed
// session. The new index is (completed day's index + 1) mod dayCount —
// keyed to the day actually performed, not the stored pointer, so
// completing an out-of-order day still advances relative to it. The index
// write and the workout counter increment land together. A zero-day
// program or a completed-day id no longer in the program is a non-fatal
// no-op, logged as a warning; an unknown program is the caller's error.
// Returns whether the rotation state changed.
func (db *DB) AdvanceProgramDay(ctx context.Context, programID, completedDayID string) (bool, error) {
	advanced := false
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM programs WHERE id = ?`, programID).Scan(&exists); err != nil {
			return fmt.Errorf("querying program: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("program %s: %w", programID, ErrNotFound)
		}

		var dayCount int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM program_days WHERE program_id = ?`, programID).Scan(&dayCount); err != nil {
			return fmt.Errorf("counting program days: %w", err)
		}
		if dayCount == 0 {
			db.log.Warn("program has no days, rotation skipped", "program_id", programID)
			return nil
		}

		var completedIndex int
		err := tx.QueryRowContext(ctx,
			`SELECT day_index FROM program_days WHERE id = ? AND program_id = ?`,
			completedDayID, programID).Scan(&completedIndex)
		if errors.Is(err, sql.ErrNoRows) {
			// Day deleted mid-session; do not guess a fallback index.
			db.log.Warn("completed day no longer in program, rotation skipped",
				"program_id", programID, "program_day_id", completedDayID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("querying completed day: %w", err)
		}

		newIndex := (completedIndex + 1) % dayCount
		_, err = tx.ExecContext(ctx,
			`UPDATE programs
			 SET current_day_index = ?, total_workouts_completed = total_workouts_completed + 1, updated_at = ?
			 WHERE id = ?`,
			newIndex, millis(db.now()), programID)
		if err != nil {
			return fmt.Errorf("advancing program day: %w", err)
		}
		advanced = true
		return nil
	})
	return advanced, err
}

func (db *DB) daysForProgram(ctx context.Context, programID string) ([]models.ProgramDay, error) {
	rows, err := db.SQL.QueryContext(ctx,
		`SELECT id, program_id, day_index, name, created_at, updated_at
		 FROM program_days
		 WHERE program_id = ?
		 ORDER BY day_index ASC`, programID)
	if err != nil {
		return nil, fmt.Errorf("querying program days: %w", err)
	}
	defer rows.Close()

	var result []models.ProgramDay
	for rows.Next() {
		day, err := scanProgramDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning program day: %w", err)
		}
		result = append(result, *day)
	}
	return result, rows.Err()
}

func scanProgram(row interface{ Scan(dest ...any) error }) (*models.Program, error) {
	var (
		p                  models.Program
		description        sql.NullString
		createdAt, updated int64
	)
	err := row.Scan(&p.ID, &p.Name, &description, &p.IsActive,
		&p.CurrentDayIndex, &p.TotalWorkoutsCompleted, &createdAt, &updated)
	if err != nil {
		return nil, err
	}
	p.Description = strOrNil(description)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updated)
	return &p, nil
}

func scanProgramDay(row interface{ Scan(dest ...any) error }) (*models.ProgramDay, error) {
	var (
		d                  models.ProgramDay
		createdAt, updated int64
	)
	err := row.Scan(&d.ID, &d.ProgramID, &d.DayIndex, &d.Name, &createdAt, &updated)
	if err != nil {
		return nil, err
	}
	d.CreatedAt = fromMillis(createdAt)
	d.UpdatedAt = fromMillis(updated)
	return &d, nil
}
