package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	liftlog "github.com/claude/liftlog"
	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle and provides repository methods.
type DB struct {
	SQL *sql.DB
	log *slog.Logger

	// now stamps created_at/updated_at; overridable in tests.
	now func() time.Time
}

// New opens (or creates) the SQLite database at path. Foreign keys are
// enforced and WAL mode is enabled.
func New(path string, log *slog.Logger) (*DB, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	// Single local writer; serializing connections avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	return &DB{SQL: sqlDB, log: log, now: time.Now}, nil
}

// Close closes the database handle.
func (db *DB) Close() error {
	return db.SQL.Close()
}

// RunMigrations applies all pending schema migrations from the embedded
// migrations directory.
func (db *DB) RunMigrations() error {
	src, err := iofs.New(liftlog.MigrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	driver, err := sqlitemigrate.WithInstance(db.SQL, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// WithTx runs fn inside a transaction. Any error rolls back every
// statement in the batch; otherwise the batch commits as one unit.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
