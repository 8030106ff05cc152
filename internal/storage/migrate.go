package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"budget/internal/log"
)

// CurrentVersion is the schema version this build expects.
const CurrentVersion uint = 3

//go:embed migrations/*.sql
var migrationsFS embed.FS

//go:embed schema/current.sql
var currentSchema string

// MigrationReport describes what RunMigrations did.
type MigrationReport struct {
	From     uint
	To       uint
	Fresh    bool
	Repaired bool
	Failed   []StepFailure
}

// StepFailure records a migration step that failed and was skipped.
type StepFailure struct {
	Version uint
	Err     error
}

// OK reports whether every step applied cleanly.
func (r MigrationReport) OK() bool {
	return len(r.Failed) == 0
}

// RunMigrations brings the store at dbPath up to CurrentVersion.
//
// A fresh store gets the current schema directly. Existing stores are
// upgraded one version at a time; a failing step is logged, marked as
// applied and the remaining steps still run. Only problems opening the
// store or reading its version are returned as errors.
func RunMigrations(ctx context.Context, dbPath string, logger *log.Logger) (MigrationReport, error) {
	if logger == nil {
		logger = log.Discard()
	}
	// Create a separate connection for migrations to avoid interfering with the main connection
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return MigrationReport{}, fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	m, err := newMigrator(migrateDB)
	if err != nil {
		return MigrationReport{}, err
	}
	defer m.Close()

	logger = logger.WithComponent(log.ComponentMigrate)
	start := time.Now()
	report, err := applyMigrations(ctx, m, migrateDB, CurrentVersion, logger)
	if err == nil {
		logger.DebugContext(ctx, "Migrations finished",
			log.FieldOperation, log.OpMigrate,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
	return report, err
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

func applyMigrations(ctx context.Context, m *migrate.Migrate, db *sql.DB, target uint, logger *log.Logger) (MigrationReport, error) {
	var report MigrationReport

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		exists, err := tableExists(ctx, db, "transactions")
		if err != nil {
			return report, fmt.Errorf("inspect schema: %w", err)
		}
		if !exists {
			if err := createCurrentSchema(ctx, db); err != nil {
				return report, fmt.Errorf("create schema: %w", err)
			}
			if err := m.Force(int(target)); err != nil {
				return report, fmt.Errorf("record schema version: %w", err)
			}
			logger.InfoContext(ctx, "Created fresh schema", log.FieldVersion, target)
			return MigrationReport{To: target, Fresh: true}, nil
		}

		// Tables without version bookkeeping come from the first release.
		logger.WarnContext(ctx, "Unversioned schema found, assuming version 1")
		if err := m.Force(1); err != nil {
			return report, fmt.Errorf("record legacy version: %w", err)
		}
		version = 1
	case err != nil:
		return report, fmt.Errorf("read schema version: %w", err)
	}

	if dirty {
		logger.WarnContext(ctx, "Schema left dirty by an earlier run, continuing", log.FieldVersion, version)
		if err := m.Force(int(version)); err != nil {
			return report, fmt.Errorf("clear dirty version %d: %w", version, err)
		}
	}

	report.From = version
	if version > target {
		logger.WarnContext(ctx, "Schema is newer than this build", log.FieldVersion, version, "expected", target)
	}

	for version < target {
		next := version + 1
		if err := m.Steps(1); err != nil {
			logger.ErrorContext(ctx, "Migration step failed, skipping",
				log.FieldVersion, next,
				log.FieldError, err)
			report.Failed = append(report.Failed, StepFailure{Version: next, Err: err})

			if ferr := m.Force(int(next)); ferr != nil {
				return report, fmt.Errorf("skip failed version %d: %w", next, ferr)
			}
		} else {
			logger.InfoContext(ctx, "Applied migration", log.FieldVersion, next)
		}
		version = next
	}

	if !report.OK() {
		if err := repairSchema(ctx, db); err != nil {
			return report, fmt.Errorf("repair schema: %w", err)
		}
		report.Repaired = true
		logger.WarnContext(ctx, "Schema repaired after skipped steps",
			log.FieldCount, len(report.Failed))
	}

	report.To = version
	return report, nil
}

// repairSchema brings a store whose upgrade skipped steps to the current
// shape. Every statement is idempotent: tables and seeds come from the
// current schema and only missing columns are added.
func repairSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, currentSchema); err != nil {
		return err
	}

	columns := []struct{ table, column, def string }{
		{"user", "currency", "TEXT DEFAULT '$'"},
		{"transactions", "category_id", "INTEGER REFERENCES categories(id)"},
	}
	for _, c := range columns {
		ok, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", c.table, c.column, c.def)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add %s.%s: %w", c.table, c.column, err)
		}
	}

	_, err := db.ExecContext(ctx, `
UPDATE transactions
SET category_id = (SELECT id FROM categories WHERE name = 'Uncategorized' LIMIT 1)
WHERE category_id IS NULL
  AND EXISTS (SELECT 1 FROM categories WHERE name = 'Uncategorized')`)
	return err
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func createCurrentSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, currentSchema); err != nil {
		return err
	}
	return tx.Commit()
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
