// Package migration runs SQL schema migrations with golang-migrate.
package migration

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"github.com/flowdesk-inc/flowdesk/internal/shared/logger"
)

// Runner applies the versioned SQL scripts under scriptsPath.
type Runner struct {
	scriptsPath string
	logger      logger.Interface
}

// NewRunner creates a migration runner.
func NewRunner(scriptsPath string, log logger.Interface) *Runner {
	return &Runner{
		scriptsPath: scriptsPath,
		logger:      log.With("component", "migration"),
	}
}

// Up applies all pending migrations.
func (r *Runner) Up(db *gorm.DB) error {
	m, closer, err := r.instance(db)
	if err != nil {
		return err
	}
	defer closer()

	currentVersion, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, _, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get final migration version: %w", err)
	}

	r.logger.Infow("migration completed",
		"from_version", currentVersion,
		"to_version", finalVersion)
	return nil
}

// Down rolls back the given number of migrations.
func (r *Runner) Down(db *gorm.DB, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	m, closer, err := r.instance(db)
	if err != nil {
		return err
	}
	defer closer()

	if err := m.Steps(-steps); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	r.logger.Infow("rollback completed", "steps", steps)
	return nil
}

// Version reports the current schema version.
func (r *Runner) Version(db *gorm.DB) (uint, bool, error) {
	m, closer, err := r.instance(db)
	if err != nil {
		return 0, false, err
	}
	defer closer()

	version, dirty, err := m.Version()
	if err != nil {
		if err == migrate.ErrNilVersion {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

func (r *Runner) instance(db *gorm.DB) (*migrate.Migrate, func(), error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	m, err := r.create(sqlDB)
	if err != nil {
		return nil, nil, err
	}

	closer := func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			r.logger.Warnw("failed to close migrate instance",
				"source_error", sourceErr, "db_error", dbErr)
		}
	}
	return m, closer, nil
}

func (r *Runner) create(sqlDB *sql.DB) (*migrate.Migrate, error) {
	driver, err := mysql.WithInstance(sqlDB, &mysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create MySQL driver: %w", err)
	}

	sourceURL := fmt.Sprintf("file://%s", r.scriptsPath)
	m, err := migrate.NewWithDatabaseInstance(sourceURL, "mysql", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
