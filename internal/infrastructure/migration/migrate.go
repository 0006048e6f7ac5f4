package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator applies versioned SQL migrations against the rentledger
// database via golang-migrate.
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// New builds a Migrator for an open database connection and a directory
// of *.up.sql / *.down.sql file pairs.
func New(db *sql.DB, migrationsPath string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}

	return &Migrator{m: m, log: log}, nil
}

// Up applies every pending migration.
func (mg *Migrator) Up() error {
	err := mg.m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		mg.log.Info("schema already up to date")
		return nil
	case err != nil:
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := mg.m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	mg.log.Info("schema migrated", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Down rolls every migration back.
func (mg *Migrator) Down() error {
	err := mg.m.Down()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		mg.log.Info("nothing to roll back")
		return nil
	case err != nil:
		return fmt.Errorf("roll back migrations: %w", err)
	}
	mg.log.Info("all migrations rolled back")
	return nil
}

// Steps applies n migrations; a negative n rolls back.
func (mg *Migrator) Steps(n int) error {
	err := mg.m.Steps(n)
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		mg.log.Info("schema already up to date")
		return nil
	case err != nil:
		return fmt.Errorf("apply %d migration steps: %w", n, err)
	}

	version, dirty, err := mg.m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	mg.log.Info("migration steps applied",
		zap.Int("steps", n),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version reports the current schema version. A database with no applied
// migrations reports version 0.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded schema version without running any SQL.
// Only for recovering a dirty schema_migrations row.
func (mg *Migrator) Force(version int) error {
	mg.log.Warn("forcing schema version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force schema version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database handle: %w", dbErr)
	}
	return nil
}
