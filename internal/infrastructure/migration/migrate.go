// Package migration applies the SQL schema with golang-migrate and scaffolds
// new migration files.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Runner applies migrations to a Postgres database
type Runner struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// Status is the schema version recorded in schema_migrations
type Status struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
	// Applied is false when no migration has ever run
	Applied bool `json:"applied"`
}

// NewFromFS reads migrations from an embedded filesystem (see the migrations package)
func NewFromFS(db *sql.DB, migrations fs.FS, logger *zap.Logger) (*Runner, error) {
	src, err := iofs.New(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Runner{migrate: m, logger: logger}, nil
}

// NewFromDir reads migrations from a directory on disk
func NewFromDir(db *sql.DB, dir string, logger *zap.Logger) (*Runner, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Runner{migrate: m, logger: logger}, nil
}

// Up applies all pending migrations
func (r *Runner) Up() error {
	return r.apply("up", r.migrate.Up)
}

// Down rolls back every migration
func (r *Runner) Down() error {
	return r.apply("down", r.migrate.Down)
}

// Steps applies n migrations; negative n rolls back
func (r *Runner) Steps(n int) error {
	return r.apply(fmt.Sprintf("step %d", n), func() error { return r.migrate.Steps(n) })
}

// GoTo migrates up or down to version
func (r *Runner) GoTo(version uint) error {
	return r.apply(fmt.Sprintf("goto %d", version), func() error { return r.migrate.Migrate(version) })
}

func (r *Runner) apply(op string, fn func() error) error {
	r.logger.Info("Running migration", zap.String("op", op))

	if err := fn(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.logger.Info("Schema already up to date", zap.String("op", op))
			return nil
		}
		return fmt.Errorf("migration %s failed: %w", op, err)
	}

	st, err := r.Status()
	if err != nil {
		return err
	}
	r.logger.Info("Migration completed",
		zap.String("op", op),
		zap.Uint("version", st.Version),
		zap.Bool("dirty", st.Dirty),
	)
	return nil
}

// Status returns the current schema version
func (r *Runner) Status() (Status, error) {
	version, dirty, err := r.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("failed to get migration version: %w", err)
	}
	return Status{Version: version, Dirty: dirty, Applied: true}, nil
}

// Force records version as clean without running anything. It is the way
// out of a dirty state after a failed migration has been fixed by hand.
func (r *Runner) Force(version int) error {
	r.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := r.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles
func (r *Runner) Close() error {
	sourceErr, dbErr := r.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}
