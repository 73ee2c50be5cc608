package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// RunMigrations brings the schema up to the newest migration in source
// (e.g. "file://migrations") and returns the resulting schema version.
// A schema left dirty by a failed migration is reported, not repaired.
func RunMigrations(dsn, source string) (uint, error) {
	m, err := migrate.New(source, dsn)
	if err != nil {
		return 0, fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if _, dirty, err := m.Version(); err == nil && dirty {
		return 0, errors.New("postgres: schema is dirty, fix the failed migration and force its version")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("postgres: run migrations up: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, nil
		}
		return 0, fmt.Errorf("postgres: read schema version: %w", err)
	}
	return version, nil
}
