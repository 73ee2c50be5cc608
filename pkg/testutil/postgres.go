// Package testutil starts disposable infrastructure for integration tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pkgpostgres "github.com/bibbank/scam-service/pkg/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
}

// NewPostgresContainer starts a PostgreSQL container and applies the
// migrations in migrationsDir. The container is terminated when the test ends.
func NewPostgresContainer(ctx context.Context, t *testing.T, migrationsDir string) *PostgresContainer {
	t.Helper()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("scam"),
		postgres.WithUsername("scam"),
		postgres.WithPassword("scam"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	pc := &PostgresContainer{Container: pgContainer}
	t.Cleanup(func() { pc.cleanup(t) })

	pc.DSN, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	abs, err := filepath.Abs(migrationsDir)
	if err != nil {
		t.Fatalf("failed to resolve migrations directory %s: %v", migrationsDir, err)
	}
	if _, err := pkgpostgres.RunMigrations(pc.DSN, "file://"+abs); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	pc.Pool, err = pkgpostgres.NewPool(ctx, pkgpostgres.Config{URL: pc.DSN, MaxConns: 4})
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	return pc
}

func (pc *PostgresContainer) cleanup(t *testing.T) {
	t.Helper()

	if pc.Pool != nil {
		pc.Pool.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := pc.Container.Terminate(ctx); err != nil {
		t.Logf("warning: failed to terminate postgres container: %v", err)
	}
}
