package testing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// IntegrationEnv must be set to 1 for container-backed tests to run.
const IntegrationEnv = "SWEEP_INTEGRATION"

type PGContainer struct {
	Container  testcontainers.Container
	ConnString string
}

type PGConfig struct {
	Image    string
	Database string
	Username string
	Password string
}

func IntegrationEnabled() bool {
	return os.Getenv(IntegrationEnv) == "1"
}

// SkipUnlessIntegration skips tb when container tests are disabled.
func SkipUnlessIntegration(tb testing.TB) {
	tb.Helper()
	if !IntegrationEnabled() {
		tb.Skipf("set %s=1 to run integration tests", IntegrationEnv)
	}
}

func NewPGContainer(ctx context.Context, cfg PGConfig) (*PGContainer, error) {
	if cfg.Image == "" {
		cfg.Image = "postgres:17.5"
	}

	scripts, err := migrationScripts()
	if err != nil {
		return nil, err
	}

	pgContainer, err := postgres.Run(ctx,
		cfg.Image,
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		postgres.WithInitScripts(scripts...),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(pgContainer)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PGContainer{Container: pgContainer, ConnString: connStr}, nil
}

// NewPGContainerWithCleanup starts a database with the sweep schema and
// terminates it when tb finishes.
func NewPGContainerWithCleanup(ctx context.Context, tb testing.TB) *PGContainer {
	tb.Helper()
	SkipUnlessIntegration(tb)

	c, err := NewPGContainer(ctx, PGConfig{
		Database: "sweep_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		tb.Fatalf("failed to create postgres container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c.Container); err != nil {
			tb.Logf("failed to terminate postgres container: %v", err)
		}
	})
	return c
}

func migrationScripts() ([]string, error) {
	_, file, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(file), "..", "..", "db", "migrations")

	scripts, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to find migration files: %w", err)
	}
	if len(scripts) == 0 {
		return nil, fmt.Errorf("no migration files in %s", dir)
	}
	sort.Strings(scripts)
	return scripts, nil
}
