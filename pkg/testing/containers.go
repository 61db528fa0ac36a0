// Package testing starts the backing stores used by integration tests.
package testing

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage      = "postgres:17.5"
	elasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.12.0"
	startupTimeout     = 60 * time.Second
)

// RequireIntegration skips tb under -short.
func RequireIntegration(tb testing.TB) {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping container backed test in short mode")
	}
}

type PGContainer struct {
	Container  testcontainers.Container
	ConnString string
}

// NewPGContainer starts postgres with every db/migrations/*.up.sql applied
// in name order. The container is terminated when tb finishes.
func NewPGContainer(ctx context.Context, tb testing.TB) *PGContainer {
	tb.Helper()
	RequireIntegration(tb)

	migrations, err := upMigrations()
	if err != nil {
		tb.Fatalf("failed to find migrations: %v", err)
	}

	pgContainer, err := postgres.Run(ctx,
		postgresImage,
		postgres.WithDatabase("rag_test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(migrations...),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(startupTimeout),
		),
	)
	terminateOnCleanup(tb, pgContainer)
	if err != nil {
		tb.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("failed to get postgres connection string: %v", err)
	}

	return &PGContainer{
		Container:  pgContainer,
		ConnString: connStr,
	}
}

type ESContainer struct {
	Container testcontainers.Container
	Address   string
}

// NewESContainer starts a single node Elasticsearch reachable over plain
// http. The container is terminated when tb finishes.
func NewESContainer(ctx context.Context, tb testing.TB) *ESContainer {
	tb.Helper()
	RequireIntegration(tb)

	esContainer, err := elasticsearch.Run(ctx,
		elasticsearchImage,
		elasticsearch.WithPassword(""),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/").
				WithPort("9200").
				WithStartupTimeout(startupTimeout),
		),
	)
	terminateOnCleanup(tb, esContainer)
	if err != nil {
		tb.Fatalf("failed to start elasticsearch container: %v", err)
	}

	host, err := esContainer.Host(ctx)
	if err != nil {
		tb.Fatalf("failed to get elasticsearch host: %v", err)
	}
	port, err := esContainer.MappedPort(ctx, "9200")
	if err != nil {
		tb.Fatalf("failed to get elasticsearch port: %v", err)
	}

	return &ESContainer{
		Container: esContainer,
		Address:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}
}

func terminateOnCleanup(tb testing.TB, c testcontainers.Container) {
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c); err != nil {
			tb.Logf("failed to terminate container: %v", err)
		}
	})
}

func upMigrations() ([]string, error) {
	_, self, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(self), "..", "..", "db", "migrations")

	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no up migrations in %s", dir)
	}
	slices.Sort(files)
	return files, nil
}
