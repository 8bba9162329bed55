package tests

import (
	"context"
	"database/sql"
	"log"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/mansoorceksport/picdrop/internal/repository"
)

// SetupTestDB spins up a fresh PostgreSQL container, runs the embedded
// migrations and returns the database handle along with a cleanup function.
func SetupTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	db, err := repository.OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	return db, func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close db: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %v", err)
		}
	}
}
