package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mansoorceksport/picdrop/internal/domain"
	"github.com/mansoorceksport/picdrop/internal/migrations"
	"github.com/pressly/goose/v3"
)

// PostgresUserRepository implements domain.UserRepository
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a new user repository on an open connection
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Insert persists a new user row and returns its auto-assigned id.
// A nil profileReference persists NULL.
func (r *PostgresUserRepository) Insert(ctx context.Context, profileReference *string) (int64, error) {
	query :=
		`INSERT INTO users (profile_reference)
		 VALUES ($1)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, profileReference).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	return id, nil
}

// OpenPostgres opens a pgx-backed connection pool, verifies it and runs
// the embedded schema migrations.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.UpContext(ctx, db, "."); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return db, nil
}
