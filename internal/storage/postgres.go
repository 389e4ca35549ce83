package storage

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres is the shared-database backend for multi-instance deployments.
type Postgres struct {
	sqlStore
}

// NewPostgres opens a PostgreSQL connection pool using the provided DSN,
// verifies it with a ping, and applies pending migrations.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: postgres open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: postgres ping: %w", err)
	}

	if err := migrate(db, "postgres"); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("postgres storage ready")
	return &Postgres{sqlStore{db: db}}, nil
}
