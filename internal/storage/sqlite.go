package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLite is the embedded-database backend. It needs no external service,
// making it the default for single-node deployments.
type SQLite struct {
	sqlStore
}

// NewSQLite opens (creating if necessary) the SQLite database at path and
// applies pending migrations.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("storage: sqlite open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: sqlite ping: %w", err)
	}

	if err := migrate(db, "sqlite3"); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("sqlite storage ready", "path", path)
	return &SQLite{sqlStore{db: db}}, nil
}
