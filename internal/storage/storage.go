// Package storage provides the durable keyed-slot store backing all record
// collections. A slot maps a string key to an opaque byte value (in practice
// a JSON-encoded sequence of records). Five interchangeable backends are
// provided: in-process memory, JSON files, embedded SQLite, PostgreSQL, and
// Redis. Writes replace the slot wholesale — last writer wins.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the slot has never been written.
// Callers treat absence as a seeding trigger, not a failure.
var ErrNotFound = errors.New("storage: slot not found")

// Store is the durable slot interface. Implementations must guarantee that
// a Set followed by a Get in the same process observes the written value.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key wholesale.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the slot. Deleting an absent slot is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}

// Options selects and configures a storage backend.
type Options struct {
	Backend string // "memory", "file", "sqlite", "postgres", "redis"

	DataDir     string // file backend: directory for slot files
	SQLitePath  string // sqlite backend: database file path
	PostgresDSN string // postgres backend: connection string

	RedisAddr     string // redis backend: host:port
	RedisPassword string
	RedisDB       int
}

// Open creates the store selected by opts.Backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(opts.DataDir)
	case "sqlite":
		return NewSQLite(opts.SQLitePath)
	case "postgres":
		return NewPostgres(opts.PostgresDSN)
	case "redis":
		return NewRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}
}
