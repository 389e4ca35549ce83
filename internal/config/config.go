// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the
// application.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration values loaded from the
// environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Storage backend: "memory", "file", "sqlite", "postgres", "redis"
	StorageBackend string
	DataDir        string // file backend
	SQLitePath     string // sqlite backend
	PostgresDSN    string // postgres backend
	RedisAddr      string // redis backend
	RedisPassword  string
	RedisDB        int

	// Seed admin credentials, written on first start of an empty store.
	AdminEmail    string
	AdminPassword string

	// S3-compatible object storage for profile images (optional).
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are left at their defaults in production mode.
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(envOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("config: REDIS_DB must be an integer: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		StorageBackend: envOrDefault("STORAGE_BACKEND", "sqlite"),
		DataDir:        envOrDefault("DATA_DIR", "./data"),
		SQLitePath:     envOrDefault("SQLITE_PATH", "./data/inkwell.db"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		RedisAddr:      envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,

		AdminEmail:    envOrDefault("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: envOrDefault("ADMIN_PASSWORD", "password123"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "inkwell-media"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	if cfg.Env == "production" {
		if cfg.AdminPassword == "password123" {
			return nil, fmt.Errorf("config: ADMIN_PASSWORD must be set in production")
		}
		if cfg.StorageBackend == "postgres" && cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("config: POSTGRES_DSN must be set for the postgres backend")
		}
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset
// or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
