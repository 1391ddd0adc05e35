package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite"

	"github.com/hpungsan/scrapedash/internal/config"
	"github.com/hpungsan/scrapedash/internal/errors"
)

// CurrentSchemaVersion is the latest local (SQLite) schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

const (
	// DefaultMaxOpenConns is the default maximum number of open Postgres connections
	DefaultMaxOpenConns = 10

	// DefaultMaxIdleConns is the default maximum number of idle Postgres connections
	DefaultMaxIdleConns = 5

	// DefaultConnMaxLifetime is the default maximum lifetime of a connection
	DefaultConnMaxLifetime = 5 * time.Minute

	// DefaultPingTimeout bounds health checks against the store
	DefaultPingTimeout = 5 * time.Second
)

// Source is the read-only handle on the captures store.
// It is created once at startup and shared by every request.
type Source struct {
	db     *sqlx.DB
	driver string
}

// NewSource wraps an already-open database. driver is "postgres" or
// "sqlite" and selects placeholder style and tag decoding.
func NewSource(db *sql.DB, driver string) *Source {
	return &Source{db: sqlx.NewDb(db, driverName(driver)), driver: driver}
}

// Open opens the store selected by cfg. When nothing is configured it
// returns a SOURCE_UNAVAILABLE error and a nil Source.
// Postgres connections are lazy: Open does not fail when the server is
// down; use Ping to check reachability.
func Open(cfg *config.Config) (*Source, error) {
	switch cfg.ResolvedDriver() {
	case config.DriverPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, errors.NewSourceUnavailable("DATABASE_URL is not set")
		}
		return OpenPostgres(cfg.DatabaseURL, cfg)
	case config.DriverSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return nil, errors.NewSourceUnavailable("sqlite_path is not set")
		}
		src, err := InitSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		ConfigurePool(src, cfg)
		return src, nil
	}
	return nil, errors.NewSourceUnavailable("DATABASE_URL is not set")
}

// OpenPostgres opens a pooled Postgres handle for dsn.
func OpenPostgres(dsn string, cfg *config.Config) (*Source, error) {
	if cfg != nil {
		dsn = withSSLMode(dsn, cfg.PGSSLMode)
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	src := &Source{db: db, driver: config.DriverPostgres}
	ConfigurePool(src, cfg)
	return src, nil
}

// withSSLMode appends sslmode to dsn unless it already carries one.
// Handles both URL and key=value connection strings.
func withSSLMode(dsn, mode string) string {
	mode = strings.TrimSpace(mode)
	if mode == "" || strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("sslmode", mode)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return strings.TrimSpace(dsn) + " sslmode=" + mode
}

// InitSQLite opens (creating if needed) a local SQLite store at path and
// brings its schema up to date.
func InitSQLite(path string) (*Source, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Pragmas in the connection string apply to every pooled connection
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db.DB); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db.DB); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(path, 0600)

	return &Source{db: db, driver: config.DriverSQLite}, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(src *Source, cfg *config.Config) {
	if src == nil || cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		src.db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		src.db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// Driver reports the driver name ("postgres" or "sqlite").
func (s *Source) Driver() string {
	return s.driver
}

// DB exposes the underlying pool for maintenance commands and tests.
func (s *Source) DB() *sql.DB {
	return s.db.DB
}

// Ping checks that the store is reachable.
func (s *Source) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return errors.NewSourceUnavailable(err.Error())
	}
	return nil
}

// Close closes the pool. Safe on a nil Source.
func (s *Source) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func driverName(driver string) string {
	if driver == config.DriverSQLite {
		return "sqlite"
	}
	return "postgres"
}

// migrate applies schema migrations based on user_version.
// The schema mirrors the tables the external scraper writes to.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS scraped_content (
		  id          TEXT PRIMARY KEY,
		  title       TEXT,
		  summary     TEXT,
		  source_url  TEXT,
		  captured_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		  tags        TEXT,
		  raw_text    TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_scraped_content_captured
		ON scraped_content(captured_at DESC, id DESC);

		CREATE TABLE IF NOT EXISTS urls (
		  id     TEXT PRIMARY KEY,
		  url    TEXT NOT NULL,
		  active BOOLEAN NOT NULL DEFAULT 1
		);

		CREATE INDEX IF NOT EXISTS idx_urls_url ON urls(url);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
