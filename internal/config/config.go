package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Driver names accepted by the data source.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultContentLimit caps how many captures a single read returns.
const DefaultContentLimit = 200

// Config holds application configuration.
// Values come from defaults, then config.json, then the environment.
type Config struct {
	// DatabaseURL is a Postgres connection string. When set, the dashboard
	// reads from Postgres.
	DatabaseURL string `json:"database_url,omitempty" env:"DATABASE_URL"`

	// Driver forces a data source driver ("postgres" or "sqlite").
	// Empty means: postgres if DatabaseURL is set, else sqlite if SQLitePath is set.
	Driver string `json:"driver,omitempty" env:"SCRAPEDASH_DRIVER"`

	// SQLitePath points at a local SQLite store with the same schema.
	SQLitePath string `json:"sqlite_path,omitempty" env:"SCRAPEDASH_SQLITE_PATH"`

	// PGSSLMode is appended as sslmode to DatabaseURL when the URL carries none.
	PGSSLMode string `json:"pg_sslmode,omitempty" env:"SCRAPEDASH_PG_SSLMODE"`

	// Bind and Port control the web UI listener.
	Bind string `json:"bind,omitempty" env:"SCRAPEDASH_BIND"`
	Port int    `json:"port,omitempty" env:"SCRAPEDASH_PORT"`

	// ContentLimit is the maximum number of captures read per request.
	ContentLimit int `json:"content_limit,omitempty" env:"SCRAPEDASH_CONTENT_LIMIT"`

	// Locale is the BCP 47 tag used when a request carries no Accept-Language.
	Locale string `json:"locale,omitempty" env:"SCRAPEDASH_LOCALE"`

	// TimeZone is an IANA zone name used for display and date-range bounds.
	// "Local" uses the process time zone.
	TimeZone string `json:"timezone,omitempty" env:"SCRAPEDASH_TIMEZONE"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" env:"SCRAPEDASH_LOG_LEVEL"`

	// LogFormat is "text" or "json".
	LogFormat string `json:"log_format,omitempty" env:"SCRAPEDASH_LOG_FORMAT"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use the driver default for the selected store.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty" env:"SCRAPEDASH_DB_MAX_OPEN_CONNS"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty" env:"SCRAPEDASH_DB_MAX_IDLE_CONNS"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty" env:"SCRAPEDASH_DISABLED_TOOLS" envSeparator:","`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Bind:         "127.0.0.1",
		Port:         8080,
		ContentLimit: DefaultContentLimit,
		Locale:       "en-US",
		TimeZone:     "Local",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// ResolvedDriver reports which driver the data source should use.
// Returns "" when no data source is configured.
func (c *Config) ResolvedDriver() string {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case DriverPostgres:
		return DriverPostgres
	case DriverSQLite:
		return DriverSQLite
	}
	if strings.TrimSpace(c.DatabaseURL) != "" {
		return DriverPostgres
	}
	if strings.TrimSpace(c.SQLitePath) != "" {
		return DriverSQLite
	}
	return ""
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.scrapedash.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.scrapedash) and repo (.scrapedash) directories.
// Repo config is found by walking upward from startDir to find the nearest .scrapedash/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// ApplyEnv overlays environment variables onto cfg and returns the result.
// Unset variables leave cfg untouched.
func ApplyEnv(cfg *Config) (*Config, error) {
	return applyEnv(cfg, env.Options{})
}

// ApplyEnvFrom is ApplyEnv over an explicit environment, for tests.
func ApplyEnvFrom(cfg *Config, environ map[string]string) (*Config, error) {
	return applyEnv(cfg, env.Options{Environment: environ})
}

func applyEnv(cfg *Config, opts env.Options) (*Config, error) {
	overlay := &Config{}
	if err := env.ParseWithOptions(overlay, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return Merge(cfg, overlay), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .scrapedash/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".scrapedash", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		DatabaseURL:    pickString(base.DatabaseURL, overlay.DatabaseURL),
		Driver:         pickString(base.Driver, overlay.Driver),
		SQLitePath:     pickString(base.SQLitePath, overlay.SQLitePath),
		PGSSLMode:      pickString(base.PGSSLMode, overlay.PGSSLMode),
		Bind:           pickString(base.Bind, overlay.Bind),
		Port:           pickInt(base.Port, overlay.Port),
		ContentLimit:   pickInt(base.ContentLimit, overlay.ContentLimit),
		Locale:         pickString(base.Locale, overlay.Locale),
		TimeZone:       pickString(base.TimeZone, overlay.TimeZone),
		LogLevel:       pickString(base.LogLevel, overlay.LogLevel),
		LogFormat:      pickString(base.LogFormat, overlay.LogFormat),
		DBMaxOpenConns: pickInt(base.DBMaxOpenConns, overlay.DBMaxOpenConns),
		DBMaxIdleConns: pickInt(base.DBMaxIdleConns, overlay.DBMaxIdleConns),
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func pickString(base, overlay string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

func pickInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
