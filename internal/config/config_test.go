package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ContentLimit != DefaultContentLimit {
		t.Fatalf("ContentLimit = %d, want %d", cfg.ContentLimit, DefaultContentLimit)
	}
	if cfg.Port != 8080 {
		t.Fatalf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.ResolvedDriver() != "" {
		t.Fatalf("ResolvedDriver() = %q, want empty (unconfigured)", cfg.ResolvedDriver())
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	body := `{"content_limit": 50, "sqlite_path": "/tmp/captures.db", "locale": "de-DE"}`
	if err := os.WriteFile(configPath, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ContentLimit != 50 {
		t.Fatalf("ContentLimit = %d, want 50", cfg.ContentLimit)
	}
	if cfg.Locale != "de-DE" {
		t.Fatalf("Locale = %q, want de-DE", cfg.Locale)
	}
	if cfg.ResolvedDriver() != DriverSQLite {
		t.Fatalf("ResolvedDriver() = %q, want sqlite", cfg.ResolvedDriver())
	}
	// Untouched scalars keep defaults
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestApplyEnvFrom_OverlaysSetVariables(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SQLitePath = "/from/file.db"

	got, err := ApplyEnvFrom(cfg, map[string]string{
		"DATABASE_URL":              "postgres://u:p@localhost/scraper",
		"SCRAPEDASH_PORT":           "9090",
		"SCRAPEDASH_DISABLED_TOOLS": "url_list, content_tags",
	})
	if err != nil {
		t.Fatalf("ApplyEnvFrom() error = %v", err)
	}

	if got.DatabaseURL != "postgres://u:p@localhost/scraper" {
		t.Errorf("DatabaseURL = %q", got.DatabaseURL)
	}
	if got.Port != 9090 {
		t.Errorf("Port = %d, want 9090", got.Port)
	}
	if got.SQLitePath != "/from/file.db" {
		t.Errorf("SQLitePath = %q, want value from file preserved", got.SQLitePath)
	}
	if got.ResolvedDriver() != DriverPostgres {
		t.Errorf("ResolvedDriver() = %q, want postgres (DATABASE_URL wins)", got.ResolvedDriver())
	}
	if len(got.DisabledTools) != 2 || got.DisabledTools[0] != "url_list" || got.DisabledTools[1] != "content_tags" {
		t.Errorf("DisabledTools = %v, want [url_list content_tags]", got.DisabledTools)
	}
}

func TestApplyEnvFrom_EmptyEnvironment(t *testing.T) {
	cfg := DefaultConfig()

	got, err := ApplyEnvFrom(cfg, map[string]string{})
	if err != nil {
		t.Fatalf("ApplyEnvFrom() error = %v", err)
	}
	if got.ContentLimit != DefaultContentLimit || got.Bind != "127.0.0.1" {
		t.Errorf("defaults not preserved: %+v", got)
	}
}

func TestApplyEnvFrom_InvalidInt(t *testing.T) {
	if _, err := ApplyEnvFrom(DefaultConfig(), map[string]string{"SCRAPEDASH_PORT": "eighty"}); err == nil {
		t.Fatal("ApplyEnvFrom() expected error for non-numeric port")
	}
}

func TestResolvedDriver(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "nothing configured", cfg: Config{}, want: ""},
		{name: "database url", cfg: Config{DatabaseURL: "postgres://x"}, want: DriverPostgres},
		{name: "sqlite path", cfg: Config{SQLitePath: "a.db"}, want: DriverSQLite},
		{name: "both prefers postgres", cfg: Config{DatabaseURL: "postgres://x", SQLitePath: "a.db"}, want: DriverPostgres},
		{name: "explicit driver", cfg: Config{Driver: "SQLite", DatabaseURL: "postgres://x"}, want: DriverSQLite},
		{name: "whitespace url ignored", cfg: Config{DatabaseURL: "   "}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolvedDriver(); got != tt.want {
				t.Errorf("ResolvedDriver() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{ContentLimit: 200, DBMaxOpenConns: 5}
	overlay := &Config{ContentLimit: 20} // DBMaxOpenConns is 0 (zero value)

	result := Merge(base, overlay)

	if result.ContentLimit != 20 {
		t.Errorf("ContentLimit = %d, want 20 (overlay)", result.ContentLimit)
	}
	if result.DBMaxOpenConns != 5 {
		t.Errorf("DBMaxOpenConns = %d, want 5 (base, overlay is zero)", result.DBMaxOpenConns)
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{DisabledTools: []string{"url_list", "content_tags"}}
	overlay := &Config{DisabledTools: []string{"content_tags", " content_list "}}

	result := Merge(base, overlay)

	if len(result.DisabledTools) != 3 {
		t.Fatalf("DisabledTools length = %d, want 3 (merged, deduped)", len(result.DisabledTools))
	}
	for i, want := range []string{"url_list", "content_tags", "content_list"} {
		if result.DisabledTools[i] != want {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, result.DisabledTools[i], want)
		}
	}
}

func TestFindRepoConfig_InParentDir(t *testing.T) {
	tmpDir := t.TempDir()
	dashDir := filepath.Join(tmpDir, ".scrapedash")
	if err := os.MkdirAll(dashDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	configPath := filepath.Join(dashDir, "config.json")
	if err := os.WriteFile(configPath, []byte(`{}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	subdir := filepath.Join(tmpDir, "subdir", "deeper")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	found := FindRepoConfig(subdir)
	if found != configPath {
		t.Errorf("FindRepoConfig() = %q, want %q", found, configPath)
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	tmpDir := t.TempDir()

	if found := FindRepoConfig(tmpDir); found != "" {
		t.Errorf("FindRepoConfig() = %q, want empty string", found)
	}
}

func TestLoadWithRepo_RepoWins(t *testing.T) {
	globalDir := t.TempDir()
	repoDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(`{"port": 7000, "locale": "fr-FR"}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	dashDir := filepath.Join(repoDir, ".scrapedash")
	if err := os.MkdirAll(dashDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dashDir, "config.json"), []byte(`{"port": 7100}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadWithRepo(globalDir, repoDir)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.Port != 7100 {
		t.Errorf("Port = %d, want 7100 (repo)", cfg.Port)
	}
	if cfg.Locale != "fr-FR" {
		t.Errorf("Locale = %q, want fr-FR (global)", cfg.Locale)
	}
	if cfg.ContentLimit != DefaultContentLimit {
		t.Errorf("ContentLimit = %d, want default", cfg.ContentLimit)
	}
}
