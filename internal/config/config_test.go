package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		DBPath:            filepath.Join(dir, "budget.db"),
		SettingsPath:      filepath.Join(dir, "settings.env"),
		LogLevel:          "info",
		CategoryCacheSize: 8,
		CategoryCacheTTL:  5 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "upper case log level",
			mutate:  func(c *Config) { c.LogLevel = "DEBUG" },
			wantErr: false,
		},
		{
			name:        "empty database path",
			mutate:      func(c *Config) { c.DBPath = " " },
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name:        "empty settings path",
			mutate:      func(c *Config) { c.SettingsPath = "" },
			wantErr:     true,
			errorString: "settings path cannot be empty",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose': must be one of [debug info warn error]",
		},
		{
			name:        "invalid cache size - too small",
			mutate:      func(c *Config) { c.CategoryCacheSize = 0 },
			wantErr:     true,
			errorString: "invalid category cache size 0: must be at least 1",
		},
		{
			name:        "invalid cache size - too large",
			mutate:      func(c *Config) { c.CategoryCacheSize = 100 },
			wantErr:     true,
			errorString: "invalid category cache size 100: must be at most 64",
		},
		{
			name:        "invalid cache TTL - too short",
			mutate:      func(c *Config) { c.CategoryCacheTTL = 500 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid category cache TTL 500ms: must be at least 1 second",
		},
		{
			name:        "invalid cache TTL - too long",
			mutate:      func(c *Config) { c.CategoryCacheTTL = 25 * time.Hour },
			wantErr:     true,
			errorString: "invalid category cache TTL 25h0m0s: must be at most 24 hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{DBPath: "", SettingsPath: "", LogLevel: "nope"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Config.Validate() error = nil, want error")
	}
	for _, want := range []string{"database path", "settings path", "log level", "cache size", "cache TTL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Config.Validate() error missing %q: %v", want, err)
		}
	}
}

func TestConfig_ValidateCreatesDatabaseDirectory(t *testing.T) {
	cfg := validConfig(t)
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg.DBPath = filepath.Join(dir, "budget.db")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		for _, key := range []string{"BUDGET_DB_PATH", "BUDGET_SETTINGS_PATH", "LOG_LEVEL", "CATEGORY_CACHE_SIZE", "CATEGORY_CACHE_TTL"} {
			t.Setenv(key, "")
		}

		cfg := Load()

		if cfg.DBPath != "./data/budget.db" {
			t.Errorf("Load() DBPath = %v, want ./data/budget.db", cfg.DBPath)
		}
		if cfg.SettingsPath != "./data/settings.env" {
			t.Errorf("Load() SettingsPath = %v, want ./data/settings.env", cfg.SettingsPath)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
		if cfg.CategoryCacheSize != 8 {
			t.Errorf("Load() CategoryCacheSize = %v, want 8", cfg.CategoryCacheSize)
		}
		if cfg.CategoryCacheTTL != 5*time.Minute {
			t.Errorf("Load() CategoryCacheTTL = %v, want 5m", cfg.CategoryCacheTTL)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("BUDGET_DB_PATH", "/tmp/test.db")
		t.Setenv("BUDGET_SETTINGS_PATH", "/tmp/settings.env")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("CATEGORY_CACHE_SIZE", "16")
		t.Setenv("CATEGORY_CACHE_TTL", "90s")

		cfg := Load()

		if cfg.DBPath != "/tmp/test.db" {
			t.Errorf("Load() DBPath = %v, want /tmp/test.db", cfg.DBPath)
		}
		if cfg.SettingsPath != "/tmp/settings.env" {
			t.Errorf("Load() SettingsPath = %v, want /tmp/settings.env", cfg.SettingsPath)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
		if cfg.CategoryCacheSize != 16 {
			t.Errorf("Load() CategoryCacheSize = %v, want 16", cfg.CategoryCacheSize)
		}
		if cfg.CategoryCacheTTL != 90*time.Second {
			t.Errorf("Load() CategoryCacheTTL = %v, want 90s", cfg.CategoryCacheTTL)
		}
	})

	t.Run("malformed numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("CATEGORY_CACHE_SIZE", "many")
		t.Setenv("CATEGORY_CACHE_TTL", "soon")

		cfg := Load()

		if cfg.CategoryCacheSize != 8 {
			t.Errorf("Load() CategoryCacheSize = %v, want 8", cfg.CategoryCacheSize)
		}
		if cfg.CategoryCacheTTL != 5*time.Minute {
			t.Errorf("Load() CategoryCacheTTL = %v, want 5m", cfg.CategoryCacheTTL)
		}
	})
}
