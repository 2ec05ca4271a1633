package config

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid sqlite backend config",
			config:  Config{DataBackend: "sqlite", SQLiteDBPath: "./test.db", LogLevel: "info"},
			wantErr: false,
		},
		{
			name:    "valid memory backend config",
			config:  Config{DataBackend: "memory", LogLevel: "debug"},
			wantErr: false,
		},
		{
			name:        "invalid backend",
			config:      Config{DataBackend: "postgres", SQLiteDBPath: "./test.db"},
			wantErr:     true,
			errorString: "invalid data backend 'postgres'",
		},
		{
			name:        "sqlite without path",
			config:      Config{DataBackend: "sqlite", SQLiteDBPath: ""},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "invalid log level",
			config:      Config{DataBackend: "memory", LogLevel: "loud"},
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("error %q does not contain %q", err, tt.errorString)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_ValidateCreatesDBDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := Config{DataBackend: "sqlite", SQLiteDBPath: filepath.Join(dir, "agenda.db")}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_BACKEND", "")
	t.Setenv("SQLITE_DB_PATH", "")
	cfg := Load()
	if cfg.DataBackend != "sqlite" {
		t.Fatalf("default backend: got %s", cfg.DataBackend)
	}
	if cfg.SQLiteDBPath == "" {
		t.Fatalf("default db path must be set")
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := Config{LogLevel: in}
		got, err := cfg.SlogLevel()
		if err != nil || got != want {
			t.Fatalf("level %q: got %v err %v", in, got, err)
		}
	}
	if _, err := (&Config{LogLevel: "bogus"}).SlogLevel(); err == nil {
		t.Fatalf("expected error")
	}
}
