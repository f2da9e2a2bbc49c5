package config

import (
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"CALC_HISTORY_DIR", "CALC_HISTORY_FILE", "CALC_BACKUP_DIR", "CALC_HISTORY_DRIVER",
		"LOG_LEVEL", "LOG_DIR", "LOG_FILE_PREFIX", "LOG_CONSOLE",
		"CALC_ADMIN_ADDR", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got, want := cfg.HistoryPath(), filepath.Join("logs", "calculation_history.csv"); got != want {
		t.Fatalf("expected history path %q, got %q", want, got)
	}
	if got, want := cfg.BackupDir, filepath.Join("logs", "history_backups"); got != want {
		t.Fatalf("expected backup dir %q, got %q", want, got)
	}
	if cfg.HistoryDriver != DriverCSV {
		t.Fatalf("expected driver %q, got %q", DriverCSV, cfg.HistoryDriver)
	}
	if cfg.LogLevel != "INFO" || cfg.LogFilePrefix != "app" || cfg.LogConsole {
		t.Fatalf("unexpected log settings %+v", cfg)
	}
	if cfg.AdminAddr != "" || cfg.OTLPEndpoint != "" {
		t.Fatalf("expected optional surfaces disabled, got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CALC_HISTORY_DIR", "/var/calc")
	t.Setenv("CALC_HISTORY_DRIVER", "SQLite")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_CONSOLE", "true")
	t.Setenv("CALC_ADMIN_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got, want := cfg.HistoryPath(), filepath.Join("/var/calc", "calculation_history.db"); got != want {
		t.Fatalf("expected history path %q, got %q", want, got)
	}
	if got, want := cfg.BackupDir, filepath.Join("/var/calc", "history_backups"); got != want {
		t.Fatalf("expected backup dir %q, got %q", want, got)
	}
	if cfg.LogLevel != "DEBUG" || !cfg.LogConsole || cfg.AdminAddr != ":9090" {
		t.Fatalf("unexpected settings %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string][2]string{
		"unknown driver": {"CALC_HISTORY_DRIVER", "postgres"},
		"bad bool":       {"LOG_CONSOLE", "sometimes"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
