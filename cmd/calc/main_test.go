package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"calc-ledger/internal/config"
	"calc-ledger/internal/history"
)

func TestOpenStoreDrivers(t *testing.T) {
	for _, driver := range []string{config.DriverCSV, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			dir := t.TempDir()
			cfg := config.Config{
				HistoryDir:    dir,
				HistoryFile:   "history." + driver,
				BackupDir:     filepath.Join(dir, "backups"),
				HistoryDriver: driver,
			}

			store, err := openStore(context.Background(), cfg)
			if err != nil {
				t.Fatalf("opening store: %v", err)
			}
			if err := store.Append(context.Background(), history.Group{Input: "1 + 2", Result: 3}); err != nil {
				t.Fatalf("append: %v", err)
			}
			if err := store.Close(context.Background()); err != nil {
				t.Fatalf("close: %v", err)
			}

			reopened, err := openStore(context.Background(), cfg)
			if err != nil {
				t.Fatalf("reopening store: %v", err)
			}
			defer reopened.Close(context.Background())

			if got, err := reopened.LastResult(); err != nil || got != 3 {
				t.Fatalf("expected persisted result 3, got %v (%v)", got, err)
			}
		})
	}
}

func TestLoadDotEnvMissingFileIsIgnored(t *testing.T) {
	chdir(t, t.TempDir())

	if err := loadDotEnv(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	chdir(t, t.TempDir())
	if err := os.WriteFile(".env", []byte("CALC_HISTORY_DIR=from-file\nCALC_TEST_ONLY=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CALC_HISTORY_DIR", "from-env")
	t.Setenv("CALC_TEST_ONLY", "")
	os.Unsetenv("CALC_TEST_ONLY")

	if err := loadDotEnv(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("CALC_HISTORY_DIR"); got != "from-env" {
		t.Fatalf("expected process value to win, got %q", got)
	}
	if got := os.Getenv("CALC_TEST_ONLY"); got != "loaded" {
		t.Fatalf("expected .env value, got %q", got)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
