// Package config reads the calculator's settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
)

type Config struct {
	HistoryDir    string
	HistoryFile   string
	BackupDir     string
	HistoryDriver string

	LogLevel      string
	LogDir        string
	LogFilePrefix string
	LogConsole    bool

	// AdminAddr enables the read-only HTTP surface when non-empty.
	AdminAddr string

	// OTLPEndpoint enables trace, metric and log export when non-empty.
	OTLPEndpoint string
	ServiceName  string
}

// HistoryPath is the primary history location.
func (c Config) HistoryPath() string {
	return filepath.Join(c.HistoryDir, c.HistoryFile)
}

// Load builds a Config from the environment, applying defaults for unset
// variables.
func Load() (Config, error) {
	cfg := Config{
		HistoryDir:    getenv("CALC_HISTORY_DIR", "logs"),
		HistoryDriver: strings.ToLower(getenv("CALC_HISTORY_DRIVER", DriverCSV)),
		LogLevel:      strings.ToUpper(getenv("LOG_LEVEL", "INFO")),
		LogDir:        getenv("LOG_DIR", "logs"),
		LogFilePrefix: getenv("LOG_FILE_PREFIX", "app"),
		AdminAddr:     os.Getenv("CALC_ADMIN_ADDR"),
		OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:   getenv("OTEL_SERVICE_NAME", "calc-ledger"),
	}

	switch cfg.HistoryDriver {
	case DriverCSV:
		cfg.HistoryFile = getenv("CALC_HISTORY_FILE", "calculation_history.csv")
	case DriverSQLite:
		cfg.HistoryFile = getenv("CALC_HISTORY_FILE", "calculation_history.db")
	default:
		return Config{}, fmt.Errorf("CALC_HISTORY_DRIVER: unknown driver %q (use %s or %s)", cfg.HistoryDriver, DriverCSV, DriverSQLite)
	}

	cfg.BackupDir = getenv("CALC_BACKUP_DIR", filepath.Join(cfg.HistoryDir, "history_backups"))

	if v := os.Getenv("LOG_CONSOLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("LOG_CONSOLE: %w", err)
		}
		cfg.LogConsole = b
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
