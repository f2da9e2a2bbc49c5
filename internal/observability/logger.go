package observability

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"calc-ledger/internal/config"
)

// Logger is the process-wide logger. It discards everything until InitLogger runs.
var Logger = zap.NewNop()

var levels = map[string]zapcore.Level{
	"DEBUG":    zapcore.DebugLevel,
	"INFO":     zapcore.InfoLevel,
	"WARN":     zapcore.WarnLevel,
	"WARNING":  zapcore.WarnLevel,
	"ERROR":    zapcore.ErrorLevel,
	"CRITICAL": zapcore.DPanicLevel,
}

// LogFilePath is the dated log file for cfg on day.
func LogFilePath(cfg config.Config, day time.Time) string {
	return filepath.Join(cfg.LogDir, fmt.Sprintf("%s-%s.log", cfg.LogFilePrefix, day.Format("2006-01-02")))
}

// InitLogger builds a production JSON logger writing to the dated log file,
// and to stderr as well when cfg.LogConsole is set.
func InitLogger(cfg config.Config) error {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	level, known := levels[cfg.LogLevel]
	if !known {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{LogFilePath(cfg, time.Now())}
	if cfg.LogConsole {
		zc.OutputPaths = append(zc.OutputPaths, "stderr")
	}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return err
	}
	Logger = logger

	if !known {
		Logger.Warn("invalid LOG_LEVEL, defaulting to INFO", zap.String("log_level", cfg.LogLevel))
	}
	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger enriched with trace_id and span_id
// fields from the active OTel span in ctx.
//
// ctx itself is embedded as zap.Any("context", ctx): the otelzap bridge uses
// any field holding a context.Context as the context passed to Emit, which
// populates the native TraceID/SpanID on exported OTLP log records. The
// string fields keep the local JSON log greppable.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
