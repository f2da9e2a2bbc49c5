package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/term"

	"calc-ledger/internal/calculator"
	"calc-ledger/internal/config"
	"calc-ledger/internal/history"
	"calc-ledger/internal/observability"
	"calc-ledger/internal/observer"
	"calc-ledger/internal/repl"
	"calc-ledger/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	// Logger
	if err := observability.InitLogger(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Error: initializing logger:", err)
		return 1
	}
	defer observability.SyncLogger()

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx, cfg)
	if err != nil {
		return fatal("initializing tracing", err)
	}
	defer traceShutdown(context.Background())

	// Metrics
	metricShutdown, err := initMetrics(ctx, cfg)
	if err != nil {
		return fatal("initializing metrics", err)
	}
	defer metricShutdown(context.Background())

	// Logs
	logShutdown, err := observability.InitLogging(ctx, cfg)
	if err != nil {
		return fatal("initializing log export", err)
	}
	defer logShutdown(context.Background())

	// History
	store, err := openStore(ctx, cfg)
	if err != nil {
		return fatal("opening history", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			observability.Logger.Error("closing history", zap.Error(err))
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}()

	// Admin
	if cfg.AdminAddr != "" {
		srv := &http.Server{
			Addr:              cfg.AdminAddr,
			Handler:           server.NewRouter(store),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			observability.Logger.Info("admin server started", zap.String("addr", cfg.AdminAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				observability.Logger.Error("admin server failed", zap.Error(err))
			}
		}()
		defer shutdownServer(srv)
	}

	evaluator := calculator.NewEvaluator(store, calculator.WithTracerProvider(otel.GetTracerProvider()))
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	r := repl.New(os.Stdin, os.Stdout, evaluator, store,
		repl.WithPrompt(interactive),
		repl.WithTracerProvider(otel.GetTracerProvider()),
	)

	// repl.New registers the display first, so results print before the
	// bookkeeping observers run.
	store.Register(&observer.LoggingObserver{Logger: observability.Logger})
	store.Register(history.NewMetricsObserver(store))

	observability.Logger.Info("calculator started",
		zap.String("history", cfg.HistoryPath()),
		zap.String("driver", cfg.HistoryDriver),
		zap.Int("calculations", store.Len()),
		zap.Bool("interactive", interactive),
	)

	// The REPL blocks on stdin, so a signal abandons it and proceeds straight
	// to the deferred flush.
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			return fatal("reading input", err)
		}
	case <-ctx.Done():
		fmt.Fprintln(os.Stdout, "\nGoodbye!")
	}

	observability.Logger.Info("calculator stopped")
	return 0
}

func openStore(ctx context.Context, cfg config.Config) (*history.Store, error) {
	var (
		backend history.Backend
		err     error
	)
	switch cfg.HistoryDriver {
	case config.DriverSQLite:
		backend, err = history.NewSQLite(cfg.HistoryPath())
	default:
		backend, err = history.NewCSVFile(cfg.HistoryPath())
	}
	if err != nil {
		return nil, err
	}

	store, err := history.Open(ctx, backend, history.NewBackups(cfg.BackupDir))
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return store, nil
}

func fatal(msg string, err error) int {
	observability.Logger.Error(msg, zap.Error(err))
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	return 1
}

func shutdownServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Warn("admin server shutdown", zap.Error(err))
	}
}
