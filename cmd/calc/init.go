package main

import (
	"context"

	"calc-ledger/internal/calculator"
	"calc-ledger/internal/config"
	"calc-ledger/internal/observability"
)

// initMetrics sets up the meter provider and then the calculator instruments,
// which must be created against it.
func initMetrics(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}
