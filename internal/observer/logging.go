package observer

import (
	"context"

	"go.uber.org/zap"
)

// LoggingObserver writes every event to a zap logger.
type LoggingObserver struct {
	Logger *zap.Logger
}

func (o *LoggingObserver) Update(ctx context.Context, ev Event) error {
	o.Logger.Info("history event",
		zap.String("event", string(ev.Kind)),
		zap.Any("payload", ev.Payload),
	)
	return nil
}
