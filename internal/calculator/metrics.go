package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Instruments are nil until InitMetrics runs.
var (
	evalCounter    metric.Int64Counter
	stepsHistogram metric.Int64Histogram
	opsCounter     metric.Int64Counter
	opsHistogram   metric.Float64Histogram
	errorCounter   metric.Int64Counter
	resultGauge    metric.Float64Gauge
)

// InitMetrics creates the evaluator's instruments on the global meter
// provider, so it has to run after observability.InitMetrics.
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	evalCounter, err = meter.Int64Counter("calculator.evaluations.total",
		metric.WithDescription("Expressions evaluated and committed to history"),
		metric.WithUnit("{expression}"),
	)
	if err != nil {
		return fmt.Errorf("creating evaluation counter: %w", err)
	}

	stepsHistogram, err = meter.Int64Histogram("calculator.evaluation.steps",
		metric.WithDescription("Operator steps per committed expression"),
		metric.WithUnit("{step}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 8, 13),
	)
	if err != nil {
		return fmt.Errorf("creating steps histogram: %w", err)
	}

	opsCounter, err = meter.Int64Counter("calculator.steps.total",
		metric.WithDescription("Operator steps applied, by operation"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return fmt.Errorf("creating step counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("calculator.step.duration",
		metric.WithDescription("Time spent applying one operator"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return fmt.Errorf("creating step histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Failed evaluations, by failing phase"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("Result of the most recently committed expression"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}
