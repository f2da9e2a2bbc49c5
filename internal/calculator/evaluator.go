package calculator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"calc-ledger/internal/history"
	"calc-ledger/internal/observability"
)

var ansPattern = regexp.MustCompile(`^(?i)ans(?:\((\d+)\))?$`)

// Ledger is the part of the history store the evaluator needs.
type Ledger interface {
	PreviousResult(n int) (float64, error)
	LastResult() (float64, error)
	Append(ctx context.Context, g history.Group) error
}

// Evaluator evaluates flat expressions strictly left to right and commits
// each successful evaluation to a Ledger.
type Evaluator struct {
	ledger     Ledger
	factory    *Factory
	precedence *PrecedenceTable
	tracer     trace.Tracer
	now        func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithFactory replaces the built-in operator factory.
func WithFactory(f *Factory) Option {
	return func(e *Evaluator) { e.factory = f }
}

// WithPrecedence replaces the built-in precedence table.
func WithPrecedence(t *PrecedenceTable) Option {
	return func(e *Evaluator) { e.precedence = t }
}

// WithTracerProvider sets where evaluation spans are sent. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Evaluator) { e.tracer = tp.Tracer("calculator") }
}

// WithClock sets the timestamp source for new groups.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

func NewEvaluator(ledger Ledger, opts ...Option) *Evaluator {
	e := &Evaluator{
		ledger:     ledger,
		factory:    DefaultFactory(),
		precedence: DefaultPrecedence(),
		tracer:     otel.Tracer("calculator"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate computes input and appends the result to the ledger. Nothing is
// committed unless every step succeeds.
func (e *Evaluator) Evaluate(ctx context.Context, input string) (float64, error) {
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := e.tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("calculator.input", input),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	group, err := e.evaluate(ctx, input)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", err.Error(), err)
		return 0, err
	}

	if err := e.ledger.Append(ctx, group); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "commit", err.Error(), err)
		return 0, err
	}

	evalCounter.Add(ctx, 1)
	stepsHistogram.Record(ctx, int64(len(group.Steps)))
	resultGauge.Record(ctx, group.Result, metric.WithAttributes(attribute.String("operation", "evaluate")))

	span.AddEvent("evaluation.complete", trace.WithAttributes(
		attribute.Float64("result", group.Result),
		attribute.Int("total_steps", len(group.Steps)),
	))
	span.SetAttributes(attribute.Float64("calculator.result", group.Result))
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("input", input),
		zap.Float64("result", group.Result),
		zap.Int("steps", len(group.Steps)),
		zap.String("request_id", requestID),
	)

	return group.Result, nil
}

func (e *Evaluator) evaluate(ctx context.Context, input string) (history.Group, error) {
	tokens := strings.Fields(input)
	if len(tokens) < 3 || len(tokens)%2 == 0 {
		return history.Group{}, &InputError{
			Msg: "Invalid format: expected 'number operator number [operator number]...'",
			Err: ErrInvalidFormat,
		}
	}

	ops := make([]string, 0, len(tokens)/2)
	for i := 1; i < len(tokens); i += 2 {
		ops = append(ops, tokens[i])
	}
	locked, err := e.precedence.Lock(ops, e.factory)
	if err != nil {
		return history.Group{}, err
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("calculator.precedence_group", int(locked)))

	acc, accText, err := e.resolve(tokens[0])
	if err != nil {
		return history.Group{}, operandError(err, tokens[0], "First value must be a number or ans(n)")
	}

	steps := make([]history.Step, 0, len(ops))
	for i := 1; i < len(tokens); i += 2 {
		op, operand := tokens[i], tokens[i+1]

		b, bText, err := e.resolve(operand)
		if err != nil {
			return history.Group{}, operandError(err, operand, fmt.Sprintf("Value '%s' must be a number or ans(n)", operand))
		}

		result, err := e.step(ctx, len(steps), op, acc, b)
		if err != nil {
			return history.Group{}, err
		}

		steps = append(steps, history.Step{
			Input:     accText + " " + op + " " + bText,
			Operation: op,
			A:         acc,
			B:         b,
			Result:    result,
		})
		acc, accText = result, FormatNumber(result)
	}

	return history.Group{
		Input:     input,
		Result:    acc,
		Timestamp: e.now(),
		Steps:     steps,
	}, nil
}

// step applies one operator under its own child span.
func (e *Evaluator) step(ctx context.Context, index int, op string, a, b float64) (float64, error) {
	name := operatorName(op)
	_, span := e.tracer.Start(ctx, fmt.Sprintf("calculator.step.%d.%s", index, name),
		trace.WithAttributes(
			attribute.Int("calculator.step.index", index),
			attribute.String("calculator.step.operation", op),
			attribute.Float64("calculator.operand.a", a),
			attribute.Float64("calculator.operand.b", b),
		),
	)
	defer span.End()

	calc, err := e.factory.Create(op, a, b)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	start := time.Now()
	result, err := calc.Execute()
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	attrs := metric.WithAttributes(attribute.String("operation", name))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)

	span.SetAttributes(attribute.Float64("calculator.step.result", result))
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// resolve turns a token into a value and its display text. ans references
// keep their original text with the resolved value in parentheses.
func (e *Evaluator) resolve(token string) (float64, string, error) {
	if m := ansPattern.FindStringSubmatch(token); m != nil {
		var (
			v   float64
			err error
		)
		if m[1] == "" {
			v, err = e.ledger.LastResult()
		} else {
			n, convErr := strconv.Atoi(m[1])
			if convErr != nil {
				return 0, "", &InputError{Token: token, Msg: fmt.Sprintf("Invalid ans reference '%s'", token), Err: ErrInvalidReference}
			}
			v, err = e.ledger.PreviousResult(n)
		}
		if err != nil {
			return 0, "", err
		}
		return v, fmt.Sprintf("%s (%s)", token, FormatNumber(v)), nil
	}

	if strings.HasPrefix(strings.ToLower(token), "ans") {
		return 0, "", &InputError{Token: token, Msg: fmt.Sprintf("Invalid ans reference '%s': use ans or ans(n)", token), Err: ErrInvalidReference}
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil || !isFinite(v) {
		return 0, "", &InputError{Token: token, Err: ErrInvalidOperand}
	}
	return v, token, nil
}

// operandError fills in msg for plain operand failures and passes history
// and reference errors through unchanged.
func operandError(err error, token, msg string) error {
	if ie, ok := err.(*InputError); ok && ie.Err == ErrInvalidOperand {
		return &InputError{Token: token, Msg: msg, Err: ErrInvalidOperand}
	}
	return err
}
