// Package repl runs the interactive calculator loop on top of an Evaluator
// and a history Store.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"calc-ledger/internal/calculator"
	"calc-ledger/internal/history"
	"calc-ledger/internal/observability"
	"calc-ledger/internal/operations"
)

const prompt = ">> "

// REPL reads one command or expression per line until "exit" or EOF.
type REPL struct {
	in         io.Reader
	out        io.Writer
	eval       *calculator.Evaluator
	store      *history.Store
	display    *Display
	tracer     trace.Tracer
	showPrompt bool
}

type Option func(*REPL)

// WithPrompt controls the banner and the ">> " prompt. It is usually enabled
// only when stdin is a terminal.
func WithPrompt(show bool) Option {
	return func(r *REPL) { r.showPrompt = show }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *REPL) { r.tracer = tp.Tracer("repl") }
}

// New wires a REPL and registers its Display on store, so results and
// history confirmations are written to out.
func New(in io.Reader, out io.Writer, eval *calculator.Evaluator, store *history.Store, opts ...Option) *REPL {
	r := &REPL{
		in:      in,
		out:     out,
		eval:    eval,
		store:   store,
		display: NewDisplay(out),
		tracer:  noop.NewTracerProvider().Tracer("repl"),
	}
	for _, opt := range opts {
		opt(r)
	}
	store.Register(r.display)
	return r
}

// Run processes input until the user exits or the reader is exhausted. Only
// read failures are returned; command errors are printed and the loop goes on.
func (r *REPL) Run(ctx context.Context) error {
	if r.showPrompt {
		fmt.Fprintln(r.out, banner)
	}

	scanner := bufio.NewScanner(r.in)
	for {
		if r.showPrompt {
			fmt.Fprint(r.out, prompt)
		}
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		if r.Execute(ctx, scanner.Text()) {
			return nil
		}
	}
	if r.showPrompt {
		fmt.Fprintln(r.out)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// Execute handles a single line and reports whether the user asked to exit.
func (r *REPL) Execute(ctx context.Context, line string) (exit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		fmt.Fprintln(r.out, emptyHint)
		return false
	}

	fields := strings.Fields(line)
	command := strings.ToLower(fields[0])

	ctx, requestID := observability.WithRequestID(ctx)
	ctx, span := r.tracer.Start(ctx, "repl.line", trace.WithAttributes(
		attribute.String("repl.command", commandName(command)),
	))
	defer span.End()

	err := r.dispatch(ctx, command, fields, line, &exit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.LoggerWithTrace(ctx).Warn("command failed",
			zap.String("command", commandName(command)),
			zap.String("kind", ErrorKind(err)),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		fmt.Fprintf(r.out, "Error: %s\n", err)
	}
	return exit
}

func (r *REPL) dispatch(ctx context.Context, command string, fields []string, line string, exit *bool) error {
	switch {
	case command == "exit" && len(fields) == 1:
		*exit = true
		fmt.Fprintln(r.out, "Goodbye!")
		return nil
	case command == "help" && len(fields) == 1:
		writeHelp(r.out)
		return nil
	case command == "precedence" && len(fields) == 1:
		writePrecedence(r.out)
		return nil
	case command == "history" && len(fields) == 1:
		writeHistory(r.out, r.store.List())
		return nil
	case command == "backups" && len(fields) == 1:
		ids, err := r.store.Backups()
		if err != nil {
			return err
		}
		writeBackups(r.out, ids)
		return nil
	case command == "save" && len(fields) == 1:
		_, err := r.store.Backup(ctx)
		return err
	case command == "new" && len(fields) == 1:
		return r.store.Clear(ctx)
	case command == "delete":
		if len(fields) != 2 {
			return usageError("delete <index>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return &calculator.InputError{
				Token: fields[1],
				Msg:   fmt.Sprintf("Invalid history index: %s", fields[1]),
				Err:   calculator.ErrInvalidReference,
			}
		}
		return r.store.DeleteAt(ctx, n)
	case command == "load":
		if len(fields) != 2 {
			return usageError("load <backup>")
		}
		return r.store.Restore(ctx, fields[1])
	}

	_, err := r.eval.Evaluate(ctx, line)
	return err
}

func usageError(usage string) error {
	return &calculator.InputError{Msg: "Usage: " + usage, Err: calculator.ErrInvalidFormat}
}

// commandName keeps span and log cardinality bounded: anything that is not a
// command is an expression.
func commandName(command string) string {
	switch command {
	case "exit", "help", "precedence", "history", "backups", "save", "new", "delete", "load":
		return command
	}
	return "evaluate"
}

// ErrorKind classifies err as one of the three user-facing failure kinds.
func ErrorKind(err error) string {
	var opErr *operations.OperationError
	var inErr *calculator.InputError
	var histErr *history.HistoryError
	switch {
	case errors.As(err, &histErr):
		return "history"
	case errors.As(err, &opErr):
		return "operation"
	case errors.As(err, &inErr):
		return "input"
	}
	return "internal"
}
