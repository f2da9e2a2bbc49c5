package repl

import (
	"context"
	"fmt"
	"io"

	"calc-ledger/internal/calculator"
	"calc-ledger/internal/history"
	"calc-ledger/internal/observer"
)

// Display prints history events to the terminal. It is how evaluation
// results reach the user: the REPL itself never prints a result.
type Display struct {
	out io.Writer
}

func NewDisplay(out io.Writer) *Display {
	return &Display{out: out}
}

func (d *Display) Update(ctx context.Context, ev observer.Event) error {
	var err error
	switch ev.Kind {
	case observer.CalculationAdded:
		g := ev.Payload.(history.Group)
		_, err = fmt.Fprintf(d.out, "Result: %s\n", calculator.FormatNumber(g.Result))
	case observer.CalculationDeleted:
		p := ev.Payload.(history.DeletedEvent)
		_, err = fmt.Fprintf(d.out, "Deleted calculation %d: %s = %s\n", p.Index, p.Group.Input, calculator.FormatNumber(p.Group.Result))
	case observer.HistoryCleared:
		_, err = fmt.Fprintln(d.out, "Started new history")
	case observer.HistorySaved:
		_, err = fmt.Fprintf(d.out, "History saved to %s\n", ev.Payload)
	case observer.HistoryLoaded:
		p := ev.Payload.(history.LoadedEvent)
		_, err = fmt.Fprintf(d.out, "Loaded history from %s (%d calculations)\n", p.Backup, p.Count)
	}
	return err
}
