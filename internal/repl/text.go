package repl

import (
	"fmt"
	"io"
	"strings"

	"calc-ledger/internal/calculator"
	"calc-ledger/internal/history"
)

const banner = "Calculator REPL. Type 'help' for commands, 'exit' to quit."

const emptyHint = "Please enter an expression or a command ('help' for usage, 'exit' to quit)"

func writeHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: <number|ans|ans(n)> <op> <number|ans|ans(n)> [<op> <number|ans|ans(n)>]...")
	fmt.Fprintln(w, "Expressions are evaluated strictly left to right.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported Operators:")
	for _, op := range calculator.Builtins() {
		fmt.Fprintf(w, "  %-3s %-20s group %d\n", op.Token, op.Description, int(op.Precedence))
	}
	fmt.Fprintln(w)
	writePrecedence(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "References:")
	fmt.Fprintln(w, "  ans        result of the most recent calculation")
	fmt.Fprintln(w, "  ans(n)     result of calculation n in history (1-based)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  help             show this text")
	fmt.Fprintln(w, "  precedence       show the precedence groups")
	fmt.Fprintln(w, "  history          show all calculations with their steps")
	fmt.Fprintln(w, "  save             write a timestamped backup of the history")
	fmt.Fprintln(w, "  backups          list available backups")
	fmt.Fprintln(w, "  load <backup>    replace the history with a backup")
	fmt.Fprintln(w, "  delete <index>   remove calculation <index>")
	fmt.Fprintln(w, "  new              clear the history")
	fmt.Fprintln(w, "  exit             quit")
}

func writePrecedence(w io.Writer) {
	fmt.Fprintln(w, "Precedence groups define the order of operations: an expression may only")
	fmt.Fprintln(w, "use operators from one group, evaluated left to right.")
	for _, p := range []calculator.Precedence{calculator.Additive, calculator.Multiplicative, calculator.Exponential} {
		var tokens []string
		for _, op := range calculator.Builtins() {
			if op.Precedence == p {
				tokens = append(tokens, op.Token)
			}
		}
		fmt.Fprintf(w, "  Group %d: %s\n", int(p), strings.Join(tokens, " "))
	}
}

func writeHistory(w io.Writer, groups []history.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No calculations in history.")
		return
	}

	fmt.Fprintln(w, "Calculation History:")
	for i, g := range groups {
		fmt.Fprintf(w, "%d. %s = %s  (%s)\n", i+1, g.Input, calculator.FormatNumber(g.Result), g.Timestamp.Format("2006-01-02 15:04:05"))
		for j, s := range g.Steps {
			fmt.Fprintf(w, "   Step %d: %s = %s\n", j+1, s.Input, calculator.FormatNumber(s.Result))
		}
	}
}

func writeBackups(w io.Writer, ids []string) {
	if len(ids) == 0 {
		fmt.Fprintln(w, "No backups found.")
		return
	}
	fmt.Fprintln(w, "Backups:")
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", id)
	}
}
