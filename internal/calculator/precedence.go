package calculator

import (
	"errors"
	"fmt"

	"calc-ledger/internal/operations"
)

// Precedence identifies one of the operator groups. An expression may only
// use operators from a single group; there is no precedence climbing.
type Precedence int

const (
	PrecedenceNone Precedence = iota
	Additive
	Multiplicative
	Exponential
)

var ErrMixedPrecedence = errors.New("mixed precedence groups")

func (p Precedence) String() string {
	switch p {
	case Additive:
		return "1 (+ - --)"
	case Multiplicative:
		return "2 (* / % /% //)"
	case Exponential:
		return "3 (^ ?)"
	}
	return "none"
}

// PrecedenceTable assigns operator tokens to groups.
type PrecedenceTable struct {
	groups map[string]Precedence
}

func NewPrecedenceTable() *PrecedenceTable {
	return &PrecedenceTable{groups: make(map[string]Precedence)}
}

// DefaultPrecedence returns the table for the built-in operators.
func DefaultPrecedence() *PrecedenceTable {
	t := NewPrecedenceTable()
	for _, b := range builtins {
		t.Assign(b.Token, b.Precedence)
	}
	return t
}

// Assign places token in group p.
func (t *PrecedenceTable) Assign(token string, p Precedence) {
	t.groups[token] = p
}

// GroupOf returns the group of token, or PrecedenceNone if unknown.
func (t *PrecedenceTable) GroupOf(token string) Precedence {
	return t.groups[token]
}

// Lock returns the group shared by every operator in ops. The first operator
// fixes the group; any later operator from another group is an error.
func (t *PrecedenceTable) Lock(ops []string, f *Factory) (Precedence, error) {
	locked := PrecedenceNone
	for _, op := range ops {
		p := t.GroupOf(op)
		if p == PrecedenceNone {
			return PrecedenceNone, f.unsupported(op)
		}
		if locked == PrecedenceNone {
			locked = p
			continue
		}
		if p != locked {
			return PrecedenceNone, &operations.OperationError{
				Op:  op,
				Msg: fmt.Sprintf("Mixed precedence: operator '%s' is in group %d but the expression uses group %d", op, int(p), int(locked)),
				Err: ErrMixedPrecedence,
			}
		}
	}
	return locked, nil
}
