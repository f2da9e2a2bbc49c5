package calculator

import (
	"errors"
	"fmt"
	"strings"

	"calc-ledger/internal/operations"
)

var ErrDuplicateOperator = errors.New("operator already registered")

// Calculation is an operation bound to its two operands.
type Calculation struct {
	Token string
	A, B  float64
	fn    operations.Func
}

// Execute runs the bound operation.
func (c Calculation) Execute() (float64, error) {
	return c.fn(c.A, c.B)
}

func (c Calculation) String() string {
	return fmt.Sprintf("%s %s %s", FormatNumber(c.A), c.Token, FormatNumber(c.B))
}

// Factory maps operator tokens to operations. Tokens keep registration order
// so error messages list them predictably.
type Factory struct {
	tokens []string
	ops    map[string]operations.Func
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{ops: make(map[string]operations.Func)}
}

// DefaultFactory returns a factory with every built-in operator registered.
func DefaultFactory() *Factory {
	f := NewFactory()
	for _, b := range builtins {
		if err := f.Register(b.Token, b.fn); err != nil {
			panic(err)
		}
	}
	return f
}

// Register adds token. Registering a token twice is an error.
func (f *Factory) Register(token string, fn operations.Func) error {
	if _, ok := f.ops[token]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateOperator, token)
	}
	f.tokens = append(f.tokens, token)
	f.ops[token] = fn
	return nil
}

// Tokens returns the registered tokens in registration order.
func (f *Factory) Tokens() []string {
	out := make([]string, len(f.tokens))
	copy(out, f.tokens)
	return out
}

// Create binds the operation for token to a and b.
func (f *Factory) Create(token string, a, b float64) (Calculation, error) {
	fn, ok := f.ops[token]
	if !ok {
		return Calculation{}, f.unsupported(token)
	}
	return Calculation{Token: token, A: a, B: b, fn: fn}, nil
}

func (f *Factory) unsupported(token string) error {
	return &operations.OperationError{
		Op:  token,
		Msg: fmt.Sprintf("Unsupported operator '%s'. Available: %s", token, strings.Join(f.tokens, ", ")),
		Err: operations.ErrUnsupportedOperator,
	}
}
