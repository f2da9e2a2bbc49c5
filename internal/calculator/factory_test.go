package calculator

import (
	"errors"
	"strings"
	"testing"

	"calc-ledger/internal/operations"
)

func TestDefaultFactoryCreatesEveryBuiltin(t *testing.T) {
	f := DefaultFactory()

	tests := []struct {
		token string
		a, b  float64
		want  float64
	}{
		{"+", 1, 2, 3},
		{"-", 1, 2, -1},
		{"--", 1, 4, 3},
		{"*", 3, 4, 12},
		{"/", 9, 3, 3},
		{"%", 10, 3, 1},
		{"/%", 50, 200, 25},
		{"//", 10, 3, 3},
		{"^", 2, 10, 1024},
		{"?", 9, 2, 3},
	}

	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			calc, err := f.Create(tc.token, tc.a, tc.b)
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			got, err := calc.Execute()
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %g, got %g", tc.want, got)
			}
		})
	}

	if got := len(f.Tokens()); got != len(tests) {
		t.Fatalf("expected %d tokens, got %d", len(tests), got)
	}
}

func TestFactoryRejectsDuplicateRegistration(t *testing.T) {
	f := DefaultFactory()
	err := f.Register("+", operations.Subtract)
	if !errors.Is(err, ErrDuplicateOperator) {
		t.Fatalf("expected ErrDuplicateOperator, got %v", err)
	}

	calc, _ := f.Create("+", 2, 2)
	if got, _ := calc.Execute(); got != 4 {
		t.Fatalf("expected original operation to remain, got %g", got)
	}
}

func TestFactoryUnsupportedOperatorListsTokens(t *testing.T) {
	f := NewFactory()
	_ = f.Register("+", operations.Add)
	_ = f.Register("*", operations.Multiply)

	_, err := f.Create("&", 1, 2)

	var opErr *operations.OperationError
	if !errors.As(err, &opErr) || !errors.Is(err, operations.ErrUnsupportedOperator) {
		t.Fatalf("expected unsupported OperationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Available: +, *") {
		t.Fatalf("expected available tokens in message, got %q", err.Error())
	}
}

func TestCalculationString(t *testing.T) {
	calc, _ := DefaultFactory().Create("/", 7, 2)
	if got := calc.String(); got != "7.0 / 2.0" {
		t.Fatalf("expected %q, got %q", "7.0 / 2.0", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		3:       "3.0",
		2.5:     "2.5",
		-4:      "-4.0",
		0:       "0.0",
		1e20:    "1e+20",
		0.00001: "1e-05",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%g): expected %q, got %q", in, want, got)
		}
	}
}
