package calculator

import "calc-ledger/internal/operations"

// OperatorInfo describes a built-in operator for help output.
type OperatorInfo struct {
	Token       string
	Name        string
	Precedence  Precedence
	Description string
}

type builtin struct {
	OperatorInfo
	fn operations.Func
}

var builtins = []builtin{
	{OperatorInfo{"+", "add", Additive, "addition"}, operations.Add},
	{OperatorInfo{"-", "subtract", Additive, "subtraction"}, operations.Subtract},
	{OperatorInfo{"--", "absolute_difference", Additive, "absolute difference"}, operations.AbsoluteDifference},
	{OperatorInfo{"*", "multiply", Multiplicative, "multiplication"}, operations.Multiply},
	{OperatorInfo{"/", "divide", Multiplicative, "division"}, operations.Divide},
	{OperatorInfo{"%", "modulo", Multiplicative, "modulus"}, operations.Modulo},
	{OperatorInfo{"/%", "percentage", Multiplicative, "a as a percentage of b"}, operations.Percentage},
	{OperatorInfo{"//", "integer_divide", Multiplicative, "integer division"}, operations.IntegerDivide},
	{OperatorInfo{"^", "power", Exponential, "a raised to the power b"}, operations.Power},
	{OperatorInfo{"?", "root", Exponential, "b-th root of a"}, operations.Root},
}

// Builtins lists the default operators in legend order.
func Builtins() []OperatorInfo {
	out := make([]OperatorInfo, len(builtins))
	for i, b := range builtins {
		out[i] = b.OperatorInfo
	}
	return out
}

// operatorName returns the metric/span name for token.
func operatorName(token string) string {
	for _, b := range builtins {
		if b.Token == token {
			return b.Name
		}
	}
	return token
}
