package operations

import (
	"fmt"
	"math"
)

// Func is the shape shared by every binary operation.
type Func func(a, b float64) (float64, error)

// Add returns a + b.
func Add(a, b float64) (float64, error) {
	return checkRange("add", a, b, a+b)
}

// Subtract returns a - b.
func Subtract(a, b float64) (float64, error) {
	return checkRange("subtract", a, b, a-b)
}

// AbsoluteDifference returns |a - b|.
func AbsoluteDifference(a, b float64) (float64, error) {
	return checkRange("absolute_difference", a, b, math.Abs(a-b))
}

// Multiply returns a * b.
func Multiply(a, b float64) (float64, error) {
	return checkRange("multiply", a, b, a*b)
}

// Divide returns a / b.
func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, newError("divide", ErrDivideByZero, "")
	}
	return checkRange("divide", a, b, a/b)
}

// Modulo returns the floored remainder of a / b; the result takes the sign of b.
func Modulo(a, b float64) (float64, error) {
	if b == 0 {
		return 0, newError("modulo", ErrDivideByZero, "")
	}
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return checkRange("modulo", a, b, r)
}

// Percentage returns a as a percentage of b.
func Percentage(a, b float64) (float64, error) {
	if b == 0 {
		return 0, newError("percentage", ErrDivideByZero, "")
	}
	return checkRange("percentage", a, b, a/b*100)
}

// IntegerDivide returns floor(a / b).
func IntegerDivide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, newError("integer_divide", ErrDivideByZero, "")
	}
	return checkRange("integer_divide", a, b, math.Floor(a/b))
}

// Power returns a raised to b.
func Power(a, b float64) (float64, error) {
	if a == 0 && b < 0 {
		return 0, newError("power", ErrUndefined, "Zero raised to negative power is undefined")
	}
	return checkRange("power", a, b, math.Pow(a, b))
}

// Root returns the b-th root of a, i.e. a^(1/b). Odd integer roots of
// negative numbers keep their sign.
func Root(a, b float64) (float64, error) {
	if b == 0 {
		return 0, newError("root", ErrUndefined, "Root with zero index is undefined")
	}
	if a < 0 {
		if !isInteger(b) {
			return 0, newError("root", ErrUndefined, fmt.Sprintf("Root of negative number with non-integer index %g is undefined", b))
		}
		if math.Mod(b, 2) == 0 {
			return 0, newError("root", ErrUndefined, "Even root of negative number is undefined")
		}
		return checkRange("root", a, b, -math.Pow(-a, 1/b))
	}
	return checkRange("root", a, b, math.Pow(a, 1/b))
}

func isInteger(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}

// checkRange rejects non-finite results produced from finite operands.
func checkRange(op string, a, b, result float64) (float64, error) {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return result, nil
	}
	if math.IsNaN(result) {
		return 0, newError(op, ErrUndefined, fmt.Sprintf("%s(%g, %g) is undefined", op, a, b))
	}
	if math.IsInf(result, 0) {
		return 0, newError(op, ErrOutOfRange, fmt.Sprintf("%s(%g, %g): result out of range", op, a, b))
	}
	return result, nil
}
