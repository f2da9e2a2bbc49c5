package operations

import "errors"

var (
	ErrDivideByZero        = errors.New("Divide By Zero Error")
	ErrUndefined           = errors.New("undefined result")
	ErrOutOfRange          = errors.New("result out of range")
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

// OperationError reports an invalid mathematical domain or an operator the
// calculator cannot apply.
type OperationError struct {
	Op  string
	Msg string
	Err error
}

func (e *OperationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Err.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func newError(op string, err error, msg string) *OperationError {
	return &OperationError{Op: op, Msg: msg, Err: err}
}
