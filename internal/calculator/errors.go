package calculator

import "errors"

var (
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidOperand   = errors.New("invalid operand")
	ErrInvalidReference = errors.New("invalid ans reference")
)

// InputError reports a malformed expression or an operand that is neither a
// number nor an ans reference.
type InputError struct {
	Token string
	Msg   string
	Err   error
}

func (e *InputError) Error() string {
	return e.Msg
}

func (e *InputError) Unwrap() error {
	return e.Err
}
