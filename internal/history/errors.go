package history

import (
	"errors"
	"fmt"
)

var (
	ErrEmpty          = errors.New("history is empty")
	ErrIndex          = errors.New("invalid history index")
	ErrBackupNotFound = errors.New("backup not found")
	ErrCorrupt        = errors.New("malformed history file")
)

// HistoryError is the single error kind surfaced by the store, whether the
// cause is a bad index, an empty ledger or a storage failure.
type HistoryError struct {
	Op  string
	Msg string
	Err error
}

func (e *HistoryError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *HistoryError) Unwrap() error {
	return e.Err
}

// storageError wraps an I/O failure as a HistoryError, leaving errors that
// already are one untouched.
func storageError(op, action string, err error) error {
	var he *HistoryError
	if errors.As(err, &he) {
		return err
	}
	return &HistoryError{Op: op, Msg: fmt.Sprintf("Failed to %s: %v", action, err), Err: err}
}

func checkIndex(op string, n, length int, emptyMsg string) error {
	if length == 0 {
		return &HistoryError{Op: op, Msg: emptyMsg, Err: ErrEmpty}
	}
	if n <= 0 {
		return &HistoryError{Op: op, Msg: fmt.Sprintf("Invalid history index: %d", n), Err: ErrIndex}
	}
	if n > length {
		return &HistoryError{Op: op, Msg: fmt.Sprintf("History index %d out of range", n), Err: ErrIndex}
	}
	return nil
}
