package types

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
)

// RecordError marks a failure that belongs to a single source record. It is safe to skip the
// unit of work that produced it.
type RecordError struct {
	Path string
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("record %s:%d: %s", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("record %s: %s", e.Path, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

type fatalError struct {
	err error
}

func (e *fatalError) Error() string {
	return e.err.Error()
}

func (e *fatalError) Unwrap() error {
	return e.err
}

// Fatal marks err as one that must abort the whole run regardless of the error policy
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err has to stop the pipeline: explicitly fatal errors, cancelled
// contexts and broken connections.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var fatal *fatalError
	return errors.As(err, &fatal) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn)
}
