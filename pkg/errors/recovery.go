package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/cockroachdb/errors"
)

// PanicError is an error built from a recovered panic at the boundary layer.
type PanicError struct {
	// PanicValue is the value passed to panic().
	PanicValue interface{}

	// StackTrace is the goroutine stack at the time of the panic.
	StackTrace string

	// Operation names the boundary call that recovered the panic.
	Operation string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("featurizer: panic in %s: %v", e.Operation, e.PanicValue)
}

// String includes the captured stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a PanicError for operation.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// IsPanic reports whether err originated from a recovered panic.
func IsPanic(err error) bool {
	var p *PanicError
	return errors.As(err, &p)
}

// Recover converts a panic into an error assigned to *err. Use it with defer:
//
//	func (f *Featurizer[T]) Transform(...) (err error) {
//	    defer errors.Recover(&err, "Transform")
//	    ...
//	}
//
// If *err is already set, the panic is recorded as a secondary error so the
// original cause stays first in the chain.
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		panicErr := NewPanicError(operation, r)

		if *err != nil {
			*err = errors.WithSecondaryError(*err, panicErr)
		} else {
			*err = panicErr
		}
	}
}

// SafeExecute runs fn and converts any panic into a PanicError.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
