// Package errors provides the error taxonomy shared by every featurizer.
//
// Errors fall into three coarse kinds: InvalidArgument (a required value,
// handle or buffer is missing or malformed), InvalidState (an operation was
// called in the wrong training state) and Allocation (an output buffer could
// not be produced). Every constructor attaches a stack trace through
// cockroachdb/errors so the boundary layer can surface it verbatim.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Kind classifies an error for callers that only need the coarse category.
type Kind int

const (
	// KindUnknown is returned for errors that did not originate in this module.
	KindUnknown Kind = iota
	// KindInvalidArgument marks a missing or malformed argument.
	KindInvalidArgument
	// KindInvalidState marks an operation invoked in the wrong state.
	KindInvalidState
	// KindAllocation marks a failure to produce an output buffer.
	KindAllocation
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInvalidState:
		return "InvalidState"
	case KindAllocation:
		return "Allocation"
	default:
		return "Unknown"
	}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// InvalidArgumentError reports a missing or malformed argument. It is always
// raised before any internal state is touched.
type InvalidArgumentError struct {
	Op     string
	Param  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("featurizer: %s: invalid argument '%s': %s", e.Op, e.Param, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *InvalidArgumentError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("param", e.Param).
		Str("reason", e.Reason).
		Str("type", "InvalidArgumentError")
}

// NewInvalidArgumentError creates an InvalidArgumentError with a stack trace.
func NewInvalidArgumentError(op, param, reason string) error {
	return errors.WithStack(&InvalidArgumentError{Op: op, Param: param, Reason: reason})
}

// InvalidStateError reports an operation called in a state that does not
// allow it, such as Fit after training finished.
type InvalidStateError struct {
	Op     string
	State  string
	Reason string
}

func (e *InvalidStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("featurizer: %s: invalid state %s: %s", e.Op, e.State, e.Reason)
	}
	return fmt.Sprintf("featurizer: %s: invalid state %s", e.Op, e.State)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *InvalidStateError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("state", e.State).
		Str("reason", e.Reason).
		Str("type", "InvalidStateError")
}

// NewInvalidStateError creates an InvalidStateError with a stack trace.
func NewInvalidStateError(op, state, reason string) error {
	return errors.WithStack(&InvalidStateError{Op: op, State: state, Reason: reason})
}

// NotFittedError is returned when a matrix transformer is used before Fit.
// It is an InvalidState error.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("featurizer: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// AllocationError reports that an output buffer could not be produced.
type AllocationError struct {
	Op   string
	Size int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("featurizer: %s: unable to allocate %d elements", e.Op, e.Size)
}

// NewAllocationError creates an AllocationError with a stack trace.
func NewAllocationError(op string, size int) error {
	return errors.WithStack(&AllocationError{Op: op, Size: size})
}

// ArchiveError reports a malformed or truncated archive. Archives are
// arguments, so it classifies as InvalidArgument.
type ArchiveError struct {
	Op     string
	Offset int
	Need   int
	Have   int
	Reason string
}

func (e *ArchiveError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("featurizer: %s: malformed archive at offset %d: %s", e.Op, e.Offset, e.Reason)
	}
	return fmt.Sprintf("featurizer: %s: truncated archive at offset %d: need %d bytes, have %d", e.Op, e.Offset, e.Need, e.Have)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ArchiveError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("offset", e.Offset).
		Int("need", e.Need).
		Int("have", e.Have).
		Str("reason", e.Reason).
		Str("type", "ArchiveError")
}

// NewArchiveError creates a truncation ArchiveError with a stack trace.
func NewArchiveError(op string, offset, need, have int) error {
	return errors.WithStack(&ArchiveError{Op: op, Offset: offset, Need: need, Have: have})
}

// NewMalformedArchiveError creates an ArchiveError describing invalid content.
func NewMalformedArchiveError(op string, offset int, reason string) error {
	return errors.WithStack(&ArchiveError{Op: op, Offset: offset, Reason: reason})
}

// KindOf returns the coarse kind of err, looking through wrappers.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var (
		argErr     *InvalidArgumentError
		archiveErr *ArchiveError
		stateErr   *InvalidStateError
		fitErr     *NotFittedError
		allocErr   *AllocationError
	)
	switch {
	case errors.As(err, &argErr), errors.As(err, &archiveErr):
		return KindInvalidArgument
	case errors.As(err, &stateErr), errors.As(err, &fitErr):
		return KindInvalidState
	case errors.As(err, &allocErr):
		return KindAllocation
	default:
		return KindUnknown
	}
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// Mark makes Is(err, reference) true while keeping err's message and type.
func Mark(err, reference error) error {
	return errors.Mark(err, reference)
}

// WithStack attaches a stack trace to err.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// StackDetail returns the first safe detail recorded for err, which for
// errors built here is the formatted stack trace.
func StackDetail(err error) string {
	details := errors.GetSafeDetails(err).SafeDetails
	if len(details) > 0 {
		return details[0]
	}
	return ""
}

// ===========================================================================
//
//	Common error values
//
// ===========================================================================

var (
	// ErrEmptyArchive is returned when a zero-length archive is supplied.
	ErrEmptyArchive = New("empty archive")

	// ErrNilHandle is returned when a required handle is null.
	ErrNilHandle = New("null handle")
)
