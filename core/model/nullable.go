package model

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/featurizer/core/archive"
	"github.com/YuminosukeSato/featurizer/pkg/errors"
)

// Value is the closed set of types a featurizer can be instantiated for.
type Value = archive.Scalar

// Nullable is a T or the absence of one. The zero value is null.
// A Nullable is immutable once constructed.
type Nullable[T Value] struct {
	value T
	valid bool
}

// Some wraps v as a present value.
func Some[T Value](v T) Nullable[T] {
	return Nullable[T]{value: v, valid: true}
}

// Null returns the canonical null instance for T.
func Null[T Value]() Nullable[T] {
	return Nullable[T]{}
}

// FromPointer converts a possibly-nil pointer: nil means null.
func FromPointer[T Value](p *T) Nullable[T] {
	if p == nil {
		return Null[T]()
	}
	return Some(*p)
}

// FromFloat64 treats NaN as the null sentinel.
func FromFloat64(v float64) Nullable[float64] {
	if math.IsNaN(v) {
		return Null[float64]()
	}
	return Some(v)
}

// FromFloat32 treats NaN as the null sentinel.
func FromFloat32(v float32) Nullable[float32] {
	if math.IsNaN(float64(v)) {
		return Null[float32]()
	}
	return Some(v)
}

// FromValue wraps v, treating NaN as null for float types.
func FromValue[T Value](v T) Nullable[T] {
	switch f := any(v).(type) {
	case float32:
		if math.IsNaN(float64(f)) {
			return Null[T]()
		}
	case float64:
		if math.IsNaN(f) {
			return Null[T]()
		}
	}
	return Some(v)
}

// IsNull reports whether n holds no value.
func (n Nullable[T]) IsNull() bool {
	return !n.valid
}

// Get returns the value and whether it is present.
func (n Nullable[T]) Get() (T, bool) {
	return n.value, n.valid
}

// Value returns the held value, or an InvalidState error when n is null.
func (n Nullable[T]) Value() (T, error) {
	if !n.valid {
		var zero T
		return zero, errors.NewInvalidStateError("Nullable.Value", "null", "value accessed on a null "+archive.TypeName[T]())
	}
	return n.value, nil
}

// MustValue returns the held value and panics when n is null.
func (n Nullable[T]) MustValue() T {
	v, err := n.Value()
	if err != nil {
		panic(err)
	}
	return v
}

// Ptr returns a pointer to a copy of the value, or nil when n is null.
func (n Nullable[T]) Ptr() *T {
	if !n.valid {
		return nil
	}
	v := n.value
	return &v
}

// Equal reports whether both are null or both hold equal values.
func (n Nullable[T]) Equal(other Nullable[T]) bool {
	if n.valid != other.valid {
		return false
	}
	return !n.valid || n.value == other.value
}

// String formats the value, or "null".
func (n Nullable[T]) String() string {
	if !n.valid {
		return "null"
	}
	return fmt.Sprintf("%v", n.value)
}

// Nullables wraps each element of values as present.
func Nullables[T Value](values ...T) []Nullable[T] {
	out := make([]Nullable[T], len(values))
	for i, v := range values {
		out[i] = Some(v)
	}
	return out
}
