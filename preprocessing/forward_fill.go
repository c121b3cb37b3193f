package preprocessing

import (
	"github.com/YuminosukeSato/featurizer/core/model"
)

const forwardFillName = "ForwardFillImputer"

// ForwardFillEstimator trains a ForwardFillImputer. Like the backward fill
// estimator it learns nothing.
type ForwardFillEstimator[T model.Value] struct {
	fillEstimator[T]
}

var _ model.Estimator[float64] = (*ForwardFillEstimator[float64])(nil)

// NewForwardFillEstimator creates an estimator in the Training state.
func NewForwardFillEstimator[T model.Value](opts ...Option) *ForwardFillEstimator[T] {
	return &ForwardFillEstimator[T]{fillEstimator: newFillEstimator[T](forwardFillName, opts)}
}

// CreateTransformer returns a fresh transformer with no last known value.
func (e *ForwardFillEstimator[T]) CreateTransformer() (model.Transformer[T], error) {
	return e.CreateForwardFillTransformer()
}

// CreateForwardFillTransformer is CreateTransformer with the concrete type.
func (e *ForwardFillEstimator[T]) CreateForwardFillTransformer() (*ForwardFillTransformer[T], error) {
	if err := e.requireFinished(); err != nil {
		return nil, err
	}
	return newForwardFillTransformer[T](e.cfg), nil
}

// ForwardFillTransformer replaces each null with the previous non-null value.
// Nulls that arrive before any value are buffered and filled by the first
// value, so every input produces exactly one output once resolved.
type ForwardFillTransformer[T model.Value] struct {
	fillState[T]
}

var _ model.Transformer[int32] = (*ForwardFillTransformer[int32])(nil)

func newForwardFillTransformer[T model.Value](cfg config) *ForwardFillTransformer[T] {
	return &ForwardFillTransformer[T]{fillState: newFillState[T](forwardFillName, cfg)}
}

// NewForwardFillTransformerFromBytes restores a transformer from an archive
// produced by Save. A restored last known value keeps filling new nulls.
func NewForwardFillTransformerFromBytes[T model.Value](buf []byte, opts ...Option) (*ForwardFillTransformer[T], error) {
	t := newForwardFillTransformer[T](newConfig(opts))
	if err := t.load(buf); err != nil {
		return nil, err
	}
	return t, nil
}

// Execute emits the last known value for a null, or buffers the null when
// no value has been seen yet. A value resolves any buffered nulls.
func (t *ForwardFillTransformer[T]) Execute(v model.Nullable[T]) ([]T, error) {
	x, ok := v.Get()
	if ok {
		return t.resolve(x), nil
	}
	if last, known := t.lastKnown.Get(); known {
		return []T{last}, nil
	}
	t.pending++
	return nil, nil
}

// Flush only has work when the whole stream so far was null.
func (t *ForwardFillTransformer[T]) Flush() ([]T, error) {
	return t.flush()
}

// Save persists the last known value.
func (t *ForwardFillTransformer[T]) Save() ([]byte, error) {
	return t.save()
}
