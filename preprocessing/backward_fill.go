package preprocessing

import (
	"github.com/YuminosukeSato/featurizer/core/model"
)

const backwardFillName = "BackwardFillImputer"

// BackwardFillEstimator trains a BackwardFillImputer. It starts in Training,
// accumulates nothing and can be completed at any time.
//
//	est := preprocessing.NewBackwardFillEstimator[int64]()
//	_ = est.CompleteTraining()
//	tr, _ := est.CreateTransformer()
//	out, _ := tr.Execute(model.Null[int64]())   // []
//	out, _ = tr.Execute(model.Some[int64](2))   // [2 2]
type BackwardFillEstimator[T model.Value] struct {
	fillEstimator[T]
}

var _ model.Estimator[int64] = (*BackwardFillEstimator[int64])(nil)

// NewBackwardFillEstimator creates an estimator in the Training state.
func NewBackwardFillEstimator[T model.Value](opts ...Option) *BackwardFillEstimator[T] {
	return &BackwardFillEstimator[T]{fillEstimator: newFillEstimator[T](backwardFillName, opts)}
}

// CreateTransformer returns a fresh transformer with no last known value.
// It fails with InvalidState until training has finished.
func (e *BackwardFillEstimator[T]) CreateTransformer() (model.Transformer[T], error) {
	return e.CreateBackwardFillTransformer()
}

// CreateBackwardFillTransformer is CreateTransformer with the concrete type.
func (e *BackwardFillEstimator[T]) CreateBackwardFillTransformer() (*BackwardFillTransformer[T], error) {
	if err := e.requireFinished(); err != nil {
		return nil, err
	}
	return newBackwardFillTransformer[T](e.cfg), nil
}

// BackwardFillTransformer replaces each null with the next non-null value in
// the stream. Nulls are buffered until a value arrives; that value is then
// emitted once for every buffered null and once for itself.
type BackwardFillTransformer[T model.Value] struct {
	fillState[T]
}

var _ model.Transformer[string] = (*BackwardFillTransformer[string])(nil)

func newBackwardFillTransformer[T model.Value](cfg config) *BackwardFillTransformer[T] {
	return &BackwardFillTransformer[T]{fillState: newFillState[T](backwardFillName, cfg)}
}

// NewBackwardFillTransformerFromBytes restores a transformer from an archive
// produced by Save. The restored transformer has no pending nulls.
func NewBackwardFillTransformerFromBytes[T model.Value](buf []byte, opts ...Option) (*BackwardFillTransformer[T], error) {
	t := newBackwardFillTransformer[T](newConfig(opts))
	if err := t.load(buf); err != nil {
		return nil, err
	}
	return t, nil
}

// Execute buffers a null and emits nothing, or resolves the buffered run
// with a value.
func (t *BackwardFillTransformer[T]) Execute(v model.Nullable[T]) ([]T, error) {
	x, ok := v.Get()
	if !ok {
		t.pending++
		return nil, nil
	}
	return t.resolve(x), nil
}

// Flush emits nothing when the stream ended on a value; otherwise the
// configured UnresolvedTailPolicy applies.
func (t *BackwardFillTransformer[T]) Flush() ([]T, error) {
	return t.flush()
}

// Save persists the last known value only.
func (t *BackwardFillTransformer[T]) Save() ([]byte, error) {
	return t.save()
}
