package model

import "gonum.org/v1/gonum/mat"

// Transformer is the streaming inference object for values of type T.
//
// Each Execute call yields zero or more outputs; Flush drains whatever is
// still buffered when the stream ends. The returned slices are owned by the
// caller. Transformers are single-owner and not safe for concurrent use.
type Transformer[T Value] interface {
	// Execute consumes one input and returns the outputs it resolves.
	Execute(v Nullable[T]) ([]T, error)

	// Flush returns trailing outputs at end of stream.
	Flush() ([]T, error)

	// Save serializes the persisted state as a flat archive.
	Save() ([]byte, error)
}

// MatrixTransformer transforms whole matrices column by column.
type MatrixTransformer interface {
	// Fit learns whatever the transformer needs from X.
	Fit(X mat.Matrix) error

	// Transform returns a transformed copy of X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform runs Fit and Transform on the same data.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Collect runs every input through t, then flushes, and returns the outputs
// of each call. The last element holds the Flush output.
func Collect[T Value](t Transformer[T], inputs []Nullable[T]) ([][]T, error) {
	out := make([][]T, 0, len(inputs)+1)
	for _, in := range inputs {
		values, err := t.Execute(in)
		if err != nil {
			return out, err
		}
		out = append(out, values)
	}
	tail, err := t.Flush()
	if err != nil {
		return out, err
	}
	return append(out, tail), nil
}
