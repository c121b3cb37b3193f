package preprocessing

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featurizer/core/model"
	"github.com/YuminosukeSato/featurizer/pkg/errors"
)

// FillStrategy selects the fill direction of a ColumnImputer.
type FillStrategy int

const (
	// BackwardFill fills a NaN with the next value in the column.
	BackwardFill FillStrategy = iota
	// ForwardFill fills a NaN with the previous value in the column.
	ForwardFill
)

// String returns the strategy name.
func (s FillStrategy) String() string {
	switch s {
	case BackwardFill:
		return "backward-fill"
	case ForwardFill:
		return "forward-fill"
	default:
		return "unknown"
	}
}

// ColumnImputer applies a fill imputer to every column of a matrix, treating
// NaN as null. The output has the same shape as the input; cells the policy
// leaves unresolved stay NaN.
type ColumnImputer struct {
	model.BaseEstimator

	// Strategy is the fill direction.
	Strategy FillStrategy

	// NFeatures is the number of columns seen by Fit.
	NFeatures int

	opts       []Option
	estimators []model.Estimator[float64]
}

var _ model.MatrixTransformer = (*ColumnImputer)(nil)

// NewColumnImputer creates a ColumnImputer.
//
//	imp := preprocessing.NewColumnImputer(preprocessing.BackwardFill)
//	filled, err := imp.FitTransform(X)
func NewColumnImputer(strategy FillStrategy, opts ...Option) *ColumnImputer {
	return &ColumnImputer{Strategy: strategy, opts: opts}
}

func (c *ColumnImputer) newEstimator() (model.Estimator[float64], error) {
	switch c.Strategy {
	case BackwardFill:
		return NewBackwardFillEstimator[float64](c.opts...), nil
	case ForwardFill:
		return NewForwardFillEstimator[float64](c.opts...), nil
	default:
		return nil, errors.NewInvalidArgumentError("ColumnImputer", "strategy", fmt.Sprintf("unknown strategy %d", c.Strategy))
	}
}

// Fit trains one estimator per column and keeps them for Transform.
func (c *ColumnImputer) Fit(X mat.Matrix) error {
	r, cols := X.Dims()
	if r == 0 || cols == 0 {
		return errors.NewInvalidArgumentError("ColumnImputer.Fit", "X", "empty data")
	}

	estimators := make([]model.Estimator[float64], cols)
	for j := range estimators {
		est, err := c.newEstimator()
		if err != nil {
			return err
		}
		if err := model.Train(context.Background(), est, column(X, j)); err != nil {
			return errors.Wrapf(err, "column %d", j)
		}
		estimators[j] = est
	}

	c.estimators = estimators
	c.NFeatures = cols
	c.SetFitted()
	return nil
}

// Transform fills NaN cells column by column. Each call starts from fresh
// transformers, so rows of one call never fill cells of another.
func (c *ColumnImputer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := c.RequireFitted("ColumnImputer", "Transform"); err != nil {
		return nil, err
	}
	r, cols := X.Dims()
	if cols != c.NFeatures {
		return nil, errors.NewInvalidArgumentError("ColumnImputer.Transform", "X",
			fmt.Sprintf("expected %d columns, got %d", c.NFeatures, cols))
	}

	result := mat.NewDense(r, cols, nil)
	for j := 0; j < cols; j++ {
		if err := c.transformColumn(X, result, j); err != nil {
			return nil, errors.Wrapf(err, "column %d", j)
		}
	}
	return result, nil
}

func (c *ColumnImputer) transformColumn(X mat.Matrix, dst *mat.Dense, j int) error {
	tr, err := c.estimators[j].CreateTransformer()
	if err != nil {
		return err
	}

	rows, _ := X.Dims()
	next := 0
	write := func(values []float64) {
		for _, v := range values {
			dst.Set(next, j, v)
			next++
		}
	}

	for i := 0; i < rows; i++ {
		out, err := tr.Execute(model.FromFloat64(X.At(i, j)))
		if err != nil {
			return err
		}
		write(out)
	}
	tail, err := tr.Flush()
	if err != nil {
		return err
	}
	write(tail)

	for ; next < rows; next++ {
		dst.Set(next, j, math.NaN())
	}
	return nil
}

// FitTransform fits on X and returns the filled copy.
func (c *ColumnImputer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := c.Fit(X); err != nil {
		return nil, err
	}
	return c.Transform(X)
}

func column(X mat.Matrix, j int) []model.Nullable[float64] {
	rows, _ := X.Dims()
	out := make([]model.Nullable[float64], rows)
	for i := range out {
		out[i] = model.FromFloat64(X.At(i, j))
	}
	return out
}
