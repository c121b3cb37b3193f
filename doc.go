// Package featurizer provides streaming imputers for nullable value streams.
//
// A featurizer is used in two phases. An estimator consumes training data
// through Fit until it reaches the Finished state, then creates a
// transformer. The transformer consumes one nullable value per Execute call
// and emits zero or more values; Flush drains whatever is still buffered at
// the end of the stream. A transformer can be saved to a flat byte archive
// and restored later.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/featurizer/core/model"
//	    "github.com/YuminosukeSato/featurizer/preprocessing"
//	)
//
//	func main() {
//	    est := preprocessing.NewBackwardFillEstimator[int64]()
//	    if err := model.Train[int64](context.Background(), est, nil); err != nil {
//	        log.Fatal(err)
//	    }
//	    tr, err := est.CreateTransformer()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    inputs := []model.Nullable[int64]{
//	        model.Null[int64](), model.Null[int64](), model.Some[int64](2),
//	    }
//	    rows, err := model.Collect(tr, inputs)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(rows) // [[] [] [2 2 2] []]
//	}
//
// # Packages
//
//   - core/model: Nullable values, the training state machine and the
//     Estimator and Transformer interfaces
//   - core/archive: the flat little-endian archive codec
//   - preprocessing: BackwardFillImputer, ForwardFillImputer and the gonum
//     ColumnImputer
//   - adapter: an opaque-handle call surface with error-info records
//   - pkg/errors: the InvalidArgument, InvalidState and Allocation taxonomy
//   - pkg/log: structured logging on zerolog
//   - cmd/featurize: a command line front end
//
// # Unresolved nulls
//
// A backward fill cannot resolve nulls at the end of a stream. Flush drops
// them and logs a warning unless another UnresolvedTailPolicy is selected:
//
//	est := preprocessing.NewBackwardFillEstimator[string](
//	    preprocessing.WithUnresolvedTailPolicy(preprocessing.FillWithLastKnown),
//	)
//
// Saved archives hold only the last known value. Nulls still pending when a
// transformer is saved are not restored.
package featurizer
