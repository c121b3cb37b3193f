package model

import (
	"context"
	"fmt"

	"github.com/YuminosukeSato/featurizer/pkg/errors"
	"github.com/YuminosukeSato/featurizer/pkg/log"
)

// DefaultMaxPasses bounds the number of passes Train makes over the data.
const DefaultMaxPasses = 1000

type trainConfig struct {
	maxPasses int
	logger    log.Logger
}

// TrainOption configures Train.
type TrainOption func(*trainConfig)

// WithMaxPasses sets the maximum number of passes over the training data.
func WithMaxPasses(n int) TrainOption {
	return func(c *trainConfig) {
		if n > 0 {
			c.maxPasses = n
		}
	}
}

// WithTrainLogger sets the logger used for pass-level debug records.
func WithTrainLogger(logger log.Logger) TrainOption {
	return func(c *trainConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Train drives est over items until its state leaves Training.
//
// Items are fed in order. A ResetAndContinue result rewinds to the first
// item. When every item of a pass has been fed, OnDataCompleted is called and
// iteration restarts from the first item. A Complete result stops feeding and
// forces CompleteTraining. An empty items slice makes a single pass: one
// OnDataCompleted call, then CompleteTraining if the estimator is still
// training. ctx is checked before each pass and between items.
func Train[T Value](ctx context.Context, est Estimator[T], items []Nullable[T], opts ...TrainOption) error {
	cfg := trainConfig{maxPasses: DefaultMaxPasses, logger: log.GetLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger.With(log.ComponentKey, "model.Train", log.ItemsKey, len(items))

	for pass := 1; est.State() == Training; pass++ {
		if pass > cfg.maxPasses {
			return errors.NewInvalidStateError("Train", est.State().String(),
				fmt.Sprintf("training did not finish after %d passes", cfg.maxPasses))
		}
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "training canceled")
		}

		completed, err := trainPass(ctx, est, items)
		if err != nil {
			return err
		}
		if completed {
			logger.Debug("estimator reported completion", log.PassKey, pass)
			if est.State() == Training {
				return est.CompleteTraining()
			}
			return nil
		}
		if est.State() != Training {
			break
		}
		if err := est.OnDataCompleted(); err != nil {
			return err
		}
		logger.Debug("training pass completed", log.PassKey, pass, log.StateKey, est.State().String())
		if len(items) == 0 {
			if est.State() == Training {
				return est.CompleteTraining()
			}
			return nil
		}
	}
	return nil
}

// trainPass feeds one pass of items. It returns true when the estimator
// answered Complete.
func trainPass[T Value](ctx context.Context, est Estimator[T], items []Nullable[T]) (bool, error) {
	for i := 0; i < len(items); i++ {
		if err := ctx.Err(); err != nil {
			return false, errors.Wrap(err, "training canceled")
		}
		if est.State() != Training {
			return false, nil
		}

		result, err := est.Fit(items[i])
		if err != nil {
			return false, errors.Wrapf(err, "fitting item %d", i)
		}
		switch result {
		case Complete:
			return true, nil
		case ResetAndContinue:
			i = -1
		}
	}
	return false, nil
}
