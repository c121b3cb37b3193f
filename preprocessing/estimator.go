package preprocessing

import (
	"github.com/YuminosukeSato/featurizer/core/archive"
	"github.com/YuminosukeSato/featurizer/core/model"
	"github.com/YuminosukeSato/featurizer/pkg/errors"
	"github.com/YuminosukeSato/featurizer/pkg/log"
)

// fillEstimator is the training side shared by the fill imputers. Fill
// imputers learn nothing: training is a single no-op pass whose only effect
// is the transition to Finished.
type fillEstimator[T model.Value] struct {
	*model.StateManager

	name   string
	cfg    config
	logger log.Logger
}

func newFillEstimator[T model.Value](name string, opts []Option) fillEstimator[T] {
	cfg := newConfig(opts)
	e := fillEstimator[T]{
		StateManager: model.NewStateManager(),
		name:         name,
		cfg:          cfg,
		logger: cfg.logger.With(
			log.FeaturizerKey, name,
			log.ValueTypeKey, archive.TypeName[T](),
		),
	}
	// A fresh StateManager is Pending, so this cannot fail.
	_ = e.BeginTraining()
	return e
}

// Fit accepts one value and always answers Complete.
func (e *fillEstimator[T]) Fit(_ model.Nullable[T]) (model.FitResult, error) {
	if err := e.RequireTraining(e.name + ".Fit"); err != nil {
		return model.Complete, err
	}
	return model.Complete, nil
}

// FitBuffer accepts a non-empty batch and always answers Complete.
func (e *fillEstimator[T]) FitBuffer(values []model.Nullable[T]) (model.FitResult, error) {
	if len(values) == 0 {
		return model.Complete, errors.NewInvalidArgumentError(e.name+".FitBuffer", "values", "buffer must not be empty")
	}
	if err := e.RequireTraining(e.name + ".FitBuffer"); err != nil {
		return model.Complete, err
	}
	return model.Complete, nil
}

// OnDataCompleted finishes training after the first pass.
func (e *fillEstimator[T]) OnDataCompleted() error {
	if err := e.RequireTraining(e.name + ".OnDataCompleted"); err != nil {
		return err
	}
	e.Finish()
	e.logger.Debug("training pass completed", log.OperationKey, log.OperationDataCompleted)
	return nil
}

// CompleteTraining forces Finished. Calling it again is a no-op.
func (e *fillEstimator[T]) CompleteTraining() error {
	if e.IsFinished() {
		return nil
	}
	e.Finish()
	e.logger.Debug("training completed", log.OperationKey, log.OperationCompleteTraining)
	return nil
}

func (e *fillEstimator[T]) requireFinished() error {
	return e.RequireFinished(e.name + ".CreateTransformer")
}
