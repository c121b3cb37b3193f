// Package adapter exposes featurizers through an opaque-handle call surface
// for hosts that cannot hold Go objects directly.
//
// Every call returns (ok, errInfo). On failure ok is false and errInfo refers
// to an ErrorInfo that the caller reads with GetErrorInfoString and releases
// with DestroyErrorInfo. Arguments and handles are validated before any
// featurizer state is touched. A panic inside a call is recovered into an
// error and poisons the handle the call was made on; every later call on that
// handle except Destroy fails with InvalidState.
//
//	f := adapter.BackwardFillImputerInt64
//	var est adapter.EstimatorHandle
//	if ok, errInfo := f.CreateEstimator(&est); !ok {
//	    msg, _ := adapter.GetErrorInfoString(errInfo)
//	    ...
//	}
package adapter

import (
	"github.com/YuminosukeSato/featurizer/core/archive"
	"github.com/YuminosukeSato/featurizer/core/model"
	"github.com/YuminosukeSato/featurizer/pkg/errors"
	"github.com/YuminosukeSato/featurizer/pkg/log"
	"github.com/YuminosukeSato/featurizer/preprocessing"
)

// EstimatorHandle refers to an estimator owned by a Featurizer.
type EstimatorHandle Handle

// TransformerHandle refers to a transformer owned by a Featurizer.
type TransformerHandle Handle

// DataHandle refers to an output buffer owned by a Featurizer. The null
// DataHandle accompanies empty outputs and needs no destroy call.
type DataHandle Handle

// SaveData is a transformer archive held by the Featurizer until it is
// released with DestroyTransformerSaveData.
type SaveData struct {
	Handle DataHandle
	Bytes  []byte
}

// TransformedData is the output of one Transform or Flush call, held by the
// Featurizer until it is released with DestroyTransformedData.
type TransformedData[T model.Value] struct {
	Handle DataHandle
	Items  []T
}

// EstimatorFactory creates an estimator in the Training state.
type EstimatorFactory[T model.Value] func(opts ...preprocessing.Option) model.Estimator[T]

// TransformerLoader restores a transformer from a non-empty archive.
type TransformerLoader[T model.Value] func(buf []byte, opts ...preprocessing.Option) (model.Transformer[T], error)

// Featurizer is the boundary surface of one featurizer kind instantiated for
// one value type. It owns every object and buffer it hands out.
type Featurizer[T model.Value] struct {
	name            string
	prefix          string
	newEstimator    EstimatorFactory[T]
	loadTransformer TransformerLoader[T]
	typeName        string
	cfg             config

	estimators   *HandleTable[model.Estimator[T]]
	transformers *HandleTable[model.Transformer[T]]
	saveData     *HandleTable[[]byte]
	results      *HandleTable[[]T]
}

// NewFeaturizer creates a Featurizer named name from an estimator factory and
// an archive loader.
func NewFeaturizer[T model.Value](name string, newEstimator EstimatorFactory[T], load TransformerLoader[T], opts ...Option) *Featurizer[T] {
	cfg := newConfig(opts)
	typeName := archive.TypeName[T]()
	return &Featurizer[T]{
		name:            name,
		prefix:          name + "_" + typeName + "_",
		newEstimator:    newEstimator,
		loadTransformer: load,
		typeName:        typeName,
		cfg:             cfg,
		estimators:      NewHandleTable[model.Estimator[T]]("estimator"),
		transformers:    NewHandleTable[model.Transformer[T]]("transformer"),
		saveData:        NewHandleTable[[]byte]("save data"),
		results:         NewHandleTable[[]T]("transformed data"),
	}
}

// NewBackwardFillFeaturizer creates the boundary surface of BackwardFillImputer.
func NewBackwardFillFeaturizer[T model.Value](opts ...Option) *Featurizer[T] {
	return NewFeaturizer[T]("BackwardFillImputer",
		func(o ...preprocessing.Option) model.Estimator[T] {
			return preprocessing.NewBackwardFillEstimator[T](o...)
		},
		func(buf []byte, o ...preprocessing.Option) (model.Transformer[T], error) {
			t, err := preprocessing.NewBackwardFillTransformerFromBytes[T](buf, o...)
			if err != nil {
				return nil, err
			}
			return t, nil
		},
		opts...)
}

// NewForwardFillFeaturizer creates the boundary surface of ForwardFillImputer.
func NewForwardFillFeaturizer[T model.Value](opts ...Option) *Featurizer[T] {
	return NewFeaturizer[T]("ForwardFillImputer",
		func(o ...preprocessing.Option) model.Estimator[T] {
			return preprocessing.NewForwardFillEstimator[T](o...)
		},
		func(buf []byte, o ...preprocessing.Option) (model.Transformer[T], error) {
			t, err := preprocessing.NewForwardFillTransformerFromBytes[T](buf, o...)
			if err != nil {
				return nil, err
			}
			return t, nil
		},
		opts...)
}

// Name returns the featurizer kind.
func (f *Featurizer[T]) Name() string {
	return f.name
}

// Outstanding returns the number of live estimators, transformers and output
// buffers the Featurizer still owns.
func (f *Featurizer[T]) Outstanding() int {
	return f.estimators.Len() + f.transformers.Len() + f.saveData.Len() + f.results.Len()
}

// ===========================================================================
//
//	Estimator calls
//
// ===========================================================================

// CreateEstimator creates an estimator in the Training state.
func (f *Featurizer[T]) CreateEstimator(out *EstimatorHandle) (bool, ErrorInfoHandle) {
	op := f.prefix + "CreateEstimator"
	return f.call(op, nil, func() error {
		if out == nil {
			return nilOutput(op)
		}
		*out = EstimatorHandle(f.estimators.Insert(f.newEstimator(f.cfg.imputerOpts...)))
		return nil
	})
}

// DestroyEstimator releases h. Transformers created from it are unaffected.
func (f *Featurizer[T]) DestroyEstimator(h EstimatorHandle) (bool, ErrorInfoHandle) {
	op := f.prefix + "DestroyEstimator"
	return f.call(op, nil, func() error {
		_, err := f.estimators.Remove(op, Handle(h))
		return err
	})
}

// GetState reports the training state of h.
func (f *Featurizer[T]) GetState(h EstimatorHandle, out *model.TrainingState) (bool, ErrorInfoHandle) {
	op := f.prefix + "GetState"
	return f.call(op, f.poisonEstimator(h), func() error {
		if out == nil {
			return nilOutput(op)
		}
		est, err := f.estimators.Get(op, Handle(h))
		if err != nil {
			return err
		}
		*out = est.State()
		return nil
	})
}

// Fit feeds one value to h. A nil input, or NaN for float types, is null.
func (f *Featurizer[T]) Fit(h EstimatorHandle, input *T, out *model.FitResult) (bool, ErrorInfoHandle) {
	op := f.prefix + "Fit"
	return f.call(op, f.poisonEstimator(h), func() error {
		if out == nil {
			return nilOutput(op)
		}
		est, err := f.estimators.Get(op, Handle(h))
		if err != nil {
			return err
		}
		result, err := est.Fit(nullableFrom(input))
		if err != nil {
			return err
		}
		*out = result
		return nil
	})
}

// FitBuffer feeds a non-empty batch to h.
func (f *Featurizer[T]) FitBuffer(h EstimatorHandle, input []*T, out *model.FitResult) (bool, ErrorInfoHandle) {
	op := f.prefix + "FitBuffer"
	return f.call(op, f.poisonEstimator(h), func() error {
		if out == nil {
			return nilOutput(op)
		}
		if len(input) == 0 {
			return errors.NewInvalidArgumentError(op, "input", "buffer must not be empty")
		}
		est, err := f.estimators.Get(op, Handle(h))
		if err != nil {
			return err
		}
		values := make([]model.Nullable[T], len(input))
		for i, p := range input {
			values[i] = nullableFrom(p)
		}
		result, err := est.FitBuffer(values)
		if err != nil {
			return err
		}
		*out = result
		return nil
	})
}

// OnDataCompleted signals that one full pass of training data was consumed.
func (f *Featurizer[T]) OnDataCompleted(h EstimatorHandle) (bool, ErrorInfoHandle) {
	op := f.prefix + "OnDataCompleted"
	return f.call(op, f.poisonEstimator(h), func() error {
		est, err := f.estimators.Get(op, Handle(h))
		if err != nil {
			return err
		}
		return est.OnDataCompleted()
	})
}

// CompleteTraining forces h to Finished.
func (f *Featurizer[T]) CompleteTraining(h EstimatorHandle) (bool, ErrorInfoHandle) {
	op := f.prefix + "CompleteTraining"
	return f.call(op, f.poisonEstimator(h), func() error {
		est, err := f.estimators.Get(op, Handle(h))
		if err != nil {
			return err
		}
		return est.CompleteTraining()
	})
}

// ===========================================================================
//
//	Transformer calls
//
// ===========================================================================

// CreateTransformerFromEstimator creates a transformer from a finished
// estimator. The two handles are independent afterwards.
func (f *Featurizer[T]) CreateTransformerFromEstimator(h EstimatorHandle, out *TransformerHandle) (bool, ErrorInfoHandle) {
	op := f.prefix + "CreateTransformerFromEstimator"
	return f.call(op, f.poisonEstimator(h), func() error {
		if out == nil {
			return nilOutput(op)
		}
		est, err := f.estimators.Get(op, Handle(h))
		if err != nil {
			return err
		}
		t, err := est.CreateTransformer()
		if err != nil {
			return err
		}
		*out = TransformerHandle(f.transformers.Insert(t))
		f.logger().Debug("transformer created",
			log.OperationKey, log.OperationCreateTransformer,
			log.HandleKey, Handle(*out).String(),
		)
		return nil
	})
}

// CreateTransformerFromSavedData restores a transformer from an archive
// produced by CreateTransformerSaveData.
func (f *Featurizer[T]) CreateTransformerFromSavedData(buf []byte, out *TransformerHandle) (bool, ErrorInfoHandle) {
	op := f.prefix + "CreateTransformerFromSavedData"
	return f.call(op, nil, func() error {
		if out == nil {
			return nilOutput(op)
		}
		if len(buf) == 0 {
			return errors.Mark(errors.NewInvalidArgumentError(op, "buffer", "archive must not be empty"), errors.ErrEmptyArchive)
		}
		t, err := f.loadTransformer(buf, f.cfg.imputerOpts...)
		if err != nil {
			return err
		}
		*out = TransformerHandle(f.transformers.Insert(t))
		return nil
	})
}

// DestroyTransformer releases h.
func (f *Featurizer[T]) DestroyTransformer(h TransformerHandle) (bool, ErrorInfoHandle) {
	op := f.prefix + "DestroyTransformer"
	return f.call(op, nil, func() error {
		_, err := f.transformers.Remove(op, Handle(h))
		return err
	})
}

// CreateTransformerSaveData serializes h. The archive stays owned by the
// Featurizer until DestroyTransformerSaveData.
func (f *Featurizer[T]) CreateTransformerSaveData(h TransformerHandle, out *SaveData) (bool, ErrorInfoHandle) {
	op := f.prefix + "CreateTransformerSaveData"
	return f.call(op, f.poisonTransformer(h), func() error {
		if out == nil {
			return nilOutput(op)
		}
		t, err := f.transformers.Get(op, Handle(h))
		if err != nil {
			return err
		}
		buf, err := t.Save()
		if err != nil {
			return err
		}
		if len(buf) > f.cfg.maxArchiveBytes {
			return errors.NewAllocationError(op, len(buf))
		}
		*out = SaveData{Handle: DataHandle(f.saveData.Insert(buf)), Bytes: buf}
		f.logger().Debug("transformer saved",
			log.OperationKey, log.OperationSave,
			log.ArchiveSizeKey, len(buf),
		)
		return nil
	})
}

// DestroyTransformerSaveData releases an archive returned by
// CreateTransformerSaveData.
func (f *Featurizer[T]) DestroyTransformerSaveData(h DataHandle) (bool, ErrorInfoHandle) {
	op := f.prefix + "DestroyTransformerSaveData"
	return f.call(op, nil, func() error {
		_, err := f.saveData.Remove(op, Handle(h))
		return err
	})
}

// Transform runs one input through h. Zero outputs yield a TransformedData
// with a null handle.
func (f *Featurizer[T]) Transform(h TransformerHandle, input *T, out *TransformedData[T]) (bool, ErrorInfoHandle) {
	op := f.prefix + "Transform"
	return f.call(op, f.poisonTransformer(h), func() error {
		if out == nil {
			return nilOutput(op)
		}
		t, err := f.transformers.Get(op, Handle(h))
		if err != nil {
			return err
		}
		items, err := t.Execute(nullableFrom(input))
		if err != nil {
			return err
		}
		return f.publish(op, items, out)
	})
}

// Flush drains the trailing outputs of h.
func (f *Featurizer[T]) Flush(h TransformerHandle, out *TransformedData[T]) (bool, ErrorInfoHandle) {
	op := f.prefix + "Flush"
	return f.call(op, f.poisonTransformer(h), func() error {
		if out == nil {
			return nilOutput(op)
		}
		t, err := f.transformers.Get(op, Handle(h))
		if err != nil {
			return err
		}
		items, err := t.Flush()
		if err != nil {
			return err
		}
		return f.publish(op, items, out)
	})
}

// DestroyTransformedData releases an output buffer. The null handle is
// accepted and ignored.
func (f *Featurizer[T]) DestroyTransformedData(h DataHandle) (bool, ErrorInfoHandle) {
	op := f.prefix + "DestroyTransformedData"
	return f.call(op, nil, func() error {
		if Handle(h).IsNull() {
			return nil
		}
		_, err := f.results.Remove(op, Handle(h))
		return err
	})
}

// ===========================================================================
//
//	Helpers
//
// ===========================================================================

func (f *Featurizer[T]) publish(op string, items []T, out *TransformedData[T]) error {
	if len(items) > f.cfg.maxOutputItems {
		return errors.NewAllocationError(op, len(items))
	}
	if len(items) == 0 {
		*out = TransformedData[T]{}
		return nil
	}
	*out = TransformedData[T]{Handle: DataHandle(f.results.Insert(items)), Items: items}
	return nil
}

// call runs fn, converting a returned error or a recovered panic into an
// ErrorInfo. poison runs only when fn panicked.
func (f *Featurizer[T]) call(op string, poison func(), fn func() error) (bool, ErrorInfoHandle) {
	err := errors.SafeExecute(op, fn)
	if err == nil {
		return true, 0
	}

	if errors.IsPanic(err) && poison != nil {
		poison()
	}
	f.logger().Error("boundary call failed", err, log.OperationKey, op)
	return false, newErrorInfo(err)
}

// logger returns the configured logger, or the process-wide one when none
// was given.
func (f *Featurizer[T]) logger() log.Logger {
	base := f.cfg.logger
	if base == nil {
		base = log.GetLoggerWithName("adapter")
	}
	return base.With(log.FeaturizerKey, f.name, log.ValueTypeKey, f.typeName)
}

func (f *Featurizer[T]) poisonEstimator(h EstimatorHandle) func() {
	return func() { f.estimators.Poison(Handle(h)) }
}

func (f *Featurizer[T]) poisonTransformer(h TransformerHandle) func() {
	return func() { f.transformers.Poison(Handle(h)) }
}

func nilOutput(op string) error {
	return errors.NewInvalidArgumentError(op, "out", "output pointer must not be nil")
}

// nullableFrom maps a boundary input to a Nullable: nil is null, and so is
// NaN for float types.
func nullableFrom[T model.Value](p *T) model.Nullable[T] {
	if p == nil {
		return model.Null[T]()
	}
	return model.FromValue(*p)
}
