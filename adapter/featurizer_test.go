package adapter

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/featurizer/core/model"
	"github.com/YuminosukeSato/featurizer/pkg/errors"
	"github.com/YuminosukeSato/featurizer/pkg/log"
	"github.com/YuminosukeSato/featurizer/preprocessing"
)

func ptr[T any](v T) *T { return &v }

// requireOK fails the test with the recorded message when a call failed.
func requireOK(t *testing.T) func(bool, ErrorInfoHandle) {
	t.Helper()
	return func(ok bool, errInfo ErrorInfoHandle) {
		t.Helper()
		if ok {
			assert.True(t, Handle(errInfo).IsNull())
			return
		}
		msg, err := GetErrorInfoString(errInfo)
		require.NoError(t, err)
		require.NoError(t, DestroyErrorInfo(errInfo))
		t.Fatalf("call failed: %s", msg)
	}
}

// requireFailure returns the recorded error and destroys the error info.
func requireFailure(t *testing.T) func(bool, ErrorInfoHandle) *ErrorInfo {
	t.Helper()
	return func(ok bool, errInfo ErrorInfoHandle) *ErrorInfo {
		t.Helper()
		require.False(t, ok)
		info, err := GetErrorInfo(errInfo)
		require.NoError(t, err)
		require.NoError(t, DestroyErrorInfo(errInfo))
		return info
	}
}

func newTestFeaturizer[T model.Value](t *testing.T, opts ...Option) *Featurizer[T] {
	t.Helper()
	testLogger, _ := log.NewTestLogger(log.LevelDebug)
	return NewBackwardFillFeaturizer[T](append([]Option{WithLogger(testLogger)}, opts...)...)
}

func trainedTransformer[T model.Value](t *testing.T, f *Featurizer[T]) TransformerHandle {
	t.Helper()
	var est EstimatorHandle
	requireOK(t)(f.CreateEstimator(&est))

	var state model.TrainingState
	requireOK(t)(f.GetState(est, &state))
	assert.Equal(t, model.Training, state)

	requireOK(t)(f.CompleteTraining(est))
	requireOK(t)(f.GetState(est, &state))
	assert.Equal(t, model.Finished, state)

	var tr TransformerHandle
	requireOK(t)(f.CreateTransformerFromEstimator(est, &tr))
	requireOK(t)(f.DestroyEstimator(est))
	return tr
}

func transformAll[T model.Value](t *testing.T, f *Featurizer[T], tr TransformerHandle, inputs []*T) [][]T {
	t.Helper()
	out := make([][]T, 0, len(inputs)+1)
	for _, in := range inputs {
		var data TransformedData[T]
		requireOK(t)(f.Transform(tr, in, &data))
		out = append(out, data.Items)
		requireOK(t)(f.DestroyTransformedData(data.Handle))
	}
	var data TransformedData[T]
	requireOK(t)(f.Flush(tr, &data))
	out = append(out, data.Items)
	requireOK(t)(f.DestroyTransformedData(data.Handle))
	return out
}

func TestFeaturizer_BackwardFillStrings(t *testing.T) {
	f := newTestFeaturizer[string](t)
	tr := trainedTransformer(t, f)

	got := transformAll(t, f, tr, []*string{nil, nil, ptr("2"), nil, ptr("3")})
	assert.Equal(t, [][]string{nil, nil, {"2", "2", "2"}, nil, {"3", "3"}, nil}, got)

	requireOK(t)(f.DestroyTransformer(tr))
	assert.Equal(t, 0, f.Outstanding())
}

func TestFeaturizer_BackwardFillInt64AfterTraining(t *testing.T) {
	f := newTestFeaturizer[int64](t)

	var est EstimatorHandle
	requireOK(t)(f.CreateEstimator(&est))

	var result model.FitResult
	requireOK(t)(f.Fit(est, ptr[int64](10), &result))
	assert.Equal(t, model.Complete, result)
	requireOK(t)(f.FitBuffer(est, []*int64{ptr[int64](1), nil}, &result))
	requireOK(t)(f.OnDataCompleted(est))

	var tr TransformerHandle
	requireOK(t)(f.CreateTransformerFromEstimator(est, &tr))
	requireOK(t)(f.DestroyEstimator(est))

	got := transformAll(t, f, tr, []*int64{nil, nil, ptr[int64](2), nil, ptr[int64](3)})
	assert.Equal(t, [][]int64{nil, nil, {2, 2, 2}, nil, {3, 3}, nil}, got)

	requireOK(t)(f.DestroyTransformer(tr))
	assert.Equal(t, 0, f.Outstanding())
}

func TestFeaturizer_FloatNaNIsNull(t *testing.T) {
	f := newTestFeaturizer[float64](t)
	tr := trainedTransformer(t, f)

	got := transformAll(t, f, tr, []*float64{ptr(math.NaN()), ptr(1.5)})
	assert.Equal(t, [][]float64{nil, {1.5, 1.5}, nil}, got)
	requireOK(t)(f.DestroyTransformer(tr))
}

func TestFeaturizer_InvalidArguments(t *testing.T) {
	f := newTestFeaturizer[int32](t)
	before := OutstandingErrorInfos()

	info := requireFailure(t)(f.CreateEstimator(nil))
	assert.Equal(t, errors.KindInvalidArgument, info.Kind)

	var result model.FitResult
	info = requireFailure(t)(f.Fit(0, ptr[int32](1), &result))
	assert.Equal(t, errors.KindInvalidArgument, info.Kind)
	assert.True(t, errors.Is(info.Err, errors.ErrNilHandle))

	var est EstimatorHandle
	requireOK(t)(f.CreateEstimator(&est))

	info = requireFailure(t)(f.FitBuffer(est, nil, &result))
	assert.Equal(t, errors.KindInvalidArgument, info.Kind)
	assert.Contains(t, info.Message, "buffer must not be empty")

	info = requireFailure(t)(f.Fit(est, nil, nil))
	assert.Equal(t, errors.KindInvalidArgument, info.Kind)

	var tr TransformerHandle
	info = requireFailure(t)(f.CreateTransformerFromSavedData(nil, &tr))
	assert.Equal(t, errors.KindInvalidArgument, info.Kind)
	assert.True(t, errors.Is(info.Err, errors.ErrEmptyArchive))

	info = requireFailure(t)(f.CreateTransformerFromSavedData([]byte{1}, &tr))
	assert.Equal(t, errors.KindInvalidArgument, info.Kind)
	assert.Contains(t, info.Message, "truncated archive")

	requireOK(t)(f.DestroyEstimator(est))
	info = requireFailure(t)(f.DestroyEstimator(est))
	assert.Contains(t, info.Message, "stale handle")

	var data TransformedData[int32]
	info = requireFailure(t)(f.Transform(0, nil, &data))
	assert.Equal(t, errors.KindInvalidArgument, info.Kind)

	assert.Equal(t, before, OutstandingErrorInfos())
	assert.Equal(t, 0, f.Outstanding())
}

func TestFeaturizer_InvalidState(t *testing.T) {
	f := newTestFeaturizer[uint8](t)

	var est EstimatorHandle
	requireOK(t)(f.CreateEstimator(&est))

	var tr TransformerHandle
	info := requireFailure(t)(f.CreateTransformerFromEstimator(est, &tr))
	assert.Equal(t, errors.KindInvalidState, info.Kind)
	assert.Contains(t, info.Message, "BackwardFillImputer.CreateTransformer")

	requireOK(t)(f.CompleteTraining(est))
	requireOK(t)(f.CompleteTraining(est))

	var result model.FitResult
	info = requireFailure(t)(f.Fit(est, ptr[uint8](1), &result))
	assert.Equal(t, errors.KindInvalidState, info.Kind)

	requireOK(t)(f.DestroyEstimator(est))
}

func TestFeaturizer_SaveAndRestore(t *testing.T) {
	f := newTestFeaturizer[string](t)
	tr := trainedTransformer(t, f)

	got := transformAll(t, f, tr, []*string{ptr("x")})
	assert.Equal(t, [][]string{{"x"}, nil}, got)

	var saved SaveData
	requireOK(t)(f.CreateTransformerSaveData(tr, &saved))
	assert.Equal(t, []byte{1, 1, 0, 0, 0, 'x'}, saved.Bytes)
	assert.False(t, Handle(saved.Handle).IsNull())

	var restored TransformerHandle
	requireOK(t)(f.CreateTransformerFromSavedData(saved.Bytes, &restored))
	requireOK(t)(f.DestroyTransformerSaveData(saved.Handle))
	requireOK(t)(f.DestroyTransformer(tr))

	got = transformAll(t, f, restored, []*string{nil, ptr("y")})
	assert.Equal(t, [][]string{nil, {"y", "y"}, nil}, got)

	requireOK(t)(f.DestroyTransformer(restored))
	assert.Equal(t, 0, f.Outstanding())
}

func TestFeaturizer_UnresolvedTailError(t *testing.T) {
	f := newTestFeaturizer[int16](t,
		WithImputerOptions(preprocessing.WithUnresolvedTailPolicy(preprocessing.ErrorOnUnresolved)))
	tr := trainedTransformer(t, f)

	var data TransformedData[int16]
	requireOK(t)(f.Transform(tr, nil, &data))
	assert.Empty(t, data.Items)

	info := requireFailure(t)(f.Flush(tr, &data))
	assert.Equal(t, errors.KindInvalidState, info.Kind)

	requireOK(t)(f.DestroyTransformer(tr))
}

func TestFeaturizer_AllocationLimit(t *testing.T) {
	f := newTestFeaturizer[int64](t, WithMaxOutputItems(2))
	tr := trainedTransformer(t, f)

	var data TransformedData[int64]
	requireOK(t)(f.Transform(tr, nil, &data))
	requireOK(t)(f.Transform(tr, nil, &data))

	info := requireFailure(t)(f.Transform(tr, ptr[int64](1), &data))
	assert.Equal(t, errors.KindAllocation, info.Kind)
	assert.Contains(t, info.Message, "unable to allocate 3 elements")

	requireOK(t)(f.DestroyTransformer(tr))
	assert.Equal(t, 0, f.Outstanding())
}

func TestFeaturizer_ArchiveSizeLimit(t *testing.T) {
	f := newTestFeaturizer[string](t, WithMaxArchiveBytes(8), WithMaxOutputItems(1))
	tr := trainedTransformer(t, f)

	var data TransformedData[string]
	requireOK(t)(f.Transform(tr, ptr("ab"), &data))
	requireOK(t)(f.DestroyTransformedData(data.Handle))

	var saved SaveData
	requireOK(t)(f.CreateTransformerSaveData(tr, &saved))
	assert.Len(t, saved.Bytes, 7)
	requireOK(t)(f.DestroyTransformerSaveData(saved.Handle))

	requireOK(t)(f.Transform(tr, ptr("abcd"), &data))
	requireOK(t)(f.DestroyTransformedData(data.Handle))

	info := requireFailure(t)(f.CreateTransformerSaveData(tr, &saved))
	assert.Equal(t, errors.KindAllocation, info.Kind)
	assert.Contains(t, info.Message, "unable to allocate 9 elements")

	requireOK(t)(f.DestroyTransformer(tr))
	assert.Equal(t, 0, f.Outstanding())
}

func TestFeaturizer_InstancesUseProcessLogger(t *testing.T) {
	prev := log.GetLogger()
	t.Cleanup(func() { log.SetLogger(prev) })

	testLogger, _ := log.NewTestLogger(log.LevelDebug)
	log.SetLogger(testLogger)

	requireFailure(t)(BackwardFillImputerInt64.DestroyEstimator(0))
	assert.True(t, testLogger.ContainsMessage("boundary call failed"))
	assert.True(t, testLogger.ContainsField(log.FeaturizerKey, "BackwardFillImputer"))
	assert.True(t, testLogger.ContainsField(log.ComponentKey, "adapter"))

	tr := trainedTransformer(t, BackwardFillImputerInt64)
	got := transformAll(t, BackwardFillImputerInt64, tr, []*int64{ptr[int64](1), nil})
	assert.Equal(t, [][]int64{{1}, nil, nil}, got)
	assert.True(t, testLogger.ContainsMessage("unresolved nulls dropped at flush"))
	requireOK(t)(BackwardFillImputerInt64.DestroyTransformer(tr))
}

func TestFeaturizer_FailureRecordHasOneErrorKind(t *testing.T) {
	var buf bytes.Buffer
	f := NewBackwardFillFeaturizer[int64](WithLogger(log.NewZerologLogger(&buf, log.LevelDebug)))

	requireFailure(t)(f.DestroyTransformer(0))
	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "boundary call failed")
	assert.Equal(t, 1, strings.Count(line, `"`+log.ErrorKindKey+`"`))
}

type panickingEstimator struct {
	*preprocessing.BackwardFillEstimator[int64]
}

func (p panickingEstimator) Fit(v model.Nullable[int64]) (model.FitResult, error) {
	if v.IsNull() {
		panic("boom")
	}
	return p.BackwardFillEstimator.Fit(v)
}

func TestFeaturizer_PanicPoisonsHandle(t *testing.T) {
	testLogger, _ := log.NewTestLogger(log.LevelDebug)
	f := NewFeaturizer[int64]("Panicky",
		func(o ...preprocessing.Option) model.Estimator[int64] {
			return panickingEstimator{preprocessing.NewBackwardFillEstimator[int64](o...)}
		},
		nil,
		WithLogger(testLogger))

	var est EstimatorHandle
	requireOK(t)(f.CreateEstimator(&est))

	var result model.FitResult
	requireOK(t)(f.Fit(est, ptr[int64](1), &result))

	info := requireFailure(t)(f.Fit(est, nil, &result))
	assert.True(t, errors.IsPanic(info.Err))
	assert.Contains(t, info.Message, "panic in Panicky_int64_Fit: boom")
	assert.True(t, testLogger.ContainsMessage("boundary call failed"))

	info = requireFailure(t)(f.CompleteTraining(est))
	assert.Equal(t, errors.KindInvalidState, info.Kind)
	assert.Contains(t, info.Message, "poisoned")

	requireOK(t)(f.DestroyEstimator(est))
	assert.Equal(t, 0, f.Outstanding())
}

func TestErrorInfo_UnknownHandle(t *testing.T) {
	_, err := GetErrorInfoString(0)
	require.Error(t, err)
	assert.Error(t, DestroyErrorInfo(0))
}

func TestInstances(t *testing.T) {
	assert.Equal(t, "BackwardFillImputer", BackwardFillImputerDouble.Name())
	assert.Equal(t, "ForwardFillImputer", ForwardFillImputerBool.Name())

	tr := trainedTransformer(t, ForwardFillImputerInt64)
	got := transformAll(t, ForwardFillImputerInt64, tr, []*int64{ptr[int64](4), nil})
	assert.Equal(t, [][]int64{{4}, {4}, nil}, got)
	requireOK(t)(ForwardFillImputerInt64.DestroyTransformer(tr))
}
