package preprocessing

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/featurizer/core/model"
	"github.com/YuminosukeSato/featurizer/pkg/errors"
	"github.com/YuminosukeSato/featurizer/pkg/log"
)

func null[T model.Value]() model.Nullable[T] { return model.Null[T]() }

func some[T model.Value](v T) model.Nullable[T] { return model.Some(v) }

func trainedBackwardFill[T model.Value](t *testing.T, opts ...Option) *BackwardFillTransformer[T] {
	t.Helper()
	est := NewBackwardFillEstimator[T](opts...)
	require.NoError(t, model.Train[T](context.Background(), est, nil))
	tr, err := est.CreateBackwardFillTransformer()
	require.NoError(t, err)
	return tr
}

func executeAll[T model.Value](t *testing.T, tr model.Transformer[T], inputs []model.Nullable[T]) [][]T {
	t.Helper()
	out := make([][]T, 0, len(inputs))
	for _, in := range inputs {
		values, err := tr.Execute(in)
		require.NoError(t, err)
		out = append(out, values)
	}
	return out
}

func TestBackwardFill_Strings(t *testing.T) {
	tr := trainedBackwardFill[string](t)

	got := executeAll[string](t, tr, []model.Nullable[string]{
		null[string](), null[string](), some("2"), null[string](), some("3"),
	})
	assert.Equal(t, [][]string{nil, nil, {"2", "2", "2"}, nil, {"3", "3"}}, got)

	tail, err := tr.Flush()
	require.NoError(t, err)
	assert.Empty(t, tail)
}

func TestBackwardFill_Int64AfterTraining(t *testing.T) {
	tr := trainedBackwardFill[int64](t)

	got := executeAll[int64](t, tr, []model.Nullable[int64]{
		null[int64](), null[int64](), some[int64](2), null[int64](), some[int64](3),
	})
	assert.Equal(t, [][]int64{nil, nil, {2, 2, 2}, nil, {3, 3}}, got)

	tail, err := tr.Flush()
	require.NoError(t, err)
	assert.Empty(t, tail)
}

func TestBackwardFill_UnresolvedTail(t *testing.T) {
	inputs := []model.Nullable[int64]{null[int64](), null[int64]()}

	t.Run("default drops and warns", func(t *testing.T) {
		testLogger, _ := log.NewTestLogger(log.LevelDebug)
		tr := trainedBackwardFill[int64](t, WithLogger(testLogger))

		assert.Equal(t, [][]int64{nil, nil}, executeAll[int64](t, tr, inputs))

		tail, err := tr.Flush()
		require.NoError(t, err)
		assert.Empty(t, tail)
		assert.Equal(t, 0, tr.Pending())
		assert.True(t, testLogger.ContainsMessage("unresolved nulls dropped"))
		assert.True(t, testLogger.ContainsField(log.PendingKey, 2.0))
		assert.True(t, testLogger.ContainsField(log.FeaturizerKey, "BackwardFillImputer"))
	})

	t.Run("last known without a prior value drops", func(t *testing.T) {
		tr := trainedBackwardFill[int64](t, WithUnresolvedTailPolicy(FillWithLastKnown))
		executeAll[int64](t, tr, inputs)

		tail, err := tr.Flush()
		require.NoError(t, err)
		assert.Empty(t, tail)
	})

	t.Run("last known with a prior value fills", func(t *testing.T) {
		tr := trainedBackwardFill[int64](t, WithUnresolvedTailPolicy(FillWithLastKnown))
		got := executeAll[int64](t, tr, []model.Nullable[int64]{some[int64](5), null[int64](), null[int64]()})
		assert.Equal(t, [][]int64{{5}, nil, nil}, got)

		tail, err := tr.Flush()
		require.NoError(t, err)
		assert.Equal(t, []int64{5, 5}, tail)
	})

	t.Run("error policy", func(t *testing.T) {
		tr := trainedBackwardFill[int64](t, WithUnresolvedTailPolicy(ErrorOnUnresolved))
		executeAll[int64](t, tr, inputs)

		_, err := tr.Flush()
		require.Error(t, err)
		assert.Equal(t, errors.KindInvalidState, errors.KindOf(err))

		// pending was cleared, so a second flush is clean
		tail, err := tr.Flush()
		require.NoError(t, err)
		assert.Empty(t, tail)
	})
}

// Every non-null input emits the buffered nulls plus itself, in order.
func TestBackwardFill_FillOnResolveProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		tr := trainedBackwardFill[int32](t)
		run := 0
		n := rng.Intn(30)
		for i := 0; i < n; i++ {
			if rng.Intn(3) == 0 {
				v := int32(rng.Intn(1000))
				out, err := tr.Execute(some(v))
				require.NoError(t, err)
				require.Len(t, out, run+1)
				for _, x := range out {
					require.Equal(t, v, x)
				}
				run = 0
				continue
			}
			out, err := tr.Execute(null[int32]())
			require.NoError(t, err)
			require.Empty(t, out)
			run++
		}
		assert.Equal(t, run, tr.Pending())
	}
}

func TestBackwardFill_FlushAfterValueIsEmpty(t *testing.T) {
	tr := trainedBackwardFill[uint16](t)
	_, err := tr.Execute(null[uint16]())
	require.NoError(t, err)
	_, err = tr.Execute(some[uint16](9))
	require.NoError(t, err)

	tail, err := tr.Flush()
	require.NoError(t, err)
	assert.Empty(t, tail)
}

func TestBackwardFillEstimator_StateMachine(t *testing.T) {
	est := NewBackwardFillEstimator[float64]()
	assert.Equal(t, model.Training, est.State())

	_, err := est.CreateTransformer()
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidState, errors.KindOf(err))

	result, err := est.Fit(some(1.5))
	require.NoError(t, err)
	assert.Equal(t, model.Complete, result)

	result, err = est.FitBuffer([]model.Nullable[float64]{some(1.0), null[float64]()})
	require.NoError(t, err)
	assert.Equal(t, model.Complete, result)

	require.NoError(t, est.CompleteTraining())
	require.NoError(t, est.CompleteTraining())
	assert.Equal(t, model.Finished, est.State())

	tr, err := est.CreateTransformer()
	require.NoError(t, err)
	assert.NotNil(t, tr)

	_, err = est.Fit(some(2.0))
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidState, errors.KindOf(err))

	err = est.OnDataCompleted()
	assert.Equal(t, errors.KindInvalidState, errors.KindOf(err))
}

func TestBackwardFillEstimator_OnDataCompletedFinishes(t *testing.T) {
	est := NewBackwardFillEstimator[bool]()
	require.NoError(t, est.OnDataCompleted())
	assert.Equal(t, model.Finished, est.State())
}

func TestBackwardFillEstimator_FitBufferEmpty(t *testing.T) {
	est := NewBackwardFillEstimator[int8]()
	_, err := est.FitBuffer(nil)
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidArgument, errors.KindOf(err))
	assert.Equal(t, model.Training, est.State())
}

func TestBackwardFill_TransformerIndependentOfEstimator(t *testing.T) {
	est := NewBackwardFillEstimator[int64]()
	require.NoError(t, est.CompleteTraining())
	first, err := est.CreateTransformer()
	require.NoError(t, err)
	second, err := est.CreateTransformer()
	require.NoError(t, err)
	est = nil

	_, err = first.Execute(null[int64]())
	require.NoError(t, err)

	out, err := second.Execute(some[int64](4))
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, out)

	out, err = first.Execute(some[int64](7))
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 7}, out)
}

func TestBackwardFill_SaveRestore(t *testing.T) {
	tr := trainedBackwardFill[string](t, WithUnresolvedTailPolicy(FillWithLastKnown))
	_, err := tr.Execute(some("a"))
	require.NoError(t, err)

	buf, err := tr.Save()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 0, 0, 0, 'a'}, buf)

	restored, err := NewBackwardFillTransformerFromBytes[string](buf, WithUnresolvedTailPolicy(FillWithLastKnown))
	require.NoError(t, err)
	assert.True(t, restored.LastKnown().Equal(some("a")))
	assert.Equal(t, 0, restored.Pending())

	for _, in := range []model.Nullable[string]{null[string](), some("b"), null[string]()} {
		want, err := tr.Execute(in)
		require.NoError(t, err)
		got, err := restored.Execute(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	wantTail, err := tr.Flush()
	require.NoError(t, err)
	gotTail, err := restored.Flush()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, wantTail)
	assert.Equal(t, wantTail, gotTail)
}

func TestBackwardFill_SaveWithoutValue(t *testing.T) {
	tr := trainedBackwardFill[float32](t)
	buf, err := tr.Save()
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, buf)

	restored, err := NewBackwardFillTransformerFromBytes[float32](buf)
	require.NoError(t, err)
	assert.True(t, restored.LastKnown().IsNull())
}

func TestBackwardFill_SaveWithPendingWarns(t *testing.T) {
	testLogger, _ := log.NewTestLogger(log.LevelWarn)
	tr := trainedBackwardFill[int64](t, WithLogger(testLogger))
	_, err := tr.Execute(some[int64](1))
	require.NoError(t, err)
	_, err = tr.Execute(null[int64]())
	require.NoError(t, err)

	buf, err := tr.Save()
	require.NoError(t, err)
	assert.True(t, testLogger.ContainsMessage("pending nulls are not persisted"))

	restored, err := NewBackwardFillTransformerFromBytes[int64](buf)
	require.NoError(t, err)
	assert.Equal(t, 0, restored.Pending())
	assert.Equal(t, 1, tr.Pending())
}

func TestBackwardFill_FromBytesErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want string
	}{
		{"empty", nil, "archive must not be empty"},
		{"truncated value", []byte{1, 2, 0}, "truncated archive"},
		{"trailing bytes", []byte{0, 0}, "trailing bytes"},
		{"bad flag", []byte{5}, "invalid bool byte"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBackwardFillTransformerFromBytes[int64](tt.buf)
			require.Error(t, err)
			assert.Equal(t, errors.KindInvalidArgument, errors.KindOf(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := NewBackwardFillTransformerFromBytes[int64](nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyArchive))
}

func TestBackwardFill_AllScalarTypes(t *testing.T) {
	checkType(t, int8(-3))
	checkType(t, int16(300))
	checkType(t, int32(-70000))
	checkType(t, int64(1<<40))
	checkType(t, uint8(200))
	checkType(t, uint16(60000))
	checkType(t, uint32(1<<31))
	checkType(t, uint64(1<<63))
	checkType(t, float32(0.5))
	checkType(t, -2.25)
	checkType(t, false)
	checkType(t, "")
}

func checkType[T model.Value](t *testing.T, v T) {
	t.Helper()
	tr := trainedBackwardFill[T](t)
	got := executeAll[T](t, tr, []model.Nullable[T]{null[T](), some(v)})
	assert.Equal(t, [][]T{nil, {v, v}}, got)

	buf, err := tr.Save()
	require.NoError(t, err)
	restored, err := NewBackwardFillTransformerFromBytes[T](buf)
	require.NoError(t, err)
	assert.True(t, restored.LastKnown().Equal(some(v)))
}
