package evaluation

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type stubPredictor struct {
	out   *mat.Dense
	err   error
	calls int
	seen  Inputs
}

func (s *stubPredictor) Predict(_ context.Context, inputs Inputs) (*mat.Dense, error) {
	s.calls++
	s.seen = inputs
	return s.out, s.err
}

// steppingClock advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	now := time.Unix(1_700_000_000, 0)
	return func() time.Time {
		current := now
		now = now.Add(step)
		return current
	}
}

func trainingSet() Dataset {
	return Dataset{
		Inputs: Inputs{
			"hit_shape_input": {Shape: []int64{4, 1}, Data: []float32{0, 1, 2, 3}},
		},
		Labels: mat.NewDense(4, 2, []float64{
			1, 0,
			1, 0,
			0, 1,
			0, 1,
		}),
	}
}

func TestROCCallbackOnEpochEnd(t *testing.T) {
	var buf bytes.Buffer
	model := &stubPredictor{out: mat.NewDense(4, 2, []float64{
		0.9, 0.1,
		0.35, 0.65,
		0.4, 0.6,
		0.2, 0.8,
	})}
	cb := NewROCCallback(WithOutput(&buf), WithClock(steppingClock(3500*time.Millisecond)))

	report, err := cb.OnEpochEnd(context.Background(), 2, model, trainingSet())
	require.NoError(t, err)

	assert.Equal(t, 1, model.calls)
	assert.Contains(t, model.seen, "hit_shape_input")
	assert.Equal(t, 2, report.Epoch)
	assert.InDelta(t, 0.75, report.ROC, 1e-12)
	assert.Equal(t, 0.0, report.ValidationROC)
	assert.Equal(t, 3500*time.Millisecond, report.Elapsed)
	assert.Equal(t, "\n ==> ROC: 0.75 - ROC val: 0 (3 sec.)\n", buf.String())
}

func TestROCCallbackFormat(t *testing.T) {
	cb := NewROCCallback()
	line := cb.Format(EpochReport{ROC: 0.987654, ValidationROC: 0.5, Elapsed: 59*time.Second + 999*time.Millisecond})
	assert.Equal(t, "ROC: 0.9877 - ROC val: 0.5 (59 sec.)", line)

	line = NewROCCallback(WithPrecision(2)).Format(EpochReport{ROC: 0.987654})
	assert.Equal(t, "ROC: 0.99 - ROC val: 0 (0 sec.)", line)

	line = cb.Format(EpochReport{ROC: 0.99999, Elapsed: 2 * time.Second})
	assert.Equal(t, "ROC: 1.0 - ROC val: 0 (2 sec.)", line)
}

func TestROCCallbackErrors(t *testing.T) {
	t.Run("predict failure is returned and nothing is printed", func(t *testing.T) {
		var buf bytes.Buffer
		boom := errors.New("boom")
		cb := NewROCCallback(WithOutput(&buf))

		_, err := cb.OnEpochEnd(context.Background(), 0, &stubPredictor{err: boom}, trainingSet())
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, buf.String())
	})

	t.Run("single class labels report a degenerate ROC", func(t *testing.T) {
		var buf bytes.Buffer
		cb := NewROCCallback(WithOutput(&buf))
		train := trainingSet()
		train.Labels = mat.NewDense(4, 2, []float64{1, 0, 1, 0, 1, 0, 1, 0})

		_, err := cb.OnEpochEnd(context.Background(), 1, &stubPredictor{out: mat.NewDense(4, 2, nil)}, train)
		assert.ErrorIs(t, err, ErrDegenerateLabels)
		assert.True(t, strings.HasPrefix(err.Error(), "epoch 1"))
	})

	t.Run("missing model", func(t *testing.T) {
		_, err := NewROCCallback().EvaluateEpoch(context.Background(), 0, nil, trainingSet())
		assert.Error(t, err)
	})
}

func TestPlotThresholdScanTerminal(t *testing.T) {
	scan, err := ScanThresholds([]float64{0.1, 0.9, 0.4, 0.6}, []float64{0, 1, 0, 1}, 5)
	require.NoError(t, err)

	var buf bytes.Buffer
	PlotThresholdScanTerminal(&buf, scan, "train")
	out := buf.String()

	assert.Contains(t, out, "train (Terminal Plot - Threshold Scan)")
	assert.Contains(t, out, "0.5000 | 1.000000 | "+strings.Repeat("█", 50)+" <- best")
	assert.Contains(t, out, "Best: accuracy 1.000000 at threshold 0.5000")

	buf.Reset()
	PlotThresholdScanTerminal(&buf, nil, "empty")
	assert.Contains(t, buf.String(), "nothing to plot")
}
