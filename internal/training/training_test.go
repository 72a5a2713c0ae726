package training

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluateCheckpoint(context.Context, int) error { return nil }

func TestEpochCallbackShouldTrigger(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		epochs   []int
		want     []int
	}{
		{"every epoch", 1, []int{0, 1, 2, 3}, []int{0, 1, 2, 3}},
		{"every third epoch", 3, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, []int{2, 5, 8}},
		{"non positive interval falls back to every epoch", 0, []int{0, 1}, []int{0, 1}},
		{"gap after a trigger fires once", 2, []int{1, 6}, []int{1, 6}},
		{"sparse epochs starting at zero", 5, []int{0, 5, 10, 15}, []int{5, 10, 15}},
		{"sparse epochs past the first interval", 5, []int{5, 10, 15}, []int{5, 10, 15}},
		{"sparse epochs off the interval grid", 5, []int{3, 7, 9, 12}, []int{7, 12}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var fired []int
			cb := NewEpochCallback(tc.interval, func(_ context.Context, epoch int) error {
				fired = append(fired, epoch)
				return nil
			})
			for _, epoch := range tc.epochs {
				if cb.ShouldTrigger(epoch) {
					require.NoError(t, cb.Execute(context.Background(), epoch))
				}
			}
			assert.Equal(t, tc.want, fired)
		})
	}
}

func TestEpochCallbackFailureRetries(t *testing.T) {
	fail := true
	cb := NewEpochCallback(2, func(context.Context, int) error {
		if fail {
			return errors.New("flaky")
		}
		return nil
	})

	require.True(t, cb.ShouldTrigger(1))
	assert.Error(t, cb.Execute(context.Background(), 1))
	assert.Equal(t, -1, cb.LastTriggerAtEpoch)

	fail = false
	// still before the first successful trigger, so the interval check is used again
	assert.True(t, cb.ShouldTrigger(3))
	require.NoError(t, cb.Execute(context.Background(), 3))
	assert.Equal(t, 3, cb.LastTriggerAtEpoch)
	assert.False(t, cb.ShouldTrigger(4))
}

type replayer struct{}

func (replayer) replay(context.Context, int) error { return nil }

func TestEpochCallbackName(t *testing.T) {
	cb := NewEpochCallback(1, evaluateCheckpoint)
	assert.Equal(t, "evaluateCheckpoint", cb.GetName())
	assert.Equal(t, "replay", NewEpochCallback(1, replayer{}.replay).GetName())
	assert.Equal(t, "unknown", InferNameFromFunc(42))
}

func TestRunnerEpochEnd(t *testing.T) {
	boom := errors.New("boom")
	var ran []string

	failing := NewEpochCallback(1, func(context.Context, int) error {
		ran = append(ran, "failing")
		return boom
	})
	healthy := NewEpochCallback(1, func(context.Context, int) error {
		ran = append(ran, "healthy")
		return nil
	})
	sparse := NewEpochCallback(5, func(context.Context, int) error {
		ran = append(ran, "sparse")
		return nil
	})

	r := NewRunner(failing, healthy)
	r.Register(sparse)
	require.NotEmpty(t, r.RunID)

	err := r.EpochEnd(context.Background(), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"failing", "healthy"}, ran)

	ran = nil
	err = r.EpochEnd(context.Background(), 4)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"failing", "healthy", "sparse"}, ran)
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	called := false
	r := NewRunner(NewEpochCallback(1, func(context.Context, int) error {
		called = true
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.EpochEnd(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
