package inference

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/doubletfilter/internal/config"
	"github.com/tensorplex-labs/doubletfilter/internal/evaluation"
)

func TestOrderedInputs(t *testing.T) {
	inputs := evaluation.Inputs{
		"info_input":      {Shape: []int64{2, 3}, Data: make([]float32, 6)},
		"hit_shape_input": {Shape: []int64{2, 4, 4, 1}, Data: make([]float32, 32)},
	}

	ordered, rows, err := orderedInputs(inputs, []string{"hit_shape_input", "info_input"})
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
	assert.Equal(t, []int64{2, 4, 4, 1}, ordered[0].Shape)
	assert.Equal(t, []int64{2, 3}, ordered[1].Shape)

	_, _, err = orderedInputs(inputs, []string{"in_hit_shape_input"})
	assert.ErrorIs(t, err, ErrMissingInput)

	inputs["info_input"] = evaluation.Tensor{Shape: []int64{3, 3}, Data: make([]float32, 9)}
	_, _, err = orderedInputs(inputs, []string{"hit_shape_input", "info_input"})
	assert.Error(t, err)
}

func TestToDense(t *testing.T) {
	m, err := toDense([]float32{0.25, 0.75, 1, 0}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 1}, mat.Col(nil, 0, m))

	_, err = toDense([]float32{0.25}, 2, 2)
	assert.Error(t, err)
}

// Needs a real runtime: ONNXRUNTIME_LIB and DOUBLET_TEST_MODEL pointing at a two-class
// model with a single hit_shape_input.
func TestPredictorWithRuntime(t *testing.T) {
	lib, model := os.Getenv("ONNXRUNTIME_LIB"), os.Getenv("DOUBLET_TEST_MODEL")
	if lib == "" || model == "" {
		t.Skip("ONNXRUNTIME_LIB or DOUBLET_TEST_MODEL not set")
	}

	rt, err := NewRuntime(&config.InferenceEnvConfig{OnnxRuntimeLib: lib, OutputName: "output"})
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	_, err = rt.NewPredictor(filepath.Join(t.TempDir(), "missing.onnx"), []string{"hit_shape_input"}, 2)
	assert.Error(t, err)

	p, err := rt.NewPredictor(model, []string{"hit_shape_input"}, 2)
	require.NoError(t, err)

	out, err := p.Predict(context.Background(), evaluation.Inputs{
		"hit_shape_input": {Shape: []int64{1, 16, 16, 20}, Data: make([]float32, 16*16*20)},
	})
	require.NoError(t, err)
	rows, cols := out.Dims()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 2, cols)
}
