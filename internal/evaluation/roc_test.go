package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestROCAUC(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		labels []float64
		want   float64
	}{
		{"perfect ranking", []float64{0.1, 0.9, 0.4, 0.6}, []float64{0, 1, 0, 1}, 1.0},
		{"inverted ranking", []float64{0.9, 0.1, 0.6, 0.4}, []float64{0, 1, 0, 1}, 0.0},
		{"partial ranking", []float64{0.1, 0.4, 0.35, 0.8}, []float64{0, 0, 1, 1}, 0.75},
		{"all tied", []float64{0.5, 0.5, 0.5, 0.5}, []float64{0, 1, 0, 1}, 0.5},
		{"tie across classes", []float64{0.2, 0.5, 0.5, 0.9}, []float64{0, 0, 1, 1}, 0.875},
		{"unsorted input", []float64{0.8, 0.2, 0.6, 0.4, 0.1}, []float64{1, 0, 1, 1, 0}, 1.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ROCAUC(tc.scores, tc.labels)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestROCAUCErrors(t *testing.T) {
	_, err := ROCAUC([]float64{0.2, 0.7}, []float64{1, 1})
	assert.ErrorIs(t, err, ErrDegenerateLabels)

	_, err = ROCAUC([]float64{0.2, 0.7}, []float64{0, 0})
	assert.ErrorIs(t, err, ErrDegenerateLabels)

	_, err = ROCAUC([]float64{0.2}, []float64{0, 1})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = ROCAUC(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ROCAUC([]float64{0.2, 0.3}, []float64{0, 3})
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

func TestMacroROCAUC(t *testing.T) {
	yTrue := mat.NewDense(4, 2, []float64{
		1, 0,
		1, 0,
		0, 1,
		0, 1,
	})
	yPred := mat.NewDense(4, 2, []float64{
		0.9, 0.1,
		0.35, 0.65,
		0.4, 0.6,
		0.2, 0.8,
	})

	// both softmax columns rank samples identically
	got, err := MacroROCAUC(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got, 1e-12)

	_, err = MacroROCAUC(yTrue, mat.NewDense(4, 3, nil))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	single := mat.NewDense(2, 2, []float64{1, 0, 1, 0})
	_, err = MacroROCAUC(single, mat.NewDense(2, 2, []float64{0.3, 0.7, 0.6, 0.4}))
	assert.ErrorIs(t, err, ErrDegenerateLabels)
}
