package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/doubletfilter/internal/evaluation"
)

func TestLogSummary(t *testing.T) {
	best := evaluation.ThresholdResult{Accuracy: 1, Threshold: 0.5}

	t.Run("both classes present", func(t *testing.T) {
		var buf bytes.Buffer
		yTrue := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
		yPred := mat.NewDense(2, 2, []float64{0.9, 0.1, 0.2, 0.8})

		logSummary(zerolog.New(&buf), best, yTrue, yPred, 50)
		assert.Contains(t, buf.String(), `"roc_auc":1`)
		assert.Contains(t, buf.String(), `"threshold":0.5`)
	})

	t.Run("single class omits roc_auc", func(t *testing.T) {
		var buf bytes.Buffer
		yTrue := mat.NewDense(2, 2, []float64{1, 0, 1, 0})
		yPred := mat.NewDense(2, 2, []float64{0.9, 0.1, 0.2, 0.8})

		logSummary(zerolog.New(&buf), best, yTrue, yPred, 50)
		assert.NotContains(t, buf.String(), "roc_auc")
		assert.Contains(t, buf.String(), "ROC-AUC not available")
		assert.Contains(t, buf.String(), `"accuracy":1`)
	})
}
