package evaluation

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"
)

// ThresholdResult is the accuracy reached when binarizing predictions at Threshold.
type ThresholdResult struct {
	Accuracy  float64 `json:"accuracy"`
	Threshold float64 `json:"threshold"`
}

// Tensor is a dense float32 model input in row-major order.
type Tensor struct {
	Shape []int64   `json:"shape"`
	Data  []float32 `json:"data"`
}

// Inputs maps a model input name (e.g. hit_shape_input, info_input) to its tensor.
type Inputs map[string]Tensor

// Dataset is a set of model inputs with their one-hot labels, one row per sample.
type Dataset struct {
	Inputs Inputs
	Labels *mat.Dense
}

// Predictor runs a trained model's inference step.
type Predictor interface {
	// Predict returns one row of class probabilities per sample.
	Predict(ctx context.Context, inputs Inputs) (*mat.Dense, error)
}

// EpochReport is what the epoch-end callback measured.
type EpochReport struct {
	Epoch         int
	ROC           float64
	ValidationROC float64
	Elapsed       time.Duration
}
