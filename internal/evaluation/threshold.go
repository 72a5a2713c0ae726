// Package evaluation scores binary doublet classifiers: best-threshold accuracy,
// ROC-AUC and the epoch-end report printed during training.
package evaluation

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Thresholds returns n evenly spaced thresholds over [0, 1], both ends included.
// A grid of one holds only 0.
func Thresholds(n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("grid size %d: %w", n, ErrInvalidThresholdGrid)
	}
	if n == 1 {
		return []float64{0.0}, nil
	}
	grid := floats.Span(make([]float64, n), 0.0, 1.0)
	// Span accumulates l+step*i, the last point can land just below 1
	grid[n-1] = 1.0
	return grid, nil
}

func validatePair(predictions, labels []float64) error {
	if len(predictions) != len(labels) {
		return fmt.Errorf("%d predictions vs %d labels: %w", len(predictions), len(labels), ErrShapeMismatch)
	}
	if len(predictions) == 0 {
		return ErrEmptyInput
	}
	for i, p := range predictions {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("sample %d has prediction %v: %w", i, p, ErrPredictionOutOfRange)
		}
	}
	for i, y := range labels {
		if y != 0 && y != 1 {
			return fmt.Errorf("sample %d has label %v: %w", i, y, ErrInvalidLabel)
		}
	}
	return nil
}

// accuracyAt assumes validated input.
func accuracyAt(predictions, labels []float64, threshold float64) float64 {
	agree := 0
	for i, p := range predictions {
		predicted := 0.0
		if p > threshold {
			predicted = 1.0
		}
		if predicted == labels[i] {
			agree++
		}
	}
	return float64(agree) / float64(len(predictions))
}

// BinaryAccuracy is the fraction of samples where (prediction > threshold) matches the label.
func BinaryAccuracy(predictions, labels []float64, threshold float64) (float64, error) {
	if err := validatePair(predictions, labels); err != nil {
		return 0, err
	}
	return accuracyAt(predictions, labels, threshold), nil
}

// ScanThresholds evaluates the accuracy at every point of an n-sized grid, in grid order.
func ScanThresholds(predictions, labels []float64, n int) ([]ThresholdResult, error) {
	thresholds, err := Thresholds(n)
	if err != nil {
		return nil, err
	}
	if err := validatePair(predictions, labels); err != nil {
		return nil, err
	}

	scan := make([]ThresholdResult, len(thresholds))
	for i, t := range thresholds {
		scan[i] = ThresholdResult{
			Accuracy:  accuracyAt(predictions, labels, t),
			Threshold: t,
		}
	}
	return scan, nil
}

// MaxBinaryAccuracy returns the grid threshold with the highest accuracy.
// Ties keep the lowest threshold.
func MaxBinaryAccuracy(predictions, labels []float64, n int) (ThresholdResult, error) {
	scan, err := ScanThresholds(predictions, labels, n)
	if err != nil {
		return ThresholdResult{}, err
	}

	best := scan[0]
	for _, point := range scan[1:] {
		if point.Accuracy > best.Accuracy {
			best = point
		}
	}

	log.Debug().Int("grid", n).Int("samples", len(predictions)).
		Msgf("best accuracy %f at threshold %f", best.Accuracy, best.Threshold)
	return best, nil
}

// MaxBinaryAccuracyOnMatrix runs MaxBinaryAccuracy on the positive-class column of
// one-hot labels and per-class predictions.
func MaxBinaryAccuracyOnMatrix(yTrue, yPred *mat.Dense, n int) (ThresholdResult, error) {
	labels, predictions, err := positiveColumns(yTrue, yPred)
	if err != nil {
		return ThresholdResult{}, err
	}
	return MaxBinaryAccuracy(predictions, labels, n)
}

func positiveColumns(yTrue, yPred *mat.Dense) (labels, predictions []float64, err error) {
	if yTrue == nil || yPred == nil || yTrue.IsEmpty() || yPred.IsEmpty() {
		return nil, nil, ErrEmptyInput
	}
	trueRows, trueCols := yTrue.Dims()
	predRows, predCols := yPred.Dims()
	if trueRows != predRows || trueCols != predCols {
		return nil, nil, fmt.Errorf("labels %dx%d vs predictions %dx%d: %w",
			trueRows, trueCols, predRows, predCols, ErrShapeMismatch)
	}
	return mat.Col(nil, PositiveColumn, yTrue), mat.Col(nil, PositiveColumn, yPred), nil
}
