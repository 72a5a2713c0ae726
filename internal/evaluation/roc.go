package evaluation

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ROCAUC is the area under the ROC curve of scores against binary labels.
// Tied scores contribute half credit, matching the usual trapezoidal estimate.
func ROCAUC(scores, labels []float64) (float64, error) {
	if len(scores) != len(labels) {
		return 0, fmt.Errorf("%d scores vs %d labels: %w", len(scores), len(labels), ErrShapeMismatch)
	}
	if len(scores) == 0 {
		return 0, ErrEmptyInput
	}

	type sample struct {
		score    float64
		positive bool
	}
	samples := make([]sample, len(scores))
	positives := 0
	for i, s := range scores {
		if math.IsNaN(s) {
			return 0, fmt.Errorf("sample %d has score NaN: %w", i, ErrPredictionOutOfRange)
		}
		switch labels[i] {
		case 1:
			positives++
		case 0:
		default:
			return 0, fmt.Errorf("sample %d has label %v: %w", i, labels[i], ErrInvalidLabel)
		}
		samples[i] = sample{score: s, positive: labels[i] == 1}
	}
	if positives == 0 || positives == len(scores) {
		return 0, fmt.Errorf("%d of %d samples positive: %w", positives, len(scores), ErrDegenerateLabels)
	}

	// stat.ROC wants scores ascending
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].score < samples[j].score })
	y := make([]float64, len(samples))
	classes := make([]bool, len(samples))
	for i, s := range samples {
		y[i] = s.score
		classes[i] = s.positive
	}

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}

// MacroROCAUC averages the per-column ROC-AUC of one-hot labels against per-class predictions.
func MacroROCAUC(yTrue, yPred *mat.Dense) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.IsEmpty() || yPred.IsEmpty() {
		return 0, ErrEmptyInput
	}
	trueRows, trueCols := yTrue.Dims()
	predRows, predCols := yPred.Dims()
	if trueRows != predRows || trueCols != predCols {
		return 0, fmt.Errorf("labels %dx%d vs predictions %dx%d: %w",
			trueRows, trueCols, predRows, predCols, ErrShapeMismatch)
	}

	aucs := make([]float64, trueCols)
	for col := range trueCols {
		auc, err := ROCAUC(mat.Col(nil, col, yPred), mat.Col(nil, col, yTrue))
		if err != nil {
			return 0, fmt.Errorf("column %d: %w", col, err)
		}
		aucs[col] = auc
	}
	return stat.Mean(aucs, nil), nil
}
