package evaluation

import "errors"

var (
	ErrShapeMismatch        = errors.New("predictions and labels have different lengths")
	ErrEmptyInput           = errors.New("no samples to evaluate")
	ErrInvalidThresholdGrid = errors.New("threshold grid size must be at least 1")
	ErrPredictionOutOfRange = errors.New("prediction outside [0, 1]")
	ErrInvalidLabel         = errors.New("label is neither 0 nor 1")
	ErrDegenerateLabels     = errors.New("ROC-AUC is undefined when only one class is present")
)
