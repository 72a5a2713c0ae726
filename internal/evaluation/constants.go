package evaluation

const (
	// DefaultThresholdGrid is the number of thresholds scanned when no grid size is given.
	DefaultThresholdGrid = 50
	// ValidationThresholdGrid is the finer grid used on validation predictions.
	ValidationThresholdGrid = 200
	// ROCPrecision is the number of decimals printed in epoch reports.
	ROCPrecision = 4
	// PositiveColumn is the prediction/label column holding the positive class.
	PositiveColumn = 0
)
