package evaluation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// ROCCallback computes the training ROC-AUC at the end of an epoch and reports it.
type ROCCallback struct {
	out       io.Writer
	precision int
	now       func() time.Time
}

type ROCCallbackOption func(*ROCCallback)

// WithOutput redirects the epoch summary line, stdout by default.
func WithOutput(w io.Writer) ROCCallbackOption {
	return func(c *ROCCallback) {
		c.out = w
	}
}

func WithPrecision(decimals int) ROCCallbackOption {
	return func(c *ROCCallback) {
		c.precision = decimals
	}
}

func WithClock(now func() time.Time) ROCCallbackOption {
	return func(c *ROCCallback) {
		c.now = now
	}
}

func NewROCCallback(opts ...ROCCallbackOption) *ROCCallback {
	c := &ROCCallback{
		out:       os.Stdout,
		precision: ROCPrecision,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// EvaluateEpoch predicts on the training set and measures the ROC-AUC.
// Elapsed covers both the prediction and the metric.
func (c *ROCCallback) EvaluateEpoch(ctx context.Context, epoch int, model Predictor, train Dataset) (EpochReport, error) {
	if model == nil {
		return EpochReport{}, errors.New("no model to evaluate")
	}
	start := c.now()

	yPred, err := model.Predict(ctx, train.Inputs)
	if err != nil {
		return EpochReport{}, fmt.Errorf("epoch %d: predict: %w", epoch, err)
	}

	roc, err := MacroROCAUC(train.Labels, yPred)
	if err != nil {
		return EpochReport{}, fmt.Errorf("epoch %d: roc: %w", epoch, err)
	}

	return EpochReport{
		Epoch:         epoch,
		ROC:           roc,
		ValidationROC: 0,
		Elapsed:       c.now().Sub(start),
	}, nil
}

// OnEpochEnd evaluates the epoch and prints the summary line.
func (c *ROCCallback) OnEpochEnd(ctx context.Context, epoch int, model Predictor, train Dataset) (EpochReport, error) {
	report, err := c.EvaluateEpoch(ctx, epoch, model, train)
	if err != nil {
		return report, err
	}

	line := c.Format(report)
	if _, err := fmt.Fprintf(c.out, "\n ==> %s\n", line); err != nil {
		return report, fmt.Errorf("write epoch report: %w", err)
	}
	log.Info().Int("epoch", epoch).Float64("roc", report.ROC).Dur("elapsed", report.Elapsed).Msg(line)
	return report, nil
}

// Format renders "ROC: <v> - ROC val: <v> (<s> sec.)" with whole seconds.
func (c *ROCCallback) Format(report EpochReport) string {
	return fmt.Sprintf("ROC: %s - ROC val: %s (%d sec.)",
		formatRounded(report.ROC, c.precision),
		formatRounded(report.ValidationROC, c.precision),
		int64(report.Elapsed/time.Second))
}

func formatRounded(v float64, decimals int) string {
	scale := math.Pow(10, float64(decimals))
	r := math.Round(v*scale) / scale
	s := strconv.FormatFloat(r, 'f', -1, 64)
	// whole values print as 1.0, the disabled validation value stays 0
	if r != 0 && r == math.Trunc(r) {
		s += ".0"
	}
	return s
}
