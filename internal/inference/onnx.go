// Package inference runs exported doublet classifiers with ONNX Runtime.
package inference

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	ort "github.com/yalue/onnxruntime_go"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/doubletfilter/internal/config"
	"github.com/tensorplex-labs/doubletfilter/internal/evaluation"
)

var ErrMissingInput = errors.New("model input not provided")

// Runtime owns the process-wide ONNX Runtime environment.
type Runtime struct {
	outputName string
}

func NewRuntime(cfg *config.InferenceEnvConfig) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("inference config is nil")
	}
	if cfg.OnnxRuntimeLib != "" {
		ort.SetSharedLibraryPath(cfg.OnnxRuntimeLib)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	return &Runtime{outputName: cfg.OutputName}, nil
}

func (r *Runtime) Close() {
	if err := ort.DestroyEnvironment(); err != nil {
		log.Warn().Err(err).Msg("failed to destroy ONNX environment")
	}
}

// Predictor evaluates one exported model file. A session is opened per call since the
// number of samples changes between datasets.
type Predictor struct {
	modelPath  string
	inputNames []string
	outputName string
	labels     int
}

// NewPredictor binds modelPath to the model inputs, in graph order, and the class count.
func (r *Runtime) NewPredictor(modelPath string, inputNames []string, labels int) (*Predictor, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model %s: %w", modelPath, err)
	}
	if len(inputNames) == 0 || labels < 1 {
		return nil, fmt.Errorf("model %s: need inputs and at least one label", modelPath)
	}
	return &Predictor{
		modelPath:  modelPath,
		inputNames: inputNames,
		outputName: r.outputName,
		labels:     labels,
	}, nil
}

func (p *Predictor) Predict(ctx context.Context, inputs evaluation.Inputs) (*mat.Dense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ordered, rows, err := orderedInputs(inputs, p.inputNames)
	if err != nil {
		return nil, err
	}

	inputTensors := make([]ort.ArbitraryTensor, 0, len(ordered))
	defer func() {
		for _, t := range inputTensors {
			t.Destroy()
		}
	}()
	for _, in := range ordered {
		t, err := ort.NewTensor(ort.NewShape(in.Shape...), in.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to create input tensor: %w", err)
		}
		inputTensors = append(inputTensors, t)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(int64(rows), int64(p.labels)))
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	session, err := ort.NewAdvancedSession(p.modelPath,
		p.inputNames, []string{p.outputName},
		inputTensors, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}
	defer session.Destroy()

	if err := session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	return toDense(outputTensor.GetData(), rows, p.labels)
}

// orderedInputs lines the tensors up with the session inputs and checks they agree on
// the number of samples.
func orderedInputs(inputs evaluation.Inputs, names []string) ([]evaluation.Tensor, int, error) {
	ordered := make([]evaluation.Tensor, len(names))
	rows := -1
	for i, name := range names {
		t, ok := inputs[name]
		if !ok {
			return nil, 0, fmt.Errorf("%q: %w", name, ErrMissingInput)
		}
		if len(t.Shape) == 0 {
			return nil, 0, fmt.Errorf("input %q has no shape", name)
		}
		if rows >= 0 && int(t.Shape[0]) != rows {
			return nil, 0, fmt.Errorf("input %q holds %d samples, expected %d", name, t.Shape[0], rows)
		}
		rows = int(t.Shape[0])
		ordered[i] = t
	}
	return ordered, rows, nil
}

func toDense(data []float32, rows, cols int) (*mat.Dense, error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("model returned %d values, expected %dx%d", len(data), rows, cols)
	}
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return mat.NewDense(rows, cols, out), nil
}
