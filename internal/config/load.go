// Package config defines environment configuration structs and loaders.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	TrainingEnvConfig
	ArchitectureEnvConfig
	EvaluationEnvConfig
	InferenceEnvConfig
	Environment string `env:"ENVIRONMENT" envDefault:"prod"`
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TrainingEnvConfig holds the training hyper-parameters.
type TrainingEnvConfig struct {
	NEpochs      int     `env:"N_EPOCHS" envDefault:"100"`
	BatchSize    int     `env:"BATCH_SIZE" envDefault:"128"`
	Dropout      float64 `env:"DROPOUT" envDefault:"0.5"`
	LearningRate float64 `env:"LR" envDefault:"0.001"`
	Momentum     float64 `env:"MOMENTUM" envDefault:"0.5"`
	Patience     int     `env:"PATIENCE" envDefault:"15"`
	LogDir       string  `env:"LOG_DIR" envDefault:"models/cnn_doublet"`
	ModelName    string  `env:"MODEL_NAME" envDefault:"model_"`
	MaxNorm      float64 `env:"MAXNORM" envDefault:"10.0"`
	Verbose      int     `env:"VERBOSE" envDefault:"1"`
}

// ArchitectureEnvConfig sizes model inputs and outputs.
type ArchitectureEnvConfig struct {
	ImageSize int `env:"IMAGE_SIZE" envDefault:"16"`
	InfoSize  int `env:"INFO_SIZE" envDefault:"67"`
	Labels    int `env:"N_LABELS" envDefault:"2"`
}

// EvaluationEnvConfig configures the threshold scan and epoch-end evaluation.
type EvaluationEnvConfig struct {
	ThresholdGrid           int `env:"THRESHOLD_GRID" envDefault:"50"`
	ValidationThresholdGrid int `env:"VALIDATION_THRESHOLD_GRID" envDefault:"200"`
	EvalEvery               int `env:"EVAL_EVERY" envDefault:"1"`
}

// InferenceEnvConfig points at the ONNX runtime used to replay checkpoints.
type InferenceEnvConfig struct {
	OnnxRuntimeLib string `env:"ONNXRUNTIME_LIB"`
	OutputName     string `env:"ONNX_OUTPUT_NAME" envDefault:"output"`
}

func (c *AppConfig) Validate() error {
	var errs []error
	if c.NEpochs < 1 || c.BatchSize < 1 || c.Patience < 0 {
		errs = append(errs, fmt.Errorf("epochs %d, batch size %d, patience %d must be positive", c.NEpochs, c.BatchSize, c.Patience))
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		errs = append(errs, fmt.Errorf("DROPOUT %v outside [0, 1)", c.Dropout))
	}
	if c.LearningRate <= 0 || c.Momentum < 0 || c.MaxNorm < 0 {
		errs = append(errs, fmt.Errorf("LR %v, MOMENTUM %v, MAXNORM %v out of range", c.LearningRate, c.Momentum, c.MaxNorm))
	}
	if c.ImageSize < 1 || c.InfoSize < 1 || c.Labels < 1 {
		errs = append(errs, fmt.Errorf("IMAGE_SIZE %d, INFO_SIZE %d, N_LABELS %d must be positive", c.ImageSize, c.InfoSize, c.Labels))
	}
	if c.ThresholdGrid < 1 || c.ValidationThresholdGrid < 1 {
		errs = append(errs, fmt.Errorf("threshold grids %d/%d must be at least 1", c.ThresholdGrid, c.ValidationThresholdGrid))
	}
	if c.EvalEvery < 1 {
		errs = append(errs, fmt.Errorf("EVAL_EVERY %d must be at least 1", c.EvalEvery))
	}
	if strings.TrimSpace(c.OutputName) == "" {
		errs = append(errs, errors.New("ONNX_OUTPUT_NAME is empty"))
	}
	return errors.Join(errs...)
}
