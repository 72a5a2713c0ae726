package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorplex-labs/doubletfilter/internal/architecture"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.NEpochs)
	assert.Equal(t, 128, cfg.BatchSize)
	assert.Equal(t, 0.5, cfg.Dropout)
	assert.Equal(t, 0.001, cfg.LearningRate)
	assert.Equal(t, 15, cfg.Patience)
	assert.Equal(t, "models/cnn_doublet", cfg.LogDir)
	assert.Equal(t, 10.0, cfg.MaxNorm)
	assert.Equal(t, 50, cfg.ThresholdGrid)
	assert.Equal(t, 200, cfg.ValidationThresholdGrid)
	assert.Equal(t, "output", cfg.OutputName)

	assert.Equal(t, architecture.DefaultHyperparams(), cfg.Hyperparams())
	assert.Equal(t, architecture.DefaultDims(), cfg.Dims(architecture.DoubletChannels))
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DROPOUT", "0.25")
	t.Setenv("IMAGE_SIZE", "32")
	t.Setenv("THRESHOLD_GRID", "11")
	t.Setenv("EVAL_EVERY", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Dropout)
	assert.Equal(t, 32, cfg.ImageSize)
	assert.Equal(t, 11, cfg.ThresholdGrid)
	assert.Equal(t, 5, cfg.EvalEvery)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"DROPOUT":        "1.5",
		"THRESHOLD_GRID": "0",
		"IMAGE_SIZE":     "-1",
		"EVAL_EVERY":     "0",
		"N_EPOCHS":       "not-a-number",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
