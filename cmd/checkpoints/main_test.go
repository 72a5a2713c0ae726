package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCheckpoints(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"model_big_doublet_model_epoch10.onnx",
		"model_big_doublet_model_epoch2.onnx",
		"model_big_doublet_model_epoch0.onnx",
		"model_big_doublet_model_final.onnx",
		"model_dense_model_epoch1.onnx",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	checkpoints, epochs, err := findCheckpoints(dir, "model_big_doublet_model")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 10}, epochs)
	assert.Equal(t, filepath.Join(dir, "model_big_doublet_model_epoch2.onnx"), checkpoints[2])
	assert.NotContains(t, checkpoints, 1)
}
