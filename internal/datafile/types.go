package datafile

import "github.com/tensorplex-labs/doubletfilter/internal/evaluation"

// ScoreFile holds per-sample class probabilities and their one-hot labels.
type ScoreFile struct {
	Predictions [][]float64 `json:"predictions"`
	Labels      [][]float64 `json:"labels"`
}

// DatasetFile holds named model inputs and one-hot labels.
type DatasetFile struct {
	Inputs map[string]evaluation.Tensor `json:"inputs"`
	Labels [][]float64                  `json:"labels"`
}
