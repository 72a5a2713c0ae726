package config

import "github.com/tensorplex-labs/doubletfilter/internal/architecture"

// Hyperparams maps the training switches onto the architecture catalog.
func (c *TrainingEnvConfig) Hyperparams() architecture.Hyperparams {
	return architecture.Hyperparams{
		Dropout:      c.Dropout,
		MaxNorm:      c.MaxNorm,
		LearningRate: c.LearningRate,
		Momentum:     c.Momentum,
	}
}

// Dims sizes a model for pads with the given number of channels.
func (c *ArchitectureEnvConfig) Dims(channels int) architecture.Dims {
	return architecture.Dims{
		ImageSize: c.ImageSize,
		Channels:  channels,
		InfoSize:  c.InfoSize,
		Labels:    c.Labels,
	}
}
