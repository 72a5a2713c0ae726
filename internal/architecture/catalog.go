package architecture

import (
	"fmt"
	"slices"

	"github.com/tensorplex-labs/doubletfilter/internal/utils/logger"
)

const (
	HitShapeInput    = "hit_shape_input"
	InHitShapeInput  = "in_hit_shape_input"
	OutHitShapeInput = "out_hit_shape_input"
	InfoInput        = "info_input"
	OutputLayer      = "output"

	categoricalCrossentropy = "categorical_crossentropy"
	adamLearningRate        = 0.001
)

// Catalog maps the topology names used by the training scripts to their constructors.
var Catalog = map[string]Constructor{
	"adam_small_doublet_model":    AdamSmallDoubletModel,
	"big_filters_model":           BigFiltersModel,
	"dense_model":                 DenseModel,
	"small_doublet_model":         SmallDoubletModel,
	"big_doublet_model":           BigDoubletModel,
	"conv_model":                  ConvModel,
	"pixel_only_model":            PixelOnlyModel,
	"separate_conv_doublet_model": SeparateConvDoubletModel,
}

func DefaultHyperparams() Hyperparams {
	return Hyperparams{
		Dropout:      0.5,
		MaxNorm:      10.0,
		LearningRate: 0.001,
		Momentum:     0.5,
	}
}

// Names lists the catalog in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(Catalog))
	for name := range Catalog {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build constructs the named topology.
func Build(name string, hp Hyperparams, dims Dims) (*Model, error) {
	ctor, ok := Catalog[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownModel)
	}
	m, err := ctor(hp, dims)
	if err != nil {
		return nil, err
	}

	_, total, err := m.ParamCount()
	if err != nil {
		return nil, err
	}
	logger.Sugar().Debugw("Built architecture", "model", name, "layers", len(m.Layers), "params", total)
	return m, nil
}

func checkDims(name string, dims Dims, needInfo bool) error {
	if dims.ImageSize < 1 || dims.Channels < 1 || dims.Labels < 1 || (needInfo && dims.InfoSize < 1) {
		return fmt.Errorf("%s: dims %+v: %w", name, dims, ErrInvalidModel)
	}
	return nil
}

func sgd(hp Hyperparams, decay float64) Optimizer {
	return Optimizer{
		Name:         "sgd",
		LearningRate: hp.LearningRate,
		Decay:        decay,
		Momentum:     hp.Momentum,
		Nesterov:     true,
	}
}

func adam() Optimizer {
	return Optimizer{Name: "adam", LearningRate: adamLearningRate}
}

func AdamSmallDoubletModel(hp Hyperparams, dims Dims) (*Model, error) {
	const name = "adam_small_doublet_model"
	if err := checkDims(name, dims, true); err != nil {
		return nil, err
	}
	b := NewBuilder(name)
	hits := b.Input(HitShapeInput, dims.ImageSize, dims.ImageSize, dims.Channels)
	infos := b.Input(InfoInput, dims.InfoSize)

	x := b.Conv2D("conv1", hits, 32, 4, PaddingSame, ChannelsLast)
	x = b.Conv2D("conv2", x, 32, 3, PaddingSame, ChannelsLast)
	x = b.BatchNorm(x)
	x = b.MaxPool2D("pool1", x, 2, ChannelsLast)

	x = b.Conv2D("conv3", x, 64, 3, PaddingSame, ChannelsLast)
	x = b.Conv2D("conv4", x, 64, 3, PaddingSame, ChannelsLast)
	x = b.BatchNorm(x)
	x = b.MaxPool2D("pool2", x, 2, ChannelsLast)

	x = b.Conv2D("conv5", x, 64, 3, PaddingSame, ChannelsLast)
	x = b.MaxPool2D("avgpool", x, 2, ChannelsLast)

	x = b.Concatenate(b.Flatten(x), infos)
	x = b.BatchNorm(x)
	x = b.Dense("dense1", x, 64, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	x = b.Dense("dense2", x, 32, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	out := b.Dense(OutputLayer, x, dims.Labels, "softmax", hp.MaxNorm)

	return b.Compile(adam(), categoricalCrossentropy, "accuracy").Build(out)
}

func BigFiltersModel(hp Hyperparams, dims Dims) (*Model, error) {
	const name = "big_filters_model"
	if err := checkDims(name, dims, true); err != nil {
		return nil, err
	}
	b := NewBuilder(name)
	hits := b.Input(HitShapeInput, dims.ImageSize, dims.ImageSize, dims.Channels)
	infos := b.Input(InfoInput, dims.InfoSize)

	x := b.Conv2D("conv1", hits, 128, 5, PaddingValid, ChannelsLast)

	x = b.Concatenate(b.Flatten(x), infos)
	x = b.Dropout(x, hp.Dropout)
	x = b.Dense("dense1", x, 256, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	x = b.Dense("dense2", x, 64, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	out := b.Dense(OutputLayer, x, binaryLabels, "softmax", hp.MaxNorm)

	return b.Compile(sgd(hp, 1e-5), categoricalCrossentropy, "accuracy").Build(out)
}

func DenseModel(hp Hyperparams, dims Dims) (*Model, error) {
	const name = "dense_model"
	if err := checkDims(name, dims, true); err != nil {
		return nil, err
	}
	b := NewBuilder(name)
	hits := b.Input(HitShapeInput, dims.ImageSize, dims.ImageSize, dims.Channels)
	infos := b.Input(InfoInput, dims.InfoSize)

	x := b.Concatenate(b.Flatten(hits), infos)
	x = b.BatchNorm(x)
	x = b.Dense("dense1", x, 256, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	x = b.Dense("dense2", x, 128, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	x = b.Dense("dense3", x, 64, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	out := b.Dense(OutputLayer, x, binaryLabels, "softmax", hp.MaxNorm)

	return b.Compile(sgd(hp, 1e-4), categoricalCrossentropy, "accuracy").Build(out)
}

func SmallDoubletModel(hp Hyperparams, dims Dims) (*Model, error) {
	const name = "small_doublet_model"
	if err := checkDims(name, dims, true); err != nil {
		return nil, err
	}
	b := NewBuilder(name)
	hits := b.Input(HitShapeInput, dims.ImageSize, dims.ImageSize, dims.Channels)
	infos := b.Input(InfoInput, dims.InfoSize)

	x := b.Conv2D("conv1", hits, 32, 5, PaddingSame, ChannelsLast)
	x = b.Conv2D("conv2", x, 32, 3, PaddingSame, ChannelsLast)
	x = b.MaxPool2D("pool1", x, 2, ChannelsLast)

	x = b.Conv2D("conv3", x, 64, 3, PaddingSame, ChannelsLast)
	x = b.Conv2D("conv4", x, 64, 3, PaddingSame, ChannelsLast)
	x = b.MaxPool2D("pool2", x, 2, ChannelsLast)

	x = b.Concatenate(b.Flatten(x), infos)
	x = b.BatchNorm(x)
	x = b.Dense("dense1", x, 128, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	x = b.Dense("dense2", x, 64, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	out := b.Dense(OutputLayer, x, dims.Labels, "softmax", hp.MaxNorm)

	return b.Compile(sgd(hp, 1e-4), categoricalCrossentropy, "accuracy").Build(out)
}

func BigDoubletModel(hp Hyperparams, dims Dims) (*Model, error) {
	const name = "big_doublet_model"
	if err := checkDims(name, dims, true); err != nil {
		return nil, err
	}
	b := NewBuilder(name)
	hits := b.Input(HitShapeInput, dims.ImageSize, dims.ImageSize, dims.Channels)
	infos := b.Input(InfoInput, dims.InfoSize)

	x := b.Dropout(hits, hp.Dropout)
	x = b.Conv2D("conv1", x, 128, 3, PaddingSame, ChannelsLast)
	x = b.Conv2D("conv2", x, 128, 3, PaddingSame, ChannelsLast)
	x = b.MaxPool2D("pool1", x, 2, ChannelsLast)

	x = b.Conv2D("conv3", x, 256, 3, PaddingSame, ChannelsLast)
	x = b.Conv2D("conv4", x, 256, 3, PaddingSame, ChannelsLast)
	x = b.MaxPool2D("pool2", x, 2, ChannelsLast)

	x = b.Concatenate(b.Flatten(x), infos)
	x = b.Dropout(x, hp.Dropout)
	x = b.Dense("dense1", x, 256, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	x = b.Dense("dense2", x, 64, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	out := b.Dense(OutputLayer, x, binaryLabels, "softmax", hp.MaxNorm)

	return b.Compile(sgd(hp, 1e-4), categoricalCrossentropy, "accuracy").Build(out)
}

// ConvModel classifies from the hit pads alone.
func ConvModel(hp Hyperparams, dims Dims) (*Model, error) {
	const name = "conv_model"
	if err := checkDims(name, dims, false); err != nil {
		return nil, err
	}
	b := NewBuilder(name)
	hits := b.Input(HitShapeInput, dims.ImageSize, dims.ImageSize, dims.Channels)

	x := b.Dropout(hits, hp.Dropout)
	x = b.Conv2D("conv1", x, 128, 3, PaddingSame, ChannelsLast)
	x = b.Conv2D("conv2", x, 128, 3, PaddingSame, ChannelsLast)
	x = b.MaxPool2D("pool1", x, 2, ChannelsLast)

	x = b.Conv2D("conv3", x, 256, 3, PaddingSame, ChannelsLast)
	x = b.Conv2D("conv4", x, 256, 3, PaddingSame, ChannelsLast)
	x = b.MaxPool2D("pool2", x, 2, ChannelsLast)

	x = b.Dropout(b.Flatten(x), hp.Dropout)
	x = b.Dense("dense1", x, 128, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	out := b.Dense(OutputLayer, x, binaryLabels, "softmax", hp.MaxNorm)

	return b.Compile(sgd(hp, 1e-4), categoricalCrossentropy, "accuracy").Build(out)
}

// PixelOnlyModel reads channels-first pads and no scalar features.
func PixelOnlyModel(hp Hyperparams, dims Dims) (*Model, error) {
	const name = "pixel_only_model"
	if err := checkDims(name, dims, false); err != nil {
		return nil, err
	}
	b := NewBuilder(name)
	hits := b.Input(HitShapeInput, dims.Channels, dims.ImageSize, dims.ImageSize)

	x := b.Dropout(hits, hp.Dropout)
	x = b.Conv2D("conv1", x, 64, 3, PaddingSame, ChannelsFirst)
	x = b.Conv2D("conv2", x, 64, 3, PaddingSame, ChannelsFirst)
	x = b.MaxPool2D("pool1", x, 2, ChannelsFirst)

	x = b.Conv2D("conv3", x, 128, 3, PaddingSame, ChannelsFirst)
	x = b.Conv2D("conv4", x, 128, 3, PaddingSame, ChannelsFirst)
	x = b.MaxPool2D("pool2", x, 2, ChannelsFirst)

	x = b.Dropout(b.Flatten(x), hp.Dropout)
	x = b.Dense("dense1", x, 128, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	x = b.Dense("dense2", x, 64, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	out := b.Dense(OutputLayer, x, binaryLabels, "softmax", hp.MaxNorm)

	return b.Compile(sgd(hp, 1e-4), categoricalCrossentropy, "accuracy").Build(out)
}

// SeparateConvDoubletModel convolves the inner and outer hit pads in separate branches.
func SeparateConvDoubletModel(hp Hyperparams, dims Dims) (*Model, error) {
	const name = "separate_conv_doublet_model"
	if err := checkDims(name, dims, true); err != nil {
		return nil, err
	}
	b := NewBuilder(name)
	inHits := b.Input(InHitShapeInput, dims.ImageSize, dims.ImageSize, dims.Channels)
	outHits := b.Input(OutHitShapeInput, dims.ImageSize, dims.ImageSize, dims.Channels)
	infos := b.Input(InfoInput, dims.InfoSize)

	branch := func(prefix, in string) string {
		x := b.Dropout(in, hp.Dropout)
		x = b.Conv2D(prefix+"_conv1", x, 64, 5, PaddingSame, ChannelsLast)
		x = b.Conv2D(prefix+"_conv2", x, 64, 3, PaddingSame, ChannelsLast)
		x = b.MaxPool2D(prefix+"_pool1", x, 2, ChannelsLast)

		x = b.Conv2D(prefix+"_conv3", x, 128, 3, PaddingSame, ChannelsLast)
		x = b.Conv2D(prefix+"_conv4", x, 128, 3, PaddingSame, ChannelsLast)
		x = b.MaxPool2D(prefix+"_pool2", x, 2, ChannelsLast)
		return b.Flatten(x)
	}

	x := b.Concatenate(branch("in", inHits), branch("out", outHits), infos)
	x = b.Dropout(x, hp.Dropout)
	x = b.Dense("dense1", x, 256, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	x = b.Dense("dense2", x, 64, "relu", hp.MaxNorm)
	x = b.Dropout(x, hp.Dropout)
	out := b.Dense(OutputLayer, x, binaryLabels, "softmax", hp.MaxNorm)

	return b.Compile(sgd(hp, 1e-4), categoricalCrossentropy, "accuracy").Build(out)
}
