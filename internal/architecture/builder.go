// Package architecture describes the CNN doublet classifiers as declarative layer graphs:
// a builder, the catalog of topologies, validation, shape inference and persistence.
package architecture

import (
	"fmt"
	"strings"
)

var autoNames = map[LayerKind]string{
	KindInput:              "input",
	KindConv2D:             "conv2d",
	KindMaxPooling2D:       "max_pooling2d",
	KindBatchNormalization: "batch_normalization",
	KindDropout:            "dropout",
	KindFlatten:            "flatten",
	KindConcatenate:        "concatenate",
	KindDense:              "dense",
}

// Builder assembles a Model layer by layer. Every method returns the name of the layer
// it added so the next one can consume it. The first error sticks and is reported by Build.
type Builder struct {
	model    Model
	names    map[string]bool
	counters map[LayerKind]int
	err      error
}

func NewBuilder(name string) *Builder {
	return &Builder{
		model:    Model{Name: name},
		names:    make(map[string]bool),
		counters: make(map[LayerKind]int),
	}
}

func (b *Builder) add(l Layer) string {
	if l.Name == "" {
		b.counters[l.Kind]++
		l.Name = fmt.Sprintf("%s_%d", autoNames[l.Kind], b.counters[l.Kind])
	}
	if b.err != nil {
		return l.Name
	}
	if b.names[l.Name] {
		b.err = fmt.Errorf("%s: duplicate layer name %q: %w", b.model.Name, l.Name, ErrInvalidModel)
		return l.Name
	}
	for _, in := range l.Inputs {
		if !b.names[in] {
			b.err = fmt.Errorf("%s: layer %q consumes unknown layer %q: %w", b.model.Name, l.Name, in, ErrInvalidModel)
			return l.Name
		}
	}
	b.names[l.Name] = true
	b.model.Layers = append(b.model.Layers, l)
	if l.Kind == KindInput {
		b.model.Inputs = append(b.model.Inputs, l.Name)
	}
	return l.Name
}

func (b *Builder) Input(name string, shape ...int) string {
	return b.add(Layer{Name: name, Kind: KindInput, Shape: shape})
}

// Conv2D adds a relu convolution with a square kernel and unit stride.
func (b *Builder) Conv2D(name, in string, filters, kernel int, padding Padding, format DataFormat) string {
	return b.add(Layer{
		Name:       name,
		Kind:       KindConv2D,
		Inputs:     []string{in},
		Filters:    filters,
		Kernel:     []int{kernel, kernel},
		Padding:    padding,
		DataFormat: format,
		Activation: "relu",
	})
}

// MaxPool2D adds a same-padded square pooling whose stride equals its size.
func (b *Builder) MaxPool2D(name, in string, size int, format DataFormat) string {
	return b.add(Layer{
		Name:       name,
		Kind:       KindMaxPooling2D,
		Inputs:     []string{in},
		PoolSize:   []int{size, size},
		Padding:    PaddingSame,
		DataFormat: format,
	})
}

func (b *Builder) BatchNorm(in string) string {
	return b.add(Layer{Kind: KindBatchNormalization, Inputs: []string{in}})
}

func (b *Builder) Dropout(in string, rate float64) string {
	return b.add(Layer{Kind: KindDropout, Inputs: []string{in}, Rate: rate})
}

func (b *Builder) Flatten(in string) string {
	return b.add(Layer{Kind: KindFlatten, Inputs: []string{in}})
}

func (b *Builder) Concatenate(ins ...string) string {
	return b.add(Layer{Kind: KindConcatenate, Inputs: ins})
}

// Dense adds a fully connected layer; maxNorm bounds the norm of each kernel column.
func (b *Builder) Dense(name, in string, units int, activation string, maxNorm float64) string {
	return b.add(Layer{
		Name:       name,
		Kind:       KindDense,
		Inputs:     []string{in},
		Units:      units,
		Activation: activation,
		MaxNorm:    maxNorm,
	})
}

func (b *Builder) Compile(opt Optimizer, loss string, metrics ...string) *Builder {
	b.model.Optimizer = opt
	b.model.Loss = loss
	b.model.Metrics = metrics
	return b
}

// Build closes the graph on outputs and validates it.
func (b *Builder) Build(outputs ...string) (*Model, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.model.Outputs = outputs

	m := b.model
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the graph is well formed and every shape can be inferred.
func (m *Model) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("model has no name: %w", ErrInvalidModel)
	}
	if len(m.Inputs) == 0 || len(m.Outputs) == 0 {
		return fmt.Errorf("%s: model needs inputs and outputs: %w", m.Name, ErrInvalidModel)
	}

	seen := make(map[string]LayerKind, len(m.Layers))
	for _, l := range m.Layers {
		if l.Name == "" {
			return fmt.Errorf("%s: unnamed %s layer: %w", m.Name, l.Kind, ErrInvalidModel)
		}
		if _, dup := seen[l.Name]; dup {
			return fmt.Errorf("%s: duplicate layer name %q: %w", m.Name, l.Name, ErrInvalidModel)
		}
		for _, in := range l.Inputs {
			if _, ok := seen[in]; !ok {
				return fmt.Errorf("%s: layer %q consumes %q before it is defined: %w", m.Name, l.Name, in, ErrInvalidModel)
			}
		}
		if err := validateLayer(l); err != nil {
			return fmt.Errorf("%s: %w", m.Name, err)
		}
		seen[l.Name] = l.Kind
	}

	for _, name := range m.Inputs {
		if seen[name] != KindInput {
			return fmt.Errorf("%s: model input %q is not an Input layer: %w", m.Name, name, ErrInvalidModel)
		}
	}
	for _, name := range m.Outputs {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("%s: unknown output %q: %w", m.Name, name, ErrInvalidModel)
		}
	}

	_, err := m.InferShapes()
	return err
}

func validateLayer(l Layer) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("layer %q: %s: %w", l.Name, fmt.Sprintf(format, args...), ErrInvalidModel)
	}

	switch l.Kind {
	case KindInput:
		if len(l.Inputs) != 0 {
			return invalid("input layers take no inputs")
		}
		if len(l.Shape) == 0 {
			return invalid("missing shape")
		}
		for _, d := range l.Shape {
			if d < 1 {
				return invalid("non positive dimension in %v", l.Shape)
			}
		}
		return nil
	case KindConcatenate:
		if len(l.Inputs) < 2 {
			return invalid("needs at least two inputs")
		}
		return nil
	case KindConv2D, KindMaxPooling2D, KindBatchNormalization, KindDropout, KindFlatten, KindDense:
		if len(l.Inputs) != 1 {
			return invalid("needs exactly one input, got %d", len(l.Inputs))
		}
	default:
		return invalid("unsupported kind %q", l.Kind)
	}

	switch l.Kind {
	case KindConv2D:
		if l.Filters < 1 || len(l.Kernel) != 2 || l.Kernel[0] < 1 || l.Kernel[1] < 1 {
			return invalid("filters %d kernel %v", l.Filters, l.Kernel)
		}
		if l.Padding != PaddingSame && l.Padding != PaddingValid {
			return invalid("padding %q", l.Padding)
		}
	case KindMaxPooling2D:
		if len(l.PoolSize) != 2 || l.PoolSize[0] < 1 || l.PoolSize[1] < 1 {
			return invalid("pool size %v", l.PoolSize)
		}
	case KindDropout:
		if l.Rate < 0 || l.Rate >= 1 {
			return invalid("dropout rate %v outside [0, 1)", l.Rate)
		}
	case KindDense:
		if l.Units < 1 {
			return invalid("units %d", l.Units)
		}
		if l.MaxNorm < 0 {
			return invalid("max norm %v", l.MaxNorm)
		}
	}
	return nil
}
