package architecture

import (
	"fmt"
	"slices"
)

// InferShapes returns the output shape of every layer, batch axis excluded.
func (m *Model) InferShapes() (map[string][]int, error) {
	shapes := make(map[string][]int, len(m.Layers))
	for _, l := range m.Layers {
		ins := make([][]int, len(l.Inputs))
		for i, name := range l.Inputs {
			shape, ok := shapes[name]
			if !ok {
				return nil, fmt.Errorf("%s: layer %q consumes %q before it is defined: %w", m.Name, l.Name, name, ErrInvalidModel)
			}
			ins[i] = shape
		}

		out, err := outputShape(l, ins)
		if err != nil {
			return nil, fmt.Errorf("%s: layer %q: %w", m.Name, l.Name, err)
		}
		shapes[l.Name] = out
	}
	return shapes, nil
}

func outputShape(l Layer, ins [][]int) ([]int, error) {
	switch l.Kind {
	case KindInput:
		return slices.Clone(l.Shape), nil
	case KindBatchNormalization, KindDropout:
		return slices.Clone(ins[0]), nil
	case KindFlatten:
		return []int{volume(ins[0])}, nil
	case KindConcatenate:
		total := 0
		for _, in := range ins {
			if len(in) != 1 {
				return nil, fmt.Errorf("concatenating %v needs flat inputs: %w", in, ErrShape)
			}
			total += in[0]
		}
		return []int{total}, nil
	case KindDense:
		if len(ins[0]) != 1 {
			return nil, fmt.Errorf("dense on %v needs a flat input: %w", ins[0], ErrShape)
		}
		return []int{l.Units}, nil
	case KindConv2D:
		h, w, _, err := spatial(ins[0], l.DataFormat)
		if err != nil {
			return nil, err
		}
		if l.Padding == PaddingValid {
			h, w = h-l.Kernel[0]+1, w-l.Kernel[1]+1
		}
		if h < 1 || w < 1 {
			return nil, fmt.Errorf("kernel %v larger than input %v: %w", l.Kernel, ins[0], ErrShape)
		}
		return packSpatial(h, w, l.Filters, l.DataFormat), nil
	case KindMaxPooling2D:
		h, w, c, err := spatial(ins[0], l.DataFormat)
		if err != nil {
			return nil, err
		}
		if l.Padding == PaddingValid {
			h, w = (h-l.PoolSize[0])/l.PoolSize[0]+1, (w-l.PoolSize[1])/l.PoolSize[1]+1
		} else {
			h, w = ceilDiv(h, l.PoolSize[0]), ceilDiv(w, l.PoolSize[1])
		}
		if h < 1 || w < 1 {
			return nil, fmt.Errorf("pool %v larger than input %v: %w", l.PoolSize, ins[0], ErrShape)
		}
		return packSpatial(h, w, c, l.DataFormat), nil
	}
	return nil, fmt.Errorf("unsupported kind %q: %w", l.Kind, ErrInvalidModel)
}

func spatial(shape []int, format DataFormat) (h, w, c int, err error) {
	if len(shape) != 3 {
		return 0, 0, 0, fmt.Errorf("expected an image input, got %v: %w", shape, ErrShape)
	}
	if format == ChannelsFirst {
		return shape[1], shape[2], shape[0], nil
	}
	return shape[0], shape[1], shape[2], nil
}

func packSpatial(h, w, c int, format DataFormat) []int {
	if format == ChannelsFirst {
		return []int{c, h, w}
	}
	return []int{h, w, c}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func volume(shape []int) int {
	v := 1
	for _, d := range shape {
		v *= d
	}
	return v
}

// ParamCount returns the number of weights of every layer and their total.
// Batch normalization counts its moving statistics too.
func (m *Model) ParamCount() (map[string]int, int, error) {
	shapes, err := m.InferShapes()
	if err != nil {
		return nil, 0, err
	}

	params := make(map[string]int, len(m.Layers))
	total := 0
	for _, l := range m.Layers {
		n := 0
		switch l.Kind {
		case KindConv2D:
			_, _, cin, _ := spatial(shapes[l.Inputs[0]], l.DataFormat)
			n = l.Kernel[0]*l.Kernel[1]*cin*l.Filters + l.Filters
		case KindDense:
			n = shapes[l.Inputs[0]][0]*l.Units + l.Units
		case KindBatchNormalization:
			in := shapes[l.Inputs[0]]
			n = 4 * in[len(in)-1]
		}
		params[l.Name] = n
		total += n
	}
	return params, total, nil
}

// OutputUnits is the class count of the single dense output layer.
func (m *Model) OutputUnits() (int, error) {
	if len(m.Outputs) != 1 {
		return 0, fmt.Errorf("%s has %d outputs: %w", m.Name, len(m.Outputs), ErrInvalidModel)
	}
	for _, l := range m.Layers {
		if l.Name != m.Outputs[0] {
			continue
		}
		if l.Kind != KindDense || l.Units < 1 {
			return 0, fmt.Errorf("%s output %q is not a dense layer: %w", m.Name, l.Name, ErrInvalidModel)
		}
		return l.Units, nil
	}
	return 0, fmt.Errorf("%s output %q not found: %w", m.Name, m.Outputs[0], ErrInvalidModel)
}
