package architecture

import (
	"fmt"
	"io"
	"strings"
)

// Summary prints one row per layer with its output shape, weights and inbound layers.
func (m *Model) Summary(w io.Writer) error {
	shapes, err := m.InferShapes()
	if err != nil {
		return err
	}
	params, total, err := m.ParamCount()
	if err != nil {
		return err
	}

	rule := strings.Repeat("_", 98)
	fmt.Fprintf(w, "Model: %q\n%s\n", m.Name, rule)
	fmt.Fprintf(w, "%-36s %-22s %-10s %s\n", "Layer (type)", "Output Shape", "Param #", "Connected to")
	fmt.Fprintln(w, strings.Repeat("=", 98))
	for _, l := range m.Layers {
		fmt.Fprintf(w, "%-36s %-22s %-10d %s\n",
			fmt.Sprintf("%s (%s)", l.Name, l.Kind),
			formatShape(shapes[l.Name]),
			params[l.Name],
			strings.Join(l.Inputs, ", "))
	}
	fmt.Fprintln(w, strings.Repeat("=", 98))
	fmt.Fprintf(w, "Total params: %d\n", total)
	fmt.Fprintf(w, "Optimizer: %s (lr=%g, decay=%g, momentum=%g, nesterov=%t)\n",
		m.Optimizer.Name, m.Optimizer.LearningRate, m.Optimizer.Decay, m.Optimizer.Momentum, m.Optimizer.Nesterov)
	fmt.Fprintf(w, "Loss: %s  Metrics: %s\n%s\n", m.Loss, strings.Join(m.Metrics, ", "), rule)
	return nil
}

func formatShape(shape []int) string {
	parts := make([]string, 0, len(shape)+1)
	parts = append(parts, "None")
	for _, d := range shape {
		parts = append(parts, fmt.Sprint(d))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
