package architecture

type LayerKind string

const (
	KindInput              LayerKind = "Input"
	KindConv2D             LayerKind = "Conv2D"
	KindMaxPooling2D       LayerKind = "MaxPooling2D"
	KindBatchNormalization LayerKind = "BatchNormalization"
	KindDropout            LayerKind = "Dropout"
	KindFlatten            LayerKind = "Flatten"
	KindConcatenate        LayerKind = "Concatenate"
	KindDense              LayerKind = "Dense"
)

type Padding string

const (
	PaddingSame  Padding = "same"
	PaddingValid Padding = "valid"
)

type DataFormat string

const (
	ChannelsLast  DataFormat = "channels_last"
	ChannelsFirst DataFormat = "channels_first"
)

// Layer is one node of a model graph. Only the fields relevant to Kind are set.
type Layer struct {
	Name       string     `json:"name"`
	Kind       LayerKind  `json:"kind"`
	Inputs     []string   `json:"inputs,omitempty"`
	Shape      []int      `json:"shape,omitempty"`       // Input, without the batch axis
	Filters    int        `json:"filters,omitempty"`     // Conv2D
	Kernel     []int      `json:"kernel,omitempty"`      // Conv2D
	PoolSize   []int      `json:"pool_size,omitempty"`   // MaxPooling2D
	Padding    Padding    `json:"padding,omitempty"`     // Conv2D, MaxPooling2D
	DataFormat DataFormat `json:"data_format,omitempty"` // Conv2D, MaxPooling2D
	Units      int        `json:"units,omitempty"`       // Dense
	Activation string     `json:"activation,omitempty"`  // Conv2D, Dense
	Rate       float64    `json:"rate,omitempty"`        // Dropout
	MaxNorm    float64    `json:"max_norm,omitempty"`    // Dense kernel constraint
}

type Optimizer struct {
	Name         string  `json:"name"`
	LearningRate float64 `json:"learning_rate"`
	Decay        float64 `json:"decay,omitempty"`
	Momentum     float64 `json:"momentum,omitempty"`
	Nesterov     bool    `json:"nesterov,omitempty"`
}

// Model is a compiled layer graph, layers listed in topological order.
type Model struct {
	Name      string    `json:"name"`
	Inputs    []string  `json:"inputs"`
	Outputs   []string  `json:"outputs"`
	Layers    []Layer   `json:"layers"`
	Optimizer Optimizer `json:"optimizer"`
	Loss      string    `json:"loss"`
	Metrics   []string  `json:"metrics,omitempty"`
}

// Hyperparams are the training switches the catalog reads.
type Hyperparams struct {
	Dropout      float64
	MaxNorm      float64
	LearningRate float64
	Momentum     float64
}

// Dims sizes the model inputs and outputs.
type Dims struct {
	ImageSize int // side of the square hit pad
	Channels  int // pad channels, one per detector layer and hit
	InfoSize  int // scalar doublet features
	Labels    int // output classes where the topology allows it
}

// Constructor builds one catalog topology.
type Constructor func(hp Hyperparams, dims Dims) (*Model, error)
