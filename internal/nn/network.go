package nn

import (
	"fmt"
	"iter"

	"eann/internal/model"
)

// Network is a fixed-topology fully connected feedforward network.
type Network struct {
	Topology []int
	Layers   []*Layer

	weightCount int
}

// WeightCount returns Σ (t[i]+1) * t[i+1] over consecutive topology pairs.
func WeightCount(topology ...int) (int, error) {
	if err := validateTopology(topology); err != nil {
		return 0, err
	}
	total := 0
	for i := 0; i < len(topology)-1; i++ {
		total += (topology[i] + 1) * topology[i+1]
	}
	return total, nil
}

func New(topology ...int) (*Network, error) {
	count, err := WeightCount(topology...)
	if err != nil {
		return nil, err
	}

	layers := make([]*Layer, len(topology)-1)
	for i := range layers {
		layer, err := NewLayer(topology[i], topology[i+1])
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers[i] = layer
	}

	return &Network{
		Topology:    append([]int(nil), topology...),
		Layers:      layers,
		weightCount: count,
	}, nil
}

func (n *Network) WeightCount() int {
	return n.weightCount
}

// SetActivation switches every layer to a registered activation.
func (n *Network) SetActivation(name string) error {
	fn, err := GetActivation(name)
	if err != nil {
		return err
	}
	for _, layer := range n.Layers {
		layer.activation = fn
	}
	return nil
}

// LoadWeights consumes values layer by layer, row by row within a layer
// (bias row last), one value per column. The sequence must hold exactly
// WeightCount values.
func (n *Network) LoadWeights(values iter.Seq[float64]) error {
	next, stop := iter.Pull(values)
	defer stop()

	consumed := 0
	for _, layer := range n.Layers {
		rows, cols := layer.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				v, ok := next()
				if !ok {
					return fmt.Errorf("%w: weight sequence ended after %d of %d values",
						model.ErrInvalidArgument, consumed, n.weightCount)
				}
				layer.SetWeight(i, j, v)
				consumed++
			}
		}
	}
	if _, ok := next(); ok {
		return fmt.Errorf("%w: weight sequence longer than %d values", model.ErrInvalidArgument, n.weightCount)
	}
	return nil
}

// Weights flattens the network in LoadWeights order.
func (n *Network) Weights() []float64 {
	out := make([]float64, 0, n.weightCount)
	for _, layer := range n.Layers {
		rows, cols := layer.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				out = append(out, layer.Weight(i, j))
			}
		}
	}
	return out
}

// Process feeds inputs through every layer in order.
func (n *Network) Process(inputs []float64) ([]float64, error) {
	outputs := inputs
	for i, layer := range n.Layers {
		var err error
		outputs, err = layer.Process(outputs)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return outputs, nil
}

func validateTopology(topology []int) error {
	if len(topology) < 2 {
		return fmt.Errorf("%w: topology needs at least 2 layers, got %d", model.ErrInvalidArgument, len(topology))
	}
	for i, size := range topology {
		if size < 1 {
			return fmt.Errorf("%w: topology[%d] must be >= 1, got %d", model.ErrInvalidArgument, i, size)
		}
	}
	return nil
}
