package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"eann/internal/model"
)

// Layer is a fully connected weight matrix from NeuronCount inputs to
// OutputCount outputs. The matrix has NeuronCount+1 rows; the last row
// holds the bias weights.
type Layer struct {
	NeuronCount int
	OutputCount int

	weights    *mat.Dense
	activation ActivationFunc
}

// NewLayer allocates a zero-weight layer using the softsign activation.
func NewLayer(neuronCount, outputCount int) (*Layer, error) {
	if neuronCount < 1 || outputCount < 1 {
		return nil, fmt.Errorf("%w: layer dimensions must be >= 1: neurons=%d outputs=%d",
			model.ErrInvalidArgument, neuronCount, outputCount)
	}
	return &Layer{
		NeuronCount: neuronCount,
		OutputCount: outputCount,
		weights:     mat.NewDense(neuronCount+1, outputCount, nil),
		activation:  Softsign,
	}, nil
}

// Dims reports the weight matrix shape (rows include the bias row).
func (l *Layer) Dims() (rows, cols int) {
	return l.weights.Dims()
}

func (l *Layer) Weight(row, col int) float64 {
	return l.weights.At(row, col)
}

func (l *Layer) SetWeight(row, col int, value float64) {
	l.weights.Set(row, col, value)
}

// BiasRow is the row index of the bias weights.
func (l *Layer) BiasRow() int {
	return l.NeuronCount
}

// Process computes activation(Wᵀ · [inputs..., 1]).
func (l *Layer) Process(inputs []float64) ([]float64, error) {
	if len(inputs) != l.NeuronCount {
		return nil, fmt.Errorf("%w: layer expects %d inputs, got %d",
			model.ErrDimensionMismatch, l.NeuronCount, len(inputs))
	}

	biased := make([]float64, l.NeuronCount+1)
	copy(biased, inputs)
	biased[l.NeuronCount] = 1

	var sums mat.VecDense
	sums.MulVec(l.weights.T(), mat.NewVecDense(len(biased), biased))

	out := make([]float64, l.OutputCount)
	for i := range out {
		out[i] = l.activation(sums.AtVec(i))
	}
	return out, nil
}
