package evo

import (
	"fmt"
	"math/rand"

	"eann/internal/genotype"
	"eann/internal/model"
)

// CompleteCrossover walks every gene position and, with probability
// swapProbability, gives each offspring the other parent's gene.
func CompleteCrossover(rng *rand.Rand, parent1, parent2 *genotype.Genotype, swapProbability float64) (*genotype.Genotype, *genotype.Genotype, error) {
	if rng == nil {
		return nil, nil, fmt.Errorf("%w: random source is required", model.ErrInvalidArgument)
	}
	count := parent1.ParameterCount()
	if parent2.ParameterCount() != count {
		return nil, nil, fmt.Errorf("%w: parent parameter counts differ: %d vs %d",
			model.ErrInvalidArgument, count, parent2.ParameterCount())
	}

	genes1 := make([]float64, count)
	genes2 := make([]float64, count)
	for i := 0; i < count; i++ {
		if rng.Float64() < swapProbability {
			genes1[i] = parent2.At(i)
			genes2[i] = parent1.At(i)
		} else {
			genes1[i] = parent1.At(i)
			genes2[i] = parent2.At(i)
		}
	}
	return genotype.New(genes1), genotype.New(genes2), nil
}

// RandomPairRecombiner carries the two best intermediate genotypes over
// unmodified and fills the rest with complete-crossover offspring of
// random distinct pairs.
type RandomPairRecombiner struct {
	SwapProbability float64
}

func (RandomPairRecombiner) Name() string {
	return "random_pair"
}

func (r RandomPairRecombiner) Recombine(rng *rand.Rand, intermediate []*genotype.Genotype, size int) ([]*genotype.Genotype, error) {
	if len(intermediate) < RecombinedElites {
		return nil, fmt.Errorf("%w: recombination needs an intermediate population of at least 2, got %d",
			model.ErrInvalidArgument, len(intermediate))
	}
	if size < RecombinedElites {
		return nil, fmt.Errorf("%w: recombination target size must be >= %d, got %d", model.ErrInvalidArgument, RecombinedElites, size)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", model.ErrInvalidArgument)
	}

	next := make([]*genotype.Genotype, 0, size)
	next = append(next, intermediate[:RecombinedElites]...)

	for len(next) < size {
		first := rng.Intn(len(intermediate))
		second := rng.Intn(len(intermediate))
		for second == first {
			second = rng.Intn(len(intermediate))
		}

		offspring1, offspring2, err := CompleteCrossover(rng, intermediate[first], intermediate[second], r.SwapProbability)
		if err != nil {
			return nil, err
		}
		next = append(next, offspring1)
		if len(next) < size {
			next = append(next, offspring2)
		}
	}
	return next, nil
}
