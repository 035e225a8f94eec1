package evo

import (
	"math/rand"

	"eann/internal/genotype"
)

// Initializer seeds the genes of a freshly built population.
type Initializer interface {
	Name() string
	Initialize(rng *rand.Rand, population []*genotype.Genotype) error
}

// FitnessCalculator derives Fitness from Evaluation for a whole generation.
type FitnessCalculator interface {
	Name() string
	Calculate(population []*genotype.Genotype)
}

// Selector picks the intermediate population from a population ranked by
// genotype.ByFitnessDescending.
type Selector interface {
	Name() string
	Select(rng *rand.Rand, ranked []*genotype.Genotype) ([]*genotype.Genotype, error)
}

// Recombiner builds a population of exactly size members from the
// intermediate population.
type Recombiner interface {
	Name() string
	Recombine(rng *rand.Rand, intermediate []*genotype.Genotype, size int) ([]*genotype.Genotype, error)
}

// Mutator mutates a freshly recombined population in place.
type Mutator interface {
	Name() string
	Mutate(rng *rand.Rand, population []*genotype.Genotype)
}

const (
	DefaultInitMin = -1.0
	DefaultInitMax = 1.0

	DefaultSelectionCount  = 3
	DefaultSwapProbability = 0.6

	// RecombinedElites is how many leaders RandomPairRecombiner carries
	// over unchanged; a mutator must skip at least that many.
	RecombinedElites = 2

	DefaultMutationSkip                  = RecombinedElites
	DefaultMutationIndividualProbability = 1.0
	DefaultMutationGeneProbability       = 0.3
	DefaultMutationAmount                = 2.0
)

// UniformInitializer sets every gene uniformly in [Min, Max).
type UniformInitializer struct {
	Min float64
	Max float64
}

func (UniformInitializer) Name() string {
	return "uniform"
}

func (i UniformInitializer) Initialize(rng *rand.Rand, population []*genotype.Genotype) error {
	for _, g := range population {
		if err := g.SetRandomParameters(rng, i.Min, i.Max); err != nil {
			return err
		}
	}
	return nil
}
