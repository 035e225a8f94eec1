package evo

import (
	"math/rand"

	"eann/internal/genotype"
)

// MutateGenotype adds a uniform delta in [-amount, amount) to each gene
// with probability geneProbability.
func MutateGenotype(rng *rand.Rand, g *genotype.Genotype, geneProbability, amount float64) {
	for i := 0; i < g.ParameterCount(); i++ {
		if rng.Float64() < geneProbability {
			g.Set(i, g.At(i)+rng.Float64()*amount*2-amount)
		}
	}
}

// ElitistMutator leaves the first Skip genotypes untouched and mutates each
// remaining one with probability IndividualProbability.
type ElitistMutator struct {
	Skip                  int
	IndividualProbability float64
	GeneProbability       float64
	Amount                float64
}

func DefaultMutator() ElitistMutator {
	return ElitistMutator{
		Skip:                  DefaultMutationSkip,
		IndividualProbability: DefaultMutationIndividualProbability,
		GeneProbability:       DefaultMutationGeneProbability,
		Amount:                DefaultMutationAmount,
	}
}

func (ElitistMutator) Name() string {
	return "all_but_best"
}

func (m ElitistMutator) Mutate(rng *rand.Rand, population []*genotype.Genotype) {
	for i := m.Skip; i < len(population); i++ {
		if rng.Float64() < m.IndividualProbability {
			MutateGenotype(rng, population[i], m.GeneProbability, m.Amount)
		}
	}
}
