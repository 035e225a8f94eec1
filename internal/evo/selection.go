package evo

import (
	"fmt"
	"math/rand"

	"eann/internal/genotype"
	"eann/internal/model"
)

// TopSelector copies the first Count genotypes of the ranked population,
// independent of population size.
type TopSelector struct {
	Count int
}

func (TopSelector) Name() string {
	return "top"
}

func (s TopSelector) Select(_ *rand.Rand, ranked []*genotype.Genotype) ([]*genotype.Genotype, error) {
	count := s.Count
	if count <= 0 {
		count = DefaultSelectionCount
	}
	if len(ranked) < count {
		return nil, fmt.Errorf("%w: selection needs %d genotypes, population has %d",
			model.ErrInvalidState, count, len(ranked))
	}
	return append([]*genotype.Genotype(nil), ranked[:count]...), nil
}

// TournamentSelector keeps the best genotype as the first entry and fills
// the rest of the Count slots with tournament winners sampled without
// replacement from the rest of the ranked population. The output stays
// ranked so the recombiner's elitism still carries the leaders.
type TournamentSelector struct {
	Count          int
	TournamentSize int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) Select(rng *rand.Rand, ranked []*genotype.Genotype) ([]*genotype.Genotype, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", model.ErrInvalidArgument)
	}
	count := s.Count
	if count <= 0 {
		count = DefaultSelectionCount
	}
	if len(ranked) < count {
		return nil, fmt.Errorf("%w: selection needs %d genotypes, population has %d",
			model.ErrInvalidState, count, len(ranked))
	}
	size := s.TournamentSize
	if size <= 0 {
		size = 2
	}

	// indices into ranked that are still selectable; a genotype is never
	// picked twice so the next population cannot alias one genotype.
	pool := make([]int, 0, len(ranked)-1)
	for i := 1; i < len(ranked); i++ {
		pool = append(pool, i)
	}

	out := make([]*genotype.Genotype, 0, count)
	out = append(out, ranked[0])
	for len(out) < count {
		best := rng.Intn(len(pool))
		for i := 1; i < size; i++ {
			// pool stays ascending, so a lower position is at least as fit
			if candidate := rng.Intn(len(pool)); candidate < best {
				best = candidate
			}
		}
		out = append(out, ranked[pool[best]])
		pool = append(pool[:best], pool[best+1:]...)
	}
	genotype.SortByFitness(out)
	return out, nil
}
