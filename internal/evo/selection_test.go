package evo

import (
	"errors"
	"math/rand"
	"testing"

	"eann/internal/genotype"
	"eann/internal/model"
)

func rankedPopulation(fitness ...float64) []*genotype.Genotype {
	out := make([]*genotype.Genotype, len(fitness))
	for i, f := range fitness {
		out[i] = genotype.NewZero(1)
		out[i].Fitness = f
	}
	return out
}

func TestTopSelectorReturnsFirstThree(t *testing.T) {
	for _, size := range []int{3, 4, 10, 50} {
		fitness := make([]float64, size)
		for i := range fitness {
			fitness[i] = float64(size - i)
		}
		ranked := rankedPopulation(fitness...)

		selected, err := TopSelector{Count: 3}.Select(nil, ranked)
		if err != nil {
			t.Fatalf("size %d: select: %v", size, err)
		}
		if len(selected) != 3 {
			t.Fatalf("size %d: selected %d", size, len(selected))
		}
		for i := 0; i < 3; i++ {
			if selected[i] != ranked[i] {
				t.Fatalf("size %d: index %d is not ranked[%d]", size, i, i)
			}
		}
	}
}

func TestTopSelectorDefaultsToThree(t *testing.T) {
	selected, err := TopSelector{}.Select(nil, rankedPopulation(5, 4, 3, 2))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(selected) != DefaultSelectionCount {
		t.Fatalf("unexpected selection size: %d", len(selected))
	}
}

func TestTopSelectorTooSmall(t *testing.T) {
	if _, err := (TopSelector{Count: 3}).Select(nil, rankedPopulation(2, 1)); !errors.Is(err, model.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got: %v", err)
	}
}

func TestTopSelectorDoesNotAliasInput(t *testing.T) {
	ranked := rankedPopulation(3, 2, 1, 0)
	selected, err := TopSelector{Count: 3}.Select(nil, ranked)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	selected[0] = nil
	if ranked[0] == nil {
		t.Fatal("expected selection slice to be independent of input")
	}
}

func TestTournamentSelectorKeepsLeaderAndRank(t *testing.T) {
	ranked := rankedPopulation(10, 9, 8, 7, 6, 5, 4, 3, 2, 1)
	rng := rand.New(rand.NewSource(21))
	for trial := 0; trial < 50; trial++ {
		selected, err := TournamentSelector{Count: 3, TournamentSize: 2}.Select(rng, ranked)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if len(selected) != 3 || selected[0] != ranked[0] {
			t.Fatalf("expected leader first, got %d entries", len(selected))
		}
		seen := map[*genotype.Genotype]bool{}
		for i, g := range selected {
			if seen[g] {
				t.Fatal("expected distinct selections")
			}
			seen[g] = true
			if i > 0 && g.Fitness > selected[i-1].Fitness {
				t.Fatal("expected selection to stay ranked")
			}
		}
	}
}

func TestTournamentSelectorValidation(t *testing.T) {
	if _, err := (TournamentSelector{}).Select(nil, rankedPopulation(3, 2, 1)); !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for nil rng, got: %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	if _, err := (TournamentSelector{Count: 4}).Select(rng, rankedPopulation(3, 2, 1)); !errors.Is(err, model.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got: %v", err)
	}
}
