package evo

import (
	"math"
	"testing"

	"eann/internal/genotype"
)

func scoredPopulation(evaluations ...float64) []*genotype.Genotype {
	out := make([]*genotype.Genotype, len(evaluations))
	for i, e := range evaluations {
		out[i] = genotype.NewZero(1)
		out[i].Evaluation = e
	}
	return out
}

func TestAverageFitness(t *testing.T) {
	population := scoredPopulation(1, 2, 3)
	AverageFitness{}.Calculate(population)

	want := []float64{0.5, 1, 1.5}
	for i, g := range population {
		if math.Abs(g.Fitness-want[i]) > 1e-12 {
			t.Fatalf("index %d: got=%f want=%f", i, g.Fitness, want[i])
		}
	}
}

func TestAverageFitnessZeroMean(t *testing.T) {
	for _, evaluations := range [][]float64{{0, 0, 0}, {-1, 1, 0}} {
		population := scoredPopulation(evaluations...)
		for _, g := range population {
			g.Fitness = 7
		}
		AverageFitness{}.Calculate(population)
		for i, g := range population {
			if g.Fitness != 0 {
				t.Fatalf("evaluations %v index %d: expected fitness 0, got %f", evaluations, i, g.Fitness)
			}
		}
	}
}

func TestAverageFitnessEmpty(t *testing.T) {
	AverageFitness{}.Calculate(nil)
}

func TestRawFitness(t *testing.T) {
	population := scoredPopulation(4, -2)
	RawFitness{}.Calculate(population)
	if population[0].Fitness != 4 || population[1].Fitness != -2 {
		t.Fatalf("unexpected raw fitness: %f %f", population[0].Fitness, population[1].Fitness)
	}
}
