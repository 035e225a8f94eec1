package evo

import (
	"gonum.org/v1/gonum/stat"

	"eann/internal/genotype"
)

// AverageFitness sets fitness = evaluation / mean(evaluation). A zero mean
// gives every genotype fitness 0 instead of a non-finite value.
type AverageFitness struct{}

func (AverageFitness) Name() string {
	return "average"
}

func (AverageFitness) Calculate(population []*genotype.Genotype) {
	if len(population) == 0 {
		return
	}
	mean := stat.Mean(evaluations(population), nil)
	for _, g := range population {
		if mean == 0 {
			g.Fitness = 0
			continue
		}
		g.Fitness = g.Evaluation / mean
	}
}

// RawFitness uses the evaluation unchanged.
type RawFitness struct{}

func (RawFitness) Name() string {
	return "raw"
}

func (RawFitness) Calculate(population []*genotype.Genotype) {
	for _, g := range population {
		g.Fitness = g.Evaluation
	}
}

func evaluations(population []*genotype.Genotype) []float64 {
	out := make([]float64, len(population))
	for i, g := range population {
		out[i] = g.Evaluation
	}
	return out
}
