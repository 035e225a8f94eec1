// Package stats summarizes scored generations and exports them as CSV.
package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"eann/internal/genotype"
	"eann/internal/model"
)

type Summary struct {
	Best float64
	Mean float64
	Min  float64
	// Std is the population standard deviation.
	Std float64
}

// Summarize returns the zero Summary for an empty slice.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return Summary{
		Best: floats.Max(values),
		Mean: mean,
		Min:  floats.Min(values),
		Std:  std,
	}
}

// Diagnose summarizes one scored generation.
func Diagnose(generation int, population []*genotype.Genotype) model.GenerationDiagnostics {
	evaluations := make([]float64, len(population))
	fitness := make([]float64, len(population))
	for i, g := range population {
		evaluations[i] = g.Evaluation
		fitness[i] = g.Fitness
	}

	e := Summarize(evaluations)
	f := Summarize(fitness)
	return model.GenerationDiagnostics{
		Generation:     generation,
		BestEvaluation: e.Best,
		MeanEvaluation: e.Mean,
		MinEvaluation:  e.Min,
		StdEvaluation:  e.Std,
		BestFitness:    f.Best,
		MinFitness:     f.Min,
	}
}
