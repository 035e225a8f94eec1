// Package genotype holds the flat parameter vectors that the genetic
// algorithm evolves and that agents decode into network weights.
package genotype

import (
	"cmp"
	"fmt"
	"iter"
	"math/rand"
	"slices"

	"eann/internal/model"
)

// Genotype is one member of a population: an ordered gene vector plus the
// raw evaluation assigned by the harness and the fitness derived from it.
// Gene order is the decode order into network weights.
type Genotype struct {
	genes []float64

	Evaluation float64
	Fitness    float64
}

// New wraps genes without copying them.
func New(genes []float64) *Genotype {
	return &Genotype{genes: genes}
}

// NewZero returns a genotype of count zero-valued genes.
func NewZero(count int) *Genotype {
	if count < 0 {
		count = 0
	}
	return New(make([]float64, count))
}

func (g *Genotype) ParameterCount() int {
	return len(g.genes)
}

func (g *Genotype) At(i int) float64 {
	return g.genes[i]
}

func (g *Genotype) Set(i int, value float64) {
	g.genes[i] = value
}

// Genes yields the genes in insertion order. The sequence can be ranged
// over any number of times.
func (g *Genotype) Genes() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for _, gene := range g.genes {
			if !yield(gene) {
				return
			}
		}
	}
}

// Values returns a copy of the gene vector.
func (g *Genotype) Values() []float64 {
	return append([]float64(nil), g.genes...)
}

// Clone deep-copies genes and scores.
func (g *Genotype) Clone() *Genotype {
	return &Genotype{
		genes:      g.Values(),
		Evaluation: g.Evaluation,
		Fitness:    g.Fitness,
	}
}

// SetRandomParameters overwrites every gene with a uniform draw from
// [min, max).
func (g *Genotype) SetRandomParameters(rng *rand.Rand, min, max float64) error {
	if min > max {
		return fmt.Errorf("%w: minimum %g exceeds maximum %g", model.ErrInvalidArgument, min, max)
	}
	if rng == nil {
		return fmt.Errorf("%w: random source is required", model.ErrInvalidArgument)
	}
	span := max - min
	for i := range g.genes {
		g.genes[i] = rng.Float64()*span + min
	}
	return nil
}

// ByFitnessDescending orders higher fitness first. Every index-based
// selection step relies on this direction.
func ByFitnessDescending(a, b *Genotype) int {
	return cmp.Compare(b.Fitness, a.Fitness)
}

// SortByFitness stable-sorts population with ByFitnessDescending; ties
// keep their prior relative order.
func SortByFitness(population []*Genotype) {
	slices.SortStableFunc(population, ByFitnessDescending)
}
