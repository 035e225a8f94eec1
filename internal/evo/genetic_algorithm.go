// Package evo implements the generational genetic algorithm: fitness
// normalization, elitist selection, complete crossover and mutation over a
// population of flat genotypes. Evaluation is delegated to the caller.
package evo

import (
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	"eann/internal/genotype"
	"eann/internal/model"
)

type State int

const (
	StateInitialized State = iota
	StateAwaitingEvaluation
	StateGenerationComplete
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateAwaitingEvaluation:
		return "awaiting_evaluation"
	case StateGenerationComplete:
		return "generation_complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// EvaluationFunc starts scoring a population. It must eventually write
// every genotype's Evaluation and then call EvaluationFinished exactly
// once, after returning.
type EvaluationFunc func(population []*genotype.Genotype)

// GenerationHook observes a scored generation once selection and
// recombination have succeeded, before mutation. A generation whose
// operators fail is never reported. ranked must not be modified.
type GenerationHook func(generation int, ranked []*genotype.Genotype)

type Config struct {
	ParameterCount int
	PopulationSize int
	Seed           int64
	// Rand overrides the generator seeded from Seed.
	Rand *rand.Rand

	Evaluation  EvaluationFunc
	Initializer Initializer
	Fitness     FitnessCalculator
	Selector    Selector
	Recombiner  Recombiner
	Mutator     Mutator
	OnScored    GenerationHook
	Logger      *slog.Logger
}

type GeneticAlgorithm struct {
	cfg Config
	rng *rand.Rand

	population  []*genotype.Genotype
	generation  int
	state       State
	dispatching bool
}

func New(cfg Config) (*GeneticAlgorithm, error) {
	if cfg.ParameterCount < 0 {
		return nil, fmt.Errorf("%w: parameter count must be >= 0, got %d", model.ErrInvalidArgument, cfg.ParameterCount)
	}
	if cfg.PopulationSize < DefaultSelectionCount {
		return nil, fmt.Errorf("%w: population size must be >= %d, got %d",
			model.ErrInvalidArgument, DefaultSelectionCount, cfg.PopulationSize)
	}
	if cfg.Initializer == nil {
		cfg.Initializer = UniformInitializer{Min: DefaultInitMin, Max: DefaultInitMax}
	}
	if cfg.Fitness == nil {
		cfg.Fitness = AverageFitness{}
	}
	if cfg.Selector == nil {
		cfg.Selector = TopSelector{Count: DefaultSelectionCount}
	}
	if cfg.Recombiner == nil {
		cfg.Recombiner = RandomPairRecombiner{SwapProbability: DefaultSwapProbability}
	}
	if cfg.Mutator == nil {
		cfg.Mutator = DefaultMutator()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	population := make([]*genotype.Genotype, cfg.PopulationSize)
	for i := range population {
		population[i] = genotype.NewZero(cfg.ParameterCount)
	}
	if err := cfg.Initializer.Initialize(rng, population); err != nil {
		return nil, fmt.Errorf("initialize population (%s): %w", cfg.Initializer.Name(), err)
	}

	return &GeneticAlgorithm{
		cfg:        cfg,
		rng:        rng,
		population: population,
		generation: 1,
		state:      StateInitialized,
	}, nil
}

// SetEvaluation replaces the evaluation operator. Intended for wiring
// before Start.
func (ga *GeneticAlgorithm) SetEvaluation(fn EvaluationFunc) {
	ga.cfg.Evaluation = fn
}

func (ga *GeneticAlgorithm) PopulationSize() int {
	return ga.cfg.PopulationSize
}

func (ga *GeneticAlgorithm) GenerationCount() int {
	return ga.generation
}

func (ga *GeneticAlgorithm) State() State {
	return ga.state
}

// Population returns the current generation. The slice is a copy; the
// genotypes are shared.
func (ga *GeneticAlgorithm) Population() []*genotype.Genotype {
	return slices.Clone(ga.population)
}

// Start dispatches the first generation to the evaluation operator.
func (ga *GeneticAlgorithm) Start() error {
	if ga.state != StateInitialized {
		return fmt.Errorf("%w: start called in state %s", model.ErrInvalidState, ga.state)
	}
	if ga.cfg.Evaluation == nil {
		return fmt.Errorf("%w: evaluation operator is required", model.ErrInvalidState)
	}
	ga.cfg.Logger.Debug("genetic algorithm started",
		"population_size", ga.cfg.PopulationSize,
		"parameter_count", ga.cfg.ParameterCount,
	)
	ga.dispatch()
	return nil
}

// EvaluationFinished turns the scored generation into the next one and
// dispatches it for evaluation.
func (ga *GeneticAlgorithm) EvaluationFinished() error {
	if ga.dispatching {
		return fmt.Errorf("%w: evaluation finished while the evaluation operator is still running", model.ErrInvalidState)
	}
	if ga.state != StateAwaitingEvaluation {
		return fmt.Errorf("%w: evaluation finished called in state %s", model.ErrInvalidState, ga.state)
	}
	if ga.cfg.Evaluation == nil {
		return fmt.Errorf("%w: evaluation operator is required", model.ErrInvalidState)
	}

	ga.cfg.Fitness.Calculate(ga.population)
	genotype.SortByFitness(ga.population)

	intermediate, err := ga.cfg.Selector.Select(ga.rng, ga.population)
	if err != nil {
		return fmt.Errorf("selection (%s): %w", ga.cfg.Selector.Name(), err)
	}
	next, err := ga.cfg.Recombiner.Recombine(ga.rng, intermediate, ga.cfg.PopulationSize)
	if err != nil {
		return fmt.Errorf("recombination (%s): %w", ga.cfg.Recombiner.Name(), err)
	}
	if len(next) != ga.cfg.PopulationSize {
		return fmt.Errorf("%w: recombination (%s) produced %d genotypes, want %d",
			model.ErrInvalidState, ga.cfg.Recombiner.Name(), len(next), ga.cfg.PopulationSize)
	}
	// the hook only sees generations that advance
	if ga.cfg.OnScored != nil {
		ga.cfg.OnScored(ga.generation, ga.population)
	}
	ga.cfg.Mutator.Mutate(ga.rng, next)

	ga.cfg.Logger.Debug("generation complete",
		"generation", ga.generation,
		"best_fitness", ga.population[0].Fitness,
		"best_evaluation", ga.population[0].Evaluation,
	)

	ga.population = next
	ga.generation++
	ga.state = StateGenerationComplete
	ga.dispatch()
	return nil
}

func (ga *GeneticAlgorithm) dispatch() {
	ga.state = StateAwaitingEvaluation
	ga.dispatching = true
	defer func() { ga.dispatching = false }()
	ga.cfg.Evaluation(slices.Clone(ga.population))
}
