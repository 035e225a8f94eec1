package evo

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrOperatorExists   = errors.New("operator already registered")
	ErrOperatorNotFound = errors.New("operator not found")
)

type namedRegistry[T interface{ Name() string }] struct {
	mu sync.RWMutex
	m  map[string]T
}

func newNamedRegistry[T interface{ Name() string }]() *namedRegistry[T] {
	return &namedRegistry[T]{m: make(map[string]T)}
}

func (r *namedRegistry[T]) register(op T) error {
	name := op.Name()
	if name == "" {
		return errors.New("operator name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrOperatorExists, name)
	}
	r.m[name] = op
	return nil
}

func (r *namedRegistry[T]) resolve(name string) (T, error) {
	r.mu.RLock()
	op, ok := r.m[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrOperatorNotFound, name)
	}
	return op, nil
}

func (r *namedRegistry[T]) list() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.m))
	for name := range r.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	selectorRegistry = newNamedRegistry[Selector]()
	fitnessRegistry  = newNamedRegistry[FitnessCalculator]()
)

func init() {
	initializeBuiltInOperators()
}

func initializeBuiltInOperators() {
	mustRegister(RegisterSelector(TopSelector{Count: DefaultSelectionCount}))
	mustRegister(RegisterSelector(TournamentSelector{Count: DefaultSelectionCount, TournamentSize: 2}))
	mustRegister(RegisterFitnessCalculator(AverageFitness{}))
	mustRegister(RegisterFitnessCalculator(RawFitness{}))
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}

// RegisterSelector makes a selector resolvable by its Name.
func RegisterSelector(s Selector) error {
	if s == nil {
		return errors.New("selector is required")
	}
	return selectorRegistry.register(s)
}

func ResolveSelector(name string) (Selector, error) {
	return selectorRegistry.resolve(name)
}

func ListSelectors() []string {
	return selectorRegistry.list()
}

// RegisterFitnessCalculator makes a fitness calculator resolvable by its Name.
func RegisterFitnessCalculator(c FitnessCalculator) error {
	if c == nil {
		return errors.New("fitness calculator is required")
	}
	return fitnessRegistry.register(c)
}

func ResolveFitnessCalculator(name string) (FitnessCalculator, error) {
	return fitnessRegistry.resolve(name)
}

func ListFitnessCalculators() []string {
	return fitnessRegistry.list()
}

func resetOperatorRegistryForTests() {
	selectorRegistry = newNamedRegistry[Selector]()
	fitnessRegistry = newNamedRegistry[FitnessCalculator]()
	initializeBuiltInOperators()
}
