// Package agent binds a genotype to the network decoded from it and tracks
// whether that network is still participating in an evaluation.
package agent

import (
	"fmt"

	"eann/internal/genotype"
	"eann/internal/model"
	"eann/internal/nn"
)

// Subscription identifies a registered death observer.
type Subscription uint64

type deathObserver struct {
	id Subscription
	fn func(*Agent)
}

// Agent owns the decoded network. The genotype belongs to the population
// and is shared.
type Agent struct {
	genotype *genotype.Genotype
	network  *nn.Network
	alive    bool

	observers []deathObserver
	nextSubID Subscription
}

// New decodes g into a network of the given topology. The agent starts
// dead; call Reset to bring it into an evaluation.
func New(g *genotype.Genotype, topology ...int) (*Agent, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: genotype is required", model.ErrInvalidArgument)
	}
	network, err := nn.New(topology...)
	if err != nil {
		return nil, err
	}
	if network.WeightCount() != g.ParameterCount() {
		return nil, fmt.Errorf("%w: genotype has %d parameters, topology %v needs %d",
			model.ErrInvalidArgument, g.ParameterCount(), topology, network.WeightCount())
	}
	if err := network.LoadWeights(g.Genes()); err != nil {
		return nil, fmt.Errorf("decode genotype: %w", err)
	}

	return &Agent{
		genotype: g,
		network:  network,
	}, nil
}

func (a *Agent) Genotype() *genotype.Genotype {
	return a.genotype
}

func (a *Agent) Network() *nn.Network {
	return a.network
}

func (a *Agent) IsAlive() bool {
	return a.alive
}

// Process runs one forward pass through the decoded network.
func (a *Agent) Process(inputs []float64) ([]float64, error) {
	return a.network.Process(inputs)
}

// Reset clears the genotype's scores and revives the agent without
// notifying observers.
func (a *Agent) Reset() {
	a.genotype.Evaluation = 0
	a.genotype.Fitness = 0
	a.alive = true
}

// Kill marks the agent dead. Observers are notified synchronously, in
// subscription order, only on a live to dead transition.
func (a *Agent) Kill() {
	if !a.alive {
		return
	}
	a.alive = false

	observers := append([]deathObserver(nil), a.observers...)
	for _, o := range observers {
		o.fn(a)
	}
}

// OnDeath registers fn for death notifications.
func (a *Agent) OnDeath(fn func(*Agent)) Subscription {
	a.nextSubID++
	id := a.nextSubID
	a.observers = append(a.observers, deathObserver{id: id, fn: fn})
	return id
}

// Unsubscribe removes an observer. Unknown subscriptions are ignored.
func (a *Agent) Unsubscribe(id Subscription) {
	for i, o := range a.observers {
		if o.id == id {
			a.observers = append(a.observers[:i], a.observers[i+1:]...)
			return
		}
	}
}

// Compare orders agents by their genotypes' fitness, highest first.
func Compare(a, b *Agent) int {
	return genotype.ByFitnessDescending(a.genotype, b.genotype)
}
