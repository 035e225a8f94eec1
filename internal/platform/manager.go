// Package platform drives a genetic algorithm against a scape: it turns
// each genotype into an agent, scores it, and hands the generation back
// once every agent has died.
package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"eann/internal/agent"
	"eann/internal/evo"
	"eann/internal/genotype"
	"eann/internal/model"
	"eann/internal/nn"
	"eann/internal/scape"
	"eann/internal/stats"
	"eann/internal/storage"
)

type ManagerConfig struct {
	// RunID defaults to a fresh storage.NewRunID.
	RunID      string
	Topology   []int
	Activation string
	// Scape wins over ScapeName when both are set.
	Scape       scape.Scape
	ScapeName   string
	Generations int
	// Evolution carries the operator choices; ParameterCount, Evaluation
	// and OnScored are owned by the manager.
	Evolution evo.Config
	// Store must already be initialized.
	Store storage.Store
	// OnGeneration sees each generation's diagnostics after they are stored.
	OnGeneration func(model.GenerationDiagnostics) error
	Logger       *slog.Logger
	Now          func() time.Time
}

type RunResult struct {
	Run         model.RunRecord
	Diagnostics []model.GenerationDiagnostics
}

type EvolutionManager struct {
	cfg   ManagerConfig
	scape scape.Scape
	log   *slog.Logger
	ga    *evo.GeneticAlgorithm

	ctx     context.Context
	run     model.RunRecord
	pending []*genotype.Genotype
	alive   int
	history []model.GenerationDiagnostics
	hookErr error
}

func NewEvolutionManager(cfg ManagerConfig) (*EvolutionManager, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("%w: store is required", model.ErrInvalidArgument)
	}
	if cfg.Generations < 0 {
		return nil, fmt.Errorf("%w: generations must be >= 0, got %d", model.ErrInvalidArgument, cfg.Generations)
	}
	target := cfg.Scape
	if target == nil {
		var err error
		if target, err = scape.Lookup(cfg.ScapeName); err != nil {
			return nil, err
		}
	}
	weightCount, err := nn.WeightCount(cfg.Topology...)
	if err != nil {
		return nil, err
	}
	inputs, outputs := target.Shape()
	if cfg.Topology[0] != inputs || cfg.Topology[len(cfg.Topology)-1] != outputs {
		return nil, fmt.Errorf("%w: scape %s needs %d inputs and %d outputs, topology is %v",
			model.ErrInvalidArgument, target.Name(), inputs, outputs, cfg.Topology)
	}
	if cfg.Activation == "" {
		cfg.Activation = nn.DefaultActivation
	}
	if _, err := nn.GetActivation(cfg.Activation); err != nil {
		return nil, err
	}
	if cfg.RunID == "" {
		cfg.RunID = storage.NewRunID()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Topology = slices.Clone(cfg.Topology)

	m := &EvolutionManager{
		cfg:   cfg,
		scape: target,
		log:   cfg.Logger.With("run_id", cfg.RunID, "scape", target.Name()),
	}

	evoCfg := cfg.Evolution
	evoCfg.ParameterCount = weightCount
	evoCfg.Evaluation = m.receivePopulation
	evoCfg.OnScored = m.recordGeneration
	if evoCfg.Logger == nil {
		evoCfg.Logger = m.log
	}
	if m.ga, err = evo.New(evoCfg); err != nil {
		return nil, err
	}

	m.run = model.RunRecord{
		VersionedRecord: storage.CurrentVersion(),
		ID:              cfg.RunID,
		Scape:           target.Name(),
		Topology:        cfg.Topology,
		PopulationSize:  m.ga.PopulationSize(),
		Seed:            evoCfg.Seed,
	}
	return m, nil
}

func (m *EvolutionManager) RunID() string {
	return m.cfg.RunID
}

// AgentsAliveCount reports how many agents of the current generation are
// still being evaluated.
func (m *EvolutionManager) AgentsAliveCount() int {
	return m.alive
}

// Run evaluates Generations generations. The run record is saved when the
// run starts and again when it stops, also on error or cancellation. A
// manager runs once.
func (m *EvolutionManager) Run(ctx context.Context) (RunResult, error) {
	if !m.run.StartedAt.IsZero() {
		return RunResult{}, fmt.Errorf("%w: run %s already started", model.ErrInvalidState, m.cfg.RunID)
	}
	m.ctx = ctx
	defer func() { m.ctx = nil }()

	m.run.StartedAt = m.cfg.Now()
	if err := m.cfg.Store.SaveRun(ctx, m.run); err != nil {
		return RunResult{}, fmt.Errorf("save run: %w", err)
	}
	m.log.Info("run started",
		"topology", m.cfg.Topology,
		"population", m.run.PopulationSize,
		"generations", m.cfg.Generations)

	runErr := m.loop(ctx)
	if runErr == nil {
		runErr = m.scoreHoldout(ctx)
	}

	m.run.FinishedAt = m.cfg.Now()
	m.run.Generations = len(m.history)
	// the final save must survive a cancelled run context
	if err := m.cfg.Store.SaveRun(context.WithoutCancel(ctx), m.run); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("save run: %w", err))
	}

	result := RunResult{Run: m.run, Diagnostics: slices.Clone(m.history)}
	if runErr != nil {
		m.log.Error("run stopped", "generations", len(m.history), "error", runErr)
		return result, runErr
	}
	m.log.Info("run finished",
		"generations", len(m.history),
		"best_evaluation", m.run.BestEvaluation,
		"duration", m.run.FinishedAt.Sub(m.run.StartedAt))
	return result, nil
}

func (m *EvolutionManager) loop(ctx context.Context) error {
	if m.cfg.Generations == 0 {
		return nil
	}
	if err := m.ga.Start(); err != nil {
		return err
	}
	for len(m.history) < m.cfg.Generations {
		if err := m.evaluatePending(ctx); err != nil {
			return err
		}
		if m.alive != 0 {
			return fmt.Errorf("%w: %d agents still alive after evaluation", model.ErrInvalidState, m.alive)
		}
		if err := m.ga.EvaluationFinished(); err != nil {
			return err
		}
		if m.hookErr != nil {
			return m.hookErr
		}
	}
	return nil
}

// receivePopulation is the GA's evaluation operator. It only queues the
// population; the run loop scores it.
func (m *EvolutionManager) receivePopulation(population []*genotype.Genotype) {
	m.pending = population
}

func (m *EvolutionManager) evaluatePending(ctx context.Context) error {
	agents := make([]*agent.Agent, 0, len(m.pending))
	for i, g := range m.pending {
		a, err := agent.New(g, m.cfg.Topology...)
		if err != nil {
			return fmt.Errorf("build agent %d: %w", i, err)
		}
		if err := a.Network().SetActivation(m.cfg.Activation); err != nil {
			return err
		}
		a.OnDeath(m.agentDied)
		agents = append(agents, a)
	}
	m.pending = nil

	for _, a := range agents {
		a.Reset()
	}
	m.alive = len(agents)

	for i, a := range agents {
		if err := ctx.Err(); err != nil {
			return err
		}
		evaluation, trace, err := m.scape.Evaluate(ctx, a)
		if err != nil {
			return fmt.Errorf("evaluate agent %d: %w", i, err)
		}
		a.Genotype().Evaluation = evaluation
		m.log.Debug("agent evaluated", "index", i, "evaluation", evaluation, "trace", trace)
		a.Kill()
	}
	return nil
}

// holdoutModes are scored in this order after the last generation.
var holdoutModes = []string{scape.ModeValidation, scape.ModeTest}

// scoreHoldout re-evaluates the best weights on the scape's validation and
// test windows. Scapes without modes are skipped.
func (m *EvolutionManager) scoreHoldout(ctx context.Context) error {
	modal, ok := m.scape.(scape.ModeAwareScape)
	if !ok || len(m.run.BestWeights) == 0 {
		return nil
	}
	scores := make(map[string]float64, len(holdoutModes))
	for _, mode := range holdoutModes {
		a, err := agent.New(genotype.New(slices.Clone(m.run.BestWeights)), m.cfg.Topology...)
		if err != nil {
			return fmt.Errorf("build %s agent: %w", mode, err)
		}
		if err := a.Network().SetActivation(m.cfg.Activation); err != nil {
			return err
		}
		a.Reset()
		evaluation, trace, err := modal.EvaluateMode(ctx, a, mode)
		a.Kill()
		if err != nil {
			return fmt.Errorf("evaluate best weights (%s): %w", mode, err)
		}
		scores[mode] = evaluation
		m.log.Debug("holdout evaluated", "mode", mode, "evaluation", evaluation, "trace", trace)
	}
	m.run.HoldoutEvaluations = scores
	m.log.Info("holdout scored",
		"validation_evaluation", scores[scape.ModeValidation],
		"test_evaluation", scores[scape.ModeTest])
	return nil
}

func (m *EvolutionManager) agentDied(*agent.Agent) {
	m.alive--
}

// recordGeneration runs inside EvaluationFinished once the next generation
// has been recombined, before it is mutated.
func (m *EvolutionManager) recordGeneration(generation int, ranked []*genotype.Genotype) {
	if m.hookErr != nil {
		return
	}
	diagnostics := stats.Diagnose(generation, ranked)
	m.history = append(m.history, diagnostics)

	best := ranked[0]
	for _, g := range ranked[1:] {
		if g.Evaluation > best.Evaluation {
			best = g
		}
	}
	if len(m.history) == 1 || best.Evaluation > m.run.BestEvaluation {
		m.run.BestEvaluation = best.Evaluation
		m.run.BestWeights = best.Values()
	}

	ctx := m.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := m.cfg.Store.AppendGeneration(ctx, m.cfg.RunID, diagnostics); err != nil {
		m.hookErr = fmt.Errorf("append generation %d: %w", generation, err)
		return
	}
	if m.cfg.OnGeneration != nil {
		if err := m.cfg.OnGeneration(diagnostics); err != nil {
			m.hookErr = fmt.Errorf("generation %d hook: %w", generation, err)
			return
		}
	}
	m.log.Info("generation complete",
		"generation", generation,
		"best_evaluation", diagnostics.BestEvaluation,
		"mean_evaluation", diagnostics.MeanEvaluation,
		"best_fitness", diagnostics.BestFitness)
}
