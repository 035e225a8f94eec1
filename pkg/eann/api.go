// Package eann is the public entry point for running and inspecting
// evolution runs.
package eann

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"eann/internal/config"
	"eann/internal/evo"
	"eann/internal/model"
	"eann/internal/nn"
	"eann/internal/platform"
	"eann/internal/scape"
	"eann/internal/stats"
	"eann/internal/storage"
)

type (
	Config                = config.Config
	RunRecord             = model.RunRecord
	GenerationDiagnostics = model.GenerationDiagnostics
)

var (
	ErrInvalidArgument = model.ErrInvalidArgument
	ErrRunNotFound     = errors.New("run not found")
)

// DefaultConfig returns the embedded defaults.
func DefaultConfig() (*Config, error) {
	return config.Default()
}

// LoadConfig overlays a YAML or INI file on the defaults.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

type Options struct {
	// Config defaults to DefaultConfig. An empty store kind picks
	// storage.DefaultStoreKind.
	Config *Config
	// Logger defaults to a handler built from Config.Log writing to
	// LogOutput, or io.Discard.
	Logger    *slog.Logger
	LogOutput io.Writer
}

type Client struct {
	cfg         *Config
	store       storage.Store
	log         *slog.Logger
	initialized bool
}

type RunRequest struct {
	RunID string
	// OnGeneration sees every generation after it is stored.
	OnGeneration func(GenerationDiagnostics) error
}

type RunSummary struct {
	RunID            string
	Scape            string
	Generations      int
	BestEvaluation   float64
	BestWeights      []float64
	BestByGeneration []float64
	// HoldoutEvaluations holds the best weights' validation and test
	// scores when the scape has those windows.
	HoldoutEvaluations map[string]float64
}

type RunsRequest struct {
	Limit int
}

type DiagnosticsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

// Operators lists the names a config may use for each pluggable part.
type Operators struct {
	Activations        []string
	Selectors          []string
	FitnessCalculators []string
}

type ScapeItem struct {
	Name    string
	Inputs  int
	Outputs int
}

func New(opts Options) (*Client, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Default(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cloneConfig(cfg)
	if cfg.Store.Kind == "" {
		cfg.Store.Kind = storage.DefaultStoreKind()
	}

	logger := opts.Logger
	if logger == nil {
		out := opts.LogOutput
		if out == nil {
			out = io.Discard
		}
		var err error
		if logger, err = cfg.Log.NewLogger(out); err != nil {
			return nil, err
		}
	}

	store, err := storage.NewStore(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, store: store, log: logger}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Config returns a copy of the resolved configuration.
func (c *Client) Config() *Config {
	return cloneConfig(c.cfg)
}

func (c *Client) Init(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

// Run evolves a population against the configured scape for the configured
// number of generations.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}
	evoCfg, err := c.cfg.EvoConfig(0)
	if err != nil {
		return RunSummary{}, err
	}
	evoCfg.Logger = c.log

	manager, err := platform.NewEvolutionManager(platform.ManagerConfig{
		RunID:        req.RunID,
		Topology:     c.cfg.Network.Topology,
		Activation:   c.cfg.Network.Activation,
		ScapeName:    c.cfg.Run.Scape,
		Generations:  c.cfg.Run.Generations,
		Evolution:    evoCfg,
		Store:        c.store,
		OnGeneration: req.OnGeneration,
		Logger:       c.log,
	})
	if err != nil {
		return RunSummary{}, err
	}
	result, err := manager.Run(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		RunID:              result.Run.ID,
		Scape:              result.Run.Scape,
		Generations:        result.Run.Generations,
		BestEvaluation:     result.Run.BestEvaluation,
		BestWeights:        slices.Clone(result.Run.BestWeights),
		BestByGeneration:   make([]float64, 0, len(result.Diagnostics)),
		HoldoutEvaluations: maps.Clone(result.Run.HoldoutEvaluations),
	}
	for _, d := range result.Diagnostics {
		summary.BestByGeneration = append(summary.BestByGeneration, d.BestEvaluation)
	}
	return summary, nil
}

// Runs lists stored runs, most recent first.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunRecord, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be >= 0", ErrInvalidArgument)
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(runs)
	if req.Limit > 0 && len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}
	return runs, nil
}

// Diagnostics returns the stored per-generation history of one run.
func (c *Client) Diagnostics(ctx context.Context, req DiagnosticsRequest) ([]GenerationDiagnostics, error) {
	if req.RunID != "" && req.Latest {
		return nil, errors.New("use either run id or latest")
	}
	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be >= 0", ErrInvalidArgument)
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}

	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	if _, ok, err := c.store.GetRun(ctx, runID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	history, _, err := c.store.GetGenerations(ctx, runID)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return history, nil
}

// FitnessHistory is the best evaluation per stored generation.
func (c *Client) FitnessHistory(ctx context.Context, req DiagnosticsRequest) ([]float64, error) {
	history, err := c.Diagnostics(ctx, req)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(history))
	for i, d := range history {
		out[i] = d.BestEvaluation
	}
	return out, nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if !latest {
		if runID == "" {
			return "", errors.New("run id or latest is required")
		}
		return runID, nil
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", errors.New("no runs available")
	}
	return runs[len(runs)-1].ID, nil
}

// Scapes describes every registered scape, sorted by name.
func Scapes() ([]ScapeItem, error) {
	names := scape.List()
	out := make([]ScapeItem, 0, len(names))
	for _, name := range names {
		s, err := scape.Lookup(name)
		if err != nil {
			return nil, err
		}
		inputs, outputs := s.Shape()
		out = append(out, ScapeItem{Name: name, Inputs: inputs, Outputs: outputs})
	}
	return out, nil
}

// ListOperators reports the registered activations, selectors and fitness
// calculators, each sorted by name.
func ListOperators() Operators {
	return Operators{
		Activations:        nn.ListActivations(),
		Selectors:          evo.ListSelectors(),
		FitnessCalculators: evo.ListFitnessCalculators(),
	}
}

// ReadHistoryCSV parses diagnostics previously written by an export or a
// streamed run.
func ReadHistoryCSV(r io.Reader) ([]GenerationDiagnostics, error) {
	return stats.ReadGenerationsCSV(r)
}

func cloneConfig(cfg *Config) *Config {
	out := *cfg
	out.Network.Topology = slices.Clone(cfg.Network.Topology)
	return &out
}
