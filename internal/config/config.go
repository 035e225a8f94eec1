// Package config loads run configuration from embedded defaults overlaid
// with a YAML or INI file.
package config

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"eann/internal/evo"
	"eann/internal/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Population PopulationConfig `yaml:"population" ini:"population"`
	Network    NetworkConfig    `yaml:"network" ini:"network"`
	Evolution  EvolutionConfig  `yaml:"evolution" ini:"evolution"`
	Run        RunConfig        `yaml:"run" ini:"run"`
	Store      StoreConfig      `yaml:"store" ini:"store"`
	Output     OutputConfig     `yaml:"output" ini:"output"`
	Log        LogConfig        `yaml:"log" ini:"log"`
}

type PopulationConfig struct {
	Size int   `yaml:"size" ini:"size"`
	Seed int64 `yaml:"seed" ini:"seed"`
}

// NetworkConfig describes the fixed topology: input count, hidden layer
// sizes, output count.
type NetworkConfig struct {
	Topology   []int  `yaml:"topology" ini:"topology" delim:","`
	Activation string `yaml:"activation" ini:"activation"`
}

type EvolutionConfig struct {
	InitMin                       float64 `yaml:"init_min" ini:"init_min"`
	InitMax                       float64 `yaml:"init_max" ini:"init_max"`
	Fitness                       string  `yaml:"fitness" ini:"fitness"`
	Selector                      string  `yaml:"selector" ini:"selector"`
	SwapProbability               float64 `yaml:"swap_probability" ini:"swap_probability"`
	MutationSkip                  int     `yaml:"mutation_skip" ini:"mutation_skip"`
	MutationIndividualProbability float64 `yaml:"mutation_individual_probability" ini:"mutation_individual_probability"`
	MutationGeneProbability       float64 `yaml:"mutation_gene_probability" ini:"mutation_gene_probability"`
	MutationAmount                float64 `yaml:"mutation_amount" ini:"mutation_amount"`
}

type RunConfig struct {
	Scape       string `yaml:"scape" ini:"scape"`
	Generations int    `yaml:"generations" ini:"generations"`
}

type StoreConfig struct {
	Kind string `yaml:"kind" ini:"kind"`
	Path string `yaml:"path" ini:"path"`
}

type OutputConfig struct {
	CSV string `yaml:"csv" ini:"csv"`
}

type LogConfig struct {
	Level  string `yaml:"level" ini:"level"`
	Format string `yaml:"format" ini:"format"`
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load reads the embedded defaults and overlays path when it is set. Files
// ending in .ini are read section by section; anything else is YAML. The
// result is validated.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		if strings.EqualFold(filepath.Ext(path), ".ini") {
			err = cfg.overlayINI(path)
		} else {
			err = cfg.overlayYAML(path)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlayYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	// only fields present in the file are overwritten
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

func (c *Config) overlayINI(path string) error {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, path)
	if err != nil {
		return fmt.Errorf("failed to load config file '%s': %w", path, err)
	}

	sections := []struct {
		name   string
		target any
	}{
		{"population", &c.Population},
		{"network", &c.Network},
		{"evolution", &c.Evolution},
		{"run", &c.Run},
		{"store", &c.Store},
		{"output", &c.Output},
		{"log", &c.Log},
	}
	for _, section := range sections {
		if !file.HasSection(section.name) {
			continue
		}
		// MapTo leaves fields without a key untouched
		if err := file.Section(section.name).MapTo(section.target); err != nil {
			return fmt.Errorf("failed to map [%s] section: %w", section.name, err)
		}
	}
	return nil
}

// Validate checks value ranges. Every error wraps model.ErrInvalidArgument.
func (c *Config) Validate() error {
	if c.Population.Size < evo.DefaultSelectionCount {
		return invalid("population.size must be >= %d, got %d", evo.DefaultSelectionCount, c.Population.Size)
	}
	if len(c.Network.Topology) < 2 {
		return invalid("network.topology needs inputs and outputs, got %v", c.Network.Topology)
	}
	for i, n := range c.Network.Topology {
		if n < 1 {
			return invalid("network.topology[%d] must be >= 1, got %d", i, n)
		}
	}
	if c.Evolution.InitMin > c.Evolution.InitMax {
		return invalid("evolution.init_min %g exceeds init_max %g", c.Evolution.InitMin, c.Evolution.InitMax)
	}
	probabilities := map[string]float64{
		"evolution.swap_probability":                c.Evolution.SwapProbability,
		"evolution.mutation_individual_probability": c.Evolution.MutationIndividualProbability,
		"evolution.mutation_gene_probability":       c.Evolution.MutationGeneProbability,
	}
	for name, p := range probabilities {
		if p < 0 || p > 1 {
			return invalid("%s must be in [0, 1], got %g", name, p)
		}
	}
	if c.Evolution.MutationAmount < 0 {
		return invalid("evolution.mutation_amount must be >= 0, got %g", c.Evolution.MutationAmount)
	}
	if c.Evolution.MutationSkip < evo.RecombinedElites {
		return invalid("evolution.mutation_skip must be >= %d, got %d", evo.RecombinedElites, c.Evolution.MutationSkip)
	}
	if c.Run.Generations < 0 {
		return invalid("run.generations must be >= 0, got %d", c.Run.Generations)
	}
	switch c.Store.Kind {
	case "", "memory", "sqlite":
	default:
		return invalid("store.kind must be memory or sqlite, got %q", c.Store.Kind)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// EvoConfig builds the genetic algorithm configuration for a network with
// parameterCount weights. Evaluation and hooks are left for the caller.
func (c *Config) EvoConfig(parameterCount int) (evo.Config, error) {
	fitness, err := evo.ResolveFitnessCalculator(c.Evolution.Fitness)
	if err != nil {
		return evo.Config{}, fmt.Errorf("evolution.fitness: %w", err)
	}
	selector, err := evo.ResolveSelector(c.Evolution.Selector)
	if err != nil {
		return evo.Config{}, fmt.Errorf("evolution.selector: %w", err)
	}
	return evo.Config{
		ParameterCount: parameterCount,
		PopulationSize: c.Population.Size,
		Seed:           c.Population.Seed,
		Initializer:    evo.UniformInitializer{Min: c.Evolution.InitMin, Max: c.Evolution.InitMax},
		Fitness:        fitness,
		Selector:       selector,
		Recombiner:     evo.RandomPairRecombiner{SwapProbability: c.Evolution.SwapProbability},
		Mutator: evo.ElitistMutator{
			Skip:                  c.Evolution.MutationSkip,
			IndividualProbability: c.Evolution.MutationIndividualProbability,
			GeneProbability:       c.Evolution.MutationGeneProbability,
			Amount:                c.Evolution.MutationAmount,
		},
	}, nil
}

func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, invalid("log.level: %v", err)
	}
	return level, nil
}

// NewLogger builds a slog logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{model.ErrInvalidArgument}, args...)...)
}
