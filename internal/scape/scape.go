// Package scape holds the evaluation environments that score a network.
// A scape feeds inputs through an agent and turns the outputs into an
// evaluation; higher is better and built-in scapes never go below zero.
package scape

import (
	"context"
	"fmt"
	"strings"

	"eann/internal/model"
)

// Trace carries per-evaluation details for logging.
type Trace map[string]any

// Agent is the part of agent.Agent a scape drives.
type Agent interface {
	Process(inputs []float64) ([]float64, error)
}

type Scape interface {
	Name() string
	// Shape returns the input and output widths the scape expects.
	Shape() (inputs, outputs int)
	Evaluate(ctx context.Context, agent Agent) (float64, Trace, error)
}

// ModeAwareScape optionally exposes gt/validation/test case windows.
type ModeAwareScape interface {
	Scape
	EvaluateMode(ctx context.Context, agent Agent, mode string) (float64, Trace, error)
}

const (
	ModeGT         = "gt"
	ModeValidation = "validation"
	ModeTest       = "test"
)

func normalizeMode(mode string) string {
	mode = strings.TrimSpace(strings.ToLower(mode))
	if mode == "" {
		return ModeGT
	}
	return mode
}

func unsupportedMode(scape, mode string) error {
	return fmt.Errorf("%w: unsupported %s mode: %s", model.ErrInvalidArgument, scape, mode)
}

// processSingle runs one step and requires exactly one output.
func processSingle(name string, agent Agent, in []float64) (float64, error) {
	out, err := agent.Process(in)
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("%w: %s requires one output, got %d", model.ErrDimensionMismatch, name, len(out))
	}
	return out[0], nil
}
