package scape

import (
	"context"
	"errors"
	"testing"

	"eann/internal/agent"
	"eann/internal/genotype"
	"eann/internal/model"
)

type scriptedAgent struct {
	fn func(input []float64) []float64
}

func (a scriptedAgent) Process(input []float64) ([]float64, error) {
	return a.fn(input), nil
}

func constantAgent(value float64) scriptedAgent {
	return scriptedAgent{fn: func([]float64) []float64 { return []float64{value} }}
}

// newSigmoidAgent loads genes into a live agent whose layers use sigmoid.
func newSigmoidAgent(t *testing.T, genes []float64, topology ...int) *agent.Agent {
	t.Helper()
	a, err := agent.New(genotype.New(genes), topology...)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	if err := a.Network().SetActivation("sigmoid"); err != nil {
		t.Fatalf("set activation: %v", err)
	}
	a.Reset()
	return a
}

func TestRegistryBuiltIns(t *testing.T) {
	resetRegistryForTests()
	t.Cleanup(resetRegistryForTests)

	names := List()
	want := []string{"cart-pole-lite", "regression-mimic", "xor"}
	if len(names) != len(want) {
		t.Fatalf("unexpected scapes: %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected scapes: %v", names)
		}
	}
	s, err := Lookup("xor")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if in, out := s.Shape(); in != 2 || out != 1 {
		t.Fatalf("unexpected xor shape: %d,%d", in, out)
	}
}

func TestLookupResolvesAliases(t *testing.T) {
	for alias, want := range map[string]string{
		"scape_xor_sim":    "xor",
		"regression_mimic": "regression-mimic",
		"CartPoleLite":     "cart-pole-lite",
	} {
		s, err := Lookup(alias)
		if err != nil {
			t.Fatalf("lookup %q: %v", alias, err)
		}
		if s.Name() != want {
			t.Fatalf("lookup %q resolved to %q, want %q", alias, s.Name(), want)
		}
	}
}

func TestRegistryErrors(t *testing.T) {
	resetRegistryForTests()
	t.Cleanup(resetRegistryForTests)

	if _, err := Lookup("flatland"); !errors.Is(err, ErrScapeNotFound) {
		t.Fatalf("expected ErrScapeNotFound, got: %v", err)
	}
	if err := Register(XORScape{}); !errors.Is(err, ErrScapeExists) {
		t.Fatalf("expected ErrScapeExists, got: %v", err)
	}
	if err := Register(nil); err == nil {
		t.Fatal("expected nil scape error")
	}
}

func TestXORScapeEvaluateWithHandBuiltAgent(t *testing.T) {
	// 2-2-1 sigmoid network approximating XOR; bias rows come last.
	a := newSigmoidAgent(t, []float64{
		20, -20,
		20, -20,
		-10, 30,
		20,
		20,
		-30,
	}, 2, 2, 1)

	evaluation, trace, err := XORScape{}.Evaluate(context.Background(), a)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	mse, ok := trace["mse"].(float64)
	if !ok {
		t.Fatalf("trace missing mse: %+v", trace)
	}
	sse, _ := trace["sse"].(float64)
	if mse > 0.05 {
		t.Fatalf("expected mse <= 0.05, got %f", mse)
	}
	want := 1.0 / (sse + 0.000001)
	if diff := evaluation - want; diff < -1e-9 || diff > 1e-9 {
		t.Fatalf("expected reciprocal-sse evaluation %f, got %f", want, evaluation)
	}
}

func TestXORScapeEvaluateModeAnnotatesMode(t *testing.T) {
	parity := scriptedAgent{fn: func(input []float64) []float64 {
		if int(input[0])^int(input[1]) == 1 {
			return []float64{1}
		}
		return []float64{0}
	}}

	cases := map[string]int{ModeGT: 4, ModeValidation: 6, ModeTest: 8}
	for mode, count := range cases {
		_, trace, err := XORScape{}.EvaluateMode(context.Background(), parity, mode)
		if err != nil {
			t.Fatalf("evaluate %s: %v", mode, err)
		}
		if got, _ := trace["mode"].(string); got != mode {
			t.Fatalf("expected %s mode marker, got %+v", mode, trace)
		}
		if got, _ := trace["cases"].(int); got != count {
			t.Fatalf("mode %s: expected %d cases, got %d", mode, count, got)
		}
		if sse, _ := trace["sse"].(float64); sse != 0 {
			t.Fatalf("mode %s: expected perfect parity agent, sse=%f", mode, sse)
		}
	}

	if _, _, err := (XORScape{}).EvaluateMode(context.Background(), parity, "benchmark"); !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unsupported mode, got: %v", err)
	}
}

func TestXORScapePropagatesDimensionMismatch(t *testing.T) {
	a := newSigmoidAgent(t, make([]float64, 8), 3, 2)
	if _, _, err := (XORScape{}).Evaluate(context.Background(), a); !errors.Is(err, model.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got: %v", err)
	}
}

func TestXORScapeRejectsWideOutput(t *testing.T) {
	wide := scriptedAgent{fn: func([]float64) []float64 { return []float64{0, 1} }}
	if _, _, err := (XORScape{}).Evaluate(context.Background(), wide); !errors.Is(err, model.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got: %v", err)
	}
}

func TestScapesClassifyModeAndWidthErrors(t *testing.T) {
	wide := scriptedAgent{fn: func([]float64) []float64 { return []float64{0, 1} }}
	narrow := constantAgent(0.5)
	for _, name := range List() {
		s, err := Lookup(name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		if _, _, err := s.Evaluate(context.Background(), wide); !errors.Is(err, model.ErrDimensionMismatch) {
			t.Fatalf("%s: expected ErrDimensionMismatch for two outputs, got: %v", name, err)
		}
		modal, ok := s.(ModeAwareScape)
		if !ok {
			continue
		}
		if _, _, err := modal.EvaluateMode(context.Background(), narrow, "benchmark"); !errors.Is(err, model.ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument for unknown mode, got: %v", name, err)
		}
	}
}

func TestXORScapeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := (XORScape{}).Evaluate(ctx, constantAgent(0)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}

func TestRegressionMimicScape(t *testing.T) {
	identity := scriptedAgent{fn: func(input []float64) []float64 { return []float64{input[0]} }}
	evaluation, trace, err := RegressionMimicScape{}.Evaluate(context.Background(), identity)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if mse, _ := trace["mse"].(float64); mse > 1e-12 {
		t.Fatalf("expected mse ~0, got %f", mse)
	}
	if evaluation < 0.999999 {
		t.Fatalf("expected near-perfect evaluation, got %f", evaluation)
	}

	worse, _, err := RegressionMimicScape{}.Evaluate(context.Background(), constantAgent(-1))
	if err != nil {
		t.Fatalf("evaluate constant: %v", err)
	}
	if worse <= 0 || worse >= evaluation {
		t.Fatalf("expected positive lower evaluation, got %f", worse)
	}
}

func TestCartPoleLiteScape(t *testing.T) {
	controller := scriptedAgent{fn: func(input []float64) []float64 {
		return []float64{-1.2*input[0] - 0.6*input[1]}
	}}
	evaluation, trace, err := CartPoleLiteScape{}.Evaluate(context.Background(), controller)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if evaluation <= 0.5 {
		t.Fatalf("expected evaluation > 0.5, got %f", evaluation)
	}
	if steps, _ := trace["steps_survived"].(int); steps != 5*60 {
		t.Fatalf("expected every episode to survive, got %d steps", steps)
	}

	for _, mode := range []string{ModeValidation, ModeTest} {
		_, trace, err := CartPoleLiteScape{}.EvaluateMode(context.Background(), controller, mode)
		if err != nil {
			t.Fatalf("evaluate %s: %v", mode, err)
		}
		if got, _ := trace["mode"].(string); got != mode {
			t.Fatalf("expected %s mode marker, got %+v", mode, trace)
		}
	}
}

func TestCartPoleLiteStepClampsForce(t *testing.T) {
	x1, v1, _ := cartPoleLiteStep(0, 0, 10)
	x2, v2, _ := cartPoleLiteStep(0, 0, 1)
	if x1 != x2 || v1 != v2 {
		t.Fatalf("expected clamped force, got (%f,%f) vs (%f,%f)", x1, v1, x2, v2)
	}
}
