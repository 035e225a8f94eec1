package agent

import (
	"errors"
	"math"
	"slices"
	"testing"

	"eann/internal/genotype"
	"eann/internal/model"
)

func TestNewChecksParameterCount(t *testing.T) {
	if _, err := New(genotype.NewZero(13), 2, 3, 1); err != nil {
		t.Fatalf("expected 13 genes to fit topology [2 3 1]: %v", err)
	}
	if _, err := New(genotype.NewZero(12), 2, 3, 1); !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for 12 genes, got: %v", err)
	}
}

func TestNewRejectsInvalidInputs(t *testing.T) {
	if _, err := New(nil, 1, 1); !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for nil genotype, got: %v", err)
	}
	if _, err := New(genotype.NewZero(2), 1); !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for short topology, got: %v", err)
	}
}

func TestNewDecodesGenotype(t *testing.T) {
	a, err := New(genotype.New([]float64{0.5, -0.25}), 1, 1)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	layer := a.Network().Layers[0]
	if layer.Weight(0, 0) != 0.5 || layer.Weight(1, 0) != -0.25 {
		t.Fatalf("unexpected decode: weight=%f bias=%f", layer.Weight(0, 0), layer.Weight(1, 0))
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	genes := make([]float64, 13)
	for i := range genes {
		genes[i] = float64(i) * 0.1
	}
	a, err := New(genotype.New(genes), 2, 3, 1)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	if !slices.Equal(a.Network().Weights(), genes) {
		t.Fatalf("round trip mismatch: %v", a.Network().Weights())
	}
}

func TestProcess(t *testing.T) {
	a, err := New(genotype.New([]float64{2.0, 0.5}), 1, 1)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	out, err := a.Process([]float64{1.0})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if math.Abs(out[0]-2.5/3.5) > 1e-9 {
		t.Fatalf("unexpected output: %f", out[0])
	}
	if _, err := a.Process([]float64{1, 2}); !errors.Is(err, model.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got: %v", err)
	}
}

func TestStartsDead(t *testing.T) {
	a, err := New(genotype.NewZero(2), 1, 1)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	if a.IsAlive() {
		t.Fatal("expected new agent to be dead until reset")
	}
}

func TestKillNotifiesOnce(t *testing.T) {
	a, err := New(genotype.NewZero(2), 1, 1)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	deaths := 0
	a.OnDeath(func(dead *Agent) {
		if dead != a {
			t.Fatal("expected notification for the killed agent")
		}
		deaths++
	})

	a.Kill()
	if deaths != 0 {
		t.Fatalf("expected no notification killing a dead agent, got %d", deaths)
	}

	a.Reset()
	if deaths != 0 {
		t.Fatalf("expected no notification on reset, got %d", deaths)
	}
	a.Kill()
	a.Kill()
	if deaths != 1 {
		t.Fatalf("expected exactly one notification, got %d", deaths)
	}
	if a.IsAlive() {
		t.Fatal("expected agent dead after kill")
	}
}

func TestResetAfterKill(t *testing.T) {
	g := genotype.NewZero(2)
	a, err := New(g, 1, 1)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	a.Reset()
	g.Evaluation = 4
	g.Fitness = 1.2
	a.Kill()

	a.Reset()
	if !a.IsAlive() {
		t.Fatal("expected agent alive after reset")
	}
	if g.Evaluation != 0 || g.Fitness != 0 {
		t.Fatalf("expected scores cleared, got evaluation=%f fitness=%f", g.Evaluation, g.Fitness)
	}
}

func TestUnsubscribe(t *testing.T) {
	a, err := New(genotype.NewZero(2), 1, 1)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	var order []string
	first := a.OnDeath(func(*Agent) { order = append(order, "first") })
	a.OnDeath(func(*Agent) { order = append(order, "second") })
	a.Unsubscribe(first)
	a.Unsubscribe(Subscription(99))

	a.Reset()
	a.Kill()
	if len(order) != 1 || order[0] != "second" {
		t.Fatalf("unexpected notifications: %v", order)
	}
}

func TestCompareDelegatesToGenotype(t *testing.T) {
	strong := genotype.NewZero(2)
	strong.Fitness = 2
	weak := genotype.NewZero(2)
	weak.Fitness = 1

	a, err := New(strong, 1, 1)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	b, err := New(weak, 1, 1)
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	agents := []*Agent{b, a}
	slices.SortStableFunc(agents, Compare)
	if agents[0] != a {
		t.Fatal("expected fitter agent first")
	}
}
