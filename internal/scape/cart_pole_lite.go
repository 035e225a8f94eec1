package scape

import (
	"context"
	"math"
)

// CartPoleLiteScape is a simplified 1D balancing control task. The network
// sees position and velocity and returns a force; the evaluation is the
// average per-step reward in [0, 1].
type CartPoleLiteScape struct{}

func (CartPoleLiteScape) Name() string {
	return "cart-pole-lite"
}

func (CartPoleLiteScape) Shape() (int, int) {
	return 2, 1
}

func (CartPoleLiteScape) Evaluate(ctx context.Context, agent Agent) (float64, Trace, error) {
	return CartPoleLiteScape{}.EvaluateMode(ctx, agent, ModeGT)
}

func (CartPoleLiteScape) EvaluateMode(ctx context.Context, agent Agent, mode string) (float64, Trace, error) {
	cfg, err := cartPoleLiteConfigForMode(mode)
	if err != nil {
		return 0, nil, err
	}

	totalReward := 0.0
	stepsSurvived := 0
	for _, start := range cfg.startPositions {
		x := start
		v := 0.0

		for step := 0; step < cfg.stepsPerEpisode; step++ {
			if err := ctx.Err(); err != nil {
				return 0, nil, err
			}

			force, err := processSingle("cart-pole-lite", agent, []float64{x, v})
			if err != nil {
				return 0, nil, err
			}
			var reward float64
			x, v, reward = cartPoleLiteStep(x, v, force)
			totalReward += reward
			stepsSurvived++
			if math.Abs(x) > 2.0 {
				break
			}
		}
	}

	trace := Trace{
		"steps_survived":    stepsSurvived,
		"mode":              cfg.mode,
		"episodes":          len(cfg.startPositions),
		"steps_per_episode": cfg.stepsPerEpisode,
	}
	if stepsSurvived == 0 {
		trace["avg_reward"] = 0.0
		return 0, trace, nil
	}
	avgReward := totalReward / float64(stepsSurvived)
	trace["avg_reward"] = avgReward
	return avgReward, trace, nil
}

type cartPoleLiteModeConfig struct {
	mode            string
	startPositions  []float64
	stepsPerEpisode int
}

func cartPoleLiteConfigForMode(mode string) (cartPoleLiteModeConfig, error) {
	switch mode = normalizeMode(mode); mode {
	case ModeGT:
		return cartPoleLiteModeConfig{
			mode:            mode,
			startPositions:  []float64{-0.8, -0.4, 0.0, 0.4, 0.8},
			stepsPerEpisode: 60,
		}, nil
	case ModeValidation:
		return cartPoleLiteModeConfig{
			mode:            mode,
			startPositions:  []float64{-1.0, -0.5, 0.5, 1.0},
			stepsPerEpisode: 48,
		}, nil
	case ModeTest:
		return cartPoleLiteModeConfig{
			mode:            mode,
			startPositions:  []float64{-1.2, -0.6, 0.0, 0.6, 1.2},
			stepsPerEpisode: 48,
		}, nil
	default:
		return cartPoleLiteModeConfig{}, unsupportedMode("cart-pole-lite", mode)
	}
}

func cartPoleLiteStep(x, v, force float64) (nextX, nextV, reward float64) {
	const (
		dt       = 0.1
		kPos     = 0.45
		kVel     = 0.15
		forceK   = 1.25
		maxForce = 1.0
	)
	force = math.Max(-maxForce, math.Min(maxForce, force))

	acc := forceK*force - kPos*x - kVel*v
	v = v + acc*dt
	x = x + v*dt
	reward = 1.0 - math.Min(1.0, math.Abs(x)/2.0)
	return x, v, reward
}
