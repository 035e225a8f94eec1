package scape

import "context"

// XORScape scores a two-input, one-output network on the XOR truth table.
// The evaluation is the reciprocal of the summed squared error.
type XORScape struct{}

func (XORScape) Name() string {
	return "xor"
}

func (XORScape) Shape() (int, int) {
	return 2, 1
}

func (XORScape) Evaluate(ctx context.Context, agent Agent) (float64, Trace, error) {
	return XORScape{}.EvaluateMode(ctx, agent, ModeGT)
}

func (XORScape) EvaluateMode(ctx context.Context, agent Agent, mode string) (float64, Trace, error) {
	cfg, err := xorConfigForMode(mode)
	if err != nil {
		return 0, nil, err
	}

	var sse float64
	predictions := make([]float64, 0, len(cfg.cases))
	for _, c := range cfg.cases {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		predicted, err := processSingle("xor", agent, c.in)
		if err != nil {
			return 0, nil, err
		}
		predictions = append(predictions, predicted)
		delta := predicted - c.want
		sse += delta * delta
	}

	mse := sse / float64(len(cfg.cases))
	return 1.0 / (sse + 0.000001), Trace{
		"mse":         mse,
		"sse":         sse,
		"predictions": predictions,
		"mode":        cfg.mode,
		"cases":       len(cfg.cases),
	}, nil
}

type xorCase struct {
	in   []float64
	want float64
}

type xorModeConfig struct {
	mode  string
	cases []xorCase
}

func xorConfigForMode(mode string) (xorModeConfig, error) {
	base := []xorCase{
		{in: []float64{0, 0}, want: 0},
		{in: []float64{0, 1}, want: 1},
		{in: []float64{1, 0}, want: 1},
		{in: []float64{1, 1}, want: 0},
	}

	switch mode = normalizeMode(mode); mode {
	case ModeGT:
		return xorModeConfig{mode: mode, cases: base}, nil
	case ModeValidation:
		return xorModeConfig{
			mode:  mode,
			cases: []xorCase{base[1], base[2], base[0], base[3], base[1], base[2]},
		}, nil
	case ModeTest:
		return xorModeConfig{
			mode:  mode,
			cases: []xorCase{base[3], base[2], base[1], base[0], base[3], base[0], base[2], base[1]},
		}, nil
	default:
		return xorModeConfig{}, unsupportedMode("xor", mode)
	}
}
