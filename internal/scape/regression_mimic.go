package scape

import "context"

// RegressionMimicScape evaluates a one-dimensional regression target y=x.
// The evaluation is 1/(1+mse), so a perfect mimic scores 1.
type RegressionMimicScape struct{}

func (RegressionMimicScape) Name() string {
	return "regression-mimic"
}

func (RegressionMimicScape) Shape() (int, int) {
	return 1, 1
}

func (RegressionMimicScape) Evaluate(ctx context.Context, agent Agent) (float64, Trace, error) {
	return RegressionMimicScape{}.EvaluateMode(ctx, agent, ModeGT)
}

func (RegressionMimicScape) EvaluateMode(ctx context.Context, agent Agent, mode string) (float64, Trace, error) {
	var inputs []float64
	switch mode = normalizeMode(mode); mode {
	case ModeGT:
		inputs = []float64{0.0, 0.25, 0.5, 0.75, 1.0}
	case ModeValidation:
		inputs = []float64{0.1, 0.4, 0.6, 0.9}
	case ModeTest:
		inputs = []float64{0.05, 0.35, 0.65, 0.95}
	default:
		return 0, nil, unsupportedMode("regression-mimic", mode)
	}

	predictions := make([]float64, 0, len(inputs))
	var squaredErr float64
	for _, x := range inputs {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		predicted, err := processSingle("regression-mimic", agent, []float64{x})
		if err != nil {
			return 0, nil, err
		}
		predictions = append(predictions, predicted)
		delta := predicted - x
		squaredErr += delta * delta
	}

	mse := squaredErr / float64(len(inputs))
	return 1.0 / (1.0 + mse), Trace{"mse": mse, "predictions": predictions, "mode": mode}, nil
}
