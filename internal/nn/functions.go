package nn

import "math"

// Softsign is x / (1 + |x|), bounded to (-1, 1).
func Softsign(x float64) float64 {
	return x / (1 + math.Abs(x))
}

func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
