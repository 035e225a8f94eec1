package model

import "errors"

// Error categories shared by every package. Callers match with errors.Is;
// none of them is transient, so retrying with the same inputs is pointless.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidState      = errors.New("invalid state")
)
