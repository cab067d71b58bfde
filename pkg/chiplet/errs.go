package chiplet

import "errors"

var (
	// ErrInvalidConfiguration indicates that a constant the model divides by
	// (PE count, clock frequency, a bandwidth) is non-positive, or that an
	// energy constant is negative. The model has no meaningful output then.
	ErrInvalidConfiguration = errors.New("chiplet: invalid configuration")

	// ErrUnknownStage indicates a Stage value outside the fixed pipeline.
	ErrUnknownStage = errors.New("chiplet: unknown stage")
)
