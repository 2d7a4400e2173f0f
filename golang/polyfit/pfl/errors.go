package pfl

import "github.com/pkg/errors"

// Precondition violations reported at the boundary of the offending call.
// Callers match them with errors.Is; the returned errors carry the offending sizes.
var (
	//ErrInvalidInput is returned for empty or mismatched sample and coefficient vectors.
	ErrInvalidInput = errors.New("invalid input")
	//ErrInvalidConfig is returned for out-of-range optimizer or training parameters.
	ErrInvalidConfig = errors.New("invalid config")
	//ErrShapeMismatch is returned when a gradient does not match the optimizer's bound shape.
	ErrShapeMismatch = errors.New("shape mismatch")
)
