package engine

import "errors"

var (
	ErrUnknownEntity   = errors.New("engine: unknown entity")
	ErrStepInProgress  = errors.New("engine: step already in progress")
	ErrInvalidTimestep = errors.New("engine: timestep must be finite and > 0")
	ErrMissingShape    = errors.New("engine: body definition has no shape")
)
