package physics

import "errors"

var (
	ErrInvalidMass    = errors.New("physics: dynamic body needs a finite mass > 0")
	ErrInvalidDensity = errors.New("physics: density must be finite and > 0")
)
