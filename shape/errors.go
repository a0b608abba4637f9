package shape

import "errors"

var (
	ErrInvalidRadius   = errors.New("shape: radius must be positive")
	ErrInvalidExtents  = errors.New("shape: box half-extents must be positive")
	ErrTooFewVertices  = errors.New("shape: polygon needs at least 3 vertices")
	ErrTooManyVertices = errors.New("shape: polygon vertex limit exceeded")
	ErrDegenerate      = errors.New("shape: degenerate geometry")
	ErrNotConvex       = errors.New("shape: polygon is not convex")
)
