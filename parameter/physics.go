package parameter

import "github.com/lixenwraith/planar/vmath"

// Narrow Phase
const (
	// GJKMaxIterations caps the GJK loop; exceeding it is reported as "no collision"
	GJKMaxIterations = 30

	// EPAMaxIterations caps polytope expansion
	EPAMaxIterations = 32

	// Convergence thresholds below are scaled from vmath.Epsilon, the tolerance
	// every near-zero, near-parallel and near-touching decision uses

	// EPATolerance is the support improvement below which EPA has converged
	EPATolerance = 1e3 * vmath.Epsilon

	// DistanceTolerance is the relative convergence threshold of the GJK distance query
	DistanceTolerance = vmath.Epsilon

	// ReferenceFaceBias prefers the first operand's face when both separations are this close;
	// operands are put in a fixed order first, so the choice does not depend on argument order
	ReferenceFaceBias = 5e5 * vmath.Epsilon
)

// Contact Resolution
const (
	// VelocityIterations is the default number of impulse passes per step
	VelocityIterations = 8

	// PositionCorrectionPercent is the Baumgarte fraction of penetration removed per step
	PositionCorrectionPercent = 0.4

	// PenetrationSlop is the penetration left uncorrected to keep resting contacts stable
	PenetrationSlop = 0.005

	// RestitutionThreshold is the approach speed below which bounces are suppressed
	RestitutionThreshold = 0.5
)

// World Defaults
const (
	// DefaultGravityY is the default world gravity (y up)
	DefaultGravityY = -9.81

	// DefaultDensity is used when a dynamic body is built from density without one
	DefaultDensity = 1.0
)
