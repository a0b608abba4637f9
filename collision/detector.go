package collision

import (
	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/log"
	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// Stats counts detector work since the last reset
type Stats struct {
	Tests   uint64
	Hits    uint64
	GJKRuns uint64
	CapHits uint64
	Swept   uint64
}

// Detector runs the narrow phase for entity pairs and reports GJK cap hits
type Detector struct {
	logger        log.Log
	fastPaths     bool
	maxIterations int
	stats         Stats
}

// Option configures a Detector
type Option func(*Detector)

// WithLogger sets the logger that receives cap warnings
func WithLogger(l log.Log) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithFastPaths toggles the closed-form and SAT paths, disabled sends every pair through GJK/EPA
func WithFastPaths(enabled bool) Option {
	return func(d *Detector) { d.fastPaths = enabled }
}

// WithMaxIterations overrides the GJK iteration cap
func WithMaxIterations(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.maxIterations = n
		}
	}
}

// NewDetector creates a detector with fast paths enabled and the default cap
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		logger:        log.Nop(),
		fastPaths:     true,
		maxIterations: parameter.GJKMaxIterations,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect tests two world-space shapes owned by ea and eb
// The pair is solved in one fixed operand order, so swapping the arguments flips the manifold
func (d *Detector) Detect(ea core.Entity, a shape.Shape, eb core.Entity, b shape.Shape) (Manifold, bool) {
	if precedes(b, a) {
		m, ok := d.Detect(eb, b, ea, a)
		if !ok {
			return Manifold{}, false
		}
		return m.Flip(), true
	}

	d.stats.Tests++

	var m Manifold
	var ok bool
	handled := false
	if d.fastPaths {
		m, ok, handled = collideFast(a, b)
	}
	if !handled {
		m, ok = d.gjk(ea, a, eb, b)
	}
	if !ok {
		return Manifold{}, false
	}

	d.stats.Hits++
	m.A, m.B = ea, eb
	return m, true
}

// DetectSwept tests a against b with a swept along delta (the bullet hull)
// A hit that only the hull finds is returned as a speculative contact:
// Depth 0, Separation set to the current gap, normal along the closest points
func (d *Detector) DetectSwept(ea core.Entity, a shape.Shape, delta vmath.Vec2, eb core.Entity, b shape.Shape) (Manifold, bool) {
	if m, ok := d.Detect(ea, a, eb, b); ok {
		return m, true
	}
	if vmath.NearZeroVec(delta) {
		return Manifold{}, false
	}

	d.stats.Swept++
	if _, ok := d.gjk(ea, shape.Swept{Base: a, Delta: delta}, eb, b); !ok {
		return Manifold{}, false
	}

	dist := Distance(a, b)
	if dist.Overlap {
		// Touching within tolerance and moving in: stop along the motion
		d.stats.Hits++
		m := single(vmath.Normalize(delta), 0, a.Support(delta))
		m.A, m.B = ea, eb
		return m, true
	}
	n := vmath.Normalize(dist.PointB.Sub(dist.PointA))
	// Moving apart along the closest axis
	if vmath.NearZeroVec(n) || n.Dot(delta) <= 0 {
		return Manifold{}, false
	}

	d.stats.Hits++
	m := single(n, 0, dist.PointB)
	m.Separation = dist.Distance
	m.A, m.B = ea, eb
	return m, true
}

func (d *Detector) gjk(ea core.Entity, a shape.Supporter, eb core.Entity, b shape.Supporter) (Manifold, bool) {
	d.stats.GJKRuns++
	m, ok, res := collideGJK(a, b, d.maxIterations)
	if res.CapReached {
		d.stats.CapHits++
		d.logger.Warn("gjk iteration cap reached, treating pair as separated",
			log.Uint64("entity_a", uint64(ea)),
			log.Uint64("entity_b", uint64(eb)),
			log.Int("iterations", res.Iterations),
		)
	}
	return m, ok
}

// Stats returns the counters since the last reset
func (d *Detector) Stats() Stats {
	return d.stats
}

// ResetStats zeroes the counters
func (d *Detector) ResetStats() {
	d.stats = Stats{}
}
