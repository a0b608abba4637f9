package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the single tolerance used for near-zero, near-parallel and near-touching decisions
const Epsilon = 1e-9

// NearZero reports |x| <= Epsilon
func NearZero(x float64) bool {
	return math.Abs(x) <= Epsilon
}

// NearEqual reports |a - b| <= Epsilon
func NearEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// Clamp limits x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	return mgl64.Clamp(x, lo, hi)
}

// Sign returns -1, 0, or 1
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

// --- Randomness ---

// FastRand is a xorshift64 generator for reproducible scene setup
type FastRand struct {
	state uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a value in [0, 1)
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Range returns a value in [lo, hi)
func (r *FastRand) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Direction returns a random unit vector
func (r *FastRand) Direction() Vec2 {
	a := r.Range(0, 2*math.Pi)
	return Vec2{math.Cos(a), math.Sin(a)}
}
