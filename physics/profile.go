package physics

import (
	"math"
	"strings"
)

// Material defines surface response and density of a collider
// Presets are package variables so colliders can share them without allocation
type Material struct {
	Friction    float64 // Coulomb coefficient, combined by geometric mean
	Restitution float64 // Bounciness in [0, 1], combined by max
	Density     float64 // Mass per unit area for density-built bodies
}

// DefaultMaterial is a dull, moderately rough surface
var DefaultMaterial = Material{
	Friction:    0.4,
	Restitution: 0.1,
	Density:     1.0,
}

// Rubber bounces and grips
var Rubber = Material{
	Friction:    0.9,
	Restitution: 0.8,
	Density:     1.2,
}

// Steel is dense and slightly slick
var Steel = Material{
	Friction:    0.3,
	Restitution: 0.2,
	Density:     7.8,
}

// Ice barely grips
var Ice = Material{
	Friction:    0.02,
	Restitution: 0.05,
	Density:     0.9,
}

// Wood is light with medium friction
var Wood = Material{
	Friction:    0.5,
	Restitution: 0.3,
	Density:     0.6,
}

var materials = map[string]Material{
	"default": DefaultMaterial,
	"rubber":  Rubber,
	"steel":   Steel,
	"ice":     Ice,
	"wood":    Wood,
}

// MaterialByName looks up a preset, case-insensitive
func MaterialByName(name string) (Material, bool) {
	m, ok := materials[strings.ToLower(name)]
	return m, ok
}

// MixMaterials combines two surfaces for one contact
func MixMaterials(a, b Material) (friction, restitution float64) {
	return math.Sqrt(a.Friction * b.Friction), math.Max(a.Restitution, b.Restitution)
}
