package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/engine"
	"github.com/lixenwraith/planar/physics"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// Scene lists the bodies to create, optionally preceded by a generated layout
type Scene struct {
	// Generator is one of "", "pyramid", "rain", "container"
	Generator string     `yaml:"generator"`
	Count     int        `yaml:"count"`
	Seed      uint64     `yaml:"seed"`
	Bodies    []BodySpec `yaml:"bodies"`
	// Attractors are radial gravity wells added to the world
	Attractors []AttractorSpec `yaml:"attractors"`
}

// AttractorSpec is the YAML form of physics.Attractor
type AttractorSpec struct {
	Center    vmath.Vec2 `yaml:"center"`
	Strength  float64    `yaml:"strength"`
	MinRadius float64    `yaml:"min_radius"`
}

func (a AttractorSpec) validate() error {
	if !finiteVec(a.Center) || !finite(a.Strength) {
		return errors.New("attractor center and strength must be finite")
	}
	if !finite(a.MinRadius) || a.MinRadius < 0 {
		return fmt.Errorf("attractor min_radius must be >= 0, got %v", a.MinRadius)
	}
	return nil
}

// BodySpec is the YAML form of engine.BodyDef
type BodySpec struct {
	Name            string     `yaml:"name"`
	Type            string     `yaml:"type"`
	Shape           ShapeSpec  `yaml:"shape"`
	Position        vmath.Vec2 `yaml:"position"`
	Rotation        float64    `yaml:"rotation"`
	Scale           vmath.Vec2 `yaml:"scale"`
	Velocity        vmath.Vec2 `yaml:"velocity"`
	AngularVelocity float64    `yaml:"angular_velocity"`
	Mass            float64    `yaml:"mass"`

	// Material names a preset; the pointer fields override single properties
	Material    string   `yaml:"material"`
	Friction    *float64 `yaml:"friction"`
	Restitution *float64 `yaml:"restitution"`
	Density     *float64 `yaml:"density"`

	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
	GravityScale   float64 `yaml:"gravity_scale"`
	IgnoreGravity  bool    `yaml:"ignore_gravity"`
	MaxSpeed       float64 `yaml:"max_speed"`
	Bullet         bool    `yaml:"bullet"`
	Sensor         bool    `yaml:"sensor"`
	Category       uint32  `yaml:"category"`
	Mask           uint32  `yaml:"mask"`
}

// ShapeSpec selects a shape variant by Kind
type ShapeSpec struct {
	Kind string `yaml:"kind"`
	// Circle
	Radius float64 `yaml:"radius"`
	// Box, centered on Offset and turned by Angle inside the body frame
	HalfWidth  float64    `yaml:"half_width"`
	HalfHeight float64    `yaml:"half_height"`
	Offset     vmath.Vec2 `yaml:"offset"`
	Angle      float64    `yaml:"angle"`
	// Polygon
	Vertices []vmath.Vec2 `yaml:"vertices"`
	// Edge
	A vmath.Vec2 `yaml:"a"`
	B vmath.Vec2 `yaml:"b"`
}

// Build constructs the local-space shape
func (s ShapeSpec) Build() (shape.Shape, error) {
	switch strings.ToLower(s.Kind) {
	case "circle":
		return shape.NewCircle(s.Offset, s.Radius)
	case "box":
		if s.Offset == (vmath.Vec2{}) && s.Angle == 0 {
			return shape.NewBox(s.HalfWidth, s.HalfHeight)
		}
		return shape.NewBoxAt(s.HalfWidth, s.HalfHeight, s.Offset, s.Angle)
	case "polygon":
		return shape.NewPolygon(s.Vertices...)
	case "edge":
		return shape.NewEdge(s.A, s.B)
	case "":
		return nil, errors.New("shape kind is required")
	}
	return nil, fmt.Errorf("unknown shape kind %q", s.Kind)
}

func (b *BodySpec) bodyType() (physics.BodyType, error) {
	switch strings.ToLower(b.Type) {
	case "dynamic", "":
		return physics.Dynamic, nil
	case "static":
		return physics.Static, nil
	}
	return 0, fmt.Errorf("unknown body type %q", b.Type)
}

func (b *BodySpec) material() (physics.Material, error) {
	mat := physics.DefaultMaterial
	if b.Material != "" {
		preset, ok := physics.MaterialByName(b.Material)
		if !ok {
			return mat, fmt.Errorf("unknown material %q", b.Material)
		}
		mat = preset
	}
	if b.Friction != nil {
		mat.Friction = *b.Friction
	}
	if b.Restitution != nil {
		mat.Restitution = *b.Restitution
	}
	if b.Density != nil {
		mat.Density = *b.Density
	}
	if mat.Friction < 0 || mat.Restitution < 0 || mat.Restitution > 1 {
		return mat, fmt.Errorf("material out of range: friction %v, restitution %v", mat.Friction, mat.Restitution)
	}
	return mat, nil
}

func (b *BodySpec) validate() error {
	if _, err := b.bodyType(); err != nil {
		return err
	}
	if _, err := b.material(); err != nil {
		return err
	}
	if _, err := b.Shape.Build(); err != nil {
		return err
	}
	if !finiteVec(b.Position) || !finiteVec(b.Velocity) || !finite(b.Rotation) {
		return errors.New("position, velocity and rotation must be finite")
	}
	if b.Mass < 0 {
		return fmt.Errorf("mass must be >= 0, got %v", b.Mass)
	}
	return nil
}

// Def converts the spec to an engine body definition
func (b *BodySpec) Def() (engine.BodyDef, error) {
	typ, err := b.bodyType()
	if err != nil {
		return engine.BodyDef{}, err
	}
	mat, err := b.material()
	if err != nil {
		return engine.BodyDef{}, err
	}
	s, err := b.Shape.Build()
	if err != nil {
		return engine.BodyDef{}, err
	}
	return engine.BodyDef{
		Type:            typ,
		Shape:           s,
		Transform:       vmath.Transform{Position: b.Position, Rotation: b.Rotation, Scale: b.Scale},
		Mass:            b.Mass,
		Material:        mat,
		Velocity:        b.Velocity,
		AngularVelocity: b.AngularVelocity,
		LinearDamping:   b.LinearDamping,
		AngularDamping:  b.AngularDamping,
		GravityScale:    b.GravityScale,
		IgnoreGravity:   b.IgnoreGravity,
		MaxSpeed:        b.MaxSpeed,
		Bullet:          b.Bullet,
		Sensor:          b.Sensor,
		Category:        b.Category,
		Mask:            b.Mask,
	}, nil
}

// Specs returns the generated layout followed by the explicit bodies
func (s Scene) Specs() ([]BodySpec, error) {
	var specs []BodySpec
	switch strings.ToLower(s.Generator) {
	case "":
	case "pyramid":
		specs = pyramid(s.Count)
	case "rain":
		specs = rain(s.Count, vmath.NewFastRand(s.Seed))
	case "container":
		specs = container(s.Count, vmath.NewFastRand(s.Seed))
	default:
		return nil, fmt.Errorf("%w: unknown scene generator %q", ErrInvalidConfig, s.Generator)
	}
	return append(specs, s.Bodies...), nil
}

// Apply creates every body of the scene in w
// Returns the created entities in scene order, stops at the first failure
func Apply(w *engine.World, s Scene) ([]core.Entity, error) {
	specs, err := s.Specs()
	if err != nil {
		return nil, err
	}

	entities := make([]core.Entity, 0, len(specs))
	for i := range specs {
		def, err := specs[i].Def()
		if err != nil {
			return entities, fmt.Errorf("%w: body %d (%s): %v", ErrInvalidConfig, i, specs[i].Name, err)
		}
		e, err := w.CreateBody(def)
		if err != nil {
			return entities, fmt.Errorf("body %d (%s): %w", i, specs[i].Name, err)
		}
		entities = append(entities, e)
	}
	for i, a := range s.Attractors {
		if err := a.validate(); err != nil {
			return entities, fmt.Errorf("%w: attractor %d: %v", ErrInvalidConfig, i, err)
		}
		w.AddAttractor(physics.Attractor{Center: a.Center, Strength: a.Strength, MinRadius: a.MinRadius})
	}
	return entities, nil
}

// --- Generators ---

func staticBox(name string, x, y, hw, hh float64) BodySpec {
	return BodySpec{
		Name:     name,
		Type:     "static",
		Shape:    ShapeSpec{Kind: "box", HalfWidth: hw, HalfHeight: hh},
		Position: vmath.V2(x, y),
	}
}

func pyramid(count int) []BodySpec {
	specs := []BodySpec{staticBox("ground", 0, -1, 40, 1)}
	levels := int(math.Sqrt(float64(max(count, 1)))) + 1
	const size = 1.0
	y := 0.5 * size
	for level := levels; level > 0; level-- {
		for i := 0; i < level; i++ {
			x := (float64(i) - float64(level-1)/2) * size * 1.05
			specs = append(specs, BodySpec{
				Name:     fmt.Sprintf("crate-%d-%d", level, i),
				Shape:    ShapeSpec{Kind: "box", HalfWidth: size * 0.45, HalfHeight: size * 0.45},
				Position: vmath.V2(x, y),
			})
		}
		y += size * 0.95
	}
	return specs
}

func rain(count int, rng *vmath.FastRand) []BodySpec {
	specs := []BodySpec{
		staticBox("floor", 0, -1, 30, 1),
		staticBox("left", -31, 15, 1, 16),
		staticBox("right", 31, 15, 1, 16),
	}
	for i := 0; i < count; i++ {
		specs = append(specs, randomBody(fmt.Sprintf("drop-%d", i), rng.Range(-25, 25), rng.Range(5, 40), rng))
	}
	return specs
}

func container(count int, rng *vmath.FastRand) []BodySpec {
	specs := []BodySpec{
		staticBox("bottom", 0, -1, 12, 1),
		staticBox("left", -13, 8, 1, 10),
		staticBox("right", 13, 8, 1, 10),
	}
	for i := 0; i < count; i++ {
		specs = append(specs, randomBody(fmt.Sprintf("item-%d", i), rng.Range(-10, 10), rng.Range(2, 16), rng))
	}
	return specs
}

// randomBody mixes circles, boxes and triangles
func randomBody(name string, x, y float64, rng *vmath.FastRand) BodySpec {
	spec := BodySpec{Name: name, Position: vmath.V2(x, y), Rotation: rng.Range(0, 2*math.Pi)}
	switch rng.Intn(3) {
	case 0:
		spec.Shape = ShapeSpec{Kind: "circle", Radius: rng.Range(0.3, 0.8)}
		spec.Material = "rubber"
	case 1:
		spec.Shape = ShapeSpec{Kind: "box", HalfWidth: rng.Range(0.3, 0.8), HalfHeight: rng.Range(0.3, 0.8)}
		spec.Material = "wood"
	default:
		r := rng.Range(0.4, 0.9)
		spec.Shape = ShapeSpec{Kind: "polygon", Vertices: []vmath.Vec2{
			vmath.V2(r, 0),
			vmath.V2(-0.5*r, 0.866*r),
			vmath.V2(-0.5*r, -0.866*r),
		}}
		spec.Material = "steel"
	}
	return spec
}
