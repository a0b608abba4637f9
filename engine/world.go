// Package engine owns the physics world: the entity arena, the fixed step
// pipeline (forces, broad phase, narrow phase, resolution, integration,
// events) and the queries issued between steps.
//
// The world is single-threaded. Step must not be called concurrently or from
// inside a contact listener; queries are read-only and may run between steps.
package engine

import (
	"fmt"
	"math"
	"slices"

	"github.com/lixenwraith/planar/collision"
	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/event"
	"github.com/lixenwraith/planar/log"
	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/physics"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

// Config tunes one World
type Config struct {
	Gravity vmath.Vec2

	VelocityIterations   int
	CorrectionPercent    float64
	Slop                 float64
	RestitutionThreshold float64

	CellSize         float64
	GJKMaxIterations int
	// FastPaths enables the closed-form and SAT narrow phase, false routes every pair through GJK/EPA
	FastPaths bool
	// Debug logs per-step statistics
	Debug bool
}

// DefaultConfig returns earth-like gravity (y up) and the default solver tuning
func DefaultConfig() Config {
	return Config{
		Gravity:              vmath.V2(0, parameter.DefaultGravityY),
		VelocityIterations:   parameter.VelocityIterations,
		CorrectionPercent:    parameter.PositionCorrectionPercent,
		Slop:                 parameter.PenetrationSlop,
		RestitutionThreshold: parameter.RestitutionThreshold,
		CellSize:             parameter.GridCellSize,
		GJKMaxIterations:     parameter.GJKMaxIterations,
		FastPaths:            true,
	}
}

// BodyDef describes a body to create
type BodyDef struct {
	Type      physics.BodyType
	Shape     shape.Shape
	Transform vmath.Transform
	// Mass of a dynamic body, 0 derives it from Material.Density and the shape area
	Mass float64
	// Material defaults to physics.DefaultMaterial when left zero
	Material physics.Material

	Velocity        vmath.Vec2
	AngularVelocity float64
	LinearDamping   float64
	AngularDamping  float64
	// GravityScale multiplies world gravity, 0 means 1 unless IgnoreGravity is set
	GravityScale  float64
	IgnoreGravity bool
	MaxSpeed      float64
	Bullet        bool

	Sensor bool
	// Category and Mask default to DefaultCategory and MaskAll when zero
	Category uint32
	Mask     uint32
}

// StepResult reports one Step
type StepResult struct {
	Step uint64
	// Pairs is the broad phase candidate count
	Pairs int
	// Manifolds holds every positive narrow phase result, ordered by entity pair
	Manifolds []collision.Manifold
	// Contacts is the number of manifolds sent to the resolver (sensors excluded)
	Contacts  int
	Destroyed []core.Entity
}

// World is the arena of bodies, colliders and transforms
type World struct {
	config   Config
	logger   log.Log
	detector *collision.Detector
	resolver *physics.Resolver
	grid     *SpatialGrid
	events   *event.EventQueue
	listener func(event.Event)

	next       core.Entity
	transforms *Store[*vmath.Transform]
	bodies     *Store[*physics.Body]
	colliders  *Store[*Collider]

	stepping bool
	step     uint64
	doomed   map[core.Entity]struct{}
	pending  []core.Entity
	// touching holds last step's overlapping pairs (value: sensor) for begin/end events
	touching map[core.PairKey]bool

	attractors []physics.Attractor
	homing     map[core.Entity]*homing
}

// Option configures a World
type Option func(*World)

// WithLogger sets the world logger, also used by the detector
func WithLogger(l log.Log) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithEventQueue replaces the world's own queue, nil disables queued events
func WithEventQueue(q *event.EventQueue) Option {
	return func(w *World) { w.events = q }
}

// WithContactListener registers fn for every event as it is produced during Step
// fn may call Destroy (deferred to end of step) but not Step
func WithContactListener(fn func(event.Event)) Option {
	return func(w *World) { w.listener = fn }
}

// NewWorld creates an empty world
func NewWorld(cfg Config, opts ...Option) *World {
	w := &World{
		config:     cfg,
		logger:     log.Nop(),
		grid:       NewSpatialGrid(cfg.CellSize),
		events:     event.NewEventQueue(),
		next:       core.NoEntity,
		transforms: NewStore[*vmath.Transform](),
		bodies:     NewStore[*physics.Body](),
		colliders:  NewStore[*Collider](),
		doomed:     make(map[core.Entity]struct{}),
		touching:   make(map[core.PairKey]bool),
		homing:     make(map[core.Entity]*homing),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.detector = collision.NewDetector(
		collision.WithLogger(w.logger),
		collision.WithFastPaths(cfg.FastPaths),
		collision.WithMaxIterations(cfg.GJKMaxIterations),
	)
	w.resolver = physics.NewResolver()
	if cfg.VelocityIterations > 0 {
		w.resolver.VelocityIterations = cfg.VelocityIterations
	}
	if cfg.CorrectionPercent > 0 {
		w.resolver.CorrectionPercent = cfg.CorrectionPercent
	}
	if cfg.Slop > 0 {
		w.resolver.Slop = cfg.Slop
	}
	if cfg.RestitutionThreshold > 0 {
		w.resolver.RestitutionThreshold = cfg.RestitutionThreshold
	}
	return w
}

// Config returns the world configuration
func (w *World) Config() Config {
	return w.config
}

// SetGravity replaces world gravity
func (w *World) SetGravity(g vmath.Vec2) {
	w.config.Gravity = g
}

// Events returns the event queue, nil only if disabled with WithEventQueue(nil)
func (w *World) Events() *event.EventQueue {
	return w.events
}

// DetectorStats returns narrow phase counters since creation
func (w *World) DetectorStats() collision.Stats {
	return w.detector.Stats()
}

// StepCount returns the number of completed steps
func (w *World) StepCount() uint64 {
	return w.step
}

// CreateBody validates def and adds a body, collider and transform under a new entity
func (w *World) CreateBody(def BodyDef) (core.Entity, error) {
	if def.Shape == nil {
		return core.NoEntity, ErrMissingShape
	}

	mat := def.Material
	if mat == (physics.Material{}) {
		mat = physics.DefaultMaterial
	}

	xf := def.Transform
	if xf.Scale == (vmath.Vec2{}) {
		xf.Scale = vmath.V2(1, 1)
	}

	// Mass properties come from the shape at the entity's scale
	scaled := def.Shape.Transform(vmath.Transform{Scale: xf.Scale})

	var body *physics.Body
	var err error
	switch def.Type {
	case physics.Static:
		body = physics.NewStatic(scaled)
	case physics.Dynamic:
		if def.Mass != 0 {
			body, err = physics.NewDynamic(scaled, def.Mass)
		} else {
			body, err = physics.NewDynamicDensity(scaled, mat.Density)
		}
	default:
		err = fmt.Errorf("%w: unknown body type %d", physics.ErrInvalidMass, def.Type)
	}
	if err != nil {
		w.logger.Error("body creation failed", log.String("shape", def.Shape.Kind().String()), log.Err(err))
		return core.NoEntity, err
	}
	body.LocalCenter = def.Shape.Centroid()

	if !body.IsStatic() {
		body.Velocity = def.Velocity
		body.AngularVelocity = def.AngularVelocity
		body.LinearDamping = def.LinearDamping
		body.AngularDamping = def.AngularDamping
		body.MaxSpeed = def.MaxSpeed
		body.Bullet = def.Bullet
		switch {
		case def.IgnoreGravity:
			body.GravityScale = 0
		case def.GravityScale != 0:
			body.GravityScale = def.GravityScale
		}
	}
	body.Sync(xf)

	col := &Collider{
		Shape:    def.Shape,
		Material: mat,
		Category: def.Category,
		Mask:     def.Mask,
		Sensor:   def.Sensor,
	}
	if col.Category == 0 {
		col.Category = DefaultCategory
	}
	if col.Mask == 0 {
		col.Mask = MaskAll
	}

	w.next++
	e := w.next
	col.Owner = e
	w.transforms.Set(e, &xf)
	w.bodies.Set(e, body)
	w.colliders.Set(e, col)

	w.logger.Debug("body created",
		log.Uint64("entity", uint64(e)),
		log.String("type", body.Type.String()),
		log.String("shape", def.Shape.Kind().String()),
		log.Float64("mass", body.Mass),
	)
	return e, nil
}

// Destroy removes e; during a step the removal is deferred to the end of the step
func (w *World) Destroy(e core.Entity) error {
	if !w.bodies.Has(e) {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, e)
	}
	if _, already := w.doomed[e]; already {
		return nil
	}
	w.doomed[e] = struct{}{}
	w.pending = append(w.pending, e)
	if !w.stepping {
		w.flushDestroyed()
	}
	return nil
}

// flushDestroyed applies deferred destruction and returns the removed entities
func (w *World) flushDestroyed() []core.Entity {
	if len(w.pending) == 0 {
		return nil
	}
	removed := w.pending
	w.pending = nil

	w.transforms.RemoveBatch(removed)
	w.bodies.RemoveBatch(removed)
	w.colliders.RemoveBatch(removed)
	for k := range w.touching {
		for _, e := range removed {
			if k.Contains(e) {
				delete(w.touching, k)
				break
			}
		}
	}
	for _, e := range removed {
		delete(w.doomed, e)
		delete(w.homing, e)
		w.emit(event.Event{Type: event.EventBodyDestroyed, Step: w.step, A: e})
		w.logger.Debug("body destroyed", log.Uint64("entity", uint64(e)), log.Uint64("step", w.step))
	}
	return removed
}

// Alive reports whether e exists and is not pending destruction
func (w *World) Alive(e core.Entity) bool {
	if _, gone := w.doomed[e]; gone {
		return false
	}
	return w.bodies.Has(e)
}

// Len returns the number of bodies
func (w *World) Len() int {
	return w.bodies.Len()
}

// Entities returns every entity in ascending handle order
func (w *World) Entities() []core.Entity {
	out := w.bodies.All()
	slices.Sort(out)
	return out
}

// Body returns the rigid body of e for force application
func (w *World) Body(e core.Entity) (*physics.Body, bool) {
	return w.bodies.Get(e)
}

// Collider returns the collider of e
func (w *World) Collider(e core.Entity) (*Collider, bool) {
	return w.colliders.Get(e)
}

// Transform returns a copy of the transform of e
func (w *World) Transform(e core.Entity) (vmath.Transform, bool) {
	xf, ok := w.transforms.Get(e)
	if !ok {
		return vmath.Transform{}, false
	}
	return *xf, true
}

// SetTransform teleports e, velocities are kept
func (w *World) SetTransform(e core.Entity, xf vmath.Transform) error {
	cur, ok := w.transforms.Get(e)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, e)
	}
	if xf.Scale == (vmath.Vec2{}) {
		xf.Scale = cur.Scale
	}
	*cur = xf
	if b, ok := w.bodies.Get(e); ok {
		b.Sync(xf)
	}
	return nil
}

// WorldShape returns the collider shape of e placed by its current transform
func (w *World) WorldShape(e core.Entity) (shape.Shape, bool) {
	c, ok := w.colliders.Get(e)
	if !ok {
		return nil, false
	}
	xf, _ := w.transforms.Get(e)
	return c.Shape.Transform(*xf), true
}

// Step advances the world by dt seconds
// Order: gravity, force integration, broad phase, narrow phase, impulses,
// position correction, velocity integration, events, deferred destruction
func (w *World) Step(dt float64) (StepResult, error) {
	if w.stepping {
		return StepResult{}, ErrStepInProgress
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return StepResult{}, fmt.Errorf("%w: got %v", ErrInvalidTimestep, dt)
	}
	w.stepping = true
	defer func() { w.stepping = false }()

	w.step++
	entities := w.bodies.All()

	// Forces into velocity
	for _, e := range entities {
		b, _ := w.bodies.Get(e)
		xf, _ := w.transforms.Get(e)
		b.Sync(*xf)
		if !b.IsStatic() && b.GravityScale != 0 {
			b.AddForce(w.config.Gravity.Mul(b.Mass * b.GravityScale))
		}
		w.applyFields(e, b)
		b.IntegrateForce(dt)
	}

	// Broad phase
	w.grid.Clear()
	shapes := make(map[core.Entity]shape.Shape, len(entities))
	for _, e := range entities {
		c, _ := w.colliders.Get(e)
		b, _ := w.bodies.Get(e)
		xf, _ := w.transforms.Get(e)
		ws := c.Shape.Transform(*xf)
		shapes[e] = ws

		box := ws.Bounds()
		if b.Bullet && !b.IsStatic() {
			box = box.Sweep(b.Velocity.Mul(dt))
		}
		w.grid.Insert(e, box)
	}
	pairs := w.grid.Pairs()

	// Narrow phase into the per-step pair map
	manifolds := make(map[core.PairKey]collision.Manifold, len(pairs))
	for _, k := range pairs {
		if m, ok := w.narrow(k, shapes, dt); ok {
			manifolds[k] = m
		}
	}

	// Resolution
	contacts := make([]physics.Contact, 0, len(manifolds))
	contactIndex := make(map[core.PairKey]int, len(manifolds))
	ordered := make([]collision.Manifold, 0, len(manifolds))
	for _, k := range pairs {
		m, ok := manifolds[k]
		if !ok {
			continue
		}
		ordered = append(ordered, m)

		ca, _ := w.colliders.Get(m.A)
		cb, _ := w.colliders.Get(m.B)
		if ca.Sensor || cb.Sensor {
			continue
		}
		friction, restitution := physics.MixMaterials(ca.Material, cb.Material)
		ba, _ := w.bodies.Get(m.A)
		bb, _ := w.bodies.Get(m.B)
		xa, _ := w.transforms.Get(m.A)
		xb, _ := w.transforms.Get(m.B)
		contactIndex[k] = len(contacts)
		contacts = append(contacts, physics.Contact{
			Manifold:    m,
			A:           ba,
			B:           bb,
			XfA:         xa,
			XfB:         xb,
			Friction:    friction,
			Restitution: restitution,
		})
	}
	w.resolver.Resolve(contacts, dt)
	w.resolver.CorrectPositions(contacts)

	// Velocity into position
	for _, e := range entities {
		b, _ := w.bodies.Get(e)
		xf, _ := w.transforms.Get(e)
		b.IntegrateVelocity(xf, dt)
	}

	w.emitContacts(pairs, manifolds, contacts, contactIndex)
	destroyed := w.flushDestroyed()

	res := StepResult{
		Step:      w.step,
		Pairs:     len(pairs),
		Manifolds: ordered,
		Contacts:  len(contacts),
		Destroyed: destroyed,
	}
	if w.config.Debug {
		stats := w.detector.Stats()
		w.logger.Debug("step",
			log.Uint64("step", w.step),
			log.Int("bodies", len(entities)),
			log.Int("pairs", res.Pairs),
			log.Int("manifolds", len(res.Manifolds)),
			log.Int("contacts", res.Contacts),
			log.Uint64("gjk_cap_hits", stats.CapHits),
		)
	}
	return res, nil
}

// narrow filters one candidate pair and runs the detector on it
func (w *World) narrow(k core.PairKey, shapes map[core.Entity]shape.Shape, dt float64) (collision.Manifold, bool) {
	if !w.Alive(k.Lo) || !w.Alive(k.Hi) {
		return collision.Manifold{}, false
	}
	ca, _ := w.colliders.Get(k.Lo)
	cb, _ := w.colliders.Get(k.Hi)
	ba, _ := w.bodies.Get(k.Lo)
	bb, _ := w.bodies.Get(k.Hi)

	if ba.IsStatic() && bb.IsStatic() {
		return collision.Manifold{}, false
	}
	if !ca.Accepts(cb) {
		return collision.Manifold{}, false
	}

	sa, sb := shapes[k.Lo], shapes[k.Hi]
	sensor := ca.Sensor || cb.Sensor
	switch {
	case !sensor && ba.Bullet && !ba.IsStatic() && bb.IsStatic():
		return w.detector.DetectSwept(k.Lo, sa, ba.Velocity.Mul(dt), k.Hi, sb)
	case !sensor && bb.Bullet && !bb.IsStatic() && ba.IsStatic():
		return w.detector.DetectSwept(k.Hi, sb, bb.Velocity.Mul(dt), k.Lo, sa)
	}
	return w.detector.Detect(k.Lo, sa, k.Hi, sb)
}

// emitContacts turns this step's overlaps into begin/persist/end events
func (w *World) emitContacts(pairs []core.PairKey, manifolds map[core.PairKey]collision.Manifold, contacts []physics.Contact, index map[core.PairKey]int) {
	current := make(map[core.PairKey]bool, len(manifolds))

	for _, k := range pairs {
		m, ok := manifolds[k]
		if !ok {
			continue
		}
		ca, _ := w.colliders.Get(m.A)
		cb, _ := w.colliders.Get(m.B)
		sensor := ca.Sensor || cb.Sensor
		current[k] = sensor

		_, was := w.touching[k]
		ev := event.Event{
			Step:   w.step,
			A:      m.A,
			B:      m.B,
			Normal: m.Normal,
			Depth:  m.Depth,
		}
		if m.Count > 0 {
			ev.Point = m.Points[0]
		}

		switch {
		case sensor && was:
			continue
		case sensor:
			ev.Type = event.EventSensorBegin
		case was:
			ev.Type = event.EventContactPersist
		default:
			ev.Type = event.EventContactBegin
		}
		if i, ok := index[k]; ok {
			ev.NormalImpulse = contacts[i].NormalImpulse()
			ev.TangentImpulse = contacts[i].TangentImpulse()
		}
		w.emit(ev)
	}

	ended := make([]core.PairKey, 0)
	for k := range w.touching {
		if _, still := current[k]; !still {
			ended = append(ended, k)
		}
	}
	slices.SortFunc(ended, comparePairs)
	for _, k := range ended {
		typ := event.EventContactEnd
		if w.touching[k] {
			typ = event.EventSensorEnd
		}
		w.emit(event.Event{Type: typ, Step: w.step, A: k.Lo, B: k.Hi})
	}

	w.touching = current
}

func (w *World) emit(ev event.Event) {
	if w.events != nil {
		w.events.Push(ev)
	}
	if w.listener != nil {
		w.listener(ev)
	}
}
