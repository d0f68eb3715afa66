// Package obstacle defines the rigid-body record shared across the
// session, world, and synchronizer packages. An Obstacle carries its own
// kinematic state and a set of dirty bits that public mutators set when the
// obstacle is marked shared; the synchronizer reads and clears them once
// per tick.
package obstacle

import "github.com/go-gl/mathgl/mgl32"

// BodyType mirrors the three body kinds a 2D rigid-body solver exposes.
type BodyType uint32

const (
	BodyStatic BodyType = iota
	BodyKinematic
	BodyDynamic
)

// BoolConsts bundles the six boolean flags replicated by OBJ_BOOL_CONSTS.
type BoolConsts struct {
	Enabled       bool
	Awake         bool
	SleepAllowed  bool
	FixedRotation bool
	Bullet        bool
	Sensor        bool
}

// FloatConsts bundles the ten float parameters replicated by
// OBJ_FLOAT_CONSTS.
type FloatConsts struct {
	Density        float32
	Friction       float32
	Restitution    float32
	LinearDamping  float32
	AngularDamping float32
	GravityScale   float32
	Mass           float32
	Inertia        float32
	CentroidX      float32
	CentroidY      float32
}

// Dirty is the set of per-field mutation markers the synchronizer clears
// each tick after packing object-delta events.
type Dirty struct {
	Position    bool
	Angle       bool
	LinearVel   bool
	AngularVel  bool
	BodyType    bool
	BoolConsts  bool
	FloatConsts bool
	Removed     bool
}

// Any reports whether at least one dirty flag is set.
func (d Dirty) Any() bool {
	return d.Position || d.Angle || d.LinearVel || d.AngularVel ||
		d.BodyType || d.BoolConsts || d.FloatConsts || d.Removed
}

// Clear resets every dirty flag to false.
func (d *Dirty) Clear() {
	*d = Dirty{}
}

// Obstacle is a rigid body plus the bookkeeping the networked physics core
// needs: a shared flag gating dirty-bit generation, and the dirty flags
// themselves. The underlying 2D solver is a black box; Obstacle only holds
// the state that gets replicated.
type Obstacle struct {
	Position      mgl32.Vec2
	Angle         float32
	LinearVel     mgl32.Vec2
	AngularVel    float32
	Type          BodyType
	Bools         BoolConsts
	Floats        FloatConsts
	Removed       bool

	// Shared marks this obstacle for network replication. While true,
	// public mutators set dirty bits. The synchronizer clears Shared for
	// the duration of its own writes so that applying a remote update does
	// not re-dirty the obstacle it just applied.
	Shared bool

	dirty Dirty
}

// NewObstacle returns an obstacle with sensible solver defaults (enabled,
// awake, sleep-allowed) and Shared set to false.
func NewObstacle(bodyType BodyType, position mgl32.Vec2) *Obstacle {
	return &Obstacle{
		Position: position,
		Type:     bodyType,
		Bools: BoolConsts{
			Enabled:      true,
			Awake:        true,
			SleepAllowed: true,
		},
	}
}

// Dirty returns a copy of the current dirty-flag set.
func (o *Obstacle) Dirty() Dirty {
	return o.dirty
}

// ClearDirty clears every dirty flag. Called by the synchronizer once per
// tick after packing object events.
func (o *Obstacle) ClearDirty() {
	o.dirty.Clear()
}

func (o *Obstacle) mark(set func(*Dirty)) {
	if o.Shared {
		set(&o.dirty)
	}
}

// SetPosition updates position and, if shared, marks it dirty.
func (o *Obstacle) SetPosition(p mgl32.Vec2) {
	o.Position = p
	o.mark(func(d *Dirty) { d.Position = true })
}

// SetAngle updates angle and, if shared, marks it dirty.
func (o *Obstacle) SetAngle(a float32) {
	o.Angle = a
	o.mark(func(d *Dirty) { d.Angle = true })
}

// SetLinearVelocity updates linear velocity and, if shared, marks it dirty.
func (o *Obstacle) SetLinearVelocity(v mgl32.Vec2) {
	o.LinearVel = v
	o.mark(func(d *Dirty) { d.LinearVel = true })
}

// SetAngularVelocity updates angular velocity and, if shared, marks it
// dirty.
func (o *Obstacle) SetAngularVelocity(v float32) {
	o.AngularVel = v
	o.mark(func(d *Dirty) { d.AngularVel = true })
}

// SetBodyType updates the body type and, if shared, marks it dirty.
func (o *Obstacle) SetBodyType(t BodyType) {
	o.Type = t
	o.mark(func(d *Dirty) { d.BodyType = true })
}

// SetBoolConsts updates the boolean parameter set and, if shared, marks it
// dirty.
func (o *Obstacle) SetBoolConsts(b BoolConsts) {
	o.Bools = b
	o.mark(func(d *Dirty) { d.BoolConsts = true })
}

// SetFloatConsts updates the float parameter set and, if shared, marks it
// dirty.
func (o *Obstacle) SetFloatConsts(f FloatConsts) {
	o.Floats = f
	o.mark(func(d *Dirty) { d.FloatConsts = true })
}

// MarkRemoved flags the obstacle for removal on the next garbage collect
// pass and, if shared, marks the removed bit dirty so peers learn of the
// deletion.
func (o *Obstacle) MarkRemoved(removed bool) {
	o.Removed = removed
	o.mark(func(d *Dirty) { d.Removed = true })
}

// Speed returns the magnitude of the linear velocity, used by the
// synchronizer's priority-sync ranking.
func (o *Obstacle) Speed() float32 {
	return o.LinearVel.Len()
}
