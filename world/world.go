// Package world implements the obstacle world wrapper: ID allocation, the
// bidirectional obstacle/ID registry, the ownership lease map, joint
// lifecycle, garbage collection, and the thin step pump over the black-box
// 2D solver.
package world

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"netphys/internal/assert"
	"netphys/obstacle"
	"netphys/physics2d"
)

// LinkFunc attaches a renderable node to a newly created obstacle. UnlinkFunc
// detaches it again on obstacle deletion. Both are optional render hooks;
// World calls them synchronously and never otherwise touches rendering.
type LinkFunc func(id obstacle.ID, o *obstacle.Obstacle)
type UnlinkFunc func(id obstacle.ID)

// JointDef is an opaque joint definition: the world stores it keyed by
// Joint ID but does not interpret its contents, since the underlying
// solver's joint types are outside this module's scope.
type JointDef struct {
	BodyA, BodyB obstacle.ID
	Params       []byte
}

// World owns the obstacle registry for one peer's view of the shared
// simulation. It is not safe for concurrent use; the host application must
// only touch it from inside the fixed tick (see the session package).
type World struct {
	engine   physics2d.Engine
	bounds   physics2d.AABB
	shortUID uint32
	isHost   bool
	logger   *log.Logger

	order    []obstacle.ID
	byID     map[obstacle.ID]*obstacle.Obstacle
	handles  map[obstacle.ID]physics2d.Handle
	owned    map[obstacle.ID]uint64
	joints   map[obstacle.JointID]JointDef

	nextObj   uint32
	nextJoint uint32

	link   LinkFunc
	unlink UnlinkFunc
}

// New returns an empty World bound to engine, with obstacles constrained to
// bounds. shortUID is this peer's assigned short UID (0 before handshake,
// in which case only AddInitObstacle may be used).
func New(engine physics2d.Engine, bounds physics2d.AABB, shortUID uint32, isHost bool, logger *log.Logger) *World {
	if logger == nil {
		logger = log.Default()
	}
	return &World{
		engine:   engine,
		bounds:   bounds,
		shortUID: shortUID,
		isHost:   isHost,
		logger:   logger,
		byID:     make(map[obstacle.ID]*obstacle.Obstacle),
		handles:  make(map[obstacle.ID]physics2d.Handle),
		owned:    make(map[obstacle.ID]uint64),
		joints:   make(map[obstacle.JointID]JointDef),
	}
}

// SetShortUID records the short UID assigned during handshake, unblocking
// AddObstacle for non-init obstacles.
func (w *World) SetShortUID(uid uint32) {
	w.shortUID = uid
}

// SetLinkHooks installs the optional renderer-link/unlink callbacks.
func (w *World) SetLinkHooks(link LinkFunc, unlink UnlinkFunc) {
	w.link = link
	w.unlink = unlink
}

func (w *World) inBounds(p obstacle.Obstacle) bool {
	pos := p.Position
	return pos.X() >= w.bounds.Min.X() && pos.X() <= w.bounds.Max.X() &&
		pos.Y() >= w.bounds.Min.Y() && pos.Y() <= w.bounds.Max.Y()
}

// AddObstacle allocates a fresh ID under this peer's short UID and inserts
// o. If this peer is host, o is also recorded in the permanent-lease owned
// map. The body must lie within world bounds.
func (w *World) AddObstacle(o *obstacle.Obstacle) obstacle.ID {
	assert.That(w.shortUID != 0, "AddObstacle: called before a short UID was assigned; use AddInitObstacle before handshake")
	assert.That(w.inBounds(*o), "AddObstacle: obstacle at (%v) lies outside world bounds", o.Position)
	id := obstacle.MakeID(w.shortUID, w.nextObj)
	w.nextObj++
	w.insert(id, o)
	if w.isHost {
		w.owned[id] = 0
	}
	return id
}

// AddObstacleWithID inserts o under an externally supplied ID, used by the
// synchronizer when applying an inbound OBJ_CREATION. Duplicate IDs are a
// precondition violation.
func (w *World) AddObstacleWithID(o *obstacle.Obstacle, id obstacle.ID) {
	_, exists := w.byID[id]
	assert.That(!exists, "AddObstacleWithID: id %#x already present", uint64(id))
	w.insert(id, o)
}

// AddInitObstacle is AddObstacle's pre-handshake counterpart: it stamps the
// reserved upper half 0xFFFFFFFF instead of this peer's short UID, for
// bootstrapping scene content before a short UID has been assigned.
func (w *World) AddInitObstacle(o *obstacle.Obstacle) obstacle.ID {
	assert.That(w.inBounds(*o), "AddInitObstacle: obstacle at (%v) lies outside world bounds", o.Position)
	id := obstacle.MakeID(obstacle.InitShortUID, w.nextObj)
	w.nextObj++
	w.insert(id, o)
	return id
}

func (w *World) insert(id obstacle.ID, o *obstacle.Obstacle) {
	w.order = append(w.order, id)
	w.byID[id] = o
	handle := w.engine.CreateBody(physics2d.BodySpec{
		Position: o.Position,
		Angle:    o.Angle,
		Density:  o.Floats.Density,
		Friction: o.Floats.Friction,
	})
	w.handles[id] = handle
	if w.link != nil {
		w.link(id, o)
	}
}

// Get returns the obstacle registered under id, if any.
func (w *World) Get(id obstacle.ID) (*obstacle.Obstacle, bool) {
	o, ok := w.byID[id]
	return o, ok
}

// IDOf returns the ID an obstacle was registered under, if it is present.
func (w *World) IDOf(target *obstacle.Obstacle) (obstacle.ID, bool) {
	for id, o := range w.byID {
		if o == target {
			return id, true
		}
	}
	return 0, false
}

// All returns the obstacle list in insertion order, skipping IDs previously
// dropped by RemoveObstacle or GarbageCollect.
func (w *World) All() []obstacle.ID {
	out := make([]obstacle.ID, len(w.order))
	copy(out, w.order)
	return out
}

// Owned reports the remaining lease on id and whether this peer owns it at
// all. A remaining value of 0 with ok==true means a permanent lease.
func (w *World) Owned(id obstacle.ID) (remaining uint64, ok bool) {
	remaining, ok = w.owned[id]
	return
}

// SetOwned records id as owned with the given lease (0 = permanent).
func (w *World) SetOwned(id obstacle.ID, lease uint64) {
	w.owned[id] = lease
}

// ClearOwned drops id from the owned map.
func (w *World) ClearOwned(id obstacle.ID) {
	delete(w.owned, id)
}

// OwnedIDs returns the IDs currently recorded in this peer's owned map, in
// no particular order.
func (w *World) OwnedIDs() []obstacle.ID {
	out := make([]obstacle.ID, 0, len(w.owned))
	for id := range w.owned {
		out = append(out, id)
	}
	return out
}

// SetState pushes kinematic state into both the obstacle record and the
// underlying solver handle. Used by the synchronizer when applying a remote
// update or advancing an interpolation step; absence of id is a no-op so
// callers don't need to pre-check after a delete raced with an inbound
// event.
func (w *World) SetState(id obstacle.ID, s physics2d.BodyState) {
	o, ok := w.byID[id]
	if !ok {
		return
	}
	o.SetPosition(s.Position)
	o.SetAngle(s.Angle)
	o.SetLinearVelocity(s.LinearVel)
	o.SetAngularVelocity(s.AngularVel)
	if h, ok := w.handles[id]; ok {
		w.engine.SetState(h, s)
	}
}

// RemoveObstacle immediately deactivates and removes o. Absence is a
// precondition violation; for batch removal use MarkRemoved + GarbageCollect
// instead.
func (w *World) RemoveObstacle(id obstacle.ID) {
	_, exists := w.byID[id]
	assert.That(exists, "RemoveObstacle: id %#x not present", uint64(id))
	w.drop(id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

func (w *World) drop(id obstacle.ID) {
	if handle, ok := w.handles[id]; ok {
		w.engine.DestroyBody(handle)
		delete(w.handles, id)
	}
	delete(w.byID, id)
	delete(w.owned, id)
	if w.unlink != nil {
		w.unlink(id)
	}
}

// GarbageCollect makes a single pass removing every obstacle marked
// Removed, compacting the order list while preserving relative order of
// survivors.
func (w *World) GarbageCollect() {
	survivors := w.order[:0]
	for _, id := range w.order {
		o, ok := w.byID[id]
		if !ok {
			continue
		}
		if o.Removed {
			w.drop(id)
			continue
		}
		survivors = append(survivors, id)
	}
	w.order = survivors
}

// AddJoint stores def under a freshly allocated Joint ID.
func (w *World) AddJoint(def JointDef) obstacle.JointID {
	id := obstacle.MakeJointID(w.shortUID, w.nextJoint)
	w.nextJoint++
	w.joints[id] = def
	return id
}

// AddJointWithID stores def under an externally supplied Joint ID.
// Duplicate IDs are a precondition violation.
func (w *World) AddJointWithID(def JointDef, id obstacle.JointID) {
	_, exists := w.joints[id]
	assert.That(!exists, "AddJointWithID: joint id %#x already present", uint64(id))
	w.joints[id] = def
}

// GetJoint returns the definition stored under id, if any.
func (w *World) GetJoint(id obstacle.JointID) (JointDef, bool) {
	def, ok := w.joints[id]
	return def, ok
}

// RemoveJoint drops id from the joint registry. Absence is a no-op.
func (w *World) RemoveJoint(id obstacle.JointID) {
	delete(w.joints, id)
}

// RemoveJointSet removes every joint referencing body, used when an
// obstacle carrying attached joints is deleted.
func (w *World) RemoveJointSet(body obstacle.ID) {
	for id, def := range w.joints {
		if def.BodyA == body || def.BodyB == body {
			delete(w.joints, id)
		}
	}
}

// Clear destroys every joint, then every obstacle, drops all bookkeeping
// maps, and runs a zero-step update.
func (w *World) Clear() {
	for id := range w.joints {
		delete(w.joints, id)
	}
	for _, id := range w.order {
		w.drop(id)
	}
	w.order = nil
	w.Update(0)
}

// Update steps the underlying solver by dt and then lets every live
// obstacle refresh its cached state from the engine.
func (w *World) Update(dt float32) {
	w.engine.Step(dt)
	for _, id := range w.order {
		o, ok := w.byID[id]
		if !ok {
			continue
		}
		handle, ok := w.handles[id]
		if !ok {
			continue
		}
		state := w.engine.State(handle)
		o.Position = state.Position
		o.Angle = state.Angle
		o.LinearVel = state.LinearVel
		o.AngularVel = state.AngularVel
	}
}

// QueryAABB is a thin wrapper over the solver's AABB query.
func (w *World) QueryAABB(cb physics2d.QueryCallback, rect physics2d.AABB) {
	w.engine.QueryAABB(cb, rect)
}

// RayCast is a thin wrapper over the solver's ray cast.
func (w *World) RayCast(cb physics2d.RayCastCallback, p1, p2 mgl32.Vec2) {
	w.engine.RayCast(cb, p1, p2)
}
