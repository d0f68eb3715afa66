package netsync

import (
	"github.com/go-gl/mathgl/mgl32"

	"netphys/netevent"
	"netphys/obstacle"
	"netphys/physics2d"
)

// AddSharedObstacle builds an obstacle via factories, marks it shared,
// inserts it into the world (the host becomes its owner, per World's own
// host-default-ownership rule), and queues OBJ_CREATION.
func (s *Synchronizer) AddSharedObstacle(factoryID uint32, params []byte) obstacle.ID {
	o, node := s.factories.Create(factoryID, params)
	o.Shared = true
	id := s.world.AddObstacle(o)
	if node != nil && s.linkNode != nil {
		s.linkNode(id, node)
	}
	s.queue(&netevent.PhysObjEvent{Subtype: netevent.ObjCreation, ObjID: uint64(id), FactoryID: factoryID, PackedParams: params})
	return id
}

// RemoveSharedObstacle tears down id's joints and interpolation cache
// entry, removes it from the world, and queues OBJ_DELETION.
func (s *Synchronizer) RemoveSharedObstacle(id obstacle.ID) {
	delete(s.interp, id)
	s.world.RemoveJointSet(id)
	s.world.RemoveObstacle(id)
	if s.unlinkNode != nil {
		s.unlinkNode(id)
	}
	s.queue(&netevent.PhysObjEvent{Subtype: netevent.ObjDeletion, ObjID: uint64(id)})
}

// AcquireObs records id as owned — with a finite lease if this peer is a
// client, permanent if host — and queues OBJ_OWNER_ACQUIRE.
func (s *Synchronizer) AcquireObs(id obstacle.ID, duration uint64) {
	if s.isHost {
		s.world.SetOwned(id, 0)
	} else {
		s.world.SetOwned(id, duration)
	}
	s.queue(&netevent.PhysObjEvent{Subtype: netevent.ObjOwnerAcquire, ObjID: uint64(id), AcquireDuration: duration})
}

// ReleaseObs drops id from the owned map and queues OBJ_OWNER_RELEASE. A
// client calls this directly; the fixed update also calls it on lease
// expiry regardless of role, though only a client ever holds a finite
// lease in the first place.
func (s *Synchronizer) ReleaseObs(id obstacle.ID) {
	s.world.ClearOwned(id)
	s.queue(&netevent.PhysObjEvent{Subtype: netevent.ObjOwnerRelease, ObjID: uint64(id)})
}

// HandleObjEvent applies an inbound PhysObjEvent per subtype.
func (s *Synchronizer) HandleObjEvent(e *netevent.PhysObjEvent) {
	if e.IsEcho() {
		return
	}
	id := obstacle.ID(e.ObjID)

	switch e.Subtype {
	case netevent.ObjCreation:
		o, node := s.factories.Create(e.FactoryID, e.PackedParams)
		o.Shared = true
		s.world.AddObstacleWithID(o, id)
		if s.isHost {
			s.world.SetOwned(id, 0)
		}
		if node != nil && s.linkNode != nil {
			s.linkNode(id, node)
		}
		return
	case netevent.ObjDeletion:
		delete(s.interp, id)
		if _, ok := s.world.Get(id); ok {
			s.world.RemoveJointSet(id)
			s.world.RemoveObstacle(id)
		}
		if s.unlinkNode != nil {
			s.unlinkNode(id)
		}
		return
	}

	o, ok := s.world.Get(id)
	if !ok {
		return
	}

	switch e.Subtype {
	case netevent.ObjOwnerAcquire:
		if s.isHost {
			s.world.ClearOwned(id)
		}
		return
	case netevent.ObjOwnerRelease:
		if s.isHost {
			s.world.SetOwned(id, 0)
		}
		return
	}

	o.Shared = false
	switch e.Subtype {
	case netevent.ObjBodyType:
		o.SetBodyType(obstacle.BodyType(e.BodyType))
	case netevent.ObjPosition:
		o.SetPosition(mgl32.Vec2{e.X, e.Y})
	case netevent.ObjVelocity:
		o.SetLinearVelocity(mgl32.Vec2{e.VX, e.VY})
	case netevent.ObjAngle:
		o.SetAngle(e.Angle)
	case netevent.ObjAngularVel:
		o.SetAngularVelocity(e.AngularVel)
	case netevent.ObjBoolConsts:
		o.SetBoolConsts(obstacle.BoolConsts{
			Enabled:       e.Bools.Enabled,
			Awake:         e.Bools.Awake,
			SleepAllowed:  e.Bools.SleepAllowed,
			FixedRotation: e.Bools.FixedRotation,
			Bullet:        e.Bools.Bullet,
			Sensor:        e.Bools.Sensor,
		})
	case netevent.ObjFloatConsts:
		o.SetFloatConsts(obstacle.FloatConsts{
			Density:        e.Floats.Density,
			Friction:       e.Floats.Friction,
			Restitution:    e.Floats.Restitution,
			LinearDamping:  e.Floats.LinearDamp,
			AngularDamping: e.Floats.AngularDamp,
			GravityScale:   e.Floats.GravityScale,
			Mass:           e.Floats.Mass,
			Inertia:        e.Floats.Inertia,
			CentroidX:      e.Floats.CentroidX,
			CentroidY:      e.Floats.CentroidY,
		})
	}
	o.Shared = true
}

// HandleSyncEvent installs or replaces an interpolation target for each
// record in e, per §4.6.2's step count and control-point construction.
func (s *Synchronizer) HandleSyncEvent(e *netevent.PhysSyncEvent) {
	if e.IsEcho() {
		return
	}
	for _, rec := range e.Records() {
		id := obstacle.ID(rec.ObjID)
		o, ok := s.world.Get(id)
		if !ok {
			continue
		}

		diff := vecLen(vecSub(rec.Position, o.Position))
		angDiff := interpAngleScale * absF(o.Angle-rec.Angle)
		steps := clampI(maxI(roundI(diff*30), roundI(angDiff)), 1, interpMaxSteps)

		target := &interpTarget{
			numSteps:         uint32(steps),
			p0:               o.Position,
			p1:               vecAdd(o.Position, vecScale(o.LinearVel, 0.1)),
			p3:               rec.Position,
			targetLinVel:     rec.LinearVel,
			targetAngle:      rec.Angle,
			targetAngularVel: rec.AngularVel,
		}
		target.p2 = vecSub(target.p3, vecScale(rec.LinearVel, 0.1))

		if prev, exists := s.interp[id]; exists {
			wasShared := o.Shared
			o.Shared = false
			o.SetLinearVelocity(prev.targetLinVel)
			o.SetAngularVelocity(prev.targetAngularVel)
			o.Shared = wasShared
			target.integralAcc = prev.integralAcc
			target.integralSamples = prev.integralSamples
			s.stats.OvrdCount++
		}
		s.interp[id] = target
	}
}

// fixedUpdate runs the per-tick ownership-lease decay and interpolation
// advance described in §4.6.3.
func (s *Synchronizer) fixedUpdate() {
	for _, id := range s.world.OwnedIDs() {
		lease, _ := s.world.Owned(id)
		switch {
		case lease == 1:
			s.ReleaseObs(id)
		case lease > 1:
			s.world.SetOwned(id, lease-1)
		}
	}

	for id, target := range s.interp {
		o, ok := s.world.Get(id)
		if !ok || !o.Shared {
			delete(s.interp, id)
			continue
		}

		o.Shared = false
		stepsLeft := target.numSteps - target.curStep
		if stepsLeft <= 1 {
			s.world.SetState(id, physics2d.BodyState{
				Position:   target.p3,
				Angle:      target.targetAngle,
				LinearVel:  target.targetLinVel,
				AngularVel: target.targetAngularVel,
			})
			delete(s.interp, id)
			s.stats.ItprCount++
		} else {
			inv := 1.0 / float32(stepsLeft)
			s.world.SetState(id, physics2d.BodyState{
				Position:   lerpVec(o.Position, target.p3, inv),
				Angle:      lerpF(o.Angle, target.targetAngle, inv),
				LinearVel:  lerpVec(o.LinearVel, target.targetLinVel, inv),
				AngularVel: lerpF(o.AngularVel, target.targetAngularVel, inv),
			})
			target.curStep++
			s.stats.StepSum++
		}
		o.Shared = true
	}
}
