package netsync

import (
	"sort"

	"netphys/netevent"
	"netphys/obstacle"
)

// PackPhysSync produces one PhysSyncEvent for the given subset of shared
// obstacles and queues it for broadcast. An empty subset queues nothing.
func (s *Synchronizer) PackPhysSync(kind SyncKind) {
	ev := &netevent.PhysSyncEvent{}
	switch kind {
	case OverrideFullSync:
		for _, id := range s.world.All() {
			o, _ := s.world.Get(id)
			if o.Shared {
				ev.AddObj(uint64(id), o.Position, o.LinearVel, o.Angle, o.AngularVel)
			}
		}
	case FullSync:
		for _, id := range s.world.All() {
			o, _ := s.world.Get(id)
			if !o.Shared {
				continue
			}
			if _, owned := s.world.Owned(id); !owned {
				continue
			}
			ev.AddObj(uint64(id), o.Position, o.LinearVel, o.Angle, o.AngularVel)
		}
	case PrioSync:
		s.packPrioSync(ev)
	}
	if len(ev.Records()) > 0 {
		s.queue(ev)
	}
}

// packPrioSync selects the top-K shared obstacles by linear speed plus a
// round-robin window over the rest, advancing a persistent cursor so that
// obstacles outside the top K are still eventually synced.
func (s *Synchronizer) packPrioSync(ev *netevent.PhysSyncEvent) {
	var shared []obstacle.ID
	for _, id := range s.world.All() {
		o, _ := s.world.Get(id)
		if o.Shared {
			shared = append(shared, id)
		}
	}
	if len(shared) == 0 {
		return
	}

	sort.Slice(shared, func(i, j int) bool {
		oi, _ := s.world.Get(shared[i])
		oj, _ := s.world.Get(shared[j])
		return oi.Speed() > oj.Speed()
	})

	k := prioTopK
	if k > len(shared) {
		k = len(shared)
	}
	added := make(map[obstacle.ID]bool, k)
	for i := 0; i < k; i++ {
		id := shared[i]
		o, _ := s.world.Get(id)
		ev.AddObj(uint64(id), o.Position, o.LinearVel, o.Angle, o.AngularVel)
		added[id] = true
	}

	window := prioWindow
	if window > len(shared) {
		window = len(shared)
	}
	for i := 0; i < window; i++ {
		idx := (s.rotationCursor + i) % len(shared)
		id := shared[idx]
		if added[id] {
			continue
		}
		o, _ := s.world.Get(id)
		ev.AddObj(uint64(id), o.Position, o.LinearVel, o.Angle, o.AngularVel)
	}
	if len(shared) > 0 {
		s.rotationCursor = (s.rotationCursor + window) % len(shared)
	}
}

// PackPhysObj emits, for every shared obstacle with at least one dirty
// flag, one PhysObjEvent per set flag in the fixed field order, then clears
// the obstacle's dirty flags.
func (s *Synchronizer) PackPhysObj() {
	for _, id := range s.world.All() {
		o, ok := s.world.Get(id)
		if !ok || !o.Shared {
			continue
		}
		d := o.Dirty()
		if !d.Any() {
			continue
		}
		if d.Position {
			s.queue(&netevent.PhysObjEvent{Subtype: netevent.ObjPosition, ObjID: uint64(id), X: o.Position.X(), Y: o.Position.Y()})
		}
		if d.Angle {
			s.queue(&netevent.PhysObjEvent{Subtype: netevent.ObjAngle, ObjID: uint64(id), Angle: o.Angle})
		}
		if d.LinearVel {
			s.queue(&netevent.PhysObjEvent{Subtype: netevent.ObjVelocity, ObjID: uint64(id), VX: o.LinearVel.X(), VY: o.LinearVel.Y()})
		}
		if d.AngularVel {
			s.queue(&netevent.PhysObjEvent{Subtype: netevent.ObjAngularVel, ObjID: uint64(id), AngularVel: o.AngularVel})
		}
		if d.BodyType {
			s.queue(&netevent.PhysObjEvent{Subtype: netevent.ObjBodyType, ObjID: uint64(id), BodyType: uint32(o.Type)})
		}
		if d.BoolConsts {
			s.queue(&netevent.PhysObjEvent{Subtype: netevent.ObjBoolConsts, ObjID: uint64(id), Bools: netevent.BoolConstsPayload{
				Enabled:       o.Bools.Enabled,
				Awake:         o.Bools.Awake,
				SleepAllowed:  o.Bools.SleepAllowed,
				FixedRotation: o.Bools.FixedRotation,
				Bullet:        o.Bools.Bullet,
				Sensor:        o.Bools.Sensor,
			}})
		}
		if d.FloatConsts {
			s.queue(&netevent.PhysObjEvent{Subtype: netevent.ObjFloatConsts, ObjID: uint64(id), Floats: netevent.FloatConstsPayload{
				Density:      o.Floats.Density,
				Friction:     o.Floats.Friction,
				Restitution:  o.Floats.Restitution,
				LinearDamp:   o.Floats.LinearDamping,
				AngularDamp:  o.Floats.AngularDamping,
				GravityScale: o.Floats.GravityScale,
				Mass:         o.Floats.Mass,
				Inertia:      o.Floats.Inertia,
				CentroidX:    o.Floats.CentroidX,
				CentroidY:    o.Floats.CentroidY,
			}})
		}
		if d.Removed {
			s.queue(&netevent.PhysObjEvent{Subtype: netevent.ObjDeletion, ObjID: uint64(id)})
		}
		o.ClearDirty()
	}
}
