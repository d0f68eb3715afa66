package netevent

import (
	"netphys/wire"

	"github.com/go-gl/mathgl/mgl32"
)

// SyncRecord is one obstacle's kinematic snapshot inside a PhysSyncEvent.
type SyncRecord struct {
	ObjID      uint64
	Position   mgl32.Vec2
	LinearVel  mgl32.Vec2
	Angle      float32
	AngularVel float32
}

// PhysSyncEvent carries the kinematic state of a selected set of shared
// obstacles. Duplicate obstacle IDs within a single event are forbidden;
// AddObj silently ignores an obstacle already present rather than failing,
// mirroring the source library's internal std::unordered_set guard.
type PhysSyncEvent struct {
	Meta
	records []SyncRecord
	seen    map[uint64]struct{}
}

// AddObj appends a snapshot record for objID, doing nothing if objID was
// already added to this event.
func (e *PhysSyncEvent) AddObj(objID uint64, position, linearVel mgl32.Vec2, angle, angularVel float32) {
	if e.seen == nil {
		e.seen = make(map[uint64]struct{})
	}
	if _, dup := e.seen[objID]; dup {
		return
	}
	e.seen[objID] = struct{}{}
	e.records = append(e.records, SyncRecord{
		ObjID:      objID,
		Position:   position,
		LinearVel:  linearVel,
		Angle:      angle,
		AngularVel: angularVel,
	})
}

// Records returns the snapshot list added to this event so far.
func (e *PhysSyncEvent) Records() []SyncRecord {
	return e.records
}

func (e *PhysSyncEvent) Reset() {
	*e = PhysSyncEvent{}
}

func (e *PhysSyncEvent) Serialize() []byte {
	w := wire.NewWriter(8 + len(e.records)*syncRecordWireSize)
	w.WriteUint64(uint64(len(e.records)))
	for _, rec := range e.records {
		w.WriteUint64(rec.ObjID)
		w.WriteFloat(rec.Position.X())
		w.WriteFloat(rec.Position.Y())
		w.WriteFloat(rec.LinearVel.X())
		w.WriteFloat(rec.LinearVel.Y())
		w.WriteFloat(rec.Angle)
		w.WriteFloat(rec.AngularVel)
	}
	return w.Bytes()
}

// syncRecordWireSize is the encoded size of one SyncRecord: u64 ObjID plus
// six f32 fields (position x/y, linear velocity x/y, angle, angular vel).
const syncRecordWireSize = 8 + 4*6

func (e *PhysSyncEvent) Deserialize(payload []byte) {
	r := wire.NewReader(payload)
	n := r.ReadUint64()
	// n comes straight off the wire; a truncated or malformed payload can
	// claim a count far larger than the payload could ever hold, which
	// would make this allocation panic before the Overran() guard below
	// ever runs. Cap the pre-allocation at what the remaining bytes could
	// actually contain.
	if max := uint64(r.Remaining() / syncRecordWireSize); n > max {
		n = max
	}
	e.records = make([]SyncRecord, 0, n)
	for i := uint64(0); i < n && !r.Overran(); i++ {
		rec := SyncRecord{
			ObjID: r.ReadUint64(),
			Position: mgl32.Vec2{
				r.ReadFloat(), r.ReadFloat(),
			},
			LinearVel: mgl32.Vec2{
				r.ReadFloat(), r.ReadFloat(),
			},
			Angle:      r.ReadFloat(),
			AngularVel: r.ReadFloat(),
		}
		e.records = append(e.records, rec)
	}
}
