package netevent

import "netphys/wire"

// ObjSubtype enumerates the PhysObjEvent payload shapes.
type ObjSubtype uint32

const (
	ObjCreation ObjSubtype = iota
	ObjDeletion
	ObjBodyType
	ObjPosition
	ObjVelocity
	ObjAngle
	ObjAngularVel
	ObjBoolConsts
	ObjFloatConsts
	ObjOwnerAcquire
	ObjOwnerRelease
)

// BoolConstsPayload mirrors obstacle.BoolConsts on the wire.
type BoolConstsPayload struct {
	Enabled       bool
	Awake         bool
	SleepAllowed  bool
	FixedRotation bool
	Bullet        bool
	Sensor        bool
}

// FloatConstsPayload mirrors obstacle.FloatConsts on the wire.
type FloatConstsPayload struct {
	Density      float32
	Friction     float32
	Restitution  float32
	LinearDamp   float32
	AngularDamp  float32
	GravityScale float32
	Mass         float32
	Inertia      float32
	CentroidX    float32
	CentroidY    float32
}

// PhysObjEvent carries a single field-level mutation (or lifecycle/ownership
// transition) for one obstacle. Every subtype shares the u32 subtype + u64
// objId prefix; only the fields relevant to Subtype are meaningful.
type PhysObjEvent struct {
	Meta
	Subtype ObjSubtype
	ObjID   uint64

	FactoryID    uint32
	PackedParams []byte

	BodyType uint32

	X, Y float32

	VX, VY float32

	Angle float32

	AngularVel float32

	Bools BoolConstsPayload

	Floats FloatConstsPayload

	AcquireDuration uint64
}

func (e *PhysObjEvent) Reset() {
	*e = PhysObjEvent{}
}

func (e *PhysObjEvent) Serialize() []byte {
	w := wire.NewWriter(16)
	w.WriteUint32(uint32(e.Subtype))
	w.WriteUint64(e.ObjID)

	switch e.Subtype {
	case ObjCreation:
		w.WriteUint32(e.FactoryID)
		w.WriteBytes(e.PackedParams)
	case ObjDeletion:
	case ObjBodyType:
		w.WriteUint32(e.BodyType)
	case ObjPosition:
		w.WriteFloat(e.X)
		w.WriteFloat(e.Y)
	case ObjVelocity:
		w.WriteFloat(e.VX)
		w.WriteFloat(e.VY)
	case ObjAngle:
		w.WriteFloat(e.Angle)
	case ObjAngularVel:
		w.WriteFloat(e.AngularVel)
	case ObjBoolConsts:
		w.WriteBool(e.Bools.Enabled)
		w.WriteBool(e.Bools.Awake)
		w.WriteBool(e.Bools.SleepAllowed)
		w.WriteBool(e.Bools.FixedRotation)
		w.WriteBool(e.Bools.Bullet)
		w.WriteBool(e.Bools.Sensor)
	case ObjFloatConsts:
		w.WriteFloat(e.Floats.Density)
		w.WriteFloat(e.Floats.Friction)
		w.WriteFloat(e.Floats.Restitution)
		w.WriteFloat(e.Floats.LinearDamp)
		w.WriteFloat(e.Floats.AngularDamp)
		w.WriteFloat(e.Floats.GravityScale)
		w.WriteFloat(e.Floats.Mass)
		w.WriteFloat(e.Floats.Inertia)
		w.WriteFloat(e.Floats.CentroidX)
		w.WriteFloat(e.Floats.CentroidY)
	case ObjOwnerAcquire:
		w.WriteUint64(e.AcquireDuration)
	case ObjOwnerRelease:
	}
	return w.Bytes()
}

func (e *PhysObjEvent) Deserialize(payload []byte) {
	r := wire.NewReader(payload)
	e.Subtype = ObjSubtype(r.ReadUint32())
	e.ObjID = r.ReadUint64()

	switch e.Subtype {
	case ObjCreation:
		e.FactoryID = r.ReadUint32()
		e.PackedParams = r.ReadRemaining()
	case ObjDeletion:
	case ObjBodyType:
		e.BodyType = r.ReadUint32()
	case ObjPosition:
		e.X = r.ReadFloat()
		e.Y = r.ReadFloat()
	case ObjVelocity:
		e.VX = r.ReadFloat()
		e.VY = r.ReadFloat()
	case ObjAngle:
		e.Angle = r.ReadFloat()
	case ObjAngularVel:
		e.AngularVel = r.ReadFloat()
	case ObjBoolConsts:
		e.Bools.Enabled = r.ReadBool()
		e.Bools.Awake = r.ReadBool()
		e.Bools.SleepAllowed = r.ReadBool()
		e.Bools.FixedRotation = r.ReadBool()
		e.Bools.Bullet = r.ReadBool()
		e.Bools.Sensor = r.ReadBool()
	case ObjFloatConsts:
		e.Floats.Density = r.ReadFloat()
		e.Floats.Friction = r.ReadFloat()
		e.Floats.Restitution = r.ReadFloat()
		e.Floats.LinearDamp = r.ReadFloat()
		e.Floats.AngularDamp = r.ReadFloat()
		e.Floats.GravityScale = r.ReadFloat()
		e.Floats.Mass = r.ReadFloat()
		e.Floats.Inertia = r.ReadFloat()
		e.Floats.CentroidX = r.ReadFloat()
		e.Floats.CentroidY = r.ReadFloat()
	case ObjOwnerAcquire:
		e.AcquireDuration = r.ReadUint64()
	case ObjOwnerRelease:
	}
}
