package netevent

import (
	"github.com/go-gl/mathgl/mgl32"
	"testing"
)

func TestGameStateEventRoundTrip(t *testing.T) {
	cases := []*GameStateEvent{
		{Subtype: UIDAssign, UID: 7},
		{Subtype: ClientRdy},
		{Subtype: GameStart},
		{Subtype: GameReset},
		{Subtype: GamePause},
		{Subtype: GameResume},
	}
	for _, src := range cases {
		payload := src.Serialize()
		got := &GameStateEvent{}
		got.Deserialize(payload)
		if got.Subtype != src.Subtype {
			t.Errorf("Subtype round trip = %v, want %v", got.Subtype, src.Subtype)
		}
		if src.Subtype == UIDAssign && got.UID != src.UID {
			t.Errorf("UID round trip = %d, want %d", got.UID, src.UID)
		}
	}
}

func TestGameStateEventOmitsUIDWhenNotAssign(t *testing.T) {
	src := &GameStateEvent{Subtype: GameStart}
	payload := src.Serialize()
	if len(payload) != 1 {
		t.Errorf("len(payload) = %d, want 1 for non-UIDAssign subtype", len(payload))
	}
}

func TestPhysSyncEventRoundTrip(t *testing.T) {
	src := &PhysSyncEvent{}
	src.AddObj(0x0000000700000000, mgl32.Vec2{1, 2}, mgl32.Vec2{3, 4}, 0.5, 1.5)
	src.AddObj(0x0000000700000001, mgl32.Vec2{5, 6}, mgl32.Vec2{7, 8}, 2.5, 3.5)

	payload := src.Serialize()
	got := &PhysSyncEvent{}
	got.Deserialize(payload)

	recs := got.Records()
	if len(recs) != 2 {
		t.Fatalf("len(Records()) = %d, want 2", len(recs))
	}
	if recs[0].ObjID != 0x0000000700000000 || recs[1].ObjID != 0x0000000700000001 {
		t.Errorf("ObjID round trip mismatch: %+v", recs)
	}
	if recs[0].Position != (mgl32.Vec2{1, 2}) || recs[0].LinearVel != (mgl32.Vec2{3, 4}) {
		t.Errorf("record 0 kinematic fields mismatch: %+v", recs[0])
	}
	if recs[1].Angle != 2.5 || recs[1].AngularVel != 3.5 {
		t.Errorf("record 1 angle/angularVel mismatch: %+v", recs[1])
	}
}

func TestPhysSyncEventRejectsDuplicateID(t *testing.T) {
	src := &PhysSyncEvent{}
	src.AddObj(1, mgl32.Vec2{0, 0}, mgl32.Vec2{0, 0}, 0, 0)
	src.AddObj(1, mgl32.Vec2{9, 9}, mgl32.Vec2{9, 9}, 9, 9)

	recs := src.Records()
	if len(recs) != 1 {
		t.Fatalf("len(Records()) = %d, want 1 after duplicate AddObj", len(recs))
	}
	if recs[0].Position != (mgl32.Vec2{0, 0}) {
		t.Errorf("duplicate AddObj overwrote the original record: %+v", recs[0])
	}
}

func TestPhysObjEventRoundTripPerSubtype(t *testing.T) {
	cases := []*PhysObjEvent{
		{Subtype: ObjCreation, ObjID: 1, FactoryID: 9, PackedParams: []byte{1, 2, 3}},
		{Subtype: ObjDeletion, ObjID: 2},
		{Subtype: ObjBodyType, ObjID: 3, BodyType: 1},
		{Subtype: ObjPosition, ObjID: 4, X: 1.5, Y: -2.5},
		{Subtype: ObjVelocity, ObjID: 5, VX: 0.25, VY: 0.75},
		{Subtype: ObjAngle, ObjID: 6, Angle: 3.14},
		{Subtype: ObjAngularVel, ObjID: 7, AngularVel: 0.1},
		{Subtype: ObjBoolConsts, ObjID: 8, Bools: BoolConstsPayload{Enabled: true, Awake: true, Sensor: true}},
		{Subtype: ObjFloatConsts, ObjID: 9, Floats: FloatConstsPayload{Density: 1, Friction: 2, Mass: 3}},
		{Subtype: ObjOwnerAcquire, ObjID: 10, AcquireDuration: 5},
		{Subtype: ObjOwnerRelease, ObjID: 11},
	}
	for _, src := range cases {
		payload := src.Serialize()
		got := &PhysObjEvent{}
		got.Deserialize(payload)

		if got.Subtype != src.Subtype || got.ObjID != src.ObjID {
			t.Errorf("prefix round trip = {%v %d}, want {%v %d}", got.Subtype, got.ObjID, src.Subtype, src.ObjID)
		}
		switch src.Subtype {
		case ObjCreation:
			if got.FactoryID != src.FactoryID || string(got.PackedParams) != string(src.PackedParams) {
				t.Errorf("ObjCreation round trip mismatch: %+v", got)
			}
		case ObjBodyType:
			if got.BodyType != src.BodyType {
				t.Errorf("ObjBodyType round trip mismatch: %+v", got)
			}
		case ObjPosition:
			if got.X != src.X || got.Y != src.Y {
				t.Errorf("ObjPosition round trip mismatch: %+v", got)
			}
		case ObjVelocity:
			if got.VX != src.VX || got.VY != src.VY {
				t.Errorf("ObjVelocity round trip mismatch: %+v", got)
			}
		case ObjAngle:
			if got.Angle != src.Angle {
				t.Errorf("ObjAngle round trip mismatch: %+v", got)
			}
		case ObjAngularVel:
			if got.AngularVel != src.AngularVel {
				t.Errorf("ObjAngularVel round trip mismatch: %+v", got)
			}
		case ObjBoolConsts:
			if got.Bools != src.Bools {
				t.Errorf("ObjBoolConsts round trip mismatch: %+v", got)
			}
		case ObjFloatConsts:
			if got.Floats != src.Floats {
				t.Errorf("ObjFloatConsts round trip mismatch: %+v", got)
			}
		case ObjOwnerAcquire:
			if got.AcquireDuration != src.AcquireDuration {
				t.Errorf("ObjOwnerAcquire round trip mismatch: %+v", got)
			}
		}
	}
}

func TestPhysObjEventDeletionHasNoExtraPayload(t *testing.T) {
	src := &PhysObjEvent{Subtype: ObjDeletion, ObjID: 42}
	payload := src.Serialize()
	if len(payload) != 4+8 {
		t.Errorf("len(payload) = %d, want 12 (u32 subtype + u64 objId, no extra fields)", len(payload))
	}
}
