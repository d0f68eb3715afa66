package netevent

import "netphys/wire"

// GameStateSubtype enumerates the one-byte GameStateEvent subtypes.
type GameStateSubtype byte

const (
	UIDAssign  GameStateSubtype = 100
	ClientRdy  GameStateSubtype = 101
	GameStart  GameStateSubtype = 102
	GameReset  GameStateSubtype = 103
	GamePause  GameStateSubtype = 104
	GameResume GameStateSubtype = 105
)

// GameStateEvent drives the session handshake/lifecycle state machine. Only
// UIDAssign carries an extra payload byte: the assigned short UID. The
// wire format caps usable short UIDs at 255 even though the session stores
// the value in a 32-bit field — a deliberate limitation inherited from the
// source protocol, not a bug to fix silently.
type GameStateEvent struct {
	Meta
	Subtype GameStateSubtype
	UID     byte
}

func (e *GameStateEvent) Reset() {
	*e = GameStateEvent{}
}

func (e *GameStateEvent) Serialize() []byte {
	w := wire.NewWriter(2)
	w.WriteByte(byte(e.Subtype))
	if e.Subtype == UIDAssign {
		w.WriteByte(e.UID)
	}
	return w.Bytes()
}

func (e *GameStateEvent) Deserialize(payload []byte) {
	r := wire.NewReader(payload)
	e.Subtype = GameStateSubtype(r.ReadByte())
	if e.Subtype == UIDAssign {
		e.UID = r.ReadByte()
	}
}
