// Package transport defines the peer-connection contract the session
// controller consumes. Concrete transports (see wstransport) implement it;
// the core never depends on a specific wire technology.
package transport

// State mirrors the connection's progress through the lobby/session
// handshake, as reported by the underlying transport implementation.
type State int

const (
	Negotiating State = iota
	Connected
	InSession
	Denied
	Disconnected
	Failed
	Invalid
	Mismatched
)

func (s State) String() string {
	switch s {
	case Negotiating:
		return "NEGOTIATING"
	case Connected:
		return "CONNECTED"
	case InSession:
		return "IN-SESSION"
	case Denied:
		return "DENIED"
	case Disconnected:
		return "DISCONNECTED"
	case Failed:
		return "FAILED"
	case Invalid:
		return "INVALID"
	case Mismatched:
		return "MISMATCHED"
	default:
		return "UNKNOWN"
	}
}

// IceServer describes one ICE/TURN relay candidate in a lobby Config.
type IceServer struct {
	Turn     bool
	Address  string
	Port     int
	Username string
	Password string
}

// Config is the structured document a Transport's Open expects: lobby
// address, ICE relay candidates, room capacity, and the protocol version
// peers must agree on to avoid a MISMATCHED handshake.
type Config struct {
	LobbyAddress string
	LobbyPort    int
	IceServers   []IceServer
	MaxPlayers   int
	APIVersion   string
}

// ReceiveFunc is invoked once per inbound message, synchronously, from
// inside Receive. peer is empty-string for a message the transport itself
// judges to be a locally-originated echo.
type ReceiveFunc func(peer string, data []byte)

// Transport is the reliable-ordered message channel and lobby/room
// directory the session controller drives. It never blocks the caller
// across a network round trip except during Open/StartSession.
type Transport interface {
	Open(cfg Config) State
	Close()
	StartSession() State
	State() State
	GetRoom() string
	GetPlayers() []string
	GetNumPlayers() int
	SendTo(peer string, data []byte) error
	Broadcast(data []byte) error
	// Receive drains every packet currently buffered, invoking fn once per
	// packet in arrival order, then returns. It never blocks waiting for a
	// packet that hasn't arrived yet.
	Receive(fn ReceiveFunc)
}
