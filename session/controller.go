package session

import (
	"log"

	"netphys/internal/assert"
	"netphys/netevent"
	"netphys/transport"
	"netphys/wire"
)

// metaWriter is satisfied by every built-in event, which embeds
// netevent.Meta. Custom events that want receive-side bookkeeping should
// embed it too.
type metaWriter interface {
	SetMeta(sourceID string, eventTimestamp, receiveTimestamp uint64)
}

// metaReader is satisfied by every event carrying netevent.Meta; used to
// decide when a queued custom event becomes available to PopInEvent.
type metaReader interface {
	Timestamp() uint64
}

// Controller is the coordination core: it owns the transport handle, the
// event registry, both event queues, handshake bookkeeping, and a
// reference to the physics synchronizer. It is driven entirely by
// UpdateNet and is not safe for concurrent use.
type Controller struct {
	transport transport.Transport
	cfg       transport.Config
	registry  *netevent.Registry
	logger    *log.Logger

	state    State
	isHost   bool
	roomID   string
	shortUID uint32

	numReady   int
	numPlayers int
	peerUIDs   map[string]uint32

	currentTick   uint64
	startGameTick uint64

	paused   bool
	resetSeq uint64

	physicsEnabled bool
	sync           Synchronizer

	inbound  inboundQueue
	outbound outboundQueue

	droppedCount uint64
}

// NewController returns a Controller in the IDLE state, bound to t and cfg
// but not yet connected. The built-in event variants are pre-registered.
func NewController(t transport.Transport, cfg transport.Config, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	registry := netevent.NewRegistry()
	registry.RegisterBuiltins()
	return &Controller{
		transport: t,
		cfg:       cfg,
		registry:  registry,
		logger:    logger,
		state:     Idle,
	}
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// ShortUID returns the short UID assigned to this peer, or 0 if none has
// been assigned yet.
func (c *Controller) ShortUID() uint32 {
	return c.shortUID
}

// IsHost reports whether this controller opened the session as host.
func (c *Controller) IsHost() bool {
	return c.isHost
}

// CurrentTick returns the session-relative tick (current fixed tick minus
// the tick GAME_START was received at). Before GAME_START, startGameTick
// is still 0, so this tracks the raw fixed tick count.
func (c *Controller) CurrentTick() uint64 {
	return c.currentTick - c.startGameTick
}

// IsPaused reports whether the most recent GameStateEvent was GamePause
// without an intervening GameResume.
func (c *Controller) IsPaused() bool {
	return c.paused
}

// ResetSeq counts inbound GAME_RESET events observed so far.
func (c *Controller) ResetSeq() uint64 {
	return c.resetSeq
}

// LastDropped counts inbound messages discarded by unwrap so far this
// session: undersized envelopes and tags with no matching registration.
// Debug telemetry only, never consulted by protocol logic.
func (c *Controller) LastDropped() uint64 {
	return c.droppedCount
}

// AttachEventType registers a custom event variant so both peers agree on
// its wire tag. Must be called identically on every peer before it is used.
func (c *Controller) AttachEventType(proto netevent.Event) netevent.Tag {
	return c.registry.Register(proto)
}

// EnablePhysics wires a physics synchronizer into the routing path. It
// requires a non-zero short UID, i.e. a completed handshake.
func (c *Controller) EnablePhysics(sync Synchronizer) {
	assert.That(c.shortUID != 0, "EnablePhysics called before a short UID was assigned")
	c.sync = sync
	c.physicsEnabled = true
}

// ConnectAsHost opens the transport as the hosting peer. If called from
// NETERROR it disconnects first.
func (c *Controller) ConnectAsHost() State {
	if c.state == NetError {
		c.Disconnect()
	}
	c.isHost = true
	c.state = Connecting
	c.transport.Open(c.cfg)
	c.checkConnection()
	return c.state
}

// ConnectAsClient opens the transport as a joining peer targeting roomID.
// If called from NETERROR it disconnects first.
func (c *Controller) ConnectAsClient(roomID string) State {
	if c.state == NetError {
		c.Disconnect()
	}
	c.isHost = false
	c.roomID = roomID
	c.state = Connecting
	c.transport.Open(c.cfg)
	c.checkConnection()
	return c.state
}

// Disconnect closes the transport and resets all session state to
// defaults. It is idempotent.
func (c *Controller) Disconnect() {
	c.transport.Close()
	c.state = Idle
	c.isHost = false
	c.roomID = ""
	c.shortUID = 0
	c.numReady = 0
	c.numPlayers = 0
	c.peerUIDs = nil
	c.currentTick = 0
	c.startGameTick = 0
	c.paused = false
	c.resetSeq = 0
	c.droppedCount = 0
	c.physicsEnabled = false
	c.sync = nil
	c.inbound.clear()
	c.outbound.clear()
}

// StartGame locks the room and starts the underlying transport session.
// It is host-only and only valid from CONNECTED; any other caller is a
// silent no-op.
func (c *Controller) StartGame() {
	if !c.isHost || c.state != Connected {
		return
	}
	c.transport.StartSession()
}

// MarkReady transitions HANDSHAKE -> READY, once a short UID is held, and
// queues CLIENT_RDY for the host to count.
func (c *Controller) MarkReady() {
	if c.state != Handshake || c.shortUID == 0 {
		return
	}
	c.state = Ready
	c.numReady++
	c.PushOutEvent(&netevent.GameStateEvent{Subtype: netevent.ClientRdy})
}

// PushOutEvent appends e to the outbound FIFO for the next broadcast.
func (c *Controller) PushOutEvent(e netevent.Event) {
	c.outbound.push(e)
}

// PopInEvent removes and returns the head of the inbound FIFO, if due.
func (c *Controller) PopInEvent() (netevent.Event, bool) {
	if !c.IsInAvailable() {
		return nil, false
	}
	return c.inbound.pop()
}

// IsInAvailable reports whether the inbound FIFO's head event's timestamp
// has come due.
func (c *Controller) IsInAvailable() bool {
	return c.inbound.isAvailable(c.CurrentTick())
}

// UpdateNet is the single pump called from the host application's fixed
// tick. It is the only place network I/O happens.
func (c *Controller) UpdateNet() {
	c.currentTick++

	c.checkConnection()

	if c.state == InGame && c.physicsEnabled && c.sync != nil {
		c.sync.Tick(c.isHost)
		for _, e := range c.sync.DrainOutbound() {
			c.PushOutEvent(e)
		}
	}

	c.transport.Receive(c.handleInbound)
	c.checkHandshakeReady()

	for _, e := range c.outbound.drain() {
		data := c.wrap(e)
		if err := c.transport.Broadcast(data); err != nil {
			c.logger.Printf("[session] broadcast failed: %v", err)
		}
	}
}

func (c *Controller) checkConnection() {
	st := c.transport.State()
	switch st {
	case transport.Connected:
		if c.state == Connecting {
			c.state = Connected
			if c.isHost {
				c.roomID = c.transport.GetRoom()
			}
		}
	case transport.InSession:
		if c.state != Handshake && c.state != Ready && c.state != InGame {
			c.state = Handshake
			if c.isHost {
				c.hostAssignUIDs()
			}
		}
	case transport.Denied, transport.Disconnected, transport.Failed, transport.Invalid, transport.Mismatched:
		if c.state != NetError {
			c.logger.Printf("[session] transport reported %s, moving to NETERROR", st)
		}
		c.state = NetError
	}
}

// checkHandshakeReady is the host-only broadcast of GAME_START once every
// enumerated player, including the host itself, has called MarkReady.
func (c *Controller) checkHandshakeReady() {
	if !c.isHost || c.state != Ready {
		return
	}
	if c.numPlayers == 0 || c.numReady < c.numPlayers {
		return
	}
	c.PushOutEvent(&netevent.GameStateEvent{Subtype: netevent.GameStart})
	c.state = InGame
	c.startGameTick = c.currentTick
}

// hostAssignUIDs enumerates current players and assigns short UIDs
// strictly increasing from 1, with the host taking 1 by convention.
func (c *Controller) hostAssignUIDs() {
	c.shortUID = 1
	c.peerUIDs = make(map[string]uint32)
	players := c.transport.GetPlayers()
	next := uint32(2)
	for _, peer := range players {
		c.peerUIDs[peer] = next
		assign := &netevent.GameStateEvent{Subtype: netevent.UIDAssign, UID: byte(next)}
		if data := c.wrap(assign); data != nil {
			if err := c.transport.SendTo(peer, data); err != nil {
				c.logger.Printf("[session] UID_ASSIGN to %s failed: %v", peer, err)
			}
		}
		next++
	}
	c.numPlayers = len(players) + 1
}

func (c *Controller) handleInbound(peer string, data []byte) {
	e, ok := c.unwrap(data, peer)
	if !ok {
		return
	}
	switch ev := e.(type) {
	case *netevent.GameStateEvent:
		c.handleGameState(ev)
	case *netevent.PhysSyncEvent:
		if c.state == InGame && c.physicsEnabled && c.sync != nil {
			c.sync.HandleSyncEvent(ev)
		}
	case *netevent.PhysObjEvent:
		if c.state == InGame && c.physicsEnabled && c.sync != nil {
			c.sync.HandleObjEvent(ev)
		}
	default:
		availableAt := uint64(0)
		if mr, ok := e.(metaReader); ok {
			availableAt = mr.Timestamp()
		}
		c.inbound.push(e, availableAt)
	}
}

func (c *Controller) handleGameState(e *netevent.GameStateEvent) {
	switch e.Subtype {
	case netevent.UIDAssign:
		if !c.isHost {
			c.shortUID = uint32(e.UID)
		}
	case netevent.ClientRdy:
		if c.isHost {
			c.numReady++
		}
	case netevent.GameStart:
		if c.state == Ready {
			c.state = InGame
			c.startGameTick = c.currentTick
		}
	case netevent.GameReset:
		c.resetSeq++
	case netevent.GamePause:
		c.paused = true
	case netevent.GameResume:
		c.paused = false
	}
}

// wrap builds the on-wire envelope: u8 tag || u64 session tick || payload.
// Wrapping an unregistered event type is a precondition violation.
func (c *Controller) wrap(e netevent.Event) []byte {
	tag, ok := c.registry.TagOf(e)
	assert.That(ok, "wrap of unregistered event type %T", e)
	payload := e.Serialize()
	w := wire.NewWriter(9 + len(payload))
	w.WriteByte(tag)
	w.WriteUint64(c.CurrentTick())
	w.WriteBytes(payload)
	return w.Bytes()
}

// unwrap decodes an inbound envelope. Anything shorter than the 9-byte
// minimum, or tagged with an unregistered variant, is protocol drift and
// is silently discarded.
func (c *Controller) unwrap(data []byte, peer string) (netevent.Event, bool) {
	if len(data) < 9 {
		c.droppedCount++
		return nil, false
	}
	r := wire.NewReader(data)
	tag := r.ReadByte()
	tick := r.ReadUint64()
	payload := r.ReadRemaining()

	blank, ok := c.registry.Blank(tag, payload)
	if !ok {
		c.droppedCount++
		return nil, false
	}
	if mw, ok := blank.(metaWriter); ok {
		mw.SetMeta(peer, tick, c.CurrentTick())
	}
	return blank, true
}
