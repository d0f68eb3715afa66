package session

import (
	"testing"

	"netphys/netevent"
	"netphys/transport"
	"netphys/wire"
)

type fakeTransport struct {
	state   transport.State
	room    string
	players []string

	sent        map[string][][]byte
	broadcasted [][]byte
	inbox       []inboxMsg
}

type inboxMsg struct {
	peer string
	data []byte
}

func newFakeTransport(players []string) *fakeTransport {
	return &fakeTransport{
		state:   transport.Negotiating,
		room:    "room-1",
		players: players,
		sent:    make(map[string][][]byte),
	}
}

func (f *fakeTransport) Open(cfg transport.Config) transport.State { return f.state }
func (f *fakeTransport) Close()                                    {}
func (f *fakeTransport) StartSession() transport.State             { return f.state }
func (f *fakeTransport) State() transport.State                    { return f.state }
func (f *fakeTransport) GetRoom() string                           { return f.room }
func (f *fakeTransport) GetPlayers() []string                      { return f.players }
func (f *fakeTransport) GetNumPlayers() int                        { return len(f.players) + 1 }

func (f *fakeTransport) SendTo(peer string, data []byte) error {
	f.sent[peer] = append(f.sent[peer], data)
	return nil
}

func (f *fakeTransport) Broadcast(data []byte) error {
	f.broadcasted = append(f.broadcasted, data)
	return nil
}

func (f *fakeTransport) Receive(fn transport.ReceiveFunc) {
	pending := f.inbox
	f.inbox = nil
	for _, m := range pending {
		fn(m.peer, m.data)
	}
}

func (f *fakeTransport) deliver(peer string, e netevent.Event, tag netevent.Tag, tick uint64) {
	w := wire.NewWriter(16)
	w.WriteByte(tag)
	w.WriteUint64(tick)
	w.WriteBytes(e.Serialize())
	f.inbox = append(f.inbox, inboxMsg{peer: peer, data: w.Bytes()})
}

// TestHandshakeHostAssignsUIDsAndStartsGame implements scenario S2 from the
// host's side: two clients join, the host assigns short UIDs 1 (itself), 2
// and 3, and once all three call MarkReady, it broadcasts GAME_START.
func TestHandshakeHostAssignsUIDsAndStartsGame(t *testing.T) {
	ft := newFakeTransport([]string{"client-a", "client-b"})
	c := NewController(ft, transport.Config{}, nil)

	c.ConnectAsHost()
	ft.state = transport.Connected
	c.UpdateNet()
	ft.state = transport.InSession
	c.UpdateNet()

	if c.State() != Handshake {
		t.Fatalf("state = %v, want HANDSHAKE", c.State())
	}
	if c.ShortUID() != 1 {
		t.Fatalf("host ShortUID() = %d, want 1", c.ShortUID())
	}
	if len(ft.sent["client-a"]) != 1 || len(ft.sent["client-b"]) != 1 {
		t.Fatalf("expected one UID_ASSIGN sent to each client, got %v", ft.sent)
	}

	assignedA := &netevent.GameStateEvent{}
	r := wire.NewReader(ft.sent["client-a"][0][9:])
	assignedA.Deserialize(r.ReadRemaining())
	if assignedA.Subtype != netevent.UIDAssign || assignedA.UID != 2 {
		t.Errorf("client-a assignment = %+v, want UIDAssign(2)", assignedA)
	}
	assignedB := &netevent.GameStateEvent{}
	r = wire.NewReader(ft.sent["client-b"][0][9:])
	assignedB.Deserialize(r.ReadRemaining())
	if assignedB.Subtype != netevent.UIDAssign || assignedB.UID != 3 {
		t.Errorf("client-b assignment = %+v, want UIDAssign(3)", assignedB)
	}

	c.MarkReady()
	if c.State() != Ready {
		t.Fatalf("state after host MarkReady = %v, want READY", c.State())
	}

	ft.deliver("client-a", &netevent.GameStateEvent{Subtype: netevent.ClientRdy}, 0, 0)
	ft.deliver("client-b", &netevent.GameStateEvent{Subtype: netevent.ClientRdy}, 0, 0)
	c.UpdateNet()

	if c.State() != InGame {
		t.Fatalf("state after all three ready = %v, want INGAME", c.State())
	}

	foundStart := false
	for _, b := range ft.broadcasted {
		if len(b) > 0 && netevent.Tag(b[0]) == 0 {
			ev := &netevent.GameStateEvent{}
			ev.Deserialize(b[9:])
			if ev.Subtype == netevent.GameStart {
				foundStart = true
			}
		}
	}
	if !foundStart {
		t.Error("expected a GAME_START broadcast once num_ready == num_players")
	}
}

// TestClientReceivesUIDAssignAndGameStart exercises the handshake from a
// joining client's point of view.
func TestClientReceivesUIDAssignAndGameStart(t *testing.T) {
	ft := newFakeTransport(nil)
	c := NewController(ft, transport.Config{}, nil)

	c.ConnectAsClient("room-1")
	ft.state = transport.Connected
	c.UpdateNet()
	ft.state = transport.InSession
	c.UpdateNet()

	if c.State() != Handshake {
		t.Fatalf("state = %v, want HANDSHAKE", c.State())
	}

	ft.deliver("host", &netevent.GameStateEvent{Subtype: netevent.UIDAssign, UID: 2}, 0, 0)
	c.UpdateNet()

	if c.ShortUID() != 2 {
		t.Fatalf("ShortUID() = %d, want 2 after UID_ASSIGN", c.ShortUID())
	}

	c.MarkReady()
	if c.State() != Ready {
		t.Fatalf("state after MarkReady = %v, want READY", c.State())
	}

	ft.deliver("host", &netevent.GameStateEvent{Subtype: netevent.GameStart}, 0, 0)
	c.UpdateNet()

	if c.State() != InGame {
		t.Fatalf("state after GAME_START = %v, want INGAME", c.State())
	}
}

// TestRoutingCustomEventVsPhysSync implements scenario S6: a custom event
// surfaces through PopInEvent once due, while a PhysSyncEvent never does.
func TestRoutingCustomEventVsPhysSync(t *testing.T) {
	ft := newFakeTransport(nil)
	c := NewController(ft, transport.Config{}, nil)
	c.ConnectAsClient("room-1")
	ft.state = transport.Connected
	c.UpdateNet()
	ft.state = transport.InSession
	c.UpdateNet()
	ft.deliver("host", &netevent.GameStateEvent{Subtype: netevent.UIDAssign, UID: 5}, 0, 0)
	c.UpdateNet()
	c.MarkReady()
	ft.deliver("host", &netevent.GameStateEvent{Subtype: netevent.GameStart}, 0, 0)
	c.UpdateNet()
	if c.State() != InGame {
		t.Fatalf("state = %v, want INGAME", c.State())
	}

	tag := c.AttachEventType(&stubCustomEvent{})

	ft.deliver("host", &stubCustomEvent{Value: 7}, tag, c.CurrentTick())
	ft.deliver("host", &netevent.PhysSyncEvent{}, 1, c.CurrentTick())
	c.UpdateNet()

	got, ok := c.PopInEvent()
	if !ok {
		t.Fatal("PopInEvent() returned false, want the custom event to be due")
	}
	custom, ok := got.(*stubCustomEvent)
	if !ok || custom.Value != 7 {
		t.Errorf("PopInEvent() = %+v, want stubCustomEvent{Value: 7}", got)
	}

	if _, ok := c.PopInEvent(); ok {
		t.Error("PhysSyncEvent leaked into the custom inbound queue")
	}
}

// TestLastDroppedCountsDiscardedEnvelopes implements the drop-counter
// telemetry from §9: an undersized envelope and a tag from an unregistered
// variant both count, a well-formed envelope does not.
func TestLastDroppedCountsDiscardedEnvelopes(t *testing.T) {
	ft := newFakeTransport(nil)
	c := NewController(ft, transport.Config{}, nil)
	c.ConnectAsClient("room-1")
	ft.state = transport.Connected
	c.UpdateNet()
	ft.state = transport.InSession
	c.UpdateNet()

	ft.inbox = append(ft.inbox, inboxMsg{peer: "host", data: []byte{1, 2, 3}})
	ft.deliver("host", &netevent.PhysSyncEvent{}, 200, c.CurrentTick())
	c.UpdateNet()

	if got := c.LastDropped(); got != 2 {
		t.Fatalf("LastDropped() = %d, want 2", got)
	}

	ft.deliver("host", &netevent.GameStateEvent{Subtype: netevent.UIDAssign, UID: 9}, 0, 0)
	c.UpdateNet()
	if got := c.LastDropped(); got != 2 {
		t.Fatalf("LastDropped() after a valid envelope = %d, want unchanged 2", got)
	}
}

type stubCustomEvent struct {
	netevent.Meta
	Value uint32
}

func (e *stubCustomEvent) Reset()              { *e = stubCustomEvent{} }
func (e *stubCustomEvent) Serialize() []byte   { w := wire.NewWriter(4); w.WriteUint32(e.Value); return w.Bytes() }
func (e *stubCustomEvent) Deserialize(p []byte) {
	r := wire.NewReader(p)
	e.Value = r.ReadUint32()
}
