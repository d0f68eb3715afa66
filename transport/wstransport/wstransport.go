// Package wstransport implements transport.Transport over gorilla/websocket
// in a star topology: the host runs an HTTP server accepting one connection
// per client, and relays every message it receives from one client to every
// other client, so the broadcast semantics the session controller expects
// hold even though there is no real mesh underneath.
package wstransport

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"netphys/transport"
)

func listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

// Role distinguishes the two concrete behaviors a WSTransport can have; it
// is fixed at construction, unlike transport.Transport's Open, which the
// spec does not give a host/client parameter.
type Role int

const (
	RoleHost Role = iota
	RoleClient
)

const pingInterval = 2 * time.Second

// peerConn pairs a websocket connection with the write mutex every send
// through it must hold, mirroring the teacher's SafeWriter.
type peerConn struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *peerConn) writeBinary(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (p *peerConn) writeControl(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

type inboundMsg struct {
	peer string
	data []byte
}

// WSTransport is a transport.Transport backed by one or more gorilla
// websocket connections. It is safe for concurrent use: connection read
// loops run on their own goroutines and only ever touch the inbox and peer
// map under their respective locks; Open/Close/SendTo/Broadcast/Receive are
// expected to be called from the session controller's single-threaded tick.
type WSTransport struct {
	role   Role
	addr   string
	logger *log.Logger

	mu    sync.RWMutex
	state transport.State
	room  string
	cfg   transport.Config

	upgrader   websocket.Upgrader
	httpServer *http.Server

	peersMu     sync.RWMutex
	peers       map[string]*peerConn
	nextPeerNum int

	inboxMu sync.Mutex
	inbox   []inboundMsg

	done chan struct{}
}

// NewHost returns a WSTransport that will listen on listenAddr when Open is
// called.
func NewHost(listenAddr string, logger *log.Logger) *WSTransport {
	return newTransport(RoleHost, listenAddr, logger)
}

// NewClient returns a WSTransport that will dial dialAddr when Open is
// called. dialAddr is the host's advertised address, normally resolved
// through the lobby package beforehand.
func NewClient(dialAddr string, logger *log.Logger) *WSTransport {
	return newTransport(RoleClient, dialAddr, logger)
}

func newTransport(role Role, addr string, logger *log.Logger) *WSTransport {
	if logger == nil {
		logger = log.Default()
	}
	return &WSTransport{
		role:   role,
		addr:   addr,
		logger: logger,
		state:  transport.Negotiating,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		peers: make(map[string]*peerConn),
		done:  make(chan struct{}),
	}
}

// Open starts the host's listener or dials the host, per role.
func (t *WSTransport) Open(cfg transport.Config) transport.State {
	t.mu.Lock()
	t.cfg = cfg
	t.mu.Unlock()

	if t.role == RoleHost {
		return t.openHost()
	}
	return t.openClient()
}

func (t *WSTransport) openHost() transport.State {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", t.handleWS)
	t.httpServer = &http.Server{Addr: t.addr, Handler: mux}

	ln, err := listen(t.addr)
	if err != nil {
		t.logger.Printf("[wstransport] listen on %s failed: %v", t.addr, err)
		t.setState(transport.Failed)
		return t.State()
	}

	go func() {
		if err := t.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			t.logger.Printf("[wstransport] serve exited: %v", err)
		}
	}()

	t.mu.Lock()
	t.room = t.addr
	t.mu.Unlock()
	t.setState(transport.Connected)
	return t.State()
}

func (t *WSTransport) openClient() transport.State {
	url := fmt.Sprintf("ws://%s/ws", t.addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.logger.Printf("[wstransport] dial %s failed: %v", url, err)
		t.setState(transport.Failed)
		return t.State()
	}

	pc := &peerConn{id: "host", conn: conn}
	t.peersMu.Lock()
	t.peers["host"] = pc
	t.peersMu.Unlock()

	go t.readLoop(pc)
	go t.pingLoop(pc)

	t.mu.Lock()
	t.room = t.addr
	t.mu.Unlock()
	t.setState(transport.Connected)
	return t.State()
}

// Close tears down the listener (host) or connection (client) and every
// peer connection. Idempotent.
func (t *WSTransport) Close() {
	select {
	case <-t.done:
		return
	default:
		close(t.done)
	}

	if t.httpServer != nil {
		t.httpServer.Close()
	}
	t.peersMu.Lock()
	for id, p := range t.peers {
		p.conn.Close()
		delete(t.peers, id)
	}
	t.peersMu.Unlock()
	t.setState(transport.Disconnected)
}

// StartSession is host-only: it locks the room by flipping its own state to
// IN-SESSION and broadcasting a control frame that flips every client's
// state the same way.
func (t *WSTransport) StartSession() transport.State {
	if t.role != RoleHost {
		return t.State()
	}
	t.peersMu.RLock()
	for _, p := range t.peers {
		if err := p.writeControl("session_start"); err != nil {
			t.logger.Printf("[wstransport] session_start to %s failed: %v", p.id, err)
		}
	}
	t.peersMu.RUnlock()
	t.setState(transport.InSession)
	return t.State()
}

func (t *WSTransport) State() transport.State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func (t *WSTransport) setState(s transport.State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

func (t *WSTransport) GetRoom() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.room
}

// GetPlayers returns the IDs of every peer connected to this transport,
// excluding self. For a client this is just ["host"].
func (t *WSTransport) GetPlayers() []string {
	t.peersMu.RLock()
	defer t.peersMu.RUnlock()
	out := make([]string, 0, len(t.peers))
	for id := range t.peers {
		out = append(out, id)
	}
	return out
}

func (t *WSTransport) GetNumPlayers() int {
	return len(t.GetPlayers()) + 1
}

// SendTo writes data to exactly one peer.
func (t *WSTransport) SendTo(peer string, data []byte) error {
	t.peersMu.RLock()
	p, ok := t.peers[peer]
	t.peersMu.RUnlock()
	if !ok {
		return fmt.Errorf("wstransport: unknown peer %q", peer)
	}
	return p.writeBinary(data)
}

// Broadcast writes data to every connected peer. On the host this reaches
// every client directly; on a client it reaches only the host, which then
// relays it to the other clients.
func (t *WSTransport) Broadcast(data []byte) error {
	t.peersMu.RLock()
	defer t.peersMu.RUnlock()
	var firstErr error
	for id, p := range t.peers {
		if err := p.writeBinary(data); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("wstransport: broadcast to %s: %w", id, err)
		}
	}
	return firstErr
}

// Receive drains every message buffered since the last call and invokes fn
// once per message, in arrival order, synchronously on the caller's
// goroutine. It never blocks waiting for new messages.
func (t *WSTransport) Receive(fn transport.ReceiveFunc) {
	t.inboxMu.Lock()
	pending := t.inbox
	t.inbox = nil
	t.inboxMu.Unlock()

	for _, m := range pending {
		fn(m.peer, m.data)
	}
}

func (t *WSTransport) pushInbox(peer string, data []byte) {
	t.inboxMu.Lock()
	t.inbox = append(t.inbox, inboundMsg{peer: peer, data: data})
	t.inboxMu.Unlock()
}

// handleWS is the host's connection entry point, grounded in the teacher's
// WSServer.HandleWS upgrade/accept sequence, stripped of the game-specific
// welcome/object-sync handshake this module has no use for.
func (t *WSTransport) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		t.logger.Printf("[wstransport] upgrade error: %v", err)
		return
	}

	t.peersMu.Lock()
	t.nextPeerNum++
	id := fmt.Sprintf("peer-%d", t.nextPeerNum)
	pc := &peerConn{id: id, conn: conn}
	t.peers[id] = pc
	t.peersMu.Unlock()

	t.logger.Printf("[wstransport] %s connected from %s", id, conn.RemoteAddr())

	go t.pingLoop(pc)
	t.readLoop(pc)
}

func (t *WSTransport) readLoop(pc *peerConn) {
	defer func() {
		t.peersMu.Lock()
		delete(t.peers, pc.id)
		t.peersMu.Unlock()
		pc.conn.Close()
		t.logger.Printf("[wstransport] %s disconnected", pc.id)
	}()

	for {
		msgType, data, err := pc.conn.ReadMessage()
		if err != nil {
			return
		}
		switch msgType {
		case websocket.BinaryMessage:
			t.pushInbox(pc.id, data)
			if t.role == RoleHost {
				t.relayExcept(pc.id, data)
			}
		case websocket.TextMessage:
			if string(data) == "session_start" && t.role == RoleClient {
				t.setState(transport.InSession)
			}
		}
	}
}

// relayExcept forwards data to every peer but sender, emulating mesh
// broadcast over the star topology the host's listener otherwise imposes.
func (t *WSTransport) relayExcept(sender string, data []byte) {
	t.peersMu.RLock()
	defer t.peersMu.RUnlock()
	for id, p := range t.peers {
		if id == sender {
			continue
		}
		if err := p.writeBinary(data); err != nil {
			t.logger.Printf("[wstransport] relay to %s failed: %v", id, err)
		}
	}
}

func (t *WSTransport) pingLoop(pc *peerConn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			pc.mu.Lock()
			err := pc.conn.WriteMessage(websocket.PingMessage, nil)
			pc.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
