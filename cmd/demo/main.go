// Command demo runs a host and a single client in one process, over a real
// loopback websocket connection, to exercise the session handshake, the
// obstacle world, and the physics synchronizer end to end.
package main

import (
	"log"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"netphys/factory"
	"netphys/netevent"
	"netphys/netsync"
	"netphys/obstacle"
	"netphys/physics2d"
	"netphys/session"
	"netphys/transport"
	"netphys/transport/wstransport"
	"netphys/world"
)

const (
	listenAddr = "127.0.0.1:18080"
	tickRate   = 30 * time.Millisecond
)

// peer bundles everything one side of the demo needs: its transport, its
// controller, its world, and its synchronizer, all driven by the same tick.
type peer struct {
	name     string
	tr       transport.Transport
	ctrl     *session.Controller
	world    *world.World
	sync     *netsync.Synchronizer
	uidBound bool
}

func buildPeer(name string, t transport.Transport, isHost bool, logger *log.Logger) *peer {
	cfg := transport.Config{
		LobbyAddress: "127.0.0.1",
		LobbyPort:    18081,
		MaxPlayers:   2,
		APIVersion:   "1.0",
	}
	ctrl := session.NewController(t, cfg, logger)

	engine := physics2d.NewStubEngine()
	bounds := physics2d.AABB{Min: mgl32.Vec2{-500, -500}, Max: mgl32.Vec2{500, 500}}
	w := world.New(engine, bounds, 0, isHost, logger)

	factories := factory.NewRegistry()
	factories.Register(1, func(params []byte) (*obstacle.Obstacle, factory.Node) {
		return obstacle.NewObstacle(obstacle.BodyDynamic, mgl32.Vec2{0, 0}), nil
	})

	return &peer{name: name, tr: t, ctrl: ctrl, world: w, sync: netsync.New(w, factories, isHost, logger)}
}

// bindShortUID pushes the handshake-assigned short UID into the peer's world
// once, the moment it stops being zero. AddObstacle refuses to run before
// this happens.
func (p *peer) bindShortUID() {
	if p.uidBound {
		return
	}
	if uid := p.ctrl.ShortUID(); uid != 0 {
		p.world.SetShortUID(uid)
		p.uidBound = true
	}
}

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	host := buildPeer("host", wstransport.NewHost(listenAddr, logger), true, logger)
	client := buildPeer("client", wstransport.NewClient(listenAddr, logger), false, logger)

	if st := host.ctrl.ConnectAsHost(); st != session.Connected {
		logger.Fatalf("[demo] host failed to connect: %s", st)
	}
	if st := client.ctrl.ConnectAsClient(""); st != session.Connected {
		logger.Fatalf("[demo] client failed to connect: %s", st)
	}

	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	readyDeclared := map[string]bool{}
	gameStarted := false
	spawned := false

	for range ticker.C {
		host.ctrl.UpdateNet()
		client.ctrl.UpdateNet()

		if !gameStarted && host.tr.GetNumPlayers() == 2 {
			host.ctrl.StartGame()
			gameStarted = true
		}

		for _, p := range []*peer{host, client} {
			p.bindShortUID()
			if p.ctrl.State() == session.Handshake && !readyDeclared[p.name] {
				p.ctrl.MarkReady()
				readyDeclared[p.name] = true
				logger.Printf("[demo] %s ready, short uid %d", p.name, p.ctrl.ShortUID())
			}
		}

		if host.ctrl.State() == session.InGame && !spawned {
			host.ctrl.EnablePhysics(host.sync)
			client.ctrl.EnablePhysics(client.sync)
			id := host.sync.AddSharedObstacle(1, nil)
			logger.Printf("[demo] host spawned shared obstacle %#x", uint64(id))
			spawned = true
		}

		if host.ctrl.State() == session.InGame && host.ctrl.CurrentTick() > 300 {
			logger.Printf("[demo] stats host=%+v client=%+v", host.sync.Stats(), client.sync.Stats())
			return
		}

		drainCustom(host.ctrl, logger)
		drainCustom(client.ctrl, logger)
	}
}

// drainCustom pops any non-physics event off a controller's inbound queue,
// which in this demo never receives any — it exists to show how a host
// application reads custom traffic alongside the physics core.
func drainCustom(c *session.Controller, logger *log.Logger) {
	for {
		e, ok := c.PopInEvent()
		if !ok {
			return
		}
		if _, isGameState := e.(*netevent.GameStateEvent); isGameState {
			continue
		}
		logger.Printf("[demo] custom event drained: %T", e)
	}
}
