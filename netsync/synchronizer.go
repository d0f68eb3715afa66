// Package netsync implements the physics synchronizer: the component that
// turns a World's dirty bits and ownership leases into outbound
// PhysObjEvent/PhysSyncEvent traffic, and applies the inbound side of the
// same two variants back onto the World. It satisfies session.Synchronizer
// so a Controller can drive it without importing this package.
package netsync

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"netphys/factory"
	"netphys/netevent"
	"netphys/obstacle"
	"netphys/world"
)

// SyncKind selects which subset of shared obstacles pack_phys_sync covers.
type SyncKind int

const (
	OverrideFullSync SyncKind = iota
	FullSync
	PrioSync
)

const (
	prioTopK         = 60
	prioWindow       = 20
	interpMaxSteps   = 30
	interpAngleScale = 10
)

// LinkNodeFunc attaches a factory-produced render node to a newly created
// shared obstacle. UnlinkNodeFunc detaches it again on deletion. Both are
// optional; Synchronizer calls them synchronously from inside
// AddSharedObstacle/RemoveSharedObstacle/HandleObjEvent and never otherwise
// touches rendering.
type LinkNodeFunc func(id obstacle.ID, node factory.Node)
type UnlinkNodeFunc func(id obstacle.ID)

// interpTarget is the cached descriptor a PhysSyncEvent installs for one
// obstacle. P0..P2 are retained for parity with spline/PID interpolation
// modes that are not implemented here; only P3 (the target position) feeds
// the default linear mode.
type interpTarget struct {
	curStep, numSteps uint32

	p0, p1, p2, p3 mgl32.Vec2

	targetLinVel     mgl32.Vec2
	targetAngle      float32
	targetAngularVel float32

	integralAcc     float32
	integralSamples int
}

// Stats holds the debug counters the fixed update maintains.
type Stats struct {
	ItprCount uint64
	OvrdCount uint64
	StepSum   uint64
}

// Synchronizer is the Physics Synchronizer for one peer. It is not safe for
// concurrent use; like World, it is only ever touched from inside the
// session controller's fixed tick.
type Synchronizer struct {
	world      *world.World
	factories  *factory.Registry
	isHost     bool
	logger     *log.Logger
	linkNode   LinkNodeFunc
	unlinkNode UnlinkNodeFunc

	interp map[obstacle.ID]*interpTarget

	rotationCursor int

	outbound []netevent.Event

	stats Stats
}

// New returns a Synchronizer bound to w and factories. isHost mirrors the
// world's own role and decides which side of the ownership-acquire/release
// asymmetry applies. Whether Tick packs a snapshot is decided by the isHost
// argument passed to Tick itself.
func New(w *world.World, factories *factory.Registry, isHost bool, logger *log.Logger) *Synchronizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Synchronizer{
		world:     w,
		factories: factories,
		isHost:    isHost,
		logger:    logger,
		interp:    make(map[obstacle.ID]*interpTarget),
	}
}

// SetRenderHooks installs the optional factory-node link/unlink callbacks.
func (s *Synchronizer) SetRenderHooks(link LinkNodeFunc, unlink UnlinkNodeFunc) {
	s.linkNode = link
	s.unlinkNode = unlink
}

// Stats returns a copy of the current debug counters.
func (s *Synchronizer) Stats() Stats {
	return s.stats
}

// Tick runs one synchronizer pass, in the order the original controller
// runs it: host-only pack_phys_sync(FULL_SYNC), then pack_phys_obj, then
// the fixed-update lease decay and interpolation advance. Clients pack no
// snapshot in Tick at all — a caller that wants OVERRIDE_FULL_SYNC or an
// out-of-band FULL_SYNC on demand should call PackPhysSync directly.
func (s *Synchronizer) Tick(isHost bool) {
	if isHost {
		s.PackPhysSync(FullSync)
	}
	s.PackPhysObj()
	s.fixedUpdate()
}

// DrainOutbound returns and clears the events accumulated since the last
// drain.
func (s *Synchronizer) DrainOutbound() []netevent.Event {
	out := s.outbound
	s.outbound = nil
	return out
}

func (s *Synchronizer) queue(e netevent.Event) {
	s.outbound = append(s.outbound, e)
}
