package session

import "netphys/netevent"

// Synchronizer is the physics synchronizer's face to the session
// controller. The controller never reaches into obstacle or snapshot
// internals; it only drives the tick and routes the two physics event
// variants to it.
type Synchronizer interface {
	// Tick packs this peer's outbound snapshot (if host) and object-event
	// deltas, then runs the fixed update (ownership lease decay and
	// interpolation advance). Packed events accumulate for DrainOutbound.
	Tick(isHost bool)
	DrainOutbound() []netevent.Event
	HandleObjEvent(e *netevent.PhysObjEvent)
	HandleSyncEvent(e *netevent.PhysSyncEvent)
}
