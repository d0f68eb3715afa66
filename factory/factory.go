// Package factory implements the obstacle factory registry: constructors
// keyed by a stable ID that turn serialized parameters into a freshly built
// obstacle (and, optionally, a render node), used to replay an inbound
// OBJ_CREATION on the receiving peer.
package factory

import (
	"netphys/internal/assert"
	"netphys/obstacle"
)

// Node is an opaque renderable handle; the factory never inspects it, only
// threads it back to the caller for linking into a scene graph.
type Node any

// Func builds an obstacle (and optionally a render node) from the bytes
// carried by an OBJ_CREATION event.
type Func func(params []byte) (*obstacle.Obstacle, Node)

// Registry maps factory IDs to constructors. IDs are assigned by the
// caller, not derived from registration order, since they must stay stable
// across a build even as factories are added or reordered in source.
type Registry struct {
	funcs map[uint32]Func
}

// NewRegistry returns an empty factory registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[uint32]Func)}
}

// Register installs fn under id. Re-registering the same id is a
// precondition violation: factory IDs are expected to be assigned once and
// shared by both peers' source.
func (r *Registry) Register(id uint32, fn Func) {
	_, exists := r.funcs[id]
	assert.That(!exists, "factory id %d already registered", id)
	r.funcs[id] = fn
}

// Create invokes the constructor registered under id. An unknown factory ID
// is a precondition violation: the inbound OBJ_CREATION referenced a
// factory this peer never registered, which means the two peers' source
// has drifted.
func (r *Registry) Create(id uint32, params []byte) (*obstacle.Obstacle, Node) {
	fn, ok := r.funcs[id]
	assert.That(ok, "unknown factory id %d", id)
	return fn(params)
}
