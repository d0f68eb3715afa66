package netevent

import "reflect"

// Tag is the stable 1-byte wire identifier for a registered event variant.
type Tag = byte

// Registry maintains an ordered list of prototype event instances; the
// slice index is the variant's stable tag. Registration is idempotent: a
// type already registered keeps its original tag.
//
// The host must register the built-in GameStateEvent, PhysSyncEvent, and
// PhysObjEvent variants in that fixed order at the start of every session,
// before any custom registrations, so tags stay stable across peers that
// share source (see RegisterBuiltins).
type Registry struct {
	prototypes []Event
	byType     map[reflect.Type]Tag
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[reflect.Type]Tag)}
}

// Register adds proto as a new variant, or is a no-op if an instance of the
// same concrete type is already registered. It returns the variant's tag.
func (r *Registry) Register(proto Event) Tag {
	t := reflect.TypeOf(proto)
	if tag, ok := r.byType[t]; ok {
		return tag
	}
	tag := Tag(len(r.prototypes))
	r.prototypes = append(r.prototypes, proto)
	r.byType[t] = tag
	return tag
}

// TagOf returns the tag registered for an instance of e's concrete type.
func (r *Registry) TagOf(e Event) (Tag, bool) {
	tag, ok := r.byType[reflect.TypeOf(e)]
	return tag, ok
}

// Valid reports whether tag refers to a registered prototype.
func (r *Registry) Valid(tag Tag) bool {
	return int(tag) < len(r.prototypes)
}

// Blank constructs a fresh instance of the variant registered under tag by
// cloning the prototype's concrete type, resetting it, and feeding it the
// given payload. It reports false if tag is unregistered.
func (r *Registry) Blank(tag Tag, payload []byte) (Event, bool) {
	if !r.Valid(tag) {
		return nil, false
	}
	proto := r.prototypes[tag]
	clone := reflect.New(reflect.TypeOf(proto).Elem()).Interface().(Event)
	clone.Reset()
	clone.Deserialize(payload)
	return clone, true
}

// RegisterBuiltins registers GameStateEvent, PhysSyncEvent, and
// PhysObjEvent in that fixed order. It must be called at the start of
// every session, before any custom registrations, so that tags line up
// across peers sharing source. Per §8 Testable property 2: this always
// yields GameStateEvent -> 0, PhysSyncEvent -> 1, PhysObjEvent -> 2.
func (r *Registry) RegisterBuiltins() {
	r.Register(&GameStateEvent{})
	r.Register(&PhysSyncEvent{})
	r.Register(&PhysObjEvent{})
}
