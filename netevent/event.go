// Package netevent implements the typed event layer: a closed tagged
// variant with a stable tag table (Registry), the wire-format payloads for
// the three built-in variants, and the Event interface every payload,
// built-in or custom, must satisfy.
package netevent

// Event is satisfied by every payload that can travel wrapped in a session
// envelope. Serialize/Deserialize only ever see the payload bytes — the
// one-byte tag and session-tick prefix are handled by the session package.
//
// Metadata (sender, event timestamp, receive timestamp) is not part of the
// payload; it is attached by the session controller on inbound events via
// SetMeta and is meaningless on events a caller constructs locally to send.
type Event interface {
	// Reset returns the event to its zero value, so a registered prototype
	// can be reused as a template for a freshly received instance.
	Reset()
	// Serialize encodes the event's fields, excluding metadata.
	Serialize() []byte
	// Deserialize decodes fields previously written by Serialize.
	Deserialize(payload []byte)
}

// Meta holds the out-of-band fields the session controller attaches to an
// inbound event. It is embedded by every built-in variant and is the
// expected shape for custom events that want the same bookkeeping.
type Meta struct {
	SourceID         string
	EventTimestamp   uint64
	ReceiveTimestamp uint64
}

// SetMeta records who sent this event and when, as observed by the local
// session controller. It never touches the payload.
func (m *Meta) SetMeta(sourceID string, eventTimestamp, receiveTimestamp uint64) {
	m.SourceID = sourceID
	m.EventTimestamp = eventTimestamp
	m.ReceiveTimestamp = receiveTimestamp
}

// IsEcho reports whether this event was received with an empty sender ID,
// which the transport uses to signal a locally-originated loopback. Both
// PhysSyncEvent and PhysObjEvent handling must reject these.
func (m *Meta) IsEcho() bool {
	return m.SourceID == ""
}

// Timestamp returns the sender's session-relative tick, as recorded by
// SetMeta on an inbound event.
func (m *Meta) Timestamp() uint64 {
	return m.EventTimestamp
}

// Sender returns the originating peer ID recorded by SetMeta.
func (m *Meta) Sender() string {
	return m.SourceID
}
