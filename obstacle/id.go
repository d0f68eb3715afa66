package obstacle

// ID is a 64-bit global obstacle identifier, composed of a per-peer short
// UID in the upper 32 bits and a monotonic per-peer counter in the lower 32
// bits. IDs are unique for the lifetime of a session; reuse is forbidden.
type ID uint64

// JointID has the same layout as ID but is drawn from an independent
// counter.
type JointID uint64

// InitShortUID is the sentinel upper half used for obstacles created before
// handshake, when no short UID has been assigned yet.
const InitShortUID uint32 = 0xFFFFFFFF

// MakeID composes a global ID from a short UID and a per-peer counter.
func MakeID(shortUID uint32, counter uint32) ID {
	return ID(uint64(shortUID)<<32 | uint64(counter))
}

// MakeJointID composes a joint ID from a short UID and a per-peer counter.
func MakeJointID(shortUID uint32, counter uint32) JointID {
	return JointID(uint64(shortUID)<<32 | uint64(counter))
}

// ShortUID returns the upper 32 bits of the ID, i.e. the peer that
// allocated it.
func (id ID) ShortUID() uint32 {
	return uint32(id >> 32)
}

// Counter returns the lower 32 bits of the ID.
func (id ID) Counter() uint32 {
	return uint32(id)
}

// IsInit reports whether id was allocated before handshake (upper half ==
// InitShortUID).
func (id ID) IsInit() bool {
	return id.ShortUID() == InitShortUID
}
