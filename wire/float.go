package wire

import "math"

// float32ToBits and bitsToFloat32 go through an explicit bit-cast rather
// than any form of memory reinterpretation, so the wire format never
// depends on the host's native float representation.
func float32ToBits(f float32) uint32 {
	return math.Float32bits(f)
}

func bitsToFloat32(u uint32) float32 {
	return math.Float32frombits(u)
}
