// Package wire implements the lightweight byte codec used to put typed
// network events on the wire. It trades the type safety of a full
// serializer for a compact, allocation-light encoding: callers must know
// the shape of what they wrote in order to read it back.
package wire

import "encoding/binary"

// Writer appends primitives to an owned byte buffer. The zero value is
// ready to use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with capacity pre-reserved for cap bytes.
func NewWriter(cap int) *Writer {
	return &Writer{buf: make([]byte, 0, cap)}
}

// Bytes returns the accumulated buffer. The slice aliases the Writer's
// internal storage; callers that keep it past further writes should copy.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len reports the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteBool appends a single byte, 1 for true and 0 for false.
func (w *Writer) WriteBool(b bool) {
	if b {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// WriteByte appends a single raw byte.
func (w *Writer) WriteByte(b byte) {
	w.buf = append(w.buf, b)
}

// WriteBytes appends a raw byte slice verbatim, with no length prefix.
func (w *Writer) WriteBytes(v []byte) {
	w.buf = append(w.buf, v...)
}

// WriteUint16 appends a u16 in network byte order.
func (w *Writer) WriteUint16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteUint32 appends a u32 in network byte order.
func (w *Writer) WriteUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteUint64 appends a u64 in network byte order.
func (w *Writer) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteInt32 appends an i32 in network byte order.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteFloat appends an f32, bit-cast to a u32 before the endian swap so
// that the wire format never depends on the host's native float layout.
func (w *Writer) WriteFloat(v float32) {
	w.WriteUint32(float32ToBits(v))
}

// RewriteFirstUint32 overwrites the first four bytes of the buffer with v.
// Used by callers that reserve a length prefix up front and patch it in
// once the payload size is known.
func (w *Writer) RewriteFirstUint32(v uint32) {
	if len(w.buf) < 4 {
		return
	}
	binary.BigEndian.PutUint32(w.buf[0:4], v)
}

// Reader consumes a borrowed byte buffer with a cursor. Reads past the end
// of the buffer return the primitive's zero value rather than raising, and
// once a read has overrun, every later read returns the zero value too;
// callers that care should check Remaining() or Overran().
type Reader struct {
	buf     []byte
	cursor  int
	overran bool
}

// NewReader wraps buf for sequential reads. buf is not copied.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining reports how many unread bytes are left.
func (r *Reader) Remaining() int {
	n := len(r.buf) - r.cursor
	if n < 0 {
		return 0
	}
	return n
}

// Overran reports whether any read has gone past the end of the buffer.
func (r *Reader) Overran() bool {
	return r.overran
}

func (r *Reader) take(n int) []byte {
	if r.overran || r.cursor+n > len(r.buf) {
		r.overran = true
		return nil
	}
	out := r.buf[r.cursor : r.cursor+n]
	r.cursor += n
	return out
}

// ReadBool reads one byte, returning false on over-read.
func (r *Reader) ReadBool() bool {
	b := r.take(1)
	if b == nil {
		return false
	}
	return b[0] != 0
}

// ReadByte reads one raw byte, returning 0 on over-read.
func (r *Reader) ReadByte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// ReadBytes reads n raw bytes, returning nil on over-read.
func (r *Reader) ReadBytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// ReadRemaining reads and returns everything left unread.
func (r *Reader) ReadRemaining() []byte {
	return r.ReadBytes(r.Remaining())
}

// ReadUint16 reads a u16, returning 0 on over-read.
func (r *Reader) ReadUint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// ReadUint32 reads a u32, returning 0 on over-read.
func (r *Reader) ReadUint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// ReadUint64 reads a u64, returning 0 on over-read.
func (r *Reader) ReadUint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// ReadInt32 reads an i32, returning 0 on over-read.
func (r *Reader) ReadInt32() int32 {
	return int32(r.ReadUint32())
}

// ReadFloat reads an f32, returning 0 on over-read.
func (r *Reader) ReadFloat() float32 {
	return bitsToFloat32(r.ReadUint32())
}
