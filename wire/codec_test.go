package wire

import "testing"

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter(0)
	w.WriteBool(true)
	w.WriteByte(0x5A)
	w.WriteUint32(0x01020304)
	w.WriteFloat(1.5)

	if got := w.Len(); got != 10 {
		t.Fatalf("expected 10 bytes written, got %d", got)
	}

	r := NewReader(w.Bytes())
	if b := r.ReadBool(); b != true {
		t.Errorf("ReadBool() = %v, want true", b)
	}
	if b := r.ReadByte(); b != 0x5A {
		t.Errorf("ReadByte() = %#x, want 0x5A", b)
	}
	if u := r.ReadUint32(); u != 0x01020304 {
		t.Errorf("ReadUint32() = %#x, want 0x01020304", u)
	}
	if f := r.ReadFloat(); f != 1.5 {
		t.Errorf("ReadFloat() = %v, want 1.5", f)
	}
	if r.Overran() {
		t.Error("unexpected overrun on a fully populated buffer")
	}
}

func TestPrimitiveRoundTrips(t *testing.T) {
	w := NewWriter(0)
	w.WriteUint16(0xBEEF)
	w.WriteUint64(0x0102030405060708)
	w.WriteInt32(-42)

	r := NewReader(w.Bytes())
	if v := r.ReadUint16(); v != 0xBEEF {
		t.Errorf("ReadUint16() = %#x, want 0xBEEF", v)
	}
	if v := r.ReadUint64(); v != 0x0102030405060708 {
		t.Errorf("ReadUint64() = %#x, want 0x0102030405060708", v)
	}
	if v := r.ReadInt32(); v != -42 {
		t.Errorf("ReadInt32() = %d, want -42", v)
	}
}

func TestReaderOverreadReturnsZeroValue(t *testing.T) {
	r := NewReader([]byte{0x01})
	if got := r.ReadUint32(); got != 0 {
		t.Errorf("over-read ReadUint32() = %d, want 0", got)
	}
	if !r.Overran() {
		t.Error("expected Overran() to be true after reading past the buffer")
	}
	if got := r.ReadBool(); got != false {
		t.Errorf("over-read ReadBool() = %v, want false", got)
	}
}

func TestRewriteFirstUint32(t *testing.T) {
	w := NewWriter(0)
	w.WriteUint32(0) // reserved length prefix
	w.WriteBytes([]byte{1, 2, 3, 4, 5})
	w.RewriteFirstUint32(5)

	r := NewReader(w.Bytes())
	if got := r.ReadUint32(); got != 5 {
		t.Errorf("length prefix = %d, want 5", got)
	}
	if got := r.ReadBytes(5); len(got) != 5 {
		t.Errorf("payload length = %d, want 5", len(got))
	}
}

func TestWriteByteVectorAndReadRemaining(t *testing.T) {
	w := NewWriter(0)
	w.WriteByte(0xFF)
	w.WriteBytes([]byte{0xAA, 0xBB, 0xCC})

	r := NewReader(w.Bytes())
	_ = r.ReadByte()
	rest := r.ReadRemaining()
	if len(rest) != 3 || rest[0] != 0xAA || rest[2] != 0xCC {
		t.Errorf("ReadRemaining() = %v, want [0xAA 0xBB 0xCC]", rest)
	}
}
