// Package archive implements the flat byte archive used to persist
// transformer state.
//
// An archive is an append-only, ordered byte sequence. Primitives are written
// little-endian at fixed width; bools take one byte (0 or 1); strings are a
// uint32 byte length followed by the UTF-8 bytes. The layout carries no
// version or type information: a Reader must consume exactly the sequence of
// primitives the Writer appended.
//
//	w := archive.NewWriter()
//	w.WriteBool(true)
//	archive.WriteValue(w, int64(42))
//	buf := w.Bytes()
//
//	r := archive.NewReader(buf)
//	present, _ := r.ReadBool()
//	v, _ := archive.ReadValue[int64](r)
//	err := r.Done()
package archive

import (
	"encoding/binary"
	"math"
)

// Engine combines byte order read and append operations.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// DefaultEngine is the byte order used by every archive.
var DefaultEngine Engine = binary.LittleEndian

// Writer appends primitives to an archive.
type Writer struct {
	buf    []byte
	engine Engine
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{engine: DefaultEngine}
}

// WriteBool appends a one-byte bool.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
		return
	}
	w.buf = append(w.buf, 0)
}

// WriteUint8 appends a byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends a uint16.
func (w *Writer) WriteUint16(v uint16) {
	w.buf = w.engine.AppendUint16(w.buf, v)
}

// WriteUint32 appends a uint32.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = w.engine.AppendUint32(w.buf, v)
}

// WriteUint64 appends a uint64.
func (w *Writer) WriteUint64(v uint64) {
	w.buf = w.engine.AppendUint64(w.buf, v)
}

// WriteInt8 appends an int8.
func (w *Writer) WriteInt8(v int8) {
	w.WriteUint8(uint8(v)) //nolint:gosec
}

// WriteInt16 appends an int16.
func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v)) //nolint:gosec
}

// WriteInt32 appends an int32.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v)) //nolint:gosec
}

// WriteInt64 appends an int64.
func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v)) //nolint:gosec
}

// WriteFloat32 appends the IEEE-754 bits of v.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends the IEEE-754 bits of v.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// WriteString appends a uint32 length prefix followed by the bytes of s.
func (w *Writer) WriteString(s string) {
	w.WriteUint32(uint32(len(s))) //nolint:gosec
	w.buf = append(w.buf, s...)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns a copy of the archive. Later writes do not affect it.
func (w *Writer) Bytes() []byte {
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	return out
}
