package archive

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/YuminosukeSato/featurizer/pkg/errors"
)

// Reader consumes primitives from an archive in the order they were written.
type Reader struct {
	buf    []byte
	offset int
	engine Engine
}

// NewReader creates a Reader over buf. The Reader does not modify buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf, engine: DefaultEngine}
}

func (r *Reader) take(op string, n int) ([]byte, error) {
	if remaining := len(r.buf) - r.offset; remaining < n {
		return nil, errors.NewArchiveError(op, r.offset, n, remaining)
	}
	b := r.buf[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// ReadBool reads a one-byte bool. Bytes other than 0 and 1 are rejected.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.take("ReadBool", 1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.NewMalformedArchiveError("ReadBool", r.offset-1, fmt.Sprintf("invalid bool byte 0x%02x", b[0]))
	}
}

// ReadUint8 reads a byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.take("ReadUint8", 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.take("ReadUint16", 2)
	if err != nil {
		return 0, err
	}
	return r.engine.Uint16(b), nil
}

// ReadUint32 reads a uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take("ReadUint32", 4)
	if err != nil {
		return 0, err
	}
	return r.engine.Uint32(b), nil
}

// ReadUint64 reads a uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.take("ReadUint64", 8)
	if err != nil {
		return 0, err
	}
	return r.engine.Uint64(b), nil
}

// ReadInt8 reads an int8.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err //nolint:gosec
}

// ReadInt16 reads an int16.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err //nolint:gosec
}

// ReadInt32 reads an int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err //nolint:gosec
}

// ReadInt64 reads an int64.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err //nolint:gosec
}

// ReadFloat32 reads an IEEE-754 float32.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads an IEEE-754 float64.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadString reads a length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return "", err
	}
	start := r.offset
	b, err := r.take("ReadString", int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.NewMalformedArchiveError("ReadString", start, "string is not valid UTF-8")
	}
	return string(b), nil
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.offset
}

// Done returns an error if unread bytes remain.
func (r *Reader) Done() error {
	if n := r.Remaining(); n != 0 {
		return errors.NewMalformedArchiveError("Done", r.offset, fmt.Sprintf("%d trailing bytes", n))
	}
	return nil
}
