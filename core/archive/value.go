package archive

import "fmt"

// Scalar is the closed set of value types an archive can hold.
type Scalar interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | bool | string
}

// WriteValue appends v using the primitive matching its type.
func WriteValue[T Scalar](w *Writer, v T) {
	switch x := any(v).(type) {
	case int8:
		w.WriteInt8(x)
	case int16:
		w.WriteInt16(x)
	case int32:
		w.WriteInt32(x)
	case int64:
		w.WriteInt64(x)
	case uint8:
		w.WriteUint8(x)
	case uint16:
		w.WriteUint16(x)
	case uint32:
		w.WriteUint32(x)
	case uint64:
		w.WriteUint64(x)
	case float32:
		w.WriteFloat32(x)
	case float64:
		w.WriteFloat64(x)
	case bool:
		w.WriteBool(x)
	case string:
		w.WriteString(x)
	}
}

// ReadValue reads a value of type T written by WriteValue.
func ReadValue[T Scalar](r *Reader) (T, error) {
	var zero T
	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case int8:
		out, err = r.ReadInt8()
	case int16:
		out, err = r.ReadInt16()
	case int32:
		out, err = r.ReadInt32()
	case int64:
		out, err = r.ReadInt64()
	case uint8:
		out, err = r.ReadUint8()
	case uint16:
		out, err = r.ReadUint16()
	case uint32:
		out, err = r.ReadUint32()
	case uint64:
		out, err = r.ReadUint64()
	case float32:
		out, err = r.ReadFloat32()
	case float64:
		out, err = r.ReadFloat64()
	case bool:
		out, err = r.ReadBool()
	case string:
		out, err = r.ReadString()
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// TypeName returns the name of T, e.g. "int64".
func TypeName[T Scalar]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
