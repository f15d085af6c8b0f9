package xdr

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ============================================================================
// XDR Encoding Helpers - Go Values → Wire Format
// ============================================================================
//
// Encoding cannot fail for valid in-memory values: length bounds are the
// producing handler's responsibility, not the codec's. Errors below only
// surface if the underlying buffer write fails, which bytes.Buffer never does.

// EncodeUint32 encodes a 4-byte big-endian unsigned integer.
func EncodeUint32(buf *bytes.Buffer, v uint32) error {
	return binary.Write(buf, binary.BigEndian, v)
}

// EncodeUint64 encodes an 8-byte big-endian unsigned integer (XDR hyper).
func EncodeUint64(buf *bytes.Buffer, v uint64) error {
	return binary.Write(buf, binary.BigEndian, v)
}

// EncodeBool encodes an XDR boolean as uint32 0 or 1.
func EncodeBool(buf *bytes.Buffer, v bool) error {
	var b uint32
	if v {
		b = 1
	}
	return EncodeUint32(buf, b)
}

// EncodeFixedOpaque encodes opaque data with no length prefix, padded to a
// 4-byte boundary. Used for NFSv2 fixed-size file handles.
func EncodeFixedOpaque(buf *bytes.Buffer, data []byte) error {
	if _, err := buf.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return writePadding(buf, uint32(len(data)))
}

// EncodeOpaque encodes XDR variable-length opaque data:
// [length:uint32][data][padding to 4-byte boundary].
func EncodeOpaque(buf *bytes.Buffer, data []byte) error {
	if err := EncodeUint32(buf, uint32(len(data))); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	return EncodeFixedOpaque(buf, data)
}

// EncodeString encodes an XDR string (same wire form as variable opaque).
func EncodeString(buf *bytes.Buffer, s string) error {
	return EncodeOpaque(buf, []byte(s))
}

func writePadding(buf *bytes.Buffer, length uint32) error {
	padding := (4 - (length % 4)) % 4
	for range padding {
		if err := buf.WriteByte(0); err != nil {
			return fmt.Errorf("write padding: %w", err)
		}
	}
	return nil
}
