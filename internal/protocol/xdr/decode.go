package xdr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ============================================================================
// XDR Decoding Helpers - Wire Format → Go Values
// ============================================================================
//
// Per RFC 4506 all items are big-endian and aligned to 4-byte boundaries.
// Variable-length data is padded with 0-3 zero bytes on the wire; decoders
// consume that padding so the reader is always left on an item boundary.

// DecodeUint32 decodes a 4-byte big-endian unsigned integer.
func DecodeUint32(reader io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(reader, binary.BigEndian, &v); err != nil {
		return 0, truncated(err)
	}
	return v, nil
}

// DecodeUint64 decodes an 8-byte big-endian unsigned integer (XDR hyper).
func DecodeUint64(reader io.Reader) (uint64, error) {
	var v uint64
	if err := binary.Read(reader, binary.BigEndian, &v); err != nil {
		return 0, truncated(err)
	}
	return v, nil
}

// DecodeBool decodes an XDR boolean (uint32, 0=false, anything else=true).
func DecodeBool(reader io.Reader) (bool, error) {
	v, err := DecodeUint32(reader)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// DecodeFixedOpaque decodes fixed-length opaque data of exactly length bytes
// plus wire padding to the next 4-byte boundary.
//
// NFSv2 file handles use this form: the 32 handle bytes appear on the wire
// with no length prefix (RFC 1094 "fhandle").
func DecodeFixedOpaque(reader io.Reader, length uint32) ([]byte, error) {
	data := make([]byte, length)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, truncated(err)
	}
	if err := skipPadding(reader, length); err != nil {
		return nil, err
	}
	return data, nil
}

// DecodeOpaque decodes XDR variable-length opaque data.
//
// Format: [length:uint32][data:length bytes][padding:0-3 bytes].
// A declared length above maxLength fails with ErrLengthExceeded before any
// allocation, protecting against hostile length fields.
func DecodeOpaque(reader io.Reader, maxLength uint32) ([]byte, error) {
	length, err := DecodeUint32(reader)
	if err != nil {
		return nil, err
	}
	if length > maxLength {
		return nil, fmt.Errorf("%w: %d > %d", ErrLengthExceeded, length, maxLength)
	}
	return DecodeFixedOpaque(reader, length)
}

// DecodeString decodes an XDR variable-length string, bounded by maxLength.
//
// Strings use the same wire form as opaque data, interpreted as UTF-8.
func DecodeString(reader io.Reader, maxLength uint32) (string, error) {
	data, err := DecodeOpaque(reader, maxLength)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeArray decodes an XDR counted array by invoking decodeElem once per
// element. The declared count is bounded by maxElements.
func DecodeArray[T any](reader io.Reader, maxElements uint32, decodeElem func(io.Reader) (T, error)) ([]T, error) {
	count, err := DecodeUint32(reader)
	if err != nil {
		return nil, err
	}
	if count > maxElements {
		return nil, fmt.Errorf("%w: %d > %d", ErrLengthExceeded, count, maxElements)
	}

	elems := make([]T, 0, count)
	for range count {
		elem, err := decodeElem(reader)
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	return elems, nil
}

// skipPadding consumes the 0-3 padding bytes that follow length bytes of
// variable or fixed opaque data.
func skipPadding(reader io.Reader, length uint32) error {
	padding := (4 - (length % 4)) % 4
	if padding == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, reader, int64(padding)); err != nil {
		return truncated(err)
	}
	return nil
}

// truncated folds the io error zoo (EOF, ErrUnexpectedEOF) into ErrTruncated
// while keeping the original error in the chain.
func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return err
}
