// Package handle implements the fixed-size NFSv2 file handle scheme.
//
// A handle packs the identity of a filesystem object - device id, inode
// number, mode, uid and gid - directly into the 32 opaque bytes the protocol
// mandates. Because the identity is self-contained, no handle table is kept
// on disk or in memory: a server restart does not invalidate client-held
// handles as long as the underlying object's identity fields are unchanged.
package handle

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Size is the fixed handle length mandated by NFSv2 (RFC 1094 FHSIZE).
const Size = 32

// ErrInvalidHandle is returned when a handle is not exactly Size bytes.
// Any bit pattern of the correct length is structurally valid; whether it
// still names a live object is established separately by resolution.
var ErrInvalidHandle = errors.New("invalid file handle")

// Handle is the identity tuple packed into a file handle.
type Handle struct {
	Dev  uint64
	Ino  uint64
	Mode uint32
	UID  uint32
	GID  uint32
}

// Byte layout of the 32-byte handle. The last 4 bytes are zero padding.
const (
	offDev  = 0
	offIno  = 8
	offMode = 16
	offUID  = 20
	offGID  = 24
)

// Encode packs the identity tuple into a 32-byte handle.
func Encode(h Handle) []byte {
	buf := make([]byte, Size)
	binary.BigEndian.PutUint64(buf[offDev:], h.Dev)
	binary.BigEndian.PutUint64(buf[offIno:], h.Ino)
	binary.BigEndian.PutUint32(buf[offMode:], h.Mode)
	binary.BigEndian.PutUint32(buf[offUID:], h.UID)
	binary.BigEndian.PutUint32(buf[offGID:], h.GID)
	return buf
}

// Decode unpacks a 32-byte handle back into the identity tuple.
// It fails only when the input is not exactly Size bytes.
func Decode(fh []byte) (Handle, error) {
	if len(fh) != Size {
		return Handle{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidHandle, len(fh), Size)
	}
	return Handle{
		Dev:  binary.BigEndian.Uint64(fh[offDev:]),
		Ino:  binary.BigEndian.Uint64(fh[offIno:]),
		Mode: binary.BigEndian.Uint32(fh[offMode:]),
		UID:  binary.BigEndian.Uint32(fh[offUID:]),
		GID:  binary.BigEndian.Uint32(fh[offGID:]),
	}, nil
}
