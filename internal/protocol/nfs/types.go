package nfs

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfs2d/internal/protocol/xdr"
	"github.com/marmos91/nfs2d/internal/vfs"
)

// TimeVal is the NFSv2 timestamp: seconds and microseconds.
type TimeVal struct {
	Seconds  uint32
	Useconds uint32
}

// FileAttr is the NFSv2 fattr structure (RFC 1094 Section 2.3.5).
// All fields are 32-bit on the wire; 64-bit filesystem values are clamped.
type FileAttr struct {
	Type      uint32
	Mode      uint32
	Nlink     uint32
	UID       uint32
	GID       uint32
	Size      uint32
	BlockSize uint32
	Rdev      uint32
	Blocks    uint32
	Fsid      uint32
	Fileid    uint32
	Atime     TimeVal
	Mtime     TimeVal
	Ctime     TimeVal
}

// ObjectToFileAttr shapes a resolved filesystem object into NFSv2 attributes.
func ObjectToFileAttr(obj *vfs.Object) *FileAttr {
	var ftype uint32
	switch obj.Kind {
	case vfs.KindRegular:
		ftype = FileTypeRegular
	case vfs.KindDirectory:
		ftype = FileTypeDirectory
	case vfs.KindSymlink:
		ftype = FileTypeSymlink
	default:
		ftype = FileTypeNone
	}

	return &FileAttr{
		Type:      ftype,
		Mode:      obj.Mode,
		Nlink:     obj.Nlink,
		UID:       obj.UID,
		GID:       obj.GID,
		Size:      clampSize(obj.Size),
		BlockSize: 4096,
		Rdev:      obj.Rdev,
		Blocks:    clampSize((obj.Size + 511) / 512),
		Fsid:      uint32(obj.Dev),
		Fileid:    uint32(obj.Ino),
		Atime:     TimeVal{Seconds: uint32(obj.Atime.Unix()), Useconds: uint32(obj.Atime.Nanosecond() / 1000)},
		Mtime:     TimeVal{Seconds: uint32(obj.Mtime.Unix()), Useconds: uint32(obj.Mtime.Nanosecond() / 1000)},
		Ctime:     TimeVal{Seconds: uint32(obj.Ctime.Unix()), Useconds: uint32(obj.Ctime.Nanosecond() / 1000)},
	}
}

func clampSize(v uint64) uint32 {
	if v > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(v)
}

// encodeFileAttr writes the 17-word fattr in RFC 1094 field order.
func encodeFileAttr(buf *bytes.Buffer, attr *FileAttr) error {
	fields := []uint32{
		attr.Type, attr.Mode, attr.Nlink, attr.UID, attr.GID,
		attr.Size, attr.BlockSize, attr.Rdev, attr.Blocks,
		attr.Fsid, attr.Fileid,
		attr.Atime.Seconds, attr.Atime.Useconds,
		attr.Mtime.Seconds, attr.Mtime.Useconds,
		attr.Ctime.Seconds, attr.Ctime.Useconds,
	}
	for _, f := range fields {
		if err := xdr.EncodeUint32(buf, f); err != nil {
			return fmt.Errorf("encode fattr: %w", err)
		}
	}
	return nil
}
