package vfs

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/marmos91/nfs2d/internal/handle"
)

// Kind classifies a filesystem object for protocol purposes.
type Kind int

const (
	KindOther Kind = iota
	KindRegular
	KindDirectory
	KindSymlink
)

func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// Object is the transient result of a resolution: a live filesystem object
// together with the identity and attribute fields the protocol needs.
// It is produced per request and never cached.
type Object struct {
	Path string

	Dev   uint64
	Ino   uint64
	Mode  uint32
	UID   uint32
	GID   uint32
	Size  uint64
	Nlink uint32
	Rdev  uint32

	Atime time.Time
	Mtime time.Time
	Ctime time.Time

	Kind Kind
}

// Handle packs the object's identity tuple into a file handle.
func (o *Object) Handle() []byte {
	return handle.Encode(handle.Handle{
		Dev:  o.Dev,
		Ino:  o.Ino,
		Mode: o.Mode,
		UID:  o.UID,
		GID:  o.GID,
	})
}

// Matches reports whether the object's identity agrees with a decoded handle.
// A (dev, ino) match with diverging mode/uid/gid is treated as stale by the
// resolver, not silently trusted.
func (o *Object) Matches(h handle.Handle) bool {
	return o.Dev == h.Dev && o.Ino == h.Ino
}

// Stat lstats path and builds an Object. Symlinks are described as
// themselves, never followed.
func Stat(path string) (*Object, error) {
	return stat(path)
}

func stat(path string) (*Object, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return nil, fmt.Errorf("lstat %s: %w", path, err)
	}
	return objectFromStat(path, &st), nil
}

func objectFromStat(path string, st *unix.Stat_t) *Object {
	var kind Kind
	switch st.Mode & unix.S_IFMT {
	case unix.S_IFREG:
		kind = KindRegular
	case unix.S_IFDIR:
		kind = KindDirectory
	case unix.S_IFLNK:
		kind = KindSymlink
	default:
		kind = KindOther
	}

	return &Object{
		Path:  path,
		Dev:   uint64(st.Dev),
		Ino:   uint64(st.Ino),
		Mode:  uint32(st.Mode),
		UID:   st.Uid,
		GID:   st.Gid,
		Size:  uint64(st.Size),
		Nlink: uint32(st.Nlink),
		Rdev:  uint32(st.Rdev),
		Atime: time.Unix(st.Atim.Unix()),
		Mtime: time.Unix(st.Mtim.Unix()),
		Ctime: time.Unix(st.Ctim.Unix()),
		Kind:  kind,
	}
}
