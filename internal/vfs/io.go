package vfs

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ReadLink returns the target of a symbolic link.
func (r *Resolver) ReadLink(obj *Object) (string, error) {
	if obj.Kind != KindSymlink {
		return "", ErrNotSymlink
	}
	target, err := os.Readlink(obj.Path)
	if err != nil {
		return "", fmt.Errorf("readlink %s: %w", obj.Path, err)
	}
	return target, nil
}

// ReadFile reads up to count bytes from a regular file starting at offset.
// Reads at or beyond end-of-file return an empty slice and no error; short
// reads at the tail are not an error either.
func (r *Resolver) ReadFile(obj *Object, offset uint64, count uint32) ([]byte, error) {
	if obj.Kind == KindDirectory {
		return nil, ErrNotDirectory
	}

	f, err := os.Open(obj.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", obj.Path, err)
	}
	defer f.Close()

	buf := make([]byte, count)
	n, err := f.ReadAt(buf, int64(offset))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read %s at %d: %w", obj.Path, offset, err)
	}
	return buf[:n], nil
}

// FSStat is the filesystem-level space information behind an export,
// shaped for the NFSv2 STATFS reply.
type FSStat struct {
	TransferSize uint32
	BlockSize    uint32
	Blocks       uint32
	BlocksFree   uint32
	BlocksAvail  uint32
}

// Statfs queries space statistics for the mount underlying path.
func (r *Resolver) Statfs(path string, transferSize uint32) (*FSStat, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", path, err)
	}
	return &FSStat{
		TransferSize: transferSize,
		BlockSize:    clampUint32(uint64(st.Bsize)),
		Blocks:       clampUint32(st.Blocks),
		BlocksFree:   clampUint32(st.Bfree),
		BlocksAvail:  clampUint32(st.Bavail),
	}, nil
}

func clampUint32(v uint64) uint32 {
	if v > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(v)
}
