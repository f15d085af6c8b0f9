// Package vfs maps between filesystem objects and the identity tuples packed
// into file handles, without keeping any persistent index.
//
// Resolution always re-derives identity from the live filesystem. No mapping
// from handle to path survives across requests, which keeps the server
// correct under concurrent external mutation of the exported tree at the
// cost of a directory scan per handle resolution.
package vfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marmos91/nfs2d/internal/export"
	"github.com/marmos91/nfs2d/internal/handle"
	"github.com/marmos91/nfs2d/internal/logger"
)

// Default scan ceilings. A pathological tree (or a hostile handle that
// matches nothing) stops the scan with ErrScanLimit instead of pinning the
// worker on an unbounded walk.
const (
	DefaultMaxScanEntries = 262144
	DefaultMaxScanDepth   = 64
)

// Resolver performs the bidirectional mapping between filesystem objects and
// handle identity tuples. It is stateless and safe for concurrent use.
type Resolver struct {
	maxScanEntries int
	maxScanDepth   int
}

// NewResolver builds a Resolver. Zero or negative ceilings select the
// package defaults.
func NewResolver(maxScanEntries, maxScanDepth int) *Resolver {
	if maxScanEntries <= 0 {
		maxScanEntries = DefaultMaxScanEntries
	}
	if maxScanDepth <= 0 {
		maxScanDepth = DefaultMaxScanDepth
	}
	return &Resolver{
		maxScanEntries: maxScanEntries,
		maxScanDepth:   maxScanDepth,
	}
}

// ResolveRoot stats the export's root path.
func (r *Resolver) ResolveRoot(exp export.Entry) (*Object, error) {
	obj, err := stat(exp.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve export root %q: %w", exp.Name, err)
	}
	return obj, nil
}

// LookupChild looks up name directly as a directory entry of parent. This is
// an exact path join, not an inode search.
func (r *Resolver) LookupChild(parent *Object, name string) (*Object, error) {
	if parent.Kind != KindDirectory {
		return nil, ErrNotDirectory
	}
	if name == "" || name == "." {
		return stat(parent.Path)
	}
	if strings.ContainsRune(name, filepath.Separator) {
		return nil, ErrNoSuchEntry
	}
	if name == ".." {
		// Clients walk upward with "..". Clamping at Dir keeps the join
		// exact; export-boundary policy lives with the caller.
		return stat(filepath.Dir(parent.Path))
	}

	obj, err := stat(filepath.Join(parent.Path, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSuchEntry
		}
		return nil, err
	}
	return obj, nil
}

// DirEntry is one immediate child of a directory.
type DirEntry struct {
	Name   string
	Object *Object
}

// ReadDirectory enumerates the immediate children of dir in lexicographic
// order. The ordering is deterministic for an unmodified directory, which is
// what makes READDIR cookies (entry indices) stable across calls. Entries
// that disappear between listing and stat are skipped.
func (r *Resolver) ReadDirectory(dir *Object) ([]DirEntry, error) {
	if dir.Kind != KindDirectory {
		return nil, ErrNotDirectory
	}

	names, err := os.ReadDir(dir.Path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir.Path, err)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Name() < names[j].Name() })

	entries := make([]DirEntry, 0, len(names))
	for _, de := range names {
		obj, err := stat(filepath.Join(dir.Path, de.Name()))
		if err != nil {
			logger.Debug("readdir: skipping vanished entry %s/%s: %v", dir.Path, de.Name(), err)
			continue
		}
		entries = append(entries, DirEntry{Name: de.Name(), Object: obj})
	}
	return entries, nil
}

// ResolveHandle decodes fh and scans the filesystem tree under the export
// root for an entry whose (dev, ino) matches, short-circuiting on the first
// hit. The scan is deliberately naive: cost proportional to the number of
// entries under the root, no caching between calls.
//
// It fails with ErrStaleHandle when nothing matches or when the matched
// entry's mode/uid/gid no longer agree with the handle, and with
// ErrScanLimit when a ceiling is hit first.
func (r *Resolver) ResolveHandle(fh []byte, exp export.Entry) (*Object, error) {
	h, err := handle.Decode(fh)
	if err != nil {
		return nil, err
	}

	root, err := stat(exp.Path)
	if err != nil {
		return nil, fmt.Errorf("stat export root %s: %w", exp.Path, err)
	}

	obj, err := r.scan(root, h, 0, new(int))
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrStaleHandle
	}

	// A (dev, ino) hit with diverging metadata means the object was
	// replaced or re-owned since the handle was issued.
	if obj.Mode != h.Mode || obj.UID != h.UID || obj.GID != h.GID {
		logger.Debug("resolve: identity drift for %s (mode %o→%o uid %d→%d gid %d→%d)",
			obj.Path, h.Mode, obj.Mode, h.UID, obj.UID, h.GID, obj.GID)
		return nil, ErrStaleHandle
	}
	return obj, nil
}

// scan walks depth-first under base looking for the handle's (dev, ino).
// Symlinks are matched as themselves and never followed.
func (r *Resolver) scan(base *Object, h handle.Handle, depth int, visited *int) (*Object, error) {
	if depth > r.maxScanDepth {
		return nil, ErrScanLimit
	}

	*visited++
	if *visited > r.maxScanEntries {
		return nil, ErrScanLimit
	}

	if base.Matches(h) {
		return base, nil
	}

	if base.Kind != KindDirectory {
		return nil, nil
	}

	names, err := os.ReadDir(base.Path)
	if err != nil {
		// A subtree that vanished or turned unreadable mid-scan is not
		// fatal for the search as a whole.
		logger.Debug("scan: skipping unreadable dir %s: %v", base.Path, err)
		return nil, nil
	}

	for _, de := range names {
		child, err := stat(filepath.Join(base.Path, de.Name()))
		if err != nil {
			continue
		}
		found, err := r.scan(child, h, depth+1, visited)
		if err != nil {
			return nil, err
		}
		if found != nil {
			return found, nil
		}
	}
	return nil, nil
}
