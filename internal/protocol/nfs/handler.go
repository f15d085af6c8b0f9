package nfs

import (
	"errors"

	"github.com/marmos91/nfs2d/internal/export"
	"github.com/marmos91/nfs2d/internal/handle"
	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/vfs"
)

// DefaultNFSHandler implements the read-only NFSv2 procedure set on top of
// the export table and the path resolver.
type DefaultNFSHandler struct {
	exports  *export.Table
	resolver *vfs.Resolver
}

func NewHandler(exports *export.Table, resolver *vfs.Resolver) *DefaultNFSHandler {
	return &DefaultNFSHandler{
		exports:  exports,
		resolver: resolver,
	}
}

// resolve re-derives the filesystem object behind a client-held handle.
// The handle carries no path, so each export root is scanned in
// configuration order until one matches.
func (h *DefaultNFSHandler) resolve(fh []byte) (*vfs.Object, error) {
	result := error(vfs.ErrStaleHandle)
	for _, exp := range h.exports.List() {
		obj, err := h.resolver.ResolveHandle(fh, exp)
		if err == nil {
			return obj, nil
		}
		if !errors.Is(err, vfs.ErrStaleHandle) {
			result = err
		}
	}
	return nil, result
}

// statusFromError maps resolution errors to NFSv2 status codes.
func statusFromError(err error) uint32 {
	switch {
	case errors.Is(err, vfs.ErrStaleHandle), errors.Is(err, handle.ErrInvalidHandle):
		return NFSErrStale
	case errors.Is(err, vfs.ErrNoSuchEntry):
		return NFSErrNoEnt
	case errors.Is(err, vfs.ErrNotDirectory):
		return NFSErrNotDir
	case errors.Is(err, vfs.ErrNotSymlink):
		return NFSErrInval
	default:
		// Includes vfs.ErrScanLimit and plain filesystem failures.
		logger.Debug("nfs: resolution failed: %v", err)
		return NFSErrIO
	}
}
