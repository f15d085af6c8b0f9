// Package mount implements the Mount protocol version 1 (RFC 1094
// Appendix A). The Mount protocol hands out the initial file handle for an
// exported tree; everything after that happens over NFS.
package mount

import (
	"github.com/marmos91/nfs2d/internal/export"
	"github.com/marmos91/nfs2d/internal/vfs"
)

// DefaultMountHandler answers Mount v1 procedures against a static export
// table. Handles are minted by the shared resolver so that MNT and NFS agree
// on the handle encoding.
type DefaultMountHandler struct {
	exports  *export.Table
	resolver *vfs.Resolver
	mounts   *mountTable
}

// NewHandler creates a Mount handler over the given export table.
func NewHandler(exports *export.Table, resolver *vfs.Resolver) *DefaultMountHandler {
	return &DefaultMountHandler{
		exports:  exports,
		resolver: resolver,
		mounts:   newMountTable(),
	}
}

// Null implements the NULL procedure (RFC 1094 Appendix A, procedure 0).
func (h *DefaultMountHandler) Null() ([]byte, error) {
	return []byte{}, nil
}
