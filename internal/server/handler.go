package server

import (
	"github.com/marmos91/nfs2d/internal/protocol/mount"
	"github.com/marmos91/nfs2d/internal/protocol/nfs"
	"github.com/marmos91/nfs2d/internal/protocol/portmap"
)

// NFSHandler answers NFS version 2 procedures (RFC 1094 Section 2.2).
type NFSHandler interface {
	// Null does nothing. This is used to test connectivity.
	// RFC 1094 Section 2.2.1
	Null() ([]byte, error)

	// GetAttr returns the attributes for a file system object.
	// RFC 1094 Section 2.2.2
	GetAttr(req *nfs.GetAttrRequest) (*nfs.GetAttrResponse, error)

	// SetAttr would set attributes; rejected on a read-only export.
	// RFC 1094 Section 2.2.3
	SetAttr(req *nfs.SetAttrRequest) (*nfs.GetAttrResponse, error)

	// Root is obsolete: void arguments, void results.
	// RFC 1094 Section 2.2.4
	Root() ([]byte, error)

	// Lookup searches a directory for a name and returns its file handle.
	// RFC 1094 Section 2.2.5
	Lookup(req *nfs.LookupRequest) (*nfs.LookupResponse, error)

	// ReadLink reads the target of a symbolic link.
	// RFC 1094 Section 2.2.6
	ReadLink(req *nfs.ReadLinkRequest) (*nfs.ReadLinkResponse, error)

	// Read reads data from a file.
	// RFC 1094 Section 2.2.7
	Read(req *nfs.ReadRequest) (*nfs.ReadResponse, error)

	// WriteCache is obsolete: void arguments, void results.
	// RFC 1094 Section 2.2.8
	WriteCache() ([]byte, error)

	// Write would write data; rejected on a read-only export.
	// RFC 1094 Section 2.2.9
	Write(req *nfs.WriteRequest) (*nfs.GetAttrResponse, error)

	// Create would create a file; rejected on a read-only export.
	// RFC 1094 Section 2.2.10
	Create(req *nfs.CreateRequest) (*nfs.LookupResponse, error)

	// Remove would remove a file; rejected on a read-only export.
	// RFC 1094 Section 2.2.11
	Remove(req *nfs.DiropArgs) (*nfs.StatusResponse, error)

	// Rename would rename; rejected on a read-only export.
	// RFC 1094 Section 2.2.12
	Rename(req *nfs.RenameRequest) (*nfs.StatusResponse, error)

	// Link would create a hard link; rejected on a read-only export.
	// RFC 1094 Section 2.2.13
	Link(req *nfs.LinkRequest) (*nfs.StatusResponse, error)

	// Symlink would create a symlink; rejected on a read-only export.
	// RFC 1094 Section 2.2.14
	Symlink(req *nfs.SymlinkRequest) (*nfs.StatusResponse, error)

	// Mkdir would create a directory; rejected on a read-only export.
	// RFC 1094 Section 2.2.15
	Mkdir(req *nfs.CreateRequest) (*nfs.LookupResponse, error)

	// Rmdir would remove a directory; rejected on a read-only export.
	// RFC 1094 Section 2.2.16
	Rmdir(req *nfs.DiropArgs) (*nfs.StatusResponse, error)

	// ReadDir reads entries from a directory.
	// RFC 1094 Section 2.2.17
	ReadDir(req *nfs.ReadDirRequest) (*nfs.ReadDirResponse, error)

	// StatFs returns file system information.
	// RFC 1094 Section 2.2.18
	StatFs(req *nfs.StatFsRequest) (*nfs.StatFsResponse, error)
}

// MountHandler answers Mount protocol version 1 procedures
// (RFC 1094 Appendix A). Procedures that maintain the mount table receive the
// caller's host so records can be attributed and removed per client.
type MountHandler interface {
	// Null does nothing. This is used to test connectivity.
	Null() ([]byte, error)

	// Mount returns the root file handle for a named export.
	Mount(clientHost string, req *mount.MountRequest) (*mount.MountResponse, error)

	// Dump lists active mount records.
	Dump() (*mount.DumpResponse, error)

	// Umount removes one mount record for the caller.
	Umount(clientHost string, req *mount.UmountRequest) ([]byte, error)

	// UmountAll removes every mount record for the caller.
	UmountAll(clientHost string) ([]byte, error)

	// Export lists the export table with its client groups.
	Export() (*mount.ExportResponse, error)
}

// PortmapHandler answers the port mapper stub (RFC 1057 Appendix A).
type PortmapHandler interface {
	// Null does nothing. This is used to test connectivity.
	Null() ([]byte, error)

	// GetPort reports the port for a program mapping; the stub answers 0.
	GetPort(req *portmap.GetPortRequest) (*portmap.GetPortResponse, error)
}
