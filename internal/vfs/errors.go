package vfs

import "errors"

// Resolution errors. Handlers map these to protocol status codes; nothing in
// this package knows about NFS or Mount wire statuses.
var (
	// ErrStaleHandle means no object under the export root matches the
	// handle's identity tuple, or the matched object's mode/uid/gid no
	// longer agree with the encoded values.
	ErrStaleHandle = errors.New("stale file handle")

	// ErrNoSuchEntry means a LOOKUP name is not present in the directory.
	ErrNoSuchEntry = errors.New("no such entry")

	// ErrNotDirectory means a directory operation was attempted on a
	// non-directory object.
	ErrNotDirectory = errors.New("not a directory")

	// ErrNotSymlink means READLINK was attempted on a non-symlink object.
	ErrNotSymlink = errors.New("not a symbolic link")

	// ErrScanLimit means a handle scan hit the configured entry or depth
	// ceiling before finding a match.
	ErrScanLimit = errors.New("scan limit exceeded")
)
