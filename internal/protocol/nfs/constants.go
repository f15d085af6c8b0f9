package nfs

// NFSv2 Procedure Numbers
// These identify the different NFS operations as defined in RFC 1094.
const (
	// NFSProcNull - Do nothing (connectivity test)
	NFSProcNull = 0

	// NFSProcGetAttr - Get file attributes
	NFSProcGetAttr = 1

	// NFSProcSetAttr - Set file attributes
	NFSProcSetAttr = 2

	// NFSProcRoot - Get filesystem root (obsolete, void/void)
	NFSProcRoot = 3

	// NFSProcLookup - Lookup filename
	NFSProcLookup = 4

	// NFSProcReadLink - Read symbolic link
	NFSProcReadLink = 5

	// NFSProcRead - Read from file
	NFSProcRead = 6

	// NFSProcWriteCache - Write to cache (obsolete, never implemented)
	NFSProcWriteCache = 7

	// NFSProcWrite - Write to file
	NFSProcWrite = 8

	// NFSProcCreate - Create a file
	NFSProcCreate = 9

	// NFSProcRemove - Remove a file
	NFSProcRemove = 10

	// NFSProcRename - Rename a file or directory
	NFSProcRename = 11

	// NFSProcLink - Create a hard link
	NFSProcLink = 12

	// NFSProcSymlink - Create a symbolic link
	NFSProcSymlink = 13

	// NFSProcMkdir - Create a directory
	NFSProcMkdir = 14

	// NFSProcRmdir - Remove a directory
	NFSProcRmdir = 15

	// NFSProcReadDir - Read directory entries
	NFSProcReadDir = 16

	// NFSProcStatFs - Get filesystem statistics
	NFSProcStatFs = 17
)

// NFS Status Codes
// These are the error codes that can be returned by NFSv2 procedures.
// Defined in RFC 1094 Section 2.3.1.
const (
	// NFSOK - Success
	NFSOK = 0

	// NFSErrPerm - Not owner
	NFSErrPerm = 1

	// NFSErrNoEnt - No such file or directory
	NFSErrNoEnt = 2

	// NFSErrIO - I/O error
	NFSErrIO = 5

	// NFSErrNxIO - No such device or address
	NFSErrNxIO = 6

	// NFSErrAcces - Permission denied
	NFSErrAcces = 13

	// NFSErrExist - File exists
	NFSErrExist = 17

	// NFSErrNoDev - No such device
	NFSErrNoDev = 19

	// NFSErrNotDir - Not a directory
	NFSErrNotDir = 20

	// NFSErrIsDir - Is a directory
	NFSErrIsDir = 21

	// NFSErrInval - Invalid argument
	NFSErrInval = 22

	// NFSErrFBig - File too large
	NFSErrFBig = 27

	// NFSErrNoSpc - No space left on device
	NFSErrNoSpc = 28

	// NFSErrRofs - Read-only file system
	NFSErrRofs = 30

	// NFSErrNameTooLong - Filename too long
	NFSErrNameTooLong = 63

	// NFSErrNotEmpty - Directory not empty
	NFSErrNotEmpty = 66

	// NFSErrDQuot - Disk quota exceeded
	NFSErrDQuot = 69

	// NFSErrStale - Stale file handle
	NFSErrStale = 70

	// NFSErrWFlush - Write cache flushed
	NFSErrWFlush = 99
)

// File type constants as defined in RFC 1094 Section 2.3.2.
const (
	// FileTypeNone indicates a non-file or unknown object
	FileTypeNone = 0

	// FileTypeRegular indicates a regular file
	FileTypeRegular = 1

	// FileTypeDirectory indicates a directory
	FileTypeDirectory = 2

	// FileTypeBlock indicates a block special device file
	FileTypeBlock = 3

	// FileTypeChar indicates a character special device file
	FileTypeChar = 4

	// FileTypeSymlink indicates a symbolic link
	FileTypeSymlink = 5
)

// Protocol size limits (RFC 1094 Section 2.2).
const (
	// MaxData is the maximum number of bytes in a READ reply (NFS_MAXDATA).
	MaxData = 8192

	// MaxPathLen is the maximum path length (NFS_MAXPATHLEN).
	MaxPathLen = 1024

	// MaxNameLen is the maximum filename length (NFS_MAXNAMLEN).
	MaxNameLen = 255

	// DefaultReadDirBudget is the reply byte budget used when a READDIR
	// request declares count=0.
	DefaultReadDirBudget = 4096
)
