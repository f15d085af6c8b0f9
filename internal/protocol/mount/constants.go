package mount

// Mount protocol v1 constants (RFC 1094 Appendix A).

// Procedure numbers
const (
	MountProcNull     uint32 = 0
	MountProcMnt      uint32 = 1
	MountProcDump     uint32 = 2
	MountProcUmnt     uint32 = 3
	MountProcUmntAll uint32 = 4
	MountProcExport  uint32 = 5
)

// Status codes returned in fhstatus. These reuse errno values; the server
// only ever emits MountOK and MountErrAccess.
const (
	MountOK        uint32 = 0
	MountErrPerm   uint32 = 1
	MountErrNoEnt  uint32 = 2
	MountErrAccess uint32 = 13
	MountErrInval  uint32 = 22
)

// Size limits (RFC 1094 Appendix A)
const (
	MaxPathLen = 1024
	MaxNameLen = 255
)
