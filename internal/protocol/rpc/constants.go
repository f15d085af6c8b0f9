package rpc

// RPCVersion is the only Sun RPC version this server speaks (RFC 5531).
const RPCVersion = 2

// RPC Program Numbers
// These identify the different RPC programs supported by the server.
const (
	// ProgramPortmap is the port mapper program number (RFC 1833)
	ProgramPortmap = 100000

	// ProgramNFS is the NFS program number (RFC 1094)
	ProgramNFS = 100003

	// ProgramMount is the Mount protocol program number (RFC 1094 Appendix A)
	ProgramMount = 100005
)

// Supported program versions.
const (
	NFSVersion     = 2
	MountVersion   = 1
	PortmapVersion = 2
)

// RPC Message Types
const (
	// RPCCall indicates an RPC call message
	RPCCall = 0

	// RPCReply indicates an RPC reply message
	RPCReply = 1
)

// RPC Reply States
const (
	// RPCMsgAccepted indicates the RPC call was accepted
	RPCMsgAccepted = 0

	// RPCMsgDenied indicates the RPC call was denied
	RPCMsgDenied = 1
)

// RPC Accept Status (RFC 5531 Section 9)
const (
	// RPCSuccess indicates successful RPC execution
	RPCSuccess = 0

	// RPCProgUnavail indicates the program is not exported here
	RPCProgUnavail = 1

	// RPCProgMismatch indicates an unsupported program version;
	// the reply carries the supported (low, high) range
	RPCProgMismatch = 2

	// RPCProcUnavail indicates the procedure is unavailable
	RPCProcUnavail = 3

	// RPCGarbageArgs indicates the procedure arguments could not be decoded
	RPCGarbageArgs = 4

	// RPCSystemErr indicates an internal server failure
	RPCSystemErr = 5
)

// RPC Reject Status (for MSG_DENIED replies)
const (
	// RPCRejectMismatch indicates an unsupported RPC protocol version
	RPCRejectMismatch = 0

	// RPCRejectAuthError indicates the credential was refused
	RPCRejectAuthError = 1
)

// Authentication flavors. AUTH_NULL is the only flavor this server
// interprets; others are accepted syntactically and ignored.
const (
	AuthNull = 0
	AuthUnix = 1
)
