package rpc

// RPCCallMessage is the generic Sun RPC call header. The procedure-specific
// argument bytes follow it on the wire and are handed to the dispatcher
// unparsed.
type RPCCallMessage struct {
	XID        uint32
	MsgType    uint32
	RPCVersion uint32
	Program    uint32
	Version    uint32
	Procedure  uint32
	Cred       OpaqueAuth
	Verf       OpaqueAuth
}

// RPCReplyMessage is the accepted-reply header: the procedure result bytes
// follow AcceptStat on the wire.
type RPCReplyMessage struct {
	XID        uint32
	MsgType    uint32 // 1 = REPLY
	ReplyState uint32 // 0 = MSG_ACCEPTED
	Verf       OpaqueAuth
	AcceptStat uint32
}

// OpaqueAuth is an RPC authentication item: a flavor tag plus an opaque
// body. Flavors other than AUTH_NULL are carried but not interpreted.
type OpaqueAuth struct {
	Flavor uint32
	Body   []byte `xdr:"opaque"`
}
