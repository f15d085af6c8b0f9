package rpc

import (
	"bytes"
	"fmt"

	xdr "github.com/rasky/go-xdr/xdr2"
)

// ReadCall parses the generic RPC call header from a datagram. It returns
// the parsed header and the offset of the first argument byte, so the
// procedure-specific blob is message[consumed:].
func ReadCall(message []byte) (*RPCCallMessage, int, error) {
	call := &RPCCallMessage{}
	consumed, err := xdr.Unmarshal(bytes.NewReader(message), call)
	if err != nil {
		return nil, 0, fmt.Errorf("unmarshal RPC call: %w", err)
	}

	if call.MsgType != RPCCall {
		return nil, 0, fmt.Errorf("expected CALL (%d), got %d", RPCCall, call.MsgType)
	}

	return call, consumed, nil
}

// MakeSuccessReply builds an accepted SUCCESS reply carrying the procedure
// result bytes. The verifier is always AUTH_NULL/empty.
func MakeSuccessReply(xid uint32, data []byte) ([]byte, error) {
	return makeAcceptedReply(xid, RPCSuccess, data)
}

// MakeAcceptErrorReply builds an accepted reply carrying a non-SUCCESS
// accept status (PROG_UNAVAIL, PROC_UNAVAIL, GARBAGE_ARGS, SYSTEM_ERR).
func MakeAcceptErrorReply(xid uint32, acceptStat uint32) ([]byte, error) {
	return makeAcceptedReply(xid, acceptStat, nil)
}

// MakeProgMismatchReply builds an accepted PROG_MISMATCH reply carrying the
// supported version range for the program.
func MakeProgMismatchReply(xid, low, high uint32) ([]byte, error) {
	var versions bytes.Buffer
	if _, err := xdr.Marshal(&versions, struct{ Low, High uint32 }{low, high}); err != nil {
		return nil, fmt.Errorf("marshal version range: %w", err)
	}
	return makeAcceptedReply(xid, RPCProgMismatch, versions.Bytes())
}

// MakeRPCMismatchReply builds a denied RPC_MISMATCH reply carrying the
// supported RPC version range. Sent when rpcvers != 2.
func MakeRPCMismatchReply(xid, low, high uint32) ([]byte, error) {
	denied := struct {
		XID        uint32
		MsgType    uint32
		ReplyState uint32
		RejectStat uint32
		Low        uint32
		High       uint32
	}{
		XID:        xid,
		MsgType:    RPCReply,
		ReplyState: RPCMsgDenied,
		RejectStat: RPCRejectMismatch,
		Low:        low,
		High:       high,
	}

	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, &denied); err != nil {
		return nil, fmt.Errorf("marshal denied reply: %w", err)
	}
	return buf.Bytes(), nil
}

func makeAcceptedReply(xid uint32, acceptStat uint32, data []byte) ([]byte, error) {
	reply := RPCReplyMessage{
		XID:        xid,
		MsgType:    RPCReply,
		ReplyState: RPCMsgAccepted,
		Verf: OpaqueAuth{
			Flavor: AuthNull,
			Body:   []byte{},
		},
		AcceptStat: acceptStat,
	}

	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, &reply); err != nil {
		return nil, fmt.Errorf("marshal reply: %w", err)
	}
	buf.Write(data)

	// UDP transport: no record-marking fragment header, the datagram
	// boundary is the message boundary.
	return buf.Bytes(), nil
}
