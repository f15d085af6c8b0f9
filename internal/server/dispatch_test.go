package server

import (
	"bytes"
	"context"
	"encoding/binary"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	gxdr "github.com/rasky/go-xdr/xdr2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/nfs2d/internal/export"
	"github.com/marmos91/nfs2d/internal/handle"
	"github.com/marmos91/nfs2d/internal/protocol/nfs"
	"github.com/marmos91/nfs2d/internal/protocol/rpc"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
	"github.com/marmos91/nfs2d/internal/vfs"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), []byte("payload"), 0o644))

	table, err := export.NewTable([]export.Entry{
		{Name: "share", Path: root, Options: export.Options{ReadOnly: true}},
	})
	require.NoError(t, err)

	srv := New(Options{Bind: "127.0.0.1"}, table, vfs.NewResolver(0, 0))
	return srv, root
}

func buildCall(t *testing.T, rpcVers, program, version, procedure uint32, args []byte) []byte {
	t.Helper()
	call := rpc.RPCCallMessage{
		XID:        0x5555,
		MsgType:    rpc.RPCCall,
		RPCVersion: rpcVers,
		Program:    program,
		Version:    version,
		Procedure:  procedure,
		Cred:       rpc.OpaqueAuth{Flavor: rpc.AuthNull, Body: []byte{}},
		Verf:       rpc.OpaqueAuth{Flavor: rpc.AuthNull, Body: []byte{}},
	}
	var buf bytes.Buffer
	_, err := gxdr.Marshal(&buf, &call)
	require.NoError(t, err)
	buf.Write(args)
	return buf.Bytes()
}

func word(data []byte, i int) uint32 {
	return binary.BigEndian.Uint32(data[i*4 : i*4+4])
}

// acceptStat extracts the accept status word of an accepted reply.
func acceptStat(t *testing.T, reply []byte) uint32 {
	t.Helper()
	require.GreaterOrEqual(t, len(reply), 24)
	require.Equal(t, uint32(rpc.RPCMsgAccepted), word(reply, 2))
	return word(reply, 5)
}

func TestDispatch(t *testing.T) {
	srv, root := newTestServer(t)

	t.Run("NFSNullSucceedsWithEmptyResult", func(t *testing.T) {
		reply := srv.Dispatch("client", buildCall(t, 2, rpc.ProgramNFS, 2, nfs.NFSProcNull, nil))
		require.NotNil(t, reply)
		assert.Equal(t, uint32(0x5555), word(reply, 0))
		assert.Equal(t, uint32(rpc.RPCSuccess), acceptStat(t, reply))
		assert.Len(t, reply, 24)
	})

	t.Run("GetAttrRoundTrip", func(t *testing.T) {
		obj, err := vfs.Stat(filepath.Join(root, "file.txt"))
		require.NoError(t, err)

		reply := srv.Dispatch("client", buildCall(t, 2, rpc.ProgramNFS, 2, nfs.NFSProcGetAttr, obj.Handle()))
		require.NotNil(t, reply)
		require.Equal(t, uint32(rpc.RPCSuccess), acceptStat(t, reply))

		body := reply[24:]
		assert.Equal(t, uint32(nfs.NFSOK), binary.BigEndian.Uint32(body[:4]))
		// fattr follows: 17 words
		assert.Len(t, body, 4+17*4)
	})

	t.Run("MountByNameThenGetAttr", func(t *testing.T) {
		var args bytes.Buffer
		require.NoError(t, xdr.EncodeString(&args, "share"))

		reply := srv.Dispatch("client", buildCall(t, 2, rpc.ProgramMount, 1, 1, args.Bytes()))
		require.NotNil(t, reply)
		require.Equal(t, uint32(rpc.RPCSuccess), acceptStat(t, reply))

		body := reply[24:]
		require.Equal(t, uint32(0), binary.BigEndian.Uint32(body[:4]))
		fh := body[4 : 4+handle.Size]

		attrReply := srv.Dispatch("client", buildCall(t, 2, rpc.ProgramNFS, 2, nfs.NFSProcGetAttr, fh))
		require.NotNil(t, attrReply)
		assert.Equal(t, uint32(rpc.RPCSuccess), acceptStat(t, attrReply))
		assert.Equal(t, uint32(nfs.NFSOK), binary.BigEndian.Uint32(attrReply[24:28]))
	})

	t.Run("UnknownMountNameIsAccessStatus", func(t *testing.T) {
		var args bytes.Buffer
		require.NoError(t, xdr.EncodeString(&args, "nope"))

		reply := srv.Dispatch("client", buildCall(t, 2, rpc.ProgramMount, 1, 1, args.Bytes()))
		require.NotNil(t, reply)
		require.Equal(t, uint32(rpc.RPCSuccess), acceptStat(t, reply))
		assert.Equal(t, uint32(13), binary.BigEndian.Uint32(reply[24:28]))
	})

	t.Run("PortmapGetPortAnswersZero", func(t *testing.T) {
		var args bytes.Buffer
		for _, v := range []uint32{100003, 2, 17, 0} {
			require.NoError(t, xdr.EncodeUint32(&args, v))
		}

		reply := srv.Dispatch("client", buildCall(t, 2, rpc.ProgramPortmap, 2, 3, args.Bytes()))
		require.NotNil(t, reply)
		require.Equal(t, uint32(rpc.RPCSuccess), acceptStat(t, reply))
		assert.Equal(t, uint32(0), binary.BigEndian.Uint32(reply[24:28]))
	})

	t.Run("UnknownProgramIsProgUnavail", func(t *testing.T) {
		reply := srv.Dispatch("client", buildCall(t, 2, 100999, 1, 0, nil))
		require.NotNil(t, reply)
		assert.Equal(t, uint32(rpc.RPCProgUnavail), acceptStat(t, reply))
	})

	t.Run("WrongProgramVersionIsProgMismatch", func(t *testing.T) {
		reply := srv.Dispatch("client", buildCall(t, 2, rpc.ProgramNFS, 3, nfs.NFSProcNull, nil))
		require.NotNil(t, reply)
		assert.Equal(t, uint32(rpc.RPCProgMismatch), acceptStat(t, reply))
		assert.Equal(t, uint32(2), word(reply, 6))
		assert.Equal(t, uint32(2), word(reply, 7))
	})

	t.Run("UnknownProcedureIsProcUnavail", func(t *testing.T) {
		reply := srv.Dispatch("client", buildCall(t, 2, rpc.ProgramNFS, 2, 99, nil))
		require.NotNil(t, reply)
		assert.Equal(t, uint32(rpc.RPCProcUnavail), acceptStat(t, reply))
	})

	t.Run("PortmapSetIsProcUnavail", func(t *testing.T) {
		reply := srv.Dispatch("client", buildCall(t, 2, rpc.ProgramPortmap, 2, 1, nil))
		require.NotNil(t, reply)
		assert.Equal(t, uint32(rpc.RPCProcUnavail), acceptStat(t, reply))
	})

	t.Run("TruncatedArgsAreGarbageArgs", func(t *testing.T) {
		reply := srv.Dispatch("client", buildCall(t, 2, rpc.ProgramNFS, 2, nfs.NFSProcGetAttr, []byte{1, 2, 3}))
		require.NotNil(t, reply)
		assert.Equal(t, uint32(rpc.RPCGarbageArgs), acceptStat(t, reply))
	})

	t.Run("WrongRPCVersionIsDenied", func(t *testing.T) {
		reply := srv.Dispatch("client", buildCall(t, 3, rpc.ProgramNFS, 2, nfs.NFSProcNull, nil))
		require.NotNil(t, reply)
		assert.Equal(t, uint32(rpc.RPCMsgDenied), word(reply, 2))
		assert.Equal(t, uint32(rpc.RPCRejectMismatch), word(reply, 3))
		assert.Equal(t, uint32(2), word(reply, 4))
		assert.Equal(t, uint32(2), word(reply, 5))
	})

	t.Run("UnparseableDatagramIsDropped", func(t *testing.T) {
		assert.Nil(t, srv.Dispatch("client", []byte{0xDE, 0xAD}))
	})

	t.Run("ReplyMessageIsDropped", func(t *testing.T) {
		datagram := buildCall(t, 2, rpc.ProgramNFS, 2, 0, nil)
		// flip msg_type to REPLY
		binary.BigEndian.PutUint32(datagram[4:8], rpc.RPCReply)
		assert.Nil(t, srv.Dispatch("client", datagram))
	})
}

func TestServePacketConn(t *testing.T) {
	srv, _ := newTestServer(t)

	listener, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.servePacketConn(ctx, listener) }()

	client, err := net.Dial("udp", listener.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()

	t.Run("AnswersNullOverUDP", func(t *testing.T) {
		_, err := client.Write(buildCall(t, 2, rpc.ProgramNFS, 2, nfs.NFSProcNull, nil))
		require.NoError(t, err)

		require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
		reply := make([]byte, 512)
		n, err := client.Read(reply)
		require.NoError(t, err)
		assert.Equal(t, uint32(rpc.RPCSuccess), acceptStat(t, reply[:n]))
	})

	t.Run("IgnoresGarbageAndKeepsServing", func(t *testing.T) {
		_, err := client.Write([]byte("not rpc"))
		require.NoError(t, err)

		_, err = client.Write(buildCall(t, 2, rpc.ProgramNFS, 2, nfs.NFSProcNull, nil))
		require.NoError(t, err)

		require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
		reply := make([]byte, 512)
		n, err := client.Read(reply)
		require.NoError(t, err)
		assert.Equal(t, uint32(rpc.RPCSuccess), acceptStat(t, reply[:n]))
	})

	cancel()
	listener.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve loop did not stop on cancellation")
	}
}
