package server

import (
	"errors"

	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/mount"
	"github.com/marmos91/nfs2d/internal/protocol/nfs"
	"github.com/marmos91/nfs2d/internal/protocol/portmap"
	"github.com/marmos91/nfs2d/internal/protocol/rpc"
)

// errProcUnavail marks a procedure number the program does not implement.
var errProcUnavail = errors.New("procedure unavailable")

// Dispatch processes one datagram and returns the reply datagram. A nil
// return means the datagram was unparseable and must be silently dropped;
// UDP gives the server nothing useful to answer with in that case.
func (s *Server) Dispatch(clientHost string, datagram []byte) []byte {
	call, consumed, err := rpc.ReadCall(datagram)
	if err != nil {
		logger.Debug("Dropping datagram from %s: %v", clientHost, err)
		return nil
	}

	logger.Debug("RPC call: XID=0x%x program=%d version=%d procedure=%d from %s",
		call.XID, call.Program, call.Version, call.Procedure, clientHost)

	if call.RPCVersion != rpc.RPCVersion {
		return mustReply(rpc.MakeRPCMismatchReply(call.XID, rpc.RPCVersion, rpc.RPCVersion))
	}

	procedureData := datagram[consumed:]

	var body []byte
	switch call.Program {
	case rpc.ProgramNFS:
		if call.Version != rpc.NFSVersion {
			return mustReply(rpc.MakeProgMismatchReply(call.XID, rpc.NFSVersion, rpc.NFSVersion))
		}
		body, err = s.dispatchNFS(call.Procedure, procedureData)
	case rpc.ProgramMount:
		if call.Version != rpc.MountVersion {
			return mustReply(rpc.MakeProgMismatchReply(call.XID, rpc.MountVersion, rpc.MountVersion))
		}
		body, err = s.dispatchMount(clientHost, call.Procedure, procedureData)
	case rpc.ProgramPortmap:
		if call.Version != rpc.PortmapVersion {
			return mustReply(rpc.MakeProgMismatchReply(call.XID, rpc.PortmapVersion, rpc.PortmapVersion))
		}
		body, err = s.dispatchPortmap(call.Procedure, procedureData)
	default:
		logger.Debug("Unknown program %d from %s", call.Program, clientHost)
		return mustReply(rpc.MakeAcceptErrorReply(call.XID, rpc.RPCProgUnavail))
	}

	switch {
	case errors.Is(err, errProcUnavail):
		return mustReply(rpc.MakeAcceptErrorReply(call.XID, rpc.RPCProcUnavail))
	case errors.Is(err, errGarbageArgs):
		return mustReply(rpc.MakeAcceptErrorReply(call.XID, rpc.RPCGarbageArgs))
	case err != nil:
		logger.Error("Procedure %d/%d failed: %v", call.Program, call.Procedure, err)
		return mustReply(rpc.MakeAcceptErrorReply(call.XID, rpc.RPCSystemErr))
	}

	return mustReply(rpc.MakeSuccessReply(call.XID, body))
}

func (s *Server) dispatchNFS(procedure uint32, data []byte) ([]byte, error) {
	handler := s.nfsHandler

	switch procedure {
	case nfs.NFSProcNull:
		return handler.Null()
	case nfs.NFSProcGetAttr:
		return handleRequest(data, nfs.DecodeGetAttrRequest, handler.GetAttr)
	case nfs.NFSProcSetAttr:
		return handleRequest(data, nfs.DecodeSetAttrRequest, handler.SetAttr)
	case nfs.NFSProcRoot:
		return handler.Root()
	case nfs.NFSProcLookup:
		return handleRequest(data, nfs.DecodeLookupRequest, handler.Lookup)
	case nfs.NFSProcReadLink:
		return handleRequest(data, nfs.DecodeReadLinkRequest, handler.ReadLink)
	case nfs.NFSProcRead:
		return handleRequest(data, nfs.DecodeReadRequest, handler.Read)
	case nfs.NFSProcWriteCache:
		return handler.WriteCache()
	case nfs.NFSProcWrite:
		return handleRequest(data, nfs.DecodeWriteRequest, handler.Write)
	case nfs.NFSProcCreate:
		return handleRequest(data, nfs.DecodeCreateRequest, handler.Create)
	case nfs.NFSProcRemove:
		return handleRequest(data, nfs.DecodeDiropArgs, handler.Remove)
	case nfs.NFSProcRename:
		return handleRequest(data, nfs.DecodeRenameRequest, handler.Rename)
	case nfs.NFSProcLink:
		return handleRequest(data, nfs.DecodeLinkRequest, handler.Link)
	case nfs.NFSProcSymlink:
		return handleRequest(data, nfs.DecodeSymlinkRequest, handler.Symlink)
	case nfs.NFSProcMkdir:
		return handleRequest(data, nfs.DecodeCreateRequest, handler.Mkdir)
	case nfs.NFSProcRmdir:
		return handleRequest(data, nfs.DecodeDiropArgs, handler.Rmdir)
	case nfs.NFSProcReadDir:
		return handleRequest(data, nfs.DecodeReadDirRequest, handler.ReadDir)
	case nfs.NFSProcStatFs:
		return handleRequest(data, nfs.DecodeStatFsRequest, handler.StatFs)
	default:
		return nil, errProcUnavail
	}
}

func (s *Server) dispatchMount(clientHost string, procedure uint32, data []byte) ([]byte, error) {
	handler := s.mountHandler

	switch procedure {
	case mount.MountProcNull:
		return handler.Null()
	case mount.MountProcMnt:
		return handleRequest(
			data,
			mount.DecodeMountRequest,
			func(req *mount.MountRequest) (*mount.MountResponse, error) {
				return handler.Mount(clientHost, req)
			},
		)
	case mount.MountProcDump:
		resp, err := handler.Dump()
		if err != nil {
			return nil, err
		}
		return resp.Encode()
	case mount.MountProcUmnt:
		req, err := mount.DecodeUmountRequest(data)
		if err != nil {
			return nil, errors.Join(errGarbageArgs, err)
		}
		return handler.Umount(clientHost, req)
	case mount.MountProcUmntAll:
		return handler.UmountAll(clientHost)
	case mount.MountProcExport:
		resp, err := handler.Export()
		if err != nil {
			return nil, err
		}
		return resp.Encode()
	default:
		return nil, errProcUnavail
	}
}

func (s *Server) dispatchPortmap(procedure uint32, data []byte) ([]byte, error) {
	handler := s.portmapHandler

	switch procedure {
	case portmap.PortmapProcNull:
		return handler.Null()
	case portmap.PortmapProcGetPort:
		return handleRequest(data, portmap.DecodeGetPortRequest, handler.GetPort)
	default:
		return nil, errProcUnavail
	}
}

// mustReply logs and swallows reply-marshalling failures; the caller drops
// the datagram and lets the client retransmit.
func mustReply(reply []byte, err error) []byte {
	if err != nil {
		logger.Error("Failed to build RPC reply: %v", err)
		return nil
	}
	return reply
}
