package mount

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/marmos91/nfs2d/internal/handle"
	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// MountRequest represents a MNT request (RFC 1094 Appendix A, procedure 1)
type MountRequest struct {
	DirPath string
}

// MountResponse represents the fhstatus reply: a status word followed, on
// success, by the fixed 32-byte file handle of the export root.
type MountResponse struct {
	Status     uint32
	FileHandle []byte
}

// Mount implements the MNT procedure. The directory path is matched against
// export names, not filesystem paths; an unknown name yields MountErrAccess
// without revealing whether the path exists on the server.
func (h *DefaultMountHandler) Mount(clientHost string, req *MountRequest) (*MountResponse, error) {
	name := strings.TrimPrefix(req.DirPath, "/")

	entry, ok := h.exports.LookupByName(name)
	if !ok {
		logger.Warn("MNT %q from %s: no such export", req.DirPath, clientHost)
		return &MountResponse{Status: MountErrAccess}, nil
	}

	root, err := h.resolver.ResolveRoot(entry)
	if err != nil {
		logger.Error("MNT %q from %s: stat export root %s: %v", req.DirPath, clientHost, entry.Path, err)
		return &MountResponse{Status: MountErrAccess}, nil
	}

	h.mounts.Add(clientHost, req.DirPath)
	logger.Info("MNT %q from %s -> %s", req.DirPath, clientHost, entry.Path)

	return &MountResponse{Status: MountOK, FileHandle: root.Handle()}, nil
}

// DecodeMountRequest parses a MNT request from raw XDR data
func DecodeMountRequest(data []byte) (*MountRequest, error) {
	reader := bytes.NewReader(data)

	dirPath, err := xdr.DecodeString(reader, MaxPathLen)
	if err != nil {
		return nil, fmt.Errorf("read dirpath: %w", err)
	}
	return &MountRequest{DirPath: dirPath}, nil
}

// Encode serializes the fhstatus reply
func (resp *MountResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	if err := xdr.EncodeUint32(&buf, resp.Status); err != nil {
		return nil, fmt.Errorf("write status: %w", err)
	}
	if resp.Status == MountOK {
		if len(resp.FileHandle) != handle.Size {
			return nil, fmt.Errorf("file handle is %d bytes, want %d", len(resp.FileHandle), handle.Size)
		}
		if err := xdr.EncodeFixedOpaque(&buf, resp.FileHandle); err != nil {
			return nil, fmt.Errorf("write handle: %w", err)
		}
	}

	return buf.Bytes(), nil
}
