package mount

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// UmountRequest represents a UMNT request (RFC 1094 Appendix A, procedure 3)
type UmountRequest struct {
	DirPath string
}

// Umount implements the UMNT procedure. The reply is void and the operation
// is idempotent: unmounting something never mounted simply succeeds.
func (h *DefaultMountHandler) Umount(clientHost string, req *UmountRequest) ([]byte, error) {
	h.mounts.Remove(clientHost, req.DirPath)
	logger.Info("UMNT %q from %s", req.DirPath, clientHost)
	return []byte{}, nil
}

// UmountAll implements the UMNTALL procedure (procedure 4): void args, void
// reply, drops every mount record for the calling client.
func (h *DefaultMountHandler) UmountAll(clientHost string) ([]byte, error) {
	h.mounts.RemoveAll(clientHost)
	logger.Info("UMNTALL from %s", clientHost)
	return []byte{}, nil
}

// DecodeUmountRequest parses a UMNT request from raw XDR data
func DecodeUmountRequest(data []byte) (*UmountRequest, error) {
	reader := bytes.NewReader(data)

	dirPath, err := xdr.DecodeString(reader, MaxPathLen)
	if err != nil {
		return nil, fmt.Errorf("read dirpath: %w", err)
	}
	return &UmountRequest{DirPath: dirPath}, nil
}
