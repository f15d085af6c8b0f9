package nfs

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfs2d/internal/handle"
	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// StatFsRequest represents a STATFS request
type StatFsRequest struct {
	Handle []byte
}

// StatFsResponse represents a STATFS response
type StatFsResponse struct {
	Status       uint32
	TransferSize uint32
	BlockSize    uint32
	Blocks       uint32
	BlocksFree   uint32
	BlocksAvail  uint32
}

// StatFs returns space statistics for the filesystem behind a handle.
// Any object kind within an export is acceptable.
// RFC 1094 Section 2.2.18
func (h *DefaultNFSHandler) StatFs(req *StatFsRequest) (*StatFsResponse, error) {
	logger.Debug("STATFS for handle %x", req.Handle)

	obj, err := h.resolve(req.Handle)
	if err != nil {
		return &StatFsResponse{Status: statusFromError(err)}, nil
	}

	st, err := h.resolver.Statfs(obj.Path, MaxData)
	if err != nil {
		logger.Warn("STATFS %s failed: %v", obj.Path, err)
		return &StatFsResponse{Status: NFSErrIO}, nil
	}

	return &StatFsResponse{
		Status:       NFSOK,
		TransferSize: st.TransferSize,
		BlockSize:    st.BlockSize,
		Blocks:       st.Blocks,
		BlocksFree:   st.BlocksFree,
		BlocksAvail:  st.BlocksAvail,
	}, nil
}

func DecodeStatFsRequest(data []byte) (*StatFsRequest, error) {
	reader := bytes.NewReader(data)

	fh, err := xdr.DecodeFixedOpaque(reader, handle.Size)
	if err != nil {
		return nil, fmt.Errorf("read handle: %w", err)
	}

	return &StatFsRequest{Handle: fh}, nil
}

func (resp *StatFsResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	if err := xdr.EncodeUint32(&buf, resp.Status); err != nil {
		return nil, fmt.Errorf("write status: %w", err)
	}
	if resp.Status != NFSOK {
		return buf.Bytes(), nil
	}

	for _, f := range []uint32{resp.TransferSize, resp.BlockSize, resp.Blocks, resp.BlocksFree, resp.BlocksAvail} {
		if err := xdr.EncodeUint32(&buf, f); err != nil {
			return nil, fmt.Errorf("write fsstat: %w", err)
		}
	}
	return buf.Bytes(), nil
}
