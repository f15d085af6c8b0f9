package nfs

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfs2d/internal/handle"
	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
	"github.com/marmos91/nfs2d/internal/vfs"
)

// ReadLinkRequest represents a READLINK request
type ReadLinkRequest struct {
	Handle []byte
}

// ReadLinkResponse represents a READLINK response
type ReadLinkResponse struct {
	Status uint32
	Target string // only present if Status == NFSOK
}

// ReadLink reads the target of a symbolic link.
// RFC 1094 Section 2.2.6
func (h *DefaultNFSHandler) ReadLink(req *ReadLinkRequest) (*ReadLinkResponse, error) {
	logger.Debug("READLINK for handle %x", req.Handle)

	obj, err := h.resolve(req.Handle)
	if err != nil {
		return &ReadLinkResponse{Status: statusFromError(err)}, nil
	}
	if obj.Kind != vfs.KindSymlink {
		return &ReadLinkResponse{Status: NFSErrInval}, nil
	}

	target, err := h.resolver.ReadLink(obj)
	if err != nil {
		return &ReadLinkResponse{Status: statusFromError(err)}, nil
	}

	return &ReadLinkResponse{Status: NFSOK, Target: target}, nil
}

func DecodeReadLinkRequest(data []byte) (*ReadLinkRequest, error) {
	reader := bytes.NewReader(data)

	fh, err := xdr.DecodeFixedOpaque(reader, handle.Size)
	if err != nil {
		return nil, fmt.Errorf("read handle: %w", err)
	}

	return &ReadLinkRequest{Handle: fh}, nil
}

func (resp *ReadLinkResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	if err := xdr.EncodeUint32(&buf, resp.Status); err != nil {
		return nil, fmt.Errorf("write status: %w", err)
	}
	if resp.Status != NFSOK {
		return buf.Bytes(), nil
	}

	if err := xdr.EncodeString(&buf, resp.Target); err != nil {
		return nil, fmt.Errorf("write target: %w", err)
	}
	return buf.Bytes(), nil
}
