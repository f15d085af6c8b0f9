package nfs

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfs2d/internal/handle"
	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// GetAttrRequest represents a GETATTR request
type GetAttrRequest struct {
	Handle []byte
}

// GetAttrResponse represents a GETATTR response (attrstat)
type GetAttrResponse struct {
	Status uint32
	Attr   *FileAttr // only present if Status == NFSOK
}

// GetAttr returns the attributes for a filesystem object.
// RFC 1094 Section 2.2.2
func (h *DefaultNFSHandler) GetAttr(req *GetAttrRequest) (*GetAttrResponse, error) {
	logger.Debug("GETATTR for handle %x", req.Handle)

	obj, err := h.resolve(req.Handle)
	if err != nil {
		return &GetAttrResponse{Status: statusFromError(err)}, nil
	}

	logger.Debug("GETATTR resolved %s (kind=%s size=%d)", obj.Path, obj.Kind, obj.Size)

	return &GetAttrResponse{
		Status: NFSOK,
		Attr:   ObjectToFileAttr(obj),
	}, nil
}

func DecodeGetAttrRequest(data []byte) (*GetAttrRequest, error) {
	reader := bytes.NewReader(data)

	fh, err := xdr.DecodeFixedOpaque(reader, handle.Size)
	if err != nil {
		return nil, fmt.Errorf("read handle: %w", err)
	}

	return &GetAttrRequest{Handle: fh}, nil
}

func (resp *GetAttrResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	if err := xdr.EncodeUint32(&buf, resp.Status); err != nil {
		return nil, fmt.Errorf("write status: %w", err)
	}
	if resp.Status != NFSOK {
		return buf.Bytes(), nil
	}

	if err := encodeFileAttr(&buf, resp.Attr); err != nil {
		return nil, fmt.Errorf("encode attr: %w", err)
	}
	return buf.Bytes(), nil
}
