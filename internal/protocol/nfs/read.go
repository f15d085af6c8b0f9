package nfs

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfs2d/internal/handle"
	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
	"github.com/marmos91/nfs2d/internal/vfs"
)

// ReadRequest represents a READ request
type ReadRequest struct {
	Handle     []byte
	Offset     uint32
	Count      uint32
	TotalCount uint32 // unused by the protocol, carried for completeness
}

// ReadResponse represents a READ response
type ReadResponse struct {
	Status uint32
	Attr   *FileAttr // post-read attributes, only if Status == NFSOK
	Data   []byte    // only present if Status == NFSOK
}

// Read reads data from a regular file. The requested count is clamped to
// the protocol maximum transfer size; reads past end-of-file return zero
// bytes and succeed.
// RFC 1094 Section 2.2.7
func (h *DefaultNFSHandler) Read(req *ReadRequest) (*ReadResponse, error) {
	logger.Debug("READ handle=%x offset=%d count=%d", req.Handle, req.Offset, req.Count)

	obj, err := h.resolve(req.Handle)
	if err != nil {
		return &ReadResponse{Status: statusFromError(err)}, nil
	}
	if obj.Kind == vfs.KindDirectory {
		return &ReadResponse{Status: NFSErrIsDir}, nil
	}
	if obj.Kind != vfs.KindRegular {
		return &ReadResponse{Status: NFSErrInval}, nil
	}

	count := req.Count
	if count > MaxData {
		count = MaxData
	}

	data, err := h.resolver.ReadFile(obj, uint64(req.Offset), count)
	if err != nil {
		logger.Warn("READ %s failed: %v", obj.Path, err)
		return &ReadResponse{Status: NFSErrIO}, nil
	}

	// Re-stat after the read so the reply carries post-read attributes.
	post, err := vfs.Stat(obj.Path)
	if err != nil {
		return &ReadResponse{Status: NFSErrIO}, nil
	}

	logger.Debug("READ %s returned %d bytes", obj.Path, len(data))

	return &ReadResponse{
		Status: NFSOK,
		Attr:   ObjectToFileAttr(post),
		Data:   data,
	}, nil
}

func DecodeReadRequest(data []byte) (*ReadRequest, error) {
	reader := bytes.NewReader(data)

	fh, err := xdr.DecodeFixedOpaque(reader, handle.Size)
	if err != nil {
		return nil, fmt.Errorf("read handle: %w", err)
	}
	offset, err := xdr.DecodeUint32(reader)
	if err != nil {
		return nil, fmt.Errorf("read offset: %w", err)
	}
	count, err := xdr.DecodeUint32(reader)
	if err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}
	totalCount, err := xdr.DecodeUint32(reader)
	if err != nil {
		return nil, fmt.Errorf("read totalcount: %w", err)
	}

	return &ReadRequest{
		Handle:     fh,
		Offset:     offset,
		Count:      count,
		TotalCount: totalCount,
	}, nil
}

func (resp *ReadResponse) Encode() ([]byte, error) {
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
	if err := xdr.EncodeOpaque(&buf, resp.Data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}
	return buf.Bytes(), nil
}
