package nfs

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfs2d/internal/handle"
	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
	"github.com/marmos91/nfs2d/internal/vfs"
)

// LookupRequest represents a LOOKUP request (diropargs)
type LookupRequest struct {
	DirHandle []byte
	Filename  string
}

// LookupResponse represents a LOOKUP response (diropres)
type LookupResponse struct {
	Status     uint32
	FileHandle []byte    // only present if Status == NFSOK
	Attr       *FileAttr // only present if Status == NFSOK
}

// Lookup searches a directory for a specific name and returns its file
// handle plus attributes.
// RFC 1094 Section 2.2.5
func (h *DefaultNFSHandler) Lookup(req *LookupRequest) (*LookupResponse, error) {
	logger.Debug("LOOKUP for %q in directory %x", req.Filename, req.DirHandle)

	dir, err := h.resolve(req.DirHandle)
	if err != nil {
		return &LookupResponse{Status: statusFromError(err)}, nil
	}
	if dir.Kind != vfs.KindDirectory {
		return &LookupResponse{Status: NFSErrNotDir}, nil
	}

	obj, err := h.resolver.LookupChild(dir, req.Filename)
	if err != nil {
		logger.Debug("LOOKUP %q in %s failed: %v", req.Filename, dir.Path, err)
		return &LookupResponse{Status: statusFromError(err)}, nil
	}

	logger.Debug("LOOKUP %q resolved to %s", req.Filename, obj.Path)

	return &LookupResponse{
		Status:     NFSOK,
		FileHandle: obj.Handle(),
		Attr:       ObjectToFileAttr(obj),
	}, nil
}

func DecodeLookupRequest(data []byte) (*LookupRequest, error) {
	reader := bytes.NewReader(data)

	fh, err := xdr.DecodeFixedOpaque(reader, handle.Size)
	if err != nil {
		return nil, fmt.Errorf("read dir handle: %w", err)
	}

	name, err := xdr.DecodeString(reader, MaxNameLen)
	if err != nil {
		return nil, fmt.Errorf("read filename: %w", err)
	}

	return &LookupRequest{DirHandle: fh, Filename: name}, nil
}

func (resp *LookupResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	if err := xdr.EncodeUint32(&buf, resp.Status); err != nil {
		return nil, fmt.Errorf("write status: %w", err)
	}
	if resp.Status != NFSOK {
		return buf.Bytes(), nil
	}

	if err := xdr.EncodeFixedOpaque(&buf, resp.FileHandle); err != nil {
		return nil, fmt.Errorf("write handle: %w", err)
	}
	if err := encodeFileAttr(&buf, resp.Attr); err != nil {
		return nil, fmt.Errorf("encode attr: %w", err)
	}
	return buf.Bytes(), nil
}
