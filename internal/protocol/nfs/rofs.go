package nfs

import (
	"bytes"
	"fmt"
	"io"

	"github.com/marmos91/nfs2d/internal/handle"
	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// Write-family procedures (RFC 1094 Sections 2.2.3, 2.2.8-2.2.16).
//
// The server exports read-only trees. Every mutating procedure is decoded
// structurally - so malformed arguments still surface as GARBAGE_ARGS, like
// any other procedure - but answered with NFSERR_ROFS without touching the
// filesystem.

// SAttr is the NFSv2 sattr structure. A field value of 0xFFFFFFFF means
// "do not set"; the distinction is irrelevant here since nothing is ever set.
type SAttr struct {
	Mode  uint32
	UID   uint32
	GID   uint32
	Size  uint32
	Atime TimeVal
	Mtime TimeVal
}

// DiropArgs is the shared (directory handle, name) argument pair.
type DiropArgs struct {
	DirHandle []byte
	Filename  string
}

// StatusResponse is a reply consisting solely of an NFS status word.
type StatusResponse struct {
	Status uint32
}

func (resp *StatusResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := xdr.EncodeUint32(&buf, resp.Status); err != nil {
		return nil, fmt.Errorf("write status: %w", err)
	}
	return buf.Bytes(), nil
}

// SetAttrRequest represents a SETATTR request (sattrargs)
type SetAttrRequest struct {
	Handle []byte
	Attr   SAttr
}

// WriteRequest represents a WRITE request (writeargs)
type WriteRequest struct {
	Handle      []byte
	BeginOffset uint32
	Offset      uint32
	TotalCount  uint32
	Data        []byte
}

// CreateRequest represents a CREATE or MKDIR request (createargs)
type CreateRequest struct {
	Where DiropArgs
	Attr  SAttr
}

// RenameRequest represents a RENAME request (renameargs)
type RenameRequest struct {
	From DiropArgs
	To   DiropArgs
}

// LinkRequest represents a LINK request (linkargs)
type LinkRequest struct {
	From []byte
	To   DiropArgs
}

// SymlinkRequest represents a SYMLINK request (symlinkargs)
type SymlinkRequest struct {
	From   DiropArgs
	Target string
	Attr   SAttr
}

// SetAttr rejects attribute changes on the read-only filesystem.
func (h *DefaultNFSHandler) SetAttr(req *SetAttrRequest) (*GetAttrResponse, error) {
	logger.Debug("SETATTR rejected (read-only): handle=%x", req.Handle)
	return &GetAttrResponse{Status: NFSErrRofs}, nil
}

// Write rejects data writes on the read-only filesystem.
func (h *DefaultNFSHandler) Write(req *WriteRequest) (*GetAttrResponse, error) {
	logger.Debug("WRITE rejected (read-only): handle=%x offset=%d len=%d", req.Handle, req.Offset, len(req.Data))
	return &GetAttrResponse{Status: NFSErrRofs}, nil
}

// Create rejects file creation on the read-only filesystem.
func (h *DefaultNFSHandler) Create(req *CreateRequest) (*LookupResponse, error) {
	logger.Debug("CREATE rejected (read-only): %q", req.Where.Filename)
	return &LookupResponse{Status: NFSErrRofs}, nil
}

// Mkdir rejects directory creation on the read-only filesystem.
func (h *DefaultNFSHandler) Mkdir(req *CreateRequest) (*LookupResponse, error) {
	logger.Debug("MKDIR rejected (read-only): %q", req.Where.Filename)
	return &LookupResponse{Status: NFSErrRofs}, nil
}

// Remove rejects file removal on the read-only filesystem.
func (h *DefaultNFSHandler) Remove(req *DiropArgs) (*StatusResponse, error) {
	logger.Debug("REMOVE rejected (read-only): %q", req.Filename)
	return &StatusResponse{Status: NFSErrRofs}, nil
}

// Rmdir rejects directory removal on the read-only filesystem.
func (h *DefaultNFSHandler) Rmdir(req *DiropArgs) (*StatusResponse, error) {
	logger.Debug("RMDIR rejected (read-only): %q", req.Filename)
	return &StatusResponse{Status: NFSErrRofs}, nil
}

// Rename rejects renames on the read-only filesystem.
func (h *DefaultNFSHandler) Rename(req *RenameRequest) (*StatusResponse, error) {
	logger.Debug("RENAME rejected (read-only): %q -> %q", req.From.Filename, req.To.Filename)
	return &StatusResponse{Status: NFSErrRofs}, nil
}

// Link rejects hard links on the read-only filesystem.
func (h *DefaultNFSHandler) Link(req *LinkRequest) (*StatusResponse, error) {
	logger.Debug("LINK rejected (read-only): %q", req.To.Filename)
	return &StatusResponse{Status: NFSErrRofs}, nil
}

// Symlink rejects symlink creation on the read-only filesystem.
func (h *DefaultNFSHandler) Symlink(req *SymlinkRequest) (*StatusResponse, error) {
	logger.Debug("SYMLINK rejected (read-only): %q -> %q", req.From.Filename, req.Target)
	return &StatusResponse{Status: NFSErrRofs}, nil
}

// WriteCache is the obsolete WRITECACHE procedure; like ROOT it takes void
// and returns void, so there is no status word to carry NFSERR_ROFS.
func (h *DefaultNFSHandler) WriteCache() ([]byte, error) {
	return []byte{}, nil
}

// ----------------------------------------------------------------------------
// Decoders
// ----------------------------------------------------------------------------

func decodeSAttr(reader io.Reader) (SAttr, error) {
	var attr SAttr
	fields := []*uint32{
		&attr.Mode, &attr.UID, &attr.GID, &attr.Size,
		&attr.Atime.Seconds, &attr.Atime.Useconds,
		&attr.Mtime.Seconds, &attr.Mtime.Useconds,
	}
	for _, f := range fields {
		v, err := xdr.DecodeUint32(reader)
		if err != nil {
			return SAttr{}, fmt.Errorf("read sattr: %w", err)
		}
		*f = v
	}
	return attr, nil
}

func decodeDiropArgs(reader io.Reader) (DiropArgs, error) {
	fh, err := xdr.DecodeFixedOpaque(reader, handle.Size)
	if err != nil {
		return DiropArgs{}, fmt.Errorf("read dir handle: %w", err)
	}
	name, err := xdr.DecodeString(reader, MaxNameLen)
	if err != nil {
		return DiropArgs{}, fmt.Errorf("read filename: %w", err)
	}
	return DiropArgs{DirHandle: fh, Filename: name}, nil
}

func DecodeSetAttrRequest(data []byte) (*SetAttrRequest, error) {
	reader := bytes.NewReader(data)

	fh, err := xdr.DecodeFixedOpaque(reader, handle.Size)
	if err != nil {
		return nil, fmt.Errorf("read handle: %w", err)
	}
	attr, err := decodeSAttr(reader)
	if err != nil {
		return nil, err
	}
	return &SetAttrRequest{Handle: fh, Attr: attr}, nil
}

func DecodeWriteRequest(data []byte) (*WriteRequest, error) {
	reader := bytes.NewReader(data)

	fh, err := xdr.DecodeFixedOpaque(reader, handle.Size)
	if err != nil {
		return nil, fmt.Errorf("read handle: %w", err)
	}
	begin, err := xdr.DecodeUint32(reader)
	if err != nil {
		return nil, fmt.Errorf("read beginoffset: %w", err)
	}
	offset, err := xdr.DecodeUint32(reader)
	if err != nil {
		return nil, fmt.Errorf("read offset: %w", err)
	}
	total, err := xdr.DecodeUint32(reader)
	if err != nil {
		return nil, fmt.Errorf("read totalcount: %w", err)
	}
	payload, err := xdr.DecodeOpaque(reader, MaxData)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}

	return &WriteRequest{
		Handle:      fh,
		BeginOffset: begin,
		Offset:      offset,
		TotalCount:  total,
		Data:        payload,
	}, nil
}

func DecodeCreateRequest(data []byte) (*CreateRequest, error) {
	reader := bytes.NewReader(data)

	where, err := decodeDiropArgs(reader)
	if err != nil {
		return nil, err
	}
	attr, err := decodeSAttr(reader)
	if err != nil {
		return nil, err
	}
	return &CreateRequest{Where: where, Attr: attr}, nil
}

func DecodeDiropArgs(data []byte) (*DiropArgs, error) {
	reader := bytes.NewReader(data)

	args, err := decodeDiropArgs(reader)
	if err != nil {
		return nil, err
	}
	return &args, nil
}

func DecodeRenameRequest(data []byte) (*RenameRequest, error) {
	reader := bytes.NewReader(data)

	from, err := decodeDiropArgs(reader)
	if err != nil {
		return nil, err
	}
	to, err := decodeDiropArgs(reader)
	if err != nil {
		return nil, err
	}
	return &RenameRequest{From: from, To: to}, nil
}

func DecodeLinkRequest(data []byte) (*LinkRequest, error) {
	reader := bytes.NewReader(data)

	fh, err := xdr.DecodeFixedOpaque(reader, handle.Size)
	if err != nil {
		return nil, fmt.Errorf("read handle: %w", err)
	}
	to, err := decodeDiropArgs(reader)
	if err != nil {
		return nil, err
	}
	return &LinkRequest{From: fh, To: to}, nil
}

func DecodeSymlinkRequest(data []byte) (*SymlinkRequest, error) {
	reader := bytes.NewReader(data)

	from, err := decodeDiropArgs(reader)
	if err != nil {
		return nil, err
	}
	target, err := xdr.DecodeString(reader, MaxPathLen)
	if err != nil {
		return nil, fmt.Errorf("read target: %w", err)
	}
	attr, err := decodeSAttr(reader)
	if err != nil {
		return nil, err
	}
	return &SymlinkRequest{From: from, Target: target, Attr: attr}, nil
}
