package nfs

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfs2d/internal/handle"
	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
	"github.com/marmos91/nfs2d/internal/vfs"
)

// ReadDirRequest represents a READDIR request
type ReadDirRequest struct {
	DirHandle []byte
	Cookie    uint32
	Count     uint32
}

// ReadDirResponse represents a READDIR response
type ReadDirResponse struct {
	Status  uint32
	Entries []DirEntry // only present if Status == NFSOK
	Eof     bool
}

// DirEntry is one entry in a READDIR reply.
type DirEntry struct {
	Fileid uint32
	Name   string
	Cookie uint32
}

// ReadDir reads entries from a directory.
//
// Cookies are zero-based entry indices into the lexicographically sorted
// listing: a returned cookie N means "resume after the N-th entry". For an
// unmodified directory the listing order is deterministic, so repeated calls
// with the same cookie return identical sequences. Entries are packed while
// their estimated XDR size fits the request's count budget; when the budget
// runs out first, eof is false and the last cookie resumes the listing.
// RFC 1094 Section 2.2.17
func (h *DefaultNFSHandler) ReadDir(req *ReadDirRequest) (*ReadDirResponse, error) {
	logger.Debug("READDIR handle=%x cookie=%d count=%d", req.DirHandle, req.Cookie, req.Count)

	dir, err := h.resolve(req.DirHandle)
	if err != nil {
		return &ReadDirResponse{Status: statusFromError(err)}, nil
	}
	if dir.Kind != vfs.KindDirectory {
		return &ReadDirResponse{Status: NFSErrNotDir}, nil
	}

	listing, err := h.resolver.ReadDirectory(dir)
	if err != nil {
		return &ReadDirResponse{Status: statusFromError(err)}, nil
	}

	budget := req.Count
	if budget == 0 {
		budget = DefaultReadDirBudget
	}

	// Reply overhead outside the entry list: status + list terminator +
	// eof flag.
	used := uint32(12)
	entries := make([]DirEntry, 0)
	eof := true

	for i := uint32(req.Cookie); i < uint32(len(listing)); i++ {
		le := listing[i]

		// entry = follows(4) + fileid(4) + name(4+len+pad) + cookie(4)
		nameLen := uint32(len(le.Name))
		entrySize := 4 + 4 + (4 + nameLen + (4-nameLen%4)%4) + 4

		if used+entrySize > budget {
			eof = false
			break
		}
		used += entrySize

		entries = append(entries, DirEntry{
			Fileid: uint32(le.Object.Ino),
			Name:   le.Name,
			Cookie: i + 1,
		})
	}

	logger.Debug("READDIR %s returning %d entries (eof=%v)", dir.Path, len(entries), eof)

	return &ReadDirResponse{
		Status:  NFSOK,
		Entries: entries,
		Eof:     eof,
	}, nil
}

func DecodeReadDirRequest(data []byte) (*ReadDirRequest, error) {
	reader := bytes.NewReader(data)

	fh, err := xdr.DecodeFixedOpaque(reader, handle.Size)
	if err != nil {
		return nil, fmt.Errorf("read handle: %w", err)
	}
	cookie, err := xdr.DecodeUint32(reader)
	if err != nil {
		return nil, fmt.Errorf("read cookie: %w", err)
	}
	count, err := xdr.DecodeUint32(reader)
	if err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}

	return &ReadDirRequest{DirHandle: fh, Cookie: cookie, Count: count}, nil
}

func (resp *ReadDirResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	if err := xdr.EncodeUint32(&buf, resp.Status); err != nil {
		return nil, fmt.Errorf("write status: %w", err)
	}
	if resp.Status != NFSOK {
		return buf.Bytes(), nil
	}

	for _, entry := range resp.Entries {
		if err := xdr.EncodeBool(&buf, true); err != nil {
			return nil, err
		}
		if err := xdr.EncodeUint32(&buf, entry.Fileid); err != nil {
			return nil, err
		}
		if err := xdr.EncodeString(&buf, entry.Name); err != nil {
			return nil, err
		}
		if err := xdr.EncodeUint32(&buf, entry.Cookie); err != nil {
			return nil, err
		}
	}

	// End of entry list, then the eof flag.
	if err := xdr.EncodeBool(&buf, false); err != nil {
		return nil, err
	}
	if err := xdr.EncodeBool(&buf, resp.Eof); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
