package mount

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// DumpResponse represents a DUMP reply (RFC 1094 Appendix A, procedure 2):
// the XDR-linked list of active (hostname, directory) mount records.
type DumpResponse struct {
	Entries []MountEntry
}

// Dump implements the DUMP procedure.
func (h *DefaultMountHandler) Dump() (*DumpResponse, error) {
	return &DumpResponse{Entries: h.mounts.List()}, nil
}

// Encode serializes the mount list. Each entry is preceded by a "value
// follows" boolean and the list ends with false.
func (resp *DumpResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	for _, e := range resp.Entries {
		if err := xdr.EncodeBool(&buf, true); err != nil {
			return nil, fmt.Errorf("write list marker: %w", err)
		}
		if err := xdr.EncodeString(&buf, e.Hostname); err != nil {
			return nil, fmt.Errorf("write hostname: %w", err)
		}
		if err := xdr.EncodeString(&buf, e.Directory); err != nil {
			return nil, fmt.Errorf("write directory: %w", err)
		}
	}
	if err := xdr.EncodeBool(&buf, false); err != nil {
		return nil, fmt.Errorf("write list terminator: %w", err)
	}

	return buf.Bytes(), nil
}
