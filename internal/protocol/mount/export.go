package mount

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// ExportEntry is one directory in an EXPORT reply together with the client
// groups allowed to mount it.
type ExportEntry struct {
	Directory string
	Groups    []string
}

// ExportResponse represents an EXPORT reply (RFC 1094 Appendix A,
// procedure 5): an XDR-linked list of export entries, each carrying its own
// linked list of group names.
type ExportResponse struct {
	Entries []ExportEntry
}

// Export implements the EXPORT procedure. Exports are advertised under their
// mount names, the same names MNT matches against.
func (h *DefaultMountHandler) Export() (*ExportResponse, error) {
	entries := h.exports.List()

	resp := &ExportResponse{Entries: make([]ExportEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, ExportEntry{
			Directory: "/" + e.Name,
			Groups:    e.Options.Clients,
		})
	}
	return resp, nil
}

// Encode serializes the export list
func (resp *ExportResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	for _, e := range resp.Entries {
		if err := xdr.EncodeBool(&buf, true); err != nil {
			return nil, fmt.Errorf("write list marker: %w", err)
		}
		if err := xdr.EncodeString(&buf, e.Directory); err != nil {
			return nil, fmt.Errorf("write directory: %w", err)
		}
		for _, g := range e.Groups {
			if err := xdr.EncodeBool(&buf, true); err != nil {
				return nil, fmt.Errorf("write group marker: %w", err)
			}
			if err := xdr.EncodeString(&buf, g); err != nil {
				return nil, fmt.Errorf("write group: %w", err)
			}
		}
		if err := xdr.EncodeBool(&buf, false); err != nil {
			return nil, fmt.Errorf("write group terminator: %w", err)
		}
	}
	if err := xdr.EncodeBool(&buf, false); err != nil {
		return nil, fmt.Errorf("write list terminator: %w", err)
	}

	return buf.Bytes(), nil
}
