// Package portmap implements a minimal port mapper (RFC 1057 Appendix A)
// stub. Some clients insist on asking the portmapper before speaking NFS
// even when given explicit ports; answering GETPORT with port 0 tells them
// the mapping is unknown without making them hang on a timeout.
package portmap

import (
	"bytes"
	"fmt"

	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// Procedure numbers (portmap version 2)
const (
	PortmapProcNull    uint32 = 0
	PortmapProcSet     uint32 = 1
	PortmapProcUnset   uint32 = 2
	PortmapProcGetPort uint32 = 3
	PortmapProcDump    uint32 = 4
	PortmapProcCallIt  uint32 = 5
)

// GetPortRequest represents a GETPORT request: the mapping being queried.
// The port field is ignored by GETPORT but present on the wire.
type GetPortRequest struct {
	Program  uint32
	Version  uint32
	Protocol uint32
	Port     uint32
}

// GetPortResponse carries the mapped port, where 0 means "not registered".
type GetPortResponse struct {
	Port uint32
}

// DefaultPortmapHandler answers NULL and GETPORT; everything else is left to
// the dispatcher to reject as unavailable.
type DefaultPortmapHandler struct{}

// NewHandler creates a portmap handler.
func NewHandler() *DefaultPortmapHandler {
	return &DefaultPortmapHandler{}
}

// Null implements the NULL procedure.
func (h *DefaultPortmapHandler) Null() ([]byte, error) {
	return []byte{}, nil
}

// GetPort implements the GETPORT procedure. The stub never registers
// mappings, so every query succeeds with port 0.
func (h *DefaultPortmapHandler) GetPort(req *GetPortRequest) (*GetPortResponse, error) {
	return &GetPortResponse{Port: 0}, nil
}

// DecodeGetPortRequest parses a GETPORT request from raw XDR data
func DecodeGetPortRequest(data []byte) (*GetPortRequest, error) {
	reader := bytes.NewReader(data)

	var req GetPortRequest
	fields := []*uint32{&req.Program, &req.Version, &req.Protocol, &req.Port}
	for _, f := range fields {
		v, err := xdr.DecodeUint32(reader)
		if err != nil {
			return nil, fmt.Errorf("read mapping: %w", err)
		}
		*f = v
	}
	return &req, nil
}

// Encode serializes the GETPORT reply
func (resp *GetPortResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := xdr.EncodeUint32(&buf, resp.Port); err != nil {
		return nil, fmt.Errorf("write port: %w", err)
	}
	return buf.Bytes(), nil
}
