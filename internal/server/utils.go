package server

import (
	"errors"
	"fmt"

	"github.com/marmos91/nfs2d/internal/logger"
)

// errGarbageArgs marks a procedure whose arguments failed to decode. The
// dispatcher turns it into a GARBAGE_ARGS accepted reply.
var errGarbageArgs = errors.New("garbage args")

type rpcResponse interface {
	Encode() ([]byte, error)
}

// handleRequest runs one procedure end to end: decode the XDR arguments,
// invoke the handler, encode the reply body. Handlers report protocol-level
// failures inside their response status; a Go error here means the server
// itself could not process the call.
func handleRequest[Req any, Resp rpcResponse](
	data []byte,
	decode func([]byte) (Req, error),
	handle func(Req) (Resp, error),
) ([]byte, error) {
	req, err := decode(data)
	if err != nil {
		logger.Debug("Error decoding request: %v", err)
		return nil, fmt.Errorf("%w: %v", errGarbageArgs, err)
	}

	resp, err := handle(req)
	if err != nil {
		return nil, fmt.Errorf("handle request: %w", err)
	}

	encoded, err := resp.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}

	return encoded, nil
}
