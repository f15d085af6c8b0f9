package portmap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

func encodeMapping(t *testing.T, prog, vers, proto, port uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, v := range []uint32{prog, vers, proto, port} {
		require.NoError(t, xdr.EncodeUint32(&buf, v))
	}
	return buf.Bytes()
}

func TestGetPort(t *testing.T) {
	h := NewHandler()

	t.Run("AlwaysAnswersPortZero", func(t *testing.T) {
		req, err := DecodeGetPortRequest(encodeMapping(t, 100003, 2, 17, 0))
		require.NoError(t, err)
		assert.Equal(t, uint32(100003), req.Program)
		assert.Equal(t, uint32(17), req.Protocol)

		resp, err := h.GetPort(req)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), resp.Port)
	})

	t.Run("UnknownProgramStillSucceeds", func(t *testing.T) {
		req, err := DecodeGetPortRequest(encodeMapping(t, 424242, 1, 6, 0))
		require.NoError(t, err)
		resp, err := h.GetPort(req)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), resp.Port)
	})

	t.Run("EncodesSingleWord", func(t *testing.T) {
		encoded, err := (&GetPortResponse{Port: 0}).Encode()
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 0, 0}, encoded)
	})

	t.Run("RejectsTruncatedMapping", func(t *testing.T) {
		_, err := DecodeGetPortRequest([]byte{0, 0, 0})
		assert.Error(t, err)
	})
}

func TestNull(t *testing.T) {
	data, err := NewHandler().Null()
	require.NoError(t, err)
	assert.Empty(t, data)
}
