package xdr

import "errors"

var (
	// ErrTruncated is returned when the input ends before a complete
	// XDR item could be decoded.
	ErrTruncated = errors.New("xdr: truncated input")

	// ErrLengthExceeded is returned when a declared variable length is
	// larger than the maximum the caller negotiated. This bounds memory
	// use against hostile length fields.
	ErrLengthExceeded = errors.New("xdr: declared length exceeds maximum")
)
