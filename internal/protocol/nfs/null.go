package nfs

// Null does nothing. This is used to test connectivity.
// RFC 1094 Section 2.2.1
func (h *DefaultNFSHandler) Null() ([]byte, error) {
	return []byte{}, nil
}

// Root is the obsolete ROOT procedure (RFC 1094 Section 2.2.4). It was never
// given semantics by the protocol; it takes void and returns void.
func (h *DefaultNFSHandler) Root() ([]byte, error) {
	return []byte{}, nil
}
