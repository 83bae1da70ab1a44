package io

import (
	"bufio"
	"bytes"
	"io"
)

// StripUTF8BOM returns an io.Reader that will consume a leading UTF-8 BOM
// (0xEF,0xBB,0xBF) if present, otherwise it returns a buffered reader over r.
// Some gateways in front of the Etherscan API have been seen prepending a BOM
// to JSON bodies, which encoding/json rejects.
func StripUTF8BOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	// Peek does not advance the reader
	b, err := br.Peek(3)
	if err == nil && bytes.Equal(b, []byte{0xEF, 0xBB, 0xBF}) {
		// discard the BOM bytes
		_, _ = br.Discard(3)
	}
	return br
}
