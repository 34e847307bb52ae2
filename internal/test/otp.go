package test

import (
	"io"

	"github.com/zeebo/blake3"
)

// OneTimePad is an io.Reader over a fixed byte stream, used as deterministic entropy.
// Once the stream is exhausted, reads fail.
type OneTimePad struct {
	data []byte
	pos  int
}

// NewOneTimePad returns a reader over a copy of data.
func NewOneTimePad(data []byte) *OneTimePad {
	return &OneTimePad{data: append([]byte{}, data...)}
}

// Read implements io.Reader.
func (o *OneTimePad) Read(p []byte) (int, error) {
	if o.pos >= len(o.data) {
		return 0, io.EOF
	}
	n := copy(p, o.data[o.pos:])
	o.pos += n
	return n, nil
}

// Remaining returns the number of unread bytes.
func (o *OneTimePad) Remaining() int {
	return len(o.data) - o.pos
}

// Stream expands seed into n pseudo-random bytes, with the BLAKE3 XOF.
func Stream(seed string, n int) []byte {
	h := blake3.New()
	_, _ = h.Write([]byte(seed))
	out := make([]byte, n)
	if _, err := io.ReadFull(h.Digest(), out); err != nil {
		panic(err)
	}
	return out
}

// NewStreamPad returns a OneTimePad over Stream(seed, n).
func NewStreamPad(seed string, n int) *OneTimePad {
	return NewOneTimePad(Stream(seed, n))
}
