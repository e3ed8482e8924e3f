// Package wire implements the byte-level codec shared by every proof record:
// fixed-width bytes, unsigned varints, and varint-length-prefixed byte strings.
//
// A Writer only appends and a Reader only consumes. Neither is safe for
// concurrent use; give each encode or decode call its own instance.
package wire

import (
	"github.com/multiformats/go-varint"
)

// Writer is an append-only byte accumulator.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBytes appends b verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteByte appends a single byte. It never fails.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

// WriteVarint appends n as an unsigned varint: seven payload bits per byte,
// least significant group first, high bit set on every byte but the last.
//
// Values above 2^63-1 are written but will be rejected by Reader.
func (w *Writer) WriteVarint(n uint64) {
	w.buf = append(w.buf, varint.ToUvarint(n)...)
}

// WriteVarbytes appends len(b) as a varint followed by b.
// No upper bound is enforced on write.
func (w *Writer) WriteVarbytes(b []byte) {
	w.WriteVarint(uint64(len(b)))
	w.WriteBytes(b)
}

// Bytes returns the accumulated output. The slice aliases the Writer's
// buffer until the next write.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}
