package wire

import (
	"errors"

	"github.com/multiformats/go-varint"
)

// MaxVarintLen is the longest varint Reader accepts.
const MaxVarintLen = varint.MaxLenUvarint63

// Reader is a cursor over a caller-owned input buffer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader positioned at the start of buf.
// The Reader never modifies buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.pos
}

// ReadBytes consumes exactly n bytes and returns a copy of them.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, &DecodeError{Offset: r.pos, Want: uint64(max(n, 0)), Err: ErrTruncated}
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadByte consumes a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.Len() < 1 {
		return 0, &DecodeError{Offset: r.pos, Want: 1, Err: ErrTruncated}
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadVarint consumes one unsigned varint.
func (r *Reader) ReadVarint() (uint64, error) {
	n, size, err := varint.FromUvarint(r.buf[r.pos:])
	if err != nil {
		return 0, &DecodeError{Offset: r.pos, Err: malformed(err)}
	}
	r.pos += size
	return n, nil
}

// ReadVarbytes consumes a varint length L followed by L bytes.
// It fails with ErrPayloadTooLarge when L exceeds maxLen; the cursor is
// left after the length prefix in that case.
func (r *Reader) ReadVarbytes(maxLen int) ([]byte, error) {
	start := r.pos
	l, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if l > uint64(max(maxLen, 0)) {
		return nil, &DecodeError{Offset: start, Want: uint64(max(maxLen, 0)), Err: ErrPayloadTooLarge}
	}
	return r.ReadBytes(int(l))
}

// Rest consumes and returns a copy of every unread byte.
func (r *Reader) Rest() []byte {
	out, _ := r.ReadBytes(r.Len())
	return out
}

// AssertEOF fails with ErrTrailingData if any bytes remain unread.
func (r *Reader) AssertEOF() error {
	if r.Len() != 0 {
		return &DecodeError{Offset: r.pos, Want: uint64(r.Len()), Err: ErrTrailingData}
	}
	return nil
}

// malformed maps go-varint failures onto the codec taxonomy. Running out of
// input mid-varint is malformed rather than truncated: no terminating byte
// was ever seen.
func malformed(err error) error {
	switch {
	case errors.Is(err, varint.ErrUnderflow),
		errors.Is(err, varint.ErrOverflow),
		errors.Is(err, varint.ErrNotMinimal):
		return ErrMalformedVarint
	default:
		return errors.Join(ErrMalformedVarint, err)
	}
}
