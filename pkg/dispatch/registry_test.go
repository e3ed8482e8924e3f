package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otsproof/pkg/wire"
)

type shape interface{ name() string }

type square struct{ side uint64 }

func (square) name() string { return "square" }

type other struct {
	tag  byte
	rest []byte
}

func (other) name() string { return "other" }

func decodeSquare(r *wire.Reader) (shape, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	return square{side: n}, nil
}

func fallbackOther(tag byte, r *wire.Reader) (shape, error) {
	return other{tag: tag, rest: r.Rest()}, nil
}

func newShapes() *Registry[byte, shape] {
	return New("shape", fallbackOther, Entry[byte, shape]{Tag: 0x01, Decode: decodeSquare})
}

func TestRegistry_KnownTag(t *testing.T) {
	reg := newShapes()
	assert.True(t, reg.Known(0x01))
	assert.False(t, reg.Known(0x02))
	assert.Equal(t, []byte{0x01}, reg.Tags())
	assert.Equal(t, "shape", reg.Family())

	v, err := reg.Decode(0x01, wire.NewReader([]byte{0x05}))
	require.NoError(t, err)
	assert.Equal(t, square{side: 5}, v)
}

func TestRegistry_UnknownTagFallsBack(t *testing.T) {
	reg := newShapes()

	v, err := reg.DecodeFramed(0x7f, []byte{0xaa, 0xbb})
	require.NoError(t, err)
	assert.Equal(t, other{tag: 0x7f, rest: []byte{0xaa, 0xbb}}, v)
}

func TestRegistry_DecoderErrorPropagates(t *testing.T) {
	reg := newShapes()
	_, err := reg.DecodeFramed(0x01, []byte{0x80})
	assert.ErrorIs(t, err, wire.ErrMalformedVarint)
}

func TestRegistry_FramedTrailingData(t *testing.T) {
	reg := newShapes()
	_, err := reg.DecodeFramed(0x01, []byte{0x05, 0x00})
	assert.ErrorIs(t, err, wire.ErrTrailingData)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		New("shape", fallbackOther,
			Entry[byte, shape]{Tag: 0x01, Decode: decodeSquare},
			Entry[byte, shape]{Tag: 0x01, Decode: decodeSquare},
		)
	})
	assert.Panics(t, func() {
		New("shape", fallbackOther, Entry[byte, shape]{Tag: 0x01})
	})
	assert.Panics(t, func() {
		New[byte, shape]("shape", nil)
	})
}

func TestRegistry_TagsIsCopy(t *testing.T) {
	reg := newShapes()
	tags := reg.Tags()
	tags[0] = 0xff
	assert.True(t, reg.Known(0x01))
	assert.Equal(t, []byte{0x01}, reg.Tags())
}

func TestFramedRoundTrip(t *testing.T) {
	w := wire.NewWriter()
	WriteFramed(w, []byte{1, 2, 3, 4}, func(sub *wire.Writer) {
		sub.WriteVarint(300)
	})
	assert.Equal(t, []byte{1, 2, 3, 4, 0x02, 0xac, 0x02}, w.Bytes())

	tag, payload, err := ReadFramed(wire.NewReader(w.Bytes()), 4, 16)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, tag)
	assert.Equal(t, []byte{0xac, 0x02}, payload)
}

func TestReadFramed_Errors(t *testing.T) {
	_, _, err := ReadFramed(wire.NewReader([]byte{1, 2}), 4, 16)
	assert.ErrorIs(t, err, wire.ErrTruncated)

	tag, _, err := ReadFramed(wire.NewReader([]byte{1, 2, 3, 4, 0x11}), 4, 16)
	assert.ErrorIs(t, err, wire.ErrPayloadTooLarge)
	assert.Equal(t, []byte{1, 2, 3, 4}, tag, "tag stays inspectable")
}
