package op

import (
	"bytes"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otsproof/pkg/wire"
)

// =============================================================================
// Digest Vectors
// =============================================================================

var multiBlock = bytes.Repeat([]byte{'a'}, 200)

func TestDigest_Vectors(t *testing.T) {
	tests := []struct {
		op    Digest
		input []byte
		want  string
	}{
		{SHA256, nil, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{SHA256, []byte("a"), "ca978112ca1bbdcafac231b39a23dc4da786eff8147c4e72b9807785afee48bb"},
		{SHA256, multiBlock, "c2a908d98f5df987ade41b5fce213067efbcc21ef2240212a41e54b5e7c28ae5"},

		{RIPEMD160, nil, "9c1185a5c5e9fc54612808977ee8f548b2258d31"},
		{RIPEMD160, []byte("a"), "0bdc9d2d256b3ee9daae347be6f4dc835a467ffe"},
		{RIPEMD160, multiBlock, "2a5b424394c0fce2665d4e0b077e998d2d62160a"},

		{KECCAK256, nil, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
		{KECCAK256, []byte("a"), "3ac225168df54212a25c1c01fd35bebfea408fdac2e31ddd6f80a4bbf9a5f1cb"},
		{KECCAK256, []byte("The quick brown fox jumps over the lazy dog"), "4d741b6f1eb29cb2a9b9911c82f56fa8d73b04959d3d9d222895df6c0b28aa15"},
		{KECCAK256, multiBlock, "96ea54061def936c4be90b518992fdc6f12f535068a256229aca54267b4d084d"},

		{SHA1, nil, "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{SHA1, []byte("a"), "86f7e437faa5a7fce15d1ddcb9eaeaea377667b8"},
		{SHA1, multiBlock, "e61cfffe0d9195a525fc6cf06ca2d77119c24a40"},
	}

	for _, tt := range tests {
		t.Run(tt.op.Name()+"/"+hex.EncodeToString(tt.input[:min(len(tt.input), 4)]), func(t *testing.T) {
			got, err := tt.op.Apply(tt.input)
			require.NoError(t, err)
			assert.Len(t, got, tt.op.DigestLength())
			assert.Equal(t, tt.want, hex.EncodeToString(got))
		})
	}
}

func TestKeccak_NotSHA3(t *testing.T) {
	got, err := KECCAK256.Apply(nil)
	require.NoError(t, err)
	assert.NotEqual(t, "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a", hex.EncodeToString(got))
}

func TestDigest_Metadata(t *testing.T) {
	tests := []struct {
		op   Digest
		tag  Tag
		name string
		size int
	}{
		{SHA1, 0x02, "sha1", 20},
		{RIPEMD160, 0x03, "ripemd160", 20},
		{SHA256, 0x08, "sha256", 32},
		{KECCAK256, 103, "keccak256", 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.tag, tt.op.Tag())
			assert.Equal(t, tt.name, tt.op.Name())
			assert.Equal(t, tt.size, tt.op.DigestLength())
			assert.Equal(t, []byte{byte(tt.tag)}, Marshal(tt.op))
		})
	}
}

// Repeated and concurrent calls must never share hash state.
func TestDigest_NoStateLeak(t *testing.T) {
	for _, d := range []Digest{SHA1, SHA256, RIPEMD160, KECCAK256} {
		first, err := d.Apply([]byte("message"))
		require.NoError(t, err)
		second, err := d.Apply([]byte("message"))
		require.NoError(t, err)
		assert.Equal(t, first, second, d.Name())
	}
}

func TestDigest_Concurrent(t *testing.T) {
	inputs := [][]byte{nil, []byte("a"), multiBlock, []byte("abc")}
	want := make(map[string][]byte)
	for _, in := range inputs {
		out, err := KECCAK256.Apply(in)
		require.NoError(t, err)
		want[string(in)] = out
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(in []byte) {
			defer wg.Done()
			out, err := KECCAK256.Apply(in)
			if err != nil || !bytes.Equal(out, want[string(in)]) {
				errs <- string(in)
			}
		}(inputs[i%len(inputs)])
	}
	wg.Wait()
	close(errs)
	for in := range errs {
		t.Errorf("concurrent digest mismatch for %q", in)
	}
}

func TestApply_DoesNotRetainInput(t *testing.T) {
	msg := []byte("abc")
	out, err := Reverse.Apply(msg)
	require.NoError(t, err)
	msg[0] = 'z'
	assert.Equal(t, []byte("cba"), out)
}

// =============================================================================
// Non-crypto Operations
// =============================================================================

func TestAppendPrepend(t *testing.T) {
	app, err := NewAppend([]byte{0xff})
	require.NoError(t, err)
	pre, err := NewPrepend([]byte{0x00})
	require.NoError(t, err)

	got, err := app.Apply([]byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0xff}, got)

	got, err = pre.Apply([]byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0x02}, got)

	assert.Equal(t, []byte{0xf0, 0x01, 0xff}, Marshal(app))
	assert.Equal(t, []byte{0xf1, 0x01, 0x00}, Marshal(pre))
	assert.Equal(t, "append ff", app.String())

	b, ok := app.(Binary)
	require.True(t, ok)
	assert.Equal(t, []byte{0xff}, b.Arg())
}

func TestBinary_Limits(t *testing.T) {
	_, err := NewAppend(nil)
	assert.ErrorIs(t, err, ErrEmptyArgument)

	_, err = NewAppend(make([]byte, MaxArgLength+1))
	assert.Error(t, err)

	app, err := NewAppend(make([]byte, MaxArgLength))
	require.NoError(t, err)
	_, err = app.Apply([]byte{0x01})
	assert.ErrorIs(t, err, ErrResultTooLong)
}

func TestHexlifyReverse(t *testing.T) {
	got, err := Hexlify.Apply([]byte{0xde, 0xad})
	require.NoError(t, err)
	assert.Equal(t, []byte("dead"), got)

	_, err = Hexlify.Apply(make([]byte, MaxResultLength/2+1))
	assert.ErrorIs(t, err, ErrResultTooLong)

	got, err = Reverse.Apply([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 2, 1}, got)
}

// =============================================================================
// Wire Round Trip
// =============================================================================

func TestRoundTrip(t *testing.T) {
	app, err := NewAppend([]byte("suffix"))
	require.NoError(t, err)
	pre, err := NewPrepend(bytes.Repeat([]byte{0x07}, 300))
	require.NoError(t, err)

	ops := []Operation{SHA1, RIPEMD160, SHA256, KECCAK256, Reverse, Hexlify, app, pre, NewUnknown(0x42)}
	for _, o := range ops {
		t.Run(o.Name(), func(t *testing.T) {
			encoded := Marshal(o)
			decoded, err := Unmarshal(encoded)
			require.NoError(t, err)
			assert.Equal(t, o, decoded)
			assert.True(t, Equal(o, decoded))
			assert.Equal(t, encoded, Marshal(decoded))
		})
	}
}

func TestDecode_Stream(t *testing.T) {
	app, err := NewAppend([]byte{0xaa, 0xbb})
	require.NoError(t, err)

	w := wire.NewWriter()
	for _, o := range []Operation{SHA256, app, RIPEMD160} {
		Encode(w, o)
	}

	r := wire.NewReader(w.Bytes())
	var got []Operation
	for r.Len() > 0 {
		o, err := Decode(r)
		require.NoError(t, err)
		got = append(got, o)
	}
	assert.Equal(t, []Operation{SHA256, app, RIPEMD160}, got)
}

func TestDecode_UnknownTag(t *testing.T) {
	o, err := Unmarshal([]byte{0x99})
	require.NoError(t, err)
	assert.False(t, Known(0x99))
	assert.Equal(t, Tag(0x99), o.Tag())
	assert.Equal(t, []byte{0x99}, Marshal(o))

	_, err = o.Apply([]byte("x"))
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Unmarshal(nil)
	assert.ErrorIs(t, err, wire.ErrTruncated)

	// Append declaring a 5-byte argument with 1 byte present.
	_, err = Unmarshal([]byte{0xf0, 0x05, 0x01})
	assert.ErrorIs(t, err, wire.ErrTruncated)

	// Argument length above MaxArgLength (4097 = 0x81 0x20).
	_, err = Unmarshal([]byte{0xf0, 0x81, 0x20})
	assert.ErrorIs(t, err, wire.ErrPayloadTooLarge)

	_, err = Unmarshal([]byte{0xf0, 0x00})
	assert.ErrorIs(t, err, ErrEmptyArgument)

	_, err = Unmarshal([]byte{0x08, 0x08})
	assert.ErrorIs(t, err, wire.ErrTrailingData)
}

// =============================================================================
// Names and Chains
// =============================================================================

func TestByName(t *testing.T) {
	o, err := ByName("SHA256")
	require.NoError(t, err)
	assert.Equal(t, SHA256, o)

	_, err = ByName("md5")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestParseChain(t *testing.T) {
	ops, err := ParseChain("sha256, append:00ff ,ripemd160")
	require.NoError(t, err)
	require.Len(t, ops, 3)
	assert.Equal(t, SHA256, ops[0])
	assert.Equal(t, TagAppend, ops[1].Tag())
	assert.Equal(t, RIPEMD160, ops[2])

	_, err = ParseChain("append")
	assert.ErrorIs(t, err, ErrEmptyArgument)
	_, err = ParseChain("append:zz")
	assert.Error(t, err)
	_, err = ParseChain("sha256:00")
	assert.Error(t, err)
	_, err = ParseChain("whirlpool")
	assert.ErrorIs(t, err, ErrUnknownName)

	ops, err = ParseChain("")
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestApplyChain(t *testing.T) {
	// Bitcoin-style HASH160: ripemd160(sha256(x)).
	steps, err := ApplyChain(nil, []Operation{SHA256, RIPEMD160})
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb", hex.EncodeToString(steps[1]))

	_, err = ApplyChain(nil, []Operation{SHA256, NewUnknown(0x50)})
	assert.ErrorIs(t, err, ErrUnknownOperation)
}
