package op

import (
	"crypto/sha1"
	"crypto/sha256"
	"hash"

	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"

	"otsproof/pkg/wire"
)

// cryptOp runs one hash function. Every Apply call builds a fresh hash
// state; nothing mutable lives on the value.
type cryptOp struct {
	tag  Tag
	name string
	size int
}

// The crypto operations. They are stateless and may be shared freely.
var (
	SHA1      Digest = cryptOp{tag: TagSHA1, name: "sha1", size: sha1.Size}
	RIPEMD160 Digest = cryptOp{tag: TagRIPEMD160, name: "ripemd160", size: ripemd160.Size}
	SHA256    Digest = cryptOp{tag: TagSHA256, name: "sha256", size: sha256.Size}
	KECCAK256 Digest = cryptOp{tag: TagKECCAK256, name: "keccak256", size: 32}
)

func (c cryptOp) Tag() Tag { return c.tag }

func (c cryptOp) Name() string { return c.name }

func (c cryptOp) DigestLength() int { return c.size }

func (c cryptOp) String() string { return c.name }

func (cryptOp) encodeArgs(*wire.Writer) {}

func (c cryptOp) Apply(msg []byte) ([]byte, error) {
	h := c.newHash()
	h.Write(msg)
	return h.Sum(make([]byte, 0, c.size)), nil
}

func (c cryptOp) newHash() hash.Hash {
	switch c.tag {
	case TagSHA1:
		return sha1.New()
	case TagRIPEMD160:
		return ripemd160.New()
	case TagKECCAK256:
		// Original Keccak padding, not FIPS 202 SHA3-256.
		return sha3.NewLegacyKeccak256()
	default:
		return sha256.New()
	}
}
