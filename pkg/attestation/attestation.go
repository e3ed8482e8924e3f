// Package attestation implements the terminal evidence records of a
// timestamp proof.
//
// On the wire every attestation is an 8-byte tag followed by a varbytes
// payload of at most MaxPayloadSize bytes. Known tags are decoded into their
// variant; any other tag becomes an Unknown that keeps tag and payload
// verbatim, so proofs containing attestation types defined later still
// decode and re-encode byte for byte.
//
// Attestations are immutable. Compare defines a strict total order over all
// variants, including mismatched variants sharing a tag, so that collections
// assembled from different sources sort and deduplicate identically.
package attestation

import (
	"bytes"
	"cmp"
	"encoding/hex"
	"fmt"
	"slices"

	"otsproof/pkg/dispatch"
	"otsproof/pkg/wire"
)

const (
	// TagSize is the width of an attestation tag.
	TagSize = 8

	// MaxPayloadSize bounds every attestation payload before the variant
	// decoder runs.
	MaxPayloadSize = 8192
)

// Tag identifies an attestation variant on the wire.
type Tag [TagSize]byte

// Known tags.
var (
	TagPending  = Tag{0x83, 0xdf, 0xe3, 0x0d, 0x2e, 0xf9, 0x0c, 0x8e}
	TagBitcoin  = Tag{0x05, 0x88, 0x96, 0x0d, 0x73, 0xd7, 0x19, 0x01}
	TagLitecoin = Tag{0x06, 0x86, 0x9a, 0x0d, 0x73, 0xd7, 0x1b, 0x45}
	TagEthereum = Tag{0x30, 0xfe, 0x80, 0x87, 0xb5, 0xc7, 0xea, 0xd7}
)

func (t Tag) String() string {
	return hex.EncodeToString(t[:])
}

// Kind is a fixed discriminant per variant. It breaks ties between values of
// different variants that carry the same tag; the numbers are part of the
// ordering contract and must never be reassigned. Values below 128 are
// reserved for this package.
type Kind uint8

const (
	KindUnknown  Kind = 0
	KindPending  Kind = 1
	KindBitcoin  Kind = 2
	KindLitecoin Kind = 3
	KindEthereum Kind = 4
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindPending:
		return "pending"
	case KindBitcoin:
		return "bitcoin"
	case KindLitecoin:
		return "litecoin"
	case KindEthereum:
		return "ethereum"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Attestation is one piece of existence evidence.
type Attestation interface {
	Tag() Tag
	Kind() Kind

	// EncodePayload writes the variant payload, without tag or length.
	EncodePayload(w *wire.Writer)

	// Compare orders the receiver against other; see the package Compare.
	Compare(other Attestation) int

	String() string
}

var registry = dispatch.New("attestation", decodeUnknown,
	dispatch.Entry[Tag, Attestation]{Tag: TagPending, Decode: decodePending},
	dispatch.Entry[Tag, Attestation]{Tag: TagBitcoin, Decode: blockHeaderDecoder(Bitcoin)},
	dispatch.Entry[Tag, Attestation]{Tag: TagLitecoin, Decode: blockHeaderDecoder(Litecoin)},
	dispatch.Entry[Tag, Attestation]{Tag: TagEthereum, Decode: blockHeaderDecoder(Ethereum)},
)

// Known reports whether tag has a registered decoder.
func Known(tag Tag) bool {
	return registry.Known(tag)
}

// KnownTags returns every registered tag.
func KnownTags() []Tag {
	return registry.Tags()
}

// Encode writes a's tag and length-prefixed payload to w.
func Encode(w *wire.Writer, a Attestation) {
	tag := a.Tag()
	dispatch.WriteFramed(w, tag[:], a.EncodePayload)
}

// Decode reads one attestation record from r.
//
// Failures reading the tag or the framed payload wrap the wire package
// errors and leave r unusable. Failures inside a well framed payload are
// returned as a *RecordError; r is then already positioned at the next
// record, and errors.Is(err, ErrInvalidContent) tells semantic rejections
// apart from malformed payload bytes.
func Decode(r *wire.Reader) (Attestation, error) {
	rawTag, payload, err := dispatch.ReadFramed(r, TagSize, MaxPayloadSize)
	if err != nil {
		if rawTag != nil {
			return nil, fmt.Errorf("attestation %x: %w", rawTag, err)
		}
		return nil, fmt.Errorf("attestation tag: %w", err)
	}

	var tag Tag
	copy(tag[:], rawTag)

	a, err := registry.DecodeFramed(tag, payload)
	if err != nil {
		return nil, &RecordError{Tag: tag, Payload: payload, Err: err}
	}
	return a, nil
}

// Marshal returns the wire encoding of a.
func Marshal(a Attestation) []byte {
	w := wire.NewWriter()
	Encode(w, a)
	return w.Bytes()
}

// Unmarshal decodes exactly one attestation from data.
func Unmarshal(data []byte) (Attestation, error) {
	r := wire.NewReader(data)
	a, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := r.AssertEOF(); err != nil {
		return nil, err
	}
	return a, nil
}

// Compare orders a and b: by tag bytes, then by Kind, then by the variant's
// own fields. It returns -1, 0 or +1 and is a strict total order across every
// variant.
func Compare(a, b Attestation) int {
	ta, tb := a.Tag(), b.Tag()
	if c := bytes.Compare(ta[:], tb[:]); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Kind(), b.Kind()); c != 0 {
		return c
	}
	switch x := a.(type) {
	case Pending:
		if y, ok := b.(Pending); ok {
			return cmp.Compare(x.uri, y.uri)
		}
	case BlockHeader:
		if y, ok := b.(BlockHeader); ok {
			return cmp.Compare(x.height, y.height)
		}
	case Unknown:
		if y, ok := b.(Unknown); ok {
			return cmp.Compare(x.payload, y.payload)
		}
	}
	// Implementations outside this package must use their own Kind; among
	// those, the wire encoding decides.
	return bytes.Compare(Marshal(a), Marshal(b))
}

// Equal reports whether a and b are the same attestation.
func Equal(a, b Attestation) bool {
	return Compare(a, b) == 0
}

// Sort orders list in place by Compare.
func Sort(list []Attestation) {
	slices.SortStableFunc(list, Compare)
}

// Dedupe returns a sorted copy of list with equal attestations collapsed.
func Dedupe(list []Attestation) []Attestation {
	out := slices.Clone(list)
	Sort(out)
	return slices.CompactFunc(out, Equal)
}
