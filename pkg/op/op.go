// Package op implements the operations of a timestamp proof: pure,
// deterministic byte transforms identified on the wire by a one-byte tag.
//
// Crypto operations (SHA1, SHA256, RIPEMD160, KECCAK256) carry no argument.
// Append and Prepend carry one varbytes argument written inline after the
// tag. Tags nobody registered decode to UnknownOperation, which re-encodes
// losslessly but cannot be applied.
package op

import (
	"errors"
	"fmt"
	"strings"

	"otsproof/pkg/dispatch"
	"otsproof/pkg/wire"
)

// Tag identifies an operation on the wire.
type Tag byte

// Wire tags. Crypto tags follow the RFC 4880 hash algorithm numbering.
const (
	TagSHA1      Tag = 0x02
	TagRIPEMD160 Tag = 0x03
	TagSHA256    Tag = 0x08
	TagKECCAK256 Tag = 0x67
	TagAppend    Tag = 0xf0
	TagPrepend   Tag = 0xf1
	TagReverse   Tag = 0xf2
	TagHexlify   Tag = 0xf3
)

// Size limits for non-crypto operations.
const (
	// MaxArgLength bounds the argument of Append and Prepend.
	MaxArgLength = 4096

	// MaxResultLength bounds the output of Append, Prepend and Hexlify.
	MaxResultLength = 4096
)

var (
	ErrUnknownOperation = errors.New("op: unknown operation")
	ErrResultTooLong    = errors.New("op: result too long")
	ErrUnknownName      = errors.New("op: unknown operation name")
	ErrEmptyArgument    = errors.New("op: empty argument")
)

// Operation is a pure transform from one message to the next.
// Implementations are immutable values and safe for concurrent use.
type Operation interface {
	Tag() Tag

	// Name is the stable lowercase identifier, e.g. "sha256".
	Name() string

	// Apply computes the operation's result over msg. It never retains msg.
	Apply(msg []byte) ([]byte, error)

	// encodeArgs writes whatever follows the tag on the wire.
	encodeArgs(w *wire.Writer)

	String() string
}

// Binary is an Operation carrying an argument: Append or Prepend.
type Binary interface {
	Operation

	// Arg returns a copy of the argument.
	Arg() []byte
}

// Digest is an Operation that runs a cryptographic hash function.
type Digest interface {
	Operation

	// DigestLength is the size of Apply's output in bytes.
	DigestLength() int
}

var registry = dispatch.New("operation", decodeUnknown,
	dispatch.Entry[Tag, Operation]{Tag: TagSHA1, Decode: unary(SHA1)},
	dispatch.Entry[Tag, Operation]{Tag: TagRIPEMD160, Decode: unary(RIPEMD160)},
	dispatch.Entry[Tag, Operation]{Tag: TagSHA256, Decode: unary(SHA256)},
	dispatch.Entry[Tag, Operation]{Tag: TagKECCAK256, Decode: unary(KECCAK256)},
	dispatch.Entry[Tag, Operation]{Tag: TagAppend, Decode: decodeAppend},
	dispatch.Entry[Tag, Operation]{Tag: TagPrepend, Decode: decodePrepend},
	dispatch.Entry[Tag, Operation]{Tag: TagReverse, Decode: unary(Reverse)},
	dispatch.Entry[Tag, Operation]{Tag: TagHexlify, Decode: unary(Hexlify)},
)

func unary(o Operation) dispatch.Decoder[Operation] {
	return func(*wire.Reader) (Operation, error) {
		return o, nil
	}
}

// Known reports whether tag belongs to a registered operation.
func Known(tag Tag) bool {
	return registry.Known(tag)
}

// Encode writes o's tag and argument to w.
func Encode(w *wire.Writer, o Operation) {
	_ = w.WriteByte(byte(o.Tag()))
	o.encodeArgs(w)
}

// Decode reads one operation record from r.
func Decode(r *wire.Reader) (Operation, error) {
	b, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	o, err := registry.Decode(Tag(b), r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", Tag(b), err)
	}
	return o, nil
}

// Marshal returns the wire encoding of o.
func Marshal(o Operation) []byte {
	w := wire.NewWriter()
	Encode(w, o)
	return w.Bytes()
}

// Unmarshal decodes exactly one operation from data.
func Unmarshal(data []byte) (Operation, error) {
	r := wire.NewReader(data)
	o, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := r.AssertEOF(); err != nil {
		return nil, err
	}
	return o, nil
}

// Equal reports whether a and b encode identically.
func Equal(a, b Operation) bool {
	return string(Marshal(a)) == string(Marshal(b))
}

// ByName returns the argument-free operation called name.
func ByName(name string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	case "ripemd160":
		return RIPEMD160, nil
	case "keccak256":
		return KECCAK256, nil
	case "reverse":
		return Reverse, nil
	case "hexlify":
		return Hexlify, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
}

// ParseChain parses a comma separated operation list such as
// "sha256,append:00ff,ripemd160". Append and Prepend take a hex argument
// after a colon.
func ParseChain(s string) ([]Operation, error) {
	var ops []Operation
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, arg, hasArg := strings.Cut(part, ":")
		switch strings.ToLower(name) {
		case "append", "prepend":
			if !hasArg {
				return nil, fmt.Errorf("%s: %w", name, ErrEmptyArgument)
			}
			o, err := parseBinary(strings.ToLower(name), arg)
			if err != nil {
				return nil, err
			}
			ops = append(ops, o)
		default:
			if hasArg {
				return nil, fmt.Errorf("op: %s takes no argument", name)
			}
			o, err := ByName(name)
			if err != nil {
				return nil, err
			}
			ops = append(ops, o)
		}
	}
	return ops, nil
}

// ApplyChain runs ops in order starting from msg and returns every
// intermediate result, the last being the final digest.
func ApplyChain(msg []byte, ops []Operation) ([][]byte, error) {
	steps := make([][]byte, 0, len(ops))
	cur := msg
	for i, o := range ops {
		next, err := o.Apply(cur)
		if err != nil {
			return steps, fmt.Errorf("step %d (%s): %w", i, o.Name(), err)
		}
		steps = append(steps, next)
		cur = next
	}
	return steps, nil
}

func (t Tag) String() string {
	return fmt.Sprintf("op(0x%02x)", byte(t))
}
