package op

import (
	"encoding/hex"
	"fmt"

	"otsproof/pkg/wire"
)

// binaryOp concatenates a fixed argument onto the message. The argument is
// held as a string so the value stays immutable.
type binaryOp struct {
	tag Tag
	arg string
}

// NewAppend returns the operation msg || arg.
func NewAppend(arg []byte) (Operation, error) {
	return newBinary(TagAppend, arg)
}

// NewPrepend returns the operation arg || msg.
func NewPrepend(arg []byte) (Operation, error) {
	return newBinary(TagPrepend, arg)
}

func newBinary(tag Tag, arg []byte) (Operation, error) {
	if len(arg) == 0 {
		return nil, ErrEmptyArgument
	}
	if len(arg) > MaxArgLength {
		return nil, fmt.Errorf("op: argument of %d bytes exceeds %d", len(arg), MaxArgLength)
	}
	return binaryOp{tag: tag, arg: string(arg)}, nil
}

func parseBinary(name, hexArg string) (Operation, error) {
	arg, err := hex.DecodeString(hexArg)
	if err != nil {
		return nil, fmt.Errorf("op: %s argument: %w", name, err)
	}
	if name == "prepend" {
		return NewPrepend(arg)
	}
	return NewAppend(arg)
}

func decodeAppend(r *wire.Reader) (Operation, error) {
	return decodeBinary(TagAppend, r)
}

func decodePrepend(r *wire.Reader) (Operation, error) {
	return decodeBinary(TagPrepend, r)
}

func decodeBinary(tag Tag, r *wire.Reader) (Operation, error) {
	arg, err := r.ReadVarbytes(MaxArgLength)
	if err != nil {
		return nil, err
	}
	return newBinary(tag, arg)
}

func (b binaryOp) Tag() Tag { return b.tag }

func (b binaryOp) Name() string {
	if b.tag == TagPrepend {
		return "prepend"
	}
	return "append"
}

// Arg returns a copy of the operation's argument.
func (b binaryOp) Arg() []byte { return []byte(b.arg) }

func (b binaryOp) encodeArgs(w *wire.Writer) {
	w.WriteVarbytes([]byte(b.arg))
}

func (b binaryOp) Apply(msg []byte) ([]byte, error) {
	if len(msg)+len(b.arg) > MaxResultLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrResultTooLong, len(msg)+len(b.arg))
	}
	out := make([]byte, 0, len(msg)+len(b.arg))
	if b.tag == TagPrepend {
		out = append(out, b.arg...)
		return append(out, msg...), nil
	}
	out = append(out, msg...)
	return append(out, b.arg...), nil
}

func (b binaryOp) String() string {
	return fmt.Sprintf("%s %x", b.Name(), b.arg)
}

// unaryOp is an argument-free, non-cryptographic transform.
type unaryOp struct {
	tag Tag
}

// Reverse and Hexlify. Reverse is kept only for reading old proofs.
var (
	Reverse Operation = unaryOp{tag: TagReverse}
	Hexlify Operation = unaryOp{tag: TagHexlify}
)

func (u unaryOp) Tag() Tag { return u.tag }

func (u unaryOp) Name() string {
	if u.tag == TagReverse {
		return "reverse"
	}
	return "hexlify"
}

func (unaryOp) encodeArgs(*wire.Writer) {}

func (u unaryOp) Apply(msg []byte) ([]byte, error) {
	if u.tag == TagReverse {
		out := make([]byte, len(msg))
		for i, b := range msg {
			out[len(msg)-1-i] = b
		}
		return out, nil
	}
	if hex.EncodedLen(len(msg)) > MaxResultLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrResultTooLong, hex.EncodedLen(len(msg)))
	}
	out := make([]byte, hex.EncodedLen(len(msg)))
	hex.Encode(out, msg)
	return out, nil
}

func (u unaryOp) String() string { return u.Name() }

// UnknownOperation is an operation tag this build does not recognise.
type UnknownOperation struct {
	tag Tag
}

// NewUnknown wraps an unrecognised tag.
func NewUnknown(tag Tag) UnknownOperation {
	return UnknownOperation{tag: tag}
}

func decodeUnknown(tag Tag, _ *wire.Reader) (Operation, error) {
	return UnknownOperation{tag: tag}, nil
}

func (u UnknownOperation) Tag() Tag { return u.tag }

func (u UnknownOperation) Name() string { return fmt.Sprintf("unknown(0x%02x)", byte(u.tag)) }

func (UnknownOperation) encodeArgs(*wire.Writer) {}

func (u UnknownOperation) Apply([]byte) ([]byte, error) {
	return nil, fmt.Errorf("%w: tag 0x%02x", ErrUnknownOperation, byte(u.tag))
}

func (u UnknownOperation) String() string { return u.Name() }
