// Package dispatch maps fixed-width tags to variant decoders.
//
// A Registry is built once per record family and never modified afterwards.
// Tags with no registered decoder are not an error: they resolve to the
// family's fallback, which must preserve whatever it consumes verbatim so
// that records written by newer software survive a decode/encode cycle.
package dispatch

import (
	"fmt"

	"otsproof/pkg/wire"
)

// Decoder decodes one variant's payload from r.
type Decoder[T any] func(r *wire.Reader) (T, error)

// Fallback builds the family's unknown variant for an unregistered tag.
type Fallback[K comparable, T any] func(tag K, r *wire.Reader) (T, error)

// Entry binds a tag to its decoder.
type Entry[K comparable, T any] struct {
	Tag    K
	Decode Decoder[T]
}

// Registry is an immutable tag to decoder table. It is safe for concurrent use.
type Registry[K comparable, T any] struct {
	family   string
	decoders map[K]Decoder[T]
	order    []K
	fallback Fallback[K, T]
}

// New builds a registry for family. It panics on a duplicate tag or a nil
// decoder, since both are programming errors caught at process start.
func New[K comparable, T any](family string, fallback Fallback[K, T], entries ...Entry[K, T]) *Registry[K, T] {
	if fallback == nil {
		panic(fmt.Sprintf("dispatch: %s registry without fallback", family))
	}
	r := &Registry[K, T]{
		family:   family,
		decoders: make(map[K]Decoder[T], len(entries)),
		order:    make([]K, 0, len(entries)),
		fallback: fallback,
	}
	for _, e := range entries {
		if e.Decode == nil {
			panic(fmt.Sprintf("dispatch: %s tag %v has nil decoder", family, e.Tag))
		}
		if _, dup := r.decoders[e.Tag]; dup {
			panic(fmt.Sprintf("dispatch: %s tag %v registered twice", family, e.Tag))
		}
		r.decoders[e.Tag] = e.Decode
		r.order = append(r.order, e.Tag)
	}
	return r
}

// Family returns the name the registry was built with.
func (r *Registry[K, T]) Family() string {
	return r.family
}

// Known reports whether tag has a registered decoder.
func (r *Registry[K, T]) Known(tag K) bool {
	_, ok := r.decoders[tag]
	return ok
}

// Tags returns the registered tags in registration order.
func (r *Registry[K, T]) Tags() []K {
	out := make([]K, len(r.order))
	copy(out, r.order)
	return out
}

// Decode hands r to the decoder registered for tag, or to the fallback.
func (r *Registry[K, T]) Decode(tag K, rd *wire.Reader) (T, error) {
	if dec, ok := r.decoders[tag]; ok {
		return dec(rd)
	}
	return r.fallback(tag, rd)
}

// DecodeFramed decodes a self-contained payload for tag and requires the
// variant to consume all of it.
func (r *Registry[K, T]) DecodeFramed(tag K, payload []byte) (T, error) {
	rd := wire.NewReader(payload)
	v, err := r.Decode(tag, rd)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := rd.AssertEOF(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// WriteFramed writes tag followed by the payload produced by encode,
// length-prefixed as varbytes. The payload is built in its own buffer first
// because its length precedes it on the wire.
func WriteFramed(w *wire.Writer, tag []byte, encode func(*wire.Writer)) {
	w.WriteBytes(tag)
	sub := wire.NewWriter()
	encode(sub)
	w.WriteVarbytes(sub.Bytes())
}

// ReadFramed reads a tagLen-byte tag followed by a varbytes payload bounded
// by maxPayload.
func ReadFramed(r *wire.Reader, tagLen, maxPayload int) (tag, payload []byte, err error) {
	tag, err = r.ReadBytes(tagLen)
	if err != nil {
		return nil, nil, err
	}
	payload, err = r.ReadVarbytes(maxPayload)
	if err != nil {
		return tag, nil, err
	}
	return tag, payload, nil
}
