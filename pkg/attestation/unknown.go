package attestation

import (
	"encoding/hex"
	"fmt"

	"otsproof/pkg/wire"
)

// Unknown is an attestation whose tag this build does not recognise. Tag and
// payload are kept exactly as received.
type Unknown struct {
	tag     Tag
	payload string
}

// NewUnknown wraps a raw tag and payload. The tag may collide with a known
// variant's; the value still orders and encodes as an Unknown.
func NewUnknown(tag Tag, payload []byte) (Unknown, error) {
	if len(payload) > MaxPayloadSize {
		return Unknown{}, fmt.Errorf("attestation: unknown payload of %d bytes exceeds %d", len(payload), MaxPayloadSize)
	}
	return Unknown{tag: tag, payload: string(payload)}, nil
}

func decodeUnknown(tag Tag, r *wire.Reader) (Attestation, error) {
	return Unknown{tag: tag, payload: string(r.Rest())}, nil
}

// Payload returns a copy of the raw payload.
func (u Unknown) Payload() []byte { return []byte(u.payload) }

func (u Unknown) Tag() Tag { return u.tag }

func (Unknown) Kind() Kind { return KindUnknown }

func (u Unknown) EncodePayload(w *wire.Writer) {
	w.WriteBytes([]byte(u.payload))
}

func (u Unknown) Compare(other Attestation) int { return Compare(u, other) }

func (u Unknown) String() string {
	return fmt.Sprintf("UnknownAttestation(%s, %s)", u.tag, hex.EncodeToString([]byte(u.payload)))
}
