package attestation

import (
	"fmt"

	"otsproof/pkg/wire"
)

// MaxURILength bounds a pending attestation's calendar URI.
const MaxURILength = 1000

// Pending records that a remote calendar holds the commitment and promises
// a more complete timestamp at its URI later. Nothing but the URI is stored.
type Pending struct {
	uri string
}

// NewPending validates uri and returns the attestation.
func NewPending(uri []byte) (Pending, error) {
	if err := checkURI(uri); err != nil {
		return Pending{}, err
	}
	return Pending{uri: string(uri)}, nil
}

// ValidURI reports whether uri is acceptable in a pending attestation:
// at most MaxURILength bytes, each one of A-Z a-z 0-9 - . _ / :.
// The check is byte-wise ASCII; any non-ASCII byte is rejected.
func ValidURI(uri []byte) bool {
	return checkURI(uri) == nil
}

func checkURI(uri []byte) error {
	if len(uri) > MaxURILength {
		return invalid("uri length %d exceeds %d", len(uri), MaxURILength)
	}
	for i, b := range uri {
		if !allowedURIByte(b) {
			return invalid("uri byte 0x%02x at %d not allowed", b, i)
		}
	}
	return nil
}

func allowedURIByte(b byte) bool {
	switch {
	case 'A' <= b && b <= 'Z', 'a' <= b && b <= 'z', '0' <= b && b <= '9':
		return true
	case b == '-', b == '.', b == '_', b == '/', b == ':':
		return true
	}
	return false
}

func decodePending(r *wire.Reader) (Attestation, error) {
	uri, err := r.ReadVarbytes(MaxURILength)
	if err != nil {
		return nil, err
	}
	p, err := NewPending(uri)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// URI returns the calendar URI.
func (p Pending) URI() string { return p.uri }

func (Pending) Tag() Tag { return TagPending }

func (Pending) Kind() Kind { return KindPending }

func (p Pending) EncodePayload(w *wire.Writer) {
	w.WriteVarbytes([]byte(p.uri))
}

func (p Pending) Compare(other Attestation) int { return Compare(p, other) }

func (p Pending) String() string {
	return fmt.Sprintf("PendingAttestation(%q)", p.uri)
}
