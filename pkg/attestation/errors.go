package attestation

import (
	"errors"
	"fmt"
)

// ErrInvalidContent marks a record that is well framed but whose payload
// violates its variant's rules, such as a pending URI with a forbidden byte.
var ErrInvalidContent = errors.New("attestation: invalid content")

// RecordError reports a failure inside an attestation's payload. The record
// framing was intact, so the raw tag and payload are available and the
// reader has already moved past the record.
type RecordError struct {
	Tag     Tag
	Payload []byte
	Err     error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("attestation %s (%d byte payload): %v", e.Tag, len(e.Payload), e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidContent, fmt.Sprintf(format, args...))
}
