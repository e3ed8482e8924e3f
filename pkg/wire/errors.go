package wire

import (
	"errors"
	"fmt"
)

// Codec errors. Every read failure returned by Reader wraps exactly one of
// these, so callers can classify failures with errors.Is.
var (
	// ErrTruncated indicates the stream ended before the expected byte count.
	ErrTruncated = errors.New("wire: truncated stream")

	// ErrMalformedVarint indicates a varint with no terminating byte, a value
	// wider than 63 bits, or a non-minimal encoding.
	ErrMalformedVarint = errors.New("wire: malformed varint")

	// ErrPayloadTooLarge indicates a declared varbytes length above the
	// caller-supplied maximum.
	ErrPayloadTooLarge = errors.New("wire: payload too large")

	// ErrTrailingData indicates unread bytes where the stream should have ended.
	ErrTrailingData = errors.New("wire: trailing data")
)

// DecodeError records where in the input a read failed.
type DecodeError struct {
	Offset int    // cursor position when the read started
	Want   uint64 // bytes or limit involved, zero when not applicable
	Err    error
}

func (e *DecodeError) Error() string {
	switch {
	case errors.Is(e.Err, ErrTruncated):
		return fmt.Sprintf("%v: need %d bytes at offset %d", e.Err, e.Want, e.Offset)
	case errors.Is(e.Err, ErrPayloadTooLarge):
		return fmt.Sprintf("%v: length exceeds %d at offset %d", e.Err, e.Want, e.Offset)
	default:
		return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
