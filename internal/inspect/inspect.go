// Package inspect decodes raw proof record streams for the otsinspect tool.
//
// It walks a buffer of concatenated attestation or operation records,
// checks that each decoded record re-encodes to exactly the bytes it was read
// from, and collects the results into reports. Invalid attestation content is
// reported and skipped unless strict mode is on; structural errors always stop
// the walk.
package inspect

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"otsproof/internal/config"
	"otsproof/internal/logging"
	"otsproof/internal/metrics"
	"otsproof/pkg/attestation"
	"otsproof/pkg/op"
	"otsproof/pkg/wire"
)

var (
	// ErrRoundTrip means a decoded record did not re-encode to its input bytes.
	ErrRoundTrip = errors.New("inspect: round-trip mismatch")

	// ErrInputTooLarge means the input exceeded the configured size limit.
	ErrInputTooLarge = errors.New("inspect: input too large")

	// ErrBadInput means hex input could not be decoded.
	ErrBadInput = errors.New("inspect: bad input")
)

// Options controls a single inspection.
type Options struct {
	// Strict stops at the first attestation with invalid content.
	Strict bool

	// Logger receives per-record diagnostics. Defaults to logging.Default().
	Logger *logging.Logger

	// Metrics, if set, counts record outcomes.
	Metrics *metrics.Inspect
}

func (o Options) logger(component string) *logging.Logger {
	l := o.Logger
	if l == nil {
		l = logging.Default()
	}
	return l.WithComponent(component)
}

// ReadInput reads at most maxSize bytes of input from r and decodes it
// according to format (config.InputHex or config.InputBinary). Hex input may
// contain whitespace anywhere.
func ReadInput(r io.Reader, format string, maxSize int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if int64(len(raw)) > maxSize {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrInputTooLarge, maxSize)
	}

	switch format {
	case config.InputBinary:
		return raw, nil
	case config.InputHex, "":
		clean := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, string(raw))
		data, err := hex.DecodeString(clean)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadInput, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unknown input format %q", ErrBadInput, format)
	}
}

// Attestations decodes every attestation record in data.
func Attestations(data []byte, opts Options) (*AttestationReport, error) {
	log := opts.logger("attest")
	report := &AttestationReport{InputSize: len(data)}

	var decoded []attestation.Attestation
	r := wire.NewReader(data)
	for r.Len() > 0 {
		start := r.Offset()
		a, err := attestation.Decode(r)
		if err != nil {
			var recErr *attestation.RecordError
			if !opts.Strict && errors.As(err, &recErr) {
				log.Warn("rejected attestation",
					"offset", start,
					"tag", recErr.Tag.String(),
					"payload", recErr.Payload,
					"error", recErr.Err)
				report.Entries = append(report.Entries, AttestationEntry{
					Offset: start,
					Length: r.Offset() - start,
					Tag:    recErr.Tag.String(),
					Error:  recErr.Err.Error(),
				})
				report.Rejected++
				opts.Metrics.Rejected("attestation")
				continue
			}
			return report, fmt.Errorf("record at offset %d: %w", start, err)
		}

		raw := data[start:r.Offset()]
		if !bytes.Equal(attestation.Marshal(a), raw) {
			return report, fmt.Errorf("%w: attestation at offset %d", ErrRoundTrip, start)
		}

		if a.Kind() == attestation.KindUnknown {
			log.Debug("unknown attestation tag", "offset", start, "tag", a.Tag().String())
			report.Unknown++
			opts.Metrics.UnknownTag("attestation")
		}
		opts.Metrics.Decoded("attestation", a.Kind().String(), len(raw))

		report.Entries = append(report.Entries, AttestationEntry{
			Offset: start,
			Length: len(raw),
			Tag:    a.Tag().String(),
			Kind:   a.Kind().String(),
			Value:  a.String(),
		})
		decoded = append(decoded, a)
	}

	for _, a := range attestation.Dedupe(decoded) {
		report.Set = append(report.Set, a.String())
	}
	log.Debug("attestations decoded",
		"records", len(report.Entries),
		"distinct", len(report.Set),
		"rejected", report.Rejected)

	return report, nil
}

// Operations decodes every operation record in data.
func Operations(data []byte, opts Options) (*OperationReport, error) {
	log := opts.logger("ops")
	report := &OperationReport{InputSize: len(data)}

	r := wire.NewReader(data)
	for r.Len() > 0 {
		start := r.Offset()
		o, err := op.Decode(r)
		if err != nil {
			return report, fmt.Errorf("record at offset %d: %w", start, err)
		}

		raw := data[start:r.Offset()]
		if !bytes.Equal(op.Marshal(o), raw) {
			return report, fmt.Errorf("%w: operation at offset %d", ErrRoundTrip, start)
		}

		entry := OperationEntry{
			Offset: start,
			Length: len(raw),
			Tag:    o.Tag().String(),
			Name:   o.Name(),
			Value:  o.String(),
		}
		if !op.Known(o.Tag()) {
			log.Debug("unknown operation tag", "offset", start, "tag", o.Tag().String())
			entry.Unknown = true
			report.Unknown++
			opts.Metrics.UnknownTag("operation")
		}
		name := o.Name()
		if entry.Unknown {
			name = "unknown"
		}
		opts.Metrics.Decoded("operation", name, len(raw))
		report.Entries = append(report.Entries, entry)
	}

	return report, nil
}

// Digest applies ops to msg and records every intermediate result.
func Digest(msg []byte, ops []op.Operation, opts Options) (*DigestReport, error) {
	log := opts.logger("digest")
	report := &DigestReport{Input: hex.EncodeToString(msg)}

	steps, err := op.ApplyChain(msg, ops)
	for i, out := range steps {
		report.Steps = append(report.Steps, DigestStep{
			Operation: ops[i].String(),
			Output:    hex.EncodeToString(out),
		})
	}
	if err != nil {
		return report, err
	}
	if len(steps) > 0 {
		report.Result = report.Steps[len(steps)-1].Output
	} else {
		report.Result = report.Input
	}
	log.Debug("chain applied", "steps", len(steps), "result", report.Result)

	return report, nil
}
