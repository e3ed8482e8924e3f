package inspect

import (
	"encoding/json"
	"fmt"
	"io"
)

// Format specifies the output format for reports.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses a report format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %s (use text or json)", s)
	}
}

// AttestationEntry describes one attestation record in the input.
type AttestationEntry struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Tag    string `json:"tag"`
	Kind   string `json:"kind,omitempty"`
	Value  string `json:"value,omitempty"`
	Error  string `json:"error,omitempty"`
}

// AttestationReport is the result of Attestations.
type AttestationReport struct {
	InputSize int                `json:"input_size"`
	Entries   []AttestationEntry `json:"entries"`
	Set       []string           `json:"set"`
	Rejected  int                `json:"rejected"`
	Unknown   int                `json:"unknown"`
}

// OperationEntry describes one operation record in the input.
type OperationEntry struct {
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
	Tag     string `json:"tag"`
	Name    string `json:"name"`
	Value   string `json:"value"`
	Unknown bool   `json:"unknown,omitempty"`
}

// OperationReport is the result of Operations.
type OperationReport struct {
	InputSize int              `json:"input_size"`
	Entries   []OperationEntry `json:"entries"`
	Unknown   int              `json:"unknown"`
}

// DigestStep is one operation applied during Digest.
type DigestStep struct {
	Operation string `json:"operation"`
	Output    string `json:"output"`
}

// DigestReport is the result of Digest. All byte values are hex.
type DigestReport struct {
	Input  string       `json:"input"`
	Steps  []DigestStep `json:"steps"`
	Result string       `json:"result"`
}

// Write renders report to w. report must be one of the report types of
// this package.
func Write(w io.Writer, report any, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	switch r := report.(type) {
	case *AttestationReport:
		writeAttestations(w, r)
	case *OperationReport:
		writeOperations(w, r)
	case *DigestReport:
		writeDigest(w, r)
	default:
		return fmt.Errorf("inspect: cannot render %T", report)
	}
	return nil
}

func writeAttestations(w io.Writer, r *AttestationReport) {
	fmt.Fprintf(w, "--- Attestations (%d bytes) ---\n", r.InputSize)
	for _, e := range r.Entries {
		if e.Error != "" {
			fmt.Fprintf(w, "[%6d] %s REJECTED: %s\n", e.Offset, e.Tag, e.Error)
			continue
		}
		fmt.Fprintf(w, "[%6d] %s %s\n", e.Offset, e.Tag, e.Value)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Distinct ---")
	for _, s := range r.Set {
		fmt.Fprintf(w, "  * %s\n", s)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Records:  %d\n", len(r.Entries))
	fmt.Fprintf(w, "Distinct: %d\n", len(r.Set))
	fmt.Fprintf(w, "Rejected: %d\n", r.Rejected)
	fmt.Fprintf(w, "Unknown:  %d\n", r.Unknown)
}

func writeOperations(w io.Writer, r *OperationReport) {
	fmt.Fprintf(w, "--- Operations (%d bytes) ---\n", r.InputSize)
	for _, e := range r.Entries {
		fmt.Fprintf(w, "[%6d] %s %s\n", e.Offset, e.Tag, e.Value)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Records: %d\n", len(r.Entries))
	fmt.Fprintf(w, "Unknown: %d\n", r.Unknown)
}

func writeDigest(w io.Writer, r *DigestReport) {
	fmt.Fprintf(w, "input  %s\n", r.Input)
	for _, s := range r.Steps {
		fmt.Fprintf(w, "%-6s %s\n", s.Operation, s.Output)
	}
	fmt.Fprintf(w, "result %s\n", r.Result)
}
