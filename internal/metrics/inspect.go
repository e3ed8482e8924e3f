package metrics

// Inspect records per-record outcomes of an inspection run.
type Inspect struct {
	registry *Registry
}

// NewInspect returns inspection metrics backed by registry.
func NewInspect(registry *Registry) *Inspect {
	return &Inspect{registry: registry}
}

// Registry returns the backing registry.
func (m *Inspect) Registry() *Registry {
	return m.registry
}

// Decoded counts a record that decoded and re-encoded cleanly.
func (m *Inspect) Decoded(family, kind string, size int) {
	if m == nil {
		return
	}
	m.registry.Counter("records_decoded_total", "Records decoded", Labels{"family": family, "kind": kind}).Inc()
	m.registry.Histogram("record_bytes", "Encoded record size", Labels{"family": family}, nil).Observe(float64(size))
}

// Rejected counts a record whose content was invalid.
func (m *Inspect) Rejected(family string) {
	if m == nil {
		return
	}
	m.registry.Counter("records_rejected_total", "Records rejected for invalid content", Labels{"family": family}).Inc()
}

// UnknownTag counts a record with an unrecognised tag.
func (m *Inspect) UnknownTag(family string) {
	if m == nil {
		return
	}
	m.registry.Counter("unknown_tags_total", "Records with an unrecognised tag", Labels{"family": family}).Inc()
}
