// Package trace implements the failure-trace collector: reproducible
// snapshots of error context tied to a correlation id.
package trace

import "vibrowser/internal/diagnostics"

// KV is one ordered snapshot pair. A plain slice (not a map) so that the
// order participates in reproducibility equality.
type KV struct {
	Key   string
	Value string
}

// FailureTrace snapshots the context around one failure.
type FailureTrace struct {
	CorrelationID uint64
	Module        diagnostics.Module
	Stage         diagnostics.Stage
	ErrorMessage  string
	Snapshots     []KV
	ContextEvents []diagnostics.DiagnosticEvent
}

// AddSnapshot appends an ordered (key, value) pair to the trace.
func (t *FailureTrace) AddSnapshot(key, value string) {
	t.Snapshots = append(t.Snapshots, KV{Key: key, Value: value})
}

// IsReproducibleWith reports whether t and other agree on module, stage,
// error message, and the ordered snapshot list. Correlation id and
// context events may differ.
func (t *FailureTrace) IsReproducibleWith(other *FailureTrace) bool {
	if other == nil {
		return false
	}
	if t.Module != other.Module || t.Stage != other.Stage || t.ErrorMessage != other.ErrorMessage {
		return false
	}
	if len(t.Snapshots) != len(other.Snapshots) {
		return false
	}
	for i := range t.Snapshots {
		if t.Snapshots[i] != other.Snapshots[i] {
			return false
		}
	}
	return true
}

// Collector accumulates FailureTrace records captured from an emitter.
type Collector struct {
	traces []*FailureTrace
}

// NewCollector constructs an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Capture snapshots emitter's current correlation id and event log into a
// new FailureTrace, stores it, and returns it so the caller can attach
// snapshots via FailureTrace.AddSnapshot before inspecting it further.
func (c *Collector) Capture(emitter *diagnostics.Emitter, module diagnostics.Module, stage diagnostics.Stage, errorMessage string) *FailureTrace {
	t := &FailureTrace{
		CorrelationID: emitter.CorrelationID(),
		Module:        module,
		Stage:         stage,
		ErrorMessage:  errorMessage,
		ContextEvents: emitter.Events(),
	}
	c.traces = append(c.traces, t)
	return t
}

// Size returns the number of traces collected.
func (c *Collector) Size() int { return len(c.traces) }

// Traces returns all collected traces, in capture order.
func (c *Collector) Traces() []*FailureTrace {
	out := make([]*FailureTrace, len(c.traces))
	copy(out, c.traces)
	return out
}

// Clear empties the collector.
func (c *Collector) Clear() { c.traces = nil }
