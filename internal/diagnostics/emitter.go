// Package diagnostics implements the severity-tagged, correlation-ID-bearing
// event log every other component reports through. It keeps an ordered
// in-memory log and forwards each event to a structured zap sink, layering
// a category-keyed JSON log stream underneath its own in-process log.
package diagnostics

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Severity is the event's importance tier.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// String renders the lowercase form required by the public contract.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Module names the subsystem emitting an event.
type Module string

// Stage names the lifecycle or pipeline stage an event pertains to.
type Stage string

// DiagnosticEvent is one entry in an emitter's ordered log.
type DiagnosticEvent struct {
	Severity      Severity
	Module        Module
	Stage         Stage
	Message       string
	CorrelationID uint64
	Timestamp     int64 // monotonic ticks, not wall-clock
}

// Observer receives events by reference, in registration order, after
// each completed Emit call. Observers must not call Emit on the same
// emitter (re-entrancy is a contract violation).
type Observer func(e *DiagnosticEvent)

// Clock supplies monotonically non-decreasing timestamps. Production code
// uses a counting clock; tests can inject a deterministic one.
type Clock interface {
	Now() int64
}

type monotonicCounter struct{ n int64 }

func (c *monotonicCounter) Now() int64 {
	return atomic.AddInt64(&c.n, 1)
}

// Emitter is the diagnostics substrate's event sink and in-memory log.
type Emitter struct {
	minSeverity   Severity
	correlationID uint64
	events        []DiagnosticEvent
	observers     []Observer
	clock         Clock
	sink          *zap.Logger
	lastTimestamp int64
}

// NewEmitter constructs an Emitter with the given minimum severity filter
// and zap sink. Pass zap.NewNop() for a silent sink (tests) or a production
// logger built by the caller (the CLI builds one per §2.1 AMBIENT STACK).
func NewEmitter(minSeverity Severity, sink *zap.Logger) *Emitter {
	if sink == nil {
		sink = zap.NewNop()
	}
	return &Emitter{
		minSeverity: minSeverity,
		clock:       &monotonicCounter{},
		sink:        sink,
	}
}

// SetClock overrides the emitter's timestamp source. Intended for tests
// that need deterministic timestamps; the replaced clock must still be
// monotonic or the emitter's ordering guarantee is violated by the caller.
func (e *Emitter) SetClock(c Clock) { e.clock = c }

// SetCorrelationID changes the correlation id attached to future events
// only; already-emitted events keep whatever id was active when emitted.
func (e *Emitter) SetCorrelationID(id uint64) { e.correlationID = id }

// CorrelationID returns the id that would be attached to the next event.
func (e *Emitter) CorrelationID() uint64 { return e.correlationID }

// Observe registers an observer, invoked after every future Emit call
// whose severity passes the filter, in registration order.
func (e *Emitter) Observe(o Observer) { e.observers = append(e.observers, o) }

// Emit appends a new event if severity >= the emitter's minimum, then
// fans it out to every registered observer and the zap sink.
func (e *Emitter) Emit(severity Severity, module Module, stage Stage, message string) {
	if severity < e.minSeverity {
		return
	}
	ts := e.clock.Now()
	if ts < e.lastTimestamp {
		ts = e.lastTimestamp
	}
	e.lastTimestamp = ts

	ev := DiagnosticEvent{
		Severity:      severity,
		Module:        module,
		Stage:         stage,
		Message:       message,
		CorrelationID: e.correlationID,
		Timestamp:     ts,
	}
	e.events = append(e.events, ev)

	fields := []zap.Field{
		zap.String("module", string(module)),
		zap.String("stage", string(stage)),
		zap.Uint64("cid", e.correlationID),
		zap.Int64("ts", ts),
	}
	switch severity {
	case Warning:
		e.sink.Warn(message, fields...)
	case Error:
		e.sink.Error(message, fields...)
	default:
		e.sink.Info(message, fields...)
	}

	for _, obs := range e.observers {
		obs(&e.events[len(e.events)-1])
	}
}

// Events returns all logged events, in emission order.
func (e *Emitter) Events() []DiagnosticEvent {
	out := make([]DiagnosticEvent, len(e.events))
	copy(out, e.events)
	return out
}

// EventsBySeverity returns a stable-order view filtered to severity s.
func (e *Emitter) EventsBySeverity(s Severity) []DiagnosticEvent {
	var out []DiagnosticEvent
	for _, ev := range e.events {
		if ev.Severity == s {
			out = append(out, ev)
		}
	}
	return out
}

// EventsByModule returns a stable-order view filtered to module m.
func (e *Emitter) EventsByModule(m Module) []DiagnosticEvent {
	var out []DiagnosticEvent
	for _, ev := range e.events {
		if ev.Module == m {
			out = append(out, ev)
		}
	}
	return out
}

// Clear empties the event log; registered observers are retained.
func (e *Emitter) Clear() {
	e.events = nil
}
