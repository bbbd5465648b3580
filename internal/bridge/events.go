// Package bridge implements the event registry and the small synchronous
// scripting bridge: DOM queries/mutations plus click/input/change
// dispatch.
package bridge

import (
	"vibrowser/internal/dom"
)

// EventType is the closed set of dispatchable event kinds.
type EventType int

const (
	Click EventType = iota
	Input
	Change
)

func (t EventType) String() string {
	switch t {
	case Click:
		return "Click"
	case Input:
		return "Input"
	case Change:
		return "Change"
	default:
		return "Unknown"
	}
}

// Event is dispatched against a target element id.
type Event struct {
	Type     EventType
	TargetID string
	Value    string // Input/Change payload; empty for Click
}

// Handler is invoked with the owning DOM and the dispatched event; it may
// mutate dom but must not trigger a rerender of the pipeline that
// dispatched it.
type Handler func(root *dom.Node, ev Event)

type listenerKey struct {
	elementID string
	eventType EventType
}

// Registry maps (element-id, event-type) to an ordered list of handlers.
type Registry struct {
	handlers map[listenerKey][]Handler
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[listenerKey][]Handler)}
}

// AddListener appends handler for (elementID, eventType), after any
// previously registered handlers for the same key.
func (r *Registry) AddListener(elementID string, eventType EventType, handler Handler) {
	key := listenerKey{elementID, eventType}
	r.handlers[key] = append(r.handlers[key], handler)
}

// DispatchResult reports whether any handler matched.
type DispatchResult struct {
	OK      bool
	Message string
}

// Dispatch invokes every handler registered for (ev.TargetID, ev.Type), in
// registration order, against root.
func (r *Registry) Dispatch(root *dom.Node, ev Event) DispatchResult {
	key := listenerKey{ev.TargetID, ev.Type}
	handlers := r.handlers[key]
	if len(handlers) == 0 {
		return DispatchResult{OK: false, Message: "No handler for event"}
	}
	for _, h := range handlers {
		h(root, ev)
	}
	return DispatchResult{OK: true}
}
