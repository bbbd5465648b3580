package pipeline

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"vibrowser/internal/cache"
	"vibrowser/internal/cssparser"
	"vibrowser/internal/diagnostics"
	"vibrowser/internal/htmlparser"
	"vibrowser/internal/netmodel"
	"vibrowser/internal/policy"
	"vibrowser/internal/recovery"
	"vibrowser/internal/trace"
)

// State is the browser engine facade's lifecycle state machine.
// Transitions are strictly forward except Failed, which is terminal
// from any state.
type State int

const (
	Idle State = iota
	Fetching
	Parsing
	Styling
	Layout
	Rendering
	Complete
	Failed
)

// String renders the lowercase stage name that is part of the public
// contract; used as both the diagnostic Stage and the state's textual
// representation.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Parsing:
		return "parsing"
	case Styling:
		return "styling"
	case Layout:
		return "layout"
	case Rendering:
		return "rendering"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session holds the per-navigation diagnostic emitter, current state, and
// the primary document's request transaction.
type Session struct {
	ID          string
	Emitter     *diagnostics.Emitter
	State       State
	Transaction *netmodel.Transaction
}

// NavigateOptions supplies everything navigate(url, opts) needs that would
// otherwise come from the out-of-core byte-fetcher collaborator: the HTML
// already fetched for the primary document, the document's inline CSS, and
// a Fetcher for resolving linked stylesheets.
type NavigateOptions struct {
	HTML      string
	InlineCSS string
	Fetch     cssparser.Fetcher
	Policy    policy.RequestPolicy
	ViewportW float64
	ViewportH float64
}

// NavigateResult is navigate's outcome: a completed pipeline on success, or
// a human-readable recovery plan on failure.
type NavigateResult struct {
	OK       bool
	Message  string
	Session  *Session
	Pipeline *Pipeline
}

// Engine is the browser engine facade: it owns the diagnostics-adjacent
// machinery (recovery planner, failure-trace collector) shared across
// navigations, and the response cache sitting in front of the fetch
// collaborator.
type Engine struct {
	Cache   *cache.Cache
	Planner *recovery.Planner
	Traces  *trace.Collector
	Logger  *zap.Logger
}

// NewEngine constructs an Engine. logger may be nil (a no-op sink is used).
func NewEngine(c *cache.Cache, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Cache: c, Planner: recovery.NewPlanner(), Traces: trace.NewCollector(), Logger: logger}
}

// Navigate drives the lifecycle state machine idle → fetching → parsing →
// styling → layout → rendering → complete, emitting an Info diagnostic
// whose message starts with "Stage transition:" at every step. Any gate
// failure moves the session to Failed and returns a recovery plan.
func (e *Engine) Navigate(url string, opts NavigateOptions) NavigateResult {
	session := &Session{
		ID:      uuid.New().String(),
		Emitter: diagnostics.NewEmitter(diagnostics.Info, e.Logger),
		State:   Idle,
	}

	transition := func(s State) {
		session.State = s
		session.Emitter.Emit(diagnostics.Info, "pipeline", diagnostics.Stage(s.String()), "Stage transition: "+s.String())
	}

	transition(Idle)

	transition(Fetching)
	session.Transaction = netmodel.NewTransaction(netmodel.MethodGet, url)
	check := policy.CheckRequestPolicy(url, opts.Policy)
	if !check.Allowed {
		session.Transaction.RecordStage(netmodel.StageError)
		return e.fail(session, "policy", "fetch", "request blocked: "+check.Violation.String())
	}
	session.Transaction.RecordStage(netmodel.StageDispatched)
	if e.Cache != nil {
		if cached, ok, _ := e.Cache.Lookup(url); ok {
			session.Emitter.Emit(diagnostics.Info, "cache", "fetch", "serving cached response for "+url)
			opts.HTML = cached.Body
		}
	}
	session.Transaction.RecordStage(netmodel.StageReceived)

	transition(Parsing)
	parsed := htmlparser.Parse(opts.HTML)
	for _, w := range parsed.Warnings {
		session.Emitter.Emit(diagnostics.Warning, "html", "parsing", w)
	}

	transition(Styling)
	loaded := cssparser.LoadLinkedCSS(parsed.Root, opts.InlineCSS, opts.Fetch)
	for _, w := range loaded.Warnings {
		session.Emitter.Emit(diagnostics.Warning, "css", "styling", w)
	}

	transition(Layout)
	transition(Rendering)
	pl := New(parsed.Root, loaded.Merged, opts.ViewportW, opts.ViewportH)

	transition(Complete)
	session.Transaction.RecordStage(netmodel.StageComplete)
	if e.Cache != nil {
		_ = e.Cache.Store(url, netmodel.Response{StatusCode: 200, Body: opts.HTML})
	}
	return NavigateResult{OK: true, Session: session, Pipeline: pl}
}

func (e *Engine) fail(session *Session, module diagnostics.Module, stage diagnostics.Stage, message string) NavigateResult {
	session.State = Failed
	session.Emitter.Emit(diagnostics.Error, module, stage, message)
	ft := e.Traces.Capture(session.Emitter, module, stage, message)
	plan := e.Planner.PlanFromTrace(ft)
	return NavigateResult{OK: false, Message: recovery.Format(plan), Session: session}
}
