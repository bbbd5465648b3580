// Package recovery maps a failing (module, stage) pair to an ordered set
// of recovery actions a caller can offer a user.
package recovery

import (
	"fmt"
	"strings"

	"vibrowser/internal/diagnostics"
	"vibrowser/internal/trace"
)

// Action is a closed sum type of recovery steps; the description string is
// part of the plan's data, not behavior attached to the action itself.
type Action int

const (
	Retry Action = iota
	Replay
	Skip
	Cancel
)

func (a Action) String() string {
	switch a {
	case Retry:
		return "Retry"
	case Replay:
		return "Replay"
	case Skip:
		return "Skip"
	case Cancel:
		return "Cancel"
	default:
		return "Unknown"
	}
}

// Step is one entry in a RecoveryPlan.
type Step struct {
	Action      Action
	Description string
}

// RecoveryPlan is the ordered set of recovery steps for one failure.
type RecoveryPlan struct {
	CorrelationID uint64
	FailureModule diagnostics.Module
	FailureStage  diagnostics.Stage
	Error         string
	Steps         []Step
}

// Planner is pure; History records every plan it has produced, in order.
type Planner struct {
	history []*RecoveryPlan
}

// NewPlanner constructs an empty Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

func isNetworkStage(module diagnostics.Module, stage diagnostics.Stage) bool {
	m := strings.ToLower(string(module))
	s := strings.ToLower(string(stage))
	return m == "network" && (s == "fetch" || s == "connect")
}

func isParsingStage(module diagnostics.Module) bool {
	m := strings.ToLower(string(module))
	return m == "html" || m == "css" || m == "parsing"
}

func isRenderingStage(module diagnostics.Module, stage diagnostics.Stage) bool {
	m := strings.ToLower(string(module))
	s := strings.ToLower(string(stage))
	if m == "rendering" {
		return true
	}
	return s == "paint" || s == "layout"
}

// PlanFromStage builds a RecoveryPlan for a bare (module, stage, error)
// triple, using a fixed failure-category classification table. Every
// plan produced ends with Cancel.
func (p *Planner) PlanFromStage(module diagnostics.Module, stage diagnostics.Stage, errMsg string) *RecoveryPlan {
	var steps []Step
	switch {
	case isNetworkStage(module, stage):
		steps = []Step{
			{Retry, "Retry the network operation"},
			{Skip, "Skip this resource and continue"},
			{Cancel, "Cancel the navigation"},
		}
	case isParsingStage(module):
		steps = []Step{
			{Replay, "Replay parsing with recovery"},
			{Cancel, "Cancel the navigation"},
		}
	case isRenderingStage(module, stage):
		steps = []Step{
			{Replay, "Replay the render pipeline"},
			{Cancel, "Cancel the navigation"},
		}
	default:
		steps = []Step{
			{Retry, "Retry the operation"},
			{Cancel, "Cancel the navigation"},
		}
	}

	plan := &RecoveryPlan{
		FailureModule: module,
		FailureStage:  stage,
		Error:         errMsg,
		Steps:         steps,
	}
	p.history = append(p.history, plan)
	return plan
}

// PlanFromTrace copies correlation id, module, and stage from t and
// produces the matching plan.
func (p *Planner) PlanFromTrace(t *trace.FailureTrace) *RecoveryPlan {
	plan := p.PlanFromStage(t.Module, t.Stage, t.ErrorMessage)
	plan.CorrelationID = t.CorrelationID
	return plan
}

// History returns every plan produced by this Planner, in order.
func (p *Planner) History() []*RecoveryPlan {
	out := make([]*RecoveryPlan, len(p.history))
	copy(out, p.history)
	return out
}

// Format renders a human-readable recovery plan block.
func Format(p *RecoveryPlan) string {
	var b strings.Builder
	b.WriteString("Recovery Plan\n")
	fmt.Fprintf(&b, "module: %s\n", p.FailureModule)
	fmt.Fprintf(&b, "stage: %s\n", p.FailureStage)
	fmt.Fprintf(&b, "error: %s\n", p.Error)
	for i, s := range p.Steps {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, s.Action, s.Description)
	}
	return b.String()
}
