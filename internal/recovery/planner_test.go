package recovery

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vibrowser/internal/diagnostics"
	"vibrowser/internal/trace"
)

func actions(p *RecoveryPlan) []Action {
	out := make([]Action, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Action
	}
	return out
}

func TestPlanFromStageClassificationTable(t *testing.T) {
	tests := []struct {
		name   string
		module diagnostics.Module
		stage  diagnostics.Stage
		want   []Action
	}{
		{"network fetch", "network", "fetch", []Action{Retry, Skip, Cancel}},
		{"network connect", "network", "connect", []Action{Retry, Skip, Cancel}},
		{"html parsing", "html", "parsing", []Action{Replay, Cancel}},
		{"css parsing", "css", "styling", []Action{Replay, Cancel}},
		{"rendering module", "rendering", "paint", []Action{Replay, Cancel}},
		{"paint stage", "pipeline", "paint", []Action{Replay, Cancel}},
		{"layout stage", "pipeline", "layout", []Action{Replay, Cancel}},
		{"unknown", "cache", "store", []Action{Retry, Cancel}},
		{"case-insensitive classification", "Network", "Fetch", []Action{Retry, Skip, Cancel}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlanner()
			plan := p.PlanFromStage(tt.module, tt.stage, "boom")
			require.Equal(t, tt.want, actions(plan))
		})
	}
}

func TestEveryPlanEndsWithCancel(t *testing.T) {
	p := NewPlanner()
	triples := []struct {
		module diagnostics.Module
		stage  diagnostics.Stage
	}{
		{"network", "fetch"}, {"html", "parsing"}, {"rendering", "paint"},
		{"cache", "store"}, {"", ""}, {"policy", "fetch"},
	}
	for _, tr := range triples {
		plan := p.PlanFromStage(tr.module, tr.stage, "x")
		require.NotEmpty(t, plan.Steps)
		require.Equal(t, Cancel, plan.Steps[len(plan.Steps)-1].Action, "%s/%s", tr.module, tr.stage)
	}
}

func TestPlanFromTraceCopiesIdentity(t *testing.T) {
	e := diagnostics.NewEmitter(diagnostics.Info, zap.NewNop())
	e.SetCorrelationID(7)
	c := trace.NewCollector()
	ft := c.Capture(e, "network", "fetch", "connection refused")

	p := NewPlanner()
	plan := p.PlanFromTrace(ft)
	require.Equal(t, uint64(7), plan.CorrelationID)
	require.Equal(t, diagnostics.Module("network"), plan.FailureModule)
	require.Equal(t, diagnostics.Stage("fetch"), plan.FailureStage)
	require.Equal(t, "connection refused", plan.Error)
	require.Equal(t, []Action{Retry, Skip, Cancel}, actions(plan))
}

func TestHistoryRecordsPlansInOrder(t *testing.T) {
	p := NewPlanner()
	p.PlanFromStage("network", "fetch", "a")
	p.PlanFromStage("html", "parsing", "b")

	history := p.History()
	require.Len(t, history, 2)
	require.Equal(t, "a", history[0].Error)
	require.Equal(t, "b", history[1].Error)
}

func TestFormatContainsPlanHeaderAndActionNames(t *testing.T) {
	p := NewPlanner()
	plan := p.PlanFromStage("network", "fetch", "connection refused")
	out := Format(plan)
	require.Contains(t, out, "Recovery Plan")
	require.Contains(t, out, "module: network")
	require.Contains(t, out, "stage: fetch")
	require.Contains(t, out, "error: connection refused")
	require.Contains(t, out, "Retry")
	require.Contains(t, out, "Skip")
	require.Contains(t, out, "Cancel")
}

func TestActionNames(t *testing.T) {
	require.Equal(t, "Retry", Retry.String())
	require.Equal(t, "Replay", Replay.String())
	require.Equal(t, "Skip", Skip.String())
	require.Equal(t, "Cancel", Cancel.String())
}
