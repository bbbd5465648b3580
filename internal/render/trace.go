package render

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"vibrowser/internal/layout"
)

// Stage names render trace entries use; part of the public contract.
const (
	StageCanvasInit        = "CanvasInit"
	StageBackgroundResolve = "BackgroundResolve"
	StagePaint             = "Paint"
	StageComplete          = "Complete"
)

// TraceEntry is one recorded render stage. ElapsedMs is informational
// only: two traces are reproducible-with each other based on stage
// sequence alone, never on timing.
type TraceEntry struct {
	Stage     string
	ElapsedMs float64
}

// RenderToCanvasTraced behaves exactly like RenderToCanvas, and additionally
// appends four TraceEntry records to *trace in order: CanvasInit,
// BackgroundResolve, Paint, Complete. Pixel output is identical to
// RenderToCanvas for the same inputs.
func RenderToCanvasTraced(root *layout.LayoutBox, w, h int, trace *[]TraceEntry) *Canvas {
	prev := time.Now()
	mark := func(stage string) {
		now := time.Now()
		*trace = append(*trace, TraceEntry{Stage: stage, ElapsedMs: float64(now.Sub(prev).Microseconds()) / 1000.0})
		prev = now
	}

	c := NewCanvas(w, h)
	mark(StageCanvasInit)

	c.fillRect(layout.Rect{X: 0, Y: 0, W: float64(w), H: float64(h)}, white)
	mark(StageBackgroundResolve)

	paint(c, root)
	mark(StagePaint)

	mark(StageComplete)
	return c
}

// ReproducibleWith reports whether a and b agree on stage sequence,
// ignoring ElapsedMs: elapsed times are informational only.
func ReproducibleWith(a, b []TraceEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Stage != b[i].Stage {
			return false
		}
	}
	return true
}

// WriteRenderTrace writes one line per entry to path: "stage=<name>
// elapsed_ms=<n>".
func WriteRenderTrace(trace []TraceEntry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, e := range trace {
		if _, err := fmt.Fprintf(w, "stage=%s elapsed_ms=%.3f\n", e.Stage, e.ElapsedMs); err != nil {
			return err
		}
	}
	return w.Flush()
}
