// Package pipeline owns the render pipeline and the browser engine facade
// that drives the lifecycle state machine over it. Parsing, styling,
// layout, and rendering stay pure functions of their inputs; this package
// is the only stateful orchestration layer.
package pipeline

import (
	"vibrowser/internal/cssparser"
	"vibrowser/internal/dom"
	"vibrowser/internal/layout"
	"vibrowser/internal/render"
)

// Pipeline owns one navigation's DOM, stylesheet, viewport, and the most
// recent layout/canvas pair produced from them.
type Pipeline struct {
	DOM         *dom.Node
	Stylesheet  *cssparser.Stylesheet
	ViewportW   float64
	ViewportH   float64
	Layout      *layout.LayoutBox
	Canvas      *render.Canvas
	RenderCount int
}

// New constructs a Pipeline and performs the one full pass construction
// requires: cascade, layout, render. RenderCount becomes 1.
func New(root *dom.Node, sheet *cssparser.Stylesheet, viewportW, viewportH float64) *Pipeline {
	p := &Pipeline{DOM: root, Stylesheet: sheet, ViewportW: viewportW, ViewportH: viewportH}
	p.paint()
	return p
}

// Rerender recomputes cascade → layout → paint from the pipeline's current
// DOM and stylesheet, and increments RenderCount by exactly 1 regardless of
// how many DOM mutations happened since the previous render.
func (p *Pipeline) Rerender() {
	p.paint()
}

func (p *Pipeline) paint() {
	p.Layout = layout.Layout(p.DOM, p.Stylesheet, p.ViewportW)
	p.Canvas = render.RenderToCanvas(p.Layout, int(p.ViewportW), int(p.ViewportH))
	p.RenderCount++
}
