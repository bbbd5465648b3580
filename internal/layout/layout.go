// Package layout turns a DOM tree plus a cascaded stylesheet into a
// deterministic box tree: display:none subtrees are pruned entirely,
// block boxes stack vertically, and inline content is broken into
// fixed-width text runs.
package layout

import (
	"strconv"
	"strings"

	"vibrowser/internal/cssparser"
	"vibrowser/internal/dom"
	"vibrowser/internal/style"
)

// BoxType distinguishes the three LayoutBox variants.
type BoxType int

const (
	Block BoxType = iota
	Inline
	Anonymous
)

func (t BoxType) String() string {
	switch t {
	case Block:
		return "Block"
	case Inline:
		return "Inline"
	default:
		return "Anonymous"
	}
}

// EdgeSizes holds the four-sided box-model measurements in CSS pixels.
type EdgeSizes struct {
	Top, Right, Bottom, Left float64
}

// Rect is an axis-aligned box in CSS pixels, origin top-left.
type Rect struct {
	X, Y, W, H float64
}

// TextRun is one line of word-wrapped inline text, positioned within its
// containing block box.
type TextRun struct {
	Text string
	Rect Rect
}

// LayoutBox is one node of the computed layout tree.
type LayoutBox struct {
	ElementRef *dom.Node
	BoxType    BoxType
	Content    Rect
	Padding    EdgeSizes
	Margin     EdgeSizes
	Border     EdgeSizes
	Children   []*LayoutBox
	TextRuns   []TextRun
	Computed   style.Computed
}

// charWidthPx and baseLineHeight are a fixed character-width approximation:
// no font shaping, just a deterministic per-character advance scaled by
// the element's font-size relative to the 16px default.
const (
	charWidthPx      = 8.0
	baseLineHeight   = 18.0
	baseFontSizePx   = 16.0
	defaultViewportW = 800.0
)

// Layout cascades sheet over root, then lays the result out at the given
// viewport width (CSS pixels). Given identical (root, sheet, viewportW)
// this is bit-exact across calls: no wall-clock or randomness is consulted.
func Layout(root *dom.Node, sheet *cssparser.Stylesheet, viewportW float64) *LayoutBox {
	if viewportW <= 0 {
		viewportW = defaultViewportW
	}
	styles := style.Resolve(root, sheet)
	b := buildBox(root, styles, viewportW)
	if b == nil {
		return nil
	}
	flowBlock(b, 0, 0, viewportW)
	// The parser wraps every document in a synthetic "#document" root
	// (see htmlparser.Parse / SerializeDOM's matching transparency). That
	// node carries no styling of its own, so when it has exactly one
	// child, expose that child directly rather than leaking the wrapper.
	if b.ElementRef != nil && b.ElementRef.Tag == "#document" && len(b.Children) == 1 {
		return b.Children[0]
	}
	return b
}

// buildBox constructs the (unpositioned) box tree, pruning display:none
// subtrees entirely, including their descendants.
func buildBox(n *dom.Node, styles style.ResolvedStyles, containerW float64) *LayoutBox {
	if n.Type != dom.ElementNode {
		return nil
	}
	computed := styles[n]
	if computed.IsDisplayNone() {
		return nil
	}

	box := &LayoutBox{
		ElementRef: n,
		BoxType:    boxTypeFor(computed),
		Computed:   computed,
		Padding:    edgesFrom(computed, "padding"),
		Margin:     edgesFrom(computed, "margin"),
		Border:     edgesFrom(computed, "border-width"),
	}

	for _, c := range n.Children {
		switch c.Type {
		case dom.ElementNode:
			if child := buildBox(c, styles, containerW); child != nil {
				box.Children = append(box.Children, child)
			}
		case dom.TextNode:
			text := strings.TrimSpace(c.Data)
			if text != "" {
				// Unwrapped text placeholder: kept in Children, interleaved
				// with element children in document order, so flowBlock can
				// lay out inline text and block siblings in source order.
				// wrapText splits it into positioned line boxes later.
				box.Children = append(box.Children, &LayoutBox{
					BoxType:  Anonymous,
					TextRuns: []TextRun{{Text: text}},
				})
			}
		}
	}
	return box
}

func boxTypeFor(c style.Computed) BoxType {
	if c.Get("display") == "inline" {
		return Inline
	}
	return Block
}

// edgesFrom reads the bare shorthand (e.g. "padding") for all four sides
// if present, and otherwise the four longhand properties (e.g.
// "padding-top").
func edgesFrom(c style.Computed, base string) EdgeSizes {
	if v, ok := c[base]; ok {
		px := parsePx(v)
		return EdgeSizes{Top: px, Right: px, Bottom: px, Left: px}
	}
	return EdgeSizes{
		Top:    parsePx(c[base+"-top"]),
		Right:  parsePx(c[base+"-right"]),
		Bottom: parsePx(c[base+"-bottom"]),
		Left:   parsePx(c[base+"-left"]),
	}
}

func parsePx(v string) float64 {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func fontSizePx(c style.Computed) float64 {
	return parsePx(c.Get("font-size"))
}

// flowBlock positions box at (x, y) within a containing block of width
// containerW, stacking block children vertically at the content edge and
// wrapping each box's own text runs at word boundaries.
func flowBlock(box *LayoutBox, x, y, containerW float64) float64 {
	contentW := containerW - box.Padding.Left - box.Padding.Right - box.Border.Left - box.Border.Right
	if w, ok := box.Computed["width"]; ok {
		if px := parsePx(w); px > 0 {
			contentW = px
		}
	}
	if contentW < 0 {
		contentW = 0
	}

	box.Content = Rect{X: x + box.Margin.Left + box.Border.Left + box.Padding.Left, Y: y + box.Margin.Top + box.Border.Top + box.Padding.Top, W: contentW}

	cursorY := box.Content.Y
	fontPx := fontSizePx(box.Computed)
	lineH := baseLineHeight * (fontPx / baseFontSizePx)
	charW := charWidthPx * (fontPx / baseFontSizePx)

	// Walk children in document order so inline text and block siblings
	// stack in source order rather than text always floating to the top.
	flowed := make([]*LayoutBox, 0, len(box.Children))
	for _, child := range box.Children {
		if child.BoxType == Anonymous && child.ElementRef == nil {
			text := child.TextRuns[0].Text
			for _, line := range wrapText(text, contentW, charW) {
				flowed = append(flowed, &LayoutBox{
					BoxType:  Anonymous,
					Content:  Rect{X: box.Content.X, Y: cursorY, W: contentW, H: lineH},
					TextRuns: []TextRun{{Text: line, Rect: Rect{X: box.Content.X, Y: cursorY, W: float64(len([]rune(line))) * charW, H: lineH}}},
				})
				cursorY += lineH
			}
			continue
		}
		h := flowBlock(child, box.Content.X, cursorY, contentW)
		cursorY += h + child.Margin.Top + child.Margin.Bottom
		flowed = append(flowed, child)
	}
	box.Children = flowed

	box.Content.H = cursorY - box.Content.Y
	total := box.Content.H + box.Padding.Top + box.Padding.Bottom + box.Border.Top + box.Border.Bottom
	return total
}

// wrapText breaks text into lines of at most floor(maxW/charW) characters,
// breaking only at word boundaries. A single word longer than a line is
// kept whole.
func wrapText(text string, maxW, charW float64) []string {
	if charW <= 0 {
		return []string{text}
	}
	maxChars := int(maxW / charW)
	if maxChars < 1 {
		maxChars = 1
	}
	words := strings.Fields(text)
	var lines []string
	var cur strings.Builder
	curLen := 0
	for _, w := range words {
		wl := len([]rune(w))
		if curLen == 0 {
			cur.WriteString(w)
			curLen = wl
			continue
		}
		if curLen+1+wl > maxChars {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
			curLen = wl
			continue
		}
		cur.WriteByte(' ')
		cur.WriteString(w)
		curLen += 1 + wl
	}
	if curLen > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
