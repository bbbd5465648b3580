// Package render rasterizes a layout tree into a deterministic pixel
// buffer and serializes it to text or PPM.
package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"vibrowser/internal/layout"
)

// textSanitizer strips any markup that ended up inside a text run (e.g. a
// literal "<script>" that the HTML parser recovered from by treating it
// as text) before it reaches the text-rendering surface.
var textSanitizer = bluemonday.StrictPolicy()

const channels = 3 // RGB

// Canvas is a row-major RGB pixel buffer.
type Canvas struct {
	Width, Height int
	Pixels        []byte
}

// NewCanvas allocates a w×h canvas, all pixels zeroed (black).
func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, Pixels: make([]byte, w*h*channels)}
}

func (c *Canvas) set(x, y int, r, g, b byte) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	i := (y*c.Width + x) * channels
	c.Pixels[i] = r
	c.Pixels[i+1] = g
	c.Pixels[i+2] = b
}

func (c *Canvas) fillRect(r layout.Rect, col [3]byte) {
	x0, y0 := int(r.X), int(r.Y)
	x1, y1 := int(r.X+r.W), int(r.Y+r.H)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.set(x, y, col[0], col[1], col[2])
		}
	}
}

var (
	white = [3]byte{255, 255, 255}
	black = [3]byte{0, 0, 0}
)

var namedColors = map[string][3]byte{
	"white": white,
	"black": black,
	"red":   {255, 0, 0},
	"green": {0, 128, 0},
	"blue":  {0, 0, 255},
}

func resolveColor(name string, fallback [3]byte) [3]byte {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := namedColors[name]; ok {
		return c
	}
	return fallback
}

// RenderToCanvas paints a white background fill, then each box's
// background color, border, and text ink, in document order. Deterministic
// in width, height, and content for identical inputs.
func RenderToCanvas(root *layout.LayoutBox, w, h int) *Canvas {
	c := NewCanvas(w, h)
	c.fillRect(layout.Rect{X: 0, Y: 0, W: float64(w), H: float64(h)}, white)
	paint(c, root)
	return c
}

func paint(c *Canvas, box *layout.LayoutBox) {
	if box == nil {
		return
	}
	if box.Computed != nil {
		if bg, ok := box.Computed["background-color"]; ok {
			c.fillRect(box.Content, resolveColor(bg, white))
		}
		if bw := box.Border; bw.Top > 0 || bw.Right > 0 || bw.Bottom > 0 || bw.Left > 0 {
			borderCol := resolveColor(box.Computed["border-color"], black)
			paintBorder(c, box.Content, box.Border, borderCol)
		}
	}
	for _, run := range box.TextRuns {
		paintText(c, run)
	}
	for _, child := range box.Children {
		paint(c, child)
	}
}

func paintBorder(c *Canvas, content layout.Rect, b layout.EdgeSizes, col [3]byte) {
	outer := layout.Rect{X: content.X - b.Left, Y: content.Y - b.Top, W: content.W + b.Left + b.Right, H: content.H + b.Top + b.Bottom}
	c.fillRect(layout.Rect{X: outer.X, Y: outer.Y, W: outer.W, H: b.Top}, col)
	c.fillRect(layout.Rect{X: outer.X, Y: outer.Y + outer.H - b.Bottom, W: outer.W, H: b.Bottom}, col)
	c.fillRect(layout.Rect{X: outer.X, Y: outer.Y, W: b.Left, H: outer.H}, col)
	c.fillRect(layout.Rect{X: outer.X + outer.W - b.Right, Y: outer.Y, W: b.Right, H: outer.H}, col)
}

// paintText paints a deterministic "ink" cell per character: no font
// shaping, just a solid mark at each character's advance position so
// that text presence is visible in the canvas.
func paintText(c *Canvas, run layout.TextRun) {
	cellW := run.Rect.W / float64(max(len([]rune(run.Text)), 1))
	for i := range []rune(run.Text) {
		x := int(run.Rect.X + float64(i)*cellW)
		y := int(run.Rect.Y)
		ink := int(run.Rect.H / 2)
		c.set(x, y+ink, black[0], black[1], black[2])
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// RenderToText serializes visible text runs with naive word-wrapping to
// lineWidth characters per line.
func RenderToText(root *layout.LayoutBox, lineWidth int) string {
	var lines []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	var walk func(*layout.LayoutBox)
	walk = func(b *layout.LayoutBox) {
		for _, run := range b.TextRuns {
			clean := textSanitizer.Sanitize(run.Text)
			for _, word := range strings.Fields(clean) {
				wl := len([]rune(word))
				if curLen > 0 && curLen+1+wl > lineWidth {
					flush()
				}
				if curLen > 0 {
					cur.WriteByte(' ')
					curLen++
				}
				cur.WriteString(word)
				curLen += wl
			}
		}
		for _, c := range b.Children {
			walk(c)
		}
	}
	walk(root)
	flush()
	return strings.Join(lines, "\n")
}

// WritePPM writes canvas in binary PPM (P6) format to path.
func WritePPM(c *Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "P6\n%d %d\n255\n", c.Width, c.Height); err != nil {
		return err
	}
	_, err = f.Write(c.Pixels)
	return err
}
