package layout

import (
	"fmt"
	"strings"
)

// Serialize produces a canonical, deterministic textual dump of a layout
// tree: one indented line per box, the element tag (or "#text" for
// anonymous text-run boxes) and its content rect rounded to two decimal
// places. Used to compare layouts for bit-exact equality across runs.
func Serialize(root *LayoutBox) string {
	var b strings.Builder
	serializeNode(&b, root, 0)
	return b.String()
}

func serializeNode(b *strings.Builder, box *LayoutBox, depth int) {
	if box == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	name := "#text"
	if box.ElementRef != nil {
		name = box.ElementRef.Tag
	}
	fmt.Fprintf(b, "%s[%s] rect(%.2f,%.2f,%.2f,%.2f)\n", name, box.BoxType, box.Content.X, box.Content.Y, box.Content.W, box.Content.H)
	for _, run := range box.TextRuns {
		b.WriteString(strings.Repeat("  ", depth+1))
		fmt.Fprintf(b, "text %q rect(%.2f,%.2f,%.2f,%.2f)\n", run.Text, run.Rect.X, run.Rect.Y, run.Rect.W, run.Rect.H)
	}
	for _, c := range box.Children {
		serializeNode(b, c, depth+1)
	}
}
