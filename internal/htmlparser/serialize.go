package htmlparser

import (
	"strings"

	"vibrowser/internal/dom"
)

// SerializeDOM produces a canonical textual form of n suitable for
// equality tests: attribute order is parse order, and self-closing rules
// are fixed (void elements never emit a separate end tag).
func SerializeDOM(n *dom.Node) string {
	var b strings.Builder
	serializeNode(&b, n)
	return b.String()
}

func serializeNode(b *strings.Builder, n *dom.Node) {
	switch n.Type {
	case dom.TextNode:
		b.WriteString(escapeText(n.Data))
	case dom.CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case dom.DoctypeNode:
		b.WriteString("<!DOCTYPE ")
		b.WriteString(n.Data)
		b.WriteString(">")
	case dom.ElementNode:
		if n.Tag == "#document" {
			for _, c := range n.Children {
				serializeNode(b, c)
			}
			return
		}
		b.WriteByte('<')
		b.WriteString(n.Tag)
		for _, a := range n.Attributes {
			b.WriteByte(' ')
			b.WriteString(a.Name)
			b.WriteString(`="`)
			b.WriteString(escapeAttr(a.Value))
			b.WriteByte('"')
		}
		if voidElements[n.Tag] {
			b.WriteString(" />")
			return
		}
		b.WriteByte('>')
		for _, c := range n.Children {
			serializeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	}
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;")
	return r.Replace(s)
}
