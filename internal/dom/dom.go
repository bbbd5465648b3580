// Package dom implements the tagged-variant document tree shared by the
// HTML parser, the layout engine, the renderer, and the scripting bridge.
// The pipeline owns the tree exclusively; every other component borrows it.
package dom

import "strings"

// NodeType distinguishes the four DOM node variants. Kept as a closed sum
// type rather than an interface hierarchy so callers can switch on it.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
	DoctypeNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case DoctypeNode:
		return "Doctype"
	default:
		return "Unknown"
	}
}

// Attribute is one name/value pair. Attribute order on an Element is parse
// order; it is preserved for deterministic serialization.
type Attribute struct {
	Name  string
	Value string
}

// Node is a single DOM tree node. Only the fields relevant to a node's
// Type are meaningful: a tagged struct rather than an interface per type.
type Node struct {
	Type       NodeType
	Tag        string // ElementNode only, lowercase ASCII
	Attributes []Attribute
	Children   []*Node
	Data       string // TextNode / CommentNode content, Doctype name
	Parent     *Node
}

// NewElement constructs an empty element node with the given lowercase tag.
func NewElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: tag}
}

// NewText constructs a text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// NewComment constructs a comment node.
func NewComment(data string) *Node {
	return &Node{Type: CommentNode, Data: data}
}

// AppendChild adds child as the last child of n, wiring the parent pointer.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Attr returns the value of the named attribute and whether it was present.
// Lookup is case-sensitive because parsing already lowercases names.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, appending it if absent or overwriting the
// existing value (and position) in place if already present.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attributes {
		if a.Name == name {
			n.Attributes[i].Value = value
			return
		}
	}
	n.Attributes = append(n.Attributes, Attribute{Name: name, Value: value})
}

// ID returns the element's id attribute, if any. Each element has at most
// one id attribute by construction (SetAttr overwrites rather than appends,
// and the HTML parser drops repeated attribute names).
func (n *Node) ID() (string, bool) {
	return n.Attr("id")
}

// Classes returns the element's class attribute split on ASCII whitespace.
func (n *Node) Classes() []string {
	v, ok := n.Attr("class")
	if !ok || v == "" {
		return nil
	}
	return strings.Fields(v)
}

// Walk invokes fn for n and every descendant, in document (pre-)order.
// fn returning false prunes that subtree (its children are not visited).
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// FindByID returns the first element in the subtree rooted at n whose id
// attribute equals id, or nil if none matches.
func FindByID(root *Node, id string) *Node {
	var found *Node
	Walk(root, func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Type == ElementNode {
			if v, ok := n.ID(); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// TextContent concatenates all descendant text node data, document order.
func TextContent(n *Node) string {
	var b strings.Builder
	Walk(n, func(c *Node) bool {
		if c.Type == TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}
