package bridge

import (
	"strings"

	"vibrowser/internal/dom"
)

// SetStyleByID appends (or overwrites within) the element's inline style
// attribute with property:value, returning false if no element has id.
func SetStyleByID(root *dom.Node, id, property, value string) bool {
	el := dom.FindByID(root, id)
	if el == nil {
		return false
	}
	existing, _ := el.Attr("style")
	el.SetAttr("style", mergeDeclaration(existing, property, value))
	return true
}

// SetTextByID replaces id's children with a single text node, returning
// false if no element has id.
func SetTextByID(root *dom.Node, id, text string) bool {
	el := dom.FindByID(root, id)
	if el == nil {
		return false
	}
	el.Children = []*dom.Node{dom.NewText(text)}
	for _, c := range el.Children {
		c.Parent = el
	}
	return true
}

// SetAttributeByID sets an arbitrary attribute on id, returning false if no
// element has id.
func SetAttributeByID(root *dom.Node, id, name, value string) bool {
	el := dom.FindByID(root, id)
	if el == nil {
		return false
	}
	el.SetAttr(name, value)
	return true
}

// QueryByID returns the element with the given id, or nil.
func QueryByID(root *dom.Node, id string) *dom.Node {
	return dom.FindByID(root, id)
}

// QuerySelector returns the first element matching a single simple
// selector (see parseSimpleSelector), or nil.
func QuerySelector(root *dom.Node, selector string) *dom.Node {
	results := QuerySelectorAll(root, selector)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

// QuerySelectorAll returns every element matching selector, in document
// order.
func QuerySelectorAll(root *dom.Node, selector string) []*dom.Node {
	sel, ok := parseSimpleSelector(selector)
	if !ok {
		return nil
	}
	var out []*dom.Node
	dom.Walk(root, func(n *dom.Node) bool {
		if n.Type == dom.ElementNode && selectorMatches(sel, n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func mergeDeclaration(existing, property, value string) string {
	var kept []string
	found := false
	for _, decl := range strings.Split(existing, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		if strings.EqualFold(name, property) {
			kept = append(kept, property+": "+value)
			found = true
			continue
		}
		kept = append(kept, decl)
	}
	if !found {
		kept = append(kept, property+": "+value)
	}
	return strings.Join(kept, "; ")
}

type querySelectorKind int

const (
	qUniversal querySelectorKind = iota
	qType
	qID
	qClass
)

type querySelector struct {
	kind  querySelectorKind
	value string
}

// parseSimpleSelector parses a single simple selector, e.g. "div", "#id",
// ".warn", or "*". Conjunctions are not supported here (callers needing
// the full selector grammar use internal/cssparser directly).
func parseSimpleSelector(s string) (querySelector, bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "*":
		return querySelector{kind: qUniversal}, true
	case strings.HasPrefix(s, "#"):
		return querySelector{kind: qID, value: s[1:]}, len(s) > 1
	case strings.HasPrefix(s, "."):
		return querySelector{kind: qClass, value: s[1:]}, len(s) > 1
	case s != "":
		return querySelector{kind: qType, value: strings.ToLower(s)}, true
	default:
		return querySelector{}, false
	}
}

func selectorMatches(sel querySelector, n *dom.Node) bool {
	switch sel.kind {
	case qUniversal:
		return true
	case qType:
		return n.Tag == sel.value
	case qID:
		id, ok := n.ID()
		return ok && id == sel.value
	case qClass:
		for _, c := range n.Classes() {
			if c == sel.value {
				return true
			}
		}
		return false
	default:
		return false
	}
}
