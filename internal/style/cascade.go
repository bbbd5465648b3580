// Package style implements the cascade: combining matched stylesheet
// rules with an element's local "style" attribute into one computed
// style per element, with a fixed inheritance list.
package style

import (
	"vibrowser/internal/cssparser"
	"vibrowser/internal/dom"
)

// Computed is one element's resolved property map.
type Computed map[string]string

// inheritable lists the properties that flow from parent to child when the
// child does not set them itself.
var inheritable = map[string]bool{
	"color":       true,
	"font-size":   true,
	"line-height": true,
}

// initial gives the default value Get returns for an inheritable property
// that neither the element nor any ancestor set.
var initial = Computed{
	"color":       "black",
	"font-size":   "16px",
	"line-height": "normal",
}

// ResolvedStyles maps every element in the tree to its Computed style.
type ResolvedStyles map[*dom.Node]Computed

// Resolve cascades sheet over root's element tree, applying inheritance
// for the fixed inheritable property list. Non-element nodes are absent
// from the result.
func Resolve(root *dom.Node, sheet *cssparser.Stylesheet) ResolvedStyles {
	out := make(ResolvedStyles)
	resolveNode(root, sheet, Computed{}, out)
	return out
}

func resolveNode(n *dom.Node, sheet *cssparser.Stylesheet, parentStyle Computed, out ResolvedStyles) {
	if n.Type != dom.ElementNode {
		return
	}
	computed := make(Computed)
	for prop, val := range parentStyle {
		if inheritable[prop] {
			computed[prop] = val
		}
	}

	for _, rule := range sheet.Rules {
		if !ruleMatches(rule, n) {
			continue
		}
		for _, d := range rule.Declarations {
			computed[d.Property] = d.Value
		}
	}

	if styleAttr, ok := n.Attr("style"); ok {
		for _, d := range cssparser.ParseInlineDeclarations(styleAttr) {
			computed[d.Property] = d.Value
		}
	}

	out[n] = computed

	for _, c := range n.Children {
		resolveNode(c, sheet, computed, out)
	}
}

func ruleMatches(rule cssparser.Rule, n *dom.Node) bool {
	for _, sel := range rule.Selectors {
		if selectorMatches(sel, n) {
			return true
		}
	}
	return false
}

func selectorMatches(sel cssparser.Selector, n *dom.Node) bool {
	for _, part := range sel.Parts {
		if !partMatches(part, n) {
			return false
		}
	}
	return len(sel.Parts) > 0
}

func partMatches(part cssparser.SimpleSelector, n *dom.Node) bool {
	switch part.Kind {
	case cssparser.Universal:
		return true
	case cssparser.Type:
		return n.Tag == part.Value
	case cssparser.ID:
		id, ok := n.ID()
		return ok && id == part.Value
	case cssparser.Class:
		for _, c := range n.Classes() {
			if c == part.Value {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// IsDisplayNone reports whether c's display property is exactly "none".
func (c Computed) IsDisplayNone() bool {
	return c["display"] == "none"
}

// Get returns a property's computed value, falling back to initial's
// default for inheritable properties that were never set.
func (c Computed) Get(prop string) string {
	if v, ok := c[prop]; ok {
		return v
	}
	return initial[prop]
}
