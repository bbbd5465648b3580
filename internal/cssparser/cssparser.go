// Package cssparser implements the CSS subset parser and the linked-CSS
// resolver. Tokenization rides on the gorilla/css scanner; selector and
// declaration grammar on top of it is this engine's own small subset
// grammar.
package cssparser

import (
	"strings"

	"github.com/gorilla/css/scanner"
)

// SelectorKind distinguishes the supported selector forms.
type SelectorKind int

const (
	Universal SelectorKind = iota
	Type
	ID
	Class
)

// SimpleSelector is one component of a (possibly conjoined) selector.
type SimpleSelector struct {
	Kind  SelectorKind
	Value string // tag name, id, or class name; empty for Universal
}

// Selector is a conjunction of SimpleSelectors (e.g. "div.warn#x").
type Selector struct {
	Parts []SimpleSelector
}

// Declaration is one property:value pair within a rule body.
type Declaration struct {
	Property string
	Value    string
}

// Rule is one selector-list + declaration-block pair, in sheet order.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// Stylesheet is the ordered list of rules a sheet parses into.
type Stylesheet struct {
	Rules []Rule
}

// ParseInlineDeclarations parses the contents of an element's local
// "style" attribute: a bare declaration block with no selector or braces.
func ParseInlineDeclarations(text string) []Declaration {
	p := &cssParser{toks: tokenize(text)}
	return p.parseDeclarations(false)
}

// Parse parses text as the engine's CSS subset: universal/type/id/class
// selectors and "property: value;" declarations, skipping comments
// (handled by the scanner) and unknown at-rules.
func Parse(text string) *Stylesheet {
	toks := tokenize(text)
	p := &cssParser{toks: toks}
	return p.parseStylesheet()
}

type cssToken struct {
	typ   any
	value string
}

func tokenize(text string) []cssToken {
	s := scanner.New(text)
	var out []cssToken
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF || tok.Type == scanner.TokenError {
			break
		}
		if tok.Type == scanner.TokenS || tok.Type == scanner.TokenComment {
			continue
		}
		out = append(out, cssToken{typ: tok.Type, value: tok.Value})
	}
	return out
}

type cssParser struct {
	toks []cssToken
	pos  int
}

func (p *cssParser) peek() (cssToken, bool) {
	if p.pos >= len(p.toks) {
		return cssToken{}, false
	}
	return p.toks[p.pos], true
}

func (p *cssParser) next() (cssToken, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *cssParser) parseStylesheet() *Stylesheet {
	sheet := &Stylesheet{}
	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		if t.typ == scanner.TokenAtKeyword {
			p.skipAtRule()
			continue
		}
		rule, ok := p.parseRule()
		if !ok {
			p.pos++ // guarantee progress on malformed input
			continue
		}
		sheet.Rules = append(sheet.Rules, rule)
	}
	return sheet
}

// skipAtRule discards an unknown at-rule, whether block-bodied ("@media
// {...}") or statement-terminated ("@import url(...);").
func (p *cssParser) skipAtRule() {
	depth := 0
	for {
		t, ok := p.next()
		if !ok {
			return
		}
		if t.typ == scanner.TokenChar && t.value == "{" {
			depth++
			continue
		}
		if t.typ == scanner.TokenChar && t.value == "}" {
			depth--
			if depth <= 0 {
				return
			}
			continue
		}
		if depth == 0 && t.typ == scanner.TokenChar && t.value == ";" {
			return
		}
	}
}

func (p *cssParser) parseRule() (Rule, bool) {
	selectors, ok := p.parseSelectorList()
	if !ok {
		return Rule{}, false
	}
	decls := p.parseDeclarationBlock()
	return Rule{Selectors: selectors, Declarations: decls}, true
}

func (p *cssParser) parseSelectorList() ([]Selector, bool) {
	var selectors []Selector
	for {
		sel, ok := p.parseSelector()
		if !ok {
			return nil, false
		}
		selectors = append(selectors, sel)
		t, ok := p.peek()
		if !ok {
			return nil, false
		}
		if t.typ == scanner.TokenChar && t.value == "," {
			p.pos++
			continue
		}
		if t.typ == scanner.TokenChar && t.value == "{" {
			p.pos++
			return selectors, true
		}
		return nil, false
	}
}

func (p *cssParser) parseSelector() (Selector, bool) {
	var sel Selector
	for {
		t, ok := p.peek()
		if !ok {
			return Selector{}, false
		}
		switch {
		case t.typ == scanner.TokenChar && t.value == "*":
			sel.Parts = append(sel.Parts, SimpleSelector{Kind: Universal})
			p.pos++
		case t.typ == scanner.TokenIdent:
			sel.Parts = append(sel.Parts, SimpleSelector{Kind: Type, Value: strings.ToLower(t.value)})
			p.pos++
		case t.typ == scanner.TokenHash:
			sel.Parts = append(sel.Parts, SimpleSelector{Kind: ID, Value: strings.TrimPrefix(t.value, "#")})
			p.pos++
		case t.typ == scanner.TokenChar && t.value == ".":
			p.pos++
			nt, ok := p.next()
			if !ok || nt.typ != scanner.TokenIdent {
				return Selector{}, false
			}
			sel.Parts = append(sel.Parts, SimpleSelector{Kind: Class, Value: nt.value})
		default:
			if len(sel.Parts) == 0 {
				return Selector{}, false
			}
			return sel, true
		}
	}
}

func (p *cssParser) parseDeclarationBlock() []Declaration {
	return p.parseDeclarations(true)
}

// parseDeclarations parses a run of "property: value;" pairs, shared by a
// brace-delimited rule body and a bare inline "style" attribute. When
// closingBrace is true, a "}" token is consumed and ends the run; when
// false, the run ends only at EOF (there is no brace to look for).
func (p *cssParser) parseDeclarations(closingBrace bool) []Declaration {
	var decls []Declaration
	for {
		t, ok := p.peek()
		if !ok {
			return decls
		}
		if closingBrace && t.typ == scanner.TokenChar && t.value == "}" {
			p.pos++
			return decls
		}
		if t.typ == scanner.TokenChar && t.value == ";" {
			p.pos++
			continue
		}
		if t.typ != scanner.TokenIdent {
			p.pos++
			continue
		}
		prop := strings.ToLower(t.value)
		p.pos++
		ct, ok := p.peek()
		if !ok || !(ct.typ == scanner.TokenChar && ct.value == ":") {
			continue
		}
		p.pos++
		value := p.parseValue()
		decls = append(decls, Declaration{Property: prop, Value: strings.TrimSpace(value)})
	}
}

func (p *cssParser) parseValue() string {
	var b strings.Builder
	for {
		t, ok := p.peek()
		if !ok {
			return b.String()
		}
		if t.typ == scanner.TokenChar && (t.value == ";" || t.value == "}") {
			return b.String()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.value)
		p.pos++
	}
}
