// Package htmlparser implements the fault-tolerant HTML parser: a
// tokenize-then-tree-build pass with explicit, warning-producing recovery.
// For the same byte sequence it always returns the same DOM and the same
// ordered warning list.
package htmlparser

import (
	"strings"

	"vibrowser/internal/dom"
)

// voidElements never have an end tag and are never pushed onto the open
// element stack.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// ParseResult is the parser's deterministic output: the DOM and the
// ordered warning stream produced during recovery.
type ParseResult struct {
	Root     *dom.Node
	Warnings []string
}

type parser struct {
	src      string
	pos      int
	warnings []string
	stack    []*dom.Node
}

// Parse tokenizes and tree-builds src, recovering from malformed markup
// by emitting a warning and continuing rather than aborting.
func Parse(src string) *ParseResult {
	p := &parser{src: src}
	root := dom.NewElement("#document")
	p.stack = []*dom.Node{root}

	for p.pos < len(p.src) {
		if p.consumePrefix("<!--") {
			p.parseComment()
			continue
		}
		if p.consumePrefixFold("<!doctype") {
			p.parseDoctype()
			continue
		}
		if p.peek() == '<' {
			if p.handleTagLike() {
				continue
			}
			// Bare '<' not followed by a tag-name start: treat as text.
			p.warnings = append(p.warnings, "Bare '<' treated as text")
			p.appendText(string(p.src[p.pos]))
			p.pos++
			continue
		}
		p.parseText()
	}

	p.closeRemainingAtEOF()
	return &ParseResult{Root: root, Warnings: p.warnings}
}

func (p *parser) top() *dom.Node { return p.stack[len(p.stack)-1] }

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *parser) consumePrefix(s string) bool {
	if strings.HasPrefix(p.src[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) consumePrefixFold(s string) bool {
	if len(p.src[p.pos:]) >= len(s) && strings.EqualFold(p.src[p.pos:p.pos+len(s)], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) appendText(data string) {
	if data == "" {
		return
	}
	top := p.top()
	if n := len(top.Children); n > 0 && top.Children[n-1].Type == dom.TextNode {
		top.Children[n-1].Data += data
		return
	}
	top.AppendChild(dom.NewText(data))
}

func (p *parser) parseText() {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '<' {
		p.pos++
	}
	p.appendText(p.src[start:p.pos])
}

func (p *parser) parseComment() {
	start := p.pos
	end := strings.Index(p.src[p.pos:], "-->")
	if end < 0 {
		p.warnings = append(p.warnings, "Unclosed HTML comment")
		p.top().AppendChild(dom.NewComment(p.src[start:]))
		p.pos = len(p.src)
		return
	}
	p.top().AppendChild(dom.NewComment(p.src[start : start+end]))
	p.pos = start + end + 3
}

func (p *parser) parseDoctype() {
	end := strings.IndexByte(p.src[p.pos:], '>')
	var name string
	if end < 0 {
		name = strings.TrimSpace(p.src[p.pos:])
		p.pos = len(p.src)
	} else {
		name = strings.TrimSpace(p.src[p.pos : p.pos+end])
		p.pos += end + 1
	}
	p.top().AppendChild(&dom.Node{Type: dom.DoctypeNode, Data: name})
}

func isTagNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isTagNameChar(c byte) bool {
	return isTagNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == ':'
}

// handleTagLike dispatches '<' followed by '/', a tag-name start, or
// neither (bare '<', handled by the caller). Returns false for the latter.
func (p *parser) handleTagLike() bool {
	next := p.peekAt(1)
	if next == '/' {
		p.parseEndTag()
		return true
	}
	if isTagNameStart(next) {
		p.parseStartTag()
		return true
	}
	return false
}

func (p *parser) parseStartTag() {
	p.pos++ // consume '<'
	nameStart := p.pos
	for p.pos < len(p.src) && isTagNameChar(p.src[p.pos]) {
		p.pos++
	}
	tag := strings.ToLower(p.src[nameStart:p.pos])

	attrs := p.parseAttributes()

	selfClosing := false
	p.skipSpace()
	if p.peek() == '/' {
		selfClosing = true
		p.pos++
	}
	if p.peek() == '>' {
		p.pos++
	}

	el := dom.NewElement(tag)
	el.Attributes = attrs
	p.top().AppendChild(el)

	if !selfClosing && !voidElements[tag] {
		p.stack = append(p.stack, el)
	}
}

func (p *parser) parseAttributes() []dom.Attribute {
	var attrs []dom.Attribute
	for {
		p.skipSpace()
		c := p.peek()
		if c == 0 || c == '>' || c == '/' {
			return attrs
		}
		nameStart := p.pos
		for p.pos < len(p.src) {
			c := p.src[p.pos]
			if c == '=' || c == '>' || c == '/' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
				break
			}
			p.pos++
		}
		if p.pos == nameStart {
			// Stuck on an unexpected byte; consume it to guarantee progress.
			p.pos++
			continue
		}
		name := strings.ToLower(p.src[nameStart:p.pos])

		p.skipSpace()
		value := ""
		if p.peek() == '=' {
			p.pos++
			p.skipSpace()
			value = p.parseAttrValue()
		}
		// A repeated attribute name keeps its first value only.
		dup := false
		for _, a := range attrs {
			if a.Name == name {
				dup = true
				break
			}
		}
		if !dup {
			attrs = append(attrs, dom.Attribute{Name: name, Value: value})
		}
	}
}

func (p *parser) parseAttrValue() string {
	c := p.peek()
	if c == '"' || c == '\'' {
		quote := c
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != quote {
			p.pos++
		}
		value := p.src[start:p.pos]
		if p.pos < len(p.src) {
			p.pos++ // consume closing quote
		}
		return value
	}
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '>' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseEndTag() {
	p.pos += 2 // consume "</"
	nameStart := p.pos
	for p.pos < len(p.src) && isTagNameChar(p.src[p.pos]) {
		p.pos++
	}
	tag := strings.ToLower(p.src[nameStart:p.pos])
	// Skip to '>'.
	for p.pos < len(p.src) && p.src[p.pos] != '>' {
		p.pos++
	}
	if p.pos < len(p.src) {
		p.pos++
	}

	depth := -1
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].Tag == tag {
			depth = i
			break
		}
	}
	if depth < 0 {
		p.warnings = append(p.warnings, "Orphan end tag </"+tag+">")
		return
	}
	for i := len(p.stack) - 1; i > depth; i-- {
		p.warnings = append(p.warnings, "<"+p.stack[i].Tag+"> implicitly closed")
	}
	p.stack = p.stack[:depth]
}

func (p *parser) closeRemainingAtEOF() {
	for i := len(p.stack) - 1; i >= 1; i-- {
		p.warnings = append(p.warnings, "Unclosed tag <"+p.stack[i].Tag+"> implicitly closed")
	}
	p.stack = p.stack[:1]
}
