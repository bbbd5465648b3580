package cssparser

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"vibrowser/internal/dom"
)

// RefKind distinguishes an inline <style> block from a <link rel=stylesheet>.
type RefKind int

const (
	RefStyle RefKind = iota
	RefLink
)

// Ref is one CSS source discovered in a document.
type Ref struct {
	Kind       RefKind
	InlineText string // RefStyle
	Href       string // RefLink
}

// ExtractLinkedCSS scans dom for <style> blocks and <link rel=stylesheet>
// references, in document order. Other <link> rel values are ignored.
func ExtractLinkedCSS(root *dom.Node) []Ref {
	var refs []Ref
	dom.Walk(root, func(n *dom.Node) bool {
		if n.Type != dom.ElementNode {
			return true
		}
		switch n.Tag {
		case "style":
			refs = append(refs, Ref{Kind: RefStyle, InlineText: dom.TextContent(n)})
		case "link":
			rel, _ := n.Attr("rel")
			if rel != "stylesheet" {
				return true
			}
			href, _ := n.Attr("href")
			refs = append(refs, Ref{Kind: RefLink, Href: href})
		}
		return true
	})
	return refs
}

// Fetcher resolves a <link> href to CSS text; it is the (out-of-core)
// byte-fetcher collaborator, scoped here to text retrieval only.
type Fetcher func(href string) (string, error)

// LoadResult is the merged sheet plus the warnings and failed hrefs
// produced while assembling it.
type LoadResult struct {
	Merged     *Stylesheet
	Warnings   []string
	FailedURLs []string
	LoadErrors *multierror.Error // nil if every <link> resolved
}

// LoadLinkedCSS parses inlineCSS first, then each <style> block's text in
// document order, then each successfully fetched <link> in document
// order. A <link> the fetcher cannot resolve becomes a FailedURLs entry
// and a warning; the merged sheet still contains everything else.
func LoadLinkedCSS(root *dom.Node, inlineCSS string, fetch Fetcher) *LoadResult {
	result := &LoadResult{Merged: &Stylesheet{}}
	var errs *multierror.Error

	if inlineCSS != "" {
		result.Merged.Rules = append(result.Merged.Rules, Parse(inlineCSS).Rules...)
	}

	refs := ExtractLinkedCSS(root)
	var linkRefs []Ref
	for _, r := range refs {
		if r.Kind == RefStyle {
			result.Merged.Rules = append(result.Merged.Rules, Parse(r.InlineText).Rules...)
		} else {
			linkRefs = append(linkRefs, r)
		}
	}

	for _, r := range linkRefs {
		if fetch == nil {
			result.FailedURLs = append(result.FailedURLs, r.Href)
			msg := fmt.Sprintf("failed to load linked stylesheet %q: no fetcher configured", r.Href)
			result.Warnings = append(result.Warnings, msg)
			errs = multierror.Append(errs, fmt.Errorf("%s", msg))
			continue
		}
		text, err := fetch(r.Href)
		if err != nil {
			result.FailedURLs = append(result.FailedURLs, r.Href)
			msg := fmt.Sprintf("failed to load linked stylesheet %q: %v", r.Href, err)
			result.Warnings = append(result.Warnings, msg)
			errs = multierror.Append(errs, fmt.Errorf("%s", msg))
			continue
		}
		result.Merged.Rules = append(result.Merged.Rules, Parse(text).Rules...)
	}

	if errs != nil {
		errs.ErrorFormat = func(es []error) string {
			s := fmt.Sprintf("%d linked stylesheet(s) failed to load:", len(es))
			for _, e := range es {
				s += "\n  * " + e.Error()
			}
			return s
		}
	}
	result.LoadErrors = errs
	return result
}
