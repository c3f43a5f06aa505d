// Package cascade matches stylesheet rules against a parsed HTML document
// and resolves, per element, the winning declaration for each property by
// importance, origin, specificity and source order. The output is the raw
// declaration map the typed style adapter consumes.
package cascade

import (
	xhtml "golang.org/x/net/html"

	"github.com/docweave/pdfgen/internal/parser/css"
	"github.com/docweave/pdfgen/internal/style"
)

// Origin orders declaration sources from weakest to strongest.
type Origin int

const (
	OriginUserAgent Origin = iota
	OriginAuthor
	OriginInline
)

// Engine holds the stylesheets participating in the cascade.
type Engine struct {
	userAgent *css.Stylesheet
	author    []*css.Stylesheet
}

// NewEngine creates an engine carrying the default user-agent stylesheet.
func NewEngine() *Engine {
	return &Engine{userAgent: css.Parse(UserAgentStylesheet)}
}

// SetUserAgentStylesheet replaces the default user-agent rules.
func (e *Engine) SetUserAgentStylesheet(sheet string) {
	e.userAgent = css.Parse(sheet)
}

// AddStylesheet appends an author stylesheet; later sheets win ties.
func (e *Engine) AddStylesheet(sheet *css.Stylesheet) {
	e.author = append(e.author, sheet)
}

// winner tracks the currently winning declaration for one property.
type winner struct {
	value       string
	important   bool
	origin      Origin
	specificity css.Specificity
	order       int
}

func (w winner) beats(important bool, origin Origin, spec css.Specificity, order int) bool {
	if w.important != important {
		return w.important
	}
	if w.origin != origin {
		return w.origin > origin
	}
	if c := w.specificity.Compare(spec); c != 0 {
		return c > 0
	}
	return w.order > order
}

// ComputeStyles resolves the cascade for every element under root and
// returns each element's final property map, inheritance applied.
func (e *Engine) ComputeStyles(root *xhtml.Node) map[*xhtml.Node]style.RawDeclarations {
	result := make(map[*xhtml.Node]style.RawDeclarations)
	e.compute(root, nil, result)
	return result
}

func (e *Engine) compute(n *xhtml.Node, parent style.RawDeclarations, result map[*xhtml.Node]style.RawDeclarations) {
	inherited := parent
	if n.Type == xhtml.ElementNode {
		winners := make(map[string]winner)
		order := 0
		apply := func(sheet *css.Stylesheet, origin Origin) {
			if sheet == nil {
				return
			}
			for _, rule := range sheet.Rules {
				for _, sel := range rule.Selectors {
					if !Matches(n, sel) {
						continue
					}
					spec := css.ComputeSpecificity(sel)
					for _, d := range rule.Declarations {
						order++
						w, exists := winners[d.Property]
						if exists && w.beats(d.Important, origin, spec, order) {
							continue
						}
						winners[d.Property] = winner{value: d.Value, important: d.Important, origin: origin, specificity: spec, order: order}
					}
				}
			}
		}
		apply(e.userAgent, OriginUserAgent)
		for _, sheet := range e.author {
			apply(sheet, OriginAuthor)
		}
		if styleAttr := attr(n, "style"); styleAttr != "" {
			spec := css.Specificity{ID: 1}
			for _, d := range css.ParseDeclarations(styleAttr) {
				order++
				w, exists := winners[d.Property]
				if exists && w.beats(d.Important, OriginInline, spec, order) {
					continue
				}
				winners[d.Property] = winner{value: d.Value, important: d.Important, origin: OriginInline, specificity: spec, order: order}
			}
		}

		raw := make(style.RawDeclarations, len(winners)+8)
		for _, prop := range inheritedProperties {
			if v, ok := parent[prop]; ok {
				raw[prop] = v
			}
		}
		for prop, w := range winners {
			if w.value == "inherit" {
				// Inheritable properties already hold the parent's copy from
				// above; any other property takes the parent's value here.
				if v, ok := parent[prop]; ok {
					raw[prop] = v
				}
				continue
			}
			raw[prop] = w.value
		}
		result[n] = raw
		inherited = raw
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.compute(c, inherited, result)
	}
}

// inheritedProperties are the properties that flow parent to child unless
// the child declares its own value.
var inheritedProperties = []string{
	"border-collapse",
	"color",
	"font-family",
	"font-size",
	"font-style",
	"font-variant",
	"font-weight",
	"letter-spacing",
	"line-height",
	"text-align",
	"text-indent",
	"text-transform",
	"white-space",
	"word-spacing",
}

// InheritedOnly returns just the inheritable subset of raw, for styling
// anonymous boxes (bare text nodes) off their parent element.
func InheritedOnly(raw style.RawDeclarations) style.RawDeclarations {
	out := make(style.RawDeclarations, len(inheritedProperties))
	for _, prop := range inheritedProperties {
		if v, ok := raw[prop]; ok {
			out[prop] = v
		}
	}
	return out
}

func attr(n *xhtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
