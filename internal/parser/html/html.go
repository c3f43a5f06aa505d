// Package html parses HTML input into the node tree the cascade and box
// construction stages consume. It is a thin veneer over golang.org/x/net/html
// rather than a parser of its own: the x/net node type is the lingua franca
// of the pipeline's front end.
package html

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed HTML document.
type Document struct {
	Root *html.Node
}

// Parse parses HTML from r.
func Parse(r io.Reader) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{Root: node}, nil
}

// ParseString parses HTML from a string.
func ParseString(content string) (*Document, error) {
	return Parse(strings.NewReader(content))
}

// Attr returns the value of the named attribute on n, or "" if absent.
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// Body returns the document's <body> element, or the root when the input had
// none (fragment parsing always synthesizes one, so this is a formality).
func (d *Document) Body() *html.Node {
	var body *html.Node
	Walk(d.Root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return false
		}
		return true
	})
	if body == nil {
		return d.Root
	}
	return body
}

// Walk visits n and its descendants in document order. Returning false from
// visit prunes the subtree (and stops the walk once a false bubbles up).
func Walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !Walk(c, visit) {
			return false
		}
	}
	return true
}

// InlineStylesheets returns the contents of every <style> block in document
// order. External stylesheet fetching is the caller's concern; this only
// collects what is already in the document.
func (d *Document) InlineStylesheets() []string {
	var sheets []string
	Walk(d.Root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "style" {
			var b strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					b.WriteString(c.Data)
					b.WriteString("\n")
				}
			}
			if css := strings.TrimSpace(b.String()); css != "" {
				sheets = append(sheets, css)
			}
		}
		return true
	})
	return sheets
}
