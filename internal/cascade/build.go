package cascade

import (
	"strconv"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/docweave/pdfgen/internal/boxtree"
	htmlparser "github.com/docweave/pdfgen/internal/parser/html"
	"github.com/docweave/pdfgen/internal/style"
)

// ImageResolver turns an image source reference into decoded content. A nil
// resolver (or a false return) leaves the image box empty; it still
// occupies its attribute-declared size.
type ImageResolver func(src string) (boxtree.ImageContent, bool)

// skippedElements never generate boxes.
var skippedElements = map[string]bool{
	"head": true, "script": true, "style": true, "title": true,
	"meta": true, "link": true, "base": true, "noscript": true,
	"template": true,
}

// BuildTree converts a styled document into the layout box tree, rooted at
// the body element. Text nodes become anonymous inline boxes carrying their
// parent's inheritable style.
func BuildTree(doc *htmlparser.Document, styles map[*xhtml.Node]style.RawDeclarations, images ImageResolver) (*boxtree.Arena, boxtree.Ref) {
	arena := boxtree.NewArena()
	body := doc.Body()
	root := arena.New("body", style.Adapt(styles[body]))
	buildChildren(arena, root, body, styles[body], styles, images)
	return arena, root
}

func buildChildren(arena *boxtree.Arena, parent boxtree.Ref, n *xhtml.Node, parentRaw style.RawDeclarations, styles map[*xhtml.Node]style.RawDeclarations, images ImageResolver) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xhtml.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			raw := InheritedOnly(parentRaw)
			raw["display"] = "inline"
			text := arena.New("#text", style.Adapt(raw))
			arena.Get(text).Text = c.Data
			arena.AddChild(parent, text)
		case xhtml.ElementNode:
			if skippedElements[c.Data] {
				continue
			}
			raw := styles[c]
			box := arena.New(c.Data, style.Adapt(raw))
			arena.AddChild(parent, box)
			fillElementBox(arena, box, c, images)
			buildChildren(arena, box, c, raw, styles, images)
		}
	}
}

// fillElementBox applies element-specific box state: replaced image content
// and table cell spans.
func fillElementBox(arena *boxtree.Arena, ref boxtree.Ref, n *xhtml.Node, images ImageResolver) {
	b := arena.Get(ref)
	switch n.Data {
	case "img":
		if w := attrInt(n, "width"); w > 0 {
			b.IntrinsicWidth = float64(w)
			b.HasIntrinsicSize = true
		}
		if h := attrInt(n, "height"); h > 0 {
			b.IntrinsicHeight = float64(h)
			b.HasIntrinsicSize = true
		}
		if images != nil {
			if src := htmlparser.Attr(n, "src"); src != "" {
				if content, ok := images(src); ok {
					b.Image = &content
				}
			}
		}
	case "td", "th":
		b.ColSpan = attrInt(n, "colspan")
		b.RowSpan = attrInt(n, "rowspan")
	}
}

func attrInt(n *xhtml.Node, key string) int {
	v := htmlparser.Attr(n, key)
	if v == "" {
		return 0
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || i < 0 {
		return 0
	}
	return i
}
