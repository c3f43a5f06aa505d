package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/pdfgen/internal/boxtree"
	htmlparser "github.com/docweave/pdfgen/internal/parser/html"
	"github.com/docweave/pdfgen/internal/style"
)

func buildFixture(t *testing.T, content string) (*boxtree.Arena, boxtree.Ref) {
	t.Helper()
	doc, err := htmlparser.ParseString(content)
	require.NoError(t, err)
	engine := NewEngine()
	styles := engine.ComputeStyles(doc.Root)
	arena, root := BuildTree(doc, styles, nil)
	return arena, root
}

func findByTag(arena *boxtree.Arena, root boxtree.Ref, tag string) boxtree.Ref {
	found := boxtree.NoRef
	var walk func(ref boxtree.Ref)
	walk = func(ref boxtree.Ref) {
		if found != boxtree.NoRef {
			return
		}
		b := arena.Get(ref)
		if b.Tag == tag {
			found = ref
			return
		}
		for _, c := range b.Children {
			walk(c)
		}
	}
	walk(root)
	return found
}

func TestBuildTreeShape(t *testing.T) {
	arena, root := buildFixture(t, `<body><div><span>hello</span></div></body>`)
	rb := arena.Get(root)
	assert.Equal(t, "body", rb.Tag)
	require.Len(t, rb.Children, 1)

	div := arena.Get(rb.Children[0])
	assert.Equal(t, "div", div.Tag)
	assert.Equal(t, style.DisplayBlock, div.Style.Display)

	span := arena.Get(div.Children[0])
	assert.Equal(t, "span", span.Tag)
	assert.Equal(t, style.DisplayInline, span.Style.Display)

	text := arena.Get(span.Children[0])
	assert.Equal(t, "#text", text.Tag)
	assert.Equal(t, "hello", text.Text)
	assert.Equal(t, style.DisplayInline, text.Style.Display)
}

func TestBuildSkipsHeadAndWhitespace(t *testing.T) {
	arena, root := buildFixture(t, `
		<html><head><title>t</title><style>div{color:red}</style></head>
		<body>

		<div>x</div>
		</body></html>`)
	rb := arena.Get(root)
	require.Len(t, rb.Children, 1)
	assert.Equal(t, "div", arena.Get(rb.Children[0]).Tag)
}

func TestBuildTextInheritsParentStyle(t *testing.T) {
	doc, err := htmlparser.ParseString(`<body><p style="color: #ff0000; font-size: 20px">hi</p></body>`)
	require.NoError(t, err)
	engine := NewEngine()
	styles := engine.ComputeStyles(doc.Root)
	arena, root := BuildTree(doc, styles, nil)

	p := findByTag(arena, root, "p")
	require.NotEqual(t, boxtree.NoRef, p)
	text := arena.Get(arena.Get(p).Children[0])
	assert.Equal(t, uint8(255), text.Style.Color.R)
	assert.Equal(t, 20.0, text.Style.FontSize.ResolveOr(0, style.AutoZero, 0))
}

func TestBuildImageAttributes(t *testing.T) {
	resolver := func(src string) (boxtree.ImageContent, bool) {
		return boxtree.ImageContent{Src: src, Data: []byte{1, 2, 3}, Format: "PNG"}, true
	}
	doc, err := htmlparser.ParseString(`<body><img src="pic.png" width="120" height="80"></body>`)
	require.NoError(t, err)
	engine := NewEngine()
	arena, root := BuildTree(doc, engine.ComputeStyles(doc.Root), resolver)

	img := findByTag(arena, root, "img")
	require.NotEqual(t, boxtree.NoRef, img)
	b := arena.Get(img)
	assert.True(t, b.HasIntrinsicSize)
	assert.Equal(t, 120.0, b.IntrinsicWidth)
	assert.Equal(t, 80.0, b.IntrinsicHeight)
	require.NotNil(t, b.Image)
	assert.Equal(t, "pic.png", b.Image.Src)
}

func TestBuildTableSpans(t *testing.T) {
	arena, root := buildFixture(t, `<body><table><tr><td colspan="2" rowspan="3">x</td></tr></table></body>`)
	td := findByTag(arena, root, "td")
	require.NotEqual(t, boxtree.NoRef, td)
	assert.Equal(t, 2, arena.Get(td).ColSpan)
	assert.Equal(t, 3, arena.Get(td).RowSpan)
	assert.Equal(t, style.DisplayTableCell, arena.Get(td).Style.Display)
}
