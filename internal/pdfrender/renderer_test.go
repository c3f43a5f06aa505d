package pdfrender

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/font"
	"github.com/docweave/pdfgen/internal/paint"
	"github.com/docweave/pdfgen/internal/pdfdoc"
	"github.com/docweave/pdfgen/internal/style"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// renderFixture lays out a small pre-positioned tree and runs its paint
// program against a fresh document.
func renderFixture(t *testing.T, build func(arena *boxtree.Arena, root boxtree.Ref)) []byte {
	t.Helper()
	arena := boxtree.NewArena()
	root := arena.New("body", style.ComputedStyle{Display: style.DisplayBlock, Opacity: 1, ZIndex: style.ZIndex{Auto: true}})
	rb := arena.Get(root)
	rb.Geometry = boxtree.Geometry{ContentWidth: 400, ContentHeight: 600, BorderBoxWidth: 400, BorderBoxHeight: 600}
	build(arena, root)

	doc := pdfdoc.NewDocument(pdfdoc.Options{})
	doc.AddPage(450, 650)
	ct := NewCoordinateTransformer(1, 600)
	renderer := NewRenderer(arena, doc, ct, nil, font.NewRegistry(), nil)
	require.NoError(t, renderer.Run(paint.Resolve(arena, []boxtree.Ref{root})))

	var buf bytes.Buffer
	require.NoError(t, doc.Finalize(&buf))
	return buf.Bytes()
}

func TestRenderBackgroundAndBorder(t *testing.T) {
	out := renderFixture(t, func(arena *boxtree.Arena, root boxtree.Ref) {
		cs := style.ComputedStyle{Display: style.DisplayBlock, Opacity: 1, ZIndex: style.ZIndex{Auto: true}}
		cs.BackgroundColor = style.RGBAColor{R: 200, G: 220, B: 240, A: 1}
		cs.Border.Top = style.BorderEdge{Width: style.Px(2), Color: style.RGBAColor{A: 1}, Style: "solid"}
		box := arena.New("div", cs)
		b := arena.Get(box)
		b.BoxModel.BorderTop = 2
		b.Geometry = boxtree.Geometry{X: 10, Y: 10, ContentWidth: 100, ContentHeight: 50, BorderBoxWidth: 100, BorderBoxHeight: 52}
		arena.AddChild(root, box)
	})
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderTextRuns(t *testing.T) {
	out := renderFixture(t, func(arena *boxtree.Arena, root boxtree.Ref) {
		cs := style.ComputedStyle{Display: style.DisplayInline, Opacity: 1, FontSize: style.Px(14), Color: style.RGBAColor{A: 1}, ZIndex: style.ZIndex{Auto: true}}
		cs.DecorationLines = style.TextDecorationUnderline
		box := arena.New("span", cs)
		b := arena.Get(box)
		b.InlineRuns = []boxtree.InlineRun{
			{LineIndex: 0, StartX: 20, Baseline: 30, Text: "hello", Width: 35, LineWidth: 35, TargetWidth: 360},
			{LineIndex: 1, StartX: 20, Baseline: 50, Text: "world", Width: 35, LineWidth: 35, TargetWidth: 360, IsLastLine: true},
		}
		arena.AddChild(root, box)
	})
	// Base14 text lands in the content stream as literal strings.
	assert.Contains(t, string(out), "hello")
	assert.Contains(t, string(out), "world")
}

func TestRenderImageContent(t *testing.T) {
	data := testPNG(t)
	out := renderFixture(t, func(arena *boxtree.Arena, root boxtree.Ref) {
		cs := style.ComputedStyle{Display: style.DisplayBlock, Opacity: 1, ZIndex: style.ZIndex{Auto: true}}
		box := arena.New("img", cs)
		b := arena.Get(box)
		b.Image = &boxtree.ImageContent{Src: "test.png", Data: data, Format: "PNG"}
		b.Geometry = boxtree.Geometry{X: 10, Y: 100, ContentWidth: 40, ContentHeight: 40, BorderBoxWidth: 40, BorderBoxHeight: 40}
		arena.AddChild(root, box)
	})
	// The image XObject made it into the document.
	assert.Contains(t, string(out), "/XObject")
}

func TestRenderOpacityScope(t *testing.T) {
	out := renderFixture(t, func(arena *boxtree.Arena, root boxtree.Ref) {
		cs := style.ComputedStyle{Display: style.DisplayBlock, Opacity: 0.5, ZIndex: style.ZIndex{Auto: true}}
		cs.BackgroundColor = style.RGBAColor{R: 255, A: 1}
		box := arena.New("div", cs)
		b := arena.Get(box)
		b.Geometry = boxtree.Geometry{X: 0, Y: 0, ContentWidth: 50, ContentHeight: 50, BorderBoxWidth: 50, BorderBoxHeight: 50}
		arena.AddChild(root, box)
	})
	// Translucency emits an ExtGState dictionary.
	assert.Contains(t, string(out), "/ExtGState")
}

func TestRenderSkipsNonFiniteImageRect(t *testing.T) {
	// A NaN geometry must not crash or propagate into the stream.
	out := renderFixture(t, func(arena *boxtree.Arena, root boxtree.Ref) {
		cs := style.ComputedStyle{Display: style.DisplayBlock, Opacity: 1, ZIndex: style.ZIndex{Auto: true}}
		box := arena.New("img", cs)
		b := arena.Get(box)
		b.Image = &boxtree.ImageContent{Src: "bad.png", Data: testPNG(t), Format: "PNG"}
		b.Geometry.ContentWidth = 10
		b.Geometry.ContentHeight = 10
		b.Geometry.X = nan()
		arena.AddChild(root, box)
	})
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func nan() float64 {
	var zero float64
	return zero / zero
}
