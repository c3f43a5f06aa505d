package layoutstrategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/font"
	"github.com/docweave/pdfgen/internal/style"
)

func newTestContext(arena *boxtree.Arena) *Context {
	return &Context{
		Arena: arena,
		Measurer: func(b *boxtree.Box) font.Measurer {
			return font.Measurer{SizePx: b.Style.FontSize.ResolveOr(0, style.AutoZero, 16)}
		},
	}
}

func blockStyle() style.ComputedStyle {
	return style.ComputedStyle{Display: style.DisplayBlock, FontSize: style.Px(16), Opacity: 1}
}

func TestBlockBoxModelInvariant(t *testing.T) {
	arena := boxtree.NewArena()
	cs := blockStyle()
	cs.Width = style.Px(200)
	cs.Height = style.Px(100)
	cs.Padding = style.Sides{Top: style.Px(5), Right: style.Px(6), Bottom: style.Px(7), Left: style.Px(8)}
	cs.Border = struct{ Top, Right, Bottom, Left style.BorderEdge }{
		Top: style.BorderEdge{Width: style.Px(1)}, Right: style.BorderEdge{Width: style.Px(2)},
		Bottom: style.BorderEdge{Width: style.Px(3)}, Left: style.BorderEdge{Width: style.Px(4)},
	}
	cs.Margin = style.Sides{Top: style.Px(10), Right: style.Px(10), Bottom: style.Px(10), Left: style.Px(10)}
	root := arena.New("div", cs)

	Layout(newTestContext(arena), root, ContainingBlock{Width: 400}, nil)

	g := arena.Get(root).Geometry
	assert.InDelta(t, g.ContentWidth+8+6+4+2, g.BorderBoxWidth, 1e-6)
	assert.InDelta(t, g.ContentHeight+5+7+1+3, g.BorderBoxHeight, 1e-6)
	assert.InDelta(t, g.BorderBoxWidth+20, g.MarginBoxWidth, 1e-6)
	assert.GreaterOrEqual(t, g.ScrollWidth, g.ContentWidth)
	assert.GreaterOrEqual(t, g.ScrollHeight, g.ContentHeight)
}

func TestBlockAutoMarginsCenter(t *testing.T) {
	arena := boxtree.NewArena()
	cs := blockStyle()
	cs.Width = style.Px(100)
	cs.Margin = style.Sides{Top: style.Zero, Right: style.Auto, Bottom: style.Zero, Left: style.Auto}
	root := arena.New("div", cs)

	Layout(newTestContext(arena), root, ContainingBlock{Width: 300}, nil)

	b := arena.Get(root)
	assert.InDelta(t, 100.0, b.Geometry.X, 1e-6)
	assert.InDelta(t, 100.0, b.Geometry.ContentWidth, 1e-6)
}

func TestBlockChildrenStackVertically(t *testing.T) {
	arena := boxtree.NewArena()
	root := arena.New("div", blockStyle())
	for i := 0; i < 3; i++ {
		cs := blockStyle()
		cs.Height = style.Px(40)
		child := arena.New("div", cs)
		arena.AddChild(root, child)
	}

	Layout(newTestContext(arena), root, ContainingBlock{Width: 300}, nil)

	b := arena.Get(root)
	require.Len(t, b.Children, 3)
	for i, childRef := range b.Children {
		child := arena.Get(childRef)
		assert.InDelta(t, float64(i)*40, child.Geometry.Y, 1e-6, "child %d", i)
	}
	assert.InDelta(t, 120.0, b.Geometry.ContentHeight, 1e-6)
}

func TestBlockInlineChildProducesRuns(t *testing.T) {
	arena := boxtree.NewArena()
	root := arena.New("div", blockStyle())
	inlineCS := style.ComputedStyle{Display: style.DisplayInline, FontSize: style.Px(16), Opacity: 1}
	child := arena.New("span", inlineCS)
	arena.Get(child).Text = "Hello world"
	arena.AddChild(root, child)

	Layout(newTestContext(arena), root, ContainingBlock{Width: 400}, nil)

	b := arena.Get(child)
	require.NotEmpty(t, b.InlineRuns)
	// The estimator measures half an em per rune: 11 runes at 8px.
	assert.InDelta(t, 88.0, b.InlineRuns[0].Width, 1e-6)
	// Container height follows the default 1.2 line-height.
	assert.InDelta(t, 16*1.2, arena.Get(root).Geometry.ContentHeight, 1e-6)
}

func TestFloatChildExcludesInlineContent(t *testing.T) {
	arena := boxtree.NewArena()
	root := arena.New("div", blockStyle())

	floatCS := blockStyle()
	floatCS.Float = style.FloatLeft
	floatCS.Width = style.Px(100)
	floatCS.Height = style.Px(50)
	floatBox := arena.New("div", floatCS)
	arena.AddChild(root, floatBox)

	inlineCS := style.ComputedStyle{Display: style.DisplayInline, FontSize: style.Px(16), Opacity: 1}
	text := arena.New("span", inlineCS)
	arena.Get(text).Text = "hi"
	arena.AddChild(root, text)

	Layout(newTestContext(arena), root, ContainingBlock{Width: 300}, nil)

	fb := arena.Get(floatBox)
	assert.InDelta(t, 0.0, fb.Geometry.X, 1e-6)
	tb := arena.Get(text)
	require.NotEmpty(t, tb.InlineRuns)
	assert.InDelta(t, 100.0, tb.InlineRuns[0].StartX, 1e-6)
	// The float's height contributes to the container.
	assert.InDelta(t, 50.0, arena.Get(root).Geometry.ContentHeight, 1e-6)
}

func TestAbsoluteChildPositionsAgainstInsets(t *testing.T) {
	arena := boxtree.NewArena()
	rootCS := blockStyle()
	rootCS.Height = style.Px(200)
	root := arena.New("div", rootCS)

	absCS := blockStyle()
	absCS.Position = style.PositionAbsolute
	absCS.Width = style.Px(50)
	absCS.Height = style.Px(50)
	absCS.Inset = style.Sides{Top: style.Px(20), Left: style.Px(30), Right: style.Auto, Bottom: style.Auto}
	abs := arena.New("div", absCS)
	arena.AddChild(root, abs)

	Layout(newTestContext(arena), root, ContainingBlock{Width: 300}, nil)

	b := arena.Get(abs)
	assert.InDelta(t, 30.0, b.Geometry.X, 1e-6)
	assert.InDelta(t, 20.0, b.Geometry.Y, 1e-6)
	// Out-of-flow: the parent's height is its specified 200, not grown.
	assert.InDelta(t, 200.0, arena.Get(root).Geometry.ContentHeight, 1e-6)
}

func TestRelativeOffsetShiftsVisualOnly(t *testing.T) {
	arena := boxtree.NewArena()
	root := arena.New("div", blockStyle())

	relCS := blockStyle()
	relCS.Position = style.PositionRelative
	relCS.Height = style.Px(40)
	relCS.Inset = style.Sides{Top: style.Px(5), Left: style.Px(10), Right: style.Auto, Bottom: style.Auto}
	rel := arena.New("div", relCS)
	arena.AddChild(root, rel)

	afterCS := blockStyle()
	afterCS.Height = style.Px(40)
	after := arena.New("div", afterCS)
	arena.AddChild(root, after)

	Layout(newTestContext(arena), root, ContainingBlock{Width: 300}, nil)

	assert.InDelta(t, 10.0, arena.Get(rel).Geometry.X, 1e-6)
	assert.InDelta(t, 5.0, arena.Get(rel).Geometry.Y, 1e-6)
	// The following sibling still flows as if the offset never happened.
	assert.InDelta(t, 40.0, arena.Get(after).Geometry.Y, 1e-6)
}
