package ifc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/floatctx"
	"github.com/docweave/pdfgen/internal/geom"
	"github.com/docweave/pdfgen/internal/style"
)

// tenPerRune measures every rune at 10px, spaces included.
func tenPerRune(owner boxtree.Ref) (float64, float64, MeasureFn) {
	return 0, 0, func(s string) float64 { return float64(len([]rune(s))) * 10 }
}

func noAtomic(arena *boxtree.Arena, ref boxtree.Ref, availableWidth float64) (float64, float64, float64) {
	return 0, 0, 0
}

// newTextFixture builds a container with one inline text child.
func newTextFixture(text string, ws style.WhiteSpace) (*boxtree.Arena, boxtree.Ref, boxtree.Ref) {
	arena := boxtree.NewArena()
	container := arena.New("div", style.ComputedStyle{Display: style.DisplayBlock, FontSize: style.Px(16), Opacity: 1})
	child := arena.New("span", style.ComputedStyle{Display: style.DisplayInline, FontSize: style.Px(16), WhiteSpace: ws, Opacity: 1})
	arena.Get(child).Text = text
	arena.AddChild(container, child)
	return arena, container, child
}

func TestCenteredSingleLine(t *testing.T) {
	arena, container, child := newTextFixture("Hello world", style.WhiteSpaceNormal)
	params := Params{
		Arena:        arena,
		Container:    container,
		ContentX:     0,
		ContentWidth: 400,
		StartY:       0,
		LineHeight:   20,
		Align:        style.TextAlignCenter,
	}
	res := Run(params, []boxtree.Ref{child}, noAtomic, tenPerRune)

	require.Equal(t, 1, res.LineCount)
	assert.Equal(t, 20.0, res.NewCursorY)

	b := arena.Get(child)
	require.Len(t, b.InlineRuns, 1)
	run := b.InlineRuns[0]
	// Natural advance 110px in a 400px band, centered.
	assert.InDelta(t, (400-110)/2.0, run.StartX, 1e-9)
	// Half-leading (20-16)/2 plus the 0.75em ascent estimate.
	assert.InDelta(t, 0+2+12, run.Baseline, 1e-9)
	assert.Equal(t, "Hello world", run.Text)
	assert.True(t, run.IsLastLine)
	assert.InDelta(t, 20.0, b.Geometry.ContentHeight, 1e-9)
}

func TestWrapProducesOneRunPerLine(t *testing.T) {
	arena, container, child := newTextFixture("aaa bbb ccc", style.WhiteSpaceNormal)
	params := Params{
		Arena:        arena,
		Container:    container,
		ContentWidth: 70,
		LineHeight:   20,
	}
	res := Run(params, []boxtree.Ref{child}, noAtomic, tenPerRune)

	require.Equal(t, 2, res.LineCount)
	b := arena.Get(child)
	require.Len(t, b.InlineRuns, 2)
	assert.Equal(t, 0, b.InlineRuns[0].LineIndex)
	assert.Equal(t, 1, b.InlineRuns[1].LineIndex)
	assert.Equal(t, "aaa bbb", b.InlineRuns[0].Text)
	assert.Equal(t, "ccc", b.InlineRuns[1].Text)
	assert.False(t, b.InlineRuns[0].IsLastLine)
	assert.True(t, b.InlineRuns[1].IsLastLine)

	// The second run starts one line-height down.
	assert.InDelta(t, b.InlineRuns[0].Baseline+20, b.InlineRuns[1].Baseline, 1e-9)
	assert.InDelta(t, 40.0, b.Geometry.ContentHeight, 1e-9)
}

func TestFloatExclusion(t *testing.T) {
	word := strings.Repeat("a", 18) // 180px
	text := word + " " + word + " " + word + " " + word
	arena, container, child := newTextFixture(text, style.WhiteSpaceNormal)

	floats := floatctx.New()
	floats.Add(floatctx.Left, geom.Rect{X: 0, Y: 0, Width: 100, Height: 50})

	params := Params{
		Arena:        arena,
		Container:    container,
		Floats:       floats,
		ContentWidth: 300,
		LineHeight:   20,
	}
	res := Run(params, []boxtree.Ref{child}, noAtomic, tenPerRune)

	require.Equal(t, 4, res.LineCount)
	b := arena.Get(child)
	require.Len(t, b.InlineRuns, 4)
	// Lines beside the float start past it and see a 200px band.
	assert.Equal(t, 100.0, b.InlineRuns[0].StartX)
	assert.Equal(t, 200.0, b.InlineRuns[0].TargetWidth)
	assert.Equal(t, 100.0, b.InlineRuns[1].StartX)
	assert.Equal(t, 100.0, b.InlineRuns[2].StartX)
	// Below the float the full width returns.
	assert.Equal(t, 0.0, b.InlineRuns[3].StartX)
	assert.Equal(t, 300.0, b.InlineRuns[3].TargetWidth)
}

func TestJustifyStretchesAllButLastLine(t *testing.T) {
	arena, container, child := newTextFixture("aa bb cc", style.WhiteSpaceNormal)
	params := Params{
		Arena:        arena,
		Container:    container,
		ContentWidth: 70,
		LineHeight:   20,
		Align:        style.TextAlignJustify,
	}
	res := Run(params, []boxtree.Ref{child}, noAtomic, tenPerRune)

	require.Equal(t, 2, res.LineCount)
	b := arena.Get(child)
	require.Len(t, b.InlineRuns, 2)

	first := b.InlineRuns[0]
	assert.Equal(t, "aa bb", first.Text)
	assert.Equal(t, 0.0, first.StartX)
	assert.Equal(t, 1, first.SpaceCount)
	// The single space absorbed all slack: the run spans the whole band.
	assert.InDelta(t, 70.0, first.Width, 1e-9)

	last := b.InlineRuns[1]
	assert.Equal(t, "cc", last.Text)
	assert.Equal(t, 0.0, last.StartX) // last line falls back to start alignment
}

func TestPreservedWhitespaceAndNewlines(t *testing.T) {
	arena, container, child := newTextFixture("a  b\nc", style.WhiteSpacePre)
	params := Params{
		Arena:        arena,
		Container:    container,
		ContentWidth: 400,
		LineHeight:   20,
		NoWrap:       true,
	}
	res := Run(params, []boxtree.Ref{child}, noAtomic, tenPerRune)

	require.Equal(t, 2, res.LineCount)
	b := arena.Get(child)
	require.Len(t, b.InlineRuns, 2)
	assert.Equal(t, "a  b", b.InlineRuns[0].Text)
	assert.Equal(t, 2, b.InlineRuns[0].SpaceCount)
	assert.Equal(t, "c", b.InlineRuns[1].Text)
}

func TestTextIndentAppliesOnce(t *testing.T) {
	arena, container, child := newTextFixture("aaa bbb ccc", style.WhiteSpaceNormal)
	params := Params{
		Arena:        arena,
		Container:    container,
		ContentWidth: 100,
		LineHeight:   20,
		TextIndent:   30,
	}
	res := Run(params, []boxtree.Ref{child}, noAtomic, tenPerRune)

	require.GreaterOrEqual(t, res.LineCount, 2)
	b := arena.Get(child)
	assert.Equal(t, 30.0, b.InlineRuns[0].StartX)
	assert.Equal(t, 0.0, b.InlineRuns[1].StartX)
}

func TestBreakWordSplitsOverwideWord(t *testing.T) {
	arena, container, child := newTextFixture(strings.Repeat("x", 20), style.WhiteSpaceNormal)
	params := Params{
		Arena:        arena,
		Container:    container,
		ContentWidth: 100, // 10 runes per line at 10px each
		LineHeight:   20,
		OverflowWrap: OverflowWrapBreakWord,
	}
	res := Run(params, []boxtree.Ref{child}, noAtomic, tenPerRune)

	require.Equal(t, 2, res.LineCount)
	b := arena.Get(child)
	require.Len(t, b.InlineRuns, 2)
	assert.Equal(t, strings.Repeat("x", 10), b.InlineRuns[0].Text)
	assert.Equal(t, strings.Repeat("x", 10), b.InlineRuns[1].Text)
}

func TestOverwideWordWithoutBreakWordOverflows(t *testing.T) {
	arena, container, child := newTextFixture(strings.Repeat("x", 20), style.WhiteSpaceNormal)
	params := Params{
		Arena:        arena,
		Container:    container,
		ContentWidth: 100,
		LineHeight:   20,
	}
	res := Run(params, []boxtree.Ref{child}, noAtomic, tenPerRune)
	require.Equal(t, 1, res.LineCount)
	assert.Equal(t, 200.0, arena.Get(child).InlineRuns[0].Width)
}

func TestEmptyParticipantsReturnStartY(t *testing.T) {
	arena := boxtree.NewArena()
	container := arena.New("div", style.ComputedStyle{Display: style.DisplayBlock})
	res := Run(Params{Arena: arena, Container: container, StartY: 37, ContentWidth: 100, LineHeight: 20}, nil, noAtomic, tenPerRune)
	assert.Equal(t, 37.0, res.NewCursorY)
	assert.Equal(t, 0, res.LineCount)
}

func TestAtomicInlineExtendsLineHeight(t *testing.T) {
	arena := boxtree.NewArena()
	container := arena.New("div", style.ComputedStyle{Display: style.DisplayBlock, FontSize: style.Px(16)})
	img := arena.New("img", style.ComputedStyle{Display: style.DisplayInlineBlock})
	arena.AddChild(container, img)

	measured := false
	measure := func(arena *boxtree.Arena, ref boxtree.Ref, availableWidth float64) (float64, float64, float64) {
		measured = true
		return 40, 35, 30
	}
	res := Run(Params{Arena: arena, Container: container, ContentWidth: 200, LineHeight: 20}, []boxtree.Ref{img}, measure, tenPerRune)

	assert.True(t, measured)
	require.Equal(t, 1, res.LineCount)
	// The 35px-tall atomic box grew the line past the 20px default.
	assert.Equal(t, 35.0, res.NewCursorY)
}

func TestBoundingBoxPropagation(t *testing.T) {
	arena := boxtree.NewArena()
	container := arena.New("div", style.ComputedStyle{Display: style.DisplayBlock, FontSize: style.Px(16)})
	wrapper := arena.New("span", style.ComputedStyle{Display: style.DisplayInline, FontSize: style.Px(16)})
	inner := arena.New("span", style.ComputedStyle{Display: style.DisplayInline, FontSize: style.Px(16)})
	arena.Get(inner).Text = "abcd"
	arena.AddChild(container, wrapper)
	arena.AddChild(wrapper, inner)

	Run(Params{Arena: arena, Container: container, ContentWidth: 200, LineHeight: 20}, []boxtree.Ref{wrapper}, noAtomic, tenPerRune)

	w := arena.Get(wrapper)
	// The wrapper emitted no runs of its own but encloses its descendant.
	assert.Empty(t, w.InlineRuns)
	assert.Greater(t, w.Geometry.ContentWidth, 0.0)
	assert.Greater(t, w.Geometry.ContentHeight, 0.0)
}

func TestTokenizeNormalCollapsesWhitespace(t *testing.T) {
	items := Tokenize(boxtree.InlineFragment{Text: "a \t\n b"}, style.WhiteSpaceNormal, style.TextTransformNone)
	require.Len(t, items, 3)
	assert.Equal(t, boxtree.ItemWord, items[0].Kind)
	assert.Equal(t, boxtree.ItemSpace, items[1].Kind)
	assert.Equal(t, 1, items[1].SpaceCount)
	assert.Equal(t, "b", items[2].Text)
}

func TestTokenizePreLine(t *testing.T) {
	items := Tokenize(boxtree.InlineFragment{Text: "a  b\nc"}, style.WhiteSpacePreLine, style.TextTransformNone)
	kinds := make([]boxtree.ItemKind, len(items))
	for i, it := range items {
		kinds[i] = it.Kind
	}
	assert.Equal(t, []boxtree.ItemKind{boxtree.ItemWord, boxtree.ItemSpace, boxtree.ItemWord, boxtree.ItemNewline, boxtree.ItemWord}, kinds)
	assert.Equal(t, 1, items[1].SpaceCount) // pre-line still collapses spaces
}

func TestTokenizeNormalizesCombiningSequences(t *testing.T) {
	// e + combining acute composes to a single code point before shaping.
	items := Tokenize(boxtree.InlineFragment{Text: "e\u0301tude"}, style.WhiteSpaceNormal, style.TextTransformNone)
	require.Len(t, items, 1)
	assert.Equal(t, "\u00e9tude", items[0].Text)
	assert.Len(t, []rune(items[0].Text), 5)
}

func TestTokenizeTransforms(t *testing.T) {
	up := Tokenize(boxtree.InlineFragment{Text: "hello world"}, style.WhiteSpaceNormal, style.TextTransformUppercase)
	assert.Equal(t, "HELLO", up[0].Text)

	capped := Tokenize(boxtree.InlineFragment{Text: "hello wORLD"}, style.WhiteSpaceNormal, style.TextTransformCapitalize)
	assert.Equal(t, "Hello", capped[0].Text)
	assert.Equal(t, "WORLD", capped[2].Text)
}
