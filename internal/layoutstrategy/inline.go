package layoutstrategy

import (
	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/floatctx"
	"github.com/docweave/pdfgen/internal/ifc"
	"github.com/docweave/pdfgen/internal/style"
)

type inlineRunResult struct {
	newCursorY float64
}

// layoutInlineRun opens a nested inline formatting context over a run of
// sibling inline-level participants within a block container.
func layoutInlineRun(ctx *Context, participants []boxtree.Ref, floats *floatctx.Context, contentX, contentWidth, startY, lineHeight float64, containerRef boxtree.Ref) inlineRunResult {
	container := ctx.Arena.Get(containerRef)
	wrap := ifc.OverflowWrapNormal
	// Per-container overflow-wrap is not modeled separately from white-space;
	// break-word applies whenever wrapping is on at all.
	if container.Style.WhiteSpace != style.WhiteSpaceNowrap && container.Style.WhiteSpace != style.WhiteSpacePre {
		wrap = ifc.OverflowWrapBreakWord
	}
	params := ifc.Params{
		Arena:        ctx.Arena,
		Container:    containerRef,
		Floats:       floats,
		ContentX:     contentX,
		ContentWidth: contentWidth,
		StartY:       startY,
		LineHeight:   lineHeight,
		TextIndent:   container.Style.TextIndent.ResolveOr(contentWidth, style.AutoZero, 0),
		Align:        container.Style.TextAlign,
		OverflowWrap: wrap,
		NoWrap:       container.Style.WhiteSpace == style.WhiteSpaceNowrap || container.Style.WhiteSpace == style.WhiteSpacePre,
	}
	measureAtomic := func(arena *boxtree.Arena, ref boxtree.Ref, availWidth float64) (float64, float64, float64) {
		cb := ContainingBlock{Width: availWidth}
		Layout(ctx, ref, cb, floats)
		b := arena.Get(ref)
		return b.Geometry.MarginBoxWidth, b.Geometry.MarginBoxHeight, b.Geometry.Baseline
	}
	measure := func(owner boxtree.Ref) (float64, float64, ifc.MeasureFn) {
		b := ctx.Arena.Get(owner)
		if b == nil {
			return 0, 0, func(string) float64 { return 0 }
		}
		m := ctx.Measurer(b)
		letterSpacing := b.Style.LetterSpacing.ResolveOr(0, style.AutoZero, 0)
		wordSpacing := b.Style.WordSpacing.ResolveOr(0, style.AutoZero, 0)
		return letterSpacing, wordSpacing, func(s string) float64 { return m.Advance(s, 0, 0) }
	}
	res := ifc.Run(params, participants, measureAtomic, measure)
	return inlineRunResult{newCursorY: res.NewCursorY}
}

// LayoutInlineWrapper lays out a standalone display:inline / inline-block box
// that is itself the layout root (e.g. an inline-block measured in isolation
// by a flex or table probe). Inline-block behaves like a block container with
// shrink-to-fit width; plain inline only resolves its own box model and
// leaves sizing to the parent's inline formatting context.
func LayoutInlineWrapper(ctx *Context, ref boxtree.Ref, cb ContainingBlock, floats *floatctx.Context) {
	b := ctx.Arena.Get(ref)
	if b == nil {
		return
	}
	if b.Style.Display == style.DisplayInline {
		resolveBoxModel(b, cb.Width)
		b.Geometry.X = cb.X
		b.Geometry.Y = cb.Y
		return
	}
	LayoutBlock(ctx, ref, cb)
	if b.Style.Width.IsAuto() && len(b.Children) > 0 {
		shrinkToFitWidth(ctx, ref)
	}
	if len(b.InlineRuns) == 0 {
		// No text of its own: baseline sits at the content-box bottom,
		// matching replaced-element inline-block behavior.
		b.Geometry.Baseline = b.Geometry.ContentHeight
	} else {
		b.Geometry.Baseline = b.InlineRuns[len(b.InlineRuns)-1].Baseline - b.Geometry.Y
	}
}

// shrinkToFitWidth narrows an auto-width inline-block or flex item to the
// widest line its descendant inline runs actually produced.
func shrinkToFitWidth(ctx *Context, ref boxtree.Ref) {
	widest := widestRunLine(ctx.Arena, ref)
	b := ctx.Arena.Get(ref)
	if widest > 0 && widest < b.Geometry.ContentWidth {
		b.Geometry.ContentWidth = widest
		ctx.Arena.FinalizeBoxModel(ref)
	}
}

func widestRunLine(arena *boxtree.Arena, ref boxtree.Ref) float64 {
	b := arena.Get(ref)
	if b == nil {
		return 0
	}
	widest := 0.0
	for _, run := range b.InlineRuns {
		if run.Width > widest {
			widest = run.Width
		}
	}
	for _, c := range b.Children {
		if w := widestRunLine(arena, c); w > widest {
			widest = w
		}
	}
	return widest
}
