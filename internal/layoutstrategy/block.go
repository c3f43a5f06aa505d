package layoutstrategy

import (
	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/floatctx"
	"github.com/docweave/pdfgen/internal/geom"
	"github.com/docweave/pdfgen/internal/style"
)

// pendingAbsolute defers an absolutely/fixed positioned child to a post-pass
// rooted at the nearest positioned ancestor.
type pendingAbsolute struct {
	ref boxtree.Ref
	cb  ContainingBlock
}

// LayoutBlock lays out a block container: resolves width honoring auto
// margins (both auto means centered), stacks in-flow block children
// vertically, routes floats into a fresh-or-inherited float context, opens a
// nested inline formatting context over runs of inline-level children, and
// defers absolutely positioned children to a post-pass.
func LayoutBlock(ctx *Context, ref boxtree.Ref, cb ContainingBlock) {
	layoutBlockWithFloats(ctx, ref, cb, nil)
}

func layoutBlockWithFloats(ctx *Context, ref boxtree.Ref, cb ContainingBlock, inherited *floatctx.Context) {
	b := ctx.Arena.Get(ref)
	if b == nil {
		return
	}
	resolveBoxModel(b, cb.Width)

	b.Geometry.X = cb.X + b.BoxModel.MarginLeft
	b.Geometry.Y = cb.Y + b.BoxModel.MarginTop

	contentWidthRef := cb.Width - b.BoxModel.MarginLeft - b.BoxModel.MarginRight -
		b.BoxModel.BorderLeft - b.BoxModel.BorderRight - b.BoxModel.PaddingLeft - b.BoxModel.PaddingRight

	autoWidth := boxtree.ClampNonNegative(contentWidthRef)
	if b.HasIntrinsicSize && b.Style.Width.IsAuto() && b.IntrinsicWidth > 0 {
		// Replaced content sizes to its intrinsic width, not the container.
		autoWidth = b.IntrinsicWidth
	}
	// Only in-flow blocks center on auto margins; floats and absolutely
	// positioned boxes treat them as zero.
	inFlow := b.Style.Float == style.FloatNone && b.Style.Position != style.PositionAbsolute && b.Style.Position != style.PositionFixed
	autoMarginsBoth := inFlow && b.Style.Margin.Left.IsAuto() && b.Style.Margin.Right.IsAuto() && !b.Style.Width.IsAuto()
	contentWidth := resolveWidth(b, cb.Width, autoWidth)
	if autoMarginsBoth {
		remaining := contentWidthRef - contentWidth
		if remaining > 0 {
			b.BoxModel.MarginLeft += remaining / 2
			b.BoxModel.MarginRight += remaining / 2
			b.Geometry.X = cb.X + b.BoxModel.MarginLeft
		}
	}
	b.Geometry.ContentWidth = contentWidth

	// A BFC root isolates the float context: its own floats never leak out
	// and ancestor floats never intrude.
	floats := inherited
	if floats == nil || b.Style.EstablishesBFC() {
		floats = floatctx.New()
	}

	contentOriginX := b.Geometry.X + b.BoxModel.BorderLeft + b.BoxModel.PaddingLeft
	contentOriginY := b.Geometry.Y + b.BoxModel.BorderTop + b.BoxModel.PaddingTop
	cursorY := contentOriginY

	var deferred []pendingAbsolute
	var inlineRun []boxtree.Ref

	flushInline := func() {
		if len(inlineRun) == 0 {
			return
		}
		lh := b.Style.LineHeight.ResolveOr(0, style.AutoExplicit, effectiveFontSize(b)*1.2)
		result := layoutInlineRun(ctx, inlineRun, floats, contentOriginX, contentWidth, cursorY, lh, ref)
		cursorY = result.newCursorY
		inlineRun = nil
	}

	for _, childRef := range b.Children {
		child := ctx.Arena.Get(childRef)
		if child == nil || child.Style.Display == style.DisplayNone {
			continue
		}
		if child.Style.Position == style.PositionAbsolute || child.Style.Position == style.PositionFixed {
			flushInline()
			deferred = append(deferred, pendingAbsolute{ref: childRef, cb: ContainingBlock{X: contentOriginX, Y: contentOriginY, Width: contentWidth, Height: 0}})
			continue
		}
		if child.Style.Float != style.FloatNone {
			flushInline()
			layoutFloat(ctx, childRef, floats, contentOriginX, contentWidth, cursorY)
			continue
		}
		if isInlineLevel(child.Style.Display) {
			inlineRun = append(inlineRun, childRef)
			continue
		}
		flushInline()
		childCB := ContainingBlock{X: contentOriginX, Y: cursorY, Width: contentWidth, Height: 0}
		Layout(ctx, childRef, childCB, floats)
		cursorY += child.Geometry.MarginBoxHeight
	}
	flushInline()

	// A BFC root's height contains its floats.
	if b.Style.EstablishesBFC() || inherited == nil {
		floatBottom := floats.Bottom(floatctx.Left)
		if rb := floats.Bottom(floatctx.Right); rb > floatBottom {
			floatBottom = rb
		}
		if floatBottom > cursorY {
			cursorY = floatBottom
		}
	}

	switch {
	case !b.Style.Height.IsAuto():
		b.Geometry.ContentHeight = b.Style.Height.ResolveOr(cb.Height, style.AutoZero, 0)
	case b.HasIntrinsicSize && len(b.Children) == 0:
		h := b.IntrinsicHeight
		if h == 0 && b.IntrinsicWidth > 0 {
			h = contentWidth * scaleRatio(b)
		}
		b.Geometry.ContentHeight = boxtree.ClampNonNegative(h)
	default:
		b.Geometry.ContentHeight = boxtree.ClampNonNegative(cursorY - contentOriginY)
	}
	ctx.Arena.FinalizeBoxModel(ref)

	for _, d := range deferred {
		d.cb.Height = b.Geometry.ContentHeight
		layoutAbsolute(ctx, d.ref, d.cb)
	}
}

func isInlineLevel(d style.Display) bool {
	switch d {
	case style.DisplayInline, style.DisplayInlineBlock, style.DisplayInlineFlex, style.DisplayInlineGrid, style.DisplayInlineTable:
		return true
	}
	return false
}

// layoutFloat measures the float at the full available width, then stacks it
// inward against the current band on its side. If it does not fit next to
// earlier floats it drops below them.
func layoutFloat(ctx *Context, ref boxtree.Ref, floats *floatctx.Context, contentOriginX, availWidth, cursorY float64) {
	cb := ContainingBlock{X: contentOriginX, Y: cursorY, Width: availWidth, Height: 0}
	LayoutBlock(ctx, ref, cb)
	b := ctx.Arena.Get(ref)
	if b == nil {
		return
	}
	w, h := b.Geometry.MarginBoxWidth, b.Geometry.MarginBoxHeight

	y := cursorY
	band := floats.InlineOffsets(y, y+h, availWidth)
	for band.Width() < w && band.Width() < availWidth {
		next, ok := floats.NextUnblockedY(y, y+h)
		if !ok {
			break
		}
		y = next
		band = floats.InlineOffsets(y, y+h, availWidth)
	}

	var relX float64
	side := floatctx.Left
	if b.Style.Float == style.FloatRight {
		side = floatctx.Right
		relX = band.End - w
		if relX < band.Start {
			relX = band.Start
		}
	} else {
		relX = band.Start
	}

	targetX := contentOriginX + relX + b.BoxModel.MarginLeft
	targetY := y + b.BoxModel.MarginTop
	ctx.Arena.OffsetSubtree(ref, targetX-b.Geometry.X, targetY-b.Geometry.Y)
	floats.Add(side, geom.Rect{X: relX, Y: y, Width: w, Height: h})
}

// layoutAbsolute positions an absolutely/fixed positioned box against its
// containing block, honoring the inset properties; an auto inset leaves the
// box at its static-flow position.
func layoutAbsolute(ctx *Context, ref boxtree.Ref, cb ContainingBlock) {
	b := ctx.Arena.Get(ref)
	if b == nil {
		return
	}
	Layout(ctx, ref, cb, nil)

	if v, err := b.Style.Inset.Left.Resolve(cb.Width, style.AutoExplicit); err == nil {
		ctx.Arena.OffsetSubtree(ref, cb.X+v+b.BoxModel.MarginLeft-b.Geometry.X, 0)
	} else if v, err := b.Style.Inset.Right.Resolve(cb.Width, style.AutoExplicit); err == nil {
		x := cb.X + cb.Width - v - b.Geometry.MarginBoxWidth + b.BoxModel.MarginLeft
		ctx.Arena.OffsetSubtree(ref, x-b.Geometry.X, 0)
	}
	if v, err := b.Style.Inset.Top.Resolve(cb.Height, style.AutoExplicit); err == nil {
		ctx.Arena.OffsetSubtree(ref, 0, cb.Y+v+b.BoxModel.MarginTop-b.Geometry.Y)
	} else if v, err := b.Style.Inset.Bottom.Resolve(cb.Height, style.AutoExplicit); err == nil {
		y := cb.Y + cb.Height - v - b.Geometry.MarginBoxHeight + b.BoxModel.MarginTop
		ctx.Arena.OffsetSubtree(ref, 0, y-b.Geometry.Y)
	}
}

// scaleRatio preserves a replaced box's intrinsic aspect ratio when only
// one axis is known.
func scaleRatio(b *boxtree.Box) float64 {
	if b.IntrinsicWidth <= 0 {
		return 0
	}
	if b.IntrinsicHeight <= 0 {
		return 1
	}
	return b.IntrinsicHeight / b.IntrinsicWidth
}

func effectiveFontSize(b *boxtree.Box) float64 {
	return b.Style.FontSize.ResolveOr(0, style.AutoZero, 16)
}
