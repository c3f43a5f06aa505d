// Package layoutstrategy implements the block, flex, table and
// inline-wrapper layout strategies. Strategy selection is a pure function of
// the display mode; each strategy is a plain function over (box, context)
// rather than a virtual method.
package layoutstrategy

import (
	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/floatctx"
	"github.com/docweave/pdfgen/internal/font"
	"github.com/docweave/pdfgen/internal/style"
)

// Strategy tags which layout algorithm applies to a box.
type Strategy int

const (
	StrategyBlock Strategy = iota
	StrategyFlex
	StrategyTable
	StrategyInlineWrapper
)

// Select picks the layout strategy for a display mode.
func Select(d style.Display) Strategy {
	switch d {
	case style.DisplayFlex, style.DisplayInlineFlex:
		return StrategyFlex
	case style.DisplayTable, style.DisplayInlineTable:
		return StrategyTable
	case style.DisplayInline, style.DisplayInlineBlock:
		return StrategyInlineWrapper
	default:
		return StrategyBlock
	}
}

// Context bundles the shared dependencies every strategy needs.
type Context struct {
	Arena *boxtree.Arena
	// Measurer binds a box's resolved font to a text measurer for the
	// inline formatting context.
	Measurer func(b *boxtree.Box) font.Measurer
}

// ContainingBlock is the subset of a containing block's geometry strategies
// resolve lengths against.
type ContainingBlock struct {
	Width, Height float64
	X, Y          float64
}

// Layout dispatches ref to the strategy selected by its own display, laying
// it out against cb, and recurses into children via the same dispatch.
// Relative positioning applies afterward as a pure visual offset.
func Layout(ctx *Context, ref boxtree.Ref, cb ContainingBlock, floats *floatctx.Context) {
	b := ctx.Arena.Get(ref)
	if b == nil || b.Style.Display == style.DisplayNone {
		return
	}
	switch Select(b.Style.Display) {
	case StrategyFlex:
		LayoutFlex(ctx, ref, cb)
	case StrategyTable:
		LayoutTable(ctx, ref, cb)
	case StrategyInlineWrapper:
		LayoutInlineWrapper(ctx, ref, cb, floats)
	default:
		LayoutBlock(ctx, ref, cb)
	}
	if b.Style.Position == style.PositionRelative {
		applyRelativeOffset(ctx, ref, cb)
	}
}

// applyRelativeOffset shifts a relatively positioned box from its static
// position by its inset properties without affecting surrounding flow.
func applyRelativeOffset(ctx *Context, ref boxtree.Ref, cb ContainingBlock) {
	b := ctx.Arena.Get(ref)
	dx, dy := 0.0, 0.0
	if v, err := b.Style.Inset.Left.Resolve(cb.Width, style.AutoExplicit); err == nil {
		dx = v
	} else if v, err := b.Style.Inset.Right.Resolve(cb.Width, style.AutoExplicit); err == nil {
		dx = -v
	}
	if v, err := b.Style.Inset.Top.Resolve(cb.Height, style.AutoExplicit); err == nil {
		dy = v
	} else if v, err := b.Style.Inset.Bottom.Resolve(cb.Height, style.AutoExplicit); err == nil {
		dy = -v
	}
	if dx != 0 || dy != 0 {
		ctx.Arena.OffsetSubtree(ref, dx, dy)
	}
}
