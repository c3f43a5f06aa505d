package layoutstrategy

import (
	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/style"
)

type flexItem struct {
	ref                              boxtree.Ref
	mainSize, crossSize              float64
	mainMarginStart, mainMarginEnd   float64
	crossMarginStart, crossMarginEnd float64
	grow, shrink                     float64
	alignSelf                        style.Align
}

// LayoutFlex lays out a flex container: main/cross axis resolution, blockify +
// basis probe layout, single-line packing (wrap support), grow
// distribution, cross-axis distribution via align-content, and placement
// with justify-content/align-self.
func LayoutFlex(ctx *Context, ref boxtree.Ref, cb ContainingBlock) {
	b := ctx.Arena.Get(ref)
	if b == nil {
		return
	}
	resolveBoxModel(b, cb.Width)
	b.Geometry.X = cb.X + b.BoxModel.MarginLeft
	b.Geometry.Y = cb.Y + b.BoxModel.MarginTop

	containerContentWidth := resolveWidth(b, cb.Width, boxtree.ClampNonNegative(cb.Width-b.BoxModel.MarginLeft-b.BoxModel.MarginRight-b.BoxModel.BorderLeft-b.BoxModel.BorderRight-b.BoxModel.PaddingLeft-b.BoxModel.PaddingRight))
	b.Geometry.ContentWidth = containerContentWidth

	horizontal := b.Style.FlexDirection == style.FlexDirectionRow || b.Style.FlexDirection == style.FlexDirectionRowReverse
	reverse := b.Style.FlexDirection == style.FlexDirectionRowReverse || b.Style.FlexDirection == style.FlexDirectionColumnReverse

	mainSize := containerContentWidth
	if !horizontal {
		mainSize = b.Style.Height.ResolveOr(cb.Height, style.AutoReference, cb.Height)
	}
	gap := b.Style.ColumnGap.ResolveOr(containerContentWidth, style.AutoZero, 0)
	if !horizontal {
		gap = b.Style.RowGap.ResolveOr(cb.Height, style.AutoZero, 0)
	}

	contentOriginX := b.Geometry.X + b.BoxModel.BorderLeft + b.BoxModel.PaddingLeft
	contentOriginY := b.Geometry.Y + b.BoxModel.BorderTop + b.BoxModel.PaddingTop

	var items []flexItem
	for _, childRef := range b.Children {
		child := ctx.Arena.Get(childRef)
		if child == nil || child.Style.Display == style.DisplayNone || child.Style.Position == style.PositionAbsolute || child.Style.Position == style.PositionFixed {
			continue
		}
		blockify(child)
		items = append(items, probeItem(ctx, childRef, child, horizontal, containerContentWidth, mainSize, b.Style.AlignItems))
	}

	lines := packLines(items, mainSize, gap, b.Style.FlexWrap != style.FlexNoWrap)

	crossAxisSize := cb.Height
	if horizontal {
		crossAxisSize = 0
		for _, ln := range lines {
			crossAxisSize += lineCrossSize(ln)
		}
		if n := len(lines); n > 1 {
			crossAxisSize += gap * float64(n-1)
		}
	}

	crossOffsets := distributeCrossAxis(lines, crossAxisSize, b.Style.AlignContent, gap)

	for li, ln := range lines {
		placeLine(ctx, ln, b.Style, horizontal, reverse, mainSize, gap, contentOriginX, contentOriginY+crossOffsets[li], lineCrossSize(ln))
	}

	if horizontal {
		b.Geometry.ContentHeight = crossAxisSize
	} else {
		b.Geometry.ContentHeight = mainSize
	}
	if !b.Style.Height.IsAuto() {
		b.Geometry.ContentHeight = b.Style.Height.ResolveOr(cb.Height, style.AutoZero, b.Geometry.ContentHeight)
	}
	ctx.Arena.FinalizeBoxModel(ref)
}

// blockify converts an inline-compatible display into its block-level
// equivalent for layout purposes; flex items are always block-level.
func blockify(b *boxtree.Box) {
	switch b.Style.Display {
	case style.DisplayInline, style.DisplayInlineBlock:
		b.Style.Display = style.DisplayBlock
	case style.DisplayInlineFlex:
		b.Style.Display = style.DisplayFlex
	case style.DisplayInlineTable:
		b.Style.Display = style.DisplayTable
	case style.DisplayInlineGrid:
		b.Style.Display = style.DisplayGrid
	}
}

func probeItem(ctx *Context, ref boxtree.Ref, child *boxtree.Box, horizontal bool, containerMain, containerMainAxis float64, containerAlignItems style.Align) flexItem {
	basis, hasBasis := resolveIfNotAuto(child.Style.Flex.Basis, containerMainAxis)
	probeWidth := containerMain
	if horizontal && hasBasis {
		probeWidth = basis
	}
	cb := ContainingBlock{Width: probeWidth}
	Layout(ctx, ref, cb, nil)

	// An auto-width item prefers the width of its own inline content over
	// filling the whole container, so free space exists for distribution.
	if horizontal && child.Style.Width.IsAuto() && len(child.Children) > 0 {
		shrinkToFitWidth(ctx, ref)
	}

	// Auto margins count as zero for the item; the probe's block layout may
	// have centered it within the probe width.
	if child.Style.Margin.Left.IsAuto() {
		child.BoxModel.MarginLeft = 0
	}
	if child.Style.Margin.Right.IsAuto() {
		child.BoxModel.MarginRight = 0
	}
	ctx.Arena.FinalizeBoxModel(ref)

	mainSize := child.Geometry.ContentWidth
	mainMarginStart, mainMarginEnd := child.BoxModel.MarginLeft, child.BoxModel.MarginRight
	crossSize := child.Geometry.ContentHeight
	crossMarginStart, crossMarginEnd := child.BoxModel.MarginTop, child.BoxModel.MarginBottom
	if !horizontal {
		mainSize, crossSize = child.Geometry.ContentHeight, child.Geometry.ContentWidth
		mainMarginStart, mainMarginEnd = child.BoxModel.MarginTop, child.BoxModel.MarginBottom
		crossMarginStart, crossMarginEnd = child.BoxModel.MarginLeft, child.BoxModel.MarginRight
	}
	if hasBasis {
		mainSize = basis
	}

	alignSelf := child.Style.Flex.AlignSelf
	item := flexItem{
		ref: ref, mainSize: mainSize, crossSize: crossSize,
		mainMarginStart: mainMarginStart, mainMarginEnd: mainMarginEnd,
		crossMarginStart: crossMarginStart, crossMarginEnd: crossMarginEnd,
		grow: child.Style.Flex.Grow, shrink: child.Style.Flex.Shrink,
	}
	if alignSelf != nil {
		item.alignSelf = *alignSelf
	} else {
		item.alignSelf = containerAlignItems
	}
	return item
}

func (it flexItem) mainContribution() float64 {
	return it.mainSize + it.mainMarginStart + it.mainMarginEnd
}
func (it flexItem) crossContribution() float64 {
	return it.crossSize + it.crossMarginStart + it.crossMarginEnd
}

type flexLine struct {
	items []flexItem
}

// packLines greedily packs items into lines so that contributions plus gaps
// stay within the main size.
func packLines(items []flexItem, mainSize, gap float64, wrap bool) []flexLine {
	if !wrap {
		return []flexLine{{items: items}}
	}
	var lines []flexLine
	var cur []flexItem
	used := 0.0
	for _, it := range items {
		add := it.mainContribution()
		next := used + add
		if len(cur) > 0 {
			next += gap
		}
		if len(cur) > 0 && next > mainSize {
			lines = append(lines, flexLine{items: cur})
			cur = nil
			used = 0
			next = add
		}
		cur = append(cur, it)
		used = next
	}
	if len(cur) > 0 {
		lines = append(lines, flexLine{items: cur})
	}
	return lines
}

func lineCrossSize(ln flexLine) float64 {
	max := 0.0
	for _, it := range ln.items {
		if c := it.crossContribution(); c > max {
			max = c
		}
	}
	return max
}

// distributeCrossAxis applies align-content across lines
// and returns each line's cross-axis start offset.
func distributeCrossAxis(lines []flexLine, crossAxisSize float64, align style.Align, gap float64) []float64 {
	n := len(lines)
	offsets := make([]float64, n)
	if n == 0 {
		return offsets
	}
	total := 0.0
	for _, ln := range lines {
		total += lineCrossSize(ln)
	}
	total += gap * float64(n-1)
	free := crossAxisSize - total
	if free < 0 {
		free = 0
	}
	cursor := 0.0
	switch align {
	case style.AlignFlexEnd:
		cursor = free
	case style.AlignCenter:
		cursor = free / 2
	case style.AlignSpaceBetween:
		if n > 1 {
			gap += free / float64(n-1)
		}
	case style.AlignSpaceAround:
		pad := 0.0
		if n > 0 {
			pad = free / float64(n)
		}
		cursor = pad / 2
		gap += pad
	case style.AlignSpaceEvenly:
		pad := free / float64(n+1)
		cursor = pad
		gap += pad
	}
	for i, ln := range lines {
		offsets[i] = cursor
		cursor += lineCrossSize(ln) + gap
	}
	return offsets
}

// placeLine places one flex line: justify-content spacing along the
// main axis, align-self/align-items along the cross axis.
func placeLine(ctx *Context, ln flexLine, containerStyle style.ComputedStyle, horizontal, reverse bool, mainSize, gap, originX, originY, crossSize float64) {
	n := len(ln.items)
	if n == 0 {
		return
	}
	used := 0.0
	for i, it := range ln.items {
		used += it.mainContribution()
		if i > 0 {
			used += gap
		}
	}
	free := mainSize - used
	growSum, shrinkSum := 0.0, 0.0
	for _, it := range ln.items {
		growSum += it.grow
		shrinkSum += it.shrink * it.mainSize
	}
	switch {
	case free > 0 && growSum > 0:
		for i := range ln.items {
			if ln.items[i].grow > 0 {
				ln.items[i].mainSize += free * ln.items[i].grow / growSum
			}
		}
		free = 0
	case free < 0 && shrinkSum > 0:
		deficit := -free
		for i := range ln.items {
			weight := ln.items[i].shrink * ln.items[i].mainSize
			if weight > 0 {
				ln.items[i].mainSize -= deficit * weight / shrinkSum
				if ln.items[i].mainSize < 0 {
					ln.items[i].mainSize = 0
				}
			}
		}
		free = 0
	case free < 0:
		free = 0
	}

	justifyGap := gap
	cursor := 0.0
	switch containerStyle.JustifyContent {
	case style.JustifyFlexEnd:
		cursor = free
	case style.JustifyCenter:
		cursor = free / 2
	case style.JustifySpaceBetween:
		if n > 1 {
			justifyGap += free / float64(n-1)
		}
	case style.JustifySpaceAround:
		pad := free / float64(n)
		cursor = pad / 2
		justifyGap += pad
	case style.JustifySpaceEvenly:
		pad := free / float64(n+1)
		cursor = pad
		justifyGap += pad
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if reverse {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	for _, idx := range order {
		it := ln.items[idx]
		b := ctx.Arena.Get(it.ref)
		if b == nil {
			continue
		}
		alignSelf := it.alignSelf
		if alignSelf == style.AlignStretch && it.crossSize == 0 {
			it.crossSize = crossSize - it.crossMarginStart - it.crossMarginEnd
		}
		crossOffset := 0.0
		switch alignSelf {
		case style.AlignFlexEnd:
			crossOffset = crossSize - it.crossContribution()
		case style.AlignCenter:
			crossOffset = (crossSize - it.crossContribution()) / 2
		}

		var newX, newY float64
		if horizontal {
			newX = originX + cursor + it.mainMarginStart
			newY = originY + crossOffset + it.crossMarginStart
		} else {
			newX = originX + crossOffset + it.crossMarginStart
			newY = originY + cursor + it.mainMarginStart
		}

		laidOutMain := b.Geometry.ContentWidth
		if !horizontal {
			laidOutMain = b.Geometry.ContentHeight
		}
		if it.mainSize != laidOutMain {
			cb := ContainingBlock{Width: it.mainSize}
			if !horizontal {
				cb.Width = b.Geometry.ContentWidth
				cb.Height = it.mainSize
			}
			Layout(ctx, it.ref, cb, nil)
			// The flexed size wins over the item's specified main size.
			if horizontal {
				b.Geometry.ContentWidth = it.mainSize
			} else {
				b.Geometry.ContentHeight = it.mainSize
			}
			ctx.Arena.FinalizeBoxModel(it.ref)
		}

		ctx.Arena.OffsetSubtree(it.ref, newX-b.Geometry.X, newY-b.Geometry.Y)

		cursor += it.mainContribution() + justifyGap
	}
}
