package layoutstrategy

import (
	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/style"
)

// resolveBoxModel fills b.BoxModel from b.Style against containerWidth.
// Percentages in margins and padding resolve against the container width,
// vertical sides included.
func resolveBoxModel(b *boxtree.Box, containerWidth float64) {
	r := func(l style.Length) float64 { return l.ResolveOr(containerWidth, style.AutoZero, 0) }
	b.BoxModel.MarginTop = r(b.Style.Margin.Top)
	b.BoxModel.MarginRight = r(b.Style.Margin.Right)
	b.BoxModel.MarginBottom = r(b.Style.Margin.Bottom)
	b.BoxModel.MarginLeft = r(b.Style.Margin.Left)

	b.BoxModel.PaddingTop = r(b.Style.Padding.Top)
	b.BoxModel.PaddingRight = r(b.Style.Padding.Right)
	b.BoxModel.PaddingBottom = r(b.Style.Padding.Bottom)
	b.BoxModel.PaddingLeft = r(b.Style.Padding.Left)

	b.BoxModel.BorderTop = r(b.Style.Border.Top.Width)
	b.BoxModel.BorderRight = r(b.Style.Border.Right.Width)
	b.BoxModel.BorderBottom = r(b.Style.Border.Bottom.Width)
	b.BoxModel.BorderLeft = r(b.Style.Border.Left.Width)
}

// resolveWidth resolves a box's specified width against the containing
// block, honoring box-sizing and min/max clamping. autoWidth is used when
// Width is auto.
func resolveWidth(b *boxtree.Box, containerWidth, autoWidth float64) float64 {
	extras := style.BoxSizingExtras{
		PaddingStart: b.BoxModel.PaddingLeft, PaddingEnd: b.BoxModel.PaddingRight,
		BorderStart: b.BoxModel.BorderLeft, BorderEnd: b.BoxModel.BorderRight,
	}
	v, err := b.Style.Width.Resolve(containerWidth, style.AutoExplicit)
	if err != nil {
		v = autoWidth
	} else {
		v = style.AdjustForBoxSizing(v, style.BoxSizingContentBox, b.Style.BoxSizing == style.BoxSizingBorderBox, extras)
	}
	min, hasMin := resolveIfNotAuto(b.Style.MinWidth, containerWidth)
	max, hasMax := resolveIfNotAuto(b.Style.MaxWidth, containerWidth)
	return style.ClampMinMax(v, min, max, hasMin, hasMax)
}

func resolveIfNotAuto(l style.Length, ref float64) (float64, bool) {
	if l.IsAuto() {
		return 0, false
	}
	v, err := l.Resolve(ref, style.AutoZero)
	if err != nil {
		return 0, false
	}
	return v, true
}
