// Package paint resolves a box tree into a flat paint instruction list in
// CSS 2.1 Appendix E order: per stacking context, the root paints first,
// then negative z-index contexts ascending, then in-flow descendants in DOM
// order, then positioned and positive z-index contexts ascending. Nested
// contexts paint atomically.
package paint

import (
	"sort"

	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/style"
)

// Kind tags what an Instruction asks the renderer to do.
type Kind int

const (
	KindBox         Kind = iota // background, borders, box-shadow of Ref
	KindContent                 // text/replaced content of Ref
	KindBeginOpacity            // push an opacity/ExtGState scope for Ref
	KindEndOpacity              // pop the scope opened by the matching KindBeginOpacity
	KindBeginClip               // push a clip to Ref's content box (overflow != visible)
	KindEndClip
)

// Instruction is one step of the flattened paint program.
type Instruction struct {
	Kind Kind
	Ref  boxtree.Ref
}

// Resolve walks roots as stacking contexts and returns the full paint
// program. Siblings with equal z-index keep DOM order (the classification
// below never reorders within a bucket and the z sort is stable).
func Resolve(arena *boxtree.Arena, roots []boxtree.Ref) []Instruction {
	var out []Instruction
	for _, r := range roots {
		out = append(out, paintStackingContext(arena, r)...)
	}
	return out
}

func paintStackingContext(arena *boxtree.Arena, ref boxtree.Ref) []Instruction {
	b := arena.Get(ref)
	if b == nil {
		return nil
	}
	opacityScoped := b.Style.Opacity*b.Style.EffectiveOpacityFactor() < 1
	clipScoped := establishesClip(b.Style)

	var out []Instruction
	if opacityScoped {
		out = append(out, Instruction{Kind: KindBeginOpacity, Ref: ref})
	}
	out = append(out, Instruction{Kind: KindBox, Ref: ref})
	if clipScoped {
		out = append(out, Instruction{Kind: KindBeginClip, Ref: ref})
	}
	out = append(out, Instruction{Kind: KindContent, Ref: ref})

	var negativeZ, positiveZ, zeroAutoPositioned []boxtree.Ref
	var normalFlow []boxtree.Ref
	collectDescendants(arena, ref, &negativeZ, &normalFlow, &zeroAutoPositioned, &positiveZ)

	sortByZIndex(arena, negativeZ)
	sortByZIndex(arena, positiveZ)

	for _, child := range negativeZ {
		out = append(out, paintStackingContext(arena, child)...)
	}
	for _, child := range normalFlow {
		cb := arena.Get(child)
		if cb.Style.Float != style.FloatNone {
			out = append(out, paintStackingContext(arena, child)...)
			continue
		}
		out = append(out, Instruction{Kind: KindBox, Ref: child})
		out = append(out, Instruction{Kind: KindContent, Ref: child})
	}
	for _, child := range zeroAutoPositioned {
		out = append(out, paintStackingContext(arena, child)...)
	}
	for _, child := range positiveZ {
		out = append(out, paintStackingContext(arena, child)...)
	}

	if clipScoped {
		out = append(out, Instruction{Kind: KindEndClip, Ref: ref})
	}
	if opacityScoped {
		out = append(out, Instruction{Kind: KindEndOpacity, Ref: ref})
	}
	return out
}

// collectDescendants classifies ref's descendants without crossing into a
// nested stacking context, which paints atomically via its own recursive
// paintStackingContext call.
func collectDescendants(arena *boxtree.Arena, ref boxtree.Ref, negativeZ, normalFlow, zeroAutoPositioned, positiveZ *[]boxtree.Ref) {
	b := arena.Get(ref)
	if b == nil {
		return
	}
	for _, child := range b.Children {
		cb := arena.Get(child)
		if cb == nil || cb.Style.Display == style.DisplayNone {
			continue
		}
		if cb.Style.EstablishesStackingContext() {
			switch {
			case cb.Style.ZIndex.Value < 0 && !cb.Style.ZIndex.Auto:
				*negativeZ = append(*negativeZ, child)
			case cb.Style.ZIndex.Value > 0 && !cb.Style.ZIndex.Auto:
				*positiveZ = append(*positiveZ, child)
			default:
				*zeroAutoPositioned = append(*zeroAutoPositioned, child)
			}
			continue
		}
		isPositioned := cb.Style.Position != style.PositionStatic
		if isPositioned {
			*zeroAutoPositioned = append(*zeroAutoPositioned, child)
			continue
		}
		*normalFlow = append(*normalFlow, child)
		if cb.Style.Float != style.FloatNone {
			// Floats paint atomically; their descendants stay inside.
			continue
		}
		collectDescendants(arena, child, negativeZ, normalFlow, zeroAutoPositioned, positiveZ)
	}
}

func sortByZIndex(arena *boxtree.Arena, refs []boxtree.Ref) {
	sort.SliceStable(refs, func(i, j int) bool {
		return arena.Get(refs[i]).Style.ZIndex.Value < arena.Get(refs[j]).Style.ZIndex.Value
	})
}

func establishesClip(s style.ComputedStyle) bool {
	switch s.OverflowX {
	case style.OverflowHidden, style.OverflowAuto, style.OverflowScroll, style.OverflowClip:
		return true
	}
	switch s.OverflowY {
	case style.OverflowHidden, style.OverflowAuto, style.OverflowScroll, style.OverflowClip:
		return true
	}
	return false
}
