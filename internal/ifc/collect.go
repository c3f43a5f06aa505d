package ifc

import (
	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/style"
)

// AtomicMeasurer measures an atomic-inline participant (a replaced element
// or an inline-block) by running its layout strategy against the available
// width. Supplied by the layoutstrategy package to avoid an import cycle.
type AtomicMeasurer func(arena *boxtree.Arena, ref boxtree.Ref, availableWidth float64) (marginWidth, marginHeight, baseline float64)

// CollectFragments recursively descends participants, skipping display:none
// and floated children, and returns the flattened fragment list for
// tokenization.
func CollectFragments(arena *boxtree.Arena, participants []boxtree.Ref, measureAtomic AtomicMeasurer, availableWidth float64) []boxtree.InlineFragment {
	var out []boxtree.InlineFragment
	for _, ref := range participants {
		collectOne(arena, ref, measureAtomic, availableWidth, &out)
	}
	return out
}

func collectOne(arena *boxtree.Arena, ref boxtree.Ref, measureAtomic AtomicMeasurer, availableWidth float64, out *[]boxtree.InlineFragment) {
	b := arena.Get(ref)
	if b == nil || b.Style.Display == style.DisplayNone || b.Style.Float != style.FloatNone {
		return
	}
	if isAtomicInline(b.Style.Display) || b.HasIntrinsicSize {
		mw, mh, baseline := measureAtomic(arena, ref, availableWidth)
		*out = append(*out, boxtree.InlineFragment{
			Kind:         boxtree.FragmentAtomicInline,
			Owner:        ref,
			MarginWidth:  mw,
			MarginHeight: mh,
			Baseline:     baseline,
		})
		return
	}
	if b.Text != "" {
		*out = append(*out, boxtree.InlineFragment{
			Kind:  boxtree.FragmentText,
			Owner: ref,
			Text:  b.Text,
		})
		return
	}
	for _, child := range b.Children {
		collectOne(arena, child, measureAtomic, availableWidth, out)
	}
}

func isAtomicInline(d style.Display) bool {
	switch d {
	case style.DisplayInlineBlock, style.DisplayInlineFlex, style.DisplayInlineGrid, style.DisplayInlineTable:
		return true
	}
	return false
}
