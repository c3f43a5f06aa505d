// Package pagination slices a laid-out document into page windows. Boxes
// that carry unbreakable content (text runs or images) and would straddle a
// page boundary are pushed to the next page, together with everything that
// follows them in flow, so a line of text never renders half on one page and
// half on the next.
package pagination

import (
	"math"
	"sort"

	"github.com/docweave/pdfgen/internal/boxtree"
)

// Page is one vertical window of the flowed document, in px.
type Page struct {
	OffsetPx float64
	HeightPx float64
}

// Paginate splits the document rooted at root into pages of contentHeightPx.
// It mutates box positions: an atomic box straddling a boundary is shifted
// down to the next page start, and every box at or below it shifts by the
// same amount.
func Paginate(arena *boxtree.Arena, root boxtree.Ref, contentHeightPx float64) []Page {
	if contentHeightPx <= 0 {
		return []Page{{OffsetPx: 0, HeightPx: 0}}
	}

	atoms := collectAtoms(arena, root)
	sort.SliceStable(atoms, func(i, j int) bool {
		return arena.Get(atoms[i]).Geometry.Y < arena.Get(atoms[j]).Geometry.Y
	})

	boundary := contentHeightPx
	for i := 0; i < len(atoms); i++ {
		b := arena.Get(atoms[i])
		top := b.Geometry.Y
		bottom := top + b.Geometry.BorderBoxHeight
		if bottom <= boundary {
			continue
		}
		if top >= boundary {
			boundary += contentHeightPx
			i--
			continue
		}
		if b.Geometry.BorderBoxHeight > contentHeightPx {
			// Taller than a page: let it split rather than loop forever.
			boundary += contentHeightPx
			i--
			continue
		}
		delta := boundary - top
		shiftFrom(arena, root, top, delta)
		boundary += contentHeightPx
		i--
	}

	total := subtreeBottom(arena, root)
	count := int(math.Ceil(total / contentHeightPx))
	if count < 1 {
		count = 1
	}
	pages := make([]Page, count)
	for i := range pages {
		pages[i] = Page{OffsetPx: float64(i) * contentHeightPx, HeightPx: contentHeightPx}
	}
	return pages
}

// collectAtoms gathers boxes whose content cannot split across pages.
func collectAtoms(arena *boxtree.Arena, root boxtree.Ref) []boxtree.Ref {
	var atoms []boxtree.Ref
	var walk func(ref boxtree.Ref)
	walk = func(ref boxtree.Ref) {
		b := arena.Get(ref)
		if b == nil {
			return
		}
		if len(b.InlineRuns) > 0 || b.Image != nil {
			atoms = append(atoms, ref)
		}
		for _, c := range b.Children {
			walk(c)
		}
	}
	walk(root)
	return atoms
}

// shiftFrom moves every box whose top edge is at or below yFrom down by
// delta, runs included, and grows the heights of ancestors that span the
// shift point so containers keep enclosing their children.
func shiftFrom(arena *boxtree.Arena, root boxtree.Ref, yFrom, delta float64) {
	var walk func(ref boxtree.Ref)
	walk = func(ref boxtree.Ref) {
		b := arena.Get(ref)
		if b == nil {
			return
		}
		if b.Geometry.Y >= yFrom {
			arena.OffsetSubtree(ref, 0, delta)
			return
		}
		if b.Geometry.Y+b.Geometry.BorderBoxHeight > yFrom {
			b.Geometry.ContentHeight += delta
			b.Geometry.BorderBoxHeight += delta
			b.Geometry.MarginBoxHeight += delta
			if b.Geometry.ScrollHeight < b.Geometry.ContentHeight {
				b.Geometry.ScrollHeight = b.Geometry.ContentHeight
			}
		}
		for _, c := range b.Children {
			walk(c)
		}
	}
	walk(root)
}

func subtreeBottom(arena *boxtree.Arena, root boxtree.Ref) float64 {
	bottom := 0.0
	var walk func(ref boxtree.Ref)
	walk = func(ref boxtree.Ref) {
		b := arena.Get(ref)
		if b == nil {
			return
		}
		if e := b.Geometry.Y + b.Geometry.BorderBoxHeight; e > bottom {
			bottom = e
		}
		for _, c := range b.Children {
			walk(c)
		}
	}
	walk(root)
	return bottom
}
