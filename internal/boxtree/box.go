// Package boxtree implements the mutable box tree the layout strategies
// operate on: an arena of layout boxes with per-box geometry state, owned by
// parent index rather than pointer so the tree is trivially shareable during
// layout and carries no cycles.
package boxtree

import (
	"math"

	"github.com/docweave/pdfgen/internal/style"
)

// Ref is an index into an Arena. The first box created gets Ref 0; NoRef
// marks "no parent".
type Ref int

// NoRef marks the absence of a box (e.g. a root's parent).
const NoRef Ref = -1

// Geometry is the mutable per-box geometry record filled in by the layout
// strategies.
type Geometry struct {
	X, Y                            float64
	ContentWidth, ContentHeight     float64
	BorderBoxWidth, BorderBoxHeight float64
	MarginBoxWidth, MarginBoxHeight float64
	ScrollWidth, ScrollHeight       float64
	Baseline                        float64
}

// ResolvedBoxModel holds one box's resolved margin/border/padding widths,
// computed once per layout pass from ComputedStyle against a containing
// block width.
type ResolvedBoxModel struct {
	MarginTop, MarginRight, MarginBottom, MarginLeft     float64
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft float64
	BorderTop, BorderRight, BorderBottom, BorderLeft     float64
}

// Box is one node of the tree. A parent exclusively owns its Children;
// child order is DOM order and significant for paint-order tie-breaks.
type Box struct {
	Tag      string // opaque element/tag identifier, not interpreted by the core
	Style    style.ComputedStyle
	Parent   Ref
	Children []Ref

	// Text content, set only on text-emitting leaf boxes.
	Text string

	// InlineRuns is populated by the inline formatting context for any box
	// that emits text; one entry per line the box occupies.
	InlineRuns []InlineRun

	// Image is decoded replaced content for image boxes.
	Image *ImageContent

	// Intrinsic sizes, when known ahead of layout (e.g. replaced content).
	IntrinsicWidth, IntrinsicHeight float64
	HasIntrinsicSize                bool

	// RowSpan/ColSpan are the table-cell grid span attributes; zero means
	// "unset" and is normalized to 1 by the table strategy.
	RowSpan, ColSpan int

	// DOMIndex is this box's position among its parent's children, set at
	// construction time; used for paint-order DOM-order tie-breaks without
	// re-deriving it from Children each time.
	DOMIndex int

	Geometry Geometry
	BoxModel ResolvedBoxModel
	External any // opaque back-reference to whatever produced this box
}

// ImageContent is a replaced box's decoded image payload. Format is the
// registration type the PDF layer understands ("PNG", "JPG", "GIF", "SVG").
type ImageContent struct {
	Src    string
	Data   []byte
	Format string
}

// Arena owns every Box in a document. Index 0 is conventionally the root.
type Arena struct {
	boxes []Box
}

// NewArena creates an empty arena.
func NewArena() *Arena { return &Arena{} }

// New appends a new box with no parent set and returns its Ref. Callers must
// call SetParent (or AddChild on the intended parent) to wire it into the tree.
func (a *Arena) New(tag string, cs style.ComputedStyle) Ref {
	a.boxes = append(a.boxes, Box{Tag: tag, Style: cs, Parent: NoRef})
	return Ref(len(a.boxes) - 1)
}

// Get returns a mutable pointer to the box at ref.
func (a *Arena) Get(ref Ref) *Box {
	if ref < 0 || int(ref) >= len(a.boxes) {
		return nil
	}
	return &a.boxes[ref]
}

// AddChild appends child to parent's Children, sets child's Parent and
// DOMIndex, preserving DOM order.
func (a *Arena) AddChild(parent, child Ref) {
	p := a.Get(parent)
	c := a.Get(child)
	if p == nil || c == nil {
		return
	}
	c.Parent = parent
	c.DOMIndex = len(p.Children)
	p.Children = append(p.Children, child)
}

// Len returns the number of boxes in the arena.
func (a *Arena) Len() int { return len(a.boxes) }

// OffsetSubtree walks ref and every descendant, shifting X/Y (and any
// existing inline runs' startX/baseline) by (dx, dy) in one pass. Used by
// flex/table placement once an item's final position differs from its probe
// layout.
func (a *Arena) OffsetSubtree(ref Ref, dx, dy float64) {
	b := a.Get(ref)
	if b == nil {
		return
	}
	b.Geometry.X += dx
	b.Geometry.Y += dy
	for i := range b.InlineRuns {
		b.InlineRuns[i].StartX += dx
		b.InlineRuns[i].Baseline += dy
	}
	for _, child := range b.Children {
		a.OffsetSubtree(child, dx, dy)
	}
}

// FinalizeBoxModel derives BorderBoxWidth/Height and MarginBoxWidth/Height
// from ContentWidth/Height and the resolved box model, and clamps scroll
// sizes to be at least the content size.
func (a *Arena) FinalizeBoxModel(ref Ref) {
	b := a.Get(ref)
	if b == nil {
		return
	}
	m := b.BoxModel
	g := &b.Geometry
	g.BorderBoxWidth = g.ContentWidth + m.PaddingLeft + m.PaddingRight + m.BorderLeft + m.BorderRight
	g.BorderBoxHeight = g.ContentHeight + m.PaddingTop + m.PaddingBottom + m.BorderTop + m.BorderBottom
	g.MarginBoxWidth = g.BorderBoxWidth + m.MarginLeft + m.MarginRight
	g.MarginBoxHeight = g.BorderBoxHeight + m.MarginTop + m.MarginBottom
	g.ScrollWidth = math.Max(g.ScrollWidth, g.ContentWidth)
	g.ScrollHeight = math.Max(g.ScrollHeight, g.ContentHeight)
}

// ClampNonNegative zeroes out a negative or NaN geometry value; layout
// invariant violations recover locally instead of failing the document.
func ClampNonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
