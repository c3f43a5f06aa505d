// Package floatctx tracks left/right float exclusion rectangles within one
// block formatting context.
package floatctx

import (
	"math"

	"github.com/docweave/pdfgen/internal/geom"
)

// Side is which side a float is pinned to.
type Side int

const (
	Left Side = iota
	Right
)

// Context tracks the float rectangles of one block formatting context.
// Horizontally, rectangles live in the content-box space of the BFC root
// (x=0 is the content left edge); vertically they use whatever flow
// coordinates the caller lays out in. Floats added later never affect
// earlier-placed content, so callers must add floats in layout order and
// never reuse a Band obtained before an Add.
type Context struct {
	left, right []geom.Rect
}

// New creates an empty float context.
func New() *Context { return &Context{} }

// Add registers a float's margin-box rectangle on the given side. Placement
// code is expected to have already stacked the rectangle inward against the
// band returned by InlineOffsets, so overlapping floats on one side narrow
// the band by the sum of their widths rather than the max.
func (c *Context) Add(side Side, r geom.Rect) {
	if side == Left {
		c.left = append(c.left, r)
	} else {
		c.right = append(c.right, r)
	}
}

// Band is the horizontal range available for inline content, relative to the
// BFC root's content left edge.
type Band struct {
	Start, End float64
}

// Width returns the band's usable width.
func (b Band) Width() float64 { return b.End - b.Start }

// InlineOffsets returns the horizontal band available for inline content at
// vertical range [yTop, yBottom) in a container of width containerWidth.
// Every left float that vertically overlaps pushes the band start to its
// right edge; every overlapping right float pulls the band end to its left
// edge.
func (c *Context) InlineOffsets(yTop, yBottom, containerWidth float64) Band {
	start := 0.0
	for _, f := range c.left {
		if f.VerticalOverlap(yTop, yBottom) && f.Right() > start {
			start = f.Right()
		}
	}
	end := containerWidth
	for _, f := range c.right {
		if f.VerticalOverlap(yTop, yBottom) && f.X < end {
			end = f.X
		}
	}
	if end < start {
		end = start
	}
	return Band{Start: start, End: end}
}

// NextUnblockedY returns the smallest y > yTop at which a float currently
// constraining the band [yTop, yBottom) ends, i.e. the next vertical position
// where the band widens. ok is false when no overlapping float bottom lies
// beyond yTop; the caller should then allow overflow on the current line.
func (c *Context) NextUnblockedY(yTop, yBottom float64) (y float64, ok bool) {
	best := math.Inf(1)
	found := false
	consider := func(f geom.Rect) {
		if f.VerticalOverlap(yTop, yBottom) && f.Bottom() > yTop {
			if f.Bottom() < best {
				best = f.Bottom()
				found = true
			}
		}
	}
	for _, f := range c.left {
		consider(f)
	}
	for _, f := range c.right {
		consider(f)
	}
	if !found {
		return 0, false
	}
	return best, true
}

// Bottom returns the bottom edge of the lowest float on the given side, or 0
// if there are none.
func (c *Context) Bottom(side Side) float64 {
	list := c.left
	if side == Right {
		list = c.right
	}
	bottom := 0.0
	for _, f := range list {
		if f.Bottom() > bottom {
			bottom = f.Bottom()
		}
	}
	return bottom
}
