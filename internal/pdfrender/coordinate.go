// Package pdfrender implements the content-stream renderer: it executes the
// paint-order instruction list against fpdf's path, text and image
// primitives, with shape, text and image sub-renderers sharing one graphics
// state and one coordinate transform per page.
package pdfrender

// CoordinateTransformer converts the layout engine's flowed px space
// (origin at the content top-left, y down, all pages in one tall strip) into
// one page's pt space. The document layer draws in top-left pt coordinates,
// so the transform is a scale plus the page's vertical window and the
// content margins.
type CoordinateTransformer struct {
	PxPerPt      float64 // e.g. 96/72 for CSS-standard 96 DPI
	PageHeightPx float64 // content height of one page window
	PageOffsetPx float64 // top of the current page window in flowed px
	MarginTopPt  float64 // offset of the content box on the page
	MarginLeftPt float64
}

// NewCoordinateTransformer builds a transformer for the given pixel density
// (px per pt; 96.0/72.0 is the browser convention).
func NewCoordinateTransformer(pxPerPt, pageHeightPx float64) CoordinateTransformer {
	if pxPerPt <= 0 {
		pxPerPt = 96.0 / 72.0
	}
	return CoordinateTransformer{PxPerPt: pxPerPt, PageHeightPx: pageHeightPx}
}

// WithMargins returns a copy placing the content box at (left, top) pt on
// each page.
func (c CoordinateTransformer) WithMargins(leftPt, topPt float64) CoordinateTransformer {
	c.MarginLeftPt = leftPt
	c.MarginTopPt = topPt
	return c
}

// WithPageOffset returns a copy scoped to the page window starting at
// pageOffsetPx in the flowed document.
func (c CoordinateTransformer) WithPageOffset(pageOffsetPx float64) CoordinateTransformer {
	c.PageOffsetPx = pageOffsetPx
	return c
}

// ToPt converts a flowed-document px point to this page's pt coordinates.
func (c CoordinateTransformer) ToPt(xPx, yPx float64) (xPt, yPt float64) {
	return xPx/c.PxPerPt + c.MarginLeftPt, (yPx-c.PageOffsetPx)/c.PxPerPt + c.MarginTopPt
}

// LengthToPt converts a px length (no translation) to pt.
func (c CoordinateTransformer) LengthToPt(px float64) float64 {
	return px / c.PxPerPt
}

// PtToPx converts a pt length back to px.
func (c CoordinateTransformer) PtToPx(pt float64) float64 {
	return pt * c.PxPerPt
}

// PageHeightPt returns the page window height in pt.
func (c CoordinateTransformer) PageHeightPt() float64 {
	return c.PageHeightPx / c.PxPerPt
}
