package pdfrender

import (
	"math"

	"codeberg.org/go-pdf/fpdf"
)

// GraphicsStateManager caches the alpha value last applied to the
// underlying document so repeated boxes at the same opacity don't churn
// fpdf's ExtGState table with duplicate ca/CA entries; each distinct alpha
// gets one state entry, reused while it is current.
type GraphicsStateManager struct {
	pdf         *fpdf.Fpdf
	currentFill float64
	set         bool
}

// NewGraphicsStateManager wraps pdf for alpha scoping.
func NewGraphicsStateManager(pdf *fpdf.Fpdf) *GraphicsStateManager {
	return &GraphicsStateManager{pdf: pdf}
}

// round4 keys alpha states on four decimal places so re-renders of an
// unchanged tree produce byte-identical streams.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// SetAlpha applies alpha to both fill and stroke operations, skipping the
// call entirely when it matches the value already in effect.
func (g *GraphicsStateManager) SetAlpha(alpha float64) {
	a := round4(alpha)
	if g.set && a == g.currentFill {
		return
	}
	g.pdf.SetAlpha(a, "Normal")
	g.currentFill = a
	g.set = true
}
