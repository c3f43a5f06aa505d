package pdfrender

import (
	"math"
	"sort"

	"codeberg.org/go-pdf/fpdf"

	"github.com/docweave/pdfgen/internal/geom"
	"github.com/docweave/pdfgen/internal/style"
)

// bezierK is the control-point offset for approximating a quarter circle
// with a single cubic Bezier.
const bezierK = 0.5522847498307936

// ShapeRenderer draws rectangles, rounded rectangles, borders and gradients.
// It always works in pt via the transformer.
type ShapeRenderer struct {
	pdf *fpdf.Fpdf
	ct  CoordinateTransformer
	gs  *GraphicsStateManager
}

// NewShapeRenderer builds a ShapeRenderer bound to a document/page.
func NewShapeRenderer(pdf *fpdf.Fpdf, ct CoordinateTransformer, gs *GraphicsStateManager) *ShapeRenderer {
	return &ShapeRenderer{pdf: pdf, ct: ct, gs: gs}
}

func setColor(pdf *fpdf.Fpdf, c style.RGBAColor, fill bool) {
	if fill {
		pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	} else {
		pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	}
}

// FillBackground paints a box's background-color and/or background-image
// gradient into its border-box rect, honoring corner radii.
func (s *ShapeRenderer) FillBackground(rect geom.Rect, radii geom.Radii, color style.RGBAColor, gradient *style.Gradient, opacity float64) {
	if gradient != nil && len(gradient.Stops) > 0 {
		s.fillGradient(rect, radii, gradient, opacity)
		return
	}
	if color.A <= 0 {
		return
	}
	s.gs.SetAlpha(opacity * color.A)
	setColor(s.pdf, color, true)
	s.fillRectPath(rect, radii, "F")
}

// fillGradient paints the normalized stop list through fpdf's gradient
// primitives, whose vector coordinates are fractions of the target rect.
// Two-stop gradients map onto one axial/radial shading. A multi-stop linear
// gradient is stitched from per-segment shadings, each clipped to its band
// of the axis; a multi-stop radial gradient collapses to its end colors.
func (s *ShapeRenderer) fillGradient(rect geom.Rect, radii geom.Radii, g *style.Gradient, opacity float64) {
	stops := NormalizeStops(g.Stops)
	if len(stops) == 0 || rect.IsEmpty() {
		return
	}
	first, last := stops[0].Color, stops[len(stops)-1].Color
	s.gs.SetAlpha(opacity)
	s.clipRectPath(rect, radii)
	x, y := s.ct.ToPt(rect.X, rect.Y)
	w, h := s.ct.LengthToPt(rect.Width), s.ct.LengthToPt(rect.Height)

	frac := func(px, py float64) (float64, float64) {
		return (px - rect.X) / rect.Width, (py - rect.Y) / rect.Height
	}

	if g.Radial {
		cx, cy := frac(g.X1, g.Y1)
		r := g.R1 / math.Max(rect.Width, rect.Height)
		s.pdf.RadialGradient(x, y, w, h,
			int(first.R), int(first.G), int(first.B),
			int(last.R), int(last.G), int(last.B),
			cx, cy, cx, cy, r)
		s.pdf.ClipEnd()
		return
	}

	fx0, fy0 := frac(g.X0, g.Y0)
	fx1, fy1 := frac(g.X1, g.Y1)
	if len(stops) == 2 {
		s.pdf.LinearGradient(x, y, w, h,
			int(first.R), int(first.G), int(first.B),
			int(last.R), int(last.G), int(last.B),
			fx0, fy0, fx1, fy1)
		s.pdf.ClipEnd()
		return
	}

	for i := 0; i+1 < len(stops); i++ {
		a, b := stops[i], stops[i+1]
		if b.Offset <= a.Offset {
			continue
		}
		s.clipAxisBand(rect, g, a.Offset, b.Offset, i == 0, i+2 == len(stops))
		ax0 := fx0 + (fx1-fx0)*a.Offset
		ay0 := fy0 + (fy1-fy0)*a.Offset
		ax1 := fx0 + (fx1-fx0)*b.Offset
		ay1 := fy0 + (fy1-fy0)*b.Offset
		s.pdf.LinearGradient(x, y, w, h,
			int(a.Color.R), int(a.Color.G), int(a.Color.B),
			int(b.Color.R), int(b.Color.G), int(b.Color.B),
			ax0, ay0, ax1, ay1)
		s.pdf.ClipEnd()
	}
	s.pdf.ClipEnd()
}

// clipAxisBand clips to the slab of the gradient axis between offsets t0 and
// t1, extended sideways past the rect. The first and last segments extend
// outward so the end colors pad the regions before 0 and after 1.
func (s *ShapeRenderer) clipAxisBand(rect geom.Rect, g *style.Gradient, t0, t1 float64, extendStart, extendEnd bool) {
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		s.pdf.ClipRect(0, 0, 0, 0, false)
		return
	}
	px, py := -dy/length, dx/length // unit perpendicular to the axis
	reach := rect.Width + rect.Height
	if extendStart {
		t0 -= 2
	}
	if extendEnd {
		t1 += 2
	}
	sx, sy := g.X0+dx*t0, g.Y0+dy*t0
	ex, ey := g.X0+dx*t1, g.Y0+dy*t1
	quad := [][2]float64{
		{sx + px*reach, sy + py*reach},
		{sx - px*reach, sy - py*reach},
		{ex - px*reach, ey - py*reach},
		{ex + px*reach, ey + py*reach},
	}
	pts := make([]fpdf.PointType, 0, 4)
	for _, q := range quad {
		xPt, yPt := s.ct.ToPt(q[0], q[1])
		pts = append(pts, fpdf.PointType{X: xPt, Y: yPt})
	}
	s.pdf.ClipPolygon(pts, false)
}

// NormalizeStops fills in missing offsets by linear interpolation between
// defined neighbors, clamps to [0,1] and enforces monotonicity, so shading
// construction can assume a sorted, fully resolved list with endpoints.
func NormalizeStops(stops []style.GradientStop) []style.GradientStop {
	if len(stops) == 0 {
		return nil
	}
	out := make([]style.GradientStop, len(stops))
	copy(out, stops)
	if !out[0].HasOffset {
		out[0].Offset, out[0].HasOffset = 0, true
	}
	if !out[len(out)-1].HasOffset {
		out[len(out)-1].Offset, out[len(out)-1].HasOffset = 1, true
	}
	i := 0
	for i < len(out) {
		if out[i].HasOffset {
			i++
			continue
		}
		j := i
		for !out[j].HasOffset {
			j++
		}
		start, end := out[i-1].Offset, out[j].Offset
		span := j - (i - 1)
		for k := i; k < j; k++ {
			frac := float64(k-(i-1)) / float64(span)
			out[k].Offset = start + frac*(end-start)
			out[k].HasOffset = true
		}
		i = j
	}
	for i := range out {
		if out[i].Offset < 0 {
			out[i].Offset = 0
		}
		if out[i].Offset > 1 {
			out[i].Offset = 1
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Offset < out[b].Offset })
	for i := 1; i < len(out); i++ {
		if out[i].Offset < out[i-1].Offset {
			out[i].Offset = out[i-1].Offset
		}
	}
	return out
}

// FillRect fills a (possibly rounded) rectangle with a solid color.
func (s *ShapeRenderer) FillRect(rect geom.Rect, radii geom.Radii, color style.RGBAColor, opacity float64) {
	if color.A <= 0 {
		return
	}
	s.gs.SetAlpha(opacity * color.A)
	setColor(s.pdf, color, true)
	s.fillRectPath(rect, radii, "F")
}

// StrokeBorderRing fills the difference between the outer and inner rounded
// rects: the outer outline is traced forward, the inner outline in reverse,
// joined by a degenerate bridge so a single nonzero-winding fill leaves only
// the ring. This draws correctly over any background at any radius, unlike
// painting the inner area back out.
func (s *ShapeRenderer) StrokeBorderRing(outer geom.Rect, outerRadii geom.Radii, inner geom.Rect, innerRadii geom.Radii, color style.RGBAColor, opacity float64) {
	if color.A <= 0 {
		return
	}
	s.gs.SetAlpha(opacity * color.A)
	setColor(s.pdf, color, true)
	outerPts := roundedRectPoints(outer, outerRadii, s.ct)
	innerPts := roundedRectPoints(inner, innerRadii, s.ct)
	ring := make([]fpdf.PointType, 0, len(outerPts)+len(innerPts)+2)
	ring = append(ring, outerPts...)
	ring = append(ring, outerPts[0]) // close the outer loop before bridging
	for i := len(innerPts) - 1; i >= 0; i-- {
		ring = append(ring, innerPts[i])
	}
	ring = append(ring, innerPts[len(innerPts)-1]) // bridge back out
	s.pdf.Polygon(ring, "F")
}

// fillRectPath builds the rounded-rect outline as a polygon (cubic corners
// flattened to line segments) and paints it with styleStr ("F", "D", "FD").
func (s *ShapeRenderer) fillRectPath(r geom.Rect, radii geom.Radii, styleStr string) {
	pts := roundedRectPoints(r, radii, s.ct)
	s.pdf.Polygon(pts, styleStr)
}

func (s *ShapeRenderer) clipRectPath(r geom.Rect, radii geom.Radii) {
	x, y := s.ct.ToPt(r.X, r.Y)
	w, h := s.ct.LengthToPt(r.Width), s.ct.LengthToPt(r.Height)
	if radii.IsZero() {
		s.pdf.ClipRect(x, y, w, h, false)
		return
	}
	radius := s.ct.LengthToPt(radii.TopLeft)
	s.pdf.ClipRoundedRect(x, y, w, h, radius, false)
}

// roundedRectPoints flattens a rounded rect into a polygon by sampling each
// corner's cubic Bezier approximation of a quarter circle, control points
// offset by bezierK*radius from the tangent points.
func roundedRectPoints(r geom.Rect, radii geom.Radii, ct CoordinateTransformer) []fpdf.PointType {
	if radii.IsZero() {
		x, y := ct.ToPt(r.X, r.Y)
		w, h := ct.LengthToPt(r.Width), ct.LengthToPt(r.Height)
		return []fpdf.PointType{
			{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
		}
	}
	const samples = 8
	var pts []fpdf.PointType
	emit := func(px, py float64) {
		x, y := ct.ToPt(px, py)
		pts = append(pts, fpdf.PointType{X: x, Y: y})
	}
	// corner draws a quarter circle from p0 to p3, center (cx, cy), via the
	// cubic Bézier control points p1/p2 offset by k*radius along the
	// tangent directions dx1/dy1 (at p0) and dx2/dy2 (at p3).
	corner := func(cx, cy, rad, p0x, p0y, p3x, p3y, dx1, dy1, dx2, dy2 float64) {
		if rad <= 0 {
			emit(cx, cy)
			return
		}
		k := rad * bezierK
		p1x, p1y := p0x+dx1*k, p0y+dy1*k
		p2x, p2y := p3x+dx2*k, p3y+dy2*k
		for i := 0; i <= samples; i++ {
			t := float64(i) / float64(samples)
			mt := 1 - t
			bx := mt*mt*mt*p0x + 3*mt*mt*t*p1x + 3*mt*t*t*p2x + t*t*t*p3x
			by := mt*mt*mt*p0y + 3*mt*mt*t*p1y + 3*mt*t*t*p2y + t*t*t*p3y
			emit(bx, by)
		}
	}
	x0, y0, w, h := r.X, r.Y, r.Width, r.Height
	tr, br, bl, tl := radii.TopRight, radii.BottomRight, radii.BottomLeft, radii.TopLeft

	// Top edge, then top-right corner.
	pts = append(pts, toPoint(ct, x0+tl, y0))
	corner(x0+w-tr, y0+tr, tr, x0+w-tr, y0, x0+w, y0+tr, 1, 0, 0, -1)
	// Right edge, then bottom-right corner.
	corner(x0+w-br, y0+h-br, br, x0+w, y0+h-br, x0+w-br, y0+h, 0, 1, 1, 0)
	// Bottom edge, then bottom-left corner.
	corner(x0+bl, y0+h-bl, bl, x0+bl, y0+h, x0, y0+h-bl, -1, 0, 0, 1)
	// Left edge, then top-left corner.
	corner(x0+tl, y0+tl, tl, x0, y0+tl, x0+tl, y0, 0, -1, -1, 0)
	return pts
}

func toPoint(ct CoordinateTransformer, px, py float64) fpdf.PointType {
	x, y := ct.ToPt(px, py)
	return fpdf.PointType{X: x, Y: y}
}
