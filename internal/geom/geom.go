// Package geom holds the geometry primitives shared by every later stage
// of the pipeline: rectangles, corner radii, affine matrices and color.
package geom

import "math"

// Point is a 2D point in px.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box in px, origin top-left.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// IsEmpty reports whether the rect has no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether r and o overlap (open ranges).
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// VerticalOverlap reports whether r's [Y, Bottom) range overlaps [yTop, yBottom).
func (r Rect) VerticalOverlap(yTop, yBottom float64) bool {
	return r.Y < yBottom && yTop < r.Bottom()
}

// Union returns the smallest rect enclosing r and o. A zero-value r is not
// special-cased: it still contributes the origin to the result.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Radii holds the four corner radii (px), clockwise from top-left.
type Radii struct {
	TopLeft, TopRight, BottomRight, BottomLeft float64
}

// IsZero reports whether every corner is square.
func (r Radii) IsZero() bool {
	return r.TopLeft == 0 && r.TopRight == 0 && r.BottomRight == 0 && r.BottomLeft == 0
}

// RGBA is a color with components in [0,255] for RGB and [0,1] for alpha.
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Opaque reports whether the color's own alpha is fully opaque.
func (c RGBA) Opaque() bool { return c.A >= 1 }

// Matrix is a 2D affine transform [a b c d e f] applied as:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transform.
var Identity = Matrix{A: 1, D: 1}

// Translate returns a pure-translation matrix.
func Translate(dx, dy float64) Matrix { return Matrix{A: 1, D: 1, E: dx, F: dy} }

// Scale returns a pure-scale matrix.
func Scale(sx, sy float64) Matrix { return Matrix{A: sx, D: sy} }

// Multiply returns m composed with n, applied as m then n (n∘m).
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.C,
		B: m.A*n.B + m.B*n.D,
		C: m.C*n.A + m.D*n.C,
		D: m.C*n.B + m.D*n.D,
		E: m.E*n.A + m.F*n.C + n.E,
		F: m.E*n.B + m.F*n.D + n.F,
	}
}

// Apply transforms a point by the matrix.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Finite reports whether a value is safe to emit to a content stream.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ClampFinite returns v, or 0 if v is NaN/Inf, so callers can sanitize a
// single coordinate without dropping a whole instruction.
func ClampFinite(v float64) float64 {
	if !Finite(v) {
		return 0
	}
	return v
}
