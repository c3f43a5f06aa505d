package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectEdgesAndOverlap(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	assert.Equal(t, 40.0, r.Right())
	assert.Equal(t, 60.0, r.Bottom())
	assert.False(t, r.IsEmpty())
	assert.True(t, Rect{}.IsEmpty())

	assert.True(t, r.Intersects(Rect{X: 35, Y: 55, Width: 10, Height: 10}))
	assert.False(t, r.Intersects(Rect{X: 40, Y: 20, Width: 10, Height: 10})) // touching edges do not overlap

	assert.True(t, r.VerticalOverlap(0, 25))
	assert.False(t, r.VerticalOverlap(60, 70))
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 5, Width: 10, Height: 10}
	u := a.Union(b)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 30, Height: 15}, u)
}

func TestMatrixComposition(t *testing.T) {
	m := Translate(10, 20).Multiply(Scale(2, 2))
	p := m.Apply(Point{X: 1, Y: 1})
	assert.Equal(t, Point{X: 22, Y: 42}, p)

	id := Identity.Apply(Point{X: 3, Y: 4})
	assert.Equal(t, Point{X: 3, Y: 4}, id)
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(0))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, Finite(math.Inf(1)))
	assert.Equal(t, 0.0, ClampFinite(math.NaN()))
	assert.Equal(t, 5.0, ClampFinite(5))
}
