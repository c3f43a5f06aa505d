package pdfrender

import (
	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/diag"
	"github.com/docweave/pdfgen/internal/font"
	"github.com/docweave/pdfgen/internal/geom"
	"github.com/docweave/pdfgen/internal/paint"
	"github.com/docweave/pdfgen/internal/pdfdoc"
	"github.com/docweave/pdfgen/internal/style"
)

// Renderer executes a paint-order instruction program against one page of
// the document, routing each instruction to the shape, text or image
// sub-renderer. The three sub-renderers share one graphics-state manager and
// one coordinate transformer, so alpha and clip state stay coherent across
// instruction boundaries.
type Renderer struct {
	arena  *boxtree.Arena
	doc    *pdfdoc.Document
	ct     CoordinateTransformer
	gs     *GraphicsStateManager
	shapes *ShapeRenderer
	text   *TextRenderer
	images *ImageRenderer
	log    diag.Logger

	opacity   []float64
	clipDepth int
}

// NewRenderer wires the sub-renderers for one page.
func NewRenderer(arena *boxtree.Arena, doc *pdfdoc.Document, ct CoordinateTransformer, provider font.Provider, subsets *font.Registry, log diag.Logger) *Renderer {
	if log == nil {
		log = diag.Noop
	}
	pdf := doc.PDF()
	gs := NewGraphicsStateManager(pdf)
	return &Renderer{
		arena:  arena,
		doc:    doc,
		ct:     ct,
		gs:     gs,
		shapes: NewShapeRenderer(pdf, ct, gs),
		text:   NewTextRenderer(pdf, doc, ct, gs, provider, subsets, log),
		images: NewImageRenderer(doc, ct, gs, log),
		log:    log,
	}
}

// Run executes the instruction program. Opacity scopes nest by
// multiplication; clip scopes are tracked by depth so an unbalanced program
// cannot leave the content stream with dangling clip states.
func (r *Renderer) Run(program []paint.Instruction) error {
	r.opacity = r.opacity[:0]
	r.opacity = append(r.opacity, 1)
	r.clipDepth = 0
	pdf := r.doc.PDF()

	for _, ins := range program {
		b := r.arena.Get(ins.Ref)
		if b == nil {
			continue
		}
		switch ins.Kind {
		case paint.KindBeginOpacity:
			eff := r.currentOpacity() * b.Style.Opacity * b.Style.EffectiveOpacityFactor()
			r.opacity = append(r.opacity, eff)
		case paint.KindEndOpacity:
			if len(r.opacity) > 1 {
				r.opacity = r.opacity[:len(r.opacity)-1]
			}
		case paint.KindBeginClip:
			rect := paddingBoxRect(b)
			x, y := r.ct.ToPt(rect.X, rect.Y)
			pdf.ClipRect(x, y, r.ct.LengthToPt(rect.Width), r.ct.LengthToPt(rect.Height), false)
			r.clipDepth++
		case paint.KindEndClip:
			if r.clipDepth > 0 {
				pdf.ClipEnd()
				r.clipDepth--
			}
		case paint.KindBox:
			r.drawBoxDecoration(b)
		case paint.KindContent:
			r.drawBoxContent(b)
		}
		if err := pdf.Error(); err != nil {
			return err
		}
	}
	for r.clipDepth > 0 {
		pdf.ClipEnd()
		r.clipDepth--
	}
	return pdf.Error()
}

func (r *Renderer) currentOpacity() float64 {
	return r.opacity[len(r.opacity)-1]
}

// drawBoxDecoration paints a box's background and borders into its
// border-box rect.
func (r *Renderer) drawBoxDecoration(b *boxtree.Box) {
	rect := borderBoxRect(b)
	if rect.IsEmpty() {
		return
	}
	radii := resolveRadii(b, rect)
	opacity := r.currentOpacity()

	for _, shadow := range b.Style.BoxShadows {
		if shadow.Inset {
			continue
		}
		shadowRect := geom.Rect{
			X:      rect.X + shadow.OffsetX - shadow.Spread,
			Y:      rect.Y + shadow.OffsetY - shadow.Spread,
			Width:  rect.Width + 2*shadow.Spread,
			Height: rect.Height + 2*shadow.Spread,
		}
		r.shapes.FillRect(shadowRect, radii, shadow.Color, opacity)
	}

	r.shapes.FillBackground(rect, radii, b.Style.BackgroundColor, b.Style.BackgroundImage, opacity)

	m := b.BoxModel
	if m.BorderTop > 0 || m.BorderRight > 0 || m.BorderBottom > 0 || m.BorderLeft > 0 {
		r.drawBorders(b, rect, radii, opacity)
	}
}

// drawBorders paints the border ring. Uniform borders draw as one
// outer/inner difference fill; mixed widths or colors fall back to per-edge
// strips.
func (r *Renderer) drawBorders(b *boxtree.Box, rect geom.Rect, radii geom.Radii, opacity float64) {
	m := b.BoxModel
	edges := b.Style.Border
	uniform := m.BorderTop == m.BorderRight && m.BorderRight == m.BorderBottom && m.BorderBottom == m.BorderLeft &&
		edges.Top.Color == edges.Right.Color && edges.Right.Color == edges.Bottom.Color && edges.Bottom.Color == edges.Left.Color

	if uniform || !radii.IsZero() {
		inner := geom.Rect{
			X:      rect.X + m.BorderLeft,
			Y:      rect.Y + m.BorderTop,
			Width:  rect.Width - m.BorderLeft - m.BorderRight,
			Height: rect.Height - m.BorderTop - m.BorderBottom,
		}
		innerRadii := geom.Radii{
			TopLeft:     maxf(radii.TopLeft-m.BorderLeft, 0),
			TopRight:    maxf(radii.TopRight-m.BorderRight, 0),
			BottomRight: maxf(radii.BottomRight-m.BorderRight, 0),
			BottomLeft:  maxf(radii.BottomLeft-m.BorderLeft, 0),
		}
		if inner.Width < 0 {
			inner.Width = 0
		}
		if inner.Height < 0 {
			inner.Height = 0
		}
		r.shapes.StrokeBorderRing(rect, radii, inner, innerRadii, edges.Top.Color, opacity)
		return
	}

	if m.BorderTop > 0 {
		r.shapes.FillRect(geom.Rect{X: rect.X, Y: rect.Y, Width: rect.Width, Height: m.BorderTop}, geom.Radii{}, edges.Top.Color, opacity)
	}
	if m.BorderBottom > 0 {
		r.shapes.FillRect(geom.Rect{X: rect.X, Y: rect.Bottom() - m.BorderBottom, Width: rect.Width, Height: m.BorderBottom}, geom.Radii{}, edges.Bottom.Color, opacity)
	}
	if m.BorderLeft > 0 {
		r.shapes.FillRect(geom.Rect{X: rect.X, Y: rect.Y, Width: m.BorderLeft, Height: rect.Height}, geom.Radii{}, edges.Left.Color, opacity)
	}
	if m.BorderRight > 0 {
		r.shapes.FillRect(geom.Rect{X: rect.Right() - m.BorderRight, Y: rect.Y, Width: m.BorderRight, Height: rect.Height}, geom.Radii{}, edges.Right.Color, opacity)
	}
}

// drawBoxContent paints a box's replaced image and inline text runs.
func (r *Renderer) drawBoxContent(b *boxtree.Box) {
	opacity := r.currentOpacity()
	if b.Image != nil {
		rect := contentBoxRect(b)
		r.images.DrawBox(b, rect, resolveRadii(b, borderBoxRect(b)), opacity)
	}
	if len(b.InlineRuns) > 0 {
		if err := r.text.DrawBox(b, opacity); err != nil {
			r.log.Warnf("text: %v", err)
		}
	}
}

func borderBoxRect(b *boxtree.Box) geom.Rect {
	return geom.Rect{X: b.Geometry.X, Y: b.Geometry.Y, Width: b.Geometry.BorderBoxWidth, Height: b.Geometry.BorderBoxHeight}
}

func paddingBoxRect(b *boxtree.Box) geom.Rect {
	m := b.BoxModel
	return geom.Rect{
		X:      b.Geometry.X + m.BorderLeft,
		Y:      b.Geometry.Y + m.BorderTop,
		Width:  b.Geometry.BorderBoxWidth - m.BorderLeft - m.BorderRight,
		Height: b.Geometry.BorderBoxHeight - m.BorderTop - m.BorderBottom,
	}
}

func contentBoxRect(b *boxtree.Box) geom.Rect {
	m := b.BoxModel
	return geom.Rect{
		X:      b.Geometry.X + m.BorderLeft + m.PaddingLeft,
		Y:      b.Geometry.Y + m.BorderTop + m.PaddingTop,
		Width:  b.Geometry.ContentWidth,
		Height: b.Geometry.ContentHeight,
	}
}

// resolveRadii resolves border-radius lengths against the border-box size,
// clamping each corner so adjacent radii never overlap.
func resolveRadii(b *boxtree.Box, rect geom.Rect) geom.Radii {
	res := func(l style.Length) float64 {
		return l.ResolveOr(rect.Width, style.AutoZero, 0)
	}
	radii := geom.Radii{
		TopLeft:     res(b.Style.BorderRadius.TopLeft),
		TopRight:    res(b.Style.BorderRadius.TopRight),
		BottomRight: res(b.Style.BorderRadius.BottomRight),
		BottomLeft:  res(b.Style.BorderRadius.BottomLeft),
	}
	limit := minf(rect.Width, rect.Height) / 2
	radii.TopLeft = minf(radii.TopLeft, limit)
	radii.TopRight = minf(radii.TopRight, limit)
	radii.BottomRight = minf(radii.BottomRight, limit)
	radii.BottomLeft = minf(radii.BottomLeft, limit)
	return radii
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
