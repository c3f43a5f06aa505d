package pdfrender

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/font"
	"github.com/docweave/pdfgen/internal/style"
)

// shadowCache dedupes rasterized shadow images so repeated identical shadows
// (same text, face, size, blur and color) register one XObject.
type shadowCache struct {
	names map[string]string // cache key -> registered image name
}

func newShadowCache() *shadowCache {
	return &shadowCache{names: make(map[string]string)}
}

func shadowKey(text, faceKey string, sizePx, blur float64, c style.RGBAColor) string {
	return fmt.Sprintf("%s|%s|%.2f|%d|%d,%d,%d,%.3f", text, faceKey, sizePx, int(math.Round(blur)), c.R, c.G, c.B, c.A)
}

// shadowPadPerBlur is how far, in px per blur unit, the raster canvas
// extends past the glyph box so the blurred edge is not clipped.
const shadowPadPerBlur = 2.0

// drawRasterShadow rasterizes the run's glyph outlines into an alpha buffer,
// blurs it, tints it with the shadow color, and draws the result as an image
// beneath the main text.
func (t *TextRenderer) drawRasterShadow(run boxtree.InlineRun, shaped font.GlyphRun, shadow style.Shadow, opacity float64) {
	if t.provider == nil {
		// No outlines available: fall back to a vector offset draw.
		t.gs.SetAlpha(opacity * shadow.Color.A)
		setColor(t.pdf, shadow.Color, true)
		x, y := t.ct.ToPt(run.StartX+shadow.OffsetX, run.Baseline+shadow.OffsetY)
		t.drawString(x, y, run.Text, shaped.Face)
		return
	}

	pad := math.Ceil(shadow.Blur*shadowPadPerBlur) + 1
	ascent := shaped.FontSizePx // generous headroom; glyphs rarely exceed 1em above baseline
	descent := shaped.FontSizePx * 0.3
	wPx := shaped.TotalAdvance + 2*pad
	hPx := ascent + descent + 2*pad
	w, h := int(math.Ceil(wPx)), int(math.Ceil(hPx))
	if w <= 0 || h <= 0 || w > 4096 || h > 4096 {
		return
	}

	key := shadowKey(run.Text, shaped.Face.Key, shaped.FontSizePx, shadow.Blur, shadow.Color)
	name, ok := t.shadows.names[key]
	if !ok {
		img := t.rasterizeRun(shaped, w, h, pad, ascent)
		if img == nil {
			return
		}
		if shadow.Blur > 0 {
			boxBlurAlpha(img, shadow.Blur)
		}
		tintAlpha(img, shadow.Color)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.log.Warnf("shadow: encode: %v", err)
			return
		}
		name, _ = t.doc.EnsureImage("internal:shadow:"+key, buf.Bytes(), "PNG")
		t.shadows.names[key] = name
	}

	x, y := t.ct.ToPt(run.StartX+shadow.OffsetX-pad, run.Baseline+shadow.OffsetY-ascent-pad)
	t.gs.SetAlpha(opacity)
	t.doc.DrawImage(name, x, y, t.ct.LengthToPt(wPx), t.ct.LengthToPt(hPx))
}

// rasterizeRun fills every glyph outline of the run into one NRGBA buffer.
// Outlines arrive in font design units with y up; the raster space is px
// with y down and the baseline at pad+ascent.
func (t *TextRenderer) rasterizeRun(shaped font.GlyphRun, w, h int, pad, ascent float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	filler := rasterx.NewFiller(w, h, scanner)
	filler.SetColor(color.NRGBA{A: 255})

	unitsPerEm := float64(shaped.Face.UnitsPerEm)
	if unitsPerEm == 0 {
		unitsPerEm = 1000
	}
	scale := shaped.FontSizePx / unitsPerEm
	baselineY := pad + ascent

	drew := false
	for i, gid := range shaped.GIDs {
		outline, ok := t.provider.GetGlyphOutline(shaped.Face, gid)
		if !ok || len(outline.Segments) == 0 {
			continue
		}
		drew = true
		penX := pad + shaped.Positions[i][0]
		pt := func(p [2]float64) fixed.Point26_6 {
			return fixed.Point26_6{
				X: fixed.Int26_6((penX + p[0]*scale) * 64),
				Y: fixed.Int26_6((baselineY - p[1]*scale) * 64),
			}
		}
		for _, seg := range outline.Segments {
			switch seg.Op {
			case font.SegmentMoveTo:
				filler.Start(pt(seg.Args[0]))
			case font.SegmentLineTo:
				filler.Line(pt(seg.Args[0]))
			case font.SegmentQuadTo:
				filler.QuadBezier(pt(seg.Args[0]), pt(seg.Args[1]))
			case font.SegmentCubeTo:
				filler.CubeBezier(pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2]))
			}
		}
		filler.Stop(true)
	}
	if !drew {
		return nil
	}
	filler.Draw()
	return img
}

// boxBlurAlpha approximates a Gaussian blur of the alpha channel with three
// passes of a separable box blur; sigma is taken as blur/2.
func boxBlurAlpha(img *image.NRGBA, blur float64) {
	sigma := blur / 2
	radius := int(math.Max(1, math.Round(sigma*math.Sqrt(3))))
	for i := 0; i < 3; i++ {
		blurAxis(img, radius, true)
		blurAxis(img, radius, false)
	}
}

func blurAxis(img *image.NRGBA, radius int, horizontal bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	outer, inner := h, w
	if !horizontal {
		outer, inner = w, h
	}
	line := make([]int, inner)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			x, y := i, o
			if !horizontal {
				x, y = o, i
			}
			line[i] = int(img.NRGBAAt(x, y).A)
		}
		window := 2*radius + 1
		sum := 0
		for i := -radius; i <= radius; i++ {
			sum += lineAt(line, i)
		}
		for i := 0; i < inner; i++ {
			v := uint8(sum / window)
			x, y := i, o
			if !horizontal {
				x, y = o, i
			}
			px := img.NRGBAAt(x, y)
			px.A = v
			img.SetNRGBA(x, y, px)
			sum += lineAt(line, i+radius+1) - lineAt(line, i-radius)
		}
	}
}

func lineAt(line []int, i int) int {
	if i < 0 || i >= len(line) {
		return 0
	}
	return line[i]
}

// tintAlpha replaces every pixel's color with the shadow RGB, scaling alpha
// by the shadow color's own alpha.
func tintAlpha(img *image.NRGBA, c style.RGBAColor) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := img.NRGBAAt(x, y)
			px.R, px.G, px.B = c.R, c.G, c.B
			px.A = uint8(float64(px.A) * c.A)
			img.SetNRGBA(x, y, px)
		}
	}
}
