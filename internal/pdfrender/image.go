package pdfrender

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	// image.Decode handles the formats fpdf cannot take natively; decoded
	// pixels are re-encoded as PNG before registration.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/jpeg"

	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/diag"
	"github.com/docweave/pdfgen/internal/geom"
	"github.com/docweave/pdfgen/internal/pdfdoc"
)

// ImageRenderer draws replaced image content. Registrations are deduplicated
// by (src, byte length) at the document layer, so drawing the same image on
// every page embeds its bytes once. SVG sources are rasterized at the draw
// size; raster formats fpdf does not read natively are decoded and
// re-encoded as PNG.
type ImageRenderer struct {
	doc *pdfdoc.Document
	ct  CoordinateTransformer
	gs  *GraphicsStateManager
	log diag.Logger

	rasterized map[string]string // svg/transcode cache: derived src -> registered name
}

// NewImageRenderer builds an ImageRenderer bound to a document.
func NewImageRenderer(doc *pdfdoc.Document, ct CoordinateTransformer, gs *GraphicsStateManager, log diag.Logger) *ImageRenderer {
	if log == nil {
		log = diag.Noop
	}
	return &ImageRenderer{doc: doc, ct: ct, gs: gs, log: log, rasterized: make(map[string]string)}
}

// DrawBox paints a replaced box's image into its content box, clipped to the
// box's rounded border when it carries corner radii.
func (ir *ImageRenderer) DrawBox(b *boxtree.Box, rect geom.Rect, radii geom.Radii, opacity float64) {
	if b.Image == nil || len(b.Image.Data) == 0 {
		return
	}
	ir.Draw(*b.Image, rect, radii, opacity)
}

// Draw registers (or reuses) content's image and emits a placed draw.
func (ir *ImageRenderer) Draw(content boxtree.ImageContent, rect geom.Rect, radii geom.Radii, opacity float64) {
	name := ir.ensure(content, rect)
	if name == "" {
		return
	}
	pdf := ir.doc.PDF()
	x, y := ir.ct.ToPt(rect.X, rect.Y)
	w, h := ir.ct.LengthToPt(rect.Width), ir.ct.LengthToPt(rect.Height)
	if !geom.Finite(x) || !geom.Finite(y) || !geom.Finite(w) || !geom.Finite(h) {
		return
	}
	clipped := !radii.IsZero()
	if clipped {
		pdf.ClipRoundedRect(x, y, w, h, ir.ct.LengthToPt(radii.TopLeft), false)
	}
	ir.gs.SetAlpha(opacity)
	ir.doc.DrawImage(name, x, y, w, h)
	if clipped {
		pdf.ClipEnd()
	}
}

// ensure registers content with the document, converting formats fpdf does
// not accept. SVG registrations are keyed by draw size as well, since the
// rasterization bakes the size in.
func (ir *ImageRenderer) ensure(content boxtree.ImageContent, rect geom.Rect) string {
	switch content.Format {
	case "PNG", "JPG", "JPEG", "GIF":
		format := content.Format
		if format == "JPEG" {
			format = "JPG"
		}
		name, _ := ir.doc.EnsureImage(content.Src, content.Data, format)
		return name
	case "SVG":
		wPx := int(math.Ceil(rect.Width))
		hPx := int(math.Ceil(rect.Height))
		if wPx <= 0 || hPx <= 0 {
			return ""
		}
		src := fmt.Sprintf("%s@%dx%d", content.Src, wPx, hPx)
		if name, ok := ir.rasterized[src]; ok {
			return name
		}
		data, err := rasterizeSVG(content.Data, wPx, hPx)
		if err != nil {
			ir.log.Warnf("image: rasterize svg %q: %v", content.Src, err)
			return ""
		}
		name, _ := ir.doc.EnsureImage(src, data, "PNG")
		ir.rasterized[src] = name
		return name
	default:
		if name, ok := ir.rasterized[content.Src]; ok {
			return name
		}
		data, err := transcodePNG(content.Data)
		if err != nil {
			ir.log.Warnf("image: decode %q: %v", content.Src, err)
			return ""
		}
		name, _ := ir.doc.EnsureImage(content.Src, data, "PNG")
		ir.rasterized[content.Src] = name
		return name
	}
}

// rasterizeSVG renders SVG bytes to a PNG of the requested pixel size.
func rasterizeSVG(data []byte, w, h int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// transcodePNG decodes any registered image format and re-encodes as PNG.
func transcodePNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
