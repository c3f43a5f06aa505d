package pdfrender

import (
	"codeberg.org/go-pdf/fpdf"

	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/diag"
	"github.com/docweave/pdfgen/internal/font"
	"github.com/docweave/pdfgen/internal/pdfdoc"
	"github.com/docweave/pdfgen/internal/style"
)

// TextRenderer draws a box's inline runs: it resolves the box's face through
// the font provider, shapes each run into glyphs, registers the glyphs with
// the subset registry, then emits shadows, the main run, and decorations in
// that order. Base14 faces draw WinAnsi-encoded text; embedded faces take the
// Identity-H path.
type TextRenderer struct {
	pdf      *fpdf.Fpdf
	doc      *pdfdoc.Document
	ct       CoordinateTransformer
	gs       *GraphicsStateManager
	provider font.Provider
	subsets  *font.Registry
	shadows  *shadowCache
	log      diag.Logger
}

// NewTextRenderer builds a TextRenderer bound to a document, provider and
// subset registry.
func NewTextRenderer(pdf *fpdf.Fpdf, doc *pdfdoc.Document, ct CoordinateTransformer, gs *GraphicsStateManager, provider font.Provider, subsets *font.Registry, log diag.Logger) *TextRenderer {
	if log == nil {
		log = diag.Noop
	}
	return &TextRenderer{pdf: pdf, doc: doc, ct: ct, gs: gs, provider: provider, subsets: subsets, shadows: newShadowCache(), log: log}
}

// resolveBoxFace finds the face a box's inline runs render with: the
// provider's face whenever it is a Base14 face or carries font bytes,
// whatever the text. With no provider, or when the provider fails or returns
// a face without bytes, text falls back to Base14 so the document still
// emits; a Base14 face is swapped for an embedded one only when a run holds
// text outside WinAnsi and a further Resolve call returns font bytes. The registration pre-pass and the draw path share this so
// they agree on which face owns which glyphs.
func resolveBoxFace(provider font.Provider, log diag.Logger, cs style.ComputedStyle, runs []boxtree.InlineRun) font.Face {
	face := base14Fallback(cs)
	if provider != nil {
		f, err := provider.Resolve(cs.FontFamily, cs.FontWeight, cs.FontStyle)
		switch {
		case err != nil:
			if log != nil {
				log.Warnf("font: resolve %v: %v", cs.FontFamily, err)
			}
		case f.Base14 || len(f.Bytes) > 0:
			face = f
		}
	}
	if face.Base14 && provider != nil {
		for _, run := range runs {
			if !font.CanEncodeWinAnsi(run.Text) {
				if f, err := provider.Resolve(cs.FontFamily, cs.FontWeight, cs.FontStyle); err == nil && len(f.Bytes) > 0 {
					face = f
				}
				break
			}
		}
	}
	return face
}

// base14Fallback picks a standard core font from the requested family list.
func base14Fallback(cs style.ComputedStyle) font.Face {
	name := "Helvetica"
	for _, fam := range cs.FontFamily {
		switch fam {
		case "serif", "Times", "Times New Roman", "Georgia":
			name = "Times"
		case "monospace", "Courier", "Courier New":
			name = "Courier"
		}
	}
	return font.Face{Key: name, BaseFont: name, Base14: true, UnitsPerEm: 1000}
}

// DrawBox renders every inline run owned by b: shadows first, then the main
// glyphs, then decorations.
func (t *TextRenderer) DrawBox(b *boxtree.Box, opacity float64) error {
	if len(b.InlineRuns) == 0 {
		return nil
	}
	face := resolveBoxFace(t.provider, t.log, b.Style, b.InlineRuns)

	// Normally the face was already embedded by the registration pre-pass
	// (as a subset carrying its tag); this is a cache hit. The fallback
	// embeds the full face for callers driving the renderer directly.
	family, err := t.doc.EnsureFace(face, face.Bytes)
	if err != nil {
		t.log.Warnf("font: embed %q: %v", face.Key, err)
		face = base14Fallback(b.Style)
		family, err = t.doc.EnsureFace(face, nil)
		if err != nil {
			return err
		}
	}

	sizePx := b.Style.FontSize.ResolveOr(0, style.AutoZero, 16)
	sizePt := t.ct.LengthToPt(sizePx)
	letterSpacing := b.Style.LetterSpacing.ResolveOr(0, style.AutoZero, 0)
	wordSpacing := b.Style.WordSpacing.ResolveOr(0, style.AutoZero, 0)

	fstyle := ""
	if b.Style.FontWeight >= style.FontWeightBold {
		fstyle += "B"
	}
	if b.Style.FontStyle == style.FontStyleItalic || b.Style.FontStyle == style.FontStyleOblique {
		fstyle += "I"
	}
	if !face.Base14 {
		// Embedded faces already encode weight/slant in the face itself;
		// only the style suffix they were registered under is valid.
		fstyle = ""
		if face.Italic {
			fstyle = "I"
		}
	}
	t.pdf.SetFont(family, fstyle, sizePt)

	for _, run := range b.InlineRuns {
		shaped := font.Shape(t.provider, face, run.Text, sizePx, letterSpacing, wordSpacing)
		if !face.Base14 {
			t.subsets.RegisterRun(shaped)
		}

		for _, shadow := range b.Style.TextShadows {
			t.drawRunShadow(run, shaped, shadow, opacity)
		}

		t.gs.SetAlpha(opacity * b.Style.Color.A)
		setColor(t.pdf, b.Style.Color, true)
		t.drawRun(run, shaped, face, 0, 0)
		t.drawDecorations(b, run, sizePt, opacity)
	}
	return nil
}

// drawRun writes a shaped run with its baseline at the run's layout
// position, offset by (dxPx, dyPx). When the run's placed width exceeds its
// natural advance (a justified line), the slack is folded in as extra
// word spacing by drawing word segments at stretched positions.
func (t *TextRenderer) drawRun(run boxtree.InlineRun, shaped font.GlyphRun, face font.Face, dxPx, dyPx float64) {
	baseXPx := run.StartX + dxPx
	baseYPx := run.Baseline + dyPx
	extraPerSpace := 0.0
	if run.SpaceCount > 0 {
		if slack := run.Width - shaped.TotalAdvance; slack > 0 {
			extraPerSpace = slack / float64(run.SpaceCount)
		}
	}
	if extraPerSpace == 0 {
		x, y := t.ct.ToPt(baseXPx, baseYPx)
		t.drawString(x, y, run.Text, face)
		return
	}
	runes := shaped.Runes()
	segStart := -1
	spacesSeen := 0
	flush := func(end, spaces int) {
		if segStart < 0 {
			return
		}
		xPx := baseXPx + shaped.Positions[segStart][0] + extraPerSpace*float64(spaces)
		x, y := t.ct.ToPt(xPx, baseYPx)
		t.drawString(x, y, string(runes[segStart:end]), face)
		segStart = -1
	}
	for i, r := range runes {
		if r == ' ' {
			flush(i, spacesSeen)
			spacesSeen++
			continue
		}
		if segStart < 0 {
			segStart = i
		}
	}
	flush(len(runes), spacesSeen)
}

// drawString writes s with its baseline at (x, y) pt. Base14 text is
// transcoded to WinAnsi bytes first; embedded faces take UTF-8 directly and
// are mapped to subset CIDs by the document layer.
func (t *TextRenderer) drawString(x, y float64, s string, face font.Face) {
	if face.Base14 {
		t.pdf.Text(x, y, string(font.EncodeWinAnsi(s)))
		return
	}
	t.pdf.Text(x, y, s)
}

// drawDecorations paints underline/overline/line-through as thin filled
// rects positioned off the baseline.
func (t *TextRenderer) drawDecorations(b *boxtree.Box, run boxtree.InlineRun, sizePt, opacity float64) {
	if b.Style.DecorationLines == 0 {
		return
	}
	t.gs.SetAlpha(opacity * b.Style.Color.A)
	setColor(t.pdf, b.Style.Color, true)
	thickness := sizePt * 0.06
	x, yBase := t.ct.ToPt(run.StartX, run.Baseline)
	w := t.ct.LengthToPt(run.Width)
	draw := func(yOffset float64) {
		t.pdf.Rect(x, yBase+yOffset, w, thickness, "F")
	}
	if b.Style.DecorationLines&style.TextDecorationUnderline != 0 {
		draw(sizePt * 0.12)
	}
	if b.Style.DecorationLines&style.TextDecorationOverline != 0 {
		draw(-sizePt * 0.85)
	}
	if b.Style.DecorationLines&style.TextDecorationLineThrough != 0 {
		draw(-sizePt * 0.3)
	}
}

// drawRunShadow emits one text-shadow for one run. Hard shadows (no blur,
// opaque) reuse the vector text path at an offset; soft or translucent
// shadows go through the rasterizer.
func (t *TextRenderer) drawRunShadow(run boxtree.InlineRun, shaped font.GlyphRun, shadow style.Shadow, opacity float64) {
	if shadow.Color.A <= 0 {
		return
	}
	if shadow.Blur > 0 || shadow.Color.A < 1 {
		t.drawRasterShadow(run, shaped, shadow, opacity)
		return
	}
	t.gs.SetAlpha(opacity * shadow.Color.A)
	setColor(t.pdf, shadow.Color, true)
	t.drawRun(run, shaped, shaped.Face, shadow.OffsetX, shadow.OffsetY)
}
