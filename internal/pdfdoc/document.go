// Package pdfdoc assembles the final PDF byte buffer. It wraps
// codeberg.org/go-pdf/fpdf for the object registry, xref table and trailer
// rather than hand-rolling a second writer next to a real one. Identical
// input produces identical bytes: compression is off, the creation date is
// pinned, and fonts/images register through deduplicating maps so object
// numbering never depends on transient state.
package pdfdoc

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/docweave/pdfgen/internal/font"
)

// Metadata is the document-info dictionary.
type Metadata struct {
	Title, Author, Subject, Keywords, Creator, Producer string
}

// Options configures a new Document.
type Options struct {
	Metadata
	Orientation string // "P" or "L"; default "P"
}

// Document is the PDF assembler: page list, font registry and image dedupe
// table, all backed by one fpdf.Fpdf instance.
type Document struct {
	pdf *fpdf.Fpdf

	faceFamily map[string]string // font.Face.Key -> fpdf family name already registered
	imageNames map[string]string // dedupe key (src, byteLength) -> registered fpdf image name
	nextImgID  int
}

func dedupeKey(src string, byteLen int) string {
	return fmt.Sprintf("%s#%d", src, byteLen)
}

// NewDocument creates the underlying fpdf document in point units (the
// renderer hands it pt coordinates already) and applies metadata.
func NewDocument(opts Options) *Document {
	orient := opts.Orientation
	if orient == "" {
		orient = "P"
	}
	pdf := fpdf.New(orient, "pt", "", "")
	pdf.SetCompression(false) // deterministic byte output takes priority over size
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(opts.Title, true)
	pdf.SetAuthor(opts.Author, true)
	pdf.SetSubject(opts.Subject, true)
	pdf.SetKeywords(opts.Keywords, true)
	pdf.SetCreator(opts.Creator, true)
	pdf.SetProducer(opts.Producer, true)
	return &Document{
		pdf:        pdf,
		faceFamily: make(map[string]string),
		imageNames: make(map[string]string),
	}
}

// PDF exposes the underlying fpdf instance to the renderer, which draws
// directly through its path/text/image primitives.
func (d *Document) PDF() *fpdf.Fpdf { return d.pdf }

// AddPage opens a page of the given size in pt.
func (d *Document) AddPage(widthPt, heightPt float64) {
	d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: widthPt, Ht: heightPt})
}

// EnsureFace registers face with fpdf's Unicode/CIDFontType2 embedding path
// on first use and returns the family name subsequent SetFont calls should
// use. A face embeds exactly once per document no matter how many glyph
// runs reference it; readers always see the subset covering every glyph the
// document used.
func (d *Document) EnsureFace(face font.Face, ttfBytes []byte) (family string, err error) {
	if fam, ok := d.faceFamily[face.Key]; ok {
		return fam, nil
	}
	if face.Base14 {
		d.faceFamily[face.Key] = face.BaseFont
		return face.BaseFont, nil
	}
	family = sanitizeFamilyName(face.Key)
	d.pdf.AddUTF8FontFromBytes(family, fontStyleSuffix(face), ttfBytes)
	if err := d.pdf.Error(); err != nil {
		return "", fmt.Errorf("pdfdoc: embed face %q: %w", face.Key, err)
	}
	d.faceFamily[face.Key] = family
	return family, nil
}

// EnsureSubsetFace embeds face using its sealed subset: the provider cuts
// the font program down to the subset's renumbered glyph set and the family
// name carries the subset tag, so the materialized font objects describe
// exactly the glyphs the document used. When the provider cannot produce a
// subset file the full face bytes embed instead — the document must still
// emit.
func (d *Document) EnsureSubsetFace(face font.Face, subset *font.Subset, provider font.Provider) (family string, err error) {
	if fam, ok := d.faceFamily[face.Key]; ok {
		return fam, nil
	}
	if face.Base14 || provider == nil || subset == nil {
		return d.EnsureFace(face, face.Bytes)
	}
	data, serr := provider.SubsetFontFile(face, subset)
	if serr != nil || len(data) == 0 {
		data = face.Bytes
	}
	family = sanitizeFamilyName(subset.Tag + "+" + face.Key)
	d.pdf.AddUTF8FontFromBytes(family, fontStyleSuffix(face), data)
	if err := d.pdf.Error(); err != nil {
		return "", fmt.Errorf("pdfdoc: embed subset face %q: %w", face.Key, err)
	}
	d.faceFamily[face.Key] = family
	if serr != nil {
		return family, fmt.Errorf("pdfdoc: subset %q, embedded full face: %w", face.Key, serr)
	}
	return family, nil
}

func fontStyleSuffix(f font.Face) string {
	s := ""
	if f.Italic {
		s += "I"
	}
	return s
}

func sanitizeFamilyName(key string) string {
	out := make([]rune, 0, len(key))
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "EmbeddedFace"
	}
	return string(out)
}

// EnsureImage registers image bytes under a stable name, deduplicating by
// (src, byteLength). Returns the resource name and whether this call
// performed a fresh registration.
func (d *Document) EnsureImage(src string, data []byte, mimeType string) (name string, isNew bool) {
	key := dedupeKey(src, len(data))
	if n, ok := d.imageNames[key]; ok {
		return n, false
	}
	d.nextImgID++
	name = fmt.Sprintf("img%d", d.nextImgID)
	opts := fpdf.ImageOptions{ImageType: mimeType, ReadDpi: true}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	d.imageNames[key] = name
	return name, true
}

// DrawImage places a previously registered image at (x, y) with the given
// size, all in pt.
func (d *Document) DrawImage(name string, x, y, w, h float64) {
	d.pdf.ImageOptions(name, x, y, w, h, false, fpdf.ImageOptions{}, 0, "")
}

// Finalize serializes the assembled document to bytes: streams every object,
// emits the xref table and trailer, and ends with %%EOF. Failure here is
// fatal to the whole render call.
func (d *Document) Finalize(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("pdfdoc: finalize: %w", err)
	}
	return nil
}
