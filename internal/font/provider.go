// Package font implements the font registry and subsetter: it resolves
// (family, weight, style) to a face, decides between Base14 and embedded
// Unicode rendering, shapes text into glyph runs, and tracks glyph usage per
// embedded face so each face is emitted as a CID subset with a ToUnicode
// CMap. Font file parsing (TTF/WOFF decoding) stays outside this module; the
// package consumes whatever a Provider already decoded.
package font

import "github.com/docweave/pdfgen/internal/style"

// Face is an opaque handle to a resolved font face, returned by
// Provider.Resolve.
type Face struct {
	Key        string // stable identity, e.g. "Helvetica" or a file path+index
	BaseFont   string // PDF BaseFont name without a subset tag
	Base14     bool   // one of the fourteen standard PDF fonts
	Bytes      []byte // raw sfnt/TrueType bytes, nil for Base14
	UnitsPerEm uint16
	Serif      bool
	Italic     bool
	Symbolic   bool
}

// Metrics holds the face-level metrics the renderer and line breaker need,
// in font design units (callers scale by fontSize/UnitsPerEm).
type Metrics struct {
	Ascent, Descent, LineGap               float64
	CapHeight, XHeight                     float64
	StemV                                  float64
	BBoxXMin, BBoxYMin, BBoxXMax, BBoxYMax float64
	DefaultAdvanceWidth                    float64
}

// SegmentOp is one outline path operator.
type SegmentOp uint8

const (
	SegmentMoveTo SegmentOp = iota
	SegmentLineTo
	SegmentQuadTo
	SegmentCubeTo
)

// Segment is one step of a glyph contour in font design units, y-up. Args
// holds 1 point for move/line, 2 for quad, 3 for cube.
type Segment struct {
	Op   SegmentOp
	Args [3][2]float64
}

// Outline is a glyph's contour data, used only for shadow rasterization.
type Outline struct {
	Advance  float64
	Segments []Segment
}

// Provider is injected by the caller and supplies glyph-level data the core
// cannot derive without a font file parser.
type Provider interface {
	// Resolve finds the best-matching face for (family, weight, style).
	Resolve(family []string, weight style.FontWeight, styleKind style.FontStyleKind) (Face, error)
	// GetMetrics returns face-level metrics, or ok=false if unknown; the
	// renderer then falls back to estimated metrics.
	GetMetrics(face Face) (m Metrics, ok bool)
	// GlyphIndex maps a Unicode code point to a glyph id via the face's
	// CMAP, 0 (.notdef) if absent.
	GlyphIndex(face Face, r rune) uint16
	// AdvanceWidth returns a glyph's advance width in font design units.
	AdvanceWidth(face Face, gid uint16) float64
	// GetGlyphOutline returns contour data for rasterization, ok=false if
	// unavailable.
	GetGlyphOutline(face Face, gid uint16) (o Outline, ok bool)
	// SubsetFontFile builds the font program embedded for face: a TrueType
	// file containing exactly the subset's glyph set, with glyphs renumbered
	// to the subset's sequential cids (GIDToCID/CIDToGID) and a cmap rebuilt
	// from the subset's ToUnicode mapping so text encoded against the subset
	// resolves to the renumbered glyphs. Cutting and renumbering a valid
	// sfnt is font-format work belonging to the same collaborator that
	// parsed the face; the registry decides what survives and under which
	// cid each glyph lands.
	SubsetFontFile(face Face, subset *Subset) ([]byte, error)
}
