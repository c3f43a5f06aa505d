package font

// GlyphRun is a shaped piece of text: glyph ids with per-glyph pen positions
// in px, ready for the text renderer and the subset registry.
type GlyphRun struct {
	Face         Face
	GIDs         []uint16
	Positions    [][2]float64 // pen position per glyph, relative to the run origin
	Text         string
	FontSizePx   float64
	TotalAdvance float64
}

// Shape synthesizes a glyph run for text at sizePx: each code point is
// looked up through the face CMAP and advanced by its glyph width scaled to
// px, plus letter-spacing (and word-spacing at spaces). There is no
// bidirectional reordering and no OpenType substitution here; this is plain
// left-to-right CMAP shaping.
func Shape(p Provider, face Face, text string, sizePx, letterSpacing, wordSpacing float64) GlyphRun {
	run := GlyphRun{Face: face, Text: text, FontSizePx: sizePx}
	unitsPerEm := float64(face.UnitsPerEm)
	if unitsPerEm == 0 {
		unitsPerEm = 1000
	}
	x := 0.0
	for _, r := range text {
		gid := uint16(0)
		adv := 0.0
		if p != nil {
			gid = p.GlyphIndex(face, r)
			adv = p.AdvanceWidth(face, gid)
		}
		if adv == 0 {
			adv = unitsPerEm * EstimatorAdvanceRatio
		}
		run.GIDs = append(run.GIDs, gid)
		run.Positions = append(run.Positions, [2]float64{x, 0})
		x += adv/unitsPerEm*sizePx + letterSpacing
		if r == ' ' {
			x += wordSpacing
		}
	}
	if n := len(run.GIDs); n > 0 {
		x -= letterSpacing // no trailing letter-spacing after the last glyph
	}
	run.TotalAdvance = x
	return run
}

// Runes returns the code points of the run's source text, index-aligned with
// GIDs for ToUnicode bookkeeping.
func (g GlyphRun) Runes() []rune {
	return []rune(g.Text)
}
