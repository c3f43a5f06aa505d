package font

import "unicode/utf8"

// Measurer wraps a Provider with a resolved face and size to give the IFC
// tokenizer a simple "measure this string" call ("glyph-width
// path if metrics known; estimator fallback otherwise").
type Measurer struct {
	Provider Provider
	Face     Face
	SizePx   float64
}

// EstimatorAdvanceRatio is the fallback per-rune advance when no glyph metrics
// are available: half an em per rune.
const EstimatorAdvanceRatio = 0.5

// Advance returns the total advance width, in px, of s at the measurer's
// face and size, plus any letterSpacing/wordSpacing contributions.
func (m Measurer) Advance(s string, letterSpacing, wordSpacing float64) float64 {
	if m.Provider == nil {
		return float64(utf8.RuneCountInString(s)) * m.SizePx * EstimatorAdvanceRatio
	}
	unitsPerEm := float64(m.Face.UnitsPerEm)
	if unitsPerEm == 0 {
		unitsPerEm = 1000
	}
	total := 0.0
	n := 0
	for _, r := range s {
		gid := m.Provider.GlyphIndex(m.Face, r)
		adv := m.Provider.AdvanceWidth(m.Face, gid)
		if adv == 0 {
			adv = unitsPerEm * EstimatorAdvanceRatio
		}
		total += adv / unitsPerEm * m.SizePx
		total += letterSpacing
		if r == ' ' {
			total += wordSpacing
		}
		n++
	}
	if n > 0 {
		total -= letterSpacing // no trailing letter-spacing after the last glyph
	}
	return total
}

// Ascent returns the resolved ascent in px, falling back to 0.75×fontSize
// when face metrics are unavailable.
func (m Measurer) Ascent() float64 {
	if m.Provider == nil {
		return 0.75 * m.SizePx
	}
	metrics, ok := m.Provider.GetMetrics(m.Face)
	if !ok || metrics.Ascent == 0 {
		return 0.75 * m.SizePx
	}
	unitsPerEm := float64(m.Face.UnitsPerEm)
	if unitsPerEm == 0 {
		unitsPerEm = 1000
	}
	return metrics.Ascent / unitsPerEm * m.SizePx
}
