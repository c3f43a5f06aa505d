package pdfrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/font"
	"github.com/docweave/pdfgen/internal/style"
)

// embeddedStub resolves every family to one embedded face and maps each
// rune to gid = rune value.
type embeddedStub struct {
	subsetCalls int
	lastSubset  *font.Subset
}

func (s *embeddedStub) Resolve([]string, style.FontWeight, style.FontStyleKind) (font.Face, error) {
	return font.Face{Key: "Embedded", BaseFont: "Embedded", Bytes: []byte{1, 2, 3}, UnitsPerEm: 1000}, nil
}
func (s *embeddedStub) GetMetrics(font.Face) (font.Metrics, bool) { return font.Metrics{}, false }
func (s *embeddedStub) GlyphIndex(_ font.Face, r rune) uint16     { return uint16(r) }
func (s *embeddedStub) AdvanceWidth(font.Face, uint16) float64    { return 500 }
func (s *embeddedStub) GetGlyphOutline(font.Face, uint16) (font.Outline, bool) {
	return font.Outline{}, false
}
func (s *embeddedStub) SubsetFontFile(_ font.Face, subset *font.Subset) ([]byte, error) {
	s.subsetCalls++
	s.lastSubset = subset
	return nil, nil // no subset file: callers fall back to the full face bytes
}

func textTree(texts ...string) *boxtree.Arena {
	arena := boxtree.NewArena()
	root := arena.New("body", style.ComputedStyle{Display: style.DisplayBlock, Opacity: 1})
	for _, text := range texts {
		box := arena.New("span", style.ComputedStyle{Display: style.DisplayInline, FontSize: style.Px(16), Opacity: 1})
		arena.Get(box).InlineRuns = []boxtree.InlineRun{{Text: text, Width: 10}}
		arena.AddChild(root, box)
	}
	return arena
}

func TestRegisterTreeTextFillsRegistry(t *testing.T) {
	arena := textTree("ab", "bc")
	subsets := font.NewRegistry()
	RegisterTreeText(arena, &embeddedStub{}, subsets)

	faces := subsets.Faces()
	require.Len(t, faces, 1)
	s := subsets.EnsureSubsetFor(faces[0])
	// Glyphs for a, b, c exactly once each, plus .notdef.
	assert.Equal(t, []uint16{0, 'a', 'b', 'c'}, s.GlyphSet())
	assert.Equal(t, []rune{'a'}, s.ToUnicode[s.GIDToCID['a']])
}

func TestRegisterTreeTextSkipsBase14(t *testing.T) {
	arena := textTree("hello")
	subsets := font.NewRegistry()
	// No provider: everything stays on core fonts, nothing registers.
	RegisterTreeText(arena, nil, subsets)
	assert.Empty(t, subsets.Faces())
}

func TestResolveBoxFaceEscalatesPastWinAnsi(t *testing.T) {
	runs := []boxtree.InlineRun{{Text: "日本語"}}
	face := resolveBoxFace(&embeddedStub{}, nil, style.ComputedStyle{}, runs)
	assert.False(t, face.Base14)
	assert.Equal(t, "Embedded", face.Key)
}

func TestResolveBoxFaceFallsBackWithoutProvider(t *testing.T) {
	face := resolveBoxFace(nil, nil, style.ComputedStyle{FontFamily: []string{"monospace"}}, nil)
	assert.True(t, face.Base14)
	assert.Equal(t, "Courier", face.Key)
}
