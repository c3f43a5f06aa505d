package pdfrender

import (
	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/diag"
	"github.com/docweave/pdfgen/internal/font"
	"github.com/docweave/pdfgen/internal/pdfdoc"
	"github.com/docweave/pdfgen/internal/style"
)

// RegisterTreeText shapes every inline run in the arena and registers its
// glyphs with the subset registry. Running this before any page renders
// means each face's glyph set is complete when the subset is sealed, so the
// embedded font program can be cut down to exactly the glyphs the document
// uses instead of carrying the whole face.
func RegisterTreeText(arena *boxtree.Arena, provider font.Provider, subsets *font.Registry) {
	if provider == nil || subsets == nil {
		return
	}
	for i := 0; i < arena.Len(); i++ {
		b := arena.Get(boxtree.Ref(i))
		if b == nil || len(b.InlineRuns) == 0 {
			continue
		}
		face := resolveBoxFace(provider, nil, b.Style, b.InlineRuns)
		if face.Base14 {
			continue
		}
		sizePx := b.Style.FontSize.ResolveOr(0, style.AutoZero, 16)
		letterSpacing := b.Style.LetterSpacing.ResolveOr(0, style.AutoZero, 0)
		wordSpacing := b.Style.WordSpacing.ResolveOr(0, style.AutoZero, 0)
		for _, run := range b.InlineRuns {
			subsets.RegisterRun(font.Shape(provider, face, run.Text, sizePx, letterSpacing, wordSpacing))
		}
	}
}

// EmbedSubsets seals every registered face's subset and embeds its
// tag-named, provider-cut font program into the document. Faces whose
// subset file cannot be produced fall back to their full bytes with a
// warning; the document still emits.
func EmbedSubsets(doc *pdfdoc.Document, provider font.Provider, subsets *font.Registry, log diag.Logger) {
	if log == nil {
		log = diag.Noop
	}
	for _, face := range subsets.Faces() {
		subset := subsets.EnsureSubsetFor(face)
		if _, err := doc.EnsureSubsetFace(face, subset, provider); err != nil {
			log.Warnf("font: embed subset %s+%s: %v", subset.Tag, face.Key, err)
		}
	}
}
