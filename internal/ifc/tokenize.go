// Package ifc implements the inline formatting context: fragment collection,
// tokenization, line breaking, alignment, run placement, and bounding-box
// propagation.
package ifc

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/style"
)

func applyTextTransform(s string, t style.TextTransform) string {
	switch t {
	case style.TextTransformUppercase:
		return strings.ToUpper(s)
	case style.TextTransformLowercase:
		return strings.ToLower(s)
	case style.TextTransformCapitalize:
		return capitalizeWords(s)
	default:
		return s
	}
}

// capitalizeWords upper-cases the first letter of each whitespace-separated
// word, leaving the rest untouched (unlike strings.ToTitle, which would
// title-case every letter).
func capitalizeWords(s string) string {
	var b strings.Builder
	atStart := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			atStart = true
			b.WriteRune(r)
			continue
		}
		if atStart {
			b.WriteRune(unicode.ToUpper(r))
			atStart = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokenize segments a text-fragment's text into layout items per the owner's
// white-space mode. Text is normalized to NFC first so combining sequences
// measure, case-map and reach the font CMAP as their composed forms, then
// text-transform applies.
func Tokenize(frag boxtree.InlineFragment, ws style.WhiteSpace, transform style.TextTransform) []boxtree.LayoutItem {
	text := applyTextTransform(norm.NFC.String(frag.Text), transform)
	switch ws {
	case style.WhiteSpacePre, style.WhiteSpacePreWrap:
		return tokenizePreserving(text, frag.Owner)
	case style.WhiteSpacePreLine:
		return tokenizePreLine(text, frag.Owner)
	default:
		return tokenizeNormal(text, frag.Owner)
	}
}

// tokenizeNormal collapses every run of whitespace (newlines included) into a
// single space token.
func tokenizeNormal(text string, owner boxtree.Ref) []boxtree.LayoutItem {
	var items []boxtree.LayoutItem
	runes := []rune(text)
	i := 0
	n := len(runes)
	for i < n {
		if unicode.IsSpace(runes[i]) {
			for i < n && unicode.IsSpace(runes[i]) {
				i++
			}
			items = append(items, boxtree.LayoutItem{Kind: boxtree.ItemSpace, Owner: owner, SpaceCount: 1})
			continue
		}
		j := i
		for j < n && !unicode.IsSpace(runes[j]) {
			j++
		}
		items = append(items, boxtree.LayoutItem{Kind: boxtree.ItemWord, Owner: owner, Text: string(runes[i:j])})
		i = j
	}
	return items
}

// tokenizePreLine emits newline tokens for explicit newlines but still
// collapses runs of spaces and tabs like normal mode.
func tokenizePreLine(text string, owner boxtree.Ref) []boxtree.LayoutItem {
	var items []boxtree.LayoutItem
	for li, line := range strings.Split(text, "\n") {
		if li > 0 {
			items = append(items, boxtree.LayoutItem{Kind: boxtree.ItemNewline, Owner: owner})
		}
		items = append(items, tokenizeNormal(line, owner)...)
	}
	return items
}

// tokenizePreserving keeps internal spaces exactly (pre and pre-wrap) and
// emits newline tokens for explicit newlines. Whether the result may also
// wrap at width is the line breaker's concern, not the tokenizer's.
func tokenizePreserving(text string, owner boxtree.Ref) []boxtree.LayoutItem {
	var items []boxtree.LayoutItem
	for li, line := range strings.Split(text, "\n") {
		if li > 0 {
			items = append(items, boxtree.LayoutItem{Kind: boxtree.ItemNewline, Owner: owner})
		}
		runes := []rune(line)
		i := 0
		n := len(runes)
		for i < n {
			if runes[i] == ' ' || runes[i] == '\t' {
				j := i
				for j < n && (runes[j] == ' ' || runes[j] == '\t') {
					j++
				}
				items = append(items, boxtree.LayoutItem{Kind: boxtree.ItemSpace, Owner: owner, SpaceCount: j - i, Preserve: true})
				i = j
				continue
			}
			j := i
			for j < n && runes[j] != ' ' && runes[j] != '\t' {
				j++
			}
			items = append(items, boxtree.LayoutItem{Kind: boxtree.ItemWord, Owner: owner, Text: string(runes[i:j])})
			i = j
		}
	}
	return items
}
