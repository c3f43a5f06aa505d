package ifc

import (
	"math"
	"strings"

	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/floatctx"
	"github.com/docweave/pdfgen/internal/style"
)

// OverflowWrap controls whether an over-wide word may be broken mid-word.
// Breaks happen at character boundaries, not grapheme clusters; a combining
// mark can therefore be separated from its base character.
type OverflowWrap int

const (
	OverflowWrapNormal OverflowWrap = iota
	OverflowWrapBreakWord
)

// Params bundles the per-container inputs to Run.
type Params struct {
	Arena             *boxtree.Arena
	Container         boxtree.Ref
	Floats            *floatctx.Context
	ContentX          float64
	ContentWidth      float64
	StartY            float64
	LineHeight        float64
	TextIndent        float64
	Align             style.TextAlign
	OverflowWrap      OverflowWrap
	NoWrap            bool // white-space nowrap/pre on the container: never break at width
	ContainerIsInline bool
}

// Result is what Run hands back. An empty participant list yields only
// NewCursorY == StartY.
type Result struct {
	NewCursorY   float64
	LineCount    int
	ContentWidth float64 // widest line, for containers sizing to their inline content
}

type line struct {
	top       float64
	height    float64
	items     []placedItem
	bandStart float64
	bandEnd   float64
	width     float64 // cursorX reached, i.e. the line's natural content width
}

type placedItem struct {
	item boxtree.LayoutItem
	x    float64 // offset from bandStart, pre-alignment
}

// MeasureFn measures the advance width of a string at an owner's resolved
// font.
type MeasureFn func(s string) float64

// Run executes fragment collection, tokenization, line breaking, alignment,
// run placement and bounding-box propagation for one inline formatting
// context.
func Run(params Params, participants []boxtree.Ref, measureAtomic AtomicMeasurer, measure func(owner boxtree.Ref) (letterSpacing, wordSpacing float64, m MeasureFn)) Result {
	fragments := CollectFragments(params.Arena, participants, measureAtomic, params.ContentWidth)
	if len(fragments) == 0 {
		return Result{NewCursorY: params.StartY}
	}

	var items []boxtree.LayoutItem
	for _, frag := range fragments {
		if frag.Kind == boxtree.FragmentAtomicInline {
			items = append(items, boxtree.LayoutItem{
				Kind:       boxtree.ItemBox,
				Owner:      frag.Owner,
				Advance:    frag.MarginWidth,
				LineHeight: frag.MarginHeight,
				Baseline:   frag.Baseline,
			})
			continue
		}
		ownerBox := params.Arena.Get(frag.Owner)
		ws := style.WhiteSpaceNormal
		transform := style.TextTransformNone
		if ownerBox != nil {
			ws = ownerBox.Style.WhiteSpace
			transform = ownerBox.Style.TextTransform
			// A re-layout replaces the runs of an earlier pass.
			ownerBox.InlineRuns = nil
		}
		toks := Tokenize(frag, ws, transform)
		if measure != nil {
			letterSpacing, wordSpacing, mfn := measure(frag.Owner)
			if mfn != nil {
				measureItems(toks, mfn, letterSpacing, wordSpacing)
			}
		}
		items = append(items, toks...)
	}

	lines := breakLines(params, items)
	alignLines(params, lines)
	placeRuns(params, lines)
	propagateBoundingBoxes(params.Arena, participants, params.Container)

	maxWidth := 0.0
	for _, ln := range lines {
		if ln.width > maxWidth {
			maxWidth = ln.width
		}
	}
	lastTop := params.StartY
	lastHeight := 0.0
	if len(lines) > 0 {
		lastTop = lines[len(lines)-1].top
		lastHeight = lines[len(lines)-1].height
	}
	return Result{NewCursorY: lastTop + lastHeight, LineCount: len(lines), ContentWidth: maxWidth}
}

func measureItems(items []boxtree.LayoutItem, mfn MeasureFn, letterSpacing, wordSpacing float64) {
	for i := range items {
		switch items[i].Kind {
		case boxtree.ItemWord:
			extra := letterSpacing * float64(max0(len([]rune(items[i].Text))-1))
			items[i].Advance = mfn(items[i].Text) + extra
		case boxtree.ItemSpace:
			items[i].Advance = mfn(" ")*float64(items[i].SpaceCount) + wordSpacing
		}
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func breakLines(p Params, items []boxtree.LayoutItem) []line {
	var lines []line
	lineTop := p.StartY
	lineHeight := p.LineHeight
	var cur []placedItem
	cursorX := 0.0
	firstLineOfContainer := true
	indentApplied := false

	band := func(top, bottom float64) (float64, float64) {
		if p.Floats == nil {
			return 0, p.ContentWidth
		}
		b := p.Floats.InlineOffsets(top, bottom, p.ContentWidth)
		return b.Start, b.End
	}
	bandStart, bandEnd := band(lineTop, lineTop+lineHeight)

	commit := func() {
		// Trailing collapsible spaces do not count toward the line's width.
		for len(cur) > 0 {
			last := cur[len(cur)-1]
			if last.item.Kind != boxtree.ItemSpace || last.item.Preserve {
				break
			}
			cursorX = last.x
			cur = cur[:len(cur)-1]
		}
		lines = append(lines, line{top: lineTop, height: lineHeight, items: cur, bandStart: bandStart, bandEnd: bandEnd, width: cursorX})
		lineTop += lineHeight
		lineHeight = p.LineHeight
		cur = nil
		cursorX = 0
		indentApplied = false
		firstLineOfContainer = false
		bandStart, bandEnd = band(lineTop, lineTop+lineHeight)
	}

	for idx := 0; idx < len(items); idx++ {
		it := items[idx]

		if bandEnd-bandStart <= 0 && p.Floats != nil {
			if y, ok := p.Floats.NextUnblockedY(lineTop, lineTop+lineHeight); ok {
				lineTop = y
				bandStart, bandEnd = band(lineTop, lineTop+lineHeight)
			}
			// No wider band below: allow overflow on this line.
		}

		if it.Kind == boxtree.ItemNewline {
			commit()
			continue
		}

		if len(cur) == 0 {
			if it.Kind == boxtree.ItemSpace && !it.Preserve {
				continue // collapsible space at a line start vanishes
			}
			if !indentApplied && !p.ContainerIsInline && firstLineOfContainer {
				cursorX += p.TextIndent
				indentApplied = true
			}
		}

		avail := bandEnd - bandStart
		overflows := cursorX+it.Advance > avail && !p.NoWrap
		if overflows && it.Kind == boxtree.ItemBox && len(cur) > 0 {
			commit()
			idx--
			continue
		}
		if overflows && it.Kind == boxtree.ItemWord {
			if it.Advance > avail && p.OverflowWrap == OverflowWrapBreakWord {
				// The word can never fit whole: break it at the largest
				// character boundary that fits the remaining band.
				perRune := it.Advance / float64(max0(len([]rune(it.Text))))
				fit, rest := breakWordToFit(it, avail-cursorX, func(s string) float64 {
					return perRune * float64(len([]rune(s)))
				})
				if fit.Text != "" {
					cur = append(cur, placedItem{item: fit, x: cursorX})
					cursorX += fit.Advance
				}
				commit()
				if rest.Text != "" {
					items = append(items[:idx], append([]boxtree.LayoutItem{rest}, items[idx+1:]...)...)
					idx--
				}
				continue
			}
			if len(cur) > 0 {
				commit()
				idx--
				continue
			}
			// A lone over-wide word with no break opportunity overflows.
		}

		cur = append(cur, placedItem{item: it, x: cursorX})
		cursorX += it.Advance
		if it.Kind == boxtree.ItemBox && it.LineHeight > lineHeight {
			lineHeight = it.LineHeight
		}
	}
	commit()
	return lines
}

// breakWordToFit splits a word at the largest character boundary whose
// measured prefix fits within avail px, always consuming at least one
// character so the caller makes progress.
func breakWordToFit(it boxtree.LayoutItem, avail float64, measure func(string) float64) (fit, rest boxtree.LayoutItem) {
	runes := []rune(it.Text)
	if len(runes) == 0 {
		return boxtree.LayoutItem{}, boxtree.LayoutItem{}
	}
	best := 0
	for i := 1; i <= len(runes); i++ {
		if measure(string(runes[:i])) <= avail {
			best = i
		} else {
			break
		}
	}
	if best == 0 {
		best = 1
	}
	fitText := string(runes[:best])
	fit = boxtree.LayoutItem{Kind: boxtree.ItemWord, Owner: it.Owner, Text: fitText, Advance: measure(fitText)}
	if best == len(runes) {
		return fit, boxtree.LayoutItem{}
	}
	restText := string(runes[best:])
	rest = boxtree.LayoutItem{Kind: boxtree.ItemWord, Owner: it.Owner, Text: restText, Advance: measure(restText)}
	return fit, rest
}

func alignLines(p Params, lines []line) {
	for i := range lines {
		ln := &lines[i]
		avail := ln.bandEnd - ln.bandStart
		slack := math.Max(avail-ln.width, 0)
		isLast := i == len(lines)-1
		align := p.Align
		if align == style.TextAlignJustify && isLast {
			align = style.TextAlignStart
		}
		switch align {
		case style.TextAlignCenter:
			shiftAll(ln, slack/2)
		case style.TextAlignRight, style.TextAlignEnd:
			shiftAll(ln, slack)
		case style.TextAlignJustify:
			justify(ln, slack)
		default:
			// left/start: no shift
		}
	}
}

func shiftAll(ln *line, shift float64) {
	for i := range ln.items {
		ln.items[i].x += shift
	}
}

// justify distributes slack across space tokens proportional to their space
// count.
func justify(ln *line, slack float64) {
	totalSpaces := 0
	for _, pi := range ln.items {
		if pi.item.Kind == boxtree.ItemSpace {
			totalSpaces += pi.item.SpaceCount
		}
	}
	if totalSpaces == 0 || slack <= 0 {
		return
	}
	perSpace := slack / float64(totalSpaces)
	shift := 0.0
	for i := range ln.items {
		ln.items[i].x += shift
		if ln.items[i].item.Kind == boxtree.ItemSpace {
			shift += perSpace * float64(ln.items[i].item.SpaceCount)
		}
	}
}

// placeRuns converts each committed line into inline runs, one run per
// (owner, line) pair, and sets each owner box's geometry from its runs.
func placeRuns(p Params, lines []line) {
	type ownerAgg struct {
		minX, minY   float64
		contentWidth float64
		lineCount    int
	}
	aggs := map[boxtree.Ref]*ownerAgg{}

	for li, ln := range lines {
		type runAcc struct {
			startX, endX float64
			text         strings.Builder
			spaceCount   int
			baseline     float64
		}
		accs := map[boxtree.Ref]*runAcc{}
		var order []boxtree.Ref

		for _, pi := range ln.items {
			owner := pi.item.Owner
			b := p.Arena.Get(owner)
			if b == nil {
				continue
			}
			switch pi.item.Kind {
			case boxtree.ItemWord, boxtree.ItemSpace:
				fontSize := effectiveFontSize(b)
				x := p.ContentX + ln.bandStart + pi.x
				acc, ok := accs[owner]
				if !ok {
					ascent := 0.75 * fontSize
					halfLeading := (ln.height - fontSize) / 2
					acc = &runAcc{startX: x, endX: x, baseline: ln.top + halfLeading + ascent}
					accs[owner] = acc
					order = append(order, owner)
				}
				if pi.item.Kind == boxtree.ItemWord {
					acc.text.WriteString(pi.item.Text)
				} else {
					acc.text.WriteString(strings.Repeat(" ", maxInt(pi.item.SpaceCount, 1)))
					acc.spaceCount += pi.item.SpaceCount
				}
				if end := x + pi.item.Advance; end > acc.endX {
					acc.endX = end
				}
			case boxtree.ItemBox:
				x := p.ContentX + ln.bandStart + pi.x
				y := ln.top + (ln.height - pi.item.LineHeight)
				p.Arena.OffsetSubtree(owner, x-b.Geometry.X, y-b.Geometry.Y)
			}
		}

		for _, owner := range order {
			acc := accs[owner]
			b := p.Arena.Get(owner)
			run := boxtree.InlineRun{
				LineIndex:   li,
				StartX:      acc.startX,
				Baseline:    acc.baseline,
				Text:        acc.text.String(),
				Width:       acc.endX - acc.startX,
				LineWidth:   ln.width,
				TargetWidth: ln.bandEnd - ln.bandStart,
				SpaceCount:  acc.spaceCount,
				IsLastLine:  li == len(lines)-1,
			}
			b.InlineRuns = append(b.InlineRuns, run)

			agg, ok := aggs[owner]
			if !ok {
				agg = &ownerAgg{minX: run.StartX, minY: ln.top}
				aggs[owner] = agg
			}
			if run.StartX < agg.minX {
				agg.minX = run.StartX
			}
			if ln.top < agg.minY {
				agg.minY = ln.top
			}
			if w := math.Max(run.LineWidth, run.Width); w > agg.contentWidth {
				agg.contentWidth = w
			}
			if li+1 > agg.lineCount {
				agg.lineCount = li + 1
			}
		}
	}

	for owner, agg := range aggs {
		b := p.Arena.Get(owner)
		if b == nil {
			continue
		}
		b.Geometry.X = agg.minX
		b.Geometry.Y = agg.minY
		b.Geometry.ContentWidth = agg.contentWidth
		b.Geometry.ContentHeight = float64(agg.lineCount) * p.LineHeight
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func effectiveFontSize(b *boxtree.Box) float64 {
	return b.Style.FontSize.ResolveOr(0, style.AutoZero, 16)
}

// propagateBoundingBoxes unions each run-owning box's content box into every
// inline ancestor between it and the container, so wrapper boxes that emit no
// runs of their own still get a geometry enclosing their descendants.
func propagateBoundingBoxes(arena *boxtree.Arena, participants []boxtree.Ref, container boxtree.Ref) {
	type bounds struct {
		minX, minY, maxX, maxY float64
		set                    bool
	}
	acc := map[boxtree.Ref]*bounds{}
	union := func(ref boxtree.Ref, x0, y0, x1, y1 float64) {
		a, ok := acc[ref]
		if !ok {
			a = &bounds{}
			acc[ref] = a
		}
		if !a.set {
			a.minX, a.minY, a.maxX, a.maxY = x0, y0, x1, y1
			a.set = true
			return
		}
		a.minX = math.Min(a.minX, x0)
		a.minY = math.Min(a.minY, y0)
		a.maxX = math.Max(a.maxX, x1)
		a.maxY = math.Max(a.maxY, y1)
	}
	seen := map[boxtree.Ref]bool{}
	var visit func(ref boxtree.Ref)
	visit = func(ref boxtree.Ref) {
		if seen[ref] {
			return
		}
		seen[ref] = true
		b := arena.Get(ref)
		if b == nil {
			return
		}
		for _, run := range b.InlineRuns {
			fontSize := effectiveFontSize(b)
			for ancestor := b.Parent; ancestor != container && ancestor != boxtree.NoRef; {
				ab := arena.Get(ancestor)
				if ab == nil {
					break
				}
				w := math.Max(run.LineWidth, run.Width)
				union(ancestor, run.StartX, run.Baseline-0.75*fontSize, run.StartX+w, run.Baseline+0.25*fontSize)
				ancestor = ab.Parent
			}
		}
		for _, c := range b.Children {
			visit(c)
		}
	}
	for _, p := range participants {
		visit(p)
	}
	for ref, a := range acc {
		if !a.set {
			continue
		}
		b := arena.Get(ref)
		if b == nil {
			continue
		}
		b.Geometry.X = a.minX
		b.Geometry.Y = a.minY
		b.Geometry.ContentWidth = a.maxX - a.minX
		b.Geometry.ContentHeight = a.maxY - a.minY
	}
}
