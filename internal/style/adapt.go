package style

import (
	"strconv"
	"strings"
)

// RawDeclarations is the string-keyed property map the cascade resolves
// per element. Adapt converts it into the typed ComputedStyle the layout
// strategies read.
type RawDeclarations map[string]string

// Adapt builds a typed ComputedStyle from raw string declarations. Unknown
// keywords fall back to their initial value, a malformed length becomes one
// that fails to resolve (so consumers use their fallback), and an unknown
// color becomes opaque black; a single bad declaration never aborts styling
// the rest of the element.
func Adapt(raw RawDeclarations) ComputedStyle {
	cs := ComputedStyle{
		Opacity:    1,
		LineHeight: Auto,
		FontSize:   Px(16),
		Color:      RGBAColor{A: 1},
	}
	cs.Display = parseDisplay(raw["display"])
	cs.Position = parsePosition(raw["position"])
	cs.Float = parseFloat(raw["float"])
	cs.OverflowX = parseOverflow(raw["overflow-x"], raw["overflow"])
	cs.OverflowY = parseOverflow(raw["overflow-y"], raw["overflow"])
	cs.WhiteSpace = parseWhiteSpace(raw["white-space"])
	cs.BoxSizing = parseBoxSizing(raw["box-sizing"])
	cs.BorderModel = parseBorderModel(raw["border-collapse"])

	cs.Width = parseLengthKeyword(raw["width"])
	cs.Height = parseLengthKeyword(raw["height"])
	cs.MinWidth = parseLengthKeyword(raw["min-width"])
	cs.MinHeight = parseLengthKeyword(raw["min-height"])
	cs.MaxWidth = parseLengthKeyword(raw["max-width"])
	cs.MaxHeight = parseLengthKeyword(raw["max-height"])

	cs.Margin = parseSides(raw, "margin")
	cs.Padding = parseSides(raw, "padding")
	cs.Inset = Sides{
		Top:    parseLengthKeyword(raw["top"]),
		Right:  parseLengthKeyword(raw["right"]),
		Bottom: parseLengthKeyword(raw["bottom"]),
		Left:   parseLengthKeyword(raw["left"]),
	}

	if v := raw["font-size"]; v != "" {
		cs.FontSize = parseLengthKeyword(v)
	}
	cs.LineHeight = parseLengthKeyword(raw["line-height"])
	cs.TextIndent = parseLengthKeyword(raw["text-indent"])
	cs.LetterSpacing = parseLengthKeyword(raw["letter-spacing"])
	cs.WordSpacing = parseLengthKeyword(raw["word-spacing"])

	cs.TextAlign = parseTextAlign(raw["text-align"])
	cs.TextTransform = parseTextTransform(raw["text-transform"])

	if v := raw["opacity"]; v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			if f < 0 {
				f = 0
			}
			if f > 1 {
				f = 1
			}
			cs.Opacity = f
		}
	}
	cs.ZIndex = parseZIndex(raw["z-index"])

	cs.FlexDirection = parseFlexDirection(raw["flex-direction"])
	cs.FlexWrap = parseFlexWrap(raw["flex-wrap"])
	cs.JustifyContent = parseJustify(raw["justify-content"])
	cs.AlignItems = parseAlign(raw["align-items"])
	cs.AlignContent = parseAlign(raw["align-content"])
	cs.Flex.Grow = parseFloatOr(raw["flex-grow"], 0)
	cs.Flex.Shrink = parseFloatOr(raw["flex-shrink"], 1)
	cs.Flex.Basis = parseLengthKeyword(raw["flex-basis"])
	if v := strings.TrimSpace(raw["align-self"]); v != "" && v != "auto" {
		a := parseAlign(v)
		cs.Flex.AlignSelf = &a
	}
	cs.RowGap, cs.ColumnGap = parseGaps(raw)

	if v := strings.TrimSpace(raw["color"]); v != "" {
		cs.Color = parseColorKeyword(v)
	}
	if v := strings.TrimSpace(raw["background-color"]); v != "" {
		cs.BackgroundColor = parseColorKeyword(v)
	}

	cs.FontFamily = parseFontFamily(raw["font-family"])
	cs.FontWeight = parseFontWeight(raw["font-weight"])
	cs.FontStyle = parseFontStyle(raw["font-style"])
	cs.FontVariant = strings.TrimSpace(raw["font-variant"])
	cs.DecorationLines = parseDecorationLines(raw["text-decoration-line"], raw["text-decoration"])

	parseBorders(raw, &cs)
	cs.BorderRadius = parseBorderRadius(raw["border-radius"])

	return cs
}

func parseGaps(raw RawDeclarations) (row, col Length) {
	row, col = Zero, Zero
	if v := strings.TrimSpace(raw["gap"]); v != "" {
		parts := strings.Fields(v)
		row = parseLengthKeyword(parts[0])
		col = row
		if len(parts) > 1 {
			col = parseLengthKeyword(parts[1])
		}
	}
	if v := raw["row-gap"]; v != "" {
		row = parseLengthKeyword(v)
	}
	if v := raw["column-gap"]; v != "" {
		col = parseLengthKeyword(v)
	}
	return row, col
}

func parseFlexWrap(v string) FlexWrap {
	switch strings.TrimSpace(v) {
	case "wrap":
		return FlexWrapWrap
	case "wrap-reverse":
		return FlexWrapReverse
	default:
		return FlexNoWrap
	}
}

func parseFontFamily(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var families []string
	for _, f := range strings.Split(v, ",") {
		f = strings.Trim(strings.TrimSpace(f), `"'`)
		if f != "" {
			families = append(families, f)
		}
	}
	return families
}

func parseFontWeight(v string) FontWeight {
	switch strings.TrimSpace(v) {
	case "", "normal":
		return FontWeightNormal
	case "bold", "bolder":
		return FontWeightBold
	case "lighter":
		return FontWeight(300)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 100 && n <= 900 {
		return FontWeight(n)
	}
	return FontWeightNormal
}

func parseFontStyle(v string) FontStyleKind {
	switch strings.TrimSpace(v) {
	case "italic":
		return FontStyleItalic
	case "oblique":
		return FontStyleOblique
	default:
		return FontStyleNormal
	}
}

func parseDecorationLines(specific, shorthand string) TextDecorationLine {
	v := specific
	if strings.TrimSpace(v) == "" {
		v = shorthand
	}
	var lines TextDecorationLine
	for _, word := range strings.Fields(v) {
		switch word {
		case "underline":
			lines |= TextDecorationUnderline
		case "overline":
			lines |= TextDecorationOverline
		case "line-through":
			lines |= TextDecorationLineThrough
		case "none":
			return 0
		}
	}
	return lines
}

// parseBorders fills the four border edges from the border shorthand, the
// border-width/style/color axis shorthands, and per-side longhands, most
// specific last.
func parseBorders(raw RawDeclarations, cs *ComputedStyle) {
	if v := strings.TrimSpace(raw["border"]); v != "" {
		edge := parseBorderEdge(v)
		cs.Border.Top, cs.Border.Right, cs.Border.Bottom, cs.Border.Left = edge, edge, edge, edge
	}
	if v := strings.TrimSpace(raw["border-width"]); v != "" {
		w := parseLengthKeyword(v)
		cs.Border.Top.Width, cs.Border.Right.Width = w, w
		cs.Border.Bottom.Width, cs.Border.Left.Width = w, w
	}
	if v := strings.TrimSpace(raw["border-color"]); v != "" {
		c := parseColorKeyword(v)
		cs.Border.Top.Color, cs.Border.Right.Color = c, c
		cs.Border.Bottom.Color, cs.Border.Left.Color = c, c
	}
	for side, edge := range map[string]*BorderEdge{
		"border-top": &cs.Border.Top, "border-right": &cs.Border.Right,
		"border-bottom": &cs.Border.Bottom, "border-left": &cs.Border.Left,
	} {
		if v := strings.TrimSpace(raw[side]); v != "" {
			*edge = parseBorderEdge(v)
		}
		if v := strings.TrimSpace(raw[side+"-width"]); v != "" {
			edge.Width = parseLengthKeyword(v)
		}
		if v := strings.TrimSpace(raw[side+"-color"]); v != "" {
			edge.Color = parseColorKeyword(v)
		}
		if v := strings.TrimSpace(raw[side+"-style"]); v != "" {
			edge.Style = v
		}
	}
}

// parseBorderEdge parses a "width style color" border shorthand; parts may
// appear in any order and any may be missing.
func parseBorderEdge(v string) BorderEdge {
	edge := BorderEdge{Width: Zero, Color: RGBAColor{A: 1}}
	for _, part := range strings.Fields(v) {
		switch part {
		case "solid", "dashed", "dotted", "double", "none", "hidden":
			edge.Style = part
			if part == "none" || part == "hidden" {
				edge.Width = Zero
			}
			continue
		}
		if strings.HasPrefix(part, "#") || strings.HasPrefix(part, "rgb") {
			edge.Color = parseColorKeyword(part)
			continue
		}
		if l := parseLengthKeyword(part); l.Kind == LengthPx && !l.Calc {
			edge.Width = l
		}
	}
	if edge.Style == "" && edge.Width.Kind == LengthPx {
		edge.Style = "solid"
	}
	return edge
}

func parseBorderRadius(v string) Corners {
	v = strings.TrimSpace(v)
	if v == "" {
		return Corners{TopLeft: Zero, TopRight: Zero, BottomRight: Zero, BottomLeft: Zero}
	}
	parts := strings.Fields(v)
	vals := make([]Length, len(parts))
	for i, p := range parts {
		vals[i] = parseLengthKeyword(p)
	}
	switch len(vals) {
	case 1:
		return Corners{TopLeft: vals[0], TopRight: vals[0], BottomRight: vals[0], BottomLeft: vals[0]}
	case 2:
		return Corners{TopLeft: vals[0], BottomRight: vals[0], TopRight: vals[1], BottomLeft: vals[1]}
	case 3:
		return Corners{TopLeft: vals[0], TopRight: vals[1], BottomLeft: vals[1], BottomRight: vals[2]}
	default:
		return Corners{TopLeft: vals[0], TopRight: vals[1], BottomRight: vals[2], BottomLeft: vals[3]}
	}
}

func parseFloatOr(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return def
}

func parseLengthKeyword(v string) Length {
	v = strings.TrimSpace(v)
	switch v {
	case "", "auto":
		return Auto
	case "0":
		return Zero
	}
	if strings.HasSuffix(v, "%") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64); err == nil {
			return Percent(f)
		}
		return Length{Kind: LengthPx, Calc: true}
	}
	for _, suffix := range []string{"px", "pt", "em", "rem"} {
		if strings.HasSuffix(v, suffix) {
			if f, err := strconv.ParseFloat(strings.TrimSuffix(v, suffix), 64); err == nil {
				return Px(f)
			}
		}
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return Px(f)
	}
	return Length{Kind: LengthPx, Calc: true}
}

func parseSides(raw RawDeclarations, prefix string) Sides {
	if shorthand := strings.TrimSpace(raw[prefix]); shorthand != "" {
		parts := strings.Fields(shorthand)
		vals := make([]Length, len(parts))
		for i, p := range parts {
			vals[i] = parseLengthKeyword(p)
		}
		switch len(vals) {
		case 1:
			return Sides{Top: vals[0], Right: vals[0], Bottom: vals[0], Left: vals[0]}
		case 2:
			return Sides{Top: vals[0], Bottom: vals[0], Right: vals[1], Left: vals[1]}
		case 3:
			return Sides{Top: vals[0], Right: vals[1], Left: vals[1], Bottom: vals[2]}
		case 4:
			return Sides{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
		}
	}
	return Sides{
		Top:    parseLengthKeyword(raw[prefix+"-top"]),
		Right:  parseLengthKeyword(raw[prefix+"-right"]),
		Bottom: parseLengthKeyword(raw[prefix+"-bottom"]),
		Left:   parseLengthKeyword(raw[prefix+"-left"]),
	}
}

func parseDisplay(v string) Display {
	switch strings.TrimSpace(v) {
	case "none":
		return DisplayNone
	case "inline":
		return DisplayInline
	case "inline-block":
		return DisplayInlineBlock
	case "inline-flex":
		return DisplayInlineFlex
	case "inline-grid":
		return DisplayInlineGrid
	case "inline-table":
		return DisplayInlineTable
	case "flex":
		return DisplayFlex
	case "grid":
		return DisplayGrid
	case "table":
		return DisplayTable
	case "table-row":
		return DisplayTableRow
	case "table-row-group":
		return DisplayTableRowGroup
	case "table-header-group":
		return DisplayTableHeaderGroup
	case "table-footer-group":
		return DisplayTableFooterGroup
	case "table-cell":
		return DisplayTableCell
	case "flow-root":
		return DisplayFlowRoot
	default:
		return DisplayBlock
	}
}

func parsePosition(v string) Position {
	switch strings.TrimSpace(v) {
	case "relative":
		return PositionRelative
	case "absolute":
		return PositionAbsolute
	case "fixed":
		return PositionFixed
	case "sticky":
		return PositionSticky
	default:
		return PositionStatic
	}
}

func parseFloat(v string) Float {
	switch strings.TrimSpace(v) {
	case "left":
		return FloatLeft
	case "right":
		return FloatRight
	default:
		return FloatNone
	}
}

func parseOverflow(specific, shorthand string) Overflow {
	v := strings.TrimSpace(specific)
	if v == "" {
		v = strings.TrimSpace(shorthand)
	}
	switch v {
	case "hidden":
		return OverflowHidden
	case "auto":
		return OverflowAuto
	case "scroll":
		return OverflowScroll
	case "clip":
		return OverflowClip
	default:
		return OverflowVisible
	}
}

func parseWhiteSpace(v string) WhiteSpace {
	switch strings.TrimSpace(v) {
	case "nowrap":
		return WhiteSpaceNowrap
	case "pre":
		return WhiteSpacePre
	case "pre-wrap":
		return WhiteSpacePreWrap
	case "pre-line":
		return WhiteSpacePreLine
	default:
		return WhiteSpaceNormal
	}
}

func parseBoxSizing(v string) BoxSizing {
	if strings.TrimSpace(v) == "border-box" {
		return BoxSizingBorderBox
	}
	return BoxSizingContentBox
}

func parseBorderModel(v string) BorderModel {
	if strings.TrimSpace(v) == "collapse" {
		return BorderCollapse
	}
	return BorderSeparate
}

func parseTextAlign(v string) TextAlign {
	switch strings.TrimSpace(v) {
	case "left":
		return TextAlignLeft
	case "center":
		return TextAlignCenter
	case "right":
		return TextAlignRight
	case "end":
		return TextAlignEnd
	case "justify":
		return TextAlignJustify
	default:
		return TextAlignStart
	}
}

func parseTextTransform(v string) TextTransform {
	switch strings.TrimSpace(v) {
	case "uppercase":
		return TextTransformUppercase
	case "lowercase":
		return TextTransformLowercase
	case "capitalize":
		return TextTransformCapitalize
	default:
		return TextTransformNone
	}
}

func parseZIndex(v string) ZIndex {
	v = strings.TrimSpace(v)
	if v == "" || v == "auto" {
		return ZIndex{Auto: true}
	}
	if n, err := strconv.Atoi(v); err == nil {
		return ZIndex{Value: n}
	}
	return ZIndex{Auto: true}
}

func parseFlexDirection(v string) FlexDirection {
	switch strings.TrimSpace(v) {
	case "row-reverse":
		return FlexDirectionRowReverse
	case "column":
		return FlexDirectionColumn
	case "column-reverse":
		return FlexDirectionColumnReverse
	default:
		return FlexDirectionRow
	}
}

func parseJustify(v string) Justify {
	switch strings.TrimSpace(v) {
	case "flex-end":
		return JustifyFlexEnd
	case "center":
		return JustifyCenter
	case "space-between":
		return JustifySpaceBetween
	case "space-around":
		return JustifySpaceAround
	case "space-evenly":
		return JustifySpaceEvenly
	default:
		return JustifyFlexStart
	}
}

func parseAlign(v string) Align {
	switch strings.TrimSpace(v) {
	case "flex-start":
		return AlignFlexStart
	case "flex-end":
		return AlignFlexEnd
	case "center":
		return AlignCenter
	case "space-between":
		return AlignSpaceBetween
	case "space-around":
		return AlignSpaceAround
	case "space-evenly":
		return AlignSpaceEvenly
	case "baseline":
		return AlignBaseline
	default:
		return AlignStretch
	}
}

// parseColorKeyword parses #rgb/#rrggbb/rgb()/rgba(); unknown values
// resolve to opaque black rather than erroring.
func parseColorKeyword(v string) RGBAColor {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "#") {
		if r, g, b, ok := parseHex(v[1:]); ok {
			return RGBAColor{R: r, G: g, B: b, A: 1}
		}
	}
	if strings.HasPrefix(v, "rgb") {
		inner := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(v, "rgba("), "rgb("), ")")
		parts := strings.Split(inner, ",")
		if len(parts) >= 3 {
			r := parseFloatOr(parts[0], 0)
			g := parseFloatOr(parts[1], 0)
			b := parseFloatOr(parts[2], 0)
			a := 1.0
			if len(parts) == 4 {
				a = parseFloatOr(parts[3], 1)
			}
			return RGBAColor{R: uint8(clamp255(r)), G: uint8(clamp255(g)), B: uint8(clamp255(b)), A: a}
		}
	}
	return RGBAColor{A: 1}
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func parseHex(s string) (r, g, b uint8, ok bool) {
	expand := func(c byte) string { return string([]byte{c, c}) }
	switch len(s) {
	case 3:
		s = expand(s[0]) + expand(s[1]) + expand(s[2])
	case 6:
	default:
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
