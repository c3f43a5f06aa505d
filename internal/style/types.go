// Package style defines the computed-style value types the layout engine
// reads, the length resolver, and the adapter that converts raw cascade
// output into typed values.
package style

// Display is the box's computed display mode.
type Display int

const (
	DisplayNone Display = iota
	DisplayBlock
	DisplayInline
	DisplayInlineBlock
	DisplayInlineFlex
	DisplayInlineGrid
	DisplayInlineTable
	DisplayFlex
	DisplayGrid
	DisplayTable
	DisplayTableRow
	DisplayTableRowGroup
	DisplayTableHeaderGroup
	DisplayTableFooterGroup
	DisplayTableCell
	DisplayFlowRoot
)

// Position is the box's positioning scheme.
type Position int

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

// Float is the box's float side.
type Float int

const (
	FloatNone Float = iota
	FloatLeft
	FloatRight
)

// Overflow is an overflow-x/overflow-y value.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowAuto
	OverflowScroll
	OverflowClip
)

// WhiteSpace is the white-space property.
type WhiteSpace int

const (
	WhiteSpaceNormal WhiteSpace = iota
	WhiteSpaceNowrap
	WhiteSpacePre
	WhiteSpacePreWrap
	WhiteSpacePreLine
)

// BoxSizing is the box-sizing property.
type BoxSizing int

const (
	BoxSizingContentBox BoxSizing = iota
	BoxSizingBorderBox
)

// FlexDirection is the flex-direction property.
type FlexDirection int

const (
	FlexDirectionRow FlexDirection = iota
	FlexDirectionRowReverse
	FlexDirectionColumn
	FlexDirectionColumnReverse
)

// FlexWrap is the flex-wrap property.
type FlexWrap int

const (
	FlexNoWrap FlexWrap = iota
	FlexWrapWrap
	FlexWrapReverse
)

// Justify is justify-content / justify-self-like alignment along the main axis.
type Justify int

const (
	JustifyFlexStart Justify = iota
	JustifyFlexEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// Align is align-items/align-self/align-content.
type Align int

const (
	AlignStretch Align = iota
	AlignFlexStart
	AlignFlexEnd
	AlignCenter
	AlignSpaceBetween
	AlignSpaceAround
	AlignSpaceEvenly
	AlignBaseline
)

// TextAlign is the text-align property.
type TextAlign int

const (
	TextAlignStart TextAlign = iota
	TextAlignLeft
	TextAlignCenter
	TextAlignRight
	TextAlignEnd
	TextAlignJustify
)

// TextTransform is the text-transform property.
type TextTransform int

const (
	TextTransformNone TextTransform = iota
	TextTransformUppercase
	TextTransformLowercase
	TextTransformCapitalize
)

// TextDecorationLine is a bit set of underline/overline/line-through.
type TextDecorationLine uint8

const (
	TextDecorationUnderline TextDecorationLine = 1 << iota
	TextDecorationOverline
	TextDecorationLineThrough
)

// BorderModel is the border-collapse property.
type BorderModel int

const (
	BorderSeparate BorderModel = iota
	BorderCollapse
)

// FontWeight mirrors the CSS numeric weight scale (100-900); named weights
// resolve to these upstream of the core.
type FontWeight int

const (
	FontWeightNormal FontWeight = 400
	FontWeightBold   FontWeight = 700
)

// FontStyleKind is italic/oblique/normal.
type FontStyleKind int

const (
	FontStyleNormal FontStyleKind = iota
	FontStyleItalic
	FontStyleOblique
)

// Shadow is one entry of a text-shadow list.
type Shadow struct {
	OffsetX, OffsetY, Blur float64
	Color                  RGBAColor
}

// Sides groups the four edges of a box-model property (margin/padding/border/inset).
type Sides struct {
	Top, Right, Bottom, Left Length
}

// Corners groups the four corner radii of border-radius, clockwise from
// top-left.
type Corners struct {
	TopLeft, TopRight, BottomRight, BottomLeft Length
}

// BorderEdge describes one border side's width/style/color.
type BorderEdge struct {
	Width Length
	Color RGBAColor
	Style string // "solid", "dashed", ... — opaque to the core beyond presence/absence
}

// RGBAColor is a resolved color value.
type RGBAColor struct {
	R, G, B uint8
	A       float64
}

// ZIndex is either "auto" or an explicit integer.
type ZIndex struct {
	Auto  bool
	Value int
}

// FlexItem groups the per-item flex properties.
type FlexItem struct {
	Grow, Shrink float64
	Basis        Length
	AlignSelf    *Align // nil => use container's align-items
}

// ComputedStyle is the subset of computed style properties layout and
// paint read. It is produced by the cascade (or handed in directly by a
// caller with its own styling pass) and consumed read-only by every layout
// strategy.
type ComputedStyle struct {
	Display     Display
	Position    Position
	Float       Float
	OverflowX   Overflow
	OverflowY   Overflow
	WhiteSpace  WhiteSpace
	BoxSizing   BoxSizing
	BorderModel BorderModel

	FlexDirection  FlexDirection
	FlexWrap       FlexWrap
	JustifyContent Justify
	AlignItems     Align
	AlignContent   Align
	RowGap         Length
	ColumnGap      Length
	Flex           FlexItem

	Width, Height       Length
	MinWidth, MinHeight Length
	MaxWidth, MaxHeight Length
	BorderRadius        Corners
	Margin              Sides
	Padding             Sides
	Border              struct{ Top, Right, Bottom, Left BorderEdge }
	Inset               Sides // top/right/bottom/left
	TextIndent          Length
	LineHeight          Length
	FontSize            Length
	LetterSpacing       Length
	WordSpacing         Length

	FontFamily      []string
	FontWeight      FontWeight
	FontStyle       FontStyleKind
	FontVariant     string
	TextTransform   TextTransform
	TextAlign       TextAlign
	DecorationLines TextDecorationLine
	TextShadows     []Shadow
	Color           RGBAColor
	BackgroundColor RGBAColor
	BackgroundImage *Gradient
	BoxShadows      []BoxShadow

	ZIndex  ZIndex
	Opacity float64
	Filter  []FilterEntry
}

// GradientStop is one color stop of a linear/radial gradient, at an
// optional normalized offset.
type GradientStop struct {
	Offset    float64 // [0,1]; HasOffset false means "interpolate from neighbors"
	HasOffset bool
	Color     RGBAColor
}

// Gradient is a resolved background-image gradient. Axis points are
// already resolved against the box's geometry by whoever built the style;
// the renderer only normalizes stops and builds the shading.
type Gradient struct {
	Radial         bool
	X0, Y0, X1, Y1 float64 // axis endpoints (radial: start/end circle centers)
	R0, R1         float64 // radial: start/end circle radii
	Stops          []GradientStop
}

// BoxShadow is one box-shadow list entry.
type BoxShadow struct {
	OffsetX, OffsetY, Blur, Spread float64
	Inset                          bool
	Color                          RGBAColor
}

// FilterEntry is one CSS filter-list entry, understood for stacking
// context and opacity purposes.
type FilterEntry struct {
	Kind  string // "opacity", "blur", ...
	Value float64
}

// EffectiveOpacityFactor returns the opacity contribution of the filter
// list's opacity() entries, multiplied together.
func (s ComputedStyle) EffectiveOpacityFactor() float64 {
	factor := 1.0
	for _, f := range s.Filter {
		if f.Kind == "opacity" {
			factor *= f.Value
		}
	}
	return factor
}

// EstablishesStackingContext reports whether this style creates a new
// stacking context root.
func (s ComputedStyle) EstablishesStackingContext() bool {
	if (s.Position == PositionAbsolute || s.Position == PositionFixed || s.Position == PositionRelative || s.Position == PositionSticky) && !s.ZIndex.Auto {
		return true
	}
	effOpacity := s.Opacity * s.EffectiveOpacityFactor()
	if effOpacity < 1 {
		return true
	}
	if len(s.Filter) > 0 {
		return true
	}
	return false
}

// EstablishesBFC reports whether this style establishes a new block
// formatting context.
func (s ComputedStyle) EstablishesBFC() bool {
	if s.Float != FloatNone {
		return true
	}
	if s.Position == PositionAbsolute || s.Position == PositionFixed {
		return true
	}
	switch s.OverflowX {
	case OverflowHidden, OverflowAuto, OverflowScroll, OverflowClip:
		return true
	}
	switch s.OverflowY {
	case OverflowHidden, OverflowAuto, OverflowScroll, OverflowClip:
		return true
	}
	switch s.Display {
	case DisplayInlineBlock, DisplayTable, DisplayInlineTable, DisplayFlowRoot:
		return true
	}
	return false
}
