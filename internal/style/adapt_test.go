package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptDefaults(t *testing.T) {
	cs := Adapt(RawDeclarations{})
	assert.Equal(t, DisplayBlock, cs.Display)
	assert.Equal(t, PositionStatic, cs.Position)
	assert.Equal(t, 1.0, cs.Opacity)
	assert.True(t, cs.ZIndex.Auto)
	assert.True(t, cs.Width.IsAuto())
	assert.Equal(t, 16.0, cs.FontSize.ResolveOr(0, AutoZero, 0))
}

func TestAdaptDisplayAndPosition(t *testing.T) {
	cs := Adapt(RawDeclarations{"display": "inline-flex", "position": "absolute", "z-index": "3"})
	assert.Equal(t, DisplayInlineFlex, cs.Display)
	assert.Equal(t, PositionAbsolute, cs.Position)
	require.False(t, cs.ZIndex.Auto)
	assert.Equal(t, 3, cs.ZIndex.Value)
}

func TestAdaptMarginShorthand(t *testing.T) {
	tests := []struct {
		value                    string
		top, right, bottom, left float64
	}{
		{"10px", 10, 10, 10, 10},
		{"10px 20px", 10, 20, 10, 20},
		{"10px 20px 30px", 10, 20, 30, 20},
		{"10px 20px 30px 40px", 10, 20, 30, 40},
	}
	for _, tt := range tests {
		cs := Adapt(RawDeclarations{"margin": tt.value})
		assert.Equal(t, tt.top, cs.Margin.Top.ResolveOr(0, AutoZero, -1), tt.value)
		assert.Equal(t, tt.right, cs.Margin.Right.ResolveOr(0, AutoZero, -1), tt.value)
		assert.Equal(t, tt.bottom, cs.Margin.Bottom.ResolveOr(0, AutoZero, -1), tt.value)
		assert.Equal(t, tt.left, cs.Margin.Left.ResolveOr(0, AutoZero, -1), tt.value)
	}
}

func TestAdaptColors(t *testing.T) {
	cs := Adapt(RawDeclarations{"color": "#ff0000", "background-color": "rgba(0, 128, 255, 0.5)"})
	assert.Equal(t, RGBAColor{R: 255, A: 1}, cs.Color)
	assert.Equal(t, uint8(0), cs.BackgroundColor.R)
	assert.Equal(t, uint8(128), cs.BackgroundColor.G)
	assert.Equal(t, uint8(255), cs.BackgroundColor.B)
	assert.InDelta(t, 0.5, cs.BackgroundColor.A, 1e-9)

	short := Adapt(RawDeclarations{"color": "#abc"})
	assert.Equal(t, RGBAColor{R: 0xaa, G: 0xbb, B: 0xcc, A: 1}, short.Color)
}

func TestAdaptBorderShorthand(t *testing.T) {
	cs := Adapt(RawDeclarations{"border": "2px solid #000000", "border-left-width": "5px"})
	assert.Equal(t, 2.0, cs.Border.Top.Width.ResolveOr(0, AutoZero, -1))
	assert.Equal(t, "solid", cs.Border.Top.Style)
	assert.Equal(t, 5.0, cs.Border.Left.Width.ResolveOr(0, AutoZero, -1))
}

func TestAdaptFontProperties(t *testing.T) {
	cs := Adapt(RawDeclarations{
		"font-family": `"Noto Sans", Helvetica, sans-serif`,
		"font-weight": "700",
		"font-style":  "italic",
	})
	assert.Equal(t, []string{"Noto Sans", "Helvetica", "sans-serif"}, cs.FontFamily)
	assert.Equal(t, FontWeightBold, cs.FontWeight)
	assert.Equal(t, FontStyleItalic, cs.FontStyle)
}

func TestAdaptDecorationAndTransform(t *testing.T) {
	cs := Adapt(RawDeclarations{"text-decoration": "underline line-through", "text-transform": "uppercase"})
	assert.NotZero(t, cs.DecorationLines&TextDecorationUnderline)
	assert.NotZero(t, cs.DecorationLines&TextDecorationLineThrough)
	assert.Zero(t, cs.DecorationLines&TextDecorationOverline)
	assert.Equal(t, TextTransformUppercase, cs.TextTransform)

	none := Adapt(RawDeclarations{"text-decoration": "none"})
	assert.Zero(t, none.DecorationLines)
}

func TestAdaptBorderRadius(t *testing.T) {
	cs := Adapt(RawDeclarations{"border-radius": "4px 8px"})
	assert.Equal(t, 4.0, cs.BorderRadius.TopLeft.ResolveOr(0, AutoZero, -1))
	assert.Equal(t, 8.0, cs.BorderRadius.TopRight.ResolveOr(0, AutoZero, -1))
	assert.Equal(t, 4.0, cs.BorderRadius.BottomRight.ResolveOr(0, AutoZero, -1))
	assert.Equal(t, 8.0, cs.BorderRadius.BottomLeft.ResolveOr(0, AutoZero, -1))
}

func TestEstablishesStackingContext(t *testing.T) {
	positioned := Adapt(RawDeclarations{"position": "relative", "z-index": "1"})
	assert.True(t, positioned.EstablishesStackingContext())

	zAuto := Adapt(RawDeclarations{"position": "relative"})
	assert.False(t, zAuto.EstablishesStackingContext())

	translucent := Adapt(RawDeclarations{"opacity": "0.5"})
	assert.True(t, translucent.EstablishesStackingContext())

	plain := Adapt(RawDeclarations{})
	assert.False(t, plain.EstablishesStackingContext())
}

func TestEstablishesBFC(t *testing.T) {
	assert.True(t, Adapt(RawDeclarations{"float": "left"}).EstablishesBFC())
	assert.True(t, Adapt(RawDeclarations{"overflow": "hidden"}).EstablishesBFC())
	assert.True(t, Adapt(RawDeclarations{"display": "inline-block"}).EstablishesBFC())
	assert.True(t, Adapt(RawDeclarations{"display": "flow-root"}).EstablishesBFC())
	assert.False(t, Adapt(RawDeclarations{}).EstablishesBFC())
}

func TestEffectiveOpacityFactor(t *testing.T) {
	cs := ComputedStyle{Opacity: 1, Filter: []FilterEntry{{Kind: "opacity", Value: 0.5}, {Kind: "blur", Value: 3}, {Kind: "opacity", Value: 0.5}}}
	assert.InDelta(t, 0.25, cs.EffectiveOpacityFactor(), 1e-9)
}
