package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLengthResolve(t *testing.T) {
	tests := []struct {
		name      string
		length    Length
		reference float64
		policy    AutoPolicy
		want      float64
		wantErr   error
	}{
		{name: "px ignores reference", length: Px(42), reference: 100, policy: AutoZero, want: 42},
		{name: "percent of reference", length: Percent(50), reference: 300, policy: AutoZero, want: 150},
		{name: "zero sentinel", length: Zero, reference: 300, policy: AutoReference, want: 0},
		{name: "auto to zero", length: Auto, reference: 300, policy: AutoZero, want: 0},
		{name: "auto to reference", length: Auto, reference: 300, policy: AutoReference, want: 300},
		{name: "auto explicit errors", length: Auto, reference: 300, policy: AutoExplicit, wantErr: ErrAutoExplicit},
		{name: "calc fails", length: Length{Kind: LengthPx, Calc: true}, reference: 100, policy: AutoZero, wantErr: ErrBadLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.length.Resolve(tt.reference, tt.policy)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestResolveOrFallsBack(t *testing.T) {
	assert.Equal(t, 7.0, Auto.ResolveOr(100, AutoExplicit, 7))
	assert.Equal(t, 25.0, Percent(25).ResolveOr(100, AutoZero, 7))
}

func TestClampMinMax(t *testing.T) {
	// min wins over max when they conflict
	assert.Equal(t, 200.0, ClampMinMax(150, 200, 100, true, true))
	assert.Equal(t, 100.0, ClampMinMax(150, 0, 100, false, true))
	assert.Equal(t, 150.0, ClampMinMax(150, 0, 0, false, false))
}

func TestAdjustForBoxSizing(t *testing.T) {
	extras := BoxSizingExtras{PaddingStart: 10, PaddingEnd: 10, BorderStart: 2, BorderEnd: 2}
	require.Equal(t, 24.0, extras.Sum())

	// A border-box-authored 100px used as a content size loses the extras.
	assert.Equal(t, 76.0, AdjustForBoxSizing(100, BoxSizingContentBox, true, extras))
	// A content-box-authored 100px used as a border-box size gains them.
	assert.Equal(t, 124.0, AdjustForBoxSizing(100, BoxSizingBorderBox, false, extras))
	// Matching interpretations pass through.
	assert.Equal(t, 100.0, AdjustForBoxSizing(100, BoxSizingBorderBox, true, extras))
	assert.Equal(t, 100.0, AdjustForBoxSizing(100, BoxSizingContentBox, false, extras))
}
