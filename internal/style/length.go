package style

import "errors"

// ErrBadLength is returned when a length carries a non-resolvable calc.
var ErrBadLength = errors.New("style: non-resolvable length")

// LengthKind tags a Length's variant.
type LengthKind int

const (
	LengthAuto LengthKind = iota
	LengthPx
	LengthPercent
	LengthZero
)

// Length is a tagged-variant CSS length value.
type Length struct {
	Kind  LengthKind
	Value float64 // px for LengthPx, 0-100 scale for LengthPercent (percentage points)
	Calc  bool    // true if this length came from an unresolved calc() expression
}

// Px constructs a fixed-pixel length.
func Px(v float64) Length { return Length{Kind: LengthPx, Value: v} }

// Percent constructs a percentage length (e.g. Percent(50) == "50%").
func Percent(v float64) Length { return Length{Kind: LengthPercent, Value: v} }

// Auto is the "auto" length.
var Auto = Length{Kind: LengthAuto}

// Zero is the zero-sentinel length.
var Zero = Length{Kind: LengthZero}

// AutoPolicy controls how Length.Resolve treats LengthAuto.
type AutoPolicy int

const (
	// AutoZero resolves auto to zero.
	AutoZero AutoPolicy = iota
	// AutoReference resolves auto to the reference value (fill available space).
	AutoReference
	// AutoExplicit leaves auto unresolved; callers must special-case it
	// (e.g. block layout's "both margins auto ⇒ centered").
	AutoExplicit
)

// ErrAutoExplicit is returned by Resolve when policy is AutoExplicit and the
// length is auto — callers asking for AutoExplicit must handle this case
// themselves rather than receive a numeric placeholder.
var ErrAutoExplicit = errors.New("style: auto length requires explicit handling")

// Resolve resolves a length against a reference dimension. reference is
// the containing-block width or height the length is
// percentage-relative to (and also what AutoReference falls back to).
func (l Length) Resolve(reference float64, policy AutoPolicy) (float64, error) {
	if l.Calc {
		return 0, ErrBadLength
	}
	switch l.Kind {
	case LengthZero:
		return 0, nil
	case LengthPx:
		return l.Value, nil
	case LengthPercent:
		return reference * l.Value / 100, nil
	case LengthAuto:
		switch policy {
		case AutoZero:
			return 0, nil
		case AutoReference:
			return reference, nil
		default:
			return 0, ErrAutoExplicit
		}
	default:
		return 0, ErrBadLength
	}
}

// ResolveOr resolves l, substituting fallback on any error (including the
// deliberate ErrAutoExplicit) — the common case for callers that don't need
// to special-case auto.
func (l Length) ResolveOr(reference float64, policy AutoPolicy, fallback float64) float64 {
	v, err := l.Resolve(reference, policy)
	if err != nil {
		return fallback
	}
	return v
}

// IsAuto reports whether l is the auto keyword.
func (l Length) IsAuto() bool { return l.Kind == LengthAuto }

// ClampMinMax applies CSS min/max clamping: min wins over max when they
// conflict.
func ClampMinMax(value, min, max float64, hasMin, hasMax bool) float64 {
	if hasMax && value > max {
		value = max
	}
	if hasMin && value < min {
		value = min
	}
	return value
}

// BoxSizingExtras are the non-content box-model contributions along one axis.
type BoxSizingExtras struct {
	PaddingStart, PaddingEnd, BorderStart, BorderEnd float64
}

// Sum returns the total extra width/height box-sizing must add or remove.
func (e BoxSizingExtras) Sum() float64 {
	return e.PaddingStart + e.PaddingEnd + e.BorderStart + e.BorderEnd
}

// AdjustForBoxSizing converts a specified size between content-box and
// border-box interpretations. specifiedIsBorderBox reports
// whether `value` was written under box-sizing:border-box; `mode` is the
// box's actual box-sizing. When they agree, value passes through unchanged;
// aligning sizes between border-box-authored values used as content sizes
// (or vice versa) adds/subtracts extras accordingly.
func AdjustForBoxSizing(value float64, mode BoxSizing, specifiedIsBorderBox bool, extras BoxSizingExtras) float64 {
	wantsContent := mode == BoxSizingContentBox
	if specifiedIsBorderBox && wantsContent {
		return value - extras.Sum()
	}
	if !specifiedIsBorderBox && !wantsContent {
		return value + extras.Sum()
	}
	return value
}
