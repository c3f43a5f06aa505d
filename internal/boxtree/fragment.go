package boxtree

// InlineRun is one line-occupancy record for a text-emitting box: a box that
// wraps across n lines carries n runs.
type InlineRun struct {
	LineIndex   int
	StartX      float64
	Baseline    float64
	Text        string
	Width       float64 // measured advance width of Text
	LineWidth   float64 // natural width of the whole line this run sits on
	TargetWidth float64 // band width the line was aligned/justified against
	SpaceCount  int
	IsLastLine  bool
}

// FragmentKind tags an InlineFragment's variant.
type FragmentKind int

const (
	FragmentText FragmentKind = iota
	FragmentAtomicInline
)

// InlineFragment is one participant collected by descending an inline
// subtree: either a text-emitting box or an atomic inline measured as an
// opaque box.
type InlineFragment struct {
	Kind FragmentKind

	// Owner is the box this fragment belongs to (a text-fragment's owner,
	// or the atomic-inline box itself).
	Owner Ref

	// Text-fragment payload; how its whitespace collapses is decided by the
	// owner's white-space mode at tokenization time.
	Text string

	// Atomic-inline fields, pre-measured by running the owner's layout
	// strategy ahead of line breaking.
	MarginWidth, MarginHeight float64
	Baseline                  float64
}

// ItemKind tags a LayoutItem's variant.
type ItemKind int

const (
	ItemWord ItemKind = iota
	ItemSpace
	ItemNewline
	ItemBox
)

// LayoutItem is one tokenized unit of inline content fed to the line breaker.
type LayoutItem struct {
	Kind ItemKind

	// Owner is the text-fragment's owner box (word/space/newline items) or
	// the atomic box itself (box items).
	Owner Ref

	Text       string  // word items
	Advance    float64 // word: measured width; box: margin-box width
	SpaceCount int     // space items
	Preserve   bool    // space came from pre/pre-wrap and survives line edges
	LineHeight float64 // box items: the atomic box's line-box contribution
	Baseline   float64 // box items
}
