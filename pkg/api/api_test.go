package api

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/style"
)

const sampleHTML = `
<html>
<head><style>
	h1 { color: #202020; }
	p { text-align: justify; }
	.note { border: 1px solid #cccccc; padding: 8px; background-color: #f8f8f8; }
</style></head>
<body>
	<h1>Quarterly report</h1>
	<p>Revenue grew in every region, with the strongest gains coming from
	the newly opened markets in the second half of the quarter.</p>
	<div class="note">Figures are unaudited.</div>
	<table>
		<tr><th>Region</th><th>Growth</th></tr>
		<tr><td>North</td><td>12%</td></tr>
		<tr><td>South</td><td>9%</td></tr>
	</table>
</body>
</html>`

func TestConvertProducesPDF(t *testing.T) {
	data, err := New().ConvertBytes([]byte(sampleHTML))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "output does not start with a PDF header")
	assert.True(t, bytes.Contains(data, []byte("%%EOF")), "output has no trailer")
}

func TestConvertDeterministic(t *testing.T) {
	first, err := New().ConvertBytes([]byte(sampleHTML))
	require.NoError(t, err)
	second, err := New().ConvertBytes([]byte(sampleHTML))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "two renders of the same input differ")
}

func TestConvertWriter(t *testing.T) {
	var buf bytes.Buffer
	err := New().Convert("<p>hi</p>", &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestLongDocumentPaginates(t *testing.T) {
	var body bytes.Buffer
	body.WriteString("<body>")
	for i := 0; i < 200; i++ {
		body.WriteString("<p>A paragraph that occupies one line of the flowed document.</p>")
	}
	body.WriteString("</body>")

	data, err := New().ConvertBytes(body.Bytes())
	require.NoError(t, err)
	// 200 paragraphs with default margins cannot fit one A4 page: expect
	// several /Type /Page objects beyond the single /Type /Pages node.
	assert.Greater(t, bytes.Count(data, []byte("/Type /Page")), 2)
}

func TestRenderTreeDirect(t *testing.T) {
	arena := boxtree.NewArena()
	cs := style.ComputedStyle{Display: style.DisplayBlock, FontSize: style.Px(16), Opacity: 1}
	root := arena.New("body", cs)
	child := arena.New("#text", style.ComputedStyle{Display: style.DisplayInline, FontSize: style.Px(16), Opacity: 1})
	arena.Get(child).Text = "direct tree input"
	arena.AddChild(root, child)

	data, err := New().RenderTree(arena, root)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestOptionsApply(t *testing.T) {
	opts := DefaultOptions()
	for _, o := range []Option{
		WithPageSizeLetter(),
		WithMargins(10, 20, 30, 40),
		WithDPI(120),
		WithTitle("t"),
		WithPageOrientation(PageOrientationLandscape),
	} {
		o(&opts)
	}
	assert.Equal(t, float64(PageSizeLetterWidth), opts.PageWidth)
	assert.Equal(t, 40.0, opts.MarginLeft)
	assert.Equal(t, 120.0, opts.DPI)
	assert.Equal(t, "t", opts.Title)
	assert.Equal(t, PageOrientationLandscape, opts.PageOrientation)
}

func TestMarginsLargerThanPageFail(t *testing.T) {
	c := NewWithOptions(Options{PageWidth: 100, PageHeight: 100, MarginTop: 60, MarginBottom: 60, DPI: 96})
	_, err := c.ConvertBytes([]byte("<p>x</p>"))
	require.Error(t, err)
}
