package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xhtml "golang.org/x/net/html"

	"github.com/docweave/pdfgen/internal/parser/css"
	htmlparser "github.com/docweave/pdfgen/internal/parser/html"
)

func parseDoc(t *testing.T, content string) *htmlparser.Document {
	t.Helper()
	doc, err := htmlparser.ParseString(content)
	require.NoError(t, err)
	return doc
}

func findElement(root *xhtml.Node, tag string) *xhtml.Node {
	var found *xhtml.Node
	htmlparser.Walk(root, func(n *xhtml.Node) bool {
		if n.Type == xhtml.ElementNode && n.Data == tag {
			found = n
			return false
		}
		return true
	})
	return found
}

func TestSpecificityWins(t *testing.T) {
	doc := parseDoc(t, `<div class="card" id="main">x</div>`)
	e := NewEngine()
	e.AddStylesheet(css.Parse(`
		div { color: red; }
		.card { color: green; }
		#main { color: blue; }
	`))
	styles := e.ComputeStyles(doc.Root)
	div := findElement(doc.Root, "div")
	require.NotNil(t, div)
	assert.Equal(t, "blue", styles[div]["color"])
}

func TestImportantBeatsSpecificity(t *testing.T) {
	doc := parseDoc(t, `<div id="main">x</div>`)
	e := NewEngine()
	e.AddStylesheet(css.Parse(`
		div { color: red !important; }
		#main { color: blue; }
	`))
	styles := e.ComputeStyles(doc.Root)
	assert.Equal(t, "red", styles[findElement(doc.Root, "div")]["color"])
}

func TestInlineStyleWins(t *testing.T) {
	doc := parseDoc(t, `<div id="main" style="color: purple">x</div>`)
	e := NewEngine()
	e.AddStylesheet(css.Parse(`#main { color: blue; }`))
	styles := e.ComputeStyles(doc.Root)
	assert.Equal(t, "purple", styles[findElement(doc.Root, "div")]["color"])
}

func TestAuthorBeatsUserAgent(t *testing.T) {
	doc := parseDoc(t, `<p>x</p>`)
	e := NewEngine()
	e.AddStylesheet(css.Parse(`p { margin: 0; }`))
	styles := e.ComputeStyles(doc.Root)
	assert.Equal(t, "0", styles[findElement(doc.Root, "p")]["margin"])
}

func TestLaterSheetWinsTies(t *testing.T) {
	doc := parseDoc(t, `<div>x</div>`)
	e := NewEngine()
	e.AddStylesheet(css.Parse(`div { color: red; }`))
	e.AddStylesheet(css.Parse(`div { color: green; }`))
	styles := e.ComputeStyles(doc.Root)
	assert.Equal(t, "green", styles[findElement(doc.Root, "div")]["color"])
}

func TestInheritanceFlowsToChildren(t *testing.T) {
	doc := parseDoc(t, `<div><p><span>x</span></p></div>`)
	e := NewEngine()
	e.AddStylesheet(css.Parse(`div { color: teal; font-size: 20px; }`))
	styles := e.ComputeStyles(doc.Root)

	span := findElement(doc.Root, "span")
	require.NotNil(t, span)
	assert.Equal(t, "teal", styles[span]["color"])
	assert.Equal(t, "20px", styles[span]["font-size"])
	// Non-inherited properties do not flow.
	assert.Empty(t, styles[span]["margin"])
}

func TestUserAgentDisplayDefaults(t *testing.T) {
	doc := parseDoc(t, `<div>a<span>b</span></div><table><tr><td>c</td></tr></table>`)
	e := NewEngine()
	styles := e.ComputeStyles(doc.Root)

	assert.Equal(t, "block", styles[findElement(doc.Root, "div")]["display"])
	assert.Equal(t, "inline", styles[findElement(doc.Root, "span")]["display"])
	assert.Equal(t, "table", styles[findElement(doc.Root, "table")]["display"])
	assert.Equal(t, "table-cell", styles[findElement(doc.Root, "td")]["display"])
}

func TestMatchesSelectors(t *testing.T) {
	doc := parseDoc(t, `<div class="outer"><p class="a b" id="p1">x</p></div>`)
	p := findElement(doc.Root, "p")
	require.NotNil(t, p)

	assert.True(t, Matches(p, "p"))
	assert.True(t, Matches(p, ".a"))
	assert.True(t, Matches(p, ".a.b"))
	assert.True(t, Matches(p, "#p1"))
	assert.True(t, Matches(p, "p.a#p1"))
	assert.True(t, Matches(p, "div p"))
	assert.True(t, Matches(p, ".outer p"))
	assert.True(t, Matches(p, "*"))

	assert.False(t, Matches(p, "span"))
	assert.False(t, Matches(p, ".c"))
	assert.False(t, Matches(p, "#other"))
	assert.False(t, Matches(p, "section p"))
}
