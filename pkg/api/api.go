// Package api is the public entry point: it wires the HTML front end, the
// layout engine, the paint-order resolver and the PDF renderer into a
// Converter for HTML input, and exposes the same pipeline for callers that
// already hold a styled box tree.
package api

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docweave/pdfgen/internal/boxtree"
	"github.com/docweave/pdfgen/internal/cascade"
	"github.com/docweave/pdfgen/internal/diag"
	"github.com/docweave/pdfgen/internal/layoutstrategy"
	"github.com/docweave/pdfgen/internal/pagination"
	"github.com/docweave/pdfgen/internal/paint"
	"github.com/docweave/pdfgen/internal/parser/css"
	htmlparser "github.com/docweave/pdfgen/internal/parser/html"
	"github.com/docweave/pdfgen/internal/pdfdoc"
	"github.com/docweave/pdfgen/internal/pdfrender"
	"github.com/docweave/pdfgen/internal/style"

	"github.com/docweave/pdfgen/internal/font"
)

// Converter converts HTML documents to PDF.
type Converter struct {
	options Options
	baseDir string
}

// New creates a converter with default options.
func New() *Converter {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a converter with the given options.
func NewWithOptions(options Options) *Converter {
	return &Converter{options: options}
}

// Convert converts HTML to PDF and writes the result to output.
func (c *Converter) Convert(htmlContent string, output io.Writer) error {
	data, err := c.ConvertBytes([]byte(htmlContent))
	if err != nil {
		return err
	}
	_, err = output.Write(data)
	return err
}

// ConvertBytes converts HTML bytes to PDF bytes.
func (c *Converter) ConvertBytes(htmlContent []byte) ([]byte, error) {
	doc, err := htmlparser.ParseString(string(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	engine := cascade.NewEngine()
	if c.options.UserAgentStylesheet != "" {
		engine.SetUserAgentStylesheet(c.options.UserAgentStylesheet)
	}
	for _, sheet := range doc.InlineStylesheets() {
		engine.AddStylesheet(css.Parse(sheet))
	}
	styles := engine.ComputeStyles(doc.Root)

	arena, root := cascade.BuildTree(doc, styles, c.imageResolver())
	return c.renderTree(arena, root)
}

// ConvertToFile converts HTML to PDF and writes the result to outputPath.
func (c *Converter) ConvertToFile(htmlContent, outputPath string) error {
	data, err := c.ConvertBytes([]byte(htmlContent))
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return nil
}

// ConvertFile converts an HTML file to PDF at outputPath. Relative image
// references resolve against the input file's directory.
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	htmlContent, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}
	c.baseDir = filepath.Dir(inputPath)
	return c.ConvertToFile(string(htmlContent), outputPath)
}

// RenderTree runs layout, pagination, paint ordering and rendering over a
// caller-built box tree and returns the PDF bytes. This is the conversion
// pipeline minus the HTML/CSS front end.
func (c *Converter) RenderTree(arena *boxtree.Arena, root boxtree.Ref) ([]byte, error) {
	return c.renderTree(arena, root)
}

func (c *Converter) renderTree(arena *boxtree.Arena, root boxtree.Ref) ([]byte, error) {
	opts := c.options
	pxPerPt := opts.DPI / 72
	if pxPerPt <= 0 {
		pxPerPt = 96.0 / 72.0
	}
	log := c.logger()

	pageWidthPt, pageHeightPt := opts.PageWidth, opts.PageHeight
	if opts.PageOrientation == PageOrientationLandscape {
		if pageWidthPt < pageHeightPt {
			pageWidthPt, pageHeightPt = pageHeightPt, pageWidthPt
		}
	} else if pageWidthPt > pageHeightPt {
		pageWidthPt, pageHeightPt = pageHeightPt, pageWidthPt
	}

	contentWidthPx := (pageWidthPt - opts.MarginLeft - opts.MarginRight) * pxPerPt
	contentHeightPx := (pageHeightPt - opts.MarginTop - opts.MarginBottom) * pxPerPt
	if contentWidthPx <= 0 || contentHeightPx <= 0 {
		return nil, fmt.Errorf("render: page %gx%gpt leaves no content area inside margins", pageWidthPt, pageHeightPt)
	}

	// Layout in flowed px coordinates, content origin at (0, 0).
	lctx := &layoutstrategy.Context{
		Arena: arena,
		Measurer: func(b *boxtree.Box) font.Measurer {
			return measurerFor(opts.FontProvider, b)
		},
	}
	layoutstrategy.Layout(lctx, root, layoutstrategy.ContainingBlock{Width: contentWidthPx}, nil)

	pages := pagination.Paginate(arena, root, contentHeightPx)
	program := paint.Resolve(arena, []boxtree.Ref{root})

	doc := pdfdoc.NewDocument(pdfdoc.Options{
		Metadata: pdfdoc.Metadata{
			Title:    opts.Title,
			Author:   opts.Author,
			Subject:  opts.Subject,
			Keywords: opts.Keywords,
			Producer: "pdfgen",
		},
	})
	// Register every glyph the document will draw before any page renders,
	// then seal and embed one tagged subset per face. The draw path below
	// resolves the same faces and hits these registrations as cache lookups.
	subsets := font.NewRegistry()
	if opts.FontProvider != nil {
		pdfrender.RegisterTreeText(arena, opts.FontProvider, subsets)
		pdfrender.EmbedSubsets(doc, opts.FontProvider, subsets, log)
	}

	ct := pdfrender.NewCoordinateTransformer(pxPerPt, contentHeightPx).
		WithMargins(opts.MarginLeft, opts.MarginTop)
	for _, page := range pages {
		doc.AddPage(pageWidthPt, pageHeightPt)
		renderer := pdfrender.NewRenderer(arena, doc, ct.WithPageOffset(page.OffsetPx), opts.FontProvider, subsets, log)
		if err := renderer.Run(program); err != nil {
			return nil, fmt.Errorf("render page: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := doc.Finalize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Converter) logger() diag.Logger {
	if c.options.Debug {
		return diag.StdLogger{Verbose: true}
	}
	return diag.Noop
}

// measurerFor binds a box's font properties to a string measurer for the
// inline formatting context.
func measurerFor(provider font.Provider, b *boxtree.Box) font.Measurer {
	sizePx := b.Style.FontSize.ResolveOr(0, style.AutoZero, 16)
	m := font.Measurer{SizePx: sizePx}
	if provider == nil {
		return m
	}
	face, err := provider.Resolve(b.Style.FontFamily, b.Style.FontWeight, b.Style.FontStyle)
	if err != nil {
		return m
	}
	m.Provider = provider
	m.Face = face
	return m
}

// imageResolver reads image references from the input file's directory and
// any configured resource paths. Network fetching is out of scope; a source
// that cannot be found renders as an empty box of its declared size.
func (c *Converter) imageResolver() cascade.ImageResolver {
	dirs := make([]string, 0, len(c.options.ResourcePaths)+1)
	if c.baseDir != "" {
		dirs = append(dirs, c.baseDir)
	}
	dirs = append(dirs, c.options.ResourcePaths...)
	return func(src string) (boxtree.ImageContent, bool) {
		if strings.Contains(src, "://") {
			return boxtree.ImageContent{}, false
		}
		candidates := []string{src}
		for _, dir := range dirs {
			candidates = append(candidates, filepath.Join(dir, src))
		}
		for _, path := range candidates {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			return boxtree.ImageContent{Src: src, Data: data, Format: imageFormat(path)}, true
		}
		return boxtree.ImageContent{}, false
	}
}

func imageFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "PNG"
	case ".jpg", ".jpeg":
		return "JPG"
	case ".gif":
		return "GIF"
	case ".svg":
		return "SVG"
	default:
		return ""
	}
}

// WithOptions returns a new converter with the given options.
func (c *Converter) WithOptions(options Options) *Converter {
	return NewWithOptions(options)
}

// WithOption returns a new converter with one option applied.
func (c *Converter) WithOption(option Option) *Converter {
	newOptions := c.options
	option(&newOptions)
	return NewWithOptions(newOptions)
}

// AddResourcePath returns a converter that also searches path for images.
func (c *Converter) AddResourcePath(path string) *Converter {
	return c.WithOption(WithResourcePath(path))
}

// SetPageSize returns a converter with the given page size in points.
func (c *Converter) SetPageSize(width, height float64) *Converter {
	return c.WithOption(WithPageSize(width, height))
}

// SetMargins returns a converter with the given margins in points.
func (c *Converter) SetMargins(top, right, bottom, left float64) *Converter {
	return c.WithOption(WithMargins(top, right, bottom, left))
}

// SetDPI returns a converter with the given pixel density.
func (c *Converter) SetDPI(dpi float64) *Converter {
	return c.WithOption(WithDPI(dpi))
}

// SetDebug returns a converter with debug logging toggled.
func (c *Converter) SetDebug(debug bool) *Converter {
	return c.WithOption(WithDebug(debug))
}

// SetTitle returns a converter with the document title set.
func (c *Converter) SetTitle(title string) *Converter {
	return c.WithOption(WithTitle(title))
}

// SetAuthor returns a converter with the document author set.
func (c *Converter) SetAuthor(author string) *Converter {
	return c.WithOption(WithAuthor(author))
}

// SetSubject returns a converter with the document subject set.
func (c *Converter) SetSubject(subject string) *Converter {
	return c.WithOption(WithSubject(subject))
}

// SetKeywords returns a converter with the document keywords set.
func (c *Converter) SetKeywords(keywords string) *Converter {
	return c.WithOption(WithKeywords(keywords))
}
