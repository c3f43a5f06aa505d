package api

import "github.com/docweave/pdfgen/internal/font"

// Options configures the HTML to PDF converter.
type Options struct {
	// Page dimensions in points.
	PageWidth  float64
	PageHeight float64
	// Page orientation: portrait or landscape.
	PageOrientation PageOrientation

	// Page margins in points.
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64

	// DPI is the CSS pixel density; 96 gives the browser-standard
	// 96px-per-inch mapping onto PDF's 72pt-per-inch space.
	DPI   float64
	Debug bool

	// Resource search paths for images referenced by the document.
	ResourcePaths []string

	// FontProvider supplies embedded faces and glyph metrics. When nil,
	// text renders with the standard Base14 fonts and estimated metrics.
	FontProvider font.Provider

	// Document metadata.
	Title    string
	Author   string
	Subject  string
	Keywords string

	// UserAgentStylesheet overrides the built-in default stylesheet when
	// non-empty.
	UserAgentStylesheet string
}

// Option mutates Options.
type Option func(*Options)

// PageOrientation selects portrait or landscape.
type PageOrientation string

const (
	PageOrientationPortrait  PageOrientation = "portrait"
	PageOrientationLandscape PageOrientation = "landscape"
)

// DefaultOptions returns A4 portrait at 96 DPI with one-inch margins.
func DefaultOptions() Options {
	return Options{
		PageWidth:       PageSizeA4Width,
		PageHeight:      PageSizeA4Height,
		PageOrientation: PageOrientationPortrait,

		MarginTop:    72,
		MarginRight:  72,
		MarginBottom: 72,
		MarginLeft:   72,

		DPI: 96,
	}
}

// WithPageSize sets the page size in points.
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithMargins sets the page margins in points.
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.MarginTop = top
		o.MarginRight = right
		o.MarginBottom = bottom
		o.MarginLeft = left
	}
}

// WithDPI sets the CSS pixel density.
func WithDPI(dpi float64) Option {
	return func(o *Options) {
		o.DPI = dpi
	}
}

// WithDebug enables warning/debug logging to stderr.
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithResourcePath adds a path to search for images.
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithFontProvider installs the face/metrics source used for embedded
// Unicode text.
func WithFontProvider(p font.Provider) Option {
	return func(o *Options) {
		o.FontProvider = p
	}
}

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author.
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject.
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords.
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// WithUserAgentStylesheet replaces the built-in user agent stylesheet.
func WithUserAgentStylesheet(stylesheet string) Option {
	return func(o *Options) {
		o.UserAgentStylesheet = stylesheet
	}
}

// WithPageOrientation sets the page orientation.
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// Standard page sizes in points (1/72 inch).
const (
	PageSizeA0Width  = 2383.94
	PageSizeA0Height = 3370.39
	PageSizeA1Width  = 1683.78
	PageSizeA1Height = 2383.94
	PageSizeA2Width  = 1190.55
	PageSizeA2Height = 1683.78
	PageSizeA3Width  = 841.89
	PageSizeA3Height = 1190.55
	PageSizeA4Width  = 595.28
	PageSizeA4Height = 841.89
	PageSizeA5Width  = 419.53
	PageSizeA5Height = 595.28
	PageSizeA6Width  = 297.64
	PageSizeA6Height = 419.53

	PageSizeLetterWidth  = 612
	PageSizeLetterHeight = 792
	PageSizeLegalWidth   = 612
	PageSizeLegalHeight  = 1008
)

// WithPageSizeA4 sets the page size to A4.
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4Width, PageSizeA4Height)
}

// WithPageSizeLetter sets the page size to US Letter.
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetterWidth, PageSizeLetterHeight)
}

// WithPageSizeLegal sets the page size to US Legal.
func WithPageSizeLegal() Option {
	return WithPageSize(PageSizeLegalWidth, PageSizeLegalHeight)
}
