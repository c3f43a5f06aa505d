package cascade

// UserAgentStylesheet is the default stylesheet applied beneath author
// styles. It carries the display defaults box construction relies on plus
// the conventional margins and text defaults.
const UserAgentStylesheet = `
	html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, li, dl, dt, dd,
	blockquote, pre, address, article, aside, footer, header, main, nav,
	section, figure, figcaption, hr, form, fieldset { display: block; }
	span, a, b, strong, i, em, u, s, q, code, kbd, samp, small, sub, sup,
	abbr, cite, label { display: inline; }
	img { display: inline-block; }
	table { display: table; border-collapse: separate; }
	thead { display: table-header-group; }
	tbody { display: table-row-group; }
	tfoot { display: table-footer-group; }
	tr { display: table-row; }
	td, th { display: table-cell; }

	body { margin: 8px; font-size: 16px; line-height: 20px; }
	h1 { font-size: 32px; margin: 21px 0; font-weight: bold; }
	h2 { font-size: 24px; margin: 20px 0; font-weight: bold; }
	h3 { font-size: 19px; margin: 19px 0; font-weight: bold; }
	h4 { margin: 21px 0; font-weight: bold; }
	h5 { font-size: 13px; margin: 22px 0; font-weight: bold; }
	h6 { font-size: 11px; margin: 25px 0; font-weight: bold; }
	p { margin: 16px 0; }
	ul, ol { margin: 16px 0; padding-left: 40px; }
	blockquote { margin: 16px 40px; }
	a { color: #0000EE; text-decoration: underline; }
	b, strong { font-weight: bold; }
	i, em { font-style: italic; }
	u { text-decoration: underline; }
	s { text-decoration: line-through; }
	pre, code, kbd, samp { font-family: monospace; }
	pre { white-space: pre; margin: 16px 0; }
	center { display: block; text-align: center; }
	th, td { border: 1px solid #dddddd; padding: 4px; }
	th { background-color: #f2f2f2; font-weight: bold; text-align: center; }
`
