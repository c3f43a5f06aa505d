package font

import "golang.org/x/text/encoding/charmap"

// CanEncodeWinAnsi reports whether every code point of s is representable in
// the WinAnsi (Windows-1252) single-byte encoding. Text that passes can be
// drawn with a Base14 Type1 font; anything else needs an embedded
// Identity-H face.
func CanEncodeWinAnsi(s string) bool {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

// EncodeWinAnsi converts s to WinAnsi bytes, substituting '?' for anything
// unrepresentable. Callers are expected to have checked CanEncodeWinAnsi
// when substitution is not acceptable.
func EncodeWinAnsi(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

// EscapePDFString escapes s for inclusion in a PDF literal string: backslash,
// parentheses and CR/LF get backslash escapes.
func EscapePDFString(s []byte) []byte {
	out := make([]byte, 0, len(s)+8)
	for _, b := range s {
		switch b {
		case '\\', '(', ')':
			out = append(out, '\\', b)
		case '\r':
			out = append(out, '\\', 'r')
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, b)
		}
	}
	return out
}
