package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanEncodeWinAnsi(t *testing.T) {
	assert.True(t, CanEncodeWinAnsi("Hello, world!"))
	assert.True(t, CanEncodeWinAnsi("café — déjà vu")) // Windows-1252 covers these
	assert.False(t, CanEncodeWinAnsi("日本語"))
	assert.False(t, CanEncodeWinAnsi("Ω"))
}

func TestEncodeWinAnsiSubstitutes(t *testing.T) {
	out := EncodeWinAnsi("a日b")
	assert.Equal(t, []byte{'a', '?', 'b'}, out)
}

func TestEscapePDFString(t *testing.T) {
	assert.Equal(t, []byte(`a\(b\)c`), EscapePDFString([]byte("a(b)c")))
	assert.Equal(t, []byte(`back\\slash`), EscapePDFString([]byte(`back\slash`)))
	assert.Equal(t, []byte(`line\nbreak`), EscapePDFString([]byte("line\nbreak")))
}
