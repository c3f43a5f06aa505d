package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFace(key string) Face {
	return Face{Key: key, BaseFont: key, UnitsPerEm: 1000}
}

func TestRegisterAssignsSequentialCIDs(t *testing.T) {
	r := NewRegistry()
	face := testFace("Noto")
	r.Register(face, []uint16{40, 41, 40, 42}, []rune("abac"))

	s := r.EnsureSubsetFor(face)
	assert.Equal(t, uint16(0), s.GIDToCID[0])
	assert.Equal(t, uint16(1), s.GIDToCID[40])
	assert.Equal(t, uint16(2), s.GIDToCID[41])
	assert.Equal(t, uint16(3), s.GIDToCID[42])
	assert.Equal(t, []uint16{0, 40, 41, 42}, s.UsedGIDOrder)
}

func TestGIDMapIsInjective(t *testing.T) {
	r := NewRegistry()
	face := testFace("Noto")
	r.Register(face, []uint16{10, 20, 30, 20, 10}, []rune("abcba"))
	s := r.EnsureSubsetFor(face)

	seen := map[uint16]bool{}
	for gid, cid := range s.GIDToCID {
		require.False(t, seen[cid], "cid %d assigned twice", cid)
		seen[cid] = true
		assert.Equal(t, gid, s.CIDToGID[cid])
	}
}

func TestToUnicodeCoversEveryCID(t *testing.T) {
	r := NewRegistry()
	face := testFace("Noto")
	text := "Hello"
	gids := []uint16{41, 70, 77, 77, 80}
	r.Register(face, gids, []rune(text))

	s := r.EnsureSubsetFor(face)
	for _, gid := range gids {
		cid := s.GIDToCID[gid]
		assert.NotEmpty(t, s.ToUnicode[cid], "cid %d has no unicode mapping", cid)
	}
	// 'l' appears twice but maps to one cid with one code point.
	assert.Equal(t, []rune{'l'}, s.ToUnicode[s.GIDToCID[77]])
}

func TestTagStableForIdenticalGlyphSets(t *testing.T) {
	build := func() string {
		r := NewRegistry()
		face := testFace("Noto")
		r.Register(face, []uint16{5, 6, 7}, []rune("abc"))
		return r.EnsureSubsetFor(face).Tag
	}
	tag1, tag2 := build(), build()
	assert.Equal(t, tag1, tag2)
	assert.Len(t, tag1, 6)
	for _, c := range tag1 {
		assert.True(t, c >= 'A' && c <= 'Z', "tag char %q outside A-Z", c)
	}
}

func TestTagChangesWhenGlyphSetGrows(t *testing.T) {
	r := NewRegistry()
	face := testFace("Noto")
	r.Register(face, []uint16{5}, []rune("a"))
	first := r.EnsureSubsetFor(face).Tag
	r.Register(face, []uint16{6}, []rune("b"))
	second := r.EnsureSubsetFor(face).Tag
	assert.NotEqual(t, first, second)
}

func TestRegisterRunFeedsSubset(t *testing.T) {
	r := NewRegistry()
	face := testFace("Noto")
	run := GlyphRun{Face: face, GIDs: []uint16{9, 8}, Text: "hi"}
	r.RegisterRun(run)
	s := r.EnsureSubsetFor(face)
	assert.Contains(t, s.GIDToCID, uint16(9))
	assert.Contains(t, s.GIDToCID, uint16(8))
}

func TestFacesAreIndependent(t *testing.T) {
	r := NewRegistry()
	a, b := testFace("A"), testFace("B")
	r.Register(a, []uint16{1}, []rune("x"))
	r.Register(b, []uint16{1, 2}, []rune("xy"))
	assert.Len(t, r.EnsureSubsetFor(a).GIDToCID, 2) // .notdef + 1
	assert.Len(t, r.EnsureSubsetFor(b).GIDToCID, 3)
}

func TestGlyphSetSortedAndComplete(t *testing.T) {
	r := NewRegistry()
	face := testFace("Noto")
	r.Register(face, []uint16{30, 10, 20, 10}, []rune("cabd"))
	s := r.EnsureSubsetFor(face)
	assert.Equal(t, []uint16{0, 10, 20, 30}, s.GlyphSet())
}

func TestFacesStableOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(testFace("Zeta"), []uint16{1}, []rune("a"))
	r.Register(testFace("Alpha"), []uint16{1}, []rune("a"))
	r.Register(testFace("Mid"), []uint16{1}, []rune("a"))
	keys := func() []string {
		var out []string
		for _, f := range r.Faces() {
			out = append(out, f.Key)
		}
		return out
	}
	require.Equal(t, []string{"Alpha", "Mid", "Zeta"}, keys())
	assert.Equal(t, keys(), keys())
}
