package font

import (
	"crypto/sha1"
	"encoding/base32"
	"sort"

	"github.com/google/uuid"
)

// Subset is one face's sealed glyph subset: a stable six-letter tag plus the
// gid renumbering (cid 0 reserved for .notdef, gid-to-cid map injective) and
// the reverse ToUnicode mapping.
type Subset struct {
	Tag          string
	GIDToCID     map[uint16]uint16
	CIDToGID     map[uint16]uint16
	UsedGIDOrder []uint16 // insertion order, for deterministic W/ToUnicode emission
	ToUnicode    map[uint16][]rune
}

// registryEntry tracks one face's in-progress subset before it is sealed.
type registryEntry struct {
	face    Face
	subset  *Subset
	nextCID uint16
}

// Registry assigns subset cids to glyph ids as glyph runs are registered,
// and tags each face's subset on demand. The Subset handed out is the
// registry's live record: runs registered afterwards still extend it. A glyph
// id appears in a face's subset exactly when some registered run used it.
type Registry struct {
	entries map[string]*registryEntry
	sealed  map[string]string // face key + ":" + tag -> identity of the glyph set last tagged with it
}

// NewRegistry creates an empty subset registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

func (r *Registry) entry(face Face) *registryEntry {
	e, ok := r.entries[face.Key]
	if !ok {
		e = &registryEntry{
			face: face,
			subset: &Subset{
				GIDToCID:  map[uint16]uint16{0: 0},
				CIDToGID:  map[uint16]uint16{0: 0},
				ToUnicode: map[uint16][]rune{},
			},
			nextCID: 1,
		}
		e.subset.UsedGIDOrder = append(e.subset.UsedGIDOrder, 0)
		r.entries[face.Key] = e
	}
	return e
}

// RegisterRun adds a shaped glyph run's gids to its face's subset.
func (r *Registry) RegisterRun(run GlyphRun) {
	r.Register(run.Face, run.GIDs, run.Runes())
}

// Register adds every (gid, code point) pair to face's subset, assigning
// each newly seen gid the next sequential cid starting at 1.
func (r *Registry) Register(face Face, gids []uint16, runes []rune) {
	e := r.entry(face)
	for i, gid := range gids {
		if _, seen := e.subset.GIDToCID[gid]; seen {
			if i < len(runes) {
				r.appendToUnicode(e.subset, gid, runes[i])
			}
			continue
		}
		cid := e.nextCID
		e.nextCID++
		e.subset.GIDToCID[gid] = cid
		e.subset.CIDToGID[cid] = gid
		e.subset.UsedGIDOrder = append(e.subset.UsedGIDOrder, gid)
		if i < len(runes) {
			r.appendToUnicode(e.subset, gid, runes[i])
		}
	}
}

func (r *Registry) appendToUnicode(s *Subset, gid uint16, rn rune) {
	cid := s.GIDToCID[gid]
	for _, existing := range s.ToUnicode[cid] {
		if existing == rn {
			return
		}
	}
	s.ToUnicode[cid] = append(s.ToUnicode[cid], rn)
}

// GlyphSet returns the subset's original glyph ids, sorted ascending.
func (s *Subset) GlyphSet() []uint16 {
	gids := make([]uint16, 0, len(s.GIDToCID))
	for gid := range s.GIDToCID {
		gids = append(gids, gid)
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })
	return gids
}

// Faces returns every face with registered glyphs, sorted by key so callers
// embedding subsets do so in a stable order.
func (r *Registry) Faces() []Face {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	faces := make([]Face, 0, len(keys))
	for _, k := range keys {
		faces = append(faces, r.entries[k].face)
	}
	return faces
}

// EnsureSubsetFor seals and returns face's current subset, computing its
// six-letter tag from a stable hash of the used glyph set so identical sets
// reuse the same tag. A face whose glyph set has grown since an earlier seal
// gets re-tagged; on the rare hash collision between two distinct glyph sets
// a uuid-derived suffix breaks the tie.
func (r *Registry) EnsureSubsetFor(face Face) *Subset {
	e := r.entry(face)
	e.subset.Tag = r.tagFor(face.Key, e.subset)
	return e.subset
}

func (r *Registry) tagFor(faceKey string, s *Subset) string {
	gids := make([]uint16, 0, len(s.GIDToCID))
	for gid := range s.GIDToCID {
		gids = append(gids, gid)
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })

	h := sha1.New()
	h.Write([]byte(faceKey))
	for _, g := range gids {
		h.Write([]byte{byte(g >> 8), byte(g)})
	}
	sum := h.Sum(nil)
	tag := subsetTagFromHash(sum)

	if r.sealed == nil {
		r.sealed = make(map[string]string)
	}
	collisionKey := faceKey + ":" + tag
	if existing, ok := r.sealed[collisionKey]; ok && existing != tagIdentity(gids) {
		// Two different glyph sets landed on the same tag: disambiguate
		// with a uuid-derived suffix rather than silently merging them.
		tag = tag[:4] + uuidSuffix()
	}
	r.sealed[collisionKey] = tagIdentity(gids)
	return tag
}

func tagIdentity(gids []uint16) string {
	b := make([]byte, 0, len(gids)*2)
	for _, g := range gids {
		b = append(b, byte(g>>8), byte(g))
	}
	return string(b)
}

// subsetTagFromHash derives a six-uppercase-letter subset tag
// ("ABCDEF+BaseFont") from a hash; ISO 32000 wants exactly six letters A-Z.
func subsetTagFromHash(sum []byte) string {
	enc := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum)
	out := make([]byte, 6)
	for i := 0; i < 6; i++ {
		c := enc[i%len(enc)]
		if c >= '2' && c <= '7' {
			// base32's digit range 2-7 has no letter equivalent; fold it
			// into A-F so the tag is pure A-Z as PDF readers expect.
			c = 'A' + (c - '2')
		}
		out[i] = c
	}
	return string(out)
}

func uuidSuffix() string {
	id := uuid.New()
	s := id.String()
	out := make([]byte, 2)
	for i := 0; i < 2; i++ {
		c := s[len(s)-1-i]
		if c >= '0' && c <= '9' {
			c = 'A' + (c - '0')
		} else {
			c = 'A' + ((c - 'a') % 26)
		}
		out[i] = c
	}
	return string(out)
}
