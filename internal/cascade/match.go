package cascade

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

// Matches reports whether node matches selector. Selectors are compound
// chains (tag, #id, .class in any combination) joined by descendant
// combinators; the rightmost compound must match the node itself and each
// remaining compound must match some ancestor, outermost first.
func Matches(node *xhtml.Node, selector string) bool {
	parts := strings.Fields(selector)
	if len(parts) == 0 || node == nil {
		return false
	}
	if !matchCompound(node, parts[len(parts)-1]) {
		return false
	}
	current := node.Parent
	for i := len(parts) - 2; i >= 0; i-- {
		found := false
		for anc := current; anc != nil; anc = anc.Parent {
			if anc.Type == xhtml.ElementNode && matchCompound(anc, parts[i]) {
				found = true
				current = anc.Parent
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// matchCompound matches a single compound selector (tag#id.class1.class2,
// any piece optional) against one element.
func matchCompound(node *xhtml.Node, sel string) bool {
	if node == nil || node.Type != xhtml.ElementNode || sel == "" {
		return false
	}
	var wantTag, wantID string
	var wantClasses []string

	i := 0
	if sel[i] != '.' && sel[i] != '#' {
		j := i
		for j < len(sel) && sel[j] != '#' && sel[j] != '.' {
			j++
		}
		wantTag = sel[i:j]
		i = j
	}
	for i < len(sel) {
		marker := sel[i]
		j := i + 1
		for j < len(sel) && sel[j] != '.' && sel[j] != '#' {
			j++
		}
		switch marker {
		case '#':
			wantID = sel[i+1 : j]
		case '.':
			wantClasses = append(wantClasses, sel[i+1:j])
		default:
			return false
		}
		i = j
	}

	if wantTag != "" && wantTag != "*" && !strings.EqualFold(wantTag, node.Data) {
		return false
	}
	if wantID != "" && attr(node, "id") != wantID {
		return false
	}
	if len(wantClasses) > 0 {
		have := strings.Fields(attr(node, "class"))
		set := make(map[string]struct{}, len(have))
		for _, c := range have {
			set[c] = struct{}{}
		}
		for _, need := range wantClasses {
			if _, ok := set[need]; !ok {
				return false
			}
		}
	}
	return true
}
